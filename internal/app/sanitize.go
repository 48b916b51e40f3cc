package app

import "github.com/microcosm-cc/bluemonday"

// Sanitizer is the boundary for HTML-bearing provider fields. Everything
// that crosses into the snapshot store or out to a caller has passed
// through it, so stored snapshots are safe to render as-is.
type Sanitizer struct{ p *bluemonday.Policy }

func NewSanitizer() *Sanitizer { return &Sanitizer{p: bluemonday.UGCPolicy()} }

func (s *Sanitizer) HTML(in string) string {
	if in == "" {
		return ""
	}
	return s.p.Sanitize(in)
}
