package app

import (
	"context"
	"time"

	"staybook/internal/domain"
)

// SessionService keeps each user's search form state server-side with
// explicit load/save at session boundaries.
type SessionService struct {
	cache domain.Cache
	ttl   time.Duration
}

func NewSessionService(c domain.Cache, ttl time.Duration) *SessionService {
	return &SessionService{cache: c, ttl: ttl}
}

func prefsKey(userEmail string) string { return "prefs:" + userEmail }

func (s *SessionService) LoadPrefs(ctx context.Context, userEmail string) (domain.SearchPrefs, bool, error) {
	var p domain.SearchPrefs
	ok, err := s.cache.Get(ctx, prefsKey(userEmail), &p)
	return p, ok, err
}

func (s *SessionService) SavePrefs(ctx context.Context, userEmail string, p domain.SearchPrefs) error {
	return s.cache.Set(ctx, prefsKey(userEmail), p, int(s.ttl.Seconds()))
}

func (s *SessionService) ClearPrefs(ctx context.Context, userEmail string) error {
	return s.cache.Del(ctx, prefsKey(userEmail))
}
