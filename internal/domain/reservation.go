package domain

import "time"

const DateLayout = "2006-01-02"

// Reservation is the ledger record for one booking. Cancellation is a
// soft flag; rows are never physically deleted.
type Reservation struct {
	ID           string    `json:"id"`
	UserEmail    string    `json:"user_email"`
	HotelID      string    `json:"hotel_id"`
	RoomID       string    `json:"room_id"`
	CheckinDate  string    `json:"checkin_date"`
	CheckoutDate string    `json:"checkout_date"`
	NumDays      int       `json:"num_days"`
	Adults       int       `json:"adults"`
	RoomCost     float64   `json:"room_cost"`
	Verified     bool      `json:"verified"`
	IsCancelled  bool      `json:"is_cancelled"`
	CreatedAt    time.Time `json:"created_at"`
}

// Nights returns the number of nights between two YYYY-MM-DD dates.
// Inputs are assumed pre-validated; bad input yields 0.
func Nights(checkin, checkout string) int {
	in, err1 := time.Parse(DateLayout, checkin)
	out, err2 := time.Parse(DateLayout, checkout)
	if err1 != nil || err2 != nil || out.Before(in) {
		return 0
	}
	return int(out.Sub(in).Hours() / 24)
}

// DatesOverlap reports whether the half-open ranges [aIn, aOut) and
// [bIn, bOut) intersect.
func DatesOverlap(aIn, aOut, bIn, bOut string) bool {
	return aIn < bOut && bIn < aOut
}
