package domain

import "time"

type Address struct {
	Line        string `json:"line"`
	City        string `json:"city"`
	Province    string `json:"province"`
	CountryCode string `json:"country_code"`
}

type Image struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type Money struct {
	Amount         float64 `json:"amount"`
	CurrencyCode   string  `json:"currency_code"`
	CurrencySymbol string  `json:"currency_symbol"`
}

// CachedHotel is a verbatim snapshot of one provider hotel response,
// keyed by the provider-issued hotel identifier. Overwritten whole on
// refresh, never merged field by field.
type CachedHotel struct {
	HotelID     string    `json:"hotel_id"`
	Tagline     string    `json:"tagline"`
	Address     Address   `json:"address"`
	Images      []Image   `json:"images"`
	Description string    `json:"description"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// CachedRoomOffer is the room-offer counterpart of CachedHotel.
// Description holds provider HTML that has already passed the
// sanitization boundary before being stored.
type CachedRoomOffer struct {
	RoomID        string    `json:"room_id"`
	HotelID       string    `json:"hotel_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	GalleryImages []Image   `json:"gallery_images"`
	PricePerNight Money     `json:"price_per_night"`
	FetchedAt     time.Time `json:"fetched_at"`
}
