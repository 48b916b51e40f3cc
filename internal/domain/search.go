package domain

type Coords struct{ Lat, Lon float64 }

type Region struct {
	RegionID    string  `json:"region_id"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	CountryCode string  `json:"country_code"`
	Coords      *Coords `json:"coords,omitempty"`
}

// PriceRange is a user-supplied nightly price filter, both bounds
// non-negative with Min <= Max.
type PriceRange struct {
	Min int `json:"price_min"`
	Max int `json:"price_max"`
}

type HotelCriteria struct {
	RegionID      string
	Domain        string
	Locale        string
	CheckinDate   string
	CheckoutDate  string
	Adults        int
	PriceRange    *PriceRange
	Accessibility []string
	Amenities     []string
	MealPlans     []string
	LodgingTypes  []string
	PaymentTypes  []string
	AvailableOnly bool
	SortOrder     string
}

type RoomCriteria struct {
	Domain       string
	Locale       string
	CheckinDate  string
	CheckoutDate string
	Adults       int
}

type HotelSummary struct {
	HotelID       string   `json:"hotel_id"`
	Name          string   `json:"name"`
	Image         *Image   `json:"image,omitempty"`
	Coords        *Coords  `json:"coords,omitempty"`
	PricePerNight *Money   `json:"price_per_night,omitempty"`
	ReviewScore   *float64 `json:"review_score,omitempty"`
}

// HotelSearchResult carries the matched summaries plus the aggregate
// nightly price range across the whole matched set.
type HotelSearchResult struct {
	Summaries  []HotelSummary    `json:"summaries"`
	PriceRange *AggregatePriceRange `json:"price_range,omitempty"`
}

type AggregatePriceRange struct {
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

type RoomOffer struct {
	HotelID       string  `json:"hotel_id"`
	RoomID        string  `json:"room_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	GalleryImages []Image `json:"gallery_images"`
	PricePerNight Money   `json:"price_per_night"`
}

// SearchPrefs is the session-scoped search form state, loaded and saved
// explicitly at session boundaries rather than kept as ambient client
// state.
type SearchPrefs struct {
	Query         string      `json:"query"`
	Domain        string      `json:"domain"`
	Locale        string      `json:"locale"`
	RegionID      string      `json:"region_id"`
	CheckinDate   string      `json:"checkin_date"`
	CheckoutDate  string      `json:"checkout_date"`
	Adults        int         `json:"adults"`
	PriceRange    *PriceRange `json:"price_range,omitempty"`
	SortOrder     string      `json:"sort_order"`
	Accessibility []string    `json:"accessibility,omitempty"`
	Amenities     []string    `json:"amenities,omitempty"`
	MealPlans     []string    `json:"meal_plans,omitempty"`
	LodgingTypes  []string    `json:"lodging_types,omitempty"`
	PaymentTypes  []string    `json:"payment_types,omitempty"`
	AvailableOnly bool        `json:"available_only"`
}
