package domain

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("staybook: not found")

// ConflictError is returned when a new reservation would overlap a
// non-cancelled reservation the user already holds in a different hotel.
// It carries the conflicting booking so callers can offer navigation to it.
type ConflictError struct {
	BookingID string
	HotelID   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping reservation %s at hotel %s", e.BookingID, e.HotelID)
}

type ProviderClient interface {
	SearchRegions(ctx context.Context, query, domain, locale string) ([]Region, error)
	SearchHotels(ctx context.Context, c HotelCriteria) (HotelSearchResult, error)
	SearchRoomOffers(ctx context.Context, hotelID string, c RoomCriteria) ([]RoomOffer, error)

	// Snapshot fetches used by the backfill path.
	FetchHotelSnapshot(ctx context.Context, hotelID, domain, locale string) (CachedHotel, error)
	FetchRoomOfferSnapshot(ctx context.Context, hotelID, roomID string, c RoomCriteria) (CachedRoomOffer, error)
}

// SnapshotStore is the durable response cache. Absence is an expected
// outcome, reported via the bool, never as an error. Puts are whole-value
// upserts.
type SnapshotStore interface {
	GetHotel(ctx context.Context, hotelID string) (CachedHotel, bool, error)
	GetRoomOffer(ctx context.Context, roomID string) (CachedRoomOffer, bool, error)
	PutHotel(ctx context.Context, h CachedHotel) error
	PutRoomOffer(ctx context.Context, o CachedRoomOffer) error
}

// ReservationLedger owns reservation rows. CreateReservation performs the
// overlap check and the insert atomically and returns *ConflictError when
// the invariant would be violated. All lookups are scoped to the owning
// user: a booking id belonging to someone else reads as absent.
type ReservationLedger interface {
	CreateReservation(ctx context.Context, r Reservation) (Reservation, error)
	ListReservations(ctx context.Context, userEmail string) ([]Reservation, error)
	GetReservation(ctx context.Context, bookingID, userEmail string) (Reservation, bool, error)
	UpdateAdults(ctx context.Context, bookingID, userEmail string, adults int) (Reservation, error)
	CancelReservation(ctx context.Context, bookingID, userEmail string) (Reservation, error)
	VerifyReservation(ctx context.Context, bookingID, userEmail string) (Reservation, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
