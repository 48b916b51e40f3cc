package app

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"staybook/internal/adapters/observability"
	"staybook/internal/adapters/rapid"
	"staybook/internal/domain"
)

// AttemptState is the per-attempt workflow state. Collecting means the
// attempt did not leave the input phase (validation rejected it);
// Conflict, Committed and Failed are terminal for the attempt.
type AttemptState string

const (
	StateCollecting AttemptState = "collecting"
	StateValidating AttemptState = "validating"
	StateConflict   AttemptState = "conflict"
	StateReserving  AttemptState = "reserving"
	StateCommitted  AttemptState = "committed"
	StateFailed     AttemptState = "failed"
)

type BookingRequest struct {
	UserEmail    string  `json:"-"`
	HotelID      string  `json:"hotel_id"`
	RoomID       string  `json:"room_id"`
	CheckinDate  string  `json:"checkin_date"`
	CheckoutDate string  `json:"checkout_date"`
	Adults       int     `json:"adults"`
	NightlyRate  float64 `json:"nightly_rate"`
}

type BookingResult struct {
	State             AttemptState        `json:"state"`
	Reservation       *domain.Reservation `json:"reservation,omitempty"`
	ConflictBookingID string              `json:"conflict_booking_id,omitempty"`
	ConflictHotelID   string              `json:"conflict_hotel_id,omitempty"`
	ValidationErrors  []string            `json:"validation_errors,omitempty"`
}

// BookingService orchestrates one booking attempt against the ledger and
// exposes the ledger's read/update operations to the presentation layer.
type BookingService struct {
	ledger domain.ReservationLedger
}

func NewBookingService(l domain.ReservationLedger) *BookingService {
	return &BookingService{ledger: l}
}

// Reserve walks the attempt through Validating and Reserving. Validation
// and conflict outcomes are states in the result, not errors; only
// unexpected ledger failures return a non-nil error (with StateFailed),
// and the caller returns to Collecting.
func (b *BookingService) Reserve(ctx context.Context, req BookingRequest) (BookingResult, error) {
	msgs := b.validate(req)
	if len(msgs) > 0 {
		observability.ObserveBooking("invalid")
		return BookingResult{State: StateCollecting, ValidationErrors: msgs}, nil
	}

	// Fast pre-check against the user's current reservations. The ledger
	// re-checks under a transaction; this pass only exists to answer the
	// common case without taking row locks.
	existing, err := b.ledger.ListReservations(ctx, req.UserEmail)
	if err != nil {
		observability.ObserveBooking("failed")
		return BookingResult{State: StateFailed}, err
	}
	for _, r := range existing {
		if r.IsCancelled || r.HotelID == req.HotelID {
			continue
		}
		if domain.DatesOverlap(req.CheckinDate, req.CheckoutDate, r.CheckinDate, r.CheckoutDate) {
			observability.ObserveBooking("conflict")
			return BookingResult{State: StateConflict, ConflictBookingID: r.ID, ConflictHotelID: r.HotelID}, nil
		}
	}

	nights := domain.Nights(req.CheckinDate, req.CheckoutDate)
	created, err := b.ledger.CreateReservation(ctx, domain.Reservation{
		UserEmail:    req.UserEmail,
		HotelID:      req.HotelID,
		RoomID:       req.RoomID,
		CheckinDate:  req.CheckinDate,
		CheckoutDate: req.CheckoutDate,
		NumDays:      nights,
		Adults:       req.Adults,
		RoomCost:     req.NightlyRate * float64(nights),
	})
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			observability.ObserveBooking("conflict")
			return BookingResult{State: StateConflict, ConflictBookingID: conflict.BookingID, ConflictHotelID: conflict.HotelID}, nil
		}
		observability.ObserveBooking("failed")
		return BookingResult{State: StateFailed}, err
	}

	log.Info().
		Str("booking_id", created.ID).
		Str("hotel_id", created.HotelID).
		Int("nights", created.NumDays).
		Msg("reservation committed")
	observability.ObserveBooking("committed")
	return BookingResult{State: StateCommitted, Reservation: &created}, nil
}

func (b *BookingService) validate(req BookingRequest) []string {
	var msgs []string
	if strings.TrimSpace(req.UserEmail) == "" {
		msgs = append(msgs, "You must be signed in to make a reservation.")
	}
	if strings.TrimSpace(req.HotelID) == "" {
		msgs = append(msgs, "Missing hotel_id.")
	}
	if strings.TrimSpace(req.RoomID) == "" {
		msgs = append(msgs, "Missing room_id.")
	}
	if req.Adults < 1 {
		msgs = append(msgs, "adults_number must be at least 1.")
	}
	if req.NightlyRate < 0 {
		msgs = append(msgs, "nightly_rate must be non-negative.")
	}
	msgs = append(msgs, rapid.ValidateDateFormatAndDateRange(req.CheckinDate, req.CheckoutDate)...)
	return msgs
}

// ---- ledger passthroughs for the presentation boundary ----

func (b *BookingService) ListBookings(ctx context.Context, userEmail string) ([]domain.Reservation, error) {
	return b.ledger.ListReservations(ctx, userEmail)
}

func (b *BookingService) GetBooking(ctx context.Context, bookingID, userEmail string) (domain.Reservation, bool, error) {
	return b.ledger.GetReservation(ctx, bookingID, userEmail)
}

func (b *BookingService) UpdateAdults(ctx context.Context, bookingID, userEmail string, adults int) (domain.Reservation, error) {
	if adults < 1 {
		return domain.Reservation{}, &rapid.ValidationError{Messages: []string{"adults_number must be at least 1."}}
	}
	return b.ledger.UpdateAdults(ctx, bookingID, userEmail, adults)
}

func (b *BookingService) CancelBooking(ctx context.Context, bookingID, userEmail string) (domain.Reservation, error) {
	return b.ledger.CancelReservation(ctx, bookingID, userEmail)
}

func (b *BookingService) VerifyBooking(ctx context.Context, bookingID, userEmail string) (domain.Reservation, error) {
	return b.ledger.VerifyReservation(ctx, bookingID, userEmail)
}
