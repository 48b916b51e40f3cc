package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"staybook/internal/app"
	"staybook/internal/domain"
)

func seedReservation(l *fakeLedger, email, hotelID string, checkin, checkout string) domain.Reservation {
	r, err := l.CreateReservation(context.Background(), domain.Reservation{
		UserEmail:    email,
		HotelID:      hotelID,
		RoomID:       "seed-room",
		CheckinDate:  checkin,
		CheckoutDate: checkout,
		NumDays:      domain.Nights(checkin, checkout),
		Adults:       2,
	})
	if err != nil {
		panic(err)
	}
	return r
}

func TestReserve_Committed(t *testing.T) {
	ledger := &fakeLedger{}
	b := app.NewBookingService(ledger)

	res, err := b.Reserve(context.Background(), app.BookingRequest{
		UserEmail:    "guest@example.com",
		HotelID:      "h1",
		RoomID:       "r1",
		CheckinDate:  futureDate(1),
		CheckoutDate: futureDate(4),
		Adults:       2,
		NightlyRate:  150,
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.State != app.StateCommitted || res.Reservation == nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Reservation.NumDays != 3 {
		t.Fatalf("expected 3 nights, got %d", res.Reservation.NumDays)
	}
	if res.Reservation.RoomCost != 450 {
		t.Fatalf("expected room_cost = nightly_rate * nights = 450, got %v", res.Reservation.RoomCost)
	}
	if res.Reservation.Verified || res.Reservation.IsCancelled {
		t.Fatalf("new reservation must start unverified and not cancelled: %+v", res.Reservation)
	}
}

func TestReserve_ConflictAcrossHotels(t *testing.T) {
	ledger := &fakeLedger{}
	existing := seedReservation(ledger, "guest@example.com", "hotelA", futureDate(1), futureDate(5))
	b := app.NewBookingService(ledger)

	res, err := b.Reserve(context.Background(), app.BookingRequest{
		UserEmail:    "guest@example.com",
		HotelID:      "hotelB",
		RoomID:       "r9",
		CheckinDate:  futureDate(3),
		CheckoutDate: futureDate(10),
		Adults:       1,
		NightlyRate:  99,
	})
	if err != nil {
		t.Fatalf("conflict must not be an error: %v", err)
	}
	if res.State != app.StateConflict {
		t.Fatalf("expected conflict, got %+v", res)
	}
	if res.ConflictBookingID != existing.ID || res.ConflictHotelID != "hotelA" {
		t.Fatalf("conflict must reference the existing booking: %+v", res)
	}
}

func TestReserve_SameHotelOverlapAllowed(t *testing.T) {
	ledger := &fakeLedger{}
	seedReservation(ledger, "guest@example.com", "hotelA", futureDate(1), futureDate(5))
	b := app.NewBookingService(ledger)

	res, err := b.Reserve(context.Background(), app.BookingRequest{
		UserEmail:    "guest@example.com",
		HotelID:      "hotelA",
		RoomID:       "r2",
		CheckinDate:  futureDate(1),
		CheckoutDate: futureDate(5),
		Adults:       2,
		NightlyRate:  120,
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.State != app.StateCommitted {
		t.Fatalf("same-hotel overlap must be accepted, got %+v", res)
	}
}

func TestReserve_CancelledReservationDoesNotConflict(t *testing.T) {
	ledger := &fakeLedger{}
	r := seedReservation(ledger, "guest@example.com", "hotelA", futureDate(1), futureDate(5))
	if _, err := ledger.CancelReservation(context.Background(), r.ID, "guest@example.com"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	b := app.NewBookingService(ledger)

	res, err := b.Reserve(context.Background(), app.BookingRequest{
		UserEmail:    "guest@example.com",
		HotelID:      "hotelB",
		RoomID:       "r1",
		CheckinDate:  futureDate(2),
		CheckoutDate: futureDate(4),
		Adults:       2,
		NightlyRate:  80,
	})
	if err != nil || res.State != app.StateCommitted {
		t.Fatalf("cancelled rows must not block, got %+v err=%v", res, err)
	}
}

func TestReserve_SignedOutReturnsToCollecting(t *testing.T) {
	b := app.NewBookingService(&fakeLedger{})

	res, err := b.Reserve(context.Background(), app.BookingRequest{
		HotelID:      "h1",
		RoomID:       "r1",
		CheckinDate:  futureDate(1),
		CheckoutDate: futureDate(2),
		Adults:       1,
	})
	if err != nil {
		t.Fatalf("validation outcome must not be an error: %v", err)
	}
	if res.State != app.StateCollecting {
		t.Fatalf("expected return to collecting, got %+v", res)
	}
	found := false
	for _, m := range res.ValidationErrors {
		if strings.Contains(m, "signed in") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected sign-in message, got %v", res.ValidationErrors)
	}
}

func TestReserve_BadDateRangeReturnsToCollecting(t *testing.T) {
	b := app.NewBookingService(&fakeLedger{})

	res, err := b.Reserve(context.Background(), app.BookingRequest{
		UserEmail:    "guest@example.com",
		HotelID:      "h1",
		RoomID:       "r1",
		CheckinDate:  futureDate(5),
		CheckoutDate: futureDate(2),
		Adults:       1,
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.State != app.StateCollecting || len(res.ValidationErrors) != 1 {
		t.Fatalf("expected exactly one range error, got %+v", res)
	}
}

func TestReserve_LedgerFailure(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("connection reset")}
	b := app.NewBookingService(ledger)

	res, err := b.Reserve(context.Background(), app.BookingRequest{
		UserEmail:    "guest@example.com",
		HotelID:      "h1",
		RoomID:       "r1",
		CheckinDate:  futureDate(1),
		CheckoutDate: futureDate(2),
		Adults:       1,
	})
	if err == nil {
		t.Fatal("expected ledger failure to propagate")
	}
	if res.State != app.StateFailed {
		t.Fatalf("expected failed state, got %+v", res)
	}
}

func TestCancelBooking_Idempotent(t *testing.T) {
	ledger := &fakeLedger{}
	r := seedReservation(ledger, "guest@example.com", "hotelA", futureDate(1), futureDate(3))
	b := app.NewBookingService(ledger)
	ctx := context.Background()

	first, err := b.CancelBooking(ctx, r.ID, "guest@example.com")
	if err != nil || !first.IsCancelled {
		t.Fatalf("cancel: %+v err=%v", first, err)
	}
	second, err := b.CancelBooking(ctx, r.ID, "guest@example.com")
	if err != nil {
		t.Fatalf("second cancel must succeed: %v", err)
	}
	if !second.IsCancelled || second.Adults != first.Adults || second.RoomCost != first.RoomCost {
		t.Fatalf("second cancel must change nothing else: %+v vs %+v", second, first)
	}
}

func TestGetBooking_OwnershipIsolation(t *testing.T) {
	ledger := &fakeLedger{}
	r := seedReservation(ledger, "owner@example.com", "hotelA", futureDate(1), futureDate(3))
	b := app.NewBookingService(ledger)

	_, ok, err := b.GetBooking(context.Background(), r.ID, "other@example.com")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if ok {
		t.Fatal("booking owned by another user must read as absent")
	}
}

func TestUpdateAdults_Validation(t *testing.T) {
	ledger := &fakeLedger{}
	r := seedReservation(ledger, "guest@example.com", "hotelA", futureDate(1), futureDate(3))
	b := app.NewBookingService(ledger)
	ctx := context.Background()

	updated, err := b.UpdateAdults(ctx, r.ID, "guest@example.com", 4)
	if err != nil || updated.Adults != 4 {
		t.Fatalf("update: %+v err=%v", updated, err)
	}
	if _, err := b.UpdateAdults(ctx, r.ID, "guest@example.com", 0); err == nil {
		t.Fatal("zero adults must be rejected")
	}
	if _, err := b.UpdateAdults(ctx, "missing", "guest@example.com", 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVerifyBooking_SetsFlag(t *testing.T) {
	ledger := &fakeLedger{}
	r := seedReservation(ledger, "guest@example.com", "hotelA", futureDate(1), futureDate(3))
	b := app.NewBookingService(ledger)

	v, err := b.VerifyBooking(context.Background(), r.ID, "guest@example.com")
	if err != nil || !v.Verified {
		t.Fatalf("verify: %+v err=%v", v, err)
	}
}
