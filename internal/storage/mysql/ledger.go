package mysql

import (
	"context"
	crand "crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"staybook/internal/domain"
)

// Ledger owns reservation rows. The overlap check and the insert run in
// one transaction so two concurrent attempts by the same user cannot
// both pass validation.
type Ledger struct{ db *sql.DB }

func NewLedger(db *sql.DB) *Ledger { return &Ledger{db: db} }

func newBookingID() (string, error) {
	b := make([]byte, 16)
	if _, err := crand.Read(b); err != nil {
		return "", fmt.Errorf("generate booking id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (l *Ledger) CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Reservation{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectConflictForUpdateSQL,
		r.UserEmail, r.HotelID, r.CheckoutDate, r.CheckinDate)
	var conflictID, conflictHotel string
	switch err := row.Scan(&conflictID, &conflictHotel); err {
	case sql.ErrNoRows:
		// no overlap, proceed
	case nil:
		return domain.Reservation{}, &domain.ConflictError{BookingID: conflictID, HotelID: conflictHotel}
	default:
		return domain.Reservation{}, err
	}

	if r.ID == "" {
		id, err := newBookingID()
		if err != nil {
			return domain.Reservation{}, err
		}
		r.ID = id
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.Verified = false
	r.IsCancelled = false

	if _, err := tx.ExecContext(ctx, insertReservationSQL,
		r.ID, r.UserEmail, r.HotelID, r.RoomID,
		r.CheckinDate, r.CheckoutDate,
		r.NumDays, r.Adults, r.RoomCost, r.CreatedAt,
	); err != nil {
		return domain.Reservation{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Reservation{}, err
	}
	return r, nil
}

func (l *Ledger) ListReservations(ctx context.Context, userEmail string) ([]domain.Reservation, error) {
	rows, err := l.db.QueryContext(ctx, listReservationsSQL, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (l *Ledger) GetReservation(ctx context.Context, bookingID, userEmail string) (domain.Reservation, bool, error) {
	r, err := l.getOwned(ctx, bookingID, userEmail)
	if err == sql.ErrNoRows {
		return domain.Reservation{}, false, nil
	}
	if err != nil {
		return domain.Reservation{}, false, err
	}
	return r, true, nil
}

func (l *Ledger) UpdateAdults(ctx context.Context, bookingID, userEmail string, adults int) (domain.Reservation, error) {
	if _, err := l.db.ExecContext(ctx, updateAdultsSQL, adults, bookingID, userEmail); err != nil {
		return domain.Reservation{}, err
	}
	return l.reread(ctx, bookingID, userEmail)
}

// CancelReservation is idempotent: cancelling an already-cancelled
// booking succeeds and changes nothing.
func (l *Ledger) CancelReservation(ctx context.Context, bookingID, userEmail string) (domain.Reservation, error) {
	if _, err := l.db.ExecContext(ctx, cancelReservationSQL, bookingID, userEmail); err != nil {
		return domain.Reservation{}, err
	}
	return l.reread(ctx, bookingID, userEmail)
}

func (l *Ledger) VerifyReservation(ctx context.Context, bookingID, userEmail string) (domain.Reservation, error) {
	if _, err := l.db.ExecContext(ctx, verifyReservationSQL, bookingID, userEmail); err != nil {
		return domain.Reservation{}, err
	}
	return l.reread(ctx, bookingID, userEmail)
}

// reread resolves the post-update row. RowsAffected cannot distinguish
// "no such row" from "no change" on MySQL, so the select decides.
func (l *Ledger) reread(ctx context.Context, bookingID, userEmail string) (domain.Reservation, error) {
	r, err := l.getOwned(ctx, bookingID, userEmail)
	if err == sql.ErrNoRows {
		return domain.Reservation{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Reservation{}, err
	}
	return r, nil
}

func (l *Ledger) getOwned(ctx context.Context, bookingID, userEmail string) (domain.Reservation, error) {
	return scanReservation(l.db.QueryRowContext(ctx, getReservationSQL, bookingID, userEmail))
}

type rowScanner interface {
	Scan(dst ...any) error
}

func scanReservation(row rowScanner) (domain.Reservation, error) {
	var r domain.Reservation
	err := row.Scan(
		&r.ID,
		&r.UserEmail,
		&r.HotelID,
		&r.RoomID,
		&r.CheckinDate,
		&r.CheckoutDate,
		&r.NumDays,
		&r.Adults,
		&r.RoomCost,
		&r.Verified,
		&r.IsCancelled,
		&r.CreatedAt,
	)
	return r, err
}
