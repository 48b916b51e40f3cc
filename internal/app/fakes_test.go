package app_test

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"staybook/internal/domain"
)

// ---- fakes shared by the app tests ----

type fakeProvider struct {
	hotelFetches int
	roomFetches  int
	hotels       map[string]domain.CachedHotel
	rooms        map[string]domain.CachedRoomOffer
	offers       []domain.RoomOffer
	fetchErr     error
}

func (f *fakeProvider) SearchRegions(ctx context.Context, query, dom, locale string) ([]domain.Region, error) {
	return []domain.Region{{RegionID: "603324", Name: "Seattle, Washington", Type: "CITY"}}, nil
}

func (f *fakeProvider) SearchHotels(ctx context.Context, c domain.HotelCriteria) (domain.HotelSearchResult, error) {
	return domain.HotelSearchResult{}, nil
}

func (f *fakeProvider) SearchRoomOffers(ctx context.Context, hotelID string, c domain.RoomCriteria) ([]domain.RoomOffer, error) {
	return f.offers, nil
}

func (f *fakeProvider) FetchHotelSnapshot(ctx context.Context, hotelID, dom, locale string) (domain.CachedHotel, error) {
	f.hotelFetches++
	if f.fetchErr != nil {
		return domain.CachedHotel{}, f.fetchErr
	}
	h, ok := f.hotels[hotelID]
	if !ok {
		return domain.CachedHotel{}, domain.ErrNotFound
	}
	h.FetchedAt = time.Now().UTC()
	return h, nil
}

func (f *fakeProvider) FetchRoomOfferSnapshot(ctx context.Context, hotelID, roomID string, c domain.RoomCriteria) (domain.CachedRoomOffer, error) {
	f.roomFetches++
	if f.fetchErr != nil {
		return domain.CachedRoomOffer{}, f.fetchErr
	}
	o, ok := f.rooms[roomID]
	if !ok {
		return domain.CachedRoomOffer{}, domain.ErrNotFound
	}
	o.FetchedAt = time.Now().UTC()
	return o, nil
}

type fakeStore struct {
	hotels map[string]domain.CachedHotel
	rooms  map[string]domain.CachedRoomOffer
}

func newFakeStore() *fakeStore {
	return &fakeStore{hotels: map[string]domain.CachedHotel{}, rooms: map[string]domain.CachedRoomOffer{}}
}

func (s *fakeStore) GetHotel(ctx context.Context, hotelID string) (domain.CachedHotel, bool, error) {
	h, ok := s.hotels[hotelID]
	return h, ok, nil
}

func (s *fakeStore) GetRoomOffer(ctx context.Context, roomID string) (domain.CachedRoomOffer, bool, error) {
	o, ok := s.rooms[roomID]
	return o, ok, nil
}

func (s *fakeStore) PutHotel(ctx context.Context, h domain.CachedHotel) error {
	s.hotels[h.HotelID] = h
	return nil
}

func (s *fakeStore) PutRoomOffer(ctx context.Context, o domain.CachedRoomOffer) error {
	s.rooms[o.RoomID] = o
	return nil
}

// fakeCache round-trips values through JSON so cached copies do not
// alias the caller's structs.
type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

// fakeLedger mirrors the MySQL ledger's semantics in memory, including
// the atomic conflict check.
type fakeLedger struct {
	rows   []domain.Reservation
	nextID int
	err    error
}

func (l *fakeLedger) CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	if l.err != nil {
		return domain.Reservation{}, l.err
	}
	for _, ex := range l.rows {
		if ex.UserEmail != r.UserEmail || ex.IsCancelled || ex.HotelID == r.HotelID {
			continue
		}
		if domain.DatesOverlap(r.CheckinDate, r.CheckoutDate, ex.CheckinDate, ex.CheckoutDate) {
			return domain.Reservation{}, &domain.ConflictError{BookingID: ex.ID, HotelID: ex.HotelID}
		}
	}
	l.nextID++
	r.ID = "bk-" + strconv.Itoa(l.nextID)
	r.CreatedAt = time.Now().UTC()
	l.rows = append(l.rows, r)
	return r, nil
}

func (l *fakeLedger) ListReservations(ctx context.Context, userEmail string) ([]domain.Reservation, error) {
	if l.err != nil {
		return nil, l.err
	}
	var out []domain.Reservation
	for _, r := range l.rows {
		if r.UserEmail == userEmail {
			out = append(out, r)
		}
	}
	return out, nil
}

func (l *fakeLedger) GetReservation(ctx context.Context, bookingID, userEmail string) (domain.Reservation, bool, error) {
	for _, r := range l.rows {
		if r.ID == bookingID && r.UserEmail == userEmail {
			return r, true, nil
		}
	}
	return domain.Reservation{}, false, nil
}

func (l *fakeLedger) mutate(bookingID, userEmail string, fn func(*domain.Reservation)) (domain.Reservation, error) {
	for i := range l.rows {
		if l.rows[i].ID == bookingID && l.rows[i].UserEmail == userEmail {
			fn(&l.rows[i])
			return l.rows[i], nil
		}
	}
	return domain.Reservation{}, domain.ErrNotFound
}

func (l *fakeLedger) UpdateAdults(ctx context.Context, bookingID, userEmail string, adults int) (domain.Reservation, error) {
	return l.mutate(bookingID, userEmail, func(r *domain.Reservation) { r.Adults = adults })
}

func (l *fakeLedger) CancelReservation(ctx context.Context, bookingID, userEmail string) (domain.Reservation, error) {
	return l.mutate(bookingID, userEmail, func(r *domain.Reservation) { r.IsCancelled = true })
}

func (l *fakeLedger) VerifyReservation(ctx context.Context, bookingID, userEmail string) (domain.Reservation, error) {
	return l.mutate(bookingID, userEmail, func(r *domain.Reservation) { r.Verified = true })
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(domain.DateLayout)
}
