package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"staybook/internal/app"
	"staybook/internal/domain"
)

func newSearchService(p *fakeProvider, store *fakeStore, cache *fakeCache, maxAge time.Duration) *app.SearchService {
	return app.NewSearchService(p, store, cache, app.NewSanitizer(), 10*time.Minute, maxAge)
}

func TestHotelDetails_BackfillOnMissThenCached(t *testing.T) {
	p := &fakeProvider{hotels: map[string]domain.CachedHotel{
		"h1": {HotelID: "h1", Tagline: "Harbor views", Address: domain.Address{City: "Seattle"}},
	}}
	store := newFakeStore()
	cache := &fakeCache{}
	s := newSearchService(p, store, cache, 0)
	ctx := context.Background()

	// Miss: provider is consulted and the store backfilled before returning.
	h, err := s.HotelDetails(ctx, "h1", "US", "en_US")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.Tagline != "Harbor views" {
		t.Fatalf("unexpected hotel: %+v", h)
	}
	if p.hotelFetches != 1 {
		t.Fatalf("expected one provider fetch, got %d", p.hotelFetches)
	}
	if _, ok := store.hotels["h1"]; !ok {
		t.Fatal("expected store backfill on miss")
	}

	// Hit: served without touching the provider again.
	if _, err := s.HotelDetails(ctx, "h1", "US", "en_US"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if p.hotelFetches != 1 {
		t.Fatalf("expected cached read, provider fetched %d times", p.hotelFetches)
	}
}

func TestHotelDetails_UnknownHotelIsNotFound(t *testing.T) {
	p := &fakeProvider{hotels: map[string]domain.CachedHotel{}}
	s := newSearchService(p, newFakeStore(), &fakeCache{}, 0)

	_, err := s.HotelDetails(context.Background(), "nope", "US", "en_US")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHotelDetails_StaleSnapshotRefreshes(t *testing.T) {
	p := &fakeProvider{hotels: map[string]domain.CachedHotel{
		"h1": {HotelID: "h1", Tagline: "fresh tagline"},
	}}
	store := newFakeStore()
	store.hotels["h1"] = domain.CachedHotel{
		HotelID:   "h1",
		Tagline:   "old tagline",
		FetchedAt: time.Now().Add(-2 * time.Hour),
	}
	s := newSearchService(p, store, &fakeCache{}, time.Hour)

	h, err := s.HotelDetails(context.Background(), "h1", "US", "en_US")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.Tagline != "fresh tagline" || p.hotelFetches != 1 {
		t.Fatalf("expected refresh of stale snapshot, got %+v (fetches=%d)", h, p.hotelFetches)
	}
}

func TestHotelDetails_ServesStaleWhenProviderDown(t *testing.T) {
	p := &fakeProvider{fetchErr: errors.New("provider down")}
	store := newFakeStore()
	store.hotels["h1"] = domain.CachedHotel{
		HotelID:   "h1",
		Tagline:   "old tagline",
		FetchedAt: time.Now().Add(-2 * time.Hour),
	}
	s := newSearchService(p, store, &fakeCache{}, time.Hour)

	h, err := s.HotelDetails(context.Background(), "h1", "US", "en_US")
	if err != nil {
		t.Fatalf("stale fallback must not error: %v", err)
	}
	if h.Tagline != "old tagline" {
		t.Fatalf("expected stale snapshot, got %+v", h)
	}
}

func TestHotelDetails_ZeroMaxAgeNeverRefreshes(t *testing.T) {
	p := &fakeProvider{hotels: map[string]domain.CachedHotel{"h1": {HotelID: "h1", Tagline: "fresh"}}}
	store := newFakeStore()
	store.hotels["h1"] = domain.CachedHotel{
		HotelID:   "h1",
		Tagline:   "ancient",
		FetchedAt: time.Now().Add(-365 * 24 * time.Hour),
	}
	s := newSearchService(p, store, &fakeCache{}, 0)

	h, err := s.HotelDetails(context.Background(), "h1", "US", "en_US")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.Tagline != "ancient" || p.hotelFetches != 0 {
		t.Fatalf("zero window must serve stored snapshot forever, got %+v (fetches=%d)", h, p.hotelFetches)
	}
}

func TestRoomOfferDetails_SanitizesHTMLBeforeStore(t *testing.T) {
	p := &fakeProvider{rooms: map[string]domain.CachedRoomOffer{
		"r1": {
			RoomID:      "r1",
			HotelID:     "h1",
			Name:        "King Room",
			Description: `<p>Great room</p><script>alert("x")</script>`,
		},
	}}
	store := newFakeStore()
	s := newSearchService(p, store, &fakeCache{}, 0)

	o, err := s.RoomOfferDetails(context.Background(), "h1", "r1", domain.RoomCriteria{
		CheckinDate: futureDate(1), CheckoutDate: futureDate(3), Adults: 2,
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if strings.Contains(o.Description, "<script>") {
		t.Fatalf("script must be stripped, got %q", o.Description)
	}
	if !strings.Contains(o.Description, "Great room") {
		t.Fatalf("benign markup must survive, got %q", o.Description)
	}
	if strings.Contains(store.rooms["r1"].Description, "<script>") {
		t.Fatal("stored snapshot must already be sanitized")
	}
}

func TestSearchRoomOffers_SanitizesDescriptions(t *testing.T) {
	p := &fakeProvider{offers: []domain.RoomOffer{
		{HotelID: "h1", RoomID: "r1", Description: `ok<iframe src="evil"></iframe>`},
	}}
	s := newSearchService(p, newFakeStore(), &fakeCache{}, 0)

	offers, err := s.SearchRoomOffers(context.Background(), "h1", domain.RoomCriteria{
		CheckinDate: futureDate(1), CheckoutDate: futureDate(2), Adults: 1,
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if strings.Contains(offers[0].Description, "iframe") {
		t.Fatalf("iframe must be stripped, got %q", offers[0].Description)
	}
}

func TestWarmHotel_OverwritesExistingSnapshot(t *testing.T) {
	p := &fakeProvider{hotels: map[string]domain.CachedHotel{"h1": {HotelID: "h1", Tagline: "second"}}}
	store := newFakeStore()
	store.hotels["h1"] = domain.CachedHotel{HotelID: "h1", Tagline: "first", FetchedAt: time.Now()}
	s := newSearchService(p, store, &fakeCache{}, 0)

	if err := s.WarmHotel(context.Background(), "h1", "US", "en_US"); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if got := store.hotels["h1"].Tagline; got != "second" {
		t.Fatalf("warm must overwrite whole snapshot, got %q", got)
	}
}
