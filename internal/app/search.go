package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"staybook/internal/domain"
)

// SearchService fronts the provider gateway with the two-level snapshot
// cache: Redis for hot reads, MySQL as the durable store, provider calls
// only on a miss or a stale snapshot.
type SearchService struct {
	provider domain.ProviderClient
	store    domain.SnapshotStore
	cache    domain.Cache
	san      *Sanitizer
	cacheTTL time.Duration
	// maxAge is the staleness window for durable snapshots; zero means a
	// stored snapshot never goes stale (overwrite-only cache).
	maxAge time.Duration
}

func NewSearchService(p domain.ProviderClient, store domain.SnapshotStore, cache domain.Cache, san *Sanitizer, cacheTTL, maxAge time.Duration) *SearchService {
	return &SearchService{provider: p, store: store, cache: cache, san: san, cacheTTL: cacheTTL, maxAge: maxAge}
}

func hotelKey(id string) string { return "snapshot:hotel:" + id }
func roomKey(id string) string  { return "snapshot:room:" + id }

// SearchRegions is a live pass-through; region lookups are cheap and not
// snapshot material.
func (s *SearchService) SearchRegions(ctx context.Context, query, dom, locale string) ([]domain.Region, error) {
	return s.provider.SearchRegions(ctx, query, dom, locale)
}

func (s *SearchService) SearchHotels(ctx context.Context, crit domain.HotelCriteria) (domain.HotelSearchResult, error) {
	return s.provider.SearchHotels(ctx, crit)
}

// SearchRoomOffers sanitizes HTML descriptions before they reach callers.
func (s *SearchService) SearchRoomOffers(ctx context.Context, hotelID string, crit domain.RoomCriteria) ([]domain.RoomOffer, error) {
	offers, err := s.provider.SearchRoomOffers(ctx, hotelID, crit)
	if err != nil {
		return nil, err
	}
	for i := range offers {
		offers[i].Description = s.san.HTML(offers[i].Description)
	}
	return offers, nil
}

func (s *SearchService) stale(fetchedAt time.Time) bool {
	return s.maxAge > 0 && time.Since(fetchedAt) > s.maxAge
}

// HotelDetails is the combined read path used by booking views: hot
// cache, then durable store, then provider backfill-on-miss. A stale
// durable snapshot triggers a refresh; if the provider is down the stale
// snapshot is served rather than failing the view.
func (s *SearchService) HotelDetails(ctx context.Context, hotelID, dom, locale string) (domain.CachedHotel, error) {
	var hot domain.CachedHotel
	if ok, _ := s.cache.Get(ctx, hotelKey(hotelID), &hot); ok && !s.stale(hot.FetchedAt) {
		return hot, nil
	}

	stored, ok, err := s.store.GetHotel(ctx, hotelID)
	if err != nil {
		return domain.CachedHotel{}, err
	}
	if ok && !s.stale(stored.FetchedAt) {
		_ = s.cache.Set(ctx, hotelKey(hotelID), stored, int(s.cacheTTL.Seconds()))
		return stored, nil
	}

	fresh, ferr := s.provider.FetchHotelSnapshot(ctx, hotelID, dom, locale)
	if ferr != nil {
		if ok {
			log.Warn().Err(ferr).Str("hotel_id", hotelID).Msg("snapshot refresh failed, serving stale")
			return stored, nil
		}
		return domain.CachedHotel{}, fmt.Errorf("backfill hotel %s: %w", hotelID, ferr)
	}
	fresh.Tagline = s.san.HTML(fresh.Tagline)
	fresh.Description = s.san.HTML(fresh.Description)

	if err := s.store.PutHotel(ctx, fresh); err != nil {
		return domain.CachedHotel{}, err
	}
	_ = s.cache.Set(ctx, hotelKey(hotelID), fresh, int(s.cacheTTL.Seconds()))
	return fresh, nil
}

// RoomOfferDetails mirrors HotelDetails for room offers. crit is only
// used when a provider backfill is needed.
func (s *SearchService) RoomOfferDetails(ctx context.Context, hotelID, roomID string, crit domain.RoomCriteria) (domain.CachedRoomOffer, error) {
	var hot domain.CachedRoomOffer
	if ok, _ := s.cache.Get(ctx, roomKey(roomID), &hot); ok && !s.stale(hot.FetchedAt) {
		return hot, nil
	}

	stored, ok, err := s.store.GetRoomOffer(ctx, roomID)
	if err != nil {
		return domain.CachedRoomOffer{}, err
	}
	if ok && !s.stale(stored.FetchedAt) {
		_ = s.cache.Set(ctx, roomKey(roomID), stored, int(s.cacheTTL.Seconds()))
		return stored, nil
	}

	fresh, ferr := s.provider.FetchRoomOfferSnapshot(ctx, hotelID, roomID, crit)
	if ferr != nil {
		if ok {
			log.Warn().Err(ferr).Str("room_id", roomID).Msg("snapshot refresh failed, serving stale")
			return stored, nil
		}
		return domain.CachedRoomOffer{}, fmt.Errorf("backfill room %s: %w", roomID, ferr)
	}
	fresh.Description = s.san.HTML(fresh.Description)

	if err := s.store.PutRoomOffer(ctx, fresh); err != nil {
		return domain.CachedRoomOffer{}, err
	}
	_ = s.cache.Set(ctx, roomKey(roomID), fresh, int(s.cacheTTL.Seconds()))
	return fresh, nil
}

// WarmHotel force-fetches and stores a hotel snapshot, bypassing
// staleness checks. Used by the bulk warmer.
func (s *SearchService) WarmHotel(ctx context.Context, hotelID, dom, locale string) error {
	fresh, err := s.provider.FetchHotelSnapshot(ctx, hotelID, dom, locale)
	if err != nil {
		return err
	}
	fresh.Tagline = s.san.HTML(fresh.Tagline)
	fresh.Description = s.san.HTML(fresh.Description)
	if err := s.store.PutHotel(ctx, fresh); err != nil {
		return err
	}
	return s.cache.Set(ctx, hotelKey(hotelID), fresh, int(s.cacheTTL.Seconds()))
}
