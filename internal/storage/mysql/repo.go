package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"staybook/internal/domain"
)

// Store is the durable snapshot cache. Every put overwrites the whole
// row; reads report absence through the bool, never as an error.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) PutHotel(ctx context.Context, h domain.CachedHotel) error {
	imgs, _ := json.Marshal(h.Images)
	_, err := s.db.ExecContext(ctx, upsertHotelSQL,
		h.HotelID,
		h.Tagline,
		h.Address.Line,
		h.Address.City,
		h.Address.Province,
		h.Address.CountryCode,
		string(imgs),
		h.Description,
		h.FetchedAt,
	)
	return err
}

func (s *Store) GetHotel(ctx context.Context, hotelID string) (domain.CachedHotel, bool, error) {
	row := s.db.QueryRowContext(ctx, getHotelSQL, hotelID)

	var h domain.CachedHotel
	var imagesJSON []byte
	err := row.Scan(
		&h.HotelID,
		&h.Tagline,
		&h.Address.Line,
		&h.Address.City,
		&h.Address.Province,
		&h.Address.CountryCode,
		&imagesJSON,
		&h.Description,
		&h.FetchedAt,
	)
	if err == sql.ErrNoRows {
		return domain.CachedHotel{}, false, nil
	}
	if err != nil {
		return domain.CachedHotel{}, false, err
	}
	_ = json.Unmarshal(imagesJSON, &h.Images)
	return h, true, nil
}

func (s *Store) PutRoomOffer(ctx context.Context, o domain.CachedRoomOffer) error {
	gallery, _ := json.Marshal(o.GalleryImages)
	_, err := s.db.ExecContext(ctx, upsertRoomOfferSQL,
		o.RoomID,
		o.HotelID,
		o.Name,
		o.Description,
		string(gallery),
		o.PricePerNight.Amount,
		o.PricePerNight.CurrencyCode,
		o.PricePerNight.CurrencySymbol,
		o.FetchedAt,
	)
	return err
}

func (s *Store) GetRoomOffer(ctx context.Context, roomID string) (domain.CachedRoomOffer, bool, error) {
	row := s.db.QueryRowContext(ctx, getRoomOfferSQL, roomID)

	var o domain.CachedRoomOffer
	var galleryJSON []byte
	err := row.Scan(
		&o.RoomID,
		&o.HotelID,
		&o.Name,
		&o.Description,
		&galleryJSON,
		&o.PricePerNight.Amount,
		&o.PricePerNight.CurrencyCode,
		&o.PricePerNight.CurrencySymbol,
		&o.FetchedAt,
	)
	if err == sql.ErrNoRows {
		return domain.CachedRoomOffer{}, false, nil
	}
	if err != nil {
		return domain.CachedRoomOffer{}, false, err
	}
	_ = json.Unmarshal(galleryJSON, &o.GalleryImages)
	return o, true, nil
}
