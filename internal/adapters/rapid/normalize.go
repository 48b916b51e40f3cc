package rapid

import (
	"strconv"
	"strings"
	"time"

	"staybook/internal/domain"
)

/********** alias registries (single source of truth) **********/

var regionAliases = map[string][]string{
	"id":      {"gaiaId", "region_id", "regionId", "id"},
	"name":    {"regionNames.fullName", "regionNames.displayName", "name"},
	"type":    {"type", "region_type"},
	"country": {"hierarchyInfo.country.isoCode2", "country_code", "countryCode"},
	"lat":     {"coordinates.lat", "coordinates.latitude", "lat"},
	"lon":     {"coordinates.long", "coordinates.longitude", "lon"},
}

var hotelSummaryAliases = map[string][]string{
	"id":       {"id", "hotel_id", "hotelId"},
	"name":     {"name", "hotel_name"},
	"imageURL": {"propertyImage.image.url", "image.url", "thumbnail"},
	"imageAlt": {"propertyImage.alt", "image.description"},
	"lat":      {"mapMarker.latLong.latitude", "coordinates.lat"},
	"lon":      {"mapMarker.latLong.longitude", "coordinates.long"},
	"price":    {"price.lead.amount", "price.priceMessaging.lead.amount", "price_per_night"},
	"currency": {"price.lead.currencyInfo.code", "price.currency"},
	"symbol":   {"price.lead.currencyInfo.symbol"},
	"score":    {"reviews.score", "review_score"},
}

var roomOfferAliases = map[string][]string{
	"id":       {"id", "unitId", "hotel_room_id", "room_id"},
	"name":     {"name", "header.text", "room_name"},
	"desc":     {"description", "descriptions.0.text", "room_description"},
	"price":    {"ratePlans.0.priceDetails.0.price.lead.amount", "pricePerNight.amount", "price.lead.amount"},
	"currency": {"ratePlans.0.priceDetails.0.price.lead.currencyInfo.code", "pricePerNight.currency.code"},
	"symbol":   {"ratePlans.0.priceDetails.0.price.lead.currencyInfo.symbol", "pricePerNight.currency.symbol"},
}

var hotelDetailAliases = map[string][]string{
	"tagline":  {"summary.tagline", "tagline"},
	"line":     {"summary.location.address.addressLine", "address.line", "address.addressLine"},
	"city":     {"summary.location.address.city", "address.city"},
	"province": {"summary.location.address.province", "address.province"},
	"country":  {"summary.location.address.countryCode", "address.countryCode", "address.country_code"},
	"desc":     {"propertyContentSectionGroups.aboutThisProperty.sections.0.bodySubSections.0.elements.0.items.0.content.text", "description", "summary.description"},
}

/********** tiny helpers **********/

// lookupAny walks a dot path through nested maps. Numeric path parts
// index into slices so aliases like "descriptions.0.text" work.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		switch obj := cur.(type) {
		case map[string]any:
			v, ok := obj[part]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(obj) {
				return nil
			}
			cur = obj[i]
		default:
			return nil
		}
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstStr returns the first non-empty string across a named alias set.
func firstStr(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// firstFloat returns the first number found across a named alias set,
// accepting float64, int, json.Number-ish strings, and "1.234,56" forms.
func firstFloat(m map[string]any, aliases map[string][]string, key string) *float64 {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstID stringifies identifier-ish values, which providers ship as
// either strings or numbers.
func firstID(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}

func anySlice(m map[string]any, paths ...string) []any {
	for _, p := range paths {
		if v, ok := lookupAny(m, p).([]any); ok {
			return v
		}
	}
	return nil
}

/********** normalizers (malformed payload -> empty result, never panic) **********/

func normalizeRegions(payload map[string]any) []domain.Region {
	items := anySlice(payload, "data", "regions", "rs")
	out := make([]domain.Region, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		r := domain.Region{
			RegionID:    firstID(m, regionAliases, "id"),
			Name:        firstStr(m, regionAliases, "name"),
			Type:        firstStr(m, regionAliases, "type"),
			CountryCode: firstStr(m, regionAliases, "country"),
		}
		if r.RegionID == "" {
			continue
		}
		if lat, lon := firstFloat(m, regionAliases, "lat"), firstFloat(m, regionAliases, "lon"); lat != nil && lon != nil {
			r.Coords = &domain.Coords{Lat: *lat, Lon: *lon}
		}
		out = append(out, r)
	}
	return out
}

func normalizeHotelSearch(payload map[string]any) domain.HotelSearchResult {
	items := anySlice(payload, "properties", "data.propertySearch.properties", "hotels")
	res := domain.HotelSearchResult{Summaries: make([]domain.HotelSummary, 0, len(items))}
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		hs := domain.HotelSummary{
			HotelID: firstID(m, hotelSummaryAliases, "id"),
			Name:    firstStr(m, hotelSummaryAliases, "name"),
		}
		if hs.HotelID == "" {
			continue
		}
		if u := firstStr(m, hotelSummaryAliases, "imageURL"); u != "" {
			hs.Image = &domain.Image{URL: u, Description: firstStr(m, hotelSummaryAliases, "imageAlt")}
		}
		if lat, lon := firstFloat(m, hotelSummaryAliases, "lat"), firstFloat(m, hotelSummaryAliases, "lon"); lat != nil && lon != nil {
			hs.Coords = &domain.Coords{Lat: *lat, Lon: *lon}
		}
		if amt := firstFloat(m, hotelSummaryAliases, "price"); amt != nil {
			hs.PricePerNight = &domain.Money{
				Amount:         *amt,
				CurrencyCode:   firstStr(m, hotelSummaryAliases, "currency"),
				CurrencySymbol: firstStr(m, hotelSummaryAliases, "symbol"),
			}
		}
		hs.ReviewScore = firstFloat(m, hotelSummaryAliases, "score")
		res.Summaries = append(res.Summaries, hs)
	}

	// Provider-supplied aggregate range when present; derived otherwise.
	if pr, ok := lookupAny(payload, "filterMetadata.priceRange").(map[string]any); ok {
		min, okMin := pr["min"].(float64)
		max, okMax := pr["max"].(float64)
		if okMin && okMax {
			res.PriceRange = &domain.AggregatePriceRange{MinPrice: min, MaxPrice: max}
		}
	}
	if res.PriceRange == nil {
		res.PriceRange = derivePriceRange(res.Summaries)
	}
	return res
}

func derivePriceRange(hs []domain.HotelSummary) *domain.AggregatePriceRange {
	var agg *domain.AggregatePriceRange
	for _, h := range hs {
		if h.PricePerNight == nil {
			continue
		}
		a := h.PricePerNight.Amount
		if agg == nil {
			agg = &domain.AggregatePriceRange{MinPrice: a, MaxPrice: a}
			continue
		}
		if a < agg.MinPrice {
			agg.MinPrice = a
		}
		if a > agg.MaxPrice {
			agg.MaxPrice = a
		}
	}
	return agg
}

func normalizeImages(items []any) []domain.Image {
	out := make([]domain.Image, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		img := domain.Image{
			URL:         firstAnyStr(m, "image.url", "url"),
			Description: firstAnyStr(m, "image.description", "description", "alt"),
		}
		if img.URL != "" {
			out = append(out, img)
		}
	}
	return out
}

func firstAnyStr(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

func normalizeRoomOffers(hotelID string, payload map[string]any) []domain.RoomOffer {
	items := anySlice(payload, "units", "rooms", "data.propertyOffers.units")
	out := make([]domain.RoomOffer, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		o := domain.RoomOffer{
			HotelID:     hotelID,
			RoomID:      firstID(m, roomOfferAliases, "id"),
			Name:        firstStr(m, roomOfferAliases, "name"),
			Description: firstStr(m, roomOfferAliases, "desc"),
		}
		if o.RoomID == "" {
			continue
		}
		o.GalleryImages = normalizeImages(anySlice(m, "unitGallery.gallery", "gallery", "images"))
		if amt := firstFloat(m, roomOfferAliases, "price"); amt != nil {
			o.PricePerNight = domain.Money{
				Amount:         *amt,
				CurrencyCode:   firstStr(m, roomOfferAliases, "currency"),
				CurrencySymbol: firstStr(m, roomOfferAliases, "symbol"),
			}
		}
		out = append(out, o)
	}
	return out
}

func normalizeHotelSnapshot(hotelID string, payload map[string]any) domain.CachedHotel {
	h := domain.CachedHotel{
		HotelID: hotelID,
		Tagline: firstStr(payload, hotelDetailAliases, "tagline"),
		Address: domain.Address{
			Line:        firstStr(payload, hotelDetailAliases, "line"),
			City:        firstStr(payload, hotelDetailAliases, "city"),
			Province:    firstStr(payload, hotelDetailAliases, "province"),
			CountryCode: firstStr(payload, hotelDetailAliases, "country"),
		},
		Description: firstStr(payload, hotelDetailAliases, "desc"),
		FetchedAt:   time.Now().UTC(),
	}
	h.Images = normalizeImages(anySlice(payload, "propertyGallery.images", "images", "gallery"))
	return h
}
