// internal/adapters/rapid/client.go
package rapid

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
)

// Client talks to the third-party hotel search API. Every search method
// validates its input before any network call and normalizes the
// provider payload tolerantly: a malformed body reads as "no results".
type Client struct {
	base string
	hc   *http.Client
	key  string
	host string
	rl   *rate.Limiter
}

func New(base, key, host string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		host: host,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) SearchRegions(ctx context.Context, query, dom, locale string) ([]domain.Region, error) {
	var msgs []string
	if strings.TrimSpace(query) == "" {
		msgs = append(msgs, "Missing query.")
	}
	msgs = append(msgs, ValidateDomainAndLocale(dom, locale)...)
	if err := validationErr(msgs); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("domain", orDefault(dom, DefaultDomain))
	q.Set("locale", orDefault(locale, DefaultLocale))

	var out map[string]any
	if err := c.get(ctx, c.base+"/regions?"+q.Encode(), "regions", &out); err != nil {
		return nil, err
	}
	return normalizeRegions(out), nil
}

func (c *Client) SearchHotels(ctx context.Context, crit domain.HotelCriteria) (domain.HotelSearchResult, error) {
	if err := validationErr(ValidateHotelCriteria(crit)); err != nil {
		return domain.HotelSearchResult{}, err
	}

	q := url.Values{}
	q.Set("region_id", crit.RegionID)
	q.Set("domain", orDefault(crit.Domain, DefaultDomain))
	q.Set("locale", orDefault(crit.Locale, DefaultLocale))
	q.Set("checkin_date", crit.CheckinDate)
	q.Set("checkout_date", crit.CheckoutDate)
	q.Set("adults_number", strconv.Itoa(crit.Adults))
	if crit.PriceRange != nil {
		q.Set("price_min", strconv.Itoa(crit.PriceRange.Min))
		q.Set("price_max", strconv.Itoa(crit.PriceRange.Max))
	}
	if crit.SortOrder != "" {
		q.Set("sort_order", crit.SortOrder)
	}
	setCSV(q, "accessibility", crit.Accessibility)
	setCSV(q, "amenities", crit.Amenities)
	setCSV(q, "meal_plan", crit.MealPlans)
	setCSV(q, "lodging_type", crit.LodgingTypes)
	setCSV(q, "payment_type", crit.PaymentTypes)
	if crit.AvailableOnly {
		q.Set("available_filter", "SHOW_AVAILABLE_ONLY")
	}

	var out map[string]any
	if err := c.get(ctx, c.base+"/hotels/search?"+q.Encode(), "hotels_search", &out); err != nil {
		return domain.HotelSearchResult{}, err
	}
	return normalizeHotelSearch(out), nil
}

func (c *Client) SearchRoomOffers(ctx context.Context, hotelID string, crit domain.RoomCriteria) ([]domain.RoomOffer, error) {
	var msgs []string
	if strings.TrimSpace(hotelID) == "" {
		msgs = append(msgs, "Missing hotel_id.")
	}
	msgs = append(msgs, ValidateRoomCriteria(crit)...)
	if err := validationErr(msgs); err != nil {
		return nil, err
	}

	q := roomQuery(crit)
	var out map[string]any
	if err := c.get(ctx, fmt.Sprintf("%s/hotels/%s/rooms?%s", c.base, url.PathEscape(hotelID), q.Encode()), "room_offers", &out); err != nil {
		return nil, err
	}
	return normalizeRoomOffers(hotelID, out), nil
}

// FetchHotelSnapshot pulls the full hotel detail payload used to backfill
// the snapshot cache after a miss.
func (c *Client) FetchHotelSnapshot(ctx context.Context, hotelID, dom, locale string) (domain.CachedHotel, error) {
	var msgs []string
	if strings.TrimSpace(hotelID) == "" {
		msgs = append(msgs, "Missing hotel_id.")
	}
	msgs = append(msgs, ValidateDomainAndLocale(dom, locale)...)
	if err := validationErr(msgs); err != nil {
		return domain.CachedHotel{}, err
	}

	q := url.Values{}
	q.Set("domain", orDefault(dom, DefaultDomain))
	q.Set("locale", orDefault(locale, DefaultLocale))

	var out map[string]any
	if err := c.get(ctx, fmt.Sprintf("%s/hotels/%s/details?%s", c.base, url.PathEscape(hotelID), q.Encode()), "hotel_details", &out); err != nil {
		return domain.CachedHotel{}, err
	}
	return normalizeHotelSnapshot(hotelID, out), nil
}

// FetchRoomOfferSnapshot resolves a single room offer by re-querying the
// hotel's offers; the provider has no per-room endpoint.
func (c *Client) FetchRoomOfferSnapshot(ctx context.Context, hotelID, roomID string, crit domain.RoomCriteria) (domain.CachedRoomOffer, error) {
	offers, err := c.SearchRoomOffers(ctx, hotelID, crit)
	if err != nil {
		return domain.CachedRoomOffer{}, err
	}
	for _, o := range offers {
		if o.RoomID == roomID {
			return domain.CachedRoomOffer{
				RoomID:        o.RoomID,
				HotelID:       o.HotelID,
				Name:          o.Name,
				Description:   o.Description,
				GalleryImages: o.GalleryImages,
				PricePerNight: o.PricePerNight,
				FetchedAt:     time.Now().UTC(),
			}, nil
		}
	}
	return domain.CachedRoomOffer{}, domain.ErrNotFound
}

func roomQuery(crit domain.RoomCriteria) url.Values {
	q := url.Values{}
	q.Set("domain", orDefault(crit.Domain, DefaultDomain))
	q.Set("locale", orDefault(crit.Locale, DefaultLocale))
	q.Set("checkin_date", crit.CheckinDate)
	q.Set("checkout_date", crit.CheckoutDate)
	q.Set("adults_number", strconv.Itoa(crit.Adults))
	return q
}

func setCSV(q url.Values, key string, values []string) {
	if len(values) > 0 {
		q.Set(key, strings.Join(values, ","))
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ---- Internals ----

var (
	// ErrNotFound wraps domain.ErrNotFound so callers can treat a 404
	// from the provider like any other absence.
	ErrNotFound     = fmt.Errorf("rapid: %w", domain.ErrNotFound)
	ErrUnauthorized = errors.New("rapid: unauthorized")
	ErrForbidden    = errors.New("rapid: forbidden")
)

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, u, endpoint string, out any) error {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	status := 0
	defer func() { observability.ObserveExternal("rapid", endpoint, status, time.Since(start)) }()

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-RapidAPI-Key", c.key)
		if c.host != "" {
			req.Header.Set("X-RapidAPI-Host", c.host)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "staybook/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			// network error or context canceled
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		status = resp.StatusCode

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			// A body that fails to decode is treated as "no results",
			// not an error the caller has to survive.
			if derr := json.NewDecoder(resp.Body).Decode(out); derr != nil {
				resp.Body.Close()
				return nil
			}
			resp.Body.Close()
			return nil

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	// seconds form
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	// HTTP-date form
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0                  // 0..1
	j := time.Duration(0.5 * f * float64(base)) // up to +50%
	return base + j
}
