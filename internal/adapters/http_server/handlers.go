// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staybook/internal/adapters/rapid"
	"staybook/internal/app"
	"staybook/internal/domain"
)

type Handlers struct {
	Search  *app.SearchService
	Booking *app.BookingService
	Session *app.SessionService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// validationBody carries the ordered human-readable messages produced by
// pre-request validation.
type validationBody struct {
	Errors []string `json:"errors"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/regions", h.searchRegions)
	s.mux.Get("/v1/hotels", h.searchHotels)
	s.mux.Get("/v1/hotels/{hotelId}", h.hotelDetails)
	s.mux.Get("/v1/hotels/{hotelId}/rooms", h.searchRoomOffers)
	s.mux.Get("/v1/rooms/{roomId}", h.roomOfferDetails)

	s.mux.Post("/v1/bookings", h.createBooking)
	s.mux.Get("/v1/bookings", h.listBookings)
	s.mux.Get("/v1/bookings/{bookingId}", h.getBooking)
	s.mux.Patch("/v1/bookings/{bookingId}/adults", h.updateAdults)
	s.mux.Post("/v1/bookings/{bookingId}/cancel", h.cancelBooking)
	s.mux.Post("/v1/bookings/{bookingId}/verify", h.verifyBooking)

	s.mux.Get("/v1/search/prefs", h.loadPrefs)
	s.mux.Put("/v1/search/prefs", h.savePrefs)
	s.mux.Delete("/v1/search/prefs", h.clearPrefs)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeErr maps the error taxonomy onto status codes: validation lists
// to 422, absence to 404, everything else to 502.
func writeErr(w http.ResponseWriter, err error) {
	var verr *rapid.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{Errors: verr.Messages})
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "no such resource")
		return
	}
	log.Error().Err(err).Msg("request failed")
	writeProblem(w, http.StatusBadGateway, "Upstream Failure", "the request could not be completed; try again")
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeConditional(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := userEmail(r)
	if email == "" {
		writeProblem(w, http.StatusUnauthorized, "Sign-in Required", "identity header missing")
		return "", false
	}
	return email, true
}

/* ---------- search ---------- */

func (h *Handlers) searchRegions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	regions, err := h.Search.SearchRegions(r.Context(), q.Get("query"), q.Get("domain"), q.Get("locale"))
	if err != nil {
		writeErr(w, err)
		return
	}
	if regions == nil {
		regions = []domain.Region{}
	}
	writeJSON(w, http.StatusOK, regions)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func hotelCriteriaFromQuery(r *http.Request) (domain.HotelCriteria, error) {
	q := r.URL.Query()
	c := domain.HotelCriteria{
		RegionID:      q.Get("region_id"),
		Domain:        q.Get("domain"),
		Locale:        q.Get("locale"),
		CheckinDate:   q.Get("checkin_date"),
		CheckoutDate:  q.Get("checkout_date"),
		SortOrder:     q.Get("sort_order"),
		Accessibility: splitCSV(q.Get("accessibility")),
		Amenities:     splitCSV(q.Get("amenities")),
		MealPlans:     splitCSV(q.Get("meal_plan")),
		LodgingTypes:  splitCSV(q.Get("lodging_type")),
		PaymentTypes:  splitCSV(q.Get("payment_type")),
		AvailableOnly: q.Get("available_only") == "true",
	}
	if v := q.Get("adults_number"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, errors.New("adults_number must be an integer")
		}
		c.Adults = n
	}
	minS, maxS := q.Get("price_min"), q.Get("price_max")
	if minS != "" || maxS != "" {
		pr := &domain.PriceRange{}
		var err error
		if pr.Min, err = strconv.Atoi(minS); err != nil {
			return c, errors.New("price_min must be an integer")
		}
		if pr.Max, err = strconv.Atoi(maxS); err != nil {
			return c, errors.New("price_max must be an integer")
		}
		c.PriceRange = pr
	}
	return c, nil
}

func roomCriteriaFromQuery(r *http.Request) (domain.RoomCriteria, error) {
	q := r.URL.Query()
	c := domain.RoomCriteria{
		Domain:       q.Get("domain"),
		Locale:       q.Get("locale"),
		CheckinDate:  q.Get("checkin_date"),
		CheckoutDate: q.Get("checkout_date"),
	}
	if v := q.Get("adults_number"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, errors.New("adults_number must be an integer")
		}
		c.Adults = n
	}
	return c, nil
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	crit, err := hotelCriteriaFromQuery(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	res, err := h.Search.SearchHotels(r.Context(), crit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) searchRoomOffers(w http.ResponseWriter, r *http.Request) {
	crit, err := roomCriteriaFromQuery(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	offers, err := h.Search.SearchRoomOffers(r.Context(), chi.URLParam(r, "hotelId"), crit)
	if err != nil {
		writeErr(w, err)
		return
	}
	if offers == nil {
		offers = []domain.RoomOffer{}
	}
	writeJSON(w, http.StatusOK, offers)
}

func (h *Handlers) hotelDetails(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hotel, err := h.Search.HotelDetails(r.Context(), chi.URLParam(r, "hotelId"), q.Get("domain"), q.Get("locale"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeConditional(w, r, hotel)
}

func (h *Handlers) roomOfferDetails(w http.ResponseWriter, r *http.Request) {
	crit, err := roomCriteriaFromQuery(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	offer, err := h.Search.RoomOfferDetails(r.Context(), r.URL.Query().Get("hotel_id"), chi.URLParam(r, "roomId"), crit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeConditional(w, r, offer)
}

/* ---------- bookings ---------- */

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req app.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be JSON")
		return
	}
	req.UserEmail = userEmail(r)

	res, err := h.Booking.Reserve(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	switch res.State {
	case app.StateCommitted:
		writeJSON(w, http.StatusCreated, res)
	case app.StateConflict:
		writeJSON(w, http.StatusConflict, res)
	default: // validation rejected; attempt stays in collecting
		writeJSON(w, http.StatusUnprocessableEntity, res)
	}
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	email, ok := requireUser(w, r)
	if !ok {
		return
	}
	out, err := h.Booking.ListBookings(r.Context(), email)
	if err != nil {
		writeErr(w, err)
		return
	}
	if out == nil {
		out = []domain.Reservation{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	email, ok := requireUser(w, r)
	if !ok {
		return
	}
	res, found, err := h.Booking.GetBooking(r.Context(), chi.URLParam(r, "bookingId"), email)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !found {
		writeProblem(w, http.StatusNotFound, "Not Found", "no reservation with that booking id")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) updateAdults(w http.ResponseWriter, r *http.Request) {
	email, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Adults int `json:"adults"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be JSON")
		return
	}
	res, err := h.Booking.UpdateAdults(r.Context(), chi.URLParam(r, "bookingId"), email, body.Adults)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	email, ok := requireUser(w, r)
	if !ok {
		return
	}
	res, err := h.Booking.CancelBooking(r.Context(), chi.URLParam(r, "bookingId"), email)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) verifyBooking(w http.ResponseWriter, r *http.Request) {
	email, ok := requireUser(w, r)
	if !ok {
		return
	}
	res, err := h.Booking.VerifyBooking(r.Context(), chi.URLParam(r, "bookingId"), email)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

/* ---------- session prefs ---------- */

func (h *Handlers) loadPrefs(w http.ResponseWriter, r *http.Request) {
	email, ok := requireUser(w, r)
	if !ok {
		return
	}
	prefs, found, err := h.Session.LoadPrefs(r.Context(), email)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !found {
		writeProblem(w, http.StatusNotFound, "Not Found", "no saved search preferences")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *Handlers) savePrefs(w http.ResponseWriter, r *http.Request) {
	email, ok := requireUser(w, r)
	if !ok {
		return
	}
	var prefs domain.SearchPrefs
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be JSON")
		return
	}
	if err := h.Session.SavePrefs(r.Context(), email, prefs); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) clearPrefs(w http.ResponseWriter, r *http.Request) {
	email, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.Session.ClearPrefs(r.Context(), email); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
