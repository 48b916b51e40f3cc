package rapid

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"staybook/internal/domain"
)

// ValidationError aggregates every human-readable message produced while
// checking search parameters. No request is issued when it is non-nil.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid search parameters: " + strings.Join(e.Messages, " ")
}

func validationErr(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: msgs}
}

var dateRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[012])-(0[1-9]|[12][0-9]|3[01])$`)

// ValidateDateFormat checks a YYYY-MM-DD date; the empty string on a
// clean pass.
func ValidateDateFormat(date, searchParam string) string {
	if date == "" || !dateRe.MatchString(date) {
		return fmt.Sprintf("Invalid %s format. Use YYYY-MM-DD. Use only numbers.", searchParam)
	}
	return ""
}

// ValidateDateRange checks that check-in is not in the past and check-out
// is the same day or later. Comparison is by calendar date.
func ValidateDateRange(checkinDate, checkoutDate string) string {
	if checkinDate == "" || checkoutDate == "" {
		return "Invalid date range format or missing checkin_date and/or checkout_date."
	}
	today := time.Now().Format(domain.DateLayout)
	if checkinDate < today {
		return "Check-in date cannot be in the past."
	}
	if checkoutDate < checkinDate {
		return "Check-out date must be after or the same as the check-in date."
	}
	return ""
}

func ValidateDateFormatAndDateRange(checkinDate, checkoutDate string) []string {
	var errs []string
	if m := ValidateDateFormat(checkinDate, "checkin_date"); m != "" {
		errs = append(errs, m)
	}
	if m := ValidateDateFormat(checkoutDate, "checkout_date"); m != "" {
		errs = append(errs, m)
	}
	if m := ValidateDateRange(checkinDate, checkoutDate); m != "" {
		errs = append(errs, m)
	}
	return errs
}

func ValidateDomain(dom string) string {
	if dom != "" && !contains(DomainOptions, dom) {
		return fmt.Sprintf("Invalid domain. Must be one of: %s.", strings.Join(DomainOptions, ", "))
	}
	return ""
}

func ValidateLocale(locale string) string {
	if locale != "" && !contains(LocaleOptions, locale) {
		return fmt.Sprintf("Invalid locale. Must be one of: %s.", strings.Join(LocaleOptions, ", "))
	}
	return ""
}

func ValidateDomainAndLocale(dom, locale string) []string {
	var errs []string
	if m := ValidateDomain(dom); m != "" {
		errs = append(errs, m)
	}
	if m := ValidateLocale(locale); m != "" {
		errs = append(errs, m)
	}
	return errs
}

func ValidatePriceRange(pr *domain.PriceRange) string {
	if pr == nil {
		return ""
	}
	if pr.Min < 0 || pr.Max < 0 {
		return "Invalid price range. price_min and price_max must be non-negative."
	}
	if pr.Min > pr.Max {
		return "Invalid price range. price_min must be less than or equal to price_max."
	}
	return ""
}

func validateSet(values []string, set []string, name string) []string {
	var errs []string
	for _, v := range values {
		if !contains(set, v) {
			errs = append(errs, fmt.Sprintf("Invalid %s option %q. Must be one of: %s.", name, v, strings.Join(set, ", ")))
		}
	}
	return errs
}

// ValidateHotelCriteria runs every pre-request check for a hotel search.
func ValidateHotelCriteria(c domain.HotelCriteria) []string {
	var errs []string
	if strings.TrimSpace(c.RegionID) == "" {
		errs = append(errs, "Missing region_id.")
	}
	if c.Adults < 1 {
		errs = append(errs, "adults_number must be at least 1.")
	}
	errs = append(errs, ValidateDateFormatAndDateRange(c.CheckinDate, c.CheckoutDate)...)
	errs = append(errs, ValidateDomainAndLocale(c.Domain, c.Locale)...)
	if m := ValidatePriceRange(c.PriceRange); m != "" {
		errs = append(errs, m)
	}
	if c.SortOrder != "" && !contains(SortOrderOptions, c.SortOrder) {
		errs = append(errs, fmt.Sprintf("Invalid sort_order. Must be one of: %s.", strings.Join(SortOrderOptions, ", ")))
	}
	errs = append(errs, validateSet(c.Accessibility, AccessibilityOptions, "accessibility")...)
	errs = append(errs, validateSet(c.Amenities, AmenityOptions, "amenities")...)
	errs = append(errs, validateSet(c.MealPlans, MealPlanOptions, "meal_plan")...)
	errs = append(errs, validateSet(c.LodgingTypes, LodgingTypeOptions, "lodging_type")...)
	errs = append(errs, validateSet(c.PaymentTypes, PaymentTypeOptions, "payment_type")...)
	return errs
}

// ValidateRoomCriteria runs every pre-request check for a room-offer search.
func ValidateRoomCriteria(c domain.RoomCriteria) []string {
	var errs []string
	if c.Adults < 1 {
		errs = append(errs, "adults_number must be at least 1.")
	}
	errs = append(errs, ValidateDateFormatAndDateRange(c.CheckinDate, c.CheckoutDate)...)
	errs = append(errs, ValidateDomainAndLocale(c.Domain, c.Locale)...)
	return errs
}
