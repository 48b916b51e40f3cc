package rapid_test

import (
	"strings"
	"testing"
	"time"

	"staybook/internal/adapters/rapid"
	"staybook/internal/domain"
)

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(domain.DateLayout)
}

func TestValidateDateFormatAndDateRange_Valid(t *testing.T) {
	errs := rapid.ValidateDateFormatAndDateRange(futureDate(1), futureDate(4))
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	// same-day checkout is allowed
	errs = rapid.ValidateDateFormatAndDateRange(futureDate(2), futureDate(2))
	if len(errs) != 0 {
		t.Fatalf("expected no errors for same-day range, got %v", errs)
	}
}

func TestValidateDateFormatAndDateRange_CheckoutBeforeCheckin(t *testing.T) {
	errs := rapid.ValidateDateFormatAndDateRange(futureDate(5), futureDate(2))
	if len(errs) != 1 {
		t.Fatalf("expected exactly one range error, got %v", errs)
	}
	if !strings.Contains(errs[0], "Check-out date must be after or the same as") {
		t.Fatalf("unexpected message: %s", errs[0])
	}
}

func TestValidateDateFormatAndDateRange_BadFormat(t *testing.T) {
	errs := rapid.ValidateDateFormatAndDateRange("2024/07/01", futureDate(3))
	if len(errs) == 0 {
		t.Fatal("expected format errors")
	}
	if !strings.Contains(errs[0], "Invalid checkin_date format. Use YYYY-MM-DD.") {
		t.Fatalf("unexpected message: %s", errs[0])
	}
	// month 13 must fail the calendar regex
	errs = rapid.ValidateDateFormatAndDateRange("2030-13-01", futureDate(3))
	if len(errs) == 0 {
		t.Fatal("expected format error for month 13")
	}
}

func TestValidateDateRange_PastCheckin(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1).Format(domain.DateLayout)
	if m := rapid.ValidateDateRange(yesterday, futureDate(1)); m != "Check-in date cannot be in the past." {
		t.Fatalf("unexpected message: %q", m)
	}
	// today is not "in the past"
	today := time.Now().Format(domain.DateLayout)
	if m := rapid.ValidateDateRange(today, today); m != "" {
		t.Fatalf("today should be accepted, got %q", m)
	}
}

func TestValidateDomainAndLocale(t *testing.T) {
	if errs := rapid.ValidateDomainAndLocale("US", "en_US"); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	// empty values are allowed; defaults apply later
	if errs := rapid.ValidateDomainAndLocale("", ""); len(errs) != 0 {
		t.Fatalf("expected no errors for empty values, got %v", errs)
	}
	errs := rapid.ValidateDomainAndLocale("XX", "xx_XX")
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got %v", errs)
	}
	if !strings.Contains(errs[0], "Invalid domain. Must be one of:") {
		t.Fatalf("unexpected domain message: %s", errs[0])
	}
	if !strings.Contains(errs[1], "Invalid locale. Must be one of:") {
		t.Fatalf("unexpected locale message: %s", errs[1])
	}
}

func TestValidatePriceRange(t *testing.T) {
	if m := rapid.ValidatePriceRange(nil); m != "" {
		t.Fatalf("nil range should pass, got %q", m)
	}
	if m := rapid.ValidatePriceRange(&domain.PriceRange{Min: 50, Max: 200}); m != "" {
		t.Fatalf("valid range should pass, got %q", m)
	}
	if m := rapid.ValidatePriceRange(&domain.PriceRange{Min: -1, Max: 10}); m == "" {
		t.Fatal("negative min should fail")
	}
	if m := rapid.ValidatePriceRange(&domain.PriceRange{Min: 300, Max: 200}); m == "" {
		t.Fatal("min > max should fail")
	}
}

func TestValidateHotelCriteria(t *testing.T) {
	c := domain.HotelCriteria{
		RegionID:     "603324",
		Domain:       "US",
		Locale:       "en_US",
		CheckinDate:  futureDate(1),
		CheckoutDate: futureDate(4),
		Adults:       2,
		SortOrder:    "PRICE_LOW_TO_HIGH",
		Amenities:    []string{"WIFI", "POOL"},
	}
	if errs := rapid.ValidateHotelCriteria(c); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	c.Amenities = append(c.Amenities, "FREE_UNICORNS")
	c.SortOrder = "CHEAPEST"
	errs := rapid.ValidateHotelCriteria(c)
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got %v", errs)
	}

	var empty domain.HotelCriteria
	if errs := rapid.ValidateHotelCriteria(empty); len(errs) == 0 {
		t.Fatal("empty criteria must not validate")
	}
}
