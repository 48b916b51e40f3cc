package rapid

// Fixed option sets recognized by the provider. Anything outside these
// sets is rejected before a request is issued.

var DomainOptions = []string{
	"AR", "AU", "BR", "CA", "DE", "ES", "FR", "GB",
	"IN", "IT", "JP", "KR", "MX", "NL", "SE", "SG", "US",
}

var LocaleOptions = []string{
	"de_DE", "en_AU", "en_CA", "en_GB", "en_IN", "en_SG", "en_US",
	"es_AR", "es_ES", "es_MX", "fr_FR", "it_IT", "ja_JP", "ko_KR",
	"nl_NL", "pt_BR", "sv_SE",
}

var SortOrderOptions = []string{
	"RECOMMENDED", "DISTANCE", "PRICE_LOW_TO_HIGH", "PRICE_HIGH_TO_LOW",
	"PRICE_RELEVANT", "REVIEW", "PROPERTY_CLASS",
}

var AccessibilityOptions = []string{
	"SIGN_LANGUAGE_INTERPRETER", "STAIR_FREE_PATH", "SERVICE_ANIMAL",
	"IN_ROOM_ACCESSIBLE", "ROLL_IN_SHOWER", "ACCESSIBLE_BATHROOM",
	"ACCESSIBLE_PARKING", "ELEVATOR",
}

var AmenityOptions = []string{
	"SPA_ON_SITE", "WIFI", "HOT_TUB", "FREE_AIRPORT_TRANSPORTATION",
	"POOL", "AIR_CONDITIONING", "WASHER_DRYER", "CRIB",
	"KITCHEN_KITCHENETTE", "OCEAN_VIEW", "WATER_PARK",
	"BALCONY_OR_TERRACE", "PETS", "CASINO", "RESTAURANT_IN_HOTEL",
	"GYM", "ELECTRIC_CAR", "PARKING",
}

var MealPlanOptions = []string{
	"ALL_INCLUSIVE", "FULL_BOARD", "HALF_BOARD", "FREE_BREAKFAST",
}

var LodgingTypeOptions = []string{
	"HOTEL", "HOTEL_RESORT", "APART_HOTEL", "APARTMENT", "MOTEL",
	"VACATION_HOME", "CONDO_RESORT", "CONDO", "PENSION",
}

var PaymentTypeOptions = []string{
	"GIFT_CARD", "PAY_LATER", "FREE_CANCELLATION",
}

const (
	DefaultDomain = "US"
	DefaultLocale = "en_US"
)

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
