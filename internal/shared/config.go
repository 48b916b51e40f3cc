package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	MySQLDSN  string
	RedisAddr string
	RedisDB   int
	RedisPass string

	RapidBase string
	RapidKey  string
	RapidHost string
	RapidRPS  int

	CacheTTL       time.Duration
	SnapshotMaxAge time.Duration // zero disables staleness refresh
	PrefsTTL       time.Duration

	// Warmer settings.
	Workers      int
	WarmHotelIDs []string
	WarmDomain   string
	WarmLocale   string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/staybook?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RapidBase:      env("RAPIDAPI_BASE_URL", "https://hotels4.p.rapidapi.com"),
		RapidKey:       env("RAPIDAPI_KEY", ""),
		RapidHost:      env("RAPIDAPI_HOST", "hotels4.p.rapidapi.com"),
		RapidRPS:       atoi("RAPIDAPI_RPS", 4),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SnapshotMaxAge: time.Duration(atoi("SNAPSHOT_MAX_AGE_SECONDS", 0)) * time.Second,
		PrefsTTL:       time.Duration(atoi("PREFS_TTL_SECONDS", 86400)) * time.Second,
		Workers:        atoi("WARM_WORKERS", 8),
		WarmHotelIDs:   splitIDs(os.Getenv("WARM_HOTEL_IDS")),
		WarmDomain:     env("WARM_DOMAIN", "US"),
		WarmLocale:     env("WARM_LOCALE", "en_US"),
	}
	if c.RapidKey == "" {
		log.Warn().Msg("RAPIDAPI_KEY is empty")
	}
	return c
}

func splitIDs(s string) []string {
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

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
