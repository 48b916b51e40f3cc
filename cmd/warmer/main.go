package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"staybook/internal/adapters/observability"
	"staybook/internal/adapters/rapid"
	redisad "staybook/internal/adapters/redis"
	"staybook/internal/app"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
)

// The warmer bulk-refreshes durable hotel snapshots so first reads after
// a deploy don't all fall through to the provider.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	if len(cfg.WarmHotelIDs) == 0 {
		log.Fatal().Msg("WARM_HOTEL_IDS is empty; nothing to warm")
	}

	log.Info().
		Str("base", cfg.RapidBase).
		Int("workers", cfg.Workers).
		Int("hotels", len(cfg.WarmHotelIDs)).
		Msg("warmer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	store := mysqlrepo.NewStore(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	provider, err := rapid.New(cfg.RapidBase, cfg.RapidKey, cfg.RapidHost, cfg.RapidRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("provider client init failed")
	}
	search := app.NewSearchService(provider, store, cache, app.NewSanitizer(), cfg.CacheTTL, cfg.SnapshotMaxAge)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range cfg.WarmHotelIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotelID string) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := search.WarmHotel(ctx, hotelID, cfg.WarmDomain, cfg.WarmLocale); err != nil {
				log.Warn().Str("id", hotelID).Err(err).Msg("warm failed")
				return
			}
			log.Info().Str("id", hotelID).Msg("warm ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("warming completed")
}
