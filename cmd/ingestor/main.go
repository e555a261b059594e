package main

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"umrah_booking/internal/adapters/observability"
	redisad "umrah_booking/internal/adapters/redis"
	"umrah_booking/internal/adapters/supplier"
	"umrah_booking/internal/app"
	"umrah_booking/internal/domain"
	"umrah_booking/internal/shared"
	mysqlrepo "umrah_booking/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("base", cfg.SupplierBase).
		Int("workers", cfg.Workers).
		Int("ids", len(cfg.SupplierIDs)).
		Msg("ingestor starting")

	if len(cfg.SupplierIDs) == 0 {
		log.Fatal().Msg("INGEST_SUPPLIER_IDS is empty; nothing to ingest")
	}

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := supplier.New(cfg.SupplierBase, cfg.SupplierKey, cfg.SupplierRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize supplier client")
	}

	// Cache eviction is optional; ingestion still works without redis.
	var cache domain.Cache
	if cfg.SessionBackend != "memory" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable; caches will expire on their own")
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	ing := app.NewIngestionService(client, repo, cache)
	sem := semaphore.NewWeighted(int64(max(cfg.Workers, 1)))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, id := range cfg.SupplierIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(supplierID int64) {
			defer wg.Done()
			defer sem.Release(1)

			if err := ing.IngestHotel(ctx, supplierID); err != nil {
				failed.Add(1)
				log.Warn().Int64("id", supplierID).Err(err).Msg("ingest failed")
				return
			}
			log.Info().Int64("id", supplierID).Msg("ingest ok")
		}(id)
	}

	wg.Wait()
	log.Info().Int("total", len(cfg.SupplierIDs)).Int64("failed", failed.Load()).Msg("ingestion completed")
}
