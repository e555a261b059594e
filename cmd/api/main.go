package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "umrah_booking/internal/adapters/http_server"
	"umrah_booking/internal/adapters/observability"
	redisad "umrah_booking/internal/adapters/redis"
	"umrah_booking/internal/app"
	"umrah_booking/internal/domain"
	"umrah_booking/internal/search"
	"umrah_booking/internal/session"
	"umrah_booking/internal/shared"
	"umrah_booking/internal/storage/memory"
	mysqlrepo "umrah_booking/internal/storage/mysql"
)

// repos bundles the three repository ports served by one storage backend.
type repos interface {
	domain.ListingRepository
	domain.BookingRepository
	domain.ProfileRepository
}

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// storage
	var repo repos
	switch cfg.StorageDriver {
	case "memory":
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		repo = memory.New()
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		defer db.Close()
		log.Info().Msg("database connection ok")
		repo = mysqlrepo.New(db)
	}

	// cache + session persistence
	var (
		cache   domain.Cache
		persist session.Persistence
	)
	switch cfg.SessionBackend {
	case "memory":
		persist = session.NewMemoryPersistence()
	default:
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		defer rc.Close()
		cache, persist = rc, rc
	}

	notify := session.NewNotifications(persist)
	wishlist := session.NewWishlist(persist)
	defaults := search.Defaults{
		Sort: search.SortKey(cfg.Search.Search.Sort),
		View: search.ViewMode(cfg.Search.Search.View),
	}

	// http
	catalog := app.NewCatalogService(repo, cache, cfg.CacheTTL)
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:       catalog,
		Search:        app.NewSearchService(repo, cache, cfg.CacheTTL, defaults, cfg.Search.Amenities),
		Bookings:      app.NewBookingService(repo, repo, notify),
		Profiles:      app.NewProfileService(repo),
		Dashboard:     app.NewDashboardService(repo, repo, repo, wishlist, notify),
		Wishlist:      wishlist,
		Notifications: notify,
		Compare:       session.NewComparison(persist, catalog.Get),
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("storage", cfg.StorageDriver).Str("sessions", cfg.SessionBackend).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("API stopped")
}
