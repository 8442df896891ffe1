package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/listing-browser/internal/config"
	"github.com/dimitrije/listing-browser/internal/database"
	"github.com/dimitrije/listing-browser/internal/handlers"
	"github.com/dimitrije/listing-browser/internal/logging"
	"github.com/dimitrije/listing-browser/internal/metrics"
	reqmw "github.com/dimitrije/listing-browser/internal/middleware"
	"github.com/dimitrije/listing-browser/internal/services"
	"github.com/dimitrije/listing-browser/internal/source"
	"github.com/dimitrije/listing-browser/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector("listing_browser")

	storeOpts := []services.StoreOption{
		services.WithLogger(logger.Named("store")),
		services.WithObserver(collector),
		services.WithPlaceholderImage(cfg.PlaceholderImageURL),
	}

	var listingSource services.ListingSource
	switch cfg.Source {
	case config.SourceHTTP:
		listingSource = source.NewHTTPSource(cfg.ListingsURL, cfg.SourceTimeout, source.BreakerConfig{
			MaxFailures: cfg.Breaker.MaxFailures,
			OpenTimeout: cfg.Breaker.OpenTimeout,
		}, logger.Named("source"))
	case config.SourcePostgres:
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		listingSource = database.NewListingSource(db)
	default:
		seed := source.SeedListings()
		listingSource = source.NewMemorySource(seed)
		storeOpts = append(storeOpts, services.WithInitialListings(seed))
	}

	store := services.NewListingStore(listingSource, storeOpts...)

	hub := sse.NewHub()
	stopPublishing := handlers.PublishSnapshots(store, hub)
	defer stopPublishing()

	listingHandler := handlers.NewListingHandler(store, services.NewListingValidator(), logger.Named("http"))
	sseHandler := handlers.NewSSEHandler(hub, store)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(reqmw.RequestLogger(logger.Named("http")))

	api := app.Group("/api/v1")

	api.Get("/listings", listingHandler.List)
	api.Post("/listings", listingHandler.Create)
	api.Get("/listings/:id", listingHandler.Get)
	api.Post("/refresh", listingHandler.Refresh)
	api.Get("/events", sseHandler.Connect)

	api.Get("/health", func(c *drift.Context) {
		snap := store.Snapshot()
		_ = c.JSON(200, map[string]any{
			"status":         "ok",
			"listing_status": snap.Status(),
			"listings":       snap.Len(),
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.Handle("/", app)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if cfg.Source != config.SourceSeed {
		g.Go(func() error {
			if err := store.Refresh(gctx); err != nil {
				logger.Warn("initial refresh failed", zap.Error(err))
			}
			return nil
		})
	}

	if cfg.RefreshInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.RefreshInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					_ = store.Refresh(gctx)
				}
			}
		})
	}

	g.Go(func() error {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("source", cfg.Source),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
}
