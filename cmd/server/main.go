package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kitchentory/backend/config"
	httpDelivery "github.com/kitchentory/backend/internal/delivery/http"
	"github.com/kitchentory/backend/internal/domain"
	"github.com/kitchentory/backend/internal/infrastructure/cache"
	"github.com/kitchentory/backend/internal/infrastructure/catalog"
	"github.com/kitchentory/backend/internal/infrastructure/metrics"
	"github.com/kitchentory/backend/internal/infrastructure/pricefeed"
	"github.com/kitchentory/backend/internal/logger"
	"github.com/kitchentory/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration (.env, config.yaml, KITCHENTORY_* env)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Server.Environment)
	defer log.Sync()

	log.Info("starting Kitchentory backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache", cfg.Cache.Type),
	)

	// Initialize infrastructure dependencies
	ctx := context.Background()

	store, err := cache.New(ctx, cfg.Cache.Type, cfg.Cache.RedisURL)
	if err != nil {
		log.Fatal("failed to initialize cache", zap.Error(err))
	}
	defer store.Close()

	source, err := catalog.NewFileSource(cfg.Catalog.Path, log)
	if err != nil {
		log.Fatal("failed to load recipe catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	}

	var feed domain.PriceFeed
	if cfg.PriceFeed.BaseURL != "" {
		feed = pricefeed.NewClient(pricefeed.Config{
			BaseURL:           cfg.PriceFeed.BaseURL,
			APIKey:            cfg.PriceFeed.APIKey,
			RequestsPerSecond: cfg.PriceFeed.RequestsPerSecond,
			Burst:             cfg.PriceFeed.Burst,
			Timeout:           cfg.PriceFeed.Timeout,
		}, log)
		log.Info("price feed configured", zap.String("base_url", cfg.PriceFeed.BaseURL))
	} else {
		log.Warn("price feed not configured, missing ingredients use the default cost")
	}

	// Initialize usecase layer
	var substitutions usecase.SubstitutionTable
	if len(cfg.Matching.Substitutions) > 0 {
		substitutions = usecase.SubstitutionTable(cfg.Matching.Substitutions)
	}
	missingCost := decimal.NewFromFloat(cfg.Matching.DefaultMissingCost)

	engine := usecase.NewRecommendationEngine(usecase.EngineConfig{
		SimilarityThreshold: cfg.Matching.SimilarityThreshold,
		Substitutions:       substitutions,
		OverFetchFactor:     cfg.Matching.OverFetchFactor,
		MissingCost:         &missingCost,
		Workers:             cfg.Matching.Workers,
	}, log)

	pricing := usecase.NewPricingService(store, feed, usecase.PricingServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	}, log)

	recorder := metrics.NewRecorder()

	service := usecase.NewRecommendationService(source, pricing, engine, recorder, usecase.RecommendationServiceConfig{
		DefaultLimit:      cfg.Matching.DefaultLimit,
		DefaultMaxMissing: cfg.Matching.DefaultMaxMissing,
	}, log)

	log.Info("matching configured",
		zap.Float64("similarity_threshold", cfg.Matching.SimilarityThreshold),
		zap.Int("over_fetch_factor", cfg.Matching.OverFetchFactor),
		zap.Int("workers", cfg.Matching.Workers),
		zap.Bool("custom_substitutions", substitutions != nil),
	)

	handler := httpDelivery.NewHandler(service, log)
	router := httpDelivery.SetupRouter(cfg, handler, recorder.Handler(), log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// SIGHUP reloads the recipe catalog; SIGINT/SIGTERM shut down
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range signals {
		if sig != syscall.SIGHUP {
			break
		}
		if err := source.Reload(); err != nil {
			log.Error("catalog reload failed, keeping previous catalog", zap.Error(err))
		}
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
