// Package main is the entry point for the flexible-date flight search service.
//
//	@title						Flexible-Date Flight Search API
//	@version					1.0.0
//	@description				Batch flight search over departure and return date ranges. Runs are throttled to the pricing provider's quota and summarized as price calendars, best deals and departure x return matrices.
//
//	@contact.name				API Support
//	@contact.url				https://github.com/flight-search/flexible-date-search/issues
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@schemes					http https
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Import generated docs for swagger
	_ "github.com/flight-search/flexible-date-search/docs"

	// Application layers
	searchhttp "github.com/flight-search/flexible-date-search/internal/adapter/http"
	"github.com/flight-search/flexible-date-search/internal/adapter/http/middleware"
	"github.com/flight-search/flexible-date-search/internal/adapter/provider/amadeus"
	"github.com/flight-search/flexible-date-search/internal/adapter/provider/fixture"
	"github.com/flight-search/flexible-date-search/internal/adapter/store/memory"
	"github.com/flight-search/flexible-date-search/internal/adapter/store/sqlite"
	"github.com/flight-search/flexible-date-search/internal/config"
	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/logger"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/ratelimit"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
	"github.com/flight-search/flexible-date-search/internal/usecase"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger with config
	log := logger.New(logger.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		EnableCaller: cfg.Logging.Caller,
		ServiceName:  "flexible-date-search",
	})
	log.Install()

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("provider", cfg.Provider.Name).
		Str("store", cfg.Store.Driver).
		Msg("Configuration loaded")

	lookup, err := newLookup(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize lookup")
	}

	store, closeStore, err := newStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize run store")
	}

	// One governor per process: every run draws from the same quota
	clock := timeutil.NewRealClock()
	governor := ratelimit.New(ratelimit.Config{
		PerMinute: cfg.Quota.PerMinute,
		PerHour:   cfg.Quota.PerHour,
	}, clock, log.Logger)
	executor := usecase.NewBatchExecutor(governor, clock, cfg.Quota.LookupTimeout, log.Logger)

	searchUseCase := usecase.NewFlexibleSearchUseCase(lookup, executor, store, clock, log, &usecase.Config{
		MaxCalls:      cfg.Search.MaxCalls,
		MaxActiveRuns: cfg.Search.MaxActiveRuns,
		MaxRangeDays:  cfg.Search.MaxRangeDays,
		PerMinute:     cfg.Quota.PerMinute,
		PerHour:       cfg.Quota.PerHour,
		Defaults: domain.SearchDefaults{
			Currency:   cfg.Search.DefaultCurrency,
			MaxResults: cfg.Search.MaxResults,
			TopN:       cfg.Search.TopN,
		},
	})

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Configure server timeouts from config
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupWithConfig(e, log.Logger, middleware.RecoveryConfig{
		DisablePrintStack: cfg.IsProduction(),
	})

	searchhttp.RegisterRoutes(e, searchhttp.NewSearchHandler(searchUseCase, lookup.Name()))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Start server with graceful shutdown
	addr := cfg.Server.Address()
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	gracefulShutdown(cfg, log, e, searchUseCase, closeStore)
}

// newLookup builds the pricing collaborator selected by PROVIDER.
func newLookup(cfg *config.Config, log *logger.Logger) (domain.FlightLookup, error) {
	switch cfg.Provider.Name {
	case config.ProviderAmadeus:
		return amadeus.NewAdapter(amadeus.Config{
			BaseURL:   cfg.Provider.AmadeusBaseURL,
			APIKey:    cfg.Provider.AmadeusAPIKey,
			APISecret: cfg.Provider.AmadeusSecret,
		}, log.Logger)
	default:
		adapter := fixture.NewAdapter(cfg.Provider.FixturePath)
		if err := adapter.Validate(); err != nil {
			return nil, fmt.Errorf("fixture %s: %w", cfg.Provider.FixturePath, err)
		}
		return adapter, nil
	}
}

// newStore opens the run store selected by STORE_DRIVER. The closer is nil
// for stores without resources to release.
func newStore(cfg *config.Config, log *logger.Logger) (domain.RunStore, io.Closer, error) {
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.Store.SQLitePath, log.Logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return memory.New(), nil, nil
	}
}

// gracefulShutdown stops accepting requests, cancels background runs so their
// partial results are saved, then closes the store.
func gracefulShutdown(
	cfg *config.Config,
	log *logger.Logger,
	e *echo.Echo,
	uc usecase.FlexibleSearchUseCase,
	store io.Closer,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}
	if err := uc.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error while stopping search runs")
	}
	if store != nil {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing run store")
		}
	}

	log.Info().Msg("Server stopped")
}
