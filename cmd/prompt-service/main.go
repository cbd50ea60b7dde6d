package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/promptvault/promptvault/internal/api"
	"github.com/promptvault/promptvault/internal/config"
	"github.com/promptvault/promptvault/internal/health"
	"github.com/promptvault/promptvault/internal/model"
	"github.com/promptvault/promptvault/internal/platform/factory"
	"github.com/promptvault/promptvault/internal/platform/logger"
	"github.com/promptvault/promptvault/internal/service"
	"github.com/promptvault/promptvault/internal/store"
)

func main() {
	// Optional driver flag override (fs | sqlite | postgres)
	dbDriver := flag.String("db-driver", "", "Override DB_DRIVER (fs, sqlite, postgres)")
	flag.Parse()

	log := logger.New("prompt-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid db-driver override")
		}
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Prompt service starting…")

	// -------- Storage layer -----------------
	var stats store.StatsProvider
	if cfg.UsageStatsFile != "" {
		stats = usageStatsFromFile(cfg.UsageStatsFile, log)
	}
	st, err := factory.NewStore(cfg, stats, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Storage backend unavailable")
	}
	svc := service.NewPromptService(st)

	// -------- Health monitoring -------------
	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	var checkers []health.HealthChecker
	if pinger, ok := st.(health.HealthPinger); ok {
		sc := health.NewStoreChecker(pinger, log, 2*time.Second)
		go sc.Start(healthCtx, 30*time.Second)
		checkers = append(checkers, sc)
	}
	hc := health.NewServiceHealthChecker(log, checkers...)
	go hc.Start(healthCtx, 30*time.Second)

	// -------- Router & Server --------------
	router := api.NewRouter(svc, hc)
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// usageStatsFromFile reads a usage snapshot from a JSON file. Read problems
// degrade to empty stats with a warning; ranking then falls back to recency.
func usageStatsFromFile(path string, log zerolog.Logger) store.StatsProvider {
	return func() model.UsageStats {
		var s model.UsageStats
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("usage stats unavailable")
			return s
		}
		if err := json.Unmarshal(data, &s); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("usage stats unparsable")
		}
		return s
	}
}
