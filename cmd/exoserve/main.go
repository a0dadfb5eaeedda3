package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"exoplanet-detector/internal/artifact"
	"exoplanet-detector/internal/cfg"
	"exoplanet-detector/internal/metrics"
	"exoplanet-detector/internal/ml"
	"exoplanet-detector/internal/server"
	"exoplanet-detector/internal/storage"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	setupLogging(c)

	// Optional components stay nil interfaces when disabled
	var (
		engineMetrics ml.MetricsInterface
		loaderMetrics artifact.MetricsInterface
		httpMetrics   server.HTTPMetrics
		gatherer      prometheus.Gatherer
	)
	if c.MetricsEnabled {
		mw := metrics.NewWrapper(metrics.New())
		engineMetrics, loaderMetrics, httpMetrics = mw, mw, mw
		gatherer = prometheus.DefaultGatherer
	}

	var (
		cache   artifact.Cache
		predLog server.PredictionLog
	)
	if store := initializeStorage(c); store != nil {
		defer store.Close()
		cache, predLog = store, store
	}

	models := loadModels(c, cache, loaderMetrics)

	srv := server.New(server.Options{
		Port:     c.ServerPort,
		Engine:   ml.NewEngine(models, engineMetrics),
		Store:    predLog,
		Metrics:  httpMetrics,
		Gatherer: gatherer,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	waitForShutdown(srv, errCh)
}

func setupLogging(c cfg.Settings) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if strings.EqualFold(c.LogFormat, "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// initializeStorage opens the artifact cache and prediction log if DATA_PATH is configured
func initializeStorage(c cfg.Settings) *storage.Store {
	if c.DataPath == "" {
		return nil
	}
	if err := os.MkdirAll(c.DataPath, 0o755); err != nil {
		log.Warn().Err(err).Str("path", c.DataPath).Msg("cannot create data directory, continuing without persistence")
		return nil
	}
	store, err := storage.New(c.DataPath)
	if err != nil {
		log.Warn().Err(err).Msg("storage initialization failed, continuing without persistence")
		return nil
	}
	return store
}

// loadModels runs artifact acquisition before the listener opens. A signal
// during startup aborts the fetch and the service comes up on the fallback.
func loadModels(c cfg.Settings, cache artifact.Cache, m artifact.MetricsInterface) *ml.Models {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, c.StartupTimeout)
	defer cancel()

	fetcher := artifact.NewFetcher(artifact.Options{
		Timeout:    c.FetchTimeout,
		MaxRetries: c.FetchMaxRetries,
		MaxElapsed: c.FetchMaxElapsed,
		MaxBytes:   c.MaxArtifactBytes,
	})

	return artifact.NewLoader(fetcher, cache, m).Load(ctx, artifact.Locations{
		Classifier: c.ModelURL,
		Scaler:     c.ScalerURL,
	})
}

func waitForShutdown(srv *server.Server, errCh <-chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
	}

	log.Info().Msg("shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("shutdown timeout, forcing exit")
		return
	}
	log.Info().Msg("server stopped")
}
