package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/neowatch/neo-risk-service/internal/adapter/httpapi"
	"github.com/neowatch/neo-risk-service/internal/adapter/neows"
	"github.com/neowatch/neo-risk-service/internal/adapter/sbdb"
	"github.com/neowatch/neo-risk-service/internal/adapter/ssodnet"
	"github.com/neowatch/neo-risk-service/internal/adapter/stream"
	"github.com/neowatch/neo-risk-service/internal/config"
	"github.com/neowatch/neo-risk-service/internal/domain"
	"github.com/neowatch/neo-risk-service/internal/observability"
	"github.com/neowatch/neo-risk-service/internal/service"
)

// alwaysReady reports ready: all wiring is validated at startup and the
// service holds no background state that could go stale.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogFormat, cfg.LogLevel)
	metrics := observability.NewMetrics()

	source := neows.NewCachedSource(
		neows.NewClient(cfg.NasaAPIKey, cfg.NasaAPIBase, cfg.ProviderTimeout, logger, metrics),
		cfg.CacheTTL, metrics)

	catalogs := []domain.PhysicalCatalog{
		ssodnet.NewClient(cfg.ProviderTimeout, logger, metrics),
		sbdb.NewClient(cfg.ProviderTimeout, logger, metrics),
	}

	// Assessment streaming is feature-flagged via STREAM_ENABLED.
	var publisher *stream.Publisher
	var assessmentSink service.AssessmentPublisher
	if cfg.StreamEnabled {
		publisher = stream.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAssessmentTopic, logger, metrics)
		assessmentSink = publisher
		logger.Info("assessment stream enabled", "topic", cfg.KafkaAssessmentTopic)
	} else {
		logger.Info("assessment stream disabled")
	}

	resolverCfg := domain.ResolverConfig{
		DefaultAlbedo:      cfg.DefaultAlbedo,
		DefaultDensityGcm3: cfg.DefaultDensityGcm3,
	}

	svc := service.New(source, catalogs, assessmentSink, cfg.EnrichCacheTTL, resolverCfg, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, svc, alwaysReady{}, cfg.CORSOrigins, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("stream publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
