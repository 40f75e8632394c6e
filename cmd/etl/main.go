// Command etl runs the sounding pipeline and serves the emagram reference
// curves over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/emagram-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/emagram-etl/internal/adapter/kafka"
	"github.com/couchcryptid/emagram-etl/internal/config"
	"github.com/couchcryptid/emagram-etl/internal/emagram"
	"github.com/couchcryptid/emagram-etl/internal/observability"
	"github.com/couchcryptid/emagram-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engines, err := emagram.NewEngines(emagram.StandardGrid(), cfg.MoistSubsteps, logger)
	if err != nil {
		logger.Error("failed to build curve engines", "error", err)
		os.Exit(1)
	}
	curves := emagram.NewCachedCurves(engines, cfg.CurveCacheSize, metrics)
	baseline, err := emagram.NewAssembler(curves, cfg.CurveWorkers, logger, metrics).Assemble(ctx, emagram.DefaultSweep())
	if err != nil {
		logger.Error("failed to assemble baseline", "error", err)
		os.Exit(1)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(logger, metrics)
	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv, err := httpadapter.NewServer(cfg.HTTPAddr, p, curves, baseline, logger)
	if err != nil {
		logger.Error("failed to build http server", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
