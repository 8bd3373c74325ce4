// Command oroscopi writes the daily, weekly and monthly planet-position
// snapshots for the current date. It takes no arguments; settings come from
// the environment (see internal/config). Existing snapshot files are never
// modified, so the command is safe to run repeatedly from a periodic trigger.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // zone database for hosts without one

	"github.com/couchcryptid/astro-snapshots/internal/adapter/filestore"
	kafkaadapter "github.com/couchcryptid/astro-snapshots/internal/adapter/kafka"
	"github.com/couchcryptid/astro-snapshots/internal/adapter/meeus"
	"github.com/couchcryptid/astro-snapshots/internal/config"
	"github.com/couchcryptid/astro-snapshots/internal/generator"
	"github.com/couchcryptid/astro-snapshots/internal/observability"
	"github.com/jonboulle/clockwork"
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

	code := run(ctx, cfg, clockwork.NewRealClock(), os.Stdout, logger, metrics)
	stop()

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(context.Background(), cfg.PushgatewayURL, cfg.PushTimeout); err != nil {
			logger.Warn("metrics push failed", "error", err, "url", cfg.PushgatewayURL)
		}
	}
	os.Exit(code)
}

func run(
	ctx context.Context,
	cfg *config.Config,
	clock clockwork.Clock,
	out io.Writer,
	logger *slog.Logger,
	metrics *observability.Metrics,
) int {
	var publisher generator.Publisher
	if cfg.PublishEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("snapshot publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	gen := generator.New(
		clock,
		cfg.Location(),
		meeus.New(),
		filestore.New(cfg.OutputDir),
		publisher,
		logger,
		metrics,
	)

	res, err := gen.Run(ctx)
	if err != nil {
		logger.Error("snapshot generation failed", "error", err)
		return 1
	}

	if res.AlreadyPresent {
		fmt.Fprintln(out, "Period snapshots already present, nothing to do.")
		return 0
	}
	fmt.Fprintf(out, "OK: snapshots generated (missing ones only): %d written, %d already present.\n",
		len(res.Written), len(res.Skipped))
	return 0
}
