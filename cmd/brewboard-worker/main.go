package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"brewboard/internal/amqp"
	"brewboard/internal/cli"
	applog "brewboard/internal/log"
	"brewboard/internal/storage"
	"brewboard/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting brewboard-worker", "watch_dir", cfg.WatchDir)

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			applog.FieldError, err, applog.FieldSource, cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without it dashboards pick up new data when
	// their cache TTL expires.
	var publisher worker.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("Publishing dataset refresh events", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	w := worker.NewIngestWorker(repo, publisher, cfg.WatchDir, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := w.Run(gctx, cfg.WatchInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
