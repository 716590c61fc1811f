package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"brewboard/internal/amqp"
	"brewboard/internal/backend"
	"brewboard/internal/cli"
	apphttp "brewboard/internal/http"
	applog "brewboard/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	source, err := backend.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize dataset backend", applog.FieldError, err)
		os.Exit(1)
	}
	defer source.Close()

	srv, err := apphttp.NewServer(cfg, source, logger)
	if err != nil {
		logger.Error("Failed to initialize HTTP server", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)

	// With AMQP configured, ingest events from the worker flush the
	// aggregate caches immediately instead of waiting out the TTL.
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()

		g.Go(func() error {
			err := client.ConsumeDatasetRefresh(gctx, func(msg *amqp.DatasetRefreshMessage) error {
				logger.Info("Dataset refresh received",
					applog.FieldSource, msg.Source, applog.FieldRows, msg.Rows)
				srv.InvalidateData()
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		logger.Info("Consuming dataset refresh events", "exchange", cfg.AMQPExchange)
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("Starting brewboard", "port", cfg.Port, applog.FieldBackend, cfg.DataBackend)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
