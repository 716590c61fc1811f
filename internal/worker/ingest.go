// Package worker ingests transaction CSVs dropped into a watch directory
// into the SQLite dataset backend, announcing each ingest over AMQP so
// running dashboards flush their caches.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"brewboard/internal/amqp"
	"brewboard/internal/dataset"
	applog "brewboard/internal/log"
	"brewboard/internal/storage"
)

// Publisher announces dataset refreshes. Nil-able: without AMQP the
// worker still ingests, dashboards just rely on their own TTLs.
type Publisher interface {
	PublishDatasetRefresh(ctx context.Context, msg *amqp.DatasetRefreshMessage) error
}

type IngestWorker struct {
	loader    *dataset.Loader
	repo      *storage.SQLiteRepository
	publisher Publisher
	watchDir  string
	logger    *applog.Logger
}

func NewIngestWorker(repo *storage.SQLiteRepository, publisher Publisher, watchDir string, logger *applog.Logger) *IngestWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &IngestWorker{
		loader:    dataset.NewLoader(logger),
		repo:      repo,
		publisher: publisher,
		watchDir:  watchDir,
		logger:    logger.WithComponent(applog.ComponentWorker),
	}
}

// Run scans the watch directory on a fixed interval until ctx is
// cancelled. The first scan happens immediately.
func (w *IngestWorker) Run(ctx context.Context, interval time.Duration) error {
	if _, err := w.ScanOnce(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Initial scan failed", applog.FieldError, err.Error())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ScanOnce(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Scan failed", applog.FieldError, err.Error())
			}
		}
	}
}

// ScanOnce ingests every new or modified CSV in the watch directory and
// returns how many files were ingested. Unchanged files (by recorded
// mtime) are skipped; a bad file is logged and does not stop the scan.
func (w *IngestWorker) ScanOnce(ctx context.Context) (int, error) {
	pattern := filepath.Join(w.watchDir, "*.csv")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", w.watchDir, err)
	}

	ingested := 0
	for _, path := range files {
		ok, err := w.ingestFile(ctx, path)
		if err != nil {
			w.logger.WarnContext(ctx, "Skipping file",
				applog.FieldSource, path, applog.FieldError, err.Error())
			continue
		}
		if ok {
			ingested++
		}
	}
	return ingested, nil
}

// ingestFile ingests one CSV. Returns false when the file is unchanged.
func (w *IngestWorker) ingestFile(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat: %w", err)
	}

	recorded, seen, err := w.repo.SourceMtime(ctx, path)
	if err != nil {
		return false, err
	}
	if seen && !info.ModTime().Truncate(time.Second).After(recorded) {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	txs, skipped, err := w.loader.Parse(f)
	if err != nil {
		return false, fmt.Errorf("parse: %w", err)
	}

	if err := w.repo.ReplaceSource(ctx, path, info.ModTime().Truncate(time.Second), txs, skipped); err != nil {
		return false, fmt.Errorf("ingest: %w", err)
	}

	w.logger.InfoContext(ctx, "Ingested source file",
		applog.FieldSource, path,
		applog.FieldRows, len(txs),
		applog.FieldSkipped, skipped)

	if w.publisher != nil {
		msg := amqp.NewDatasetRefreshMessage(path, len(txs), skipped)
		if err := w.publisher.PublishDatasetRefresh(ctx, msg); err != nil {
			// Ingest already landed; dashboards will catch up via TTL.
			w.logger.ErrorContext(ctx, "Failed to publish refresh",
				applog.FieldSource, path, applog.FieldError, err.Error())
		}
	}
	return true, nil
}
