// Package backend selects where the dashboard's dataset comes from:
// a single CSV file, or the SQLite store fed by the ingest worker.
package backend

import (
	"context"
	"fmt"
	"sync"

	"brewboard/internal/config"
	"brewboard/internal/core"
	"brewboard/internal/dataset"
	applog "brewboard/internal/log"
	"brewboard/internal/storage"
)

// Source serves the full transaction dataset. Implementations memoize the
// load; Invalidate forces the next Load to hit the underlying store.
type Source interface {
	Load(ctx context.Context) (*core.Dataset, error)
	Invalidate()
	Close() error
}

// Type names a dataset backend.
type Type string

const (
	CSVBackend    Type = "csv"
	SQLiteBackend Type = "sqlite"
)

// IsValid returns true for a known backend type.
func (t Type) IsValid() bool {
	return t == CSVBackend || t == SQLiteBackend
}

// New creates the Source named by cfg.DataBackend.
func New(cfg *config.Config, logger *applog.Logger) (Source, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid data backend %q", cfg.DataBackend)
	}

	log := logger.WithComponent(applog.ComponentBackend)
	switch t {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		log.Info("Initialized SQLite dataset backend", applog.FieldSource, cfg.SQLiteDBPath)
		return &sqliteSource{repo: repo}, nil
	default:
		log.Info("Initialized CSV dataset backend", applog.FieldSource, cfg.CSVPath)
		return &csvSource{
			loader: dataset.NewLoader(logger),
			path:   cfg.CSVPath,
		}, nil
	}
}

type csvSource struct {
	loader *dataset.Loader
	path   string
}

func (s *csvSource) Load(ctx context.Context) (*core.Dataset, error) {
	return s.loader.Load(s.path)
}

func (s *csvSource) Invalidate() { s.loader.Invalidate() }
func (s *csvSource) Close() error { return nil }

type sqliteSource struct {
	repo *storage.SQLiteRepository

	mu     sync.Mutex
	cached *core.Dataset
}

func (s *sqliteSource) Load(ctx context.Context) (*core.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return s.cached, nil
	}
	ds, err := s.repo.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	s.cached = ds
	return ds, nil
}

func (s *sqliteSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}

func (s *sqliteSource) Close() error { return s.repo.Close() }
