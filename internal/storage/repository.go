// Package storage persists ingested transactions in SQLite so the
// dashboard can serve accumulated CSV drops instead of a single file.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"brewboard/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db   *sql.DB
	path string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceSource atomically swaps all rows from one source file: previous
// rows for the path are deleted, the new batch inserted, and the source
// bookkeeping updated. Re-ingesting an unchanged file is a no-op at the
// caller's discretion via SourceMtime.
func (r *SQLiteRepository) ReplaceSource(ctx context.Context, path string, mtime time.Time, txs []core.Transaction, skipped int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingest tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE source_file = ?`, path); err != nil {
		return fmt.Errorf("clear previous rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (date, hour, weekday, month_name, time_of_day, city, payment_method, product, amount_cents, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		if _, err := stmt.ExecContext(ctx,
			t.Date.Format("2006-01-02"), t.Hour, t.Weekday, t.Month, t.TimeOfDay,
			t.City, t.Payment, t.Product, t.Amount.Cents, path); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO source_files (path, mtime_unix, row_count, skipped_rows, ingested_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(path) DO UPDATE SET
			mtime_unix = excluded.mtime_unix,
			row_count = excluded.row_count,
			skipped_rows = excluded.skipped_rows,
			ingested_at = excluded.ingested_at`,
		path, mtime.Unix(), len(txs), skipped); err != nil {
		return fmt.Errorf("record source file: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ingest: %w", err)
	}

	slog.InfoContext(ctx, "Source ingested into SQLite",
		"source", path, "rows", len(txs), "skipped_rows", skipped)
	return nil
}

// SourceMtime returns the recorded mtime for an ingested source file.
// ok is false when the file was never ingested.
func (r *SQLiteRepository) SourceMtime(ctx context.Context, path string) (time.Time, bool, error) {
	var unix int64
	err := r.db.QueryRowContext(ctx, `SELECT mtime_unix FROM source_files WHERE path = ?`, path).Scan(&unix)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query source mtime: %w", err)
	}
	return time.Unix(unix, 0), true, nil
}

// LoadDataset reads every ingested transaction into a core.Dataset.
func (r *SQLiteRepository) LoadDataset(ctx context.Context) (*core.Dataset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, hour, weekday, month_name, time_of_day, city, payment_method, product, amount_cents
		FROM transactions
		ORDER BY date, hour, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query transactions: %v", core.ErrDataUnavailable, err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var day string
		if err := rows.Scan(&day, &t.Hour, &t.Weekday, &t.Month, &t.TimeOfDay,
			&t.City, &t.Payment, &t.Product, &t.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date, err = time.ParseInLocation("2006-01-02", day, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", day, err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	skipped, err := r.totalSkipped(ctx)
	if err != nil {
		return nil, err
	}
	return core.NewDataset("sqlite:"+r.path, txs, skipped), nil
}

func (r *SQLiteRepository) totalSkipped(ctx context.Context) (int, error) {
	var skipped sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT SUM(skipped_rows) FROM source_files`).Scan(&skipped); err != nil {
		return 0, fmt.Errorf("query skipped rows: %w", err)
	}
	return int(skipped.Int64), nil
}
