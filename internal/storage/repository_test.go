package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"brewboard/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testTransactions() []core.Transaction {
	day := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)
	return []core.Transaction{
		{Date: day, Hour: 8, Weekday: "Monday", Month: "Jun", TimeOfDay: "Morning",
			City: "Kyiv", Payment: "card", Product: "Latte", Amount: core.Money{Cents: 3870}},
		{Date: day.AddDate(0, 0, 1), Hour: 19, Weekday: "Tuesday", Month: "Jun", TimeOfDay: "Evening",
			City: "Lviv", Payment: "cash", Product: "Americano", Amount: core.Money{Cents: 2500}},
	}
}

func TestRepository_IngestAndLoad(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mtime := time.Now().Truncate(time.Second)

	if err := repo.ReplaceSource(ctx, "drop/a.csv", mtime, testTransactions(), 1); err != nil {
		t.Fatalf("ReplaceSource: %v", err)
	}

	ds, err := repo.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("loaded %d rows, want 2", ds.Len())
	}
	if ds.SkippedRows != 1 {
		t.Errorf("skipped = %d, want 1", ds.SkippedRows)
	}

	got := ds.Transactions[0]
	if got.Product != "Latte" || got.Amount.Cents != 3870 || got.Weekday != "Monday" {
		t.Errorf("first row round-trip mismatch: %+v", got)
	}
	if !got.Date.Equal(time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date round-trip mismatch: %s", got.Date)
	}
}

func TestRepository_ReplaceSourceIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mtime := time.Now().Truncate(time.Second)

	for i := 0; i < 3; i++ {
		if err := repo.ReplaceSource(ctx, "drop/a.csv", mtime, testTransactions(), 0); err != nil {
			t.Fatalf("ReplaceSource #%d: %v", i, err)
		}
	}

	ds, err := repo.LoadDataset(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 2 {
		t.Errorf("re-ingesting the same source duplicated rows: %d, want 2", ds.Len())
	}
}

func TestRepository_SourceMtime(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mtime := time.Unix(1750000000, 0)

	if _, ok, err := repo.SourceMtime(ctx, "drop/a.csv"); err != nil || ok {
		t.Fatalf("unknown source: ok=%v err=%v, want miss", ok, err)
	}

	if err := repo.ReplaceSource(ctx, "drop/a.csv", mtime, testTransactions(), 0); err != nil {
		t.Fatal(err)
	}

	got, ok, err := repo.SourceMtime(ctx, "drop/a.csv")
	if err != nil || !ok {
		t.Fatalf("SourceMtime: ok=%v err=%v", ok, err)
	}
	if !got.Equal(mtime) {
		t.Errorf("mtime = %s, want %s", got, mtime)
	}
}

func TestRepository_MultipleSources(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mtime := time.Now()

	if err := repo.ReplaceSource(ctx, "drop/a.csv", mtime, testTransactions(), 0); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceSource(ctx, "drop/b.csv", mtime, testTransactions()[:1], 0); err != nil {
		t.Fatal(err)
	}

	ds, err := repo.LoadDataset(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 3 {
		t.Errorf("loaded %d rows across sources, want 3", ds.Len())
	}
}
