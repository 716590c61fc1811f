// Package dataset loads coffee-sales transaction CSVs into memory.
//
// Loading is read-only and memoized by path+mtime: repeated dashboard
// interactions never re-touch storage unless the file itself changed or
// the cache was explicitly invalidated.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"brewboard/internal/core"
	applog "brewboard/internal/log"
)

// Required source columns, matched case-insensitively against headers.
var requiredColumns = []string{"date", "hour_of_day", "weekday", "month_name", "time_of_day", "coffee_name", "money"}

// Optional columns present only in later dataset revisions.
var optionalColumns = []string{"city", "cash_type"}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006", "02.01.2006"}

// Loader reads and memoizes transaction CSVs.
type Loader struct {
	logger *applog.Logger

	mu     sync.Mutex
	path   string
	mtime  time.Time
	cached *core.Dataset
}

// NewLoader creates a Loader. A nil logger falls back to the default config.
func NewLoader(logger *applog.Logger) *Loader {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Loader{logger: logger.WithComponent(applog.ComponentDataset)}
}

// Load returns the dataset for path, re-parsing only when the file's
// mtime moved past the memoized copy.
func (l *Loader) Load(path string) (*core.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", core.ErrDataUnavailable, path, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil && l.path == path && l.mtime.Equal(info.ModTime()) {
		l.logger.Debug("Dataset cache hit", applog.FieldSource, path)
		return l.cached, nil
	}

	ds, err := l.parseFile(path)
	if err != nil {
		return nil, err
	}

	l.path = path
	l.mtime = info.ModTime()
	l.cached = ds

	l.logger.Info("Dataset loaded",
		applog.FieldSource, path,
		applog.FieldRows, ds.Len(),
		applog.FieldSkipped, ds.SkippedRows)
	return ds, nil
}

// Invalidate drops the memoized dataset so the next Load re-parses.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

func (l *Loader) parseFile(path string) (*core.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", core.ErrDataUnavailable, path, err)
	}
	defer f.Close()

	txs, skipped, err := l.Parse(f)
	if err != nil {
		return nil, err
	}
	return core.NewDataset(path, txs, skipped), nil
}

// Parse reads a transaction CSV from r. Rows with unparseable fields or
// out-of-set categorical values are skipped with a warning; a missing
// required column fails the whole parse.
func (l *Loader) Parse(r io.Reader) ([]core.Transaction, int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read header: %v", core.ErrDataUnavailable, err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, 0, err
	}

	var txs []core.Transaction
	skipped := 0
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, 0, fmt.Errorf("%w: read row %d: %v", core.ErrDataUnavailable, line, err)
		}

		t, err := parseRow(record, cols)
		if err != nil {
			skipped++
			l.logger.Warn("Skipping malformed row", "line", line, applog.FieldError, err.Error())
			continue
		}
		txs = append(txs, t)
	}

	return txs, skipped, nil
}

// indexColumns maps canonical column names to header positions,
// case-insensitively. Missing required columns fail fast with every
// absentee named.
func indexColumns(header []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := make(map[string]int)
	var missing []string
	for _, name := range requiredColumns {
		idx, ok := byName[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", core.ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	for _, name := range optionalColumns {
		if idx, ok := byName[name]; ok {
			cols[name] = idx
		}
	}
	return cols, nil
}

func parseRow(record []string, cols map[string]int) (core.Transaction, error) {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	day, err := parseDate(get("date"))
	if err != nil {
		return core.Transaction{}, err
	}

	hour, err := strconv.Atoi(get("hour_of_day"))
	if err != nil || hour < 0 || hour > 23 {
		return core.Transaction{}, fmt.Errorf("invalid hour_of_day %q", get("hour_of_day"))
	}

	weekday, ok := core.CanonicalWeekday(get("weekday"))
	if !ok {
		return core.Transaction{}, fmt.Errorf("weekday %q not in canonical set", get("weekday"))
	}
	month, ok := core.CanonicalMonth(get("month_name"))
	if !ok {
		return core.Transaction{}, fmt.Errorf("month_name %q not in canonical set", get("month_name"))
	}
	timeOfDay, ok := core.CanonicalTimeOfDay(get("time_of_day"))
	if !ok {
		return core.Transaction{}, fmt.Errorf("time_of_day %q not in canonical set", get("time_of_day"))
	}

	product := get("coffee_name")
	if product == "" {
		return core.Transaction{}, fmt.Errorf("empty coffee_name")
	}

	amount, err := core.ParseMoney(get("money"))
	if err != nil {
		return core.Transaction{}, err
	}

	return core.Transaction{
		Date:      day,
		Hour:      hour,
		Weekday:   weekday,
		Month:     month,
		TimeOfDay: timeOfDay,
		City:      get("city"),
		Payment:   get("cash_type"),
		Product:   product,
		Amount:    amount,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
