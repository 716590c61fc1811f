package core

import (
	"sort"
	"time"
)

// Transaction is one coffee sale. Records are immutable once loaded.
type Transaction struct {
	Date      time.Time // transaction day, midnight UTC
	Hour      int       // 0-23
	Weekday   string    // canonical full name, Monday..Sunday
	Month     string    // canonical short name, Jan..Dec
	TimeOfDay string    // Morning, Afternoon, Evening, Night
	City      string    // empty when the source has no city column
	Payment   string    // cash, card, ...; empty when absent from source
	Product   string    // coffee drink label
	Amount    Money
}

// Canonical category orders. Aggregated tables over these keys are
// reindexed onto them so chart axes stay stable across filter states.
var (
	WeekdayOrder   = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	MonthOrder     = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	TimeOfDayOrder = []string{"Morning", "Afternoon", "Evening", "Night"}
)

var weekdayByAlias = map[string]string{
	"Mon": "Monday", "Tue": "Tuesday", "Wed": "Wednesday", "Thu": "Thursday",
	"Fri": "Friday", "Sat": "Saturday", "Sun": "Sunday",
	"Monday": "Monday", "Tuesday": "Tuesday", "Wednesday": "Wednesday",
	"Thursday": "Thursday", "Friday": "Friday", "Saturday": "Saturday", "Sunday": "Sunday",
}

var monthByAlias = map[string]string{
	"Jan": "Jan", "Feb": "Feb", "Mar": "Mar", "Apr": "Apr", "May": "May", "Jun": "Jun",
	"Jul": "Jul", "Aug": "Aug", "Sep": "Sep", "Oct": "Oct", "Nov": "Nov", "Dec": "Dec",
	"January": "Jan", "February": "Feb", "March": "Mar", "April": "Apr",
	"June": "Jun", "July": "Jul", "August": "Aug", "September": "Sep",
	"October": "Oct", "November": "Nov", "December": "Dec",
}

var timeOfDaySet = map[string]bool{
	"Morning": true, "Afternoon": true, "Evening": true, "Night": true,
}

// CanonicalWeekday maps a short or full weekday name onto the canonical
// full name. ok is false for out-of-set values.
func CanonicalWeekday(s string) (string, bool) {
	full, ok := weekdayByAlias[s]
	return full, ok
}

// CanonicalMonth maps a short or full month name onto the canonical short name.
func CanonicalMonth(s string) (string, bool) {
	short, ok := monthByAlias[s]
	return short, ok
}

// CanonicalTimeOfDay validates a time-of-day bucket name.
func CanonicalTimeOfDay(s string) (string, bool) {
	if timeOfDaySet[s] {
		return s, true
	}
	return "", false
}

// Dataset is the full loaded record set plus what the UI needs to build
// its controls: date bounds and distinct category values.
type Dataset struct {
	Transactions []Transaction
	MinDate      time.Time
	MaxDate      time.Time

	// Source identifies where the rows came from (file path or backend).
	Source   string
	LoadedAt time.Time

	// SkippedRows counts source rows dropped for out-of-set categorical
	// values or unparseable fields.
	SkippedRows int
}

// NewDataset builds a Dataset and computes its date bounds.
func NewDataset(source string, txs []Transaction, skipped int) *Dataset {
	ds := &Dataset{
		Transactions: txs,
		Source:       source,
		LoadedAt:     time.Now(),
		SkippedRows:  skipped,
	}
	for _, t := range txs {
		if ds.MinDate.IsZero() || t.Date.Before(ds.MinDate) {
			ds.MinDate = t.Date
		}
		if t.Date.After(ds.MaxDate) {
			ds.MaxDate = t.Date
		}
	}
	return ds
}

// Len returns the number of loaded transactions.
func (d *Dataset) Len() int { return len(d.Transactions) }

// Cities returns the distinct city values, sorted.
func (d *Dataset) Cities() []string {
	return d.distinct(func(t Transaction) string { return t.City })
}

// Products returns the distinct product labels, sorted.
func (d *Dataset) Products() []string {
	return d.distinct(func(t Transaction) string { return t.Product })
}

// Payments returns the distinct payment methods, sorted.
func (d *Dataset) Payments() []string {
	return d.distinct(func(t Transaction) string { return t.Payment })
}

func (d *Dataset) distinct(key func(Transaction) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range d.Transactions {
		v := key(t)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
