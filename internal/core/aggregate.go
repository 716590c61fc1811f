package core

import (
	"fmt"
	"sort"
	"strconv"
)

// GroupKey names a grouping dimension for aggregation.
type GroupKey string

const (
	GroupProduct   GroupKey = "product"
	GroupHour      GroupKey = "hour"
	GroupTimeOfDay GroupKey = "time_of_day"
	GroupWeekday   GroupKey = "weekday"
	GroupMonth     GroupKey = "month"
	GroupPayment   GroupKey = "payment"
	GroupCity      GroupKey = "city"
	GroupDay       GroupKey = "day"
	GroupMonthYear GroupKey = "month_year"
)

// AggFunc selects the reduction applied per group.
type AggFunc string

const (
	AggSum   AggFunc = "sum"
	AggMean  AggFunc = "mean"
	AggCount AggFunc = "count"
)

// Row is one aggregated table row. Group is the secondary key (city when
// splitting) and empty otherwise. Value is cents for sum/mean and a plain
// count for AggCount.
type Row struct {
	Key   string
	Group string
	Value int64
	Count int64
}

// Table is an ordered aggregation result, ready for any renderer.
type Table struct {
	Key   GroupKey
	Split GroupKey
	Agg   AggFunc
	Rows  []Row
}

// Total sums Value over all rows.
func (t *Table) Total() int64 {
	var total int64
	for _, r := range t.Rows {
		total += r.Value
	}
	return total
}

// SumBy groups rows by key and sums amounts. The common chart path.
func SumBy(rows []Transaction, key GroupKey) (*Table, error) {
	return Aggregate(rows, key, "", AggSum)
}

// SumBySplit groups rows by key and a secondary split key, summing amounts.
func SumBySplit(rows []Transaction, key, split GroupKey) (*Table, error) {
	return Aggregate(rows, key, split, AggSum)
}

// Aggregate groups rows by key (optionally sub-grouped by split) and
// reduces amounts with fn.
//
// Ordering policy: weekday, month and time-of-day reindex onto their
// canonical orders with zero-fill, so the table always carries the full
// category count; hour, day and month-year sort ascending over present
// values; product, city and payment sort by descending value. With a
// split, rows are emitted key-major with split groups alphabetical inside
// each key.
//
// An empty input, or a zero-valued reindexed table, returns ErrNoData so
// the caller can render a placeholder instead of a misleading flat chart.
func Aggregate(rows []Transaction, key GroupKey, split GroupKey, fn AggFunc) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	type cell struct {
		sum   int64
		count int64
	}
	type pair struct{ key, group string }

	cells := make(map[pair]*cell)
	keyTotals := make(map[string]int64)
	groupSet := make(map[string]bool)

	for _, t := range rows {
		k, err := keyOf(t, key)
		if err != nil {
			return nil, err
		}
		g := ""
		if split != "" {
			g, err = keyOf(t, split)
			if err != nil {
				return nil, err
			}
		}
		p := pair{k, g}
		c := cells[p]
		if c == nil {
			c = &cell{}
			cells[p] = c
		}
		c.sum += t.Amount.Cents
		c.count++
		keyTotals[k] += t.Amount.Cents
		groupSet[g] = true
	}

	keys := orderedKeys(key, keyTotals)
	groups := make([]string, 0, len(groupSet))
	for g := range groupSet {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	table := &Table{Key: key, Split: split, Agg: fn}
	for _, k := range keys {
		for _, g := range groups {
			c := cells[pair{k, g}]
			if c == nil {
				if !isCanonical(key) {
					continue
				}
				c = &cell{} // zero-fill reindexed categories
			}
			table.Rows = append(table.Rows, Row{
				Key:   k,
				Group: g,
				Value: reduce(fn, c.sum, c.count),
				Count: c.count,
			})
		}
	}

	// A reindexed table that sums to zero is indistinguishable from real
	// zero sales on screen; surface it as no data instead.
	if table.Total() == 0 {
		return nil, ErrNoData
	}
	return table, nil
}

func reduce(fn AggFunc, sum, count int64) int64 {
	switch fn {
	case AggMean:
		if count == 0 {
			return 0
		}
		return sum / count
	case AggCount:
		return count
	default:
		return sum
	}
}

func keyOf(t Transaction, key GroupKey) (string, error) {
	switch key {
	case GroupProduct:
		return t.Product, nil
	case GroupHour:
		return strconv.Itoa(t.Hour), nil
	case GroupTimeOfDay:
		return t.TimeOfDay, nil
	case GroupWeekday:
		return t.Weekday, nil
	case GroupMonth:
		return t.Month, nil
	case GroupPayment:
		return t.Payment, nil
	case GroupCity:
		return t.City, nil
	case GroupDay:
		return t.Date.Format("2006-01-02"), nil
	case GroupMonthYear:
		return t.Date.Format("2006-01"), nil
	default:
		return "", fmt.Errorf("unknown group key %q", key)
	}
}

func isCanonical(key GroupKey) bool {
	switch key {
	case GroupWeekday, GroupMonth, GroupTimeOfDay:
		return true
	}
	return false
}

func orderedKeys(key GroupKey, totals map[string]int64) []string {
	switch key {
	case GroupWeekday:
		return WeekdayOrder
	case GroupMonth:
		return MonthOrder
	case GroupTimeOfDay:
		return TimeOfDayOrder
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}

	switch key {
	case GroupHour:
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
	case GroupDay, GroupMonthYear:
		sort.Strings(keys)
	default:
		// Bars sort by descending total, alphabetical on ties.
		sort.Slice(keys, func(i, j int) bool {
			if totals[keys[i]] != totals[keys[j]] {
				return totals[keys[i]] > totals[keys[j]]
			}
			return keys[i] < keys[j]
		})
	}
	return keys
}

// Metrics are the dashboard's scalar cards.
type Metrics struct {
	TotalCents     int64
	Transactions   int
	AvgTicketCents int64
	TopProduct     string
}

// Summarize computes the metric cards over a filtered view.
// Returns ErrNoData for an empty view.
func Summarize(rows []Transaction) (Metrics, error) {
	if len(rows) == 0 {
		return Metrics{}, ErrNoData
	}

	var m Metrics
	productCounts := make(map[string]int)
	for _, t := range rows {
		m.TotalCents += t.Amount.Cents
		productCounts[t.Product]++
	}
	m.Transactions = len(rows)
	m.AvgTicketCents = m.TotalCents / int64(len(rows))

	// Mode of product, alphabetical on ties for determinism.
	for product, n := range productCounts {
		best := productCounts[m.TopProduct]
		if n > best || (n == best && (m.TopProduct == "" || product < m.TopProduct)) {
			m.TopProduct = product
		}
	}
	return m, nil
}
