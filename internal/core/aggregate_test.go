package core

import (
	"errors"
	"testing"
	"time"
)

func TestSumBy_ConservesTotal(t *testing.T) {
	ds := sampleDataset()
	rows := ds.Transactions

	var want int64
	for _, r := range rows {
		want += r.Amount.Cents
	}

	for _, key := range []GroupKey{GroupProduct, GroupHour, GroupTimeOfDay, GroupWeekday, GroupMonth, GroupPayment, GroupCity, GroupDay, GroupMonthYear} {
		table, err := SumBy(rows, key)
		if err != nil {
			t.Fatalf("SumBy(%s): %v", key, err)
		}
		if got := table.Total(); got != want {
			t.Errorf("SumBy(%s) total = %d, want %d (rows dropped or double counted)", key, got, want)
		}
	}
}

func TestSumBy_CanonicalReindex(t *testing.T) {
	rows := sampleDataset().Transactions

	tests := []struct {
		key   GroupKey
		count int
		order []string
	}{
		{GroupWeekday, 7, WeekdayOrder},
		{GroupMonth, 12, MonthOrder},
		{GroupTimeOfDay, 4, TimeOfDayOrder},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			table, err := SumBy(rows, tt.key)
			if err != nil {
				t.Fatal(err)
			}
			if len(table.Rows) != tt.count {
				t.Fatalf("got %d rows, want the full canonical %d", len(table.Rows), tt.count)
			}
			zeroFilled := 0
			for i, row := range table.Rows {
				if row.Key != tt.order[i] {
					t.Errorf("row %d key = %s, want canonical %s", i, row.Key, tt.order[i])
				}
				if row.Value == 0 {
					zeroFilled++
				}
			}
			if zeroFilled == 0 {
				t.Error("expected zero-filled categories for the sparse sample")
			}
		})
	}
}

func TestSumBy_ProductOrderedByValueDesc(t *testing.T) {
	rows := sampleDataset().Transactions

	table, err := SumBy(rows, GroupProduct)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(table.Rows); i++ {
		if table.Rows[i].Value > table.Rows[i-1].Value {
			t.Errorf("product rows not descending: %s(%d) after %s(%d)",
				table.Rows[i].Key, table.Rows[i].Value, table.Rows[i-1].Key, table.Rows[i-1].Value)
		}
	}
	// Latte appears twice at 38.70 and must lead.
	if table.Rows[0].Key != "Latte" {
		t.Errorf("top product = %s, want Latte", table.Rows[0].Key)
	}
}

func TestSumBy_HourAscending(t *testing.T) {
	rows := sampleDataset().Transactions

	table, err := SumBy(rows, GroupHour)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"8", "9", "14", "19", "22"}
	if len(table.Rows) != len(want) {
		t.Fatalf("got %d hour rows, want %d", len(table.Rows), len(want))
	}
	for i, row := range table.Rows {
		if row.Key != want[i] {
			t.Errorf("hour row %d = %s, want %s (numeric ascending)", i, row.Key, want[i])
		}
	}
}

func TestSumBySplit_ByCity(t *testing.T) {
	rows := sampleDataset().Transactions

	table, err := SumBySplit(rows, GroupWeekday, GroupCity)
	if err != nil {
		t.Fatal(err)
	}

	// Three cities, each reindexed over the full week.
	if len(table.Rows) != 7*3 {
		t.Fatalf("got %d rows, want %d (7 weekdays x 3 cities)", len(table.Rows), 7*3)
	}

	var total int64
	perCity := make(map[string]int)
	for _, row := range table.Rows {
		total += row.Value
		perCity[row.Group]++
	}
	for city, n := range perCity {
		if n != 7 {
			t.Errorf("city %s has %d weekday rows, want 7", city, n)
		}
	}

	var want int64
	for _, r := range rows {
		want += r.Amount.Cents
	}
	if total != want {
		t.Errorf("split total = %d, want %d", total, want)
	}
}

func TestAggregate_CountAndMean(t *testing.T) {
	rows := sampleDataset().Transactions

	counts, err := Aggregate(rows, GroupCity, "", AggCount)
	if err != nil {
		t.Fatal(err)
	}
	var n int64
	for _, row := range counts.Rows {
		n += row.Value
	}
	if n != int64(len(rows)) {
		t.Errorf("count aggregate covers %d rows, want %d", n, len(rows))
	}

	means, err := Aggregate(rows, GroupCity, "", AggMean)
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range means.Rows {
		if row.Count > 0 && row.Value > 0 {
			continue
		}
		t.Errorf("mean row %s has value %d count %d", row.Key, row.Value, row.Count)
	}
}

func TestAggregate_NoData(t *testing.T) {
	if _, err := SumBy(nil, GroupProduct); !errors.Is(err, ErrNoData) {
		t.Errorf("empty input: err = %v, want ErrNoData", err)
	}

	// All-zero amounts over a canonical key are indistinguishable from an
	// empty chart and must signal no data too.
	zero := []Transaction{
		tx(date(2025, time.June, 9), 8, "Kyiv", "Latte", "Morning", "card", 0),
	}
	if _, err := SumBy(zero, GroupWeekday); !errors.Is(err, ErrNoData) {
		t.Errorf("zero-sum reindexed table: err = %v, want ErrNoData", err)
	}
}

func TestSummarize(t *testing.T) {
	rows := sampleDataset().Transactions

	m, err := Summarize(rows)
	if err != nil {
		t.Fatal(err)
	}
	if m.Transactions != len(rows) {
		t.Errorf("transactions = %d, want %d", m.Transactions, len(rows))
	}
	var total int64
	for _, r := range rows {
		total += r.Amount.Cents
	}
	if m.TotalCents != total {
		t.Errorf("total = %d, want %d", m.TotalCents, total)
	}
	if m.AvgTicketCents != total/int64(len(rows)) {
		t.Errorf("avg ticket = %d, want %d", m.AvgTicketCents, total/int64(len(rows)))
	}
	// Latte appears twice, everything else once.
	if m.TopProduct != "Latte" {
		t.Errorf("top product = %s, want Latte", m.TopProduct)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"38.7", 3870, true},
		{"38.70", 3870, true},
		{"0", 0, true},
		{"1,250.00", 125000, true},
		{" 12.5 ", 1250, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		m, err := ParseMoney(tt.in)
		if tt.ok && err != nil {
			t.Errorf("ParseMoney(%q) error: %v", tt.in, err)
			continue
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("ParseMoney(%q) should fail", tt.in)
			}
			continue
		}
		if m.Cents != tt.cents {
			t.Errorf("ParseMoney(%q) = %d cents, want %d", tt.in, m.Cents, tt.cents)
		}
	}
}

func TestMoney_String(t *testing.T) {
	if got := (Money{Cents: 3870}).String(); got != "38.70" {
		t.Errorf("String = %s, want 38.70", got)
	}
	if got := (Money{Cents: -105}).String(); got != "-1.05" {
		t.Errorf("String = %s, want -1.05", got)
	}
}
