package core

import (
	"testing"
	"time"
)

func tx(day time.Time, hour int, city, product, timeOfDay, payment string, cents int64) Transaction {
	return Transaction{
		Date:      day,
		Hour:      hour,
		Weekday:   day.Weekday().String(),
		Month:     day.Format("Jan"),
		TimeOfDay: timeOfDay,
		City:      city,
		Payment:   payment,
		Product:   product,
		Amount:    Money{Cents: cents},
	}
}

func sampleDataset() *Dataset {
	txs := []Transaction{
		tx(date(2025, time.June, 9), 8, "Kyiv", "Latte", "Morning", "card", 3870),
		tx(date(2025, time.June, 9), 14, "Kyiv", "Americano", "Afternoon", "cash", 2500),
		tx(date(2025, time.June, 10), 19, "Lviv", "Cappuccino", "Evening", "card", 3200),
		tx(date(2025, time.June, 11), 22, "Lviv", "Latte", "Night", "card", 3870),
		tx(date(2025, time.June, 12), 9, "Odesa", "Espresso", "Morning", "cash", 1800),
	}
	return NewDataset("test", txs, 0)
}

func TestFilter_Conjunction(t *testing.T) {
	ds := sampleDataset()
	r := DateRange{Start: date(2025, time.June, 9), End: date(2025, time.June, 10)}

	criteria := Criteria{
		Range:    &r,
		Cities:   []string{"Kyiv", "Lviv"},
		Payments: []string{"card"},
	}

	got := Filter(ds, criteria)
	if len(got) != 2 {
		t.Fatalf("filtered %d rows, want 2", len(got))
	}
	// Every surviving record satisfies every active predicate.
	for _, rec := range got {
		if !criteria.Matches(rec) {
			t.Errorf("record %+v does not satisfy the criteria that selected it", rec)
		}
		if !r.Contains(rec.Date) {
			t.Errorf("record dated %s escaped the date range", rec.Date.Format("2006-01-02"))
		}
		if rec.Payment != "card" {
			t.Errorf("payment %q escaped the payment filter", rec.Payment)
		}
	}
}

func TestFilter_SubsetOfFull(t *testing.T) {
	ds := sampleDataset()
	full := make(map[string]bool, ds.Len())
	for _, rec := range ds.Transactions {
		full[rec.Date.String()+rec.Product] = true
	}

	got := Filter(ds, Criteria{Products: []string{"Latte", "Espresso"}})
	if len(got) == 0 || len(got) >= ds.Len() {
		t.Fatalf("filtered %d of %d rows, expected a strict non-empty subset", len(got), ds.Len())
	}
	for _, rec := range got {
		if !full[rec.Date.String()+rec.Product] {
			t.Errorf("filtered record %+v not present in the full set", rec)
		}
	}
}

func TestFilter_SelectionSemantics(t *testing.T) {
	ds := sampleDataset()

	// nil selection leaves the dimension unfiltered
	if got := Filter(ds, Criteria{}); len(got) != ds.Len() {
		t.Errorf("no criteria filtered %d rows, want all %d", len(got), ds.Len())
	}

	// empty non-nil selection matches nothing
	if got := Filter(ds, Criteria{Cities: []string{}}); len(got) != 0 {
		t.Errorf("empty selection matched %d rows, want 0", len(got))
	}
}

func TestFilter_RangeOutsideDataBounds(t *testing.T) {
	ds := sampleDataset()
	r := DateRange{Start: date(2030, time.January, 1), End: date(2030, time.December, 31)}

	if got := Filter(ds, Criteria{Range: &r}); len(got) != 0 {
		t.Errorf("out-of-bounds range matched %d rows, want 0", len(got))
	}
}

func TestCriteria_Fingerprint(t *testing.T) {
	r := DateRange{Start: date(2025, time.June, 1), End: date(2025, time.June, 15)}

	a := Criteria{Range: &r, Cities: []string{"Lviv", "Kyiv"}, Payments: []string{"card"}}
	b := Criteria{Range: &r, Cities: []string{"Kyiv", "Lviv"}, Payments: []string{"card"}}
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("fingerprint depends on selection order: %q != %q", a.Fingerprint(), b.Fingerprint())
	}

	c := Criteria{Range: &r, Cities: []string{"Kyiv"}}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different selections share a fingerprint")
	}

	// nil (all) and empty (none) must not collide
	all := Criteria{}
	none := Criteria{Cities: []string{}}
	if all.Fingerprint() == none.Fingerprint() {
		t.Error("nil and empty selections share a fingerprint")
	}
}

func TestDataset_Distincts(t *testing.T) {
	ds := sampleDataset()

	cities := ds.Cities()
	want := []string{"Kyiv", "Lviv", "Odesa"}
	if len(cities) != len(want) {
		t.Fatalf("cities = %v, want %v", cities, want)
	}
	for i := range want {
		if cities[i] != want[i] {
			t.Errorf("cities[%d] = %s, want %s (sorted)", i, cities[i], want[i])
		}
	}

	if !ds.MinDate.Equal(date(2025, time.June, 9)) || !ds.MaxDate.Equal(date(2025, time.June, 12)) {
		t.Errorf("date bounds = [%s, %s]", ds.MinDate, ds.MaxDate)
	}
}
