package core

import (
	"sort"
	"strings"
)

// Criteria is one set of dashboard filter selections.
//
// A nil selection slice leaves that dimension unfiltered; an empty non-nil
// slice matches nothing. The UI defaults every multi-select to all values,
// so an empty selection only happens on purpose.
type Criteria struct {
	Range      *DateRange // nil = no date filter
	Cities     []string
	Products   []string
	TimesOfDay []string
	Payments   []string
}

// Matches reports whether t satisfies every active predicate.
func (c Criteria) Matches(t Transaction) bool {
	if c.Range != nil && !c.Range.Contains(t.Date) {
		return false
	}
	return member(c.Cities, t.City) &&
		member(c.Products, t.Product) &&
		member(c.TimesOfDay, t.TimeOfDay) &&
		member(c.Payments, t.Payment)
}

func member(selection []string, value string) bool {
	if selection == nil {
		return true
	}
	for _, s := range selection {
		if s == value {
			return true
		}
	}
	return false
}

// Filter returns the subset of ds matching all criteria. The result is a
// fresh slice; the dataset is never mutated.
func Filter(ds *Dataset, c Criteria) []Transaction {
	var out []Transaction
	for _, t := range ds.Transactions {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Fingerprint returns a stable cache key for the criteria: identical
// selections produce identical keys regardless of selection order, and
// nil/empty selections stay distinguishable.
func (c Criteria) Fingerprint() string {
	var b strings.Builder
	if c.Range != nil {
		b.WriteString("r=")
		b.WriteString(c.Range.Start.Format("2006-01-02"))
		b.WriteString("..")
		b.WriteString(c.Range.End.Format("2006-01-02"))
	}
	writeDim(&b, "c", c.Cities)
	writeDim(&b, "p", c.Products)
	writeDim(&b, "t", c.TimesOfDay)
	writeDim(&b, "m", c.Payments)
	return b.String()
}

func writeDim(b *strings.Builder, tag string, selection []string) {
	if selection == nil {
		return
	}
	sorted := append([]string(nil), selection...)
	sort.Strings(sorted)
	b.WriteString(";")
	b.WriteString(tag)
	b.WriteString("=")
	b.WriteString(strings.Join(sorted, ","))
}
