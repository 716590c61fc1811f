package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in integer cents. Sales amounts are summed a lot, so
// they are kept integral; formatting back to decimal happens at the edge.
type Money struct {
	Cents int64
}

// ParseMoney parses a decimal string like "38.7" or "1,250.00" into cents.
func ParseMoney(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return Money{}, fmt.Errorf("empty amount")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	cents := int64(f*100 + 0.5)
	if f < 0 {
		cents = int64(f*100 - 0.5)
	}
	return Money{Cents: cents}, nil
}

// String renders the amount as a plain decimal with two places.
func (m Money) String() string {
	sign := ""
	cents := m.Cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Float returns the amount in currency units for display-side math.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100
}
