package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePreset(t *testing.T) {
	// Fixed reference day, mid-quarter, so every window is exercised.
	today := date(2025, time.June, 15)

	tests := []struct {
		preset Preset
		start  time.Time
		end    time.Time
	}{
		{PresetLast7Days, date(2025, time.June, 8), today},
		{PresetLast30Days, date(2025, time.May, 16), today},
		{PresetThisMonth, date(2025, time.June, 1), today},
		{PresetPrevMonth, date(2025, time.May, 1), date(2025, time.May, 31)},
		{PresetThisQuarter, date(2025, time.April, 1), today},
		{PresetPrevQuarter, date(2025, time.January, 1), date(2025, time.March, 31)},
		{PresetThisYear, date(2025, time.January, 1), today},
		{PresetPrevYear, date(2024, time.January, 1), date(2024, time.December, 31)},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			r, err := ResolvePreset(tt.preset, today)
			if err != nil {
				t.Fatalf("ResolvePreset(%s) error: %v", tt.preset, err)
			}
			if !r.Start.Equal(tt.start) {
				t.Errorf("start = %s, want %s", r.Start.Format("2006-01-02"), tt.start.Format("2006-01-02"))
			}
			if !r.End.Equal(tt.end) {
				t.Errorf("end = %s, want %s", r.End.Format("2006-01-02"), tt.end.Format("2006-01-02"))
			}
		})
	}
}

func TestResolvePreset_YearBoundaries(t *testing.T) {
	// Previous month and quarter must roll over year boundaries.
	today := date(2025, time.January, 10)

	r, err := ResolvePreset(PresetPrevMonth, today)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Start.Equal(date(2024, time.December, 1)) || !r.End.Equal(date(2024, time.December, 31)) {
		t.Errorf("previous_month = [%s, %s], want December 2024",
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}

	r, err = ResolvePreset(PresetPrevQuarter, today)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Start.Equal(date(2024, time.October, 1)) || !r.End.Equal(date(2024, time.December, 31)) {
		t.Errorf("previous_quarter = [%s, %s], want Q4 2024",
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}
}

func TestResolvePreset_NoFixedWindow(t *testing.T) {
	for _, p := range []Preset{PresetAll, PresetCustom} {
		if _, err := ResolvePreset(p, time.Now()); err == nil {
			t.Errorf("ResolvePreset(%s) should fail: resolved by the caller", p)
		}
	}
	if _, err := ResolvePreset(Preset("fortnight"), time.Now()); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestDateRange_Clamp(t *testing.T) {
	min, max := date(2025, time.March, 1), date(2025, time.March, 31)

	r := DateRange{Start: date(2025, time.February, 1), End: date(2025, time.April, 15)}
	clamped := r.Clamp(min, max)
	if !clamped.Start.Equal(min) || !clamped.End.Equal(max) {
		t.Errorf("Clamp = [%s, %s], want data bounds", clamped.Start, clamped.End)
	}

	inside := DateRange{Start: date(2025, time.March, 10), End: date(2025, time.March, 20)}
	if got := inside.Clamp(min, max); got != inside {
		t.Errorf("Clamp should not move bounds already inside, got [%s, %s]", got.Start, got.End)
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{Start: date(2025, time.June, 8), End: date(2025, time.June, 15)}

	if !r.Contains(r.Start) || !r.Contains(r.End) {
		t.Error("range must be inclusive at both ends")
	}
	if r.Contains(date(2025, time.June, 7)) || r.Contains(date(2025, time.June, 16)) {
		t.Error("range must exclude days outside the window")
	}
}
