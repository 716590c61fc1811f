package core

import (
	"fmt"
	"time"
)

// DateRange is an inclusive [Start, End] window of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether day falls inside the range (inclusive).
func (r DateRange) Contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// Clamp narrows the range to [min, max]. Used for custom user bounds so a
// range typed outside the data never widens the axis.
func (r DateRange) Clamp(min, max time.Time) DateRange {
	out := r
	if out.Start.Before(min) {
		out.Start = min
	}
	if out.End.After(max) {
		out.End = max
	}
	return out
}

// Preset is a symbolic date window resolved against a reference "today".
type Preset string

const (
	PresetAll         Preset = "all"
	PresetLast7Days   Preset = "last_7_days"
	PresetLast30Days  Preset = "last_30_days"
	PresetThisMonth   Preset = "this_month"
	PresetPrevMonth   Preset = "previous_month"
	PresetThisQuarter Preset = "this_quarter"
	PresetPrevQuarter Preset = "previous_quarter"
	PresetThisYear    Preset = "this_year"
	PresetPrevYear    Preset = "previous_year"
	PresetCustom      Preset = "custom"
)

// Presets lists every selectable preset, in display order.
var Presets = []Preset{
	PresetAll, PresetLast7Days, PresetLast30Days,
	PresetThisMonth, PresetPrevMonth,
	PresetThisQuarter, PresetPrevQuarter,
	PresetThisYear, PresetPrevYear,
	PresetCustom,
}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	for _, known := range Presets {
		if p == known {
			return true
		}
	}
	return false
}

// Day normalizes a timestamp to its calendar day at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ResolvePreset computes the concrete window for a preset relative to
// today. PresetAll and PresetCustom have no self-contained window and are
// resolved by the caller (data bounds and user bounds respectively).
func ResolvePreset(p Preset, today time.Time) (DateRange, error) {
	today = Day(today)
	switch p {
	case PresetLast7Days:
		return DateRange{Start: today.AddDate(0, 0, -7), End: today}, nil
	case PresetLast30Days:
		return DateRange{Start: today.AddDate(0, 0, -30), End: today}, nil
	case PresetThisMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: today}, nil
	case PresetPrevMonth:
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		start := firstOfThis.AddDate(0, -1, 0)
		return DateRange{Start: start, End: firstOfThis.AddDate(0, 0, -1)}, nil
	case PresetThisQuarter:
		return DateRange{Start: quarterStart(today), End: today}, nil
	case PresetPrevQuarter:
		thisQ := quarterStart(today)
		return DateRange{Start: thisQ.AddDate(0, -3, 0), End: thisQ.AddDate(0, 0, -1)}, nil
	case PresetThisYear:
		start := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: today}, nil
	case PresetPrevYear:
		start := time.Date(today.Year()-1, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(today.Year()-1, 12, 31, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: end}, nil
	case PresetAll, PresetCustom:
		return DateRange{}, fmt.Errorf("preset %q has no fixed window", p)
	default:
		return DateRange{}, fmt.Errorf("unknown date preset %q", p)
	}
}

func quarterStart(day time.Time) time.Time {
	qMonth := time.Month(((int(day.Month())-1)/3)*3 + 1)
	return time.Date(day.Year(), qMonth, 1, 0, 0, 0, 0, time.UTC)
}
