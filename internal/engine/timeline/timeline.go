// Package timeline derives the monthly evaluation horizon and per-period calendar
// buckets from the engine's global Config (§4.1 of the spec).
package timeline

import (
	"fmt"

	"pfengine/internal/engine/model"
)

// Period holds the calendar coordinates of one month index.
type Period struct {
	Year  int
	Month int // 1..12
}

// Timeline exposes the monthly horizon [0..N) and derived per-frequency period indices.
type Timeline struct {
	n            int
	periods      []Period
	fyStartMonth int
}

// New derives a Timeline from cfg. Returns an error iff the configured end precedes
// the start — the sole fatal config error this component can raise (§4.1).
func New(cfg model.Config) (*Timeline, error) {
	fy := cfg.FYStartMonth
	if fy < 1 || fy > 12 {
		fy = 1
	}

	n := (cfg.EndYear-cfg.StartYear)*12 + (cfg.EndMonth - cfg.StartMonth) + 1
	if n < 1 {
		return nil, fmt.Errorf("timeline: end (%04d-%02d) precedes start (%04d-%02d)",
			cfg.EndYear, cfg.EndMonth, cfg.StartYear, cfg.StartMonth)
	}

	periods := make([]Period, n)
	y, m := cfg.StartYear, cfg.StartMonth
	for i := 0; i < n; i++ {
		periods[i] = Period{Year: y, Month: m}
		m++
		if m > 12 {
			m = 1
			y++
		}
	}

	return &Timeline{n: n, periods: periods, fyStartMonth: fy}, nil
}

// N is the number of months in the horizon.
func (t *Timeline) N() int { return t.n }

// At returns the calendar period for month index i. Panics on out-of-range i, matching
// the engine's internal invariant that every array walk stays within [0,N).
func (t *Timeline) At(i int) Period { return t.periods[i] }

// MonthIndexOf returns the month index for the given calendar year/month, which may
// fall outside [0,N) — callers use it to compute offsets (e.g. lookup windows).
func (t *Timeline) MonthIndexOf(year, month int) int {
	first := t.periods[0]
	return (year-first.Year)*12 + (month - first.Month)
}

// FiscalYearBucket returns the fiscal year label (the calendar year in which the
// fiscal year ends is NOT used — by convention the bucket is the calendar year the
// fiscal year *starts* in) for month index i, given fyStartMonth.
func (t *Timeline) FiscalYearBucket(i int) int {
	p := t.periods[i]
	if p.Month >= t.fyStartMonth {
		return p.Year
	}
	return p.Year - 1
}

// PeriodIndex returns the 0-based index of the period (at the given frequency) that
// month i falls into, counted from the start of the timeline.
func (t *Timeline) PeriodIndex(i int, freq model.Frequency) int {
	switch freq {
	case model.FreqMonthly:
		return i
	case model.FreqQuarterly:
		return i / 3
	case model.FreqYearly:
		return t.At(i).Year - t.At(0).Year
	case model.FreqFiscalYear:
		return t.FiscalYearBucket(i) - t.FiscalYearBucket(0)
	default:
		return i
	}
}

// IsPeriodEnd reports whether month i is the last calendar month of its period at the
// given frequency, or the last month of the timeline — used by the debt sizer to find
// payment-period boundaries (§4.7.1) without resorting to `i % 3`-style arithmetic.
func (t *Timeline) IsPeriodEnd(i int, freq model.Frequency) bool {
	if i == t.n-1 {
		return true
	}
	return t.PeriodIndex(i, freq) != t.PeriodIndex(i+1, freq)
}

// IsPeriodStart reports whether month i is the first calendar month of its period.
func (t *Timeline) IsPeriodStart(i int, freq model.Frequency) bool {
	if i == 0 {
		return true
	}
	return t.PeriodIndex(i, freq) != t.PeriodIndex(i-1, freq)
}
