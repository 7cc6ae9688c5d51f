// Package lowering turns one Input (§3's data model) into a canonical length-N
// monthly array, per the five input modes described in §4.3.
package lowering

import (
	"pfengine/internal/engine/model"
	"pfengine/internal/engine/timeline"
)

// Result is the lowered array plus, for lookup-mode reads, which months were
// forward-filled from a prior non-zero value — tracked separately so a caller (a
// preview renderer) can style prefilled cells without it being part of stored state
// (Design Notes §9: "prefill is a read-side concept").
type Result struct {
	Array     []float64
	Prefilled []bool
}

// Lower produces the monthly array for one input, given the group it belongs to and
// the model timeline.
func Lower(cfg model.Config, tl *timeline.Timeline, group model.Group, in model.Input) Result {
	switch group.EntryMode {
	case model.EntryConstant:
		return lowerConstant(tl, in, cfg.DefaultSpreadMethod)
	case model.EntrySeries:
		return lowerSeries(tl, group, in)
	case model.EntryLookup:
		return lowerLookup(cfg, tl, group, in)
	case model.EntryLookup2:
		return lowerLookup2(tl, group, in)
	default: // values, formula, label all read as a plain monthly array of stored values
		return lowerValues(tl, in)
	}
}

// lowerValues reads the values-mode flow array directly: the stored value at month i
// already is the amount for month i (fan-out across a period already happened at
// write time, per §4.3/§3).
func lowerValues(tl *timeline.Timeline, in model.Input) Result {
	arr := make([]float64, tl.N())
	for i := range arr {
		if v, ok := in.Values[i]; ok {
			arr[i] = v
		}
	}
	return Result{Array: arr}
}

// lowerConstant fills every month with value (stock) or value/N (flow).
func lowerConstant(tl *timeline.Timeline, in model.Input, fallback model.SpreadMethod) Result {
	n := tl.N()
	arr := make([]float64, n)
	if in.Value == nil {
		return Result{Array: arr}
	}
	method := in.SpreadMethod
	if method == "" {
		method = fallback
	}
	v := *in.Value
	switch method {
	case model.SpreadSpread:
		per := 0.0
		if n > 0 {
			per = v / float64(n)
		}
		for i := range arr {
			arr[i] = per
		}
	default: // lookup / stock
		for i := range arr {
			arr[i] = v
		}
	}
	return Result{Array: arr}
}

// lowerSeries places periodValue at the payment month of every period inside the
// series window, and 0 elsewhere (§4.3 series mode).
func lowerSeries(tl *timeline.Timeline, group model.Group, in model.Input) Result {
	n := tl.N()
	arr := make([]float64, n)

	fs := in.SeriesFrequency
	if fs == "" {
		fs = group.Frequency
	}
	periodsPerYear := periodsPerYearOf(fs)
	if periodsPerYear == 0 {
		return Result{Array: arr}
	}
	periodValue := in.SeriesAnnualValue / float64(periodsPerYear)

	start := tl.MonthIndexOf(in.SeriesStartYear, in.SeriesStartMonth)
	if start < 0 {
		start = 0
	}
	var end int
	if in.SeriesRangeEndOpen {
		end = n // inclusive "Range End" extends to N-1
	} else {
		end = tl.MonthIndexOf(in.SeriesEndYear, in.SeriesEndMonth) // end-exclusive
	}
	if end > n {
		end = n
	}
	if start >= end {
		return Result{Array: arr}
	}

	pm := in.SeriesPaymentMonth

	for i := start; i < end; i++ {
		p := tl.At(i)
		var isPaymentMonth bool
		switch fs {
		case model.FreqMonthly:
			isPaymentMonth = true
		case model.FreqQuarterly:
			monthInQuarter := (p.Month-1)%3 + 1
			isPaymentMonth = monthInQuarter == clampMonth(pm, 3)
		case model.FreqYearly, model.FreqFiscalYear:
			isPaymentMonth = p.Month == clampMonth(pm, 12)
		}
		if isPaymentMonth {
			arr[i] = periodValue
		}
	}
	return Result{Array: arr}
}

func clampMonth(m, max int) int {
	if m < 1 || m > max {
		return 1
	}
	return m
}

func periodsPerYearOf(fs model.Frequency) int {
	switch fs {
	case model.FreqMonthly:
		return 12
	case model.FreqQuarterly:
		return 4
	case model.FreqYearly, model.FreqFiscalYear:
		return 1
	default:
		return 0
	}
}

// lowerLookup samples the custom lookup window with an offset into the model
// timeline, then (optionally) forward-fills zero cells from the last non-zero value
// for preview purposes (§4.3).
func lowerLookup(cfg model.Config, tl *timeline.Timeline, group model.Group, in model.Input) Result {
	n := tl.N()
	arr := make([]float64, n)
	m := group.Frequency.MonthsPerPeriod()
	if m <= 0 {
		m = 1
	}

	lookupStartIdx := tl.MonthIndexOf(group.LookupStartYear, group.LookupStartMonth)
	monthOffset := lookupStartIdx // lookupStart - modelStart, in months

	for i := 0; i < n; i++ {
		rel := i - monthOffset
		if rel < 0 {
			continue
		}
		periodIdx := rel / m
		sampleMonth := periodIdx*m + monthOffset
		if v, ok := in.Values[sampleMonth]; ok {
			arr[i] = v
		}
	}

	if !cfg.PrefillLookups {
		return Result{Array: arr}
	}
	return forwardFill(arr)
}

// lowerLookup2 is lowerLookup without the model-start offset: periods align to model
// start directly.
func lowerLookup2(tl *timeline.Timeline, group model.Group, in model.Input) Result {
	n := tl.N()
	arr := make([]float64, n)
	m := group.Frequency.MonthsPerPeriod()
	if m <= 0 {
		m = 1
	}
	for i := 0; i < n; i++ {
		periodIdx := i / m
		sampleMonth := periodIdx * m
		if v, ok := in.Values[sampleMonth]; ok {
			arr[i] = v
		}
	}
	return Result{Array: arr}
}

// forwardFill carries the last non-zero value forward through zero cells, tracking
// which indices were filled so a preview can style them distinctly.
func forwardFill(arr []float64) Result {
	filled := make([]float64, len(arr))
	prefilled := make([]bool, len(arr))
	last := 0.0
	for i, v := range arr {
		if v != 0 {
			last = v
			filled[i] = v
			continue
		}
		filled[i] = last
		if last != 0 {
			prefilled[i] = true
		}
	}
	return Result{Array: filled, Prefilled: prefilled}
}

// WritePeriodValue spreads a user-entered value x at display period p into in.Values,
// honoring the per-mode storage convention (§3's invariant and §4.3): values-mode
// divides x across the m months of the period (flow); lookup/lookup2 repeat x across
// every month of the period (stock).
func WritePeriodValue(tl *timeline.Timeline, in *model.Input, group model.Group, p int, x float64) {
	m := group.Frequency.MonthsPerPeriod()
	if m <= 0 {
		m = 1
	}
	if in.Values == nil {
		in.Values = make(map[int]float64)
	}

	switch group.EntryMode {
	case model.EntryLookup:
		monthOffset := tl.MonthIndexOf(group.LookupStartYear, group.LookupStartMonth)
		base := monthOffset + p*m
		for i := 0; i < m; i++ {
			in.Values[base+i] = x
		}
	case model.EntryLookup2:
		base := p * m
		for i := 0; i < m; i++ {
			in.Values[base+i] = x
		}
	default: // values mode: flow semantics, spread x/m across the period
		base := p * m
		per := x / float64(m)
		for i := 0; i < m; i++ {
			in.Values[base+i] = per
		}
	}
}
