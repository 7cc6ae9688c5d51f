// Package distributions implements the Distributions module (§4.8): a
// mixed-conversion module. Most of its declared calculations are ordinary
// forward-pass formulas in the workbook, but lockup_active and the SC
// waterfall carry sequential memory a formula cannot express with CUMSUM/LAG
// alone, so Calculator (calculator.go) computes those through the dispatcher
// instead. This package provides the pure functions both paths are built on.
package distributions

// ModuleType is the moduleType string distributions instances declare.
const ModuleType = "distributions"

// HistoricADSCR is the trailing-12-month annual DSCR: sum of the last 12
// months' CFADS divided by the sum of the last 12 months' debt service, for
// each month (§4.8: "historic ADSCR = trailing-12-month CFADS/DS").
func HistoricADSCR(cfads, debtService []float64) []float64 {
	n := len(cfads)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i - 11
		if start < 0 {
			start = 0
		}
		var cSum, dSum float64
		for j := start; j <= i; j++ {
			cSum += at(cfads, j)
			dSum += at(debtService, j)
		}
		out[i] = safeDiv(cSum, dSum)
	}
	return out
}

// REPass reports whether the retained-earnings test passes for each month:
// retained earnings (RE) must be non-negative.
func REPass(retainedEarnings []float64) []float64 {
	return truthyPass(retainedEarnings, func(v float64) bool { return v >= 0 })
}

// NPATPass reports whether the NPAT test passes: period NPAT must be positive.
func NPATPass(npat []float64) []float64 {
	return truthyPass(npat, func(v float64) bool { return v > 0 })
}

// CashAvailableAfterReserve is cash on hand minus the reserve requirement for
// that period, floored at zero.
func CashAvailableAfterReserve(cash, reserveRequirement []float64) []float64 {
	n := len(cash)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v := at(cash, i) - at(reserveRequirement, i)
		if v > 0 {
			out[i] = v
		}
	}
	return out
}

// LockupActive implements the lockup covenant: lockup is active until the
// count of *consecutive* passing quarter-end covenant tests reaches
// releaseThreshold, and re-engages the moment a quarter fails (§4.8).
// quarterEndFlag gates which months are covenant-test months; covenantPass is
// the combined RE∧NPAT∧ADSCR pass/fail for those months.
func LockupActive(quarterEndFlag, covenantPass []float64, releaseThreshold int) []float64 {
	n := len(quarterEndFlag)
	out := make([]float64, n)
	consecutivePasses := 0
	active := true
	for i := 0; i < n; i++ {
		if at(quarterEndFlag, i) != 0 {
			if at(covenantPass, i) != 0 {
				consecutivePasses++
			} else {
				consecutivePasses = 0
			}
			active = consecutivePasses < releaseThreshold
		}
		if active {
			out[i] = 1
		}
	}
	return out
}

// SCWaterfall runs the subordinated-capital-first distribution waterfall: cash
// available is first applied as return of capital against the outstanding SC
// balance, then the remainder is paid as dividends, capped at period NPAT and
// gated by lockup (§4.8).
func SCWaterfall(cashAvailable, scBalance, npat, lockupActive []float64) (returnOfCapital, dividends, closingSCBalance []float64) {
	n := len(cashAvailable)
	returnOfCapital = make([]float64, n)
	dividends = make([]float64, n)
	closingSCBalance = make([]float64, n)

	balance := 0.0
	if n > 0 {
		balance = at(scBalance, 0)
	}
	for i := 0; i < n; i++ {
		if at(lockupActive, i) != 0 {
			closingSCBalance[i] = balance
			continue
		}
		available := at(cashAvailable, i)

		roc := available
		if roc > balance {
			roc = balance
		}
		if roc < 0 {
			roc = 0
		}
		balance -= roc
		remaining := available - roc

		divCap := at(npat, i)
		div := remaining
		if div > divCap {
			div = divCap
		}
		if div < 0 {
			div = 0
		}

		returnOfCapital[i] = roc
		dividends[i] = div
		closingSCBalance[i] = balance
	}
	return returnOfCapital, dividends, closingSCBalance
}

func truthyPass(arr []float64, pred func(float64) bool) []float64 {
	out := make([]float64, len(arr))
	for i, v := range arr {
		if pred(v) {
			out[i] = 1
		}
	}
	return out
}

func at(arr []float64, i int) float64 {
	if i < len(arr) {
		return arr[i]
	}
	return 0
}

func safeDiv(x, y float64) float64 {
	if y == 0 {
		return 0
	}
	return x / y
}
