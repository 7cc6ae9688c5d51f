// Package dsrf implements the DSRF (Debt-Service Reserve Facility) module
// (§4.8): effective margin as a step function across refinancing dates, a
// facility limit sized as a forward look at upcoming debt service, and refi
// fees charged on each refinancing date.
package dsrf

// ModuleType is the moduleType string DSRF instances declare.
const ModuleType = "dsrf"

// EffectiveMargin steps from baseMarginPct to the next entry in stepMarginsPct
// at each month flagged true in refiDates, holding each value until the next
// refinancing (§4.8: "effective margin as a step function stepping up at each
// refinancing").
func EffectiveMargin(refiDates []float64, baseMarginPct float64, stepMarginsPct []float64) []float64 {
	n := len(refiDates)
	out := make([]float64, n)
	current := baseMarginPct
	stepIdx := 0
	for i := 0; i < n; i++ {
		if refiDates[i] != 0 && stepIdx < len(stepMarginsPct) {
			current = stepMarginsPct[stepIdx]
			stepIdx++
		}
		out[i] = current
	}
	return out
}

// FacilityLimit is, at opsStartMonth and at each refinancing date, the sum of
// the next lookforwardMonths' absolute debt service, held flat until the next
// recompute point (§4.8: "forward-looking sum of next N months of
// |debt_service| recomputed at ops start and each refi").
func FacilityLimit(debtService []float64, refiDates []float64, opsStartMonth, lookforwardMonths int) []float64 {
	n := len(debtService)
	out := make([]float64, n)
	current := 0.0
	for i := 0; i < n; i++ {
		if i == opsStartMonth || refiDates[i] != 0 {
			current = forwardSumAbs(debtService, i, lookforwardMonths)
		}
		out[i] = current
	}
	return out
}

// RefiFees charges limit·refiFeePct on each refinancing date, zero elsewhere.
func RefiFees(facilityLimit, refiDates []float64, refiFeePct float64) []float64 {
	n := len(facilityLimit)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if refiDates[i] != 0 {
			out[i] = facilityLimit[i] * refiFeePct / 100
		}
	}
	return out
}

func forwardSumAbs(arr []float64, from, months int) float64 {
	sum := 0.0
	end := from + months
	if end > len(arr) {
		end = len(arr)
	}
	for i := from; i < end; i++ {
		v := arr[i]
		if v < 0 {
			v = -v
		}
		sum += v
	}
	return sum
}
