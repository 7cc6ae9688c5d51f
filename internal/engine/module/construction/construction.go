// Package construction implements the Construction Funding module (§4.8): net
// period cost, total uses, senior debt, gearing, IDC and equity drawdown all
// run as one forward pass through Calculator (calculator.go), each stage
// feeding the next.
package construction

// ModuleType is the moduleType string construction-funding instances declare.
const ModuleType = "construction_funding"

// NetPeriodCost computes one period's net construction cost: costs incurred
// that period plus GST paid minus fees capitalised that period, gated by the
// construction flag (zero outside the construction window).
func NetPeriodCost(costs, gstPaid, fees, constructionFlag []float64) []float64 {
	n := len(costs)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if constructionFlag[i] == 0 {
			continue
		}
		c := at(costs, i)
		g := at(gstPaid, i)
		f := at(fees, i)
		out[i] = c + g - f
	}
	return out
}

// TotalUses is the CUMSUM of per-period net costs (§4.8: "total uses (CUMSUM of
// costs, GST paid, fees)").
func TotalUses(netPeriodCost []float64) []float64 {
	out := make([]float64, len(netPeriodCost))
	running := 0.0
	for i, v := range netPeriodCost {
		running += v
		out[i] = running
	}
	return out
}

// SeniorDebt caps the sized debt at the gearing-capped share of total uses:
// `MIN(sizedDebt, totalUses · gearingCap)`.
func SeniorDebt(sizedDebt, totalUses []float64, gearingCapPct float64) []float64 {
	n := len(sizedDebt)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		capped := at(totalUses, i) * gearingCapPct / 100
		if at(sizedDebt, i) < capped {
			out[i] = sizedDebt[i]
		} else {
			out[i] = capped
		}
	}
	return out
}

// Gearing is senior debt as a percentage of total uses, zero when uses are zero.
func Gearing(seniorDebt, totalUses []float64) []float64 {
	n := len(seniorDebt)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		u := at(totalUses, i)
		if u == 0 {
			continue
		}
		out[i] = at(seniorDebt, i) / u * 100
	}
	return out
}

// IDC accrues interest-during-construction on the opening drawn-debt balance
// at the monthly-equivalent of the annual rate, gated by the construction flag.
func IDC(openingDebt, annualRatePct, constructionFlag []float64) []float64 {
	n := len(openingDebt)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if at(constructionFlag, i) == 0 {
			continue
		}
		out[i] = at(openingDebt, i) * at(annualRatePct, i) / 100 / 12
	}
	return out
}

// EquityDrawdown is whatever of total uses is not covered by senior debt for
// that period: the funding "remainder" (§4.8).
func EquityDrawdown(totalUses, seniorDebt []float64) []float64 {
	n := len(totalUses)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = at(totalUses, i) - at(seniorDebt, i)
	}
	return out
}

func at(arr []float64, i int) float64 {
	if i < len(arr) {
		return arr[i]
	}
	return 0
}
