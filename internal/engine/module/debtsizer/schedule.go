// Package debtsizer implements the iterative DSCR-sculpted debt sizer (§4.7),
// the one module whose output is determined by a fixed-point search rather
// than a forward pass.
package debtsizer

// CapacityScheduleInput bundles everything generateCapacitySchedule (§4.7.1)
// needs for one candidate debt amount.
type CapacityScheduleInput struct {
	Debt           float64
	Capacity       []float64 // per-month DSC_i = contractedCFADS_i/contractedDSCR + merchantCFADS_i/merchantDSCR
	TotalCFADS     []float64 // per-month CFADS used for period_dscr
	DebtStart      int
	DebtEnd        int
	InterestRate   []float64 // percent per annum, time-series
	Period         PeriodKind
	IsPeriodEnd    func(i int, kind PeriodKind) bool
}

// PeriodKind is the debt's own payment-period granularity, independent of any
// group's display frequency.
type PeriodKind string

const (
	PeriodMonthly   PeriodKind = "M"
	PeriodQuarterly PeriodKind = "Q"
	PeriodYearly    PeriodKind = "Y"
)

// CapacitySchedule is the per-month output of one generateCapacitySchedule run.
type CapacitySchedule struct {
	N                  int
	OpeningBalance     []float64
	InterestPayment    []float64
	PrincipalPayment   []float64
	DebtService        []float64
	ClosingBalance     []float64
	PeriodDSCR         []float64
	CumulativePrincipal []float64

	FullyRepaid        bool
	DSCRBreached       bool
	HasNegativePrincipal bool
	PaysOffEarly       bool
}

// generateCapacitySchedule walks the debt window monthly, accruing interest and
// capacity, and sculpting principal at each payment-period end so the schedule
// neither breaches DSCR nor pays off implausibly early (§4.7.1).
func generateCapacitySchedule(in CapacityScheduleInput) CapacitySchedule {
	n := len(in.Capacity)
	out := CapacitySchedule{
		N:                   n,
		OpeningBalance:      make([]float64, n),
		InterestPayment:     make([]float64, n),
		PrincipalPayment:    make([]float64, n),
		DebtService:         make([]float64, n),
		ClosingBalance:      make([]float64, n),
		PeriodDSCR:          make([]float64, n),
		CumulativePrincipal: make([]float64, n),
	}

	if in.Debt <= 0 || in.DebtStart < 0 || in.DebtEnd < in.DebtStart || in.DebtEnd >= n {
		out.FullyRepaid = in.Debt <= 0
		return out
	}

	balance := in.Debt
	var accruedInterest, accruedCapacity, accruedCfads float64
	var cumulativePrincipal float64
	var payoffCount, totalPaymentPeriods int
	payoffFound := false

	for i := in.DebtStart; i <= in.DebtEnd; i++ {
		out.OpeningBalance[i] = balance

		rate := 0.0
		if i < len(in.InterestRate) {
			rate = in.InterestRate[i]
		}
		monthlyInterest := balance * rate / 100 / 12
		accruedInterest += monthlyInterest
		if i < len(in.Capacity) {
			accruedCapacity += in.Capacity[i]
		}
		if i < len(in.TotalCFADS) {
			accruedCfads += in.TotalCFADS[i]
		}

		periodEnd := i == in.DebtEnd || in.IsPeriodEnd(i, in.Period)
		if !periodEnd {
			out.ClosingBalance[i] = balance
			continue
		}

		totalPaymentPeriods++

		interest := accruedInterest
		maxDebtService := accruedCapacity
		remainingPeriods := countRemainingPaymentPeriods(i, in.DebtEnd, in.Period, in.IsPeriodEnd)
		minPrincipalForTenor := 0.0
		if remainingPeriods > 0 {
			minPrincipalForTenor = balance / float64(remainingPeriods)
		}
		maxPrincipalFromCapacity := maxDebtService - interest
		if maxPrincipalFromCapacity < 0 {
			maxPrincipalFromCapacity = 0
		}

		var principal float64
		switch {
		case i == in.DebtEnd:
			principal = balance
		case balance <= 0:
			principal = 0
		case maxPrincipalFromCapacity < minPrincipalForTenor:
			principal = maxPrincipalFromCapacity
			if maxPrincipalFromCapacity < 0.5*minPrincipalForTenor {
				out.DSCRBreached = true
			}
		case remainingPeriods > 1:
			minRequiredBalance := minPrincipalForTenor * float64(remainingPeriods-1)
			maxAllowed := balance - minRequiredBalance
			if maxAllowed < 0 {
				maxAllowed = 0
			}
			capped := maxPrincipalFromCapacity
			if maxAllowed < capped {
				capped = maxAllowed
			}
			principal = minPrincipalForTenor
			if capped > principal {
				principal = capped
			}
		default:
			principal = maxPrincipalFromCapacity
			if balance < principal {
				principal = balance
			}
		}

		if principal > balance {
			principal = balance
		}
		if principal < 0 {
			out.HasNegativePrincipal = true
		}

		debtService := interest + principal
		closing := balance - principal
		if closing < 0 {
			closing = 0
		}

		out.InterestPayment[i] = interest
		out.PrincipalPayment[i] = principal
		out.DebtService[i] = debtService
		out.ClosingBalance[i] = closing
		out.PeriodDSCR[i] = safeDiv(accruedCfads, debtService)

		cumulativePrincipal += principal
		out.CumulativePrincipal[i] = cumulativePrincipal

		if closing < 0.001 && !payoffFound {
			payoffFound = true
			payoffCount = totalPaymentPeriods
		}

		balance = closing
		accruedInterest, accruedCapacity, accruedCfads = 0, 0, 0
	}

	// Carry cumulative principal (and the final closing balance) forward past debtEnd.
	lastCumulative := out.CumulativePrincipal[in.DebtEnd]
	lastClosing := out.ClosingBalance[in.DebtEnd]
	for i := in.DebtEnd + 1; i < n; i++ {
		out.CumulativePrincipal[i] = lastCumulative
		out.ClosingBalance[i] = lastClosing
		out.OpeningBalance[i] = lastClosing
	}

	out.FullyRepaid = balance < 0.001
	if payoffFound {
		out.PaysOffEarly = totalPaymentPeriods-payoffCount > 2
	}

	return out
}

// countRemainingPaymentPeriods scans forward from i (inclusive) to debtEnd and
// counts how many payment-period ends remain, per Design Notes §9's directive
// to implement this against the timeline value object rather than `i % 3`.
func countRemainingPaymentPeriods(i, debtEnd int, kind PeriodKind, isPeriodEnd func(int, PeriodKind) bool) int {
	count := 0
	for j := i; j <= debtEnd; j++ {
		if j == debtEnd || isPeriodEnd(j, kind) {
			count++
		}
	}
	return count
}

func safeDiv(x, y float64) float64 {
	if y == 0 {
		return 0
	}
	return x / y
}
