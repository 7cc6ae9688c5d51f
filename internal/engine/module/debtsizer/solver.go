package debtsizer

// SolverLog records the final aggregate of one debt-sizing run's search
// (§4.7 step 7): iteration count, convergence, final bounds and the sized
// debt. It holds no per-iteration trace.
type SolverLog struct {
	Iterations    int
	Converged     bool
	FinalLower    float64
	FinalUpper    float64
	FinalTolerance float64
	SizedDebt     float64
	MaxGearingCap float64
}

// SolveInput is the representative input set of §4.7: the two CFADS/DSCR
// pairs (or a single legacy pair), the debt-service flag, cumulative funding,
// max gearing, interest rate (time series), tenor, debt period, tolerance and
// iteration cap.
type SolveInput struct {
	ContractedCFADS []float64
	ContractedDSCR  float64
	MerchantCFADS   []float64
	MerchantDSCR    float64

	// Legacy single-CFADS path: used when ContractedCFADS/MerchantCFADS are
	// both nil and LegacyCFADS/LegacyDSCR are supplied instead.
	LegacyCFADS []float64
	LegacyDSCR  float64

	DebtFlag          []float64 // truthy per month
	CumulativeFunding []float64
	MaxGearingPct     float64
	InterestRatePct   []float64 // time series, percent per annum
	TenorYears        float64
	Period            PeriodKind
	Tolerance         float64
	MaxIterations     int
	IsPeriodEnd       func(i int, kind PeriodKind) bool
}

// Result is the sizer's output: `sized_debt` filled across the whole horizon
// plus the full capacity schedule for the winning debt amount (pre-"converted"
// era outputs — §4.7.1's closing note) and the solver log.
type Result struct {
	N              int
	SizedDebt      []float64
	Schedule       CapacitySchedule
	Log            SolverLog
	DebtStart      int
	DebtEnd        int
}

// Solve runs the primary and (if needed) secondary binary search of §4.7 and
// returns the sized debt plus its capacity schedule. Never errors: an
// infeasible configuration returns a zeroed Result with Log.Converged=false.
func Solve(in SolveInput) Result {
	n := len(in.DebtFlag)
	capacity, totalCFADS := buildCapacity(in)

	debtStart, debtEnd, ok := debtWindow(in.DebtFlag, int(in.TenorYears*12))
	if !ok {
		return Result{N: n, SizedDebt: make([]float64, n), Log: SolverLog{Converged: false}}
	}

	fundingIdx := debtStart - 1
	if fundingIdx < 0 {
		fundingIdx = 0
	}
	fundingBasis := 0.0
	if fundingIdx < len(in.CumulativeFunding) {
		fundingBasis = in.CumulativeFunding[fundingIdx]
	}
	maxDebt := fundingBasis * in.MaxGearingPct / 100

	tol := in.Tolerance
	if tol <= 0 {
		tol = 0.01
	}
	maxIter := in.MaxIterations
	if maxIter <= 0 {
		maxIter = 60
	}

	eval := func(d float64) CapacitySchedule {
		return generateCapacitySchedule(CapacityScheduleInput{
			Debt:         d,
			Capacity:     capacity,
			TotalCFADS:   totalCFADS,
			DebtStart:    debtStart,
			DebtEnd:      debtEnd,
			InterestRate: in.InterestRatePct,
			Period:       in.Period,
			IsPeriodEnd:  in.IsPeriodEnd,
		})
	}

	lower, upper := 0.0, maxDebt
	best := 0.0
	bestPaysOffEarly := false
	iterations := 0

	for iterations < maxIter && (upper-lower) > tol {
		iterations++
		mid := (lower + upper) / 2
		sched := eval(mid)
		viable := sched.FullyRepaid && !sched.DSCRBreached && !sched.HasNegativePrincipal && !sched.PaysOffEarly
		worksButEarly := sched.FullyRepaid && !sched.DSCRBreached && !sched.HasNegativePrincipal && sched.PaysOffEarly

		switch {
		case viable:
			lower = mid
			best = mid
			bestPaysOffEarly = false
		case worksButEarly:
			lower = mid
			bestPaysOffEarly = true
		default:
			upper = mid
		}
	}

	// Secondary search: push towards the gearing cap if the best result we have
	// still pays off early and there's room left below maxDebt.
	if bestPaysOffEarly && best < maxDebt-tol {
		lower2, upper2 := best, maxDebt
		secondaryIter := 0
		for secondaryIter < 15 && (upper2-lower2) > tol {
			secondaryIter++
			iterations++
			mid := (lower2 + upper2) / 2
			sched := eval(mid)
			viable := sched.FullyRepaid && !sched.DSCRBreached && !sched.HasNegativePrincipal && !sched.PaysOffEarly
			worksButEarly := sched.FullyRepaid && !sched.DSCRBreached && !sched.HasNegativePrincipal && sched.PaysOffEarly

			switch {
			case viable:
				lower2 = mid
				best = mid
			case worksButEarly:
				lower2 = mid
			default:
				upper2 = mid
			}
		}
	}

	sizedDebt := make([]float64, n)
	for i := range sizedDebt {
		sizedDebt[i] = best
	}

	finalSchedule := eval(best)

	return Result{
		N:         n,
		SizedDebt: sizedDebt,
		Schedule:  finalSchedule,
		DebtStart: debtStart,
		DebtEnd:   debtEnd,
		Log: SolverLog{
			Iterations:     iterations,
			Converged:      best > 0,
			FinalLower:     lower,
			FinalUpper:     upper,
			FinalTolerance: tol,
			SizedDebt:      best,
			MaxGearingCap:  maxDebt,
		},
	}
}

// buildCapacity computes the per-month DSC_i capacity array and the combined
// CFADS array used for period_dscr reporting (§4.7 step 1), dispatching
// between the two-CFADS path and the legacy single-CFADS path.
func buildCapacity(in SolveInput) (capacity, totalCFADS []float64) {
	n := len(in.DebtFlag)
	capacity = make([]float64, n)
	totalCFADS = make([]float64, n)

	if in.ContractedCFADS != nil || in.MerchantCFADS != nil {
		for i := 0; i < n; i++ {
			var c, m float64
			if i < len(in.ContractedCFADS) {
				c = in.ContractedCFADS[i]
			}
			if i < len(in.MerchantCFADS) {
				m = in.MerchantCFADS[i]
			}
			capacity[i] = safeDiv(c, in.ContractedDSCR) + safeDiv(m, in.MerchantDSCR)
			totalCFADS[i] = c + m
		}
		return capacity, totalCFADS
	}

	for i := 0; i < n; i++ {
		var c float64
		if i < len(in.LegacyCFADS) {
			c = in.LegacyCFADS[i]
		}
		capacity[i] = safeDiv(c, in.LegacyDSCR)
		totalCFADS[i] = c
	}
	return capacity, totalCFADS
}

// debtWindow finds [debtStart, debtEnd] per §4.7 step 2: debtStart is the
// first truthy month of the debt flag, debtFlagEnd the last, and debtEnd caps
// at tenor and at N-1. Returns ok=false if the flag is never truthy.
func debtWindow(debtFlag []float64, tenorMonths int) (start, end int, ok bool) {
	start, end = -1, -1
	for i, v := range debtFlag {
		if v != 0 {
			if start == -1 {
				start = i
			}
			end = i
		}
	}
	if start == -1 {
		return 0, 0, false
	}
	debtEnd := start + tenorMonths - 1
	if end < debtEnd {
		debtEnd = end
	}
	if n := len(debtFlag) - 1; debtEnd > n {
		debtEnd = n
	}
	return start, debtEnd, true
}
