package debtsizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quarterlyPeriodEnd(n int) func(int, PeriodKind) bool {
	return func(i int, kind PeriodKind) bool {
		if i == n-1 {
			return true
		}
		switch kind {
		case PeriodQuarterly:
			return (i+1)%3 == 0
		case PeriodYearly:
			return (i+1)%12 == 0
		default:
			return true
		}
	}
}

func fillFloat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Seed scenario 5: constant CFADS=10/month, contractedDSCR=1.35,
// merchantDSCR=1.50, funding=1000, maxGearing=65, interestRate=5, tenor=5y,
// debtPeriod=Q, tolerance=0.01.
func TestSolve_SeedScenario5_ConvergesWithinGearingCap(t *testing.T) {
	n := 72
	res := Solve(SolveInput{
		ContractedCFADS:   fillFloat(n, 10),
		ContractedDSCR:    1.35,
		MerchantCFADS:     fillFloat(n, 10),
		MerchantDSCR:      1.50,
		DebtFlag:          fillFloat(n, 1),
		CumulativeFunding: fillFloat(n, 1000),
		MaxGearingPct:     65,
		InterestRatePct:   fillFloat(n, 5),
		TenorYears:        5,
		Period:            PeriodQuarterly,
		Tolerance:         0.01,
		MaxIterations:     60,
		IsPeriodEnd:       quarterlyPeriodEnd(n),
	})

	require.True(t, res.Log.Converged)
	assert.Greater(t, res.Log.SizedDebt, 0.0)
	assert.LessOrEqual(t, res.Log.SizedDebt, 650.0+1e-6)
	assert.Less(t, res.Schedule.ClosingBalance[res.DebtEnd], 0.001)
}

func TestSolve_NoDebtFlagReturnsZerosNotConverged(t *testing.T) {
	n := 12
	res := Solve(SolveInput{
		DebtFlag:          make([]float64, n),
		CumulativeFunding: fillFloat(n, 1000),
		MaxGearingPct:     65,
		InterestRatePct:   fillFloat(n, 5),
		TenorYears:        1,
		Period:            PeriodMonthly,
		IsPeriodEnd:       quarterlyPeriodEnd(n),
	})
	assert.False(t, res.Log.Converged)
	assert.Equal(t, fillFloat(n, 0), res.SizedDebt)
}

func TestSolve_SizedDebtIsFlatAcrossHorizon(t *testing.T) {
	n := 24
	res := Solve(SolveInput{
		ContractedCFADS:   fillFloat(n, 20),
		ContractedDSCR:    1.2,
		MerchantCFADS:     fillFloat(n, 0),
		MerchantDSCR:      1.2,
		DebtFlag:          fillFloat(n, 1),
		CumulativeFunding: fillFloat(n, 500),
		MaxGearingPct:     70,
		InterestRatePct:   fillFloat(n, 4),
		TenorYears:        2,
		Period:            PeriodMonthly,
		Tolerance:         0.01,
		IsPeriodEnd:       quarterlyPeriodEnd(n),
	})
	for _, v := range res.SizedDebt {
		assert.Equal(t, res.Log.SizedDebt, v)
	}
}
