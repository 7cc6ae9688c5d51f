package debtsizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCapacitySchedule_BulletRepaysAtDebtEnd(t *testing.T) {
	n := 12
	sched := generateCapacitySchedule(CapacityScheduleInput{
		Debt:         100,
		Capacity:     fillFloat(n, 50),
		TotalCFADS:   fillFloat(n, 50),
		DebtStart:    0,
		DebtEnd:      n - 1,
		InterestRate: fillFloat(n, 0),
		Period:       PeriodYearly,
		IsPeriodEnd:  quarterlyPeriodEnd(n),
	})
	assert.True(t, sched.FullyRepaid)
	assert.Less(t, sched.ClosingBalance[n-1], 0.001)
	assert.False(t, sched.HasNegativePrincipal)
}

func TestGenerateCapacitySchedule_InsufficientCapacityBreachesDSCR(t *testing.T) {
	n := 12
	sched := generateCapacitySchedule(CapacityScheduleInput{
		Debt:         1_000_000,
		Capacity:     fillFloat(n, 1),
		TotalCFADS:   fillFloat(n, 1),
		DebtStart:    0,
		DebtEnd:      n - 1,
		InterestRate: fillFloat(n, 0),
		Period:       PeriodMonthly,
		IsPeriodEnd:  quarterlyPeriodEnd(n),
	})
	assert.True(t, sched.DSCRBreached)
}

func TestGenerateCapacitySchedule_ZeroDebtIsTriviallyRepaid(t *testing.T) {
	n := 6
	sched := generateCapacitySchedule(CapacityScheduleInput{
		Debt:         0,
		Capacity:     fillFloat(n, 10),
		TotalCFADS:   fillFloat(n, 10),
		DebtStart:    0,
		DebtEnd:      n - 1,
		InterestRate: fillFloat(n, 0),
		Period:       PeriodMonthly,
		IsPeriodEnd:  quarterlyPeriodEnd(n),
	})
	assert.True(t, sched.FullyRepaid)
}
