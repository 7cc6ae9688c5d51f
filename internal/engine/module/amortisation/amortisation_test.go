package amortisation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_OneTimeAtOnset_StockIdentityHolds(t *testing.T) {
	res := Run(6, ModeOneTimeAtOnset, 0, 120, nil, 3)
	for i := range res.Opening {
		assert.InDelta(t, res.Opening[i]+res.Addition[i]-res.Expense[i], res.Closing[i], 1e-9, "month %d", i)
	}
	assert.Equal(t, 120.0, res.Addition[0])
	assert.Equal(t, 0.0, res.Expense[0]) // amortisation starts the month after onset
	assert.Equal(t, 40.0, res.Expense[1])
	assert.Equal(t, 40.0, res.Expense[2])
	assert.Equal(t, 40.0, res.Expense[3])
	assert.Equal(t, 0.0, res.Closing[3])
	assert.Equal(t, 0.0, res.Expense[4])
}

func TestRun_PeriodicAdditions_StockIdentityHolds(t *testing.T) {
	additions := []float64{100, 0, 0, 50, 0, 0}
	res := Run(8, ModePeriodicAdditions, 0, 0, additions, 2)
	for i := range res.Opening {
		assert.InDelta(t, res.Opening[i]+res.Addition[i]-res.Expense[i], res.Closing[i], 1e-9, "month %d", i)
	}
	assert.True(t, res.Closing[len(res.Closing)-1] <= 1e-9)
}
