package mra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredBalance_LooksForward(t *testing.T) {
	capex := []float64{1, 2, 3, 4}
	out := RequiredBalance(capex, 2)
	assert.Equal(t, []float64{3, 5, 7, 4}, out)
}

func TestFunding_IsMonthOverMonthDelta(t *testing.T) {
	required := []float64{3, 5, 7, 4}
	out := Funding(required)
	assert.Equal(t, []float64{3, 2, 2, -3}, out)
}
