package debtsizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfengine/internal/engine/module"
)

type calcFakeCtx struct{ data map[string][]float64 }

func (f calcFakeCtx) Resolve(ref string) ([]float64, bool) {
	v, ok := f.data[ref]
	return v, ok
}

func TestCalculator_WiresThroughDispatcher(t *testing.T) {
	n := 36
	d := module.NewDispatcher()
	calc := &Calculator{IsPeriodEnd: quarterlyPeriodEnd(n)}
	d.Register(NewTemplate(), calc)

	ctx := calcFakeCtx{data: map[string][]float64{
		"V1": fillFloat(n, 10),
		"V2": fillFloat(n, 1),
		"V3": fillFloat(n, 500),
		"V4": fillFloat(n, 5),
	}}

	out, err := d.Run(module.Instance{
		ModuleType: ModuleType,
		Inputs: map[string]any{
			"cfads":             "V1",
			"dscr":              1.2,
			"debt_flag":         "V2",
			"total_funding":     "V3",
			"max_gearing_pct":   70.0,
			"interest_rate_pct": "V4",
			"tenor_years":       3.0,
			"debt_period":       "Q",
			"tolerance":         0.01,
		},
	}, n, ctx)

	require.NoError(t, err)
	require.Len(t, out, len(OutputKeys))
	sizedDebt := out[0]
	assert.Greater(t, sizedDebt[0], 0.0)
	assert.Greater(t, calc.LastLog.SizedDebt, 0.0)
}
