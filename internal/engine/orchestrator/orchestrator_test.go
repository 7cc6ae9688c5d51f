package orchestrator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfengine/internal/engine/model"
	"pfengine/internal/engine/module"
	"pfengine/internal/engine/module/debtsizer"
	"pfengine/internal/engine/timeline"
)

func monthlyConfig(n int) model.Config {
	endYear := (n - 1) / 12
	endMonth := (n-1)%12 + 1
	return model.Config{StartYear: 2020, StartMonth: 1, EndYear: 2020 + endYear, EndMonth: endMonth, FYStartMonth: 1}
}

func valuesGroup(id int, name string) model.Group {
	return model.Group{ID: id, Name: name, EntryMode: model.EntryValues, Frequency: model.FreqMonthly}
}

func flatValuesInput(id, groupID int, n int, v float64) model.Input {
	values := make(map[int]float64, n)
	for i := 0; i < n; i++ {
		values[i] = v
	}
	return model.Input{ID: id, GroupID: groupID, Values: values}
}

// Seed scenario 1: N=12, V1 flat 10, R1 = V1*2 -> R1 = [20]*12, SUM(R1)=240.
func TestEvaluate_SeedScenario1_SimpleMultiplyAndSum(t *testing.T) {
	cfg := monthlyConfig(12)
	groups := []model.Group{valuesGroup(1, "revenue")}
	inputs := []model.Input{flatValuesInput(1, 1, 12, 10)}
	calcs := []model.Calculation{
		{ID: 1, Formula: "V1*2"},
		{ID: 2, Formula: "SUM(R1)"},
	}

	out := Evaluate(cfg, groups, inputs, nil, calcs, nil, module.NewDispatcher())

	require.NotNil(t, out.Context)
	assert.Empty(t, out.Diagnostics)
	r1 := out.Context["R1"]
	require.Len(t, r1, 12)
	for _, v := range r1 {
		assert.Equal(t, 20.0, v)
	}
	assert.Equal(t, 240.0, out.Context["R2"][0])
}

// Seed scenario 2: N=24, V1 flat 1, R1=CUMSUM(V1), R2=LAG(R1,1).
func TestEvaluate_SeedScenario2_CumsumAndLag(t *testing.T) {
	cfg := monthlyConfig(24)
	groups := []model.Group{valuesGroup(1, "units")}
	inputs := []model.Input{flatValuesInput(1, 1, 24, 1)}
	calcs := []model.Calculation{
		{ID: 1, Formula: "CUMSUM(V1)"},
		{ID: 2, Formula: "LAG(R1, 1)"},
	}

	out := Evaluate(cfg, groups, inputs, nil, calcs, nil, module.NewDispatcher())

	r1 := out.Context["R1"]
	r2 := out.Context["R2"]
	assert.Equal(t, 24.0, r1[23])
	assert.Equal(t, 0.0, r2[0])
	assert.Equal(t, 1.0, r2[1])
	assert.Equal(t, 23.0, r2[23])
}

// Seed scenario 3: N=36, R1=CUMPROD(1.01).
func TestEvaluate_SeedScenario3_Cumprod(t *testing.T) {
	cfg := monthlyConfig(36)
	calcs := []model.Calculation{
		{ID: 1, Formula: "CUMPROD(1.01)"},
	}

	out := Evaluate(cfg, nil, nil, nil, calcs, nil, module.NewDispatcher())

	r1 := out.Context["R1"]
	assert.InDelta(t, 1.01, r1[0], 1e-9)
	assert.InDelta(t, 1.1268250301, r1[11], 1e-6)
	assert.InDelta(t, 1.43076878, r1[35], 1e-5)
}

// Seed scenario 4: a yearly lookup group with entries [100,110,121] starting at
// model month 0 reads as 12 months of 100, 12 of 110, 12 of 121.
func TestEvaluate_SeedScenario4_LookupYearlyHoldsFlat(t *testing.T) {
	cfg := monthlyConfig(36)
	group := model.Group{
		ID: 1, Name: "rate", EntryMode: model.EntryLookup, Frequency: model.FreqYearly,
		LookupStartYear: 2020, LookupStartMonth: 1,
	}
	in := model.Input{ID: 1, GroupID: 1, Values: map[int]float64{0: 100, 12: 110, 24: 121}}
	calcs := []model.Calculation{{ID: 1, Formula: "V1"}}

	out := Evaluate(cfg, []model.Group{group}, []model.Input{in}, nil, calcs, nil, module.NewDispatcher())

	r1 := out.Context["R1"]
	require.Len(t, r1, 36)
	for i := 0; i < 12; i++ {
		assert.Equal(t, 100.0, r1[i])
	}
	for i := 12; i < 24; i++ {
		assert.Equal(t, 110.0, r1[i])
	}
	for i := 24; i < 36; i++ {
		assert.Equal(t, 121.0, r1[i])
	}
}

// periodEndAdapter binds a real Timeline's IsPeriodEnd to the debt sizer's own
// PeriodKind (Design Notes §9: never `i % 3`).
func periodEndAdapter(tl *timeline.Timeline) func(i int, kind debtsizer.PeriodKind) bool {
	return func(i int, kind debtsizer.PeriodKind) bool {
		var freq model.Frequency
		switch kind {
		case debtsizer.PeriodQuarterly:
			freq = model.FreqQuarterly
		case debtsizer.PeriodYearly:
			freq = model.FreqYearly
		default:
			freq = model.FreqMonthly
		}
		return tl.IsPeriodEnd(i, freq)
	}
}

// Seed scenario 5: constant CFADS=10/month, contractedDSCR=1.35,
// merchantDSCR=1.50, funding=1000, maxGearing=65, interestRate=5, tenor=5y,
// debtPeriod=Q, tolerance=0.01 -> a positive D within [0,650], the schedule
// fully repays by debtEnd, and the solver log reports convergence.
func TestEvaluate_SeedScenario5_DebtSizerConvergesWithinGearingCap(t *testing.T) {
	cfg := monthlyConfig(120)
	tl, err := timeline.New(cfg)
	require.NoError(t, err)

	groups := []model.Group{
		{ID: 1, Name: "cfads", EntryMode: model.EntryConstant, Frequency: model.FreqMonthly},
		{ID: 2, Name: "debt_flag", EntryMode: model.EntryConstant, Frequency: model.FreqMonthly},
		{ID: 3, Name: "funding", EntryMode: model.EntryConstant, Frequency: model.FreqMonthly},
		{ID: 4, Name: "interest_rate", EntryMode: model.EntryConstant, Frequency: model.FreqMonthly},
	}
	ten, one, thousand, five := 10.0, 1.0, 1000.0, 5.0
	inputs := []model.Input{
		{ID: 1, GroupID: 1, Value: &ten, SpreadMethod: model.SpreadLookup},
		{ID: 2, GroupID: 2, Value: &one, SpreadMethod: model.SpreadLookup},
		{ID: 3, GroupID: 3, Value: &thousand, SpreadMethod: model.SpreadLookup},
		{ID: 4, GroupID: 4, Value: &five, SpreadMethod: model.SpreadLookup},
	}

	calc := &debtsizer.Calculator{IsPeriodEnd: periodEndAdapter(tl)}
	dispatcher := module.NewDispatcher()
	dispatcher.Register(debtsizer.NewTemplate(), calc)

	modules := []model.ModuleInstance{
		{
			ID: 1, ModuleType: debtsizer.ModuleType, Enabled: true,
			Inputs: map[string]any{
				"contracted_cfads":  "V1",
				"contracted_dscr":   1.35,
				"merchant_cfads":    "V1",
				"merchant_dscr":     1.50,
				"debt_flag":         "V2",
				"total_funding":     "V3",
				"max_gearing_pct":   65.0,
				"interest_rate_pct": "V4",
				"tenor_years":       5.0,
				"debt_period":       "Q",
				"tolerance":         0.01,
				"max_iterations":    60.0,
			},
		},
	}

	out := Evaluate(cfg, groups, inputs, nil, nil, modules, dispatcher)

	require.NotNil(t, out.Context)
	sizedDebt := out.Context["M1.1"]
	closingBalance := out.Context["M1.6"]
	require.NotEmpty(t, sizedDebt)
	d := sizedDebt[0]
	assert.Greater(t, d, 0.0)
	assert.LessOrEqual(t, d, 650.0)
	assert.True(t, calc.LastLog.Converged)

	last := closingBalance[len(closingBalance)-1]
	found := false
	for _, v := range closingBalance {
		if v < 0.001 {
			found = true
			break
		}
	}
	assert.True(t, found, "schedule never reaches a near-zero closing balance; last=%v", last)
}

// Seed scenario 6: R1=R2+1, R2=R1+1 must produce exactly one circular
// dependency diagnostic and zero both outputs.
func TestEvaluate_SeedScenario6_CircularDependencyZeroesAndDiagnoses(t *testing.T) {
	cfg := monthlyConfig(12)
	calcs := []model.Calculation{
		{ID: 1, Formula: "R2+1"},
		{ID: 2, Formula: "R1+1"},
	}

	out := Evaluate(cfg, nil, nil, nil, calcs, nil, module.NewDispatcher())

	for _, v := range out.Context["R1"] {
		assert.Equal(t, 0.0, v)
	}
	for _, v := range out.Context["R2"] {
		assert.Equal(t, 0.0, v)
	}

	circularCount := 0
	for _, d := range out.Diagnostics {
		if d.Code == "CIRCULAR_DEPENDENCY" {
			circularCount++
			assert.True(t, d.Ref == "R1" || d.Ref == "R2")
		}
	}
	assert.Equal(t, 1, circularCount)
}

// No NaN/Inf anywhere in the output context, even across a division by zero.
func TestEvaluate_DivisionByZeroNeverProducesNaNOrInf(t *testing.T) {
	cfg := monthlyConfig(6)
	calcs := []model.Calculation{
		{ID: 1, Formula: "5/0"},
	}

	out := Evaluate(cfg, nil, nil, nil, calcs, nil, module.NewDispatcher())

	for _, v := range out.Context["R1"] {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
		assert.Equal(t, 0.0, v)
	}
}

// Determinism: evaluate(x) == evaluate(x) byte-for-byte (here: value-for-value).
func TestEvaluate_IsDeterministic(t *testing.T) {
	cfg := monthlyConfig(12)
	groups := []model.Group{valuesGroup(1, "revenue")}
	inputs := []model.Input{flatValuesInput(1, 1, 12, 10)}
	calcs := []model.Calculation{{ID: 1, Formula: "V1*2"}}

	a := Evaluate(cfg, groups, inputs, nil, calcs, nil, module.NewDispatcher())
	b := Evaluate(cfg, groups, inputs, nil, calcs, nil, module.NewDispatcher())

	assert.Equal(t, a.Context, b.Context)
}

// Topological soundness: swapping the declaration order of unrelated calcs
// does not change results, including a dependency declared after its dependent.
func TestEvaluate_TopologicalOrderIndependentOfDeclarationOrder(t *testing.T) {
	cfg := monthlyConfig(6)
	groups := []model.Group{valuesGroup(1, "v")}
	inputs := []model.Input{flatValuesInput(1, 1, 6, 3)}

	forward := []model.Calculation{
		{ID: 1, Formula: "V1"},
		{ID: 2, Formula: "R1*2"},
	}
	backward := []model.Calculation{
		{ID: 2, Formula: "R1*2"},
		{ID: 1, Formula: "V1"},
	}

	a := Evaluate(cfg, groups, inputs, nil, forward, nil, module.NewDispatcher())
	b := Evaluate(cfg, groups, inputs, nil, backward, nil, module.NewDispatcher())

	assert.Equal(t, a.Context["R2"], b.Context["R2"])
	for _, v := range a.Context["R2"] {
		assert.Equal(t, 6.0, v)
	}
}

// A fatal config error (inverted timeline) is the sole case where Context is nil.
func TestEvaluate_InvertedTimelineIsFatal(t *testing.T) {
	cfg := model.Config{StartYear: 2025, StartMonth: 6, EndYear: 2024, EndMonth: 1}

	out := Evaluate(cfg, nil, nil, nil, nil, nil, module.NewDispatcher())

	assert.Nil(t, out.Context)
	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, "CONFIG_INVALID", string(out.Diagnostics[0].Code))
}
