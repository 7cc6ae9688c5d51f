package debtsizer

import (
	"pfengine/internal/engine/module"
)

// ModuleType is the moduleType string debt-sizer instances declare in the
// workbook (§4.5).
const ModuleType = "debt_sizer"

// OutputKeys names the capacity-schedule series in declared-output order; in
// the converted era only "sized_debt" (index 0) is emitted by the module
// itself, the rest are produced by ordinary R90xx calculations that depend on
// it (§4.7.1's closing note) — the dispatcher still writes all of them here so
// a workbook predating that convention keeps working unchanged.
var OutputKeys = []string{
	"sized_debt",
	"opening_balance",
	"interest_payment",
	"principal_payment",
	"debt_service",
	"closing_balance",
	"period_dscr",
	"cumulative_principal",
}

// Calculator adapts Solve to the module dispatcher's Calculator interface.
// IsPeriodEnd must be bound to the evaluation pass's real timeline (Design
// Notes §9) before the dispatcher invokes it. LastLog captures the most
// recent run's `_solverLog` (§4.7 step 7) on the Calculator itself; the
// orchestrator does not read it, so it is not part of the evaluation Output.
type Calculator struct {
	IsPeriodEnd func(i int, kind PeriodKind) bool
	LastLog     SolverLog
}

// Calculate reads the declared inputs (resolved by the dispatcher per their
// kind) and runs the solver.
func (c *Calculator) Calculate(inputs map[string]any, n int, ctx module.Context) (map[string][]float64, error) {
	asArray := func(key string) []float64 {
		arr, _ := inputs[key].([]float64)
		if arr == nil {
			return make([]float64, n)
		}
		return arr
	}
	asFloat := func(key string) float64 {
		f, _ := inputs[key].(float64)
		return f
	}
	periodStr, _ := inputs["debt_period"].(string)
	period := PeriodKind(periodStr)
	if period == "" {
		period = PeriodMonthly
	}

	in := SolveInput{
		ContractedCFADS:   asArrayOrNil(inputs, "contracted_cfads", n),
		ContractedDSCR:    asFloat("contracted_dscr"),
		MerchantCFADS:     asArrayOrNil(inputs, "merchant_cfads", n),
		MerchantDSCR:      asFloat("merchant_dscr"),
		LegacyCFADS:       asArrayOrNil(inputs, "cfads", n),
		LegacyDSCR:        asFloat("dscr"),
		DebtFlag:          asArray("debt_flag"),
		CumulativeFunding: asArray("total_funding"),
		MaxGearingPct:     asFloat("max_gearing_pct"),
		InterestRatePct:   asArray("interest_rate_pct"),
		TenorYears:        asFloat("tenor_years"),
		Period:            period,
		Tolerance:         asFloat("tolerance"),
		MaxIterations:     int(asFloat("max_iterations")),
		IsPeriodEnd:       c.IsPeriodEnd,
	}

	res := Solve(in)
	c.LastLog = res.Log

	return map[string][]float64{
		"sized_debt":           res.SizedDebt,
		"opening_balance":      res.Schedule.OpeningBalance,
		"interest_payment":     res.Schedule.InterestPayment,
		"principal_payment":    res.Schedule.PrincipalPayment,
		"debt_service":         res.Schedule.DebtService,
		"closing_balance":      res.Schedule.ClosingBalance,
		"period_dscr":          res.Schedule.PeriodDSCR,
		"cumulative_principal": res.Schedule.CumulativePrincipal,
	}, nil
}

func asArrayOrNil(inputs map[string]any, key string, n int) []float64 {
	arr, ok := inputs[key].([]float64)
	if !ok {
		return nil
	}
	return arr
}

// NewTemplate declares the debt sizer's input/output schema for registration
// with a module.Dispatcher.
func NewTemplate() module.Template {
	return module.Template{
		ModuleType: ModuleType,
		Inputs: []module.InputSpec{
			{Name: "contracted_cfads", Kind: module.KindReference},
			{Name: "contracted_dscr", Kind: module.KindNumberOrRef, Default: 1.0},
			{Name: "merchant_cfads", Kind: module.KindReference},
			{Name: "merchant_dscr", Kind: module.KindNumberOrRef, Default: 1.0},
			{Name: "cfads", Kind: module.KindReference},
			{Name: "dscr", Kind: module.KindNumberOrRef, Default: 1.0},
			{Name: "debt_flag", Kind: module.KindReference, Required: true},
			{Name: "total_funding", Kind: module.KindReference, Required: true},
			{Name: "max_gearing_pct", Kind: module.KindNumberOrRef, Default: 0.0},
			{Name: "interest_rate_pct", Kind: module.KindReference, Required: true},
			{Name: "tenor_years", Kind: module.KindNumberOrRef, Default: 0.0},
			{Name: "debt_period", Kind: module.KindSelect, Default: "M"},
			{Name: "tolerance", Kind: module.KindNumber, Default: 0.01},
			{Name: "max_iterations", Kind: module.KindNumber, Default: 60.0},
		},
		Outputs: outputSpecs(),
	}
}

func outputSpecs() []module.OutputSpec {
	specs := make([]module.OutputSpec, len(OutputKeys))
	for i, k := range OutputKeys {
		specs[i] = module.OutputSpec{Key: k, Label: k, Type: "array"}
	}
	return specs
}
