package dsrf

import "pfengine/internal/engine/module"

// Calculator adapts the DSRF forward passes to the module dispatcher.
type Calculator struct{}

func (Calculator) Calculate(inputs map[string]any, n int, ctx module.Context) (map[string][]float64, error) {
	refiDates, _ := inputs["refi_dates"].([]float64)
	debtService, _ := inputs["debt_service"].([]float64)
	baseMargin, _ := inputs["base_margin_pct"].(float64)
	stepMargins, _ := inputs["step_margins_pct"].([]float64)
	opsStart, _ := inputs["ops_start_month"].(float64)
	lookforward, _ := inputs["lookforward_months"].(float64)
	refiFeePct, _ := inputs["refi_fee_pct"].(float64)

	margin := EffectiveMargin(zeroIfNil(refiDates, n), baseMargin, stepMargins)
	limit := FacilityLimit(zeroIfNil(debtService, n), zeroIfNil(refiDates, n), int(opsStart), int(lookforward))
	fees := RefiFees(limit, zeroIfNil(refiDates, n), refiFeePct)

	return map[string][]float64{
		"effective_margin_pct": margin,
		"facility_limit":       limit,
		"refi_fees":            fees,
	}, nil
}

func zeroIfNil(arr []float64, n int) []float64 {
	if arr == nil {
		return make([]float64, n)
	}
	return arr
}

// NewTemplate declares the DSRF module's schema.
func NewTemplate() module.Template {
	return module.Template{
		ModuleType: ModuleType,
		Inputs: []module.InputSpec{
			{Name: "refi_dates", Kind: module.KindReference, Required: true},
			{Name: "debt_service", Kind: module.KindReference, Required: true},
			{Name: "base_margin_pct", Kind: module.KindNumberOrRef, Default: 0.0},
			{Name: "step_margins_pct", Kind: module.KindArray},
			{Name: "ops_start_month", Kind: module.KindNumber, Default: 0.0},
			{Name: "lookforward_months", Kind: module.KindNumber, Default: 12.0},
			{Name: "refi_fee_pct", Kind: module.KindNumberOrRef, Default: 0.0},
		},
		Outputs: []module.OutputSpec{
			{Key: "effective_margin_pct", Label: "Effective margin %", Type: "array"},
			{Key: "facility_limit", Label: "Facility limit", Type: "array"},
			{Key: "refi_fees", Label: "Refinancing fees", Type: "array"},
		},
	}
}
