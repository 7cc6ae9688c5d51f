package construction

import "pfengine/internal/engine/module"

// Calculator runs the full construction-funding forward pass through the
// dispatcher (§4.8): net period cost feeds total uses, which senior debt,
// gearing, IDC and equity drawdown all derive from in turn. Every output is
// a plain forward pass, so this is the module's only conversion path — there
// is no separate fullyConverted/convertedOutputs variant to keep in sync.
type Calculator struct{}

func (Calculator) Calculate(inputs map[string]any, n int, ctx module.Context) (map[string][]float64, error) {
	costs, _ := inputs["costs"].([]float64)
	gstPaid, _ := inputs["gst_paid"].([]float64)
	fees, _ := inputs["fees"].([]float64)
	flag, _ := inputs["construction_flag"].([]float64)
	sizedDebt, _ := inputs["sized_debt"].([]float64)
	gearingCapPct, _ := inputs["gearing_cap_pct"].(float64)
	openingDebt, _ := inputs["opening_debt"].([]float64)
	annualRatePct, _ := inputs["annual_rate_pct"].([]float64)

	netPeriodCost := NetPeriodCost(zeroIfNil(costs, n), zeroIfNil(gstPaid, n), zeroIfNil(fees, n), zeroIfNil(flag, n))
	totalUses := TotalUses(netPeriodCost)
	seniorDebt := SeniorDebt(zeroIfNil(sizedDebt, n), totalUses, gearingCapPct)
	gearing := Gearing(seniorDebt, totalUses)
	idc := IDC(zeroIfNil(openingDebt, n), zeroIfNil(annualRatePct, n), zeroIfNil(flag, n))
	equityDrawdown := EquityDrawdown(totalUses, seniorDebt)

	return map[string][]float64{
		"net_period_cost": netPeriodCost,
		"total_uses":      totalUses,
		"senior_debt":     seniorDebt,
		"gearing":         gearing,
		"idc":             idc,
		"equity_drawdown": equityDrawdown,
	}, nil
}

func zeroIfNil(arr []float64, n int) []float64 {
	if arr == nil {
		return make([]float64, n)
	}
	return arr
}

// NewTemplate declares the module's schema.
func NewTemplate() module.Template {
	return module.Template{
		ModuleType: ModuleType,
		Inputs: []module.InputSpec{
			{Name: "costs", Kind: module.KindReference, Required: true},
			{Name: "gst_paid", Kind: module.KindReference},
			{Name: "fees", Kind: module.KindReference},
			{Name: "construction_flag", Kind: module.KindReference, Required: true},
			{Name: "sized_debt", Kind: module.KindReference},
			{Name: "gearing_cap_pct", Kind: module.KindPercentage, Default: 70.0},
			{Name: "opening_debt", Kind: module.KindReference},
			{Name: "annual_rate_pct", Kind: module.KindReference},
		},
		Outputs: []module.OutputSpec{
			{Key: "net_period_cost", Label: "Net period cost", Type: "array"},
			{Key: "total_uses", Label: "Total uses", Type: "array"},
			{Key: "senior_debt", Label: "Senior debt", Type: "array"},
			{Key: "gearing", Label: "Gearing", Type: "array"},
			{Key: "idc", Label: "Interest during construction", Type: "array"},
			{Key: "equity_drawdown", Label: "Equity drawdown", Type: "array"},
		},
	}
}
