package distributions

import "pfengine/internal/engine/module"

// Calculator wires the module's stateful outputs through the dispatcher
// (§4.5): lockup_active and the SC waterfall both carry sequential memory
// (a running consecutive-pass counter, a running SC balance) a formula
// cannot express with CUMSUM/LAG alone, so they're computed here rather than
// left as convertedOutputs. Every other declared output (historic ADSCR, the
// RE/NPAT pass flags, cash available after reserve) is a plain forward pass
// and stays an ordinary formula via NewTemplate's convertedOutputs.
type Calculator struct{}

func (Calculator) Calculate(inputs map[string]any, n int, ctx module.Context) (map[string][]float64, error) {
	quarterEnd, _ := inputs["quarter_end_flag"].([]float64)
	covenantPass, _ := inputs["covenant_pass"].([]float64)
	cashAvailable, _ := inputs["cash_available"].([]float64)
	scBalance, _ := inputs["sc_balance"].([]float64)
	npat, _ := inputs["npat"].([]float64)
	releaseThreshold, _ := inputs["release_threshold"].(float64)

	lockup := LockupActive(zeroIfNil(quarterEnd, n), zeroIfNil(covenantPass, n), int(releaseThreshold))
	roc, dividends, closing := SCWaterfall(zeroIfNil(cashAvailable, n), zeroIfNil(scBalance, n), zeroIfNil(npat, n), lockup)

	return map[string][]float64{
		"lockup_active":      lockup,
		"return_of_capital":  roc,
		"dividends":          dividends,
		"closing_sc_balance": closing,
	}, nil
}

func zeroIfNil(arr []float64, n int) []float64 {
	if arr == nil {
		return make([]float64, n)
	}
	return arr
}

// NewTemplate declares the module's mixed contract: the four stateful
// outputs above run through this package's Calculator, while
// convertedOutputs maps the remaining, purely-forward-pass outputs
// (historic_adscr, re_pass, npat_pass, cash_available_after_reserve, ...) to
// ordinary calculation refs in the workbook (§4.5 step 4).
func NewTemplate(convertedOutputs map[string]string) module.Template {
	return module.Template{
		ModuleType: ModuleType,
		Inputs: []module.InputSpec{
			{Name: "quarter_end_flag", Kind: module.KindReference, Required: true},
			{Name: "covenant_pass", Kind: module.KindReference, Required: true},
			{Name: "release_threshold", Kind: module.KindNumberOrRef, Default: 4.0},
			{Name: "cash_available", Kind: module.KindReference, Required: true},
			{Name: "sc_balance", Kind: module.KindReference, Required: true},
			{Name: "npat", Kind: module.KindReference, Required: true},
		},
		Outputs: []module.OutputSpec{
			{Key: "lockup_active", Label: "Lockup active", Type: "array"},
			{Key: "return_of_capital", Label: "Return of capital", Type: "array"},
			{Key: "dividends", Label: "Dividends", Type: "array"},
			{Key: "closing_sc_balance", Label: "Closing SC balance", Type: "array"},
		},
		ConvertedOutputs: convertedOutputs,
	}
}
