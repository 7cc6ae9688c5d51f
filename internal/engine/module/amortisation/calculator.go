package amortisation

import "pfengine/internal/engine/module"

// Calculator adapts Run to the module dispatcher.
type Calculator struct{}

func (Calculator) Calculate(inputs map[string]any, n int, ctx module.Context) (map[string][]float64, error) {
	modeStr, _ := inputs["mode"].(string)
	onsetMonth, _ := inputs["onset_month"].(float64)
	onsetAmount, _ := inputs["onset_amount"].(float64)
	periodicAdditions, _ := inputs["periodic_additions"].([]float64)
	usefulLife, _ := inputs["useful_life_months"].(float64)

	res := Run(n, Mode(modeStr), int(onsetMonth), onsetAmount, periodicAdditions, int(usefulLife))
	return map[string][]float64{
		"opening": res.Opening,
		"addition": res.Addition,
		"expense": res.Expense,
		"closing": res.Closing,
	}, nil
}

// NewTemplate declares the amortisation module's schema.
func NewTemplate() module.Template {
	return module.Template{
		ModuleType: ModuleType,
		Inputs: []module.InputSpec{
			{Name: "mode", Kind: module.KindSelect, Default: string(ModeOneTimeAtOnset)},
			{Name: "onset_month", Kind: module.KindNumber, Default: 0.0},
			{Name: "onset_amount", Kind: module.KindNumberOrRef, Default: 0.0},
			{Name: "periodic_additions", Kind: module.KindArray},
			{Name: "useful_life_months", Kind: module.KindNumber, Default: 12.0},
		},
		Outputs: []module.OutputSpec{
			{Key: "opening", Label: "Opening balance", Type: "array"},
			{Key: "addition", Label: "Additions", Type: "array"},
			{Key: "expense", Label: "Expense", Type: "array"},
			{Key: "closing", Label: "Closing balance", Type: "array"},
		},
	}
}
