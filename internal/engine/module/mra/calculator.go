package mra

import "pfengine/internal/engine/module"

// Calculator adapts RequiredBalance/Funding to the module dispatcher.
type Calculator struct{}

func (Calculator) Calculate(inputs map[string]any, n int, ctx module.Context) (map[string][]float64, error) {
	capex, _ := inputs["maintenance_capex"].([]float64)
	if capex == nil {
		capex = make([]float64, n)
	}
	lookforward, _ := inputs["lookforward_months"].(float64)

	required := RequiredBalance(capex, int(lookforward))
	return map[string][]float64{
		"required_balance": required,
		"funding":          Funding(required),
	}, nil
}

// NewTemplate declares the MRA module's schema.
func NewTemplate() module.Template {
	return module.Template{
		ModuleType: ModuleType,
		Inputs: []module.InputSpec{
			{Name: "maintenance_capex", Kind: module.KindReference, Required: true},
			{Name: "lookforward_months", Kind: module.KindNumber, Default: 12.0},
		},
		Outputs: []module.OutputSpec{
			{Key: "required_balance", Label: "Required reserve balance", Type: "array"},
			{Key: "funding", Label: "Period funding", Type: "array"},
		},
	}
}
