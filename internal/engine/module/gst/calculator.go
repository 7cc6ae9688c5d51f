package gst

import "pfengine/internal/engine/module"

// Calculator adapts Receivable to the module dispatcher.
type Calculator struct{}

func (Calculator) Calculate(inputs map[string]any, n int, ctx module.Context) (map[string][]float64, error) {
	gstPaid, _ := inputs["gst_paid"].([]float64)
	gstReclaimed, _ := inputs["gst_reclaimed"].([]float64)
	return map[string][]float64{
		"gst_receivable": Receivable(zeroIfNil(gstPaid, n), zeroIfNil(gstReclaimed, n)),
	}, nil
}

func zeroIfNil(arr []float64, n int) []float64 {
	if arr == nil {
		return make([]float64, n)
	}
	return arr
}

// NewTemplate declares the GST module's schema.
func NewTemplate() module.Template {
	return module.Template{
		ModuleType: ModuleType,
		Inputs: []module.InputSpec{
			{Name: "gst_paid", Kind: module.KindReference, Required: true},
			{Name: "gst_reclaimed", Kind: module.KindReference, Required: true},
		},
		Outputs: []module.OutputSpec{{Key: "gst_receivable", Label: "GST receivable", Type: "array"}},
	}
}
