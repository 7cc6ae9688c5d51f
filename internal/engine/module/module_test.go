package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCtx struct{ data map[string][]float64 }

func (f fakeCtx) Resolve(ref string) ([]float64, bool) {
	v, ok := f.data[ref]
	return v, ok
}

type doubleCalc struct{}

func (doubleCalc) Calculate(inputs map[string]any, n int, ctx Context) (map[string][]float64, error) {
	src := inputs["series"].([]float64)
	out := make([]float64, n)
	for i, v := range src {
		out[i] = v * 2
	}
	return map[string][]float64{"doubled": out}, nil
}

func TestDispatcher_RunResolvesReferenceAndOrdersOutputs(t *testing.T) {
	d := NewDispatcher()
	d.Register(Template{
		ModuleType: "double",
		Inputs:     []InputSpec{{Name: "series", Kind: KindReference, Required: true}},
		Outputs:    []OutputSpec{{Key: "doubled", Label: "Doubled"}},
	}, doubleCalc{})

	ctx := fakeCtx{data: map[string][]float64{"V1": {1, 2, 3}}}
	out, err := d.Run(Instance{ModuleType: "double", Inputs: map[string]any{"series": "V1"}}, 3, ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []float64{2, 4, 6}, out[0])
}

func TestDispatcher_FullyConvertedProducesNoOutputs(t *testing.T) {
	d := NewDispatcher()
	d.Register(Template{ModuleType: "converted", FullyConverted: true}, doubleCalc{})
	out, err := d.Run(Instance{ModuleType: "converted"}, 3, fakeCtx{})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestDispatcher_UnknownModuleType(t *testing.T) {
	d := NewDispatcher()
	_, err := d.Run(Instance{ModuleType: "nope"}, 3, fakeCtx{})
	assert.ErrorAs(t, err, &ErrUnknownModuleType{})
}

func TestDispatcher_RequiredInputMissing(t *testing.T) {
	d := NewDispatcher()
	d.Register(Template{
		ModuleType: "double",
		Inputs:     []InputSpec{{Name: "series", Kind: KindReference, Required: true}},
	}, doubleCalc{})
	_, err := d.Run(Instance{ModuleType: "double", Inputs: map[string]any{}}, 3, fakeCtx{})
	assert.ErrorAs(t, err, &ErrUnknownModuleInput{})
}

func TestResolveModuleInput_NumberPassthrough(t *testing.T) {
	assert.Equal(t, 5.0, ResolveModuleInput(5.0, fakeCtx{}, 0))
}

func TestResolveModuleInput_RefFirstNonZero(t *testing.T) {
	ctx := fakeCtx{data: map[string][]float64{"V1": {0, 0, 7, 8}}}
	assert.Equal(t, 7.0, ResolveModuleInput("V1", ctx, 0))
}

func TestResolveModuleInput_RefAllZeroReturnsZeroth(t *testing.T) {
	ctx := fakeCtx{data: map[string][]float64{"V1": {0, 0, 0}}}
	assert.Equal(t, 0.0, ResolveModuleInput("V1", ctx, 99))
}

func TestResolveModuleInput_NumericString(t *testing.T) {
	assert.Equal(t, 3.5, ResolveModuleInput("3.5", fakeCtx{}, 0))
}

func TestResolveModuleInput_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, 42.0, ResolveModuleInput("unresolvable", fakeCtx{}, 42))
}

func TestResolveModuleInputArray_BroadcastsNumber(t *testing.T) {
	assert.Equal(t, []float64{5, 5, 5}, ResolveModuleInputArray(5.0, fakeCtx{}, 3, 0))
}

func TestResolveModuleInputArray_PassesThroughReference(t *testing.T) {
	ctx := fakeCtx{data: map[string][]float64{"V1": {1, 2, 3}}}
	assert.Equal(t, []float64{1, 2, 3}, ResolveModuleInputArray("V1", ctx, 3, 0))
}

func TestResolveModuleInputArray_FallsBackToDefaultFill(t *testing.T) {
	assert.Equal(t, []float64{9, 9}, ResolveModuleInputArray("unresolvable", fakeCtx{}, 2, 9))
}
