package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfengine/internal/engine/diagnostics"
)

func TestEngine_EvaluatesInDependencyOrder(t *testing.T) {
	calcs := []Calculation{
		{ID: 1, Formula: "V1"},
		{ID: 2, Formula: "R1 * 2"},
	}
	diags := &diagnostics.Collector{}
	eng := NewEngine(calcs, diags)
	require.False(t, diags.HasErrors())

	edges := BuildDependencyGraph(FormulasByID(calcs))
	order, cyclic, err := TopoSort(edges)
	require.NoError(t, err)
	require.Empty(t, cyclic)

	results := make(map[int][]float64)
	resolve := func(ref string) ([]float64, bool) {
		if ref == "V1" {
			return []float64{5}, true
		}
		if r, ok := refParseRID(ref); ok {
			if v, ok := results[r]; ok {
				return v, true
			}
		}
		return nil, false
	}

	for _, id := range order {
		results[id] = eng.Evaluate(id, 1, resolve, diags)
	}

	assert.Equal(t, []float64{5}, results[1])
	assert.Equal(t, []float64{10}, results[2])
	assert.False(t, diags.HasErrors())
}

func TestEngine_EmptyFormulaRecordsDiagnostic(t *testing.T) {
	calcs := []Calculation{{ID: 1, Formula: ""}}
	diags := &diagnostics.Collector{}
	eng := NewEngine(calcs, diags)

	out := eng.Evaluate(1, 3, func(string) ([]float64, bool) { return nil, false }, diags)
	assert.Equal(t, []float64{0, 0, 0}, out)

	items := diags.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diagnostics.CodeEmptyFormula, items[0].Code)
}

func TestEngine_UnresolvedReferenceRecordsDiagnosticAndZeroes(t *testing.T) {
	calcs := []Calculation{{ID: 1, Formula: "V99"}}
	diags := &diagnostics.Collector{}
	eng := NewEngine(calcs, diags)
	require.False(t, diags.HasErrors())

	out := eng.Evaluate(1, 2, func(string) ([]float64, bool) { return nil, false }, diags)
	assert.Equal(t, []float64{0, 0}, out)

	items := diags.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diagnostics.CodeUnresolvedRef, items[0].Code)
}
