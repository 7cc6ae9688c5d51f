package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopoSort_LinearChain(t *testing.T) {
	edges := BuildDependencyGraph(map[int]string{
		1: "10",
		2: "R1 + 1",
		3: "R2 + 1",
	})
	order, cyclic, err := TopoSort(edges)
	assert.NoError(t, err)
	assert.Empty(t, cyclic)

	pos := make(map[int]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	assert.Less(t, pos[1], pos[2])
	assert.Less(t, pos[2], pos[3])
}

func TestTopoSort_DirectCycleReportsOnceAndExcludesBoth(t *testing.T) {
	// Seed scenario 6: R1 = R2 + 1, R2 = R1 + 1.
	edges := BuildDependencyGraph(map[int]string{
		1: "R2 + 1",
		2: "R1 + 1",
	})
	order, cyclic, err := TopoSort(edges)
	assert.ErrorIs(t, err, ErrCircularDependency)
	assert.Len(t, cyclic, 1)
	assert.NotContains(t, order, 1)
	assert.NotContains(t, order, 2)
}

func TestBuildDependencyGraph_IgnoresNonRRefs(t *testing.T) {
	edges := BuildDependencyGraph(map[int]string{
		1: "V1 + C2 + S3",
	})
	assert.Empty(t, edges[1])
}

func TestBuildDependencyGraph_IgnoresModuleSubItemForms(t *testing.T) {
	edges := BuildDependencyGraph(map[int]string{
		1: "M2.3 + 5",
		2: "10",
	})
	// M2.3 addresses a module's sub-output, not a dependency on calculation 2.
	assert.Empty(t, edges[1])
}
