package formula

import "fmt"

// ErrCircularDependency is returned by TopoSort when the R→R dependency graph
// contains a cycle. The caller (orchestrator) classifies this into
// diagnostics.CodeCircularDependency and excludes every node in the reported
// cycle from the evaluation order (§4.4.2).
var ErrCircularDependency = fmt.Errorf("circular dependency")

// color marks DFS visitation state for cycle detection.
type color int

const (
	white color = iota
	gray
	black
)

// BuildDependencyGraph extracts, for each calculation, the set of other
// calculation IDs (R-refs) its formula depends on. Non-R references (V/C/S/F/I)
// are leaf inputs resolved directly against the Registry and never participate
// in the calculation graph (§4.4.2).
func BuildDependencyGraph(formulasByID map[int]string) map[int][]int {
	edges := make(map[int][]int, len(formulasByID))
	for id, formula := range formulasByID {
		var deps []int
		for _, tok := range ExtractReferences(formula) {
			ref, ok := refParseRID(tok)
			if ok {
				if _, exists := formulasByID[ref]; exists {
					deps = append(deps, ref)
				}
			}
		}
		edges[id] = deps
	}
	return edges
}

// refParseRID returns the numeric ID if tok is a simple (non-sub-item) 'R'
// reference, i.e. a reference to another calculation's result.
func refParseRID(tok string) (int, bool) {
	if len(tok) < 2 || (tok[0] != 'R' && tok[0] != 'r') {
		return 0, false
	}
	n := 0
	for _, c := range tok[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// TopoSort orders calculation IDs so every node appears after its dependencies.
// Nodes that participate in a cycle are omitted from order and returned in
// cyclic, one entry per distinct cycle detected (§4.4.2: "exactly one
// diagnostic per cycle").
func TopoSort(edges map[int][]int) (order []int, cyclic []int, err error) {
	state := make(map[int]color, len(edges))
	reported := make(map[int]bool)
	var order2 []int

	ids := make([]int, 0, len(edges))
	for id := range edges {
		ids = append(ids, id)
	}
	sortInts(ids)

	var visit func(id int, stack []int) bool
	visit = func(id int, stack []int) bool {
		switch state[id] {
		case black:
			return true
		case gray:
			// Found a back edge: id is the cycle's closing node.
			if !reported[id] {
				reported[id] = true
				cyclic = append(cyclic, id)
			}
			return false
		}
		state[id] = gray
		ok := true
		deps := edges[id]
		sortInts(deps)
		for _, dep := range deps {
			if _, known := edges[dep]; !known {
				continue
			}
			if !visit(dep, append(stack, id)) {
				ok = false
			}
		}
		state[id] = black
		if ok {
			order2 = append(order2, id)
		}
		return ok
	}

	for _, id := range ids {
		if state[id] == white {
			visit(id, nil)
		}
	}

	if len(cyclic) > 0 {
		err = ErrCircularDependency
	}
	return order2, cyclic, err
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
