package refs

import (
	"pfengine/internal/engine/model"
)

// LoweredInput is the length-N array produced by input lowering (§4.3) for one Input.
type LoweredInput struct {
	Array []float64
}

// Registry resolves Ref values against the lowered inputs of one evaluation pass.
// R and M references are not resolved here — they live directly in the evaluation
// context map once calculations/modules have run, and the formula evaluator reads
// them from there instead of through the Registry.
type Registry struct {
	n int

	groups map[int]model.Group
	// inputsByGroup preserves input declaration order per group: this is the "stable
	// ordinal within display order" the spec's Open Question adopts for V{g}.{k}.
	inputsByGroup map[int][]model.Input
	lowered       map[int][]float64 // keyed by input ID
}

// New creates an empty Registry for a timeline of length n.
func New(n int) *Registry {
	return &Registry{
		n:             n,
		groups:        make(map[int]model.Group),
		inputsByGroup: make(map[int][]model.Input),
		lowered:       make(map[int][]float64),
	}
}

// AddGroup registers a group definition.
func (r *Registry) AddGroup(g model.Group) {
	r.groups[g.ID] = g
}

// AddInput registers an input in its declared order (display order) and records its
// lowered array. Lowering happens before registration — the Registry never lowers.
func (r *Registry) AddInput(in model.Input, lowered []float64) {
	r.inputsByGroup[in.GroupID] = append(r.inputsByGroup[in.GroupID], in)
	r.lowered[in.ID] = lowered
}

// Resolve resolves a V/C/S/F/I reference to its length-N array. R and M refs are never
// resolved by Resolve (callers must check the evaluation context for those first).
func (r *Registry) Resolve(ref Ref) ([]float64, bool) {
	switch ref.Kind {
	case KindFlag, KindIndexation:
		// F and I are standalone inputs addressed directly by id, not by group.
		if arr, ok := r.lowered[ref.ID]; ok {
			return arr, true
		}
		return nil, false
	case KindValues, KindConstants, KindSeries:
		if ref.HasSub {
			return r.resolveSubItem(ref)
		}
		return r.resolveGroupSum(ref.ID)
	default:
		return nil, false
	}
}

// resolveSubItem resolves V{g}.{k}: the k-th input (1-indexed, stable display order)
// within group g, regardless of which option is currently selected.
func (r *Registry) resolveSubItem(ref Ref) ([]float64, bool) {
	inputs := r.inputsByGroup[ref.ID]
	idx := ref.SubID - 1
	if idx < 0 || idx >= len(inputs) {
		return nil, false
	}
	arr, ok := r.lowered[inputs[idx].ID]
	return arr, ok
}

// resolveGroupSum resolves the simple V{g}/C{g}/S{g} form: the element-wise sum of
// every input belonging to the currently selected option (§4.2), or of every input in
// the group when it declares no alternative options.
func (r *Registry) resolveGroupSum(groupID int) ([]float64, bool) {
	group, ok := r.groups[groupID]
	if !ok {
		return nil, false
	}
	inputs := r.inputsByGroup[groupID]

	selectedSubgroup := r.selectedSubgroupID(group)

	sum := make([]float64, r.n)
	found := false
	for _, in := range inputs {
		if selectedSubgroup != "" && in.SubgroupID != selectedSubgroup {
			continue
		}
		arr, ok := r.lowered[in.ID]
		if !ok {
			continue
		}
		found = true
		addInto(sum, arr)
	}
	return sum, found
}

// SubgroupSum resolves the total for one named subgroup of a group — used for
// "subgroup totals" per §4.3 ("Subgroup totals are sums restricted to subgroup
// membership").
func (r *Registry) SubgroupSum(groupID int, subgroupID string) ([]float64, bool) {
	inputs := r.inputsByGroup[groupID]
	sum := make([]float64, r.n)
	found := false
	for _, in := range inputs {
		if in.SubgroupID != subgroupID {
			continue
		}
		arr, ok := r.lowered[in.ID]
		if !ok {
			continue
		}
		found = true
		addInto(sum, arr)
	}
	return sum, found
}

// selectedSubgroupID returns the subgroup id currently selected for this group's root
// selection, or "" when the group declares no alternative subgroups (everything counts).
func (r *Registry) selectedSubgroupID(group model.Group) string {
	if len(group.Subgroups) == 0 {
		return ""
	}
	idx := 0
	if group.SelectedIndices != nil {
		if v, ok := group.SelectedIndices[""]; ok {
			idx = v
		}
	}
	if idx < 0 || idx >= len(group.Subgroups) {
		idx = 0
	}
	return group.Subgroups[idx].ID
}

func addInto(dst, src []float64) {
	for i := range dst {
		if i < len(src) {
			dst[i] += src[i]
		}
	}
}
