// Package orchestrator composes the Timeline, Reference Registry, Input
// Lowering, Formula Engine and Module Dispatcher into the single evaluation
// entry point described in §2.6 / §6 of the engine's data model: lower
// inputs, seed the context, run modules, evaluate calculations in topological
// order, and return the final context plus any diagnostics accumulated along
// the way.
package orchestrator

import (
	"strconv"
	"strings"

	"pfengine/internal/engine/diagnostics"
	"pfengine/internal/engine/formula"
	"pfengine/internal/engine/lowering"
	"pfengine/internal/engine/model"
	"pfengine/internal/engine/module"
	"pfengine/internal/engine/refs"
	"pfengine/internal/engine/timeline"
)

// Output is the engine's external interface (§6): `evaluate(...) -> {
// context: map<ref, double[]>, diagnostics: Diagnostic[] }`.
type Output struct {
	Context     map[string][]float64
	Diagnostics []diagnostics.Diagnostic
}

// Evaluate runs one full pass. A fatal config error (§7: inverted timeline) is
// the sole case where Context is nil; every other error degrades the affected
// node to a zero array plus a diagnostic and evaluation still finishes.
func Evaluate(
	cfg model.Config,
	groups []model.Group,
	inputs []model.Input,
	keyPeriods []model.KeyPeriod,
	calcs []model.Calculation,
	modules []model.ModuleInstance,
	dispatcher *module.Dispatcher,
) Output {
	collector := &diagnostics.Collector{}

	tl, err := timeline.New(cfg)
	if err != nil {
		collector.Errorf(diagnostics.CodeConfigInvalid, "", err.Error())
		return Output{Context: nil, Diagnostics: collector.Items()}
	}
	n := tl.N()

	registry := buildRegistry(cfg, tl, groups, inputs)

	moduleOutputs := runModules(modules, dispatcher, n, registry, collector)

	calcByID := make(map[int]model.Calculation, len(calcs))
	formulaCalcs := make([]formula.Calculation, len(calcs))
	for i, c := range calcs {
		calcByID[c.ID] = c
		formulaCalcs[i] = formula.Calculation{ID: c.ID, Formula: c.Formula}
	}

	engine := formula.NewEngine(formulaCalcs, collector)
	edges := formula.BuildDependencyGraph(formula.FormulasByID(formulaCalcs))
	order, cyclic, topoErr := formula.TopoSort(edges)
	for _, id := range cyclic {
		collector.Errorf(diagnostics.CodeCircularDependency, "R"+strconv.Itoa(id),
			"calculation participates in a circular R-ref dependency")
	}
	_ = topoErr // cyclic entries already reported individually above

	results := make(map[int][]float64, len(calcs))

	var resolve func(ref string) ([]float64, bool)
	resolve = func(token string) ([]float64, bool) {
		upper := strings.ToUpper(token)
		parsed, ok := refs.Parse(upper)
		if !ok {
			return nil, false
		}
		switch parsed.Kind {
		case refs.KindResult:
			arr, ok := results[parsed.ID]
			return arr, ok
		case refs.KindModule:
			arr, ok := moduleOutputs[upper]
			return arr, ok
		default:
			return registry.Resolve(parsed)
		}
	}

	for _, id := range order {
		out := engine.Evaluate(id, n, resolve, collector)
		results[id] = out
	}
	// Every declared calculation not in the topological order (cycle member, or
	// excluded because a dependency cycled) still must appear, zeroed (§7).
	for _, c := range calcs {
		if _, ok := results[c.ID]; !ok {
			results[c.ID] = make([]float64, n)
		}
	}

	context := make(map[string][]float64, len(results)+len(moduleOutputs))
	for id, arr := range results {
		c := calcByID[id]
		context["R"+strconv.Itoa(id)] = arr
		if ref := c.ResolvedRef(); ref != "" && ref != "R"+strconv.Itoa(id) {
			context[ref] = arr
		}
	}
	for k, v := range moduleOutputs {
		context[k] = v
	}

	return Output{Context: context, Diagnostics: collector.Items()}
}

// buildRegistry lowers every group's inputs and seeds a refs.Registry so
// formulas can resolve V/C/S/F/I tokens (§4.2/§4.3).
func buildRegistry(cfg model.Config, tl *timeline.Timeline, groups []model.Group, inputs []model.Input) *refs.Registry {
	n := tl.N()
	registry := refs.New(n)
	for _, g := range groups {
		registry.AddGroup(g)
	}

	groupByID := make(map[int]model.Group, len(groups))
	for _, g := range groups {
		groupByID[g.ID] = g
	}

	for _, in := range inputs {
		g := groupByID[in.GroupID]
		res := lowering.Lower(cfg, tl, g, in)
		registry.AddInput(in, res.Array)
	}
	return registry
}

// runModules dispatches every enabled module instance and collects its
// outputs under M{instanceId}.{k} tokens (§4.5 step 3), skipping
// fullyConverted instances (whose outputs come from ordinary calculations)
// and recording a diagnostic for any instance whose module type or input keys
// the dispatcher doesn't recognise.
func runModules(instances []model.ModuleInstance, dispatcher *module.Dispatcher, n int, registry *refs.Registry, collector *diagnostics.Collector) map[string][]float64 {
	outputs := make(map[string][]float64)
	if dispatcher == nil {
		return outputs
	}

	ctx := registryContext{registry: registry}

	for _, inst := range instances {
		if !inst.Enabled {
			continue
		}
		tmpl, ok := dispatcher.Template(inst.ModuleType)
		if !ok {
			collector.Errorf(diagnostics.CodeUnknownModuleType, "", "unknown module type: "+inst.ModuleType)
			continue
		}
		arrays, err := dispatcher.Run(module.Instance{
			ID:         inst.ID,
			ModuleType: inst.ModuleType,
			Inputs:     inst.Inputs,
			Enabled:    inst.Enabled,
		}, n, ctx)
		if err != nil {
			switch err.(type) {
			case module.ErrUnknownModuleInput:
				collector.Errorf(diagnostics.CodeUnknownModuleInput, "", err.Error())
			default:
				collector.Errorf(diagnostics.CodeUnknownModuleType, "", err.Error())
			}
			continue
		}
		for k, arr := range arrays {
			token := "M" + strconv.Itoa(inst.ID) + "." + strconv.Itoa(k+1)
			outputs[token] = arr
		}
		_ = tmpl
	}
	return outputs
}

// registryContext adapts refs.Registry to module.Context, so module inputs of
// kind `reference` can resolve against the same V/C/S/F/I/R/M token space
// formulas use. Result/module refs aren't resolvable here since modules run
// before calculations in this orchestrator's ordering; a module input
// referencing R{id} or M{id}.{k} degrades to "not found" per §7.
type registryContext struct {
	registry *refs.Registry
}

func (c registryContext) Resolve(token string) ([]float64, bool) {
	ref, ok := refs.Parse(strings.ToUpper(token))
	if !ok {
		return nil, false
	}
	return c.registry.Resolve(ref)
}
