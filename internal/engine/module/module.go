// Package module defines the module dispatcher (§4.5) and the typed input
// schema every module calculator declares, plus the shared input-resolver
// helpers (§4.6) the calculators use to pull scalars and arrays out of the
// running evaluation context.
package module

import (
	"strconv"
	"strings"
)

// InputKind enumerates the input schema kinds a module template declares.
type InputKind string

const (
	KindReference    InputKind = "reference"
	KindNumber       InputKind = "number"
	KindNumberOrRef  InputKind = "number_or_ref"
	KindPercentage   InputKind = "percentage"
	KindBoolean      InputKind = "boolean"
	KindArray        InputKind = "array"
	KindSelect       InputKind = "select"
	KindText         InputKind = "text"
)

// InputSpec describes one declared input of a module template.
type InputSpec struct {
	Name     string
	Kind     InputKind
	Required bool
	Default  any
}

// OutputSpec describes one declared output of a module template; Key is the
// stable name used in `convertedOutputs` and in diagnostics.
type OutputSpec struct {
	Key   string
	Label string
	Type  string
}

// Template is a module type's full declared contract.
type Template struct {
	ModuleType       string
	Inputs           []InputSpec
	Outputs          []OutputSpec
	FullyConverted   bool
	ConvertedOutputs map[string]string // outputKey -> calculation ref
}

// Calculator is what a module type implements: given resolved inputs, N, and
// the running context (for `reference` inputs to pull their arrays from),
// produce a map of output key to a length-N array.
type Calculator interface {
	Calculate(inputs map[string]any, n int, ctx Context) (map[string][]float64, error)
}

// Context is the read-only view into the orchestrator's running evaluation
// context that a module calculator needs: resolving arbitrary refs (V/C/S/F/I/R)
// and other modules' outputs (M{id}.{k}).
type Context interface {
	Resolve(ref string) ([]float64, bool)
}

// Instance is one configured invocation of a template.
type Instance struct {
	ID         int
	ModuleType string
	Inputs     map[string]any
	Enabled    bool
}

// Dispatcher holds the registered templates and calculators, and runs the
// four dispatch steps of §4.5 for one module instance.
type Dispatcher struct {
	templates   map[string]Template
	calculators map[string]Calculator
}

// NewDispatcher builds an empty Dispatcher; Register each module type before use.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		templates:   make(map[string]Template),
		calculators: make(map[string]Calculator),
	}
}

// Register associates a module type's template and calculator.
func (d *Dispatcher) Register(tmpl Template, calc Calculator) {
	d.templates[tmpl.ModuleType] = tmpl
	d.calculators[tmpl.ModuleType] = calc
}

// Template returns the registered template for a module type, if any.
func (d *Dispatcher) Template(moduleType string) (Template, bool) {
	t, ok := d.templates[moduleType]
	return t, ok
}

// ErrUnknownModuleType reports an instance whose ModuleType has no registration.
type ErrUnknownModuleType struct{ ModuleType string }

func (e ErrUnknownModuleType) Error() string {
	return "unknown module type: " + e.ModuleType
}

// ErrUnknownModuleInput reports a required template input key that the instance does not supply.
type ErrUnknownModuleInput struct {
	ModuleType string
	Key        string
}

func (e ErrUnknownModuleInput) Error() string {
	return "module " + e.ModuleType + ": unknown input key " + e.Key
}

// Run executes the four dispatch steps for inst (§4.5):
//  1. resolve each declared input per its kind,
//  2. invoke the calculator,
//  3. the caller writes each output under M{instanceId}.{k} (the dispatcher
//     returns outputs keyed by the template's declared output order so the
//     orchestrator can do that numbering without re-consulting the template),
//  4. fullyConverted modules produce no arrays at all — Run returns nil, nil
//     for those, since their outputs are expected to come from ordinary
//     calculations referencing their convertedOutputs.
func (d *Dispatcher) Run(inst Instance, n int, ctx Context) ([][]float64, error) {
	tmpl, ok := d.templates[inst.ModuleType]
	if !ok {
		return nil, ErrUnknownModuleType{ModuleType: inst.ModuleType}
	}
	if tmpl.FullyConverted {
		return nil, nil
	}
	calc, ok := d.calculators[inst.ModuleType]
	if !ok {
		return nil, ErrUnknownModuleType{ModuleType: inst.ModuleType}
	}

	resolved := make(map[string]any, len(tmpl.Inputs))
	for _, spec := range tmpl.Inputs {
		raw, present := inst.Inputs[spec.Name]
		if !present {
			if spec.Required {
				return nil, ErrUnknownModuleInput{ModuleType: inst.ModuleType, Key: spec.Name}
			}
			resolved[spec.Name] = spec.Default
			continue
		}
		switch spec.Kind {
		case KindReference:
			ref, _ := raw.(string)
			arr, ok := ctx.Resolve(ref)
			if !ok {
				arr = make([]float64, n)
			}
			resolved[spec.Name] = arr
		case KindNumberOrRef:
			def, _ := spec.Default.(float64)
			resolved[spec.Name] = ResolveModuleInput(raw, ctx, def)
		case KindPercentage:
			resolved[spec.Name] = toFloat(raw)
		case KindArray:
			resolved[spec.Name] = raw
		default:
			resolved[spec.Name] = raw
		}
	}

	outputs, err := calc.Calculate(resolved, n, ctx)
	if err != nil {
		return nil, err
	}

	ordered := make([][]float64, len(tmpl.Outputs))
	for i, out := range tmpl.Outputs {
		if arr, ok := outputs[out.Key]; ok {
			ordered[i] = arr
		} else {
			ordered[i] = make([]float64, n)
		}
	}
	return ordered, nil
}

// ResolveModuleInput implements §4.6's scalar resolver: a number passes
// through; a string naming a context ref returns that array's first non-zero
// element (or element 0 if every element is zero); a numeric string is
// parsed; anything else falls back to def.
func ResolveModuleInput(value any, ctx Context, def float64) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if arr, ok := ctx.Resolve(v); ok {
			return firstNonZeroOrZeroth(arr)
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		return def
	default:
		return def
	}
}

// ResolveModuleInputArray implements §4.6's array resolver: a referenced array
// passes through as-is; a number broadcasts to length n; anything else
// returns a length-n array filled with def.
func ResolveModuleInputArray(value any, ctx Context, n int, def float64) []float64 {
	switch v := value.(type) {
	case []float64:
		return v
	case float64:
		return fill(n, v)
	case int:
		return fill(n, float64(v))
	case string:
		if arr, ok := ctx.Resolve(v); ok {
			return arr
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return fill(n, f)
		}
		return fill(n, def)
	default:
		return fill(n, def)
	}
}

func firstNonZeroOrZeroth(arr []float64) float64 {
	for _, x := range arr {
		if x != 0 {
			return x
		}
	}
	if len(arr) > 0 {
		return arr[0]
	}
	return 0
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	default:
		return 0
	}
}
