package formula

import (
	"errors"
	"strconv"

	"pfengine/internal/engine/diagnostics"
)

// Calculation is the minimal shape the formula engine needs from a calculation
// record: an ID (for reporting) and the raw formula text.
type Calculation struct {
	ID      int
	Formula string
}

// Engine parses and caches one AST per calculation, then evaluates one
// calculation at a time against a caller-supplied resolver, in whatever order
// the caller asks for (the orchestrator supplies dependency order). It never re-parses a
// formula it has already cached: Design Notes §9 calls out AST caching as the
// fix for the source program's "rebuild source string, `new Function`, every
// tick" pattern.
type Engine struct {
	asts map[int]Expr
}

// NewEngine builds an Engine with all calculations parsed and cached up front.
// Parse failures are recorded as diagnostics rather than returned as an error:
// per §7, evaluation always finishes, with bad formulas zeroed and explained.
func NewEngine(calcs []Calculation, diags *diagnostics.Collector) *Engine {
	e := &Engine{asts: make(map[int]Expr, len(calcs))}
	for _, c := range calcs {
		v := Validate(c.Formula)
		if v.Empty {
			diags.Errorf(diagnostics.CodeEmptyFormula, refName(c.ID), "formula is empty")
			continue
		}
		if v.SyntaxError != nil {
			diags.Errorf(diagnostics.CodeFormulaSyntax, refName(c.ID), v.SyntaxError.Error())
			continue
		}
		for _, fn := range v.UnknownFunctions {
			diags.Errorf(diagnostics.CodeUnknownFunction, refName(c.ID), "unknown function: "+fn)
		}
		if len(v.UnknownFunctions) > 0 {
			continue
		}
		expr, err := Parse(c.Formula)
		if err != nil {
			diags.Errorf(diagnostics.CodeFormulaSyntax, refName(c.ID), err.Error())
			continue
		}
		e.asts[c.ID] = expr
	}
	return e
}

// Evaluate runs the cached AST for calculation id against resolve, the merged
// Registry+running-context lookup the orchestrator supplies. A length-n zero
// array is returned for any calculation whose AST failed to cache (its
// diagnostic was already recorded by NewEngine), or whose evaluation fails at
// runtime (unresolved ref, unknown function, arity mismatch), in which case a
// diagnostic is added here.
func (e *Engine) Evaluate(id int, n int, resolve func(ref string) ([]float64, bool), diags *diagnostics.Collector) []float64 {
	expr, ok := e.asts[id]
	if !ok {
		return make([]float64, n)
	}
	v, err := Eval(expr, n, resolve)
	if err != nil {
		diags.Errorf(classifyEvalError(err), refName(id), err.Error())
		return make([]float64, n)
	}
	return v.AsArray(n)
}

// FormulasByID extracts a plain id->text map for graph construction, given the
// same calculation list passed to NewEngine.
func FormulasByID(calcs []Calculation) map[int]string {
	out := make(map[int]string, len(calcs))
	for _, c := range calcs {
		out[c.ID] = c.Formula
	}
	return out
}

func classifyEvalError(err error) diagnostics.Code {
	switch {
	case errors.Is(err, ErrUnresolvedRef):
		return diagnostics.CodeUnresolvedRef
	case errors.Is(err, ErrUnknownFunction):
		return diagnostics.CodeUnknownFunction
	case errors.Is(err, ErrArity):
		return diagnostics.CodeArityMismatch
	default:
		return diagnostics.CodeFormulaSyntax
	}
}

func refName(id int) string {
	return "R" + strconv.Itoa(id)
}
