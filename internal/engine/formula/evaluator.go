package formula

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors the calculation-level wrapper (engine.go) classifies into
// diagnostic codes per §4.4.5 / §7's error taxonomy.
var (
	ErrUnresolvedRef   = errors.New("unresolved reference")
	ErrUnknownFunction = errors.New("unknown function")
	ErrArity           = errors.New("arity mismatch")
)

// evalContext carries the evaluation array length and the single name resolver the
// evaluator consults for every reference token. The resolver is expected to merge
// V/C/S/F/I lookups (via the Registry) with R/M lookups (via the running context
// map) — the evaluator itself has no opinion on where a ref's array comes from.
type evalContext struct {
	n       int
	resolve func(ref string) ([]float64, bool)
}

// Eval evaluates a parsed AST against ctx. Any error (unresolved reference, unknown
// function, arity mismatch) is returned to the caller, which turns it into a
// zero-array output plus a diagnostic (§4.4.5) — Eval itself never produces partial
// results. Division by zero, and a '^' whose result is NaN or ±Inf, yield 0.
func Eval(expr Expr, n int, resolve func(ref string) ([]float64, bool)) (Value, error) {
	return expr.eval(&evalContext{n: n, resolve: resolve})
}

func (e *numberExpr) eval(ctx *evalContext) (Value, error) {
	return scalar(e.value), nil
}

func (e *refExpr) eval(ctx *evalContext) (Value, error) {
	arr, ok := ctx.resolve(e.raw)
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnresolvedRef, e.raw)
	}
	return array(arr), nil
}

func (e *unaryExpr) eval(ctx *evalContext) (Value, error) {
	x, err := e.x.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	switch e.op {
	case '-':
		return unary(x, ctx.n, func(v float64) float64 { return -v }), nil
	default:
		return Value{}, fmt.Errorf("unknown unary operator %q", e.op)
	}
}

func (e *binaryExpr) eval(ctx *evalContext) (Value, error) {
	l, err := e.l.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	r, err := e.r.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	switch e.op {
	case '+':
		return binary(l, r, ctx.n, func(x, y float64) float64 { return x + y }), nil
	case '-':
		return binary(l, r, ctx.n, func(x, y float64) float64 { return x - y }), nil
	case '*':
		return binary(l, r, ctx.n, func(x, y float64) float64 { return x * y }), nil
	case '/':
		return binary(l, r, ctx.n, safeDiv), nil
	case '^':
		return binary(l, r, ctx.n, func(x, y float64) float64 {
			p := math.Pow(x, y)
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return 0
			}
			return p
		}), nil
	default:
		return Value{}, fmt.Errorf("unknown binary operator %q", e.op)
	}
}

func (e *callExpr) eval(ctx *evalContext) (Value, error) {
	fn, ok := functionLibrary[e.name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownFunction, e.name)
	}
	return fn(ctx, e.args)
}
