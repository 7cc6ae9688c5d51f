package formula

import (
	"fmt"
	"math"
)

// functionLibrary dispatches a call node to its implementation (§4.4.4). Every
// function accepts arrays and/or scalars; broadcasting is handled uniformly via
// Value.AsArray / binary / unary.
var functionLibrary = map[string]func(ctx *evalContext, args []Expr) (Value, error){
	"LAG":     fnLag,
	"LEAD":    fnLead,
	"MIN":     fnMin,
	"MAX":     fnMax,
	"SUM":     fnSum,
	"AVG":     fnAvg,
	"ABS":     fnAbs,
	"ROUND":   fnRound,
	"CUMSUM":  fnCumsum,
	"CUMPROD": fnCumprod,
	"IF":      fnIf,
	"GT":      fnComparator(func(x, y float64) bool { return x > y }),
	"GTE":     fnComparator(func(x, y float64) bool { return x >= y }),
	"LT":      fnComparator(func(x, y float64) bool { return x < y }),
	"LTE":     fnComparator(func(x, y float64) bool { return x <= y }),
	"EQ":      fnComparator(func(x, y float64) bool { return x == y }),
	"NEQ":     fnComparator(func(x, y float64) bool { return x != y }),
	"AND":     fnLogicalBinary(func(a, b bool) bool { return a && b }),
	"OR":      fnLogicalBinary(func(a, b bool) bool { return a || b }),
	"NOT":     fnNot,
}

func evalArgs(ctx *evalContext, args []Expr) ([]Value, error) {
	out := make([]Value, len(args))
	for i, a := range args {
		v, err := a.eval(ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func arityErr(name string, want string, got int) error {
	return fmt.Errorf("%w: %s expects %s args, got %d", ErrArity, name, want, got)
}

func fnLag(ctx *evalContext, args []Expr) (Value, error) {
	if len(args) != 2 {
		return Value{}, arityErr("LAG", "2", len(args))
	}
	vals, err := evalArgs(ctx, args)
	if err != nil {
		return Value{}, err
	}
	shift := int(math.Round(vals[1].Scalar))
	src := vals[0].AsArray(ctx.n)
	out := make([]float64, ctx.n)
	for i := range out {
		j := i - shift
		if j >= 0 && j < len(src) {
			out[i] = src[j]
		}
	}
	return array(out), nil
}

func fnLead(ctx *evalContext, args []Expr) (Value, error) {
	if len(args) != 2 {
		return Value{}, arityErr("LEAD", "2", len(args))
	}
	vals, err := evalArgs(ctx, args)
	if err != nil {
		return Value{}, err
	}
	shift := int(math.Round(vals[1].Scalar))
	src := vals[0].AsArray(ctx.n)
	out := make([]float64, ctx.n)
	for i := range out {
		j := i + shift
		if j >= 0 && j < len(src) {
			out[i] = src[j]
		}
	}
	return array(out), nil
}

func fnMin(ctx *evalContext, args []Expr) (Value, error) { return fnMinMax(ctx, args, math.Min) }
func fnMax(ctx *evalContext, args []Expr) (Value, error) { return fnMinMax(ctx, args, math.Max) }

func fnMinMax(ctx *evalContext, args []Expr, pick func(a, b float64) float64) (Value, error) {
	if len(args) == 0 {
		return Value{}, arityErr("MIN/MAX", "at least 1", 0)
	}
	vals, err := evalArgs(ctx, args)
	if err != nil {
		return Value{}, err
	}
	if len(vals) == 1 {
		// Single-array form: overall min/max across its elements.
		src := vals[0].AsArray(ctx.n)
		if len(src) == 0 {
			return scalar(0), nil
		}
		best := src[0]
		for _, v := range src[1:] {
			best = pick(best, v)
		}
		return scalar(best), nil
	}

	anyArray := false
	for _, v := range vals {
		if v.IsArray {
			anyArray = true
		}
	}
	if !anyArray {
		best := vals[0].Scalar
		for _, v := range vals[1:] {
			best = pick(best, v.Scalar)
		}
		return scalar(best), nil
	}

	out := make([]float64, ctx.n)
	first := vals[0].AsArray(ctx.n)
	copy(out, first)
	for _, v := range vals[1:] {
		arr := v.AsArray(ctx.n)
		for i := range out {
			out[i] = pick(out[i], arr[i])
		}
	}
	return array(out), nil
}

func fnSum(ctx *evalContext, args []Expr) (Value, error) {
	if len(args) != 1 {
		return Value{}, arityErr("SUM", "1", len(args))
	}
	v, err := args[0].eval(ctx)
	if err != nil {
		return Value{}, err
	}
	if !v.IsArray {
		return scalar(v.Scalar), nil
	}
	total := 0.0
	for _, x := range v.Array {
		total += x
	}
	return scalar(total), nil
}

func fnAvg(ctx *evalContext, args []Expr) (Value, error) {
	if len(args) != 1 {
		return Value{}, arityErr("AVG", "1", len(args))
	}
	v, err := args[0].eval(ctx)
	if err != nil {
		return Value{}, err
	}
	if !v.IsArray {
		return scalar(v.Scalar), nil
	}
	if len(v.Array) == 0 {
		return scalar(0), nil
	}
	total := 0.0
	for _, x := range v.Array {
		total += x
	}
	return scalar(total / float64(len(v.Array))), nil
}

func fnAbs(ctx *evalContext, args []Expr) (Value, error) {
	if len(args) != 1 {
		return Value{}, arityErr("ABS", "1", len(args))
	}
	v, err := args[0].eval(ctx)
	if err != nil {
		return Value{}, err
	}
	return unary(v, ctx.n, math.Abs), nil
}

func fnRound(ctx *evalContext, args []Expr) (Value, error) {
	if len(args) != 1 && len(args) != 2 {
		return Value{}, arityErr("ROUND", "1 or 2", len(args))
	}
	vals, err := evalArgs(ctx, args)
	if err != nil {
		return Value{}, err
	}
	decimals := 0.0
	if len(vals) == 2 {
		decimals = vals[1].Scalar
	}
	factor := math.Pow(10, decimals)
	return unary(vals[0], ctx.n, func(v float64) float64 {
		return roundHalfAwayFromZero(v*factor) / factor
	}), nil
}

// roundHalfAwayFromZero implements §4.4.4's ROUND semantics, distinct from Go's
// math.Round only in naming — both round .5 away from zero — spelled out here
// because the spec calls out the convention explicitly.
func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return math.Floor(v + 0.5)
	}
	return math.Ceil(v - 0.5)
}

func fnCumsum(ctx *evalContext, args []Expr) (Value, error) {
	if len(args) != 1 {
		return Value{}, arityErr("CUMSUM", "1", len(args))
	}
	v, err := args[0].eval(ctx)
	if err != nil {
		return Value{}, err
	}
	src := v.AsArray(ctx.n)
	out := make([]float64, len(src))
	running := 0.0
	for i, x := range src {
		running += x
		out[i] = running
	}
	return array(out), nil
}

func fnCumprod(ctx *evalContext, args []Expr) (Value, error) {
	if len(args) != 1 {
		return Value{}, arityErr("CUMPROD", "1", len(args))
	}
	v, err := args[0].eval(ctx)
	if err != nil {
		return Value{}, err
	}
	src := v.AsArray(ctx.n)
	out := make([]float64, len(src))
	running := 1.0
	for i, x := range src {
		running *= x
		out[i] = running
	}
	return array(out), nil
}

func fnIf(ctx *evalContext, args []Expr) (Value, error) {
	if len(args) != 3 {
		return Value{}, arityErr("IF", "3", len(args))
	}
	vals, err := evalArgs(ctx, args)
	if err != nil {
		return Value{}, err
	}
	cond, t, e := vals[0], vals[1], vals[2]
	if !cond.IsArray && !t.IsArray && !e.IsArray {
		if cond.Scalar != 0 {
			return scalar(t.Scalar), nil
		}
		return scalar(e.Scalar), nil
	}
	condArr, tArr, eArr := cond.AsArray(ctx.n), t.AsArray(ctx.n), e.AsArray(ctx.n)
	out := make([]float64, ctx.n)
	for i := range out {
		if condArr[i] != 0 {
			out[i] = tArr[i]
		} else {
			out[i] = eArr[i]
		}
	}
	return array(out), nil
}

func fnComparator(cmp func(x, y float64) bool) func(ctx *evalContext, args []Expr) (Value, error) {
	return func(ctx *evalContext, args []Expr) (Value, error) {
		if len(args) != 2 {
			return Value{}, arityErr("comparator", "2", len(args))
		}
		vals, err := evalArgs(ctx, args)
		if err != nil {
			return Value{}, err
		}
		return binary(vals[0], vals[1], ctx.n, func(x, y float64) float64 {
			if cmp(x, y) {
				return 1
			}
			return 0
		}), nil
	}
}

func fnLogicalBinary(op func(a, b bool) bool) func(ctx *evalContext, args []Expr) (Value, error) {
	return func(ctx *evalContext, args []Expr) (Value, error) {
		if len(args) != 2 {
			return Value{}, arityErr("AND/OR", "2", len(args))
		}
		vals, err := evalArgs(ctx, args)
		if err != nil {
			return Value{}, err
		}
		return binary(vals[0], vals[1], ctx.n, func(x, y float64) float64 {
			if op(truthy(x) != 0, truthy(y) != 0) {
				return 1
			}
			return 0
		}), nil
	}
}

func fnNot(ctx *evalContext, args []Expr) (Value, error) {
	if len(args) != 1 {
		return Value{}, arityErr("NOT", "1", len(args))
	}
	v, err := args[0].eval(ctx)
	if err != nil {
		return Value{}, err
	}
	return unary(v, ctx.n, func(x float64) float64 {
		if x == 0 {
			return 1
		}
		return 0
	}), nil
}
