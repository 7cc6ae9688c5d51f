package formula

// Value is either a scalar or a length-N array (§4.4.3): the evaluator's one sum
// type, matching Design Notes §9's "Scalar(f64) | Series([f64;N])".
type Value struct {
	IsArray bool
	Scalar  float64
	Array   []float64
}

func scalar(v float64) Value { return Value{Scalar: v} }

func array(v []float64) Value { return Value{IsArray: true, Array: v} }

// AsArray materializes v as a length-n array, broadcasting a scalar.
func (v Value) AsArray(n int) []float64 {
	if v.IsArray {
		return v.Array
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = v.Scalar
	}
	return out
}

// binary applies op element-wise when either operand is an array, scalar-to-scalar
// otherwise. Broadcasting law: scalar op is commutative in shape, not value.
func binary(a, b Value, n int, op func(x, y float64) float64) Value {
	if !a.IsArray && !b.IsArray {
		return scalar(op(a.Scalar, b.Scalar))
	}
	aa, bb := a.AsArray(n), b.AsArray(n)
	out := make([]float64, n)
	for i := range out {
		out[i] = op(aa[i], bb[i])
	}
	return array(out)
}

// unary applies op element-wise, preserving shape.
func unary(a Value, n int, op func(x float64) float64) Value {
	if !a.IsArray {
		return scalar(op(a.Scalar))
	}
	out := make([]float64, len(a.AsArray(n)))
	src := a.AsArray(n)
	for i := range out {
		out[i] = op(src[i])
	}
	return array(out)
}

// safeDiv returns 0 for division by zero rather than NaN/Inf — documented behaviour
// per §4.4.3/§9, kept as the single choke point so every `/` use honors it.
func safeDiv(x, y float64) float64 {
	if y == 0 {
		return 0
	}
	return x / y
}

func truthy(x float64) float64 {
	if x != 0 {
		return 1
	}
	return 0
}
