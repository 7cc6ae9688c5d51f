package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolverFor(data map[string][]float64) func(string) ([]float64, bool) {
	return func(ref string) ([]float64, bool) {
		v, ok := data[ref]
		return v, ok
	}
}

func TestEval_ArithmeticPrecedenceAndPower(t *testing.T) {
	expr, err := Parse("2 + 3 * 2 ^ 2")
	require.NoError(t, err)
	v, err := Eval(expr, 1, resolverFor(nil))
	require.NoError(t, err)
	assert.Equal(t, 14.0, v.Scalar)
}

func TestEval_PowIsRightAssociative(t *testing.T) {
	expr, err := Parse("2 ^ 3 ^ 2")
	require.NoError(t, err)
	v, err := Eval(expr, 1, resolverFor(nil))
	require.NoError(t, err)
	assert.Equal(t, 512.0, v.Scalar) // 2^(3^2), not (2^3)^2
}

func TestEval_DivisionByZeroIsZeroNotNaN(t *testing.T) {
	expr, err := Parse("1 / 0")
	require.NoError(t, err)
	v, err := Eval(expr, 1, resolverFor(nil))
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Scalar)
}

func TestEval_ReferenceBroadcastsWithScalar(t *testing.T) {
	expr, err := Parse("V1 + 10")
	require.NoError(t, err)
	data := map[string][]float64{"V1": {1, 2, 3}}
	v, err := Eval(expr, 3, resolverFor(data))
	require.NoError(t, err)
	require.True(t, v.IsArray)
	assert.Equal(t, []float64{11, 12, 13}, v.Array)
}

func TestEval_UnresolvedReferenceErrors(t *testing.T) {
	expr, err := Parse("V99")
	require.NoError(t, err)
	_, err = Eval(expr, 3, resolverFor(nil))
	assert.ErrorIs(t, err, ErrUnresolvedRef)
}

func TestEval_UnknownFunctionErrors(t *testing.T) {
	expr, err := Parse("NOPE(1)")
	require.NoError(t, err)
	_, err = Eval(expr, 1, resolverFor(nil))
	assert.ErrorIs(t, err, ErrUnknownFunction)
}

func TestEval_UnaryMinus(t *testing.T) {
	expr, err := Parse("-5 + 2")
	require.NoError(t, err)
	v, err := Eval(expr, 1, resolverFor(nil))
	require.NoError(t, err)
	assert.Equal(t, -3.0, v.Scalar)
}
