package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_SimpleForms(t *testing.T) {
	cases := map[string]Ref{
		"V1":  {Kind: KindValues, ID: 1},
		"c23": {Kind: KindConstants, ID: 23},
		"S4":  {Kind: KindSeries, ID: 4},
		"F1":  {Kind: KindFlag, ID: 1},
		"I2":  {Kind: KindIndexation, ID: 2},
		"R57": {Kind: KindResult, ID: 57},
	}
	for tok, want := range cases {
		got, ok := Parse(tok)
		assert.True(t, ok, tok)
		assert.Equal(t, want, got, tok)
	}
}

func TestParse_SubForms(t *testing.T) {
	got, ok := Parse("v1.3")
	assert.True(t, ok)
	assert.Equal(t, Ref{Kind: KindValues, ID: 1, SubID: 3, HasSub: true}, got)

	got, ok = Parse("M1.1")
	assert.True(t, ok)
	assert.Equal(t, Ref{Kind: KindModule, ID: 1, SubID: 1, HasSub: true}, got)
}

func TestParse_Invalid(t *testing.T) {
	for _, tok := range []string{"", "X1", "V", "VA", "V1.", "V1.a"} {
		_, ok := Parse(tok)
		assert.False(t, ok, tok)
	}
}

func TestString_Roundtrip(t *testing.T) {
	r, ok := Parse("v1.3")
	assert.True(t, ok)
	assert.Equal(t, "V1.3", r.String())

	r, ok = Parse("R57")
	assert.True(t, ok)
	assert.Equal(t, "R57", r.String())
}
