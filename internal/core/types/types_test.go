package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_String(t *testing.T) {
	assert.Equal(t, "2.5000", NewQuantityFromFloat64(2.5).String())
	assert.Equal(t, "0.0000", Quantity(0).String())
	assert.Equal(t, "-1.2500", NewQuantityFromFloat64(-1.25).String())
	assert.Equal(t, "0.0001", Quantity(1).String())
}

func TestQuantity_Mul(t *testing.T) {
	// 0.5 kg per unit, 3 preparations
	perUnit := NewQuantityFromFloat64(0.5)
	preparations := NewQuantityFromFloat64(3)
	assert.Equal(t, NewQuantityFromFloat64(1.5), perUnit.Mul(preparations))

	// exact at the scale boundary: 0.0001 * 10000 = 1
	assert.Equal(t, NewQuantityFromFloat64(1), Quantity(1).Mul(NewQuantityFromFloat64(10000)))

	assert.Equal(t, Quantity(0), NewQuantityFromFloat64(5).Mul(0))
}

func TestQuantity_Min(t *testing.T) {
	a := NewQuantityFromFloat64(2)
	b := NewQuantityFromFloat64(3)
	assert.Equal(t, a, Min(a, b))
	assert.Equal(t, a, Min(b, a))
}

func TestQuantity_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewQuantityFromFloat64(2.5))
	require.NoError(t, err)
	assert.Equal(t, "2.5000", string(data))
}

func TestQuantity_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want Quantity
	}{
		{`2.5`, NewQuantityFromFloat64(2.5)},
		{`"2.5"`, NewQuantityFromFloat64(2.5)},
		{`10`, NewQuantityFromFloat64(10)},
		{`-0.25`, NewQuantityFromFloat64(-0.25)},
		{`0.00015`, Quantity(1)}, // extra digits truncated
		{`null`, 0},
	}

	for _, tc := range cases {
		var q Quantity
		require.NoError(t, json.Unmarshal([]byte(tc.in), &q), tc.in)
		assert.Equal(t, tc.want, q, tc.in)
	}
}

func TestQuantity_UnmarshalJSON_Invalid(t *testing.T) {
	var q Quantity
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &q))
	assert.Error(t, json.Unmarshal([]byte(`""`), &q))
}

func TestMoney_Precision(t *testing.T) {
	a := MustMoney("0.1")
	b := MustMoney("0.2")
	assert.True(t, a.Add(b).Equal(MustMoney("0.3")))
}
