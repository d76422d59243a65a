package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataPoint_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(DataPoint{Time: 1623758400000, Value: Float64(71.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `[1623758400000, 71.5]`, string(out))
}

func TestDataPoint_MarshalJSONNilValue(t *testing.T) {
	out, err := json.Marshal(DataPoint{Time: 1623758400000})
	require.NoError(t, err)
	assert.JSONEq(t, `[1623758400000, null]`, string(out))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 71.46, *Round(Float64(71.456), 2))
	assert.Equal(t, 71.0, *Round(Float64(71.456), 0))
	assert.Equal(t, -2.5, *Round(Float64(-2.45), 1), "half rounds away from zero")
}

func TestRound_Passthrough(t *testing.T) {
	assert.Nil(t, Round(nil, 2))

	v := Float64(71.456789)
	assert.Same(t, v, Round(v, -1), "negative places must not touch the value")
}

func TestNegate(t *testing.T) {
	values := []*float64{Float64(1.5), nil, Float64(-2)}
	Negate(values)
	assert.Equal(t, -1.5, *values[0])
	assert.Nil(t, values[1])
	assert.Equal(t, 2.0, *values[2])
}
