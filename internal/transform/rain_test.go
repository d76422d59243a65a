package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-charts-service/internal/domain"
)

func TestAccumulateRain(t *testing.T) {
	in := []*float64{domain.Float64(0.1), domain.Float64(0.0), domain.Float64(0.2)}
	out := AccumulateRain(in, 2)
	require.Len(t, out, 3)
	assert.Equal(t, 0.1, *out[0])
	assert.Equal(t, 0.1, *out[1])
	assert.Equal(t, 0.3, *out[2])
}

func TestAccumulateRain_NilsHoldTotal(t *testing.T) {
	in := []*float64{domain.Float64(0.05), nil, nil, domain.Float64(0.05)}
	out := AccumulateRain(in, 2)
	require.Len(t, out, 4)
	for _, v := range out {
		require.NotNil(t, v, "every output point must carry a value")
	}
	assert.Equal(t, 0.05, *out[0])
	assert.Equal(t, 0.05, *out[1])
	assert.Equal(t, 0.05, *out[2])
	assert.Equal(t, 0.1, *out[3])
}

func TestAccumulateRain_NonDecreasing(t *testing.T) {
	in := []*float64{
		domain.Float64(0.01), nil, domain.Float64(0.03),
		domain.Float64(0), domain.Float64(0.12), nil,
	}
	out := AccumulateRain(in, 2)
	prev := 0.0
	for i, v := range out {
		require.NotNil(t, v)
		assert.GreaterOrEqual(t, *v, prev, "index %d", i)
		prev = *v
	}
}

func TestAccumulateRain_AllNil(t *testing.T) {
	out := AccumulateRain([]*float64{nil, nil, nil}, 2)
	require.Len(t, out, 3)
	for _, v := range out {
		require.NotNil(t, v)
		assert.Zero(t, *v)
	}
}

func TestAccumulateRain_Empty(t *testing.T) {
	assert.Empty(t, AccumulateRain(nil, 2))
}
