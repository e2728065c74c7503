package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayReadinessFixedPoints(t *testing.T) {
	tests := []struct {
		raw     int
		display int
	}{
		{0, 0},
		{20, 25},
		{40, 50},
		{60, 75},
		{80, 100},
		{100, 125},
	}
	for _, tt := range tests {
		got := DisplayReadiness(tt.raw)
		require.NotNil(t, got)
		assert.Equal(t, tt.display, *got, "raw %d", tt.raw)
	}
}

func TestDisplayReadinessUnknownIsNil(t *testing.T) {
	assert.Nil(t, DisplayReadiness(-1))
	assert.Nil(t, DisplayReadiness(-50))
}

func TestDisplayReadinessMonotonic(t *testing.T) {
	prev := -1
	for raw := 0; raw <= 100; raw++ {
		got := DisplayReadiness(raw)
		require.NotNil(t, got)
		assert.GreaterOrEqual(t, *got, prev)
		prev = *got
	}
}
