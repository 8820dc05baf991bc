package watchlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}

	got := SMA(closes, 5)
	require.NotNil(t, got)
	assert.InDelta(t, 3.0, *got, 1e-9)

	got = SMA(closes, 3)
	require.NotNil(t, got)
	assert.InDelta(t, 4.0, *got, 1e-9)
}

func TestSMAInsufficientData(t *testing.T) {
	assert.Nil(t, SMA([]float64{1, 2, 3}, 5))
	assert.Nil(t, SMA(nil, 5))
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(100 + i)
	}

	got := RSI(closes, 14)
	require.NotNil(t, got)
	// A monotonically rising series pegs RSI at 100
	assert.InDelta(t, 100.0, *got, 1e-6)
}

func TestRSIInsufficientData(t *testing.T) {
	closes := make([]float64, 14)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	assert.Nil(t, RSI(closes, 14))
}

func TestVolatility(t *testing.T) {
	// Returns: +10%, -10%, +10%
	closes := []float64{100, 110, 99, 108.9}

	got := Volatility(closes)
	require.NotNil(t, got)
	assert.Greater(t, *got, 0.0)
	assert.Less(t, *got, 1.0)
}

func TestVolatilityConstantSeries(t *testing.T) {
	got := Volatility([]float64{100, 100, 100, 100})
	require.NotNil(t, got)
	assert.Equal(t, 0.0, *got)
}

func TestVolatilityInsufficientData(t *testing.T) {
	assert.Nil(t, Volatility([]float64{100, 110}))
	assert.Nil(t, Volatility(nil))

	// Zero closes produce too few usable returns
	assert.Nil(t, Volatility([]float64{0, 0, 100}))
}
