// Package watchlist tracks a small set of symbols and decorates their price
// history with basic technical indicators for the dashboard.
package watchlist

import (
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

const (
	smaLength = 20
	rsiLength = 14
)

// SMA returns the latest simple moving average over length closes,
// or nil if there is not enough data.
func SMA(closes []float64, length int) *float64 {
	if len(closes) < length {
		return nil
	}
	sma := talib.Sma(closes, length)
	return lastValid(sma)
}

// RSI returns the latest relative strength index, or nil if there is not
// enough data. RSI needs length+1 closes to produce a value.
func RSI(closes []float64, length int) *float64 {
	if len(closes) < length+1 {
		return nil
	}
	rsi := talib.Rsi(closes, length)
	return lastValid(rsi)
}

// Volatility returns the sample standard deviation of daily simple returns,
// or nil with fewer than three closes.
func Volatility(closes []float64) *float64 {
	if len(closes) < 3 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	if len(returns) < 2 {
		return nil
	}
	v := stat.StdDev(returns, nil)
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func lastValid(values []float64) *float64 {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) && values[i] != 0 {
			v := values[i]
			return &v
		}
	}
	return nil
}
