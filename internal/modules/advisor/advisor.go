package advisor

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
)

// PriceSource resolves a symbol to its current price.
type PriceSource interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// Advisor computes trade recommendations from a sentiment score and the
// user's available cash, and records each one in the trade log.
type Advisor struct {
	prices   PriceSource
	tradeLog *TradeLogRepository
	log      zerolog.Logger
}

// New creates an advisor.
func New(prices PriceSource, tradeLog *TradeLogRepository, log zerolog.Logger) *Advisor {
	return &Advisor{
		prices:   prices,
		tradeLog: tradeLog,
		log:      log.With().Str("module", "advisor").Logger(),
	}
}

// Recommend computes a buy/sell/hold decision for symbol.
//
// Available cash is max(income+savings, 0) and the risk mode fixes the
// fraction of it one trade may commit. Sentiment inside the neutral band
// yields Hold with zero units; Hold never performs a price lookup. Every
// decision, Hold included, is appended to the trade log before returning.
func (a *Advisor) Recommend(ctx context.Context, symbol string, sentiment float64, mode RiskMode, income, savings float64) (Recommendation, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Recommendation{}, fmt.Errorf("%w: symbol is required", ErrValidation)
	}
	if !mode.Valid() {
		return Recommendation{}, fmt.Errorf("%w: unknown risk mode %q", ErrValidation, string(mode))
	}

	cash := math.Max(income+savings, 0)
	allocPct := mode.AllocationPct()

	var (
		action Action
		units  float64
		text   string
	)

	switch {
	case sentiment > sentimentDeadZone:
		price, err := a.prices.CurrentPrice(ctx, symbol)
		if err != nil {
			return Recommendation{}, err
		}
		action = ActionBuy
		usd := cash * allocPct * sentiment
		units = usd / price
		text = fmt.Sprintf("Buy ~%.2f shares (%.2f$ at sentiment %.2f)", units, usd, sentiment)

	case sentiment < -sentimentDeadZone:
		price, err := a.prices.CurrentPrice(ctx, symbol)
		if err != nil {
			return Recommendation{}, err
		}
		action = ActionSell
		units = cash * allocPct * (-sentiment) / price
		text = fmt.Sprintf("Sell ~%.2f shares", units)

	default:
		action = ActionHold
		units = 0
		text = "Hold, sentiment neutral"
	}

	if _, err := a.tradeLog.LogTrade(TradeLogEntry{
		Symbol:         symbol,
		Sentiment:      sentiment,
		Recommendation: text,
		Units:          units,
		Mode:           string(mode),
	}); err != nil {
		return Recommendation{}, fmt.Errorf("failed to record recommendation: %w", err)
	}

	a.log.Info().
		Str("symbol", symbol).
		Str("action", string(action)).
		Float64("sentiment", sentiment).
		Float64("units", units).
		Msg("Recommendation made")

	return Recommendation{
		Symbol:    symbol,
		Action:    action,
		Sentiment: sentiment,
		Units:     units,
		Text:      text,
		Mode:      mode,
	}, nil
}
