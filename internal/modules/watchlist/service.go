package watchlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/budgetwise/internal/clients/yahoo"
	"github.com/aristath/budgetwise/internal/modules/expenses"
	"github.com/aristath/budgetwise/internal/modules/settings"
)

// HistorySource fetches daily price history for a symbol.
type HistorySource interface {
	History(ctx context.Context, symbol, period string) ([]yahoo.Candle, error)
}

// SymbolHistory is one symbol's price series with indicator decoration.
// Indicator fields are nil when the series is too short to compute them.
type SymbolHistory struct {
	Symbol     string         `json:"symbol"`
	Period     string         `json:"period"`
	Candles    []yahoo.Candle `json:"candles"`
	SMA        *float64       `json:"sma,omitempty"`
	RSI        *float64       `json:"rsi,omitempty"`
	Volatility *float64       `json:"volatility,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Dashboard is the combined landing-page payload.
type Dashboard struct {
	Expenses  expenses.Summary `json:"expenses"`
	Period    string           `json:"period"`
	Watchlist []SymbolHistory  `json:"watchlist"`
}

// Service serves watchlist histories and the dashboard overview.
type Service struct {
	prices       HistorySource
	settingsRepo *settings.Repository
	expensesRepo *expenses.Repository
	log          zerolog.Logger
}

// NewService creates the watchlist service.
func NewService(prices HistorySource, settingsRepo *settings.Repository, expensesRepo *expenses.Repository, log zerolog.Logger) *Service {
	return &Service{
		prices:       prices,
		settingsRepo: settingsRepo,
		expensesRepo: expensesRepo,
		log:          log.With().Str("service", "watchlist").Logger(),
	}
}

// Symbols returns the tracked symbols from settings.
func (s *Service) Symbols() ([]string, error) {
	return s.settingsRepo.GetWatchlist()
}

// SetSymbols replaces the tracked symbols.
func (s *Service) SetSymbols(symbols []string) error {
	return s.settingsRepo.SetWatchlist(symbols)
}

// History returns the decorated price history of one symbol. An unknown
// symbol yields an empty series with no indicators.
func (s *Service) History(ctx context.Context, symbol, period string) (SymbolHistory, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !yahoo.ValidPeriod(period) {
		return SymbolHistory{}, fmt.Errorf("unsupported history period: %s", period)
	}

	candles, err := s.prices.History(ctx, symbol, period)
	if err != nil {
		return SymbolHistory{}, err
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	return SymbolHistory{
		Symbol:     symbol,
		Period:     period,
		Candles:    candles,
		SMA:        SMA(closes, smaLength),
		RSI:        RSI(closes, rsiLength),
		Volatility: Volatility(closes),
	}, nil
}

// Overview assembles the dashboard: expense summary plus the history of
// every tracked symbol. One symbol failing does not fail the dashboard;
// its entry carries the error instead.
func (s *Service) Overview(ctx context.Context, period string) (Dashboard, error) {
	if !yahoo.ValidPeriod(period) {
		return Dashboard{}, fmt.Errorf("unsupported history period: %s", period)
	}

	summary, err := s.expensesRepo.GetSummary()
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to build expense summary: %w", err)
	}

	symbols, err := s.Symbols()
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load watchlist: %w", err)
	}

	histories := make([]SymbolHistory, 0, len(symbols))
	for _, symbol := range symbols {
		h, err := s.History(ctx, symbol, period)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Watchlist history failed")
			h = SymbolHistory{Symbol: symbol, Period: period, Error: err.Error()}
		}
		histories = append(histories, h)
	}

	return Dashboard{
		Expenses:  summary,
		Period:    period,
		Watchlist: histories,
	}, nil
}
