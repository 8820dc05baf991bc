package watchlist

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/budgetwise/internal/clients/yahoo"
)

// QuoteSource fetches the current price for a symbol.
type QuoteSource interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// RefreshJob warms the quote cache for every tracked symbol so dashboard
// loads hit fresh cache instead of the API.
type RefreshJob struct {
	prices  QuoteSource
	service *Service
	log     zerolog.Logger
}

// NewRefreshJob creates a quote refresh job.
func NewRefreshJob(prices QuoteSource, service *Service, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		prices:  prices,
		service: service,
		log:     log.With().Str("job", "quote_refresh").Logger(),
	}
}

// Name returns the job identifier.
func (j *RefreshJob) Name() string {
	return "quote_refresh"
}

// Run fetches the current price of every watchlist symbol. Individual
// symbol failures are logged and counted, not fatal.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	symbols, err := j.service.Symbols()
	if err != nil {
		return fmt.Errorf("failed to load watchlist: %w", err)
	}

	var failed int
	for _, symbol := range symbols {
		if _, err := j.prices.CurrentPrice(ctx, symbol); err != nil {
			j.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote refresh failed")
			failed++
		}
	}

	j.log.Debug().
		Int("symbols", len(symbols)).
		Int("failed", failed).
		Msg("Quote refresh finished")

	if failed == len(symbols) && len(symbols) > 0 {
		return fmt.Errorf("all %d quote refreshes failed", failed)
	}
	return nil
}

// Ensure the yahoo client satisfies QuoteSource.
var _ QuoteSource = (*yahoo.Client)(nil)
