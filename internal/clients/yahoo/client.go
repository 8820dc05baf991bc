// Package yahoo provides current price and price history fetching from the
// Yahoo Finance chart API, with persistent caching.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/budgetwise/internal/clientdata"
)

// ErrPriceUnavailable indicates the price for a symbol could not be resolved,
// either because the symbol is unknown or the upstream API failed.
var ErrPriceUnavailable = errors.New("price unavailable")

// Candle is one day of price history.
type Candle struct {
	Timestamp time.Time `json:"timestamp" msgpack:"ts"`
	Close     float64   `json:"close" msgpack:"c"`
}

// cachedQuote is the structure stored in the quote cache.
type cachedQuote struct {
	Price float64 `msgpack:"p"`
}

// periodRanges maps the periods offered by the dashboard onto the range
// values the chart API accepts.
var periodRanges = map[string]string{
	"1d":  "1d",
	"7d":  "5d", // trading days; the API has no 7d range
	"1mo": "1mo",
	"6mo": "6mo",
	"ytd": "ytd",
	"5y":  "5y",
}

// ValidPeriod reports whether the history period is supported.
func ValidPeriod(period string) bool {
	_, ok := periodRanges[period]
	return ok
}

// Client for the Yahoo Finance v8 chart API.
type Client struct {
	baseURL   string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new Yahoo Finance client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   "https://query1.finance.yahoo.com/v8/finance/chart",
		client:    &http.Client{Timeout: 15 * time.Second},
		log:       log.With().Str("client", "yahoo").Logger(),
		cacheRepo: cacheRepo,
	}
}

// chartResponse mirrors the subset of the chart API payload we read.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// CurrentPrice fetches the latest price for a symbol, cache-first.
// If the API fails, a stale cached quote is returned if available
// (stale data > no data). With no fallback, fails with ErrPriceUnavailable.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if c.cacheRepo != nil {
		var cached cachedQuote
		if ok, err := c.cacheRepo.GetIfFresh("yahoo_quotes", symbol, &cached); err == nil && ok {
			c.log.Debug().Str("symbol", symbol).Float64("price", cached.Price).Msg("Quote cache hit")
			return cached.Price, nil
		}
	}

	chart, err := c.fetchChart(ctx, symbol, "1d")
	if err != nil {
		if stale, ok := c.staleQuote(symbol); ok {
			c.log.Warn().
				Err(err).
				Str("symbol", symbol).
				Float64("price", stale).
				Msg("API failed, using stale cached quote")
			return stale, nil
		}
		return 0, fmt.Errorf("%w: %s: %v", ErrPriceUnavailable, symbol, err)
	}

	price := chart.Meta.RegularMarketPrice
	if price == 0 {
		// Fall back to the last non-null close in the series
		for _, q := range chart.Indicators.Quote {
			for i := len(q.Close) - 1; i >= 0; i-- {
				if q.Close[i] != nil {
					price = *q.Close[i]
					break
				}
			}
		}
	}
	if price == 0 {
		return 0, fmt.Errorf("%w: %s: no price in chart data", ErrPriceUnavailable, symbol)
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store("yahoo_quotes", symbol, cachedQuote{Price: price}, clientdata.TTLQuote); err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache quote")
		}
	}

	return price, nil
}

// History fetches daily close prices for the period, oldest first.
// An unknown symbol yields an empty series, not an error.
func (c *Client) History(ctx context.Context, symbol, period string) ([]Candle, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	apiRange, ok := periodRanges[period]
	if !ok {
		return nil, fmt.Errorf("unsupported history period: %s", period)
	}

	cacheKey := symbol + ":" + period
	if c.cacheRepo != nil {
		var cached []Candle
		if ok, err := c.cacheRepo.GetIfFresh("yahoo_history", cacheKey, &cached); err == nil && ok {
			c.log.Debug().Str("symbol", symbol).Str("period", period).Msg("History cache hit")
			return cached, nil
		}
	}

	chart, err := c.fetchChart(ctx, symbol, apiRange)
	if err != nil {
		if errors.Is(err, errUnknownSymbol) {
			return []Candle{}, nil
		}
		// Stale history beats an error page on the dashboard
		var stale []Candle
		if c.cacheRepo != nil {
			if ok, cacheErr := c.cacheRepo.Get("yahoo_history", cacheKey, &stale); cacheErr == nil && ok {
				c.log.Warn().Err(err).Str("symbol", symbol).Msg("API failed, using stale cached history")
				return stale, nil
			}
		}
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}

	var candles []Candle
	for _, q := range chart.Indicators.Quote {
		for i, ts := range chart.Timestamp {
			if i < len(q.Close) && q.Close[i] != nil {
				candles = append(candles, Candle{
					Timestamp: time.Unix(ts, 0).UTC(),
					Close:     *q.Close[i],
				})
			}
		}
		break // only the first quote block carries the close series
	}

	if c.cacheRepo != nil && len(candles) > 0 {
		if err := c.cacheRepo.Store("yahoo_history", cacheKey, candles, clientdata.TTLHistory); err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache history")
		}
	}

	return candles, nil
}

// errUnknownSymbol distinguishes a symbol the API has never heard of from a
// transport failure: History treats the former as an empty series.
var errUnknownSymbol = errors.New("unknown symbol")

func (c *Client) fetchChart(ctx context.Context, symbol, apiRange string) (*chartResult, error) {
	url := fmt.Sprintf("%s/%s?range=%s&interval=1d", c.baseURL, symbol, apiRange)
	c.log.Debug().Str("url", url).Msg("Fetching chart")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build chart request: %w", err)
	}
	// Yahoo rejects requests without a browser-ish user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; budgetwise/1.0)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errUnknownSymbol
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API returned status %d", resp.StatusCode)
	}

	var parsed chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}

	if parsed.Chart.Error != nil {
		if parsed.Chart.Error.Code == "Not Found" {
			return nil, errUnknownSymbol
		}
		return nil, fmt.Errorf("chart API error: %s", parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, errUnknownSymbol
	}

	return &parsed.Chart.Result[0], nil
}

// staleQuote returns an expired cached quote if one exists.
func (c *Client) staleQuote(symbol string) (float64, bool) {
	if c.cacheRepo == nil {
		return 0, false
	}
	var cached cachedQuote
	ok, err := c.cacheRepo.Get("yahoo_quotes", symbol, &cached)
	if err != nil || !ok {
		return 0, false
	}
	return cached.Price, true
}
