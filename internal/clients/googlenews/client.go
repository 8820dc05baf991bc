// Package googlenews fetches recent headlines for a symbol from the Google
// News RSS search feed.
package googlenews

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/budgetwise/internal/clientdata"
)

// maxHeadlines caps how many headlines a single fetch returns.
const maxHeadlines = 5

// symbolNames maps ticker symbols to the search terms that return usable
// coverage. Unlisted symbols are searched by ticker.
var symbolNames = map[string]string{
	"AAPL":    "Apple",
	"TSLA":    "Tesla",
	"AMZN":    "Amazon",
	"META":    "Meta",
	"GOOG":    "Google",
	"SPY":     "S&P 500",
	"NASDAQ":  "Nasdaq",
	"WALMART": "Walmart",
	"TQQQ":    "ProShares TQQQ",
	"NVDA":    "NVIDIA",
}

// Headline is one news item from the feed.
type Headline struct {
	Title  string `json:"title" msgpack:"t"`
	Link   string `json:"link" msgpack:"l"`
	Source string `json:"source" msgpack:"s"`
}

// Client for the Google News RSS search feed.
type Client struct {
	baseURL   string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new Google News client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   "https://news.google.com/rss/search",
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log.With().Str("client", "googlenews").Logger(),
		cacheRepo: cacheRepo,
	}
}

// rss mirrors the RSS elements we read.
type rss struct {
	Channel struct {
		Items []struct {
			Title  string `xml:"title"`
			Link   string `xml:"link"`
			Source string `xml:"source"`
		} `xml:"item"`
	} `xml:"channel"`
}

// SearchTerm returns the query term used for a symbol.
func SearchTerm(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if name, ok := symbolNames[symbol]; ok {
		return name
	}
	return symbol
}

// Headlines fetches up to five recent headlines for a symbol, cache-first.
// No coverage is not an error: the result may be empty.
func (c *Client) Headlines(ctx context.Context, symbol string) ([]Headline, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if c.cacheRepo != nil {
		var cached []Headline
		if ok, err := c.cacheRepo.GetIfFresh("news_headlines", symbol, &cached); err == nil && ok {
			c.log.Debug().Str("symbol", symbol).Int("count", len(cached)).Msg("Headline cache hit")
			return cached, nil
		}
	}

	headlines, err := c.fetch(ctx, symbol)
	if err != nil {
		var stale []Headline
		if c.cacheRepo != nil {
			if ok, cacheErr := c.cacheRepo.Get("news_headlines", symbol, &stale); cacheErr == nil && ok {
				c.log.Warn().Err(err).Str("symbol", symbol).Msg("Feed failed, using stale cached headlines")
				return stale, nil
			}
		}
		return nil, fmt.Errorf("failed to fetch headlines for %s: %w", symbol, err)
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store("news_headlines", symbol, headlines, clientdata.TTLHeadlines); err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache headlines")
		}
	}

	return headlines, nil
}

func (c *Client) fetch(ctx context.Context, symbol string) ([]Headline, error) {
	query := url.QueryEscape(SearchTerm(symbol) + " stock when:1d")
	feedURL := fmt.Sprintf("%s?q=%s&hl=en-US&gl=US&ceid=US:en", c.baseURL, query)
	c.log.Debug().Str("url", feedURL).Msg("Fetching news feed")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var parsed rss
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}

	headlines := make([]Headline, 0, maxHeadlines)
	for _, item := range parsed.Channel.Items {
		if len(headlines) >= maxHeadlines {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		headlines = append(headlines, Headline{
			Title:  title,
			Link:   strings.TrimSpace(item.Link),
			Source: strings.TrimSpace(item.Source),
		})
	}

	return headlines, nil
}
