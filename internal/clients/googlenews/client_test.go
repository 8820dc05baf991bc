package googlenews

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/budgetwise/internal/clientdata"
)

const cacheSchema = `
CREATE TABLE news_headlines (
    symbol     TEXT PRIMARY KEY,
    data       BLOB NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE TABLE yahoo_quotes (
    symbol     TEXT PRIMARY KEY,
    data       BLOB NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE TABLE yahoo_history (
    key        TEXT PRIMARY KEY,
    data       BLOB NOT NULL,
    expires_at INTEGER NOT NULL
);
`

func feedXML(itemCount int) string {
	items := ""
	for i := 1; i <= itemCount; i++ {
		items += fmt.Sprintf(`
			<item>
				<title>Headline %d</title>
				<link>https://example.com/%d</link>
				<source url="https://example.com">Example News</source>
			</item>`, i, i)
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
		<rss version="2.0"><channel>` + items + `</channel></rss>`
}

func setupCacheRepo(t *testing.T) *clientdata.Repository {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(cacheSchema)
	require.NoError(t, err)

	return clientdata.NewRepository(db)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cacheRepo *clientdata.Repository) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(cacheRepo, zerolog.Nop())
	c.baseURL = srv.URL
	return c
}

func TestHeadlines(t *testing.T) {
	var query string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		assert.Equal(t, "en-US", r.URL.Query().Get("hl"))
		assert.Equal(t, "US:en", r.URL.Query().Get("ceid"))
		fmt.Fprint(w, feedXML(3))
	}, nil)

	headlines, err := c.Headlines(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "Apple stock when:1d", query)
	require.Len(t, headlines, 3)
	assert.Equal(t, "Headline 1", headlines[0].Title)
	assert.Equal(t, "https://example.com/1", headlines[0].Link)
	assert.Equal(t, "Example News", headlines[0].Source)
}

func TestHeadlinesCapped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(12))
	}, nil)

	headlines, err := c.Headlines(context.Background(), "TSLA")
	require.NoError(t, err)
	assert.Len(t, headlines, maxHeadlines)
}

func TestHeadlinesCacheHit(t *testing.T) {
	var requests int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, feedXML(2))
	}, setupCacheRepo(t))

	_, err := c.Headlines(context.Background(), "NVDA")
	require.NoError(t, err)

	headlines, err := c.Headlines(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Len(t, headlines, 2)
	assert.Equal(t, 1, requests)
}

func TestHeadlinesStaleFallback(t *testing.T) {
	repo := setupCacheRepo(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, repo)

	stale := []Headline{{Title: "Old news", Link: "https://example.com/old"}}
	require.NoError(t, repo.Store("news_headlines", "AAPL", stale, -time.Minute))

	headlines, err := c.Headlines(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, stale, headlines)
}

func TestHeadlinesFeedError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, nil)

	_, err := c.Headlines(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestHeadlinesEmptyFeed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(0))
	}, nil)

	headlines, err := c.Headlines(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Empty(t, headlines)
}

func TestSearchTerm(t *testing.T) {
	tests := map[string]string{
		"AAPL":    "Apple",
		"tsla":    "Tesla",
		" spy ":   "S&P 500",
		"TQQQ":    "ProShares TQQQ",
		"NVDA":    "NVIDIA",
		"UNKNOWN": "UNKNOWN",
	}
	for symbol, want := range tests {
		assert.Equal(t, want, SearchTerm(symbol), symbol)
	}
}
