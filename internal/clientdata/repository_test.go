package clientdata

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
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

CREATE TABLE news_headlines (
    symbol     TEXT PRIMARY KEY,
    data       BLOB NOT NULL,
    expires_at INTEGER NOT NULL
);
`

type testPayload struct {
	Price float64 `msgpack:"price"`
	Name  string  `msgpack:"name"`
}

func setupTestRepo(t *testing.T) *Repository {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return NewRepository(db)
}

func TestStoreAndGetIfFresh(t *testing.T) {
	repo := setupTestRepo(t)

	stored := testPayload{Price: 123.45, Name: "Apple"}
	require.NoError(t, repo.Store("yahoo_quotes", "AAPL", stored, time.Hour))

	var got testPayload
	found, err := repo.GetIfFresh("yahoo_quotes", "AAPL", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stored, got)
}

func TestGetIfFreshMissingKey(t *testing.T) {
	repo := setupTestRepo(t)

	var got testPayload
	found, err := repo.GetIfFresh("yahoo_quotes", "TSLA", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetIfFreshExpired(t *testing.T) {
	repo := setupTestRepo(t)

	stored := testPayload{Price: 50}
	require.NoError(t, repo.Store("yahoo_quotes", "AAPL", stored, -time.Minute))

	var got testPayload
	found, err := repo.GetIfFresh("yahoo_quotes", "AAPL", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// Get still returns the stale entry
	found, err = repo.Get("yahoo_quotes", "AAPL", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stored, got)
}

func TestStoreReplacesExisting(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Store("yahoo_quotes", "AAPL", testPayload{Price: 1}, time.Hour))
	require.NoError(t, repo.Store("yahoo_quotes", "AAPL", testPayload{Price: 2}, time.Hour))

	var got testPayload
	found, err := repo.GetIfFresh("yahoo_quotes", "AAPL", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2.0, got.Price)
}

func TestHistoryKeyColumn(t *testing.T) {
	repo := setupTestRepo(t)

	candles := []float64{1.1, 2.2, 3.3}
	require.NoError(t, repo.Store("yahoo_history", "AAPL:1mo", candles, time.Hour))

	var got []float64
	found, err := repo.GetIfFresh("yahoo_history", "AAPL:1mo", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, candles, got)
}

func TestDeleteExpired(t *testing.T) {
	repo := setupTestRepo(t)

	// Expired beyond the grace period, expired within it, and fresh
	require.NoError(t, repo.Store("news_headlines", "OLD", testPayload{}, -48*time.Hour))
	require.NoError(t, repo.Store("news_headlines", "STALE", testPayload{}, -time.Hour))
	require.NoError(t, repo.Store("news_headlines", "FRESH", testPayload{}, time.Hour))

	n, err := repo.DeleteExpired("news_headlines", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var got testPayload
	found, err := repo.Get("news_headlines", "OLD", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.Get("news_headlines", "STALE", &got)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestInvalidTable(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.Store("settings; DROP TABLE yahoo_quotes", "k", testPayload{}, time.Hour)
	assert.Error(t, err)

	var got testPayload
	_, err = repo.GetIfFresh("nope", "k", &got)
	assert.Error(t, err)

	_, err = repo.Get("nope", "k", &got)
	assert.Error(t, err)

	_, err = repo.DeleteExpired("nope", time.Hour)
	assert.Error(t, err)
}
