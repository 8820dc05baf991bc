package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceScorer(t *testing.T) {
	var gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/score", r.URL.Path)

		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotText = req.Text

		_ = json.NewEncoder(w).Encode(map[string]string{"label": "4 stars"})
	}))
	defer server.Close()

	scorer := NewServiceScorer(server.URL, zerolog.Nop())

	score, err := scorer.Score(context.Background(), "Company beats earnings expectations")
	require.NoError(t, err)
	assert.Equal(t, 0.5, score)
	assert.Equal(t, "Company beats earnings expectations", gotText)
}

func TestServiceScorerTruncatesLongText(t *testing.T) {
	var gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotText = req.Text
		_ = json.NewEncoder(w).Encode(map[string]string{"label": "3 stars"})
	}))
	defer server.Close()

	scorer := NewServiceScorer(server.URL, zerolog.Nop())

	_, err := scorer.Score(context.Background(), strings.Repeat("x", 2000))
	require.NoError(t, err)
	assert.Len(t, gotText, 512)
}

func TestServiceScorerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	scorer := NewServiceScorer(server.URL, zerolog.Nop())

	_, err := scorer.Score(context.Background(), "anything")
	assert.Error(t, err)
}

func TestParseStars(t *testing.T) {
	stars, err := parseStars("5 stars")
	require.NoError(t, err)
	assert.Equal(t, 5, stars)

	stars, err = parseStars("1 star")
	require.NoError(t, err)
	assert.Equal(t, 1, stars)

	_, err = parseStars("")
	assert.Error(t, err)

	_, err = parseStars("very positive")
	assert.Error(t, err)
}

func TestLexicalScorer(t *testing.T) {
	scorer := LexicalScorer{}
	ctx := context.Background()

	score, err := scorer.Score(ctx, "Shares surge to record highs on strong growth")
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)

	score, err = scorer.Score(ctx, "Stock plunges after earnings miss, downgrade follows")
	require.NoError(t, err)
	assert.Less(t, score, 0.0)

	score, err = scorer.Score(ctx, "Company schedules annual shareholder meeting")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}
