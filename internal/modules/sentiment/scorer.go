package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Scorer assigns a sentiment score in [-1, 1] to a piece of text.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// maxScoreChars truncates input before scoring; the upstream classifier
// only looks at the first 512 characters anyway.
const maxScoreChars = 512

// ServiceScorer calls an external text-classification service that returns a
// 5-class star rating, mapped onto [-1, 1] via ScoreFromStars.
type ServiceScorer struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewServiceScorer creates a scorer backed by the classification service at
// baseURL.
func NewServiceScorer(baseURL string, log zerolog.Logger) *ServiceScorer {
	return &ServiceScorer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "sentiment-service").Logger(),
	}
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Label string `json:"label"` // e.g. "4 stars"
}

// Score sends the text to the classification service.
func (s *ServiceScorer) Score(ctx context.Context, text string) (float64, error) {
	if len(text) > maxScoreChars {
		text = text[:maxScoreChars]
	}

	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sentiment service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("sentiment service returned status %d", resp.StatusCode)
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode score response: %w", err)
	}

	stars, err := parseStars(out.Label)
	if err != nil {
		return 0, err
	}

	return ScoreFromStars(stars), nil
}

// parseStars extracts the leading integer from labels like "4 stars".
func parseStars(label string) (int, error) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty sentiment label")
	}
	stars, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("unexpected sentiment label %q: %w", label, err)
	}
	return stars, nil
}

// LexicalScorer is the fallback used when no classification service is
// configured. It counts positive and negative cue words so the sentiment
// pipeline degrades to a rough signal instead of failing outright.
type LexicalScorer struct{}

var positiveWords = map[string]bool{
	"beat": true, "beats": true, "gain": true, "gains": true, "surge": true,
	"surges": true, "rally": true, "rallies": true, "record": true,
	"growth": true, "strong": true, "upgrade": true, "upgraded": true,
	"profit": true, "profits": true, "rise": true, "rises": true,
	"soar": true, "soars": true, "jump": true, "jumps": true, "bullish": true,
}

var negativeWords = map[string]bool{
	"miss": true, "misses": true, "loss": true, "losses": true, "drop": true,
	"drops": true, "plunge": true, "plunges": true, "fall": true, "falls": true,
	"weak": true, "downgrade": true, "downgraded": true, "lawsuit": true,
	"recall": true, "decline": true, "declines": true, "slump": true,
	"slumps": true, "cut": true, "cuts": true, "bearish": true, "fears": true,
}

// Score counts cue words; the result is (pos-neg)/(pos+neg), 0 when neither
// polarity appears.
func (LexicalScorer) Score(_ context.Context, text string) (float64, error) {
	var pos, neg int
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?:;\"'()[]")
		if positiveWords[w] {
			pos++
		}
		if negativeWords[w] {
			neg++
		}
	}

	if pos+neg == 0 {
		return 0.0, nil
	}
	return float64(pos-neg) / float64(pos+neg), nil
}
