package advisor

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/budgetwise/internal/clients/googlenews"
	"github.com/aristath/budgetwise/internal/modules/profile"
)

const profileSchema = `
CREATE TABLE financial_profiles (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    after_tax_income REAL NOT NULL DEFAULT 0,
    goal_1m          REAL NOT NULL DEFAULT 0,
    goal_3m          REAL NOT NULL DEFAULT 0,
    goal_6m          REAL NOT NULL DEFAULT 0,
    goal_1y          REAL NOT NULL DEFAULT 0,
    total_expenses   REAL NOT NULL DEFAULT 0,
    savings          REAL NOT NULL DEFAULT 0,
    debt             REAL NOT NULL DEFAULT 0,
    created_at       INTEGER NOT NULL
);
`

type fakeNews struct {
	headlines map[string][]googlenews.Headline
	err       map[string]error
}

func (f *fakeNews) Headlines(_ context.Context, symbol string) ([]googlenews.Headline, error) {
	if err := f.err[symbol]; err != nil {
		return nil, err
	}
	return f.headlines[symbol], nil
}

type fakeScorer struct {
	scores map[string]float64
	err    map[string]error
}

func (f *fakeScorer) Score(_ context.Context, text string) (float64, error) {
	if err := f.err[text]; err != nil {
		return 0, err
	}
	return f.scores[text], nil
}

func setupService(t *testing.T, news *fakeNews, scorer *fakeScorer, prices *fakePriceSource) (*Service, *profile.Repository) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema + profileSchema)
	require.NoError(t, err)

	tradeLog := NewTradeLogRepository(db, zerolog.Nop())
	profileRepo := profile.NewRepository(db, zerolog.Nop())
	adv := New(prices, tradeLog, zerolog.Nop())
	return NewService(adv, news, scorer, profileRepo, zerolog.Nop()), profileRepo
}

func TestAnalyzeSymbols(t *testing.T) {
	news := &fakeNews{headlines: map[string][]googlenews.Headline{
		"AAPL": {{Title: "great quarter"}, {Title: "record sales"}},
	}}
	scorer := &fakeScorer{scores: map[string]float64{
		"great quarter": 0.5,
		"record sales":  1.0,
	}}
	svc, profileRepo := setupService(t, news, scorer, &fakePriceSource{price: 100})

	_, err := profileRepo.Add(profile.FinancialProfile{AfterTaxIncome: 1000, Savings: 1000})
	require.NoError(t, err)

	results := svc.AnalyzeSymbols(context.Background(), []string{"aapl"}, ModeConservative)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "AAPL", r.Symbol)
	assert.InDelta(t, 0.75, r.Sentiment, 1e-9)
	assert.Len(t, r.Headlines, 2)
	require.NotNil(t, r.Recommendation)
	assert.Equal(t, ActionBuy, r.Recommendation.Action)
	// cash=2000, alloc 0.05, usd = 2000*0.05*0.75 = 75, units = 0.75
	assert.InDelta(t, 0.75, r.Recommendation.Units, 1e-9)
	assert.Empty(t, r.Error)
}

func TestAnalyzeSymbolsIsolatesFailures(t *testing.T) {
	news := &fakeNews{
		headlines: map[string][]googlenews.Headline{
			"AAPL": {{Title: "neutral report"}},
		},
		err: map[string]error{"TSLA": fmt.Errorf("feed unavailable")},
	}
	scorer := &fakeScorer{scores: map[string]float64{"neutral report": 0.0}}
	svc, _ := setupService(t, news, scorer, &fakePriceSource{price: 100})

	results := svc.AnalyzeSymbols(context.Background(), []string{"TSLA", "AAPL"}, ModeConservative)
	require.Len(t, results, 2)

	assert.Equal(t, "TSLA", results[0].Symbol)
	assert.Contains(t, results[0].Error, "feed unavailable")
	assert.Nil(t, results[0].Recommendation)

	assert.Equal(t, "AAPL", results[1].Symbol)
	assert.Empty(t, results[1].Error)
	require.NotNil(t, results[1].Recommendation)
	assert.Equal(t, ActionHold, results[1].Recommendation.Action)
}

func TestAnalyzeSymbolsSkipsUnscorableHeadlines(t *testing.T) {
	news := &fakeNews{headlines: map[string][]googlenews.Headline{
		"AAPL": {{Title: "good"}, {Title: "broken"}},
	}}
	scorer := &fakeScorer{
		scores: map[string]float64{"good": 1.0},
		err:    map[string]error{"broken": fmt.Errorf("scoring service down")},
	}
	svc, profileRepo := setupService(t, news, scorer, &fakePriceSource{price: 100})

	_, err := profileRepo.Add(profile.FinancialProfile{AfterTaxIncome: 1000})
	require.NoError(t, err)

	results := svc.AnalyzeSymbols(context.Background(), []string{"AAPL"}, ModeAggressive)
	require.Len(t, results, 1)

	// Only the scorable headline counts toward the aggregate
	assert.InDelta(t, 1.0, results[0].Sentiment, 1e-9)
	require.NotNil(t, results[0].Recommendation)
	assert.Equal(t, ActionBuy, results[0].Recommendation.Action)
}

func TestAnalyzeSymbolsWithoutProfile(t *testing.T) {
	news := &fakeNews{headlines: map[string][]googlenews.Headline{
		"AAPL": {{Title: "good"}},
	}}
	scorer := &fakeScorer{scores: map[string]float64{"good": 1.0}}
	svc, _ := setupService(t, news, scorer, &fakePriceSource{price: 100})

	results := svc.AnalyzeSymbols(context.Background(), []string{"AAPL", " ", ""}, ModeConservative)
	require.Len(t, results, 1)

	// No profile means no cash, so a Buy recommends zero units
	require.NotNil(t, results[0].Recommendation)
	assert.Equal(t, ActionBuy, results[0].Recommendation.Action)
	assert.Equal(t, 0.0, results[0].Recommendation.Units)
}

func TestAnalyzeSymbolsNoHeadlines(t *testing.T) {
	news := &fakeNews{}
	scorer := &fakeScorer{}
	svc, _ := setupService(t, news, scorer, &fakePriceSource{price: 100})

	results := svc.AnalyzeSymbols(context.Background(), []string{"NVDA"}, ModeConservative)
	require.Len(t, results, 1)

	// No headlines aggregates to neutral
	assert.Equal(t, 0.0, results[0].Sentiment)
	require.NotNil(t, results[0].Recommendation)
	assert.Equal(t, ActionHold, results[0].Recommendation.Action)
}
