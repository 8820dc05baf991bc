package advisor

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/budgetwise/internal/clients/googlenews"
	"github.com/aristath/budgetwise/internal/modules/profile"
	"github.com/aristath/budgetwise/internal/modules/sentiment"
)

// NewsSource fetches recent headlines for a symbol.
type NewsSource interface {
	Headlines(ctx context.Context, symbol string) ([]googlenews.Headline, error)
}

// SymbolAnalysis is the per-symbol outcome of a batch run. On failure,
// Error carries the reason and Recommendation is nil.
type SymbolAnalysis struct {
	Symbol         string                `json:"symbol"`
	Sentiment      float64               `json:"sentiment"`
	Headlines      []googlenews.Headline `json:"headlines"`
	Recommendation *Recommendation       `json:"recommendation,omitempty"`
	Error          string                `json:"error,omitempty"`
}

// Service runs the full news-to-recommendation pipeline for a set of
// symbols: fetch headlines, score each, aggregate, recommend.
type Service struct {
	advisor     *Advisor
	news        NewsSource
	scorer      sentiment.Scorer
	profileRepo *profile.Repository
	log         zerolog.Logger
}

// NewService creates the analysis service.
func NewService(advisor *Advisor, news NewsSource, scorer sentiment.Scorer, profileRepo *profile.Repository, log zerolog.Logger) *Service {
	return &Service{
		advisor:     advisor,
		news:        news,
		scorer:      scorer,
		profileRepo: profileRepo,
		log:         log.With().Str("service", "advisor").Logger(),
	}
}

// AnalyzeSymbols analyzes each symbol independently. One symbol failing
// does not abort the rest: its entry carries the error instead.
func (s *Service) AnalyzeSymbols(ctx context.Context, symbols []string, mode RiskMode) []SymbolAnalysis {
	income, savings := s.cashInputs()

	results := make([]SymbolAnalysis, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		results = append(results, s.analyzeOne(ctx, symbol, mode, income, savings))
	}
	return results
}

func (s *Service) analyzeOne(ctx context.Context, symbol string, mode RiskMode, income, savings float64) SymbolAnalysis {
	result := SymbolAnalysis{Symbol: symbol}

	headlines, err := s.news.Headlines(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Headline fetch failed")
		result.Error = err.Error()
		return result
	}
	result.Headlines = headlines

	scores := make([]float64, 0, len(headlines))
	for _, h := range headlines {
		score, err := s.scorer.Score(ctx, h.Title)
		if err != nil {
			// A single unscorable headline should not sink the symbol
			s.log.Warn().Err(err).Str("symbol", symbol).Str("title", h.Title).Msg("Headline scoring failed")
			continue
		}
		scores = append(scores, score)
	}
	result.Sentiment = sentiment.Aggregate(scores)

	rec, err := s.advisor.Recommend(ctx, symbol, result.Sentiment, mode, income, savings)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Recommendation failed")
		result.Error = err.Error()
		return result
	}
	result.Recommendation = &rec

	return result
}

// cashInputs reads income and savings from the latest financial profile.
// Without a profile both are zero, which yields zero-unit recommendations.
func (s *Service) cashInputs() (income, savings float64) {
	p, err := s.profileRepo.GetLatest()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load financial profile")
		return 0, 0
	}
	if p == nil {
		return 0, 0
	}
	return p.AfterTaxIncome, p.Savings
}
