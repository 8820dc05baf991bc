package advice

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Placeholder texts returned instead of errors. Advice is a best-effort
// feature: a missing key or a flaky API must never break the page.
const (
	msgNoAPIKey    = "AI advice is not configured. Set GEMINI_API_KEY to enable it."
	msgUnreachable = "Sorry, the AI service could not be reached. Please try again later."
)

// Service wraps the Gemini client. A nil client (no API key) degrades to
// placeholder responses.
type Service struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewService creates the advice service. With an empty apiKey the service
// still works but every Generate call returns the configuration placeholder.
func NewService(ctx context.Context, apiKey string, log zerolog.Logger) *Service {
	s := &Service{
		model: defaultModel,
		log:   log.With().Str("service", "advice").Logger(),
	}

	if apiKey == "" {
		s.log.Warn().Msg("No Gemini API key configured, advice disabled")
		return s
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to initialize Gemini client")
		return s
	}
	s.client = client

	return s
}

// Configured reports whether a working Gemini client is available.
func (s *Service) Configured() bool {
	return s.client != nil
}

// Generate sends a prompt to the model and returns the response text.
// Never returns an error: failures come back as placeholder text.
func (s *Service) Generate(ctx context.Context, prompt string) string {
	if s.client == nil {
		return msgNoAPIKey
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), config)
	if err != nil {
		s.log.Error().Err(err).Msg("Gemini request failed")
		return msgUnreachable
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		s.log.Warn().Msg("Gemini returned an empty response")
		return msgUnreachable
	}

	return text
}
