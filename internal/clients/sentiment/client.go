// Package sentiment provides an optional LLM-backed research provider.
// The CLI constructs it only when an API key is configured; everything
// else in the system tolerates its absence.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/aristath/kabu/internal/domain"
)

const defaultModel = "gemini-2.5-flash"

// Client implements domain.SentimentProvider using the Gemini API.
type Client struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewClient creates a new sentiment client.
func NewClient(ctx context.Context, apiKey string, log zerolog.Logger) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: genaiClient,
		model:  defaultModel,
		log:    log.With().Str("client", "sentiment").Logger(),
	}, nil
}

const promptTemplate = `You are an equity research assistant. Summarize current market
sentiment for the stock "%s" (%s).
Respond with JSON only, no prose, in this exact shape:
{"positive": ["..."], "negative": ["..."], "score": 0.0, "summary": "..."}
- positive/negative: up to 3 short bullet strings each
- score: overall sentiment from -1.0 (very negative) to 1.0 (very positive)
- summary: one sentence`

// Search asks the model for a structured sentiment blurb on one symbol.
// Results are advisory report narrative only, never inputs to scoring.
func (c *Client) Search(ctx context.Context, symbol, name string) (*domain.Sentiment, error) {
	c.log.Debug().Str("symbol", symbol).Msg("Fetching sentiment")

	prompt := fmt.Sprintf(promptTemplate, name, symbol)
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate sentiment: %w", err)
	}

	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("empty sentiment response for %s", symbol)
	}

	parsed, err := parseSentiment(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sentiment for %s: %w", symbol, err)
	}
	parsed.Symbol = symbol

	return parsed, nil
}

// parseSentiment extracts the JSON object from the model output, tolerating
// markdown code fences around it.
func parseSentiment(text string) (*domain.Sentiment, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var s domain.Sentiment
	if err := json.Unmarshal([]byte(text[start:end+1]), &s); err != nil {
		return nil, err
	}
	if s.Score < -1 {
		s.Score = -1
	}
	if s.Score > 1 {
		s.Score = 1
	}

	return &s, nil
}
