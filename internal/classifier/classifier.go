package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/observability"
)

// Suggester proposes a category/priority pair for a ticket description.
// Implementations must degrade to domain.DefaultSuggestion rather than
// fail: a non-empty description always yields a usable suggestion.
type Suggester interface {
	Suggest(ctx context.Context, description string) (domain.Suggestion, error)
}

// OpenAIClassifier calls an OpenAI-compatible chat completion endpoint.
// Without an API key it degrades to the fixed default suggestion
// instead of calling out. Each call is a single attempt, no retry.
type OpenAIClassifier struct {
	cfg    config.ClassifierConfig
	client *http.Client
	logger *zap.Logger
}

// NewOpenAIClassifier constructs the gateway with its own bounded client.
func NewOpenAIClassifier(cfg config.ClassifierConfig, logger *zap.Logger) *OpenAIClassifier {
	return &OpenAIClassifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type rawSuggestion struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// Suggest classifies the description. Every failure mode past the input
// boundary collapses into the default suggestion; the returned error is
// always nil for this implementation.
func (c *OpenAIClassifier) Suggest(ctx context.Context, description string) (domain.Suggestion, error) {
	if c.cfg.APIKey == "" {
		c.logger.Debug("classifier api key not configured; returning default suggestion")
		observability.RecordClassification("unconfigured")
		return domain.DefaultSuggestion(), nil
	}

	content, err := c.complete(ctx, description)
	if err != nil {
		c.logger.Warn("classification call failed; falling back to default", zap.Error(err))
		observability.RecordClassification("fallback")
		return domain.DefaultSuggestion(), nil
	}

	span, err := ExtractJSONObject(content)
	if err != nil {
		c.logger.Warn("no JSON object in classifier response; falling back to default", zap.Error(err))
		observability.RecordClassification("fallback")
		return domain.DefaultSuggestion(), nil
	}

	var raw rawSuggestion
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		c.logger.Warn("malformed JSON in classifier response; falling back to default", zap.Error(err))
		observability.RecordClassification("fallback")
		return domain.DefaultSuggestion(), nil
	}

	observability.RecordClassification("suggested")
	return coerce(raw), nil
}

func (c *OpenAIClassifier) complete(ctx context.Context, description string) (string, error) {
	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(description)},
		},
		MaxTokens: c.cfg.MaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("classification backend returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("classification backend returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// coerce validates each field independently against its closed set;
// out-of-set or missing values silently become the default.
func coerce(raw rawSuggestion) domain.Suggestion {
	suggestion := domain.DefaultSuggestion()
	if category := domain.TicketCategory(raw.Category); category.Valid() {
		suggestion.Category = category
	}
	if priority := domain.TicketPriority(raw.Priority); priority.Valid() {
		suggestion.Priority = priority
	}
	return suggestion
}
