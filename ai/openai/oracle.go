package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/poiesic/tradescout/ai"
)

// Oracle implements ai.RelevanceOracle using an OpenAI-compatible chat API.
type Oracle struct {
	client  llms.Model
	config  *ai.Config
	limiter *rate.Limiter
	logger  *slog.Logger
}

// newOracle is an internal constructor that returns the concrete type.
func newOracle(config *ai.Config, client llms.Model) (*Oracle, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if client == nil {
		c, err := openai.New(
			openai.WithBaseURL(config.Host),
			openai.WithToken(config.APIKey),
			openai.WithModel(config.Model),
		)
		if err != nil {
			return nil, err
		}
		client = c
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &Oracle{
		client:  client,
		config:  config,
		limiter: limiter,
		logger:  slog.Default().With("component", "openai-oracle", "model", config.Model),
	}, nil
}

// NewOracle creates a relevance oracle using the provided configuration.
//
// Returns ai.RelevanceOracle interface to enforce abstraction.
func NewOracle(config *ai.Config) (ai.RelevanceOracle, error) {
	return newOracle(config, nil)
}

// Score asks the model to rate productName against query.
// Transport failures, timeouts and empty replies yield ai.FailedVerdict and an error.
func (o *Oracle) Score(ctx context.Context, query, productName string) (ai.Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return ai.FailedVerdict(), fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(ai.ScoringSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(ai.BuildScoringPrompt(query, productName)),
			},
		},
	}

	response, err := o.client.GenerateContent(ctx, content,
		llms.WithTemperature(o.config.Temperature),
		llms.WithMaxTokens(o.config.MaxTokens))
	if err != nil {
		o.logger.Warn("scoring request failed", "product", productName, "err", err)
		return ai.FailedVerdict(), err
	}
	if len(response.Choices) < 1 {
		return ai.FailedVerdict(), ErrNoChoices
	}

	raw := strings.TrimSpace(response.Choices[0].Content)
	if raw == "" {
		return ai.FailedVerdict(), ErrEmptyReply
	}

	verdict := ai.NewVerdict(raw)
	o.logger.Debug("scored candidate", "product", productName, "score", verdict.Score, "raw", raw)
	return verdict, nil
}

// Model returns the configured model identifier.
func (o *Oracle) Model() string {
	return o.config.Model
}

// Close releases resources held by the oracle.
// Currently a no-op as the underlying client doesn't require explicit cleanup.
func (o *Oracle) Close() error {
	o.logger.Debug("closing oracle")
	return nil
}
