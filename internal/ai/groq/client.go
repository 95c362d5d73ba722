// Package groq talks to Groq's OpenAI-compatible chat completions API.
package groq

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spigell/ats-matcher/internal/ai"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.1-8b-instant"
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator sends single-message chat completions to Groq.
type Generator struct {
	client  chatCompleter
	model   string
	retrier ai.Retrier
	logger  *zap.Logger
}

// NewGenerator creates a Generator. An empty baseURL selects the public Groq endpoint.
func NewGenerator(apiKey, baseURL, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("groq api key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = DefaultBaseURL
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		retrier: ai.NewRetrier(maxRetries, classify, logger),
		logger:  logger,
	}, nil
}

// GenerateContent sends prompt as a user message and returns the first choice.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("groq generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		// A literal zero is dropped by omitempty and the server default applies.
		Temperature: math.SmallestNonzeroFloat32,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	return g.retrier.Do(ctx, func(ctx context.Context) (string, error) {
		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("create chat completion: %w", err)
		}

		if len(resp.Choices) == 0 {
			return "", errors.New("groq api returned no choices")
		}

		output := strings.TrimSpace(resp.Choices[0].Message.Content)
		if output == "" {
			return "", errors.New("groq api returned empty response")
		}

		g.logger.Debug("chat completion usage",
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		)

		return output, nil
	})
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func classify(err error) (bool, time.Duration) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return temporaryStatus(apiErr.HTTPStatusCode), ai.ParseRetryDelay(apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return temporaryStatus(reqErr.HTTPStatusCode), 0
	}

	return false, 0
}

func temporaryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
