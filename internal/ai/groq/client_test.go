package groq

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spigell/ats-matcher/internal/ai"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	requests  []openai.ChatCompletionRequest
	responses []openai.ChatCompletionResponse
	errs      []error
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	i := len(f.requests) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return openai.ChatCompletionResponse{}, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return openai.ChatCompletionResponse{}, errors.New("unexpected call")
}

func reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
		}},
	}
}

func newTestGenerator(client *fakeCompleter, retries int) *Generator {
	retrier := ai.NewRetrier(retries, classify, zap.NewNop())
	retrier.Wait = func(context.Context, time.Duration) error { return nil }

	return &Generator{client: client, model: "llama-test", retrier: retrier, logger: zap.NewNop()}
}

func TestGeneratorBuildsJSONRequest(t *testing.T) {
	client := &fakeCompleter{responses: []openai.ChatCompletionResponse{reply(` {"skills": ["sql"]} `)}}

	out, err := newTestGenerator(client, 1).GenerateContent(context.Background(), "extract")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"skills": ["sql"]}` {
		t.Fatalf("unexpected output: %q", out)
	}

	req := client.requests[0]
	if req.Model != "llama-test" {
		t.Fatalf("unexpected model: %s", req.Model)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != openai.ChatMessageRoleUser || req.Messages[0].Content != "extract" {
		t.Fatalf("unexpected messages: %+v", req.Messages)
	}
	if req.Temperature <= 0 || req.Temperature > 1e-30 {
		t.Fatalf("expected effectively zero temperature, got %v", req.Temperature)
	}
	if req.ResponseFormat == nil || req.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Fatalf("expected json object response format, got %+v", req.ResponseFormat)
	}
}

func TestGeneratorRetriesRateLimit(t *testing.T) {
	client := &fakeCompleter{
		errs: []error{
			&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "Rate limit reached. Please try again in 1.5s."},
		},
		responses: []openai.ChatCompletionResponse{{}, reply("ok")},
	}

	out, err := newTestGenerator(client, 2).GenerateContent(context.Background(), "extract")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" || len(client.requests) != 2 {
		t.Fatalf("unexpected output %q after %d calls", out, len(client.requests))
	}
}

func TestGeneratorGivesUpOnLongRateLimit(t *testing.T) {
	client := &fakeCompleter{
		errs: []error{
			&openai.APIError{
				HTTPStatusCode: http.StatusTooManyRequests,
				Message:        "Rate limit reached for model `llama-3.1-8b-instant` on tokens per day (TPD). Please try again in 2m59.56s.",
			},
		},
		responses: []openai.ChatCompletionResponse{{}, reply("ok")},
	}

	if _, err := newTestGenerator(client, 3).GenerateContent(context.Background(), "extract"); err == nil {
		t.Fatal("expected error")
	}
	if len(client.requests) != 1 {
		t.Fatalf("expected single call, got %d", len(client.requests))
	}
}

func TestGeneratorDoesNotRetryUnauthorized(t *testing.T) {
	client := &fakeCompleter{
		errs: []error{&openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "Invalid API Key"}},
	}

	if _, err := newTestGenerator(client, 3).GenerateContent(context.Background(), "extract"); err == nil {
		t.Fatal("expected error")
	}
	if len(client.requests) != 1 {
		t.Fatalf("expected single call, got %d", len(client.requests))
	}
}

func TestGeneratorEmptyChoices(t *testing.T) {
	client := &fakeCompleter{responses: []openai.ChatCompletionResponse{{}}}

	if _, err := newTestGenerator(client, 1).GenerateContent(context.Background(), "extract"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		temporary bool
	}{
		{name: "server error", err: &openai.APIError{HTTPStatusCode: http.StatusBadGateway}, temporary: true},
		{name: "request error", err: &openai.RequestError{HTTPStatusCode: http.StatusServiceUnavailable}, temporary: true},
		{name: "bad request", err: &openai.APIError{HTTPStatusCode: http.StatusBadRequest}, temporary: false},
		{name: "plain error", err: errors.New("dial tcp: refused"), temporary: false},
	}

	for _, tt := range tests {
		if got, _ := classify(tt.err); got != tt.temporary {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.temporary, got)
		}
	}
}

func TestNewGenerator(t *testing.T) {
	if _, err := NewGenerator("", "", "", 1, nil); err == nil {
		t.Fatal("expected error for missing api key")
	}

	g, err := NewGenerator("key", "", "", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Model() != defaultModel {
		t.Fatalf("expected default model, got %s", g.Model())
	}
}
