package gemini

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeCaller struct {
	mu        sync.Mutex
	responses []fakeResponse
	prompts   []string
	models    []string
}

func (f *fakeCaller) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.models = append(f.models, model)
	for _, content := range contents {
		for _, part := range content.Parts {
			f.prompts = append(f.prompts, part.Text)
		}
	}

	if len(f.responses) == 0 {
		return nil, genai.APIError{Code: http.StatusInternalServerError, Status: "UNEXPECTED"}
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next.resp, next.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	caller := &fakeCaller{responses: []fakeResponse{
		{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}},
		{resp: textResponse("retry ok")},
	}}

	g := &Generator{caller: caller, model: "gemini-pro", maxRetries: 2, logger: zap.NewNop()}

	output, err := g.GenerateContent(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(caller.models) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(caller.models))
	}

	for _, prompt := range caller.prompts {
		if prompt != "hello" {
			t.Fatalf("unexpected prompt: %q", prompt)
		}
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	caller := &fakeCaller{responses: []fakeResponse{{err: tempErr}, {err: tempErr}}}

	g := &Generator{caller: caller, model: "gemini-pro", maxRetries: 2, logger: zap.NewNop()}

	if _, err := g.GenerateContent(context.Background(), "hello"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	if len(caller.models) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(caller.models))
	}
}

func TestGeneratorDoesNotRetryOnPermanentError(t *testing.T) {
	caller := &fakeCaller{responses: []fakeResponse{
		{err: genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}},
	}}

	g := &Generator{caller: caller, model: "gemini-pro", maxRetries: 3, logger: zap.NewNop()}

	if _, err := g.GenerateContent(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}

	if len(caller.models) != 1 {
		t.Fatalf("expected single call, got %d", len(caller.models))
	}
}

func TestGeneratorRejectsEmptyPrompt(t *testing.T) {
	g := &Generator{caller: &fakeCaller{}, model: "gemini-pro", maxRetries: 1, logger: zap.NewNop()}

	if _, err := g.GenerateContent(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestGeneratorFlattensMultipartResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "first"},
				{Text: "  "},
				{Text: "second"},
			}},
		}},
	}
	caller := &fakeCaller{responses: []fakeResponse{{resp: resp}}}

	g := &Generator{caller: caller, model: "gemini-pro", maxRetries: 1, logger: zap.NewNop()}

	output, err := g.GenerateContent(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != "first\nsecond" {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestGeneratorRejectsEmptyResponse(t *testing.T) {
	caller := &fakeCaller{responses: []fakeResponse{{resp: &genai.GenerateContentResponse{}}}}

	g := &Generator{caller: caller, model: "gemini-pro", maxRetries: 1, logger: zap.NewNop()}

	if _, err := g.GenerateContent(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for empty response")
	}
}
