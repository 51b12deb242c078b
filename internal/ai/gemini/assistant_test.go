package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seekly/matcher/internal/ai"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestScoreSkillMatch(t *testing.T) {
	stub := &stubGenerator{response: `{"score": 85, "reason": "Strong overlap on Go and Postgres"}`}
	assistant := NewAssistant(stub, zap.NewNop(), 0)

	assessment, err := assistant.ScoreSkillMatch(context.Background(), []string{"Go", "Postgres"}, "Go backend role")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != 85 {
		t.Fatalf("expected score 85, got %d", assessment.Score)
	}

	if assessment.Source != ai.SourceModel {
		t.Fatalf("expected model source, got %q", assessment.Source)
	}

	if assessment.Reason == "" {
		t.Fatalf("expected reason to be populated")
	}

	if assessment.Raw == "" {
		t.Fatalf("expected raw response to be kept")
	}

	if !strings.Contains(stub.lastPrompt, `["Go","Postgres"]`) {
		t.Fatalf("expected skills JSON in prompt, got: %s", stub.lastPrompt)
	}

	if !strings.Contains(stub.lastPrompt, "Go backend role") {
		t.Fatalf("expected job text in prompt")
	}
}

func TestScoreSkillMatchStripsMarkdownFence(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"score\": 40, \"reason\": \"partial\"}\n```"}
	assistant := NewAssistant(stub, zap.NewNop(), 0)

	assessment, err := assistant.ScoreSkillMatch(context.Background(), []string{"Go"}, "role")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != 40 {
		t.Fatalf("expected score 40, got %d", assessment.Score)
	}
}

func TestScoreSkillMatchCoercesLooseTypes(t *testing.T) {
	cases := []struct {
		name     string
		response string
		score    int
	}{
		{"string score", `{"score": "72", "reason": "ok"}`, 72},
		{"float score", `{"score": 72.6, "reason": "ok"}`, 73},
		{"above range", `{"score": 250, "reason": "ok"}`, 100},
		{"below range", `{"score": -5, "reason": "ok"}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubGenerator{response: tc.response}
			assistant := NewAssistant(stub, zap.NewNop(), 0)

			assessment, err := assistant.ScoreSkillMatch(context.Background(), []string{"Go"}, "role")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if assessment.Score != tc.score {
				t.Fatalf("expected score %d, got %d", tc.score, assessment.Score)
			}
		})
	}
}

func TestScoreSkillMatchRejectsMalformedResponse(t *testing.T) {
	for _, response := range []string{"not json at all", `{"reason": "no score"}`, `{"score": "high"}`} {
		stub := &stubGenerator{response: response}
		assistant := NewAssistant(stub, zap.NewNop(), 0)

		if _, err := assistant.ScoreSkillMatch(context.Background(), []string{"Go"}, "role"); err == nil {
			t.Fatalf("expected error for response %q", response)
		}
	}
}

func TestScoreSkillMatchPropagatesGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	assistant := NewAssistant(stub, zap.NewNop(), 0)

	if _, err := assistant.ScoreSkillMatch(context.Background(), []string{"Go"}, "role"); err == nil {
		t.Fatal("expected error")
	}
}

func TestScoreSkillMatchRequiresInput(t *testing.T) {
	assistant := NewAssistant(&stubGenerator{}, zap.NewNop(), 0)

	if _, err := assistant.ScoreSkillMatch(context.Background(), nil, "role"); err == nil {
		t.Fatal("expected error for empty skills")
	}
	if _, err := assistant.ScoreSkillMatch(context.Background(), []string{"Go"}, "  "); err == nil {
		t.Fatal("expected error for empty job text")
	}
}

func TestGenerateInsightClampsToTwentyWords(t *testing.T) {
	long := strings.Repeat("word ", 30)
	stub := &stubGenerator{response: long}
	assistant := NewAssistant(stub, zap.NewNop(), 0)

	insight, err := assistant.GenerateInsight(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(strings.Fields(insight)); got != maxInsightWords {
		t.Fatalf("expected %d words, got %d", maxInsightWords, got)
	}
}

func TestGenerateInsightKeepsFirstLine(t *testing.T) {
	stub := &stubGenerator{response: "\"Apply now, your skills fit.\"\nSecond line to drop."}
	assistant := NewAssistant(stub, zap.NewNop(), 0)

	insight, err := assistant.GenerateInsight(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if insight != "Apply now, your skills fit." {
		t.Fatalf("unexpected insight: %q", insight)
	}
}
