package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/seekly/matcher/internal/ai"
	"github.com/seekly/matcher/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed skill_prompt.md
var skillPromptTemplate string

const (
	defaultMaxLogLength = 200
	maxInsightWords     = 20
)

// Assistant implements ai.Assistant on top of a Gemini content generator.
type Assistant struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAssistant(generator contentGenerator, log *zap.Logger, maxLogLength int) *Assistant {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Assistant{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// ScoreSkillMatch asks the model for a 0-100 skill fit score with a short
// rationale. The response is expected to be a JSON object but the parser
// tolerates markdown fences and loosely typed fields.
func (a *Assistant) ScoreSkillMatch(ctx context.Context, skills []string, jobText string) (*ai.SkillAssessment, error) {
	if len(skills) == 0 {
		return nil, fmt.Errorf("skills are required")
	}
	if strings.TrimSpace(jobText) == "" {
		return nil, fmt.Errorf("job text is required")
	}

	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("marshal skills payload: %w", err)
	}

	prompt := buildSkillPrompt(string(skillsJSON), jobText)

	a.logger.Debug("gemini skill match request",
		zap.Int("skill_count", len(skills)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini skill match response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	assessment, err := parseSkillResponse(raw)
	if err != nil {
		return nil, err
	}

	assessment.Raw = raw
	return assessment, nil
}

// GenerateInsight sends the prompt as-is and clamps the response to a single
// short sentence.
func (a *Assistant) GenerateInsight(ctx context.Context, prompt string) (string, error) {
	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	insight := firstLine(raw)
	insight = clampWords(insight, maxInsightWords)
	if insight == "" {
		return "", fmt.Errorf("gemini returned an empty insight")
	}
	return insight, nil
}

func buildSkillPrompt(skillsJSON, jobText string) string {
	template := skillPromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Skills:\n{{SKILLS_JSON}}\n\nJob:\n{{JOB_TEXT}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{SKILLS_JSON}}", skillsJSON)
	prompt = strings.ReplaceAll(prompt, "{{JOB_TEXT}}", jobText)
	return prompt
}

func parseSkillResponse(raw string) (*ai.SkillAssessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		return nil, fmt.Errorf("gemini response is missing a numeric score")
	}

	clamped := int(math.Round(score))
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}

	return &ai.SkillAssessment{
		Score:  clamped,
		Reason: coerceString(data["reason"]),
		Source: ai.SourceModel,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		s = s[:idx]
	}
	return strings.Trim(strings.TrimSpace(s), `"`)
}

func clampWords(s string, limit int) string {
	words := strings.Fields(s)
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ")
}
