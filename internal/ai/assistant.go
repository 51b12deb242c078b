package ai

import "context"

// Source tells which branch produced a value: the language model or the
// deterministic fallback. Tests force the fallback branch by injecting a
// failing assistant rather than by mocking network errors.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// SkillAssessment is the outcome of comparing a seeker's skills against the
// text of one posting. Score is an integer in [0, 100].
type SkillAssessment struct {
	Score  int
	Reason string
	Source Source
	Raw    string
}

// Assistant is the language-model collaborator. Both methods may be
// unavailable at runtime; callers carry their own deterministic fallbacks and
// never propagate an Assistant error to the search result.
type Assistant interface {
	ScoreSkillMatch(ctx context.Context, skills []string, jobText string) (*SkillAssessment, error)
	GenerateInsight(ctx context.Context, prompt string) (string, error)
}
