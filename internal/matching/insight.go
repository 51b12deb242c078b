package matching

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seekly/matcher/internal/ai"
	"github.com/seekly/matcher/internal/store"
)

// Fallback insight messages. The urgent and no-experience messages take
// priority; the rest are picked pseudo-randomly.
const (
	InsightUrgent       = "This employer is hiring urgently, so expect a fast application process."
	InsightNoExperience = "No prior experience needed here, training is provided on the job."
)

var insightTemplates = []string{
	"This role looks like a solid step for your career, apply while it is open.",
	"Postings like this fill quickly, a short tailored application goes a long way.",
	"Your background could stand out here, highlight your most recent work.",
	"A good match on paper, it is worth a closer look at the full description.",
}

// InsightGenerator produces a one-line rationale per surviving match. The
// language-model path needs a profile and a configured assistant; every other
// case, including any assistant failure, lands on the deterministic fallback.
// Generate never fails.
type InsightGenerator struct {
	assistant ai.Assistant
	timeout   time.Duration
	logger    *zap.Logger
	pick      func(n int) int
}

func NewInsightGenerator(assistant ai.Assistant, timeout time.Duration, log *zap.Logger) *InsightGenerator {
	if timeout <= 0 {
		timeout = DefaultModelTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &InsightGenerator{
		assistant: assistant,
		timeout:   timeout,
		logger:    log,
		pick:      rand.Intn,
	}
}

func (g *InsightGenerator) Generate(ctx context.Context, job *store.JobPosting, profile *store.SeekerProfile) string {
	if g.assistant != nil && profile != nil && len(profile.Skills) > 0 {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		insight, err := g.assistant.GenerateInsight(callCtx, insightPrompt(job, profile))
		cancel()
		if err == nil && strings.TrimSpace(insight) != "" {
			return insight
		}
		g.logger.Warn("insight via model failed, using template fallback",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
	}

	return g.fallback(job)
}

func (g *InsightGenerator) fallback(job *store.JobPosting) string {
	switch {
	case job.Urgent:
		return InsightUrgent
	case job.NoExperienceRequired:
		return InsightNoExperience
	default:
		return insightTemplates[g.pick(len(insightTemplates))]
	}
}

func insightPrompt(job *store.JobPosting, profile *store.SeekerProfile) string {
	return fmt.Sprintf(
		"Write one encouraging, actionable sentence of at most 20 words for a job seeker "+
			"considering the role %q at %q. The seeker's skills: %s. "+
			"Mention the role or company and how the skills apply. Respond with the sentence only.",
		job.Title, job.Employer, strings.Join(profile.Skills, ", "),
	)
}
