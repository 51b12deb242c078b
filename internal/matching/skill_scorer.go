package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seekly/matcher/internal/ai"
	"github.com/seekly/matcher/internal/store"
)

type skillScorer struct {
	assistant ai.Assistant
	timeout   time.Duration
	logger    *zap.Logger
}

// NewSkillScorer compares the seeker's skills against the posting text. The
// language-model path is preferred when an assistant is configured; any
// failure degrades to a deterministic substring count.
func NewSkillScorer(assistant ai.Assistant, timeout time.Duration, log *zap.Logger) FactorScorer {
	if timeout <= 0 {
		timeout = DefaultModelTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &skillScorer{assistant: assistant, timeout: timeout, logger: log}
}

func (s *skillScorer) Name() string { return "skills" }

func (s *skillScorer) Score(ctx context.Context, job *store.JobPosting, _ Criteria, profile *store.SeekerProfile, _ time.Time) Contribution {
	if profile == nil || len(profile.Skills) == 0 {
		// No skills supplied: neutral default, not a penalty.
		return Contribution{Weight: skillNeutralFraction * SkillCap}
	}

	jobText := job.SearchText()

	if s.assistant != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		assessment, err := s.assistant.ScoreSkillMatch(callCtx, profile.Skills, jobText)
		cancel()
		if err == nil && assessment != nil {
			return Contribution{
				Weight: float64(assessment.Score) / 100 * SkillCap,
				Reason: assessment.Reason,
			}
		}
		s.logger.Warn("skill match via model failed, using substring fallback",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
	}

	return fallbackSkillScore(profile.Skills, jobText)
}

// fallbackSkillScore counts case-insensitive occurrences of each skill term
// in the posting text: score = min(matches / max(skillCount, 3), 1) × cap.
func fallbackSkillScore(skills []string, jobText string) Contribution {
	lowered := strings.ToLower(jobText)

	matches := 0
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		matches += strings.Count(lowered, skill)
	}

	divisor := len(skills)
	if divisor < skillFallbackMinDivisor {
		divisor = skillFallbackMinDivisor
	}

	ratio := float64(matches) / float64(divisor)
	if ratio > 1 {
		ratio = 1
	}

	reason := ""
	if matches > 0 {
		reason = fmt.Sprintf("%d of your skill mentions appear in the posting", matches)
	}

	return Contribution{Weight: ratio * SkillCap, Reason: reason, Degraded: true}
}
