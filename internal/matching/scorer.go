package matching

import (
	"context"
	"time"

	"github.com/seekly/matcher/internal/store"
)

// Factor caps are fixed weights. Their sum (0.90) plus the static bonuses
// (0.20) may slightly exceed 1.0; the orchestrator clamps the aggregate.
const (
	LocationCap   = 0.25
	SalaryCap     = 0.20
	SkillCap      = 0.30
	ExperienceCap = 0.15

	// MinScore is the relevance threshold below which a candidate is dropped.
	MinScore = 0.30
)

// Static bonuses applied once per candidate, outside the factor scorers.
const (
	employmentTypeBonus = 0.10
	urgentBonus         = 0.05
	immediateStartBonus = 0.03
	noExperienceBonus   = 0.02
)

// Experience bands, as fractions of ExperienceCap.
const (
	experienceHighBand    = 1.0
	experienceReducedBand = 0.5
	experienceLowBand     = 0.2

	midLevelYears    = 2.0
	seniorLevelYears = 5.0
)

const (
	// Neutral skill contribution when no profile or skills are supplied:
	// absence of signal, not a penalty.
	skillNeutralFraction = 0.3

	// Fallback formula floor for the skill-count divisor.
	skillFallbackMinDivisor = 3
)

// Contribution is the outcome of one factor for one candidate. Weight is in
// [0, cap] for that factor. Degraded marks values produced by a deterministic
// fallback instead of the language model.
type Contribution struct {
	Weight   float64
	Reason   string
	Degraded bool
}

// FactorScorer scores one independent dimension of relevance. Implementations
// are pure functions of their inputs except the skill scorer, which may call
// the language model. Scorers never fail; degraded paths return a
// Contribution like any other.
type FactorScorer interface {
	Name() string
	Score(ctx context.Context, job *store.JobPosting, c Criteria, profile *store.SeekerProfile, now time.Time) Contribution
}
