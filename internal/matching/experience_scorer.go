package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/seekly/matcher/internal/store"
)

type experienceScorer struct{}

// NewExperienceScorer scores the seeker's tenure against the posting's
// experience-level tag.
func NewExperienceScorer() FactorScorer {
	return experienceScorer{}
}

func (experienceScorer) Name() string { return "experience" }

func (experienceScorer) Score(_ context.Context, job *store.JobPosting, _ Criteria, profile *store.SeekerProfile, now time.Time) Contribution {
	years := profile.YearsOfExperience(now)

	switch job.Experience {
	case store.ExperienceEntry:
		// Entry roles are broadly accessible regardless of tenure.
		return Contribution{
			Weight: experienceHighBand * ExperienceCap,
			Reason: "entry-level role, open to all experience levels",
		}
	case store.ExperienceMid:
		if years >= midLevelYears {
			return Contribution{
				Weight: experienceHighBand * ExperienceCap,
				Reason: fmt.Sprintf("your %.0f years of experience fit this mid-level role", years),
			}
		}
		return Contribution{
			Weight: experienceReducedBand * ExperienceCap,
			Reason: "mid-level role, a stretch for your current experience",
		}
	case store.ExperienceSenior:
		if years >= seniorLevelYears {
			return Contribution{
				Weight: experienceHighBand * ExperienceCap,
				Reason: fmt.Sprintf("your %.0f years of experience qualify for this senior role", years),
			}
		}
		return Contribution{
			Weight: experienceLowBand * ExperienceCap,
			Reason: "senior role, requires more experience than your history shows",
		}
	default:
		// Untagged postings give no experience signal either way.
		return Contribution{}
	}
}
