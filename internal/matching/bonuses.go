package matching

import (
	"strings"

	"github.com/seekly/matcher/internal/store"
)

// staticBonuses applies the small deterministic nudges layered on top of the
// weighted factors. Returned reasons follow the same contract as scorer
// reasons.
func staticBonuses(job *store.JobPosting, c Criteria) Contribution {
	var weight float64
	var reasons []string

	for _, wanted := range c.EmploymentTypes {
		if strings.EqualFold(job.EmploymentType, wanted) {
			weight += employmentTypeBonus
			reasons = append(reasons, "employment type matches your preference")
			break
		}
	}

	if job.Urgent {
		weight += urgentBonus
		reasons = append(reasons, "urgent hiring")
	}

	if job.ImmediateStart {
		weight += immediateStartBonus
		reasons = append(reasons, "immediate start available")
	}

	if job.NoExperienceRequired {
		weight += noExperienceBonus
		reasons = append(reasons, "no prior experience required")
	}

	return Contribution{Weight: weight, Reason: strings.Join(reasons, ", ")}
}
