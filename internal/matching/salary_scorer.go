package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/seekly/matcher/internal/store"
)

type salaryScorer struct{}

// NewSalaryScorer scores the overlap between the posting's salary interval
// and the requested one.
func NewSalaryScorer() FactorScorer {
	return salaryScorer{}
}

func (salaryScorer) Name() string { return "salary" }

func (salaryScorer) Score(_ context.Context, job *store.JobPosting, c Criteria, _ *store.SeekerProfile, _ time.Time) Contribution {
	// A zero-width requested interval carries no signal; skip scoring.
	if c.Salary == nil || c.Salary.Width() <= 0 {
		return Contribution{}
	}

	overlap := job.Salary.Overlap(*c.Salary)
	if overlap <= 0 {
		return Contribution{}
	}

	ratio := float64(overlap) / float64(c.Salary.Width())
	if ratio > 1 {
		ratio = 1
	}

	return Contribution{
		Weight: ratio * SalaryCap,
		Reason: fmt.Sprintf("salary range fits your expectation (%d-%d)", c.Salary.Min, c.Salary.Max),
	}
}
