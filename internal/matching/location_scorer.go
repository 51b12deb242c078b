package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/seekly/matcher/internal/store"
)

type locationScorer struct{}

// NewLocationScorer scores region and city proximity against the criteria.
func NewLocationScorer() FactorScorer {
	return locationScorer{}
}

func (locationScorer) Name() string { return "location" }

func (locationScorer) Score(_ context.Context, job *store.JobPosting, c Criteria, _ *store.SeekerProfile, _ time.Time) Contribution {
	var weight float64
	var reasons []string

	if c.Region != "" && strings.EqualFold(job.Region, c.Region) {
		weight += 0.8 * LocationCap
		reasons = append(reasons, fmt.Sprintf("located in your region (%s)", job.Region))
	}

	if c.Location != "" && strings.Contains(strings.ToLower(job.City), strings.ToLower(c.Location)) {
		weight += 0.2 * LocationCap
		reasons = append(reasons, fmt.Sprintf("city matches %q", c.Location))
	}

	return Contribution{Weight: weight, Reason: strings.Join(reasons, ", ")}
}
