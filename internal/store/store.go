package store

import (
	"context"
	"strings"
	"time"
)

// Experience level tags carried by postings and used as a search filter.
const (
	ExperienceEntry  = "entry"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"
)

// SalaryRange is a closed interval in minor-agnostic units of Currency.
type SalaryRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency,omitempty"`
}

// Width returns the length of the interval. A non-positive width means the
// range carries no usable signal.
func (r SalaryRange) Width() int {
	return r.Max - r.Min
}

// Overlap returns the length of the intersection with other, or zero when the
// intervals are disjoint.
func (r SalaryRange) Overlap(other SalaryRange) int {
	low := r.Min
	if other.Min > low {
		low = other.Min
	}
	high := r.Max
	if other.Max < high {
		high = other.Max
	}
	if high <= low {
		return 0
	}
	return high - low
}

// JobPosting is a read-only snapshot of a posting as stored by the job board.
// The matching engine never mutates it.
type JobPosting struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title"`
	Employer             string      `json:"employer"`
	Description          string      `json:"description,omitempty"`
	City                 string      `json:"city,omitempty"`
	Region               string      `json:"region,omitempty"`
	Salary               SalaryRange `json:"salary"`
	EmploymentType       string      `json:"employment_type,omitempty"`
	Category             string      `json:"category,omitempty"`
	Experience           string      `json:"experience,omitempty"`
	Urgent               bool        `json:"urgent,omitempty"`
	ImmediateStart       bool        `json:"immediate_start,omitempty"`
	NoExperienceRequired bool        `json:"no_experience_required,omitempty"`
	PostedAt             time.Time   `json:"posted_at"`
	Views                int64       `json:"views,omitempty"`
}

// SearchText returns the combined free text of the posting used for keyword
// and skill matching.
func (j *JobPosting) SearchText() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{j.Title, j.Employer, j.Description} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// EmploymentInterval is one prior employment. A nil End means the position is
// still held.
type EmploymentInterval struct {
	Employer string     `json:"employer,omitempty"`
	Title    string     `json:"title,omitempty"`
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end,omitempty"`
}

// Duration returns the interval length, using now for open-ended intervals.
func (i EmploymentInterval) Duration(now time.Time) time.Duration {
	end := now
	if i.End != nil {
		end = *i.End
	}
	if end.Before(i.Start) {
		return 0
	}
	return end.Sub(i.Start)
}

type EducationRecord struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Year        int    `json:"year,omitempty"`
}

// SeekerProfile holds everything a seeker has told us about themselves.
// Loaded fresh per search; the engine treats it as read-only.
type SeekerProfile struct {
	SeekerID           string               `json:"seeker_id"`
	Skills             []string             `json:"skills,omitempty"`
	Employment         []EmploymentInterval `json:"employment,omitempty"`
	Education          []EducationRecord    `json:"education,omitempty"`
	PreferredLocations []string             `json:"preferred_locations,omitempty"`
	ExpectedSalary     SalaryRange          `json:"expected_salary"`
	Summary            string               `json:"summary,omitempty"`
}

// YearsOfExperience sums the durations of all employment intervals.
// Open-ended intervals are counted up to now.
func (p *SeekerProfile) YearsOfExperience(now time.Time) float64 {
	if p == nil {
		return 0
	}
	var total time.Duration
	for _, interval := range p.Employment {
		total += interval.Duration(now)
	}
	return total.Hours() / (24 * 365.25)
}

// Predicate is the structured filter passed to FindActiveJobs. Zero-valued
// fields add no constraint; non-empty fields are combined conjunctively.
// Keyword alone is a disjunction across title, description and employer.
type Predicate struct {
	Keyword         string
	Location        string
	Region          string
	Salary          *SalaryRange
	EmploymentTypes []string
	Categories      []string
	Experience      string
}

// Store is the persistence collaborator for the matching engine.
type Store interface {
	// FindActiveJobs returns up to limit active postings matching the
	// predicate, most recently posted first. An empty result is not an error.
	FindActiveJobs(ctx context.Context, pred Predicate, limit int) ([]*JobPosting, error)

	// FindProfile returns the stored profile for the seeker, or (nil, nil)
	// when the seeker has none. Absence is a valid state, not an error.
	FindProfile(ctx context.Context, seekerID string) (*SeekerProfile, error)

	// RecordSearch persists one analytics row for a completed search.
	// Callers treat it as fire-and-forget.
	RecordSearch(ctx context.Context, seekerID, query string, pred Predicate, resultCount int) error

	// IncrementViews bumps the view counter of a posting.
	IncrementViews(ctx context.Context, jobID string) error
}
