package matching

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/seekly/matcher/internal/store"
)

// Criteria is one search request. Every field is optional; zero-valued fields
// add no constraint. Criteria both narrows the candidate fetch and feeds the
// scorers directly, independent of any stored profile.
type Criteria struct {
	SeekerID        string             `json:"seeker_id,omitempty"`
	Keyword         string             `json:"keyword,omitempty"`
	Location        string             `json:"location,omitempty"`
	Region          string             `json:"region,omitempty"`
	Salary          *store.SalaryRange `json:"salary,omitempty"`
	EmploymentTypes []string           `json:"employment_types,omitempty"`
	Categories      []string           `json:"categories,omitempty"`
	Experience      string             `json:"experience,omitempty"`
}

// normalized returns a copy with whitespace trimmed and malformed fields
// defused. This is a best-effort ranking system: an inverted salary range is
// treated as no constraint, never rejected.
func (c Criteria) normalized() Criteria {
	c.SeekerID = strings.TrimSpace(c.SeekerID)
	c.Keyword = strings.TrimSpace(c.Keyword)
	c.Location = strings.TrimSpace(c.Location)
	c.Region = strings.TrimSpace(c.Region)
	c.Experience = strings.ToLower(strings.TrimSpace(c.Experience))

	if c.Salary != nil && c.Salary.Width() <= 0 {
		c.Salary = nil
	}

	c.EmploymentTypes = trimmed(c.EmploymentTypes)
	c.Categories = trimmed(c.Categories)

	return c
}

// predicate translates the criteria into the structured filter understood by
// the store.
func (c Criteria) predicate() store.Predicate {
	return store.Predicate{
		Keyword:         c.Keyword,
		Location:        c.Location,
		Region:          c.Region,
		Salary:          c.Salary,
		EmploymentTypes: c.EmploymentTypes,
		Categories:      c.Categories,
		Experience:      c.Experience,
	}
}

// Fingerprint returns a stable digest of the scoring-relevant fields, used as
// part of the cache key. The seeker id is keyed separately and excluded here.
func (c Criteria) Fingerprint() string {
	keyed := c
	keyed.SeekerID = ""

	// Criteria has no map fields, so encoding is deterministic.
	payload, err := json.Marshal(keyed)
	if err != nil {
		payload = []byte(fmt.Sprintf("%+v", keyed))
	}

	return fmt.Sprintf("%x", sha256.Sum256(payload))
}

func trimmed(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
