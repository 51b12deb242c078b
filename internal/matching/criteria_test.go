package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seekly/matcher/internal/store"
)

func TestCriteriaNormalizedDefusesInvertedSalary(t *testing.T) {
	c := Criteria{Salary: &store.SalaryRange{Min: 6000, Max: 3000}}
	assert.Nil(t, c.normalized().Salary, "max < min is treated as no constraint")

	c = Criteria{Salary: &store.SalaryRange{Min: 4000, Max: 4000}}
	assert.Nil(t, c.normalized().Salary, "zero-width range carries no signal")

	c = Criteria{Salary: &store.SalaryRange{Min: 3000, Max: 6000}}
	assert.NotNil(t, c.normalized().Salary)
}

func TestCriteriaNormalizedTrims(t *testing.T) {
	c := Criteria{
		SeekerID:        " s1 ",
		Keyword:         " cook ",
		Experience:      " Entry ",
		EmploymentTypes: []string{" full-time ", "  "},
		Categories:      []string{"   "},
	}

	n := c.normalized()
	assert.Equal(t, "s1", n.SeekerID)
	assert.Equal(t, "cook", n.Keyword)
	assert.Equal(t, "entry", n.Experience)
	assert.Equal(t, []string{"full-time"}, n.EmploymentTypes)
	assert.Nil(t, n.Categories)
}

func TestCriteriaFingerprint(t *testing.T) {
	a := Criteria{Keyword: "cook", Region: "Coastal"}
	b := Criteria{Keyword: "cook", Region: "Coastal"}
	c := Criteria{Keyword: "barista", Region: "Coastal"}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestCriteriaFingerprintIgnoresSeekerID(t *testing.T) {
	a := Criteria{SeekerID: "s1", Keyword: "cook"}
	b := Criteria{SeekerID: "s2", Keyword: "cook"}

	// The seeker id is part of the cache key prefix, not the fingerprint.
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestMatchExplanation(t *testing.T) {
	m := &Match{Reasons: []string{"salary fits", "urgent hiring"}}
	assert.Equal(t, "salary fits; urgent hiring", m.Explanation())

	empty := &Match{}
	assert.Empty(t, empty.Explanation())
}
