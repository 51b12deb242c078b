package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seekly/matcher/internal/store"
)

func TestInsightFallbackSpecialCases(t *testing.T) {
	generator := NewInsightGenerator(nil, 0, nil)

	urgent := &store.JobPosting{ID: "u1", Urgent: true, NoExperienceRequired: true}
	assert.Equal(t, InsightUrgent, generator.Generate(context.Background(), urgent, nil),
		"urgent takes priority over no-experience")

	noExp := &store.JobPosting{ID: "n1", NoExperienceRequired: true}
	assert.Equal(t, InsightNoExperience, generator.Generate(context.Background(), noExp, nil))
}

func TestInsightFallbackPicksFromTemplateSet(t *testing.T) {
	generator := NewInsightGenerator(nil, 0, nil)
	job := &store.JobPosting{ID: "t1", Title: "Barista", Employer: "Beanhouse"}

	for range 20 {
		insight := generator.Generate(context.Background(), job, nil)
		assert.Contains(t, insightTemplates, insight)
	}
}

func TestInsightFallbackCoversAllTemplates(t *testing.T) {
	generator := NewInsightGenerator(nil, 0, nil)
	next := 0
	generator.pick = func(n int) int {
		v := next % n
		next++
		return v
	}

	job := &store.JobPosting{ID: "t2"}
	seen := map[string]bool{}
	for range len(insightTemplates) {
		seen[generator.Generate(context.Background(), job, nil)] = true
	}
	assert.Len(t, seen, len(insightTemplates))
}

func TestInsightModelPath(t *testing.T) {
	assistant := &stubAssistant{insight: "Your espresso skills fit Beanhouse well, apply today."}
	generator := NewInsightGenerator(assistant, 0, nil)

	job := &store.JobPosting{ID: "m1", Title: "Barista", Employer: "Beanhouse"}
	profile := &store.SeekerProfile{Skills: []string{"espresso"}}

	assert.Equal(t, assistant.insight, generator.Generate(context.Background(), job, profile))
}

func TestInsightModelFailureNeverSurfaces(t *testing.T) {
	assistant := &stubAssistant{insightErr: errors.New("model down")}
	generator := NewInsightGenerator(assistant, 0, nil)

	job := &store.JobPosting{ID: "f1", Urgent: true}
	profile := &store.SeekerProfile{Skills: []string{"espresso"}}

	assert.Equal(t, InsightUrgent, generator.Generate(context.Background(), job, profile))
}

func TestInsightModelSkippedWithoutProfile(t *testing.T) {
	assistant := &stubAssistant{insight: "should not be used"}
	generator := NewInsightGenerator(assistant, 0, nil)

	job := &store.JobPosting{ID: "p1"}
	insight := generator.Generate(context.Background(), job, nil)

	assert.Contains(t, insightTemplates, insight)
}
