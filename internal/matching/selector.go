package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seekly/matcher/internal/store"
)

// overfetchFactor controls how many candidates are requested relative to the
// desired result count, so re-ranking works on relevance rather than recency
// alone.
const overfetchFactor = 2

// CandidateSelector turns criteria into a store predicate and fetches a
// bounded, recency-ordered candidate set.
type CandidateSelector struct {
	store  store.Store
	logger *zap.Logger
}

func NewCandidateSelector(s store.Store, log *zap.Logger) *CandidateSelector {
	if log == nil {
		log = zap.NewNop()
	}
	return &CandidateSelector{store: s, logger: log}
}

// Select fetches up to overfetchFactor×limit active postings. An empty result
// is a valid, common outcome, not an error.
func (s *CandidateSelector) Select(ctx context.Context, c Criteria, limit int) ([]*store.JobPosting, error) {
	candidates, err := s.store.FindActiveJobs(ctx, c.predicate(), limit*overfetchFactor)
	if err != nil {
		return nil, fmt.Errorf("find active jobs: %w", err)
	}

	s.logger.Debug("candidate selection",
		zap.Int("requested", limit*overfetchFactor),
		zap.Int("fetched", len(candidates)),
	)

	return candidates, nil
}

// ProfileResolver loads a seeker's stored profile. Absence is a valid state.
type ProfileResolver struct {
	store store.Store
}

func NewProfileResolver(s store.Store) *ProfileResolver {
	return &ProfileResolver{store: s}
}

// Resolve returns (nil, nil) for an unknown or empty seeker id; downstream
// scorers treat a nil profile as neutral signal.
func (r *ProfileResolver) Resolve(ctx context.Context, seekerID string) (*store.SeekerProfile, error) {
	if seekerID == "" {
		return nil, nil
	}

	profile, err := r.store.FindProfile(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return profile, nil
}
