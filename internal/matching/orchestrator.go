package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seekly/matcher/internal/ai"
	"github.com/seekly/matcher/internal/cache"
	"github.com/seekly/matcher/internal/store"
)

const (
	DefaultLimit               = 20
	DefaultRecommendationLimit = 10
	DefaultCacheTTL            = 30 * time.Minute
	DefaultModelTimeout        = 10 * time.Second

	scoringConcurrency = 8
	insightConcurrency = 4

	// Basic matching assigns a fixed linear decay in recency order. It is
	// meant to be visibly lower-fidelity than the scored path.
	basicStartScore = 0.70
	basicDecayStep  = 0.05
	basicFloorScore = 0.05
)

// Engine composes the selector, scorers, insight generator and cache into the
// full matching pipeline.
type Engine struct {
	store    store.Store
	cache    cache.Cache
	selector *CandidateSelector
	resolver *ProfileResolver
	scorers  []FactorScorer
	insights *InsightGenerator
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewEngine wires the default scorer set. A nil assistant disables the
// language-model paths; the engine runs fully on the deterministic fallbacks.
func NewEngine(s store.Store, kv cache.Cache, assistant ai.Assistant, log *zap.Logger) *Engine {
	if kv == nil {
		kv = cache.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		store:    s,
		cache:    kv,
		selector: NewCandidateSelector(s, log),
		resolver: NewProfileResolver(s),
		scorers: []FactorScorer{
			NewLocationScorer(),
			NewSalaryScorer(),
			NewSkillScorer(assistant, DefaultModelTimeout, log),
			NewExperienceScorer(),
		},
		insights: NewInsightGenerator(assistant, DefaultModelTimeout, log),
		logger:   log,
		cacheTTL: DefaultCacheTTL,
		now:      time.Now,
	}
}

// FindMatchingJobs runs the full pipeline for the given criteria. The
// returned error is non-nil only when ctx is cancelled; every other failure
// degrades to basic matching or, as a last resort, an empty list.
func (e *Engine) FindMatchingJobs(ctx context.Context, c Criteria, limit int) (result *Matches, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("matching pipeline panicked", zap.Any("panic", r))
			result, err = &Matches{}, nil
		}
	}()

	if limit <= 0 {
		limit = DefaultLimit
	}
	c = c.normalized()

	cacheKey := ""
	if c.SeekerID != "" {
		cacheKey = fmt.Sprintf("match:%s:%s", c.SeekerID, c.Fingerprint())
		if cached := e.cachedMatches(ctx, cacheKey); cached != nil {
			e.logger.Debug("serving matches from cache", zap.String("key", cacheKey))
			return cached, nil
		}
	}

	matches, err := e.findRanked(ctx, c, limit, cacheKey)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("primary matching failed, falling back to basic matching", zap.Error(err))
		return e.basicMatches(ctx, c, limit), nil
	}

	return matches, nil
}

// Recommendations derives criteria from the seeker's own profile and runs the
// same pipeline.
func (e *Engine) Recommendations(ctx context.Context, seekerID string, limit int) (*Matches, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	c := Criteria{SeekerID: seekerID}

	profile, err := e.resolver.Resolve(ctx, seekerID)
	if err != nil {
		e.logger.Warn("resolving profile for recommendations failed", zap.Error(err))
	}
	if profile != nil {
		if len(profile.PreferredLocations) > 0 {
			c.Location = profile.PreferredLocations[0]
		}
		if profile.ExpectedSalary.Width() > 0 {
			salary := profile.ExpectedSalary
			c.Salary = &salary
		}
	}

	return e.FindMatchingJobs(ctx, c, limit)
}

func (e *Engine) findRanked(ctx context.Context, c Criteria, limit int, cacheKey string) (*Matches, error) {
	profile, err := e.resolver.Resolve(ctx, c.SeekerID)
	if err != nil {
		// Absence is neutral signal; a failed lookup is treated the same way.
		e.logger.Warn("resolving profile failed, scoring without it",
			zap.String("seeker_id", c.SeekerID),
			zap.Error(err),
		)
		profile = nil
	}

	candidates, err := e.selector.Select(ctx, c, limit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		e.logger.Info("no candidates matched the criteria")
		return &Matches{}, nil
	}

	scored := make([]*Match, len(candidates))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(scoringConcurrency)
	for i, job := range candidates {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			scored[i] = e.scoreCandidate(groupCtx, job, c, profile)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	kept := make([]*Match, 0, len(scored))
	for _, match := range scored {
		if match.Score > MinScore {
			kept = append(kept, match)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Job.PostedAt.After(kept[j].Job.PostedAt)
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}

	insightGroup, insightCtx := errgroup.WithContext(ctx)
	insightGroup.SetLimit(insightConcurrency)
	for _, match := range kept {
		insightGroup.Go(func() error {
			if err := insightCtx.Err(); err != nil {
				return err
			}
			match.Insight = e.insights.Generate(insightCtx, match.Job, profile)
			return nil
		})
	}
	if err := insightGroup.Wait(); err != nil {
		return nil, err
	}

	matches := &Matches{Items: kept}

	e.logger.Info("matching completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("dropped", len(candidates)-len(kept)),
		zap.Int("returned", matches.Len()),
	)

	// The cache write happens only after all insights have resolved.
	if cacheKey != "" {
		e.writeCache(ctx, cacheKey, matches)
	}

	e.recordSearch(c, matches.Len())

	return matches, nil
}

func (e *Engine) scoreCandidate(ctx context.Context, job *store.JobPosting, c Criteria, profile *store.SeekerProfile) *Match {
	now := e.now()

	var total float64
	var reasons []string
	for _, scorer := range e.scorers {
		contrib := scorer.Score(ctx, job, c, profile, now)
		total += contrib.Weight
		if contrib.Reason != "" {
			reasons = append(reasons, contrib.Reason)
		}
	}

	bonus := staticBonuses(job, c)
	total += bonus.Weight
	if bonus.Reason != "" {
		reasons = append(reasons, bonus.Reason)
	}

	if total > 1 {
		total = 1
	}
	if total < 0 {
		total = 0
	}

	return &Match{Job: job, Score: total, Reasons: reasons}
}

// basicMatches is the outage fallback: same predicate, no factor scoring,
// scores decay linearly from basicStartScore in recency order.
func (e *Engine) basicMatches(ctx context.Context, c Criteria, limit int) *Matches {
	candidates, err := e.selector.Select(ctx, c, limit)
	if err != nil {
		e.logger.Error("basic matching failed as well, returning empty list", zap.Error(err))
		return &Matches{}
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	matches := &Matches{Items: make([]*Match, 0, len(candidates))}
	score := basicStartScore
	for _, job := range candidates {
		matches.Items = append(matches.Items, &Match{
			Job:     job,
			Score:   score,
			Reasons: []string{"recently posted"},
			Insight: e.insights.fallback(job),
		})
		if score-basicDecayStep >= basicFloorScore {
			score -= basicDecayStep
		}
	}

	e.recordSearch(c, matches.Len())

	return matches
}

func (e *Engine) cachedMatches(ctx context.Context, key string) *Matches {
	payload, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		// Cache trouble degrades to recompute, never blocks a search.
		e.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var matches Matches
	if err := json.Unmarshal(payload, &matches); err != nil {
		e.logger.Debug("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &matches
}

func (e *Engine) writeCache(ctx context.Context, key string, matches *Matches) {
	payload, err := json.Marshal(matches)
	if err != nil {
		e.logger.Debug("marshal matches for cache", zap.Error(err))
		return
	}
	if err := e.cache.Set(ctx, key, payload, e.cacheTTL); err != nil {
		e.logger.Debug("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// recordSearch is fire-and-forget analytics: detached from the request
// context so an abandoned search still logs, failures swallowed.
func (e *Engine) recordSearch(c Criteria, resultCount int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.store.RecordSearch(ctx, c.SeekerID, c.Keyword, c.predicate(), resultCount); err != nil {
			e.logger.Debug("recording search failed", zap.Error(err))
		}
	}()
}
