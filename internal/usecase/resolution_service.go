package usecase

import (
	"context"
	"strings"

	"github.com/statpulse/harvester/internal/domain/competition"
	"github.com/statpulse/harvester/internal/domain/match"
	"github.com/statpulse/harvester/internal/domain/statistics"
	"github.com/statpulse/harvester/internal/platform/logging"
)

// EndpointCandidate is one speculative statistics endpoint for a match,
// in probe order.
type EndpointCandidate struct {
	URL    string
	Label  string
	Mobile bool
}

// StatisticsFeed is the upstream data provider as the resolution pipeline
// sees it. Implementations degrade every transient failure to an error the
// pipeline treats as plain data absence.
type StatisticsFeed interface {
	LiveMatches(ctx context.Context) ([]match.Summary, error)
	EndpointCandidates(matchID int64) []EndpointCandidate
	FetchStatistics(ctx context.Context, candidate EndpointCandidate) (statistics.Record, error)
	TeamEventStatistics(ctx context.Context, teamID, matchID int64) (statistics.Record, error)
}

const (
	// A candidate wins as soon as it yields this many nonzero fields;
	// later candidates are never probed.
	resolveAcceptThreshold = 5

	// Records thinner than this get estimated values merged into their
	// zero fields before publication.
	resolveEnhanceThreshold = 10
)

var exclusionKeywords = []string{
	"reserve", "youth", "u-21", "u-19", "u-17", "academy", "amateur", "friendly",
}

// ResolutionService turns one discovered match into a statistics record by
// walking endpoint candidates, then the team recent-events feeds, then the
// estimator. It never fails: the worst outcome is a fully estimated record.
type ResolutionService struct {
	feed      StatisticsFeed
	estimator *EstimatorService
	logger    *logging.Logger
}

func NewResolutionService(feed StatisticsFeed, estimator *EstimatorService, logger *logging.Logger) *ResolutionService {
	if estimator == nil {
		estimator = NewEstimatorService()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ResolutionService{
		feed:      feed,
		estimator: estimator,
		logger:    logger,
	}
}

func (s *ResolutionService) Resolve(ctx context.Context, m match.Summary) statistics.Resolution {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolutionService.Resolve")
	defer span.End()

	if m.ID <= 0 {
		return statistics.NewResolution(nil, statistics.SourceNoData)
	}

	tier := competition.Classify(m.Competition)
	if s.shouldSkip(m, tier) {
		s.logger.DebugContext(ctx, "skipping low-quality competition",
			"match_id", m.ID, "competition", m.Competition)
		return statistics.NewResolution(nil, statistics.SourceLowQualitySkipped)
	}

	resolved, found := s.resolveFromEndpoints(ctx, m)
	if !found {
		resolved, found = s.resolveFromTeamEvents(ctx, m)
	}
	if !found {
		return statistics.NewResolution(s.estimator.Estimate(m), statistics.SourceEstimation)
	}

	if resolved.NonZeroCount < resolveEnhanceThreshold {
		resolved = resolved.Enhance(s.estimator.Estimate(m))
	}

	return resolved
}

// shouldSkip drops youth/reserve/friendly fixtures outside the two top
// tiers before any network traffic is spent on them.
func (s *ResolutionService) shouldSkip(m match.Summary, tier competition.Tier) bool {
	if tier == competition.Tier1 || tier == competition.Tier2 {
		return false
	}
	name := strings.ToLower(m.Competition)
	for _, keyword := range exclusionKeywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// resolveFromEndpoints walks the candidate list greedily and stops at the
// first candidate yielding enough nonzero fields. Later candidates are
// never fetched once one wins.
func (s *ResolutionService) resolveFromEndpoints(ctx context.Context, m match.Summary) (statistics.Resolution, bool) {
	for _, candidate := range s.feed.EndpointCandidates(m.ID) {
		if ctx.Err() != nil {
			return statistics.Resolution{}, false
		}

		record, err := s.feed.FetchStatistics(ctx, candidate)
		if err != nil {
			s.logger.DebugContext(ctx, "endpoint candidate yielded nothing",
				"match_id", m.ID, "endpoint", candidate.Label, "error", err)
			continue
		}

		if count := record.NonZeroCount(); count >= resolveAcceptThreshold {
			s.logger.DebugContext(ctx, "endpoint candidate accepted",
				"match_id", m.ID, "endpoint", candidate.Label, "non_zero", count)
			return statistics.NewResolution(record, candidate.Label), true
		}
	}
	return statistics.Resolution{}, false
}

func (s *ResolutionService) resolveFromTeamEvents(ctx context.Context, m match.Summary) (statistics.Resolution, bool) {
	for _, teamID := range []int64{m.HomeTeamID, m.AwayTeamID} {
		if teamID <= 0 || ctx.Err() != nil {
			continue
		}

		record, err := s.feed.TeamEventStatistics(ctx, teamID, m.ID)
		if err != nil {
			continue
		}
		if record.NonZeroCount() > 0 {
			return statistics.NewResolution(record, statistics.SourceTeamEventsFallback), true
		}
	}
	return statistics.Resolution{}, false
}
