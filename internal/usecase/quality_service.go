package usecase

import (
	"github.com/statpulse/harvester/internal/domain/competition"
	"github.com/statpulse/harvester/internal/domain/match"
	"github.com/statpulse/harvester/internal/domain/statistics"
)

const (
	qualityMinNonZero      = 15
	qualityTier1MinNonZero = 12
	possessionSumLow       = 95
	possessionSumHigh      = 105
)

// QualityService scores a resolved record once, at resolution time.
//
// Acceptance is deliberately disjunctive: a record passes either on internal
// consistency (possession and shot sanity plus coverage) or on the relaxed
// tier-1 path, where partial data from a well-covered league is still
// trusted. The two paths are kept separate on purpose, do not collapse them
// into a unified score.
type QualityService struct{}

func NewQualityService() *QualityService {
	return &QualityService{}
}

func (s *QualityService) Assess(record statistics.Record, m match.Summary) statistics.Verdict {
	verdict := statistics.Verdict{Completeness: record.Completeness()}
	nonZero := record.NonZeroCount()

	if consistent(record) && nonZero >= qualityMinNonZero {
		verdict.HighQuality = true
		return verdict
	}

	if competition.Classify(m.Competition) == competition.Tier1 && nonZero >= qualityTier1MinNonZero {
		verdict.HighQuality = true
	}

	return verdict
}

func consistent(record statistics.Record) bool {
	possession := record.Get(statistics.KeyBallPossessionHome) + record.Get(statistics.KeyBallPossessionAway)
	if possession < possessionSumLow || possession > possessionSumHigh {
		return false
	}
	if record.Get(statistics.KeyShotsOnTargetHome) > record.Get(statistics.KeyTotalShotsHome) {
		return false
	}
	if record.Get(statistics.KeyShotsOnTargetAway) > record.Get(statistics.KeyTotalShotsAway) {
		return false
	}
	return true
}
