package usecase

import (
	"math"
	"strings"

	"github.com/statpulse/harvester/internal/domain/competition"
	"github.com/statpulse/harvester/internal/domain/match"
	"github.com/statpulse/harvester/internal/domain/statistics"
)

// EstimatorService fabricates directionally plausible statistics from the
// only signals that are always available: the score, the competition and
// the match status. It exists so that matches whose statistics endpoints
// 404 (common below the top tiers) still produce a usable record for
// downstream feature engineering.
//
// The arithmetic below is a frozen heuristic, not a calibrated model.
// Downstream training data already embeds its exact shape, so changing any
// formula is a product decision, not a cleanup.
type EstimatorService struct{}

func NewEstimatorService() *EstimatorService {
	return &EstimatorService{}
}

// Estimate always succeeds and never touches the network.
func (s *EstimatorService) Estimate(m match.Summary) statistics.Record {
	record := statistics.NewRecord()

	name := strings.ToLower(m.Competition)
	tier := competition.Classify(m.Competition)

	homePossession, awayPossession := estimatePossession(m)
	record.Set(statistics.KeyBallPossessionHome, homePossession)
	record.Set(statistics.KeyBallPossessionAway, awayPossession)

	multiplier := tierShotMultiplier(tier)
	estimateShots(record, m.HomeScore, multiplier,
		statistics.KeyTotalShotsHome, statistics.KeyShotsOnTargetHome, statistics.KeyShotsOffTargetHome)
	estimateShots(record, m.AwayScore, multiplier,
		statistics.KeyTotalShotsAway, statistics.KeyShotsOnTargetAway, statistics.KeyShotsOffTargetAway)

	fouls := float64(8 + 2*m.TotalGoals())
	if strings.Contains(name, "derby") {
		fouls++
	}
	record.Set(statistics.KeyFoulsHome, fouls)
	record.Set(statistics.KeyFoulsAway, fouls)

	record.Set(statistics.KeyCornerKicksHome, math.Max(2, float64(3+m.HomeScore)))
	record.Set(statistics.KeyCornerKicksAway, math.Max(2, float64(3+m.AwayScore)))

	cardMultiplier := 1.0
	if strings.Contains(name, "champions") || strings.Contains(name, "final") || strings.Contains(name, "derby") {
		cardMultiplier = 1.5
	}
	cards := float64(int(float64(m.TotalGoals()+1) * cardMultiplier))
	record.Set(statistics.KeyYellowCardsHome, cards)
	record.Set(statistics.KeyYellowCardsAway, cards)

	passBase := 150.0
	if tier == competition.Tier1 {
		passBase = 200.0
	}
	estimatePasses(record, passBase, homePossession,
		statistics.KeyPassesHome, statistics.KeyAccuratePassesHome)
	estimatePasses(record, passBase, awayPossession,
		statistics.KeyPassesAway, statistics.KeyAccuratePassesAway)

	return record
}

// estimatePossession always sums to exactly 100. A two-goal lead caps at a
// 70/30 split; closer games track the goal difference around 50/50.
func estimatePossession(m match.Summary) (home, away float64) {
	diff := m.GoalDiff()
	abs := diff
	if abs < 0 {
		abs = -abs
	}

	if abs >= 2 {
		leading := math.Min(70, float64(55+3*abs))
		if diff > 0 {
			return leading, 100 - leading
		}
		return 100 - leading, leading
	}

	home = float64(50 + 2*diff)
	return home, 100 - home
}

func tierShotMultiplier(tier competition.Tier) float64 {
	switch tier {
	case competition.Tier1:
		return 1.5
	case competition.Tier2:
		return 1.2
	default:
		return 1.0
	}
}

func estimateShots(record statistics.Record, goals int, multiplier float64, totalKey, onTargetKey, offTargetKey string) {
	var total float64
	if goals > 0 {
		total = float64(int(math.Max(3, float64(goals*4+3)*multiplier)))
	} else {
		total = float64(int(4 * multiplier))
	}
	onTarget := math.Max(1, float64(goals*2+1))

	record.Set(totalKey, total)
	record.Set(onTargetKey, onTarget)
	record.Set(offTargetKey, total-onTarget)
}

func estimatePasses(record statistics.Record, base, possession float64, passesKey, accurateKey string) {
	if possession == 0 {
		return
	}
	passes := float64(int(base * possession / 50))
	record.Set(passesKey, passes)
	record.Set(accurateKey, float64(int(passes*0.8)))
}
