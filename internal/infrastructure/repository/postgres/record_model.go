package postgres

import (
	"time"

	"github.com/bytedance/sonic"

	"github.com/statpulse/harvester/internal/usecase"
)

type recordTableModel struct {
	MatchID      int64     `db:"match_id"`
	CollectedAt  time.Time `db:"collected_at"`
	HomeTeam     string    `db:"home_team"`
	AwayTeam     string    `db:"away_team"`
	Competition  string    `db:"competition"`
	Category     string    `db:"category"`
	Tier         string    `db:"tier"`
	HomeScore    int       `db:"home_score"`
	AwayScore    int       `db:"away_score"`
	Status       string    `db:"status"`
	Venue        string    `db:"venue"`
	Stats        []byte    `db:"stats"`
	Source       string    `db:"source"`
	NonZeroCount int       `db:"non_zero_count"`
	Completeness float64   `db:"completeness"`
	HighQuality  bool      `db:"high_quality"`
}

func toRecordTableModel(record usecase.ResolvedRecord) (recordTableModel, error) {
	stats, err := sonic.Marshal(record.Resolution.Stats)
	if err != nil {
		return recordTableModel{}, err
	}

	return recordTableModel{
		MatchID:      record.Match.ID,
		CollectedAt:  record.CollectedAt.UTC(),
		HomeTeam:     record.Match.HomeTeam,
		AwayTeam:     record.Match.AwayTeam,
		Competition:  record.Match.Competition,
		Category:     record.Match.Category,
		Tier:         record.Tier.String(),
		HomeScore:    record.Match.HomeScore,
		AwayScore:    record.Match.AwayScore,
		Status:       record.Match.Status,
		Venue:        record.Match.Venue,
		Stats:        stats,
		Source:       record.Resolution.Source,
		NonZeroCount: record.Resolution.NonZeroCount,
		Completeness: record.Verdict.Completeness,
		HighQuality:  record.Verdict.HighQuality,
	}, nil
}
