package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/statpulse/harvester/internal/usecase"
)

// RecordRepository archives resolved match records. One row per match per
// collection cycle; rows are append only.
type RecordRepository struct {
	db *sqlx.DB
}

func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

const insertRecordQuery = `
INSERT INTO match_records (
	match_id, collected_at, home_team, away_team, competition, category,
	tier, home_score, away_score, status, venue, stats, source,
	non_zero_count, completeness, high_quality
) VALUES (
	:match_id, :collected_at, :home_team, :away_team, :competition, :category,
	:tier, :home_score, :away_score, :status, :venue, :stats, :source,
	:non_zero_count, :completeness, :high_quality
)`

func (r *RecordRepository) SaveRecords(ctx context.Context, records []usecase.ResolvedRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]recordTableModel, 0, len(records))
	for _, record := range records {
		row, err := toRecordTableModel(record)
		if err != nil {
			return fmt.Errorf("encode record stats for match %d: %w", record.Match.ID, err)
		}
		rows = append(rows, row)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert match records tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertRecordQuery, rows); err != nil {
		return fmt.Errorf("insert match records: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match records: %w", err)
	}

	return nil
}

var _ usecase.RecordArchive = (*RecordRepository)(nil)
