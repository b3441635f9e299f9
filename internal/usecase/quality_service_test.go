package usecase

import (
	"testing"

	"github.com/statpulse/harvester/internal/domain/match"
	"github.com/statpulse/harvester/internal/domain/statistics"
)

func denseRecord(nonZero int) statistics.Record {
	record := statistics.NewRecord()
	for i, key := range statistics.SchemaKeys() {
		if i >= nonZero {
			break
		}
		record.Set(key, 1)
	}
	return record
}

func TestAssessConsistentDenseRecord(t *testing.T) {
	record := denseRecord(20)
	record.Set(statistics.KeyBallPossessionHome, 54)
	record.Set(statistics.KeyBallPossessionAway, 46)
	record.Set(statistics.KeyTotalShotsHome, 10)
	record.Set(statistics.KeyShotsOnTargetHome, 4)
	record.Set(statistics.KeyTotalShotsAway, 8)
	record.Set(statistics.KeyShotsOnTargetAway, 3)

	verdict := NewQualityService().Assess(record, match.Summary{Competition: "Regionalliga"})
	if !verdict.HighQuality {
		t.Fatal("consistent dense record not rated high quality")
	}
}

func TestAssessRejectsPossessionOutsideTolerance(t *testing.T) {
	record := denseRecord(20)
	record.Set(statistics.KeyBallPossessionHome, 70)
	record.Set(statistics.KeyBallPossessionAway, 20)

	verdict := NewQualityService().Assess(record, match.Summary{Competition: "Regionalliga"})
	if verdict.HighQuality {
		t.Fatal("record with 90% possession sum rated high quality")
	}
}

func TestAssessRejectsImpossibleShots(t *testing.T) {
	record := denseRecord(20)
	record.Set(statistics.KeyBallPossessionHome, 50)
	record.Set(statistics.KeyBallPossessionAway, 50)
	record.Set(statistics.KeyTotalShotsHome, 3)
	record.Set(statistics.KeyShotsOnTargetHome, 7)

	verdict := NewQualityService().Assess(record, match.Summary{Competition: "Regionalliga"})
	if verdict.HighQuality {
		t.Fatal("record with on-target > total rated high quality")
	}
}

func TestAssessTier1RelaxedPath(t *testing.T) {
	record := denseRecord(12)

	tier1 := NewQualityService().Assess(record, match.Summary{Competition: "Serie A"})
	if !tier1.HighQuality {
		t.Fatal("tier1 record with 12 fields not rated high quality")
	}

	other := NewQualityService().Assess(record, match.Summary{Competition: "Oberliga"})
	if other.HighQuality {
		t.Fatal("non-tier1 record with 12 fields rated high quality")
	}
}

func TestAssessCompletenessPercentage(t *testing.T) {
	verdict := NewQualityService().Assess(denseRecord(18), match.Summary{})
	if verdict.Completeness != 50 {
		t.Fatalf("completeness = %v, want 50", verdict.Completeness)
	}
}
