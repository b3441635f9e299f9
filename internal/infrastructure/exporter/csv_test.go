package exporter

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statpulse/harvester/internal/domain/competition"
	"github.com/statpulse/harvester/internal/domain/match"
	"github.com/statpulse/harvester/internal/domain/statistics"
	"github.com/statpulse/harvester/internal/usecase"
)

func sampleRecord() usecase.ResolvedRecord {
	stats := statistics.NewRecord()
	stats.Set(statistics.KeyBallPossessionHome, 58)
	stats.Set(statistics.KeyBallPossessionAway, 42)
	stats.Set(statistics.KeyTotalShotsHome, 14)

	return usecase.ResolvedRecord{
		CollectedAt: time.Date(2026, 3, 14, 20, 45, 0, 0, time.UTC),
		Match: match.Summary{
			ID:          777,
			HomeTeam:    "Atletico Madrid",
			AwayTeam:    "Real Madrid",
			Competition: "La Liga",
			Category:    "Spain",
			HomeScore:   2,
			AwayScore:   1,
			Status:      match.StatusLive,
			Venue:       "Metropolitano, Madrid",
		},
		Tier:       competition.Tier1,
		Resolution: statistics.NewResolution(stats, "endpoint_desktop_1"),
		Verdict:    statistics.Verdict{HighQuality: false, Completeness: 8.33},
	}
}

func TestWriteBatchProducesParsableCSV(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir)
	writer.now = func() time.Time { return time.Date(2026, 3, 14, 20, 45, 0, 0, time.UTC) }

	path, err := writer.WriteBatch(context.Background(), []usecase.ResolvedRecord{sampleRecord()})
	require.NoError(t, err)
	assert.Equal(t, dir+"/match_stats_20260314_204500.csv", path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header := rows[0]
	require.Len(t, header, len(metaColumns)+statistics.SchemaSize()+len(provenanceColumns))
	assert.Equal(t, "collected_at", header[0])
	assert.Equal(t, "ball_possession_home", header[len(metaColumns)])
	assert.Equal(t, "high_quality", header[len(header)-1])

	row := rows[1]
	assert.Equal(t, "777", row[1])
	assert.Equal(t, "Atletico Madrid", row[2])
	assert.Equal(t, "tier1", row[6])
	// Venue contains a comma and must round trip through quoting.
	assert.Equal(t, "Metropolitano, Madrid", row[10])
	assert.Equal(t, "58", row[len(metaColumns)])
	assert.Equal(t, "endpoint_desktop_1", row[len(row)-4])
	assert.Equal(t, "3", row[len(row)-3])
	assert.Equal(t, "false", row[len(row)-1])
}

func TestWriteBatchLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir)

	_, err := writer.WriteBatch(context.Background(), []usecase.ResolvedRecord{sampleRecord()})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasSuffix(entries[0].Name(), ".tmp"))
}

func TestWriteBatchZeroStatsRenderAsZero(t *testing.T) {
	record := sampleRecord()
	record.Resolution = statistics.NewResolution(statistics.NewRecord(), statistics.SourceNoData)

	dir := t.TempDir()
	writer := NewCSVWriter(dir)

	path, err := writer.WriteBatch(context.Background(), []usecase.ResolvedRecord{record})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	require.NoError(t, err)
	for i := len(metaColumns); i < len(metaColumns)+statistics.SchemaSize(); i++ {
		assert.Equal(t, "0", rows[1][i])
	}
}
