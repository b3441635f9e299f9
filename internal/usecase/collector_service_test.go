package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statpulse/harvester/internal/domain/match"
	"github.com/statpulse/harvester/internal/domain/statistics"
	"github.com/statpulse/harvester/internal/platform/logging"
)

type stubBatchWriter struct {
	batches [][]ResolvedRecord
	err     error
}

func (w *stubBatchWriter) WriteBatch(ctx context.Context, records []ResolvedRecord) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.batches = append(w.batches, append([]ResolvedRecord(nil), records...))
	return fmt.Sprintf("exports/batch_%d.csv", len(w.batches)), nil
}

type stubArchive struct {
	saved []ResolvedRecord
	err   error
}

func (a *stubArchive) SaveRecords(ctx context.Context, records []ResolvedRecord) error {
	if a.err != nil {
		return a.err
	}
	a.saved = append(a.saved, records...)
	return nil
}

func liveMatchFixture(id int64, competition string) match.Summary {
	return match.Summary{
		ID:          id,
		HomeTeam:    fmt.Sprintf("Home %d", id),
		AwayTeam:    fmt.Sprintf("Away %d", id),
		HomeTeamID:  id * 10,
		AwayTeamID:  id*10 + 1,
		Competition: competition,
		HomeScore:   1,
		Status:      match.StatusLive,
	}
}

func newTestCollector(feed *stubFeed, writer BatchWriter, archive RecordArchive, maxPerCycle int) (*CollectorService, *ExportService) {
	logger := logging.NewNop()
	exporter := NewExportService(writer, 3, logger)
	resolution := NewResolutionService(feed, nil, logger)
	collector := NewCollectorService(feed, resolution, NewQualityService(), exporter, archive,
		CollectorConfig{MaxMatchesPerCycle: maxPerCycle}, logger)
	return collector, exporter
}

func TestRunCycleCollectsAndBuffers(t *testing.T) {
	feed := &stubFeed{
		liveMatches: []match.Summary{
			liveMatchFixture(1, "Premier League"),
			liveMatchFixture(2, "Eredivisie"),
			liveMatchFixture(3, "Landesliga"),
		},
		candidates: []EndpointCandidate{{URL: "a", Label: "endpoint_desktop_1"}},
		responses:  map[string]statistics.Record{"a": recordWithNonZero(20)},
	}
	collector, exporter := newTestCollector(feed, &stubBatchWriter{}, nil, 12)

	report, err := collector.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Number)
	assert.Equal(t, 3, report.Discovered)
	assert.Equal(t, 0, report.Dropped)
	assert.Equal(t, 3, report.Collected)
	assert.Equal(t, 1, report.Tier1)
	assert.Equal(t, 1, report.Tier2)
	assert.False(t, report.Flushed)
	assert.Equal(t, 3, exporter.Buffered())
}

func TestRunCycleCapsMatchesPerCycle(t *testing.T) {
	matches := make([]match.Summary, 0, 15)
	for i := int64(1); i <= 15; i++ {
		matches = append(matches, liveMatchFixture(i, "Premier League"))
	}
	feed := &stubFeed{
		liveMatches: matches,
		candidates:  []EndpointCandidate{{URL: "a", Label: "endpoint_desktop_1"}},
		responses:   map[string]statistics.Record{"a": recordWithNonZero(20)},
	}
	collector, _ := newTestCollector(feed, &stubBatchWriter{}, nil, 12)

	report, err := collector.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 15, report.Discovered)
	assert.Equal(t, 3, report.Dropped)
	assert.Equal(t, 12, report.Collected)
}

func TestFlushOnEveryThirdCycle(t *testing.T) {
	feed := &stubFeed{
		liveMatches: []match.Summary{liveMatchFixture(1, "Premier League")},
		candidates:  []EndpointCandidate{{URL: "a", Label: "endpoint_desktop_1"}},
		responses:   map[string]statistics.Record{"a": recordWithNonZero(20)},
	}
	writer := &stubBatchWriter{}
	collector, exporter := newTestCollector(feed, writer, nil, 12)

	ctx := context.Background()
	for cycle := 1; cycle <= 6; cycle++ {
		report, err := collector.RunCycle(ctx)
		require.NoError(t, err)
		assert.Equal(t, cycle%3 == 0, report.Flushed, "cycle %d", cycle)
	}

	require.Len(t, writer.batches, 2)
	assert.Len(t, writer.batches[0], 3)
	assert.Len(t, writer.batches[1], 3)
	assert.Equal(t, 0, exporter.Buffered())
}

func TestFailedFlushKeepsBuffer(t *testing.T) {
	writer := &stubBatchWriter{err: fmt.Errorf("disk full")}
	exporter := NewExportService(writer, 1, logging.NewNop())
	exporter.Append(ResolvedRecord{})

	_, _, err := exporter.Flush(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, exporter.Buffered())
}

func TestRunCycleArchivesRecords(t *testing.T) {
	feed := &stubFeed{
		liveMatches: []match.Summary{liveMatchFixture(1, "Premier League")},
		candidates:  []EndpointCandidate{{URL: "a", Label: "endpoint_desktop_1"}},
		responses:   map[string]statistics.Record{"a": recordWithNonZero(20)},
	}
	archive := &stubArchive{}
	collector, _ := newTestCollector(feed, &stubBatchWriter{}, archive, 12)

	_, err := collector.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, archive.saved, 1)
	assert.Equal(t, int64(1), archive.saved[0].Match.ID)
}

func TestRunCycleSurvivesArchiveFailure(t *testing.T) {
	feed := &stubFeed{
		liveMatches: []match.Summary{liveMatchFixture(1, "Premier League")},
		candidates:  []EndpointCandidate{{URL: "a", Label: "endpoint_desktop_1"}},
		responses:   map[string]statistics.Record{"a": recordWithNonZero(20)},
	}
	archive := &stubArchive{err: fmt.Errorf("connection refused")}
	collector, exporter := newTestCollector(feed, &stubBatchWriter{}, archive, 12)

	report, err := collector.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Collected)
	assert.Equal(t, 1, exporter.Buffered())
}

func TestExportSummaryAggregates(t *testing.T) {
	feed := &stubFeed{
		liveMatches: []match.Summary{
			liveMatchFixture(1, "Premier League"),
			liveMatchFixture(2, "Serie A"),
		},
		candidates: []EndpointCandidate{{URL: "a", Label: "endpoint_desktop_1"}},
		responses:  map[string]statistics.Record{"a": recordWithNonZero(20)},
	}
	writer := &stubBatchWriter{}
	collector, exporter := newTestCollector(feed, writer, nil, 12)

	_, err := collector.RunCycle(context.Background())
	require.NoError(t, err)

	summary, path, err := exporter.Flush(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 2, summary.Tier1)
	assert.Equal(t, 2, summary.BySource["endpoint_desktop_1"])
	assert.InDelta(t, 20.0/36.0*100, summary.AvgCompleteness, 0.01)
}
