package usecase

import (
	"context"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statpulse/harvester/internal/infrastructure/snapshot"
	"github.com/statpulse/harvester/internal/platform/logging"
)

type stubSnapshots struct {
	documents map[string][]byte
	modTimes  map[string]time.Time
	latest    time.Time
	hasLatest bool
}

func (s *stubSnapshots) ReadDocument(ctx context.Context, name string) ([]byte, time.Time, error) {
	raw, ok := s.documents[name]
	if !ok {
		return nil, time.Time{}, crerr.Wrapf(snapshot.ErrMissing, "%s", name)
	}
	return raw, s.modTimes[name], nil
}

func (s *stubSnapshots) LatestUpdate(ctx context.Context) (time.Time, bool) {
	return s.latest, s.hasLatest
}

func newDashboard(snapshots SnapshotSource, at time.Time) *DashboardService {
	svc := NewDashboardService(snapshots, nil, 2*time.Minute, logging.NewNop())
	svc.now = func() time.Time { return at }
	return svc
}

func TestLiveMatchesFromFreshSnapshot(t *testing.T) {
	now := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	snapshots := &stubSnapshots{
		documents: map[string][]byte{
			"live_matches.json": []byte(`[{"match_id":9,"home_team":"Ajax"},{"match_id":10,"home_team":"PSV"}]`),
		},
		modTimes: map[string]time.Time{"live_matches.json": now.Add(-30 * time.Second)},
	}

	view, err := newDashboard(snapshots, now).LiveMatches(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, view.Count)
	assert.False(t, view.Demo)
	assert.Equal(t, "Ajax", view.Matches[0]["home_team"])
}

func TestLiveMatchesWrappedObjectSnapshot(t *testing.T) {
	now := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	snapshots := &stubSnapshots{
		documents: map[string][]byte{
			"live_matches.json": []byte(`{"matches":[{"match_id":9}],"count":1}`),
		},
		modTimes: map[string]time.Time{"live_matches.json": now.Add(-time.Minute)},
	}

	view, err := newDashboard(snapshots, now).LiveMatches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	assert.False(t, view.Demo)
}

func TestLiveMatchesStaleSnapshotYieldsDemo(t *testing.T) {
	now := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	snapshots := &stubSnapshots{
		documents: map[string][]byte{
			"live_matches.json": []byte(`[{"match_id":9}]`),
		},
		modTimes: map[string]time.Time{"live_matches.json": now.Add(-10 * time.Minute)},
	}

	view, err := newDashboard(snapshots, now).LiveMatches(context.Background())
	require.NoError(t, err)

	assert.True(t, view.Demo)
	assert.NotEmpty(t, view.Matches)
	assert.Equal(t, len(view.Matches), view.Count)
}

func TestAlertsMissingSnapshotYieldsDemo(t *testing.T) {
	view, err := newDashboard(&stubSnapshots{}, time.Now()).Alerts(context.Background())
	require.NoError(t, err)
	assert.True(t, view.Demo)
	assert.Equal(t, len(view.Alerts), view.Count)
}

func TestPredictionFound(t *testing.T) {
	now := time.Now()
	snapshots := &stubSnapshots{
		documents: map[string][]byte{
			"predictions/42.json": []byte(`{"match_id":42,"goal_next_10min":0.37}`),
		},
		modTimes: map[string]time.Time{"predictions/42.json": now},
	}

	doc, err := newDashboard(snapshots, now).Prediction(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 0.37, doc["goal_next_10min"])
}

func TestPredictionMissing(t *testing.T) {
	_, err := newDashboard(&stubSnapshots{}, time.Now()).Prediction(context.Background(), 42)
	assert.True(t, crerr.Is(err, ErrNotFound))
}

func TestPredictionInvalidID(t *testing.T) {
	_, err := newDashboard(&stubSnapshots{}, time.Now()).Prediction(context.Background(), 0)
	assert.True(t, crerr.Is(err, ErrInvalidInput))
}

func TestSystemStatusFresh(t *testing.T) {
	now := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	snapshots := &stubSnapshots{latest: now.Add(-time.Minute), hasLatest: true}

	view, err := newDashboard(snapshots, now).SystemStatus(context.Background())
	require.NoError(t, err)

	assert.True(t, view.Stage7Active)
	assert.True(t, view.ProcessesRunning)
	assert.Equal(t, "fresh", view.DataFreshness)
	assert.Equal(t, now.Add(-time.Minute).Format(time.RFC3339), view.LastDataUpdate)
}

func TestSystemStatusStale(t *testing.T) {
	now := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	snapshots := &stubSnapshots{latest: now.Add(-time.Hour), hasLatest: true}

	view, err := newDashboard(snapshots, now).SystemStatus(context.Background())
	require.NoError(t, err)

	assert.False(t, view.Stage7Active)
	assert.Equal(t, "stale", view.DataFreshness)
}

func TestSystemStatusNoData(t *testing.T) {
	view, err := newDashboard(&stubSnapshots{}, time.Now()).SystemStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "no_data", view.DataFreshness)
	assert.Empty(t, view.LastDataUpdate)
}
