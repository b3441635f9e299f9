package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/statpulse/harvester/internal/infrastructure/snapshot"
	"github.com/statpulse/harvester/internal/platform/cache"
	"github.com/statpulse/harvester/internal/platform/logging"
)

// Snapshot document names under the snapshot directory. The external
// analysis process owns this layout.
const (
	snapshotLiveMatches = "live_matches.json"
	snapshotAlerts      = "alerts.json"
)

const (
	freshnessFresh  = "fresh"
	freshnessStale  = "stale"
	freshnessNoData = "no_data"
)

// SnapshotSource reads documents the external analysis process drops on
// disk.
type SnapshotSource interface {
	ReadDocument(ctx context.Context, name string) ([]byte, time.Time, error)
	LatestUpdate(ctx context.Context) (time.Time, bool)
}

// LiveMatchesView is the live-matches dashboard payload.
type LiveMatchesView struct {
	Matches []map[string]any `json:"matches"`
	Count   int              `json:"count"`
	Demo    bool             `json:"demo,omitempty"`
}

// AlertsView is the alerts dashboard payload.
type AlertsView struct {
	Alerts []map[string]any `json:"alerts"`
	Count  int              `json:"count"`
	Demo   bool             `json:"demo,omitempty"`
}

// SystemStatusView reports pipeline liveness as seen from snapshot file
// ages. Field names are part of the dashboard wire contract.
type SystemStatusView struct {
	Stage7Active     bool   `json:"stage7_active"`
	ProcessesRunning bool   `json:"processes_running"`
	LastDataUpdate   string `json:"last_data_update,omitempty"`
	DataFreshness    string `json:"data_freshness"`
}

// DashboardService serves dashboard reads from snapshot files. Missing or
// stale snapshots degrade to demo payloads so the dashboard always renders;
// only a prediction lookup for an unknown match is a client-visible miss.
type DashboardService struct {
	snapshots SnapshotSource
	cache     *cache.Store
	freshness time.Duration
	logger    *logging.Logger
	now       func() time.Time
}

func NewDashboardService(snapshots SnapshotSource, cacheStore *cache.Store, freshness time.Duration, logger *logging.Logger) *DashboardService {
	if freshness <= 0 {
		freshness = 2 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardService{
		snapshots: snapshots,
		cache:     cacheStore,
		freshness: freshness,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *DashboardService) LiveMatches(ctx context.Context) (LiveMatchesView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.LiveMatches")
	defer span.End()

	out, err := s.cached(ctx, "live_matches", func(ctx context.Context) (any, error) {
		matches, ok := s.readList(ctx, snapshotLiveMatches, "matches")
		if !ok {
			return LiveMatchesView{Matches: demoMatches(), Count: len(demoMatches()), Demo: true}, nil
		}
		return LiveMatchesView{Matches: matches, Count: len(matches)}, nil
	})
	if err != nil {
		return LiveMatchesView{}, err
	}
	return out.(LiveMatchesView), nil
}

func (s *DashboardService) Alerts(ctx context.Context) (AlertsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Alerts")
	defer span.End()

	out, err := s.cached(ctx, "alerts", func(ctx context.Context) (any, error) {
		alerts, ok := s.readList(ctx, snapshotAlerts, "alerts")
		if !ok {
			return AlertsView{Alerts: demoAlerts(), Count: len(demoAlerts()), Demo: true}, nil
		}
		return AlertsView{Alerts: alerts, Count: len(alerts)}, nil
	})
	if err != nil {
		return AlertsView{}, err
	}
	return out.(AlertsView), nil
}

// Prediction returns the stored prediction document for one match verbatim.
func (s *DashboardService) Prediction(ctx context.Context, matchID int64) (map[string]any, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Prediction")
	defer span.End()

	if matchID <= 0 {
		return nil, crerr.Wrap(ErrInvalidInput, "match id must be positive")
	}

	key := fmt.Sprintf("prediction:%d", matchID)
	out, err := s.cached(ctx, key, func(ctx context.Context) (any, error) {
		raw, _, readErr := s.snapshots.ReadDocument(ctx, fmt.Sprintf("predictions/%d.json", matchID))
		if readErr != nil {
			if crerr.Is(readErr, snapshot.ErrMissing) {
				return nil, crerr.Wrapf(ErrNotFound, "no prediction for match %d", matchID)
			}
			return nil, readErr
		}

		var doc map[string]any
		if unmarshalErr := sonic.Unmarshal(raw, &doc); unmarshalErr != nil {
			return nil, crerr.Wrapf(ErrNotFound, "prediction for match %d is malformed", matchID)
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

func (s *DashboardService) SystemStatus(ctx context.Context) (SystemStatusView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.SystemStatus")
	defer span.End()

	out, err := s.cached(ctx, "system_status", func(ctx context.Context) (any, error) {
		latest, found := s.snapshots.LatestUpdate(ctx)
		if !found {
			return SystemStatusView{DataFreshness: freshnessNoData}, nil
		}

		view := SystemStatusView{
			LastDataUpdate: latest.UTC().Format(time.RFC3339),
			DataFreshness:  freshnessStale,
		}
		if s.now().Sub(latest) <= s.freshness {
			view.Stage7Active = true
			view.ProcessesRunning = true
			view.DataFreshness = freshnessFresh
		}
		return view, nil
	})
	if err != nil {
		return SystemStatusView{}, err
	}
	return out.(SystemStatusView), nil
}

func (s *DashboardService) cached(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if s.cache == nil {
		return load(ctx)
	}
	return s.cache.GetOrLoad(ctx, key, load)
}

// readList loads a snapshot document holding either a bare JSON array or an
// object wrapping one under wrapKey. Stale or unreadable documents count as
// absent.
func (s *DashboardService) readList(ctx context.Context, name, wrapKey string) ([]map[string]any, bool) {
	raw, modTime, err := s.snapshots.ReadDocument(ctx, name)
	if err != nil {
		if !crerr.Is(err, snapshot.ErrMissing) {
			s.logger.WarnContext(ctx, "snapshot read failed", "document", name, "error", err)
		}
		return nil, false
	}
	if s.now().Sub(modTime) > s.freshness {
		return nil, false
	}

	var asList []map[string]any
	if err := sonic.Unmarshal(raw, &asList); err == nil {
		return asList, true
	}

	var asObject map[string]any
	if err := sonic.Unmarshal(raw, &asObject); err != nil {
		s.logger.WarnContext(ctx, "snapshot document malformed", "document", name, "error", err)
		return nil, false
	}

	items, _ := asObject[wrapKey].([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if entry, ok := item.(map[string]any); ok {
			out = append(out, entry)
		}
	}
	return out, true
}

func demoMatches() []map[string]any {
	return []map[string]any{
		{
			"match_id":    float64(1001),
			"home_team":   "Arsenal",
			"away_team":   "Liverpool",
			"competition": "Premier League",
			"home_score":  float64(1),
			"away_score":  float64(1),
			"status":      "LIVE",
			"demo":        true,
		},
		{
			"match_id":    float64(1002),
			"home_team":   "Barcelona",
			"away_team":   "Sevilla",
			"competition": "La Liga",
			"home_score":  float64(2),
			"away_score":  float64(0),
			"status":      "LIVE",
			"demo":        true,
		},
	}
}

func demoAlerts() []map[string]any {
	return []map[string]any{
		{
			"match_id": float64(1001),
			"type":     "goal_probability",
			"message":  "High goal probability in the next 10 minutes",
			"demo":     true,
		},
	}
}
