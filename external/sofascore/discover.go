package sofascore

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/statpulse/harvester/internal/domain/match"
)

// LiveMatches discovers the matches currently in play. A failed or empty
// feed answer yields an empty slice, not an error, unless the context is
// already done.
func (c *Client) LiveMatches(ctx context.Context) ([]match.Summary, error) {
	payload, err := c.FetchJSON(ctx, c.liveEventsURL(), false)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.WarnContext(ctx, "live match discovery failed", "error", err)
		return nil, nil
	}

	events := getSlice(payload, "events")
	out := make([]match.Summary, 0, len(events))
	for _, item := range events {
		event, ok := item.(map[string]any)
		if !ok {
			continue
		}
		summary, ok := parseEventSummary(event)
		if !ok {
			continue
		}
		// The live feed keeps just-finished events around for a while.
		if !match.IsLiveStatus(summary.Status) {
			continue
		}
		out = append(out, summary)
	}

	return out, nil
}

// Event fetches a single event by id, live or historical.
func (c *Client) Event(ctx context.Context, matchID int64) (match.Summary, error) {
	payload, err := c.FetchJSON(ctx, c.eventURL(matchID), false)
	if err != nil {
		return match.Summary{}, err
	}

	summary, ok := parseEventSummary(getMap(payload, "event"))
	if !ok {
		return match.Summary{}, crerr.Wrapf(ErrNoData, "event %d", matchID)
	}
	return summary, nil
}

// FindTeamEvent scans a team's recent-events feed for the given match and
// returns the raw event payload when present.
func (c *Client) FindTeamEvent(ctx context.Context, teamID, matchID int64) (map[string]any, error) {
	if teamID <= 0 {
		return nil, crerr.Wrap(ErrNoData, "team id unknown")
	}

	payload, err := c.FetchJSON(ctx, c.teamRecentEventsURL(teamID), false)
	if err != nil {
		return nil, err
	}

	for _, item := range getSlice(payload, "events") {
		event, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if getInt64(event, "id") == matchID {
			return event, nil
		}
	}

	return nil, ErrNoData
}

func parseEventSummary(event map[string]any) (match.Summary, bool) {
	id := getInt64(event, "id")
	if id <= 0 {
		return match.Summary{}, false
	}

	home := getMap(event, "homeTeam")
	away := getMap(event, "awayTeam")
	tournament := getMap(event, "tournament")

	competition := getString(tournament, "name")
	if unique := getMap(tournament, "uniqueTournament"); len(unique) > 0 {
		if name := getString(unique, "name"); name != "" {
			competition = name
		}
	}

	status := getString(getMap(event, "status"), "type")
	if status == "" {
		status = getString(getMap(event, "status"), "description")
	}

	return match.Summary{
		ID:          id,
		HomeTeam:    getString(home, "name"),
		AwayTeam:    getString(away, "name"),
		HomeTeamID:  getInt64(home, "id"),
		AwayTeamID:  getInt64(away, "id"),
		Competition: competition,
		Category:    getString(getMap(tournament, "category"), "name"),
		HomeScore:   int(getFloat(getMap(event, "homeScore"), "current")),
		AwayScore:   int(getFloat(getMap(event, "awayScore"), "current")),
		Status:      match.NormalizeStatus(status),
		Venue:       getString(getMap(event, "venue"), "name"),
	}, true
}

func getMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	out, _ := m[key].(map[string]any)
	return out
}

func getSlice(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	out, _ := m[key].([]any)
	return out
}

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	out, _ := m[key].(string)
	return out
}

func getFloat(m map[string]any, key string) float64 {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func getInt64(m map[string]any, key string) int64 {
	return int64(getFloat(m, key))
}

func getBool(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	out, _ := m[key].(bool)
	return out
}
