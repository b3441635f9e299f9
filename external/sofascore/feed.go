package sofascore

import (
	"context"

	"github.com/statpulse/harvester/internal/domain/match"
	"github.com/statpulse/harvester/internal/domain/statistics"
	"github.com/statpulse/harvester/internal/usecase"
)

// EndpointCandidates exposes the probe list in the shape the resolution
// pipeline consumes.
func (c *Client) EndpointCandidates(matchID int64) []usecase.EndpointCandidate {
	candidates := c.StatisticsCandidates(matchID)
	out := make([]usecase.EndpointCandidate, len(candidates))
	for i, candidate := range candidates {
		out[i] = usecase.EndpointCandidate{
			URL:    candidate.URL,
			Label:  candidate.Label,
			Mobile: candidate.Mobile,
		}
	}
	return out
}

// FetchStatistics fetches one candidate endpoint and maps its payload onto
// the statistic schema.
func (c *Client) FetchStatistics(ctx context.Context, candidate usecase.EndpointCandidate) (statistics.Record, error) {
	payload, err := c.FetchJSON(ctx, candidate.URL, candidate.Mobile)
	if err != nil {
		return nil, err
	}
	return ExtractStatistics(payload), nil
}

// TeamEventStatistics extracts whatever statistics a team's recent-events
// feed carries inline for the given match.
func (c *Client) TeamEventStatistics(ctx context.Context, teamID, matchID int64) (statistics.Record, error) {
	event, err := c.FindTeamEvent(ctx, teamID, matchID)
	if err != nil {
		return nil, err
	}
	return ExtractStatistics(event), nil
}

// MatchSummary resolves a match id into its summary, used by historical
// backfill where no discovery feed supplies the metadata.
func (c *Client) MatchSummary(ctx context.Context, matchID int64) (match.Summary, error) {
	return c.Event(ctx, matchID)
}

var (
	_ usecase.StatisticsFeed = (*Client)(nil)
	_ usecase.MatchLookup    = (*Client)(nil)
)
