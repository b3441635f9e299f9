package match

import "strings"

const (
	StatusNotStarted = "NOT_STARTED"
	StatusLive       = "LIVE"
	StatusHalftime   = "HALFTIME"
	StatusFinished   = "FINISHED"
	StatusPostponed  = "POSTPONED"
	StatusCancelled  = "CANCELLED"
)

// Summary is one discovered match as reported by the upstream feed.
// A Summary is built fresh every collection cycle and never mutated after
// discovery.
type Summary struct {
	ID          int64
	HomeTeam    string
	AwayTeam    string
	HomeTeamID  int64
	AwayTeamID  int64
	Competition string
	Category    string
	HomeScore   int
	AwayScore   int
	Status      string
	Venue       string
}

func (s Summary) TotalGoals() int {
	return s.HomeScore + s.AwayScore
}

func (s Summary) GoalDiff() int {
	return s.HomeScore - s.AwayScore
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusNotStarted
	}
	switch status {
	case "INPROGRESS", "IN_PLAY", "1H", "2H", "ET":
		return StatusLive
	case "HT":
		return StatusHalftime
	case "FT", "AET", "PEN", "ENDED":
		return StatusFinished
	}
	return status
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusLive, StatusHalftime:
		return true
	default:
		return false
	}
}
