package sofascore

import "fmt"

// Candidate is one speculative statistics endpoint for a match. The label
// ends up as the resolution's source tag when the candidate wins.
type Candidate struct {
	URL    string
	Label  string
	Mobile bool
}

// StatisticsCandidates returns the ordered probe list for a match. Desktop
// endpoints come first because they answer for most covered competitions;
// the mobile mirror and the period/graph endpoints mop up matches the
// desktop API hides. The resolution pipeline walks this list greedily and
// stops at the first candidate that yields enough fields, so order is a
// latency decision as much as a coverage one.
func (c *Client) StatisticsCandidates(matchID int64) []Candidate {
	desktop := func(path string) string { return fmt.Sprintf("%s/event/%d/%s", c.baseURL, matchID, path) }
	mobile := func(path string) string { return fmt.Sprintf("%s/event/%d/%s", c.mobileBaseURL, matchID, path) }

	return []Candidate{
		{URL: desktop("statistics"), Label: "endpoint_desktop_1"},
		{URL: desktop("statistics/0"), Label: "endpoint_desktop_2"},
		{URL: mobile("statistics"), Label: "endpoint_mobile_1", Mobile: true},
		{URL: desktop("graph"), Label: "endpoint_desktop_3"},
		{URL: desktop("incidents"), Label: "endpoint_desktop_4"},
		{URL: mobile("incidents"), Label: "endpoint_mobile_2", Mobile: true},
		{URL: desktop("statistics/1"), Label: "endpoint_desktop_5"},
		{URL: desktop("statistics/2"), Label: "endpoint_desktop_6"},
		{URL: mobile("graph"), Label: "endpoint_mobile_3", Mobile: true},
		{URL: desktop("summary"), Label: "endpoint_desktop_7"},
		{URL: mobile("statistics/0"), Label: "endpoint_mobile_4", Mobile: true},
	}
}

func (c *Client) eventURL(matchID int64) string {
	return fmt.Sprintf("%s/event/%d", c.baseURL, matchID)
}

func (c *Client) liveEventsURL() string {
	return c.baseURL + "/sport/football/events/live"
}

func (c *Client) teamRecentEventsURL(teamID int64) string {
	return fmt.Sprintf("%s/team/%d/events/last/0", c.baseURL, teamID)
}
