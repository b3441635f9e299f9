package sofascore

import (
	"strconv"
	"strings"

	"github.com/statpulse/harvester/internal/domain/statistics"
)

// fieldRule maps free-text statistic names from the feed onto one schema
// pair. Rules are evaluated in order with first-match-wins semantics, so
// narrower patterns ("big chances missed", "accurate passes") must precede
// the broader ones they contain. Appending a rule never touches control
// flow, keep it that way.
type fieldRule struct {
	patterns []string
	homeKey  string
	awayKey  string
}

var fieldRules = []fieldRule{
	{[]string{"ball possession", "possession"}, statistics.KeyBallPossessionHome, statistics.KeyBallPossessionAway},
	{[]string{"total shots", "shots total"}, statistics.KeyTotalShotsHome, statistics.KeyTotalShotsAway},
	{[]string{"shots on target", "on target"}, statistics.KeyShotsOnTargetHome, statistics.KeyShotsOnTargetAway},
	{[]string{"shots off target", "off target"}, statistics.KeyShotsOffTargetHome, statistics.KeyShotsOffTargetAway},
	{[]string{"blocked shots", "shots blocked"}, statistics.KeyBlockedShotsHome, statistics.KeyBlockedShotsAway},
	{[]string{"big chances missed"}, statistics.KeyBigChancesMissHome, statistics.KeyBigChancesMissAway},
	{[]string{"big chances"}, statistics.KeyBigChancesHome, statistics.KeyBigChancesAway},
	{[]string{"corner kicks", "corners"}, statistics.KeyCornerKicksHome, statistics.KeyCornerKicksAway},
	{[]string{"offsides", "offside"}, statistics.KeyOffsidesHome, statistics.KeyOffsidesAway},
	{[]string{"fouls"}, statistics.KeyFoulsHome, statistics.KeyFoulsAway},
	{[]string{"yellow cards"}, statistics.KeyYellowCardsHome, statistics.KeyYellowCardsAway},
	{[]string{"red cards"}, statistics.KeyRedCardsHome, statistics.KeyRedCardsAway},
	{[]string{"accurate passes"}, statistics.KeyAccuratePassesHome, statistics.KeyAccuratePassesAway},
	{[]string{"passes"}, statistics.KeyPassesHome, statistics.KeyPassesAway},
	{[]string{"long balls"}, statistics.KeyLongBallsHome, statistics.KeyLongBallsAway},
	{[]string{"crosses"}, statistics.KeyCrossesHome, statistics.KeyCrossesAway},
	{[]string{"dribbles"}, statistics.KeyDribblesHome, statistics.KeyDribblesAway},
	{[]string{"goalkeeper saves", "saves"}, statistics.KeySavesHome, statistics.KeySavesAway},
}

// ExtractStatistics maps a raw feed payload onto the fixed statistic schema.
// The walk is tolerant: endpoints disagree on nesting and key names, and
// anything unrecognized is simply skipped. Running it twice over the same
// payload yields an identical record.
func ExtractStatistics(payload map[string]any) statistics.Record {
	record := statistics.NewRecord()
	if payload == nil {
		return record
	}

	for _, periodItem := range getSlice(payload, "statistics") {
		period, ok := periodItem.(map[string]any)
		if !ok {
			continue
		}
		// Only the full-match period feeds the schema; halves would double
		// count after the ALL period.
		if p := getString(period, "period"); p != "" && !strings.EqualFold(p, "ALL") {
			continue
		}
		for _, groupItem := range getSlice(period, "groups") {
			group, ok := groupItem.(map[string]any)
			if !ok {
				continue
			}
			for _, statItem := range getSlice(group, "statisticsItems") {
				item, ok := statItem.(map[string]any)
				if !ok {
					continue
				}
				applyStatisticsItem(record, item)
			}
		}
	}

	applyIncidents(record, getSlice(payload, "incidents"))

	return record
}

func applyStatisticsItem(record statistics.Record, item map[string]any) {
	name := strings.ToLower(strings.TrimSpace(getString(item, "name")))
	if name == "" {
		return
	}

	for _, rule := range fieldRules {
		if !rule.matches(name) {
			continue
		}
		if home := parseStatValue(item["home"]); home != 0 {
			record.Set(rule.homeKey, home)
		}
		if away := parseStatValue(item["away"]); away != 0 {
			record.Set(rule.awayKey, away)
		}
		return
	}
}

func (r fieldRule) matches(name string) bool {
	for _, pattern := range r.patterns {
		if strings.Contains(name, pattern) {
			return true
		}
	}
	return false
}

// applyIncidents counts discrete card events on top of whatever the
// statistics items produced. Both sources legitimately contribute to the
// same counters, so this pass is additive, not overwriting.
func applyIncidents(record statistics.Record, incidents []any) {
	for _, item := range incidents {
		incident, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if getString(incident, "incidentType") != "card" {
			continue
		}

		home := getBool(incident, "isHome")
		if side := strings.ToLower(getString(incident, "teamSide")); side != "" {
			home = side == "home"
		}

		class := strings.ToLower(getString(incident, "incidentClass"))
		switch {
		case strings.Contains(class, "yellowred"), strings.Contains(class, "red"):
			if home {
				record.Add(statistics.KeyRedCardsHome, 1)
			} else {
				record.Add(statistics.KeyRedCardsAway, 1)
			}
		case strings.Contains(class, "yellow"):
			if home {
				record.Add(statistics.KeyYellowCardsHome, 1)
			} else {
				record.Add(statistics.KeyYellowCardsAway, 1)
			}
		}
	}
}

// parseStatValue coerces the feed's value shapes onto a float: plain
// numbers, percentage strings ("54%"), ratio strings ("3/5", numerator
// only). Anything unparseable reads as zero.
func parseStatValue(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return 0
		}
		if strings.HasSuffix(text, "%") {
			text = strings.TrimSpace(strings.TrimSuffix(text, "%"))
		}
		if idx := strings.Index(text, "/"); idx >= 0 {
			text = strings.TrimSpace(text[:idx])
		}
		if idx := strings.Index(text, " ("); idx >= 0 {
			text = strings.TrimSpace(text[:idx])
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	return 0
}
