package competition

import "strings"

// Tier is a manually curated quality bucket for a competition. It drives
// how aggressively the collector probes a match and how strictly its
// resolved record is validated.
type Tier int

const (
	TierOther Tier = iota
	Tier3
	Tier2
	Tier1
)

func (t Tier) String() string {
	switch t {
	case Tier1:
		return "tier1"
	case Tier2:
		return "tier2"
	case Tier3:
		return "tier3"
	default:
		return "other"
	}
}

// The lists are matched by substring containment against the lower-cased
// competition name, so "2024 UEFA Champions League Final" still lands in
// tier 1. Tier 1 is checked before tier 2 before tier 3; the first hit wins.
var (
	tier1Names = []string{
		"premier league",
		"la liga",
		"serie a",
		"bundesliga",
		"ligue 1",
		"champions league",
		"europa league",
		"world cup",
		"euro",
		"copa america",
		"fa cup",
		"copa del rey",
	}

	tier2Names = []string{
		"championship",
		"eredivisie",
		"primeira liga",
		"super lig",
		"scottish premiership",
		"mls",
		"liga mx",
		"conference league",
		"serie b",
	}

	tier3Names = []string{
		"league one",
		"league two",
		"serie c",
		"ligue 2",
		"segunda division",
		"j1 league",
	}
)

// Classify buckets a competition name into a tier. Empty or unknown names
// fall through to TierOther; there is no failure mode.
func Classify(name string) Tier {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return TierOther
	}

	for _, candidate := range tier1Names {
		if strings.Contains(normalized, candidate) {
			return Tier1
		}
	}
	for _, candidate := range tier2Names {
		if strings.Contains(normalized, candidate) {
			return Tier2
		}
	}
	for _, candidate := range tier3Names {
		if strings.Contains(normalized, candidate) {
			return Tier3
		}
	}

	return TierOther
}
