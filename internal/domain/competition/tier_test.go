package competition

import "testing"

func TestClassifyTier1MatchesIgnoreCaseAndSurroundingText(t *testing.T) {
	cases := []string{
		"Premier League",
		"PREMIER LEAGUE",
		"2024 UEFA Champions League Final",
		"English FA Cup Third Round",
		"Copa del Rey Semifinal",
	}

	for _, name := range cases {
		if got := Classify(name); got != Tier1 {
			t.Fatalf("Classify(%q) = %s, want tier1", name, got)
		}
	}
}

func TestClassifyOrdering(t *testing.T) {
	cases := []struct {
		name string
		want Tier
	}{
		{"EFL Championship", Tier2},
		{"Scottish Premiership", Tier2},
		{"Serie B", Tier2},
		{"League One", Tier3},
		{"Segunda Division", Tier3},
		{"Regionalliga Nordost", TierOther},
		{"", TierOther},
	}

	for _, tc := range cases {
		if got := Classify(tc.name); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}
