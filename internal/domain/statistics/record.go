package statistics

// The fixed statistic schema. Every resolved record carries exactly these
// keys; a key the resolution never touched reads as zero. Downstream feature
// engineering depends on the key set and its order staying stable, so new
// statistics are appended at the end of the pair list.
const (
	KeyBallPossessionHome = "ball_possession_home"
	KeyBallPossessionAway = "ball_possession_away"
	KeyTotalShotsHome     = "total_shots_home"
	KeyTotalShotsAway     = "total_shots_away"
	KeyShotsOnTargetHome  = "shots_on_target_home"
	KeyShotsOnTargetAway  = "shots_on_target_away"
	KeyShotsOffTargetHome = "shots_off_target_home"
	KeyShotsOffTargetAway = "shots_off_target_away"
	KeyBlockedShotsHome   = "blocked_shots_home"
	KeyBlockedShotsAway   = "blocked_shots_away"
	KeyBigChancesHome     = "big_chances_home"
	KeyBigChancesAway     = "big_chances_away"
	KeyBigChancesMissHome = "big_chances_missed_home"
	KeyBigChancesMissAway = "big_chances_missed_away"
	KeyCornerKicksHome    = "corner_kicks_home"
	KeyCornerKicksAway    = "corner_kicks_away"
	KeyOffsidesHome       = "offsides_home"
	KeyOffsidesAway       = "offsides_away"
	KeyFoulsHome          = "fouls_home"
	KeyFoulsAway          = "fouls_away"
	KeyYellowCardsHome    = "yellow_cards_home"
	KeyYellowCardsAway    = "yellow_cards_away"
	KeyRedCardsHome       = "red_cards_home"
	KeyRedCardsAway       = "red_cards_away"
	KeyPassesHome         = "passes_home"
	KeyPassesAway         = "passes_away"
	KeyAccuratePassesHome = "accurate_passes_home"
	KeyAccuratePassesAway = "accurate_passes_away"
	KeyLongBallsHome      = "long_balls_home"
	KeyLongBallsAway      = "long_balls_away"
	KeyCrossesHome        = "crosses_home"
	KeyCrossesAway        = "crosses_away"
	KeyDribblesHome       = "dribbles_home"
	KeyDribblesAway       = "dribbles_away"
	KeySavesHome          = "goalkeeper_saves_home"
	KeySavesAway          = "goalkeeper_saves_away"
)

var schemaKeys = []string{
	KeyBallPossessionHome, KeyBallPossessionAway,
	KeyTotalShotsHome, KeyTotalShotsAway,
	KeyShotsOnTargetHome, KeyShotsOnTargetAway,
	KeyShotsOffTargetHome, KeyShotsOffTargetAway,
	KeyBlockedShotsHome, KeyBlockedShotsAway,
	KeyBigChancesHome, KeyBigChancesAway,
	KeyBigChancesMissHome, KeyBigChancesMissAway,
	KeyCornerKicksHome, KeyCornerKicksAway,
	KeyOffsidesHome, KeyOffsidesAway,
	KeyFoulsHome, KeyFoulsAway,
	KeyYellowCardsHome, KeyYellowCardsAway,
	KeyRedCardsHome, KeyRedCardsAway,
	KeyPassesHome, KeyPassesAway,
	KeyAccuratePassesHome, KeyAccuratePassesAway,
	KeyLongBallsHome, KeyLongBallsAway,
	KeyCrossesHome, KeyCrossesAway,
	KeyDribblesHome, KeyDribblesAway,
	KeySavesHome, KeySavesAway,
}

// SchemaKeys returns the full statistic key set in canonical (CSV column)
// order. Callers must not mutate the returned slice.
func SchemaKeys() []string {
	return schemaKeys
}

// SchemaSize is the number of keys in the fixed statistic schema.
func SchemaSize() int {
	return len(schemaKeys)
}

// Record maps statistic keys onto numeric values. Absent keys read as zero.
type Record map[string]float64

func NewRecord() Record {
	return make(Record, len(schemaKeys))
}

func (r Record) Get(key string) float64 {
	return r[key]
}

func (r Record) Set(key string, value float64) {
	r[key] = value
}

func (r Record) Add(key string, delta float64) {
	r[key] += delta
}

// NonZeroCount reports how many schema keys hold a nonzero value.
func (r Record) NonZeroCount() int {
	count := 0
	for _, key := range schemaKeys {
		if r[key] != 0 {
			count++
		}
	}
	return count
}

// Completeness is the share of the schema populated with nonzero values,
// as a percentage.
func (r Record) Completeness() float64 {
	return float64(r.NonZeroCount()) / float64(len(schemaKeys)) * 100
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}

// FillZeroesFrom copies values from other into keys this record holds at
// zero. Nonzero values already present are never overwritten.
func (r Record) FillZeroesFrom(other Record) {
	for _, key := range schemaKeys {
		if r[key] == 0 && other[key] != 0 {
			r[key] = other[key]
		}
	}
}
