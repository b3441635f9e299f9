package statistics

import "strings"

// Source labels name which strategy produced the final values of a resolved
// record. Endpoint labels carry a positional index (endpoint_desktop_3 means
// the third desktop candidate succeeded); a label with the "_enhanced"
// suffix was merged with estimated values after a thin fetch.
const (
	SourceTeamEventsFallback = "team_events_fallback"
	SourceEstimation         = "intelligent_estimation"
	SourceNoData             = "no_data"
	SourceLowQualitySkipped  = "low_quality_skipped"

	enhancedSuffix = "_enhanced"
)

// Resolution is the outcome of resolving statistics for one match.
// NonZeroCount always equals the count of nonzero entries in Stats.
type Resolution struct {
	Stats        Record
	Source       string
	NonZeroCount int
}

func NewResolution(stats Record, source string) Resolution {
	if stats == nil {
		stats = NewRecord()
	}
	return Resolution{
		Stats:        stats,
		Source:       source,
		NonZeroCount: stats.NonZeroCount(),
	}
}

// Enhance fills zero-valued fields from estimate and re-labels the source.
// Fetched nonzero values are preserved unchanged.
func (r Resolution) Enhance(estimate Record) Resolution {
	merged := r.Stats.Clone()
	merged.FillZeroesFrom(estimate)
	return Resolution{
		Stats:        merged,
		Source:       MarkEnhanced(r.Source),
		NonZeroCount: merged.NonZeroCount(),
	}
}

func MarkEnhanced(source string) string {
	if strings.HasSuffix(source, enhancedSuffix) {
		return source
	}
	return source + enhancedSuffix
}

func IsEstimated(source string) bool {
	return source == SourceEstimation || strings.HasSuffix(source, enhancedSuffix)
}

// Verdict is the quality assessment attached to a resolved record. It is
// computed once at resolution time and never recomputed.
type Verdict struct {
	HighQuality  bool
	Completeness float64
}
