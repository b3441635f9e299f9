package statistics

import "testing"

func TestSchemaSize(t *testing.T) {
	if got := SchemaSize(); got != 36 {
		t.Fatalf("schema size = %d, want 36", got)
	}

	seen := make(map[string]struct{}, SchemaSize())
	for _, key := range SchemaKeys() {
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate schema key %q", key)
		}
		seen[key] = struct{}{}
	}
}

func TestNonZeroCount(t *testing.T) {
	rec := NewRecord()
	if got := rec.NonZeroCount(); got != 0 {
		t.Fatalf("empty record non-zero count = %d, want 0", got)
	}

	rec.Set(KeyTotalShotsHome, 12)
	rec.Set(KeyTotalShotsAway, 7)
	rec.Set(KeyFoulsHome, 0)
	if got := rec.NonZeroCount(); got != 2 {
		t.Fatalf("non-zero count = %d, want 2", got)
	}
}

func TestFillZeroesFromPreservesNonZeroValues(t *testing.T) {
	fetched := NewRecord()
	fetched.Set(KeyTotalShotsHome, 9)
	fetched.Set(KeyCornerKicksHome, 4)

	estimate := NewRecord()
	estimate.Set(KeyTotalShotsHome, 16)
	estimate.Set(KeyFoulsHome, 10)
	estimate.Set(KeyCornerKicksAway, 3)

	fetched.FillZeroesFrom(estimate)

	if got := fetched.Get(KeyTotalShotsHome); got != 9 {
		t.Fatalf("fetched value overwritten: got %v, want 9", got)
	}
	if got := fetched.Get(KeyFoulsHome); got != 10 {
		t.Fatalf("zero field not filled: got %v, want 10", got)
	}
	if got := fetched.Get(KeyCornerKicksAway); got != 3 {
		t.Fatalf("zero field not filled: got %v, want 3", got)
	}
}

func TestEnhanceRelabelsSourceOnce(t *testing.T) {
	fetched := NewRecord()
	fetched.Set(KeyTotalShotsHome, 9)

	res := NewResolution(fetched, "endpoint_desktop_1")
	enhanced := res.Enhance(NewRecord())
	if enhanced.Source != "endpoint_desktop_1_enhanced" {
		t.Fatalf("source = %q, want endpoint_desktop_1_enhanced", enhanced.Source)
	}

	again := enhanced.Enhance(NewRecord())
	if again.Source != "endpoint_desktop_1_enhanced" {
		t.Fatalf("suffix applied twice: %q", again.Source)
	}
}

func TestResolutionNonZeroCountInvariant(t *testing.T) {
	rec := NewRecord()
	rec.Set(KeyTotalShotsHome, 9)
	rec.Set(KeyTotalShotsAway, 4)
	rec.Set(KeyFoulsHome, 11)

	res := NewResolution(rec, SourceEstimation)
	if res.NonZeroCount != rec.NonZeroCount() {
		t.Fatalf("NonZeroCount = %d, want %d", res.NonZeroCount, rec.NonZeroCount())
	}
}
