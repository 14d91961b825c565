package scheduling

import (
	"reflect"
	"testing"
	"time"

	"github.com/eslsoft/masterly/internal/entity"
)

func conceptWith(total, correct int) entity.StudyConcept {
	c := freshConcept()
	c.TotalReviews = total
	c.CorrectCount = correct
	return c
}

func TestDetector_Detect(t *testing.T) {
	cases := []struct {
		name        string
		total       int
		correct     int
		wantFlag    bool
		wantPattern string
		wantMissed  int
	}{
		{"two reviews never flagged", 2, 0, false, "", 0},
		{"three reviews all wrong", 3, 0, true, entity.PatternFundamentalGap, 3},
		{"exactly half is not weak", 4, 2, false, "", 0},
		{"just under a quarter", 9, 2, true, entity.PatternFundamentalGap, 7},
		{"quarter band", 4, 1, true, entity.PatternConceptConfusion, 3},
		{"forty percent band", 10, 4, true, entity.PatternOccasionalMistakes, 6},
		{"strong concept", 10, 9, false, "", 0},
	}

	d := NewDetector()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spot, ok := d.Detect(conceptWith(tc.total, tc.correct), nil)
			if ok != tc.wantFlag {
				t.Fatalf("flagged = %v, want %v", ok, tc.wantFlag)
			}
			if !ok {
				return
			}
			if spot.ErrorPattern != tc.wantPattern {
				t.Fatalf("pattern = %q, want %q", spot.ErrorPattern, tc.wantPattern)
			}
			if spot.TimesMissed != tc.wantMissed {
				t.Fatalf("times missed = %d, want %d", spot.TimesMissed, tc.wantMissed)
			}
			if spot.Key != conceptWith(tc.total, tc.correct).Key {
				t.Fatalf("unexpected key %+v", spot.Key)
			}
		})
	}
}

func TestDetector_CommonMistakesKeepsMostRecentFive(t *testing.T) {
	history := []string{"first", "  ", "second", "third", "", "fourth", " fifth ", "sixth"}
	spot, ok := NewDetector().Detect(conceptWith(8, 2), history)
	if !ok {
		t.Fatal("expected weak spot")
	}
	want := []string{"second", "third", "fourth", "fifth", "sixth"}
	if !reflect.DeepEqual(spot.CommonMistakes, want) {
		t.Fatalf("common mistakes = %v, want %v", spot.CommonMistakes, want)
	}
}

func TestDetector_Idempotent(t *testing.T) {
	d := NewDetector()
	c := conceptWith(6, 1)
	history := []string{"mitosis is meiosis"}

	first, _ := d.Detect(c, history)
	second, _ := d.Detect(c, history)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("detections differ: %+v vs %+v", first, second)
	}

	stored := d.Merge(nil, first)
	stored.ID = "ws-1"
	again := d.Merge(&stored, second)
	if !reflect.DeepEqual(stored, again) {
		t.Fatalf("merge changed an identical record: %+v vs %+v", stored, again)
	}
}

func TestDetector_MergeTracksCurrentTotals(t *testing.T) {
	d := NewDetector()
	detectedAt := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	stored := entity.WeakSpot{ID: "ws-1", Key: freshConcept().Key, TimesMissed: 3, DetectedAt: detectedAt}

	later, ok := d.Detect(conceptWith(10, 2), []string{"wrong"})
	if !ok {
		t.Fatal("expected weak spot")
	}
	merged := d.Merge(&stored, later)
	if merged.TimesMissed != 8 {
		t.Fatalf("times missed = %d, want current total 8", merged.TimesMissed)
	}
	if merged.ID != "ws-1" || !merged.DetectedAt.Equal(detectedAt) {
		t.Fatalf("identity not preserved: %+v", merged)
	}
}

func TestDetector_MergeKeepsResolvedMarker(t *testing.T) {
	d := NewDetector()
	resolvedAt := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	stored := entity.WeakSpot{ID: "ws-1", Key: freshConcept().Key, TimesMissed: 3, Resolved: true, ResolvedAt: &resolvedAt}

	again, ok := d.Detect(conceptWith(8, 1), []string{"wrong"})
	if !ok {
		t.Fatal("expected weak spot")
	}
	merged := d.Merge(&stored, again)
	if !merged.Resolved || merged.ResolvedAt == nil || !merged.ResolvedAt.Equal(resolvedAt) {
		t.Fatalf("re-detection must not reopen a resolved spot: %+v", merged)
	}
	if merged.TimesMissed != 7 {
		t.Fatalf("times missed = %d, want 7", merged.TimesMissed)
	}
}

func TestDetector_Resolve(t *testing.T) {
	d := NewDetector()
	spot, _ := d.Detect(conceptWith(3, 0), []string{"a"})
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	resolved := d.Resolve(spot, now)
	if !resolved.Resolved || resolved.ResolvedAt == nil || !resolved.ResolvedAt.Equal(now) {
		t.Fatalf("not resolved: %+v", resolved)
	}
	if spot.Resolved {
		t.Fatal("Resolve modified its input")
	}

	merged := d.Merge(&resolved, spot)
	if !merged.Resolved {
		t.Fatal("merge must keep the resolved marker")
	}
}
