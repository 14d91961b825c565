package scheduling

import (
	"strings"
	"time"

	"github.com/eslsoft/masterly/internal/entity"
)

// Weak-spot thresholds.
const (
	MinReviewsForWeakSpot = 3
	WeakSpotAccuracy      = 0.5
)

// Detector flags concepts whose accuracy stays below WeakSpotAccuracy.
type Detector struct{}

// NewDetector returns a Detector.
func NewDetector() Detector {
	return Detector{}
}

// Detect returns the weak spot for concept, if any. recentIncorrect is the learner's free-text
// answers from incorrect reviews in chronological order. The result carries no ID or timestamps;
// those belong to the record it is merged into.
func (Detector) Detect(concept entity.StudyConcept, recentIncorrect []string) (entity.WeakSpot, bool) {
	if concept.TotalReviews < MinReviewsForWeakSpot {
		return entity.WeakSpot{}, false
	}
	accuracy := concept.Accuracy()
	if accuracy >= WeakSpotAccuracy {
		return entity.WeakSpot{}, false
	}

	return entity.WeakSpot{
		Key:            concept.Key,
		TimesMissed:    concept.TotalReviews - concept.CorrectCount,
		ErrorPattern:   ErrorPattern(accuracy),
		CommonMistakes: recentMistakes(recentIncorrect),
	}, true
}

// Merge folds a fresh detection into the stored record. Identity, detection time and the
// resolved marker stay with the stored record.
func (Detector) Merge(existing *entity.WeakSpot, detected entity.WeakSpot) entity.WeakSpot {
	if existing == nil {
		return detected.Clone()
	}
	merged := existing.Clone()
	merged.TimesMissed = detected.TimesMissed
	merged.ErrorPattern = detected.ErrorPattern
	merged.CommonMistakes = append([]string(nil), detected.CommonMistakes...)
	return merged
}

// Resolve marks the weak spot resolved at now. It does not re-run detection.
func (Detector) Resolve(spot entity.WeakSpot, now time.Time) entity.WeakSpot {
	resolved := spot.Clone()
	resolved.Resolved = true
	resolved.ResolvedAt = &now
	return resolved
}

// ErrorPattern names the accuracy band of a weak spot.
func ErrorPattern(accuracy float64) string {
	switch {
	case accuracy < 0.25:
		return entity.PatternFundamentalGap
	case accuracy < 0.4:
		return entity.PatternConceptConfusion
	default:
		return entity.PatternOccasionalMistakes
	}
}

func recentMistakes(answers []string) []string {
	out := make([]string, 0, entity.MaxCommonMistakes)
	for i := len(answers) - 1; i >= 0 && len(out) < entity.MaxCommonMistakes; i-- {
		if text := strings.TrimSpace(answers[i]); text != "" {
			out = append(out, text)
		}
	}
	// restore chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
