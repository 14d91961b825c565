package entity

import "time"

// Canned error pattern descriptions, chosen by accuracy band.
const (
	PatternFundamentalGap     = "fundamental understanding gap"
	PatternConceptConfusion   = "consistent difficulty / concept confusion"
	PatternOccasionalMistakes = "occasional mistakes, needs more practice"
)

// MaxCommonMistakes caps how many recent wrong answers a weak spot keeps.
const MaxCommonMistakes = 5

// WeakSpot flags a concept whose accuracy stays below half.
type WeakSpot struct {
	ID             string     `json:"id" yaml:"id"`
	Key            ConceptKey `json:"key" yaml:"key"`
	TimesMissed    int        `json:"times_missed" yaml:"times_missed"`
	ErrorPattern   string     `json:"error_pattern" yaml:"error_pattern"`
	CommonMistakes []string   `json:"common_mistakes" yaml:"common_mistakes"`
	Resolved       bool       `json:"resolved" yaml:"resolved"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty" yaml:"resolved_at,omitempty"`
	DetectedAt     time.Time  `json:"detected_at" yaml:"detected_at"`
}

// Clone returns a deep copy.
func (w WeakSpot) Clone() WeakSpot {
	out := w
	out.CommonMistakes = append([]string(nil), w.CommonMistakes...)
	if w.ResolvedAt != nil {
		t := *w.ResolvedAt
		out.ResolvedAt = &t
	}
	return out
}
