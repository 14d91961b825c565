package entity

// PracticeAnswer is one graded answer fed to mastery analysis.
type PracticeAnswer struct {
	QuestionID string   `json:"question_id,omitempty" yaml:"question_id,omitempty"`
	Concept    string   `json:"concept" yaml:"concept"`
	Correct    bool     `json:"correct" yaml:"correct"`
	TimeTaken  *float64 `json:"time_taken,omitempty" yaml:"time_taken,omitempty"`
}

// ConceptMastery is the per-concept line of a mastery report.
type ConceptMastery struct {
	Mastery        int  `json:"mastery" yaml:"mastery"`
	Correct        int  `json:"correct" yaml:"correct"`
	Total          int  `json:"total" yaml:"total"`
	AvgTimeSeconds *int `json:"avg_time_seconds" yaml:"avg_time_seconds"`
}

// MasterySpot names a concept with its mastery percentage.
type MasterySpot struct {
	Concept     string `json:"concept" yaml:"concept"`
	Mastery     int    `json:"mastery" yaml:"mastery"`
	NeedsReview bool   `json:"needs_review,omitempty" yaml:"needs_review,omitempty"`
}

// MasteryReport summarizes a batch of practice answers.
type MasteryReport struct {
	Course         string                    `json:"course,omitempty" yaml:"course,omitempty"`
	Topic          string                    `json:"topic,omitempty" yaml:"topic,omitempty"`
	OverallMastery int                       `json:"overall_mastery" yaml:"overall_mastery"`
	ConceptMastery map[string]ConceptMastery `json:"concept_mastery" yaml:"concept_mastery"`
	WeakSpots      []MasterySpot             `json:"weak_spots" yaml:"weak_spots"`
	StrongSpots    []MasterySpot             `json:"strong_spots" yaml:"strong_spots"`
	Recommendation string                    `json:"recommendation" yaml:"recommendation"`
	ReadyForTest   bool                      `json:"ready_for_test" yaml:"ready_for_test"`
}
