package entity

import (
	"fmt"
	"time"
)

// Review state defaults for a freshly registered concept.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxMasteryLevel   = 100
)

// StudyConcept is the spaced-repetition state of one concept for one learner.
type StudyConcept struct {
	Key              ConceptKey `json:"key" yaml:"key"`
	EaseFactor       float64    `json:"ease_factor" yaml:"ease_factor"`
	IntervalDays     int        `json:"interval_days" yaml:"interval_days"`
	Repetitions      int        `json:"repetitions" yaml:"repetitions"`
	NextReview       time.Time  `json:"next_review" yaml:"next_review"`
	LastReviewed     *time.Time `json:"last_reviewed,omitempty" yaml:"last_reviewed,omitempty"`
	TotalReviews     int        `json:"total_reviews" yaml:"total_reviews"`
	CorrectCount     int        `json:"correct_count" yaml:"correct_count"`
	Streak           int        `json:"streak" yaml:"streak"`
	BestStreak       int        `json:"best_streak" yaml:"best_streak"`
	DifficultyRating Difficulty `json:"difficulty_rating" yaml:"difficulty_rating"`
	MasteryLevel     int        `json:"mastery_level" yaml:"mastery_level"`
	Archived         bool       `json:"archived,omitempty" yaml:"archived,omitempty"`
	Version          int64      `json:"version" yaml:"version"`
	CreatedAt        time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" yaml:"updated_at"`
}

// NewStudyConcept returns the registration state of a concept: due today, nothing learned yet.
func NewStudyConcept(key ConceptKey, now time.Time) StudyConcept {
	return StudyConcept{
		Key:              key.Normalize(),
		EaseFactor:       DefaultEaseFactor,
		IntervalDays:     1,
		NextReview:       StartOfDay(now),
		DifficultyRating: DifficultyMedium,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Accuracy returns CorrectCount/TotalReviews, or 0 before the first review.
func (c StudyConcept) Accuracy() float64 {
	if c.TotalReviews <= 0 {
		return 0
	}
	return float64(c.CorrectCount) / float64(c.TotalReviews)
}

// IsDue reports whether the concept should be reviewed on the day containing now.
func (c StudyConcept) IsDue(now time.Time) bool {
	return !c.NextReview.After(StartOfDay(now))
}

// Clone returns a deep copy.
func (c StudyConcept) Clone() StudyConcept {
	out := c
	if c.LastReviewed != nil {
		t := *c.LastReviewed
		out.LastReviewed = &t
	}
	return out
}

// Validate rejects records that violate the review-state invariants.
func (c StudyConcept) Validate() error {
	switch {
	case !c.Key.Valid():
		return fmt.Errorf("%w: incomplete key %q", ErrInvalidConcept, c.Key.String())
	case c.EaseFactor < MinEaseFactor:
		return fmt.Errorf("%w: ease factor %.2f below %.1f", ErrInvalidConcept, c.EaseFactor, MinEaseFactor)
	case c.IntervalDays < 1:
		return fmt.Errorf("%w: interval %d days", ErrInvalidConcept, c.IntervalDays)
	case c.Repetitions < 0:
		return fmt.Errorf("%w: negative repetitions", ErrInvalidConcept)
	case c.TotalReviews < 0 || c.CorrectCount < 0 || c.CorrectCount > c.TotalReviews:
		return fmt.Errorf("%w: correct %d of %d reviews", ErrInvalidConcept, c.CorrectCount, c.TotalReviews)
	case c.Streak < 0 || c.Streak > c.BestStreak:
		return fmt.Errorf("%w: streak %d, best %d", ErrInvalidConcept, c.Streak, c.BestStreak)
	case !c.DifficultyRating.Valid():
		return fmt.Errorf("%w: difficulty %q", ErrInvalidConcept, c.DifficultyRating)
	case c.MasteryLevel < 0 || c.MasteryLevel > MaxMasteryLevel:
		return fmt.Errorf("%w: mastery %d", ErrInvalidConcept, c.MasteryLevel)
	}
	return nil
}

// Normalize ensures defaults before persistence.
func (c *StudyConcept) Normalize(now time.Time) {
	c.Key = c.Key.Normalize()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.DifficultyRating == DifficultyUnspecified {
		c.DifficultyRating = DifficultyMedium
	}
	if c.EaseFactor == 0 {
		c.EaseFactor = DefaultEaseFactor
	}
	if c.IntervalDays == 0 {
		c.IntervalDays = 1
	}
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
