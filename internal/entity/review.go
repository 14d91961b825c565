package entity

import (
	"fmt"
	"time"
)

// Quality bounds of a review outcome.
const (
	MinQuality = 0
	MaxQuality = 5
	// PassingQuality is the lowest quality that counts as recalled.
	PassingQuality = 3
)

// ReviewOutcome is the result of answering one review of a concept.
type ReviewOutcome struct {
	Quality          int      `json:"quality" yaml:"quality"`
	WasCorrect       bool     `json:"was_correct" yaml:"was_correct"`
	TimeTakenSeconds *float64 `json:"time_taken_seconds,omitempty" yaml:"time_taken_seconds,omitempty"`
}

// Validate checks the quality range and the optional duration.
func (o ReviewOutcome) Validate() error {
	if o.Quality < MinQuality || o.Quality > MaxQuality {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidQuality, o.Quality, MinQuality, MaxQuality)
	}
	if o.TimeTakenSeconds != nil && *o.TimeTakenSeconds < 0 {
		return fmt.Errorf("%w: negative time taken", ErrInvalidQuality)
	}
	return nil
}

// ReviewLog records one answered review so later detections can cite recent mistakes.
type ReviewLog struct {
	Key        ConceptKey `json:"key" yaml:"key"`
	Quality    int        `json:"quality" yaml:"quality"`
	WasCorrect bool       `json:"was_correct" yaml:"was_correct"`
	Answer     string     `json:"answer,omitempty" yaml:"answer,omitempty"`
	ReviewedAt time.Time  `json:"reviewed_at" yaml:"reviewed_at"`
}
