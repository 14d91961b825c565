// Package scheduling implements the SM-2 derived review scheduler and the weak-spot detector.
package scheduling

import (
	"math"
	"time"

	"github.com/eslsoft/masterly/internal/entity"
)

// Mastery component weights; they sum to entity.MaxMasteryLevel.
const (
	accuracyWeight   = 40.0
	repetitionWeight = 30.0
	easeWeight       = 20.0
	streakWeight     = 10.0

	repetitionsForFullCredit = 10.0
	streakForFullCredit      = 5.0
	easeRange                = 1.7
)

// Scheduler computes the next review state of a concept from one review outcome.
type Scheduler struct {
	clock func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the source of "today".
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewScheduler constructs a Scheduler that reads the wall clock unless overridden.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CalculateNextReview applies outcome to concept and returns the updated copy.
// The input is never modified; on error no state is produced.
func (s *Scheduler) CalculateNextReview(concept entity.StudyConcept, outcome entity.ReviewOutcome) (entity.StudyConcept, error) {
	if err := outcome.Validate(); err != nil {
		return entity.StudyConcept{}, err
	}

	next := concept.Clone()
	if next.EaseFactor < entity.MinEaseFactor {
		next.EaseFactor = entity.MinEaseFactor
	}

	if outcome.Quality >= entity.PassingQuality {
		switch next.Repetitions {
		case 0:
			next.IntervalDays = 1
		case 1:
			next.IntervalDays = 3
		default:
			next.IntervalDays = int(roundHalfUp(float64(next.IntervalDays) * next.EaseFactor))
		}
		next.Repetitions++
		next.Streak++
		if next.Streak > next.BestStreak {
			next.BestStreak = next.Streak
		}
	} else {
		next.Repetitions = 0
		next.IntervalDays = 1
		next.Streak = 0
	}
	if next.IntervalDays < 1 {
		next.IntervalDays = 1
	}

	next.EaseFactor = NextEaseFactor(next.EaseFactor, outcome.Quality)

	now := s.clock()
	today := entity.StartOfDay(now)
	next.NextReview = today.AddDate(0, 0, next.IntervalDays)
	next.LastReviewed = &today

	next.TotalReviews++
	if outcome.WasCorrect {
		next.CorrectCount++
	}

	next.MasteryLevel = MasteryLevel(next)
	next.DifficultyRating = DifficultyRating(next)
	next.UpdatedAt = now

	return next, nil
}

// NextEaseFactor applies the SM-2 ease adjustment for quality q, floored at 1.3.
func NextEaseFactor(ef float64, q int) float64 {
	miss := float64(entity.MaxQuality - q)
	updated := ef + 0.1 - miss*(0.08+miss*0.02)
	return math.Max(entity.MinEaseFactor, updated)
}

// MasteryLevel blends accuracy, repetitions, ease and best streak into a 0-100 score.
func MasteryLevel(c entity.StudyConcept) int {
	if c.TotalReviews <= 0 {
		return 0
	}
	accuracy := c.Accuracy() * accuracyWeight
	repetition := math.Min(float64(c.Repetitions)/repetitionsForFullCredit, 1) * repetitionWeight
	ease := clamp((c.EaseFactor-entity.MinEaseFactor)/easeRange*easeWeight, 0, easeWeight)
	streak := math.Min(float64(c.BestStreak)/streakForFullCredit, 1) * streakWeight

	total := roundHalfUp(accuracy + repetition + ease + streak)
	return int(clamp(total, 0, entity.MaxMasteryLevel))
}

// DifficultyRating classifies a concept once it has enough reviews to judge.
func DifficultyRating(c entity.StudyConcept) entity.Difficulty {
	if c.TotalReviews < 3 {
		return entity.DifficultyMedium
	}
	accuracy := c.Accuracy()
	switch {
	case c.EaseFactor >= 2.5 && accuracy >= 0.85:
		return entity.DifficultyEasy
	case c.EaseFactor <= 1.8 || accuracy <= 0.5:
		return entity.DifficultyHard
	default:
		return entity.DifficultyMedium
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
