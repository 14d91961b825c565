// Package adaptive runs practice tests whose difficulty follows the learner's estimated ability.
package adaptive

import (
	"fmt"

	"github.com/eslsoft/masterly/internal/entity"
)

// Config controls question targeting and termination of a test session.
type Config struct {
	MinQuestions       int     `mapstructure:"min_questions" json:"min_questions"`
	MaxQuestions       int     `mapstructure:"max_questions" json:"max_questions"`
	StartingDifficulty float64 `mapstructure:"starting_difficulty" json:"starting_difficulty"`
	DifficultyStep     float64 `mapstructure:"difficulty_step" json:"difficulty_step"`
	StreakThreshold    int     `mapstructure:"streak_threshold" json:"streak_threshold"`
	TargetAccuracy     float64 `mapstructure:"target_accuracy" json:"target_accuracy"`
}

// DefaultConfig returns a fresh copy of the default configuration.
func DefaultConfig() Config {
	return Config{
		MinQuestions:       5,
		MaxQuestions:       20,
		StartingDifficulty: 5,
		DifficultyStep:     1,
		StreakThreshold:    2,
		TargetAccuracy:     0.7,
	}
}

// Overrides replaces individual fields of a Config; nil fields keep the base value.
type Overrides struct {
	MinQuestions       *int
	MaxQuestions       *int
	StartingDifficulty *float64
	DifficultyStep     *float64
	StreakThreshold    *int
	TargetAccuracy     *float64
}

// Apply returns c with the non-nil overrides applied.
func (c Config) Apply(o Overrides) Config {
	if o.MinQuestions != nil {
		c.MinQuestions = *o.MinQuestions
	}
	if o.MaxQuestions != nil {
		c.MaxQuestions = *o.MaxQuestions
	}
	if o.StartingDifficulty != nil {
		c.StartingDifficulty = *o.StartingDifficulty
	}
	if o.DifficultyStep != nil {
		c.DifficultyStep = *o.DifficultyStep
	}
	if o.StreakThreshold != nil {
		c.StreakThreshold = *o.StreakThreshold
	}
	if o.TargetAccuracy != nil {
		c.TargetAccuracy = *o.TargetAccuracy
	}
	return c
}

// Validate requires positive values and MinQuestions <= MaxQuestions.
func (c Config) Validate() error {
	switch {
	case c.MinQuestions <= 0 || c.MaxQuestions <= 0:
		return fmt.Errorf("%w: question bounds must be positive (min=%d max=%d)", entity.ErrInvalidConfig, c.MinQuestions, c.MaxQuestions)
	case c.MinQuestions > c.MaxQuestions:
		return fmt.Errorf("%w: min questions %d exceeds max %d", entity.ErrInvalidConfig, c.MinQuestions, c.MaxQuestions)
	case c.StartingDifficulty < entity.MinDifficultyScore || c.StartingDifficulty > entity.MaxDifficultyScore:
		return fmt.Errorf("%w: starting difficulty %.2f outside [1,10]", entity.ErrInvalidConfig, c.StartingDifficulty)
	case c.DifficultyStep <= 0:
		return fmt.Errorf("%w: difficulty step must be positive", entity.ErrInvalidConfig)
	case c.StreakThreshold <= 0:
		return fmt.Errorf("%w: streak threshold must be positive", entity.ErrInvalidConfig)
	case c.TargetAccuracy <= 0 || c.TargetAccuracy > 1:
		return fmt.Errorf("%w: target accuracy %.2f outside (0,1]", entity.ErrInvalidConfig, c.TargetAccuracy)
	}
	return nil
}
