package entity

import (
	"fmt"
	"strings"
)

// QuestionType selects how an answer is compared.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFreeResponse   QuestionType = "free_response"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionWorkedProblem  QuestionType = "worked_problem"
)

// Difficulty score bounds shared by questions and the adaptive session.
const (
	MinDifficultyScore = 1.0
	MaxDifficultyScore = 10.0
)

// Valid reports whether t is a supported question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionFreeResponse, QuestionTrueFalse, QuestionWorkedProblem:
		return true
	default:
		return false
	}
}

// TestQuestion is an immutable question supplied by the question bank.
type TestQuestion struct {
	ID              string       `json:"id" yaml:"id"`
	ConceptName     string       `json:"concept_name" yaml:"concept_name"`
	Type            QuestionType `json:"type" yaml:"type"`
	Difficulty      Difficulty   `json:"difficulty" yaml:"difficulty"`
	DifficultyScore float64      `json:"difficulty_score" yaml:"difficulty_score"`
	Question        string       `json:"question" yaml:"question"`
	Options         []string     `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer   string       `json:"correct_answer" yaml:"correct_answer"`
	Explanation     string       `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Hints           []string     `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// Validate rejects questions the engine cannot score or place on the difficulty scale.
func (q TestQuestion) Validate() error {
	switch {
	case strings.TrimSpace(q.ID) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidQuestion)
	case !q.Type.Valid():
		return fmt.Errorf("%w: %s has type %q", ErrInvalidQuestion, q.ID, q.Type)
	case !q.Difficulty.Valid():
		return fmt.Errorf("%w: %s has difficulty %q", ErrInvalidQuestion, q.ID, q.Difficulty)
	case q.DifficultyScore < MinDifficultyScore || q.DifficultyScore > MaxDifficultyScore:
		return fmt.Errorf("%w: %s has difficulty score %.2f", ErrInvalidQuestion, q.ID, q.DifficultyScore)
	case q.Type == QuestionMultipleChoice && len(q.Options) == 0:
		return fmt.Errorf("%w: %s is multiple choice without options", ErrInvalidQuestion, q.ID)
	}
	return nil
}

// Clone returns a deep copy.
func (q TestQuestion) Clone() TestQuestion {
	out := q
	out.Options = append([]string(nil), q.Options...)
	out.Hints = append([]string(nil), q.Hints...)
	return out
}
