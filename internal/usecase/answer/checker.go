// Package answer decides whether a submitted answer matches a question's correct answer.
package answer

import (
	"strings"

	"github.com/eslsoft/masterly/internal/entity"
)

var (
	trueVariants  = map[string]struct{}{"true": {}, "t": {}, "yes": {}, "y": {}, "1": {}}
	falseVariants = map[string]struct{}{"false": {}, "f": {}, "no": {}, "n": {}, "0": {}}
)

// Checker compares answers by normalized exact match plus per-type extensions.
type Checker struct{}

// NewChecker returns a Checker.
func NewChecker() Checker {
	return Checker{}
}

// Normalize trims and lowercases an answer.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Check reports whether userAnswer is correct for q.
func (Checker) Check(q entity.TestQuestion, userAnswer string) bool {
	user := Normalize(userAnswer)
	correct := Normalize(q.CorrectAnswer)
	if user == correct {
		return true
	}

	switch q.Type {
	case entity.QuestionMultipleChoice:
		return matchOptionLetter(q.Options, user, correct)
	case entity.QuestionTrueFalse:
		return matchTruthValue(user, correct)
	default:
		return false
	}
}

// matchOptionLetter maps a single letter a-d to the option at that position.
// The letter is never compared to the initial of the correct answer.
func matchOptionLetter(options []string, user, correct string) bool {
	if len(user) != 1 || user[0] < 'a' || user[0] > 'd' {
		return false
	}
	idx := int(user[0] - 'a')
	if idx >= len(options) {
		return false
	}
	return Normalize(options[idx]) == correct
}

func matchTruthValue(user, correct string) bool {
	if _, ok := trueVariants[user]; ok {
		_, same := trueVariants[correct]
		return same
	}
	if _, ok := falseVariants[user]; ok {
		_, same := falseVariants[correct]
		return same
	}
	return false
}
