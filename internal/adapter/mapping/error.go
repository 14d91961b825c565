package mapping

import (
	"errors"

	"github.com/eslsoft/masterly/internal/entity"
)

// Process exit codes reported by the CLI.
const (
	ExitOK       = 0
	ExitInternal = 1
	ExitUsage    = 2
	ExitNotFound = 3
	ExitConflict = 4
)

// ExitCode maps a domain error to the exit code the CLI terminates with.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, entity.ErrInvalidQuality),
		errors.Is(err, entity.ErrInvalidConfig),
		errors.Is(err, entity.ErrInvalidConcept),
		errors.Is(err, entity.ErrInvalidQuestion),
		errors.Is(err, entity.ErrInvalidQuery),
		errors.Is(err, entity.ErrEmptyQuestionPool),
		errors.Is(err, entity.ErrNoAnswers):
		return ExitUsage
	case errors.Is(err, entity.ErrConceptNotFound),
		errors.Is(err, entity.ErrQuestionNotFound),
		errors.Is(err, entity.ErrWeakSpotNotFound),
		errors.Is(err, entity.ErrSessionNotFound):
		return ExitNotFound
	case errors.Is(err, entity.ErrDuplicateConcept), errors.Is(err, entity.ErrConcurrentUpdate):
		return ExitConflict
	default:
		return ExitInternal
	}
}
