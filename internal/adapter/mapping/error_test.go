package mapping

import (
	"errors"
	"fmt"
	"testing"

	"github.com/eslsoft/masterly/internal/entity"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{fmt.Errorf("record review: %w", entity.ErrInvalidQuality), ExitUsage},
		{entity.ErrNoAnswers, ExitUsage},
		{fmt.Errorf("list: %w", entity.ErrInvalidQuery), ExitUsage},
		{fmt.Errorf("get: %w", entity.ErrConceptNotFound), ExitNotFound},
		{entity.ErrWeakSpotNotFound, ExitNotFound},
		{fmt.Errorf("update: %w", entity.ErrConcurrentUpdate), ExitConflict},
		{entity.ErrDuplicateConcept, ExitConflict},
		{errors.New("disk on fire"), ExitInternal},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
