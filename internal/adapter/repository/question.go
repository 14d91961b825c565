package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/repository"
)

type poolKey struct{ course, topic string }

// QuestionBank serves question pools loaded up front, grouped by course and topic.
type QuestionBank struct {
	mu    sync.RWMutex
	pools map[poolKey][]entity.TestQuestion
}

func NewQuestionBank() *QuestionBank {
	return &QuestionBank{pools: make(map[poolKey][]entity.TestQuestion)}
}

var _ repository.QuestionBank = (*QuestionBank)(nil)

func bankKey(course, topic string) poolKey {
	return poolKey{course: strings.ToLower(strings.TrimSpace(course)), topic: strings.ToLower(strings.TrimSpace(topic))}
}

// Add validates the questions and appends them to the pool of course/topic.
func (b *QuestionBank) Add(course, topic string, questions ...entity.TestQuestion) error {
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	key := bankKey(course, topic)

	b.mu.Lock()
	defer b.mu.Unlock()
	seen := lo.SliceToMap(b.pools[key], func(q entity.TestQuestion) (string, struct{}) { return q.ID, struct{}{} })
	for _, q := range questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q in %s/%s", entity.ErrInvalidQuestion, q.ID, course, topic)
		}
		seen[q.ID] = struct{}{}
		b.pools[key] = append(b.pools[key], q.Clone())
	}
	return nil
}

func (b *QuestionBank) Pool(ctx context.Context, course, topic string) ([]entity.TestQuestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	pool := b.pools[bankKey(course, topic)]
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", entity.ErrEmptyQuestionPool, course, topic)
	}
	return lo.Map(pool, func(q entity.TestQuestion, _ int) entity.TestQuestion { return q.Clone() }), nil
}
