package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/repository"
)

// ReviewLogRepository keeps review history in memory, in append order per concept.
type ReviewLogRepository struct {
	mu   sync.RWMutex
	logs map[entity.ConceptKey][]entity.ReviewLog
}

func NewReviewLogRepository() repository.ReviewLogRepository {
	return &ReviewLogRepository{logs: make(map[entity.ConceptKey][]entity.ReviewLog)}
}

func (r *ReviewLogRepository) Append(ctx context.Context, log entity.ReviewLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Key = log.Key.Normalize()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[log.Key] = append(r.logs[log.Key], log)
	return nil
}

func (r *ReviewLogRepository) RecentIncorrect(ctx context.Context, key entity.ConceptKey, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	r.mu.RLock()
	answers := lo.FilterMap(r.logs[key.Normalize()], func(l entity.ReviewLog, _ int) (string, bool) {
		return l.Answer, !l.WasCorrect && strings.TrimSpace(l.Answer) != ""
	})
	r.mu.RUnlock()

	if len(answers) > limit {
		answers = answers[len(answers)-limit:]
	}
	return answers, nil
}

func (r *ReviewLogRepository) List(ctx context.Context, learnerID string) ([]entity.ReviewLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.ReviewLog
	for key, logs := range r.logs {
		if learnerID != "" && key.LearnerID != learnerID {
			continue
		}
		out = append(out, logs...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReviewedAt.Before(out[j].ReviewedAt)
	})
	return out, nil
}
