package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/repository"
	"github.com/eslsoft/masterly/pkg/filterexpr"
)

// ConceptRepository is an in-memory concept store keyed by ConceptKey.
type ConceptRepository struct {
	mu    sync.RWMutex
	items map[entity.ConceptKey]entity.StudyConcept
}

// NewConceptRepository constructs an empty store.
func NewConceptRepository() repository.ConceptRepository {
	return &ConceptRepository{items: make(map[entity.ConceptKey]entity.StudyConcept)}
}

func (r *ConceptRepository) Create(ctx context.Context, concept entity.StudyConcept) (entity.StudyConcept, error) {
	if err := ctx.Err(); err != nil {
		return entity.StudyConcept{}, err
	}
	concept.Key = concept.Key.Normalize()
	if err := concept.Validate(); err != nil {
		return entity.StudyConcept{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[concept.Key]; exists {
		return entity.StudyConcept{}, fmt.Errorf("%w: %s", entity.ErrDuplicateConcept, concept.Key)
	}
	concept.Version = 1
	r.items[concept.Key] = concept.Clone()
	return concept.Clone(), nil
}

// Update replaces the stored record when concept.Version matches, then bumps the version.
func (r *ConceptRepository) Update(ctx context.Context, concept entity.StudyConcept) (entity.StudyConcept, error) {
	if err := ctx.Err(); err != nil {
		return entity.StudyConcept{}, err
	}
	concept.Key = concept.Key.Normalize()
	if err := concept.Validate(); err != nil {
		return entity.StudyConcept{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[concept.Key]
	if !ok {
		return entity.StudyConcept{}, fmt.Errorf("%w: %s", entity.ErrConceptNotFound, concept.Key)
	}
	if stored.Version != concept.Version {
		return entity.StudyConcept{}, fmt.Errorf("%w: %s at version %d, have %d",
			entity.ErrConcurrentUpdate, concept.Key, stored.Version, concept.Version)
	}
	concept.Version++
	concept.CreatedAt = stored.CreatedAt
	r.items[concept.Key] = concept.Clone()
	return concept.Clone(), nil
}

func (r *ConceptRepository) Get(ctx context.Context, key entity.ConceptKey) (entity.StudyConcept, error) {
	if err := ctx.Err(); err != nil {
		return entity.StudyConcept{}, err
	}
	key = key.Normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[key]
	if !ok {
		return entity.StudyConcept{}, fmt.Errorf("%w: %s", entity.ErrConceptNotFound, key)
	}
	return c.Clone(), nil
}

// List returns one page of the learner's concepts matching the query filter, plus the total match count.
func (r *ConceptRepository) List(ctx context.Context, query *repository.ListConceptQuery) ([]entity.StudyConcept, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if query == nil {
		query = &repository.ListConceptQuery{}
	}

	r.mu.RLock()
	owned := lo.FilterMap(lo.Values(r.items), func(c entity.StudyConcept, _ int) (entity.StudyConcept, bool) {
		return c.Clone(), query.LearnerID == "" || c.Key.LearnerID == query.LearnerID
	})
	r.mu.RUnlock()
	slices.SortFunc(owned, func(a, b entity.StudyConcept) int {
		return strings.Compare(a.Key.String(), b.Key.String())
	})

	matched, err := filterexpr.Apply(owned, &query.FilterOrder, listConceptsSchema)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", entity.ErrInvalidQuery, err)
	}

	total := int64(len(matched))
	if query.PageSize <= 0 {
		return matched, total, nil
	}
	offset := int(query.Offset())
	if offset >= len(matched) {
		return []entity.StudyConcept{}, total, nil
	}
	end := lo.Min([]int{offset + int(query.PageSize), len(matched)})
	return matched[offset:end], total, nil
}
