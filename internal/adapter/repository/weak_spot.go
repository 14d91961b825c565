package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/repository"
)

// WeakSpotRepository stores weak spots in memory, one per concept key.
type WeakSpotRepository struct {
	mu    sync.RWMutex
	byID  map[string]entity.WeakSpot
	byKey map[entity.ConceptKey]string
	clock func() time.Time
	newID func() string
}

func NewWeakSpotRepository() repository.WeakSpotRepository {
	return &WeakSpotRepository{
		byID:  make(map[string]entity.WeakSpot),
		byKey: make(map[entity.ConceptKey]string),
		clock: time.Now,
		newID: uuid.NewString,
	}
}

// Upsert inserts a spot for a new key, assigning ID and DetectedAt, or replaces the existing record
// for that key while keeping its identity.
func (r *WeakSpotRepository) Upsert(ctx context.Context, spot entity.WeakSpot) (entity.WeakSpot, error) {
	if err := ctx.Err(); err != nil {
		return entity.WeakSpot{}, err
	}
	spot.Key = spot.Key.Normalize()
	if !spot.Key.Valid() {
		return entity.WeakSpot{}, fmt.Errorf("%w: incomplete key %q", entity.ErrInvalidConcept, spot.Key.String())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byKey[spot.Key]; ok {
		existing := r.byID[id]
		spot.ID = existing.ID
		spot.DetectedAt = existing.DetectedAt
	} else {
		if spot.ID == "" {
			spot.ID = r.newID()
		}
		if spot.DetectedAt.IsZero() {
			spot.DetectedAt = r.clock()
		}
		r.byKey[spot.Key] = spot.ID
	}
	r.byID[spot.ID] = spot.Clone()
	return spot.Clone(), nil
}

func (r *WeakSpotRepository) GetByID(ctx context.Context, id string) (entity.WeakSpot, error) {
	if err := ctx.Err(); err != nil {
		return entity.WeakSpot{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	spot, ok := r.byID[id]
	if !ok {
		return entity.WeakSpot{}, fmt.Errorf("%w: %s", entity.ErrWeakSpotNotFound, id)
	}
	return spot.Clone(), nil
}

// FindByKey returns nil when the concept has never been flagged.
func (r *WeakSpotRepository) FindByKey(ctx context.Context, key entity.ConceptKey) (*entity.WeakSpot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[key.Normalize()]
	if !ok {
		return nil, nil
	}
	spot := r.byID[id].Clone()
	return &spot, nil
}

// List returns the learner's spots, most missed first.
func (r *WeakSpotRepository) List(ctx context.Context, learnerID string, includeResolved bool) ([]entity.WeakSpot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	spots := make([]entity.WeakSpot, 0, len(r.byID))
	for _, spot := range r.byID {
		if learnerID != "" && spot.Key.LearnerID != learnerID {
			continue
		}
		if spot.Resolved && !includeResolved {
			continue
		}
		spots = append(spots, spot.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(spots, func(i, j int) bool {
		if spots[i].TimesMissed != spots[j].TimesMissed {
			return spots[i].TimesMissed > spots[j].TimesMissed
		}
		return spots[i].Key.String() < spots[j].Key.String()
	})
	return spots, nil
}
