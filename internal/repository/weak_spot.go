package repository

import (
	"context"

	"github.com/eslsoft/masterly/internal/entity"
)

// WeakSpotRepository stores flagged concepts, one record per concept key.
type WeakSpotRepository interface {
	Upsert(ctx context.Context, spot entity.WeakSpot) (entity.WeakSpot, error)
	GetByID(ctx context.Context, id string) (entity.WeakSpot, error)
	FindByKey(ctx context.Context, key entity.ConceptKey) (*entity.WeakSpot, error)
	List(ctx context.Context, learnerID string, includeResolved bool) ([]entity.WeakSpot, error)
}
