package repository

import (
	"context"

	"github.com/eslsoft/masterly/internal/entity"
)

// ListConceptQuery holds parameters for listing a learner's concepts.
type ListConceptQuery struct {
	Pagination
	FilterOrder

	LearnerID string
}

// ConceptRepository abstracts the concept store so usecases stay storage agnostic.
// Update must reject a record whose Version no longer matches the stored one.
type ConceptRepository interface {
	Create(ctx context.Context, concept entity.StudyConcept) (entity.StudyConcept, error)
	Update(ctx context.Context, concept entity.StudyConcept) (entity.StudyConcept, error)
	Get(ctx context.Context, key entity.ConceptKey) (entity.StudyConcept, error)
	List(ctx context.Context, query *ListConceptQuery) ([]entity.StudyConcept, int64, error)
}

// ReviewLogRepository keeps the answered-review history of concepts.
type ReviewLogRepository interface {
	Append(ctx context.Context, log entity.ReviewLog) error
	// RecentIncorrect returns up to limit answers from incorrect reviews, oldest first.
	RecentIncorrect(ctx context.Context, key entity.ConceptKey, limit int) ([]string, error)
	// List returns the learner's logs in append order; an empty learnerID lists everything.
	List(ctx context.Context, learnerID string) ([]entity.ReviewLog, error)
}
