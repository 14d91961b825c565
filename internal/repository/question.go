package repository

import (
	"context"

	"github.com/eslsoft/masterly/internal/entity"
)

// QuestionBank supplies the candidate pool for a course topic.
type QuestionBank interface {
	Pool(ctx context.Context, course, topic string) ([]entity.TestQuestion, error)
}

// SessionRepository keeps in-flight test sessions between answers.
type SessionRepository interface {
	Save(ctx context.Context, session entity.TestSession) error
	Get(ctx context.Context, id string) (entity.TestSession, error)
}
