package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/repository"
)

// SessionRepository keeps in-flight test sessions in memory.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]entity.TestSession
}

func NewSessionRepository() repository.SessionRepository {
	return &SessionRepository{sessions: make(map[string]entity.TestSession)}
}

func (r *SessionRepository) Save(ctx context.Context, session entity.TestSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if session.ID == "" {
		return errors.New("save session: id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (entity.TestSession, error) {
	if err := ctx.Err(); err != nil {
		return entity.TestSession{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return entity.TestSession{}, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	return s.Clone(), nil
}
