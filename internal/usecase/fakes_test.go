package usecase

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/repository"
)

var testNow = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeConceptRepo struct {
	mu       sync.RWMutex
	items    map[entity.ConceptKey]entity.StudyConcept
	conflict int // number of Update calls to reject before succeeding
	updates  int
}

func newFakeConceptRepo() *fakeConceptRepo {
	return &fakeConceptRepo{items: make(map[entity.ConceptKey]entity.StudyConcept)}
}

func (r *fakeConceptRepo) Create(ctx context.Context, c entity.StudyConcept) (entity.StudyConcept, error) {
	if err := ctx.Err(); err != nil {
		return entity.StudyConcept{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.Key]; ok {
		return entity.StudyConcept{}, entity.ErrDuplicateConcept
	}
	c.Version = 1
	r.items[c.Key] = c.Clone()
	return c.Clone(), nil
}

func (r *fakeConceptRepo) Update(ctx context.Context, c entity.StudyConcept) (entity.StudyConcept, error) {
	if err := ctx.Err(); err != nil {
		return entity.StudyConcept{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	stored, ok := r.items[c.Key]
	if !ok {
		return entity.StudyConcept{}, entity.ErrConceptNotFound
	}
	if r.conflict > 0 {
		r.conflict--
		return entity.StudyConcept{}, entity.ErrConcurrentUpdate
	}
	if stored.Version != c.Version {
		return entity.StudyConcept{}, entity.ErrConcurrentUpdate
	}
	c.Version++
	r.items[c.Key] = c.Clone()
	return c.Clone(), nil
}

func (r *fakeConceptRepo) Get(ctx context.Context, key entity.ConceptKey) (entity.StudyConcept, error) {
	if err := ctx.Err(); err != nil {
		return entity.StudyConcept{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[key.Normalize()]
	if !ok {
		return entity.StudyConcept{}, entity.ErrConceptNotFound
	}
	return c.Clone(), nil
}

// List understands only the due-filter shape produced by ListDue.
func (r *fakeConceptRepo) List(ctx context.Context, q *repository.ListConceptQuery) ([]entity.StudyConcept, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.StudyConcept
	for _, c := range r.items {
		if q.LearnerID != "" && c.Key.LearnerID != q.LearnerID {
			continue
		}
		if strings.Contains(q.Filter, "next_review <=") && (!c.IsDue(testNow) || c.Archived) {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Concept < out[j].Key.Concept })
	return out, int64(len(out)), nil
}

type fakeReviewLogRepo struct {
	mu        sync.RWMutex
	logs      []entity.ReviewLog
	appendErr error
}

func (r *fakeReviewLogRepo) Append(ctx context.Context, l entity.ReviewLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.logs = append(r.logs, l)
	return nil
}

func (r *fakeReviewLogRepo) RecentIncorrect(ctx context.Context, key entity.ConceptKey, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, l := range r.logs {
		if l.Key == key && !l.WasCorrect && l.Answer != "" {
			out = append(out, l.Answer)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeReviewLogRepo) List(ctx context.Context, learnerID string) ([]entity.ReviewLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entity.ReviewLog(nil), r.logs...), nil
}

type fakeWeakSpotRepo struct {
	mu        sync.RWMutex
	seq       int
	items     map[string]entity.WeakSpot
	upsertErr error
}

func newFakeWeakSpotRepo() *fakeWeakSpotRepo {
	return &fakeWeakSpotRepo{items: make(map[string]entity.WeakSpot)}
}

func (r *fakeWeakSpotRepo) Upsert(ctx context.Context, s entity.WeakSpot) (entity.WeakSpot, error) {
	if err := ctx.Err(); err != nil {
		return entity.WeakSpot{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return entity.WeakSpot{}, r.upsertErr
	}
	if s.ID == "" {
		r.seq++
		s.ID = "ws" + strings.Repeat("i", r.seq)
		s.DetectedAt = testNow
	}
	r.items[s.ID] = s.Clone()
	return s.Clone(), nil
}

func (r *fakeWeakSpotRepo) GetByID(ctx context.Context, id string) (entity.WeakSpot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return entity.WeakSpot{}, entity.ErrWeakSpotNotFound
	}
	return s.Clone(), nil
}

func (r *fakeWeakSpotRepo) FindByKey(ctx context.Context, key entity.ConceptKey) (*entity.WeakSpot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.items {
		if s.Key == key {
			c := s.Clone()
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeWeakSpotRepo) List(ctx context.Context, learnerID string, includeResolved bool) ([]entity.WeakSpot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.WeakSpot
	for _, s := range r.items {
		if s.Key.LearnerID == learnerID && (includeResolved || !s.Resolved) {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

type fakeQuestionBank struct {
	pool []entity.TestQuestion
}

func (b fakeQuestionBank) Pool(ctx context.Context, course, topic string) ([]entity.TestQuestion, error) {
	if len(b.pool) == 0 {
		return nil, entity.ErrEmptyQuestionPool
	}
	out := make([]entity.TestQuestion, len(b.pool))
	for i, q := range b.pool {
		out[i] = q.Clone()
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]entity.TestSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]entity.TestSession)}
}

func (r *fakeSessionRepo) Save(ctx context.Context, s entity.TestSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s.Clone()
	return nil
}

func (r *fakeSessionRepo) Get(ctx context.Context, id string) (entity.TestSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return entity.TestSession{}, entity.ErrSessionNotFound
	}
	return s.Clone(), nil
}
