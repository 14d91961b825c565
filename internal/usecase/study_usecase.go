package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/repository"
	"github.com/eslsoft/masterly/internal/usecase/answer"
	"github.com/eslsoft/masterly/internal/usecase/scheduling"
)

const maxUpdateAttempts = 3

// StudySettings tunes how answer timing is turned into recall quality.
type StudySettings struct {
	ExpectedSeconds float64
}

// ReviewRequest describes one review of a concept. Quality, when set, is used as is; otherwise it is
// derived from correctness and TimeTakenSeconds. When Question is set, correctness comes from
// checking Answer against it.
type ReviewRequest struct {
	Key              entity.ConceptKey
	Quality          *int
	WasCorrect       bool
	TimeTakenSeconds *float64
	Answer           string
	Question         *entity.TestQuestion
}

// ReviewResult is the stored state after a review.
type ReviewResult struct {
	Concept  entity.StudyConcept `json:"concept"`
	Quality  int                 `json:"quality"`
	WeakSpot *entity.WeakSpot    `json:"weak_spot,omitempty"`
}

// StudyUsecase drives spaced-repetition reviews and weak-spot tracking for stored concepts.
type StudyUsecase interface {
	RegisterConcepts(ctx context.Context, learnerID, course, topic string, names []string) ([]entity.StudyConcept, error)
	RecordReview(ctx context.Context, req ReviewRequest) (ReviewResult, error)
	ListDue(ctx context.Context, query *repository.ListConceptQuery) ([]entity.StudyConcept, int64, error)
	ResolveWeakSpot(ctx context.Context, id string) (entity.WeakSpot, error)
	ListWeakSpots(ctx context.Context, learnerID string, includeResolved bool) ([]entity.WeakSpot, error)
}

// NewStudyUsecase wires the stores with the scheduler and detector.
func NewStudyUsecase(
	concepts repository.ConceptRepository,
	logs repository.ReviewLogRepository,
	spots repository.WeakSpotRepository,
	scheduler *scheduling.Scheduler,
	checker answer.Checker,
	settings StudySettings,
	logger logrus.FieldLogger,
) StudyUsecase {
	return &studyUsecase{
		concepts:  concepts,
		logs:      logs,
		spots:     spots,
		scheduler: scheduler,
		detector:  scheduling.NewDetector(),
		checker:   checker,
		settings:  settings,
		logger:    logger,
		clock:     time.Now,
	}
}

type studyUsecase struct {
	concepts  repository.ConceptRepository
	logs      repository.ReviewLogRepository
	spots     repository.WeakSpotRepository
	scheduler *scheduling.Scheduler
	detector  scheduling.Detector
	checker   answer.Checker
	settings  StudySettings
	logger    logrus.FieldLogger
	clock     func() time.Time
}

func (u *studyUsecase) RegisterConcepts(ctx context.Context, learnerID, course, topic string, names []string) ([]entity.StudyConcept, error) {
	names = lo.Uniq(lo.FilterMap(names, func(n string, _ int) (string, bool) {
		n = strings.TrimSpace(n)
		return n, n != ""
	}))

	now := u.clock()
	out := make([]entity.StudyConcept, 0, len(names))
	for _, name := range names {
		key := entity.ConceptKey{LearnerID: learnerID, Course: course, Topic: topic, Concept: name}.Normalize()
		if !key.Valid() {
			return nil, fmt.Errorf("%w: incomplete key %q", entity.ErrInvalidConcept, key.String())
		}

		existing, err := u.concepts.Get(ctx, key)
		switch {
		case err == nil:
			out = append(out, existing)
			continue
		case !errors.Is(err, entity.ErrConceptNotFound):
			return nil, err
		}

		created, err := u.concepts.Create(ctx, entity.NewStudyConcept(key, now))
		if errors.Is(err, entity.ErrDuplicateConcept) {
			// registered concurrently
			created, err = u.concepts.Get(ctx, key)
		}
		if err != nil {
			return nil, err
		}
		u.logger.WithField("concept", key.String()).Debug("concept registered")
		out = append(out, created)
	}
	return out, nil
}

func (u *studyUsecase) RecordReview(ctx context.Context, req ReviewRequest) (ReviewResult, error) {
	key := req.Key.Normalize()
	if !key.Valid() {
		return ReviewResult{}, fmt.Errorf("%w: incomplete key %q", entity.ErrInvalidConcept, key.String())
	}

	correct := req.WasCorrect
	if req.Question != nil {
		correct = u.checker.Check(*req.Question, req.Answer)
	}
	outcome := entity.ReviewOutcome{WasCorrect: correct, TimeTakenSeconds: req.TimeTakenSeconds}
	switch {
	case req.Quality != nil:
		outcome.Quality = *req.Quality
	case req.TimeTakenSeconds != nil:
		outcome.Quality = scheduling.TimeToQuality(correct, *req.TimeTakenSeconds, u.settings.ExpectedSeconds)
	default:
		outcome.Quality = scheduling.TimeToQuality(correct, u.expectedSeconds(), u.settings.ExpectedSeconds)
	}
	if err := outcome.Validate(); err != nil {
		return ReviewResult{}, err
	}

	previous, updated, err := u.applyReview(ctx, key, outcome)
	if err != nil {
		return ReviewResult{}, err
	}

	if err := u.logs.Append(ctx, entity.ReviewLog{
		Key:        key,
		Quality:    outcome.Quality,
		WasCorrect: outcome.WasCorrect,
		Answer:     strings.TrimSpace(req.Answer),
		ReviewedAt: u.clock(),
	}); err != nil {
		u.revertReview(ctx, previous, updated)
		return ReviewResult{}, fmt.Errorf("append review log: %w", err)
	}

	log := u.logger.WithFields(logrus.Fields{
		"concept":  key.String(),
		"quality":  outcome.Quality,
		"interval": updated.IntervalDays,
		"mastery":  updated.MasteryLevel,
	})
	log.Info("review recorded")

	result := ReviewResult{Concept: updated, Quality: outcome.Quality}
	spot, err := u.trackWeakSpot(ctx, updated)
	if err != nil {
		// the flag is derived state and is recomputed on the next review
		log.WithError(err).Warn("weak spot tracking failed")
	}
	if spot != nil {
		log.WithFields(logrus.Fields{
			"weak_spot": spot.ID,
			"pattern":   spot.ErrorPattern,
			"missed":    spot.TimesMissed,
		}).Warn("weak spot flagged")
		result.WeakSpot = spot
	}
	return result, nil
}

// applyReview schedules against the latest stored state, retrying when another writer wins the race.
// It returns the state the review was applied to alongside the saved result.
func (u *studyUsecase) applyReview(ctx context.Context, key entity.ConceptKey, outcome entity.ReviewOutcome) (entity.StudyConcept, entity.StudyConcept, error) {
	var lastErr error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := u.concepts.Get(ctx, key)
		if err != nil {
			return entity.StudyConcept{}, entity.StudyConcept{}, err
		}
		next, err := u.scheduler.CalculateNextReview(current, outcome)
		if err != nil {
			return entity.StudyConcept{}, entity.StudyConcept{}, err
		}
		next.Normalize(u.clock())

		saved, err := u.concepts.Update(ctx, next)
		if err == nil {
			return current, saved, nil
		}
		if !errors.Is(err, entity.ErrConcurrentUpdate) {
			return entity.StudyConcept{}, entity.StudyConcept{}, err
		}
		lastErr = err
	}
	return entity.StudyConcept{}, entity.StudyConcept{}, lastErr
}

// revertReview puts back the pre-review state unless another writer has moved past saved.
func (u *studyUsecase) revertReview(ctx context.Context, previous, saved entity.StudyConcept) {
	previous.Version = saved.Version
	if _, err := u.concepts.Update(context.WithoutCancel(ctx), previous); err != nil {
		u.logger.WithError(err).WithField("concept", saved.Key.String()).Error("revert review")
	}
}

func (u *studyUsecase) trackWeakSpot(ctx context.Context, concept entity.StudyConcept) (*entity.WeakSpot, error) {
	recent, err := u.logs.RecentIncorrect(ctx, concept.Key, entity.MaxCommonMistakes)
	if err != nil {
		return nil, fmt.Errorf("load recent mistakes: %w", err)
	}
	detected, ok := u.detector.Detect(concept, recent)
	if !ok {
		return nil, nil
	}
	existing, err := u.spots.FindByKey(ctx, concept.Key)
	if err != nil {
		return nil, err
	}
	saved, err := u.spots.Upsert(ctx, u.detector.Merge(existing, detected))
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListDue lists unarchived concepts due today, narrowed by any filter already on query.
func (u *studyUsecase) ListDue(ctx context.Context, query *repository.ListConceptQuery) ([]entity.StudyConcept, int64, error) {
	q := repository.ListConceptQuery{}
	if query != nil {
		q = *query
	}
	today := entity.StartOfDay(u.clock())
	due := fmt.Sprintf("next_review <= timestamp('%s') && !archived", today.UTC().Format(time.RFC3339))
	if extra := strings.TrimSpace(q.Filter); extra != "" {
		due = fmt.Sprintf("(%s) && %s", extra, due)
	}
	q.Filter = due
	return u.concepts.List(ctx, &q)
}

func (u *studyUsecase) ResolveWeakSpot(ctx context.Context, id string) (entity.WeakSpot, error) {
	spot, err := u.spots.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return entity.WeakSpot{}, err
	}
	if spot.Resolved {
		return spot, nil
	}
	resolved, err := u.spots.Upsert(ctx, u.detector.Resolve(spot, u.clock()))
	if err != nil {
		return entity.WeakSpot{}, err
	}
	u.logger.WithFields(logrus.Fields{"weak_spot": resolved.ID, "concept": resolved.Key.String()}).Info("weak spot resolved")
	return resolved, nil
}

func (u *studyUsecase) ListWeakSpots(ctx context.Context, learnerID string, includeResolved bool) ([]entity.WeakSpot, error) {
	return u.spots.List(ctx, strings.TrimSpace(learnerID), includeResolved)
}

func (u *studyUsecase) expectedSeconds() float64 {
	if u.settings.ExpectedSeconds > 0 {
		return u.settings.ExpectedSeconds
	}
	return scheduling.DefaultExpectedSeconds
}
