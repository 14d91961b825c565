package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/repository"
	"github.com/eslsoft/masterly/internal/usecase/adaptive"
)

// StartRequest opens an adaptive practice test over one course topic.
type StartRequest struct {
	LearnerID string
	Course    string
	Topic     string
	Overrides adaptive.Overrides
}

// AnswerRequest submits the learner's answer to one question of a session.
type AnswerRequest struct {
	SessionID  string
	QuestionID string
	Answer     string
	TimeTaken  float64
	HintUsed   bool
}

// AnswerResult reports how an answer was scored and where the session stands.
type AnswerResult struct {
	Session       entity.TestSession `json:"-"`
	Correct       bool               `json:"correct"`
	CorrectAnswer string             `json:"correct_answer"`
	Explanation   string             `json:"explanation,omitempty"`
	Finished      bool               `json:"finished"`
}

// PracticeUsecase runs adaptive test sessions and feeds answers back into study state.
type PracticeUsecase interface {
	Start(ctx context.Context, req StartRequest) (entity.TestSession, error)
	Next(ctx context.Context, sessionID string) (entity.TestQuestion, bool, error)
	Answer(ctx context.Context, req AnswerRequest) (AnswerResult, error)
	Finish(ctx context.Context, sessionID string) (adaptive.ResultSummary, error)
}

// NewPracticeUsecase wires the engine with its stores. study may be nil, in which case answers only
// affect the session.
func NewPracticeUsecase(
	engine *adaptive.Engine,
	bank repository.QuestionBank,
	sessions repository.SessionRepository,
	study StudyUsecase,
	base adaptive.Config,
	logger logrus.FieldLogger,
) PracticeUsecase {
	return &practiceUsecase{
		engine:   engine,
		bank:     bank,
		sessions: sessions,
		study:    study,
		base:     base,
		logger:   logger,
		configs:  make(map[string]adaptive.Config),
	}
}

type practiceUsecase struct {
	engine   *adaptive.Engine
	bank     repository.QuestionBank
	sessions repository.SessionRepository
	study    StudyUsecase
	base     adaptive.Config
	logger   logrus.FieldLogger

	mu      sync.RWMutex
	configs map[string]adaptive.Config
}

func (u *practiceUsecase) Start(ctx context.Context, req StartRequest) (entity.TestSession, error) {
	cfg := u.base.Apply(req.Overrides)
	if err := cfg.Validate(); err != nil {
		return entity.TestSession{}, err
	}
	pool, err := u.bank.Pool(ctx, req.Course, req.Topic)
	if err != nil {
		return entity.TestSession{}, err
	}

	session, err := u.engine.CreateSession(pool, cfg)
	if err != nil {
		return entity.TestSession{}, err
	}
	session.LearnerID = strings.TrimSpace(req.LearnerID)
	session.Course = strings.TrimSpace(req.Course)
	session.Topic = strings.TrimSpace(req.Topic)

	if u.tracksStudy(session) {
		names := lo.Map(pool, func(q entity.TestQuestion, _ int) string { return q.ConceptName })
		if _, err := u.study.RegisterConcepts(ctx, session.LearnerID, session.Course, session.Topic, names); err != nil {
			return entity.TestSession{}, fmt.Errorf("register session concepts: %w", err)
		}
	}

	if err := u.sessions.Save(ctx, session); err != nil {
		return entity.TestSession{}, err
	}
	u.mu.Lock()
	u.configs[session.ID] = cfg
	u.mu.Unlock()

	u.logger.WithFields(logrus.Fields{
		"session":    session.ID,
		"course":     session.Course,
		"topic":      session.Topic,
		"questions":  len(session.Questions),
		"difficulty": session.CurrentDifficulty,
	}).Info("practice session started")
	return session, nil
}

func (u *practiceUsecase) Next(ctx context.Context, sessionID string) (entity.TestQuestion, bool, error) {
	session, cfg, err := u.load(ctx, sessionID)
	if err != nil {
		return entity.TestQuestion{}, false, err
	}
	q, ok := u.engine.SelectNext(session, cfg)
	return q, ok, nil
}

func (u *practiceUsecase) Answer(ctx context.Context, req AnswerRequest) (AnswerResult, error) {
	session, cfg, err := u.load(ctx, req.SessionID)
	if err != nil {
		return AnswerResult{}, err
	}
	next, err := u.engine.RecordAnswer(session, req.QuestionID, req.Answer, req.TimeTaken, req.HintUsed, cfg)
	if err != nil {
		return AnswerResult{}, err
	}
	if err := u.sessions.Save(ctx, next); err != nil {
		return AnswerResult{}, err
	}

	q, _ := next.Question(req.QuestionID)
	record := next.Answers[len(next.Answers)-1]
	u.logger.WithFields(logrus.Fields{
		"session":    next.ID,
		"question":   q.ID,
		"correct":    record.IsCorrect,
		"streak":     next.Streak,
		"difficulty": next.CurrentDifficulty,
		"ability":    next.EstimatedAbility,
	}).Debug("answer recorded")

	if u.tracksStudy(next) && strings.TrimSpace(q.ConceptName) != "" {
		taken := record.TimeTaken
		_, err := u.study.RecordReview(ctx, ReviewRequest{
			Key:              entity.ConceptKey{LearnerID: next.LearnerID, Course: next.Course, Topic: next.Topic, Concept: q.ConceptName},
			WasCorrect:       record.IsCorrect,
			TimeTakenSeconds: &taken,
			Answer:           req.Answer,
		})
		if err != nil {
			// roll the session back so the question can be answered again
			if rerr := u.sessions.Save(context.WithoutCancel(ctx), session); rerr != nil {
				u.logger.WithError(rerr).WithField("session", session.ID).Error("restore session after failed review")
			}
			return AnswerResult{}, fmt.Errorf("record concept review: %w", err)
		}
	}

	_, more := u.engine.SelectNext(next, cfg)
	return AnswerResult{
		Session:       next,
		Correct:       record.IsCorrect,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Finished:      !more,
	}, nil
}

func (u *practiceUsecase) Finish(ctx context.Context, sessionID string) (adaptive.ResultSummary, error) {
	session, _, err := u.load(ctx, sessionID)
	if err != nil {
		return adaptive.ResultSummary{}, err
	}
	summary := adaptive.Results(session)

	u.mu.Lock()
	delete(u.configs, session.ID)
	u.mu.Unlock()

	u.logger.WithFields(logrus.Fields{
		"session":  session.ID,
		"score":    summary.Score,
		"answered": summary.Answered,
		"ability":  summary.EstimatedAbility,
		"level":    summary.AbilityLevel,
	}).Info("practice session finished")
	return summary, nil
}

func (u *practiceUsecase) load(ctx context.Context, sessionID string) (entity.TestSession, adaptive.Config, error) {
	session, err := u.sessions.Get(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return entity.TestSession{}, adaptive.Config{}, err
	}
	u.mu.RLock()
	cfg, ok := u.configs[session.ID]
	u.mu.RUnlock()
	if !ok {
		cfg = u.base
	}
	return session, cfg, nil
}

func (u *practiceUsecase) tracksStudy(s entity.TestSession) bool {
	return u.study != nil && s.LearnerID != ""
}
