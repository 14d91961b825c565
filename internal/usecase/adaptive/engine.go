package adaptive

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/usecase/answer"
)

const (
	candidatePoolSize = 3

	// early termination looks at the trailing window once enough answers exist
	convergenceMinAnswers = 10
	convergenceWindow     = 5
	convergenceTolerance  = 0.15

	abilityK     = 0.5
	abilityScale = 4.0
)

// RandomSource picks an index in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// Engine implements the adaptive test-session transitions. Sessions are values;
// every transition returns a new session.
type Engine struct {
	checker answer.Checker
	clock   func() time.Time
	newID   func() string

	mu  sync.Mutex
	rng RandomSource
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom injects the source used to pick among candidate questions.
func WithRandom(rng RandomSource) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithSeed seeds the default random source.
func WithSeed(seed int64) Option {
	return WithRandom(rand.New(rand.NewSource(seed)))
}

// WithClock overrides the session start time source.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// NewEngine constructs an Engine.
func NewEngine(checker answer.Checker, opts ...Option) *Engine {
	e := &Engine{
		checker: checker,
		clock:   time.Now,
		newID:   uuid.NewString,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateSession starts a session over the question pool, sorted by difficulty score.
func (e *Engine) CreateSession(questions []entity.TestQuestion, cfg Config) (entity.TestSession, error) {
	if err := cfg.Validate(); err != nil {
		return entity.TestSession{}, err
	}

	seen := make(map[string]struct{}, len(questions))
	pool := make([]entity.TestQuestion, 0, len(questions))
	for _, q := range questions {
		q.ID = strings.TrimSpace(q.ID)
		if err := q.Validate(); err != nil {
			return entity.TestSession{}, err
		}
		if _, dup := seen[q.ID]; dup {
			return entity.TestSession{}, fmt.Errorf("%w: duplicate id %s", entity.ErrInvalidQuestion, q.ID)
		}
		seen[q.ID] = struct{}{}
		pool = append(pool, q.Clone())
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].DifficultyScore < pool[j].DifficultyScore
	})

	return entity.TestSession{
		ID:                e.newID(),
		Questions:         pool,
		Answers:           []entity.AnswerRecord{},
		CurrentDifficulty: cfg.StartingDifficulty,
		EstimatedAbility:  cfg.StartingDifficulty,
		StartedAt:         e.clock(),
	}, nil
}

// SelectNext returns the next question, or false when the session should stop or the
// pool is exhausted.
func (e *Engine) SelectNext(session entity.TestSession, cfg Config) (entity.TestQuestion, bool) {
	if ShouldEnd(session, cfg) {
		return entity.TestQuestion{}, false
	}

	candidates := Candidates(session)
	if len(candidates) == 0 {
		return entity.TestQuestion{}, false
	}

	e.mu.Lock()
	idx := e.rng.Intn(len(candidates))
	e.mu.Unlock()

	return candidates[idx].Clone(), true
}

// Candidates returns up to three unanswered questions closest to the current difficulty,
// ties kept in pool order.
func Candidates(session entity.TestSession) []entity.TestQuestion {
	unanswered := lo.Filter(session.Questions, func(q entity.TestQuestion, _ int) bool {
		return !session.Answered(q.ID)
	})
	sort.SliceStable(unanswered, func(i, j int) bool {
		return distance(unanswered[i], session.CurrentDifficulty) < distance(unanswered[j], session.CurrentDifficulty)
	})
	if len(unanswered) > candidatePoolSize {
		unanswered = unanswered[:candidatePoolSize]
	}
	return unanswered
}

func distance(q entity.TestQuestion, target float64) float64 {
	return math.Abs(q.DifficultyScore - target)
}

// RecordAnswer scores an answer and returns the advanced session.
func (e *Engine) RecordAnswer(session entity.TestSession, questionID, userAnswer string, timeTaken float64, hintUsed bool, cfg Config) (entity.TestSession, error) {
	if err := cfg.Validate(); err != nil {
		return entity.TestSession{}, err
	}
	q, ok := session.Question(questionID)
	if !ok {
		return entity.TestSession{}, fmt.Errorf("%w: %s", entity.ErrQuestionNotFound, questionID)
	}
	if session.Answered(questionID) {
		return entity.TestSession{}, fmt.Errorf("%w: %s already answered", entity.ErrQuestionNotFound, questionID)
	}

	correct := e.checker.Check(q, userAnswer)
	next := session.Clone()

	next.Streak = nextStreak(session.Streak, correct)
	if abs(next.Streak) >= cfg.StreakThreshold {
		step := cfg.DifficultyStep
		if next.Streak < 0 {
			step = -step
		}
		next.CurrentDifficulty = lo.Clamp(next.CurrentDifficulty+step, entity.MinDifficultyScore, entity.MaxDifficultyScore)
	}
	next.EstimatedAbility = NextAbility(session.EstimatedAbility, q.DifficultyScore, correct)

	next.Answers = append(next.Answers, entity.AnswerRecord{
		QuestionID: q.ID,
		UserAnswer: userAnswer,
		IsCorrect:  correct,
		TimeTaken:  math.Max(0, timeTaken),
		HintUsed:   hintUsed,
	})
	return next, nil
}

// nextStreak extends a run in the same direction or restarts it at one in the new direction.
func nextStreak(streak int, correct bool) int {
	if correct {
		if streak > 0 {
			return streak + 1
		}
		return 1
	}
	if streak < 0 {
		return streak - 1
	}
	return -1
}

// NextAbility applies the ELO-style update against a question of the given difficulty.
func NextAbility(ability, difficulty float64, correct bool) float64 {
	expected := 1 / (1 + math.Pow(10, (difficulty-ability)/abilityScale))
	actual := 0.0
	if correct {
		actual = 1
	}
	return lo.Clamp(ability+abilityK*(actual-expected), entity.MinDifficultyScore, entity.MaxDifficultyScore)
}

// ShouldEnd decides whether the session has gathered enough answers.
func ShouldEnd(session entity.TestSession, cfg Config) bool {
	n := len(session.Answers)
	if n < cfg.MinQuestions {
		return false
	}
	if n >= cfg.MaxQuestions {
		return true
	}
	if n < convergenceMinAnswers {
		return false
	}
	window := session.Answers[n-convergenceWindow:]
	correct := lo.CountBy(window, func(a entity.AnswerRecord) bool { return a.IsCorrect })
	accuracy := float64(correct) / float64(convergenceWindow)
	return math.Abs(accuracy-cfg.TargetAccuracy) <= convergenceTolerance+1e-9
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
