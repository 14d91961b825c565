package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/repository"
	"github.com/eslsoft/masterly/internal/usecase/answer"
	"github.com/eslsoft/masterly/internal/usecase/scheduling"
)

type studyFixture struct {
	uc       *studyUsecase
	concepts *fakeConceptRepo
	logs     *fakeReviewLogRepo
	spots    *fakeWeakSpotRepo
}

func newStudyFixture(t *testing.T) studyFixture {
	t.Helper()
	concepts := newFakeConceptRepo()
	logs := &fakeReviewLogRepo{}
	spots := newFakeWeakSpotRepo()
	uc := NewStudyUsecase(
		concepts, logs, spots,
		scheduling.NewScheduler(scheduling.WithClock(fixedClock)),
		answer.NewChecker(),
		StudySettings{ExpectedSeconds: 30},
		quietLogger(),
	).(*studyUsecase)
	uc.clock = fixedClock
	return studyFixture{uc: uc, concepts: concepts, logs: logs, spots: spots}
}

func mitosisKey() entity.ConceptKey {
	return entity.ConceptKey{LearnerID: "learner-1", Course: "BIO 101", Topic: "Cells", Concept: "Mitosis"}
}

func (f studyFixture) register(t *testing.T, names ...string) {
	t.Helper()
	if _, err := f.uc.RegisterConcepts(context.Background(), "learner-1", "BIO 101", "Cells", names); err != nil {
		t.Fatalf("RegisterConcepts returned error: %v", err)
	}
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func TestStudyUsecase_RegisterConcepts(t *testing.T) {
	f := newStudyFixture(t)
	ctx := context.Background()

	got, err := f.uc.RegisterConcepts(ctx, "learner-1", "BIO 101", "Cells", []string{"Mitosis", " Meiosis ", "Mitosis", ""})
	if err != nil {
		t.Fatalf("RegisterConcepts returned error: %v", err)
	}
	if len(got) != 2 || got[1].Key.Concept != "Meiosis" {
		t.Fatalf("unexpected concepts %+v", got)
	}
	if !got[0].NextReview.Equal(entity.StartOfDay(testNow)) || got[0].EaseFactor != entity.DefaultEaseFactor {
		t.Fatalf("expected fresh registration state, got %+v", got[0])
	}

	if _, err := f.uc.RecordReview(ctx, ReviewRequest{Key: mitosisKey(), Quality: intp(5), WasCorrect: true}); err != nil {
		t.Fatalf("RecordReview returned error: %v", err)
	}
	again, err := f.uc.RegisterConcepts(ctx, "learner-1", "BIO 101", "Cells", []string{"Mitosis"})
	if err != nil {
		t.Fatalf("RegisterConcepts returned error: %v", err)
	}
	if again[0].TotalReviews != 1 {
		t.Fatalf("expected existing concept to be kept, got %+v", again[0])
	}

	if _, err := f.uc.RegisterConcepts(ctx, "", "BIO 101", "Cells", []string{"Mitosis"}); !errors.Is(err, entity.ErrInvalidConcept) {
		t.Fatalf("expected ErrInvalidConcept, got %v", err)
	}
}

func TestStudyUsecase_RecordReview_ExplicitQuality(t *testing.T) {
	f := newStudyFixture(t)
	f.register(t, "Mitosis")

	res, err := f.uc.RecordReview(context.Background(), ReviewRequest{Key: mitosisKey(), Quality: intp(5), WasCorrect: true, Answer: "prophase"})
	if err != nil {
		t.Fatalf("RecordReview returned error: %v", err)
	}
	c := res.Concept
	if c.Repetitions != 1 || c.IntervalDays != 1 || c.MasteryLevel != 60 {
		t.Fatalf("unexpected concept after review %+v", c)
	}
	if !c.NextReview.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("next review = %v", c.NextReview)
	}
	if c.Version != 2 {
		t.Fatalf("expected stored version 2, got %d", c.Version)
	}
	if res.WeakSpot != nil {
		t.Fatalf("did not expect a weak spot")
	}
	if len(f.logs.logs) != 1 || f.logs.logs[0].Quality != 5 || f.logs.logs[0].Answer != "prophase" {
		t.Fatalf("unexpected review log %+v", f.logs.logs)
	}
}

func TestStudyUsecase_RecordReview_DerivedQuality(t *testing.T) {
	cases := []struct {
		name    string
		req     ReviewRequest
		quality int
	}{
		{name: "fast correct", req: ReviewRequest{WasCorrect: true, TimeTakenSeconds: floatp(10)}, quality: 5},
		{name: "slow correct", req: ReviewRequest{WasCorrect: true, TimeTakenSeconds: floatp(45)}, quality: 3},
		{name: "quick wrong", req: ReviewRequest{TimeTakenSeconds: floatp(5)}, quality: 1},
		{name: "untimed correct", req: ReviewRequest{WasCorrect: true}, quality: 4},
		{name: "untimed wrong", req: ReviewRequest{}, quality: 0},
		{
			name: "checked against question",
			req: ReviewRequest{
				WasCorrect:       false,
				TimeTakenSeconds: floatp(20),
				Answer:           " YES ",
				Question: &entity.TestQuestion{
					ID: "q1", Type: entity.QuestionTrueFalse, Difficulty: entity.DifficultyEasy,
					DifficultyScore: 2, CorrectAnswer: "true",
				},
			},
			quality: 4,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newStudyFixture(t)
			f.register(t, "Mitosis")
			tc.req.Key = mitosisKey()

			res, err := f.uc.RecordReview(context.Background(), tc.req)
			if err != nil {
				t.Fatalf("RecordReview returned error: %v", err)
			}
			if res.Quality != tc.quality {
				t.Fatalf("quality = %d, want %d", res.Quality, tc.quality)
			}
		})
	}
}

func TestStudyUsecase_RecordReview_Errors(t *testing.T) {
	f := newStudyFixture(t)
	f.register(t, "Mitosis")
	ctx := context.Background()

	if _, err := f.uc.RecordReview(ctx, ReviewRequest{Key: mitosisKey(), Quality: intp(7)}); !errors.Is(err, entity.ErrInvalidQuality) {
		t.Fatalf("expected ErrInvalidQuality, got %v", err)
	}
	missing := mitosisKey()
	missing.Concept = "Osmosis"
	if _, err := f.uc.RecordReview(ctx, ReviewRequest{Key: missing, Quality: intp(3)}); !errors.Is(err, entity.ErrConceptNotFound) {
		t.Fatalf("expected ErrConceptNotFound, got %v", err)
	}
	if len(f.logs.logs) != 0 {
		t.Fatalf("failed reviews must not be logged")
	}
}

func TestStudyUsecase_RecordReview_RetriesConcurrentUpdate(t *testing.T) {
	f := newStudyFixture(t)
	f.register(t, "Mitosis")
	f.concepts.conflict = 1

	res, err := f.uc.RecordReview(context.Background(), ReviewRequest{Key: mitosisKey(), Quality: intp(4), WasCorrect: true})
	if err != nil {
		t.Fatalf("RecordReview returned error: %v", err)
	}
	if f.concepts.updates != 2 || res.Concept.TotalReviews != 1 {
		t.Fatalf("expected one retry and a single applied review, got %d updates, %+v", f.concepts.updates, res.Concept)
	}

	f.concepts.conflict = maxUpdateAttempts
	if _, err := f.uc.RecordReview(context.Background(), ReviewRequest{Key: mitosisKey(), Quality: intp(4), WasCorrect: true}); !errors.Is(err, entity.ErrConcurrentUpdate) {
		t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
	}
}

func TestStudyUsecase_RecordReview_RevertsWhenLogFails(t *testing.T) {
	f := newStudyFixture(t)
	f.register(t, "Mitosis")
	ctx := context.Background()
	before, err := f.concepts.Get(ctx, mitosisKey())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	f.logs.appendErr = errors.New("log store down")
	if _, err := f.uc.RecordReview(ctx, ReviewRequest{Key: mitosisKey(), Quality: intp(5), WasCorrect: true}); err == nil {
		t.Fatalf("expected error when the review log cannot be written")
	}
	after, err := f.concepts.Get(ctx, mitosisKey())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if after.TotalReviews != 0 || after.Repetitions != 0 || !after.NextReview.Equal(before.NextReview) {
		t.Fatalf("failed review left the concept changed: %+v", after)
	}

	f.logs.appendErr = nil
	res, err := f.uc.RecordReview(ctx, ReviewRequest{Key: mitosisKey(), Quality: intp(5), WasCorrect: true})
	if err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if res.Concept.TotalReviews != 1 || len(f.logs.logs) != 1 {
		t.Fatalf("expected exactly one applied review after retry, got %+v and %d logs", res.Concept, len(f.logs.logs))
	}
}

func TestStudyUsecase_RecordReview_WeakSpotFailureKeepsReview(t *testing.T) {
	f := newStudyFixture(t)
	f.register(t, "Mitosis")
	ctx := context.Background()
	f.spots.upsertErr = errors.New("weak spot store down")

	var last ReviewResult
	for _, ans := range []string{"anaphase", "interphase", "telophase"} {
		res, err := f.uc.RecordReview(ctx, ReviewRequest{Key: mitosisKey(), Quality: intp(1), Answer: ans})
		if err != nil {
			t.Fatalf("RecordReview returned error: %v", err)
		}
		last = res
	}
	if last.WeakSpot != nil || last.Concept.TotalReviews != 3 {
		t.Fatalf("expected review applied without a stored flag, got %+v", last)
	}

	f.spots.upsertErr = nil
	res, err := f.uc.RecordReview(ctx, ReviewRequest{Key: mitosisKey(), Quality: intp(1), Answer: "metaphase"})
	if err != nil {
		t.Fatalf("RecordReview returned error: %v", err)
	}
	if res.WeakSpot == nil || res.WeakSpot.TimesMissed != 4 {
		t.Fatalf("expected the flag to be rebuilt from current totals, got %+v", res.WeakSpot)
	}
}

func TestStudyUsecase_WeakSpotLifecycle(t *testing.T) {
	f := newStudyFixture(t)
	f.register(t, "Mitosis")
	ctx := context.Background()

	var last ReviewResult
	for i, ans := range []string{"anaphase", "interphase", "telophase"} {
		res, err := f.uc.RecordReview(ctx, ReviewRequest{Key: mitosisKey(), Quality: intp(1), Answer: ans})
		if err != nil {
			t.Fatalf("RecordReview returned error: %v", err)
		}
		if i < 2 && res.WeakSpot != nil {
			t.Fatalf("weak spot flagged after %d reviews", i+1)
		}
		last = res
	}
	spot := last.WeakSpot
	if spot == nil {
		t.Fatalf("expected weak spot after three misses")
	}
	if spot.TimesMissed != 3 || spot.ErrorPattern != entity.PatternFundamentalGap {
		t.Fatalf("unexpected weak spot %+v", spot)
	}
	if len(spot.CommonMistakes) != 3 || spot.CommonMistakes[2] != "telophase" {
		t.Fatalf("unexpected mistakes %v", spot.CommonMistakes)
	}

	resolved, err := f.uc.ResolveWeakSpot(ctx, spot.ID)
	if err != nil {
		t.Fatalf("ResolveWeakSpot returned error: %v", err)
	}
	if !resolved.Resolved || resolved.ResolvedAt == nil || !resolved.ResolvedAt.Equal(testNow) {
		t.Fatalf("unexpected resolved spot %+v", resolved)
	}

	open, err := f.uc.ListWeakSpots(ctx, "learner-1", false)
	if err != nil || len(open) != 0 {
		t.Fatalf("expected no open weak spots, got %v, %v", open, err)
	}

	res, err := f.uc.RecordReview(ctx, ReviewRequest{Key: mitosisKey(), Quality: intp(0), Answer: "metaphase"})
	if err != nil {
		t.Fatalf("RecordReview returned error: %v", err)
	}
	if res.WeakSpot == nil || res.WeakSpot.ID != spot.ID || res.WeakSpot.TimesMissed != 4 || !res.WeakSpot.Resolved {
		t.Fatalf("expected the resolved record to be refreshed in place, got %+v", res.WeakSpot)
	}

	if _, err := f.uc.ResolveWeakSpot(ctx, "missing"); !errors.Is(err, entity.ErrWeakSpotNotFound) {
		t.Fatalf("expected ErrWeakSpotNotFound, got %v", err)
	}
}

func TestStudyUsecase_ListDue(t *testing.T) {
	f := newStudyFixture(t)
	f.register(t, "Mitosis", "Meiosis")
	ctx := context.Background()

	if _, err := f.uc.RecordReview(ctx, ReviewRequest{Key: mitosisKey(), Quality: intp(5), WasCorrect: true}); err != nil {
		t.Fatalf("RecordReview returned error: %v", err)
	}

	due, total, err := f.uc.ListDue(ctx, &repository.ListConceptQuery{LearnerID: "learner-1"})
	if err != nil {
		t.Fatalf("ListDue returned error: %v", err)
	}
	if total != 1 || due[0].Key.Concept != "Meiosis" {
		t.Fatalf("unexpected due concepts %+v", due)
	}
}

func TestStudyUsecase_ListDue_ComposesFilter(t *testing.T) {
	var captured string
	f := newStudyFixture(t)
	f.uc.concepts = capturingConceptRepo{fakeConceptRepo: f.concepts, filter: &captured}

	if _, _, err := f.uc.ListDue(context.Background(), &repository.ListConceptQuery{FilterOrder: repository.FilterOrder{Filter: "mastery <= 50"}}); err != nil {
		t.Fatalf("ListDue returned error: %v", err)
	}
	want := "(mastery <= 50) && next_review <= timestamp('2025-03-10T00:00:00Z') && !archived"
	if captured != want {
		t.Fatalf("filter = %q, want %q", captured, want)
	}
}

type capturingConceptRepo struct {
	*fakeConceptRepo
	filter *string
}

func (r capturingConceptRepo) List(ctx context.Context, q *repository.ListConceptQuery) ([]entity.StudyConcept, int64, error) {
	*r.filter = q.Filter
	return r.fakeConceptRepo.List(ctx, q)
}
