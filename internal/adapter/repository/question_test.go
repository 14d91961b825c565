package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/eslsoft/masterly/internal/entity"
)

func tfQuestion(id string, score float64) entity.TestQuestion {
	return entity.TestQuestion{
		ID:              id,
		ConceptName:     "limits",
		Type:            entity.QuestionTrueFalse,
		Difficulty:      entity.DifficultyMedium,
		DifficultyScore: score,
		Question:        "Is " + id + " true?",
		CorrectAnswer:   "true",
	}
}

func TestQuestionBank_Pool(t *testing.T) {
	ctx := context.Background()
	bank := NewQuestionBank()
	if err := bank.Add("Calc", "Limits", tfQuestion("q1", 3), tfQuestion("q2", 6)); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	pool, err := bank.Pool(ctx, "calc", " limits ")
	if err != nil {
		t.Fatalf("Pool returned error: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(pool))
	}
	pool[0].Question = "mutated"
	again, _ := bank.Pool(ctx, "calc", "limits")
	if again[0].Question == "mutated" {
		t.Fatalf("pool shares storage with the bank")
	}

	if err := bank.Add("calc", "limits", tfQuestion("q1", 4)); !errors.Is(err, entity.ErrInvalidQuestion) {
		t.Fatalf("expected duplicate id rejection, got %v", err)
	}
	if _, err := bank.Pool(ctx, "calc", "series"); !errors.Is(err, entity.ErrEmptyQuestionPool) {
		t.Fatalf("expected ErrEmptyQuestionPool, got %v", err)
	}
}

func TestSessionRepository_SaveGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	s := entity.TestSession{ID: "s1", Questions: []entity.TestQuestion{tfQuestion("q1", 5)}, CurrentDifficulty: 5}
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.CurrentDifficulty != 5 || len(got.Questions) != 1 {
		t.Fatalf("unexpected session %+v", got)
	}
	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := repo.Save(ctx, entity.TestSession{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}
