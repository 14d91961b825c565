package app

import (
	"errors"
	"testing"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/infrastructure/config"
	"github.com/eslsoft/masterly/internal/usecase/adaptive"
)

func TestInitialize(t *testing.T) {
	cfg := &config.Config{
		Log:      config.LogConfig{Level: "error", Format: "json"},
		Adaptive: adaptive.DefaultConfig(),
		Quiz:     config.QuizConfig{Seed: 7},
	}
	c, err := Initialize(cfg)
	if err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if c.Study == nil || c.Practice == nil || c.Analysis == nil || c.Bank == nil || c.Backup == nil || c.Concepts == nil {
		t.Fatalf("container not fully wired: %+v", c)
	}

	cfg.Adaptive.MaxQuestions = 0
	if _, err := Initialize(cfg); !errors.Is(err, entity.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
