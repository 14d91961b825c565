package config

import (
	"errors"
	"testing"

	"github.com/spf13/viper"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/usecase/adaptive"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	if cfg.Adaptive != adaptive.DefaultConfig() {
		t.Fatalf("unexpected adaptive config %+v", cfg.Adaptive)
	}
	if cfg.Scheduler.ExpectedSeconds != 30 || cfg.Data.Concepts != "masterly.yaml" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("ADAPTIVE_MIN_QUESTIONS", "3")
	t.Setenv("ADAPTIVE_TARGET_ACCURACY", "0.8")
	t.Setenv("QUIZ_SEED", "42")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Adaptive.MinQuestions != 3 || cfg.Adaptive.TargetAccuracy != 0.8 {
		t.Fatalf("env overrides not applied: %+v", cfg.Adaptive)
	}
	if cfg.Quiz.Seed != 42 || cfg.Log.Format != "text" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestConfig_AdaptiveConfig(t *testing.T) {
	cfg := &Config{Adaptive: adaptive.DefaultConfig()}
	if _, err := cfg.AdaptiveConfig(); err != nil {
		t.Fatalf("AdaptiveConfig returned error: %v", err)
	}
	cfg.Adaptive.MinQuestions = 30
	if _, err := cfg.AdaptiveConfig(); !errors.Is(err, entity.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
