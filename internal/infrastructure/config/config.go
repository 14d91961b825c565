package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/eslsoft/masterly/internal/usecase/adaptive"
)

// Config holds all configuration for the application
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Adaptive  adaptive.Config `mapstructure:"adaptive"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Data      DataConfig      `mapstructure:"data"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SchedulerConfig tunes how answer times map to recall quality.
type SchedulerConfig struct {
	ExpectedSeconds float64 `mapstructure:"expected_seconds"`
}

// QuizConfig holds interactive quiz settings. A zero seed means a time-based seed.
type QuizConfig struct {
	Seed int64 `mapstructure:"seed"`
}

// DataConfig points at the fixture files the CLI reads and writes.
type DataConfig struct {
	Concepts string `mapstructure:"concepts"`
	Bank     string `mapstructure:"bank"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	def := adaptive.DefaultConfig()
	viper.SetDefault("adaptive.min_questions", def.MinQuestions)
	viper.SetDefault("adaptive.max_questions", def.MaxQuestions)
	viper.SetDefault("adaptive.starting_difficulty", def.StartingDifficulty)
	viper.SetDefault("adaptive.difficulty_step", def.DifficultyStep)
	viper.SetDefault("adaptive.streak_threshold", def.StreakThreshold)
	viper.SetDefault("adaptive.target_accuracy", def.TargetAccuracy)

	viper.SetDefault("scheduler.expected_seconds", 30.0)
	viper.SetDefault("quiz.seed", 0)

	viper.SetDefault("data.concepts", "masterly.yaml")
	viper.SetDefault("data.bank", "")
}

// AdaptiveConfig returns the validated test-session configuration.
func (c *Config) AdaptiveConfig() (adaptive.Config, error) {
	if err := c.Adaptive.Validate(); err != nil {
		return adaptive.Config{}, err
	}
	return c.Adaptive, nil
}
