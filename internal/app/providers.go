package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/masterly/internal/infrastructure/config"
	"github.com/eslsoft/masterly/internal/repository"
	"github.com/eslsoft/masterly/internal/usecase"
	"github.com/eslsoft/masterly/internal/usecase/adaptive"
	"github.com/eslsoft/masterly/internal/usecase/answer"
	"github.com/eslsoft/masterly/internal/usecase/backup"
	"github.com/eslsoft/masterly/internal/usecase/scheduling"
)

func provideScheduler() *scheduling.Scheduler {
	return scheduling.NewScheduler()
}

func provideEngine(cfg *config.Config, checker answer.Checker) *adaptive.Engine {
	if cfg.Quiz.Seed != 0 {
		return adaptive.NewEngine(checker, adaptive.WithSeed(cfg.Quiz.Seed))
	}
	return adaptive.NewEngine(checker)
}

func provideStudySettings(cfg *config.Config) usecase.StudySettings {
	return usecase.StudySettings{ExpectedSeconds: cfg.Scheduler.ExpectedSeconds}
}

func provideAdaptiveConfig(cfg *config.Config) (adaptive.Config, error) {
	return cfg.AdaptiveConfig()
}

func provideBackup(
	concepts repository.ConceptRepository,
	weakSpots repository.WeakSpotRepository,
	reviews repository.ReviewLogRepository,
	logger logrus.FieldLogger,
) *backup.Service {
	return backup.NewService(concepts, weakSpots, reviews, logger)
}
