//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	adapterrepo "github.com/eslsoft/masterly/internal/adapter/repository"
	"github.com/eslsoft/masterly/internal/infrastructure/config"
	"github.com/eslsoft/masterly/internal/infrastructure/logger"
	"github.com/eslsoft/masterly/internal/repository"
	"github.com/eslsoft/masterly/internal/usecase"
	"github.com/eslsoft/masterly/internal/usecase/answer"
)

var loggerSet = wire.NewSet(
	logger.NewLogger,
	wire.Bind(new(logrus.FieldLogger), new(*logrus.Logger)),
)

var repositorySet = wire.NewSet(
	adapterrepo.NewConceptRepository,
	adapterrepo.NewReviewLogRepository,
	adapterrepo.NewWeakSpotRepository,
	adapterrepo.NewSessionRepository,
	adapterrepo.NewQuestionBank,
	wire.Bind(new(repository.QuestionBank), new(*adapterrepo.QuestionBank)),
)

var engineSet = wire.NewSet(
	answer.NewChecker,
	provideScheduler,
	provideEngine,
	provideStudySettings,
	provideAdaptiveConfig,
)

var usecaseSet = wire.NewSet(
	usecase.NewStudyUsecase,
	usecase.NewPracticeUsecase,
	usecase.NewAnalysisUsecase,
	provideBackup,
)

// Initialize builds the application container from an already loaded config.
func Initialize(cfg *config.Config) (*Container, error) {
	wire.Build(
		loggerSet,
		repositorySet,
		engineSet,
		usecaseSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil
}
