package app

import (
	"github.com/sirupsen/logrus"

	adapterrepo "github.com/eslsoft/masterly/internal/adapter/repository"
	"github.com/eslsoft/masterly/internal/infrastructure/config"
	"github.com/eslsoft/masterly/internal/repository"
	"github.com/eslsoft/masterly/internal/usecase"
	"github.com/eslsoft/masterly/internal/usecase/backup"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Logger *logrus.Logger
	Config *config.Config

	Concepts  repository.ConceptRepository
	Reviews   repository.ReviewLogRepository
	WeakSpots repository.WeakSpotRepository
	Bank      *adapterrepo.QuestionBank

	Study    usecase.StudyUsecase
	Practice usecase.PracticeUsecase
	Analysis usecase.AnalysisUsecase
	Backup   *backup.Service
}
