package usecase

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/masterly/internal/entity"
)

// Mastery report thresholds, in percent.
const (
	WeakMasteryBelow   = 70
	StrongMasteryFrom  = 90
	ReadyOverallFrom   = 80
	maxFocusConcepts   = 3
	unknownConceptName = "Unknown"
)

// AnalysisUsecase turns a batch of graded practice answers into a mastery report.
type AnalysisUsecase interface {
	Analyze(ctx context.Context, course, topic string, answers []entity.PracticeAnswer) (entity.MasteryReport, error)
}

func NewAnalysisUsecase(logger logrus.FieldLogger) AnalysisUsecase {
	return &analysisUsecase{logger: logger}
}

type analysisUsecase struct {
	logger logrus.FieldLogger
}

func (u *analysisUsecase) Analyze(ctx context.Context, course, topic string, answers []entity.PracticeAnswer) (entity.MasteryReport, error) {
	if err := ctx.Err(); err != nil {
		return entity.MasteryReport{}, err
	}
	if len(answers) == 0 {
		return entity.MasteryReport{}, entity.ErrNoAnswers
	}

	conceptOf := func(a entity.PracticeAnswer) string {
		if name := strings.TrimSpace(a.Concept); name != "" {
			return name
		}
		return unknownConceptName
	}
	groups := lo.GroupBy(answers, conceptOf)
	order := lo.Uniq(lo.Map(answers, func(a entity.PracticeAnswer, _ int) string { return conceptOf(a) }))

	report := entity.MasteryReport{
		Course:         course,
		Topic:          topic,
		ConceptMastery: make(map[string]entity.ConceptMastery, len(groups)),
		WeakSpots:      []entity.MasterySpot{},
		StrongSpots:    []entity.MasterySpot{},
	}
	for _, concept := range order {
		group := groups[concept]
		correct := lo.CountBy(group, func(a entity.PracticeAnswer) bool { return a.Correct })
		pct := percent(correct, len(group))

		line := entity.ConceptMastery{Mastery: pct, Correct: correct, Total: len(group)}
		// zero and missing times carry no timing information
		times := lo.FilterMap(group, func(a entity.PracticeAnswer, _ int) (float64, bool) {
			return lo.FromPtr(a.TimeTaken), a.TimeTaken != nil && *a.TimeTaken != 0
		})
		if len(times) > 0 {
			avg := int(math.RoundToEven(lo.Sum(times) / float64(len(times))))
			line.AvgTimeSeconds = &avg
		}
		report.ConceptMastery[concept] = line

		switch {
		case pct < WeakMasteryBelow:
			report.WeakSpots = append(report.WeakSpots, entity.MasterySpot{Concept: concept, Mastery: pct, NeedsReview: true})
		case pct >= StrongMasteryFrom:
			report.StrongSpots = append(report.StrongSpots, entity.MasterySpot{Concept: concept, Mastery: pct})
		}
	}

	// the focus list names weak concepts in the order they were first answered
	focus := lo.Map(lo.Slice(report.WeakSpots, 0, maxFocusConcepts), func(s entity.MasterySpot, _ int) string { return s.Concept })
	sort.SliceStable(report.WeakSpots, func(i, j int) bool {
		return report.WeakSpots[i].Mastery < report.WeakSpots[j].Mastery
	})

	total := lo.SumBy(order, func(c string) int { return report.ConceptMastery[c].Mastery })
	report.OverallMastery = int(math.RoundToEven(float64(total) / float64(len(order))))

	if len(report.WeakSpots) > 0 {
		report.Recommendation = "Focus on: " + strings.Join(focus, ", ")
	} else {
		report.Recommendation = "Great job! All concepts mastered."
	}
	report.ReadyForTest = report.OverallMastery >= ReadyOverallFrom && len(report.WeakSpots) == 0

	u.logger.WithFields(logrus.Fields{
		"course":   course,
		"topic":    topic,
		"answers":  len(answers),
		"concepts": len(order),
		"overall":  report.OverallMastery,
		"weak":     len(report.WeakSpots),
	}).Info("mastery analyzed")
	return report, nil
}

func percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.RoundToEven(float64(correct) / float64(total) * 100))
}
