package adaptive

import (
	"github.com/samber/lo"

	"github.com/eslsoft/masterly/internal/entity"
)

// AbilityLevel buckets an ability estimate for display.
type AbilityLevel string

const (
	AbilityBeginner   AbilityLevel = "beginner"
	AbilityDeveloping AbilityLevel = "developing"
	AbilityProficient AbilityLevel = "proficient"
	AbilityAdvanced   AbilityLevel = "advanced"
	AbilityExpert     AbilityLevel = "expert"
)

// Concept accuracy thresholds for the strong and weak lists.
const (
	StrongConceptAccuracy = 0.75
	WeakConceptAccuracy   = 0.5
)

// BandScore counts correct answers out of answered questions.
type BandScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// ResultSummary aggregates a finished (or abandoned) session.
type ResultSummary struct {
	SessionID           string                          `json:"session_id"`
	Score               int                             `json:"score"`
	Answered            int                             `json:"answered"`
	TotalQuestions      int                             `json:"total_questions"`
	Accuracy            float64                         `json:"accuracy"`
	EstimatedAbility    float64                         `json:"estimated_ability"`
	AbilityLevel        AbilityLevel                    `json:"ability_level"`
	StrongConcepts      []string                        `json:"strong_concepts"`
	WeakConcepts        []string                        `json:"weak_concepts"`
	ConceptBreakdown    map[string]BandScore            `json:"concept_breakdown"`
	DifficultyBreakdown map[entity.Difficulty]BandScore `json:"difficulty_breakdown"`
	AverageTime         float64                         `json:"average_time"`
	HintsUsed           int                             `json:"hints_used"`
}

// LevelFor buckets an ability estimate.
func LevelFor(ability float64) AbilityLevel {
	switch {
	case ability <= 2:
		return AbilityBeginner
	case ability <= 4:
		return AbilityDeveloping
	case ability <= 6:
		return AbilityProficient
	case ability <= 8:
		return AbilityAdvanced
	default:
		return AbilityExpert
	}
}

type scoredAnswer struct {
	entity.AnswerRecord
	question entity.TestQuestion
}

// Results summarizes the answers recorded in session.
func Results(session entity.TestSession) ResultSummary {
	scored := make([]scoredAnswer, 0, len(session.Answers))
	for _, a := range session.Answers {
		q, ok := session.Question(a.QuestionID)
		if !ok {
			continue
		}
		scored = append(scored, scoredAnswer{AnswerRecord: a, question: q})
	}

	summary := ResultSummary{
		SessionID:        session.ID,
		Answered:         len(scored),
		TotalQuestions:   len(session.Questions),
		EstimatedAbility: session.EstimatedAbility,
		AbilityLevel:     LevelFor(session.EstimatedAbility),
		StrongConcepts:   []string{},
		WeakConcepts:     []string{},
		ConceptBreakdown: map[string]BandScore{},
		DifficultyBreakdown: map[entity.Difficulty]BandScore{
			entity.DifficultyEasy:   {},
			entity.DifficultyMedium: {},
			entity.DifficultyHard:   {},
		},
	}
	summary.Score = lo.CountBy(scored, func(a scoredAnswer) bool { return a.IsCorrect })
	summary.HintsUsed = lo.CountBy(scored, func(a scoredAnswer) bool { return a.HintUsed })
	if len(scored) == 0 {
		return summary
	}
	summary.Accuracy = float64(summary.Score) / float64(len(scored))
	summary.AverageTime = lo.SumBy(scored, func(a scoredAnswer) float64 { return a.TimeTaken }) / float64(len(scored))

	byConcept := lo.GroupBy(scored, func(a scoredAnswer) string { return a.question.ConceptName })
	order := lo.Uniq(lo.Map(scored, func(a scoredAnswer, _ int) string { return a.question.ConceptName }))
	for _, concept := range order {
		band := bandOf(byConcept[concept])
		summary.ConceptBreakdown[concept] = band
		accuracy := float64(band.Correct) / float64(band.Total)
		switch {
		case accuracy >= StrongConceptAccuracy:
			summary.StrongConcepts = append(summary.StrongConcepts, concept)
		case accuracy <= WeakConceptAccuracy:
			summary.WeakConcepts = append(summary.WeakConcepts, concept)
		}
	}

	for difficulty, answers := range lo.GroupBy(scored, func(a scoredAnswer) entity.Difficulty { return a.question.Difficulty }) {
		summary.DifficultyBreakdown[difficulty] = bandOf(answers)
	}
	return summary
}

func bandOf(answers []scoredAnswer) BandScore {
	return BandScore{
		Correct: lo.CountBy(answers, func(a scoredAnswer) bool { return a.IsCorrect }),
		Total:   len(answers),
	}
}
