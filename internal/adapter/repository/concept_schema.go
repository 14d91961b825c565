package repository

import (
	"cmp"
	"strings"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/pkg/filterexpr"
)

var listConceptsSchema = filterexpr.Schema[entity.StudyConcept]{
	Fields: map[string]filterexpr.Field[entity.StudyConcept]{
		"concept": {
			Kind:  filterexpr.KindString,
			Value: func(c entity.StudyConcept) any { return c.Key.Concept },
		},
		"course": {
			Kind:  filterexpr.KindString,
			Value: func(c entity.StudyConcept) any { return c.Key.Course },
		},
		"topic": {
			Kind:  filterexpr.KindString,
			Value: func(c entity.StudyConcept) any { return c.Key.Topic },
		},
		"difficulty": {
			Kind:  filterexpr.KindString,
			Value: func(c entity.StudyConcept) any { return string(c.DifficultyRating) },
		},
		"mastery": {
			Kind:  filterexpr.KindNumber,
			Value: func(c entity.StudyConcept) any { return float64(c.MasteryLevel) },
		},
		"ease_factor": {
			Kind:  filterexpr.KindNumber,
			Value: func(c entity.StudyConcept) any { return c.EaseFactor },
		},
		"next_review": {
			Kind:  filterexpr.KindTimestamp,
			Value: func(c entity.StudyConcept) any { return c.NextReview },
		},
		"archived": {
			Kind:  filterexpr.KindBool,
			Value: func(c entity.StudyConcept) any { return c.Archived },
		},
	},
	Order: filterexpr.OrderSchema[entity.StudyConcept]{
		DefaultPrimary: "next_review",
		FallbackKey:    "concept",
		Fields: map[string]filterexpr.OrderField[entity.StudyConcept]{
			"next_review": {Compare: func(a, b entity.StudyConcept) int { return a.NextReview.Compare(b.NextReview) }},
			"mastery":     {Compare: func(a, b entity.StudyConcept) int { return cmp.Compare(a.MasteryLevel, b.MasteryLevel) }},
			"ease_factor": {Compare: func(a, b entity.StudyConcept) int { return cmp.Compare(a.EaseFactor, b.EaseFactor) }},
			"concept": {Compare: func(a, b entity.StudyConcept) int {
				return cmp.Compare(strings.ToLower(a.Key.Concept), strings.ToLower(b.Key.Concept))
			}},
		},
	},
}
