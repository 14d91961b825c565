package entity

import "strings"

// Difficulty is the three-band classification shared by concepts and questions.
type Difficulty string

const (
	DifficultyUnspecified Difficulty = ""
	DifficultyEasy        Difficulty = "easy"
	DifficultyMedium      Difficulty = "medium"
	DifficultyHard        Difficulty = "hard"
)

// Valid reports whether d is one of the supported bands.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// ParseDifficulty converts an arbitrary string into a Difficulty value.
func ParseDifficulty(raw string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy":
		return DifficultyEasy
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	default:
		return DifficultyUnspecified
	}
}

// ConceptKey identifies a concept for one learner within a course topic.
type ConceptKey struct {
	LearnerID string `json:"learner_id" yaml:"learner_id"`
	Course    string `json:"course" yaml:"course"`
	Topic     string `json:"topic" yaml:"topic"`
	Concept   string `json:"concept" yaml:"concept"`
}

// Normalize trims all key parts.
func (k ConceptKey) Normalize() ConceptKey {
	return ConceptKey{
		LearnerID: strings.TrimSpace(k.LearnerID),
		Course:    strings.TrimSpace(k.Course),
		Topic:     strings.TrimSpace(k.Topic),
		Concept:   strings.TrimSpace(k.Concept),
	}
}

// Valid reports whether every key part is present.
func (k ConceptKey) Valid() bool {
	n := k.Normalize()
	return n.LearnerID != "" && n.Course != "" && n.Topic != "" && n.Concept != ""
}

func (k ConceptKey) String() string {
	return k.LearnerID + "/" + k.Course + "/" + k.Topic + "/" + k.Concept
}
