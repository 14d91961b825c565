package entity

import "errors"

// Domain errors shared by the engine, the orchestration usecases and the collaborator adapters.
var (
	ErrInvalidQuality    = errors.New("invalid review quality")
	ErrInvalidConfig     = errors.New("invalid adaptive config")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrConceptNotFound   = errors.New("concept not found")
	ErrInvalidConcept    = errors.New("invalid study concept")
	ErrInvalidQuestion   = errors.New("invalid test question")
	ErrDuplicateConcept  = errors.New("concept already exists")
	ErrWeakSpotNotFound  = errors.New("weak spot not found")
	ErrSessionNotFound   = errors.New("test session not found")
	ErrEmptyQuestionPool = errors.New("question pool is empty")
	ErrConcurrentUpdate  = errors.New("concept was modified concurrently")
	ErrNoAnswers         = errors.New("no answers provided")
	ErrInvalidQuery      = errors.New("invalid list query")
)
