package entity

import "time"

// AnswerRecord is one answered question inside a test session.
type AnswerRecord struct {
	QuestionID string  `json:"question_id"`
	UserAnswer string  `json:"user_answer"`
	IsCorrect  bool    `json:"is_correct"`
	TimeTaken  float64 `json:"time_taken"`
	HintUsed   bool    `json:"hint_used"`
}

// TestSession is the state of one adaptive practice test. Transitions return new values.
type TestSession struct {
	ID                string         `json:"id"`
	LearnerID         string         `json:"learner_id,omitempty"`
	Course            string         `json:"course,omitempty"`
	Topic             string         `json:"topic,omitempty"`
	Questions         []TestQuestion `json:"questions"`
	Answers           []AnswerRecord `json:"answers"`
	CurrentDifficulty float64        `json:"current_difficulty"`
	Streak            int            `json:"streak"`
	EstimatedAbility  float64        `json:"estimated_ability"`
	StartedAt         time.Time      `json:"started_at"`
}

// Clone returns a deep copy that shares no slices with s.
func (s TestSession) Clone() TestSession {
	out := s
	out.Questions = make([]TestQuestion, len(s.Questions))
	for i, q := range s.Questions {
		out.Questions[i] = q.Clone()
	}
	out.Answers = append(make([]AnswerRecord, 0, len(s.Answers)+1), s.Answers...)
	return out
}

// Question looks a question up by id.
func (s TestSession) Question(id string) (TestQuestion, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return TestQuestion{}, false
}

// Answered reports whether the question already has an answer.
func (s TestSession) Answered(id string) bool {
	for _, a := range s.Answers {
		if a.QuestionID == id {
			return true
		}
	}
	return false
}
