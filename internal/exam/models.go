package exam

import (
	"github.com/mind-engage/mindengage-exams/internal/answer"
	"github.com/mind-engage/mindengage-exams/internal/assembly"
	"github.com/mind-engage/mindengage-exams/internal/question"
)

// Exam is a persisted submission payload plus its identity.
type Exam struct {
	ID string `json:"id"`
	assembly.Payload
	CreatedAt int64 `json:"created_at,omitempty"`
	UpdatedAt int64 `json:"updated_at,omitempty"`
}

// Summary is one row of the exam selection list.
type Summary struct {
	ID          string `json:"id"`
	Course      string `json:"course"`
	Facilitator string `json:"facilitator"`
}

// Public is the respondent view of an exam: no correctness data.
type Public struct {
	ID          string               `json:"id"`
	Course      string               `json:"course"`
	Facilitator string               `json:"facilitator"`
	Questions   []question.Published `json:"questions"`
}

type Response struct {
	ID string `json:"id"`
	answer.Submission
	SubmittedAt int64 `json:"submitted_at"`
}

func (e Exam) Summary() Summary {
	return Summary{ID: e.ID, Course: e.Course, Facilitator: e.Facilitator}
}

func (e Exam) Public() Public {
	p := Public{ID: e.ID, Course: e.Course, Facilitator: e.Facilitator}
	p.Questions = make([]question.Published, len(e.Questions))
	for i, q := range e.Questions {
		p.Questions[i] = q.Publish()
	}
	return p
}
