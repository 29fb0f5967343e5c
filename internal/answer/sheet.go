// Package answer captures a respondent's answers to a published exam.
//
// Answers are the literal text typed or chosen by the respondent. Choice
// answers are matched by option text, never by index.
package answer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mind-engage/mindengage-exams/internal/question"
)

var (
	ErrRespondentRequired = errors.New("respondent name and id are required")
	ErrNotAnOption        = errors.New("not one of the question's options")
	ErrWrongKind          = errors.New("answer kind does not match question type")
)

// IncompleteError reports the first unanswered question (1-based).
type IncompleteError struct {
	Position int
	Type     question.Type
}

func (e *IncompleteError) Error() string {
	if e.Type == question.TypeText {
		return fmt.Sprintf("question %d: answer required", e.Position)
	}
	return fmt.Sprintf("question %d: select an option", e.Position)
}

type Respondent struct {
	Name string `json:"respondent_name" yaml:"name"`
	ID   string `json:"respondent_id" yaml:"id"`
}

// Submission is what the exam service receives. Answers align 1:1 with the
// exam's question order.
type Submission struct {
	ExamID         string   `json:"exam_id"`
	RespondentName string   `json:"respondent_name"`
	RespondentID   string   `json:"respondent_id"`
	Answers        []string `json:"answers"`
}

// Sheet is one respondent's in-progress answer sheet.
type Sheet struct {
	examID    string
	questions []question.Published
	answers   []string
}

func NewSheet(examID string, qs []question.Published) *Sheet {
	return &Sheet{
		examID:    examID,
		questions: append([]question.Published(nil), qs...),
		answers:   make([]string, len(qs)),
	}
}

func (s *Sheet) Len() int { return len(s.questions) }

func (s *Sheet) Questions() []question.Published {
	return append([]question.Published(nil), s.questions...)
}

func (s *Sheet) at(i int) (question.Published, error) {
	if i < 0 || i >= len(s.questions) {
		return question.Published{}, fmt.Errorf("question %d does not exist", i+1)
	}
	return s.questions[i], nil
}

// Text records a free-text answer.
func (s *Sheet) Text(i int, value string) error {
	q, err := s.at(i)
	if err != nil {
		return err
	}
	if q.Type != question.TypeText {
		return fmt.Errorf("question %d: %w", i+1, ErrWrongKind)
	}
	s.answers[i] = value
	return nil
}

// Choose records the chosen option of a choice question by its text.
func (s *Sheet) Choose(i int, option string) error {
	q, err := s.at(i)
	if err != nil {
		return err
	}
	if q.Type == question.TypeText {
		return fmt.Errorf("question %d: %w", i+1, ErrWrongKind)
	}
	for _, o := range q.Options {
		if o == option {
			s.answers[i] = option
			return nil
		}
	}
	return fmt.Errorf("question %d: %q %w", i+1, option, ErrNotAnOption)
}

// Answer dispatches on the question type.
func (s *Sheet) Answer(i int, value string) error {
	q, err := s.at(i)
	if err != nil {
		return err
	}
	if q.Type == question.TypeText {
		return s.Text(i, value)
	}
	return s.Choose(i, value)
}

func (s *Sheet) Clear(i int) error {
	if _, err := s.at(i); err != nil {
		return err
	}
	s.answers[i] = ""
	return nil
}

// Submit checks identity and completeness and returns the positional
// submission. The first empty answer aborts with *IncompleteError.
func (s *Sheet) Submit(r Respondent) (Submission, error) {
	name, id := strings.TrimSpace(r.Name), strings.TrimSpace(r.ID)
	if name == "" || id == "" {
		return Submission{}, ErrRespondentRequired
	}
	out := make([]string, len(s.answers))
	for i, a := range s.answers {
		if s.questions[i].Type == question.TypeText {
			a = strings.TrimSpace(a)
		}
		if a == "" {
			return Submission{}, &IncompleteError{Position: i + 1, Type: s.questions[i].Type}
		}
		out[i] = a
	}
	return Submission{ExamID: s.examID, RespondentName: name, RespondentID: id, Answers: out}, nil
}

// Check verifies a submission received from elsewhere against the
// published questions: same length, no empty answer, choice answers among
// the options.
func Check(qs []question.Published, answers []string) error {
	if len(answers) != len(qs) {
		return fmt.Errorf("expected %d answers, got %d", len(qs), len(answers))
	}
	s := NewSheet("", qs)
	for i, a := range answers {
		if strings.TrimSpace(a) == "" {
			return &IncompleteError{Position: i + 1, Type: qs[i].Type}
		}
		if err := s.Answer(i, a); err != nil {
			return err
		}
	}
	return nil
}
