package assembly

import (
	"fmt"

	"github.com/mind-engage/mindengage-exams/internal/question"
)

// Builder is the editable state of one authoring session. It is not safe
// for concurrent use.
type Builder struct {
	// ExamID is set when the session edits a persisted exam.
	ExamID  string
	Form    Form
	Editors []*question.Editor
	Rules   question.Rules
}

func NewBuilder(rules question.Rules) *Builder { return &Builder{Rules: rules} }

func (b *Builder) Editing() bool { return b.ExamID != "" }

func (b *Builder) Add(t question.Type) *question.Editor {
	e := question.NewEditor(t, b.Rules)
	b.Editors = append(b.Editors, e)
	return e
}

func (b *Builder) at(i int) (*question.Editor, error) {
	if i < 0 || i >= len(b.Editors) {
		return nil, fmt.Errorf("question %d does not exist", i+1)
	}
	return b.Editors[i], nil
}

func (b *Builder) Question(i int) (*question.Editor, error) { return b.at(i) }

func (b *Builder) Remove(i int) error {
	if _, err := b.at(i); err != nil {
		return err
	}
	b.Editors = append(b.Editors[:i], b.Editors[i+1:]...)
	return nil
}

func (b *Builder) Move(from, to int) error {
	e, err := b.at(from)
	if err != nil {
		return err
	}
	if _, err := b.at(to); err != nil {
		return err
	}
	b.Editors = append(b.Editors[:from], b.Editors[from+1:]...)
	b.Editors = append(b.Editors[:to], append([]*question.Editor{e}, b.Editors[to:]...)...)
	return nil
}

func (b *Builder) ChangeType(i int, t question.Type) error {
	e, err := b.at(i)
	if err != nil {
		return err
	}
	*e = question.Transition(t, *e)
	return nil
}

func (b *Builder) Drafts() []question.Draft {
	out := make([]question.Draft, len(b.Editors))
	for i, e := range b.Editors {
		out[i] = e.Draft()
	}
	return out
}

// Submission assembles the session into a payload.
func (a *Assembler) Submission(b *Builder) (Payload, error) {
	return a.Build(b.Form, b.Drafts())
}

// Reconstruct rebuilds an editing session from a persisted exam. Option
// lists are padded to question.MinSlots and stored correctness is
// re-clamped against the stored options.
func Reconstruct(examID string, p Payload, rules question.Rules) *Builder {
	b := &Builder{ExamID: examID, Form: p.Form(), Rules: rules}
	b.Editors = make([]*question.Editor, len(p.Questions))
	for i, q := range p.Questions {
		b.Editors[i] = question.EditorFor(q, rules)
	}
	return b
}
