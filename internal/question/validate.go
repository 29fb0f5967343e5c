package question

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyTitle       = errors.New("empty title")
	ErrUnknownType      = errors.New("unknown question type")
	ErrTooFewOptions    = errors.New("at least two options required")
	ErrNoCorrectChoice  = errors.New("no correct option selected")
	ErrTrueFalseAnswer  = errors.New("true/false answer must be 0 (true) or 1 (false)")
	ErrNoCorrectMarked  = errors.New("no correct option marked")
	ErrCorrectOutOfBand = errors.New("correct option out of range")
)

// MinOptions is the minimum number of non-empty options for choice questions.
const MinOptions = 2

// ValidationError locates an input error. Position is the 1-based question
// position; it is 0 for exam-level fields, which set Field instead.
type ValidationError struct {
	Position int
	Field    string
	Err      error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Position > 0:
		return fmt.Sprintf("question %d: %v", e.Position, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Reason is the human-readable cause without the position prefix.
func (e *ValidationError) Reason() string { return e.Err.Error() }

// At returns a copy of e positioned at the given 1-based question.
func (e *ValidationError) At(pos int) *ValidationError {
	c := *e
	c.Position = pos
	return &c
}

func invalid(err error) *ValidationError { return &ValidationError{Err: err} }

// Rules selects the question-model generation in effect.
type Rules struct {
	// ScorableToggle lets multiple/check questions opt out of scoring.
	// When false every non-text question is scored.
	ScorableToggle bool
}

// DefaultRules is the scorable-toggle generation.
var DefaultRules = Rules{ScorableToggle: true}

// FilterOptions trims every authored slot and drops the empty ones.
func FilterOptions(slots []string) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ClampIndex keeps a single-select index inside [0, n-1]. Negative indices
// mean "no selection" and are returned unchanged.
func ClampIndex(idx, n int) int {
	if idx >= n && n > 0 {
		return n - 1
	}
	return idx
}

// Validate converts raw author input into a Question or a *ValidationError
// whose Position is left at 0 for the caller to set.
//
// Single-select indices above the filtered option range are clamped to the
// last option. Multi-select positions are taken as they were last refreshed
// in the editor and are never remapped: if option text was edited after the
// last refresh a position may now name a different option.
func Validate(d Draft, rules Rules) (Question, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return Question{}, invalid(ErrEmptyTitle)
	}
	q := Question{Title: title, Type: d.Type}

	switch d.Type {
	case TypeText:
		return q, nil

	case TypeTrueFalse:
		if d.Correct != 0 && d.Correct != 1 {
			return Question{}, invalid(ErrTrueFalseAnswer)
		}
		q.Scored = true
		q.Correct = []int{d.Correct}
		return q, nil

	case TypeMultiple, TypeCheck:
		q.Options = FilterOptions(d.Options)
		if len(q.Options) < MinOptions {
			return Question{}, invalid(ErrTooFewOptions)
		}
		q.Scored = d.Scored || !rules.ScorableToggle
		if !q.Scored {
			return q, nil
		}
		if d.Type == TypeMultiple {
			idx := ClampIndex(d.Correct, len(q.Options))
			if idx < 0 {
				return Question{}, invalid(ErrNoCorrectChoice)
			}
			q.Correct = []int{idx}
			return q, nil
		}
		set := normalizeSet(d.Checked)
		if len(set) == 0 {
			return Question{}, invalid(ErrNoCorrectMarked)
		}
		for _, p := range set {
			if p < 0 || p >= len(q.Options) {
				return Question{}, invalid(ErrCorrectOutOfBand)
			}
		}
		q.Correct = set
		return q, nil
	}
	return Question{}, invalid(ErrUnknownType)
}

// Revalidate runs an already-built Question back through Validate.
// A valid Question comes back unchanged.
func Revalidate(q Question, rules Rules) (Question, error) {
	return Validate(q.Draft(), rules)
}

// ValidateAll validates drafts in order and stops at the first failure,
// reporting its 1-based position.
func ValidateAll(drafts []Draft, rules Rules) ([]Question, error) {
	out := make([]Question, 0, len(drafts))
	for i, d := range drafts {
		q, err := Validate(d, rules)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return nil, ve.At(i + 1)
			}
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}
