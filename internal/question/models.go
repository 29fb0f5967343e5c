package question

import (
	"encoding/json"
	"fmt"
	"sort"
)

type Type string

const (
	TypeText      Type = "text"
	TypeMultiple  Type = "multiple"
	TypeTrueFalse Type = "true_false"
	TypeCheck     Type = "check"
)

// Labels published to respondents for true/false questions. Index 0 is TRUE.
const (
	TrueLabel  = "True"
	FalseLabel = "False"
)

func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeMultiple, TypeTrueFalse, TypeCheck:
		return true
	}
	return false
}

// HasOptions reports whether the type carries an authored option list.
func (t Type) HasOptions() bool { return t == TypeMultiple || t == TypeCheck }

// Question is the validated, canonical form of one question.
//
// Correct holds a single index for multiple and true_false, a sorted set of
// positions for check, and is nil when the question is not scored.
type Question struct {
	Title   string
	Type    Type
	Options []string
	Scored  bool
	Correct []int
}

// Draft is raw author input for one question, before validation.
type Draft struct {
	Title   string   `json:"title" yaml:"title"`
	Type    Type     `json:"type" yaml:"type"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
	Scored  bool     `json:"scored,omitempty" yaml:"scored,omitempty"`
	Correct int      `json:"correct,omitempty" yaml:"correct,omitempty"` // multiple, true_false; <0 means none
	Checked []int    `json:"checked,omitempty" yaml:"checked,omitempty"` // check
}

// Published is the respondent-side view: no correctness data.
type Published struct {
	Title   string   `json:"title"`
	Type    Type     `json:"type"`
	Options []string `json:"options,omitempty"`
}

// Draft returns the author input that validates back to q.
func (q Question) Draft() Draft {
	d := Draft{
		Title:   q.Title,
		Type:    q.Type,
		Options: append([]string(nil), q.Options...),
		Scored:  q.Scored,
		Correct: -1,
	}
	switch q.Type {
	case TypeMultiple, TypeTrueFalse:
		if len(q.Correct) > 0 {
			d.Correct = q.Correct[0]
		}
	case TypeCheck:
		d.Checked = append([]int(nil), q.Correct...)
	}
	return d
}

// Publish strips correctness for the respondent.
func (q Question) Publish() Published {
	p := Published{Title: q.Title, Type: q.Type}
	switch q.Type {
	case TypeMultiple, TypeCheck:
		p.Options = append([]string(nil), q.Options...)
	case TypeTrueFalse:
		p.Options = []string{TrueLabel, FalseLabel}
	}
	return p
}

// CorrectValues resolves the correctness references to option text.
func (q Question) CorrectValues() []string {
	domain := q.Options
	if q.Type == TypeTrueFalse {
		domain = []string{TrueLabel, FalseLabel}
	}
	out := make([]string, 0, len(q.Correct))
	for _, i := range q.Correct {
		if i >= 0 && i < len(domain) {
			out = append(out, domain[i])
		}
	}
	return out
}

type wireQuestion struct {
	Title   string          `json:"title"`
	Type    Type            `json:"type"`
	Options []string        `json:"options,omitempty"`
	Scored  *bool           `json:"scored,omitempty"`
	Correct json.RawMessage `json:"correct,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	scored := q.Scored
	w := wireQuestion{Title: q.Title, Type: q.Type, Options: q.Options, Scored: &scored}
	if q.Scored && len(q.Correct) > 0 {
		var (
			raw []byte
			err error
		)
		if q.Type == TypeCheck {
			raw, err = json.Marshal(q.Correct)
		} else {
			raw, err = json.Marshal(q.Correct[0])
		}
		if err != nil {
			return nil, err
		}
		w.Correct = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts both schema generations: a question without a
// "scored" key is scored unless it is a text question.
func (q *Question) UnmarshalJSON(b []byte) error {
	var w wireQuestion
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*q = Question{Title: w.Title, Type: w.Type, Options: w.Options}
	if w.Scored != nil {
		q.Scored = *w.Scored
	} else {
		q.Scored = w.Type != TypeText
	}
	if len(w.Correct) == 0 || string(w.Correct) == "null" {
		return nil
	}
	var one int
	if err := json.Unmarshal(w.Correct, &one); err == nil {
		q.Correct = []int{one}
		return nil
	}
	var many []int
	if err := json.Unmarshal(w.Correct, &many); err != nil {
		return fmt.Errorf("question %q: correct must be an index or a list of indices", w.Title)
	}
	q.Correct = normalizeSet(many)
	return nil
}

// normalizeSet sorts and de-duplicates positions.
func normalizeSet(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	out := append([]int(nil), in...)
	sort.Ints(out)
	j := 0
	for i, v := range out {
		if i > 0 && v == out[j-1] {
			continue
		}
		out[j] = v
		j++
	}
	return out[:j]
}
