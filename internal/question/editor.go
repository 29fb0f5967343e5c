package question

import "fmt"

// MinSlots is the number of option slots a choice editor always offers.
const MinSlots = 4

// Entry is one togglable correctness row of a check question.
type Entry struct {
	Position int    `json:"position"`
	Label    string `json:"label"`
	Checked  bool   `json:"checked"`
}

// Editor holds the editable state of one question in a builder session.
//
// For multiple, Selected indexes the current filtered options and is
// re-clamped on every slot edit. For check, Entries reflect the options as
// of the last RefreshCorrectness call only.
//
// Without the scorable toggle every choice question is scored and Scored
// cannot be turned off.
type Editor struct {
	Title    string
	Type     Type
	Slots    []string
	Scored   bool
	Selected int
	Entries  []Entry

	rules Rules
}

// NewEditor returns an empty editor for t under rules.
func NewEditor(t Type, rules Rules) *Editor {
	e := Transition(t, Editor{rules: rules})
	return &e
}

// Rules reports the question-model generation the editor follows.
func (e *Editor) Rules() Rules { return e.rules }

// Transition is the pure type-change function: the prior state is carried
// over where the new type can use it and dropped otherwise. Changing to the
// type the editor already has is the identity.
func Transition(t Type, prior Editor) Editor {
	if t == prior.Type {
		return prior.clone()
	}
	next := Editor{Title: prior.Title, Type: t, Selected: -1, rules: prior.rules}
	switch t {
	case TypeTrueFalse:
		next.Scored = true
		next.Selected = 0
	case TypeMultiple, TypeCheck:
		if prior.Type.HasOptions() {
			next.Slots = append([]string(nil), prior.Slots...)
			next.Scored = prior.Scored
		}
		if !next.rules.ScorableToggle {
			next.Scored = true
		}
		next.Slots = padSlots(next.Slots)
		if next.Scored {
			next.Selected = 0
			next.clamp()
			if t == TypeCheck {
				next.RefreshCorrectness()
			}
		}
	}
	return next
}

func (e Editor) clone() Editor {
	e.Slots = append([]string(nil), e.Slots...)
	e.Entries = append([]Entry(nil), e.Entries...)
	return e
}

func padSlots(slots []string) []string {
	for len(slots) < MinSlots {
		slots = append(slots, "")
	}
	return slots
}

// Choices is the current filtered option list.
func (e *Editor) Choices() []string { return FilterOptions(e.Slots) }

func (e *Editor) clamp() {
	if e.Type == TypeMultiple && e.Scored {
		e.Selected = ClampIndex(e.Selected, len(e.Choices()))
	}
}

func (e *Editor) SetSlot(i int, text string) error {
	if i < 0 || i >= len(e.Slots) {
		return fmt.Errorf("option slot %d out of range", i+1)
	}
	e.Slots[i] = text
	e.clamp()
	return nil
}

func (e *Editor) AddSlot() {
	if !e.Type.HasOptions() {
		return
	}
	e.Slots = append(e.Slots, "")
}

func (e *Editor) RemoveSlot(i int) error {
	if i < 0 || i >= len(e.Slots) {
		return fmt.Errorf("option slot %d out of range", i+1)
	}
	e.Slots = append(e.Slots[:i], e.Slots[i+1:]...)
	e.clamp()
	return nil
}

// SetScored toggles scoring for multiple/check. Turning it off discards the
// stored correctness; turning it on starts from the current options. It is
// a no-op without the scorable toggle.
func (e *Editor) SetScored(on bool) {
	if !e.Type.HasOptions() || !e.rules.ScorableToggle {
		return
	}
	e.Scored = on
	e.Selected = -1
	e.Entries = nil
	if !on {
		return
	}
	if e.Type == TypeMultiple {
		e.Selected = 0
		e.clamp()
		return
	}
	e.RefreshCorrectness()
}

// Select picks the correct choice of a multiple or true_false question.
func (e *Editor) Select(i int) error {
	n := len(e.Choices())
	switch {
	case e.Type == TypeTrueFalse:
		n = 2
	case e.Type != TypeMultiple || !e.Scored:
		return fmt.Errorf("%s question has no single correct choice", e.Type)
	}
	if i < 0 || i >= n {
		return fmt.Errorf("choice %d out of range", i+1)
	}
	e.Selected = i
	return nil
}

// RefreshCorrectness rebuilds the check entries from the current options,
// keeping the positions that were checked before.
func (e *Editor) RefreshCorrectness() {
	if e.Type != TypeCheck {
		return
	}
	prev := map[int]bool{}
	for _, en := range e.Entries {
		if en.Checked {
			prev[en.Position] = true
		}
	}
	choices := e.Choices()
	e.Entries = make([]Entry, len(choices))
	for i, c := range choices {
		e.Entries[i] = Entry{Position: i, Label: c, Checked: prev[i]}
	}
}

// Toggle flips the entry at pos as of the last refresh.
func (e *Editor) Toggle(pos int) error {
	if pos < 0 || pos >= len(e.Entries) {
		return fmt.Errorf("correctness entry %d out of range", pos+1)
	}
	e.Entries[pos].Checked = !e.Entries[pos].Checked
	return nil
}

// Checked lists the checked positions.
func (e *Editor) Checked() []int {
	var out []int
	for _, en := range e.Entries {
		if en.Checked {
			out = append(out, en.Position)
		}
	}
	return out
}

// Draft snapshots the editor as validator input.
func (e *Editor) Draft() Draft {
	d := Draft{Title: e.Title, Type: e.Type, Scored: e.Scored, Correct: e.Selected}
	if e.Type.HasOptions() {
		d.Options = append([]string(nil), e.Slots...)
	}
	if e.Type == TypeCheck {
		d.Checked = e.Checked()
	}
	return d
}

// EditorFor rebuilds editable state from a persisted question. Persisted
// indices are re-clamped against the persisted options.
func EditorFor(q Question, rules Rules) *Editor {
	e := &Editor{
		Title:    q.Title,
		Type:     q.Type,
		Scored:   q.Scored || (q.Type.HasOptions() && !rules.ScorableToggle),
		Selected: -1,
		rules:    rules,
	}
	switch q.Type {
	case TypeTrueFalse:
		e.Scored = true
		e.Selected = 0
		if len(q.Correct) > 0 && q.Correct[0] == 1 {
			e.Selected = 1
		}
	case TypeMultiple, TypeCheck:
		e.Slots = padSlots(append([]string(nil), q.Options...))
		if !e.Scored {
			break
		}
		if q.Type == TypeMultiple {
			e.Selected = 0
			if len(q.Correct) > 0 {
				e.Selected = q.Correct[0]
			}
			if e.Selected < 0 {
				e.Selected = 0
			}
			e.clamp()
			break
		}
		for _, p := range q.Correct {
			e.Entries = append(e.Entries, Entry{Position: p, Checked: true})
		}
		e.RefreshCorrectness()
	}
	return e
}
