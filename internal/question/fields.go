package question

// Fields is what a builder must render for one question. Nothing here is
// persisted; it is derived from the Editor on demand.
type Fields struct {
	Type        Type     `json:"type"`
	Title       string   `json:"title"`
	OptionSlots []string `json:"option_slots,omitempty"`
	ScoreToggle bool     `json:"score_toggle"`
	Scored      bool     `json:"scored"`
	// Choices feeds the single correct-answer selector (multiple, scored).
	Choices  []string `json:"choices,omitempty"`
	Selected int      `json:"selected"`
	// TrueFalse shows the fixed TRUE/FALSE selector.
	TrueFalse bool    `json:"true_false"`
	Entries   []Entry `json:"entries,omitempty"`
}

func (e *Editor) Fields() Fields {
	f := Fields{Type: e.Type, Title: e.Title, Scored: e.Scored, Selected: e.Selected}
	switch e.Type {
	case TypeTrueFalse:
		f.TrueFalse = true
		f.Choices = []string{TrueLabel, FalseLabel}
	case TypeMultiple, TypeCheck:
		f.OptionSlots = append([]string(nil), e.Slots...)
		f.ScoreToggle = e.rules.ScorableToggle
		if !e.Scored {
			break
		}
		if e.Type == TypeMultiple {
			f.Choices = e.Choices()
		} else {
			f.Entries = append([]Entry(nil), e.Entries...)
		}
	}
	return f
}
