package assembly

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mind-engage/mindengage-exams/internal/catalog"
	"github.com/mind-engage/mindengage-exams/internal/question"
)

var (
	ErrRequired       = errors.New("required")
	ErrInvalidEmail   = errors.New("must contain '@' and '.'")
	ErrInvalidInvites = errors.New("must be a positive integer")
)

// Assembler turns builder state into a submission payload. The zero value
// applies the legacy rules, where every choice question is scored, and no
// classification catalog. Use New with question.DefaultRules for the
// scorable toggle.
type Assembler struct {
	Rules   question.Rules
	Catalog *catalog.Catalog
}

func New(rules question.Rules, cat *catalog.Catalog) *Assembler {
	if cat == nil {
		cat = catalog.Empty()
	}
	return &Assembler{Rules: rules, Catalog: cat}
}

func fieldError(field string, err error) *question.ValidationError {
	return &question.ValidationError{Field: field, Err: err}
}

// Meta validates the exam-level fields. It runs before any question is
// looked at.
func (a *Assembler) Meta(f Form) (Payload, error) {
	required := []struct{ name, value string }{
		{"facilitator", f.Facilitator},
		{"facilitator_id", f.FacilitatorID},
		{"course", f.Course},
		{"date", f.Date},
		{"duration", f.Duration},
		{"invites_count", f.InvitesCount},
		{"facilitator_email", f.FacilitatorEmail},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return Payload{}, fieldError(r.name, ErrRequired)
		}
	}
	invites, err := strconv.Atoi(strings.TrimSpace(f.InvitesCount))
	if err != nil || invites <= 0 {
		return Payload{}, fieldError("invites_count", ErrInvalidInvites)
	}
	email := strings.TrimSpace(f.FacilitatorEmail)
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return Payload{}, fieldError("facilitator_email", ErrInvalidEmail)
	}

	p := Payload{
		Facilitator:   NormalizeName(f.Facilitator),
		FacilitatorID: strings.TrimSpace(f.FacilitatorID),
		Course:        strings.TrimSpace(f.Course),
		Metadata: Metadata{
			Date:             strings.TrimSpace(f.Date),
			Duration:         strings.TrimSpace(f.Duration),
			InvitesCount:     invites,
			FacilitatorEmail: email,
			Description:      strings.TrimSpace(f.Description),
		},
	}
	if !f.Classification.IsZero() {
		sel := catalog.Selection{
			Area:  strings.TrimSpace(f.Classification.Area),
			Topic: strings.TrimSpace(f.Classification.Topic),
		}
		if a.Catalog != nil && a.Catalog.Len() > 0 {
			if err := a.Catalog.Check(sel.Area, sel.Topic); err != nil {
				return Payload{}, fieldError("classification", err)
			}
		}
		p.Metadata.Classification = &sel
	}
	return p, nil
}

// Build validates metadata and then every draft in order. The first error
// aborts; no partial payload is returned.
func (a *Assembler) Build(f Form, drafts []question.Draft) (Payload, error) {
	p, err := a.Meta(f)
	if err != nil {
		return Payload{}, err
	}
	qs, err := question.ValidateAll(drafts, a.Rules)
	if err != nil {
		return Payload{}, err
	}
	p.Questions = qs
	return p, nil
}

// ValidatePayload re-runs assembly over a payload that was already built,
// e.g. one received by the exam service. A valid payload comes back equal.
func (a *Assembler) ValidatePayload(p Payload) (Payload, error) {
	drafts := make([]question.Draft, len(p.Questions))
	for i, q := range p.Questions {
		drafts[i] = q.Draft()
	}
	return a.Build(p.Form(), drafts)
}
