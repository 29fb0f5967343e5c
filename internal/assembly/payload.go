package assembly

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mind-engage/mindengage-exams/internal/catalog"
	"github.com/mind-engage/mindengage-exams/internal/question"
)

// Form is the raw exam metadata typed by the facilitator.
type Form struct {
	Facilitator      string            `json:"facilitator" yaml:"facilitator"`
	FacilitatorID    string            `json:"facilitator_id" yaml:"facilitator_id"`
	Course           string            `json:"course" yaml:"course"`
	Date             string            `json:"date" yaml:"date"`
	Duration         string            `json:"duration" yaml:"duration"`
	InvitesCount     string            `json:"invites_count" yaml:"invites_count"`
	FacilitatorEmail string            `json:"facilitator_email" yaml:"facilitator_email"`
	Description      string            `json:"description,omitempty" yaml:"description,omitempty"`
	Classification   catalog.Selection `json:"classification,omitempty" yaml:"classification,omitempty"`
}

type Metadata struct {
	Date             string             `json:"date"`
	Duration         string             `json:"duration"`
	InvitesCount     int                `json:"invites_count"`
	FacilitatorEmail string             `json:"facilitator_email"`
	Description      string             `json:"description,omitempty"`
	Classification   *catalog.Selection `json:"classification,omitempty"`
}

// Payload is the submission object sent to the exam service on create and
// update.
type Payload struct {
	Facilitator   string              `json:"facilitator"`
	FacilitatorID string              `json:"facilitator_id"`
	Course        string              `json:"course"`
	Metadata      Metadata            `json:"metadata"`
	Questions     []question.Question `json:"questions"`
}

var stripMarks = runes.Remove(runes.In(unicode.Mn))

// NormalizeName strips diacritics, collapses whitespace and upper-cases.
func NormalizeName(s string) string {
	t := transform.Chain(norm.NFD, stripMarks, norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(out), " "))
}

// Form recovers the editable metadata of a payload.
func (p Payload) Form() Form {
	f := Form{
		Facilitator:      p.Facilitator,
		FacilitatorID:    p.FacilitatorID,
		Course:           p.Course,
		Date:             p.Metadata.Date,
		Duration:         p.Metadata.Duration,
		FacilitatorEmail: p.Metadata.FacilitatorEmail,
		Description:      p.Metadata.Description,
	}
	if p.Metadata.InvitesCount > 0 {
		f.InvitesCount = strconv.Itoa(p.Metadata.InvitesCount)
	}
	if p.Metadata.Classification != nil {
		f.Classification = *p.Metadata.Classification
	}
	return f
}
