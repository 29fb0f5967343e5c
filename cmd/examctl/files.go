package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-exams/internal/answer"
	"github.com/mind-engage/mindengage-exams/internal/assembly"
	"github.com/mind-engage/mindengage-exams/internal/exam"
	"github.com/mind-engage/mindengage-exams/internal/question"
)

// examFile is the YAML document authors edit: the metadata form and the
// question drafts in order.
type examFile struct {
	Form      assembly.Form    `yaml:"form"`
	Questions []question.Draft `yaml:"questions"`
}

type answersFile struct {
	Respondent answer.Respondent `yaml:"respondent"`
	Answers    []string          `yaml:"answers"`
}

func readYAML(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// showFile renders the editable state of a persisted exam.
func showFile(e exam.Exam, rules question.Rules) examFile {
	b := assembly.Reconstruct(e.ID, e.Payload, rules)
	return examFile{Form: b.Form, Questions: b.Drafts()}
}

// apply overlays f on the reconstructed builder: non-empty form fields
// replace the stored ones, and a non-empty question list replaces all
// questions.
func apply(b *assembly.Builder, f examFile) []question.Draft {
	mergeForm(&b.Form, f.Form)
	if len(f.Questions) == 0 {
		return b.Drafts()
	}
	return f.Questions
}

func mergeForm(dst *assembly.Form, src assembly.Form) {
	set := func(d *string, s string) {
		if strings.TrimSpace(s) != "" {
			*d = s
		}
	}
	set(&dst.Facilitator, src.Facilitator)
	set(&dst.FacilitatorID, src.FacilitatorID)
	set(&dst.Course, src.Course)
	set(&dst.Date, src.Date)
	set(&dst.Duration, src.Duration)
	set(&dst.InvitesCount, src.InvitesCount)
	set(&dst.FacilitatorEmail, src.FacilitatorEmail)
	set(&dst.Description, src.Description)
	if !src.Classification.IsZero() {
		dst.Classification = src.Classification
	}
}

// fillSheet records positional answers on the sheet.
func fillSheet(s *answer.Sheet, answers []string) error {
	if len(answers) > s.Len() {
		return fmt.Errorf("%d answers for %d questions", len(answers), s.Len())
	}
	for i, a := range answers {
		if strings.TrimSpace(a) == "" {
			continue
		}
		if err := s.Answer(i, a); err != nil {
			return err
		}
	}
	return nil
}

func label(s exam.Summary) string {
	return fmt.Sprintf("%s — %s (%s)", s.Course, s.Facilitator, s.ID)
}
