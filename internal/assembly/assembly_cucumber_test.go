package assembly

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/mind-engage/mindengage-exams/internal/question"
)

func TestAssemblyFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "assembly-features",
		ScenarioInitializer: initializeAssemblyScenario,
		Options: &godog.Options{
			Format:   "progress",
			Paths:    []string{"testdata/features"},
			Output:   io.Discard,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("assembly features failed")
	}
}

type assemblyState struct {
	form    Form
	drafts  []question.Draft
	payload Payload
	err     error
}

func initializeAssemblyScenario(ctx *godog.ScenarioContext) {
	s := &assemblyState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*s = assemblyState{}
		return ctx, nil
	})

	ctx.Step(`^a complete exam form$`, s.aCompleteExamForm)
	ctx.Step(`^the form field "([^"]*)" is empty$`, s.theFormFieldIsEmpty)
	ctx.Step(`^a text question "([^"]*)"$`, s.aTextQuestion)
	ctx.Step(`^a scored multiple question "([^"]*)" with options "([^"]*)" and correct index (-?\d+)$`, s.aScoredMultipleQuestion)
	ctx.Step(`^a scored check question "([^"]*)" with options "([^"]*)" and checked positions "([^"]*)"$`, s.aScoredCheckQuestion)
	ctx.Step(`^I assemble the exam$`, s.iAssembleTheExam)
	ctx.Step(`^assembly succeeds$`, s.assemblySucceeds)
	ctx.Step(`^question (\d+) has options "([^"]*)"$`, s.questionHasOptions)
	ctx.Step(`^question (\d+) correct answer is "([^"]*)"$`, s.questionCorrectAnswerIs)
	ctx.Step(`^assembly fails at question (\d+) with "([^"]*)"$`, s.assemblyFailsAtQuestion)
	ctx.Step(`^assembly fails on field "([^"]*)"$`, s.assemblyFailsOnField)
}

func (s *assemblyState) aCompleteExamForm() error {
	s.form = validForm()
	return nil
}

func (s *assemblyState) theFormFieldIsEmpty(field string) error {
	switch field {
	case "facilitator":
		s.form.Facilitator = ""
	case "course":
		s.form.Course = ""
	case "facilitator_email":
		s.form.FacilitatorEmail = ""
	default:
		return fmt.Errorf("unsupported field %q", field)
	}
	return nil
}

func (s *assemblyState) aTextQuestion(title string) error {
	s.drafts = append(s.drafts, question.Draft{Title: title, Type: question.TypeText})
	return nil
}

func (s *assemblyState) aScoredMultipleQuestion(title, options string, correct int) error {
	s.drafts = append(s.drafts, question.Draft{
		Title:   title,
		Type:    question.TypeMultiple,
		Options: strings.Split(options, "|"),
		Scored:  true,
		Correct: correct,
	})
	return nil
}

func (s *assemblyState) aScoredCheckQuestion(title, options, checked string) error {
	var positions []int
	for _, p := range strings.Split(checked, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return err
		}
		positions = append(positions, n)
	}
	s.drafts = append(s.drafts, question.Draft{
		Title:   title,
		Type:    question.TypeCheck,
		Options: strings.Split(options, "|"),
		Scored:  true,
		Checked: positions,
	})
	return nil
}

func (s *assemblyState) iAssembleTheExam() error {
	s.payload, s.err = New(question.DefaultRules, nil).Build(s.form, s.drafts)
	return nil
}

func (s *assemblyState) assemblySucceeds() error {
	if s.err != nil {
		return fmt.Errorf("assembly failed: %w", s.err)
	}
	return nil
}

func (s *assemblyState) question(pos int) (question.Question, error) {
	if pos < 1 || pos > len(s.payload.Questions) {
		return question.Question{}, fmt.Errorf("no question %d in payload", pos)
	}
	return s.payload.Questions[pos-1], nil
}

func (s *assemblyState) questionHasOptions(pos int, options string) error {
	q, err := s.question(pos)
	if err != nil {
		return err
	}
	if got := strings.Join(q.Options, "|"); got != options {
		return fmt.Errorf("options = %q, want %q", got, options)
	}
	return nil
}

func (s *assemblyState) questionCorrectAnswerIs(pos int, want string) error {
	q, err := s.question(pos)
	if err != nil {
		return err
	}
	if got := strings.Join(q.CorrectValues(), "|"); got != want {
		return fmt.Errorf("correct = %q, want %q", got, want)
	}
	return nil
}

func (s *assemblyState) validationError() (*question.ValidationError, error) {
	if s.err == nil {
		return nil, errors.New("assembly unexpectedly succeeded")
	}
	var ve *question.ValidationError
	if !errors.As(s.err, &ve) {
		return nil, fmt.Errorf("unexpected error type %T: %v", s.err, s.err)
	}
	if len(s.payload.Questions) != 0 {
		return nil, errors.New("partial payload emitted")
	}
	return ve, nil
}

func (s *assemblyState) assemblyFailsAtQuestion(pos int, reason string) error {
	ve, err := s.validationError()
	if err != nil {
		return err
	}
	if ve.Position != pos || ve.Reason() != reason {
		return fmt.Errorf("got position %d reason %q", ve.Position, ve.Reason())
	}
	return nil
}

func (s *assemblyState) assemblyFailsOnField(field string) error {
	ve, err := s.validationError()
	if err != nil {
		return err
	}
	if ve.Position != 0 || ve.Field != field {
		return fmt.Errorf("got position %d field %q", ve.Position, ve.Field)
	}
	return nil
}
