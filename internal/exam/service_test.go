package exam

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-exams/internal/answer"
	"github.com/mind-engage/mindengage-exams/internal/assembly"
	"github.com/mind-engage/mindengage-exams/internal/question"
	syncx "github.com/mind-engage/mindengage-exams/internal/sync"
)

func samplePayload() assembly.Payload {
	return assembly.Payload{
		Facilitator:   "ana maría",
		FacilitatorID: "99",
		Course:        "Safety",
		Metadata: assembly.Metadata{
			Date:             "2026-11-02",
			Duration:         "2h",
			InvitesCount:     10,
			FacilitatorEmail: "ana@example.org",
		},
		Questions: []question.Question{
			{Title: "Why?", Type: question.TypeText},
			{Title: "Pick", Type: question.TypeMultiple, Options: []string{"a", "b"}, Scored: true, Correct: []int{1}},
			{Title: "Sky is blue", Type: question.TypeTrueFalse, Scored: true, Correct: []int{0}},
		},
	}
}

func fixedClock() time.Time { return time.Unix(1_700_000_000, 0) }

func newTestService(opts ...Option) (*Service, *syncx.MemoryLog) {
	events := &syncx.MemoryLog{}
	opts = append([]Option{WithEvents(events), WithClock(fixedClock)}, opts...)
	return NewService(NewInMemoryStore(), nil, opts...), events
}

func TestCreate_AssignsShortIDAndNormalizes(t *testing.T) {
	svc, events := newTestService()
	e, err := svc.Create(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-f]{8}$`).MatchString(e.ID) {
		t.Fatalf("id %q is not 8 hex chars", e.ID)
	}
	if e.Facilitator != "ANA MARIA" {
		t.Fatalf("facilitator = %q", e.Facilitator)
	}
	if e.CreatedAt != fixedClock().Unix() {
		t.Fatalf("created_at = %d", e.CreatedAt)
	}
	evs := events.Events()
	if len(evs) != 1 || evs[0].Type != syncx.ExamCreated || evs[0].Key != e.ID {
		t.Fatalf("events = %+v", evs)
	}
}

func TestCreate_PrependsDefaults(t *testing.T) {
	def := question.Question{Title: "Your role", Type: question.TypeText}
	svc, _ := newTestService(WithDefaultQuestions([]question.Question{def}))
	e, err := svc.Create(context.Background(), samplePayload())
	if err != nil {
		t.Fatal(err)
	}
	if len(e.Questions) != 4 || e.Questions[0].Title != "Your role" {
		t.Fatalf("questions = %+v", e.Questions)
	}

	// defaults are not added again on update
	u, err := svc.Update(context.Background(), e.ID, e.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Questions) != 4 {
		t.Fatalf("update changed question count to %d", len(u.Questions))
	}
}

func TestCreate_InvalidPayload(t *testing.T) {
	svc, events := newTestService()
	p := samplePayload()
	p.Questions[1].Options = []string{"only"}
	_, err := svc.Create(context.Background(), p)
	var inv *InvalidError
	if !errors.As(err, &inv) {
		t.Fatalf("want InvalidError, got %v", err)
	}
	if !errors.Is(err, question.ErrTooFewOptions) {
		t.Fatalf("want ErrTooFewOptions, got %v", err)
	}
	if len(events.Events()) != 0 {
		t.Fatal("no event expected for rejected payload")
	}
}

func TestCreate_RetriesOnIDCollision(t *testing.T) {
	ids := []string{"aaaaaaaa", "aaaaaaaa", "bbbbbbbb"}
	next := func() string { id := ids[0]; ids = ids[1:]; return id }
	svc, _ := newTestService(WithIDFunc(next))
	first, err := svc.Create(context.Background(), samplePayload())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create(context.Background(), samplePayload())
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != "aaaaaaaa" || second.ID != "bbbbbbbb" {
		t.Fatalf("ids = %s, %s", first.ID, second.ID)
	}
}

func TestUpdate_UnknownExam(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Update(context.Background(), "missing", samplePayload()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDuplicate(t *testing.T) {
	svc, events := newTestService()
	ctx := context.Background()
	src, _ := svc.Create(ctx, samplePayload())
	dup, err := svc.Duplicate(ctx, src.ID)
	if err != nil {
		t.Fatal(err)
	}
	if dup.ID == src.ID || dup.Course != src.Course || len(dup.Questions) != len(src.Questions) {
		t.Fatalf("dup = %+v", dup)
	}
	list, _ := svc.List(ctx)
	if len(list) != 2 {
		t.Fatalf("list = %+v", list)
	}
	if evs := events.Events(); evs[len(evs)-1].Type != syncx.ExamDuplicated {
		t.Fatalf("events = %+v", evs)
	}
}

func TestPublic_HidesCorrectness(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	e, _ := svc.Create(ctx, samplePayload())
	pub, err := svc.Public(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	tf := pub.Questions[2]
	if len(tf.Options) != 2 || tf.Options[0] != question.TrueLabel {
		t.Fatalf("true_false published as %+v", tf)
	}
}

func TestSubmit(t *testing.T) {
	svc, events := newTestService()
	ctx := context.Background()
	e, _ := svc.Create(ctx, samplePayload())

	sub := answer.Submission{
		ExamID:         e.ID,
		RespondentName: " Luis ",
		RespondentID:   "7",
		Answers:        []string{"because", "b", question.FalseLabel},
	}
	r, err := svc.Submit(ctx, sub)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if r.RespondentName != "Luis" || r.ID == "" {
		t.Fatalf("response = %+v", r)
	}
	rs, err := svc.Responses(ctx, e.ID)
	if err != nil || len(rs) != 1 {
		t.Fatalf("responses = %+v, %v", rs, err)
	}
	if evs := events.Events(); evs[len(evs)-1].Type != syncx.ResponseSubmitted {
		t.Fatalf("events = %+v", evs)
	}
}

func TestSubmit_Rejections(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	e, _ := svc.Create(ctx, samplePayload())

	cases := []struct {
		name string
		sub  answer.Submission
		want error
	}{
		{"no respondent", answer.Submission{ExamID: e.ID, Answers: []string{"x", "a", "True"}}, answer.ErrRespondentRequired},
		{"not an option", answer.Submission{ExamID: e.ID, RespondentName: "a", RespondentID: "1", Answers: []string{"x", "c", "True"}}, answer.ErrNotAnOption},
	}
	for _, tc := range cases {
		_, err := svc.Submit(ctx, tc.sub)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %v, got %v", tc.name, tc.want, err)
		}
	}

	_, err := svc.Submit(ctx, answer.Submission{ExamID: e.ID, RespondentName: "a", RespondentID: "1", Answers: []string{"x", "", "True"}})
	var inc *answer.IncompleteError
	if !errors.As(err, &inc) || inc.Position != 2 {
		t.Fatalf("want IncompleteError at 2, got %v", err)
	}

	if _, err := svc.Submit(ctx, answer.Submission{ExamID: "nope"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
