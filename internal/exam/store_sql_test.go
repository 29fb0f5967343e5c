package exam

import (
	"context"
	"errors"
	"testing"

	"github.com/mind-engage/mindengage-exams/internal/answer"
	"github.com/mind-engage/mindengage-exams/internal/catalog"
	"github.com/mind-engage/mindengage-exams/internal/db"
	syncx "github.com/mind-engage/mindengage-exams/internal/sync"
)

func openSQLite(t *testing.T) *SQLStore {
	t.Helper()
	conn, err := db.Open(context.Background(), db.DriverSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewSQLStore(conn, string(db.DriverSQLite))
}

func TestSQLStore_RoundTrip(t *testing.T) {
	st := openSQLite(t)
	ctx := context.Background()

	e := Exam{ID: "0a1b2c3d", Payload: samplePayload(), CreatedAt: 10, UpdatedAt: 10}
	e.Metadata.Classification = &catalog.Selection{Area: "Health", Topic: "First aid"}
	if err := st.PutExam(ctx, e); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := st.GetExam(ctx, e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Course != e.Course || len(got.Questions) != 3 || got.Metadata.InvitesCount != 10 {
		t.Fatalf("got %+v", got)
	}
	if got.Questions[1].Correct[0] != 1 || !got.Questions[1].Scored {
		t.Fatalf("multiple question lost its key: %+v", got.Questions[1])
	}
	if c := got.Metadata.Classification; c == nil || c.Topic != "First aid" {
		t.Fatalf("classification = %+v", c)
	}

	e.Course = "Renamed"
	e.UpdatedAt = 20
	if err := st.PutExam(ctx, e); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	list, err := st.ListExams(ctx)
	if err != nil || len(list) != 1 || list[0].Course != "Renamed" {
		t.Fatalf("list = %+v, %v", list, err)
	}

	if _, err := st.GetExam(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSQLStore_Responses(t *testing.T) {
	st := openSQLite(t)
	ctx := context.Background()
	if err := st.PutExam(ctx, Exam{ID: "e1", Payload: samplePayload(), CreatedAt: 1, UpdatedAt: 1}); err != nil {
		t.Fatal(err)
	}
	r := Response{Submission: answer.Submission{ExamID: "e1", RespondentName: "A", RespondentID: "1", Answers: []string{"x", "a", "True"}}, SubmittedAt: 5}
	if err := st.SaveResponse(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}
	rs, err := st.ListResponses(ctx, "e1")
	if err != nil || len(rs) != 1 || rs[0].ID == "" || rs[0].Answers[2] != "True" {
		t.Fatalf("responses = %+v, %v", rs, err)
	}
	r.ExamID = "nope"
	if err := st.SaveResponse(ctx, r); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestService_OnSQLite(t *testing.T) {
	st := openSQLite(t)
	events := syncx.NewEventRepo(st.db)
	svc := NewService(st, nil, WithEvents(events))
	ctx := context.Background()

	e, err := svc.Create(ctx, samplePayload())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Duplicate(ctx, e.ID); err != nil {
		t.Fatal(err)
	}
	evs, err := events.Since(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 2 || evs[0].Type != syncx.ExamCreated || evs[1].Seq <= evs[0].Seq {
		t.Fatalf("events = %+v", evs)
	}
}
