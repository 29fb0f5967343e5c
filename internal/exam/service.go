package exam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-exams/internal/answer"
	"github.com/mind-engage/mindengage-exams/internal/assembly"
	"github.com/mind-engage/mindengage-exams/internal/question"
	syncx "github.com/mind-engage/mindengage-exams/internal/sync"
)

// InvalidError marks a request the caller can fix: a payload that fails
// assembly or an incomplete submission.
type InvalidError struct{ Err error }

func (e *InvalidError) Error() string { return e.Err.Error() }
func (e *InvalidError) Unwrap() error { return e.Err }

func invalid(err error) error { return &InvalidError{Err: err} }

// Service is the reference exam service behind the HTTP boundary.
type Service struct {
	store     Store
	assembler *assembly.Assembler
	events    syncx.Sink
	defaults  []question.Question
	newID     func() string
	now       func() time.Time
}

type Option func(*Service)

// WithDefaultQuestions prepends qs to every newly created exam.
func WithDefaultQuestions(qs []question.Question) Option {
	return func(s *Service) { s.defaults = append([]question.Question(nil), qs...) }
}

func WithEvents(sink syncx.Sink) Option { return func(s *Service) { s.events = sink } }
func WithIDFunc(f func() string) Option { return func(s *Service) { s.newID = f } }
func WithClock(f func() time.Time) Option { return func(s *Service) { s.now = f } }

func NewService(store Store, a *assembly.Assembler, opts ...Option) *Service {
	if a == nil {
		a = assembly.New(question.DefaultRules, nil)
	}
	s := &Service{
		store:     store,
		assembler: a,
		newID:     shortID,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// shortID is 8 hex characters of a random UUID.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *Service) allocateID(ctx context.Context) (string, error) {
	for i := 0; i < 5; i++ {
		id := s.newID()
		exists, err := s.store.ExamExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", errors.New("could not allocate a free exam id")
}

func (s *Service) record(ctx context.Context, typ, key string, data any) {
	if s.events == nil {
		return
	}
	buf, _ := json.Marshal(data)
	if err := s.events.Append(ctx, syncx.Event{Type: typ, Key: key, DataJSON: string(buf)}); err != nil {
		log.Printf("event log %s %s: %v", typ, key, err)
	}
}

func (s *Service) Create(ctx context.Context, p assembly.Payload) (Exam, error) {
	p, err := s.assembler.ValidatePayload(p)
	if err != nil {
		return Exam{}, invalid(err)
	}
	if len(s.defaults) > 0 {
		p.Questions = append(append([]question.Question(nil), s.defaults...), p.Questions...)
	}
	id, err := s.allocateID(ctx)
	if err != nil {
		return Exam{}, err
	}
	now := s.now().Unix()
	e := Exam{ID: id, Payload: p, CreatedAt: now, UpdatedAt: now}
	if err := s.store.PutExam(ctx, e); err != nil {
		return Exam{}, err
	}
	s.record(ctx, syncx.ExamCreated, id, e.Summary())
	return e, nil
}

func (s *Service) Update(ctx context.Context, id string, p assembly.Payload) (Exam, error) {
	prev, err := s.store.GetExam(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	p, err = s.assembler.ValidatePayload(p)
	if err != nil {
		return Exam{}, invalid(err)
	}
	e := Exam{ID: id, Payload: p, CreatedAt: prev.CreatedAt, UpdatedAt: s.now().Unix()}
	if err := s.store.PutExam(ctx, e); err != nil {
		return Exam{}, err
	}
	s.record(ctx, syncx.ExamUpdated, id, e.Summary())
	return e, nil
}

// Duplicate clones an exam verbatim under a new id.
func (s *Service) Duplicate(ctx context.Context, id string) (Exam, error) {
	src, err := s.store.GetExam(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	newID, err := s.allocateID(ctx)
	if err != nil {
		return Exam{}, err
	}
	now := s.now().Unix()
	e := Exam{ID: newID, Payload: src.Payload, CreatedAt: now, UpdatedAt: now}
	if err := s.store.PutExam(ctx, e); err != nil {
		return Exam{}, err
	}
	s.record(ctx, syncx.ExamDuplicated, newID, map[string]string{"source": id})
	return e, nil
}

func (s *Service) Get(ctx context.Context, id string) (Exam, error) {
	return s.store.GetExam(ctx, id)
}

func (s *Service) Public(ctx context.Context, id string) (Public, error) {
	e, err := s.store.GetExam(ctx, id)
	if err != nil {
		return Public{}, err
	}
	return e.Public(), nil
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.store.ListExams(ctx)
}

// Submit stores a respondent submission after checking it lines up with
// the exam's questions.
func (s *Service) Submit(ctx context.Context, sub answer.Submission) (Response, error) {
	e, err := s.store.GetExam(ctx, sub.ExamID)
	if err != nil {
		return Response{}, err
	}
	sub.RespondentName = strings.TrimSpace(sub.RespondentName)
	sub.RespondentID = strings.TrimSpace(sub.RespondentID)
	if sub.RespondentName == "" || sub.RespondentID == "" {
		return Response{}, invalid(answer.ErrRespondentRequired)
	}
	if err := answer.Check(e.Public().Questions, sub.Answers); err != nil {
		return Response{}, invalid(err)
	}
	r := Response{ID: uuid.NewString(), Submission: sub, SubmittedAt: s.now().Unix()}
	if err := s.store.SaveResponse(ctx, r); err != nil {
		return Response{}, fmt.Errorf("save response: %w", err)
	}
	s.record(ctx, syncx.ResponseSubmitted, e.ID, map[string]string{"response_id": r.ID})
	return r, nil
}

func (s *Service) Responses(ctx context.Context, examID string) ([]Response, error) {
	if _, err := s.store.GetExam(ctx, examID); err != nil {
		return nil, err
	}
	return s.store.ListResponses(ctx, examID)
}
