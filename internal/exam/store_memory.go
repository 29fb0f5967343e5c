package exam

import (
	"context"
	"sort"
	"sync"

	"github.com/mind-engage/mindengage-exams/internal/question"
)

type memoryStore struct {
	mu        sync.RWMutex
	exams     map[string]Exam
	responses map[string][]Response
}

func NewInMemoryStore() Store {
	return &memoryStore{
		exams:     map[string]Exam{},
		responses: map[string][]Response{},
	}
}

func (m *memoryStore) PutExam(_ context.Context, e Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exams[e.ID] = cloneExam(e)
	return nil
}

func (m *memoryStore) GetExam(_ context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrNotFound
	}
	return cloneExam(e), nil
}

func (m *memoryStore) ExamExists(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.exams[id]
	return ok, nil
}

func (m *memoryStore) ListExams(_ context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]Exam, 0, len(m.exams))
	for _, e := range m.exams {
		all = append(all, e)
	}
	// newest first, same as the SQL store
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt != all[j].CreatedAt {
			return all[i].CreatedAt > all[j].CreatedAt
		}
		return all[i].ID < all[j].ID
	})
	out := make([]Summary, len(all))
	for i, e := range all {
		out[i] = e.Summary()
	}
	return out, nil
}

func (m *memoryStore) SaveResponse(_ context.Context, r Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[r.ExamID]; !ok {
		return ErrNotFound
	}
	r.Answers = append([]string(nil), r.Answers...)
	m.responses[r.ExamID] = append(m.responses[r.ExamID], r)
	return nil
}

func (m *memoryStore) ListResponses(_ context.Context, examID string) ([]Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Response(nil), m.responses[examID]...), nil
}

// cloneExam deep-copies the questions so callers cannot mutate stored state.
func cloneExam(e Exam) Exam {
	if e.Questions == nil {
		return e
	}
	qs := make([]question.Question, len(e.Questions))
	for i, q := range e.Questions {
		q.Options = append([]string(nil), q.Options...)
		q.Correct = append([]int(nil), q.Correct...)
		qs[i] = q
	}
	e.Questions = qs
	if c := e.Metadata.Classification; c != nil {
		cp := *c
		e.Metadata.Classification = &cp
	}
	return e
}
