package exam

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("exam not found")

// Store persists exams and respondent responses. PutExam upserts by ID.
type Store interface {
	PutExam(ctx context.Context, e Exam) error
	GetExam(ctx context.Context, id string) (Exam, error)
	ExamExists(ctx context.Context, id string) (bool, error)
	ListExams(ctx context.Context) ([]Summary, error)

	SaveResponse(ctx context.Context, r Response) error
	ListResponses(ctx context.Context, examID string) ([]Response, error)
}
