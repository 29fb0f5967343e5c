package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutExam(ctx context.Context, e Exam) error {
	mj, err := json.Marshal(e.Metadata)
	if err != nil {
		return err
	}
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exams (id,facilitator,facilitator_id,course,metadata_json,questions_json,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET facilitator=EXCLUDED.facilitator, facilitator_id=EXCLUDED.facilitator_id,
			course=EXCLUDED.course, metadata_json=EXCLUDED.metadata_json, questions_json=EXCLUDED.questions_json,
			updated_at=EXCLUDED.updated_at`,
		e.ID, e.Facilitator, e.FacilitatorID, e.Course, string(mj), string(qj), e.CreatedAt, e.UpdatedAt)
	return err
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,facilitator,facilitator_id,course,metadata_json,questions_json,created_at,updated_at
		FROM exams WHERE id=$1`, id)
	var (
		e     Exam
		mjson string
		qjson string
	)
	if err := row.Scan(&e.ID, &e.Facilitator, &e.FacilitatorID, &e.Course, &mjson, &qjson, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrNotFound
		}
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(mjson), &e.Metadata); err != nil {
		return Exam{}, fmt.Errorf("exam %s metadata: %w", id, err)
	}
	if err := json.Unmarshal([]byte(qjson), &e.Questions); err != nil {
		return Exam{}, fmt.Errorf("exam %s questions: %w", id, err)
	}
	return e, nil
}

func (s *SQLStore) ExamExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM exams WHERE id=$1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStore) ListExams(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,course,facilitator FROM exams ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Summary, 0, 16)
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.Course, &sm.Facilitator); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) SaveResponse(ctx context.Context, r Response) error {
	ok, err := s.ExamExists(ctx, r.ExamID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	aj, err := json.Marshal(r.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO responses (id,exam_id,respondent_name,respondent_id,answers_json,submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		r.ID, r.ExamID, r.RespondentName, r.RespondentID, string(aj), r.SubmittedAt)
	return err
}

func (s *SQLStore) ListResponses(ctx context.Context, examID string) ([]Response, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,exam_id,respondent_name,respondent_id,answers_json,submitted_at
		FROM responses WHERE exam_id=$1 ORDER BY submitted_at ASC, id ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Response
	for rows.Next() {
		var (
			r  Response
			aj string
		)
		if err := rows.Scan(&r.ID, &r.ExamID, &r.RespondentName, &r.RespondentID, &aj, &r.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(aj), &r.Answers); err != nil {
			return nil, fmt.Errorf("response %s answers: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ Store = (*SQLStore)(nil)
