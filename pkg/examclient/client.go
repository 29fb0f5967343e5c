// Package examclient talks to the exam service over HTTP.
//
// Every call is guarded per logical action: a second call for the same
// action while the first is still running fails with ErrInFlight instead of
// sending a duplicate request. Nothing is retried.
package examclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mind-engage/mindengage-exams/internal/answer"
	"github.com/mind-engage/mindengage-exams/internal/assembly"
	"github.com/mind-engage/mindengage-exams/internal/catalog"
	"github.com/mind-engage/mindengage-exams/internal/exam"
)

// ServiceError is a non-2xx answer from the service.
type ServiceError struct {
	Status int
	Reason string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("exam service: %d %s", e.Status, e.Reason)
}

// Ref identifies an exam and its respondent URL.
type Ref struct {
	ID      string `json:"id"`
	ExamURL string `json:"exam_url"`
}

type File struct {
	Name string
	Body io.Reader
}

type Uploaded struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Client struct {
	base  string
	http  *http.Client
	guard guard
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is then ignored.
	HTTPClient *http.Client
}

func New(cfg Config) *Client {
	h := cfg.HTTPClient
	if h == nil {
		h = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{base: strings.TrimSuffix(cfg.BaseURL, "/"), http: h}
}

// Busy reports whether the action key has a request in flight.
func (c *Client) Busy(key string) bool { return c.guard.Busy(key) }

func (c *Client) CreateExam(ctx context.Context, p assembly.Payload) (Ref, error) {
	var ref Ref
	err := c.call(ctx, "create", http.MethodPost, "/api/exams", p, &ref)
	return ref, err
}

func (c *Client) UpdateExam(ctx context.Context, id string, p assembly.Payload) (Ref, error) {
	var ref Ref
	err := c.call(ctx, "update:"+id, http.MethodPut, "/api/exams/"+url.PathEscape(id), p, &ref)
	return ref, err
}

func (c *Client) DuplicateExam(ctx context.Context, id string) (Ref, error) {
	var ref Ref
	err := c.call(ctx, "duplicate:"+id, http.MethodPost, "/api/exams/"+url.PathEscape(id)+"/duplicate", nil, &ref)
	return ref, err
}

func (c *Client) ListExams(ctx context.Context) ([]exam.Summary, error) {
	var out struct {
		Exams []exam.Summary `json:"exams"`
	}
	err := c.call(ctx, "list", http.MethodGet, "/api/exams", nil, &out)
	return out.Exams, err
}

func (c *Client) GetExam(ctx context.Context, id string) (exam.Exam, error) {
	var e exam.Exam
	err := c.call(ctx, "exam:"+id, http.MethodGet, "/api/exams/"+url.PathEscape(id), nil, &e)
	return e, err
}

// PublicExam fetches the respondent view of an exam.
func (c *Client) PublicExam(ctx context.Context, id string) (exam.Public, error) {
	var p exam.Public
	err := c.call(ctx, "public:"+id, http.MethodGet, "/api/exams/"+url.PathEscape(id)+"/public", nil, &p)
	return p, err
}

func (c *Client) Submit(ctx context.Context, sub answer.Submission) error {
	return c.call(ctx, "submit:"+sub.ExamID, http.MethodPost, "/api/submissions", sub, nil)
}

func (c *Client) Catalog(ctx context.Context) ([]catalog.Area, error) {
	var out struct {
		Topics []catalog.Area `json:"topics"`
	}
	err := c.call(ctx, "catalog", http.MethodGet, "/api/catalog", nil, &out)
	return out.Topics, err
}

// UploadSupport sends support material for an exam as one multipart request.
func (c *Client) UploadSupport(ctx context.Context, examID string, files []File) ([]Uploaded, error) {
	release, err := c.guard.acquire("upload:" + examID)
	if err != nil {
		return nil, err
	}
	defer release()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("exam_id", examID); err != nil {
		return nil, err
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(fw, f.Body); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/support", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out struct {
		Files []Uploaded `json:"files"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

func (c *Client) call(ctx context.Context, key, method, path string, in, out any) error {
	release, err := c.guard.acquire(key)
	if err != nil {
		return err
	}
	defer release()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return serviceError(res)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func serviceError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	reason := ""
	if json.Unmarshal(raw, &body) == nil {
		reason = body.Error
		if reason == "" {
			reason = body.Detail
		}
	}
	if reason == "" {
		reason = strings.TrimSpace(string(raw))
	}
	if reason == "" {
		reason = http.StatusText(res.StatusCode)
	}
	return &ServiceError{Status: res.StatusCode, Reason: reason}
}
