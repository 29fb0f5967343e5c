package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-exams/internal/answer"
	"github.com/mind-engage/mindengage-exams/internal/assembly"
	"github.com/mind-engage/mindengage-exams/internal/catalog"
	"github.com/mind-engage/mindengage-exams/internal/exam"
	"github.com/mind-engage/mindengage-exams/internal/storage"
)

// Deps are the collaborators the API is mounted over.
type Deps struct {
	Exams     *exam.Service
	Catalog   *catalog.Catalog
	Blobs     storage.BlobStore
	PublicURL string
}

// Mount registers every exam service route on r.
func Mount(r chi.Router, d Deps) {
	r.Route("/api", func(ar chi.Router) {
		ar.Route("/exams", func(er chi.Router) {
			er.Post("/", CreateExamHandler(d))
			er.Get("/", ListExamsHandler(d.Exams))
			er.Get("/{examID}", GetExamHandler(d.Exams))
			er.Get("/{examID}/public", PublicExamHandler(d.Exams))
			er.Put("/{examID}", UpdateExamHandler(d))
			er.Post("/{examID}/duplicate", DuplicateExamHandler(d))
		})
		ar.Post("/submissions", SubmitHandler(d.Exams))
		ar.Get("/catalog", CatalogHandler(d.Catalog))
		ar.Route("/support", func(sr chi.Router) {
			MountSupport(sr, d)
		})
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
}

type examRef struct {
	ID      string `json:"id"`
	ExamURL string `json:"exam_url"`
}

func (d Deps) ref(id string) examRef {
	return examRef{ID: id, ExamURL: d.PublicURL + "/exam/" + id}
}

func CreateExamHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p assembly.Payload
		if err := decodeValid(r, payloadSchema, &p); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		e, err := d.Exams.Create(r.Context(), p)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, d.ref(e.ID))
	}
}

func UpdateExamHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p assembly.Payload
		if err := decodeValid(r, payloadSchema, &p); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		e, err := d.Exams.Update(r.Context(), chi.URLParam(r, "examID"), p)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.ref(e.ID))
	}
}

func DuplicateExamHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := d.Exams.Duplicate(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, d.ref(e.ID))
	}
}

func ListExamsHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"exams": list})
	}
}

func GetExamHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.Get(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// PublicExamHandler serves the respondent view, without correctness.
func PublicExamHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Public(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func SubmitHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub answer.Submission
		if err := decodeValid(r, submissionSchema, &sub); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := svc.Submit(r.Context(), sub); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func CatalogHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		areas := []catalog.Area{}
		if cat != nil {
			areas = append(areas, cat.Areas()...)
		}
		writeJSON(w, http.StatusOK, map[string]any{"topics": areas})
	}
}
