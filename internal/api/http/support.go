package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUpload = 32 << 20

type uploadedFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// MountSupport serves support material uploads tied to an exam.
func MountSupport(r chi.Router, d Deps) {
	// POST /api/support  multipart: exam_id, files[]
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			writeError(w, http.StatusBadRequest, "multipart form required")
			return
		}
		examID := strings.TrimSpace(r.FormValue("exam_id"))
		if examID == "" {
			writeError(w, http.StatusBadRequest, "exam_id required")
			return
		}
		if _, err := d.Exams.Get(r.Context(), examID); err != nil {
			writeServiceError(w, err)
			return
		}
		headers := r.MultipartForm.File["files"]
		if len(headers) == 0 {
			writeError(w, http.StatusBadRequest, "files required")
			return
		}
		out := make([]uploadedFile, 0, len(headers))
		for _, fh := range headers {
			name := filepath.Base(fh.Filename)
			if name == "." || name == "/" || name == ".." {
				writeError(w, http.StatusBadRequest, "bad file name")
				return
			}
			f, err := fh.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			key := path.Join("support", examID, uuid.NewString()[:8]+"-"+name)
			key, err = d.Blobs.Put(key, f)
			f.Close()
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			out = append(out, uploadedFile{Name: name, URL: d.PublicURL + "/api/support/" + key})
		}
		writeJSON(w, http.StatusCreated, map[string]any{"files": out})
	})

	// GET /api/support/*  returns the blob at whatever follows /api/support/
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := d.Blobs.Get(key)
		if err != nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	})
}
