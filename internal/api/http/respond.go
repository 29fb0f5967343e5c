package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mind-engage/mindengage-exams/internal/exam"
)

const maxBody = 1 << 20

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	payloadSchema    = mustSchema("schemas/payload.json")
	submissionSchema = mustSchema("schemas/submission.json")
)

func mustSchema(name string) *jsonschema.Schema {
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return jsonschema.MustCompileString(name, string(raw))
}

// decodeValid reads a JSON body, checks it against schema and decodes it
// into v.
func decodeValid(r *http.Request, schema *jsonschema.Schema, v any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return errors.New("bad json")
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		for len(ve.Causes) > 0 {
			ve = ve.Causes[0]
		}
		return fmt.Errorf("invalid body at %q: %s", ve.InstanceLocation, ve.Message)
	}
	return json.Unmarshal(raw, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]string{"error": reason})
}

// writeServiceError maps service errors to a status code.
func writeServiceError(w http.ResponseWriter, err error) {
	var inv *exam.InvalidError
	switch {
	case errors.Is(err, exam.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &inv):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("api: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
