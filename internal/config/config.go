package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-exams/internal/catalog"
	"github.com/mind-engage/mindengage-exams/internal/question"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	BlobBasePath string

	CORSOrigins []string

	// ContentFile points at the YAML topic catalog and default questions.
	ContentFile string

	// LegacyScoring makes every choice question scored, with no opt-out.
	LegacyScoring bool
}

// Load reads an optional .env file and then the environment.
func Load(files ...string) Config {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: %v", err)
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		HTTPAddr:      envOr("HTTP_ADDR", ":8080"),
		PublicURL:     strings.TrimSuffix(envOr("PUBLIC_URL", "http://localhost:8080"), "/"),
		DBDriver:      envOr("DB_DRIVER", "sqlite"),
		DBDSN:         envOr("DB_DSN", ""),
		BlobBasePath:  envOr("BLOB_BASE_PATH", "./data"),
		CORSOrigins:   csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		ContentFile:   envOr("CONTENT_FILE", ""),
		LegacyScoring: envBool("LEGACY_SCORING", false),
	}
}

// Rules is the question validation variant selected by LegacyScoring.
func (c Config) Rules() question.Rules {
	return question.Rules{ScorableToggle: !c.LegacyScoring}
}

// Content is the operator-provided data loaded from ContentFile.
type Content struct {
	Catalog  *catalog.Catalog
	Defaults []question.Question
}

type contentFile struct {
	Topics           []catalog.Area   `yaml:"topics"`
	DefaultQuestions []question.Draft `yaml:"default_questions"`
}

// LoadContent parses the content file. An empty path yields an empty
// catalog and no default questions.
func LoadContent(path string, rules question.Rules) (Content, error) {
	if path == "" {
		return Content{Catalog: catalog.Empty()}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Content{}, err
	}
	return ParseContent(raw, rules)
}

func ParseContent(raw []byte, rules question.Rules) (Content, error) {
	var f contentFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Content{}, fmt.Errorf("content: %w", err)
	}
	cat, err := catalog.New(f.Topics)
	if err != nil {
		return Content{}, fmt.Errorf("content topics: %w", err)
	}
	defs, err := question.ValidateAll(f.DefaultQuestions, rules)
	if err != nil {
		return Content{}, fmt.Errorf("content default_questions: %w", err)
	}
	return Content{Catalog: cat, Defaults: defs}, nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
