package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/mindengage-exams/internal/api/http"
	"github.com/mind-engage/mindengage-exams/internal/assembly"
	"github.com/mind-engage/mindengage-exams/internal/config"
	"github.com/mind-engage/mindengage-exams/internal/db"
	"github.com/mind-engage/mindengage-exams/internal/exam"
	"github.com/mind-engage/mindengage-exams/internal/storage"
	syncx "github.com/mind-engage/mindengage-exams/internal/sync"
)

func main() {
	cfg := config.Load()
	rules := cfg.Rules()

	content, err := config.LoadContent(cfg.ContentFile, rules)
	if err != nil {
		log.Fatalf("content: %v", err)
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	svc := exam.NewService(
		exam.NewSQLStore(dbh, cfg.DBDriver),
		assembly.New(rules, content.Catalog),
		exam.WithDefaultQuestions(content.Defaults),
		exam.WithEvents(syncx.NewEventRepo(dbh)),
	)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	api.Mount(r, api.Deps{
		Exams:     svc,
		Catalog:   content.Catalog,
		Blobs:     bs,
		PublicURL: cfg.PublicURL,
	})

	log.Printf("listening on %s (db=%s, areas=%d, default questions=%d, legacy scoring=%v)",
		cfg.HTTPAddr, cfg.DBDriver, content.Catalog.Len(), len(content.Defaults), cfg.LegacyScoring)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
