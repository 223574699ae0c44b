// Package server exposes the game over HTTP: round creation, guess
// checking, and picture contribution.
package server

import (
	"context"
	"net/http"
	"time"

	"picture-word/internal/assets"
	"picture-word/internal/config"
	"picture-word/internal/generate"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// RoundProducer yields the word, picture and compliment for a new
// round. Satisfied by generate.Orchestrator.
type RoundProducer interface {
	ProduceRound(ctx context.Context, topic string, score int, language string) (generate.Result, error)
}

type Server struct {
	db       *gorm.DB
	cfg      config.Config
	producer RoundProducer
	assets   *assets.Store
	log      zerolog.Logger
}

func New(conn *gorm.DB, cfg config.Config, producer RoundProducer, store *assets.Store, log zerolog.Logger) *Server {
	return &Server{
		db:       conn,
		cfg:      cfg,
		producer: producer,
		assets:   store,
		log:      log,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	// Round creation can sit through several generator calls.
	r.Use(chimw.Timeout(2 * time.Minute))

	r.Get("/health", s.handleHealth)
	r.Post("/api/rounds", s.handleCreateRound)
	r.Post("/api/rounds/{roundID}/guess", s.handleCheckGuess)
	r.Post("/api/images", s.handleUploadImage)
	r.Get("/api/words/{word}/image", s.handleGetImage)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
