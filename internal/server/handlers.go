package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"picture-word/internal/assets"
	"picture-word/internal/db"
	"picture-word/internal/generate"
	"picture-word/internal/puzzle"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type newRoundRequest struct {
	Topic    string `json:"topic"`
	Language string `json:"language"`
	Score    int    `json:"score"`
}

type guessRequest struct {
	Guess string `json:"guess"`
}

type uploadImageRequest struct {
	Word        string              `json:"word"`
	Language    string              `json:"language"`
	ImageData   string              `json:"image_data"`
	Attribution *assets.Attribution `json:"attribution,omitempty"`
}

func (s *Server) handleCreateRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Score < 0 {
		writeError(w, http.StatusBadRequest, "score must not be negative")
		return
	}
	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = s.cfg.DefaultLanguage
	}
	topic := strings.TrimSpace(req.Topic)

	result, err := s.producer.ProduceRound(r.Context(), topic, req.Score, language)
	if err != nil {
		if errors.Is(err, generate.ErrExhausted) {
			s.log.Error().Err(err).Msg("word generation retry budget exhausted")
			writeError(w, http.StatusServiceUnavailable, "word generation is unavailable right now")
			return
		}
		s.log.Error().Err(err).Msg("round creation failed")
		writeError(w, http.StatusInternalServerError, "failed to create round")
		return
	}

	round := db.Round{
		Solution:     result.Word,
		SolutionHash: hashSolution(result.Word),
		Language:     language,
		Scramble:     puzzle.Scramble(result.Word),
		Picture:      result.Picture,
		Compliment:   result.Compliment,
		Topic:        topic,
	}
	if err := s.createRound(r.Context(), &round); err != nil {
		s.log.Error().Err(err).Msg("failed to persist round")
		writeError(w, http.StatusInternalServerError, "failed to create round")
		return
	}

	s.log.Info().Uint("round_id", round.ID).Str("language", language).Msg("round created")
	writeJSON(w, http.StatusCreated, map[string]any{
		"round_id": round.ID,
		"scramble": round.Scramble,
		"picture":  round.Picture,
		"language": round.Language,
	})
}

func (s *Server) handleCheckGuess(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "roundID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "round not found")
		return
	}
	var req guessRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	round, err := s.findRound(r.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "round not found")
			return
		}
		s.log.Error().Err(err).Uint64("round_id", id).Msg("round lookup failed")
		writeError(w, http.StatusInternalServerError, "failed to check guess")
		return
	}

	matched, mismatches := puzzle.CheckGuess(round.Solution, req.Guess)
	if matched {
		if err := s.markRoundSolved(r.Context(), round.ID); err != nil {
			s.log.Error().Err(err).Uint("round_id", round.ID).Msg("failed to record solve")
			writeError(w, http.StatusInternalServerError, "failed to check guess")
			return
		}
	}
	if mismatches == nil {
		mismatches = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"matched":    matched,
		"mismatches": mismatches,
		"compliment": round.Compliment,
	})
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	// Base64 inflates the payload by a third; bound the body
	// accordingly before decoding.
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.MaxUploadBytes)*2+1024)

	var req uploadImageRequest
	if err := readJSON(r.Body, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "image exceeds the upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	word := strings.TrimSpace(req.Word)
	if word == "" {
		writeError(w, http.StatusBadRequest, "word is required")
		return
	}
	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = s.cfg.DefaultLanguage
	}

	image, err := assets.DecodeDataURL(req.ImageData)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image data is not valid base64")
		return
	}
	if len(image) > s.cfg.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "image exceeds the upload limit")
		return
	}

	variantID, err := s.assets.AppendVariant(r.Context(), word, language, image, true, req.Attribution)
	if err != nil {
		s.log.Error().Err(err).Str("word", word).Msg("failed to store contributed image")
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"variant_id": variantID.String(),
	})
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	language := strings.TrimSpace(r.URL.Query().Get("language"))
	if language == "" {
		language = s.cfg.DefaultLanguage
	}

	variant, err := s.assets.SelectVariant(r.Context(), word, language)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no picture for this word")
			return
		}
		s.log.Error().Err(err).Str("word", word).Msg("picture lookup failed")
		writeError(w, http.StatusInternalServerError, "failed to load picture")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"word":        word,
		"language":    language,
		"image":       assets.EncodeDataURL(variant.Data),
		"contributed": variant.Contributed,
	})
}
