// internal/httpserver/routes_words.go
//
// Word catalog endpoints:
//   - GET    /words/categories → category summaries
//   - GET    /words/stats      → counts by category and difficulty
//   - GET    /words/search     → ?q=&category=&difficulty=
//   - GET    /words/export     → catalog document
//   - POST   /words/custom     → add a word (auth)
//   - DELETE /words/custom     → remove a word (auth)

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/psylsph/hangman-netlify/internal/words"
)

const customCategory = "custom"

func (s *Server) mountWords(r chi.Router) {
	r.Route("/words", func(r chi.Router) {
		r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(s.words.Categories())
		})
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(s.words.Stats())
		})
		r.Get("/search", s.handleWordSearch)
		r.Get("/export", s.handleWordExport)

		r.With(s.requireAuth()).Post("/custom", s.handleAddWord)
		r.With(s.requireAuth()).Delete("/custom", s.handleRemoveWord)
	})
}

func (s *Server) handleWordSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out := s.words.Search(q.Get("q"), q.Get("category"), q.Get("difficulty"))
	if out == nil {
		out = []words.Entry{}
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleWordExport(w http.ResponseWriter, r *http.Request) {
	b, err := s.words.Export()
	if err != nil {
		http.Error(w, `{"error":"export_failed"}`, http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(b)
}

type customWordReq struct {
	Word       string `json:"word"`
	Hint       string `json:"hint"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	var req customWordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category == "" {
		category = customCategory
	}
	err := s.words.AddCustomWord(req.Word, req.Hint, category, strings.ToLower(req.Difficulty))
	switch {
	case err == nil:
	case errors.Is(err, words.ErrDuplicate):
		http.Error(w, `{"error":"duplicate_word"}`, http.StatusConflict)
		return
	case errors.Is(err, words.ErrInvalidWord), errors.Is(err, words.ErrInvalidHint):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	default:
		http.Error(w, `{"error":"add_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("user", currentUser(r).ID).Str("category", category).Msg("custom word added")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"word": strings.ToUpper(strings.TrimSpace(req.Word)), "category": category})
}

func (s *Server) handleRemoveWord(w http.ResponseWriter, r *http.Request) {
	var req customWordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category == "" {
		category = customCategory
	}
	if err := s.words.RemoveWord(req.Word, category); err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
