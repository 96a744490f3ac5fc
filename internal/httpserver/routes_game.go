// internal/httpserver/routes_game.go
//
// Single-player Hangman endpoints:
//   - POST   /game/new           → start a round {category, difficulty}
//   - POST   /game/guess         → guess a letter {gameId, letter}
//   - POST   /game/hint          → reveal the hint {gameId}
//   - GET    /game/{id}          → current state
//   - GET    /game/{id}/suggest  → computer player's next letter (?tier=easy|medium|hard)
//   - DELETE /game/{id}          → abandon a round
//
// Rounds live in the in-memory store; the games table keeps history. When a
// round ends the owner's counters and profile are updated.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/psylsph/hangman-netlify/internal/game"
	"github.com/psylsph/hangman-netlify/internal/strategy"
	"github.com/psylsph/hangman-netlify/internal/words"
)

const (
	statusPlaying = "playing"
	statusWon     = "won"
	statusLost    = "lost"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Post("/hint", s.handleHint)
		r.Get("/{id}", s.handleGetGame)
		r.Get("/{id}/suggest", s.handleSuggest)
		r.Delete("/{id}", s.handleDeleteGame)
	})
}

// gameView is the client rendering of a round. The word is hidden until the
// round is over and the hint until it has been used.
type gameView struct {
	game.State
	Pattern string       `json:"pattern"`
	Result  *game.Result `json:"result,omitempty"`
}

func viewOf(g *game.Game) gameView {
	st := g.Snapshot()
	if !st.IsGameOver {
		st.Word = ""
		if !st.HintUsed {
			st.Hint = ""
		}
		for i := range st.WordProgress {
			if !st.WordProgress[i].Revealed {
				st.WordProgress[i].Letter = ""
			}
		}
	}
	v := gameView{State: st, Pattern: g.Pattern()}
	if r, ok := g.Result(); ok {
		v.Result = &r
	}
	return v
}

// owner identifies who a games row belongs to.
type owner struct {
	clause   string
	id       string
	username string
	user     bool
}

func (s *Server) ownerOf(w http.ResponseWriter, r *http.Request) owner {
	if me := currentUser(r); me != nil {
		return owner{clause: `user_id=?`, id: me.ID, username: me.Username, user: true}
	}
	id, name := s.identity(w, r)
	return owner{clause: `anonymous_id=?`, id: id, username: name}
}

type newGameReq struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// handleNewGame starts a round from the word catalog and records an owner row.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	diff, _ := game.ParseDifficulty(req.Difficulty)
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = words.Any
	}
	pick := s.words.RandomWord(category, string(diff))

	g := game.New(diff, pick.Category)
	g.Start(pick.Word, pick.Hint, pick.Category)
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	o := s.ownerOf(w, r)
	col := "anonymous_id"
	if o.user {
		col = "user_id"
	}
	_, err := s.db.ExecContext(r.Context(),
		`INSERT INTO games (id, `+col+`, word, category, difficulty, started_at, status) VALUES (?,?,?,?,?,?,?)`,
		g.ID(), o.id, g.Word(), g.Category(), string(diff), s.now().UTC().Format(time.RFC3339), statusPlaying)
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID()).Msg("insert game row")
	}

	_ = json.NewEncoder(w).Encode(viewOf(g))
}

type guessReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}

type guessRes struct {
	Result game.GuessResult `json:"result"`
	Game   gameView         `json:"game"`
}

// handleGuess applies a letter. Rejected guesses are reported in the body
// (valid=false) and change nothing.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	res := g.Guess(strings.TrimSpace(req.Letter))
	if res.Valid {
		s.recordGuess(r.Context(), s.ownerOf(w, r), g, res)
	}
	_ = json.NewEncoder(w).Encode(guessRes{Result: res, Game: viewOf(g)})
}

// recordGuess persists counters and, on the round-ending guess, the final
// result (best effort).
func (s *Server) recordGuess(ctx context.Context, o owner, g *game.Game, res game.GuessResult) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE games SET guesses = guesses + 1, wrong_guesses=? WHERE id=? AND `+o.clause,
		res.Guess.WrongGuesses, g.ID(), o.id); err != nil {
		log.Warn().Err(err).Msg("update guesses")
	}

	var result game.Result
	if res.Ended {
		result, _ = g.Result()
		status := statusLost
		if result.Won {
			status = statusWon
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE games SET status=?, finished_at=?, hint_used=?, score=? WHERE id=? AND `+o.clause,
			status, s.now().UTC().Format(time.RFC3339), result.HintUsed, result.Score, g.ID(), o.id); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if o.user {
			if err := bumpStats(ctx, tx, o.id, result.Won, result.Score); err != nil {
				log.Warn().Err(err).Str("user", o.id).Msg("bump stats")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit guess")
	}

	if res.Ended {
		_, _ = s.profiles.RecordResult(ctx, o.id, o.username, result, false)
	}
}

// handleHint reveals the hint once per round.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"gameId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if !g.UseHint() {
		http.Error(w, `{"error":"hint_unavailable"}`, http.StatusConflict)
		return
	}
	o := s.ownerOf(w, r)
	if _, err := s.db.ExecContext(r.Context(), `UPDATE games SET hint_used=1 WHERE id=? AND `+o.clause, g.ID(), o.id); err != nil {
		log.Warn().Err(err).Msg("update hint")
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"hint": g.Hint(), "game": viewOf(g)})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(viewOf(g))
}

// handleSuggest asks the computer player for a letter. The suggestion is
// advisory; it is not applied to the round.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if g.Phase() != game.PhaseInProgress {
		http.Error(w, `{"error":"game_not_in_progress"}`, http.StatusConflict)
		return
	}
	tier := g.Difficulty()
	if q := r.URL.Query().Get("tier"); q != "" {
		t, ok := game.ParseDifficulty(q)
		if !ok {
			http.Error(w, `{"error":"invalid_tier"}`, http.StatusBadRequest)
			return
		}
		tier = t
	}
	letter, ok := strategy.NewPlayer(tier, nil).SuggestFor(g)
	_ = json.NewEncoder(w).Encode(map[string]any{"letter": letter, "tier": tier, "exhausted": !ok})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, `{"error":"delete_failed"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
