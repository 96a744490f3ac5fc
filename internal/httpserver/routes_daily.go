// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's round (creates or reuses session)
//   - POST /daily/guess       → guess a letter in today's round
//   - GET  /daily/leaderboard → top 20 winners for today (or ?date=YYYY-MM-DD)
//
// Each player can finish the daily round once per day (enforced by DB + in-memory session).
// The word is chosen deterministically from date + salt, so everyone gets the same one.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/psylsph/hangman-netlify/internal/daily"
	"github.com/psylsph/hangman-netlify/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession links a player's day to the live round in the game store.
type dailySession struct {
	GameID    string
	UserID    string
	Username  string
	Date      string
	WordIndex int
	Finished  bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router, st *daily.Store) {
	dd := &dailyServer{
		srv:      s,
		store:    st,
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID string    `json:"gameId"`
	Date   string    `json:"date"`
	Played bool      `json:"played"`
	Game   *gameView `json:"game,omitempty"`
}

// handleNew creates or reuses today's round.
// - If the player already has a DB row for today → Played=true.
// - Otherwise create/reuse an in-memory session and return the round.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid, username := d.srv.identity(w, r)
	now := d.srv.now()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("daily already played lookup")
	} else if played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if sess, ok := d.sessions[key]; ok {
		if g, err := d.srv.store.Get(r.Context(), sess.GameID); err == nil {
			v := viewOf(g)
			_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.GameID, Date: date, Played: sess.Finished, Game: &v})
			return
		}
	}

	pick, idx := daily.Puzzle(d.srv.words, now, d.salt)
	diff, _ := game.ParseDifficulty(pick.Difficulty)
	g := game.New(diff, pick.Category)
	g.Start(pick.Word, pick.Hint, pick.Category)
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	d.sessions[key] = &dailySession{GameID: g.ID(), UserID: uid, Username: username, Date: date, WordIndex: idx}

	v := viewOf(g)
	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: g.ID(), Date: date, Game: &v})
}

// -----------------------------------------------------------------------------
// /daily/guess

type dailyGuessRes struct {
	Result game.GuessResult `json:"result"`
	Game   gameView         `json:"game"`
	State  string           `json:"state"` // in_progress | won | lost | locked
}

// handleGuess applies a letter to today's round; when the round ends the
// result is persisted and the session locked.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid, _ := d.srv.identity(w, r)

	var p guessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	date := daily.DateKey(d.srv.now())

	d.mu.Lock()
	sess, ok := d.sessions[uid+"|"+date]
	d.mu.Unlock()
	if !ok || sess.GameID != p.GameID {
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}
	g, err := d.srv.store.Get(r.Context(), sess.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	res := g.Guess(strings.TrimSpace(p.Letter))
	if !res.Ended {
		state := "in_progress"
		if g.IsOver() {
			state = "locked"
		}
		_ = json.NewEncoder(w).Encode(dailyGuessRes{Result: res, Game: viewOf(g), State: state})
		return
	}

	d.mu.Lock()
	sess.Finished = true
	d.mu.Unlock()

	result, _ := g.Result()
	if err := d.store.InsertResult(r.Context(), daily.Result{
		UserID:       uid,
		Date:         date,
		WordIndex:    sess.WordIndex,
		Won:          result.Won,
		WrongGuesses: result.WrongGuesses,
		Score:        result.Score,
		ElapsedMs:    result.TimeTaken.Milliseconds(),
	}); err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
	}
	_, _ = d.srv.profiles.RecordResult(r.Context(), uid, sess.Username, result, false)

	state := "lost"
	if result.Won {
		state = "won"
	}
	_ = json.NewEncoder(w).Encode(dailyGuessRes{Result: res, Game: viewOf(g), State: state})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, `{"error":"invalid_date"}`, http.StatusBadRequest)
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
