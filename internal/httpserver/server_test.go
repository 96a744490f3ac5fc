package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/psylsph/hangman-netlify/internal/config"
	"github.com/psylsph/hangman-netlify/internal/db"
	"github.com/psylsph/hangman-netlify/internal/events"
	"github.com/psylsph/hangman-netlify/internal/game"
	"github.com/psylsph/hangman-netlify/internal/lobby"
	"github.com/psylsph/hangman-netlify/internal/store"
	"github.com/psylsph/hangman-netlify/internal/words"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	conn, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	cat := words.NewCatalog([]words.Category{{
		ID:    "animals",
		Name:  "Animals",
		Words: []words.Entry{{Word: "CAT", Hint: "A small pet", Difficulty: "easy"}},
	}})
	coord := lobby.NewCoordinator(lobby.WithWords(cat), lobby.WithConnectDelay(0))
	return New(config.Default(), store.NewMemoryStore(), conn, WithCatalog(cat), WithLobby(coord))
}

// client carries cookies between requests like a browser would.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, s *Server) *client {
	return &client{t: t, h: s.Router(), cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
		} else {
			c.cookies[ck.Name] = ck
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.do(http.MethodGet, "/health", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type %q", got)
	}
	expectStatus(t, c.do(http.MethodGet, "/nope", nil), http.StatusNotFound)
}

func TestGuestGameFlow(t *testing.T) {
	s := newTestServer(t)
	c := newClient(t, s)

	rec := c.do(http.MethodPost, "/game/new", newGameReq{Category: "animals", Difficulty: "easy"})
	expectStatus(t, rec, http.StatusOK)
	v := decode[gameView](t, rec)
	if v.Word != "" || v.Hint != "" {
		t.Fatalf("live round leaked word or hint: %+v", v)
	}
	if v.Pattern != "___" || v.MaxWrongGuesses != 8 || v.Phase != game.PhaseInProgress {
		t.Fatalf("unexpected new game view: %+v", v)
	}
	if len(v.WordProgress) != 3 {
		t.Fatalf("expected 3 tiles, got %+v", v.WordProgress)
	}
	for i, tile := range v.WordProgress {
		if tile.Revealed || tile.Letter != "" {
			t.Errorf("tile %d leaked before it was guessed: %+v", i, tile)
		}
	}
	if strings.Contains(rec.Body.String(), "CAT") {
		t.Fatalf("new game body leaked the word: %s", rec.Body.String())
	}

	mid := decode[guessRes](t, c.do(http.MethodPost, "/game/guess", guessReq{GameID: v.ID, Letter: "a"}))
	if p := mid.Game.WordProgress; p[0].Letter != "" || p[1].Letter != "A" || !p[1].Revealed || p[2].Letter != "" {
		t.Fatalf("expected only the guessed tile to show, got %+v", p)
	}

	var last guessRes
	for _, l := range []string{"c", "t"} {
		rec := c.do(http.MethodPost, "/game/guess", guessReq{GameID: v.ID, Letter: l})
		expectStatus(t, rec, http.StatusOK)
		last = decode[guessRes](t, rec)
	}
	if !last.Result.Ended || !last.Game.HasWon || last.Game.Word != "CAT" || last.Game.Result == nil {
		t.Fatalf("expected a won round, got %+v", last)
	}

	var status string
	var guesses, score int
	err := s.db.QueryRow(`SELECT status, guesses, score FROM games WHERE id=?`, v.ID).Scan(&status, &guesses, &score)
	if err != nil {
		t.Fatalf("games row: %v", err)
	}
	if status != statusWon || guesses != 3 || score != last.Game.Result.Score {
		t.Errorf("unexpected games row: %s %d %d", status, guesses, score)
	}

	anon := c.cookies[anonCookieName].Value
	if p := s.profiles.Load(context.Background(), anon, ""); p.TotalGames != 1 || p.GamesWon != 1 {
		t.Errorf("expected profile to record the win, got %+v", p)
	}
}

func TestRejectedGuessIsNotAnError(t *testing.T) {
	c := newClient(t, newTestServer(t))
	v := decode[gameView](t, c.do(http.MethodPost, "/game/new", newGameReq{}))

	rec := c.do(http.MethodPost, "/game/guess", guessReq{GameID: v.ID, Letter: "1"})
	expectStatus(t, rec, http.StatusOK)
	res := decode[guessRes](t, rec)
	if res.Result.Valid || res.Result.Message != game.MsgInvalidLetter {
		t.Fatalf("expected invalid letter rejection, got %+v", res.Result)
	}
	if len(res.Game.GuessedLetters) != 0 {
		t.Errorf("rejected guess changed state: %v", res.Game.GuessedLetters)
	}

	expectStatus(t, c.do(http.MethodPost, "/game/guess", guessReq{GameID: "missing", Letter: "A"}), http.StatusNotFound)
}

func TestHintIsOneShot(t *testing.T) {
	c := newClient(t, newTestServer(t))
	v := decode[gameView](t, c.do(http.MethodPost, "/game/new", newGameReq{}))

	rec := c.do(http.MethodPost, "/game/hint", map[string]string{"gameId": v.ID})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[map[string]any](t, rec)["hint"]; got != "A small pet" {
		t.Errorf("unexpected hint %v", got)
	}
	expectStatus(t, c.do(http.MethodPost, "/game/hint", map[string]string{"gameId": v.ID}), http.StatusConflict)

	after := decode[gameView](t, c.do(http.MethodGet, "/game/"+v.ID, nil))
	if !after.HintUsed || after.Hint != "A small pet" {
		t.Errorf("expected used hint to be visible, got %+v", after)
	}
}

func TestSuggest(t *testing.T) {
	c := newClient(t, newTestServer(t))
	v := decode[gameView](t, c.do(http.MethodPost, "/game/new", newGameReq{Difficulty: "hard"}))
	c.do(http.MethodPost, "/game/guess", guessReq{GameID: v.ID, Letter: "e"})

	rec := c.do(http.MethodGet, "/game/"+v.ID+"/suggest?tier=medium", nil)
	expectStatus(t, rec, http.StatusOK)
	got := decode[map[string]any](t, rec)
	letter, _ := got["letter"].(string)
	if len(letter) != 1 || letter == "E" || got["tier"] != "medium" {
		t.Errorf("unexpected suggestion %+v", got)
	}

	expectStatus(t, c.do(http.MethodGet, "/game/"+v.ID+"/suggest?tier=impossible", nil), http.StatusBadRequest)
}

func TestAccountStats(t *testing.T) {
	s := newTestServer(t)
	c := newClient(t, s)

	expectStatus(t, c.do(http.MethodGet, "/stats/me", nil), http.StatusUnauthorized)
	expectStatus(t, c.do(http.MethodPost, "/auth/signup", credentialsReq{Username: "x", Password: "short"}), http.StatusBadRequest)

	rec := c.do(http.MethodPost, "/auth/signup", credentialsReq{Username: "alice", Password: "correct horse"})
	expectStatus(t, rec, http.StatusOK)
	if _, ok := c.cookies["hangman_token"]; !ok {
		t.Fatalf("expected auth cookie after signup")
	}
	expectStatus(t, c.do(http.MethodPost, "/auth/signup", credentialsReq{Username: "ALICE", Password: "correct horse"}), http.StatusConflict)

	v := decode[gameView](t, c.do(http.MethodPost, "/game/new", newGameReq{}))
	for _, l := range []string{"x", "c", "a", "t"} {
		c.do(http.MethodPost, "/game/guess", guessReq{GameID: v.ID, Letter: l})
	}

	stats := decode[map[string]any](t, c.do(http.MethodGet, "/stats/me", nil))
	if stats["gamesPlayed"] != float64(1) || stats["wins"] != float64(1) || stats["streak"] != float64(1) {
		t.Errorf("unexpected counters %+v", stats)
	}
	prof, _ := stats["profile"].(map[string]any)
	if prof["totalGames"] != float64(1) || prof["username"] != "alice" {
		t.Errorf("unexpected profile %+v", prof)
	}

	mine := decode[[]gameRow](t, c.do(http.MethodGet, "/games/mine", nil))
	if len(mine) != 1 || mine[0].Word != "CAT" || mine[0].WrongGuesses != 1 || mine[0].Status != statusWon {
		t.Errorf("unexpected history %+v", mine)
	}

	c.do(http.MethodPost, "/auth/logout", nil)
	expectStatus(t, c.do(http.MethodGet, "/auth/me", nil), http.StatusUnauthorized)

	expectStatus(t, c.do(http.MethodPost, "/auth/login", credentialsReq{Username: "alice", Password: "wrong password"}), http.StatusUnauthorized)
	expectStatus(t, c.do(http.MethodPost, "/auth/login", credentialsReq{Username: "alice", Password: "correct horse"}), http.StatusOK)
	me := decode[authUser](t, c.do(http.MethodGet, "/auth/me", nil))
	if me.Username != "alice" {
		t.Errorf("unexpected /auth/me %+v", me)
	}
}

func TestDailyFlow(t *testing.T) {
	c := newClient(t, newTestServer(t))

	start := decode[dailyNewRes](t, c.do(http.MethodPost, "/daily/new", nil))
	if start.Played || start.GameID == "" || start.Game == nil || start.Game.Pattern != "___" {
		t.Fatalf("unexpected daily start %+v", start)
	}
	again := decode[dailyNewRes](t, c.do(http.MethodPost, "/daily/new", nil))
	if again.GameID != start.GameID {
		t.Errorf("expected the session to be reused")
	}

	expectStatus(t, c.do(http.MethodPost, "/daily/guess", guessReq{GameID: "other", Letter: "c"}), http.StatusConflict)

	var res dailyGuessRes
	for _, l := range []string{"c", "a", "t"} {
		res = decode[dailyGuessRes](t, c.do(http.MethodPost, "/daily/guess", guessReq{GameID: start.GameID, Letter: l}))
	}
	if res.State != "won" {
		t.Fatalf("expected won, got %+v", res)
	}
	locked := decode[dailyGuessRes](t, c.do(http.MethodPost, "/daily/guess", guessReq{GameID: start.GameID, Letter: "z"}))
	if locked.State != "locked" || locked.Result.Valid {
		t.Errorf("expected locked round, got %+v", locked)
	}

	lb := decode[lbRes](t, c.do(http.MethodGet, "/daily/leaderboard", nil))
	if len(lb.Top) != 1 || lb.Top[0].Score != res.Game.Score {
		t.Errorf("unexpected leaderboard %+v", lb)
	}
	if after := decode[dailyNewRes](t, c.do(http.MethodPost, "/daily/new", nil)); !after.Played {
		t.Errorf("expected played after finishing, got %+v", after)
	}
	expectStatus(t, c.do(http.MethodGet, "/daily/leaderboard?date=yesterday", nil), http.StatusBadRequest)
}

func TestWordsEndpoints(t *testing.T) {
	c := newClient(t, newTestServer(t))

	cats := decode[[]words.CategoryInfo](t, c.do(http.MethodGet, "/words/categories", nil))
	if len(cats) != 1 || cats[0].ID != "animals" || cats[0].WordCount != 1 {
		t.Fatalf("unexpected categories %+v", cats)
	}
	found := decode[[]words.Entry](t, c.do(http.MethodGet, "/words/search?q=pet", nil))
	if len(found) != 1 {
		t.Errorf("expected search by hint to match, got %+v", found)
	}

	body := customWordReq{Word: "otter", Hint: "Floats on its back", Category: "animals", Difficulty: "medium"}
	expectStatus(t, c.do(http.MethodPost, "/words/custom", body), http.StatusUnauthorized)

	c.do(http.MethodPost, "/auth/signup", credentialsReq{Username: "editor", Password: "long enough"})
	expectStatus(t, c.do(http.MethodPost, "/words/custom", body), http.StatusCreated)
	expectStatus(t, c.do(http.MethodPost, "/words/custom", body), http.StatusConflict)

	st := decode[words.Stats](t, c.do(http.MethodGet, "/words/stats", nil))
	if st.TotalWords != 2 || st.DifficultyDistribution["medium"] != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
	expectStatus(t, c.do(http.MethodDelete, "/words/custom", body), http.StatusNoContent)
}

func TestRoomsFlow(t *testing.T) {
	s := newTestServer(t)
	alice := newClient(t, s)
	bob := newClient(t, s)

	rec := alice.do(http.MethodPost, "/rooms", lobby.RoomOptions{Name: "X", MaxPlayers: 2, Difficulty: "easy"})
	expectStatus(t, rec, http.StatusCreated)
	room := decode[lobby.Room](t, rec)

	listed := decode[[]lobby.Room](t, bob.do(http.MethodGet, "/rooms", nil))
	if len(listed) != 1 || listed[0].ID != room.ID {
		t.Fatalf("expected the new room to be listed, got %+v", listed)
	}
	byCode := decode[lobby.Room](t, bob.do(http.MethodGet, "/rooms/code/"+room.Code, nil))
	if byCode.ID != room.ID {
		t.Fatalf("code lookup returned %+v", byCode)
	}

	expectStatus(t, bob.do(http.MethodPost, "/rooms/"+room.ID+"/join", nil), http.StatusOK)
	expectStatus(t, alice.do(http.MethodPost, "/rooms/ready", nil), http.StatusOK)
	expectStatus(t, bob.do(http.MethodPost, "/rooms/ready", nil), http.StatusOK)

	rec = alice.do(http.MethodGet, "/rooms/"+room.ID, nil)
	got := decode[lobby.Room](t, rec)
	if got.Status != lobby.StatusPlaying || got.Round == nil {
		t.Fatalf("expected playing room with a round, got %+v", got)
	}
	if got.Round.Word != "" || strings.Contains(rec.Body.String(), "CAT") {
		t.Fatalf("room snapshot leaked the word: %s", rec.Body.String())
	}

	res := decode[guessRes](t, alice.do(http.MethodPost, "/rooms/guess", map[string]string{"letter": "c"}))
	if !res.Result.Valid || !res.Result.Correct {
		t.Fatalf("unexpected guess result %+v", res.Result)
	}
	rec = bob.do(http.MethodGet, "/rooms/me", nil)
	mine := decode[mineRes](t, rec)
	if mine.Game == nil || len(mine.Game.GuessedLetters) != 1 || mine.Game.GuessedLetters[0] != "C" {
		t.Fatalf("expected bob's round to follow alice's guess, got %+v", mine.Game)
	}
	if p := mine.Game.WordProgress; len(p) != 3 || p[0].Letter != "C" || p[1].Letter != "" || p[2].Letter != "" {
		t.Fatalf("expected only C to be visible, got %+v", p)
	}
	if mine.Room == nil || mine.Room.Round == nil || mine.Room.Round.Word != "" {
		t.Fatalf("expected a redacted round in /rooms/me, got %+v", mine.Room)
	}

	expectStatus(t, bob.do(http.MethodPost, "/rooms/chat", map[string]string{"message": "nice"}), http.StatusOK)
	expectStatus(t, bob.do(http.MethodPost, "/rooms/chat", map[string]string{"message": "  "}), http.StatusBadRequest)

	rec = alice.do(http.MethodGet, "/rooms/"+room.ID+"/events", nil)
	expectStatus(t, rec, http.StatusOK)
	if strings.Contains(rec.Body.String(), "CAT") {
		t.Fatalf("journal leaked the word: %s", rec.Body.String())
	}
	journal := decode[[]journalEntry](t, rec)
	seen := map[events.Name]int{}
	for _, e := range journal {
		seen[e.Name]++
	}
	if seen[events.RoomGameStarted] != 1 || seen[events.GuessReceived] != 1 || seen[events.ChatMessage] != 1 {
		t.Errorf("unexpected journal contents %v", seen)
	}
	last := journal[len(journal)-1].Seq
	if tail := decode[[]journalEntry](t, alice.do(http.MethodGet, "/rooms/"+room.ID+"/events?after="+strconv.Itoa(last), nil)); len(tail) != 0 {
		t.Errorf("expected no entries after %d, got %d", last, len(tail))
	}

	carol := newClient(t, s)
	expectStatus(t, carol.do(http.MethodGet, "/rooms/"+room.ID+"/events", nil), http.StatusForbidden)

	again := decode[lobby.Room](t, bob.do(http.MethodPost, "/rooms/play-again", nil))
	if again.Status != lobby.StatusWaiting {
		t.Errorf("expected waiting after play again, got %s", again.Status)
	}

	alice.do(http.MethodPost, "/rooms/leave", nil)
	bob.do(http.MethodPost, "/rooms/disconnect", nil)
	expectStatus(t, alice.do(http.MethodGet, "/rooms/"+room.ID, nil), http.StatusNotFound)
}

func TestRoomErrors(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.do(http.MethodPost, "/rooms/missing/join", nil)
	expectStatus(t, rec, http.StatusNotFound)
	if got := decode[map[string]string](t, rec)["error"]; got != "room not found" {
		t.Errorf("unexpected error %q", got)
	}
	expectStatus(t, c.do(http.MethodPost, "/rooms", lobby.RoomOptions{Name: "X", MaxPlayers: 2, Difficulty: "extreme"}), http.StatusBadRequest)
	expectStatus(t, c.do(http.MethodPost, "/rooms", lobby.RoomOptions{Name: "X", Difficulty: "easy"}), http.StatusBadRequest)
	expectStatus(t, c.do(http.MethodPost, "/rooms/ready", nil), http.StatusConflict)
	expectStatus(t, c.do(http.MethodPost, "/rooms/guess", map[string]string{"letter": "a"}), http.StatusConflict)
	expectStatus(t, c.do(http.MethodGet, "/rooms/missing/events?after=-1", nil), http.StatusBadRequest)
}
