// internal/httpserver/routes_rooms.go
//
// Multiplayer lobby endpoints (HTTP polling front end for lobby.Coordinator):
//   - GET  /rooms                  → public waiting rooms with a free seat
//   - POST /rooms                  → create a room {name, maxPlayers, difficulty, category, isPrivate}
//   - GET  /rooms/me               → caller's room and local round
//   - GET  /rooms/code/{code}      → look a room up by join code
//   - GET  /rooms/{id}             → room snapshot
//   - GET  /rooms/{id}/events      → room event journal (?after=<seq>)
//   - POST /rooms/{id}/join        → join a room
//   - POST /rooms/leave | ready | guess | chat | play-again | disconnect
//
// Each caller gets one lobby.Session plus a local game.Game that follows the
// room's broadcasts. Guesses are applied to the caller's own round and then
// relayed to the room.
//
// The round word never leaves the server: room snapshots and journaled
// payloads are redacted, and a room's journal is served to its occupants only.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/psylsph/hangman-netlify/internal/events"
	"github.com/psylsph/hangman-netlify/internal/game"
	"github.com/psylsph/hangman-netlify/internal/lobby"
)

const (
	journalLimit = 200
	maxChatRunes = 500
)

// roomHub tracks per-player sessions and journals room events for polling.
type roomHub struct {
	srv *Server

	mu      sync.Mutex
	members map[string]*member
	journal map[string]*roomLog
}

// member is one caller's lobby presence.
type member struct {
	session *lobby.Session

	mu       sync.Mutex
	roomID   string
	game     *game.Game
	unfollow func()
}

type roomLog struct {
	next    int
	entries []journalEntry
}

type journalEntry struct {
	Seq int `json:"seq"`
	events.Event
}

func (s *Server) mountRooms(r chi.Router) {
	h := &roomHub{
		srv:     s,
		members: make(map[string]*member),
		journal: make(map[string]*roomLog),
	}
	s.lobby.Bus().Subscribe(h.record)

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/me", h.handleMine)
		r.Get("/code/{code}", h.handleByCode)
		r.Get("/{id}", h.handleGet)
		r.Get("/{id}/events", h.handleEvents)
		r.Post("/{id}/join", h.handleJoin)
		r.Post("/leave", h.handleLeave)
		r.Post("/ready", h.handleReady)
		r.Post("/guess", h.handleGuess)
		r.Post("/chat", h.handleChat)
		r.Post("/play-again", h.handlePlayAgain)
		r.Post("/disconnect", h.handleDisconnect)
	})
}

// record appends room events to that room's journal. Error events are
// private to the sender and are not journaled; a closed room's journal is
// dropped.
func (h *roomHub) record(e events.Event) {
	if e.RoomID == "" || e.Name == events.Error {
		return
	}
	if e.Name == events.RoomLeft {
		if _, open := h.srv.lobby.Room(e.RoomID); !open {
			h.mu.Lock()
			delete(h.journal, e.RoomID)
			h.mu.Unlock()
			return
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.journal[e.RoomID]
	if !ok {
		l = &roomLog{}
		h.journal[e.RoomID] = l
	}
	l.next++
	l.entries = append(l.entries, journalEntry{Seq: l.next, Event: redactEvent(e)})
	if len(l.entries) > journalLimit {
		l.entries = l.entries[len(l.entries)-journalLimit:]
	}
}

// member returns the caller's presence, creating its session on first use.
func (h *roomHub) member(w http.ResponseWriter, r *http.Request) *member {
	id, username := h.srv.identity(w, r)
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.members[id]
	if !ok {
		m = &member{session: h.srv.lobby.Session(lobby.Player{ID: id, Username: username})}
		h.members[id] = m
	}
	return m
}

// follow points m's local round at room, replacing any previous follower.
func (m *member) follow(room lobby.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roomID == room.ID && m.game != nil {
		return
	}
	m.stopLocked()
	m.roomID = room.ID
	m.game = game.New(room.Difficulty, room.Category)
	if room.Round != nil {
		m.game.Start(room.Round.Word, room.Round.Hint, room.Round.Category)
	}
	m.unfollow = lobby.FollowGuesses(m.session, m.game)
}

func (m *member) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *member) stopLocked() {
	if m.unfollow != nil {
		m.unfollow()
		m.unfollow = nil
	}
	if m.game != nil {
		m.game.Close()
		m.game = nil
	}
	m.roomID = ""
}

func (m *member) round() *game.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game
}

// lobbyError maps lobby errors to HTTP statuses.
func lobbyError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, lobby.ErrRoomNotFound):
		code = http.StatusNotFound
	case errors.Is(err, lobby.ErrRoomFull), errors.Is(err, lobby.ErrAlreadyInRoom), errors.Is(err, lobby.ErrNotInRoom):
		code = http.StatusConflict
	case errors.Is(err, lobby.ErrInvalidOptions):
		code = http.StatusBadRequest
	case errors.Is(err, lobby.ErrConnect):
		code = http.StatusServiceUnavailable
	}
	jsonError(w, code, err.Error())
}

// jsonError writes {"error": msg}, escaping msg.
func jsonError(w http.ResponseWriter, code int, msg string) {
	b, _ := json.Marshal(map[string]string{"error": msg})
	http.Error(w, string(b), code)
}

// publicRoom blanks the round word of a room snapshot.
func publicRoom(room lobby.Room) lobby.Room {
	if room.Round != nil {
		round := *room.Round
		round.Word = ""
		room.Round = &round
	}
	return room
}

func publicRooms(rooms []lobby.Room) []lobby.Room {
	out := make([]lobby.Room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, publicRoom(r))
	}
	return out
}

// redactEvent strips the round word from room and round payloads.
func redactEvent(e events.Event) events.Event {
	switch p := e.Payload.(type) {
	case lobby.Room:
		e.Payload = publicRoom(p)
	case lobby.GameStart:
		p.Word = ""
		e.Payload = p
	}
	return e
}

// -----------------------------------------------------------------------------

func (h *roomHub) handleList(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(publicRooms(h.srv.lobby.AvailableRooms()))
}

func (h *roomHub) handleCreate(w http.ResponseWriter, r *http.Request) {
	var opts lobby.RoomOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	m := h.member(w, r)
	room, err := m.session.CreateRoom(r.Context(), opts)
	if err != nil {
		lobbyError(w, err)
		return
	}
	m.follow(room)
	p := m.session.Player()
	_, _ = h.srv.profiles.RecordRoom(r.Context(), p.ID, p.Username, true)

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(publicRoom(room))
}

func (h *roomHub) handleJoin(w http.ResponseWriter, r *http.Request) {
	m := h.member(w, r)
	room, err := m.session.JoinRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		lobbyError(w, err)
		return
	}
	m.follow(room)
	p := m.session.Player()
	_, _ = h.srv.profiles.RecordRoom(r.Context(), p.ID, p.Username, false)
	_ = json.NewEncoder(w).Encode(publicRoom(room))
}

func (h *roomHub) handleByCode(w http.ResponseWriter, r *http.Request) {
	room, ok := h.srv.lobby.FindRoomByCode(strings.ToUpper(chi.URLParam(r, "code")))
	if !ok {
		lobbyError(w, lobby.ErrRoomNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(publicRoom(room))
}

func (h *roomHub) handleGet(w http.ResponseWriter, r *http.Request) {
	room, ok := h.srv.lobby.Room(chi.URLParam(r, "id"))
	if !ok {
		lobbyError(w, lobby.ErrRoomNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(publicRoom(room))
}

type mineRes struct {
	Room   *lobby.Room  `json:"room"`
	Game   *gameView    `json:"game,omitempty"`
	Player lobby.Player `json:"player"`
}

func (h *roomHub) handleMine(w http.ResponseWriter, r *http.Request) {
	m := h.member(w, r)
	out := mineRes{Player: m.session.Player()}
	if room, ok := m.session.CurrentRoom(); ok {
		room = publicRoom(room)
		out.Room = &room
	}
	if g := m.round(); g != nil && g.Phase() != game.PhaseIdle {
		v := viewOf(g)
		out.Game = &v
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleEvents returns journal entries after ?after=<seq>. Only the room's
// current occupants may read it.
func (h *roomHub) handleEvents(w http.ResponseWriter, r *http.Request) {
	after := 0
	if v := r.URL.Query().Get("after"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, `{"error":"invalid_after"}`, http.StatusBadRequest)
			return
		}
		after = n
	}
	id := chi.URLParam(r, "id")
	if h.member(w, r).session.RoomID() != id {
		http.Error(w, `{"error":"not_a_member"}`, http.StatusForbidden)
		return
	}

	h.mu.Lock()
	out := []journalEntry{}
	if l, ok := h.journal[id]; ok {
		for _, e := range l.entries {
			if e.Seq > after {
				out = append(out, e)
			}
		}
	}
	h.mu.Unlock()

	_ = json.NewEncoder(w).Encode(out)
}

func (h *roomHub) handleLeave(w http.ResponseWriter, r *http.Request) {
	m := h.member(w, r)
	m.session.LeaveRoom()
	m.stop()
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (h *roomHub) handleReady(w http.ResponseWriter, r *http.Request) {
	m := h.member(w, r)
	p, err := m.session.ToggleReady()
	if err != nil {
		lobbyError(w, err)
		return
	}
	room, _ := m.session.CurrentRoom()
	_ = json.NewEncoder(w).Encode(map[string]any{"player": p, "room": publicRoom(room)})
}

// handleGuess applies the letter to the caller's round and relays it.
func (h *roomHub) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Letter string `json:"letter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	m := h.member(w, r)
	g := m.round()
	if g == nil || g.Phase() == game.PhaseIdle {
		http.Error(w, `{"error":"no_round"}`, http.StatusConflict)
		return
	}
	res := g.Guess(strings.TrimSpace(req.Letter))
	if res.Valid {
		if err := m.session.SendGuess(res.Guess.Letter, res.Correct); err != nil {
			log.Warn().Err(err).Msg("relay guess")
		}
	}
	if res.Ended {
		if result, ok := g.Result(); ok {
			p := m.session.Player()
			_, _ = h.srv.profiles.RecordResult(r.Context(), p.ID, p.Username, result, true)
		}
	}
	_ = json.NewEncoder(w).Encode(guessRes{Result: res, Game: viewOf(g)})
}

func (h *roomHub) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" || len([]rune(msg)) > maxChatRunes {
		http.Error(w, `{"error":"invalid_message"}`, http.StatusBadRequest)
		return
	}
	if err := h.member(w, r).session.SendChatMessage(msg); err != nil {
		lobbyError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (h *roomHub) handlePlayAgain(w http.ResponseWriter, r *http.Request) {
	room, err := h.member(w, r).session.PlayAgain()
	if err != nil {
		lobbyError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(publicRoom(room))
}

// handleDisconnect leaves any room and forgets the caller's session.
func (h *roomHub) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	m := h.member(w, r)
	m.session.Disconnect()
	m.stop()

	h.mu.Lock()
	delete(h.members, m.session.Player().ID)
	h.mu.Unlock()

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
