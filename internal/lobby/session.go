// internal/lobby/session.go
//
// Session is one client's view of the lobby: who they are, whether they are
// connected and which room they occupy.
//
// Operations that need the backend connect first (DelayConnector by default);
// a failed connect publishes an error event and aborts the operation.

package lobby

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/psylsph/hangman-netlify/internal/events"
	"github.com/psylsph/hangman-netlify/internal/game"
	"github.com/psylsph/hangman-netlify/internal/words"
)

type Session struct {
	c *Coordinator

	mu        sync.Mutex
	player    Player
	roomID    string
	connected bool
}

// Player returns the session's identity.
func (s *Session) Player() Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// RoomID returns the current room id, or "".
func (s *Session) RoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

// CurrentRoom returns a copy of the occupied room.
func (s *Session) CurrentRoom() (Room, bool) {
	id := s.RoomID()
	if id == "" {
		return Room{}, false
	}
	return s.c.Room(id)
}

// Connect runs the connector. It is safe to call when already connected.
func (s *Session) Connect(ctx context.Context) error {
	id := s.Player().ID
	if err := s.c.connector.Connect(ctx); err != nil {
		log.Warn().Err(err).Str("playerId", id).Msg("lobby connect failed")
		s.c.bus.Publish(events.Event{Name: events.Error, SenderID: id, Payload: err.Error()})
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}
	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()
	s.c.bus.Publish(events.Event{Name: events.Connected, SenderID: id})
	return nil
}

// Disconnect leaves the current room and drops the connection.
func (s *Session) Disconnect() {
	s.LeaveRoom()
	s.mu.Lock()
	s.connected = false
	id := s.player.ID
	s.mu.Unlock()
	s.c.bus.Publish(events.Event{Name: events.Disconnected, SenderID: id})
}

func (s *Session) ensureConnected(ctx context.Context) error {
	if s.Connected() {
		return nil
	}
	return s.Connect(ctx)
}

// CreateRoom opens a room with the caller as its only, not-ready occupant.
// A caller already in another room leaves it first.
func (s *Session) CreateRoom(ctx context.Context, opts RoomOptions) (Room, error) {
	name := strings.TrimSpace(opts.Name)
	diff, ok := game.ParseDifficulty(opts.Difficulty)
	switch {
	case name == "":
		return Room{}, fmt.Errorf("%w: name is required", ErrInvalidOptions)
	case opts.MaxPlayers < 2:
		return Room{}, fmt.Errorf("%w: maxPlayers must be at least 2", ErrInvalidOptions)
	case !ok:
		return Room{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidOptions, opts.Difficulty)
	}
	if err := s.ensureConnected(ctx); err != nil {
		return Room{}, err
	}
	category := opts.Category
	if category == "" {
		category = words.Any
	}

	s.mu.Lock()
	s.c.mu.Lock()
	pending := s.leaveLocked()
	r := &Room{
		ID:         uuid.NewString(),
		Code:       s.c.newCodeLocked(),
		Name:       name,
		MaxPlayers: opts.MaxPlayers,
		Players:    []Player{{ID: s.player.ID, Username: s.player.Username}},
		Status:     StatusWaiting,
		Difficulty: diff,
		Category:   category,
		IsPrivate:  opts.IsPrivate,
		CreatedBy:  s.player.ID,
		CreatedAt:  s.c.now(),
	}
	s.c.insert(r)
	s.roomID = r.ID
	snap := snapshot(r)
	pending = append(pending, events.Event{Name: events.RoomCreated, RoomID: r.ID, SenderID: s.player.ID, Payload: snap})
	s.c.mu.Unlock()
	s.mu.Unlock()

	log.Info().Str("roomId", snap.ID).Str("code", snap.Code).Str("owner", snap.CreatedBy).Msg("room created")
	s.c.publish(pending)
	return snap, nil
}

// JoinRoom adds the caller (not ready) to the room. A caller already in a
// different room leaves it first.
func (s *Session) JoinRoom(ctx context.Context, roomID string) (Room, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return Room{}, err
	}

	s.mu.Lock()
	s.c.mu.Lock()
	r, ok := s.c.rooms[roomID]
	var err error
	switch {
	case !ok:
		err = ErrRoomNotFound
	case r.indexOf(s.player.ID) >= 0:
		err = ErrAlreadyInRoom
	case r.Full():
		err = ErrRoomFull
	}
	if err != nil {
		id := s.player.ID
		s.c.mu.Unlock()
		s.mu.Unlock()
		s.c.bus.Publish(events.Event{Name: events.Error, RoomID: roomID, SenderID: id, Payload: err.Error()})
		return Room{}, err
	}

	pending := s.leaveLocked()
	joined := Player{ID: s.player.ID, Username: s.player.Username}
	r.Players = append(r.Players, joined)
	s.roomID = r.ID
	snap := snapshot(r)
	pending = append(pending,
		events.Event{Name: events.PlayerJoined, RoomID: r.ID, SenderID: joined.ID, Payload: joined},
		events.Event{Name: events.RoomJoined, RoomID: r.ID, SenderID: joined.ID, Payload: snap},
	)
	s.c.mu.Unlock()
	s.mu.Unlock()

	log.Debug().Str("roomId", snap.ID).Str("playerId", joined.ID).Int("players", snap.CurrentPlayers).Msg("room joined")
	s.c.publish(pending)
	return snap, nil
}

// LeaveRoom removes the caller from its room, deleting the room when it
// empties. It is a no-op outside a room.
func (s *Session) LeaveRoom() {
	s.mu.Lock()
	s.c.mu.Lock()
	pending := s.leaveLocked()
	s.c.mu.Unlock()
	s.mu.Unlock()
	s.c.publish(pending)
}

// leaveLocked requires s.mu and s.c.mu.
func (s *Session) leaveLocked() []events.Event {
	if s.roomID == "" {
		return nil
	}
	id := s.roomID
	s.roomID = ""
	r, ok := s.c.rooms[id]
	if !ok {
		return nil
	}
	var pending []events.Event
	if i := r.indexOf(s.player.ID); i >= 0 {
		left := r.Players[i]
		r.Players = append(r.Players[:i], r.Players[i+1:]...)
		pending = append(pending, events.Event{Name: events.PlayerLeft, RoomID: id, SenderID: left.ID, Payload: left})
	}
	snap := snapshot(r)
	if len(r.Players) == 0 {
		s.c.removeLocked(id)
	}
	return append(pending, events.Event{Name: events.RoomLeft, RoomID: id, SenderID: s.player.ID, Payload: snap})
}

// ToggleReady flips the caller's ready flag. When that leaves every occupant
// of a waiting room ready, with at least two occupants, the round starts.
func (s *Session) ToggleReady() (Player, error) {
	s.mu.Lock()
	s.c.mu.Lock()
	r, ok := s.c.rooms[s.roomID]
	i := -1
	if ok {
		i = r.indexOf(s.player.ID)
	}
	if i < 0 {
		s.c.mu.Unlock()
		s.mu.Unlock()
		return Player{}, ErrNotInRoom
	}

	r.Players[i].IsReady = !r.Players[i].IsReady
	p := r.Players[i]
	pending := []events.Event{{Name: events.PlayerReady, RoomID: r.ID, SenderID: p.ID, Payload: p}}

	if r.Status == StatusWaiting && len(r.Players) >= 2 && r.allReady() {
		pending = append(pending, s.c.startLocked(r))
	}
	s.c.mu.Unlock()
	s.mu.Unlock()

	s.c.publish(pending)
	return p, nil
}

// startLocked moves r to playing and returns the start event.
func (c *Coordinator) startLocked(r *Room) events.Event {
	now := c.now()
	pick := words.Fallback
	if c.words != nil {
		pick = c.words.RandomWord(r.Category, string(r.Difficulty))
	}
	r.Status = StatusPlaying
	r.StartedAt = &now
	r.Round = &GameStart{
		RoomID:          r.ID,
		Word:            strings.ToUpper(pick.Word),
		Hint:            pick.Hint,
		Category:        r.Category,
		Difficulty:      r.Difficulty,
		Players:         append([]Player(nil), r.Players...),
		MaxWrongGuesses: r.Difficulty.MaxWrongGuesses(),
	}
	log.Info().Str("roomId", r.ID).Int("players", len(r.Players)).Msg("room round started")
	return events.Event{Name: events.RoomGameStarted, RoomID: r.ID, Payload: *snapshot(r).Round}
}

// SendGuess relays the caller's guess to the room.
func (s *Session) SendGuess(letter string, correct bool) error {
	s.mu.Lock()
	p, roomID := s.player, s.roomID
	s.mu.Unlock()
	if roomID == "" {
		return ErrNotInRoom
	}
	s.c.bus.Publish(events.Event{Name: events.GuessReceived, RoomID: roomID, SenderID: p.ID, Payload: GuessMessage{
		PlayerID:       p.ID,
		PlayerUsername: p.Username,
		Letter:         strings.ToUpper(letter),
		Correct:        correct,
		Timestamp:      s.c.now(),
	}})
	return nil
}

// SendChatMessage relays a chat line to the room.
func (s *Session) SendChatMessage(text string) error {
	s.mu.Lock()
	p, roomID := s.player, s.roomID
	s.mu.Unlock()
	if roomID == "" {
		return ErrNotInRoom
	}
	s.c.bus.Publish(events.Event{Name: events.ChatMessage, RoomID: roomID, SenderID: p.ID, Payload: ChatMessage{
		PlayerID:       p.ID,
		PlayerUsername: p.Username,
		Message:        text,
		Timestamp:      s.c.now(),
	}})
	return nil
}

// PlayAgain resets the room to waiting and clears every ready flag.
// Membership is unchanged.
func (s *Session) PlayAgain() (Room, error) {
	s.mu.Lock()
	s.c.mu.Lock()
	r, ok := s.c.rooms[s.roomID]
	if !ok {
		s.c.mu.Unlock()
		s.mu.Unlock()
		return Room{}, ErrNotInRoom
	}
	r.Status = StatusWaiting
	r.StartedAt = nil
	r.Round = nil
	for i := range r.Players {
		r.Players[i].IsReady = false
	}
	snap := snapshot(r)
	id := s.player.ID
	s.c.mu.Unlock()
	s.mu.Unlock()

	s.c.bus.Publish(events.Event{Name: events.PlayAgain, RoomID: snap.ID, SenderID: id, Payload: snap})
	return snap, nil
}

// Subscribe delivers the caller's own events and every event of the room the
// caller currently occupies.
func (s *Session) Subscribe(h events.Handler) (cancel func()) {
	id := s.Player().ID
	return s.c.bus.Subscribe(func(e events.Event) {
		if e.SenderID == id || (e.RoomID != "" && e.RoomID == s.RoomID()) {
			h(e)
		}
	})
}
