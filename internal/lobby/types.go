// internal/lobby/types.go
//
// Data types for the in-memory multiplayer lobby.
// Defines:
//   - Player / Room: roster and room settings (waiting → playing → waiting).
//   - RoomOptions: input to CreateRoom.
//   - GameStart / GuessMessage / ChatMessage: broadcast payloads.

package lobby

import (
	"errors"
	"time"

	"github.com/psylsph/hangman-netlify/internal/game"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrInvalidOptions = errors.New("invalid room options")
	ErrNotInRoom      = errors.New("not in a room")
	ErrAlreadyInRoom  = errors.New("already in this room")
	ErrConnect        = errors.New("connection failed")
)

// Status is the room lifecycle state.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusPlaying Status = "playing"
)

// Player is one room occupant.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsReady  bool   `json:"isReady"`
}

// Room is a lobby room. Values handed out by the Coordinator are deep copies.
type Room struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	MaxPlayers     int             `json:"maxPlayers"`
	CurrentPlayers int             `json:"currentPlayers"`
	Players        []Player        `json:"players"`
	Status         Status          `json:"status"`
	Difficulty     game.Difficulty `json:"difficulty"`
	Category       string          `json:"category"`
	IsPrivate      bool            `json:"isPrivate"`
	CreatedBy      string          `json:"createdBy"`
	CreatedAt      time.Time       `json:"createdAt"`
	StartedAt      *time.Time      `json:"startedAt,omitempty"`
	Round          *GameStart      `json:"round,omitempty"`
}

// Full reports whether the room has no free seat.
func (r Room) Full() bool { return len(r.Players) >= r.MaxPlayers }

// Available reports whether the room belongs in the public browse list.
func (r Room) Available() bool {
	return !r.IsPrivate && r.Status == StatusWaiting && !r.Full()
}

func (r Room) allReady() bool {
	for _, p := range r.Players {
		if !p.IsReady {
			return false
		}
	}
	return true
}

func (r Room) indexOf(playerID string) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// RoomOptions configures CreateRoom. Name, MaxPlayers (≥ 2) and Difficulty are required.
type RoomOptions struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"maxPlayers"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category"`
	IsPrivate  bool   `json:"isPrivate"`
}

// GameStart is broadcast when every occupant is ready.
type GameStart struct {
	RoomID          string          `json:"roomId"`
	Word            string          `json:"word"`
	Hint            string          `json:"hint"`
	Category        string          `json:"category"`
	Difficulty      game.Difficulty `json:"difficulty"`
	Players         []Player        `json:"players"`
	MaxWrongGuesses int             `json:"maxWrongGuesses"`
}

// GuessMessage relays one occupant's guess to the room.
type GuessMessage struct {
	PlayerID       string    `json:"playerId"`
	PlayerUsername string    `json:"playerUsername"`
	Letter         string    `json:"letter"`
	Correct        bool      `json:"correct"`
	Timestamp      time.Time `json:"timestamp"`
}

// ChatMessage relays one occupant's chat line to the room.
type ChatMessage struct {
	PlayerID       string    `json:"playerId"`
	PlayerUsername string    `json:"playerUsername"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
}
