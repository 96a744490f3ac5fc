// internal/events/bus.go
//
// Typed publish/subscribe notifications for the game engine and the lobby.
// Responsibilities:
//   - Name the lifecycle events consumers (UI, storage, audio) react to.
//   - Fan events out to callback subscribers and to buffered channels.
//
// Notes:
//   - Publish never blocks on a slow channel subscriber; the event is dropped and logged.
//   - Handlers run synchronously on the publisher's goroutine, in subscription order.

package events

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Name identifies an event kind.
type Name string

// Engine events.
const (
	GameStarted Name = "gameStarted"
	GuessMade   Name = "guessMade"
	GameEnded   Name = "gameEnded"
	HintUsed    Name = "hintUsed"
)

// Lobby events.
const (
	Connected       Name = "connected"
	Disconnected    Name = "disconnected"
	Error           Name = "error"
	RoomCreated     Name = "roomCreated"
	RoomJoined      Name = "roomJoined"
	RoomLeft        Name = "roomLeft"
	PlayerJoined    Name = "playerJoined"
	PlayerLeft      Name = "playerLeft"
	PlayerReady     Name = "playerReady"
	RoomGameStarted Name = "roomGameStarted"
	GuessReceived   Name = "guessReceived"
	ChatMessage     Name = "chatMessage"
	PlayAgain       Name = "playAgain"
)

// Event is a single notification. RoomID and SenderID are empty for engine events.
type Event struct {
	Name     Name      `json:"name"`
	RoomID   string    `json:"roomId,omitempty"`
	SenderID string    `json:"senderId,omitempty"`
	Payload  any       `json:"payload,omitempty"`
	At       time.Time `json:"at"`
}

// Handler receives published events.
type Handler func(Event)

// Bus is a concurrency-safe fan-out of events to subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]Handler
	next int
}

// NewBus constructs an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]Handler)}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (cancel func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Channel subscribes a buffered channel. The channel is closed by cancel.
func (b *Bus) Channel(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	var mu sync.Mutex
	closed := false

	unsubscribe := b.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- e:
		default:
			log.Warn().Str("event", string(e.Name)).Str("roomId", e.RoomID).Msg("event channel full, dropping event")
		}
	})

	return ch, func() {
		unsubscribe()
		mu.Lock()
		if !closed {
			closed = true
			close(ch)
		}
		mu.Unlock()
	}
}

// Publish delivers e to every current subscriber. A zero At is stamped with time.Now.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, b.subs[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// Len reports the number of live subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
