// internal/lobby/coordinator.go
//
// Coordinator is the shared, in-memory room registry standing in for a
// real-time multiplayer backend.
//
// Responsibilities:
//   - Own every Room (insertion ordered) and its roster.
//   - Hand out Sessions, one per connected client.
//   - Fan room events out over an events.Bus.
//
// Notes:
//   - All room mutations happen under one mutex; events are published after it
//     is released.
//   - Rooms returned to callers are deep copies (jinzhu/copier), so callers can
//     never mutate coordinator state.
//   - There is no per-room sequencer. Broadcast order is the order in which
//     mutating calls reach the Coordinator.

package lobby

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/psylsph/hangman-netlify/internal/events"
	"github.com/psylsph/hangman-netlify/internal/words"
)

// DefaultConnectDelay is the simulated connection latency.
const DefaultConnectDelay = time.Second

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// Connector establishes the (simulated) backend connection.
type Connector interface {
	Connect(ctx context.Context) error
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context) error

func (f ConnectorFunc) Connect(ctx context.Context) error { return f(ctx) }

// DelayConnector succeeds after Delay, or fails early when ctx is done.
type DelayConnector struct{ Delay time.Duration }

func (d DelayConnector) Connect(ctx context.Context) error {
	if d.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Coordinator owns all rooms.
type Coordinator struct {
	mu    sync.Mutex
	rooms map[string]*Room
	order []string

	bus       *events.Bus
	words     words.Source
	connector Connector
	now       func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

func WithBus(b *events.Bus) Option            { return func(c *Coordinator) { c.bus = b } }
func WithWords(src words.Source) Option       { return func(c *Coordinator) { c.words = src } }
func WithConnector(conn Connector) Option     { return func(c *Coordinator) { c.connector = conn } }
func WithClock(now func() time.Time) Option   { return func(c *Coordinator) { c.now = now } }
func WithConnectDelay(d time.Duration) Option { return WithConnector(DelayConnector{Delay: d}) }

// WithDemoRooms seeds two public demo rooms.
func WithDemoRooms() Option {
	return func(c *Coordinator) {
		now := c.now()
		c.insert(&Room{
			ID: "room1", Code: "ABC123", Name: "Fun Room", MaxPlayers: 4,
			Players: []Player{
				{ID: "player1", Username: "Alice", IsReady: true},
				{ID: "player2", Username: "Bob"},
			},
			Status: StatusWaiting, Difficulty: "medium", Category: words.Any,
			CreatedBy: "player1", CreatedAt: now,
		})
		c.insert(&Room{
			ID: "room2", Code: "XYZ789", Name: "Challenge Room", MaxPlayers: 3,
			Players: []Player{{ID: "player3", Username: "Charlie"}},
			Status:  StatusWaiting, Difficulty: "hard", Category: "animals",
			CreatedBy: "player3", CreatedAt: now,
		})
	}
}

// NewCoordinator constructs a Coordinator. Without options it uses a fresh
// bus, the default word catalog and a one second connect delay.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		rooms:     make(map[string]*Room),
		bus:       events.NewBus(),
		connector: DelayConnector{Delay: DefaultConnectDelay},
		now:       time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	if c.words == nil {
		c.words = words.Default()
	}
	return c
}

// Bus exposes the event bus (subscribe to observe every room).
func (c *Coordinator) Bus() *events.Bus { return c.bus }

// Session returns a client handle for p. An empty ID gets a generated one.
func (c *Coordinator) Session(p Player) *Session {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.IsReady = false
	return &Session{c: c, player: p}
}

// Room returns a copy of the room with id.
func (c *Coordinator) Room(id string) (Room, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rooms[id]
	if !ok {
		return Room{}, false
	}
	return snapshot(r), true
}

// FindRoomByCode is an exact-match lookup of the join code.
func (c *Coordinator) FindRoomByCode(code string) (Room, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.order {
		if r := c.rooms[id]; r.Code == code {
			return snapshot(r), true
		}
	}
	return Room{}, false
}

// AvailableRooms lists public, waiting, non-full rooms in creation order.
func (c *Coordinator) AvailableRooms() []Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []Room{}
	for _, id := range c.order {
		if r := c.rooms[id]; r.Available() {
			out = append(out, snapshot(r))
		}
	}
	return out
}

// RoomCount reports the number of live rooms.
func (c *Coordinator) RoomCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rooms)
}

// ----------------------------- internals -----------------------------------

func (c *Coordinator) insert(r *Room) {
	c.rooms[r.ID] = r
	c.order = append(c.order, r.ID)
}

func (c *Coordinator) removeLocked(id string) {
	delete(c.rooms, id)
	for i, rid := range c.order {
		if rid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	log.Info().Str("roomId", id).Msg("room closed")
}

// newCodeLocked returns a join code not used by any live room.
func (c *Coordinator) newCodeLocked() string {
	for {
		code := randomCode()
		taken := false
		for _, r := range c.rooms {
			if r.Code == code {
				taken = true
				break
			}
		}
		if !taken {
			return code
		}
	}
}

func (c *Coordinator) publish(pending []events.Event) {
	for _, e := range pending {
		c.bus.Publish(e)
	}
}

func randomCode() string {
	b := make([]byte, codeLength)
	n := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		v, err := rand.Int(rand.Reader, n)
		if err != nil {
			v = big.NewInt(int64(i))
		}
		b[i] = codeAlphabet[v.Int64()]
	}
	return string(b)
}

// snapshot deep-copies r and fills derived fields.
func snapshot(r *Room) Room {
	var out Room
	if err := copier.CopyWithOption(&out, r, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Str("roomId", r.ID).Msg("copy room")
	}
	// Times are copied by value.
	out.CreatedAt = r.CreatedAt
	out.StartedAt = nil
	if r.StartedAt != nil {
		t := *r.StartedAt
		out.StartedAt = &t
	}
	if out.Players == nil {
		out.Players = []Player{}
	}
	out.CurrentPlayers = len(out.Players)
	return out
}
