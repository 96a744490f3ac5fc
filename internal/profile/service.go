// internal/profile/service.go
//
// Service is the boundary the game and lobby code talk to. Store failures are
// logged and masked with a default record so gameplay never depends on storage.
// Updates to one player run one at a time; different players do not block
// each other.

package profile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/psylsph/hangman-netlify/internal/game"
)

type Service struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*playerLock
}

type playerLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now, locks: make(map[string]*playerLock)}
}

// lock serialises load-modify-save cycles for id.
func (s *Service) lock(id string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &playerLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// Load returns the record for id, or a fresh default one.
func (s *Service) Load(ctx context.Context, id, username string) PlayerData {
	d, err := s.store.Get(ctx, id)
	switch {
	case err == nil:
		return d
	case errors.Is(err, ErrNotFound):
	default:
		log.Warn().Err(err).Str("playerId", id).Msg("load player profile failed, using defaults")
	}
	return Default(id, username, s.now())
}

// RecordResult applies a finished round and saves the record.
func (s *Service) RecordResult(ctx context.Context, id, username string, r game.Result, multiplayer bool) (PlayerData, error) {
	defer s.lock(id)()
	d := s.Load(ctx, id, username)
	if username != "" {
		d.Username = username
	}
	d.ApplyResult(r, multiplayer, s.now())
	return d, s.save(ctx, d)
}

// RecordRoom counts a created (or joined) lobby room.
func (s *Service) RecordRoom(ctx context.Context, id, username string, created bool) (PlayerData, error) {
	defer s.lock(id)()
	d := s.Load(ctx, id, username)
	d.ApplyRoom(created, s.now())
	return d, s.save(ctx, d)
}

func (s *Service) save(ctx context.Context, d PlayerData) error {
	if err := s.store.Save(ctx, d); err != nil {
		log.Warn().Err(err).Str("playerId", d.ID).Msg("save player profile failed")
		return err
	}
	return nil
}
