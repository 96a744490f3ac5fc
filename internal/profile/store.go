// internal/profile/store.go
//
// PlayerStore contract and the in-memory backend.

package profile

import (
	"context"
	"errors"
	"sync"

	"github.com/jinzhu/copier"
)

// ErrNotFound is returned by Store.Get for unknown players.
var ErrNotFound = errors.New("profile: not found")

// Store persists PlayerData records keyed by player id.
type Store interface {
	Get(ctx context.Context, id string) (PlayerData, error)
	Save(ctx context.Context, data PlayerData) error
}

// MemoryStore keeps records in a map. Records are deep-copied in and out.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]PlayerData
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]PlayerData)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (PlayerData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.data[id]
	if !ok {
		return PlayerData{}, ErrNotFound
	}
	var out PlayerData
	if err := copier.CopyWithOption(&out, &d, copier.Option{DeepCopy: true}); err != nil {
		return PlayerData{}, err
	}
	return out, nil
}

func (m *MemoryStore) Save(ctx context.Context, data PlayerData) error {
	var cp PlayerData
	if err := copier.CopyWithOption(&cp, &data, copier.Option{DeepCopy: true}); err != nil {
		return err
	}
	m.mu.Lock()
	m.data[data.ID] = cp
	m.mu.Unlock()
	return nil
}
