// internal/profile/sqlite.go
//
// SQLite backend: one JSON document per player in player_profiles.

package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type SQLStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Get(ctx context.Context, id string) (PlayerData, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM player_profiles WHERE id=?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return PlayerData{}, ErrNotFound
	}
	if err != nil {
		return PlayerData{}, fmt.Errorf("profile: query: %w", err)
	}
	var d PlayerData
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return PlayerData{}, fmt.Errorf("profile: decode %s: %w", id, err)
	}
	return d, nil
}

func (s *SQLStore) Save(ctx context.Context, data PlayerData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("profile: encode: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO player_profiles(id, data, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET data=excluded.data, updated_at=CURRENT_TIMESTAMP`,
		data.ID, string(raw),
	)
	if err != nil {
		return fmt.Errorf("profile: save %s: %w", data.ID, err)
	}
	return nil
}
