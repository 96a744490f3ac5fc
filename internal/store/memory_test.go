package store

import (
	"context"
	"errors"
	"testing"

	"github.com/psylsph/hangman-netlify/internal/game"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	g := game.New(game.Easy, "animals", game.WithID("g1"))

	if err := s.Save(ctx, g); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Get(ctx, "g1")
	if err != nil || got != g {
		t.Fatalf("expected stored game, got %v %v", got, err)
	}
	if err := s.Delete(ctx, "g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "g1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	g.Start("CAT", "", "animals")
	if g.Phase() != game.PhaseIdle {
		t.Fatalf("deleted game must be closed")
	}
}
