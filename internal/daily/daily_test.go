package daily

import (
	"context"
	"testing"
	"time"

	"github.com/psylsph/hangman-netlify/internal/db"
	"github.com/psylsph/hangman-netlify/internal/words"
)

func TestWordIndexIsStablePerDay(t *testing.T) {
	morning := time.Date(2024, 5, 4, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 4, 23, 59, 0, 0, time.UTC)
	if WordIndex(morning, "salt", 97) != WordIndex(evening, "salt", 97) {
		t.Fatalf("same UTC day must map to the same index")
	}
	if WordIndex(morning, "salt", 0) != 0 {
		t.Fatalf("empty list must give index 0")
	}
	seen := map[int]bool{}
	for d := 0; d < 30; d++ {
		i := WordIndex(morning.AddDate(0, 0, d), "salt", 97)
		if i < 0 || i >= 97 {
			t.Fatalf("index out of range: %d", i)
		}
		seen[i] = true
	}
	if len(seen) < 10 {
		t.Fatalf("expected indexes to vary across days, got %d distinct", len(seen))
	}
}

func TestPuzzle(t *testing.T) {
	c, err := words.Load("")
	if err != nil {
		t.Fatal(err)
	}
	date := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)
	p, i := Puzzle(c, date, "salt")
	if c.All()[i] != p {
		t.Fatalf("puzzle %+v does not match index %d", p, i)
	}
	if got, _ := Puzzle(words.NewCatalog(nil), date, "salt"); got != words.Fallback {
		t.Fatalf("expected fallback for empty catalog, got %+v", got)
	}
}

func TestStoreLeaderboard(t *testing.T) {
	conn, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	s := NewStore(conn)
	ctx := context.Background()

	rows := []Result{
		{UserID: "slow", Date: "2024-05-04", Won: true, Score: 200, ElapsedMs: 25000},
		{UserID: "fast", Date: "2024-05-04", Won: true, Score: 200, ElapsedMs: 10000},
		{UserID: "best", Date: "2024-05-04", Won: true, Score: 250, ElapsedMs: 40000},
		{UserID: "lost", Date: "2024-05-04", Won: false, Score: 0, ElapsedMs: 5000},
		{UserID: "other", Date: "2024-05-05", Won: true, Score: 300, ElapsedMs: 1000},
	}
	for _, r := range rows {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatalf("insert %s: %v", r.UserID, err)
		}
	}
	// duplicate is ignored
	if err := s.InsertResult(ctx, Result{UserID: "fast", Date: "2024-05-04", Won: true, Score: 999}); err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}

	played, err := s.AlreadyPlayed(ctx, "lost", "2024-05-04")
	if err != nil || !played {
		t.Fatalf("expected lost to have played: %v %v", played, err)
	}

	lb, err := s.Leaderboard(ctx, "2024-05-04", 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	want := []string{"best", "fast", "slow"}
	if len(lb) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), lb)
	}
	for i, id := range want {
		if lb[i].UserID != id {
			t.Fatalf("row %d: expected %s, got %+v", i, id, lb)
		}
	}
}
