// internal/profile/profile.go
//
// Cross-session player statistics.
//
// Responsibilities:
//   - Define the PlayerData record (JSON-serialisable) and its defaults.
//   - Fold finished rounds and lobby activity into the record (Apply*).
//
// Notes:
//   • Category and difficulty tallies are created on first use; the default
//     record pre-seeds the well-known ones so clients can render empty rows.
//   • Durations are stored in milliseconds.

package profile

import (
	"time"

	"github.com/psylsph/hangman-netlify/internal/game"
)

// Tally counts rounds for one category, difficulty or day.
type Tally struct {
	Played      int   `json:"played"`
	Won         int   `json:"won"`
	TotalTimeMs int64 `json:"totalTimeMs"`
	TotalScore  int   `json:"totalScore"`
}

// MultiplayerStats counts lobby activity.
type MultiplayerStats struct {
	GamesPlayed  int `json:"gamesPlayed"`
	GamesWon     int `json:"gamesWon"`
	RoomsCreated int `json:"roomsCreated"`
	RoomsJoined  int `json:"roomsJoined"`
}

// PlayerData is the persisted record for one player.
type PlayerData struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`

	TotalGames    int `json:"totalGames"`
	GamesWon      int `json:"gamesWon"`
	GamesLost     int `json:"gamesLost"`
	CurrentStreak int `json:"currentStreak"`
	BestStreak    int `json:"bestStreak"`
	TotalScore    int `json:"totalScore"`
	HighScore     int `json:"highScore"`
	PerfectGames  int `json:"perfectGames"`
	HintsUsed     int `json:"hintsUsed"`

	TotalPlayTimeMs int64 `json:"totalPlayTimeMs"`
	BestTimeMs      int64 `json:"bestTimeMs"`
	WorstTimeMs     int64 `json:"worstTimeMs"`

	CategoryStats    map[string]Tally `json:"categoryStats"`
	DifficultyStats  map[string]Tally `json:"difficultyStats"`
	DailyStats       map[string]Tally `json:"dailyStats"`
	MultiplayerStats MultiplayerStats `json:"multiplayerStats"`
}

var defaultCategories = []string{"animals", "countries", "movies", "sports", "food", "technology", "science"}

// Default returns a fresh record for id.
func Default(id, username string, now time.Time) PlayerData {
	d := PlayerData{
		ID:              id,
		Username:        username,
		CreatedAt:       now.UTC(),
		LastActive:      now.UTC(),
		CategoryStats:   make(map[string]Tally, len(defaultCategories)),
		DifficultyStats: make(map[string]Tally, 3),
		DailyStats:      map[string]Tally{},
	}
	for _, c := range defaultCategories {
		d.CategoryStats[c] = Tally{}
	}
	for _, diff := range game.Difficulties() {
		d.DifficultyStats[string(diff)] = Tally{}
	}
	return d
}

// WinRate is games won over games played, 0 when nothing was played.
func (p PlayerData) WinRate() float64 {
	if p.TotalGames == 0 {
		return 0
	}
	return float64(p.GamesWon) / float64(p.TotalGames)
}

// AverageScore is total score over games played.
func (p PlayerData) AverageScore() float64 {
	if p.TotalGames == 0 {
		return 0
	}
	return float64(p.TotalScore) / float64(p.TotalGames)
}

// ApplyResult folds one finished round into p.
func (p *PlayerData) ApplyResult(r game.Result, multiplayer bool, now time.Time) {
	p.ensureMaps()
	ms := r.TimeTaken.Milliseconds()

	p.TotalGames++
	if r.Won {
		p.GamesWon++
		p.CurrentStreak++
		p.BestStreak = max(p.BestStreak, p.CurrentStreak)
		if r.WrongGuesses == 0 {
			p.PerfectGames++
		}
	} else {
		p.GamesLost++
		p.CurrentStreak = 0
	}
	p.TotalScore += r.Score
	p.HighScore = max(p.HighScore, r.Score)
	if r.HintUsed {
		p.HintsUsed++
	}

	if ms > 0 {
		p.TotalPlayTimeMs += ms
		if p.BestTimeMs == 0 || ms < p.BestTimeMs {
			p.BestTimeMs = ms
		}
		p.WorstTimeMs = max(p.WorstTimeMs, ms)
	}

	if r.Category != "" {
		p.CategoryStats[r.Category] = bump(p.CategoryStats[r.Category], r, ms)
	}
	if r.Difficulty != "" {
		p.DifficultyStats[string(r.Difficulty)] = bump(p.DifficultyStats[string(r.Difficulty)], r, ms)
	}
	day := now.UTC().Format("2006-01-02")
	p.DailyStats[day] = bump(p.DailyStats[day], r, ms)

	if multiplayer {
		p.MultiplayerStats.GamesPlayed++
		if r.Won {
			p.MultiplayerStats.GamesWon++
		}
	}
	p.LastActive = now.UTC()
}

// ApplyRoom counts a created or joined room.
func (p *PlayerData) ApplyRoom(created bool, now time.Time) {
	if created {
		p.MultiplayerStats.RoomsCreated++
	} else {
		p.MultiplayerStats.RoomsJoined++
	}
	p.LastActive = now.UTC()
}

func (p *PlayerData) ensureMaps() {
	if p.CategoryStats == nil {
		p.CategoryStats = map[string]Tally{}
	}
	if p.DifficultyStats == nil {
		p.DifficultyStats = map[string]Tally{}
	}
	if p.DailyStats == nil {
		p.DailyStats = map[string]Tally{}
	}
}

func bump(t Tally, r game.Result, ms int64) Tally {
	t.Played++
	if r.Won {
		t.Won++
	}
	t.TotalTimeMs += ms
	t.TotalScore += r.Score
	return t
}
