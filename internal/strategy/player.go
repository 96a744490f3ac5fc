package strategy

import (
	"math/rand/v2"

	"github.com/psylsph/hangman-netlify/internal/game"
)

// Player is a computer opponent bound to one difficulty tier.
type Player struct {
	Difficulty game.Difficulty
	rng        Rand
}

// NewPlayer returns a Player. A nil rng uses the math/rand/v2 global source.
func NewPlayer(d game.Difficulty, rng Rand) *Player {
	if rng == nil {
		rng = globalRand{}
	}
	return &Player{Difficulty: d, rng: rng}
}

// NewSeeded returns a Player with a reproducible PCG source.
func NewSeeded(d game.Difficulty, seed uint64) *Player {
	return NewPlayer(d, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Suggest proposes the next letter for pattern.
func (p *Player) Suggest(pattern string, guessed []string) (string, bool) {
	return Suggest(pattern, guessed, p.Difficulty, p.rng)
}

// SuggestFor reads the live pattern and guessed letters from g.
func (p *Player) SuggestFor(g *game.Game) (string, bool) {
	return p.Suggest(g.Pattern(), g.GuessedLetters())
}
