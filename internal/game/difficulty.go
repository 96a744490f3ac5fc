// internal/game/difficulty.go
//
// Shared difficulty tiers. The engine, the lobby and the HTTP layer all read
// max wrong guesses and score multipliers from this one table.

package game

import "strings"

// Difficulty is a round difficulty tier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Tier holds the per-difficulty rule parameters.
type Tier struct {
	MaxWrongGuesses int
	Multiplier      float64
}

var tiers = map[Difficulty]Tier{
	Easy:   {MaxWrongGuesses: 8, Multiplier: 1},
	Medium: {MaxWrongGuesses: 6, Multiplier: 1.5},
	Hard:   {MaxWrongGuesses: 4, Multiplier: 2},
}

// Difficulties lists the tiers in ascending order.
func Difficulties() []Difficulty { return []Difficulty{Easy, Medium, Hard} }

// ParseDifficulty normalises s. Unknown values resolve to Medium with ok=false.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tiers[d]; ok {
		return d, true
	}
	return Medium, false
}

// Tier returns the parameters for d, falling back to Medium.
func (d Difficulty) Tier() Tier {
	if t, ok := tiers[d]; ok {
		return t
	}
	return tiers[Medium]
}

// MaxWrongGuesses is the number of wrong guesses that ends a round.
func (d Difficulty) MaxWrongGuesses() int { return d.Tier().MaxWrongGuesses }

// Multiplier scales the base score.
func (d Difficulty) Multiplier() float64 { return d.Tier().Multiplier }

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	_, ok := tiers[d]
	return ok
}
