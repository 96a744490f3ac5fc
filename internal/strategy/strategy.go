// internal/strategy/strategy.go
//
// Heuristic computer opponent that suggests the next letter for a Hangman round.
// Responsibilities:
//   - Pick one unguessed letter from a revealed pattern ("_" = blank) and the guessed set.
//   - Apply the policy of the selected difficulty tier, then a uniform random fallback.
//
// Tiers:
//   - easy:   random vowel (p=0.7) → random common consonant (p=0.8) → frequency rank.
//   - medium: bigram next to a revealed letter → frequency rank.
//   - hard:   pattern rules when confident (> 0.6) → length-adjusted frequency rank.
//
// Notes:
//   - Suggest is pure apart from the injected Rand; a seeded *rand.Rand makes it reproducible.
//   - A suggestion is advisory. It never mutates a Game.
package strategy

import (
	"math/rand/v2"
	"slices"
	"sort"
	"strings"

	"github.com/psylsph/hangman-netlify/internal/game"
)

// Rand is the randomness the easy tier and the fallback draw from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

const (
	vowelChance     = 0.7
	consonantChance = 0.8
	confidenceFloor = 0.6
)

var (
	vowels           = []string{"A", "E", "I", "O", "U"}
	commonConsonants = []string{"R", "S", "T", "L", "N", "C", "D", "G", "H", "M", "P", "B"}
	commonDoubles    = []string{"L", "E", "S", "O", "T", "R", "N", "D"}

	// English letter frequency, most common first.
	frequencyOrder = []string{
		"E", "T", "A", "O", "I", "N", "S", "H", "R", "D", "L", "U", "C",
		"M", "W", "F", "G", "Y", "P", "B", "V", "K", "J", "X", "Q", "Z",
	}

	// Common English bigrams, table order matters.
	bigrams = []string{
		"TH", "HE", "IN", "ER", "AN", "RE", "ED", "ND", "ON", "EN",
		"ES", "OF", "ST", "NT", "TO", "IT", "IE", "HI", "AS", "OU",
	}
)

// Suggest returns a letter not in guessed, or ("", false) once all 26 are used.
func Suggest(pattern string, guessed []string, d game.Difficulty, rng Rand) (string, bool) {
	if rng == nil {
		rng = globalRand{}
	}
	s := suggester{pattern: pattern, guessed: guessed, rng: rng}

	var letter string
	switch d {
	case game.Easy:
		letter = s.easy()
	case game.Hard:
		letter = s.hard()
	default:
		letter = s.medium()
	}
	if letter != "" {
		return letter, true
	}
	return s.random()
}

type suggester struct {
	pattern string
	guessed []string
	rng     Rand
}

func (s suggester) isGuessed(l string) bool { return slices.Contains(s.guessed, l) }

func (s suggester) unguessed(from []string) []string {
	out := make([]string, 0, len(from))
	for _, l := range from {
		if !s.isGuessed(l) {
			out = append(out, l)
		}
	}
	return out
}

// pick draws uniformly from letters; the caller guarantees a non-empty slice.
func (s suggester) pick(letters []string) string {
	return letters[s.rng.IntN(len(letters))]
}

func (s suggester) easy() string {
	if left := s.unguessed(vowels); len(left) > 0 && s.rng.Float64() < vowelChance {
		return s.pick(left)
	}
	if left := s.unguessed(commonConsonants); len(left) > 0 && s.rng.Float64() < consonantChance {
		return s.pick(left)
	}
	return s.byFrequency(nil)
}

func (s suggester) medium() string {
	if revealedCount(s.pattern) > 0 {
		if l := s.bigram(); l != "" {
			return l
		}
	}
	return s.byFrequency(nil)
}

// bigram scans for (revealed, blank) pairs first, then (blank, revealed).
func (s suggester) bigram() string {
	p := s.pattern
	for i := 0; i+1 < len(p); i++ {
		if p[i] != '_' && p[i+1] == '_' {
			for _, bg := range bigrams {
				if bg[0] == p[i] && !s.isGuessed(bg[1:]) {
					return bg[1:]
				}
			}
		}
	}
	for i := 0; i+1 < len(p); i++ {
		if p[i] == '_' && p[i+1] != '_' {
			for _, bg := range bigrams {
				if bg[1] == p[i+1] && !s.isGuessed(bg[:1]) {
					return bg[:1]
				}
			}
		}
	}
	return ""
}

func (s suggester) hard() string {
	a := Analyze(s.pattern)
	if a.Confidence > confidenceFloor {
		if l := s.patternGuess(a); l != "" {
			return l
		}
	}

	var boost map[string]int
	switch n := len(s.pattern); {
	case n <= 4:
		boost = map[string]int{"A": 10, "E": 8, "O": 6}
	case n >= 8:
		boost = map[string]int{"S": 8, "T": 6, "R": 5, "E": 5}
	}
	return s.byFrequency(boost)
}

func (s suggester) patternGuess(a Analysis) string {
	if a.CommonEnding {
		for _, l := range []string{"E", "S", "D", "Y"} {
			if strings.HasSuffix(a.Pattern, "_"+l) && !s.isGuessed(l) {
				return l
			}
		}
	}
	if a.CommonBeginning {
		for _, c := range []struct{ prefix, letter string }{
			{"A_", "A"}, {"_THE_", "H"}, {"_RE_", "R"}, {"_PRE_", "P"},
		} {
			if strings.HasPrefix(a.Pattern, c.prefix) && !s.isGuessed(c.letter) {
				return c.letter
			}
		}
	}
	if a.DoubleLetters {
		for i := 0; i+1 < len(a.Pattern); i++ {
			if a.Pattern[i] == '_' && a.Pattern[i+1] == '_' {
				if left := s.unguessed(commonDoubles); len(left) > 0 {
					return left[0]
				}
			}
		}
	}
	return ""
}

// byFrequency returns the highest weighted unguessed letter. Weights start at
// 26 for E down to 1 for Z; boost adds to them. Ties keep frequency order.
func (s suggester) byFrequency(boost map[string]int) string {
	left := s.unguessed(frequencyOrder)
	if len(left) == 0 {
		return ""
	}
	weight := func(l string) int {
		return len(frequencyOrder) - slices.Index(frequencyOrder, l) + boost[l]
	}
	sort.SliceStable(left, func(i, j int) bool { return weight(left[i]) > weight(left[j]) })
	return left[0]
}

func (s suggester) random() (string, bool) {
	left := s.unguessed(game.Alphabet())
	if len(left) == 0 {
		return "", false
	}
	return s.pick(left), true
}

// globalRand draws from the math/rand/v2 package source.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }
