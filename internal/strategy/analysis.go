// internal/strategy/analysis.go
//
// Pattern confidence used by the hard tier.

package strategy

import (
	"regexp"
	"strings"
)

var (
	endingRe    = regexp.MustCompile(`_E$|_S$|_D$|_Y$|_ING$`)
	beginningRe = regexp.MustCompile(`^A_|^_THE_|^_RE_|^_PRE_`)
)

// Analysis describes how much of a pattern is known and which shapes it matches.
type Analysis struct {
	Pattern         string  `json:"pattern"`
	Revealed        int     `json:"revealed"`
	Total           int     `json:"total"`
	Fraction        float64 `json:"fraction"`
	DoubleLetters   bool    `json:"doubleLetters"`
	CommonEnding    bool    `json:"commonEnding"`
	CommonBeginning bool    `json:"commonBeginning"`
	Confidence      float64 `json:"confidence"`
}

// Analyze scores pattern. Any two equal adjacent characters count as a
// double, blanks included.
func Analyze(pattern string) Analysis {
	pattern = strings.ToUpper(pattern)
	a := Analysis{Pattern: pattern, Total: len(pattern)}
	a.Revealed = revealedCount(pattern)
	if a.Total > 0 {
		a.Fraction = float64(a.Revealed) / float64(a.Total)
	}
	for i := 0; i+1 < len(pattern); i++ {
		if pattern[i] == pattern[i+1] {
			a.DoubleLetters = true
			break
		}
	}
	a.CommonEnding = endingRe.MatchString(pattern)
	a.CommonBeginning = beginningRe.MatchString(pattern)

	a.Confidence = a.Fraction
	if a.DoubleLetters {
		a.Confidence += 0.1
	}
	if a.CommonEnding {
		a.Confidence += 0.15
	}
	if a.CommonBeginning {
		a.Confidence += 0.15
	}
	return a
}

func revealedCount(pattern string) int {
	n := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] >= 'A' && pattern[i] <= 'Z' {
			n++
		}
	}
	return n
}
