// internal/daily/daily.go
//
// Daily puzzle selection: every player gets the same word on a given UTC day.
// The index is HMAC-SHA256(salt, "YYYY-MM-DD") reduced modulo the word count,
// so the sequence cannot be predicted without the salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/psylsph/hangman-netlify/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index in [0, n) for the date.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes give an even spread for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Puzzle returns the day's word from the catalog, plus its index.
// An empty catalog yields words.Fallback at index 0.
func Puzzle(c *words.Catalog, date time.Time, salt string) (words.Pick, int) {
	all := c.All()
	if len(all) == 0 {
		return words.Fallback, 0
	}
	i := WordIndex(date, salt, len(all))
	return all[i], i
}
