// internal/words/words.go
//
// Word catalog for Hangman rounds.
//
// Responsibilities:
//   - Load categories of {word, hint, difficulty} entries from a JSON file or the
//     embedded default, falling back to a small builtin list when loading fails.
//   - Pick random words filtered by category and difficulty (RandomWord).
//   - Admin helpers: search, add/remove custom words, stats, export/import.
//
// Catalog document:
//   {"categories":[{"id":"animals","name":"Animals","words":[{"word":"CAT","hint":"...","difficulty":"easy"}]}]}
//
// Constraints:
//   • Words are 2–20 letters A–Z, stored uppercase.
//   • Hints are 5–100 characters after trimming.
//   • The package-level default is initialised once (sync.Once).

package words

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/psylsph/hangman-netlify/assets"
)

// Any matches every category or difficulty in RandomWord.
const Any = "random"

var (
	ErrInvalidWord     = errors.New("words: invalid word")
	ErrInvalidHint     = errors.New("words: invalid hint")
	ErrDuplicate       = errors.New("words: word already exists")
	ErrNotFound        = errors.New("words: word not found")
	ErrInvalidDocument = errors.New("words: catalog has no categories")
)

// Entry is one word of a category.
type Entry struct {
	Word       string `json:"word"`
	Hint       string `json:"hint"`
	Difficulty string `json:"difficulty"`
}

// Category groups entries under an id.
type Category struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Words []Entry `json:"words"`
}

// Pick is a word chosen for a round, tagged with its category.
type Pick struct {
	Word       string `json:"word"`
	Hint       string `json:"hint"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// Source supplies words for new rounds.
type Source interface {
	RandomWord(category, difficulty string) Pick
}

// Fallback is returned when the catalog has no words at all.
var Fallback = Pick{Word: "HANGMAN", Hint: "The name of this game", Category: Any, Difficulty: "medium"}

type document struct {
	Categories []Category `json:"categories"`
	ExportedAt string     `json:"exportedAt,omitempty"`
}

// Catalog is a concurrency-safe set of categories.
type Catalog struct {
	mu         sync.RWMutex
	categories []Category
}

// NewCatalog builds a Catalog from categories (copied).
func NewCatalog(categories []Category) *Catalog {
	c := &Catalog{}
	c.categories = cloneCategories(categories)
	return c
}

// Parse decodes a catalog document. Entries whose word fails ValidateWord
// are skipped with a warning.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("words: decode catalog: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, ErrInvalidDocument
	}
	for ci := range doc.Categories {
		cat := &doc.Categories[ci]
		kept := cat.Words[:0]
		for _, e := range cat.Words {
			w, err := ValidateWord(e.Word)
			if err != nil {
				log.Warn().Err(err).Str("category", cat.ID).Str("word", e.Word).Msg("skipping catalog entry")
				continue
			}
			e.Word = w
			kept = append(kept, e)
		}
		cat.Words = kept
	}
	return &Catalog{categories: doc.Categories}, nil
}

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = assets.CategoriesJSON()
	}
	if err != nil {
		return nil, fmt.Errorf("words: read catalog: %w", err)
	}
	return Parse(data)
}

// --- package default --------------------------------------------------------

var (
	initOnce sync.Once
	current  *Catalog
)

// Init loads the default catalog exactly once. Load failures are logged and
// masked by the builtin list.
func Init(path string) *Catalog {
	initOnce.Do(func() {
		c, err := Load(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("word catalog unavailable, using builtin words")
			c = NewCatalog(builtin)
		}
		current = c
		log.Info().Int("categories", len(c.Categories())).Int("words", len(c.All())).Msg("word catalog loaded")
	})
	return current
}

// Default returns the catalog set up by Init, initialising from the embedded file if needed.
func Default() *Catalog { return Init("") }

// --- queries ----------------------------------------------------------------

// RandomWord picks a word. category/difficulty "random" (or "") match anything.
// An empty filter result widens to every word; an empty catalog yields Fallback.
func (c *Catalog) RandomWord(category, difficulty string) Pick {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var pool []Pick
	for _, cat := range c.categories {
		if !matches(category, cat.ID) {
			continue
		}
		for _, e := range cat.Words {
			if matches(difficulty, e.Difficulty) {
				pool = append(pool, pick(cat.ID, e))
			}
		}
	}
	if len(pool) == 0 {
		log.Warn().Str("category", category).Str("difficulty", difficulty).Msg("no words for filter, using all words")
		pool = c.allLocked()
	}
	if len(pool) == 0 {
		return Fallback
	}
	return pool[randomIndex(len(pool))]
}

// All returns every word in catalog order.
func (c *Catalog) All() []Pick {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.allLocked()
}

// CategoryInfo is a category summary.
type CategoryInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	WordCount int    `json:"wordCount"`
}

func (c *Catalog) Categories() []CategoryInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]CategoryInfo, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, CategoryInfo{ID: cat.ID, Name: cat.Name, WordCount: len(cat.Words)})
	}
	return out
}

func (c *Catalog) WordsByCategory(id string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cat := range c.categories {
		if cat.ID == id {
			return slices.Clone(cat.Words)
		}
	}
	return nil
}

func (c *Catalog) WordsByDifficulty(difficulty string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Entry
	for _, cat := range c.categories {
		for _, e := range cat.Words {
			if e.Difficulty == difficulty {
				out = append(out, e)
			}
		}
	}
	return out
}

// Search filters by case-insensitive substring of word or hint.
// category/difficulty "all" (or "") match anything.
func (c *Catalog) Search(query, category, difficulty string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q := strings.ToLower(query)
	var out []Entry
	for _, cat := range c.categories {
		if category != "" && category != "all" && cat.ID != category {
			continue
		}
		for _, e := range cat.Words {
			if difficulty != "" && difficulty != "all" && e.Difficulty != difficulty {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(e.Word), q) && !strings.Contains(strings.ToLower(e.Hint), q) {
				continue
			}
			out = append(out, e)
		}
	}
	return out
}

// Stats summarises the catalog by difficulty and category.
type Stats struct {
	TotalWords             int                      `json:"totalWords"`
	Categories             int                      `json:"categories"`
	DifficultyDistribution map[string]int           `json:"difficultyDistribution"`
	CategoryStats          map[string]CategoryStats `json:"categoryStats"`
}

type CategoryStats struct {
	Name                   string         `json:"name"`
	WordCount              int            `json:"wordCount"`
	DifficultyDistribution map[string]int `json:"difficultyDistribution"`
}

func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := Stats{
		Categories:             len(c.categories),
		DifficultyDistribution: map[string]int{"easy": 0, "medium": 0, "hard": 0},
		CategoryStats:          make(map[string]CategoryStats, len(c.categories)),
	}
	for _, cat := range c.categories {
		cs := CategoryStats{
			Name:                   cat.Name,
			WordCount:              len(cat.Words),
			DifficultyDistribution: map[string]int{"easy": 0, "medium": 0, "hard": 0},
		}
		for _, e := range cat.Words {
			st.DifficultyDistribution[e.Difficulty]++
			cs.DifficultyDistribution[e.Difficulty]++
		}
		st.TotalWords += len(cat.Words)
		st.CategoryStats[cat.ID] = cs
	}
	return st
}

// --- mutation ---------------------------------------------------------------

// AddCustomWord validates and appends a word, creating the category if needed.
func (c *Catalog) AddCustomWord(word, hint, category, difficulty string) error {
	w, err := ValidateWord(word)
	if err != nil {
		return err
	}
	h, err := ValidateHint(hint)
	if err != nil {
		return err
	}
	if difficulty == "" {
		difficulty = "medium"
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	idx := slices.IndexFunc(c.categories, func(cat Category) bool { return cat.ID == category })
	if idx < 0 {
		c.categories = append(c.categories, Category{ID: category, Name: capitalize(category)})
		idx = len(c.categories) - 1
	}
	cat := &c.categories[idx]
	if slices.ContainsFunc(cat.Words, func(e Entry) bool { return e.Word == w }) {
		return ErrDuplicate
	}
	cat.Words = append(cat.Words, Entry{Word: w, Hint: h, Difficulty: difficulty})
	return nil
}

// RemoveWord deletes word from category.
func (c *Catalog) RemoveWord(word, category string) error {
	w := strings.ToUpper(strings.TrimSpace(word))
	c.mu.Lock()
	defer c.mu.Unlock()
	for ci := range c.categories {
		if c.categories[ci].ID != category {
			continue
		}
		words := c.categories[ci].Words
		if i := slices.IndexFunc(words, func(e Entry) bool { return e.Word == w }); i >= 0 {
			c.categories[ci].Words = slices.Delete(words, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

// Export serialises the catalog with an export timestamp.
func (c *Catalog) Export() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return json.Marshal(document{Categories: c.categories, ExportedAt: time.Now().UTC().Format(time.RFC3339)})
}

// Import replaces the catalog with the categories in data.
func (c *Catalog) Import(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.categories = parsed.categories
	c.mu.Unlock()
	return nil
}

// --- validation -------------------------------------------------------------

// ValidateWord trims and uppercases word, requiring 2–20 letters A–Z.
func ValidateWord(word string) (string, error) {
	w := strings.ToUpper(strings.TrimSpace(word))
	switch {
	case w == "":
		return "", fmt.Errorf("%w: must be a non-empty string", ErrInvalidWord)
	case len(w) < 2:
		return "", fmt.Errorf("%w: must be at least 2 characters long", ErrInvalidWord)
	case len(w) > 20:
		return "", fmt.Errorf("%w: must be no more than 20 characters long", ErrInvalidWord)
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return "", fmt.Errorf("%w: must contain only letters", ErrInvalidWord)
		}
	}
	return w, nil
}

// ValidateHint trims hint, requiring 5–100 characters.
func ValidateHint(hint string) (string, error) {
	h := strings.TrimSpace(hint)
	switch n := len([]rune(h)); {
	case n == 0:
		return "", fmt.Errorf("%w: must be a non-empty string", ErrInvalidHint)
	case n < 5:
		return "", fmt.Errorf("%w: must be at least 5 characters long", ErrInvalidHint)
	case n > 100:
		return "", fmt.Errorf("%w: must be no more than 100 characters long", ErrInvalidHint)
	}
	return h, nil
}

// --- helpers ----------------------------------------------------------------

func (c *Catalog) allLocked() []Pick {
	var out []Pick
	for _, cat := range c.categories {
		for _, e := range cat.Words {
			out = append(out, pick(cat.ID, e))
		}
	}
	return out
}

func pick(category string, e Entry) Pick {
	return Pick{Word: e.Word, Hint: e.Hint, Category: category, Difficulty: e.Difficulty}
}

func matches(filter, value string) bool {
	return filter == "" || filter == Any || filter == value
}

// randomIndex returns a cryptographically random index in [0, n).
func randomIndex(n int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func cloneCategories(in []Category) []Category {
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = Category{ID: c.ID, Name: c.Name, Words: slices.Clone(c.Words)}
	}
	return out
}
