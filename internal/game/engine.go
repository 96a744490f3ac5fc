// internal/game/engine.go
//
// Core game engine for a single Hangman round.
// Responsibilities:
//   - Start rounds (reset state, uppercase word, stamp start time).
//   - Validate and apply letter guesses; count wrong guesses.
//   - Detect the terminal condition (word solved or out of guesses) and score the round.
//   - Publish gameStarted / guessMade / hintUsed / gameEnded notifications.
//
// State transitions:
//   - Idle → InProgress on Start.
//   - InProgress → Over automatically on the guess that solves the word or
//     reaches the wrong-guess limit. Over is left only by a fresh Start.
//
// Notes:
//   - Mutations are serialised by a mutex; events are published after it is released
//     so subscribers may call back into the Game.
package game

import (
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/psylsph/hangman-netlify/internal/events"
)

const (
	baseScore    = 100
	wrongPenalty = 10
	hintPenalty  = 25
	alphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Game is one Hangman round. Create with New, then call Start.
type Game struct {
	mu sync.Mutex

	id         string
	difficulty Difficulty
	maxWrong   int

	word     string
	hint     string
	category string
	guessed  []string
	wrong    int
	score    int
	hintUsed bool
	started  time.Time
	ended    time.Time
	phase    Phase
	closed   bool

	bus *events.Bus
	now func() time.Time
}

// Option configures a Game.
type Option func(*Game)

// WithBus publishes lifecycle events to b.
func WithBus(b *events.Bus) Option { return func(g *Game) { g.bus = b } }

// WithClock overrides time.Now (tests, replays).
func WithClock(now func() time.Time) Option { return func(g *Game) { g.now = now } }

// WithID sets the round identifier instead of a generated one.
func WithID(id string) Option { return func(g *Game) { g.id = id } }

// New constructs an idle Game for the given difficulty and category.
func New(difficulty Difficulty, category string, opts ...Option) *Game {
	if !difficulty.Valid() {
		difficulty = Medium
	}
	g := &Game{
		id:         uuid.NewString(),
		difficulty: difficulty,
		maxWrong:   difficulty.MaxWrongGuesses(),
		category:   category,
		guessed:    []string{},
		phase:      PhaseIdle,
		now:        time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Start begins a new round, discarding any previous round data.
// It is a no-op once the Game has been closed.
func (g *Game) Start(word, hint, category string) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		log.Debug().Str("gameId", g.id).Msg("start after close ignored")
		return
	}
	g.word = strings.ToUpper(strings.TrimSpace(word))
	g.hint = hint
	g.category = category
	g.guessed = []string{}
	g.wrong = 0
	g.score = 0
	g.hintUsed = false
	g.started = g.now()
	g.ended = time.Time{}
	g.phase = PhaseInProgress

	e := events.Event{Name: events.GameStarted, Payload: Started{
		Word:            g.word,
		Hint:            g.hint,
		Category:        g.category,
		Difficulty:      g.difficulty,
		MaxWrongGuesses: g.maxWrong,
	}}
	g.mu.Unlock()

	g.bus.Publish(e)
}

// Guess applies a single-letter guess. Rejected guesses leave the round untouched.
func (g *Game) Guess(letter string) GuessResult {
	g.mu.Lock()

	switch g.phase {
	case PhaseOver:
		g.mu.Unlock()
		return GuessResult{Valid: false, Message: MsgGameOver}
	case PhaseIdle:
		g.mu.Unlock()
		return GuessResult{Valid: false, Message: MsgNotStarted}
	}

	letter = strings.ToUpper(letter)
	if slices.Contains(g.guessed, letter) {
		g.mu.Unlock()
		return GuessResult{Valid: false, Message: MsgAlreadyGuessed}
	}
	if !isLetter(letter) {
		g.mu.Unlock()
		return GuessResult{Valid: false, Message: MsgInvalidLetter}
	}

	g.guessed = append(g.guessed, letter)
	correct := strings.Contains(g.word, letter)
	if !correct {
		g.wrong++
	}

	data := &GuessData{
		Letter:          letter,
		Correct:         correct,
		WrongGuesses:    g.wrong,
		MaxWrongGuesses: g.maxWrong,
		GuessedLetters:  slices.Clone(g.guessed),
	}
	pending := []events.Event{{Name: events.GuessMade, Payload: *data}}

	ended := g.overLocked()
	if ended {
		pending = append(pending, events.Event{Name: events.GameEnded, Payload: g.endLocked()})
	}
	g.mu.Unlock()

	for _, e := range pending {
		g.bus.Publish(e)
	}
	return GuessResult{Valid: true, Correct: correct, Guess: data, Ended: ended}
}

// UseHint marks the hint as used. It returns false if there is no hint,
// the hint was already used, or the round is not in progress.
func (g *Game) UseHint() bool {
	g.mu.Lock()
	if g.hint == "" || g.hintUsed || g.phase != PhaseInProgress {
		g.mu.Unlock()
		return false
	}
	g.hintUsed = true
	hint := g.hint
	g.mu.Unlock()

	g.bus.Publish(events.Event{Name: events.HintUsed, Payload: map[string]string{"hint": hint}})
	return true
}

// ComputeScore returns the final score, or 0 while the round is live.
func (g *Game) ComputeScore() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scoreLocked()
}

// TimeBonus returns the speed bonus for a finished round.
func (g *Game) TimeBonus() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timeBonusLocked()
}

// WordProgress returns each word position with its reveal flag.
func (g *Game) WordProgress() []LetterTile {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.progressLocked()
}

// Pattern renders the word with "_" for unrevealed positions.
func (g *Game) Pattern() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var b strings.Builder
	for _, t := range g.progressLocked() {
		if t.Revealed {
			b.WriteString(t.Letter)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// RemainingLetters returns the unguessed letters in alphabetical order.
func (g *Game) RemainingLetters() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remainingLocked()
}

// HasWon reports a solved word. It is false until the round is over.
func (g *Game) HasWon() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase == PhaseOver && g.solvedLocked()
}

// Result returns the final tally; ok is false until the round is over.
func (g *Game) Result() (r Result, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseOver {
		return Result{}, false
	}
	return g.resultLocked(), true
}

// IsOver reports whether the round has reached its terminal state.
func (g *Game) IsOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase == PhaseOver
}

// Close tears the Game down; later Start calls are ignored.
func (g *Game) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

func (g *Game) ID() string             { return g.id }
func (g *Game) Difficulty() Difficulty { return g.difficulty }
func (g *Game) MaxWrongGuesses() int   { return g.maxWrong }

func (g *Game) Word() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.word
}

func (g *Game) Hint() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hint
}

func (g *Game) Category() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.category
}

func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

func (g *Game) GuessedLetters() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.guessed)
}

func (g *Game) WrongGuesses() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.wrong
}

func (g *Game) HintUsed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hintUsed
}

// Snapshot returns a consistent copy of the round state.
func (g *Game) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := State{
		ID:               g.id,
		Word:             g.word,
		Hint:             g.hint,
		Category:         g.category,
		Difficulty:       g.difficulty,
		Phase:            g.phase,
		GuessedLetters:   slices.Clone(g.guessed),
		WrongGuesses:     g.wrong,
		MaxWrongGuesses:  g.maxWrong,
		Score:            g.score,
		HintUsed:         g.hintUsed,
		IsGameOver:       g.phase == PhaseOver,
		HasWon:           g.phase == PhaseOver && g.solvedLocked(),
		WordProgress:     g.progressLocked(),
		RemainingLetters: g.remainingLocked(),
		StartedAt:        g.started,
	}
	if !g.ended.IsZero() {
		ended := g.ended
		s.EndedAt = &ended
	}
	return s
}

// ----------------------------- internals -----------------------------------

// overLocked is the terminal condition: every distinct letter guessed, or
// the wrong-guess limit reached.
func (g *Game) overLocked() bool {
	return g.solvedLocked() || g.wrong >= g.maxWrong
}

func (g *Game) solvedLocked() bool {
	for _, r := range g.word {
		if !slices.Contains(g.guessed, string(r)) {
			return false
		}
	}
	return true
}

// endLocked moves the round to Over and computes its Result.
func (g *Game) endLocked() Result {
	g.ended = g.now()
	g.phase = PhaseOver
	g.score = g.scoreLocked()

	log.Debug().Str("gameId", g.id).Bool("won", g.solvedLocked()).Int("score", g.score).Msg("round over")
	return g.resultLocked()
}

func (g *Game) resultLocked() Result {
	return Result{
		Won:                  g.solvedLocked(),
		Word:                 g.word,
		Category:             g.category,
		Difficulty:           g.difficulty,
		Score:                g.score,
		BaseScore:            baseScore,
		TimeBonus:            g.timeBonusLocked(),
		DifficultyMultiplier: g.difficulty.Multiplier(),
		WrongGuesses:         g.wrong,
		HintUsed:             g.hintUsed,
		TimeTaken:            g.ended.Sub(g.started),
	}
}

func (g *Game) scoreLocked() int {
	if g.phase != PhaseOver {
		return 0
	}
	score := float64(baseScore) * g.difficulty.Multiplier()
	score += float64(g.timeBonusLocked())
	score -= float64(g.wrong * wrongPenalty)
	if g.hintUsed {
		score -= hintPenalty
	}
	return int(math.Max(0, math.Round(score)))
}

// timeBonusLocked is a step function of the elapsed seconds.
func (g *Game) timeBonusLocked() int {
	if g.started.IsZero() || g.ended.IsZero() {
		return 0
	}
	secs := g.ended.Sub(g.started).Seconds()
	switch {
	case secs < 30:
		return 50
	case secs < 60:
		return 37
	case secs < 120:
		return 25
	case secs < 180:
		return 12
	default:
		return 0
	}
}

func (g *Game) progressLocked() []LetterTile {
	out := make([]LetterTile, 0, len(g.word))
	for _, r := range g.word {
		l := string(r)
		out = append(out, LetterTile{Letter: l, Revealed: slices.Contains(g.guessed, l)})
	}
	return out
}

func (g *Game) remainingLocked() []string {
	out := make([]string, 0, len(alphabet))
	for _, r := range alphabet {
		if l := string(r); !slices.Contains(g.guessed, l) {
			out = append(out, l)
		}
	}
	return out
}

// isLetter reports a single uppercase A–Z letter.
func isLetter(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}

// Alphabet returns the 26 uppercase letters in order.
func Alphabet() []string {
	out := make([]string, 0, len(alphabet))
	for _, r := range alphabet {
		out = append(out, string(r))
	}
	return out
}
