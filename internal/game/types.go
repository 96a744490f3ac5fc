// internal/game/types.go
//
// Core type definitions for the Hangman round engine.
// Defines:
//   - Phase: Idle → InProgress → Over lifecycle of a round.
//   - GuessResult/GuessData: outcome of a single letter guess.
//   - Result: final tally published when a round ends.
//   - LetterTile/State: derived read-only views for callers.

package game

import "time"

// Phase is the lifecycle state of a round.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseInProgress Phase = "in_progress"
	PhaseOver       Phase = "over"
)

// Rejection messages returned in an invalid GuessResult.
const (
	MsgGameOver       = "Game is over"
	MsgNotStarted     = "Game has not started"
	MsgAlreadyGuessed = "Letter already guessed"
	MsgInvalidLetter  = "Invalid letter"
)

// GuessData is the payload of a guessMade notification.
type GuessData struct {
	Letter          string   `json:"letter"`
	Correct         bool     `json:"correct"`
	WrongGuesses    int      `json:"wrongGuesses"`
	MaxWrongGuesses int      `json:"maxWrongGuesses"`
	GuessedLetters  []string `json:"guessedLetters"`
}

// GuessResult is returned by Game.Guess. Invalid input is a value, never an error.
type GuessResult struct {
	Valid   bool       `json:"valid"`
	Correct bool       `json:"correct"`
	Message string     `json:"message,omitempty"`
	Guess   *GuessData `json:"guess,omitempty"`
	// Ended is set on the guess that finished the round.
	Ended bool `json:"ended,omitempty"`
}

// Result is the final tally of a round (payload of gameEnded).
type Result struct {
	Won                  bool          `json:"won"`
	Word                 string        `json:"word"`
	Category             string        `json:"category"`
	Difficulty           Difficulty    `json:"difficulty"`
	Score                int           `json:"score"`
	BaseScore            int           `json:"baseScore"`
	TimeBonus            int           `json:"timeBonus"`
	DifficultyMultiplier float64       `json:"difficultyMultiplier"`
	WrongGuesses         int           `json:"wrongGuesses"`
	HintUsed             bool          `json:"hintUsed"`
	TimeTaken            time.Duration `json:"timeTaken"`
}

// Started is the payload of a gameStarted notification.
type Started struct {
	Word            string     `json:"word"`
	Hint            string     `json:"hint"`
	Category        string     `json:"category"`
	Difficulty      Difficulty `json:"difficulty"`
	MaxWrongGuesses int        `json:"maxWrongGuesses"`
}

// LetterTile is one position of the word with its reveal flag.
type LetterTile struct {
	Letter   string `json:"letter"`
	Revealed bool   `json:"revealed"`
}

// State is a snapshot of a round for rendering. Word is included as-is;
// callers that must not leak it blank it out themselves.
type State struct {
	ID               string       `json:"id"`
	Word             string       `json:"word,omitempty"`
	Hint             string       `json:"hint,omitempty"`
	Category         string       `json:"category"`
	Difficulty       Difficulty   `json:"difficulty"`
	Phase            Phase        `json:"phase"`
	GuessedLetters   []string     `json:"guessedLetters"`
	WrongGuesses     int          `json:"wrongGuesses"`
	MaxWrongGuesses  int          `json:"maxWrongGuesses"`
	Score            int          `json:"score"`
	HintUsed         bool         `json:"hintUsed"`
	IsGameOver       bool         `json:"isGameOver"`
	HasWon           bool         `json:"hasWon"`
	WordProgress     []LetterTile `json:"wordProgress"`
	RemainingLetters []string     `json:"remainingLetters"`
	StartedAt        time.Time    `json:"startedAt"`
	EndedAt          *time.Time   `json:"endedAt,omitempty"`
}
