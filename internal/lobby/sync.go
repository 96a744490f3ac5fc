// internal/lobby/sync.go
//
// FollowGuesses keeps a local game.Game in step with a room.
//
// Notes:
//   - Remote guesses are replayed onto the local engine in the order the bus
//     delivers them. Guesses are not sequenced per room, so two occupants who
//     guess at the same moment may apply them locally in different orders.
//   - Remote guesses that the local engine rejects are skipped.

package lobby

import (
	"github.com/rs/zerolog/log"

	"github.com/psylsph/hangman-netlify/internal/events"
	"github.com/psylsph/hangman-netlify/internal/game"
)

// FollowGuesses starts g whenever s's room starts a round, and applies other
// occupants' guesses to g. Call the returned cancel to stop following.
func FollowGuesses(s *Session, g *game.Game) (cancel func()) {
	self := s.Player().ID
	return s.Subscribe(func(e events.Event) {
		switch e.Name {
		case events.RoomGameStarted:
			start, ok := e.Payload.(GameStart)
			if !ok {
				return
			}
			g.Start(start.Word, start.Hint, start.Category)
		case events.GuessReceived:
			if e.SenderID == self {
				return
			}
			msg, ok := e.Payload.(GuessMessage)
			if !ok {
				return
			}
			if res := g.Guess(msg.Letter); !res.Valid {
				log.Debug().Str("roomId", e.RoomID).Str("letter", msg.Letter).Str("reason", res.Message).Msg("remote guess skipped")
			}
		}
	})
}
