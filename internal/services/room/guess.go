package room

import (
	"context"
	"math"
	"strings"
)

// SubmitGuess evaluates one guess against the current word
func (s *service) SubmitGuess(ctx context.Context, input *SubmitGuessInput) (*SubmitGuessOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	guess := strings.TrimSpace(input.Guess)
	if guess == "" || len(guess) > MaxGuessLength {
		return nil, ErrInvalidGuess
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.phase != PhaseDrawing || sess.turnSettled {
		return nil, ErrInvalidPhase
	}

	caller, ok := sess.playerByConnLocked(input.ConnID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if caller.SeatID == sess.drawerSeat {
		return nil, ErrDrawerCannotGuess
	}
	if sess.guessed[caller.SeatID] {
		return nil, ErrAlreadyGuessed
	}

	if !strings.EqualFold(guess, sess.currentWord) {
		return &SubmitGuessOutput{
			Result: GuessResult{
				Close: isCloseGuess(strings.ToLower(guess), strings.ToLower(sess.currentWord)),
			},
		}, nil
	}

	// Correct. Reward scales with the time left on the turn.
	ratio := s.timeRatioLocked(sess)
	guesserPoints := int(math.Round(100 + 400*ratio))
	drawerPoints := int(math.Round(50 + 100*ratio))

	caller.Score += guesserPoints
	if drawer, ok := sess.players[sess.drawerSeat]; ok {
		drawer.Score += drawerPoints
	}
	sess.guessed[caller.SeatID] = true

	out := &SubmitGuessOutput{
		Result: GuessResult{
			Correct:       true,
			GuesserPoints: guesserPoints,
			DrawerPoints:  drawerPoints,
			AllGuessed:    sess.allGuessedLocked(),
		},
	}

	if out.Result.AllGuessed {
		out.TurnEnd = sess.endTurnLocked(TurnEndAllGuessed)
	}

	return out, nil
}

// timeRatioLocked returns the unexpired share of the turn, in [0, 1]
func (s *service) timeRatioLocked(sess *session) float64 {
	elapsed := s.clock.Now().Sub(sess.turnStart)
	ratio := 1 - elapsed.Seconds()/s.config.TurnDuration.Seconds()
	if ratio < 0 {
		return 0
	}
	return ratio
}

// allGuessedLocked reports whether every live non-drawer solved the word
func (sess *session) allGuessedLocked() bool {
	for seat := range sess.players {
		if seat == sess.drawerSeat {
			continue
		}
		if !sess.guessed[seat] {
			return false
		}
	}
	return len(sess.players) > 1
}

// isCloseGuess detects a near miss: lengths within two of each other and
// one or two differing positions, comparing over the longer length with
// out-of-range positions counting as mismatches. Inputs are expected to be
// lowercased already.
func isCloseGuess(guess, word string) bool {
	g := []rune(guess)
	w := []rune(word)

	diff := len(g) - len(w)
	if diff < -2 || diff > 2 {
		return false
	}

	longer := len(g)
	if len(w) > longer {
		longer = len(w)
	}

	mismatches := 0
	for i := 0; i < longer; i++ {
		switch {
		case i >= len(g) || i >= len(w):
			mismatches++
		case g[i] != w[i]:
			mismatches++
		}
		if mismatches > 2 {
			return false
		}
	}

	return mismatches >= 1 && mismatches <= 2
}
