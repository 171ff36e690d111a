package announcer

import (
	"context"
	"fmt"
	"time"

	"github.com/scrawlgame/scrawl/internal/services/room"
	"github.com/scrawlgame/scrawl/internal/shuffle"
)

// service implements the Service interface
type service struct {
	picker Picker
}

// New creates a new announcer service
func New(cfg *Config) (Service, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	picker := cfg.Picker
	if picker == nil {
		picker = shuffle.New(&shuffle.Config{Seed: time.Now().UnixNano()})
	}

	return &service{picker: picker}, nil
}

func (s *service) pick(messages []string) string {
	return messages[s.picker.Intn(len(messages))]
}

// GetJoinMessage returns a chat line for a player entering the room
func (s *service) GetJoinMessage(ctx context.Context, input *GetJoinMessageInput) (*GetJoinMessageOutput, error) {
	var messages []string

	if input.Reconnected {
		messages = []string{
			fmt.Sprintf("%s is back!", input.PlayerName),
			fmt.Sprintf("%s reconnected.", input.PlayerName),
			fmt.Sprintf("Welcome back, %s!", input.PlayerName),
		}
	} else {
		messages = []string{
			fmt.Sprintf("%s joined the room!", input.PlayerName),
			fmt.Sprintf("%s hopped in. Say hi!", input.PlayerName),
			fmt.Sprintf("A wild %s appeared!", input.PlayerName),
			fmt.Sprintf("%s grabbed a seat.", input.PlayerName),
		}
	}

	return &GetJoinMessageOutput{Message: s.pick(messages)}, nil
}

// GetLeaveMessage returns a chat line for a player leaving the room
func (s *service) GetLeaveMessage(ctx context.Context, input *GetLeaveMessageInput) (*GetLeaveMessageOutput, error) {
	var messages []string

	switch {
	case input.WasDrawer:
		messages = []string{
			fmt.Sprintf("%s left mid-drawing! The word is revealed.", input.PlayerName),
			fmt.Sprintf("The artist %s vanished. On to the next turn.", input.PlayerName),
		}
	case input.SeatHeld:
		messages = []string{
			fmt.Sprintf("%s lost connection. Holding their seat.", input.PlayerName),
			fmt.Sprintf("%s dropped out, waiting for them to come back.", input.PlayerName),
		}
	default:
		messages = []string{
			fmt.Sprintf("%s left the room.", input.PlayerName),
			fmt.Sprintf("%s is gone. Farewell!", input.PlayerName),
			fmt.Sprintf("%s walked out. More words for the rest of us.", input.PlayerName),
		}
	}

	return &GetLeaveMessageOutput{Message: s.pick(messages)}, nil
}

// GetCorrectGuessMessage returns a chat line for a solved word
func (s *service) GetCorrectGuessMessage(ctx context.Context, input *GetCorrectGuessMessageInput) (*GetCorrectGuessMessageOutput, error) {
	messages := []string{
		fmt.Sprintf("%s guessed the word! +%d", input.PlayerName, input.Points),
		fmt.Sprintf("%s got it! +%d points", input.PlayerName, input.Points),
		fmt.Sprintf("Nailed it! %s scores %d.", input.PlayerName, input.Points),
	}

	return &GetCorrectGuessMessageOutput{Message: s.pick(messages)}, nil
}

// GetCloseGuessMessage returns a private nudge for a near-miss. It never
// echoes the guess itself.
func (s *service) GetCloseGuessMessage(ctx context.Context, input *GetCloseGuessMessageInput) (*GetCloseGuessMessageOutput, error) {
	messages := []string{
		"So close!",
		"Almost! Check your spelling.",
		"You're one letter away...",
	}

	return &GetCloseGuessMessageOutput{Message: s.pick(messages)}, nil
}

// GetTurnRevealMessage returns the turn-end word reveal line
func (s *service) GetTurnRevealMessage(ctx context.Context, input *GetTurnRevealMessageInput) (*GetTurnRevealMessageOutput, error) {
	var messages []string

	switch input.Reason {
	case room.TurnEndAllGuessed:
		messages = []string{
			fmt.Sprintf("Everyone got it! The word was %q.", input.Word),
			fmt.Sprintf("Clean sweep! The word was %q.", input.Word),
		}
	case room.TurnEndDrawerLeft:
		messages = []string{
			fmt.Sprintf("The drawer left. The word was %q.", input.Word),
		}
	default:
		messages = []string{
			fmt.Sprintf("Time's up! The word was %q.", input.Word),
			fmt.Sprintf("The clock ran out. The word was %q.", input.Word),
		}
	}

	return &GetTurnRevealMessageOutput{Message: s.pick(messages)}, nil
}

// GetGameOverMessage returns the final announcement naming the winner
func (s *service) GetGameOverMessage(ctx context.Context, input *GetGameOverMessageInput) (*GetGameOverMessageOutput, error) {
	var messages []string

	if input.Tied {
		messages = []string{
			fmt.Sprintf("It's a tie at %d points! %s takes it on seniority.", input.WinnerScore, input.WinnerName),
			fmt.Sprintf("Dead heat! %s edges it out with %d points.", input.WinnerName, input.WinnerScore),
		}
	} else {
		messages = []string{
			fmt.Sprintf("%s wins with %d points!", input.WinnerName, input.WinnerScore),
			fmt.Sprintf("Game over! %s takes the crown with %d points.", input.WinnerName, input.WinnerScore),
			fmt.Sprintf("All hail %s, champion at %d points!", input.WinnerName, input.WinnerScore),
		}
	}

	return &GetGameOverMessageOutput{Message: s.pick(messages)}, nil
}
