package announcer

import (
	"github.com/scrawlgame/scrawl/internal/services/room"
)

// Picker selects one variant out of n. The shuffler satisfies it.
type Picker interface {
	Intn(n int) int
}

// Config holds the announcer dependencies
type Config struct {
	// Picker varies the wording; defaults to a time-seeded shuffler
	Picker Picker
}

// GetJoinMessageInput contains parameters for a join announcement
type GetJoinMessageInput struct {
	// PlayerName is the display name of the player who joined
	PlayerName string

	// Reconnected is true when the player came back onto a held seat
	Reconnected bool
}

// GetJoinMessageOutput contains the rendered chat line
type GetJoinMessageOutput struct {
	Message string
}

// GetLeaveMessageInput contains parameters for a leave announcement
type GetLeaveMessageInput struct {
	// PlayerName is the display name of the player who left
	PlayerName string

	// SeatHeld is true when the seat is held for a grace period
	SeatHeld bool

	// WasDrawer is true when the departure ended the current turn
	WasDrawer bool
}

// GetLeaveMessageOutput contains the rendered chat line
type GetLeaveMessageOutput struct {
	Message string
}

// GetCorrectGuessMessageInput contains parameters for a solved-word line
type GetCorrectGuessMessageInput struct {
	PlayerName string

	// Points awarded to the guesser
	Points int
}

// GetCorrectGuessMessageOutput contains the rendered chat line
type GetCorrectGuessMessageOutput struct {
	Message string
}

// GetCloseGuessMessageInput contains parameters for a near-miss nudge
type GetCloseGuessMessageInput struct {
	PlayerName string
}

// GetCloseGuessMessageOutput contains the rendered nudge
type GetCloseGuessMessageOutput struct {
	Message string
}

// GetTurnRevealMessageInput contains parameters for the turn-end reveal
type GetTurnRevealMessageInput struct {
	// Word that was being drawn
	Word string

	// Reason the turn ended
	Reason room.TurnEndReason
}

// GetTurnRevealMessageOutput contains the rendered reveal line
type GetTurnRevealMessageOutput struct {
	Message string
}

// GetGameOverMessageInput contains parameters for the final announcement
type GetGameOverMessageInput struct {
	// WinnerName is the display name of the top-ranked player
	WinnerName string

	// WinnerScore is the winning total
	WinnerScore int

	// Tied is true when more than one player shares the top score
	Tied bool
}

// GetGameOverMessageOutput contains the rendered announcement
type GetGameOverMessageOutput struct {
	Message string
}
