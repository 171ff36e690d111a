package announcer

import "context"

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks github.com/scrawlgame/scrawl/internal/services/announcer Service

// Service is the interface for the announcer service
type Service interface {
	// GetJoinMessage returns a chat line for a player entering the room
	GetJoinMessage(ctx context.Context, input *GetJoinMessageInput) (*GetJoinMessageOutput, error)

	// GetLeaveMessage returns a chat line for a player leaving the room
	GetLeaveMessage(ctx context.Context, input *GetLeaveMessageInput) (*GetLeaveMessageOutput, error)

	// GetCorrectGuessMessage returns a chat line for a solved word
	GetCorrectGuessMessage(ctx context.Context, input *GetCorrectGuessMessageInput) (*GetCorrectGuessMessageOutput, error)

	// GetCloseGuessMessage returns a private nudge for a near-miss
	GetCloseGuessMessage(ctx context.Context, input *GetCloseGuessMessageInput) (*GetCloseGuessMessageOutput, error)

	// GetTurnRevealMessage returns the turn-end word reveal line
	GetTurnRevealMessage(ctx context.Context, input *GetTurnRevealMessageInput) (*GetTurnRevealMessageOutput, error)

	// GetGameOverMessage returns the final announcement naming the winner
	GetGameOverMessage(ctx context.Context, input *GetGameOverMessageInput) (*GetGameOverMessageOutput, error)
}
