package room

import "context"

// Service is the interface for the room service. Every operation is keyed
// by room id and serialized per room; timer-driven operations carry the
// turn serial they were armed with and return ErrStaleTimer when the state
// they govern has been superseded.
type Service interface {
	// CreateRoom creates a room with the caller as owner
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// JoinRoom adds a player to an existing room
	JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error)

	// Disconnect removes a connection, holding the seat when the player
	// has a session token
	Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error)

	// Reconnect re-binds a held seat to a new connection identity
	Reconnect(ctx context.Context, input *ReconnectInput) (*ReconnectOutput, error)

	// ExpireSeat evicts a held seat whose grace period ran out
	ExpireSeat(ctx context.Context, input *ExpireSeatInput) (*ExpireSeatOutput, error)

	// StartGame starts the game; owner only, needs two players
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// ChooseWord commits the drawer's pick and starts the turn
	ChooseWord(ctx context.Context, input *ChooseWordInput) (*ChooseWordOutput, error)

	// ChooseTimeout auto-picks a word when the drawer never chose
	ChooseTimeout(ctx context.Context, input *ChooseTimeoutInput) (*ChooseTimeoutOutput, error)

	// SubmitGuess evaluates one guess against the current word
	SubmitGuess(ctx context.Context, input *SubmitGuessInput) (*SubmitGuessOutput, error)

	// TurnTimeout force-ends the turn when the timer expires
	TurnTimeout(ctx context.Context, input *TurnTimeoutInput) (*TurnTimeoutOutput, error)

	// AdvanceTurn moves to the next drawer after the settle delay
	AdvanceTurn(ctx context.Context, input *AdvanceTurnInput) (*AdvanceTurnOutput, error)

	// RevealHint discloses the next hint stage
	RevealHint(ctx context.Context, input *RevealHintInput) (*RevealHintOutput, error)

	// AddStroke appends a drawing event to the turn's stroke log
	AddStroke(ctx context.Context, input *AddStrokeInput) (*AddStrokeOutput, error)

	// Snapshot returns the full room view for one connection
	Snapshot(ctx context.Context, input *SnapshotInput) (*SnapshotOutput, error)

	// TimeRemaining returns the remaining drawing time in seconds
	TimeRemaining(ctx context.Context, input *TimeRemainingInput) (*TimeRemainingOutput, error)
}
