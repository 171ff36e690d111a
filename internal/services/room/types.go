package room

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/scrawlgame/scrawl/internal/common/clock"
	"github.com/scrawlgame/scrawl/internal/models"
	"github.com/scrawlgame/scrawl/internal/repositories/wordpack"
	"github.com/scrawlgame/scrawl/internal/shuffle"
)

// Phase represents the lifecycle state of a room
type Phase string

const (
	// PhaseWaiting indicates a room is waiting for enough players
	PhaseWaiting Phase = "waiting"

	// PhaseChoosing indicates the drawer is picking a word
	PhaseChoosing Phase = "choosing"

	// PhaseDrawing indicates a turn is running
	PhaseDrawing Phase = "drawing"

	// PhaseGameOver indicates the final round has finished
	PhaseGameOver Phase = "gameOver"
)

// TurnEndReason says why a drawing turn ended
type TurnEndReason string

const (
	// TurnEndAllGuessed indicates every non-drawer solved the word
	TurnEndAllGuessed TurnEndReason = "all_guessed"

	// TurnEndTimeout indicates the turn timer expired
	TurnEndTimeout TurnEndReason = "timeout"

	// TurnEndDrawerLeft indicates the drawer disconnected
	TurnEndDrawerLeft TurnEndReason = "drawer_left"
)

const (
	// HintStageOne is the reveal stage armed at 40% of the turn duration
	HintStageOne = 1

	// HintStageTwo is the reveal stage armed at 65% of the turn duration
	HintStageTwo = 2

	// HintStageOneFraction is the share of the turn after which the first
	// hint letter is disclosed
	HintStageOneFraction = 0.40

	// HintStageTwoFraction is the share of the turn after which the second
	// hint letter is disclosed
	HintStageTwoFraction = 0.65
)

const (
	// MinRounds and MaxRounds bound the configurable round count
	MinRounds = 1
	MaxRounds = 10

	// MinPlayersToStart is the smallest roster a game can start with
	MinPlayersToStart = 2

	// MaxGuessLength rejects oversized guesses before evaluation; no word
	// can exceed models.MaxWordLength anyway
	MaxGuessLength = 64
)

// Config holds configuration for the room service
type Config struct {
	// Word pack repository used when a room has no usable custom list
	WordPackRepo wordpack.Repository

	// Clock drives elapsed-time scoring and hint thresholds
	Clock clock.Clock

	// Shuffler drives turn order, word draws and hint reveal orders
	Shuffler *shuffle.Shuffler

	// Logger for room lifecycle events
	Logger zerolog.Logger

	// Maximum players per room
	MaxPlayers int

	// Rounds played when a room does not configure a count
	DefaultRounds int

	// Number of word choices offered to the drawer
	WordChoiceCount int

	// ChooseTimeout is how long the drawer has to pick a word
	ChooseTimeout time.Duration

	// TurnDuration is the drawing time budget per turn
	TurnDuration time.Duration

	// SettleDelay separates the turn-end reveal from the next turn
	SettleDelay time.Duration

	// GraceTimeout is how long a held seat survives a disconnect
	GraceTimeout time.Duration
}

// RosterEntry describes one player as broadcast to the room
type RosterEntry struct {
	ConnID    string `json:"connId"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Avatar    string `json:"avatar"`
	IsDrawing bool   `json:"isDrawing"`
	Guessed   bool   `json:"guessed"`
	IsOwner   bool   `json:"isOwner"`
}

// ChoosingOutcome is emitted when a new drawer must pick a word. Choices
// are delivered to the drawer only.
type ChoosingOutcome struct {
	DrawerConnID string
	DrawerName   string
	Choices      []string
	Round        int
	MaxRounds    int
	TurnSerial   int
}

// TurnStartOutcome is emitted when a word is committed and drawing begins.
// Word is delivered to the drawer only; everyone else gets the blank hint.
type TurnStartOutcome struct {
	DrawerConnID string
	Word         string
	WordLength   int
	BlankHint    string
	Duration     time.Duration
	Round        int
	MaxRounds    int
	TurnSerial   int
}

// TurnEndOutcome reveals the word and the standings after a turn
type TurnEndOutcome struct {
	Word       string
	Reason     TurnEndReason
	Roster     []RosterEntry
	TurnSerial int
}

// GameOverOutcome carries the final ranking
type GameOverOutcome struct {
	Standings []models.Standing
}

// GuessResult describes the evaluation of one guess
type GuessResult struct {
	// Correct is true when the guess settled the word
	Correct bool

	// Close is true for a near-miss; the guess content is never echoed
	Close bool

	// GuesserPoints awarded to the guesser on a correct guess
	GuesserPoints int

	// DrawerPoints awarded to the drawer on a correct guess
	DrawerPoints int

	// AllGuessed signals that every remaining non-drawer has solved the
	// word and the turn should end early
	AllGuessed bool
}

// CreateRoomInput contains parameters for creating a room
type CreateRoomInput struct {
	// ConnID is the creator's connection identity
	ConnID string

	// Name is the creator's display name
	Name string

	// Avatar is the creator's avatar token
	Avatar string

	// SessionToken is the creator's opaque reconnect token, may be empty
	SessionToken string

	// Rounds is the requested round count, clamped to [MinRounds, MaxRounds];
	// zero means the configured default
	Rounds int

	// Pack names the word pack to draw from, empty means the default pack
	Pack string

	// CustomWords is an optional inline word list, normalized on intake
	CustomWords []string
}

// CreateRoomOutput contains the result of creating a room
type CreateRoomOutput struct {
	// RoomID is the identifier of the created room
	RoomID string

	// Roster is the initial roster (just the creator)
	Roster []RosterEntry
}

// JoinRoomInput contains parameters for joining a room
type JoinRoomInput struct {
	RoomID       string
	ConnID       string
	Name         string
	Avatar       string
	SessionToken string
}

// JoinRoomOutput contains the result of joining a room
type JoinRoomOutput struct {
	// Roster after the join
	Roster []RosterEntry

	// Phase lets the caller render the right screen immediately
	Phase Phase
}

// DisconnectInput contains parameters for handling a dropped connection
type DisconnectInput struct {
	RoomID string
	ConnID string
}

// DisconnectOutput describes everything the departure changed
type DisconnectOutput struct {
	// Name of the departed player, for the announcement
	Name string

	// Held is true when a seat snapshot was taken; the caller owns the
	// grace timer for SessionToken
	Held bool

	// SessionToken keys the held seat when Held is true
	SessionToken string

	// Roster after the departure
	Roster []RosterEntry

	// TurnEnd is set when the departure ended the current turn (drawer left)
	TurnEnd *TurnEndOutcome

	// NextTurn is set when the departure skipped a choosing drawer
	NextTurn *AdvanceTurnOutput

	// ForcedWaiting is true when the room dropped below two players and
	// every pending timer must be cancelled
	ForcedWaiting bool

	// RoomEmpty is true when neither active nor held players remain; the
	// room has been torn down
	RoomEmpty bool
}

// ReconnectInput contains parameters for re-binding a held seat
type ReconnectInput struct {
	RoomID string

	// ConnID is the new connection identity
	ConnID string

	// SessionToken identifies the held seat
	SessionToken string
}

// ReconnectOutput contains the restored seat
type ReconnectOutput struct {
	// Name, Score and Avatar restored from the snapshot
	Name   string
	Score  int
	Avatar string

	// IsDrawer is true when the seat is the current drawer
	IsDrawer bool

	// IsOwner is true when ownership was restored
	IsOwner bool

	// Roster after the reconnect
	Roster []RosterEntry

	// Phase lets the caller render the right screen
	Phase Phase
}

// ExpireSeatInput contains parameters for evicting a held seat whose grace
// period ran out
type ExpireSeatInput struct {
	RoomID       string
	SessionToken string
}

// ExpireSeatOutput contains the result of the eviction
type ExpireSeatOutput struct {
	// RoomEmpty is true when the room was torn down with the seat
	RoomEmpty bool
}

// StartGameInput contains parameters for starting a game
type StartGameInput struct {
	RoomID string

	// ConnID must belong to the room owner
	ConnID string
}

// StartGameOutput contains the first choosing outcome
type StartGameOutput struct {
	Choosing *ChoosingOutcome
}

// ChooseWordInput contains the drawer's word pick
type ChooseWordInput struct {
	RoomID string
	ConnID string
	Word   string
}

// ChooseWordOutput contains the started turn
type ChooseWordOutput struct {
	TurnStart *TurnStartOutcome
}

// ChooseTimeoutInput is fired by the scheduler when the drawer never picked
type ChooseTimeoutInput struct {
	RoomID string

	// TurnSerial guards against firing for a superseded turn
	TurnSerial int
}

// ChooseTimeoutOutput contains the auto-picked turn
type ChooseTimeoutOutput struct {
	TurnStart *TurnStartOutcome
}

// SubmitGuessInput contains one guess submission
type SubmitGuessInput struct {
	RoomID string
	ConnID string
	Guess  string
}

// SubmitGuessOutput contains the evaluation and, when the guess closed the
// turn, the turn-end reveal
type SubmitGuessOutput struct {
	Result GuessResult

	// TurnEnd is set when AllGuessed is true
	TurnEnd *TurnEndOutcome
}

// TurnTimeoutInput is fired by the scheduler when the turn timer expires
type TurnTimeoutInput struct {
	RoomID     string
	TurnSerial int
}

// TurnTimeoutOutput contains the turn-end reveal
type TurnTimeoutOutput struct {
	TurnEnd *TurnEndOutcome
}

// AdvanceTurnInput is fired after the settle delay to move to the next turn
type AdvanceTurnInput struct {
	RoomID     string
	TurnSerial int
}

// AdvanceTurnOutput contains exactly one of the possible continuations
type AdvanceTurnOutput struct {
	Choosing *ChoosingOutcome
	GameOver *GameOverOutcome
}

// RevealHintInput is fired by the scheduler at the hint stages
type RevealHintInput struct {
	RoomID     string
	TurnSerial int

	// Stage is HintStageOne or HintStageTwo
	Stage int
}

// RevealHintOutput contains the updated hint string
type RevealHintOutput struct {
	Hint string
}

// AddStrokeInput appends one drawing event
type AddStrokeInput struct {
	RoomID  string
	ConnID  string
	Payload json.RawMessage
}

// AddStrokeOutput contains the stroke sequence number
type AddStrokeOutput struct {
	Seq int
}

// SnapshotInput requests the full room view for one connection
type SnapshotInput struct {
	RoomID string
	ConnID string
}

// SnapshotOutput is the late-joiner / reconnect view of a room
type SnapshotOutput struct {
	Phase            Phase
	Round            int
	MaxRounds        int
	OwnerConnID      string
	DrawerConnID     string
	Roster           []RosterEntry
	Hint             string
	TimeRemaining    int
	Strokes          []models.Stroke
	// Word is set only when ConnID is the current drawer
	Word string
}

// TimeRemainingInput requests the remaining drawing time
type TimeRemainingInput struct {
	RoomID string
}

// TimeRemainingOutput contains the remaining time in whole seconds, zero
// outside the drawing phase
type TimeRemainingOutput struct {
	Seconds int
}
