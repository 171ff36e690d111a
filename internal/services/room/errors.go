package room

import "errors"

// Sentinel errors. The illegal-transition and missing-seat sentinels are
// benign: callers treat them as no-ops rather than faults.
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is at maximum capacity")
	ErrPlayerNotFound    = errors.New("player not in room")
	ErrNotOwner          = errors.New("only the room owner can do that")
	ErrNotEnoughPlayers  = errors.New("not enough players to start")
	ErrInvalidPhase      = errors.New("action not valid in current phase")
	ErrNotDrawer         = errors.New("only the current drawer can do that")
	ErrDrawerCannotGuess = errors.New("the drawer cannot guess")
	ErrAlreadyGuessed    = errors.New("player already guessed this word")
	ErrInvalidChoice     = errors.New("word is not one of the offered choices")
	ErrInvalidGuess      = errors.New("guess is empty or too long")
	ErrStaleTimer        = errors.New("timer fired for a superseded state")
	ErrSeatNotHeld       = errors.New("no held seat for this session token")
)
