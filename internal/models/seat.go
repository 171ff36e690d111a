package models

import "time"

// HeldSeat is the immutable snapshot taken when a player with a session
// token disconnects. Role flags are captured because they are about to be
// detached from the live roster entry.
type HeldSeat struct {
	// SeatID is the stable seat identifier being held
	SeatID string

	// Name is the display name at disconnect time
	Name string

	// Score is the score at disconnect time
	Score int

	// Avatar is the avatar token at disconnect time
	Avatar string

	// SessionToken keys the held seat for reconnection
	SessionToken string

	// WasOwner reports whether the seat owned the room
	WasOwner bool

	// WasDrawer reports whether the seat was the current drawer
	WasDrawer bool

	// HadGuessed reports whether the seat had already solved the current word
	HadGuessed bool

	// TurnSerial identifies the turn HadGuessed refers to; a later turn
	// must not inherit the flag
	TurnSerial int

	// HeldAt is when the snapshot was taken
	HeldAt time.Time
}
