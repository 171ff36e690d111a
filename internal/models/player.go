package models

// Player represents a seat in a room. The seat is identified by a stable
// SeatID; the transport connection identity is a replaceable attribute so a
// reconnect never has to rewrite turn order, ownership or guess records.
type Player struct {
	// SeatID is the stable internal identifier for the seat
	SeatID string

	// ConnID is the current transport connection identity
	ConnID string

	// Name is the player's display name
	Name string

	// Score is the player's accumulated score, never negative
	Score int

	// Avatar is an opaque avatar token chosen by the client
	Avatar string

	// IsDrawing reports whether this player is the current drawer
	IsDrawing bool

	// SessionToken is the opaque client-held token used to reclaim the
	// seat after a reconnect. Empty for ephemeral guests.
	SessionToken string
}
