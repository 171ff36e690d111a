package models

import "encoding/json"

// Stroke is one drawing event, kept opaque so the core never interprets
// canvas geometry. The per-turn stroke log replays the canvas for late
// joiners and reconnecting players.
type Stroke struct {
	// Seq is the append order within the current turn
	Seq int

	// Payload is the client-supplied stroke data, passed through verbatim
	Payload json.RawMessage
}
