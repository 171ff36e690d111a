package models

// Standing is one row of the final game-over ranking
type Standing struct {
	// Rank is the 1-based position, descending by score
	Rank int

	// ConnID is the connection identity of the ranked player
	ConnID string

	// Name is the player's display name
	Name string

	// Score is the final score
	Score int
}
