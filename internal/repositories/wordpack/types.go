package wordpack

import "github.com/redis/go-redis/v9"

// Config holds configuration for the Redis word pack repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// DrawInput contains parameters for drawing words from a pack
type DrawInput struct {
	// Pack is the pack name to draw from
	Pack string

	// Count is how many distinct words to draw
	Count int
}

// DrawOutput contains the drawn words
type DrawOutput struct {
	// Words are the drawn words, all distinct
	Words []string
}

// SeedPackInput contains parameters for seeding a pack
type SeedPackInput struct {
	// Pack is the pack name
	Pack string

	// Words is the pack content
	Words []string
}

// ListPacksOutput contains the available pack names
type ListPacksOutput struct {
	// Packs are the pack names
	Packs []string
}
