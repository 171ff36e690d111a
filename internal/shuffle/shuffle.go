package shuffle

import (
	"math/rand"
	"time"
)

// Shuffler provides the randomness used for turn order, word sampling and
// hint reveal orders. A fixed seed makes every draw reproducible in tests.
type Shuffler struct {
	random *rand.Rand
}

// Config for the shuffler
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new shuffler
func New(cfg *Config) *Shuffler {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)

	return &Shuffler{
		random: rand.New(source),
	}
}

// Shuffle permutes the slice in place using Fisher-Yates
func (s *Shuffler) Shuffle(items []string) {
	for i := len(items) - 1; i > 0; i-- {
		j := s.random.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Perm returns a uniformly shuffled permutation of [0, n)
func (s *Shuffler) Perm(n int) []int {
	return s.random.Perm(n)
}

// Pick returns up to count distinct elements of items, in random order.
// The input slice is not modified.
func (s *Shuffler) Pick(items []string, count int) []string {
	if count > len(items) {
		count = len(items)
	}
	if count <= 0 {
		return nil
	}

	pool := make([]string, len(items))
	copy(pool, items)
	s.Shuffle(pool)

	return pool[:count]
}

// Intn returns a uniform random value in [0, n)
func (s *Shuffler) Intn(n int) int {
	if n < 1 {
		return 0
	}
	return s.random.Intn(n)
}
