package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/scrawlgame/scrawl/internal/common/clock Clock

// Clock abstracts the time source so elapsed-time scoring and hint
// thresholds can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

// New creates a DefaultClock
func New() *DefaultClock {
	return &DefaultClock{}
}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}
