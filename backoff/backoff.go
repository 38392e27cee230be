package backoff

import (
	"math/rand"
	"time"
)

// Policy computes the delay before the next retry of a transiently
// failed load. Every failure draws a fresh random delay from
// [MinDelay, MaxDelay) and adds it to the item's running total, so
// repeated failures back off further and further until Cap is reached.
type Policy struct {
	// MinDelay is the inclusive lower bound of a single draw
	MinDelay time.Duration `yaml:"min_delay"`

	// MaxDelay is the exclusive upper bound of a single draw
	MaxDelay time.Duration `yaml:"max_delay"`

	// Cap clamps the accumulated delay
	Cap time.Duration `yaml:"cap"`

	// MaxRetries limits retry attempts; 0 means unbounded
	MaxRetries int `yaml:"max_retries"`
}

// DefaultPolicy returns the default retry policy
func DefaultPolicy() Policy {
	return Policy{
		MinDelay:   3000 * time.Millisecond,
		MaxDelay:   5000 * time.Millisecond,
		Cap:        60000 * time.Millisecond,
		MaxRetries: 0,
	}
}

// Next returns the accumulated delay after one more failure.
// The caller keeps the returned value and passes it back on the
// following failure.
func (p Policy) Next(accumulated time.Duration) time.Duration {
	draw := p.MinDelay
	if span := p.MaxDelay - p.MinDelay; span > 0 {
		draw += time.Duration(rand.Int63n(int64(span)))
	}

	next := accumulated + draw
	if p.Cap > 0 && next > p.Cap {
		next = p.Cap
	}
	return next
}

// Allows reports whether another retry is permitted after
// failureCount failures
func (p Policy) Allows(failureCount int) bool {
	return p.MaxRetries <= 0 || failureCount <= p.MaxRetries
}
