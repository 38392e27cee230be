package backoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_FirstDelayWithinRange(t *testing.T) {
	p := DefaultPolicy()

	for i := 0; i < 100; i++ {
		delay := p.Next(0)
		assert.GreaterOrEqual(t, delay, 3000*time.Millisecond)
		assert.Less(t, delay, 5000*time.Millisecond)
	}
}

func TestPolicy_AccumulatesAndClamps(t *testing.T) {
	p := DefaultPolicy()

	var accumulated time.Duration
	previous := time.Duration(0)

	// Each failure adds another draw; the running total never decreases
	// and never exceeds the cap
	for i := 0; i < 30; i++ {
		accumulated = p.Next(accumulated)
		assert.GreaterOrEqual(t, accumulated, previous)
		assert.LessOrEqual(t, accumulated, 60000*time.Millisecond)
		previous = accumulated
	}

	// 30 draws of at least 3s each is far past the cap
	assert.Equal(t, 60000*time.Millisecond, accumulated)
}

func TestPolicy_DegenerateRange(t *testing.T) {
	p := Policy{MinDelay: time.Second, MaxDelay: time.Second, Cap: time.Minute}
	assert.Equal(t, time.Second, p.Next(0))
	assert.Equal(t, 2*time.Second, p.Next(time.Second))
}

func TestPolicy_Allows(t *testing.T) {
	unbounded := DefaultPolicy()
	assert.True(t, unbounded.Allows(1))
	assert.True(t, unbounded.Allows(1000000))

	bounded := Policy{MaxRetries: 3}
	assert.True(t, bounded.Allows(1))
	assert.True(t, bounded.Allows(3))
	assert.False(t, bounded.Allows(4))
}
