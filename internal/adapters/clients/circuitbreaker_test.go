package clients

import (
	"sync"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBreaker(clk clock.Clock) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   3,
		Timeout:       30 * time.Second,
		HalfOpenLimit: 2,
		Clock:         clk,
	})
}

func tripBreaker(cb *CircuitBreaker) {
	for range cb.cfg.MaxFailures {
		cb.RecordFailure()
	}
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := newTestBreaker(clock.NewFake())

	assert.Equal(t, StateClosed, cb.State())

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, StateClosed, cb.State())

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := newTestBreaker(clock.NewFake())

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_ProbesAfterTimeout(t *testing.T) {
	clk := clock.NewFake()
	cb := newTestBreaker(clk)
	tripBreaker(cb)

	clk.Add(29 * time.Second)
	assert.False(t, cb.Allow())

	clk.Add(time.Second)
	assert.True(t, cb.Allow())
	assert.Equal(t, StateHalfOpen, cb.State())

	// One more probe fits under HalfOpenLimit, the third does not.
	assert.True(t, cb.Allow())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_HalfOpenOutcomes(t *testing.T) {
	t.Run("successes close", func(t *testing.T) {
		clk := clock.NewFake()
		cb := newTestBreaker(clk)
		tripBreaker(cb)
		clk.Add(time.Minute)

		require.True(t, cb.Allow())
		cb.RecordSuccess()
		assert.Equal(t, StateHalfOpen, cb.State())

		require.True(t, cb.Allow())
		cb.RecordSuccess()
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("failure reopens", func(t *testing.T) {
		clk := clock.NewFake()
		cb := newTestBreaker(clk)
		tripBreaker(cb)
		clk.Add(time.Minute)

		require.True(t, cb.Allow())
		cb.RecordFailure()

		assert.Equal(t, StateOpen, cb.State())
		assert.False(t, cb.Allow())
	})
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	clk := clock.NewFake()
	cb := newTestBreaker(clk)

	var (
		mu          sync.Mutex
		transitions []string
	)

	cb.OnStateChange(func(from, to State) {
		mu.Lock()
		defer mu.Unlock()

		transitions = append(transitions, from.String()+"->"+to.String())
	})

	tripBreaker(cb)
	clk.Add(time.Minute)
	cb.Allow()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(transitions) == 2
	}, time.Second, 5*time.Millisecond)

	assert.ElementsMatch(t, []string{"closed->open", "open->half-open"}, transitions)
}

func TestCircuitBreaker_ConcurrentUse(t *testing.T) {
	cb := newTestBreaker(clock.New())

	var wg sync.WaitGroup

	for i := range 50 {
		wg.Go(func() {
			if cb.Allow() {
				if i%2 == 0 {
					cb.RecordSuccess()
				} else {
					cb.RecordFailure()
				}
			}
		})
	}

	wg.Wait()

	assert.Contains(t, []State{StateClosed, StateOpen, StateHalfOpen}, cb.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
