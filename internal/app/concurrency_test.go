package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallel2(t *testing.T) {
	n, s, err := Parallel2(context.Background(),
		func(context.Context) (int, error) { return 7, nil },
		func(context.Context) (string, error) { return "seven", nil },
	)

	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "seven", s)
}

func TestParallel2_Error(t *testing.T) {
	n, s, err := Parallel2(context.Background(),
		func(context.Context) (int, error) { return 7, nil },
		func(context.Context) (string, error) { return "partial", errors.New("quote api down") },
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quote api down")
	assert.Zero(t, n)
	assert.Empty(t, s)
}

func TestFanOut_ProcessesEveryItem(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []int
	)

	var running, peak atomic.Int32

	err := FanOut(context.Background(), 3, []int{1, 2, 3, 4, 5, 6, 7, 8}, func(_ context.Context, n int) error {
		cur := running.Add(1)
		defer running.Add(-1)

		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}

		time.Sleep(time.Millisecond)

		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()

		return nil
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, seen)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestFanOut_Empty(t *testing.T) {
	called := false

	err := FanOut(context.Background(), 4, nil, func(context.Context, int) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called)
}

func TestFanOut_ClampsWorkers(t *testing.T) {
	var count atomic.Int32

	err := FanOut(context.Background(), 0, []string{"a", "b"}, func(context.Context, string) error {
		count.Add(1)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int32(2), count.Load())
}

func TestFanOut_StopsAtFirstError(t *testing.T) {
	boom := errors.New("registry full")

	err := FanOut(context.Background(), 1, []int{1, 2, 3}, func(_ context.Context, n int) error {
		if n == 1 {
			return boom
		}

		return nil
	})

	require.ErrorIs(t, err, boom)
}

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	var (
		active  atomic.Int32
		overlap atomic.Bool
		wg      sync.WaitGroup
	)

	for range 10 {
		wg.Go(func() {
			unlock := km.Lock("device-1")
			defer unlock()

			if active.Add(1) > 1 {
				overlap.Store(true)
			}

			time.Sleep(time.Millisecond)
			active.Add(-1)
		})
	}

	wg.Wait()

	assert.False(t, overlap.Load())
	assert.Zero(t, km.held())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	unlockA := km.Lock("device-a")
	defer unlockA()

	done := make(chan struct{})

	go func() {
		unlock := km.Lock("device-b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}

	assert.Equal(t, 1, km.held())
}
