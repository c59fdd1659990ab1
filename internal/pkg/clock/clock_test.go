package clock_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"foodorder/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_NowOnlyMovesOnAdvance(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := clock.NewManual(start)

	assert.Equal(t, start, c.Now())

	c.Advance(42 * time.Second)
	assert.Equal(t, start.Add(42*time.Second), c.Now())
}

func TestManual_AfterFuncFiresAtDeadline(t *testing.T) {
	c := clock.NewManual(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	fired := 0
	c.AfterFunc(30*time.Second, func() { fired++ })

	c.Advance(29 * time.Second)
	assert.Equal(t, 0, fired)

	c.Advance(time.Second)
	assert.Equal(t, 1, fired)

	// Already fired, further advances must not re-run it.
	c.Advance(time.Minute)
	assert.Equal(t, 1, fired)
}

func TestManual_StoppedTimerDoesNotFire(t *testing.T) {
	c := clock.NewManual(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	fired := false
	timer := c.AfterFunc(10*time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(time.Minute)
	assert.False(t, fired)
}

func TestManual_TimersFireInDeadlineOrder(t *testing.T) {
	c := clock.NewManual(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	var order []string
	c.AfterFunc(20*time.Second, func() { order = append(order, "second") })
	c.AfterFunc(10*time.Second, func() { order = append(order, "first") })

	c.Advance(time.Minute)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestManual_ConcurrentStopAndAdvance(t *testing.T) {
	c := clock.NewManual(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	const n = 100
	var fired atomic.Int32
	timers := make([]clock.Timer, 0, n)
	for i := 0; i < n; i++ {
		timers = append(timers, c.AfterFunc(10*time.Second, func() { fired.Add(1) }))
	}

	var stopped atomic.Int32
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.Advance(time.Minute)
	}()
	go func() {
		defer wg.Done()
		for _, timer := range timers {
			if timer.Stop() {
				stopped.Add(1)
			}
		}
	}()
	wg.Wait()

	// Every timer either fired or was stopped, never both.
	assert.Equal(t, int32(n), fired.Load()+stopped.Load())
}

func TestSystem_NowIsUTC(t *testing.T) {
	c := clock.NewSystem()
	assert.Equal(t, time.UTC, c.Now().Location())
}
