package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTickable struct {
	ticks  atomic.Int64
	delay  time.Duration
	lastDt atomic.Value
}

func (c *countingTickable) Tick(dt float32) {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.ticks.Add(1)
	c.lastDt.Store(dt)
}

func TestSessionPoolWaitForCompletionBlocksUntilAllTasksDone(t *testing.T) {
	pool := NewSessionPool(2, nil)
	defer pool.Shutdown()

	sessions := make([]Tickable, 5)
	counters := make([]*countingTickable, 5)
	for i := range sessions {
		c := &countingTickable{delay: 5 * time.Millisecond}
		counters[i] = c
		sessions[i] = c
	}

	pool.ScheduleBatch(sessions, 0.03125)
	pool.WaitForCompletion()

	for _, c := range counters {
		assert.Equal(t, int64(1), c.ticks.Load(), "every scheduled session must have ticked exactly once by the time WaitForCompletion returns")
		dt, _ := c.lastDt.Load().(float32)
		assert.Equal(t, float32(0.03125), dt)
	}
}

func TestSessionPoolScheduleBatchWithNoSessionsIsNoop(t *testing.T) {
	pool := NewSessionPool(2, nil)
	defer pool.Shutdown()

	require.NotPanics(t, func() {
		pool.ScheduleBatch(nil, 0.1)
		pool.WaitForCompletion()
	})
}

func TestSessionPoolSupportsMultipleSequentialBatches(t *testing.T) {
	pool := NewSessionPool(3, nil)
	defer pool.Shutdown()

	c := &countingTickable{}
	for i := 0; i < 3; i++ {
		pool.ScheduleBatch([]Tickable{c}, 0.03125)
		pool.WaitForCompletion()
	}
	assert.Equal(t, int64(3), c.ticks.Load())
}

func TestNewSessionPoolDefaultsWorkerCountWhenNonPositive(t *testing.T) {
	pool := NewSessionPool(0, nil)
	defer pool.Shutdown()

	c := &countingTickable{}
	pool.ScheduleBatch([]Tickable{c}, 0.1)
	pool.WaitForCompletion()
	assert.Equal(t, int64(1), c.ticks.Load())
}
