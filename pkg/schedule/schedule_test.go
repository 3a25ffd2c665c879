package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEveryImmediateRunsBeforeFirstTick(t *testing.T) {
	var runs atomic.Int64
	stop := Every(context.Background(), time.Hour, true, func(context.Context) {
		runs.Add(1)
	})
	defer stop()

	assert.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestEveryStopsOnStop(t *testing.T) {
	var runs atomic.Int64
	stop := Every(context.Background(), 5*time.Millisecond, false, func(context.Context) {
		runs.Add(1)
	})

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	stop()
	settled := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, runs.Load())
}

func TestEveryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int64
	stop := Every(ctx, 5*time.Millisecond, true, func(context.Context) {
		runs.Add(1)
	})
	defer stop()

	cancel()
	time.Sleep(20 * time.Millisecond)
	settled := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, runs.Load())
}
