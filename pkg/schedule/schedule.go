package schedule

import (
	"context"
	"sync"
	"time"
)

// Every runs fn on a fixed period until the context ends or the
// returned stop function is called. With immediate set, the first run
// fires before the first tick.
func Every(ctx context.Context, period time.Duration, immediate bool, fn func(ctx context.Context)) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		if immediate {
			fn(ctx)
		}

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}
