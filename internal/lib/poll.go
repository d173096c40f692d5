package lib

import (
	"context"
	"time"
)

// Poll calls f until it returns nil or dur elapses, in which case the last error is returned.
// Context cancels polling prematurely. Optional interval defines delay between invocations
func Poll(ctx context.Context, dur time.Duration, f func(ctx context.Context) error, interval ...time.Duration) error {
	pollInterval := 1 * time.Second
	if len(interval) > 0 {
		pollInterval = interval[0]
	}
	deadline := time.Now().Add(dur)

	for {
		err := f(ctx)
		if err == nil {
			return nil
		}
		if time.Now().Add(pollInterval).After(deadline) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
