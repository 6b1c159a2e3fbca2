package finder

import (
	"context"
	"math/rand/v2"
	"time"
)

// sleepJitter blocks for a random duration in [min, max], returning
// early if the context is canceled.
func sleepJitter(ctx context.Context, min, max time.Duration) {
	d := min
	if max > min {
		d += rand.N(max - min)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// noSleep replaces sleepJitter in tests.
func noSleep(context.Context, time.Duration, time.Duration) {}
