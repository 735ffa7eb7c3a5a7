// Package clock provides frame clocks for the figura interpreter.
package clock

import (
	"context"
	"time"

	"github.com/woozymasta/figura"
	"golang.org/x/time/rate"
)

var (
	_ figura.Clock = (*Fixed)(nil)
	_ figura.Clock = (*Limited)(nil)
)

// Fixed returns the same step on every tick without waiting.
// It is used for offline rendering and tests.
type Fixed struct {
	Step float64 // Milliseconds per frame
}

// Tick implements figura.Clock.
func (f *Fixed) Tick(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	return f.Step, nil
}

// Limited paces frames to a target rate and reports the wall time that
// actually passed between ticks.
type Limited struct {
	limiter *rate.Limiter
	now     func() time.Time
	last    time.Time
	nominal float64
}

// NewLimited creates a clock ticking at most fps times per second.
func NewLimited(fps int) *Limited {
	if fps <= 0 {
		fps = 1
	}

	return &Limited{
		limiter: rate.NewLimiter(rate.Limit(fps), 1),
		now:     time.Now,
		nominal: 1000 / float64(fps),
	}
}

// Tick waits for the next frame slot. The first tick reports the nominal
// frame duration.
func (l *Limited) Tick(ctx context.Context) (float64, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	now := l.now()
	if l.last.IsZero() {
		l.last = now
		return l.nominal, nil
	}

	dt := float64(now.Sub(l.last)) / float64(time.Millisecond)
	l.last = now
	return dt, nil
}
