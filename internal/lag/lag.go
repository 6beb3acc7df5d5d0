package lag

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

var rngMu sync.Mutex

func randFloat64() float64 {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Float64()
}

// Simulator computes the delay schedule used when emitting a response.
// Factor is inverse speed: higher means faster. It only paces delivery and
// never alters content.
type Simulator struct {
	Enabled bool
	Factor  float64
}

// ResponseDelay is the single delay applied before a non-streaming
// response: len(text)/(factor*10) seconds, zero when lag is disabled.
func (s Simulator) ResponseDelay(text string) time.Duration {
	if !s.Enabled || s.Factor <= 0 {
		return 0
	}
	secs := float64(len([]rune(text))) / (s.Factor * 10)
	return time.Duration(secs * float64(time.Second))
}

// CharDelay is the pause before one streamed character: a 1/(factor*10)
// second base with uniform jitter of up to half the base either way,
// clamped at zero.
func (s Simulator) CharDelay() time.Duration {
	if !s.Enabled || s.Factor <= 0 {
		return 0
	}
	base := 1 / (s.Factor * 10)
	d := base + (randFloat64()-0.5)*base
	if d < 0 {
		d = 0
	}
	return time.Duration(d * float64(time.Second))
}

// Wait suspends for d or until ctx is canceled, whichever comes first.
// Returns the context error on cancellation so stream loops stop promptly
// when the client disconnects.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
