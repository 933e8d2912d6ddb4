package client

import (
	"math/rand"
	"time"
)

// backoff tracks the reconnect delay. The delay grows multiplicatively
// with jitter on every failure or disconnect and is capped at max; a
// successful connection resets it to min.
type backoff struct {
	cur, min, max time.Duration
}

func newBackoff(min, max time.Duration) *backoff {
	return &backoff{cur: min, min: min, max: max}
}

// next returns the delay to wait before the coming attempt and advances
// the state: next = min(cur * (1.8 + jitter), max), jitter in [0, 0.4).
func (b *backoff) next() time.Duration {
	jitter := rand.Float64() * 0.4
	d := time.Duration(float64(b.cur) * (1.8 + jitter))
	if d > b.max {
		d = b.max
	}
	b.cur = d
	return d
}

func (b *backoff) reset() { b.cur = b.min }
