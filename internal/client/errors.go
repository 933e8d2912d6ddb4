package client

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotConnected is returned by single-attempt sends when no live
// session exists at send time.
var ErrNotConnected = errors.New("client: printer not connected")

// errPongTimeout marks an application-level ping that was never
// answered within its deadline.
var errPongTimeout = errors.New("client: pong timeout")

// LinkUnavailableError is returned by SendSetWithRetry when the first
// attempt failed and the link did not come back within the wait
// window. Cause carries the original send failure.
type LinkUnavailableError struct {
	Wait  time.Duration
	Cause error
}

func (e *LinkUnavailableError) Error() string {
	return fmt.Sprintf("client: printer link not available after %s: %v", e.Wait, e.Cause)
}

func (e *LinkUnavailableError) Unwrap() error { return e.Cause }
