package client

import (
	"time"

	"github.com/crealink/crealink/internal/wire"
)

// SendSet issues one "set" command. It fails with ErrNotConnected when
// no live session exists and never retries.
func (c *Client) SendSet(params map[string]any) error {
	return c.sendRequest(wire.Set(params))
}

// SendSetWithRetry issues a "set" command with a one-shot recovery: if
// the first attempt fails it waits up to wait for the link to come
// back and then tries exactly once more. A command can be duplicated
// when the printer received the first attempt but the client saw a
// failure; one retry bounds that risk, at the cost of not being fully
// at-least-once.
func (c *Client) SendSetWithRetry(params map[string]any, wait time.Duration) error {
	first := c.sendRequest(wire.Set(params))
	if first == nil {
		return nil
	}
	if !c.WaitConnected(wait) {
		return &LinkUnavailableError{Wait: wait, Cause: first}
	}
	return c.sendRequest(wire.Set(params))
}
