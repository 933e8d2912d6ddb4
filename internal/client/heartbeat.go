package client

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/crealink/crealink/internal/wire"
)

// heartbeat is the per-connection liveness monitor. After a silence
// grace period it sends one benign probe to nudge a quiet printer into
// streaming, then pings on a fixed cadence. A ping that fails or goes
// unanswered force-closes the session; the receive loop then observes
// the closed connection and unwinds through the reconnect path. This
// is the sole mechanism that catches a half-open connection.
func (c *Client) heartbeat(ctx context.Context, sess *session) {
	if !sleepCtx(ctx, c.opts.ProbeAfterSilence) {
		return
	}
	if time.Since(c.LastReceive()) > c.opts.ProbeAfterSilence {
		// Connected but silent. The probe is advisory only.
		if err := c.sendRequest(wire.PrinterParaQuery()); err != nil {
			c.log.Debug("silence probe failed", zap.Error(err))
		}
	}

	ticker := time.NewTicker(c.opts.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sess.ping(c.opts.PingTimeout); err != nil {
				if ctx.Err() != nil {
					return
				}
				c.log.Debug("printer ping failed, forcing reconnect", zap.Error(err))
				sess.close()
				return
			}
		}
	}
}
