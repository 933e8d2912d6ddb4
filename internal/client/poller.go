package client

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/crealink/crealink/internal/wire"
)

// poll mirrors the periodic GETs the printer's own web UI issues; the
// firmware assumes a passive client keeps asking or it stops streaming
// state. The two queries run on independent cadences off one short
// tick, which staggers them after the initial burst. Sends are
// fire-and-forget; failures here are the receive loop's problem.
func (c *Client) poll(ctx context.Context, sess *session) {
	var lastPara, lastObjects time.Time
	ticker := time.NewTicker(c.opts.PollTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if sess.isClosed() {
				return
			}
			if now.Sub(lastPara) >= c.opts.PrinterParaInterval {
				if err := c.sendRequest(wire.PrinterParaQuery()); err != nil {
					c.log.Debug("printer para poll failed", zap.Error(err))
				}
				lastPara = now
			}
			if now.Sub(lastObjects) >= c.opts.PrintObjectsInterval {
				if err := c.sendRequest(wire.PrintObjectsQuery()); err != nil {
					c.log.Debug("print objects poll failed", zap.Error(err))
				}
				lastObjects = now
			}
		}
	}
}
