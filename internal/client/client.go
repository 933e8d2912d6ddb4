// Package client maintains a resilient WebSocket link to one Creality
// printer: a supervisor loop that reconnects with jittered backoff, a
// per-connection heartbeat monitor and status poller, a merged view of
// everything the printer has reported, and a serialized command path
// that tolerates mid-flight disconnects.
package client

import (
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crealink/crealink/internal/state"
	"github.com/crealink/crealink/internal/wire"
)

// UpdateFunc receives a full merged snapshot after every applied state
// update. Panics are recovered and logged; they never stop the client.
type UpdateFunc func(snapshot map[string]any)

// Client is a resilient printer link. All exported methods are safe
// for concurrent use. The zero value is not usable; call New.
type Client struct {
	opts     Options
	onUpdate UpdateFunc
	log      *zap.Logger
	tracker  *state.Tracker

	mu      sync.Mutex
	sess    *session
	readyCh chan struct{} // closed while a live session exists
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	sendMu sync.Mutex // serializes all frame writes

	connState atomic.Int32
	firstOnce sync.Once
	firstCh   chan struct{} // closed after the first successful connect, never reset
	lastRx    atomic.Pointer[time.Time]
}

// New constructs a stopped Client. onUpdate may be nil when only the
// pull-style Snapshot accessor is used.
func New(opts Options, onUpdate UpdateFunc, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		opts:     opts.withDefaults(),
		onUpdate: onUpdate,
		log:      log,
		tracker:  state.New(),
		readyCh:  make(chan struct{}),
		firstCh:  make(chan struct{}),
	}
	c.connState.Store(int32(StateDisconnected))
	return c
}

// Start launches the supervisor loop. Idempotent.
func (c *Client) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true
	go c.run(ctx, c.done)
}

// Stop cancels everything and attempts a clean close of any live
// session. Idempotent, safe at any time, and bounded: the session
// close is attempted but never awaited indefinitely.
func (c *Client) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	cancel := c.cancel
	sess := c.sess
	done := c.done
	c.mu.Unlock()

	cancel()
	if sess != nil {
		sess.close()
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		c.log.Warn("supervisor loop did not stop in time")
	}
}

// WaitFirstConnect reports whether the printer was reached at least
// once, waiting up to timeout. The condition latches: once true it
// stays true across later disconnects.
func (c *Client) WaitFirstConnect(timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-c.firstCh:
		return true
	case <-t.C:
		return false
	}
}

// WaitConnected reports whether a live session exists, waiting up to
// timeout for one to appear. Unlike WaitFirstConnect this resets on
// every disconnect.
func (c *Client) WaitConnected(timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		c.mu.Lock()
		ready := c.readyCh
		live := c.sess != nil
		c.mu.Unlock()
		if live {
			return true
		}
		select {
		case <-ready:
			// Readiness flipped; re-check under the lock.
		case <-deadline.C:
			return false
		}
	}
}

// LastReceive returns the arrival time of the most recent frame (zero
// before any frame). The returned Time carries a monotonic reading.
func (c *Client) LastReceive() time.Time {
	if p := c.lastRx.Load(); p != nil {
		return *p
	}
	return time.Time{}
}

// Available reports whether a frame arrived within StaleAfter.
func (c *Client) Available() bool {
	last := c.LastReceive()
	return !last.IsZero() && time.Since(last) < c.opts.StaleAfter
}

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	return ConnectionState(c.connState.Load())
}

// Snapshot returns an independent copy of the merged printer state.
func (c *Client) Snapshot() map[string]any {
	return c.tracker.Snapshot()
}

// ── Supervisor loop ───────────────────────────────────────────────────────

func (c *Client) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer c.setState(StateDisconnected)

	bo := newBackoff(c.opts.MinBackoff, c.opts.MaxBackoff)
	for {
		if ctx.Err() != nil {
			return
		}
		c.setState(StateConnecting)

		attempt := uuid.NewString()[:8]
		url := "ws://" + net.JoinHostPort(resolveHost(c.opts.Host), strconv.Itoa(c.opts.Port))
		c.log.Debug("connecting to printer",
			zap.String("url", url),
			zap.String("attempt", attempt),
		)

		sess, err := dialSession(ctx, url, c.opts.HandshakeTimeout)
		if err != nil {
			c.setState(StateDisconnected)
			if ctx.Err() != nil {
				return
			}
			delay := bo.next()
			c.log.Warn("printer dial failed",
				zap.String("url", url),
				zap.String("attempt", attempt),
				zap.Duration("retry_in", delay),
				zap.Error(err),
			)
			if !sleepCtx(ctx, delay) {
				return
			}
			continue
		}

		bo.reset()
		c.stampReceive()
		c.mu.Lock()
		c.sess = sess
		close(c.readyCh)
		c.mu.Unlock()
		c.setState(StateConnected)
		c.firstOnce.Do(func() { close(c.firstCh) })
		c.log.Info("printer connected",
			zap.String("url", url),
			zap.String("attempt", attempt),
		)

		connCtx, connCancel := context.WithCancel(ctx)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.heartbeat(connCtx, sess)
		}()
		go func() {
			defer wg.Done()
			c.poll(connCtx, sess)
		}()

		c.receiveLoop(ctx, sess)

		connCancel()
		c.mu.Lock()
		c.sess = nil
		c.readyCh = make(chan struct{})
		c.mu.Unlock()
		sess.close()
		wg.Wait()
		c.setState(StateDisconnected)

		if ctx.Err() != nil {
			return
		}
		delay := bo.next()
		c.log.Info("printer disconnected, reconnecting",
			zap.Duration("retry_in", delay),
		)
		if !sleepCtx(ctx, delay) {
			return
		}
	}
}

// receiveLoop pumps inbound frames in arrival order until the session
// dies. Heartbeats are acked with the bare literal; state updates merge
// into the tracker and fan out a full snapshot; everything else is
// discarded without ceremony.
func (c *Client) receiveLoop(ctx context.Context, sess *session) {
	for {
		data, err := sess.read()
		if err != nil {
			if ctx.Err() == nil {
				c.log.Debug("printer read ended", zap.Error(err))
			}
			return
		}
		c.stampReceive()

		kind, update := wire.Classify(data)
		switch kind {
		case wire.KindAck:
			// The printer echoing an ack; nothing to do.
		case wire.KindHeartbeat:
			if err := c.writeFrame([]byte(wire.AckText)); err != nil {
				c.log.Debug("heartbeat ack failed", zap.Error(err))
			}
		case wire.KindState:
			c.tracker.Apply(update)
			c.notify(c.tracker.Snapshot())
		case wire.KindUnexpected:
			c.log.Debug("discarding non-object frame", zap.Int("len", len(data)))
		default:
			c.log.Debug("discarding unparseable frame", zap.Int("len", len(data)))
		}
	}
}

func (c *Client) notify(snap map[string]any) {
	if c.onUpdate == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("state observer panicked", zap.Any("panic", r))
		}
	}()
	c.onUpdate(snap)
}

func (c *Client) setState(s ConnectionState) {
	old := ConnectionState(c.connState.Swap(int32(s)))
	if old != s && c.opts.OnStatus != nil {
		c.opts.OnStatus(s)
	}
}

func (c *Client) stampReceive() {
	now := time.Now()
	c.lastRx.Store(&now)
}

// writeFrame is the single serialization point for all outbound
// frames: poller GETs, heartbeat acks, the silence probe, and user
// commands all pass through here.
func (c *Client) writeFrame(data []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return ErrNotConnected
	}
	return sess.writeText(data, c.opts.WriteTimeout)
}

func (c *Client) sendRequest(r wire.Request) error {
	data, err := wire.Encode(r)
	if err != nil {
		return err
	}
	return c.writeFrame(data)
}

// resolveHost resolves host to an IP best-effort, preferring IPv4. Any
// resolution failure falls back to the literal hostname.
func resolveHost(host string) string {
	addrs, err := net.LookupHost(host)
	if err != nil || len(addrs) == 0 {
		return host
	}
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil && ip.To4() != nil {
			return a
		}
	}
	return addrs[0]
}

// sleepCtx waits d or until ctx is done, reporting whether the full
// wait elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
