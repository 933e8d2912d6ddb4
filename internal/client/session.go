package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// session wraps one live WebSocket connection to the printer. Exactly
// one session exists at a time; the supervisor owns it for the duration
// of one connection. Writes must be serialized by the caller, except
// ping which uses a control frame and is safe alongside writes.
type session struct {
	conn   *websocket.Conn
	pong   chan struct{}
	closed atomic.Bool
	once   sync.Once
}

// dialSession opens a WebSocket to url. The firmware does its own
// application-level heartbeating, so no library ping ticker is set up;
// liveness is the heartbeat monitor's job.
func dialSession(ctx context.Context, url string, handshakeTimeout time.Duration) (*session, error) {
	d := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := d.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", url, err)
	}
	s := &session{conn: conn, pong: make(chan struct{}, 1)}
	conn.SetPongHandler(func(string) error {
		select {
		case s.pong <- struct{}{}:
		default:
		}
		return nil
	})
	return s, nil
}

// read returns the next frame, or an error on remote close or any read
// failure. Text and binary frames are treated alike.
func (s *session) read() ([]byte, error) {
	_, data, err := s.conn.ReadMessage()
	return data, err
}

// writeText writes one text frame. Callers serialize via the client's
// send mutex.
func (s *session) writeText(data []byte, timeout time.Duration) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// ping sends a control ping and waits up to timeout for the pong. The
// pong only arrives while the receive loop is pumping frames, which is
// exactly the liveness property being checked.
func (s *session) ping(timeout time.Duration) error {
	select {
	case <-s.pong: // drop a stale pong from a previous round
	default:
	}
	if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(timeout)); err != nil {
		return err
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-s.pong:
		return nil
	case <-t.C:
		return errPongTimeout
	}
}

// close tears the connection down, idempotently and best-effort. A
// close frame is offered to the peer but never waited on.
func (s *session) close() {
	s.once.Do(func() {
		s.closed.Store(true)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = s.conn.Close()
	})
}

func (s *session) isClosed() bool { return s.closed.Load() }
