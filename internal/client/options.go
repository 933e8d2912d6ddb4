package client

import "time"

// Defaults match the cadences K1-class firmware expects from a web
// client; Port is the fixed control port.
const (
	DefaultPort                 = 9999
	DefaultMinBackoff           = 1 * time.Second
	DefaultMaxBackoff           = 30 * time.Second
	DefaultHeartbeatInterval    = 10 * time.Second
	DefaultPingTimeout          = 5 * time.Second
	DefaultProbeAfterSilence    = 10 * time.Second
	DefaultPrinterParaInterval  = 5 * time.Second
	DefaultPrintObjectsInterval = 2 * time.Second
	DefaultPollTick             = 200 * time.Millisecond
	DefaultStaleAfter           = 30 * time.Second
	DefaultHandshakeTimeout     = 5 * time.Second
	DefaultWriteTimeout         = 5 * time.Second
)

// Options configures one printer link. Host is required; every zero
// field falls back to its default.
type Options struct {
	// Host is the printer hostname or IP. Re-resolved best-effort on
	// each connection attempt.
	Host string
	// Port is the WebSocket control port.
	Port int

	MinBackoff        time.Duration
	MaxBackoff        time.Duration
	HeartbeatInterval time.Duration
	PingTimeout       time.Duration
	ProbeAfterSilence time.Duration

	PrinterParaInterval  time.Duration
	PrintObjectsInterval time.Duration
	PollTick             time.Duration

	// StaleAfter bounds how old the last received frame may be for
	// Available to report true.
	StaleAfter time.Duration

	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration

	// OnStatus, when set, is invoked on every connection state change.
	OnStatus func(ConnectionState)
}

func (o Options) withDefaults() Options {
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.MinBackoff == 0 {
		o.MinBackoff = DefaultMinBackoff
	}
	if o.MaxBackoff == 0 {
		o.MaxBackoff = DefaultMaxBackoff
	}
	if o.HeartbeatInterval == 0 {
		o.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if o.PingTimeout == 0 {
		o.PingTimeout = DefaultPingTimeout
	}
	if o.ProbeAfterSilence == 0 {
		o.ProbeAfterSilence = DefaultProbeAfterSilence
	}
	if o.PrinterParaInterval == 0 {
		o.PrinterParaInterval = DefaultPrinterParaInterval
	}
	if o.PrintObjectsInterval == 0 {
		o.PrintObjectsInterval = DefaultPrintObjectsInterval
	}
	if o.PollTick == 0 {
		o.PollTick = DefaultPollTick
	}
	if o.StaleAfter == 0 {
		o.StaleAfter = DefaultStaleAfter
	}
	if o.HandshakeTimeout == 0 {
		o.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if o.WriteTimeout == 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}
	return o
}
