// Command crealinkd keeps a resilient link to one Creality printer and
// republishes its state stream: every merged snapshot and every link
// status change goes out on the event bus and into the structured log.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/crealink/crealink/internal/bus"
	"github.com/crealink/crealink/internal/client"
	"github.com/crealink/crealink/internal/config"
	"github.com/crealink/crealink/internal/printer"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		hostFlag   = flag.String("host", "", "printer hostname or IP (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *hostFlag != "" {
		cfg.Host = *hostFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("crealinkd starting",
		zap.String("name", cfg.Name),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("stream_url", printer.StreamURL(cfg.Host)),
	)

	b := bus.New()
	cl := client.New(client.Options{
		Host:                 cfg.Host,
		Port:                 cfg.Port,
		MinBackoff:           time.Duration(cfg.MinBackoff),
		MaxBackoff:           time.Duration(cfg.MaxBackoff),
		HeartbeatInterval:    time.Duration(cfg.HeartbeatInterval),
		PingTimeout:          time.Duration(cfg.PingTimeout),
		ProbeAfterSilence:    time.Duration(cfg.ProbeAfterSilence),
		PrinterParaInterval:  time.Duration(cfg.PrinterParaInterval),
		PrintObjectsInterval: time.Duration(cfg.PrintObjectsInterval),
		PollTick:             time.Duration(cfg.PollTick),
		StaleAfter:           time.Duration(cfg.StaleAfter),
		OnStatus: func(s client.ConnectionState) {
			b.PublishStatus(s.String())
		},
	}, b.PublishSnapshot, log.Named("client"))

	_, events, unsub := b.Subscribe()
	go watchEvents(log, events)

	cl.Start()
	if !cl.WaitFirstConnect(10 * time.Second) {
		log.Warn("printer not reachable yet, retrying in the background",
			zap.String("host", cfg.Host))
	}

	staleTick := time.NewTicker(time.Duration(cfg.StaleAfter) / 2)
	defer staleTick.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case s := <-sig:
			log.Info("shutting down", zap.String("signal", s.String()))
			unsub()
			cl.Stop()
			log.Info("stopped")
			return
		case <-staleTick.C:
			if !cl.Available() {
				log.Warn("no frames from printer",
					zap.String("state", cl.State().String()),
					zap.Time("last_receive", cl.LastReceive()),
				)
			}
		}
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("bad log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

func watchEvents(log *zap.Logger, events <-chan bus.Event) {
	for e := range events {
		switch e.Type {
		case bus.EventStatus:
			log.Info("link status changed", zap.Any("status", e.Data))
		case bus.EventSnapshot:
			snap, ok := e.Data.(map[string]any)
			if !ok {
				continue
			}
			fields := []zap.Field{zap.Int("fields", len(snap))}
			if temp, ok := printer.SafeFloat(snap["nozzleTemp"]); ok {
				fields = append(fields, zap.Float64("nozzle_temp", temp))
			}
			if temp, ok := printer.SafeFloat(snap["bedTemp0"]); ok {
				fields = append(fields, zap.Float64("bed_temp", temp))
			}
			if x, y, z, ok := printer.ParsePosition(snap); ok {
				fields = append(fields,
					zap.Float64("x", x), zap.Float64("y", y), zap.Float64("z", z))
			}
			if s, ok := snap["modelVersion"].(string); ok {
				hw, sw := printer.ParseModelVersion(s)
				fields = append(fields, zap.String("hw_ver", hw), zap.String("sw_ver", sw))
			}
			if printer.JobActive(snap) {
				fields = append(fields, zap.Bool("job_active", true))
			}
			log.Debug("printer state", fields...)
		}
	}
}
