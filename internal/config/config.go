// Package config loads daemon configuration from a YAML file with
// environment variable overrides. Every tunable has a documented
// default matching the printer firmware's expectations, so an empty
// config (just a host) is fully usable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that decodes from YAML strings ("5s").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	td, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: bad duration %q: %w", s, err)
	}
	*d = Duration(td)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config holds all daemon settings.
type Config struct {
	// Host is the printer hostname or IP. Required.
	Host string `yaml:"host"`
	// Port is the WebSocket control port.
	Port int `yaml:"port"`
	// Name labels this printer in logs.
	Name string `yaml:"name"`

	LogLevel string `yaml:"log_level"`

	MinBackoff        Duration `yaml:"min_backoff"`
	MaxBackoff        Duration `yaml:"max_backoff"`
	HeartbeatInterval Duration `yaml:"heartbeat_interval"`
	PingTimeout       Duration `yaml:"ping_timeout"`
	ProbeAfterSilence Duration `yaml:"probe_after_silence"`

	PrinterParaInterval  Duration `yaml:"printer_para_interval"`
	PrintObjectsInterval Duration `yaml:"print_objects_interval"`
	PollTick             Duration `yaml:"poll_tick"`

	StaleAfter Duration `yaml:"stale_after"`
}

// Default returns the documented defaults. Host is left empty and must
// come from the file, the environment, or a flag.
func Default() Config {
	return Config{
		Port:                 9999,
		Name:                 "creality-printer",
		LogLevel:             "info",
		MinBackoff:           Duration(1 * time.Second),
		MaxBackoff:           Duration(30 * time.Second),
		HeartbeatInterval:    Duration(10 * time.Second),
		PingTimeout:          Duration(5 * time.Second),
		ProbeAfterSilence:    Duration(10 * time.Second),
		PrinterParaInterval:  Duration(5 * time.Second),
		PrintObjectsInterval: Duration(2 * time.Second),
		PollTick:             Duration(200 * time.Millisecond),
		StaleAfter:           Duration(30 * time.Second),
	}
}

// Load reads path (optional; "" skips the file) and applies
// environment overrides. Callers merge any flag overrides on top and
// then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("config: host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.MinBackoff <= 0 || c.MaxBackoff < c.MinBackoff {
		return fmt.Errorf("config: backoff bounds invalid (min %s, max %s)",
			time.Duration(c.MinBackoff), time.Duration(c.MaxBackoff))
	}
	if c.PrintObjectsInterval > c.PrinterParaInterval {
		return fmt.Errorf("config: print_objects_interval must not exceed printer_para_interval")
	}
	if c.StaleAfter <= 0 || c.HeartbeatInterval <= 0 || c.PollTick <= 0 {
		return fmt.Errorf("config: intervals must be positive")
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Host = getEnv("CREALINK_HOST", c.Host)
	c.Port = getEnvInt("CREALINK_PORT", c.Port)
	c.Name = getEnv("CREALINK_NAME", c.Name)
	c.LogLevel = getEnv("CREALINK_LOG_LEVEL", c.LogLevel)
	c.MinBackoff = getEnvDuration("CREALINK_MIN_BACKOFF", c.MinBackoff)
	c.MaxBackoff = getEnvDuration("CREALINK_MAX_BACKOFF", c.MaxBackoff)
	c.HeartbeatInterval = getEnvDuration("CREALINK_HEARTBEAT_INTERVAL", c.HeartbeatInterval)
	c.StaleAfter = getEnvDuration("CREALINK_STALE_AFTER", c.StaleAfter)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback Duration) Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return Duration(d)
		}
	}
	return fallback
}
