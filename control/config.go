// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Configuration loading: TOML file first, environment overrides second.
// The result seeds the api.Settings blob every session inherits.

package control

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/momentics/hioload-quic/api"
)

// Config holds the tunables of the session layer.
type Config struct {
	AppName string `toml:"app_name" env:"HQ_APP_NAME"`

	IdleTimeoutMs          uint64 `toml:"idle_timeout_ms" env:"HQ_IDLE_TIMEOUT_MS"`
	HandshakeIdleTimeoutMs uint64 `toml:"handshake_idle_timeout_ms" env:"HQ_HANDSHAKE_IDLE_TIMEOUT_MS"`
	PeerBidiStreamCount    uint16 `toml:"peer_bidi_stream_count" env:"HQ_PEER_BIDI_STREAM_COUNT"`
	PeerUnidiStreamCount   uint16 `toml:"peer_unidi_stream_count" env:"HQ_PEER_UNIDI_STREAM_COUNT"`
	KeepAliveIntervalMs    uint32 `toml:"keep_alive_interval_ms" env:"HQ_KEEP_ALIVE_INTERVAL_MS"`
	PacingEnabled          bool   `toml:"pacing_enabled" env:"HQ_PACING_ENABLED"`
	SendBufferingEnabled   bool   `toml:"send_buffering_enabled" env:"HQ_SEND_BUFFERING_ENABLED"`

	EnableMetrics bool `toml:"enable_metrics" env:"HQ_ENABLE_METRICS"`
	EnableDebug   bool `toml:"enable_debug" env:"HQ_ENABLE_DEBUG"`
}

// DefaultConfig returns sane defaults supporting typical use without
// extensive tuning.
func DefaultConfig() *Config {
	return &Config{
		AppName:              "hioload-quic",
		IdleTimeoutMs:        30_000,
		PeerBidiStreamCount:  100,
		PeerUnidiStreamCount: 3,
		PacingEnabled:        true,
		SendBufferingEnabled: true,
		EnableMetrics:        true,
		EnableDebug:          true,
	}
}

// Load builds a Config from defaults, an optional TOML file, and
// environment overrides, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("control: load %s: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("control: env overrides: %w", err)
	}
	return cfg, nil
}

// Settings converts the configuration into the inherited settings blob.
// Only explicitly configured fields are flagged as set.
func (c *Config) Settings() api.Settings {
	s := api.Settings{
		PacingEnabled:        c.PacingEnabled,
		SendBufferingEnabled: c.SendBufferingEnabled,
	}
	if c.IdleTimeoutMs != 0 {
		s.SetIdleTimeout = true
		s.IdleTimeoutMs = c.IdleTimeoutMs
	}
	if c.HandshakeIdleTimeoutMs != 0 {
		s.SetHandshakeIdleTimeout = true
		s.HandshakeIdleTimeoutMs = c.HandshakeIdleTimeoutMs
	}
	if c.PeerBidiStreamCount != 0 {
		s.SetPeerBidiStreamCount = true
		s.PeerBidiStreamCount = c.PeerBidiStreamCount
	}
	if c.PeerUnidiStreamCount != 0 {
		s.SetPeerUnidiStreamCount = true
		s.PeerUnidiStreamCount = c.PeerUnidiStreamCount
	}
	if c.KeepAliveIntervalMs != 0 {
		s.SetKeepAlive = true
		s.KeepAliveIntervalMs = c.KeepAliveIntervalMs
	}
	return s
}
