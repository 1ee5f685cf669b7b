// Package config defines the configuration structure types shared across
// the application.
package config

import "time"

// ServerConfig holds the hub HTTP server settings. The server only runs
// when the device role is POS.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig holds the embedded sqlite store settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// BackendConfig holds the remote backend settings used by the sync
// orchestrator and the connectivity checker.
type BackendConfig struct {
	BaseURL             string `mapstructure:"base_url"`
	RequestTimeoutSecs  int    `mapstructure:"request_timeout_secs"`
	ProbeTimeoutSecs    int    `mapstructure:"probe_timeout_secs"`
}

// HubConfig holds websocket keepalive tuning used on both ends of the hub
// link, the hub server and the satellite transport client.
type HubConfig struct {
	WriteWaitSecs  int `mapstructure:"write_wait_secs"`
	PongWaitSecs   int `mapstructure:"pong_wait_secs"`
	PingPeriodSecs int `mapstructure:"ping_period_secs"`
}

// WriteWait is the per-frame write deadline.
func (c HubConfig) WriteWait() time.Duration {
	return secsOr(c.WriteWaitSecs, 10*time.Second)
}

// PongWait is how long a connection may stay silent before it is dropped.
func (c HubConfig) PongWait() time.Duration {
	return secsOr(c.PongWaitSecs, 60*time.Second)
}

// PingPeriod is the keepalive ping interval. It must stay below PongWait or
// healthy connections time out between pings.
func (c HubConfig) PingPeriod() time.Duration {
	return secsOr(c.PingPeriodSecs, 30*time.Second)
}

func secsOr(secs int, fallback time.Duration) time.Duration {
	if secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

// TransportConfig holds websocket client reconnect settings.
type TransportConfig struct {
	HubURL               string `mapstructure:"hub_url"`
	MaxReconnectAttempts int    `mapstructure:"max_reconnect_attempts"`
	ReconnectDelayMs     int    `mapstructure:"reconnect_delay_ms"`
	HandshakeTimeoutSecs int    `mapstructure:"handshake_timeout_secs"`
}
