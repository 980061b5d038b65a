package config

import (
	"errors"
	"time"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	HistoryLimit      int           `mapstructure:"history_limit" yaml:"history_limit"`
	MaxMessageLen     int           `mapstructure:"max_message_len" yaml:"max_message_len"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval" yaml:"heartbeat_interval"`
	HeartbeatGrace    time.Duration `mapstructure:"heartbeat_grace" yaml:"heartbeat_grace"`
	SweepInterval     time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`
	RoomRetention     time.Duration `mapstructure:"room_retention" yaml:"room_retention"`
	MessagesPerMinute int           `mapstructure:"messages_per_minute" yaml:"messages_per_minute"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		HistoryLimit:      100,
		MaxMessageLen:     1000,
		HeartbeatInterval: 30 * time.Second,
		HeartbeatGrace:    5 * time.Second,
		SweepInterval:     time.Hour,
		RoomRetention:     24 * time.Hour,
		MessagesPerMinute: 60,
	}
}

// Validate rejects configurations the relay cannot run with.
func Validate(cfg Config) error {
	if cfg.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if cfg.HistoryLimit <= 0 {
		return errors.New("history_limit must be positive")
	}
	if cfg.MaxMessageLen <= 0 {
		return errors.New("max_message_len must be positive")
	}
	if cfg.HeartbeatInterval <= 0 {
		return errors.New("heartbeat_interval must be positive")
	}
	if cfg.HeartbeatGrace <= 0 {
		return errors.New("heartbeat_grace must be positive")
	}
	if cfg.SweepInterval <= 0 {
		return errors.New("sweep_interval must be positive")
	}
	if cfg.RoomRetention <= 0 {
		return errors.New("room_retention must be positive")
	}
	return nil
}
