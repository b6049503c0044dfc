// Package config loads daemon configuration from a TOML file with
// environment variable overrides. Env vars always win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the relay daemon.
type Config struct {
	Telegram TelegramConfig    `toml:"telegram"`
	Channels map[string]string `toml:"channels"`
	Lines    []LineConfig      `toml:"lines"`
	Store    StoreConfig       `toml:"store"`
	Queue    QueueConfig       `toml:"queue"`
	Ingest   IngestConfig      `toml:"ingest"`
}

type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
}

// LineConfig describes one active subscription on the device.
type LineConfig struct {
	ID      int    `toml:"id"`
	Slot    int    `toml:"slot"`
	Label   string `toml:"label"`
	Carrier string `toml:"carrier"`
	Number  string `toml:"number"`
}

type StoreConfig struct {
	DSN          string   `toml:"dsn"`
	Table        string   `toml:"table"`
	Retention    duration `toml:"retention"`
	CleanupEvery duration `toml:"cleanup_every"`
}

type QueueConfig struct {
	Workers          int      `toml:"workers"`
	MaxAttempts      int      `toml:"max_attempts"`
	Backoff          duration `toml:"backoff"`
	NetworkProbeAddr string   `toml:"network_probe_addr"`
}

type IngestConfig struct {
	Addr      string `toml:"addr"`
	AuthToken string `toml:"auth_token"`
}

// duration parses TOML values like "15s" or "720h".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)

	return nil
}

// Duration returns the wrapped time.Duration.
func (d duration) Duration() time.Duration {
	return time.Duration(d)
}

func defaults() Config {
	return Config{
		Channels: map[string]string{},
		Store: StoreConfig{
			Table:        "notification_jobs",
			Retention:    duration(30 * 24 * time.Hour),
			CleanupEvery: duration(time.Hour),
		},
		Queue: QueueConfig{
			Workers:     2,
			MaxAttempts: 10,
			Backoff:     duration(15 * time.Second),
		},
		Ingest: IngestConfig{
			Addr: ":18792",
		},
	}
}

// Load reads configuration from the TOML file at path (if it exists) and
// applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELESIM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELESIM_STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("TELESIM_INGEST_ADDR"); v != "" {
		cfg.Ingest.Addr = v
	}
	if v := os.Getenv("TELESIM_INGEST_TOKEN"); v != "" {
		cfg.Ingest.AuthToken = v
	}
}

// ChannelBySlot converts the TOML channel table (string keys) to slot keys.
// Entries with non-numeric keys are dropped.
func (c *Config) ChannelBySlot() map[int]string {
	channels := make(map[int]string, len(c.Channels))
	for key, chatID := range c.Channels {
		slot, err := strconv.Atoi(key)
		if err != nil || chatID == "" {
			continue
		}
		channels[slot] = chatID
	}

	return channels
}
