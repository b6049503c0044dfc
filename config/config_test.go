package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[telegram]
bot_token = "123:abc"

[channels]
"0" = "-1001"
"1" = "-1002"
"bogus" = "-1003"

[[lines]]
id = 7
slot = 0
label = "Personal"
carrier = "Acme Mobile"

[store]
dsn = "user:pass@tcp(localhost:3306)/telesim?parseTime=true"
retention = "240h"

[queue]
workers = 4
max_attempts = 5
backoff = "30s"

[ingest]
addr = ":9000"
auth_token = "secret"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, 4, cfg.Queue.Workers)
	assert.Equal(t, 5, cfg.Queue.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Queue.Backoff.Duration())
	assert.Equal(t, 240*time.Hour, cfg.Store.Retention.Duration())
	assert.Equal(t, ":9000", cfg.Ingest.Addr)
	require.Len(t, cfg.Lines, 1)
	assert.Equal(t, "Personal", cfg.Lines[0].Label)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "notification_jobs", cfg.Store.Table)
	assert.Equal(t, 2, cfg.Queue.Workers)
	assert.Equal(t, 15*time.Second, cfg.Queue.Backoff.Duration())
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("TELESIM_BOT_TOKEN", "456:env")
	t.Setenv("TELESIM_INGEST_ADDR", ":7000")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "456:env", cfg.Telegram.BotToken)
	assert.Equal(t, ":7000", cfg.Ingest.Addr)
}

func TestChannelBySlotDropsBogusKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	channels := cfg.ChannelBySlot()
	assert.Equal(t, map[int]string{0: "-1001", 1: "-1002"}, channels)
}

func TestProviderReadsFreshPerCall(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	provider := NewProvider(path)

	settings, err := provider.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "123:abc", settings.BotToken)

	updated := `
[telegram]
bot_token = "789:rotated"

[channels]
"0" = "-2001"
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	settings, err = provider.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "789:rotated", settings.BotToken)
	assert.Equal(t, map[int]string{0: "-2001"}, settings.ChannelBySlot)
}
