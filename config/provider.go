package config

import (
	"context"

	"github.com/telesim/dispatch/line"
	"github.com/telesim/dispatch/pipeline"
)

// Provider adapts a config file to pipeline.SettingsProvider. The file is
// re-read on every call, so token and channel edits apply to in-flight
// retries without a restart.
type Provider struct {
	path string
}

// NewProvider constructs a Provider for the config file at path.
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

var _ pipeline.SettingsProvider = (*Provider)(nil)

// Settings implements pipeline.SettingsProvider.
func (p *Provider) Settings(_ context.Context) (pipeline.Settings, error) {
	cfg, err := Load(p.path)
	if err != nil {
		return pipeline.Settings{}, err
	}

	return pipeline.Settings{
		BotToken:      cfg.Telegram.BotToken,
		ChannelBySlot: cfg.ChannelBySlot(),
	}, nil
}

// Subscriptions converts the configured lines to line.Subscriptions.
func (c *Config) Subscriptions() []line.Subscription {
	subs := make([]line.Subscription, 0, len(c.Lines))
	for _, ln := range c.Lines {
		subs = append(subs, line.Subscription{
			ID:      ln.ID,
			Slot:    ln.Slot,
			Label:   ln.Label,
			Carrier: ln.Carrier,
			Number:  ln.Number,
		})
	}

	return subs
}
