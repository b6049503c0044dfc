package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/telesim/dispatch"
	"github.com/telesim/dispatch/telegram"
)

var (
	// ErrNoToken indicates the routing configuration has no bot token.
	ErrNoToken = errors.New("pipeline: no bot token configured")
	// ErrNoChannel indicates the routing configuration maps no chat to the
	// job's slot.
	ErrNoChannel = errors.New("pipeline: no channel configured for slot")
)

// Messenger is the single-attempt send primitive the Sender delivers through.
type Messenger interface {
	// SendMessage posts text to the chat identified by chatID.
	SendMessage(ctx context.Context, token, chatID, text string) error
}

// Sender is the dispatch.Handler that delivers one job. The routing
// configuration is read fresh on every attempt; a missing token or slot
// mapping fails the job before any network call.
type Sender struct {
	settings SettingsProvider
	client   Messenger
}

// NewSender constructs a Sender.
func NewSender(settings SettingsProvider, client Messenger) *Sender {
	if settings == nil {
		panic("pipeline: nil SettingsProvider")
	}
	if client == nil {
		panic("pipeline: nil Messenger")
	}

	return &Sender{settings: settings, client: client}
}

var _ dispatch.Handler = (*Sender)(nil)

// Handle implements dispatch.Handler.
func (s *Sender) Handle(ctx context.Context, job dispatch.Job) error {
	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: read settings: %w", err)
	}

	if settings.BotToken == "" {
		return ErrNoToken
	}

	chatID, ok := settings.ChannelBySlot[job.Slot]
	if !ok || chatID == "" {
		return fmt.Errorf("%w: slot %d", ErrNoChannel, job.Slot)
	}

	return s.client.SendMessage(ctx, settings.BotToken, chatID, job.Text)
}

// ClassifyFailure is the dispatch.FailureClassifier for delivery errors:
// configuration errors and fatal API responses abandon the job, everything
// else (timeouts, resets, 429, 5xx) retries.
func ClassifyFailure(_ context.Context, _ dispatch.Job, err error) dispatch.FailureAction {
	if errors.Is(err, ErrNoToken) || errors.Is(err, ErrNoChannel) || errors.Is(err, telegram.ErrFatal) {
		return dispatch.FailureAbandon
	}

	return dispatch.FailureRetry
}
