package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/telesim/dispatch"
	"github.com/telesim/dispatch/telegram"
)

type staticSettings struct {
	settings Settings
	err      error
	reads    int
}

func (s *staticSettings) Settings(context.Context) (Settings, error) {
	s.reads++
	return s.settings, s.err
}

type fakeMessenger struct {
	calls int
	token string
	chat  string
	text  string
	err   error
}

func (m *fakeMessenger) SendMessage(_ context.Context, token, chatID, text string) error {
	m.calls++
	m.token = token
	m.chat = chatID
	m.text = text
	return m.err
}

func job(slot int) dispatch.Job {
	return dispatch.Job{Slot: slot, Text: "hello"}
}

func TestSenderDelivers(t *testing.T) {
	messenger := &fakeMessenger{}
	sender := NewSender(&staticSettings{settings: Settings{
		BotToken:      "tok",
		ChannelBySlot: map[int]string{1: "-100"},
	}}, messenger)

	if err := sender.Handle(context.Background(), job(1)); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if messenger.token != "tok" || messenger.chat != "-100" || messenger.text != "hello" {
		t.Fatalf("SendMessage called with (%q, %q, %q)", messenger.token, messenger.chat, messenger.text)
	}
}

func TestSenderMissingTokenFailsBeforeNetwork(t *testing.T) {
	messenger := &fakeMessenger{}
	sender := NewSender(&staticSettings{settings: Settings{
		ChannelBySlot: map[int]string{1: "-100"},
	}}, messenger)

	err := sender.Handle(context.Background(), job(1))
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("Handle err = %v, want ErrNoToken", err)
	}
	if messenger.calls != 0 {
		t.Fatal("SendMessage was called despite the missing token")
	}
}

func TestSenderMissingChannelFailsBeforeNetwork(t *testing.T) {
	messenger := &fakeMessenger{}
	sender := NewSender(&staticSettings{settings: Settings{
		BotToken:      "tok",
		ChannelBySlot: map[int]string{0: "-100"},
	}}, messenger)

	err := sender.Handle(context.Background(), job(1))
	if !errors.Is(err, ErrNoChannel) {
		t.Fatalf("Handle err = %v, want ErrNoChannel", err)
	}
	if messenger.calls != 0 {
		t.Fatal("SendMessage was called despite the missing channel")
	}
}

func TestSenderReadsSettingsPerAttempt(t *testing.T) {
	settings := &staticSettings{settings: Settings{
		BotToken:      "tok",
		ChannelBySlot: map[int]string{1: "-100"},
	}}
	sender := NewSender(settings, &fakeMessenger{})

	for i := 0; i < 3; i++ {
		if err := sender.Handle(context.Background(), job(1)); err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
	}

	if settings.reads != 3 {
		t.Fatalf("settings read %d times, want once per attempt", settings.reads)
	}
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want dispatch.FailureAction
	}{
		{name: "no token", err: ErrNoToken, want: dispatch.FailureAbandon},
		{name: "no channel", err: fmt.Errorf("%w: slot 1", ErrNoChannel), want: dispatch.FailureAbandon},
		{name: "fatal api response", err: fmt.Errorf("%w: status 401", telegram.ErrFatal), want: dispatch.FailureAbandon},
		{name: "rate limited", err: fmt.Errorf("%w: status 429", telegram.ErrRetryable), want: dispatch.FailureRetry},
		{name: "transport error", err: errors.New("dial tcp: connection refused"), want: dispatch.FailureRetry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyFailure(context.Background(), dispatch.Job{}, tt.err)
			if got != tt.want {
				t.Fatalf("ClassifyFailure(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
