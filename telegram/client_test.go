package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageSuccess(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	err := client.SendMessage(context.Background(), "token123", "-100555", "<b>hi</b>")

	require.NoError(t, err)
	assert.Equal(t, "/bottoken123/sendMessage", gotPath)
	assert.Equal(t, "-100555", gotBody["chat_id"])
	assert.Equal(t, "<b>hi</b>", gotBody["text"])
	assert.Equal(t, "HTML", gotBody["parse_mode"])
}

func TestSendMessageClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, want: ErrRetryable},
		{name: "server error", status: http.StatusBadGateway, want: ErrRetryable},
		{name: "internal error", status: http.StatusInternalServerError, want: ErrRetryable},
		{name: "bad token", status: http.StatusUnauthorized, want: ErrFatal},
		{name: "bad chat id", status: http.StatusBadRequest, want: ErrFatal},
		{name: "not found", status: http.StatusNotFound, want: ErrFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"ok":false,"description":"boom"}`))
			}))
			defer server.Close()

			client := NewClient(WithBaseURL(server.URL))
			err := client.SendMessage(context.Background(), "t", "c", "x")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSendMessageIncludesAPIDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	err := client.SendMessage(context.Background(), "t", "c", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendMessageTransportErrorIsNotFatal(t *testing.T) {
	client := NewClient(WithBaseURL("http://127.0.0.1:0"))
	err := client.SendMessage(context.Background(), "t", "c", "x")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrFatal))
	assert.False(t, errors.Is(err, ErrRetryable))
}

func TestSendMessageTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
	err := client.SendMessage(context.Background(), "t", "c", "x")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrFatal))
}
