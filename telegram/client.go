// Package telegram sends notification text through the Telegram bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	defaultTimeout = 10 * time.Second

	maxResponseBody = 64 << 10
)

var (
	// ErrRetryable marks failures expected to resolve with time
	// (rate limiting, transient server errors).
	ErrRetryable = errors.New("telegram: retryable send failure")
	// ErrFatal marks failures a retry cannot help with
	// (bad token, bad chat id).
	ErrFatal = errors.New("telegram: fatal send failure")
)

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// Client is a single-attempt sendMessage primitive. It classifies each HTTP
// outcome and carries no retry logic; retry and backoff belong to the
// dispatch queue.
type Client struct {
	http    *http.Client
	baseURL string
	logger  Logger
}

// Logger matches the dispatch package's structured logging hooks.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithTimeout sets the request timeout (defaults to 10s).
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithLogger sets the client logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient constructs a Client with defaults and optional settings.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: defaultBaseURL,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SendMessage posts text to the chat in HTML parse mode. It returns nil on a
// 2xx response, an error wrapping ErrRetryable on 429 and 5xx, an error
// wrapping ErrFatal on any other non-2xx status, and the raw transport error
// when the request never produced a response.
func (c *Client) SendMessage(ctx context.Context, token, chatID, text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", ErrFatal, err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrFatal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("message sent", "chat_id", chatID, "status", resp.StatusCode)

		return nil
	}

	description := readDescription(resp.Body)
	c.logger.Warn("message send failed", "chat_id", chatID, "status", resp.StatusCode, "description", description)

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d: %s", ErrRetryable, resp.StatusCode, description)
	}

	return fmt.Errorf("%w: status %d: %s", ErrFatal, resp.StatusCode, description)
}

func readDescription(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxResponseBody))
	if err != nil || len(raw) == 0 {
		return "no response body"
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Description != "" {
		return parsed.Description
	}

	return string(raw)
}
