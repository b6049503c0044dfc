// Package ingest accepts classified telephony events over HTTP and
// websocket connections and feeds them into the pipeline. It is the wire
// stand-in for the platform broadcast receivers, which live outside this
// process.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/telesim/dispatch"
	"github.com/telesim/dispatch/event"
	"github.com/telesim/dispatch/line"
	"github.com/telesim/dispatch/pipeline"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// SMSEvent is the wire form of an incoming text message.
type SMSEvent struct {
	SubscriptionID int    `json:"subscription_id"`
	Sender         string `json:"sender"`
	Body           string `json:"body"`
}

// CallEvent is the wire form of a phone-state transition.
type CallEvent struct {
	SubscriptionID int    `json:"subscription_id"`
	State          string `json:"state"`
	Number         string `json:"number"`
}

// Server exposes the event intake API:
//
//	POST /v1/events/sms      one SMS event
//	POST /v1/events/call     one phone-state transition
//	GET  /v1/events/stream   websocket stream of event frames
//	GET  /v1/lines           read-only line listing
type Server struct {
	addr      string
	authToken string
	pipeline  *pipeline.Pipeline
	registry  *line.Registry
	logger    dispatch.Logger
	srv       *http.Server
}

// NewServer constructs a Server. An empty authToken disables authentication.
func NewServer(addr, authToken string, p *pipeline.Pipeline, registry *line.Registry, logger dispatch.Logger) *Server {
	if p == nil {
		panic("ingest: nil Pipeline")
	}
	if registry == nil {
		panic("ingest: nil Registry")
	}
	if logger == nil {
		logger = dispatch.NopLogger{}
	}

	return &Server{
		addr:      addr,
		authToken: authToken,
		pipeline:  p,
		registry:  registry,
		logger:    logger,
	}
}

// Handler returns the route table, exported so tests can drive it through
// httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/events/sms", s.auth(s.handleSMS))
	mux.HandleFunc("POST /v1/events/call", s.auth(s.handleCall))
	mux.HandleFunc("GET /v1/events/stream", s.auth(s.handleStream))
	mux.HandleFunc("GET /v1/lines", s.auth(s.handleLines))

	return mux
}

// Run serves the intake API until the context ends, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken != "" && r.Header.Get("Authorization") != "Bearer "+s.authToken {
			http.Error(w, "unauthorized", http.StatusUnauthorized)

			return
		}
		next(w, r)
	}
}

func (s *Server) handleSMS(w http.ResponseWriter, r *http.Request) {
	var ev SMSEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid event body", http.StatusBadRequest)

		return
	}

	if err := s.pipeline.OnSMS(r.Context(), ev.SubscriptionID, ev.Sender, ev.Body); err != nil {
		s.logger.Error("sms event rejected", "err", err)
		http.Error(w, "enqueue failed", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var ev CallEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid event body", http.StatusBadRequest)

		return
	}

	if err := s.pipeline.OnCallState(r.Context(), ev.SubscriptionID, event.CallState(ev.State), ev.Number); err != nil {
		s.logger.Error("call event rejected", "err", err)
		http.Error(w, "enqueue failed", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleLines(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.registry.Lines()); err != nil {
		s.logger.Warn("encode lines failed", "err", err)
	}
}
