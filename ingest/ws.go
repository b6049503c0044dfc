package ingest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/telesim/dispatch/event"
)

const (
	wsReadLimit    = 64 << 10
	wsPongWait     = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

// StreamFrame is one event on the websocket stream. Type selects which of
// the payloads is set: "sms" or "call".
type StreamFrame struct {
	Type string     `json:"type"`
	SMS  *SMSEvent  `json:"sms,omitempty"`
	Call *CallEvent `json:"call,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// handleStream upgrades the connection and consumes event frames until the
// peer disconnects. Malformed frames are dropped without closing the stream;
// a device agent should not lose its connection over one bad event.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)

		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	stop := make(chan struct{})
	defer close(stop)
	go s.pingLoop(conn, stop)

	s.logger.Info("event stream connected", "remote", r.RemoteAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Info("event stream closed", "remote", r.RemoteAddr, "err", err)

			return
		}

		var frame StreamFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.logger.Warn("malformed stream frame dropped", "err", err)

			continue
		}

		s.dispatchFrame(r, frame)
	}
}

func (s *Server) dispatchFrame(r *http.Request, frame StreamFrame) {
	switch {
	case frame.Type == "sms" && frame.SMS != nil:
		ev := frame.SMS
		if err := s.pipeline.OnSMS(r.Context(), ev.SubscriptionID, ev.Sender, ev.Body); err != nil {
			s.logger.Error("stream sms event rejected", "err", err)
		}
	case frame.Type == "call" && frame.Call != nil:
		ev := frame.Call
		if err := s.pipeline.OnCallState(r.Context(), ev.SubscriptionID, event.CallState(ev.State), ev.Number); err != nil {
			s.logger.Error("stream call event rejected", "err", err)
		}
	default:
		s.logger.Warn("stream frame with unknown type dropped", "type", frame.Type)
	}
}

func (s *Server) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			deadline := time.Now().Add(wsPingInterval)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
