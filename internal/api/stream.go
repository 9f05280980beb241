package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/statecraft/internal/engine"
)

const (
	streamBuffer = 32
	writeWait    = 5 * time.Second
	pingInterval = 20 * time.Second
	readDeadline = 60 * time.Second
)

// streamMessage is one frame on the notification stream.
type streamMessage struct {
	engine.Notification
	Treasury       int     `json:"treasury"`
	Stability      int     `json:"stability"`
	PoliticalPower int     `json:"political_power"`
	PlayerSupport  float64 `json:"player_support"`
}

// handleStream upgrades to a WebSocket and forwards session notifications
// with a short state summary.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if n := s.streamConns.Add(1); n > maxStreamConns {
		s.streamConns.Add(-1)
		writeError(w, http.StatusServiceUnavailable, "too many stream connections")
		return
	}
	defer s.streamConns.Add(-1)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ch, cancel := s.Session.Subscribe(streamBuffer)
	defer cancel()
	slog.Info("stream client connected", "remote", r.RemoteAddr)

	// Reader: only pongs and close frames are expected.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(readDeadline))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case n, ok := <-ch:
			if !ok {
				return
			}
			b, err := json.Marshal(s.summarize(n))
			if err != nil {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			slog.Info("stream client disconnected", "remote", r.RemoteAddr)
			return
		}
	}
}

func (s *Server) summarize(n engine.Notification) streamMessage {
	msg := streamMessage{Notification: n}
	if st := s.Session.State(); st != nil {
		msg.Treasury = st.Country.Treasury
		msg.Stability = st.Country.Stability
		msg.PoliticalPower = st.PlayerStats.PoliticalPower
		if p := st.Player(); p != nil {
			msg.PlayerSupport = p.Support
		}
	}
	return msg
}
