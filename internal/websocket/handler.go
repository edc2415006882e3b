package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// Greeting builds the first message a new connection receives, usually a
// snapshot of current state. It may return nil to send nothing.
type Greeting func(r *http.Request) *Message

// HandleWebSocket returns an HTTP handler that upgrades connections to WebSocket
// and runs them as Hub clients.
func HandleWebSocket(hub *Hub, greet Greeting, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // presentation layer runs on another local origin
		})
		if err != nil {
			logger.Warn("websocket accept failed", "error", err)
			return
		}

		client := NewClient(hub, conn)
		if greet != nil {
			if msg := greet(r); msg != nil {
				data, err := json.Marshal(msg)
				if err == nil {
					client.send <- data
				}
			}
		}
		client.Run(r.Context())
	}
}
