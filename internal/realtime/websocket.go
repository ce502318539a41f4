// internal/realtime/websocket.go
package realtime

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
)

// WebSocketConn wraps websocket.Conn so hub.go does not import websocket.
type WebSocketConn struct {
	Conn *websocket.Conn
}

func NewWebSocketConn(c *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{Conn: c}
}

// Serve registers the connection for userID and pumps hub events to it
// until the peer disconnects.
func (h *Hub) Serve(c *websocket.Conn, userID uuid.UUID) {
	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Conn:   NewWebSocketConn(c),
		Send:   make(chan []byte, 256),
	}

	if !h.RegisterClient(client) {
		logger.Debug("websocket refused, hub stopped", "user_id", userID)
		_ = c.Close()
		return
	}
	defer h.UnregisterClient(client)

	go func() {
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("websocket write failed", "user_id", userID, "error", err)
				return
			}
		}
	}()

	// Reads only keep the connection alive; clients send pings.
	for {
		var payload map[string]any
		if err := c.ReadJSON(&payload); err != nil {
			logger.Debug("websocket closed", "user_id", userID, "error", err)
			return
		}
	}
}
