package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"storefront/pkg/logger"
)

// Client is one WebSocket connection. UserID is empty for anonymous
// storefront connections, which only receive global broadcasts.
type Client struct {
	UserID string
	Admin  bool
	Conn   *websocket.Conn
	Send   chan []byte
}

type clientMessage struct {
	Type string `json:"type"`
}

// ReadPump drains inbound frames until the connection drops. The protocol is
// push-oriented; the only client-initiated frame we answer is a ping.
func (c *Client) ReadPump(h *Hub) {
	defer func() {
		h.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket: read error for %s: %v", c.UserID, err)
			}
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug("websocket: ignoring malformed frame from %s", c.UserID)
			continue
		}

		switch msg.Type {
		case "ping":
			pong, _ := json.Marshal(Event{
				Type:      "pong",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			select {
			case c.Send <- pong:
			default:
			}
		default:
			logger.Debug("websocket: unknown frame type %q from %s", msg.Type, c.UserID)
		}
	}
}

func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		data, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Warn("websocket: write error for %s: %v", c.UserID, err)
			return
		}
	}
}
