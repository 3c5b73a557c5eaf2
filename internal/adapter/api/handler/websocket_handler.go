package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"storefront/internal/adapter/api/middleware"
	ws "storefront/internal/infrastructure/websocket"
	"storefront/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub *ws.Hub
}

func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// Connect upgrades the request and subscribes the connection to its
// channels: authenticated users get their own channel, admins additionally
// join the admin broadcast, and anonymous storefront connections only
// receive global broadcasts.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	actor := middleware.ActorFrom(c)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("websocket: upgrade failed: %v", err)
		return err
	}

	client := &ws.Client{
		UserID: actor.UserID,
		Admin:  actor.Admin,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump(h.hub)

	return nil
}
