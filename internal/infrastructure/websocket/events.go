package websocket

import (
	"storefront/internal/domain/entity"
)

// Event names pushed over the wire.
const (
	EventOrderNew    = "order:new"
	EventOrderUpdate = "order:update"
	EventStockUpdate = "stock:update"
	EventChatMessage = "chat:message"
	EventChatUpdate  = "chat:update"
	EventChatDelete  = "chat:delete"
)

// Event is the envelope every fan-out payload travels in.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
}

type OrderPayload struct {
	Order *entity.Order `json:"order"`
}

type StockUpdatePayload struct {
	ProductID     string `json:"product_id"`
	NewStock      int    `json:"new_stock"`
	OrderID       string `json:"order_id"`
	ItemsSold     int    `json:"items_sold,omitempty"`
	ItemsRestored int    `json:"items_restored,omitempty"`
	ProductTitle  string `json:"product_title,omitempty"`
}

type ChatMessagePayload struct {
	ChatID      string             `json:"chat_id"`
	UserID      string             `json:"user_id"`
	Message     *entity.Message    `json:"message"`
	UnreadCount entity.UnreadCount `json:"unread_count"`
}

type ChatUpdatePayload struct {
	ChatID        string              `json:"chat_id"`
	UserID        string              `json:"user_id"`
	Status        string              `json:"status"`
	AssignedAdmin string              `json:"assigned_admin,omitempty"`
	UnreadCount   *entity.UnreadCount `json:"unread_count,omitempty"`
}

type ChatDeletePayload struct {
	ChatID string `json:"chat_id"`
	UserID string `json:"user_id"`
}
