package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"storefront/pkg/logger"
)

// Hub tracks connections across two logical channel kinds: one channel per
// user ("user:<id>") and a single admin broadcast channel. A user may hold
// several connections (two tabs, phone and laptop); all of them receive the
// user channel's events. Delivery is at-most-once: a slow client is dropped,
// never waited on, and missed events are not replayed.
type Hub struct {
	clients map[*Client]bool
	users   map[string]map[*Client]bool
	admins  map[*Client]bool

	Register   chan *Client
	Unregister chan *Client

	mutex sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		users:      make(map[string]map[*Client]bool),
		admins:     make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the hub's registration loop until the context is cancelled.
func (h *Hub) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-h.Register:
				h.add(client)
				logger.Info("websocket: client registered (user=%s admin=%v)", client.UserID, client.Admin)

			case client := <-h.Unregister:
				h.remove(client)
				logger.Info("websocket: client unregistered (user=%s)", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

func (h *Hub) add(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	if client.UserID != "" {
		if h.users[client.UserID] == nil {
			h.users[client.UserID] = make(map[*Client]bool)
		}
		h.users[client.UserID][client] = true
	}
	if client.Admin {
		h.admins[client] = true
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeLocked(client)
}

// removeLocked drops a client from every channel map and closes its send
// channel. Must be called with the write lock held; publishers send under the
// read lock, which keeps the close from ever racing a send.
func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	delete(h.admins, client)
	if peers, ok := h.users[client.UserID]; ok {
		delete(peers, client)
		if len(peers) == 0 {
			delete(h.users, client.UserID)
		}
	}
	close(client.Send)
}

// PublishToUser pushes an event onto a single user's channel. The sender's
// own connections receive the echo too; clients de-duplicate.
func (h *Hub) PublishToUser(userID, event string, payload interface{}) {
	data, ok := marshalEvent(event, payload)
	if !ok {
		return
	}

	h.mutex.RLock()
	stalled := deliverAll(h.users[userID], data)
	h.mutex.RUnlock()

	h.dropStalled(stalled)
}

// PublishToAdmins pushes an event onto the admin broadcast channel.
func (h *Hub) PublishToAdmins(event string, payload interface{}) {
	data, ok := marshalEvent(event, payload)
	if !ok {
		return
	}

	h.mutex.RLock()
	stalled := deliverAll(h.admins, data)
	h.mutex.RUnlock()

	h.dropStalled(stalled)
}

// Broadcast pushes an event to every connected client, admin or not. Used
// for stock updates so storefront pages reflect quantities without polling.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, ok := marshalEvent(event, payload)
	if !ok {
		return
	}

	h.mutex.RLock()
	stalled := deliverAll(h.clients, data)
	h.mutex.RUnlock()

	h.dropStalled(stalled)
}

// deliverAll pushes data to every target without blocking. Callers must hold
// the hub lock (read is enough): remove closes Send under the write lock, so
// a send here can never race a close. Clients whose buffers are full are
// returned for eviction.
func deliverAll(targets map[*Client]bool, data []byte) []*Client {
	var stalled []*Client
	for client := range targets {
		select {
		case client.Send <- data:
		default:
			stalled = append(stalled, client)
		}
	}
	return stalled
}

func (h *Hub) dropStalled(stalled []*Client) {
	for _, client := range stalled {
		logger.Warn("websocket: client %s send buffer full, dropping connection", client.UserID)
		h.mutex.Lock()
		h.removeLocked(client)
		h.mutex.Unlock()
	}
}

func marshalEvent(event string, payload interface{}) ([]byte, bool) {
	data, err := json.Marshal(Event{
		Type:      event,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("websocket: failed to marshal %s event: %v", event, err)
		return nil, false
	}
	return data, true
}
