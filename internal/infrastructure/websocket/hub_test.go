package websocket

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID string, admin bool) *Client {
	return &Client{
		UserID: userID,
		Admin:  admin,
		Send:   make(chan []byte, 256),
	}
}

// register pushes clients through the hub's loop. A trailing barrier client
// guarantees every earlier registration has been processed: the unbuffered
// Register channel only accepts the barrier after the loop finished the
// previous add.
func register(h *Hub, clients ...*Client) {
	for _, c := range clients {
		h.Register <- c
	}
	h.Register <- newTestClient("", false)
}

func received(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.Send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	default:
		t.Fatal("expected an event, send buffer is empty")
		return Event{}
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected event delivered: %s", data)
	default:
	}
}

func TestPublishToUserTargetsAllOfTheirConnections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	h.Start(ctx)

	aliceTab1 := newTestClient("u1", false)
	aliceTab2 := newTestClient("u1", false)
	bob := newTestClient("u2", false)
	register(h, aliceTab1, aliceTab2, bob)

	h.PublishToUser("u1", EventChatMessage, map[string]string{"hello": "alice"})

	event := received(t, aliceTab1)
	assert.Equal(t, EventChatMessage, event.Type)
	received(t, aliceTab2)
	assertSilent(t, bob)
}

func TestPublishToAdminsOnlyReachesAdmins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	h.Start(ctx)

	admin := newTestClient("adm1", true)
	user := newTestClient("u1", false)
	register(h, admin, user)

	h.PublishToAdmins(EventOrderNew, map[string]string{"order": "ord-1"})

	event := received(t, admin)
	assert.Equal(t, EventOrderNew, event.Type)
	assertSilent(t, user)
}

func TestBroadcastReachesEveryone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	h.Start(ctx)

	admin := newTestClient("adm1", true)
	user := newTestClient("u1", false)
	anonymous := newTestClient("", false)
	register(h, admin, user, anonymous)

	h.Broadcast(EventStockUpdate, StockUpdatePayload{ProductID: "p1", NewStock: 4})

	for _, c := range []*Client{admin, user, anonymous} {
		event := received(t, c)
		assert.Equal(t, EventStockUpdate, event.Type)
	}
}

// Publishing while clients disconnect must never send on a closed channel.
// The hub loop churns connections through Register/Unregister while the main
// goroutine keeps publishing; any close/send race panics the test.
func TestPublishDuringDisconnectDoesNotPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	h.Start(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			c := newTestClient("u1", true)
			h.Register <- c
			h.Unregister <- c
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
			h.PublishToUser("u1", EventChatMessage, map[string]string{"seq": "x"})
			h.Broadcast(EventStockUpdate, StockUpdatePayload{ProductID: "p1", NewStock: 1})
		}
	}
}

func TestSlowClientIsDroppedNotWaitedOn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	h.Start(ctx)

	stuck := &Client{UserID: "u1", Send: make(chan []byte)} // no reader, no buffer
	healthy := newTestClient("u2", false)
	register(h, stuck, healthy)

	// Must return immediately despite the unreadable client.
	h.Broadcast(EventStockUpdate, StockUpdatePayload{ProductID: "p1", NewStock: 0})

	received(t, healthy)

	// The stuck client was evicted: its channel is closed and later
	// publishes no longer consider it.
	_, open := <-stuck.Send
	assert.False(t, open)
}
