// Package reconcile keeps a client-side chat log consistent while sends are
// in flight. A message is shown optimistically as soon as the user hits send,
// then merged with the authoritative copy when the server's fan-out echo
// arrives. Because the echo and the send response race arbitrarily, incoming
// events are de-duplicated before they are appended.
package reconcile

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// How far an incoming event's timestamp may drift from a pending
	// optimistic entry and still be treated as its echo.
	optimisticWindow = 10 * time.Second
	// Tighter tolerance for spotting a duplicate of an already-confirmed
	// message.
	confirmedWindow = 5 * time.Second
)

// Message is one visible entry in the client's log.
type Message struct {
	ID         string
	ClientKey  string
	Sender     string
	SenderName string
	Body       string
	CreatedAt  time.Time
	Optimistic bool
}

// Log is the reconciling message buffer for a single thread. Safe for
// concurrent use.
type Log struct {
	mu       sync.Mutex
	messages []Message
	now      func() time.Time
}

func NewLog() *Log {
	return &Log{now: time.Now}
}

// SendOptimistic appends a provisional entry for a message the user just
// composed and returns its temporary id along with the idempotency key to
// submit with the real send.
func (l *Log) SendOptimistic(sender, senderName, body string) (tempID, clientKey string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tempID = "tmp-" + uuid.New().String()
	clientKey = uuid.New().String()

	l.messages = append(l.messages, Message{
		ID:         tempID,
		ClientKey:  clientKey,
		Sender:     sender,
		SenderName: senderName,
		Body:       body,
		CreatedAt:  l.now(),
		Optimistic: true,
	})

	return tempID, clientKey
}

// Confirm swaps the optimistic entry for the server's authoritative copy
// after a successful send.
func (l *Log) Confirm(tempID string, confirmed Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.messages {
		if l.messages[i].ID == tempID {
			confirmed.Optimistic = false
			l.messages[i] = confirmed
			return
		}
	}
	// Echo already reconciled the entry; nothing left to confirm.
}

// Fail removes a provisional entry after a failed send and returns its body
// so the compose box can be restored.
func (l *Log) Fail(tempID string) (body string, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.messages {
		if l.messages[i].ID == tempID {
			body = l.messages[i].Body
			l.messages = append(l.messages[:i], l.messages[i+1:]...)
			return body, true
		}
	}
	return "", false
}

// Apply folds a fan-out event into the log. The sender's own message comes
// back over the wire too, so every event is checked against existing entries:
// a matching idempotency key or a close-enough optimistic entry replaces it
// in place, a known duplicate is dropped, anything else is appended.
func (l *Log) Apply(incoming Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	incoming.Optimistic = false

	// Idempotency key match is exact, no timestamp guessing needed.
	if incoming.ClientKey != "" {
		for i := range l.messages {
			if l.messages[i].ClientKey == incoming.ClientKey {
				if l.messages[i].Optimistic {
					l.messages[i] = incoming
				}
				return
			}
		}
	}

	// Fallback for events without a key: match a pending optimistic entry by
	// sender and body within the wide window.
	for i := range l.messages {
		m := &l.messages[i]
		if m.Optimistic && m.Sender == incoming.Sender && sameBody(m.Body, incoming.Body) &&
			within(m.CreatedAt, incoming.CreatedAt, optimisticWindow) {
			l.messages[i] = incoming
			return
		}
	}

	// Already-confirmed duplicate: same id, or same sender and body inside
	// the tight window.
	for i := range l.messages {
		m := &l.messages[i]
		if m.Optimistic {
			continue
		}
		if m.ID == incoming.ID {
			return
		}
		if m.Sender == incoming.Sender && sameBody(m.Body, incoming.Body) &&
			within(m.CreatedAt, incoming.CreatedAt, confirmedWindow) {
			return
		}
	}

	l.messages = append(l.messages, incoming)
}

// Messages returns a snapshot of the current log.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Pending reports how many entries are still waiting on confirmation.
func (l *Log) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for i := range l.messages {
		if l.messages[i].Optimistic {
			n++
		}
	}
	return n
}

func sameBody(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

func within(a, b time.Time, window time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= window
}

// String renders the log for debugging.
func (l *Log) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var sb strings.Builder
	for i := range l.messages {
		m := &l.messages[i]
		flag := " "
		if m.Optimistic {
			flag = "?"
		}
		fmt.Fprintf(&sb, "[%s]%s %s: %s\n", m.ID, flag, m.Sender, m.Body)
	}
	return sb.String()
}
