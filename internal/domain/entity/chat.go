package entity

import "time"

const (
	ThreadStatusActive  = "active"
	ThreadStatusPending = "pending"
	ThreadStatusClosed  = "closed"

	SenderUser  = "user"
	SenderAdmin = "admin"
)

type Attachment struct {
	URL         string `json:"url" firestore:"url"`
	Name        string `json:"name,omitempty" firestore:"name,omitempty"`
	ContentType string `json:"content_type,omitempty" firestore:"contentType,omitempty"`
}

type Message struct {
	ID         string `json:"id" firestore:"id"`
	Sender     string `json:"sender" firestore:"sender"` // "user" or "admin"
	SenderName string `json:"sender_name" firestore:"senderName"`
	Body       string `json:"body" firestore:"body"`

	// ClientKey is the client-generated idempotency key, stored verbatim and
	// echoed in fan-out events so clients can reconcile optimistic sends
	// without guessing by timestamp.
	ClientKey string `json:"client_key,omitempty" firestore:"clientKey,omitempty"`

	Attachments []Attachment `json:"attachments,omitempty" firestore:"attachments,omitempty"`
	IsRead      bool         `json:"is_read" firestore:"isRead"`
	CreatedAt   time.Time    `json:"created_at" firestore:"createdAt"`
}

// UnreadCount tracks pending-unread tallies per side of the conversation.
type UnreadCount struct {
	User  int `json:"user" firestore:"user"`
	Admin int `json:"admin" firestore:"admin"`
}

// ChatThread is the single persistent support conversation for one user.
type ChatThread struct {
	ID       string    `json:"id" firestore:"id"`
	UserID   string    `json:"user_id" firestore:"userId"`
	Messages []Message `json:"messages" firestore:"messages"`

	Status string `json:"status" firestore:"status"` // "active", "pending", "closed"

	// AssignedAdmin references a persisted admin account. The builtin support
	// admin is never stored here.
	AssignedAdmin string `json:"assigned_admin,omitempty" firestore:"assignedAdmin,omitempty"`

	UnreadCount  UnreadCount `json:"unread_count" firestore:"unreadCount"`
	LastActivity time.Time   `json:"last_activity" firestore:"lastActivity"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func IsThreadStatus(s string) bool {
	switch s {
	case ThreadStatusActive, ThreadStatusPending, ThreadStatusClosed:
		return true
	}
	return false
}

// OppositeSide returns the other party of a thread.
func OppositeSide(sender string) string {
	if sender == SenderUser {
		return SenderAdmin
	}
	return SenderUser
}
