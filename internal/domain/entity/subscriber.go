package entity

import "time"

// Subscriber is a newsletter recipient, keyed by normalized email.
type Subscriber struct {
	Email     string    `json:"email" firestore:"email"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
