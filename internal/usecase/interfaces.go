package usecase

// EventPublisher pushes realtime events out to connected clients. Delivery is
// at-most-once: publishing after the durable write, never blocking on slow
// consumers.
type EventPublisher interface {
	PublishToUser(userID string, event string, payload interface{})
	PublishToAdmins(event string, payload interface{})
	Broadcast(event string, payload interface{})
}
