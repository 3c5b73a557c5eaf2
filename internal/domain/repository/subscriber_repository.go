package repository

import (
	"context"

	"storefront/internal/domain/entity"
)

// SubscriberRepository is a persisted set keyed by normalized email. Add and
// Remove are idempotent.
type SubscriberRepository interface {
	Add(ctx context.Context, subscriber *entity.Subscriber) error
	Remove(ctx context.Context, email string) error
	Exists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*entity.Subscriber, error)
}
