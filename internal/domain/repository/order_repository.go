package repository

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByCheckoutSessionID(ctx context.Context, sessionID string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, int64, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Order, int64, error)

	// ListPendingBefore returns orders still pending whose creation predates
	// the cutoff. Used by the reminder job.
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*entity.Order, error)
}
