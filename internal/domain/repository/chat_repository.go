package repository

import (
	"context"

	"storefront/internal/domain/entity"
)

// ThreadAggregates summarizes the admin console's header counts.
type ThreadAggregates struct {
	ByStatus    map[string]int64
	AdminUnread int64
}

type ChatThreadRepository interface {
	Create(ctx context.Context, thread *entity.ChatThread) error
	GetByID(ctx context.Context, id string) (*entity.ChatThread, error)
	GetByUserID(ctx context.Context, userID string) (*entity.ChatThread, error)
	Update(ctx context.Context, thread *entity.ChatThread) error
	Delete(ctx context.Context, id string) error

	// List returns threads sorted by lastActivity descending, optionally
	// filtered by status.
	List(ctx context.Context, status string, limit, offset int) ([]*entity.ChatThread, int64, error)
	Aggregates(ctx context.Context) (*ThreadAggregates, error)
}
