package repository

import (
	"context"

	"storefront/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Product, int64, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error

	// DecrementStock atomically lowers the available quantity, clamped at
	// zero, and returns the resulting stock.
	DecrementStock(ctx context.Context, id string, qty int) (int, error)
	// IncrementStock atomically raises the available quantity and returns the
	// resulting stock.
	IncrementStock(ctx context.Context, id string, qty int) (int, error)
}
