package usecase

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	ws "storefront/internal/infrastructure/websocket"
)

type ProductUseCase struct {
	productRepo repository.ProductRepository
	events      EventPublisher
}

func NewProductUseCase(productRepo repository.ProductRepository, events EventPublisher) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		events:      events,
	}
}

type ProductInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price" validate:"required,min=0"`
	Image       string   `json:"image,omitempty" validate:"omitempty,url"`
	Categories  []string `json:"categories,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Stock       int      `json:"stock" validate:"min=0"`
}

func (uc *ProductUseCase) Create(ctx context.Context, input ProductInput) (*entity.Product, error) {
	product := &entity.Product{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		Categories:  input.Categories,
		Sizes:       input.Sizes,
		Colors:      input.Colors,
		Stock:       input.Stock,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

func (uc *ProductUseCase) List(ctx context.Context, category, sort string, limit, offset int) ([]*entity.Product, int64, error) {
	filter := map[string]interface{}{}
	if category != "" {
		filter["categories"] = category
	}
	return uc.productRepo.List(ctx, filter, sort, limit, offset)
}

func (uc *ProductUseCase) Update(ctx context.Context, id string, input ProductInput) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousStock := product.Stock

	product.Title = input.Title
	product.Description = input.Description
	product.Price = input.Price
	product.Image = input.Image
	product.Categories = input.Categories
	product.Sizes = input.Sizes
	product.Colors = input.Colors
	product.Stock = input.Stock

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	// Manual stock corrections reach storefronts the same way order-driven
	// changes do.
	if product.Stock != previousStock {
		uc.events.Broadcast(ws.EventStockUpdate, ws.StockUpdatePayload{
			ProductID:    product.ID,
			ProductTitle: product.Title,
			NewStock:     product.Stock,
		})
	}

	return product, nil
}

func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.productRepo.Delete(ctx, id)
}
