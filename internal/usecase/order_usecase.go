package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	ws "storefront/internal/infrastructure/websocket"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
)

type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	events      EventPublisher
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	events EventPublisher,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
	}
}

type UpdateOrderStatusInput struct {
	Status       string
	CancelReason string
}

// Forward moves run pending -> shipped -> delivered. Cancellation is allowed
// from any non-terminal status.
var orderStatusTransitions = map[string][]string{
	entity.OrderStatusPending: {entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusShipped: {entity.OrderStatusDelivered, entity.OrderStatusCancelled},
}

func isValidOrderTransition(from, to string) bool {
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (uc *OrderUseCase) GetByID(ctx context.Context, requesterID string, isAdmin bool, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && order.UserID != requesterID {
		return nil, errors.Forbidden("Not authorized to view this order", nil)
	}

	return order, nil
}

func (uc *OrderUseCase) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, int64, error) {
	return uc.orderRepo.ListByUserID(ctx, userID, limit, offset)
}

func (uc *OrderUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.Order, int64, error) {
	filter := map[string]interface{}{}
	if status != "" {
		if !entity.IsOrderStatus(status) {
			return nil, 0, errors.BadRequest(fmt.Sprintf("Unknown order status: %s", status), nil)
		}
		filter["status"] = status
	}
	return uc.orderRepo.List(ctx, filter, limit, offset)
}

// UpdateStatus moves an order through its lifecycle and applies the matching
// stock side effects. The returned message describes what happened, including
// any stock adjustments that failed after the order itself was updated.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, orderID string, input UpdateOrderStatusInput) (*entity.Order, string, error) {
	if !entity.IsOrderStatus(input.Status) {
		return nil, "", errors.BadRequest(fmt.Sprintf("Unknown order status: %s", input.Status), nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}

	previousStatus := order.Status
	if previousStatus == input.Status {
		// Repeating the current status is an accepted no-op: nothing is
		// persisted and no stock moves a second time.
		return order, fmt.Sprintf("Order is already %s", input.Status), nil
	}
	if !isValidOrderTransition(previousStatus, input.Status) {
		return nil, "", errors.BadRequest(fmt.Sprintf("Cannot move order from %s to %s", previousStatus, input.Status), nil)
	}

	now := time.Now()
	order.Status = input.Status
	switch input.Status {
	case entity.OrderStatusShipped:
		order.ShippedAt = &now
	case entity.OrderStatusDelivered:
		order.DeliveredAt = &now
	case entity.OrderStatusCancelled:
		order.CancelledAt = &now
		if previousStatus == entity.OrderStatusShipped {
			order.CancelReason = input.CancelReason
		}
	}

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, "", err
	}

	logger.Info("Order %s moved from %s to %s", order.ID, previousStatus, order.Status)

	payload := ws.OrderPayload{Order: order}
	uc.events.PublishToUser(order.UserID, ws.EventOrderUpdate, payload)
	uc.events.PublishToAdmins(ws.EventOrderUpdate, payload)

	// Stock leaves the shelf when an order first ships and returns when a
	// shipped order is cancelled. Other transitions touch no inventory.
	message := "Order status updated"
	var failed []string
	switch {
	case input.Status == entity.OrderStatusShipped && previousStatus != entity.OrderStatusShipped:
		failed = uc.adjustStock(ctx, order, false)
		message = "Order status updated and stock adjusted"
	case input.Status == entity.OrderStatusCancelled && previousStatus == entity.OrderStatusShipped:
		failed = uc.adjustStock(ctx, order, true)
		message = "Order status updated and stock restored"
	}
	if len(failed) > 0 {
		message += fmt.Sprintf("; stock update failed for products: %s", strings.Join(failed, ", "))
	}

	return order, message, nil
}

// adjustStock updates every line item's stock concurrently. Failures are
// collected rather than aborting: the order status change has already been
// committed, so each item gets its own attempt.
func (uc *OrderUseCase) adjustStock(ctx context.Context, order *entity.Order, restore bool) []string {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed []string

	for _, item := range order.Items {
		wg.Add(1)
		go func(item entity.OrderItem) {
			defer wg.Done()

			var newStock int
			var err error
			if restore {
				newStock, err = uc.productRepo.IncrementStock(ctx, item.ProductID, item.Quantity)
			} else {
				newStock, err = uc.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
			}
			if err != nil {
				logger.Error("Stock adjustment failed for product %s on order %s: %v", item.ProductID, order.ID, err)
				mu.Lock()
				failed = append(failed, item.ProductID)
				mu.Unlock()
				return
			}

			payload := ws.StockUpdatePayload{
				ProductID:    item.ProductID,
				ProductTitle: item.Title,
				NewStock:     newStock,
				OrderID:      order.ID,
			}
			if restore {
				payload.ItemsRestored = item.Quantity
			} else {
				payload.ItemsSold = item.Quantity
			}
			uc.events.Broadcast(ws.EventStockUpdate, payload)
		}(item)
	}

	wg.Wait()
	return failed
}
