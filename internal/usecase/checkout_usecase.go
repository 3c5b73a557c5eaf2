package usecase

import (
	"context"
	"fmt"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	ws "storefront/internal/infrastructure/websocket"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
)

type CheckoutUseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	payment     service.PaymentService
	mail        service.MailService
	events      EventPublisher
	successURL  string
	cancelURL   string
}

func NewCheckoutUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	payment service.PaymentService,
	mail service.MailService,
	events EventPublisher,
	successURL, cancelURL string,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		payment:     payment,
		mail:        mail,
		events:      events,
		successURL:  successURL,
		cancelURL:   cancelURL,
	}
}

type CheckoutItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

type CheckoutInput struct {
	Items []CheckoutItemInput `json:"items" validate:"required,min=1,dive"`
}

type CheckoutResult struct {
	Order       *entity.Order `json:"order"`
	RedirectURL string        `json:"redirect_url"`
}

// Checkout snapshots the cart into an order, opens a hosted payment session
// and hands the redirect URL back. The order is created pending and unpaid;
// payment confirmation arrives later through the webhook.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, userID string, input CheckoutInput) (*CheckoutResult, error) {
	var items []entity.OrderItem
	var checkoutItems []service.CheckoutItem
	var amount float64

	for _, in := range input.Items {
		product, err := uc.productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < in.Quantity {
			return nil, errors.BadRequest(fmt.Sprintf("Not enough stock for %s", product.Title), nil)
		}

		// Snapshot title/price/image so later catalog edits don't rewrite
		// order history.
		items = append(items, entity.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Quantity:  in.Quantity,
			Size:      in.Size,
			Color:     in.Color,
			Image:     product.Image,
		})
		checkoutItems = append(checkoutItems, service.CheckoutItem{
			Name:     product.Title,
			Amount:   product.Price,
			Quantity: in.Quantity,
			Image:    product.Image,
		})
		amount += product.Price * float64(in.Quantity)
	}

	order := &entity.Order{
		UserID:        userID,
		Items:         items,
		Amount:        amount,
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusUnpaid,
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	customerEmail := ""
	if user, err := uc.userRepo.GetByID(ctx, userID); err == nil {
		customerEmail = user.Email
	}

	session, err := uc.payment.CreateCheckoutSession(ctx, service.CheckoutSessionRequest{
		OrderID:       order.ID,
		CustomerEmail: customerEmail,
		Items:         checkoutItems,
		SuccessURL:    uc.successURL,
		CancelURL:     uc.cancelURL,
	})
	if err != nil {
		return nil, err
	}

	order.CheckoutSessionID = session.ID
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	uc.events.PublishToAdmins(ws.EventOrderNew, ws.OrderPayload{Order: order})

	if customerEmail != "" {
		service.SendAsync(uc.mail, service.Email{
			To:       customerEmail,
			Subject:  "Your order has been received",
			Template: "order_confirmation",
			Data: map[string]interface{}{
				"order_id": order.ID,
				"amount":   order.Amount,
			},
		})
	}

	return &CheckoutResult{Order: order, RedirectURL: session.RedirectURL}, nil
}

// MarkPaid flips payment status after the gateway confirms a session. Called
// from the payment webhook; repeats are no-ops.
func (uc *CheckoutUseCase) MarkPaid(ctx context.Context, checkoutSessionID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByCheckoutSessionID(ctx, checkoutSessionID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == entity.PaymentStatusPaid {
		return order, nil
	}

	order.PaymentStatus = entity.PaymentStatusPaid
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	logger.Info("Order %s marked paid via checkout session %s", order.ID, checkoutSessionID)

	payload := ws.OrderPayload{Order: order}
	uc.events.PublishToUser(order.UserID, ws.EventOrderUpdate, payload)
	uc.events.PublishToAdmins(ws.EventOrderUpdate, payload)

	return order, nil
}
