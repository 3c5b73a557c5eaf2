package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	ws "storefront/internal/infrastructure/websocket"
	"storefront/pkg/errors"
)

type fakePaymentService struct {
	lastRequest service.CheckoutSessionRequest
	fail        bool
}

func (f *fakePaymentService) CreateCheckoutSession(ctx context.Context, req service.CheckoutSessionRequest) (*service.CheckoutSession, error) {
	if f.fail {
		return nil, errors.Upstream("Payment gateway rejected checkout session", nil)
	}
	f.lastRequest = req
	return &service.CheckoutSession{ID: "cs_test_1", RedirectURL: "https://pay.example.com/cs_test_1"}, nil
}

type fakeMailService struct {
	mu   sync.Mutex
	sent []service.Email
}

func (f *fakeMailService) Send(ctx context.Context, email service.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, email)
	return nil
}

func newCheckoutFixture(t *testing.T) (*CheckoutUseCase, *fakeOrderRepo, *fakePaymentService, *recordingEvents) {
	t.Helper()

	products := newFakeProductRepo(
		&entity.Product{ID: "p1", Title: "Hoodie", Price: 49.90, Stock: 5},
	)
	orders := newFakeOrderRepo()
	users := newFakeUserRepo(&entity.User{ID: "u1", Email: "alice@example.com", Username: "alice"})
	payment := &fakePaymentService{}
	events := &recordingEvents{}

	uc := NewCheckoutUseCase(
		orders, products, users, payment, &fakeMailService{}, events,
		"https://shop.example.com/success", "https://shop.example.com/cancel",
	)
	return uc, orders, payment, events
}

func TestCheckoutCreatesPendingUnpaidOrder(t *testing.T) {
	uc, orders, payment, events := newCheckoutFixture(t)

	result, err := uc.Checkout(context.Background(), "u1", CheckoutInput{
		Items: []CheckoutItemInput{{ProductID: "p1", Quantity: 2, Size: "M"}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPending, result.Order.Status)
	assert.Equal(t, entity.PaymentStatusUnpaid, result.Order.PaymentStatus)
	assert.Equal(t, "cs_test_1", result.Order.CheckoutSessionID)
	assert.Equal(t, "https://pay.example.com/cs_test_1", result.RedirectURL)
	assert.InDelta(t, 99.80, result.Order.Amount, 0.001)

	// Item snapshot carries title and price, not a live reference.
	require.Len(t, result.Order.Items, 1)
	assert.Equal(t, "Hoodie", result.Order.Items[0].Title)
	assert.InDelta(t, 49.90, result.Order.Items[0].Price, 0.001)
	assert.Equal(t, "M", result.Order.Items[0].Size)

	assert.Equal(t, "alice@example.com", payment.lastRequest.CustomerEmail)

	stored, err := orders.GetByID(context.Background(), result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, stored.Status)

	newOrders := events.byEvent(ws.EventOrderNew)
	require.Len(t, newOrders, 1)
	assert.Equal(t, "admins", newOrders[0].Channel)
}

func TestCheckoutRejectsInsufficientStock(t *testing.T) {
	uc, _, _, _ := newCheckoutFixture(t)

	_, err := uc.Checkout(context.Background(), "u1", CheckoutInput{
		Items: []CheckoutItemInput{{ProductID: "p1", Quantity: 99}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCheckoutSurfacesGatewayFailure(t *testing.T) {
	uc, _, payment, _ := newCheckoutFixture(t)
	payment.fail = true

	_, err := uc.Checkout(context.Background(), "u1", CheckoutInput{
		Items: []CheckoutItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UPSTREAM_ERROR"))
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	uc, _, _, events := newCheckoutFixture(t)
	ctx := context.Background()

	result, err := uc.Checkout(ctx, "u1", CheckoutInput{
		Items: []CheckoutItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	order, err := uc.MarkPaid(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, result.Order.ID, order.ID)

	updatesBefore := len(events.byEvent(ws.EventOrderUpdate))

	// Webhook redelivery must not emit a second round of events.
	_, err = uc.MarkPaid(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Len(t, events.byEvent(ws.EventOrderUpdate), updatesBefore)
}
