package entity

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"

	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// OrderItem carries a snapshot of the product at order time. Title and price
// are copied in so historical orders are unaffected by later product edits.
type OrderItem struct {
	ProductID string  `json:"product_id" firestore:"productId"`
	Title     string  `json:"title" firestore:"title"`
	Price     float64 `json:"price" firestore:"price"`
	Quantity  int     `json:"quantity" firestore:"quantity"`
	Size      string  `json:"size,omitempty" firestore:"size,omitempty"`
	Color     string  `json:"color,omitempty" firestore:"color,omitempty"`
	Image     string  `json:"image,omitempty" firestore:"image,omitempty"`
}

type Order struct {
	ID     string      `json:"id" firestore:"id"`
	UserID string      `json:"user_id" firestore:"userId"`
	Items  []OrderItem `json:"items" firestore:"items"`
	Amount float64     `json:"amount" firestore:"amount"`

	Status        string `json:"status" firestore:"status"`
	PaymentStatus string `json:"payment_status" firestore:"paymentStatus"`

	// CancelReason is set only when the order is cancelled out of "shipped".
	CancelReason string `json:"cancel_reason,omitempty" firestore:"cancelReason,omitempty"`

	CheckoutSessionID string `json:"checkout_session_id,omitempty" firestore:"checkoutSessionId,omitempty"`

	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty" firestore:"shippedAt,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty" firestore:"deliveredAt,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" firestore:"cancelledAt,omitempty"`
}

func IsOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func IsTerminalOrderStatus(s string) bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}
