package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the order lifecycle. Status only moves forward:
// pending to completed, or completed to refunded.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// Order tracks a payment attempt for one cart snapshot. At most one checkout
// session reference and one payment intent reference, each globally unique.
type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	UserID          uuid.UUID   `json:"userId" db:"user_id"`
	CartID          uuid.UUID   `json:"cartId" db:"cart_id"`
	TotalAmount     float64     `json:"totalAmount" db:"total_amount"`
	Status          OrderStatus `json:"status" db:"status"`
	PaymentIntentID *string     `json:"paymentIntentId,omitempty" db:"stripe_payment_intent_id"`
	SessionID       *string     `json:"sessionId,omitempty" db:"stripe_session_id"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// CheckoutRequest names the cart to pay for.
type CheckoutRequest struct {
	CartID uuid.UUID `json:"cartId"`
}

// CheckoutSessionResponse is returned after creating a hosted checkout session.
type CheckoutSessionResponse struct {
	SessionID      string `json:"sessionId"`
	PublishableKey string `json:"publishableKey"`
}

// PaymentIntentResponse is returned after creating a raw payment intent for
// custom payment forms.
type PaymentIntentResponse struct {
	ClientSecret   string `json:"clientSecret"`
	PublishableKey string `json:"publishableKey"`
}

// VerifySessionRequest asks for synchronous confirmation of a checkout session.
type VerifySessionRequest struct {
	SessionID string `json:"sessionId"`
}

// VerifySessionResponse reports the outcome of a verification call. Updated
// is false when the order had already been settled, the idempotence guard
// against duplicate confirmation delivery.
type VerifySessionResponse struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
	Updated       bool   `json:"updated"`
}
