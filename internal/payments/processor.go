package payments

import (
	"context"
	"encoding/json"
)

// LineItem is a priced line presented to the payment processor.
type LineItem struct {
	Name       string
	UnitAmount int64 // minor currency units
	Quantity   int64
}

// CreateSessionParams are the inputs for a hosted checkout session.
type CreateSessionParams struct {
	LineItems     []LineItem
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CreateIntentParams are the inputs for a raw payment intent.
type CreateIntentParams struct {
	Amount   int64 // minor currency units
	Metadata map[string]string
}

// CheckoutSession is a processor-hosted checkout session.
type CheckoutSession struct {
	ID            string
	PaymentStatus string
}

// Paid reports whether the processor considers the session paid.
func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == "paid"
}

// PaymentIntent is a processor payment intent for custom payment forms.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// Webhook event types dispatched by the confirmation flow.
const (
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
	EventCheckoutCompleted      = "checkout.session.completed"
	EventChargeRefunded         = "charge.refunded"
)

// Event is a verified webhook event. Object holds the raw event payload for
// type-specific decoding.
type Event struct {
	Type   string
	Object json.RawMessage
}

// Processor abstracts the three external payment operations this system
// depends on: session/intent creation, session retrieval, and webhook
// event verification.
type Processor interface {
	// CreateCheckoutSession creates a hosted checkout session.
	CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error)

	// CreatePaymentIntent creates a payment intent for custom payment forms.
	CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*PaymentIntent, error)

	// GetCheckoutSession retrieves a session for synchronous verification.
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)

	// VerifyWebhook authenticates a webhook delivery against the shared
	// secret and returns the decoded event. An error means the payload or
	// signature could not be verified and no domain logic may run.
	VerifyWebhook(payload []byte, signature string) (*Event, error)
}
