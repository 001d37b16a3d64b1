package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
	"github.com/stripe/stripe-go/v72/webhook"
)

// stripeProcessor implements Processor against the Stripe API.
type stripeProcessor struct {
	api           *client.API
	webhookSecret string
	logger        zerolog.Logger
}

// NewStripeProcessor creates a Stripe-backed payment processor.
func NewStripeProcessor(secretKey, webhookSecret string, logger zerolog.Logger) Processor {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &stripeProcessor{
		api:           api,
		webhookSecret: webhookSecret,
		logger:        logger.With().Str("component", "stripe").Logger(),
	}
}

// CreateCheckoutSession creates a hosted checkout session.
func (p *stripeProcessor) CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, len(params.LineItems))
	for i, item := range params.LineItems {
		lineItems[i] = &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		}
	}

	sessionParams := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
		CustomerEmail:      stripe.String(params.CustomerEmail),
	}
	sessionParams.Context = ctx
	for k, v := range params.Metadata {
		sessionParams.AddMetadata(k, v)
	}

	sess, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		p.logger.Warn().Err(err).Msg("checkout session creation failed")
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	p.logger.Info().Str("session_id", sess.ID).Msg("checkout session created")

	return &CheckoutSession{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
	}, nil
}

// CreatePaymentIntent creates a payment intent for custom payment forms.
func (p *stripeProcessor) CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*PaymentIntent, error) {
	intentParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.Amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	intentParams.Context = ctx
	for k, v := range params.Metadata {
		intentParams.AddMetadata(k, v)
	}

	intent, err := p.api.PaymentIntents.New(intentParams)
	if err != nil {
		p.logger.Warn().Err(err).Msg("payment intent creation failed")
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	p.logger.Info().Str("payment_intent_id", intent.ID).Msg("payment intent created")

	return &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// GetCheckoutSession retrieves a session for synchronous verification.
func (p *stripeProcessor) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		p.logger.Warn().Err(err).Str("session_id", id).Msg("checkout session retrieval failed")
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	return &CheckoutSession{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
	}, nil
}

// VerifyWebhook authenticates a webhook delivery and decodes the event.
func (p *stripeProcessor) VerifyWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		p.logger.Warn().Err(err).Msg("webhook signature verification failed")
		return nil, fmt.Errorf("failed to verify webhook: %w", err)
	}

	return &Event{
		Type:   string(event.Type),
		Object: event.Data.Raw,
	}, nil
}

// ProviderMessage extracts the human-readable message from a Stripe error,
// falling back to the raw error text.
func ProviderMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.Msg
	}
	return err.Error()
}
