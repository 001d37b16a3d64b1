package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"bookly/internal/cache"
	"bookly/internal/config"
	"bookly/internal/model"
	"bookly/internal/payments"
	"bookly/internal/repository"
	"bookly/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutSurcharge is applied to the per-line unit price presented to the
// payment processor. The stored order total does NOT include it; the
// mismatch is inherited behaviour and is preserved as-is.
const checkoutSurcharge = 0.10

// paymentService implements PaymentService.
type paymentService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	bookRepo  repository.BookRepository
	processor payments.Processor
	store     storage.Store
	cache     *cache.BookCache
	cfg       config.StripeConfig
	logger    zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	bookRepo repository.BookRepository,
	processor payments.Processor,
	store storage.Store,
	bookCache *cache.BookCache,
	cfg config.StripeConfig,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		processor: processor,
		store:     store,
		cache:     bookCache,
		cfg:       cfg,
		logger:    logger.With().Str("service", "payment").Logger(),
	}
}

// cents converts a price in major units to minor currency units.
func cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// checkoutLines computes the un-surcharged cart total and the surcharged
// line items presented to the processor.
func checkoutLines(items []model.CartItem) (float64, []payments.LineItem) {
	var total float64
	lines := make([]payments.LineItem, 0, len(items))

	for _, item := range items {
		total += item.Book.Price * float64(item.Quantity)
		lines = append(lines, payments.LineItem{
			Name:       item.Book.Title,
			UnitAmount: cents(item.Book.Price * (1 + checkoutSurcharge)),
			Quantity:   int64(item.Quantity),
		})
	}

	return total, lines
}

// loadCheckoutCart validates cart ownership and non-emptiness.
func (s *paymentService) loadCheckoutCart(ctx context.Context, userID, cartID uuid.UUID) ([]model.CartItem, error) {
	cart, err := s.cartRepo.GetByIDForUser(ctx, cartID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}

	items, err := s.cartRepo.GetItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	if len(items) == 0 {
		return nil, model.ErrCartEmpty
	}

	return items, nil
}

func checkoutMetadata(userID, cartID uuid.UUID, total float64) map[string]string {
	return map[string]string{
		"cart_id":      cartID.String(),
		"user_id":      userID.String(),
		"total_amount": strconv.FormatFloat(total, 'f', 2, 64),
	}
}

// CreateCheckoutSession starts a hosted checkout for the caller's cart.
func (s *paymentService) CreateCheckoutSession(ctx context.Context, user *model.User, cartID uuid.UUID) (*model.CheckoutSessionResponse, error) {
	items, err := s.loadCheckoutCart(ctx, user.ID, cartID)
	if err != nil {
		return nil, err
	}

	total, lines := checkoutLines(items)

	sess, err := s.processor.CreateCheckoutSession(ctx, payments.CreateSessionParams{
		LineItems:     lines,
		CustomerEmail: user.Email,
		SuccessURL:    s.cfg.SuccessURL,
		CancelURL:     s.cfg.CancelURL,
		Metadata:      checkoutMetadata(user.ID, cartID, total),
	})
	if err != nil {
		return nil, model.NewPaymentError(payments.ProviderMessage(err), err)
	}

	now := time.Now()
	order := &model.Order{
		ID:          uuid.New(),
		UserID:      user.ID,
		CartID:      cartID,
		TotalAmount: total,
		Status:      model.OrderStatusPending,
		SessionID:   &sess.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("session_id", sess.ID).
		Float64("total", total).
		Msg("checkout session created")

	return &model.CheckoutSessionResponse{
		SessionID:      sess.ID,
		PublishableKey: s.cfg.PublishableKey,
	}, nil
}

// CreatePaymentIntent starts a custom-form payment for the caller's cart,
// reusing the pending order for that cart when one exists.
func (s *paymentService) CreatePaymentIntent(ctx context.Context, user *model.User, cartID uuid.UUID) (*model.PaymentIntentResponse, error) {
	items, err := s.loadCheckoutCart(ctx, user.ID, cartID)
	if err != nil {
		return nil, err
	}

	total, _ := checkoutLines(items)

	intent, err := s.processor.CreatePaymentIntent(ctx, payments.CreateIntentParams{
		Amount:   cents(total),
		Metadata: checkoutMetadata(user.ID, cartID, total),
	})
	if err != nil {
		return nil, model.NewPaymentError(payments.ProviderMessage(err), err)
	}

	existing, err := s.orderRepo.GetPendingByCart(ctx, user.ID, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pending order: %w", err)
	}

	if existing != nil {
		if err := s.orderRepo.SetPaymentIntentID(ctx, existing.ID, intent.ID); err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
	} else {
		now := time.Now()
		order := &model.Order{
			ID:              uuid.New(),
			UserID:          user.ID,
			CartID:          cartID,
			TotalAmount:     total,
			Status:          model.OrderStatusPending,
			PaymentIntentID: &intent.ID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
	}

	s.logger.Info().
		Str("payment_intent_id", intent.ID).
		Float64("total", total).
		Msg("payment intent created")

	return &model.PaymentIntentResponse{
		ClientSecret:   intent.ClientSecret,
		PublishableKey: s.cfg.PublishableKey,
	}, nil
}

// VerifySession queries the processor directly and settles the caller's
// matching order when the session is paid. Fallback for when webhooks are
// not deliverable, e.g. local development.
func (s *paymentService) VerifySession(ctx context.Context, userID uuid.UUID, sessionID string) (*model.VerifySessionResponse, error) {
	sess, err := s.processor.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, model.NewPaymentError(payments.ProviderMessage(err), err)
	}

	if !sess.Paid() {
		return &model.VerifySessionResponse{
			Status:        "pending",
			PaymentStatus: sess.PaymentStatus,
		}, nil
	}

	order, err := s.orderRepo.GetBySessionIDForUser(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	updated, err := s.settle(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &model.VerifySessionResponse{
		Status:  "success",
		Updated: updated,
	}, nil
}

// HandleWebhook verifies and dispatches a processor webhook delivery. A
// verification failure aborts before any domain logic runs; the processor's
// own retry mechanism governs redelivery after non-success responses.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.processor.VerifyWebhook(payload, signature)
	if err != nil {
		return model.ErrInvalidWebhook
	}

	switch event.Type {
	case payments.EventPaymentIntentSucceeded:
		var intent struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Object, &intent); err != nil {
			return model.ErrInvalidWebhook
		}
		return s.settleByReference(ctx, "payment_intent", intent.ID, s.orderRepo.GetByPaymentIntentID)

	case payments.EventCheckoutCompleted:
		var sess struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Object, &sess); err != nil {
			return model.ErrInvalidWebhook
		}
		return s.settleByReference(ctx, "session", sess.ID, s.orderRepo.GetBySessionID)

	case payments.EventChargeRefunded:
		var charge struct {
			PaymentIntent string `json:"payment_intent"`
		}
		if err := json.Unmarshal(event.Object, &charge); err != nil {
			return model.ErrInvalidWebhook
		}
		return s.refundByIntent(ctx, charge.PaymentIntent)

	default:
		s.logger.Debug().Str("event_type", event.Type).Msg("ignoring webhook event")
		return nil
	}
}

func (s *paymentService) settleByReference(
	ctx context.Context,
	kind, ref string,
	lookup func(context.Context, string) (*model.Order, error),
) error {
	order, err := lookup(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil {
		// No matching order; acknowledge so the processor stops retrying.
		s.logger.Warn().Str(kind, ref).Msg("webhook references unknown order")
		return nil
	}

	if _, err := s.settle(ctx, order.ID); err != nil {
		return err
	}

	return nil
}

func (s *paymentService) refundByIntent(ctx context.Context, paymentIntentID string) error {
	if paymentIntentID == "" {
		return nil
	}

	order, err := s.orderRepo.GetByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil {
		return nil
	}

	refunded, err := s.orderRepo.MarkRefunded(ctx, order.ID)
	if err != nil {
		return err
	}

	if refunded {
		s.logger.Info().Str("order_id", order.ID.String()).Msg("order refunded")
	}

	return nil
}

// settle performs the post-payment settlement exactly once per order:
// decrement stock for every cart line, delist books whose stock reaches
// zero, clear the cart and complete the order, all in one transaction.
// Returns false when the order had already been settled.
func (s *paymentService) settle(ctx context.Context, orderID uuid.UUID) (updated bool, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to settle order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback settlement transaction")
			}
		}
	}()

	// The row lock serialises concurrent settlement attempts for the same
	// order; the loser of the race observes completed below and no-ops.
	order, err := s.orderRepo.LockForUpdate(ctx, tx, orderID)
	if err != nil {
		return false, err
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return false, err
	}

	if order.Status != model.OrderStatusPending {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("failed to rollback settlement transaction")
		}
		s.logger.Info().Str("order_id", orderID.String()).Msg("order already settled, no update performed")
		return false, nil
	}

	items, err := s.cartRepo.GetItemsTx(ctx, tx, order.CartID)
	if err != nil {
		return false, err
	}

	touched := make([]uuid.UUID, 0, len(items))
	var delistedImages []string

	for _, item := range items {
		var stock int
		stock, err = s.bookRepo.DecrementStock(ctx, tx, item.BookID, item.Quantity)
		if err != nil {
			return false, err
		}
		touched = append(touched, item.BookID)

		if stock == 0 {
			// Sold out: the book is delisted entirely.
			if err = s.bookRepo.DeleteTx(ctx, tx, item.BookID); err != nil {
				return false, err
			}
			delistedImages = append(delistedImages, item.Book.Images...)
			s.logger.Info().Str("book_id", item.BookID.String()).Msg("book sold out and delisted")
		}
	}

	if err = s.cartRepo.DeleteItemsTx(ctx, tx, order.CartID); err != nil {
		return false, err
	}

	updated, err = s.orderRepo.MarkCompleted(ctx, tx, orderID)
	if err != nil {
		return false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit settlement: %w", err)
	}

	for _, id := range touched {
		s.cache.Invalidate(ctx, id)
	}
	for _, path := range delistedImages {
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", path).Msg("failed to delete delisted book image")
		}
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Int("item_count", len(items)).
		Msg("order settled")

	return updated, nil
}

// ListOrders retrieves the caller's orders, newest first.
func (s *paymentService) ListOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrder retrieves one of the caller's orders.
func (s *paymentService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}
