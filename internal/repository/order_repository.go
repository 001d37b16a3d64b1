package repository

import (
	"context"
	"errors"
	"fmt"

	"bookly/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const orderColumns = `id, user_id, cart_id, total_amount, status, stripe_payment_intent_id, stripe_session_id, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.CartID, &o.TotalAmount, &o.Status,
		&o.PaymentIntentID, &o.SessionID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a new order.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, cart_id, total_amount, status, stripe_payment_intent_id, stripe_session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		order.ID, order.UserID, order.CartID, order.TotalAmount, order.Status,
		order.PaymentIntentID, order.SessionID, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to insert order")
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) getOne(ctx context.Context, query string, args ...any) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return order, nil
}

// GetByIDForUser retrieves an order scoped to its owner.
func (r *orderRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`
	return r.getOne(ctx, query, id, userID)
}

// ListByUser retrieves the user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// GetBySessionIDForUser retrieves an order by session reference, owner-scoped.
func (r *orderRepository) GetBySessionIDForUser(ctx context.Context, sessionID string, userID uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE stripe_session_id = $1 AND user_id = $2`
	return r.getOne(ctx, query, sessionID, userID)
}

// GetBySessionID retrieves an order by session reference without user scope.
func (r *orderRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE stripe_session_id = $1`
	return r.getOne(ctx, query, sessionID)
}

// GetByPaymentIntentID retrieves an order by intent reference without user scope.
func (r *orderRepository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE stripe_payment_intent_id = $1`
	return r.getOne(ctx, query, paymentIntentID)
}

// GetPendingByCart retrieves the user's pending order for a cart, if any.
func (r *orderRepository) GetPendingByCart(ctx context.Context, userID, cartID uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 AND cart_id = $2 AND status = 'pending'`
	return r.getOne(ctx, query, userID, cartID)
}

// SetPaymentIntentID stores the payment intent reference on an order.
func (r *orderRepository) SetPaymentIntentID(ctx context.Context, orderID uuid.UUID, paymentIntentID string) error {
	query := `UPDATE orders SET stripe_payment_intent_id = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, orderID, paymentIntentID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to set payment intent reference")
		return fmt.Errorf("failed to set payment intent reference: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

// LockForUpdate loads an order under a row lock within the transaction.
func (r *orderRepository) LockForUpdate(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	order, err := scanOrder(tx.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to lock order")
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	return order, nil
}

// MarkCompleted advances a pending order to completed within the transaction.
// The status condition makes duplicate settlement attempts report no update.
func (r *orderRepository) MarkCompleted(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error) {
	query := `UPDATE orders SET status = 'completed', updated_at = NOW() WHERE id = $1 AND status = 'pending'`

	tag, err := tx.Exec(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to complete order")
		return false, fmt.Errorf("failed to complete order: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkRefunded moves a completed order to refunded.
func (r *orderRepository) MarkRefunded(ctx context.Context, orderID uuid.UUID) (bool, error) {
	query := `UPDATE orders SET status = 'refunded', updated_at = NOW() WHERE id = $1 AND status = 'completed'`

	tag, err := r.pool.Exec(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to refund order")
		return false, fmt.Errorf("failed to refund order: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
