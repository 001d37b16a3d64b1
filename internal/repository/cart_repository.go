package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookly/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetByUser retrieves the user's cart.
func (r *cartRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := `
		SELECT id, user_id, created_at
		FROM carts
		WHERE user_id = $1
	`

	var c model.Cart
	err := r.pool.QueryRow(ctx, query, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return &c, nil
}

// Create inserts a cart for the user.
func (r *cartRepository) Create(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart := &model.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO carts (id, user_id, created_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.pool.Exec(ctx, query, cart.ID, cart.UserID, cart.CreatedAt); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to insert cart")
		return nil, fmt.Errorf("failed to insert cart: %w", err)
	}

	r.logger.Debug().Str("cart_id", cart.ID.String()).Str("user_id", userID.String()).Msg("cart created")

	return cart, nil
}

// GetByIDForUser retrieves a cart only when it belongs to the user.
func (r *cartRepository) GetByIDForUser(ctx context.Context, cartID, userID uuid.UUID) (*model.Cart, error) {
	query := `
		SELECT id, user_id, created_at
		FROM carts
		WHERE id = $1 AND user_id = $2
	`

	var c model.Cart
	err := r.pool.QueryRow(ctx, query, cartID, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return &c, nil
}

const cartItemsQuery = `
	SELECT ci.id, ci.cart_id, ci.book_id, ci.quantity, ci.added_at,
	       b.id, b.title, b.description, b.stock, b.price, b.images, b.created_at
	FROM cart_items ci
	JOIN books b ON b.id = ci.book_id
	WHERE ci.cart_id = $1
	ORDER BY ci.added_at
`

func scanCartItems(rows pgx.Rows) ([]model.CartItem, error) {
	items := []model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		var book model.Book
		err := rows.Scan(
			&item.ID, &item.CartID, &item.BookID, &item.Quantity, &item.AddedAt,
			&book.ID, &book.Title, &book.Description, &book.Stock, &book.Price, &book.Images, &book.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		item.Book = &book
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// GetItems retrieves the cart's line items with resolved book details.
func (r *cartRepository) GetItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error) {
	rows, err := r.pool.Query(ctx, cartItemsQuery, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	return scanCartItems(rows)
}

// GetItemsTx is GetItems within the provided transaction.
func (r *cartRepository) GetItemsTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) ([]model.CartItem, error) {
	rows, err := tx.Query(ctx, cartItemsQuery, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart items in transaction")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	return scanCartItems(rows)
}

// UpsertItem adds a line item, merging by summed quantity on conflict. The
// unique (cart_id, book_id) constraint makes concurrent merges safe.
func (r *cartRepository) UpsertItem(ctx context.Context, cartID, bookID uuid.UUID, quantity int) error {
	query := `
		INSERT INTO cart_items (id, cart_id, book_id, quantity, added_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, book_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	_, err := r.pool.Exec(ctx, query, uuid.New(), cartID, bookID, quantity, time.Now())
	if err != nil {
		r.logger.Error().Err(err).
			Str("cart_id", cartID.String()).
			Str("book_id", bookID.String()).
			Msg("failed to upsert cart item")
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return nil
}

// GetItemForUser retrieves a line item only when its cart belongs to the user.
func (r *cartRepository) GetItemForUser(ctx context.Context, itemID, userID uuid.UUID) (*model.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.book_id, ci.quantity, ci.added_at
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE ci.id = $1 AND c.user_id = $2
	`

	var item model.CartItem
	err := r.pool.QueryRow(ctx, query, itemID, userID).Scan(
		&item.ID, &item.CartID, &item.BookID, &item.Quantity, &item.AddedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &item, nil
}

// UpdateItemQuantity sets a line item's quantity.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE cart_items SET quantity = $2 WHERE id = $1`, itemID, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to update cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

// DeleteItem removes a line item.
func (r *cartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to delete cart item")
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

// DeleteItemsTx removes every line item of a cart within the transaction.
func (r *cartRepository) DeleteItemsTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart items")
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	return nil
}
