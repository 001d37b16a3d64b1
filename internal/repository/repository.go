package repository

import (
	"context"

	"bookly/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BookRepository defines the interface for catalogue data access operations.
type BookRepository interface {
	// List retrieves the full catalogue.
	List(ctx context.Context) ([]model.Book, error)

	// GetByID retrieves a single book. Returns (nil, nil) when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// Create inserts a new book.
	Create(ctx context.Context, book *model.Book) error

	// Update replaces a book's mutable fields.
	Update(ctx context.Context, book *model.Book) error

	// Delete removes a book. Returns model.ErrBookNotFound when missing.
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock reduces stock by qty within the provided transaction,
	// floored at zero, and returns the new stock level.
	DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) (int, error)

	// DeleteTx removes a book within the provided transaction.
	DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// GetByUser retrieves the user's cart. Returns (nil, nil) when missing.
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// Create inserts a cart for the user.
	Create(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// GetByIDForUser retrieves a cart only when it belongs to the user.
	// Returns (nil, nil) otherwise.
	GetByIDForUser(ctx context.Context, cartID, userID uuid.UUID) (*model.Cart, error)

	// GetItems retrieves the cart's line items with resolved book details.
	GetItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error)

	// GetItemsTx is GetItems within the provided transaction.
	GetItemsTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) ([]model.CartItem, error)

	// UpsertItem adds a line item, merging into an existing line for the
	// same book by summing quantities.
	UpsertItem(ctx context.Context, cartID, bookID uuid.UUID, quantity int) error

	// GetItemForUser retrieves a line item only when its cart belongs to the
	// user. Returns (nil, nil) otherwise.
	GetItemForUser(ctx context.Context, itemID, userID uuid.UUID) (*model.CartItem, error)

	// UpdateItemQuantity sets a line item's quantity.
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error

	// DeleteItem removes a line item.
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	// DeleteItemsTx removes every line item of a cart within the provided
	// transaction. The cart row itself persists.
	DeleteItemsTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order.
	Create(ctx context.Context, order *model.Order) error

	// GetByIDForUser retrieves an order scoped to its owner. Returns
	// (nil, nil) when missing or owned by someone else.
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error)

	// ListByUser retrieves the user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// GetBySessionIDForUser retrieves an order by checkout session
	// reference, scoped to its owner.
	GetBySessionIDForUser(ctx context.Context, sessionID string, userID uuid.UUID) (*model.Order, error)

	// GetBySessionID retrieves an order by checkout session reference
	// without user scope, for webhook dispatch.
	GetBySessionID(ctx context.Context, sessionID string) (*model.Order, error)

	// GetByPaymentIntentID retrieves an order by payment intent reference
	// without user scope, for webhook dispatch.
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, error)

	// GetPendingByCart retrieves the user's pending order for a cart, if any.
	GetPendingByCart(ctx context.Context, userID, cartID uuid.UUID) (*model.Order, error)

	// SetPaymentIntentID stores the payment intent reference on an order.
	SetPaymentIntentID(ctx context.Context, orderID uuid.UUID, paymentIntentID string) error

	// LockForUpdate loads an order under a row lock within the provided
	// transaction, serialising concurrent settlement attempts.
	LockForUpdate(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*model.Order, error)

	// MarkCompleted advances a pending order to completed within the
	// provided transaction. Returns false when no row transitioned.
	MarkCompleted(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error)

	// MarkRefunded moves a completed order to refunded. Returns false when
	// no row transitioned.
	MarkRefunded(ctx context.Context, orderID uuid.UUID) (bool, error)
}

// ReviewRepository defines the interface for review data access operations.
type ReviewRepository interface {
	// ListByBook retrieves a book's reviews newest first, with reviewer
	// display names resolved.
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Review, error)

	// GetByID retrieves a single review. Returns (nil, nil) when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)

	// GetByBookAndUser retrieves a user's review of a book, if any.
	GetByBookAndUser(ctx context.Context, bookID, userID uuid.UUID) (*model.Review, error)

	// Create inserts a new review. Returns model.ErrReviewExists when the
	// user already reviewed the book.
	Create(ctx context.Context, review *model.Review) error

	// Delete removes a review.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrEmailTaken on duplicate email.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user. Returns (nil, nil) when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by email. Returns (nil, nil) when missing.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Update replaces a user's mutable fields (name, password hash,
	// verification flag, federated identifier).
	Update(ctx context.Context, user *model.User) error

	// EnsureAdmin creates the bootstrap admin account when no user with the
	// given email exists.
	EnsureAdmin(ctx context.Context, email, hashedPassword string) error
}
