package model

import (
	"time"

	"github.com/google/uuid"
)

// Cart represents a user's shopping cart. Each user has at most one,
// created lazily on first access. The row persists after settlement empties it.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CartItem is a (cart, book) line item. Unique per pair; re-adding the same
// book merges into the existing row by summing quantities.
type CartItem struct {
	ID       uuid.UUID `json:"id" db:"id"`
	CartID   uuid.UUID `json:"cartId" db:"cart_id"`
	BookID   uuid.UUID `json:"bookId" db:"book_id"`
	Quantity int       `json:"quantity" db:"quantity"`
	AddedAt  time.Time `json:"addedAt" db:"added_at"`

	// Book is resolved by join when reading the cart.
	Book *Book `json:"book,omitempty" db:"-"`
}

// CartResponse is the full cart with resolved book details, returned by
// every cart read and mutation.
type CartResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
}

// AddCartItemRequest is the payload for adding a book to the cart.
type AddCartItemRequest struct {
	BookID   uuid.UUID `json:"bookId"`
	Quantity int       `json:"quantity"`
}

// UpdateCartItemRequest is the payload for changing a line item's quantity.
// A quantity of zero or less removes the line item.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
