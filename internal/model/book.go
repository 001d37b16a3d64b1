package model

import (
	"time"

	"github.com/google/uuid"
)

// Book represents a book in the catalogue.
type Book struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Stock       int       `json:"stock" db:"stock"`
	Price       float64   `json:"price" db:"price"`
	Images      []string  `json:"images" db:"images"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// BookInput carries the fields accepted when creating or updating a book.
// Image handling differs between create and update, so paths are resolved
// by the service before this reaches the repository.
type BookInput struct {
	Title       string
	Description string
	Stock       int
	Price       float64
	Images      []string
}

// MinBookImages and MaxBookImages bound the number of images per book,
// enforced at the write boundary.
const (
	MinBookImages = 1
	MaxBookImages = 4
)
