package service

import (
	"context"
	"io"

	"bookly/internal/model"

	"github.com/google/uuid"
)

// ImageUpload is one uploaded image file.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// BookService defines operations for catalogue management.
type BookService interface {
	// List retrieves the full catalogue.
	List(ctx context.Context) ([]model.Book, error)

	// GetByID retrieves a single book.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// Create stores the uploaded images and inserts a new book. Between 1
	// and 4 images are required.
	Create(ctx context.Context, input *model.BookInput, images []ImageUpload) (*model.Book, error)

	// Update replaces a book's fields. Images listed in keepImages survive;
	// the rest are deleted from storage and newImages are added. The total
	// must stay between 1 and 4.
	Update(ctx context.Context, id uuid.UUID, input *model.BookInput, keepImages []string, newImages []ImageUpload) (*model.Book, error)

	// Delete removes a book and its backing image files.
	Delete(ctx context.Context, id uuid.UUID) error

	// UploadImage stores a single image and returns its public path.
	UploadImage(ctx context.Context, image ImageUpload) (string, error)
}

// CartService defines operations for cart management. Every mutation
// returns the full cart with resolved book details.
type CartService interface {
	// GetCart fetches the caller's cart, creating it on first access.
	GetCart(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error)

	// AddItem adds a book to the cart, merging into an existing line item
	// for the same book by summing quantities.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) (*model.CartResponse, error)

	// UpdateItem sets a line item's quantity; zero or less removes it.
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.CartResponse, error)

	// RemoveItem deletes a line item.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*model.CartResponse, error)
}

// ReviewService defines operations for review management.
type ReviewService interface {
	// ListByBook retrieves a book's reviews, newest first.
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Review, error)

	// Create adds a review. A user may review a given book at most once.
	Create(ctx context.Context, user *model.User, req *model.CreateReviewRequest) (*model.Review, error)

	// Delete removes a review. Only the author or an admin may delete.
	Delete(ctx context.Context, user *model.User, reviewID uuid.UUID) error
}

// PaymentService drives the order lifecycle against the external payment
// processor: session/intent creation, confirmation via synchronous
// verification or webhook, and idempotent settlement.
type PaymentService interface {
	// CreateCheckoutSession starts a hosted checkout for the caller's cart
	// and records a pending order carrying the session reference.
	CreateCheckoutSession(ctx context.Context, user *model.User, cartID uuid.UUID) (*model.CheckoutSessionResponse, error)

	// CreatePaymentIntent starts a custom-form payment for the caller's
	// cart, reusing the pending order for that cart when one exists.
	CreatePaymentIntent(ctx context.Context, user *model.User, cartID uuid.UUID) (*model.PaymentIntentResponse, error)

	// VerifySession queries the processor for a session's payment status
	// and settles the caller's matching order when paid.
	VerifySession(ctx context.Context, userID uuid.UUID, sessionID string) (*model.VerifySessionResponse, error)

	// HandleWebhook verifies and dispatches a processor webhook delivery.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	// ListOrders retrieves the caller's orders, newest first.
	ListOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// GetOrder retrieves one of the caller's orders.
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
}

// AuthService defines identity operations: credential issuance,
// registration, password reset, email verification, federated login, and
// profile management.
type AuthService interface {
	// Register creates a password-based account.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Login verifies credentials and mints a bearer token.
	Login(ctx context.Context, email, password string) (string, error)

	// ForgotPassword mints a reset token for an existing account. It does
	// not reveal whether the account exists.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword completes a reset with a valid reset token.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// RequestVerifyToken mints an email-verification token.
	RequestVerifyToken(ctx context.Context, email string) error

	// Verify marks the account verified given a valid verification token.
	Verify(ctx context.Context, token string) error

	// GoogleLogin exchanges a federated-login authorization code,
	// creating or linking the account, and mints a bearer token.
	GoogleLogin(ctx context.Context, code string) (string, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)

	// UpdateProfile updates the caller's name and/or password.
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error)

	// EnsureAdmin creates the bootstrap admin account at startup.
	EnsureAdmin(ctx context.Context) error
}
