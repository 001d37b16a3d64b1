package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeBookNotFound     = "BOOK_NOT_FOUND"
	ErrCodeCartNotFound     = "CART_NOT_FOUND"
	ErrCodeCartItemNotFound = "CART_ITEM_NOT_FOUND"
	ErrCodeCartEmpty        = "CART_EMPTY"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeReviewNotFound   = "REVIEW_NOT_FOUND"
	ErrCodeReviewExists     = "REVIEW_EXISTS"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeEmailTaken       = "EMAIL_TAKEN"
	ErrCodeInvalidImages    = "INVALID_IMAGE_COUNT"
	ErrCodeInvalidRating    = "INVALID_RATING"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodePayment          = "PAYMENT_ERROR"
	ErrCodeInvalidWebhook   = "INVALID_WEBHOOK"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError carries a stable error code alongside a human-readable message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrBookNotFound       = NewDomainError(ErrCodeBookNotFound, "Book not found")
	ErrCartNotFound       = NewDomainError(ErrCodeCartNotFound, "Cart not found")
	ErrCartItemNotFound   = NewDomainError(ErrCodeCartItemNotFound, "Cart item not found")
	ErrCartEmpty          = NewDomainError(ErrCodeCartEmpty, "Cart is empty")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrReviewNotFound     = NewDomainError(ErrCodeReviewNotFound, "Review not found")
	ErrReviewExists       = NewDomainError(ErrCodeReviewExists, "You have already reviewed this book")
	ErrUserNotFound       = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrEmailTaken         = NewDomainError(ErrCodeEmailTaken, "A user with this email already exists")
	ErrInvalidImageCount  = NewDomainError(ErrCodeInvalidImages, "Book must have between 1 and 4 images")
	ErrInvalidRating      = NewDomainError(ErrCodeInvalidRating, "Rating must be between 1 and 5")
	ErrInvalidCredentials = NewDomainError(ErrCodeUnauthorised, "Invalid credentials")
	ErrForbidden          = NewDomainError(ErrCodeForbidden, "Not authorized to perform this action")
	ErrInvalidWebhook     = NewDomainError(ErrCodeInvalidWebhook, "Invalid webhook signature or payload")
)

// PaymentError wraps a failure reported by the external payment provider.
// The provider message is surfaced to the client per the error policy.
type PaymentError struct {
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	return e.Message
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a payment error carrying the provider message.
func NewPaymentError(message string, err error) *PaymentError {
	return &PaymentError{Message: message, Err: err}
}
