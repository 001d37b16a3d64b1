package router

import (
	"net/http"
	"path/filepath"
	"strings"

	"bookly/internal/auth"
	"bookly/internal/handler"
	"bookly/internal/middleware"
	"bookly/internal/repository"

	"github.com/rs/zerolog"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Book    *handler.BookHandler
	Cart    *handler.CartHandler
	Review  *handler.ReviewHandler
	Payment *handler.PaymentHandler
	Auth    *handler.AuthHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	tokens *auth.TokenIssuer,
	users repository.UserRepository,
	uploadsDir string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(tokens, users, logger)
	requireAdmin := middleware.RequireAdmin(logger)
	authed := func(hf http.HandlerFunc) http.Handler {
		return requireAuth(hf)
	}
	admin := func(hf http.HandlerFunc) http.Handler {
		return requireAuth(requireAdmin(hf))
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.Handle("GET /metrics", middleware.PrometheusHandler())

	// Locally stored book images, served under their public path prefix.
	if uploadsDir != "" {
		prefix := "/" + strings.Trim(filepath.ToSlash(uploadsDir), "/") + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(uploadsDir))))
	}

	// Catalogue
	mux.HandleFunc("GET /api/books", h.Book.List)
	mux.HandleFunc("GET /api/books/{id}", h.Book.GetByID)
	mux.Handle("POST /api/books", admin(h.Book.Create))
	mux.Handle("PUT /api/books/{id}", admin(h.Book.Update))
	mux.Handle("DELETE /api/books/{id}", admin(h.Book.Delete))
	mux.Handle("POST /api/books/upload-image", admin(h.Book.UploadImage))

	// Reviews
	mux.HandleFunc("GET /api/books/{id}/reviews", h.Review.ListByBook)
	mux.Handle("POST /api/reviews", authed(h.Review.Create))
	mux.Handle("DELETE /api/reviews/{id}", authed(h.Review.Delete))

	// Cart
	mux.Handle("GET /api/cart", authed(h.Cart.Get))
	mux.Handle("POST /api/cart/items", authed(h.Cart.AddItem))
	mux.Handle("PATCH /api/cart/items/{id}", authed(h.Cart.UpdateItem))
	mux.Handle("DELETE /api/cart/items/{id}", authed(h.Cart.RemoveItem))

	// Payments and orders. The webhook authenticates by signature, not token.
	mux.Handle("POST /api/payments/checkout-session", authed(h.Payment.CreateCheckoutSession))
	mux.Handle("POST /api/payments/payment-intent", authed(h.Payment.CreatePaymentIntent))
	mux.Handle("POST /api/payments/verify-session", authed(h.Payment.VerifySession))
	mux.HandleFunc("POST /api/payments/webhook", h.Payment.Webhook)
	mux.Handle("GET /api/orders", authed(h.Payment.ListOrders))
	mux.Handle("GET /api/orders/{id}", authed(h.Payment.GetOrder))

	// Identity
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/forgot-password", h.Auth.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", h.Auth.ResetPassword)
	mux.HandleFunc("POST /api/auth/request-verify-token", h.Auth.RequestVerifyToken)
	mux.HandleFunc("POST /api/auth/verify", h.Auth.Verify)
	mux.HandleFunc("POST /api/auth/google/callback", h.Auth.GoogleCallback)
	mux.Handle("GET /api/users/me", authed(h.Auth.Me))
	mux.Handle("PATCH /api/users/me", authed(h.Auth.UpdateMe))

	// Apply middleware in order: Recovery -> Logging -> Metrics -> CORS
	var root http.Handler = mux
	root = middleware.CORS(root)
	root = middleware.Metrics(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
