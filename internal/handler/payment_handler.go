package handler

import (
	"io"
	"net/http"

	"bookly/internal/middleware"
	"bookly/internal/model"
	"bookly/internal/service"

	"github.com/rs/zerolog"
)

// maxWebhookBytes caps webhook payload size.
const maxWebhookBytes = 1 << 20

// PaymentHandler handles payment and order HTTP requests.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// CreateCheckoutSession handles POST /api/payments/checkout-session requests.
func (h *PaymentHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req model.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	resp, err := h.service.CreateCheckoutSession(r.Context(), user, req.CartID)
	if err != nil {
		middleware.RecordPaymentProcessed("failed")
		writeServiceError(w, err, h.logger)
		return
	}

	middleware.RecordPaymentProcessed("initiated")
	writeJSON(w, http.StatusCreated, resp)
}

// CreatePaymentIntent handles POST /api/payments/payment-intent requests.
func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req model.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	resp, err := h.service.CreatePaymentIntent(r.Context(), user, req.CartID)
	if err != nil {
		middleware.RecordPaymentProcessed("failed")
		writeServiceError(w, err, h.logger)
		return
	}

	middleware.RecordPaymentProcessed("initiated")
	writeJSON(w, http.StatusCreated, resp)
}

// VerifySession handles POST /api/payments/verify-session requests.
func (h *PaymentHandler) VerifySession(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req model.VerifySessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "sessionId is required", h.logger)
		return
	}

	resp, err := h.service.VerifySession(r.Context(), user.ID, req.SessionID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if resp.Updated {
		middleware.RecordPaymentProcessed("completed")
	}
	writeJSON(w, http.StatusOK, resp)
}

// Webhook handles POST /api/payments/webhook deliveries from the payment
// processor. The raw body is needed for signature verification, so it is
// read before any decoding.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidWebhook, "failed to read payload", h.logger)
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := h.service.HandleWebhook(r.Context(), payload, signature); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// ListOrders handles GET /api/orders requests.
func (h *PaymentHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	orders, err := h.service.ListOrders(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/{id} requests.
func (h *PaymentHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	orderID, err := pathUUID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	order, err := h.service.GetOrder(r.Context(), user.ID, orderID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
