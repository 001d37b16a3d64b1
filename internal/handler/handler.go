package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookly/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// statusForCode maps domain error codes to HTTP status codes.
var statusForCode = map[string]int{
	model.ErrCodeInvalidJSON:      http.StatusBadRequest,
	model.ErrCodeBookNotFound:     http.StatusNotFound,
	model.ErrCodeCartNotFound:     http.StatusNotFound,
	model.ErrCodeCartItemNotFound: http.StatusNotFound,
	model.ErrCodeCartEmpty:        http.StatusBadRequest,
	model.ErrCodeOrderNotFound:    http.StatusNotFound,
	model.ErrCodeReviewNotFound:   http.StatusNotFound,
	model.ErrCodeReviewExists:     http.StatusConflict,
	model.ErrCodeUserNotFound:     http.StatusNotFound,
	model.ErrCodeEmailTaken:       http.StatusConflict,
	model.ErrCodeInvalidImages:    http.StatusBadRequest,
	model.ErrCodeInvalidRating:    http.StatusBadRequest,
	model.ErrCodeUnauthorised:     http.StatusUnauthorized,
	model.ErrCodeForbidden:        http.StatusForbidden,
	model.ErrCodePayment:          http.StatusBadRequest,
	model.ErrCodeInvalidWebhook:   http.StatusBadRequest,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Log the error but don't expose it to the client
			return
		}
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError translates service-layer errors into HTTP responses.
// Domain errors carry their own code and status; payment provider errors
// surface the provider's message; anything else is an opaque 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status, ok := statusForCode[domainErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		writeError(w, status, domainErr.Code, domainErr.Message, logger)
		return
	}

	var paymentErr *model.PaymentError
	if errors.As(err, &paymentErr) {
		writeError(w, http.StatusBadRequest, model.ErrCodePayment, paymentErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("unexpected service error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

// pathUUID parses a UUID path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid "+name)
	}
	return id, nil
}
