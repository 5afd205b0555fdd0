package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/normalize"
	"amber-storefront/internal/order"
	"amber-storefront/internal/service"
	"amber-storefront/internal/validation"

	"go.uber.org/zap"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Title     string                 `json:"title,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// RespondWithError sends a structured error response
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithErrorDetail(w, statusCode, ErrorDetail{Message: message})
}

// RespondWithErrorDetails sends a structured error response with additional details
func RespondWithErrorDetails(w http.ResponseWriter, statusCode int, message string, details map[string]interface{}) {
	respondWithErrorDetail(w, statusCode, ErrorDetail{Message: message, Details: details})
}

func respondWithErrorDetail(w http.ResponseWriter, statusCode int, detail ErrorDetail) {
	detail.Code = http.StatusText(statusCode)
	detail.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: detail})
}

// RespondWithValidationErrors sends validation error response
func RespondWithValidationErrors(w http.ResponseWriter, fields []validation.FieldError) {
	message := "validation failed"
	if len(fields) > 0 {
		message = fields[0].Message
	}
	RespondWithErrorDetails(w, http.StatusBadRequest, message, map[string]interface{}{
		"validation_errors": fields,
	})
}

// StatusFor maps a service error to the HTTP status of the facade.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrValidation), errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotAuthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, order.ErrTransitionNotAllowed):
		return http.StatusConflict
	case errors.Is(err, service.ErrPackUnavailable), errors.Is(err, service.ErrUnknownRange),
		errors.Is(err, order.ErrUnknownStatus):
		return http.StatusBadRequest
	case errors.Is(err, backend.ErrConnection):
		return http.StatusServiceUnavailable
	case errors.Is(err, backend.ErrMalformedResponse), errors.Is(err, normalize.ErrUnrecognizedShape):
		return http.StatusBadGateway
	}
	if apiErr, ok := backend.AsAPIError(err); ok {
		// the backend refused our token or credentials
		if apiErr.StatusCode == http.StatusUnauthorized {
			return http.StatusUnauthorized
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// RespondWithServiceError writes err as the error envelope, carrying the
// alert a client should show.
func RespondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := StatusFor(err)
	notice := service.Describe(err)
	if errors.Is(err, ErrInvalidBody) {
		notice = service.Notice{Title: "Error", Body: "Solicitud inválida"}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}

	detail := ErrorDetail{Message: notice.Body, Title: notice.Title}
	if fields := validation.Fields(err); len(fields) > 0 {
		detail.Details = map[string]interface{}{"validation_errors": fields}
	}
	if apiErr, ok := backend.AsAPIError(err); ok {
		detail.Details = map[string]interface{}{"backend_status": apiErr.StatusCode}
	}
	respondWithErrorDetail(w, status, detail)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
