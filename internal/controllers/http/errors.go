package http

import (
	"errors"
	"log/slog"
	"net/http"

	"food-order-service/internal/auth"
	"food-order-service/internal/infra/paystack"
	"food-order-service/internal/services"
	"food-order-service/internal/validation"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, services.ErrPaymentReferenceRequired),
		errors.Is(err, services.ErrPaymentAmountMismatch),
		errors.Is(err, services.ErrPaymentCurrencyMismatch),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrNotCancellable):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrPaymentNotCompleted):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrStatusConflict), errors.Is(err, services.ErrPaymentReferenceUsed):
		return http.StatusConflict
	case errors.Is(err, auth.ErrLocked):
		return http.StatusTooManyRequests
	case errors.Is(err, paystack.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "err", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	var verr *validation.Error
	if errors.As(err, &verr) {
		body["error"] = "validation failed"
		body["fields"] = verr.Fields
	}
	c.JSON(status, body)
}
