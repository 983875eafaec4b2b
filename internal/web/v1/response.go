package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/givehope/donation-service/internal/core/domain"
)

// statusFor maps service-level sentinel errors to an HTTP status and a
// client-safe message. Unknown errors become opaque 500s.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Wrong password"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Only NGOs can configure donation settings"
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusBadRequest, "NGO is not accepting donations yet"
	case errors.Is(err, domain.ErrItemNotAccepted):
		return http.StatusBadRequest, "Item not accepted by this NGO"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusBadRequest, "Account not found"
	case errors.Is(err, domain.ErrDonationNotFound):
		return http.StatusNotFound, "Donation not found"
	case errors.Is(err, domain.ErrAlreadyDecided):
		return http.StatusConflict, "Donation already decided"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, sanitizeValidationError(err)
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// respondError logs the failure and writes the standard error envelope.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
	} else {
		logger.Info("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, gin.H{"success": false, "message": message})
}
