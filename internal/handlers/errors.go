package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrUnsupportedFrequency):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrAccountInactive),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrAccrualInProgress):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 600:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Client errors echo the error text, server errors only
// echo failMsg so storage details stay in the logs.
func respondError(c *gin.Context, logger *slog.Logger, err error, failMsg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(failMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": failMsg})
		return
	}
	logger.Warn(failMsg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// badRequest rejects a request whose body or query could not be bound.
func badRequest(c *gin.Context, logger *slog.Logger, err error, what string) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + ": " + err.Error()})
}
