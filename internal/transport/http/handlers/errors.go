package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/shop-backoffice/internal/otp"
	"github.com/you/shop-backoffice/internal/repository"
	"github.com/you/shop-backoffice/internal/service"
)

// writeError converts service/repository sentinels into the JSON error body
// at the handler boundary; nothing propagates uncaught to gin.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidOrder),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrUnknownStatus),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, otp.ErrNoPending),
		errors.Is(err, otp.ErrCodeExpired),
		errors.Is(err, otp.ErrCodeMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
