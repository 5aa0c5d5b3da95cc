package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/psds-microservice/helpdesk-service/internal/errs"
)

// writeError переводит доменные ошибки в HTTP-статусы. Всё, что не
// распознано, — 500 с общим текстом: детали хранилища наружу не уходят.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidState), errors.Is(err, errs.ErrInvalidPriority), errors.Is(err, errs.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrForbidden), errors.Is(err, errs.ErrInvalidRole):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrUserNotFound), errors.Is(err, errs.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
