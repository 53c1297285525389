// internal/api/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps domain error kinds onto HTTP status codes. Validation
// failures are client errors; stock and lifecycle conflicts are 409 so the
// operator can retry or decide.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidYield),
		errors.Is(err, domain.ErrEmptyFormula),
		errors.Is(err, domain.ErrDuplicateIngredient),
		errors.Is(err, domain.ErrUnknownStatus):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrOrderNotPlanned),
		errors.Is(err, domain.ErrConcurrentModification):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
