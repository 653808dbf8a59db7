package handlers

import (
	"errors"
	"net/http"

	"wine-model-service/internal/adapters/primary/http/dto"
	"wine-model-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

// mapDomainError writes the status for err. Every kind keeps its message so a
// caller can diagnose the failure without server logs.
func mapDomainError(c *gin.Context, err error) {
	switch {
	// Client errors
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedOperation),
		errors.Is(err, domain.ErrPrediction):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: err.Error()})

	case errors.Is(err, domain.ErrRequestTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Detail: err.Error()})

	// Artifacts not produced yet
	case errors.Is(err, domain.ErrArtifactMissing):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Detail: err.Error()})

	// Artifacts present but unusable
	case errors.Is(err, domain.ErrArtifactInvalid):
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: err.Error()})
	}
}
