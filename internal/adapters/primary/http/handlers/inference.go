package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wine-model-service/internal/adapters/primary/http/dto"
	"wine-model-service/internal/adapters/primary/http/middleware"
	"wine-model-service/internal/core/domain"
	"wine-model-service/internal/core/services"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

func (h *Handler) ModelInfo(c *gin.Context) {
	md, err := h.inferenceSvc.ModelInfo(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("model info failed")
		mapDomainError(c, err)
		return
	}

	// serve the file as written so field names match the artifact exactly
	if len(md.Raw) > 0 {
		c.Data(http.StatusOK, "application/json; charset=utf-8", md.Raw)
		return
	}
	c.JSON(http.StatusOK, md)
}

func (h *Handler) Predict(c *gin.Context) {
	req, ok := h.bindPredictRequest(c)
	if !ok {
		return
	}

	result, err := h.inferenceSvc.Predict(c.Request.Context(), req)
	if err != nil {
		log.WithError(err).WithField("request_id", req.RequestID).Warn("predict failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPredictResponse(result))
}

func (h *Handler) PredictProba(c *gin.Context) {
	req, ok := h.bindPredictRequest(c)
	if !ok {
		return
	}

	result, err := h.inferenceSvc.PredictProba(c.Request.Context(), req)
	if err != nil {
		log.WithError(err).WithField("request_id", req.RequestID).Warn("predict_proba failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProbaResponse(result))
}

func (h *Handler) bindPredictRequest(c *gin.Context) (services.ScoreRequest, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	var body dto.PredictRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			mapDomainError(c, fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrRequestTooLarge, tooLarge.Limit))
			return services.ScoreRequest{}, false
		}
		mapDomainError(c, fmt.Errorf("%w: request body must be a JSON object with a features list: %v",
			domain.ErrInvalidInput, err))
		return services.ScoreRequest{}, false
	}
	return services.ScoreRequest{
		RequestID: middleware.GetRequestID(c),
		Features:  body.Features,
	}, true
}
