package handlers

import (
	"wine-model-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodyBytes applies when New is given a non-positive limit.
const DefaultMaxBodyBytes int64 = 1 << 20

type Handler struct {
	inferenceSvc *services.InferenceService
	maxBodyBytes int64
}

func New(inferenceSvc *services.InferenceService, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		inferenceSvc: inferenceSvc,
		maxBodyBytes: maxBodyBytes,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Health)
	r.GET("/model-info", h.ModelInfo)
	r.POST("/predict", h.Predict)
	r.POST("/predict_proba", h.PredictProba)
}
