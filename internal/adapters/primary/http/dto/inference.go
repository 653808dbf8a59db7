package dto

import "wine-model-service/internal/core/domain"

// ============================================================================
// Inference DTOs
// ============================================================================

// PredictRequest keeps features undecoded so the validator can report the
// offending element instead of a generic binding error.
type PredictRequest struct {
	Features any `json:"features"`
}

type PredictResponse struct {
	Prediction      int    `json:"prediction"`
	PredictionLabel string `json:"prediction_label"`
}

type ProbaResponse struct {
	Probabilities []float64 `json:"probabilities"`
	Classes       []string  `json:"classes"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func ToPredictResponse(p *domain.Prediction) PredictResponse {
	return PredictResponse{
		Prediction:      p.Index,
		PredictionLabel: p.Label,
	}
}

func ToProbaResponse(p *domain.ProbaPrediction) ProbaResponse {
	probs := make([]float64, len(p.Probabilities))
	copy(probs, p.Probabilities)
	classes := make([]string, len(p.Classes))
	copy(classes, p.Classes)
	return ProbaResponse{
		Probabilities: probs,
		Classes:       classes,
	}
}
