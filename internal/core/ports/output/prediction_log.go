package ports

import (
	"context"

	"wine-model-service/internal/core/domain"
)

// PredictionLog stores audit records of scoring calls.
type PredictionLog interface {
	Save(ctx context.Context, rec *domain.PredictionRecord) error
	Close() error
}

// PredictionCache memoises results per operation and feature vector.
type PredictionCache interface {
	GetPrediction(features []float64) (*domain.Prediction, bool)
	AddPrediction(features []float64, p *domain.Prediction)
	GetProba(features []float64) (*domain.ProbaPrediction, bool)
	AddProba(features []float64, p *domain.ProbaPrediction)
}
