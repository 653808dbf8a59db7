package domain

import (
	"time"

	"github.com/google/uuid"
)

type Operation string

const (
	OpPredict      Operation = "predict"
	OpPredictProba Operation = "predict_proba"
)

// Prediction is the label-capability result for one feature vector.
type Prediction struct {
	Index int    `json:"prediction"`
	Label string `json:"prediction_label"`
}

// ProbaPrediction is the probability-capability result for one feature vector.
type ProbaPrediction struct {
	Probabilities []float64 `json:"probabilities"`
	Classes       []string  `json:"classes"`
}

// PredictionRecord is an audit entry for one scoring call.
type PredictionRecord struct {
	ID            uuid.UUID
	RequestID     string
	Operation     Operation
	ModelType     string
	Features      []float64
	Prediction    *int
	Label         string
	Probabilities []float64
	LatencyMS     int64
	CreatedAt     time.Time
}

// NewPredictionRecord stamps a record with a fresh id and the current time.
func NewPredictionRecord(requestID string, op Operation, modelType string, features []float64) *PredictionRecord {
	return &PredictionRecord{
		ID:        uuid.New(),
		RequestID: requestID,
		Operation: op,
		ModelType: modelType,
		Features:  features,
		CreatedAt: time.Now().UTC(),
	}
}
