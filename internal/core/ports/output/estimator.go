package ports

import "wine-model-service/internal/core/domain"

// EstimatorOptions selects and parameterises a classifier to fit.
type EstimatorOptions struct {
	Kind     string
	Trees    int
	MaxDepth int
}

// Estimator is a classifier that can be fitted.
type Estimator interface {
	domain.Classifier
	Fit(x [][]float64, y []int) error
	// Kind is the model_type recorded in metadata.
	Kind() string
	// Version identifies the library that fitted the model.
	Version() string
}

// EstimatorFactory builds an unfitted estimator.
type EstimatorFactory func(opts EstimatorOptions) (Estimator, error)
