package domain

import "errors"

// ============================================================================
// Artifact Errors
// ============================================================================

var (
	ErrArtifactMissing = errors.New("artifact missing")
	ErrArtifactInvalid = errors.New("artifact invalid")
)

// ============================================================================
// Inference Errors
// ============================================================================

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrPrediction           = errors.New("prediction failed")
	ErrRequestTooLarge      = errors.New("request too large")
)

// ============================================================================
// Training Errors
// ============================================================================

var (
	ErrEmptyDataset      = errors.New("dataset is empty")
	ErrInvalidDataset    = errors.New("invalid dataset")
	ErrUnknownModelKind  = errors.New("unknown model kind")
	ErrModelNotTrained   = errors.New("model not trained")
	ErrInvalidSplitRatio = errors.New("test size must be between 0 and 1")
)
