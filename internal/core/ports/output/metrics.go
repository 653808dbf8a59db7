package ports

import "time"

// Outcome labels for scoring metrics
const (
	OutcomeOK          = "ok"
	OutcomeCacheHit    = "cache_hit"
	OutcomeClientError = "client_error"
	OutcomeServerError = "server_error"
)

// Recorder receives scoring and artifact-loading observations.
type Recorder interface {
	ObservePrediction(op string, outcome string, latency time.Duration)
	ObserveArtifactLoad(success bool, latency time.Duration)
}
