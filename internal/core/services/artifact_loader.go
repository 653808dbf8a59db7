package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"wine-model-service/internal/core/domain"
	ports "wine-model-service/internal/core/ports/output"
)

// ArtifactLoader reads artifacts on first use and serves the cached pair for
// the rest of the process lifetime. A failed read is not cached.
type ArtifactLoader struct {
	source   ports.ArtifactSource
	recorder ports.Recorder

	loaded atomic.Pointer[domain.Artifacts]
	mu     sync.Mutex
}

func NewArtifactLoader(source ports.ArtifactSource, recorder ports.Recorder) *ArtifactLoader {
	return &ArtifactLoader{source: source, recorder: recorder}
}

// Load returns the cached artifacts, reading them from the source at most
// once across concurrent callers.
func (l *ArtifactLoader) Load(ctx context.Context) (*domain.Artifacts, error) {
	if a := l.loaded.Load(); a != nil {
		return a, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if a := l.loaded.Load(); a != nil {
		return a, nil
	}

	start := time.Now()
	a, err := l.read(ctx)
	if l.recorder != nil {
		l.recorder.ObserveArtifactLoad(err == nil, time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	l.loaded.Store(a)
	log.WithFields(log.Fields{
		"model_type": a.Metadata.ModelType,
		"n_features": a.Metadata.NFeatures,
		"classes":    len(a.Metadata.TargetNames),
		"proba":      a.Model.SupportsProba(),
	}).Info("artifacts loaded")
	return a, nil
}

func (l *ArtifactLoader) read(ctx context.Context) (*domain.Artifacts, error) {
	a, err := l.source.Read(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.Metadata.Validate(); err != nil {
		return nil, err
	}
	if n := a.Model.NumFeatures(); n > 0 && n != a.Metadata.NFeatures {
		return nil, fmt.Errorf("%w: model was fitted on %d features but metadata declares %d",
			domain.ErrArtifactInvalid, n, a.Metadata.NFeatures)
	}
	return a, nil
}

// Loaded reports whether artifacts are cached.
func (l *ArtifactLoader) Loaded() bool {
	return l.loaded.Load() != nil
}

// Warm attempts a first load and only logs a failure.
func (l *ArtifactLoader) Warm(ctx context.Context) {
	if _, err := l.Load(ctx); err != nil {
		log.WithError(err).Warn("artifacts not loaded at startup; scoring endpoints will fail until they exist")
	}
}
