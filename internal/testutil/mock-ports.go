package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"wine-model-service/internal/core/domain"
	"wine-model-service/internal/core/ports/output"
)

// MockArtifactSource is a mock of ArtifactSource.
type MockArtifactSource struct {
	mock.Mock
}

func (m *MockArtifactSource) Read(ctx context.Context) (*domain.Artifacts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifacts), args.Error(1)
}

// MockArtifactWriter is a mock of ArtifactWriter.
type MockArtifactWriter struct {
	mock.Mock
}

func (m *MockArtifactWriter) Write(ctx context.Context, kind string, clf domain.Classifier, md *domain.Metadata) error {
	args := m.Called(ctx, kind, clf, md)
	return args.Error(0)
}

// MockDatasetSource is a mock of DatasetSource.
type MockDatasetSource struct {
	mock.Mock
}

func (m *MockDatasetSource) Load(ctx context.Context) (*domain.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

// MockPredictionLog is a mock of PredictionLog.
type MockPredictionLog struct {
	mock.Mock
}

func (m *MockPredictionLog) Save(ctx context.Context, rec *domain.PredictionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockPredictionLog) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRecorder is a mock of Recorder.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) ObservePrediction(op string, outcome string, latency time.Duration) {
	m.Called(op, outcome, latency)
}

func (m *MockRecorder) ObserveArtifactLoad(success bool, latency time.Duration) {
	m.Called(success, latency)
}

var (
	_ ports.ArtifactSource = (*MockArtifactSource)(nil)
	_ ports.ArtifactWriter = (*MockArtifactWriter)(nil)
	_ ports.DatasetSource  = (*MockDatasetSource)(nil)
	_ ports.PredictionLog  = (*MockPredictionLog)(nil)
	_ ports.Recorder       = (*MockRecorder)(nil)
)
