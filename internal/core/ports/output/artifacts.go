package ports

import (
	"context"

	"wine-model-service/internal/core/domain"
)

// ArtifactSource reads the model and its metadata in one pass.
type ArtifactSource interface {
	Read(ctx context.Context) (*domain.Artifacts, error)
}

// ArtifactWriter persists a trained classifier and its metadata.
type ArtifactWriter interface {
	// Write stores clf under kind and fills md.Artifact with the model file name.
	Write(ctx context.Context, kind string, clf domain.Classifier, md *domain.Metadata) error
}

// DatasetSource supplies the labelled training data.
type DatasetSource interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}
