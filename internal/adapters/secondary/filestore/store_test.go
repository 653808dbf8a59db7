package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wine-model-service/internal/adapters/secondary/estimator"
	"wine-model-service/internal/config"
	"wine-model-service/internal/core/domain"
	"wine-model-service/internal/testutil"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "model")
	return NewStore(&config.ArtifactConfig{
		Dir:          dir,
		ModelFile:    "wine_model.gob",
		MetadataFile: "metadata.json",
	}), dir
}

func TestStore_WriteRead(t *testing.T) {
	store, dir := newTestStore(t)
	ds := testutil.SeparableDataset(10, 13)

	tree := estimator.NewDecisionTree(0)
	require.NoError(t, tree.Fit(ds.X, ds.Y))

	md := testutil.WineMetadata()
	md.ModelType = tree.Kind()
	md.Artifact = ""
	require.NoError(t, store.Write(context.Background(), tree.Kind(), tree, md))
	assert.Equal(t, "wine_model.gob", md.Artifact)

	raw, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, k := range []string{
		"dataset", "model_type", "n_features", "feature_names", "target_names",
		"test_accuracy", "trained_at_utc", "sklearn_version", "artifact",
	} {
		assert.Contains(t, fields, k)
	}
	assert.Len(t, fields, 9)

	a, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.KindDecisionTree, a.Model.Kind)
	assert.False(t, a.Model.SupportsProba())
	assert.Equal(t, 13, a.Metadata.NFeatures)
	assert.Equal(t, raw, []byte(a.Metadata.Raw))

	got, err := a.Model.Predict(ds.X)
	require.NoError(t, err)
	assert.Equal(t, ds.Y, got)
}

func TestStore_Read_Missing(t *testing.T) {
	store, dir := newTestStore(t)

	_, err := store.Read(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArtifactMissing)
	assert.Contains(t, err.Error(), filepath.Join(dir, "wine_model.gob"))
	assert.Contains(t, err.Error(), DefaultTrainHint)

	require.NoError(t, os.MkdirAll(dir, 0o755))
	tree := estimator.NewDecisionTree(0)
	ds := testutil.SeparableDataset(3, 2)
	require.NoError(t, tree.Fit(ds.X, ds.Y))
	require.NoError(t, store.Write(context.Background(), tree.Kind(), tree, &domain.Metadata{NFeatures: 2}))
	require.NoError(t, os.Remove(store.MetadataPath()))

	_, err = store.Read(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArtifactMissing)
	assert.Contains(t, err.Error(), "Metadata file not found")
	assert.Contains(t, err.Error(), store.MetadataPath())
}

func TestStore_Read_Corrupt(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(store.ModelPath(), []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(store.MetadataPath(), []byte(`{"n_features": 13}`), 0o644))

	_, err := store.Read(context.Background())
	assert.ErrorIs(t, err, domain.ErrArtifactInvalid)
}

func TestStore_CustomTrainHint(t *testing.T) {
	store := NewStore(&config.ArtifactConfig{
		Dir:          t.TempDir(),
		ModelFile:    "m.gob",
		MetadataFile: "m.json",
		TrainHint:    "make train",
	})
	_, err := store.Read(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Run: make train")
}
