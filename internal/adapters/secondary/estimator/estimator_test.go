package estimator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wine-model-service/internal/core/domain"
	ports "wine-model-service/internal/core/ports/output"
	"wine-model-service/internal/testutil"
)

func TestNew(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"", domain.KindRandomForest},
		{"random_forest", domain.KindRandomForest},
		{domain.KindRandomForest, domain.KindRandomForest},
		{"decision_tree", domain.KindDecisionTree},
		{domain.KindDecisionTree, domain.KindDecisionTree},
	}
	for _, tt := range tests {
		est, err := New(ports.EstimatorOptions{Kind: tt.kind, Trees: 5})
		require.NoError(t, err)
		assert.Equal(t, tt.want, est.Kind())
	}

	_, err := New(ports.EstimatorOptions{Kind: "svm"})
	assert.ErrorIs(t, err, domain.ErrUnknownModelKind)
}

func TestForest_FitPredict(t *testing.T) {
	ds := testutil.SeparableDataset(15, 4)
	f := NewForest(25, 0)

	_, err := f.Predict([][]float64{{0, 0, 0, 0}})
	assert.ErrorIs(t, err, domain.ErrModelNotTrained)

	require.NoError(t, f.Fit(ds.X, ds.Y))
	assert.Equal(t, 4, f.NumFeatures())

	labels, err := f.Predict([][]float64{ds.X[0], ds.X[20], ds.X[40]})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, labels)

	probs, err := f.PredictProba([][]float64{ds.X[0]})
	require.NoError(t, err)
	require.Len(t, probs, 1)
	require.Len(t, probs[0], 3)
	sum := 0.0
	for _, p := range probs[0] {
		assert.GreaterOrEqual(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-6)

	_, err = f.PredictProba([][]float64{{1, 2}})
	assert.Error(t, err)
}

func TestDecisionTree_FitPredict(t *testing.T) {
	ds := testutil.SeparableDataset(10, 3)
	tree := NewDecisionTree(0)

	require.NoError(t, tree.Fit(ds.X, ds.Y))
	assert.Equal(t, 3, tree.NumFeatures())

	labels, err := tree.Predict(ds.X)
	require.NoError(t, err)
	assert.Equal(t, ds.Y, labels)

	_, err = tree.Predict([][]float64{{1}})
	assert.Error(t, err)

	assert.False(t, domain.NewModel(tree.Kind(), tree).SupportsProba())
}

func TestDecisionTree_DepthLimit(t *testing.T) {
	ds := testutil.SeparableDataset(10, 3)
	stump := NewDecisionTree(1)
	require.NoError(t, stump.Fit(ds.X, ds.Y))
	// one split over three classes leaves one class unreachable
	assert.Len(t, stump.nodes, 3)
}

func TestCodec_RoundTrip(t *testing.T) {
	ds := testutil.SeparableDataset(10, 4)

	t.Run("forest", func(t *testing.T) {
		f := NewForest(10, 0)
		require.NoError(t, f.Fit(ds.X, ds.Y))
		want, err := f.PredictProba(ds.X)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, f))

		model, err := Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, domain.KindRandomForest, model.Kind)
		assert.True(t, model.SupportsProba())
		assert.Equal(t, 4, model.NumFeatures())

		got, err := model.PredictProba(ds.X)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("decision tree", func(t *testing.T) {
		tree := NewDecisionTree(4)
		require.NoError(t, tree.Fit(ds.X, ds.Y))

		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, tree))

		model, err := Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, domain.KindDecisionTree, model.Kind)
		assert.False(t, model.SupportsProba())

		got, err := model.Predict(ds.X)
		require.NoError(t, err)
		assert.Equal(t, ds.Y, got)
	})
}

func TestCodec_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(&buf, NewForest(3, 0)), domain.ErrModelNotTrained)
	assert.ErrorIs(t, Encode(&buf, NewDecisionTree(0)), domain.ErrModelNotTrained)
	assert.ErrorIs(t, Encode(&buf, &testutil.StubClassifier{}), domain.ErrUnknownModelKind)

	_, err := Decode(bytes.NewReader([]byte("not a gob stream")))
	assert.ErrorIs(t, err, domain.ErrArtifactInvalid)
}
