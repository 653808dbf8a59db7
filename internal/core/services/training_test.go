package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wine-model-service/internal/core/domain"
	ports "wine-model-service/internal/core/ports/output"
	"wine-model-service/internal/testutil"
)

// nearestCentroid is a tiny estimator for exercising the training flow.
type nearestCentroid struct {
	centroids [][]float64
	fitErr    error
}

func (n *nearestCentroid) Fit(x [][]float64, y []int) error {
	if n.fitErr != nil {
		return n.fitErr
	}
	sums := map[int][]float64{}
	counts := map[int]int{}
	maxY := 0
	for i, row := range x {
		if sums[y[i]] == nil {
			sums[y[i]] = make([]float64, len(row))
		}
		for j, v := range row {
			sums[y[i]][j] += v
		}
		counts[y[i]]++
		if y[i] > maxY {
			maxY = y[i]
		}
	}
	n.centroids = make([][]float64, maxY+1)
	for c, s := range sums {
		for j := range s {
			s[j] /= float64(counts[c])
		}
		n.centroids[c] = s
	}
	return nil
}

func (n *nearestCentroid) Predict(rows [][]float64) ([]int, error) {
	out := make([]int, len(rows))
	for i, row := range rows {
		best, bestDist := 0, -1.0
		for c, centroid := range n.centroids {
			if centroid == nil {
				continue
			}
			d := 0.0
			for j := range row {
				d += (row[j] - centroid[j]) * (row[j] - centroid[j])
			}
			if bestDist < 0 || d < bestDist {
				best, bestDist = c, d
			}
		}
		out[i] = best
	}
	return out, nil
}

func (n *nearestCentroid) NumFeatures() int {
	for _, c := range n.centroids {
		if c != nil {
			return len(c)
		}
	}
	return 0
}

func (n *nearestCentroid) Kind() string    { return domain.KindDecisionTree }
func (n *nearestCentroid) Version() string { return "test" }

func centroidFactory(est *nearestCentroid) ports.EstimatorFactory {
	return func(ports.EstimatorOptions) (ports.Estimator, error) { return est, nil }
}

func TestTrainingService_Train(t *testing.T) {
	ds := testutil.SeparableDataset(20, 4)

	source := new(testutil.MockDatasetSource)
	source.On("Load", mock.Anything).Return(ds, nil)

	writer := new(testutil.MockArtifactWriter)
	writer.On("Write", mock.Anything, domain.KindDecisionTree, mock.Anything, mock.MatchedBy(func(md *domain.Metadata) bool {
		return md.Dataset == "synthetic" &&
			md.NFeatures == 4 &&
			len(md.FeatureNames) == 4 &&
			assert.ObjectsAreEqual([]string{"a", "b", "c"}, md.TargetNames) &&
			md.TrainedAtUTC == "2026-03-04T05:06:07.000000+00:00" &&
			md.SklearnVersion == "test"
	})).Return(nil).Once()

	svc := NewTrainingService(source, writer, centroidFactory(&nearestCentroid{}))
	svc.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

	report, err := svc.Train(context.Background(), TrainOptions{TestSize: 0.2, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, 48, report.TrainRows)
	assert.Equal(t, 12, report.TestRows)
	assert.Equal(t, 1.0, report.Accuracy)
	assert.Equal(t, 1.0, report.Metadata.TestAccuracy)
	assert.Len(t, report.FeatureStd, 4)

	writer.AssertExpectations(t)
}

func TestTrainingService_Train_InvalidSplit(t *testing.T) {
	svc := NewTrainingService(new(testutil.MockDatasetSource), new(testutil.MockArtifactWriter), centroidFactory(&nearestCentroid{}))

	for _, size := range []float64{0, 1, -0.1, 1.5} {
		_, err := svc.Train(context.Background(), TrainOptions{TestSize: size})
		assert.ErrorIs(t, err, domain.ErrInvalidSplitRatio)
	}
}

func TestTrainingService_Train_DatasetErrors(t *testing.T) {
	t.Run("load failure", func(t *testing.T) {
		source := new(testutil.MockDatasetSource)
		source.On("Load", mock.Anything).Return(nil, errors.New("no such file"))
		svc := NewTrainingService(source, new(testutil.MockArtifactWriter), centroidFactory(&nearestCentroid{}))

		_, err := svc.Train(context.Background(), TrainOptions{TestSize: 0.2})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no such file")
	})

	t.Run("ragged rows", func(t *testing.T) {
		ds := testutil.SeparableDataset(5, 3)
		ds.X[2] = ds.X[2][:1]
		source := new(testutil.MockDatasetSource)
		source.On("Load", mock.Anything).Return(ds, nil)
		svc := NewTrainingService(source, new(testutil.MockArtifactWriter), centroidFactory(&nearestCentroid{}))

		_, err := svc.Train(context.Background(), TrainOptions{TestSize: 0.2})
		assert.ErrorIs(t, err, domain.ErrInvalidDataset)
	})

	t.Run("too few rows to split", func(t *testing.T) {
		ds := &domain.Dataset{Name: "tiny", X: [][]float64{{1}, {2}}, Y: []int{0, 1}}
		source := new(testutil.MockDatasetSource)
		source.On("Load", mock.Anything).Return(ds, nil)
		svc := NewTrainingService(source, new(testutil.MockArtifactWriter), centroidFactory(&nearestCentroid{}))

		_, err := svc.Train(context.Background(), TrainOptions{TestSize: 0.2})
		assert.ErrorIs(t, err, domain.ErrInvalidDataset)
	})
}

func TestTrainingService_Train_FitFailureWritesNothing(t *testing.T) {
	source := new(testutil.MockDatasetSource)
	source.On("Load", mock.Anything).Return(testutil.SeparableDataset(10, 2), nil)
	writer := new(testutil.MockArtifactWriter)

	svc := NewTrainingService(source, writer, centroidFactory(&nearestCentroid{fitErr: errors.New("diverged")}))

	_, err := svc.Train(context.Background(), TrainOptions{TestSize: 0.25})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diverged")
	writer.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStratifiedSplit(t *testing.T) {
	y := make([]int, 0, 30)
	for c := 0; c < 3; c++ {
		for k := 0; k < 10; k++ {
			y = append(y, c)
		}
	}

	train, test := StratifiedSplit(y, 0.2, 7)
	assert.Len(t, train, 24)
	assert.Len(t, test, 6)

	perClass := map[int]int{}
	for _, i := range test {
		perClass[y[i]]++
	}
	assert.Equal(t, map[int]int{0: 2, 1: 2, 2: 2}, perClass)

	seen := map[int]bool{}
	for _, i := range append(append([]int{}, train...), test...) {
		assert.False(t, seen[i], "index %d assigned twice", i)
		seen[i] = true
	}
	assert.Len(t, seen, 30)

	train2, test2 := StratifiedSplit(y, 0.2, 7)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)
}

func TestStratifiedSplit_SingletonClassStaysInTraining(t *testing.T) {
	train, test := StratifiedSplit([]int{0, 0, 0, 0, 1}, 0.5, 1)
	assert.Contains(t, train, 4)
	assert.NotContains(t, test, 4)
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.75, Accuracy([]int{0, 1, 2, 1}, []int{0, 1, 2, 0}))
	assert.Equal(t, 0.0, Accuracy(nil, nil))
	assert.Equal(t, 0.0, Accuracy([]int{1}, []int{1, 2}))
}
