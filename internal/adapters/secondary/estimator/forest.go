package estimator

import (
	"fmt"

	randomforest "github.com/malaschitz/randomForest"
	"gonum.org/v1/gonum/floats"

	"wine-model-service/internal/core/domain"
)

const forestModulePath = "github.com/malaschitz/randomForest"

// Forest is a random forest classifier. It answers both labels and class
// probabilities; probabilities are the averaged leaf distributions of all trees.
type Forest struct {
	trees    int
	maxDepth int
	forest   *randomforest.Forest
}

func NewForest(trees, maxDepth int) *Forest {
	if trees <= 0 {
		trees = 100
	}
	return &Forest{trees: trees, maxDepth: maxDepth}
}

func (f *Forest) Kind() string { return domain.KindRandomForest }

func (f *Forest) Version() string { return moduleVersion(forestModulePath) }

func (f *Forest) Fit(x [][]float64, y []int) error {
	if len(x) == 0 {
		return domain.ErrEmptyDataset
	}
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d rows but %d labels", domain.ErrInvalidDataset, len(x), len(y))
	}
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: x, Class: y}
	if f.maxDepth > 0 {
		forest.MaxDepth = f.maxDepth
	}
	forest.Train(f.trees)
	// the training matrix is not needed for voting and would bloat the artifact
	forest.Data = randomforest.ForestData{}
	f.forest = forest
	return nil
}

func (f *Forest) NumFeatures() int {
	if f.forest == nil {
		return 0
	}
	return f.forest.Features
}

func (f *Forest) PredictProba(rows [][]float64) ([][]float64, error) {
	if f.forest == nil {
		return nil, domain.ErrModelNotTrained
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != f.forest.Features {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), f.forest.Features)
		}
		out[i] = f.forest.Vote(row)
	}
	return out, nil
}

func (f *Forest) Predict(rows [][]float64) ([]int, error) {
	probs, err := f.PredictProba(rows)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(probs))
	for i, p := range probs {
		if len(p) == 0 {
			return nil, fmt.Errorf("row %d received no votes", i)
		}
		labels[i] = floats.MaxIdx(p)
	}
	return labels, nil
}
