package testutil

import (
	"errors"

	"wine-model-service/internal/core/domain"
)

// StubClassifier answers a fixed label for every row.
type StubClassifier struct {
	Label    int
	Width    int
	Err      error
	PanicMsg string
}

func (s *StubClassifier) Predict(rows [][]float64) ([]int, error) {
	if s.PanicMsg != "" {
		panic(s.PanicMsg)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]int, len(rows))
	for i := range out {
		out[i] = s.Label
	}
	return out, nil
}

func (s *StubClassifier) NumFeatures() int { return s.Width }

// StubProbaClassifier also answers a fixed probability row.
type StubProbaClassifier struct {
	StubClassifier
	Probs []float64
}

func (s *StubProbaClassifier) PredictProba(rows [][]float64) ([][]float64, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([][]float64, len(rows))
	for i := range out {
		out[i] = append([]float64(nil), s.Probs...)
	}
	return out, nil
}

var ErrStubModel = errors.New("stub model failure")

// WineMetadata is a 13-feature, 3-class record like the wine artifacts.
func WineMetadata() *domain.Metadata {
	return &domain.Metadata{
		Dataset:   "wine",
		ModelType: domain.KindRandomForest,
		NFeatures: 13,
		FeatureNames: []string{
			"alcohol", "malic_acid", "ash", "alcalinity_of_ash", "magnesium",
			"total_phenols", "flavanoids", "nonflavanoid_phenols", "proanthocyanins",
			"color_intensity", "hue", "od280/od315_of_diluted_wines", "proline",
		},
		TargetNames:    []string{"class_0", "class_1", "class_2"},
		TestAccuracy:   0.9722,
		TrainedAtUTC:   "2026-01-01T00:00:00.000000+00:00",
		SklearnVersion: "github.com/malaschitz/randomForest v0.0.0",
		Artifact:       "wine_model.gob",
	}
}

// Features returns n numeric values.
func Features(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = float64(i) + 0.5
	}
	return out
}

// SeparableDataset builds three well separated clusters over width features.
func SeparableDataset(perClass, width int) *domain.Dataset {
	ds := &domain.Dataset{Name: "synthetic", TargetNames: []string{"a", "b", "c"}}
	for i := 0; i < width; i++ {
		ds.FeatureNames = append(ds.FeatureNames, "f"+string(rune('a'+i)))
	}
	for c := 0; c < 3; c++ {
		for k := 0; k < perClass; k++ {
			row := make([]float64, width)
			for j := range row {
				row[j] = float64(c*10) + float64((k+j)%5)*0.1
			}
			ds.X = append(ds.X, row)
			ds.Y = append(ds.Y, c)
		}
	}
	return ds
}
