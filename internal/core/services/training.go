package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"wine-model-service/internal/core/domain"
	ports "wine-model-service/internal/core/ports/output"
)

// TimestampLayout matches the ISO-8601 form written by earlier training runs.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

type TrainOptions struct {
	Estimator ports.EstimatorOptions
	TestSize  float64
	// Seed drives the train/test split.
	Seed int64
}

type TrainReport struct {
	Metadata   *domain.Metadata
	TrainRows  int
	TestRows   int
	Accuracy   float64
	FeatureStd []float64
}

type TrainingService struct {
	source  ports.DatasetSource
	writer  ports.ArtifactWriter
	factory ports.EstimatorFactory
	now     func() time.Time
}

func NewTrainingService(source ports.DatasetSource, writer ports.ArtifactWriter, factory ports.EstimatorFactory) *TrainingService {
	return &TrainingService{
		source:  source,
		writer:  writer,
		factory: factory,
		now:     time.Now,
	}
}

func (s *TrainingService) Train(ctx context.Context, opts TrainOptions) (*TrainReport, error) {
	if opts.TestSize <= 0 || opts.TestSize >= 1 {
		return nil, domain.ErrInvalidSplitRatio
	}

	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	trainIdx, testIdx := StratifiedSplit(ds.Y, opts.TestSize, opts.Seed)
	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, fmt.Errorf("%w: %d rows cannot be split with test size %.2f",
			domain.ErrInvalidDataset, len(ds.Y), opts.TestSize)
	}
	xTrain, yTrain := subset(ds, trainIdx)
	xTest, yTest := subset(ds, testIdx)

	means, stds := featureSummary(xTrain)
	for i := range means {
		log.WithFields(log.Fields{
			"feature": featureName(ds, i),
			"mean":    means[i],
			"std":     stds[i],
		}).Debug("feature summary")
	}

	est, err := s.factory(opts.Estimator)
	if err != nil {
		return nil, err
	}
	if err := est.Fit(xTrain, yTrain); err != nil {
		return nil, fmt.Errorf("fit %s: %w", est.Kind(), err)
	}

	preds, err := est.Predict(xTest)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", est.Kind(), err)
	}
	acc := Accuracy(yTest, preds)

	md := &domain.Metadata{
		Dataset:        ds.Name,
		ModelType:      est.Kind(),
		NFeatures:      ds.NumFeatures(),
		FeatureNames:   featureNames(ds),
		TargetNames:    targetNames(ds),
		TestAccuracy:   acc,
		TrainedAtUTC:   s.now().UTC().Format(TimestampLayout),
		SklearnVersion: est.Version(),
	}
	if err := s.writer.Write(ctx, est.Kind(), est, md); err != nil {
		return nil, fmt.Errorf("write artifacts: %w", err)
	}

	log.WithFields(log.Fields{
		"model_type": md.ModelType,
		"train_rows": len(trainIdx),
		"test_rows":  len(testIdx),
		"accuracy":   acc,
		"artifact":   md.Artifact,
	}).Info("training complete")

	return &TrainReport{
		Metadata:   md,
		TrainRows:  len(trainIdx),
		TestRows:   len(testIdx),
		Accuracy:   acc,
		FeatureStd: stds,
	}, nil
}

// StratifiedSplit partitions row indices so every class keeps roughly the
// same share in the test split. Classes with a single row stay in training.
func StratifiedSplit(y []int, testSize float64, seed int64) (train, test []int) {
	byClass := make(map[int][]int)
	for i, c := range y {
		byClass[c] = append(byClass[c], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))
	for _, c := range classes {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		n := int(math.Round(float64(len(idx)) * testSize))
		if n == 0 && len(idx) > 1 {
			n = 1
		}
		if n >= len(idx) {
			n = len(idx) - 1
		}
		test = append(test, idx[:n]...)
		train = append(train, idx[n:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test
}

// Accuracy is the share of predictions equal to the expected labels.
func Accuracy(expected, predicted []int) float64 {
	if len(expected) == 0 || len(expected) != len(predicted) {
		return 0
	}
	hits := 0
	for i := range expected {
		if expected[i] == predicted[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(expected))
}

func subset(ds *domain.Dataset, idx []int) ([][]float64, []int) {
	x := make([][]float64, len(idx))
	y := make([]int, len(idx))
	for i, j := range idx {
		x[i] = ds.X[j]
		y[i] = ds.Y[j]
	}
	return x, y
}

func featureSummary(x [][]float64) (means, stds []float64) {
	if len(x) == 0 {
		return nil, nil
	}
	width := len(x[0])
	means = make([]float64, width)
	stds = make([]float64, width)
	col := make([]float64, len(x))
	for j := 0; j < width; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		means[j], stds[j] = stat.MeanStdDev(col, nil)
	}
	return means, stds
}

func featureName(ds *domain.Dataset, i int) string {
	if i < len(ds.FeatureNames) {
		return ds.FeatureNames[i]
	}
	return fmt.Sprintf("f%d", i)
}

func featureNames(ds *domain.Dataset) []string {
	names := make([]string, ds.NumFeatures())
	for i := range names {
		names[i] = featureName(ds, i)
	}
	return names
}

func targetNames(ds *domain.Dataset) []string {
	if len(ds.TargetNames) > 0 {
		return ds.TargetNames
	}
	maxY := -1
	for _, y := range ds.Y {
		if y > maxY {
			maxY = y
		}
	}
	names := make([]string, maxY+1)
	for i := range names {
		names[i] = fmt.Sprintf("class_%d", i)
	}
	return names
}
