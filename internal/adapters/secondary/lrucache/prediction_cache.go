package lrucache

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"wine-model-service/internal/core/domain"
	ports "wine-model-service/internal/core/ports/output"
)

// PredictionCache keeps the most recent results per feature vector. Keys use
// the exact bit pattern of each value, so only identical vectors hit.
type PredictionCache struct {
	labels *lru.Cache[string, *domain.Prediction]
	probas *lru.Cache[string, *domain.ProbaPrediction]
}

var _ ports.PredictionCache = (*PredictionCache)(nil)

func New(size int) (*PredictionCache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	labels, err := lru.New[string, *domain.Prediction](size)
	if err != nil {
		return nil, err
	}
	probas, err := lru.New[string, *domain.ProbaPrediction](size)
	if err != nil {
		return nil, err
	}
	return &PredictionCache{labels: labels, probas: probas}, nil
}

func (c *PredictionCache) GetPrediction(features []float64) (*domain.Prediction, bool) {
	return c.labels.Get(key(features))
}

func (c *PredictionCache) AddPrediction(features []float64, p *domain.Prediction) {
	c.labels.Add(key(features), p)
}

func (c *PredictionCache) GetProba(features []float64) (*domain.ProbaPrediction, bool) {
	return c.probas.Get(key(features))
}

func (c *PredictionCache) AddProba(features []float64, p *domain.ProbaPrediction) {
	c.probas.Add(key(features), p)
}

func (c *PredictionCache) Len() int {
	return c.labels.Len() + c.probas.Len()
}

func key(features []float64) string {
	var b strings.Builder
	b.Grow(len(features) * 17)
	for i, f := range features {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(math.Float64bits(f), 16))
	}
	return b.String()
}
