package lrucache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wine-model-service/internal/core/domain"
)

func TestNew_RejectsNonPositiveSize(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
	_, err = New(-3)
	assert.Error(t, err)
}

func TestPredictionCache(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	a := []float64{1, 2, 3}
	b := []float64{1, 2, 3.0000001}

	_, ok := c.GetPrediction(a)
	assert.False(t, ok)

	c.AddPrediction(a, &domain.Prediction{Index: 1, Label: "class_1"})
	p, ok := c.GetPrediction(a)
	require.True(t, ok)
	assert.Equal(t, "class_1", p.Label)

	_, ok = c.GetPrediction(b)
	assert.False(t, ok)

	// label and probability entries are kept apart
	_, ok = c.GetProba(a)
	assert.False(t, ok)
	c.AddProba(a, &domain.ProbaPrediction{Probabilities: []float64{0, 1, 0}})
	assert.Equal(t, 2, c.Len())
}

func TestPredictionCache_Evicts(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		c.AddPrediction([]float64{float64(i)}, &domain.Prediction{Index: i})
	}
	_, ok := c.GetPrediction([]float64{0})
	assert.False(t, ok)
	_, ok = c.GetPrediction([]float64{2})
	assert.True(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, key([]float64{1.5, 2}), key([]float64{1.5, 2}))
	assert.NotEqual(t, key([]float64{1, 2}), key([]float64{2, 1}))
	assert.NotEqual(t, key([]float64{1, 23}), key([]float64{12, 3}))
}
