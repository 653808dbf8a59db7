package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWine(t *testing.T) {
	ds, err := Wine().Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, ds.Validate())

	assert.Equal(t, "wine", ds.Name)
	assert.Len(t, ds.X, 178)
	assert.Equal(t, 13, ds.NumFeatures())
	assert.Equal(t, "alcohol", ds.FeatureNames[0])
	assert.Equal(t, "proline", ds.FeatureNames[12])
	assert.Equal(t, []string{"class_0", "class_1", "class_2"}, ds.TargetNames)

	counts := map[int]int{}
	for _, y := range ds.Y {
		counts[y]++
	}
	assert.Equal(t, map[int]int{0: 59, 1: 71, 2: 48}, counts)
	assert.Equal(t, []float64{14.23, 1.71, 2.43, 15.6, 127, 2.8, 3.06, 0.28, 2.29, 5.64, 1.04, 3.92, 1065}, ds.X[0])
}
