package estimator

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sort"

	"wine-model-service/internal/core/domain"
)

const defaultTreeDepth = 8

// TreeNode is one node of a flattened CART tree. Children are indices into
// the node slice; leaves carry the majority class.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Class     int
	Leaf      bool
}

// DecisionTree is a single gini-split classification tree. It only answers
// labels.
type DecisionTree struct {
	maxDepth int
	width    int
	nodes    []TreeNode
}

func NewDecisionTree(maxDepth int) *DecisionTree {
	if maxDepth <= 0 {
		maxDepth = defaultTreeDepth
	}
	return &DecisionTree{maxDepth: maxDepth}
}

func (t *DecisionTree) Kind() string { return domain.KindDecisionTree }

func (t *DecisionTree) Version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Path != "" {
		return info.Main.Path + " " + info.Main.Version
	}
	return "unknown"
}

func (t *DecisionTree) NumFeatures() int { return t.width }

func (t *DecisionTree) Fit(x [][]float64, y []int) error {
	if len(x) == 0 {
		return domain.ErrEmptyDataset
	}
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d rows but %d labels", domain.ErrInvalidDataset, len(x), len(y))
	}
	t.width = len(x[0])
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	t.nodes = t.nodes[:0]
	t.grow(x, y, idx, 0)
	return nil
}

func (t *DecisionTree) Predict(rows [][]float64) ([]int, error) {
	if len(t.nodes) == 0 {
		return nil, domain.ErrModelNotTrained
	}
	out := make([]int, len(rows))
	for i, row := range rows {
		if len(row) != t.width {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), t.width)
		}
		c, err := t.walk(row)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func (t *DecisionTree) walk(row []float64) (int, error) {
	n := 0
	for steps := 0; steps <= len(t.nodes); steps++ {
		node := t.nodes[n]
		if node.Leaf {
			return node.Class, nil
		}
		if row[node.Feature] <= node.Threshold {
			n = node.Left
		} else {
			n = node.Right
		}
		if n < 0 || n >= len(t.nodes) {
			return 0, errors.New("tree references a node out of range")
		}
	}
	return 0, errors.New("tree contains a cycle")
}

// grow appends the subtree for idx and returns its root index.
func (t *DecisionTree) grow(x [][]float64, y []int, idx []int, depth int) int {
	self := len(t.nodes)
	majority := majorityClass(y, idx)
	t.nodes = append(t.nodes, TreeNode{Class: majority, Leaf: true})

	if depth >= t.maxDepth || pure(y, idx) {
		return self
	}
	feature, threshold, ok := bestSplit(x, y, idx)
	if !ok {
		return self
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := t.grow(x, y, left, depth+1)
	r := t.grow(x, y, right, depth+1)
	t.nodes[self] = TreeNode{Feature: feature, Threshold: threshold, Left: l, Right: r, Class: majority}
	return self
}

func bestSplit(x [][]float64, y []int, idx []int) (int, float64, bool) {
	bestFeature, bestThreshold := -1, 0.0
	bestScore := gini(y, idx)

	vals := make([]float64, len(idx))
	for f := range x[idx[0]] {
		for k, i := range idx {
			vals[k] = x[i][f]
		}
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		for k := 1; k < len(sorted); k++ {
			if sorted[k] == sorted[k-1] {
				continue
			}
			threshold := (sorted[k] + sorted[k-1]) / 2
			score := splitGini(x, y, idx, f, threshold)
			if score < bestScore {
				bestScore, bestFeature, bestThreshold = score, f, threshold
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func splitGini(x [][]float64, y []int, idx []int, feature int, threshold float64) float64 {
	left := make(map[int]int)
	right := make(map[int]int)
	nl, nr := 0, 0
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left[y[i]]++
			nl++
		} else {
			right[y[i]]++
			nr++
		}
	}
	total := float64(nl + nr)
	return float64(nl)/total*impurity(left, nl) + float64(nr)/total*impurity(right, nr)
}

func gini(y []int, idx []int) float64 {
	counts := make(map[int]int)
	for _, i := range idx {
		counts[y[i]]++
	}
	return impurity(counts, len(idx))
}

func impurity(counts map[int]int, n int) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		g -= p * p
	}
	return g
}

func majorityClass(y []int, idx []int) int {
	counts := make(map[int]int)
	best, bestCount := 0, -1
	for _, i := range idx {
		counts[y[i]]++
	}
	for c, n := range counts {
		if n > bestCount || (n == bestCount && c < best) {
			best, bestCount = c, n
		}
	}
	return best
}

func pure(y []int, idx []int) bool {
	for _, i := range idx[1:] {
		if y[i] != y[idx[0]] {
			return false
		}
	}
	return true
}
