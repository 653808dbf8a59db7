package domain

import "fmt"

// Dataset is a labelled feature matrix with its column and class names.
type Dataset struct {
	Name         string
	X            [][]float64
	Y            []int
	FeatureNames []string
	TargetNames  []string
}

// Validate checks that rows, labels and names agree.
func (d *Dataset) Validate() error {
	if len(d.X) == 0 {
		return ErrEmptyDataset
	}
	if len(d.X) != len(d.Y) {
		return fmt.Errorf("%w: %d rows but %d labels", ErrInvalidDataset, len(d.X), len(d.Y))
	}
	width := len(d.FeatureNames)
	if width == 0 {
		width = len(d.X[0])
	}
	for i, row := range d.X {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d values, expected %d", ErrInvalidDataset, i, len(row), width)
		}
	}
	for i, y := range d.Y {
		if y < 0 || (len(d.TargetNames) > 0 && y >= len(d.TargetNames)) {
			return fmt.Errorf("%w: label %d at row %d is out of range", ErrInvalidDataset, y, i)
		}
	}
	return nil
}

// NumFeatures is the row width.
func (d *Dataset) NumFeatures() int {
	if len(d.FeatureNames) > 0 {
		return len(d.FeatureNames)
	}
	if len(d.X) > 0 {
		return len(d.X[0])
	}
	return 0
}
