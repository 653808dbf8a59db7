package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wine-model-service/data"
	"wine-model-service/internal/core/domain"
)

// WineTarget is the class column of the bundled wine table.
const WineTarget = "target"

// CSV reads a labelled dataset from a headed CSV file. The target column may
// hold integer class codes or class names; every other column is a feature.
type CSV struct {
	path   string
	target string
	name   string
	// raw, when set, is read instead of path.
	raw []byte
}

func NewCSV(path, target, name string) *CSV {
	if name == "" {
		name = filepath.Base(path)
	}
	return &CSV{path: path, target: target, name: name}
}

// Wine is the wine recognition table compiled into the binary.
func Wine() *CSV {
	return &CSV{path: "data/wine.csv", target: WineTarget, name: "wine", raw: data.WineCSV}
}

func (c *CSV) Load(ctx context.Context) (*domain.Dataset, error) {
	if c.raw != nil {
		return c.read(ctx, bytes.NewReader(c.raw))
	}
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return c.read(ctx, f)
}

func (c *CSV) read(ctx context.Context, r io.Reader) (*domain.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrInvalidDataset, err)
	}

	targetCol := -1
	features := make([]string, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == c.target {
			targetCol = i
			continue
		}
		features = append(features, h)
	}
	if targetCol < 0 {
		return nil, fmt.Errorf("%w: target column %q not in header", domain.ErrInvalidDataset, c.target)
	}

	var (
		x      [][]float64
		rawY   []string
		line   = 1
		allInt = true
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidDataset, line, err)
		}

		row := make([]float64, 0, len(features))
		for i, v := range rec {
			if i == targetCol {
				continue
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %v", domain.ErrInvalidDataset, line, header[i], err)
			}
			row = append(row, f)
		}
		label := strings.TrimSpace(rec[targetCol])
		if _, err := strconv.Atoi(label); err != nil {
			allInt = false
		}
		x = append(x, row)
		rawY = append(rawY, label)
	}
	if len(x) == 0 {
		return nil, domain.ErrEmptyDataset
	}

	y, targets, err := encodeLabels(rawY, allInt)
	if err != nil {
		return nil, err
	}

	return &domain.Dataset{
		Name:         c.name,
		X:            x,
		Y:            y,
		FeatureNames: features,
		TargetNames:  targets,
	}, nil
}

// encodeLabels turns integer codes into class_<n> names, and string labels into
// codes in order of first appearance.
func encodeLabels(raw []string, numeric bool) ([]int, []string, error) {
	y := make([]int, len(raw))
	if numeric {
		maxY := 0
		for i, r := range raw {
			n, _ := strconv.Atoi(r)
			if n < 0 {
				return nil, nil, fmt.Errorf("%w: negative class code %d", domain.ErrInvalidDataset, n)
			}
			y[i] = n
			if n > maxY {
				maxY = n
			}
		}
		names := make([]string, maxY+1)
		for i := range names {
			names[i] = "class_" + strconv.Itoa(i)
		}
		return y, names, nil
	}

	codes := make(map[string]int)
	var names []string
	for i, r := range raw {
		code, ok := codes[r]
		if !ok {
			code = len(names)
			codes[r] = code
			names = append(names, r)
		}
		y[i] = code
	}
	return y, names, nil
}
