package services

import (
	"encoding/json"
	"fmt"
	"reflect"

	"wine-model-service/internal/core/domain"
)

// ValidateFeatures checks a decoded feature payload against the expected
// vector length and returns it as a float slice.
func ValidateFeatures(features any, expectedLen int) ([]float64, error) {
	if features == nil {
		return nil, fmt.Errorf("%w: features is required", domain.ErrInvalidInput)
	}

	var items []any
	switch v := features.(type) {
	case []any:
		items = v
	case []float64:
		items = make([]any, len(v))
		for i, f := range v {
			items[i] = f
		}
	default:
		rv := reflect.ValueOf(features)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("%w: features must be a list of numbers", domain.ErrInvalidInput)
		}
		items = make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
	}

	if len(items) != expectedLen {
		return nil, fmt.Errorf("%w: Expected %d features, got %d.", domain.ErrInvalidInput, expectedLen, len(items))
	}

	out := make([]float64, len(items))
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			return nil, fmt.Errorf("%w: Feature at index %d is not numeric: %s", domain.ErrInvalidInput, i, formatValue(item))
		}
		out[i] = f
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func formatValue(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
