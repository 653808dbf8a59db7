package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Metadata describes a trained model. The JSON field names are shared with
// artifacts produced by earlier training runs and must not change.
type Metadata struct {
	Dataset        string   `json:"dataset"`
	ModelType      string   `json:"model_type"`
	NFeatures      int      `json:"n_features"`
	FeatureNames   []string `json:"feature_names"`
	TargetNames    []string `json:"target_names"`
	TestAccuracy   float64  `json:"test_accuracy"`
	TrainedAtUTC   string   `json:"trained_at_utc"`
	SklearnVersion string   `json:"sklearn_version"`
	Artifact       string   `json:"artifact"`

	// Raw holds the metadata file exactly as read from disk.
	Raw json.RawMessage `json:"-"`
}

// ParseMetadata decodes a metadata file and keeps the original bytes.
func ParseMetadata(data []byte) (*Metadata, error) {
	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("%w: parse metadata: %v", ErrArtifactInvalid, err)
	}
	md.Raw = append(json.RawMessage(nil), data...)
	return &md, nil
}

// Validate checks the feature-count invariants of the record.
func (m *Metadata) Validate() error {
	if m.NFeatures <= 0 {
		return fmt.Errorf("%w: n_features must be positive, got %d", ErrArtifactInvalid, m.NFeatures)
	}
	if len(m.FeatureNames) > 0 && len(m.FeatureNames) != m.NFeatures {
		return fmt.Errorf("%w: n_features is %d but %d feature names are recorded",
			ErrArtifactInvalid, m.NFeatures, len(m.FeatureNames))
	}
	return nil
}

// Label maps a class index to its recorded name, falling back to the index
// itself when it lies outside target_names.
func (m *Metadata) Label(index int) string {
	if index >= 0 && index < len(m.TargetNames) {
		return m.TargetNames[index]
	}
	return strconv.Itoa(index)
}

// ClassLabels returns target_names, or "0".."n-1" when none are recorded.
func (m *Metadata) ClassLabels(n int) []string {
	if len(m.TargetNames) > 0 {
		return m.TargetNames
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}
