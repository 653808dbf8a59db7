package domain

// Model kinds written into the model envelope and the metadata model_type.
const (
	KindRandomForest = "RandomForestClassifier"
	KindDecisionTree = "DecisionTreeClassifier"
)

// Classifier produces one class index per input row.
type Classifier interface {
	Predict(rows [][]float64) ([]int, error)
	// NumFeatures is the row width the classifier was fitted on, 0 if unknown.
	NumFeatures() int
}

// ProbabilisticClassifier additionally produces a per-class probability row.
type ProbabilisticClassifier interface {
	Classifier
	PredictProba(rows [][]float64) ([][]float64, error)
}

// Model is a loaded classifier with its capabilities resolved once.
type Model struct {
	Kind  string
	clf   Classifier
	proba ProbabilisticClassifier
}

// NewModel wraps clf and records whether it can produce probabilities.
func NewModel(kind string, clf Classifier) *Model {
	m := &Model{Kind: kind, clf: clf}
	if p, ok := clf.(ProbabilisticClassifier); ok {
		m.proba = p
	}
	return m
}

func (m *Model) SupportsProba() bool {
	return m.proba != nil
}

func (m *Model) NumFeatures() int {
	return m.clf.NumFeatures()
}

func (m *Model) Predict(rows [][]float64) ([]int, error) {
	return m.clf.Predict(rows)
}

// PredictProba returns ErrUnsupportedOperation for label-only models.
func (m *Model) PredictProba(rows [][]float64) ([][]float64, error) {
	if m.proba == nil {
		return nil, ErrUnsupportedOperation
	}
	return m.proba.PredictProba(rows)
}

// Artifacts is the pair produced by one training run.
type Artifacts struct {
	Model    *Model
	Metadata *Metadata
}
