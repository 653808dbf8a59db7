package estimator

import (
	"encoding/gob"
	"fmt"
	"io"

	randomforest "github.com/malaschitz/randomForest"

	"wine-model-service/internal/core/domain"
	ports "wine-model-service/internal/core/ports/output"
)

// envelope is the on-disk model file: the kind tag plus exactly one payload.
type envelope struct {
	Kind   string
	Forest *randomforest.Forest
	Tree   *treePayload
}

type treePayload struct {
	Width int
	Nodes []TreeNode
}

// New is the ports.EstimatorFactory for the supported model kinds.
func New(opts ports.EstimatorOptions) (ports.Estimator, error) {
	switch opts.Kind {
	case "", "random_forest", domain.KindRandomForest:
		return NewForest(opts.Trees, opts.MaxDepth), nil
	case "decision_tree", domain.KindDecisionTree:
		return NewDecisionTree(opts.MaxDepth), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownModelKind, opts.Kind)
	}
}

// Encode writes a fitted classifier.
func Encode(w io.Writer, clf domain.Classifier) error {
	var env envelope
	switch m := clf.(type) {
	case *Forest:
		if m.forest == nil {
			return domain.ErrModelNotTrained
		}
		env = envelope{Kind: domain.KindRandomForest, Forest: m.forest}
	case *DecisionTree:
		if len(m.nodes) == 0 {
			return domain.ErrModelNotTrained
		}
		env = envelope{Kind: domain.KindDecisionTree, Tree: &treePayload{Width: m.width, Nodes: m.nodes}}
	default:
		return fmt.Errorf("%w: cannot encode %T", domain.ErrUnknownModelKind, clf)
	}
	return gob.NewEncoder(w).Encode(&env)
}

// Decode reads a model file and resolves its capabilities.
func Decode(r io.Reader) (*domain.Model, error) {
	var env envelope
	if err := gob.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode model: %v", domain.ErrArtifactInvalid, err)
	}
	switch env.Kind {
	case domain.KindRandomForest:
		if env.Forest == nil || len(env.Forest.Trees) == 0 {
			return nil, fmt.Errorf("%w: %s payload has no trees", domain.ErrArtifactInvalid, env.Kind)
		}
		return domain.NewModel(env.Kind, &Forest{trees: len(env.Forest.Trees), forest: env.Forest}), nil
	case domain.KindDecisionTree:
		if env.Tree == nil || len(env.Tree.Nodes) == 0 {
			return nil, fmt.Errorf("%w: %s payload has no nodes", domain.ErrArtifactInvalid, env.Kind)
		}
		return domain.NewModel(env.Kind, &DecisionTree{width: env.Tree.Width, nodes: env.Tree.Nodes}), nil
	default:
		return nil, fmt.Errorf("%w: model kind %q", domain.ErrArtifactInvalid, env.Kind)
	}
}
