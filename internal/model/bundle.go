package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// Sentinel errors returned by bundle loading and scoring. Callers map these
// onto the HTTP error taxonomy; this package stays transport-agnostic.
var (
	// ErrBundleCorrupt indicates the bundle file could not be parsed or
	// failed structural validation. Fatal at startup.
	ErrBundleCorrupt = errors.New("model bundle corrupt")
	// ErrVectorShape indicates a feature vector whose shape or contents are
	// incompatible with the loaded model. Recoverable per request.
	ErrVectorShape = errors.New("feature vector incompatible with model")
)

// Node is one node of a regression tree in the bundle. Internal nodes carry
// a split (feature index, threshold, children); leaves carry a value.
// Cover is the training-sample weight that reached the node and is used to
// compute per-node expected values for attribution.
type Node struct {
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Yes       *Node   `json:"yes,omitempty"`
	No        *Node   `json:"no,omitempty"`
	Leaf      float64 `json:"leaf,omitempty"`
	Cover     float64 `json:"cover"`

	// expected is the cover-weighted mean leaf value of the subtree,
	// precomputed at load time.
	expected float64
}

// IsLeaf reports whether the node is a terminal leaf.
func (n *Node) IsLeaf() bool {
	return n.Yes == nil && n.No == nil
}

// Bundle is the deserialized model artifact: the ordered feature contract
// plus the boosted tree ensemble. A Bundle is read-only after Load and safe
// for concurrent use.
type Bundle struct {
	ModelType     string   `json:"model_type"`
	ModelVersion  string   `json:"model_version"`
	SchemaVersion string   `json:"schema_version"`
	FeatureNames  []string `json:"feature_names"`
	BaseScore     float64  `json:"base_score"`
	Trees         []*Node  `json:"trees"`

	baseMargin float64
}

// Load reads and validates a model bundle from disk. Any failure here is a
// startup-fatal condition: the caller must not serve predictions against a
// partially loaded model.
func Load(path string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model bundle %s: %w", path, err)
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrBundleCorrupt, path, err)
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBundleCorrupt, err)
	}

	b.baseMargin = logit(b.BaseScore)
	for _, root := range b.Trees {
		computeExpected(root)
	}
	return &b, nil
}

// Features returns the model's ordered feature names.
func (b *Bundle) Features() []string {
	return b.FeatureNames
}

func (b *Bundle) validate() error {
	if len(b.FeatureNames) == 0 {
		return errors.New("bundle has no feature_names")
	}
	if len(b.Trees) == 0 {
		return errors.New("bundle has no trees")
	}
	if b.BaseScore <= 0 || b.BaseScore >= 1 {
		return fmt.Errorf("base_score %v outside (0,1)", b.BaseScore)
	}
	for i, root := range b.Trees {
		if err := validateNode(root, len(b.FeatureNames)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func validateNode(n *Node, featureCount int) error {
	if n == nil {
		return errors.New("nil node")
	}
	if n.IsLeaf() {
		return nil
	}
	if n.Yes == nil || n.No == nil {
		return errors.New("internal node missing a child")
	}
	if n.Feature < 0 || n.Feature >= featureCount {
		return fmt.Errorf("split on feature index %d, model has %d features", n.Feature, featureCount)
	}
	if n.Cover <= 0 {
		return errors.New("internal node with non-positive cover")
	}
	if err := validateNode(n.Yes, featureCount); err != nil {
		return err
	}
	return validateNode(n.No, featureCount)
}

// computeExpected fills in the cover-weighted expected value for every node
// of the tree, bottom-up. Leaves carry their own value; internal nodes mix
// their children by cover.
func computeExpected(n *Node) float64 {
	if n.IsLeaf() {
		n.expected = n.Leaf
		return n.expected
	}
	ey := computeExpected(n.Yes)
	en := computeExpected(n.No)
	total := n.Yes.Cover + n.No.Cover
	if total <= 0 {
		// Degenerate cover information; fall back to an unweighted mean so
		// the additive decomposition still holds.
		n.expected = (ey + en) / 2
		return n.expected
	}
	n.expected = (n.Yes.Cover*ey + n.No.Cover*en) / total
	return n.expected
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
