package model

import (
	"fmt"
	"math"
)

// checkVector verifies a candidate vector is scoreable against this model:
// exactly one value per feature, all finite. Violations surface as
// ErrVectorShape, which the request layer treats as a recoverable
// inference failure.
func (b *Bundle) checkVector(vector []float64) error {
	if len(vector) != len(b.FeatureNames) {
		return fmt.Errorf("%w: got %d values, model expects %d", ErrVectorShape, len(vector), len(b.FeatureNames))
	}
	for i, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value for %s", ErrVectorShape, b.FeatureNames[i])
		}
	}
	return nil
}

// Margin returns the raw additive model output (log-odds space) for the
// vector: base margin plus the leaf value of every tree.
func (b *Bundle) Margin(vector []float64) (float64, error) {
	if err := b.checkVector(vector); err != nil {
		return 0, err
	}
	margin := b.baseMargin
	for _, root := range b.Trees {
		margin += evalTree(root, vector)
	}
	return margin, nil
}

// PredictProba returns the model's estimated probability of the positive
// class (major bleeding) for one feature vector. Deterministic for a fixed
// bundle and vector; no side effects.
func (b *Bundle) PredictProba(vector []float64) (float64, error) {
	margin, err := b.Margin(vector)
	if err != nil {
		return 0, err
	}
	p := sigmoid(margin)
	// Sigmoid output is already in [0,1]; the clamp guards float rounding.
	return math.Max(0, math.Min(1, p)), nil
}

// evalTree walks one tree to its leaf for the given vector. The yes branch
// is taken when the split feature is strictly below the threshold,
// matching the training-time convention.
func evalTree(n *Node, vector []float64) float64 {
	for !n.IsLeaf() {
		if vector[n.Feature] < n.Threshold {
			n = n.Yes
		} else {
			n = n.No
		}
	}
	return n.Leaf
}
