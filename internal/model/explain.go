package model

// Contribution is one feature's additive share of a single prediction,
// relative to the explainer baseline, in the model's margin (log-odds)
// space.
type Contribution struct {
	Feature      string  `json:"feature"`
	Value        float64 `json:"value"`
	Contribution float64 `json:"contribution"`
}

// Explainer produces per-feature attributions for individual predictions
// of a loaded Bundle. It attributes, at every split on the path a vector
// takes through a tree, the change in expected leaf value to the split
// feature; summed over all trees this decomposes the prediction exactly:
//
//	ExpectedValue + sum(contributions) == Margin(vector)
//
// Construct once per bundle and reuse; an Explainer is read-only and safe
// for concurrent use.
type Explainer struct {
	bundle *Bundle
}

// NewExplainer creates an attribution engine for the given bundle.
func NewExplainer(b *Bundle) *Explainer {
	return &Explainer{bundle: b}
}

// ExpectedValue is the baseline: the model's expected margin-space output
// with no knowledge of any feature (base margin plus each tree's
// cover-weighted root expectation).
func (e *Explainer) ExpectedValue() float64 {
	ev := e.bundle.baseMargin
	for _, root := range e.bundle.Trees {
		ev += root.expected
	}
	return ev
}

// Explain returns one contribution per model feature, aligned to the
// bundle's feature_names order, for the given vector.
func (e *Explainer) Explain(vector []float64) ([]Contribution, error) {
	if err := e.bundle.checkVector(vector); err != nil {
		return nil, err
	}

	totals := make([]float64, len(e.bundle.FeatureNames))
	for _, root := range e.bundle.Trees {
		attributePath(root, vector, totals)
	}

	contribs := make([]Contribution, len(totals))
	for i, c := range totals {
		contribs[i] = Contribution{
			Feature:      e.bundle.FeatureNames[i],
			Value:        vector[i],
			Contribution: c,
		}
	}
	return contribs, nil
}

// attributePath walks the vector's path through one tree, crediting each
// split's feature with the change in expected value the split caused.
func attributePath(n *Node, vector []float64, totals []float64) {
	for !n.IsLeaf() {
		next := n.No
		if vector[n.Feature] < n.Threshold {
			next = n.Yes
		}
		totals[n.Feature] += next.expected - n.expected
		n = next
	}
}
