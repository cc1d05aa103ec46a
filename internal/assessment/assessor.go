package assessment

import (
	"errors"
	"fmt"
	"math"

	"github.com/clinsight/bleedrisk/internal/model"
)

// ErrInference indicates the scoring or explanation engine failed for an
// assembled vector. Recoverable at the request level: the error is reported
// to the operator and the session stays usable for a corrected retry.
var ErrInference = errors.New("inference failed")

// Classifier is the opaque scoring contract: one vector in, one probability
// of the positive class out. Implementations must be deterministic for a
// fixed model and vector, side-effect free, and safe for concurrent use.
type Classifier interface {
	Features() []string
	PredictProba(vector []float64) (float64, error)
}

// Attributor is the opaque attribution contract: a margin-space baseline
// plus a per-feature additive decomposition of one prediction, aligned to
// the classifier's feature order.
type Attributor interface {
	ExpectedValue() float64
	Explain(vector []float64) ([]model.Contribution, error)
}

// Explanation is the per-prediction attribution result. The decomposition
// is additive in margin space: Baseline + sum of contributions == Margin.
type Explanation struct {
	Baseline      float64              `json:"baseline"`
	Margin        float64              `json:"margin"`
	Contributions []model.Contribution `json:"contributions"`
}

// Result is one complete risk assessment for one patient record. It lives
// for the current response only and is never stored.
type Result struct {
	Probability float64       `json:"probability"`
	Band        RiskBand      `json:"band"`
	Label       RiskLabel     `json:"label"`
	Guidance    string        `json:"guidance"`
	Thresholds  Thresholds    `json:"thresholds"`
	Vector      FeatureVector `json:"vector"`
	Explanation Explanation   `json:"explanation"`
}

// Assessor runs the full pipeline for one patient record: assemble the
// feature vector, score it, band the probability and explain the
// prediction. The classifier and attributor are injected once at startup
// and shared read-only across requests.
type Assessor struct {
	classifier Classifier
	attributor Attributor
	thresholds Thresholds
}

// NewAssessor creates an assessor over the given scoring and attribution
// engines.
func NewAssessor(c Classifier, a Attributor, t Thresholds) (*Assessor, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}
	return &Assessor{classifier: c, attributor: a, thresholds: t}, nil
}

// Thresholds returns the configured decision points, for display alongside
// results.
func (a *Assessor) Thresholds() Thresholds {
	return a.thresholds
}

// Assess runs one synchronous, bounded prediction. Assembly failures are
// ErrSchemaMismatch; any scoring or explanation failure wraps ErrInference
// (alongside the engine's own error) and is recoverable at the request
// level.
func (a *Assessor) Assess(rec PatientRecord) (*Result, error) {
	vector, err := Assemble(rec, a.classifier.Features())
	if err != nil {
		return nil, err
	}

	probability, err := a.classifier.PredictProba(vector.Values)
	if err != nil {
		return nil, fmt.Errorf("%w: scoring failed: %w", ErrInference, err)
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return nil, fmt.Errorf("%w: classifier returned probability %v outside [0,1]", ErrInference, probability)
	}

	contributions, err := a.attributor.Explain(vector.Values)
	if err != nil {
		return nil, fmt.Errorf("%w: explanation failed: %w", ErrInference, err)
	}
	baseline := a.attributor.ExpectedValue()
	margin := baseline
	for _, c := range contributions {
		margin += c.Contribution
	}

	band := a.thresholds.Band(probability)
	return &Result{
		Probability: probability,
		Band:        band,
		Label:       a.thresholds.Label(probability),
		Guidance:    Guidance(band),
		Thresholds:  a.thresholds,
		Vector:      vector,
		Explanation: Explanation{
			Baseline:      baseline,
			Margin:        margin,
			Contributions: contributions,
		},
	}, nil
}
