package assessment

import "fmt"

// Thresholds holds the decision points that turn a probability into a
// discrete classification. They are configuration, not learned logic: the
// decision threshold is typically chosen via Youden's index during model
// validation and must be tunable without code changes.
type Thresholds struct {
	// Decision separates the binary High Risk / Low Risk labels.
	Decision float64 `json:"decision"`
	// ModerateFloor is the exclusive lower bound of the Moderate band.
	ModerateFloor float64 `json:"moderate_floor"`
	// HighFloor is the exclusive lower bound of the High band.
	HighFloor float64 `json:"high_floor"`
}

// DefaultThresholds returns the shipped decision points: label at 0.5,
// bands at 0.3 and 0.7.
func DefaultThresholds() Thresholds {
	return Thresholds{Decision: 0.5, ModerateFloor: 0.3, HighFloor: 0.7}
}

// Validate rejects threshold configurations that cannot classify a
// probability consistently.
func (t Thresholds) Validate() error {
	if t.Decision <= 0 || t.Decision >= 1 {
		return fmt.Errorf("decision threshold %v outside (0,1)", t.Decision)
	}
	if t.ModerateFloor <= 0 || t.HighFloor >= 1 || t.ModerateFloor >= t.HighFloor {
		return fmt.Errorf("band cutoffs (%v, %v) must satisfy 0 < moderate < high < 1", t.ModerateFloor, t.HighFloor)
	}
	return nil
}

// Label returns the binary prediction: High Risk iff the probability is at
// or above the decision threshold.
func (t Thresholds) Label(probability float64) RiskLabel {
	if probability >= t.Decision {
		return LabelHighRisk
	}
	return LabelLowRisk
}

// Band maps a probability to its risk band: High above HighFloor, Moderate
// above ModerateFloor, Low otherwise. Boundary values fall into the lower
// band (p == 0.7 is Moderate, p == 0.3 is Low).
func (t Thresholds) Band(probability float64) RiskBand {
	switch {
	case probability > t.HighFloor:
		return BandHigh
	case probability > t.ModerateFloor:
		return BandModerate
	default:
		return BandLow
	}
}

// Guidance returns the clinical recommendation text shown with each band.
func Guidance(band RiskBand) string {
	switch band {
	case BandHigh:
		return "High bleeding risk: enhance coagulation monitoring, consider preventive interventions, and avoid unnecessary invasive procedures."
	case BandModerate:
		return "Moderate bleeding risk: continue routine coagulation monitoring, review the medication regimen, and watch for bleeding signs."
	default:
		return "Low bleeding risk: routine care is sufficient."
	}
}
