package schema

import "fmt"

// Kind describes how a feature's value is obtained and encoded.
type Kind string

const (
	// KindInteger is a bounded whole-number input.
	KindInteger Kind = "integer"
	// KindFloat is a bounded decimal input.
	KindFloat Kind = "float"
	// KindBinary is a Yes/No (or Male/Female) input encoded as 0/1.
	KindBinary Kind = "binary"
	// KindDerived is computed from other features, never entered directly.
	KindDerived Kind = "derived"
	// KindConstant is always emitted as a fixed value; no input control exists.
	KindConstant Kind = "constant"
)

// Feature is one entry of the model's input contract: its column name, how
// it is collected, its legal domain and the clinically plausible default
// pre-filled into the input form.
type Feature struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Kind    Kind    `json:"kind"`
	Min     float64 `json:"min,omitempty"`
	Max     float64 `json:"max,omitempty"`
	Step    float64 `json:"step,omitempty"`
	Default float64 `json:"default"`
}

// Version identifies the feature contract. It must be bumped whenever a
// feature is added, removed, renamed or reordered, and it is checked
// against the loaded model bundle at startup.
const Version = "bleed-v1"

// Features is the canonical, ordered feature schema for the bleeding-risk
// model. Order is significant: it is the column order the model was trained
// with, and the assembler emits vectors in exactly this order.
var Features = []Feature{
	{Name: "apache_iv_score", Label: "APACHE IV Score", Kind: KindInteger, Min: 0, Max: 200, Default: 50},
	{Name: "gcs", Label: "GCS Score", Kind: KindInteger, Min: 3, Max: 15, Default: 12},
	{Name: "albumin_max", Label: "Max Albumin (g/dL)", Kind: KindFloat, Min: 1.0, Max: 6.0, Step: 0.1, Default: 3.5},
	{Name: "hematocrit_min", Label: "Min Hematocrit (%)", Kind: KindInteger, Min: 10, Max: 60, Default: 30},
	{Name: "anemia", Label: "Anemia", Kind: KindBinary},
	{Name: "platelet_min", Label: "Min Platelet Count (×10³/µL)", Kind: KindInteger, Min: 10, Max: 500, Default: 150},
	{Name: "ptt_max", Label: "Max PTT (seconds)", Kind: KindFloat, Min: 20, Max: 200, Default: 35},
	{Name: "coagulation_dysfunction", Label: "Coagulation Dysfunction", Kind: KindDerived},
	{Name: "pt_max", Label: "Max PT (seconds)", Kind: KindFloat, Min: 10, Max: 50, Default: 13},
	{Name: "bun_max", Label: "Max BUN (mg/dL)", Kind: KindInteger, Min: 5, Max: 100, Default: 20},
	{Name: "respiratoryrate", Label: "Respiratory Rate (breaths/min)", Kind: KindInteger, Min: 5, Max: 50, Default: 18},
	{Name: "nibp_systolic", Label: "Systolic BP (mmHg)", Kind: KindInteger, Min: 50, Max: 250, Default: 120},
	{Name: "nibp_diastolic", Label: "Diastolic BP (mmHg)", Kind: KindInteger, Min: 30, Max: 150, Default: 80},
	{Name: "gender", Label: "Gender", Kind: KindBinary}, // 0=Male, 1=Female
	{Name: "caucasian", Label: "Caucasian", Kind: KindBinary, Default: 1},
	{Name: "medsurg_icu", Label: "Medical/Surgical ICU", Kind: KindBinary},
	{Name: "cardiac_icu", Label: "Cardiac ICU", Kind: KindBinary},
	{Name: "neuro_icu", Label: "Neuro ICU", Kind: KindBinary},
	{Name: "gastrointestinal_condition", Label: "Gastrointestinal Condition", Kind: KindBinary},
	{Name: "trauma", Label: "Trauma", Kind: KindBinary},
	{Name: "history_of_bleed", Label: "History of Bleeding", Kind: KindBinary},
	{Name: "history_of_vte", Label: "History of VTE", Kind: KindBinary},
	{Name: "sepsis", Label: "Sepsis", Kind: KindBinary},
	{Name: "vascular_disorders", Label: "Vascular Disorders", Kind: KindBinary},
	{Name: "acute_coronary_syndrome", Label: "Acute Coronary Syndrome", Kind: KindConstant},
	{Name: "respiratory_failure", Label: "Respiratory Failure", Kind: KindDerived},
	{Name: "vasopressors_inotropic_agents", Label: "Vasopressors/Inotropic Agents", Kind: KindConstant},
	{Name: "stress_ulcer_drug", Label: "Stress Ulcer Medication", Kind: KindBinary},
}

// Names returns the feature names in schema order.
func Names() []string {
	names := make([]string, len(Features))
	for i, f := range Features {
		names[i] = f.Name
	}
	return names
}

// ByName returns the feature with the given name, or false if no such
// feature exists in the schema.
func ByName(name string) (Feature, bool) {
	for _, f := range Features {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// Validate checks that a candidate feature-name ordering (typically the
// feature_names field of a loaded model bundle) matches the canonical
// schema exactly: same names, same order, no omissions or additions.
func Validate(names []string) error {
	if len(names) != len(Features) {
		return fmt.Errorf("schema %s expects %d features, got %d", Version, len(Features), len(names))
	}
	for i, f := range Features {
		if names[i] != f.Name {
			return fmt.Errorf("schema %s drift at column %d: expected %q, got %q", Version, i, f.Name, names[i])
		}
	}
	return nil
}
