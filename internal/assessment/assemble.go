package assessment

import (
	"errors"
	"fmt"
)

// ErrSchemaMismatch indicates the assembled column set does not match the
// model's expected feature set. This is a developer-time inconsistency
// (model/code drift), never a user-input problem, and the assembler fails
// loudly rather than silently misaligning columns.
var ErrSchemaMismatch = errors.New("assembled features do not match model schema")

// encode maps one patient record, plus freshly computed derived features,
// onto the full set of model feature values keyed by feature name.
//
// acute_coronary_syndrome and vasopressors_inotropic_agents have no input
// control and are always emitted as 0. Known scope limitation of the
// collected parameter set, kept deliberately.
func encode(rec PatientRecord) map[string]float64 {
	return map[string]float64{
		"apache_iv_score":               float64(rec.ApacheIVScore),
		"gcs":                           float64(rec.GCS),
		"albumin_max":                   rec.AlbuminMax,
		"hematocrit_min":                float64(rec.HematocritMin),
		"anemia":                        rec.Anemia.Indicator(),
		"platelet_min":                  float64(rec.PlateletMin),
		"ptt_max":                       rec.PTTMax,
		"coagulation_dysfunction":       CoagulationDysfunction(rec.PTTMax, rec.PTMax),
		"pt_max":                        rec.PTMax,
		"bun_max":                       float64(rec.BUNMax),
		"respiratoryrate":               float64(rec.RespiratoryRate),
		"nibp_systolic":                 float64(rec.NIBPSystolic),
		"nibp_diastolic":                float64(rec.NIBPDiastolic),
		"gender":                        rec.Gender.Indicator(),
		"caucasian":                     rec.Caucasian.Indicator(),
		"medsurg_icu":                   rec.MedSurgICU.Indicator(),
		"cardiac_icu":                   rec.CardiacICU.Indicator(),
		"neuro_icu":                     rec.NeuroICU.Indicator(),
		"gastrointestinal_condition":    rec.GICondition.Indicator(),
		"trauma":                        rec.Trauma.Indicator(),
		"history_of_bleed":              rec.HistoryOfBleed.Indicator(),
		"history_of_vte":                rec.HistoryOfVTE.Indicator(),
		"sepsis":                        rec.Sepsis.Indicator(),
		"vascular_disorders":            rec.VascularDisorders.Indicator(),
		"acute_coronary_syndrome":       0,
		"respiratory_failure":           RespiratoryFailure(rec.RespiratoryRate, rec.NIBPSystolic),
		"vasopressors_inotropic_agents": 0,
		"stress_ulcer_drug":             rec.StressUlcerDrug.Indicator(),
	}
}

// Assemble produces the model-ready feature vector for one patient record,
// ordered by the given feature names (the loaded model's column order, not
// collection order). It rejects with ErrSchemaMismatch if the model's
// feature set and the assembler's encoded set differ in any way.
func Assemble(rec PatientRecord, order []string) (FeatureVector, error) {
	encoded := encode(rec)
	if len(order) != len(encoded) {
		return FeatureVector{}, fmt.Errorf("%w: model expects %d features, assembler encodes %d",
			ErrSchemaMismatch, len(order), len(encoded))
	}

	values := make([]float64, len(order))
	seen := make(map[string]bool, len(order))
	for i, name := range order {
		v, ok := encoded[name]
		if !ok {
			return FeatureVector{}, fmt.Errorf("%w: model expects %q, assembler does not encode it",
				ErrSchemaMismatch, name)
		}
		if seen[name] {
			return FeatureVector{}, fmt.Errorf("%w: duplicate feature %q in model schema",
				ErrSchemaMismatch, name)
		}
		seen[name] = true
		values[i] = v
	}

	names := make([]string, len(order))
	copy(names, order)
	return FeatureVector{Names: names, Values: values}, nil
}
