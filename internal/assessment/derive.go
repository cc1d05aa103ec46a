package assessment

// Derived features are deterministic functions of already-collected raw
// values. They are recomputed on every assembly; stale derived values are
// never carried across edits.

// CoagulationDysfunction flags impaired coagulation from the worst
// coagulation labs: prolonged PTT (> 40 s) or prolonged PT (> 14 s).
func CoagulationDysfunction(pttMax, ptMax float64) float64 {
	if pttMax > 40 || ptMax > 14 {
		return 1
	}
	return 0
}

// RespiratoryFailure flags respiratory compromise from vitals: tachypnea
// (respiratory rate > 24/min) or hypotension (systolic BP < 90 mmHg).
func RespiratoryFailure(respiratoryRate, nibpSystolic int) float64 {
	if respiratoryRate > 24 || nibpSystolic < 90 {
		return 1
	}
	return 0
}
