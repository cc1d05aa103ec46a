package assessment

// YesNo is a closed categorical input decided once at the request boundary;
// internal logic only ever sees the 0/1 indicator.
type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// Indicator returns the training-time binary encoding: Yes=1, No=0.
func (y YesNo) Indicator() float64 {
	if y == Yes {
		return 1
	}
	return 0
}

// Gender is the patient gender input.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// Indicator returns the training-time binary encoding: Female=1, Male=0.
func (g Gender) Indicator() float64 {
	if g == Female {
		return 1
	}
	return 0
}

// PatientRecord holds one patient's raw clinical entries for a single
// prediction request. It is transient: created per request, never
// persisted. The binding tags mirror each feature's schema domain so no
// out-of-domain value survives request binding.
type PatientRecord struct {
	ApacheIVScore   int     `json:"apache_iv_score" binding:"min=0,max=200"`
	GCS             int     `json:"gcs" binding:"required,min=3,max=15"`
	AlbuminMax      float64 `json:"albumin_max" binding:"required,min=1,max=6"`
	HematocritMin   int     `json:"hematocrit_min" binding:"required,min=10,max=60"`
	Anemia          YesNo   `json:"anemia" binding:"required,oneof=Yes No"`
	PlateletMin     int     `json:"platelet_min" binding:"required,min=10,max=500"`
	PTTMax          float64 `json:"ptt_max" binding:"required,min=20,max=200"`
	PTMax           float64 `json:"pt_max" binding:"required,min=10,max=50"`
	BUNMax          int     `json:"bun_max" binding:"required,min=5,max=100"`
	RespiratoryRate int     `json:"respiratoryrate" binding:"required,min=5,max=50"`
	NIBPSystolic    int     `json:"nibp_systolic" binding:"required,min=50,max=250"`
	NIBPDiastolic   int     `json:"nibp_diastolic" binding:"required,min=30,max=150"`
	Gender          Gender  `json:"gender" binding:"required,oneof=Male Female"`
	Caucasian       YesNo   `json:"caucasian" binding:"required,oneof=Yes No"`

	MedSurgICU        YesNo `json:"medsurg_icu" binding:"required,oneof=Yes No"`
	CardiacICU        YesNo `json:"cardiac_icu" binding:"required,oneof=Yes No"`
	NeuroICU          YesNo `json:"neuro_icu" binding:"required,oneof=Yes No"`
	GICondition       YesNo `json:"gastrointestinal_condition" binding:"required,oneof=Yes No"`
	Trauma            YesNo `json:"trauma" binding:"required,oneof=Yes No"`
	HistoryOfBleed    YesNo `json:"history_of_bleed" binding:"required,oneof=Yes No"`
	HistoryOfVTE      YesNo `json:"history_of_vte" binding:"required,oneof=Yes No"`
	Sepsis            YesNo `json:"sepsis" binding:"required,oneof=Yes No"`
	VascularDisorders YesNo `json:"vascular_disorders" binding:"required,oneof=Yes No"`
	StressUlcerDrug   YesNo `json:"stress_ulcer_drug" binding:"required,oneof=Yes No"`
}

// FeatureVector is one patient encoded as a model-ready numeric row, in the
// model's column order. Immutable once assembled.
type FeatureVector struct {
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

// Get returns the value of the named feature, or false if the vector does
// not contain it.
func (v FeatureVector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// RiskBand is the discrete risk classification derived from the predicted
// probability via the configured band cutoffs.
type RiskBand string

const (
	BandLow      RiskBand = "Low"
	BandModerate RiskBand = "Moderate"
	BandHigh     RiskBand = "High"
)

// RiskLabel is the binary prediction at the decision threshold.
type RiskLabel string

const (
	LabelHighRisk RiskLabel = "High Risk"
	LabelLowRisk  RiskLabel = "Low Risk"
)
