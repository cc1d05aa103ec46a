package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaShape(t *testing.T) {
	assert.Len(t, Features, 28, "feature schema must have exactly 28 entries")

	seen := make(map[string]bool)
	for _, f := range Features {
		assert.NotEmpty(t, f.Name)
		assert.False(t, seen[f.Name], "duplicate feature %s", f.Name)
		seen[f.Name] = true
	}
}

func TestSchemaOrder(t *testing.T) {
	// The training-time column order; any change here is a model contract
	// change and must come with a new schema version.
	expected := []string{
		"apache_iv_score",
		"gcs",
		"albumin_max",
		"hematocrit_min",
		"anemia",
		"platelet_min",
		"ptt_max",
		"coagulation_dysfunction",
		"pt_max",
		"bun_max",
		"respiratoryrate",
		"nibp_systolic",
		"nibp_diastolic",
		"gender",
		"caucasian",
		"medsurg_icu",
		"cardiac_icu",
		"neuro_icu",
		"gastrointestinal_condition",
		"trauma",
		"history_of_bleed",
		"history_of_vte",
		"sepsis",
		"vascular_disorders",
		"acute_coronary_syndrome",
		"respiratory_failure",
		"vasopressors_inotropic_agents",
		"stress_ulcer_drug",
	}
	assert.Equal(t, expected, Names())
}

func TestSchemaDomains(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		min, max float64
	}{
		{name: "apache_iv_score", kind: KindInteger, min: 0, max: 200},
		{name: "gcs", kind: KindInteger, min: 3, max: 15},
		{name: "albumin_max", kind: KindFloat, min: 1.0, max: 6.0},
		{name: "hematocrit_min", kind: KindInteger, min: 10, max: 60},
		{name: "platelet_min", kind: KindInteger, min: 10, max: 500},
		{name: "ptt_max", kind: KindFloat, min: 20, max: 200},
		{name: "pt_max", kind: KindFloat, min: 10, max: 50},
		{name: "bun_max", kind: KindInteger, min: 5, max: 100},
		{name: "respiratoryrate", kind: KindInteger, min: 5, max: 50},
		{name: "nibp_systolic", kind: KindInteger, min: 50, max: 250},
		{name: "nibp_diastolic", kind: KindInteger, min: 30, max: 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := ByName(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.min, f.Min)
			assert.Equal(t, tt.max, f.Max)
		})
	}
}

func TestSchemaKinds(t *testing.T) {
	derived := 0
	constant := 0
	binary := 0
	for _, f := range Features {
		switch f.Kind {
		case KindDerived:
			derived++
		case KindConstant:
			constant++
		case KindBinary:
			binary++
		}
	}
	assert.Equal(t, 2, derived, "coagulation_dysfunction and respiratory_failure")
	assert.Equal(t, 2, constant, "acute_coronary_syndrome and vasopressors_inotropic_agents")
	assert.Equal(t, 13, binary)
}

func TestByNameMissing(t *testing.T) {
	_, ok := ByName("not_a_feature")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]string) []string
		wantErr string
	}{
		{
			name:   "accepts canonical order",
			mutate: func(names []string) []string { return names },
		},
		{
			name: "rejects wrong count",
			mutate: func(names []string) []string {
				return names[:len(names)-1]
			},
			wantErr: "expects 28 features",
		},
		{
			name: "rejects swapped columns",
			mutate: func(names []string) []string {
				names[0], names[1] = names[1], names[0]
				return names
			},
			wantErr: "drift at column 0",
		},
		{
			name: "rejects renamed feature",
			mutate: func(names []string) []string {
				names[6] = "ptt_maximum"
				return names
			},
			wantErr: "drift at column 6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.mutate(Names()))
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
