package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMargin(t *testing.T) {
	b := loadTestBundle(t)
	baseMargin := math.Log(0.2 / 0.8)

	tests := []struct {
		name     string
		vector   []float64
		expected float64
	}{
		{
			// ptt below 40 and sepsis absent take both low-risk leaves.
			name:     "normal coagulation",
			vector:   []float64{35, 150, 0},
			expected: baseMargin - 0.5 - 0.2,
		},
		{
			// prolonged ptt and low platelets take both high-risk leaves.
			name:     "prolonged ptt low platelets",
			vector:   []float64{45, 80, 1},
			expected: baseMargin + 0.8 + 0.6,
		},
		{
			// threshold values go down the no branch (strict less-than).
			name:     "values exactly at thresholds",
			vector:   []float64{40, 100, 0.5},
			expected: baseMargin + 0.8 + 0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			margin, err := b.Margin(tt.vector)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, margin, 1e-12)
		})
	}
}

func TestPredictProba(t *testing.T) {
	b := loadTestBundle(t)

	low, err := b.PredictProba([]float64{35, 150, 0})
	require.NoError(t, err)
	high, err := b.PredictProba([]float64{45, 80, 1})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, low, 0.0)
	assert.LessOrEqual(t, low, 1.0)
	assert.GreaterOrEqual(t, high, 0.0)
	assert.LessOrEqual(t, high, 1.0)
	assert.Greater(t, high, low)

	// Probability is the logistic transform of the margin.
	margin, err := b.Margin([]float64{35, 150, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-margin)), low, 1e-12)
}

func TestPredictProbaDeterministic(t *testing.T) {
	b := loadTestBundle(t)
	vector := []float64{45, 80, 1}

	first, err := b.PredictProba(vector)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		p, err := b.PredictProba(vector)
		require.NoError(t, err)
		assert.Equal(t, first, p)
	}
}

func TestVectorShape(t *testing.T) {
	b := loadTestBundle(t)

	tests := []struct {
		name   string
		vector []float64
	}{
		{name: "too short", vector: []float64{35, 150}},
		{name: "too long", vector: []float64{35, 150, 0, 1}},
		{name: "empty", vector: nil},
		{name: "nan value", vector: []float64{math.NaN(), 150, 0}},
		{name: "infinite value", vector: []float64{35, math.Inf(1), 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.PredictProba(tt.vector)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrVectorShape), "got: %v", err)
		})
	}
}
