package model

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedValue(t *testing.T) {
	b := loadTestBundle(t)
	e := NewExplainer(b)

	// Base margin plus each tree's cover-weighted root expectation.
	expected := math.Log(0.2/0.8) - 0.11 + 0.08
	assert.InDelta(t, expected, e.ExpectedValue(), 1e-12)
}

func TestExplainPerFeature(t *testing.T) {
	b := loadTestBundle(t)
	e := NewExplainer(b)

	contribs, err := e.Explain([]float64{35, 150, 0})
	require.NoError(t, err)
	require.Len(t, contribs, 3)

	// Tree 0 path: root (-0.11) to the yes leaf (-0.5), credited to ptt_max.
	assert.Equal(t, "ptt_max", contribs[0].Feature)
	assert.Equal(t, 35.0, contribs[0].Value)
	assert.InDelta(t, -0.39, contribs[0].Contribution, 1e-12)

	// Tree 1 path: root (0.08) to the inner node (-0.05) on platelet_min,
	// then to the yes leaf (-0.2) on sepsis.
	assert.Equal(t, "platelet_min", contribs[1].Feature)
	assert.InDelta(t, -0.13, contribs[1].Contribution, 1e-12)
	assert.Equal(t, "sepsis", contribs[2].Feature)
	assert.InDelta(t, -0.15, contribs[2].Contribution, 1e-12)
}

func TestExplainAdditive(t *testing.T) {
	b := loadTestBundle(t)
	e := NewExplainer(b)

	vectors := [][]float64{
		{35, 150, 0},
		{45, 80, 1},
		{40, 100, 0.5},
		{20, 500, 0},
		{200, 10, 1},
	}

	for _, vector := range vectors {
		margin, err := b.Margin(vector)
		require.NoError(t, err)

		contribs, err := e.Explain(vector)
		require.NoError(t, err)

		sum := e.ExpectedValue()
		for _, c := range contribs {
			sum += c.Contribution
		}
		assert.InDelta(t, margin, sum, 1e-9, "vector %v", vector)
	}
}

func TestExplainShippedBundle(t *testing.T) {
	// The bundle shipped with the server must satisfy the same additive
	// decomposition over a realistic vector.
	b, err := Load(filepath.Join("..", "..", "data", "bleed_model.json"))
	require.NoError(t, err)
	e := NewExplainer(b)

	vector := make([]float64, len(b.Features()))
	for i := range vector {
		vector[i] = float64(i % 3)
	}

	margin, err := b.Margin(vector)
	require.NoError(t, err)

	contribs, err := e.Explain(vector)
	require.NoError(t, err)
	require.Len(t, contribs, len(b.Features()))

	sum := e.ExpectedValue()
	for _, c := range contribs {
		sum += c.Contribution
	}
	assert.InDelta(t, margin, sum, 1e-9)
}

func TestExplainVectorShape(t *testing.T) {
	b := loadTestBundle(t)
	e := NewExplainer(b)

	_, err := e.Explain([]float64{35, 150})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVectorShape))
}
