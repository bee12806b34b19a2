package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionWeight_WShape(t *testing.T) {
	w, ok := sectionWeightLbFt("W12x26")
	require.True(t, ok)
	assert.Equal(t, 26.0, w)

	w, ok = sectionWeightLbFt("w21 X 68")
	require.True(t, ok)
	assert.Equal(t, 68.0, w)
}

func TestSectionWeight_UKBeam(t *testing.T) {
	w, ok := sectionWeightLbFt("UB305x165x40")
	require.True(t, ok)
	// 40 kg/m ≈ 26.88 lb/ft
	assert.InDelta(t, 26.88, w, 0.05)

	w, ok = sectionWeightLbFt("305x165x40 UB")
	require.True(t, ok)
	assert.InDelta(t, 26.88, w, 0.05)
}

func TestSectionWeight_Indian(t *testing.T) {
	w, ok := sectionWeightLbFt("ISMB300")
	require.True(t, ok)
	// 44.2 kg/m ≈ 29.7 lb/ft
	assert.InDelta(t, 29.7, w, 0.1)

	_, ok = sectionWeightLbFt("ISMB275") // not a standard size
	assert.False(t, ok)
}

func TestSectionWeight_European(t *testing.T) {
	w, ok := sectionWeightLbFt("IPE240")
	require.True(t, ok)
	assert.InDelta(t, 20.63, w, 0.05)

	w, ok = sectionWeightLbFt("HEA200")
	require.True(t, ok)
	assert.InDelta(t, 28.42, w, 0.05)
}

func TestSectionWeight_Unknown(t *testing.T) {
	_, ok := sectionWeightLbFt("2x4 lumber")
	assert.False(t, ok)
	_, ok = sectionWeightLbFt("")
	assert.False(t, ok)
}

func TestBuildWeightTable(t *testing.T) {
	table, unknown := buildWeightTable([]string{"W12x26", "W12x26", "ISMB300", "mystery", ""})
	assert.Len(t, table, 2)
	assert.Equal(t, 26.0, table["W12x26"])
	assert.Equal(t, []string{"mystery"}, unknown)
}
