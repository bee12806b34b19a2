package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/takeoff-cli/internal/model"
)

func TestCheckCrossCheck_Agreeing(t *testing.T) {
	data := model.StructuralData{
		SteelMembers: []model.SteelMember{
			{Size: "W12x26", Count: 40, LengthFt: 30},
		},
		ConcreteElements: []model.ConcreteElement{
			{Description: "footing", VolumeCY: 58, Count: 1},
		},
	}

	issues := checkCrossCheck(&checkContext{est: cleanEstimate(), boq: cleanBOQ(), data: data})
	assert.Empty(t, issues)
}

func TestCheckCrossCheck_SteelWayOff(t *testing.T) {
	data := model.StructuralData{
		SteelMembers: []model.SteelMember{
			{Size: "W12x26", Count: 2, LengthFt: 10},
		},
	}
	// Raw members suggest ~0.3 tons nominal; the BOQ carries 40.

	issues := checkCrossCheck(&checkContext{est: cleanEstimate(), boq: cleanBOQ(), data: data})

	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "steel")
}

func TestCheckCrossCheck_ConcreteWayOff(t *testing.T) {
	data := model.StructuralData{
		ConcreteElements: []model.ConcreteElement{
			{Description: "slab", VolumeCY: 500},
		},
	}
	// BOQ carries 60 CY against 500 CY extracted.

	issues := checkCrossCheck(&checkContext{est: cleanEstimate(), boq: cleanBOQ(), data: data})

	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "concrete")
}

func TestCheckCrossCheck_NoDataSkips(t *testing.T) {
	issues := checkCrossCheck(&checkContext{est: cleanEstimate(), boq: cleanBOQ()})
	assert.Empty(t, issues)
}
