package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/takeoff-cli/internal/model"
)

func TestBuildBOQ_SteelTonnage(t *testing.T) {
	data := model.StructuralData{
		SteelMembers: []model.SteelMember{
			{Size: "W12x26", Count: 12, LengthFt: 30, Usage: "beam", Source: model.MemberSourcePlan},
		},
	}

	boq := BuildBOQ(data, model.ProjectInfo{})
	require.Len(t, boq.SteelItems, 2) // member line plus connection allowance

	// 12 × 26 × 30 = 9360 lbs = 4.68 tons, +3% = 4.8204
	assert.InDelta(t, 4.8204, boq.SteelItems[0].Quantity, 0.001)
	assert.Equal(t, "ton", boq.SteelItems[0].Unit)
	assert.Contains(t, boq.SteelItems[0].Calculation, "lb/ft")

	// connection allowance is 10% of main tonnage
	assert.InDelta(t, 0.48204, boq.SteelItems[1].Quantity, 0.001)
	assert.Empty(t, boq.Discrepancies)
}

func TestBuildBOQ_PlanScheduleDiscrepancy(t *testing.T) {
	data := model.StructuralData{
		SteelMembers: []model.SteelMember{
			{Size: "W12x26", Count: 12, LengthFt: 30, Usage: "beam", Source: model.MemberSourcePlan},
			{Size: "W12x26", Count: 14, LengthFt: 30, Usage: "beam", Source: model.MemberSourceSchedule},
		},
	}

	boq := BuildBOQ(data, model.ProjectInfo{})
	require.Len(t, boq.Discrepancies, 1)
	d := boq.Discrepancies[0]
	assert.Equal(t, 12, d.PlanCount)
	assert.Equal(t, 14, d.ScheduleCount)
	assert.Equal(t, 14, d.UsedCount)

	// 14 × 26 × 30 = 10920 lbs = 5.46 tons, +3% = 5.6238
	assert.InDelta(t, 5.6238, boq.SteelItems[0].Quantity, 0.001)
}

func TestBuildBOQ_UnknownSection(t *testing.T) {
	data := model.StructuralData{
		SteelMembers: []model.SteelMember{
			{Size: "PFC200", Count: 4, LengthFt: 10, Source: model.MemberSourcePlan},
		},
	}

	boq := BuildBOQ(data, model.ProjectInfo{})
	require.NotEmpty(t, boq.SteelItems)
	// 4 × 30 (assumed) × 10 = 1200 lbs, +3% = 0.618 tons
	assert.InDelta(t, 0.618, boq.SteelItems[0].Quantity, 0.001)
	assert.Contains(t, boq.SteelItems[0].Calculation, "unrecognized section")
}

func TestBuildBOQ_ConcreteFromDimensions(t *testing.T) {
	data := model.StructuralData{
		ConcreteElements: []model.ConcreteElement{
			{Description: "slab on grade", Kind: "slab", LengthFt: 120, WidthFt: 80, ThicknessIn: 6, Grade: "3000 psi"},
			{Description: "spread footing", Kind: "footing", VolumeCY: 2.5, Count: 18},
		},
	}

	boq := BuildBOQ(data, model.ProjectInfo{})
	require.Len(t, boq.ConcreteItems, 2)

	// 120 × 80 × 0.5 / 27 = 177.78 CY, +5% = 186.67
	assert.InDelta(t, 186.67, boq.ConcreteItems[0].Quantity, 0.01)
	// 18 × 2.5 = 45 CY, +5% = 47.25
	assert.InDelta(t, 47.25, boq.ConcreteItems[1].Quantity, 0.001)

	// rebar estimated from concrete volume, excavation from foundation CY
	require.Len(t, boq.RebarItems, 1)
	assert.Contains(t, boq.RebarItems[0].Description, "estimated")
	var hasExcavation bool
	for _, it := range boq.OtherItems {
		if strings.Contains(it.Description, "Excavation") {
			hasExcavation = true
		}
	}
	assert.True(t, hasExcavation)
}

func TestBuildBOQ_RebarFromSpecs(t *testing.T) {
	data := model.StructuralData{
		RebarSpecs: []model.RebarSpec{
			{BarSize: "#5", WeightLbs: 8000},
			{BarSize: "#4", WeightLbs: 2000},
		},
	}

	boq := BuildBOQ(data, model.ProjectInfo{})
	require.Len(t, boq.RebarItems, 1)
	// 10000 lbs = 5 tons, +7% = 5.35
	assert.InDelta(t, 5.35, boq.RebarItems[0].Quantity, 0.001)
	assert.Contains(t, boq.RebarItems[0].Description, "#5")
}

func TestBuildBOQ_AreaAllowances(t *testing.T) {
	data := model.StructuralData{FloorAreaSqft: 20000, Floors: 2, RoofType: "metal deck"}

	boq := BuildBOQ(data, model.ProjectInfo{})

	byDesc := make(map[string]model.BOQItem)
	for _, it := range boq.OtherItems {
		byDesc[it.Description] = it
	}

	roof, ok := byDesc["Roofing: metal roof system"]
	require.True(t, ok)
	assert.Equal(t, 10000.0, roof.Quantity) // footprint, not total floor area

	hvac, ok := byDesc["HVAC systems"]
	require.True(t, ok)
	assert.Equal(t, 20000.0, hvac.Quantity)
}

func TestBuildBOQ_NoAreaNoAllowances(t *testing.T) {
	boq := BuildBOQ(model.StructuralData{}, model.ProjectInfo{})
	assert.Empty(t, boq.OtherItems)
	assert.Empty(t, boq.SteelItems)
}

func TestBuildBOQ_AreaFromProjectInfo(t *testing.T) {
	boq := BuildBOQ(model.StructuralData{}, model.ProjectInfo{AreaSqft: 5000, Floors: 1})
	assert.NotEmpty(t, boq.OtherItems)
}
