package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/takeoff-cli/internal/model"
)

func TestSteelWeightClass(t *testing.T) {
	assert.Equal(t, "light", steelWeightClass("Structural steel: W12x26 beams, A992"))
	assert.Equal(t, "medium", steelWeightClass("Structural steel: W21x68 beams"))
	assert.Equal(t, "heavy", steelWeightClass("Structural steel: W14x132 columns"))
	assert.Equal(t, "medium", steelWeightClass("Structural steel: PFC200"))
}

func TestPriceBOQ_SteelRateFromDB(t *testing.T) {
	boq := model.BillOfQuantities{
		SteelItems: []model.BOQItem{
			{Description: "Structural steel: W12x26 beams", Quantity: 10, Unit: "ton", Category: model.BOQCategorySteel},
		},
	}

	trades, cb, currency := PriceBOQ(boq, model.ProjectInfo{})
	require.Len(t, trades, 1)
	assert.Equal(t, "usd", currency)

	line := trades[0].LineItems[0]
	assert.Equal(t, model.RateSourceDB, line.RateSource)
	assert.Equal(t, 2800.0, line.UnitRate) // light steel, neutral location
	assert.Equal(t, 28000.0, line.LineTotal)
	assert.Equal(t, 28000.0, trades[0].Subtotal)
	assert.Equal(t, 28000.0, cb.DirectCosts)
}

func TestPriceBOQ_LocationFactorApplied(t *testing.T) {
	boq := model.BillOfQuantities{
		SteelItems: []model.BOQItem{
			{Description: "Structural steel: W12x26 beams", Quantity: 1, Unit: "ton", Category: model.BOQCategorySteel},
		},
	}

	_, _, currency := PriceBOQ(boq, model.ProjectInfo{Location: "New York, NY"})
	assert.Equal(t, "usd", currency)

	tradesNY, _, _ := PriceBOQ(boq, model.ProjectInfo{Location: "New York, NY"})
	tradesNeutral, _, _ := PriceBOQ(boq, model.ProjectInfo{})
	assert.Greater(t, tradesNY[0].LineItems[0].UnitRate, tradesNeutral[0].LineItems[0].UnitRate)
}

func TestPriceBOQ_INRUnitConversion(t *testing.T) {
	boq := model.BillOfQuantities{
		ConcreteItems: []model.BOQItem{
			{Description: "Concrete: slab on grade, M25", Quantity: 100, Unit: "CY", Category: model.BOQCategoryConcrete},
		},
	}

	trades, _, currency := PriceBOQ(boq, model.ProjectInfo{Currency: "INR", Location: "Chennai, India"})
	assert.Equal(t, "inr", currency)
	require.Len(t, trades, 1)

	line := trades[0].LineItems[0]
	assert.Equal(t, model.RateSourceDB, line.RateSource)
	// 7200 INR/m3 × 0.7646 m3/CY = 5505.12 INR/CY, then the location factor
	rec := line.UnitRate
	assert.Greater(t, rec, 4000.0)
	assert.Less(t, rec, 7000.0)
}

func TestPriceBOQ_ESTFallback(t *testing.T) {
	boq := model.BillOfQuantities{
		OtherItems: []model.BOQItem{
			{Description: "Fire protection", Quantity: 1000, Unit: "sqft", Category: model.BOQCategoryOther},
		},
	}

	// INR table has no fire_protection record, so the heuristic applies.
	trades, _, _ := PriceBOQ(boq, model.ProjectInfo{Currency: "INR"})
	require.Len(t, trades, 1)
	assert.Equal(t, model.RateSourceEST, trades[0].LineItems[0].RateSource)
}

func TestPriceBOQ_TradeGroupingAndOrder(t *testing.T) {
	boq := model.BillOfQuantities{
		SteelItems: []model.BOQItem{
			{Description: "Structural steel: W12x26 beams", Quantity: 5, Unit: "ton", Category: model.BOQCategorySteel},
			{Description: "Connection and miscellaneous steel allowance", Quantity: 0.5, Unit: "ton", Category: model.BOQCategorySteel},
		},
		ConcreteItems: []model.BOQItem{
			{Description: "Concrete: spread footing", Quantity: 40, Unit: "CY", Category: model.BOQCategoryConcrete},
			{Description: "Concrete: slab on grade", Quantity: 180, Unit: "CY", Category: model.BOQCategoryConcrete},
		},
		RebarItems: []model.BOQItem{
			{Description: "Reinforcing steel (#5)", Quantity: 6, Unit: "ton", Category: model.BOQCategoryRebar},
		},
		OtherItems: []model.BOQItem{
			{Description: "Excavation and backfill", Quantity: 60, Unit: "CY", Category: model.BOQCategoryOther},
			{Description: "HVAC systems", Quantity: 10000, Unit: "sqft", Category: model.BOQCategoryOther},
		},
	}

	trades, cb, _ := PriceBOQ(boq, model.ProjectInfo{})

	var names []string
	for _, tr := range trades {
		names = append(names, tr.TradeName)
	}
	assert.Equal(t, []string{"Foundation", "Structural Steel", "Concrete", "Reinforcement", "MEP"}, names)

	// Footings and excavation land together under Foundation.
	assert.Len(t, trades[0].LineItems, 2)
	// Misc steel prices at the misc rate, not the light band.
	assert.Equal(t, 3600.0, trades[1].LineItems[1].UnitRate)

	var direct float64
	for _, tr := range trades {
		direct += tr.Subtotal
	}
	assert.InDelta(t, direct, cb.DirectCosts, 0.01)
}

func TestBuildBreakdown_Markups(t *testing.T) {
	trades := []model.Trade{{TradeName: "Concrete", Subtotal: 100000}}
	cb := buildBreakdown(trades)

	assert.Equal(t, 100000.0, cb.DirectCosts)
	assert.Equal(t, 6500.0, cb.GeneralConditions.Amount)
	assert.Equal(t, 6000.0, cb.Overhead.Amount)
	assert.Equal(t, 7000.0, cb.Profit.Amount)
	assert.Equal(t, 7500.0, cb.Contingency.Amount)
	assert.Equal(t, 1500.0, cb.Escalation.Amount)
	assert.Equal(t, 128500.0, cb.TotalWithMarkups)
	assert.InDelta(t, 28.5, cb.CombinedMarkupPercent(), 0.001)
}
