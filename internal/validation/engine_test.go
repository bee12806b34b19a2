package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// cleanEstimate builds a priced warehouse estimate with every invariant
// holding and every rate inside its database band.
func cleanEstimate() *model.Estimate {
	trades := []model.Trade{
		{
			TradeName: "Foundation",
			Subtotal:  31600,
			LineItems: []model.LineItem{
				{Description: "Excavation and backfill", Quantity: 100, Unit: "CY", UnitRate: 28, LineTotal: 2800, RateSource: model.RateSourceDB},
				{Description: "Concrete: spread footing, 3000 psi", Quantity: 60, Unit: "CY", UnitRate: 480, LineTotal: 28800, RateSource: model.RateSourceDB},
			},
		},
		{
			TradeName: "Structural Steel",
			Subtotal:  112000,
			LineItems: []model.LineItem{
				{Description: "Structural steel: W12x26 beams", Quantity: 40, Unit: "ton", UnitRate: 2800, LineTotal: 112000, RateSource: model.RateSourceDB},
			},
		},
		{
			TradeName: "Roofing",
			Subtotal:  90000,
			LineItems: []model.LineItem{
				{Description: "Roofing: membrane system", Quantity: 10000, Unit: "sqft", UnitRate: 9, LineTotal: 90000, RateSource: model.RateSourceDB},
			},
		},
		{
			TradeName: "MEP",
			Subtotal:  240000,
			LineItems: []model.LineItem{
				{Description: "HVAC systems", Quantity: 10000, Unit: "sqft", UnitRate: 24, LineTotal: 240000, RateSource: model.RateSourceDB},
			},
		},
		{
			TradeName: "Sitework",
			Subtotal:  80000,
			LineItems: []model.LineItem{
				{Description: "Sitework allowance", Quantity: 10000, Unit: "sqft", UnitRate: 8, LineTotal: 80000, RateSource: model.RateSourceDB},
			},
		},
	}

	var direct float64
	for _, t := range trades {
		direct += t.Subtotal
	}
	cb := model.CostBreakdown{
		DirectCosts:       direct,
		GeneralConditions: model.Markup{Percent: 6.5, Amount: model.RoundCents(direct * 0.065)},
		Overhead:          model.Markup{Percent: 6.0, Amount: model.RoundCents(direct * 0.06)},
		Profit:            model.Markup{Percent: 7.0, Amount: model.RoundCents(direct * 0.07)},
		Contingency:       model.Markup{Percent: 7.5, Amount: model.RoundCents(direct * 0.075)},
		Escalation:        model.Markup{Percent: 1.5, Amount: model.RoundCents(direct * 0.015)},
	}
	cb.TotalWithMarkups = model.RoundCents(direct + cb.MarkupTotal())

	return &model.Estimate{
		ID:            "test",
		Trades:        trades,
		CostBreakdown: cb,
		Summary: model.EstimateSummary{
			ProjectType: model.ProjectTypeWarehouse,
			Currency:    "usd",
			AreaSqft:    10000,
			GrandTotal:  cb.TotalWithMarkups,
			Provenance:  model.ProvenanceMultiPass,
		},
		ExtractionMeta: model.ExtractionMeta{
			GroupsRequested: []model.SheetType{model.SheetTypeStructural, model.SheetTypeFoundation, model.SheetTypeSchedule},
			SheetsExtracted: 3,
		},
	}
}

func cleanBOQ() model.BillOfQuantities {
	return model.BillOfQuantities{
		SteelItems: []model.BOQItem{
			{Description: "Structural steel: W12x26 beams", Quantity: 40, Unit: "ton", Category: model.BOQCategorySteel},
		},
		ConcreteItems: []model.BOQItem{
			{Description: "Concrete: spread footing", Quantity: 60, Unit: "CY", Category: model.BOQCategoryConcrete},
		},
	}
}

func TestValidate_CleanEstimate(t *testing.T) {
	est := cleanEstimate()
	before := est.CostBreakdown.TotalWithMarkups

	report := Validate(est, cleanBOQ(), model.StructuralData{})

	assert.Equal(t, len(checks), report.ChecksRun)
	assert.Zero(t, report.AutoFixes)
	assert.Empty(t, report.Issues)
	assert.Equal(t, before, est.CostBreakdown.TotalWithMarkups)
	assert.Equal(t, model.ConfidenceHigh, report.Confidence.Level)
	assert.InDelta(t, 100, report.Confidence.Score, 0.01)
}

func TestValidate_Idempotent(t *testing.T) {
	est := cleanEstimate()
	// Break a line total so the first run has something to fix.
	est.Trades[1].LineItems[0].LineTotal = 999999
	est.Trades[1].Subtotal = 999999

	first := Validate(est, cleanBOQ(), model.StructuralData{})
	assert.NotZero(t, first.AutoFixes)

	second := Validate(est, cleanBOQ(), model.StructuralData{})
	assert.Zero(t, second.AutoFixes)
	assert.Empty(t, second.Issues)
}

func TestRunCheck_PanicRecovered(t *testing.T) {
	panicking := check{name: "boom", run: func(cc *checkContext) []model.ValidationIssue {
		panic("boom")
	}}

	panicked := false
	issues := runCheck(panicking, &checkContext{est: cleanEstimate()}, &panicked)

	assert.True(t, panicked)
	require.Len(t, issues, 1)
	assert.Equal(t, model.SeverityCritical, issues[0].Severity)
}

func TestValidate_PanickedCheckZeroesConfidence(t *testing.T) {
	cc := &checkContext{est: cleanEstimate(), boq: cleanBOQ()}
	report := &model.ValidationReport{}
	conf := scoreConfidence(cc, report, true)
	assert.Zero(t, conf.Score)
	assert.Equal(t, model.ConfidenceLow, conf.Level)
}
