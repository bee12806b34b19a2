package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/takeoff-cli/internal/model"
)

func TestExtractionScore(t *testing.T) {
	est := cleanEstimate()
	assert.Equal(t, 100.0, extractionScore(est))

	est.ExtractionMeta.GroupsFailed = []model.SheetType{model.SheetTypeSchedule}
	assert.InDelta(t, 66.67, extractionScore(est), 0.01)

	est.Summary.Provenance = model.ProvenanceFallback
	assert.Equal(t, 25.0, extractionScore(est))
}

func TestRateCoverageScore(t *testing.T) {
	est := cleanEstimate()
	assert.Equal(t, 100.0, rateCoverageScore(est))

	// Knock the MEP line (240000 of 553600) down to a heuristic rate.
	est.Trades[3].LineItems[0].RateSource = model.RateSourceEST
	assert.InDelta(t, 100*(1-240000.0/553600.0), rateCoverageScore(est), 0.01)

	// A force-corrected line still counts as database-covered.
	est.Trades[3].LineItems[0].RateSource = model.RateSourceDBFix
	assert.Equal(t, 100.0, rateCoverageScore(est))
}

func TestFindingsScore(t *testing.T) {
	report := &model.ValidationReport{Issues: []model.ValidationIssue{
		{Severity: model.SeverityCritical},
		{Severity: model.SeverityWarning},
		{Severity: model.SeverityInfo},
	}}
	assert.Equal(t, 65.0, findingsScore(report))

	report.Issues = nil
	assert.Equal(t, 100.0, findingsScore(report))
}

func TestBenchmarkScore(t *testing.T) {
	est := cleanEstimate()
	// 711,376 over 10,000 sqft is $71/sqft, inside the warehouse 50-130 band.
	assert.Equal(t, 100.0, benchmarkScore(est))

	// $260/sqft is double the band high; the score bottoms out.
	est.CostBreakdown.TotalWithMarkups = 2600000
	assert.Equal(t, 0.0, benchmarkScore(est))

	// $25/sqft is half the band low.
	est.CostBreakdown.TotalWithMarkups = 250000
	assert.InDelta(t, 25.0, benchmarkScore(est), 0.01)

	// No area to compare against scores neutral.
	est.Summary.AreaSqft = 0
	assert.Equal(t, 50.0, benchmarkScore(est))
}

func TestScoreConfidence_ReportsBenchmarkFactor(t *testing.T) {
	cc := &checkContext{est: cleanEstimate(), boq: cleanBOQ()}
	conf := scoreConfidence(cc, &model.ValidationReport{}, false)

	var names []string
	for _, f := range conf.Factors {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "benchmark_alignment")
	assert.InDelta(t, 100, conf.Score, 0.01)
}

func TestDiscrepancyScore(t *testing.T) {
	boq := model.BillOfQuantities{Discrepancies: []model.Discrepancy{{}, {}}}
	assert.Equal(t, 70.0, discrepancyScore(boq))
	assert.Equal(t, 100.0, discrepancyScore(model.BillOfQuantities{}))
}

func TestScoreConfidence_Levels(t *testing.T) {
	cc := &checkContext{est: cleanEstimate(), boq: cleanBOQ()}

	conf := scoreConfidence(cc, &model.ValidationReport{}, false)
	assert.Equal(t, model.ConfidenceHigh, conf.Level)

	// Pile on issues until the composite drops below Medium.
	report := &model.ValidationReport{}
	for i := 0; i < 4; i++ {
		report.Issues = append(report.Issues, model.ValidationIssue{Severity: model.SeverityCritical})
	}
	cc.est.Summary.Provenance = model.ProvenanceFallback
	for ti := range cc.est.Trades {
		for li := range cc.est.Trades[ti].LineItems {
			cc.est.Trades[ti].LineItems[li].RateSource = model.RateSourceEST
		}
	}
	conf = scoreConfidence(cc, report, false)
	assert.Equal(t, model.ConfidenceLow, conf.Level)
	assert.GreaterOrEqual(t, conf.Score, 0.0)
}
