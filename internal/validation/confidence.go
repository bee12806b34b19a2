package validation

import (
	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/internal/rates"
)

// Confidence factor weights. They sum to 1.
const (
	weightExtraction   = 0.20
	weightRateCoverage = 0.20
	weightFindings     = 0.25
	weightBenchmark    = 0.15
	weightDiscrepancy  = 0.10
	weightCompleteness = 0.10
)

// scoreConfidence computes the weighted composite confidence of the
// estimate. A panicked check zeroes the score outright: an estimate the
// engine could not fully review earns no confidence.
func scoreConfidence(cc *checkContext, report *model.ValidationReport, panicked bool) model.ConfidenceReport {
	factors := []model.ConfidenceFactor{
		{Name: "extraction", Score: extractionScore(cc.est), Weight: weightExtraction},
		{Name: "rate_coverage", Score: rateCoverageScore(cc.est), Weight: weightRateCoverage},
		{Name: "validation_findings", Score: findingsScore(report), Weight: weightFindings},
		{Name: "benchmark_alignment", Score: benchmarkScore(cc.est), Weight: weightBenchmark},
		{Name: "count_discrepancies", Score: discrepancyScore(cc.boq), Weight: weightDiscrepancy},
		{Name: "scope_completeness", Score: completenessScore(report), Weight: weightCompleteness},
	}

	var score float64
	for _, f := range factors {
		score += f.Score * f.Weight
	}
	score = clamp(score, 0, 100)
	// A benchmark fallback is a guess however clean its arithmetic is.
	if cc.est.Summary.Provenance == model.ProvenanceFallback {
		score = clamp(score, 0, 45)
	}
	if panicked {
		score = 0
	}

	level := model.ConfidenceHigh
	switch {
	case score < 50:
		level = model.ConfidenceLow
	case score < 75:
		level = model.ConfidenceMedium
	}

	return model.ConfidenceReport{Factors: factors, Score: score, Level: level}
}

// extractionScore reflects how much of the drawing set actually made it
// through deep extraction.
func extractionScore(est *model.Estimate) float64 {
	if est.Summary.Provenance == model.ProvenanceFallback {
		return 25
	}
	meta := est.ExtractionMeta
	if len(meta.GroupsRequested) == 0 {
		return 50
	}
	failed := float64(len(meta.GroupsFailed))
	requested := float64(len(meta.GroupsRequested))
	score := 100 * (1 - failed/requested)
	if meta.SheetsExtracted == 0 {
		score = min(score, 40)
	}
	return score
}

// rateCoverageScore is the cost-weighted share of line items priced from
// the rate database. Force-corrected lines count as covered; they carry a
// database rate now.
func rateCoverageScore(est *model.Estimate) float64 {
	var total, covered float64
	for _, t := range est.Trades {
		for _, l := range t.LineItems {
			total += l.LineTotal
			if l.RateSource == model.RateSourceDB || l.RateSource == model.RateSourceDBFix {
				covered += l.LineTotal
			}
		}
	}
	if total <= 0 {
		return 0
	}
	return 100 * covered / total
}

// benchmarkScore reflects how close cost-per-area sits to the published
// benchmark band for the project type. In-band scores 100; the score decays
// with the relative excursion past the nearer bound. Scores neutral when no
// area or benchmark is available to compare against.
func benchmarkScore(est *model.Estimate) float64 {
	area := est.Summary.AreaSqft
	if area <= 0 {
		return 50
	}
	bench, ok := rates.LookupBenchmark(est.Summary.Currency, string(est.Summary.ProjectType))
	if !ok {
		return 50
	}
	factor := rates.LookupLocationFactor(est.Summary.Location).Factor
	low := bench.Low * factor
	high := bench.High * factor

	costPerArea := est.CostBreakdown.TotalWithMarkups / area
	if costPerArea >= low && costPerArea <= high {
		return 100
	}
	var excursion float64
	if costPerArea > high {
		excursion = (costPerArea - high) / high
	} else {
		excursion = (low - costPerArea) / low
	}
	return clamp(100-150*excursion, 0, 100)
}

func findingsScore(report *model.ValidationReport) float64 {
	var score float64 = 100
	for _, is := range report.Issues {
		switch is.Severity {
		case model.SeverityCritical:
			score -= 25
		case model.SeverityWarning:
			score -= 10
		}
	}
	return clamp(score, 0, 100)
}

func discrepancyScore(boq model.BillOfQuantities) float64 {
	return clamp(100-15*float64(len(boq.Discrepancies)), 0, 100)
}

func completenessScore(report *model.ValidationReport) float64 {
	var missing float64
	for _, is := range report.Issues {
		if is.Category == "completeness" {
			missing++
		}
	}
	return clamp(100-20*missing, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
