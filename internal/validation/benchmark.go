package validation

import (
	"fmt"

	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/internal/rates"
)

// checkBenchmark compares cost per area against the expected range for the
// project type. An estimate above the high bound is rescaled uniformly to
// the upper-middle of the range; a suspiciously low estimate is flagged but
// left alone, since missing scope is reported by the completeness check.
func checkBenchmark(cc *checkContext) []model.ValidationIssue {
	est := cc.est

	area := est.Summary.AreaSqft
	if area <= 0 {
		return []model.ValidationIssue{{
			Severity: model.SeverityInfo,
			Category: "benchmark",
			Message:  "no floor area available, benchmark check skipped",
		}}
	}

	bench, ok := rates.LookupBenchmark(est.Summary.Currency, string(est.Summary.ProjectType))
	if !ok {
		return []model.ValidationIssue{{
			Severity: model.SeverityInfo,
			Category: "benchmark",
			Message:  fmt.Sprintf("no benchmark for %s/%s, check skipped", est.Summary.Currency, est.Summary.ProjectType),
		}}
	}

	factor := rates.LookupLocationFactor(est.Summary.Location).Factor
	if factor <= 0 {
		factor = 1
	}
	low := bench.Low * factor
	high := bench.High * factor

	costPerArea := est.CostBreakdown.TotalWithMarkups / area

	switch {
	case costPerArea > high:
		// Rescale to mid + half the mid-to-high spread, keeping some of
		// the overage signal instead of snapping to the midpoint.
		target := (bench.Mid + 0.5*(bench.High-bench.Mid)) * factor
		scale := target / costPerArea
		for ti := range est.Trades {
			for li := range est.Trades[ti].LineItems {
				line := &est.Trades[ti].LineItems[li]
				line.UnitRate = model.RoundCents(line.UnitRate * scale)
			}
		}
		recomputeLines(est)
		return []model.ValidationIssue{{
			Severity:  model.SeverityCritical,
			Category:  "benchmark",
			Message:   fmt.Sprintf("cost %.2f/sqft exceeds the %s high bound %.2f/sqft, rescaled by %.2f to %.2f/sqft", costPerArea, bench.Label, high, scale, target),
			AutoFixed: true,
		}}
	case costPerArea < low:
		return []model.ValidationIssue{{
			Severity: model.SeverityWarning,
			Category: "benchmark",
			Message:  fmt.Sprintf("cost %.2f/sqft is below the %s low bound %.2f/sqft; scope may be missing", costPerArea, bench.Label, low),
		}}
	}
	return nil
}
