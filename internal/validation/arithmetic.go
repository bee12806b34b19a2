package validation

import (
	"fmt"
	"math"

	"github.com/sells-group/takeoff-cli/internal/model"
)

const (
	maxSingleMarkupPct   = 15.0
	maxCombinedMarkupPct = 40.0
)

// checkArithmetic recomputes the cost chain bottom-up and corrects every
// broken invariant: line totals from quantity and rate, trade subtotals
// from lines, direct costs from subtotals, markup amounts from percents,
// and the markup caps. Running it on a clean estimate changes nothing.
func checkArithmetic(cc *checkContext) []model.ValidationIssue {
	var issues []model.ValidationIssue
	est := cc.est

	for ti := range est.Trades {
		trade := &est.Trades[ti]
		for li := range trade.LineItems {
			line := &trade.LineItems[li]

			if line.UnitRate == 0 && line.Quantity > 0 {
				// Prefer the cost-component sum when decomposition has
				// already filled it in; the line total may itself be stale.
				if components := line.MaterialCost + line.LaborCost + line.EquipmentCost; components > 0 {
					line.UnitRate = model.RoundCents(components / line.Quantity)
					issues = append(issues, model.ValidationIssue{
						Severity:  model.SeverityWarning,
						Category:  "arithmetic",
						Message:   fmt.Sprintf("%s: unit rate missing, derived %.2f from cost components", line.Description, line.UnitRate),
						AutoFixed: true,
					})
				} else if line.LineTotal > 0 {
					line.UnitRate = model.RoundCents(line.LineTotal / line.Quantity)
					issues = append(issues, model.ValidationIssue{
						Severity:  model.SeverityWarning,
						Category:  "arithmetic",
						Message:   fmt.Sprintf("%s: unit rate missing, derived %.2f from line total", line.Description, line.UnitRate),
						AutoFixed: true,
					})
				}
			}

			expected := model.RoundCents(line.Quantity * line.UnitRate)
			if math.Abs(line.LineTotal-expected) > 0.01 {
				issues = append(issues, model.ValidationIssue{
					Severity:  model.SeverityWarning,
					Category:  "arithmetic",
					Message:   fmt.Sprintf("%s: line total %.2f != %.2f qty × rate, recomputed", line.Description, line.LineTotal, expected),
					AutoFixed: true,
				})
				line.LineTotal = expected
			}
		}

		var subtotal float64
		for _, l := range trade.LineItems {
			subtotal += l.LineTotal
		}
		subtotal = model.RoundCents(subtotal)
		if math.Abs(trade.Subtotal-subtotal) > 1.0 {
			issues = append(issues, model.ValidationIssue{
				Severity:  model.SeverityWarning,
				Category:  "arithmetic",
				Message:   fmt.Sprintf("%s: subtotal %.2f != %.2f line sum, recomputed", trade.TradeName, trade.Subtotal, subtotal),
				AutoFixed: true,
			})
		}
		trade.Subtotal = subtotal
	}

	capIssues := capMarkups(&est.CostBreakdown)
	issues = append(issues, capIssues...)

	before := est.CostBreakdown.TotalWithMarkups
	recomputeBreakdown(est)
	if len(capIssues) == 0 && math.Abs(before-est.CostBreakdown.TotalWithMarkups) > 1.0 {
		issues = append(issues, model.ValidationIssue{
			Severity:  model.SeverityWarning,
			Category:  "arithmetic",
			Message:   fmt.Sprintf("grand total %.2f inconsistent with trades and markups, recomputed to %.2f", before, est.CostBreakdown.TotalWithMarkups),
			AutoFixed: true,
		})
	}
	return issues
}

// capMarkups enforces the markup limits: no single markup above 15% and no
// combined markup above 40%. An excessive combined markup is scaled down
// proportionally so relative weights are preserved.
func capMarkups(cb *model.CostBreakdown) []model.ValidationIssue {
	var issues []model.ValidationIssue

	for _, m := range cb.Markups() {
		if m.Percent > maxSingleMarkupPct {
			issues = append(issues, model.ValidationIssue{
				Severity:  model.SeverityWarning,
				Category:  "arithmetic",
				Message:   fmt.Sprintf("markup %.1f%% exceeds the 15%% single-markup cap, reduced", m.Percent),
				AutoFixed: true,
			})
			m.Percent = maxSingleMarkupPct
		}
	}

	if combined := cb.CombinedMarkupPercent(); combined > maxCombinedMarkupPct {
		scale := maxCombinedMarkupPct / combined
		for _, m := range cb.Markups() {
			m.Percent = m.Percent * scale
		}
		issues = append(issues, model.ValidationIssue{
			Severity:  model.SeverityCritical,
			Category:  "arithmetic",
			Message:   fmt.Sprintf("combined markup %.1f%% exceeds the 40%% cap, scaled down proportionally", combined),
			AutoFixed: true,
		})
	}
	return issues
}

// recomputeBreakdown rebuilds direct costs, markup amounts and the grand
// total from the current trades and markup percents. Used after any check
// mutates line items or rates.
func recomputeBreakdown(est *model.Estimate) {
	var direct float64
	for _, t := range est.Trades {
		direct += t.Subtotal
	}
	cb := &est.CostBreakdown
	cb.DirectCosts = model.RoundCents(direct)
	for _, m := range cb.Markups() {
		m.Amount = model.RoundCents(cb.DirectCosts * m.Percent / 100)
	}
	cb.TotalWithMarkups = model.RoundCents(cb.DirectCosts + cb.MarkupTotal())
}

// recomputeLines rebuilds every line total and trade subtotal from the
// current quantities and unit rates, then the breakdown.
func recomputeLines(est *model.Estimate) {
	for ti := range est.Trades {
		trade := &est.Trades[ti]
		var subtotal float64
		for li := range trade.LineItems {
			line := &trade.LineItems[li]
			line.LineTotal = model.RoundCents(line.Quantity * line.UnitRate)
			subtotal += line.LineTotal
		}
		trade.Subtotal = model.RoundCents(subtotal)
	}
	recomputeBreakdown(est)
}
