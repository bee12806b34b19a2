package validation

import (
	"fmt"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// Plausibility bands for structural quantities against floor area.
// Conventional steel-framed building ranges. Excursions are warnings; an
// excursion past ten times a bound is critical, it usually means a quantity
// was double-counted or a unit slipped.
const (
	steelPsfLow  = 3.0 // lbs of structural steel per sqft
	steelPsfHigh = 25.0

	concretePerSqftLow  = 0.005 // CY per sqft of floor area
	concretePerSqftHigh = 0.12

	rebarPerCYLow  = 40.0 // lbs of rebar per CY of concrete
	rebarPerCYHigh = 350.0

	foundationShareLow  = 0.03 // foundation trade share of direct costs
	foundationShareHigh = 0.25
)

// gradeExcursion maps a band excursion to a severity: order-of-magnitude
// implausibility is critical, everything else a warning.
func gradeExcursion(v, lo, hi float64) model.Severity {
	if v > hi*10 || v < lo/10 {
		return model.SeverityCritical
	}
	return model.SeverityWarning
}

// checkQuantitySanity reviews structural quantities against the floor area
// and each other. Findings are graded, never auto-corrected, because the
// drawings, not the bands, are authoritative.
func checkQuantitySanity(cc *checkContext) []model.ValidationIssue {
	var issues []model.ValidationIssue
	est := cc.est
	area := est.Summary.AreaSqft

	steelTons := cc.boq.SteelTons()
	if area > 0 && steelTons > 0 {
		psf := steelTons * 2000 / area
		if psf < steelPsfLow || psf > steelPsfHigh {
			issues = append(issues, model.ValidationIssue{
				Severity: gradeExcursion(psf, steelPsfLow, steelPsfHigh),
				Category: "quantity_sanity",
				Message:  fmt.Sprintf("structural steel works out to %.1f lbs/sqft, outside the typical %.0f-%.0f band", psf, steelPsfLow, steelPsfHigh),
			})
		}
	}

	concreteCY := cc.boq.ConcreteCY()
	if area > 0 && concreteCY > 0 {
		perSqft := concreteCY / area
		if perSqft < concretePerSqftLow || perSqft > concretePerSqftHigh {
			issues = append(issues, model.ValidationIssue{
				Severity: gradeExcursion(perSqft, concretePerSqftLow, concretePerSqftHigh),
				Category: "quantity_sanity",
				Message:  fmt.Sprintf("concrete works out to %.4f CY/sqft, outside the typical %.3f-%.2f band", perSqft, concretePerSqftLow, concretePerSqftHigh),
			})
		}
	}

	var rebarTons float64
	for _, it := range cc.boq.RebarItems {
		if it.Unit == "ton" {
			rebarTons += it.Quantity
		}
	}
	if concreteCY > 0 && rebarTons > 0 {
		lbsPerCY := rebarTons * 2000 / concreteCY
		if lbsPerCY < rebarPerCYLow || lbsPerCY > rebarPerCYHigh {
			issues = append(issues, model.ValidationIssue{
				Severity: gradeExcursion(lbsPerCY, rebarPerCYLow, rebarPerCYHigh),
				Category: "quantity_sanity",
				Message:  fmt.Sprintf("reinforcement works out to %.0f lbs/CY of concrete, outside the typical %.0f-%.0f band", lbsPerCY, rebarPerCYLow, rebarPerCYHigh),
			})
		}
	}

	if est.CostBreakdown.DirectCosts > 0 {
		for _, t := range est.Trades {
			if t.TradeName != "Foundation" {
				continue
			}
			share := t.Subtotal / est.CostBreakdown.DirectCosts
			if share < foundationShareLow || share > foundationShareHigh {
				issues = append(issues, model.ValidationIssue{
					Severity: gradeExcursion(share, foundationShareLow, foundationShareHigh),
					Category: "quantity_sanity",
					Message:  fmt.Sprintf("foundation trade is %.0f%% of direct costs, outside the typical %.0f-%.0f%% band", share*100, foundationShareLow*100, foundationShareHigh*100),
				})
			}
		}
	}

	return issues
}
