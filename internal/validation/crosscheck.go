package validation

import (
	"fmt"
	"math"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// checkCrossCheck replays the raw extraction against the bill of
// quantities: total steel tonnage and concrete volume in the BOQ should
// track what the drawings listed, allowing for waste and connection
// allowances. A large gap means the takeoff mangled something.
func checkCrossCheck(cc *checkContext) []model.ValidationIssue {
	var issues []model.ValidationIssue

	if len(cc.data.SteelMembers) > 0 {
		boqTons := cc.boq.SteelTons()
		if boqTons > 0 {
			var rawLbs float64
			for _, m := range cc.data.SteelMembers {
				length := m.LengthFt
				if length <= 0 {
					length = 20
				}
				rawLbs += float64(m.Count) * length * 30 // nominal section weight
			}
			rawTons := rawLbs / 2000
			// Plan and schedule both listing the same members can double
			// the raw sum, and section weights vary widely around the
			// nominal; only flag an order-of-magnitude disagreement.
			if rawTons > 0 {
				ratio := boqTons / rawTons
				if ratio > 8 || ratio < 1.0/8 {
					issues = append(issues, model.ValidationIssue{
						Severity: model.SeverityWarning,
						Category: "cross_check",
						Message:  fmt.Sprintf("BOQ steel (%.1f tons) disagrees with the raw member list (~%.1f tons nominal) by %.1fx", boqTons, rawTons, math.Max(ratio, 1/ratio)),
					})
				}
			}
		}
	}

	if len(cc.data.ConcreteElements) > 0 {
		boqCY := cc.boq.ConcreteCY()
		var rawCY float64
		for _, e := range cc.data.ConcreteElements {
			count := e.Count
			if count <= 0 {
				count = 1
			}
			switch {
			case e.VolumeCY > 0:
				rawCY += e.VolumeCY * float64(count)
			case e.LengthFt > 0 && e.WidthFt > 0 && e.ThicknessIn > 0:
				rawCY += e.LengthFt * e.WidthFt * (e.ThicknessIn / 12) / 27 * float64(count)
			}
		}
		if rawCY > 0 && boqCY > 0 {
			ratio := boqCY / rawCY
			if ratio > 1.5 || ratio < 0.67 {
				issues = append(issues, model.ValidationIssue{
					Severity: model.SeverityWarning,
					Category: "cross_check",
					Message:  fmt.Sprintf("BOQ concrete (%.1f CY) disagrees with the raw element list (%.1f CY) by %.1fx", boqCY, rawCY, math.Max(ratio, 1/ratio)),
				})
			}
		}
	}

	return issues
}
