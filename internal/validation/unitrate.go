package validation

import (
	"fmt"
	"strings"

	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/internal/rates"
)

// rateAddress locates the rate-database record a line item should be
// compared against. Subtypes are tried in order so sparser currency tables
// still resolve.
type rateAddress struct {
	category string
	subtypes []string
}

// rateAddressFor maps a line description onto its rate-database address.
// Returns false for lines with no comparable record (lump sums, allowances
// with no table entry).
func rateAddressFor(description string) (rateAddress, bool) {
	d := strings.ToLower(description)
	has := func(substrs ...string) bool {
		for _, s := range substrs {
			if strings.Contains(d, s) {
				return true
			}
		}
		return false
	}

	switch {
	case has("connection", "miscellaneous steel"):
		return rateAddress{"structural_steel", []string{"misc"}}, true
	case has("structural steel"):
		return rateAddress{"structural_steel", []string{"medium"}}, true
	case has("reinforcing", "rebar"):
		return rateAddress{"rebar", []string{"grade60", "fe500"}}, true
	case has("concrete") && has("footing", "grade beam", "pile cap"):
		return rateAddress{"concrete", []string{"footings"}}, true
	case has("concrete") && has("column", "pier"):
		return rateAddress{"concrete", []string{"columns"}}, true
	case has("concrete") && has("wall"):
		return rateAddress{"concrete", []string{"walls"}}, true
	case has("concrete") && has("elevated"):
		return rateAddress{"concrete", []string{"elevated_slab"}}, true
	case has("concrete"):
		return rateAddress{"concrete", []string{"slab_on_grade"}}, true
	case has("excavation"):
		return rateAddress{"foundation", []string{"excavation"}}, true
	case has("backfill"):
		return rateAddress{"foundation", []string{"backfill"}}, true
	case has("roofing", "roof"):
		if has("metal") {
			return rateAddress{"roofing", []string{"metal", "membrane"}}, true
		}
		return rateAddress{"roofing", []string{"membrane", "metal"}}, true
	case has("hvac"):
		return rateAddress{"mep", []string{"hvac"}}, true
	case has("electrical"):
		return rateAddress{"mep", []string{"electrical"}}, true
	case has("plumbing"):
		return rateAddress{"mep", []string{"plumbing"}}, true
	case has("fire protection", "sprinkler"):
		return rateAddress{"mep", []string{"fire_protection"}}, true
	case has("masonry", "cmu", "brick"):
		return rateAddress{"masonry", []string{"cmu", "brick"}}, true
	case has("finish"):
		return rateAddress{"finishes", []string{"general"}}, true
	case has("sitework"):
		return rateAddress{"sitework", []string{"general"}}, true
	}
	return rateAddress{}, false
}

// checkUnitRates compares every line's unit rate against the rate database
// band, adjusted for location and unit. Rates beyond twice (or below half)
// the database rate are force-replaced and retagged DB_FIX; rates merely
// outside the plausible band are blended halfway back toward it.
func checkUnitRates(cc *checkContext) []model.ValidationIssue {
	var issues []model.ValidationIssue
	est := cc.est

	// Fallback lines are benchmark shares, not unit-rate work items; the
	// database band does not apply to them.
	if est.Summary.Provenance == model.ProvenanceFallback {
		return []model.ValidationIssue{{
			Severity: model.SeverityInfo,
			Category: "unit_rate",
			Message:  "unit-rate check skipped for benchmark fallback estimate",
		}}
	}

	factor := rates.LookupLocationFactor(est.Summary.Location).Factor
	if factor <= 0 {
		factor = 1
	}
	currency := est.Summary.Currency

	changed := false
	for ti := range est.Trades {
		trade := &est.Trades[ti]
		for li := range trade.LineItems {
			line := &trade.LineItems[li]

			addr, ok := rateAddressFor(line.Description)
			if !ok || line.UnitRate <= 0 {
				continue
			}

			rec, recUnit := lookupFirst(currency, addr)
			if rec == nil {
				continue
			}

			refRate, convOK := rates.ConvertRate(rec.Rate, recUnit, line.Unit)
			if !convOK {
				continue
			}
			low, _ := rates.ConvertRate(rec.Range[0], recUnit, line.Unit)
			high, _ := rates.ConvertRate(rec.Range[1], recUnit, line.Unit)
			refRate *= factor
			low *= factor
			high *= factor

			switch {
			case line.UnitRate > 2*refRate || line.UnitRate < 0.5*refRate:
				issues = append(issues, model.ValidationIssue{
					Severity:  model.SeverityCritical,
					Category:  "unit_rate",
					Message:   fmt.Sprintf("%s: rate %.2f/%s is far outside the database band [%.2f, %.2f], replaced with %.2f", line.Description, line.UnitRate, line.Unit, low, high, refRate),
					AutoFixed: true,
				})
				line.UnitRate = model.RoundCents(refRate)
				line.RateSource = model.RateSourceDBFix
				changed = true
			case line.UnitRate < low || line.UnitRate > high:
				blended := model.RoundCents((line.UnitRate + refRate) / 2)
				issues = append(issues, model.ValidationIssue{
					Severity:  model.SeverityWarning,
					Category:  "unit_rate",
					Message:   fmt.Sprintf("%s: rate %.2f/%s outside the database band [%.2f, %.2f], blended to %.2f", line.Description, line.UnitRate, line.Unit, low, high, blended),
					AutoFixed: true,
				})
				line.UnitRate = blended
				changed = true
			}
		}
	}

	if changed {
		recomputeLines(est)
	}
	return issues
}

func lookupFirst(currency string, addr rateAddress) (*rates.RateRecord, string) {
	for _, sub := range addr.subtypes {
		if rec, ok := rates.LookupRate(currency, addr.category, sub); ok {
			return rec, rec.Unit
		}
	}
	return nil, ""
}
