package validation

import (
	"fmt"
	"strings"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// requiredTrades lists the trades a priced estimate of each project type is
// expected to carry. A missing trade usually means scope fell out of the
// takeoff, not that the building lacks it.
var requiredTrades = map[model.ProjectType][]string{
	model.ProjectTypeWarehouse:   {"Foundation", "Structural Steel", "Roofing", "Sitework"},
	model.ProjectTypeIndustrial:  {"Foundation", "Structural Steel", "Roofing", "MEP"},
	model.ProjectTypeCommercial:  {"Foundation", "MEP", "Roofing", "Finishes"},
	model.ProjectTypeResidential: {"Foundation", "MEP", "Finishes"},
	model.ProjectTypeMixedUse:    {"Foundation", "MEP", "Roofing", "Finishes"},
}

// structuralTrades are the trades whose absence makes an estimate unusable,
// not just incomplete. Missing any of these is a critical finding.
var structuralTrades = map[string]bool{
	"Foundation":       true,
	"Structural Steel": true,
	"Roofing":          true,
	"MEP":              true,
}

// tradeSynonyms lets a required trade match a differently named one, so a
// "Mechanical" trade satisfies the MEP requirement.
var tradeSynonyms = map[string][]string{
	"MEP":              {"mechanical", "electrical", "plumbing", "hvac"},
	"Structural Steel": {"steel", "metals"},
	"Foundation":       {"footing", "substructure", "excavation"},
	"Roofing":          {"roof"},
	"Finishes":         {"finish", "interiors"},
	"Sitework":         {"site", "civil"},
}

// checkCompleteness verifies every expected trade for the project type is
// present with a nonzero subtotal.
func checkCompleteness(cc *checkContext) []model.ValidationIssue {
	var issues []model.ValidationIssue
	est := cc.est

	required, ok := requiredTrades[est.Summary.ProjectType]
	if !ok {
		required = requiredTrades[model.ProjectTypeCommercial]
	}

	for _, want := range required {
		if hasTrade(est.Trades, want) {
			continue
		}
		severity := model.SeverityWarning
		if structuralTrades[want] {
			severity = model.SeverityCritical
		}
		issues = append(issues, model.ValidationIssue{
			Severity: severity,
			Category: "completeness",
			Message:  fmt.Sprintf("no %s trade in a %s estimate; scope may be missing", want, est.Summary.ProjectType),
		})
	}
	return issues
}

func hasTrade(trades []model.Trade, want string) bool {
	wantLower := strings.ToLower(want)
	for _, t := range trades {
		if t.Subtotal <= 0 {
			continue
		}
		name := strings.ToLower(t.TradeName)
		if strings.Contains(name, wantLower) || strings.Contains(wantLower, name) {
			return true
		}
		for _, syn := range tradeSynonyms[want] {
			if strings.Contains(name, syn) {
				return true
			}
		}
	}
	return false
}
