// Package validation runs the post-pricing review of an estimate: a fixed
// sequence of checks that verify arithmetic, quantities, unit rates and
// overall plausibility, auto-correcting where a correction is well defined.
// Every correction surfaces as an issue with AutoFixed set; nothing is
// fixed silently. The engine finishes by scoring composite confidence.
package validation

import (
	"go.uber.org/zap"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// checkContext carries the estimate and its upstream artifacts through the
// check sequence. Checks mutate the estimate in place.
type checkContext struct {
	est  *model.Estimate
	boq  model.BillOfQuantities
	data model.StructuralData
}

type check struct {
	name string
	run  func(cc *checkContext) []model.ValidationIssue
}

// checks run in a fixed order: corrections first (arithmetic, unit rates,
// benchmark rescale), then the advisory plausibility checks.
var checks = []check{
	{"arithmetic", checkArithmetic},
	{"unit_rate", checkUnitRates},
	{"benchmark", checkBenchmark},
	{"quantity_sanity", checkQuantitySanity},
	{"completeness", checkCompleteness},
	{"consistency", checkConsistency},
	{"cross_check", checkCrossCheck},
}

// Validate runs every check against the estimate and attaches a confidence
// score. A panicking check is recovered, reported as a critical issue and
// forces confidence to zero.
func Validate(est *model.Estimate, boq model.BillOfQuantities, data model.StructuralData) *model.ValidationReport {
	cc := &checkContext{est: est, boq: boq, data: data}
	report := &model.ValidationReport{}
	panicked := false

	for _, c := range checks {
		issues := runCheck(c, cc, &panicked)
		report.Issues = append(report.Issues, issues...)
		report.ChecksRun++
	}

	for _, is := range report.Issues {
		if is.AutoFixed {
			report.AutoFixes++
		}
	}

	report.Confidence = scoreConfidence(cc, report, panicked)

	zap.L().Info("validation: complete",
		zap.Int("checks_run", report.ChecksRun),
		zap.Int("issues", len(report.Issues)),
		zap.Int("auto_fixes", report.AutoFixes),
		zap.Float64("confidence", report.Confidence.Score),
		zap.String("level", string(report.Confidence.Level)),
	)
	return report
}

func runCheck(c check, cc *checkContext, panicked *bool) (issues []model.ValidationIssue) {
	defer func() {
		if r := recover(); r != nil {
			*panicked = true
			zap.L().Error("validation: check panicked",
				zap.String("check", c.name),
				zap.Any("panic", r),
			)
			issues = append(issues, model.ValidationIssue{
				Severity: model.SeverityCritical,
				Category: c.name,
				Message:  "check aborted unexpectedly; estimate not fully validated",
			})
		}
	}()
	return c.run(cc)
}
