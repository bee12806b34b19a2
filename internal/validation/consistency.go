package validation

import (
	"fmt"
	"strings"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// Expected share bands of direct costs per cost bucket. Structure covers
// foundation, steel, concrete and reinforcement together.
var bucketBands = []struct {
	name   string
	trades []string
	low    float64
	high   float64
}{
	{"structure", []string{"Foundation", "Structural Steel", "Concrete", "Reinforcement"}, 0.15, 0.70},
	{"services", []string{"MEP"}, 0.08, 0.50},
	{"finishes", []string{"Finishes"}, 0.0, 0.40},
}

// checkConsistency verifies the cost distribution across buckets looks like
// a building: mostly structure and services, finishes not dominating.
func checkConsistency(cc *checkContext) []model.ValidationIssue {
	var issues []model.ValidationIssue
	est := cc.est

	direct := est.CostBreakdown.DirectCosts
	if direct <= 0 {
		return nil
	}

	for _, bucket := range bucketBands {
		var sum float64
		for _, t := range est.Trades {
			for _, name := range bucket.trades {
				if strings.EqualFold(t.TradeName, name) {
					sum += t.Subtotal
				}
			}
		}
		if sum == 0 {
			continue // absence is the completeness check's finding
		}
		share := sum / direct
		if share < bucket.low || share > bucket.high {
			issues = append(issues, model.ValidationIssue{
				Severity: model.SeverityWarning,
				Category: "consistency",
				Message:  fmt.Sprintf("%s is %.0f%% of direct costs, outside the expected %.0f-%.0f%% band", bucket.name, share*100, bucket.low*100, bucket.high*100),
			})
		}
	}
	return issues
}
