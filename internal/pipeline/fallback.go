package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/internal/rates"
	"github.com/sells-group/takeoff-cli/pkg/anthropic"
)

const fallbackSystemPrompt =`You are a construction estimator doing a quick order-of-magnitude review. Skim the attached drawings and respond with a valid JSON object:
{"floor_area_sqft": <total floor area in square feet>, "floors": <number of floors>, "project_type": "<warehouse|industrial|commercial|residential|mixed use>", "location": "<project location if shown>"}`

// fallbackTradeShares splits a benchmark-derived direct cost into trades.
// Typical shares for steel-framed commercial work; every share is an EST line.
var fallbackTradeShares = []struct {
	trade string
	share float64
}{
	{"Foundation", 0.10},
	{"Structural Steel", 0.18},
	{"Concrete", 0.12},
	{"Reinforcement", 0.05},
	{"Roofing", 0.08},
	{"MEP", 0.27},
	{"Finishes", 0.14},
	{"Sitework", 0.06},
}

// FallbackEstimate produces a benchmark-based estimate when the multi-pass
// pipeline cannot. One degraded oracle call recovers area and building type
// from the drawings; caller-supplied metadata fills any gaps. The estimate
// errors only when no floor area can be established at all.
func FallbackEstimate(ctx context.Context, files []model.SourceFile, info model.ProjectInfo, oracle oracleCaller, reason string) ([]model.Trade, model.CostBreakdown, model.ProjectInfo, error) {
	resolved := info

	var parsed struct {
		FloorAreaSqft float64 `json:"floor_area_sqft"`
		Floors        int     `json:"floors"`
		ProjectType   string  `json:"project_type"`
		Location      string  `json:"location"`
	}

	var oracleErr error
	if len(files) > 0 {
		resp, err := oracle.call(ctx, anthropic.MessageRequest{
			System:    fallbackSystemPrompt,
			Messages:  []anthropic.Message{{Role: "user", Content: "Review the attached drawing set and report the building basics."}},
			Documents: toDocuments(files),
		})
		if err != nil && anthropic.IsDocumentRejected(err) {
			zap.L().Warn("fallback: oracle rejected the attached documents, retrying text-only", zap.Error(err))
			resp, err = oracle.call(ctx, anthropic.MessageRequest{
				System:   fallbackSystemPrompt,
				Messages: []anthropic.Message{{Role: "user", Content: "No drawings could be attached. From the project description alone, report the building basics: " + describeProject(info) + "."}},
			})
		}
		if err == nil {
			oracleErr = decodeOracleJSON(anthropic.Text(resp), &parsed)
		} else {
			oracleErr = err
		}
		if oracleErr != nil {
			zap.L().Warn("fallback: degraded oracle read failed, relying on metadata", zap.Error(oracleErr))
		}
	}

	if resolved.AreaSqft <= 0 {
		resolved.AreaSqft = parsed.FloorAreaSqft
	}
	if resolved.Floors <= 0 {
		resolved.Floors = parsed.Floors
	}
	if resolved.Type == "" && parsed.ProjectType != "" {
		resolved.Type = model.NormalizeProjectType(parsed.ProjectType)
	}
	if resolved.Type == "" {
		resolved.Type = model.ProjectTypeCommercial
	}
	if resolved.Location == "" {
		resolved.Location = parsed.Location
	}

	if resolved.AreaSqft <= 0 {
		err := eris.Errorf("pipeline: fallback needs a floor area and none was available (primary failure: %s)", reason)
		if oracleErr != nil {
			err = eris.Wrapf(oracleErr, "pipeline: fallback needs a floor area and none was available (primary failure: %s)", reason)
		}
		return nil, model.CostBreakdown{}, resolved, err
	}

	loc := rates.LookupLocationFactor(resolved.Location)
	currency := resolved.Currency
	if currency == "" {
		currency = loc.Currency
	}
	if currency == "" {
		currency = "usd"
	}
	resolved.Currency = currency

	bench, ok := rates.LookupBenchmark(currency, string(resolved.Type))
	if !ok {
		bench, _ = rates.LookupBenchmark("usd", string(model.ProjectTypeCommercial))
	}

	grandTotal := bench.Mid * resolved.AreaSqft * loc.Factor

	// Benchmarks describe all-in cost per area, so back the markups out
	// before splitting trades and let the standard chain rebuild them.
	placeholder := buildBreakdown(nil)
	direct := grandTotal / (1 + placeholder.CombinedMarkupPercent()/100)

	trades := make([]model.Trade, 0, len(fallbackTradeShares))
	for _, s := range fallbackTradeShares {
		rate := model.RoundCents(direct * s.share / resolved.AreaSqft)
		total := model.RoundCents(resolved.AreaSqft * rate)
		trades = append(trades, model.Trade{
			TradeName: s.trade,
			Subtotal:  total,
			LineItems: []model.LineItem{{
				Description: fmt.Sprintf("%s allowance (%s benchmark)", s.trade, bench.Label),
				Quantity:    resolved.AreaSqft,
				Unit:        "sqft",
				UnitRate:    rate,
				LineTotal:   total,
				RateSource:  model.RateSourceEST,
			}},
		})
	}

	cb := buildBreakdown(trades)
	zap.L().Info("fallback: benchmark estimate produced",
		zap.String("project_type", string(resolved.Type)),
		zap.Float64("area_sqft", resolved.AreaSqft),
		zap.Float64("grand_total", cb.TotalWithMarkups),
		zap.String("reason", reason),
	)
	return trades, cb, resolved, nil
}

// describeProject renders the caller-supplied metadata as a one-line prompt
// fragment for the text-only degraded path.
func describeProject(info model.ProjectInfo) string {
	var parts []string
	if info.Name != "" {
		parts = append(parts, info.Name)
	}
	if info.Type != "" {
		parts = append(parts, string(info.Type)+" project")
	}
	if info.Location != "" {
		parts = append(parts, "in "+info.Location)
	}
	if info.Floors > 0 {
		parts = append(parts, fmt.Sprintf("%d floors", info.Floors))
	}
	if info.AreaSqft > 0 {
		parts = append(parts, fmt.Sprintf("%.0f sqft", info.AreaSqft))
	}
	if len(parts) == 0 {
		return "an otherwise unspecified commercial building"
	}
	return strings.Join(parts, ", ")
}
