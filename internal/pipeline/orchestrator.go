// Package pipeline runs the five-pass estimation flow: classify the drawing
// set, extract structural data per sheet group, build the bill of
// quantities, price it, then validate and decompose the result. Passes 1-2
// consult the oracle; passes 3-5 are deterministic.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/takeoff-cli/internal/config"
	"github.com/sells-group/takeoff-cli/internal/decompose"
	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/internal/validation"
	"github.com/sells-group/takeoff-cli/pkg/anthropic"
)

// Progress stages reported to the callback, in order.
const (
	StageClassify  = "classify"
	StageExtract   = "extract"
	StageTakeoff   = "takeoff"
	StagePricing   = "pricing"
	StageValidate  = "validate"
	StageFallback          = "fallback"
	StageCompleted         = "completed"
	StageFallbackCompleted = "fallback_completed"
	StageFailed            = "failed"
)

// ProgressFunc receives stage transitions during a run. Callbacks are
// invoked inline; a panicking callback is recovered and logged, never fatal.
type ProgressFunc func(stage, detail string)

// Pipeline coordinates an estimation run end to end.
type Pipeline struct {
	cfg      *config.Config
	oracle   *rateLimitedOracle
	fallback *rateLimitedOracle
	progress ProgressFunc
}

// New builds a Pipeline from configuration and an oracle client. The
// primary and fallback models share one rate budget apiece.
func New(cfg *config.Config, client anthropic.Client) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		oracle:   newRateLimitedOracle(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, cfg.Pipeline.OracleRPS),
		fallback: newRateLimitedOracle(client, cfg.Anthropic.FallbackModel, cfg.Anthropic.MaxTokens, cfg.Pipeline.OracleRPS),
	}
}

// OnProgress registers a stage-transition callback.
func (p *Pipeline) OnProgress(fn ProgressFunc) {
	p.progress = fn
}

// Run executes the full pipeline over the given drawing set. When deep
// extraction fails entirely it degrades to a benchmark-based fallback
// estimate rather than failing the run.
func (p *Pipeline) Run(ctx context.Context, files []model.SourceFile, info model.ProjectInfo) (*model.Estimate, error) {
	start := time.Now()

	if info.Currency == "" {
		info.Currency = p.cfg.Pipeline.DefaultCurrency
	}
	if info.Type == "" && p.cfg.Pipeline.DefaultProjectType != "" {
		info.Type = model.NormalizeProjectType(p.cfg.Pipeline.DefaultProjectType)
	}

	est := &model.Estimate{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	p.report(StageClassify, "classifying drawing sheets")
	passStart := time.Now()
	inventory := ClassifySheets(ctx, files, p.oracle)
	est.SheetInventory = inventory
	p.trackPass("classify", passStart)

	p.report(StageExtract, "extracting structural data")
	passStart = time.Now()
	data, meta, err := ExtractStructural(ctx, files, inventory, p.oracle)
	est.ExtractionMeta = meta
	p.trackPass("extract", passStart)
	if err != nil {
		return p.runFallback(ctx, files, info, est, err.Error(), start)
	}

	p.report(StageTakeoff, "building bill of quantities")
	passStart = time.Now()
	boq := BuildBOQ(data, info)
	p.trackPass("takeoff", passStart)

	p.report(StagePricing, "pricing line items")
	passStart = time.Now()
	trades, breakdown, currency := PriceBOQ(boq, info)
	p.trackPass("pricing", passStart)

	area := data.FloorAreaSqft
	if area <= 0 {
		area = info.AreaSqft
	}

	est.Trades = trades
	est.CostBreakdown = breakdown
	est.Summary = model.EstimateSummary{
		ProjectName: info.Name,
		ProjectType: info.Type,
		Location:    info.Location,
		Currency:    currency,
		AreaSqft:    area,
		Provenance:  model.ProvenanceMultiPass,
	}

	p.report(StageValidate, "validating estimate")
	passStart = time.Now()
	report := validation.Validate(est, boq, data)
	est.ValidationReport = report
	est.Summary.GrandTotal = est.CostBreakdown.TotalWithMarkups
	est.Summary.ConfidenceLevel = report.Confidence.Level
	p.trackPass("validate", passStart)

	decompose.Decompose(est)

	p.finishLog(est, start)
	p.report(StageCompleted, "estimate complete")
	return est, nil
}

// runFallback produces the degraded estimate path. The primary failure
// reason is preserved on the estimate summary.
func (p *Pipeline) runFallback(ctx context.Context, files []model.SourceFile, info model.ProjectInfo, est *model.Estimate, reason string, start time.Time) (*model.Estimate, error) {
	p.report(StageFallback, "primary extraction failed, running benchmark fallback")
	passStart := time.Now()

	trades, breakdown, resolved, err := FallbackEstimate(ctx, files, info, p.fallback, reason)
	p.trackPass("fallback", passStart)
	if err != nil {
		p.report(StageFailed, err.Error())
		return nil, err
	}

	est.Trades = trades
	est.CostBreakdown = breakdown
	est.Summary = model.EstimateSummary{
		ProjectName:    resolved.Name,
		ProjectType:    resolved.Type,
		Location:       resolved.Location,
		Currency:       resolved.Currency,
		AreaSqft:       resolved.AreaSqft,
		GrandTotal:     breakdown.TotalWithMarkups,
		Provenance:     model.ProvenanceFallback,
		FallbackReason: reason,
	}

	report := validation.Validate(est, model.BillOfQuantities{}, model.StructuralData{})
	est.ValidationReport = report
	est.Summary.GrandTotal = est.CostBreakdown.TotalWithMarkups
	est.Summary.ConfidenceLevel = report.Confidence.Level

	decompose.Decompose(est)

	p.finishLog(est, start)
	p.report(StageFallbackCompleted, "fallback estimate complete")
	return est, nil
}

func (p *Pipeline) report(stage, detail string) {
	if p.progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("pipeline: progress callback panicked", zap.Any("panic", r))
		}
	}()
	p.progress(stage, detail)
}

func (p *Pipeline) trackPass(name string, start time.Time) {
	zap.L().Info("pipeline: pass complete",
		zap.String("pass", name),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (p *Pipeline) finishLog(est *model.Estimate, start time.Time) {
	usage := p.oracle.totalUsage()
	fbUsage := p.fallback.totalUsage()
	usage.Add(fbUsage)

	zap.L().Info("pipeline: run finished",
		zap.String("estimate_id", est.ID),
		zap.String("provenance", string(est.Summary.Provenance)),
		zap.Float64("grand_total", est.Summary.GrandTotal),
		zap.String("confidence", string(est.Summary.ConfidenceLevel)),
		zap.Int64("input_tokens", usage.InputTokens),
		zap.Int64("output_tokens", usage.OutputTokens),
		zap.Float64("oracle_cost_usd", usage.EstimateCost(p.cfg.Anthropic.Model)),
		zap.Duration("elapsed", time.Since(start)),
	)
}
