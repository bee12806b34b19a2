package model

import (
	"math"
	"time"
)

// RateSource tags the provenance of a line item's unit rate.
type RateSource string

const (
	RateSourceDB    RateSource = "DB"     // matched a rate database record
	RateSourceEST   RateSource = "EST"    // heuristic estimate, no DB match
	RateSourceDBFix RateSource = "DB_FIX" // force-corrected to the DB rate during validation
)

// Provenance tags how the estimate was produced.
type Provenance string

const (
	ProvenanceMultiPass Provenance = "multi_pass"
	ProvenanceFallback  Provenance = "fallback"
)

// LineItem is a single priced row within a trade.
// Invariant after validation: LineTotal == round(Quantity × UnitRate, cents).
type LineItem struct {
	Description   string     `json:"description"`
	Quantity      float64    `json:"quantity"`
	Unit          string     `json:"unit"`
	UnitRate      float64    `json:"unit_rate"`
	LineTotal     float64    `json:"line_total"`
	RateSource    RateSource `json:"rate_source"`
	MaterialCost  float64    `json:"material_cost,omitempty"`
	LaborCost     float64    `json:"labor_cost,omitempty"`
	EquipmentCost float64    `json:"equipment_cost,omitempty"`
	LaborHours    float64    `json:"labor_hours,omitempty"`
}

// Trade groups line items into a cost category.
// Invariant: Subtotal == Σ LineItems[].LineTotal within $1.
type Trade struct {
	TradeName string     `json:"trade_name"`
	Subtotal  float64    `json:"subtotal"`
	LineItems []LineItem `json:"line_items"`
}

// Markup is one markup field of the cost breakdown.
// Invariant: Amount == DirectCosts × Percent/100.
type Markup struct {
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
}

// CostBreakdown rolls trades up into the bottom line.
// Invariants: DirectCosts == Σ trades subtotals; single markup percent ≤ 15;
// combined markup percent ≤ 40; TotalWithMarkups == DirectCosts + Σ amounts.
type CostBreakdown struct {
	DirectCosts       float64 `json:"direct_costs"`
	GeneralConditions Markup  `json:"general_conditions"`
	Overhead          Markup  `json:"overhead"`
	Profit            Markup  `json:"profit"`
	Contingency       Markup  `json:"contingency"`
	Escalation        Markup  `json:"escalation"`
	TotalWithMarkups  float64 `json:"total_with_markups"`
}

// Markups returns the five markup fields in a fixed order.
func (cb *CostBreakdown) Markups() []*Markup {
	return []*Markup{
		&cb.GeneralConditions, &cb.Overhead, &cb.Profit, &cb.Contingency, &cb.Escalation,
	}
}

// CombinedMarkupPercent sums the five markup percentages.
func (cb *CostBreakdown) CombinedMarkupPercent() float64 {
	var total float64
	for _, m := range cb.Markups() {
		total += m.Percent
	}
	return total
}

// MarkupTotal sums the five markup amounts.
func (cb *CostBreakdown) MarkupTotal() float64 {
	var total float64
	for _, m := range cb.Markups() {
		total += m.Amount
	}
	return total
}

// Severity grades a validation issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// ValidationIssue records one finding of the validation engine. Every
// correction the engine applies is represented by an issue with
// AutoFixed=true, corrections are never silent.
type ValidationIssue struct {
	Severity  Severity `json:"severity"`
	Category  string   `json:"category"`
	Message   string   `json:"message"`
	AutoFixed bool     `json:"auto_fixed"`
}

// ConfidenceFactor is one named component of the composite confidence score.
type ConfidenceFactor struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`  // 0-100
	Weight float64 `json:"weight"` // fraction of the composite
}

// ConfidenceLevel is the ordinal mapping of the confidence score.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

// ConfidenceReport is the weighted composite confidence of the estimate.
type ConfidenceReport struct {
	Factors []ConfidenceFactor `json:"factors"`
	Score   float64            `json:"score"` // 0-100
	Level   ConfidenceLevel    `json:"level"`
}

// ValidationReport is the pass-5 output attached to the estimate.
type ValidationReport struct {
	Issues     []ValidationIssue `json:"issues"`
	Confidence ConfidenceReport  `json:"confidence"`
	ChecksRun  int               `json:"checks_run"`
	AutoFixes  int               `json:"auto_fixes"`
}

// CriticalCount returns the number of critical issues.
func (r *ValidationReport) CriticalCount() int {
	var n int
	for _, is := range r.Issues {
		if is.Severity == SeverityCritical {
			n++
		}
	}
	return n
}

// MaterialScheduleRow is one itemized BOQ row with its cost decomposition.
type MaterialScheduleRow struct {
	Trade         string  `json:"trade"`
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	MaterialCost  float64 `json:"material_cost"`
	LaborCost     float64 `json:"labor_cost"`
	EquipmentCost float64 `json:"equipment_cost"`
	LaborHours    float64 `json:"labor_hours"`
}

// CrewAssignment is one crew in the manpower summary.
type CrewAssignment struct {
	Trade         string  `json:"trade"`
	Description   string  `json:"description"`
	Headcount     int     `json:"headcount"`
	DurationWeeks float64 `json:"duration_weeks"`
	LaborCost     float64 `json:"labor_cost"`
}

// ManpowerSummary aggregates crew assignments.
type ManpowerSummary struct {
	PeakHeadcount int              `json:"peak_headcount"`
	TotalHours    float64          `json:"total_hours"`
	Crews         []CrewAssignment `json:"crews"`
}

// MachineryItem is one equipment line of the machinery schedule.
type MachineryItem struct {
	Equipment    string  `json:"equipment"`
	DailyRate    float64 `json:"daily_rate"`
	DurationDays int     `json:"duration_days"`
	TotalCost    float64 `json:"total_cost"`
}

// EstimateSummary is the header block of an estimate.
type EstimateSummary struct {
	ProjectName     string          `json:"project_name"`
	ProjectType     ProjectType     `json:"project_type"`
	Location        string          `json:"location"`
	Currency        string          `json:"currency"`
	AreaSqft        float64         `json:"area_sqft"`
	GrandTotal      float64         `json:"grand_total"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level,omitempty"`
	Provenance      Provenance      `json:"provenance"`
	FallbackReason  string          `json:"fallback_reason,omitempty"`
}

// Estimate is the root aggregate produced by the pipeline. It is created
// fresh per run, owned by the orchestrator for the pipeline's duration, and
// handed to the persistence collaborator once pass 5 completes.
type Estimate struct {
	ID               string                `json:"id"`
	CreatedAt        time.Time             `json:"created_at"`
	Summary          EstimateSummary       `json:"summary"`
	Trades           []Trade               `json:"trades"`
	CostBreakdown    CostBreakdown         `json:"cost_breakdown"`
	MaterialSchedule []MaterialScheduleRow `json:"material_schedule,omitempty"`
	Manpower         *ManpowerSummary      `json:"manpower,omitempty"`
	Machinery        []MachineryItem       `json:"machinery,omitempty"`
	ValidationReport *ValidationReport     `json:"validation_report,omitempty"`
	SheetInventory   []SheetEntry          `json:"sheet_inventory,omitempty"`
	ExtractionMeta   ExtractionMeta        `json:"extraction_meta"`
}

// RoundCents rounds a monetary value to cents.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// CostPerArea returns grand total divided by floor area, or 0 when the area
// is unknown.
func (e *Estimate) CostPerArea() float64 {
	if e.Summary.AreaSqft <= 0 {
		return 0
	}
	return e.Summary.GrandTotal / e.Summary.AreaSqft
}
