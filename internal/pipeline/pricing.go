package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/internal/rates"
)

// Default markup percentages, midpoints of typical commercial ranges.
const (
	defaultGCPct          = 6.5
	defaultOverheadPct    = 6.0
	defaultProfitPct      = 7.0
	defaultContingencyPct = 7.5
	defaultEscalationPct  = 1.5
)

// tradeOrder fixes trade presentation order in reports.
var tradeOrder = []string{
	"Foundation", "Structural Steel", "Concrete", "Reinforcement",
	"Roofing", "MEP", "Finishes", "Sitework",
}

// fxPerUSD converts heuristic fallback rates (maintained in USD) into the
// pricing currency when the rate database has no record. Rough figures; a
// fallback rate is an EST line either way.
var fxPerUSD = map[string]float64{
	"usd": 1.0,
	"inr": 83.0,
}

// rateRule maps a BOQ item onto a trade and a rate-database address.
// Evaluated in declaration order, first match wins; subtypes are tried in
// order so currencies with sparser tables still hit a record.
type rateRule struct {
	match      func(item model.BOQItem) bool
	trade      string
	category   string
	subtypes   []string
	estRateUSD float64 // per the item's unit, used when every subtype misses
}

func descContains(substrs ...string) func(model.BOQItem) bool {
	return func(item model.BOQItem) bool {
		lower := strings.ToLower(item.Description)
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

func categoryIs(c model.BOQCategory) func(model.BOQItem) bool {
	return func(item model.BOQItem) bool { return item.Category == c }
}

func and(fns ...func(model.BOQItem) bool) func(model.BOQItem) bool {
	return func(item model.BOQItem) bool {
		for _, fn := range fns {
			if !fn(item) {
				return false
			}
		}
		return true
	}
}

var rateRules = []rateRule{
	{and(categoryIs(model.BOQCategorySteel), descContains("connection", "miscellaneous")), "Structural Steel", "structural_steel", []string{"misc"}, 3600},
	{and(categoryIs(model.BOQCategorySteel), descContains("deck")), "Structural Steel", "structural_steel", []string{"metal_deck"}, 6.5},
	{categoryIs(model.BOQCategorySteel), "Structural Steel", "structural_steel", nil, 3000}, // subtype chosen by weight class
	{and(categoryIs(model.BOQCategoryConcrete), descContains("elevated")), "Concrete", "concrete", []string{"elevated_slab", "slab_on_grade"}, 560},
	{and(categoryIs(model.BOQCategoryConcrete), descContains("footing", "grade beam", "pile cap")), "Foundation", "concrete", []string{"footings"}, 480},
	{and(categoryIs(model.BOQCategoryConcrete), descContains("column", "pier")), "Concrete", "concrete", []string{"columns"}, 620},
	{and(categoryIs(model.BOQCategoryConcrete), descContains("wall")), "Concrete", "concrete", []string{"walls"}, 580},
	{categoryIs(model.BOQCategoryConcrete), "Concrete", "concrete", []string{"slab_on_grade"}, 450},
	{and(categoryIs(model.BOQCategoryRebar), descContains("grade 75", "gr75", "gr 75")), "Reinforcement", "rebar", []string{"grade75", "fe500"}, 1550},
	{and(categoryIs(model.BOQCategoryRebar), descContains("mesh")), "Reinforcement", "rebar", []string{"mesh"}, 0.85},
	{categoryIs(model.BOQCategoryRebar), "Reinforcement", "rebar", []string{"grade60", "fe500"}, 1400},
	{descContains("excavation"), "Foundation", "foundation", []string{"excavation"}, 28},
	{descContains("backfill"), "Foundation", "foundation", []string{"backfill"}, 18},
	{and(descContains("roofing"), descContains("metal")), "Roofing", "roofing", []string{"metal", "membrane"}, 12},
	{descContains("roofing", "roof"), "Roofing", "roofing", []string{"membrane", "metal"}, 9},
	{descContains("hvac"), "MEP", "mep", []string{"hvac"}, 24},
	{descContains("electrical"), "MEP", "mep", []string{"electrical"}, 18},
	{descContains("plumbing"), "MEP", "mep", []string{"plumbing"}, 12},
	{descContains("fire protection", "sprinkler"), "MEP", "mep", []string{"fire_protection"}, 4.5},
	{descContains("masonry", "cmu", "brick"), "Concrete", "masonry", []string{"cmu", "brick"}, 16},
	{descContains("finish"), "Finishes", "finishes", []string{"general"}, 35},
	// Catch-all so nothing priced falls off the estimate.
	{func(model.BOQItem) bool { return true }, "Sitework", "sitework", []string{"general"}, 8},
}

// steelWeightClass buckets a member line into the rate table's light,
// medium or heavy band from the section size in its description.
func steelWeightClass(description string) string {
	rest := strings.TrimPrefix(description, "Structural steel: ")
	size := rest
	if idx := strings.IndexAny(rest, " ,"); idx > 0 {
		size = rest[:idx]
	}
	w, ok := sectionWeightLbFt(size)
	switch {
	case !ok:
		return "medium"
	case w < 50:
		return "light"
	case w <= 100:
		return "medium"
	default:
		return "heavy"
	}
}

// PriceBOQ implements pass 4: resolve a unit rate for every BOQ item,
// group lines into trades and roll up the cost breakdown. Returns the
// resolved pricing currency alongside the trades.
func PriceBOQ(boq model.BillOfQuantities, info model.ProjectInfo) ([]model.Trade, model.CostBreakdown, string) {
	loc := rates.LookupLocationFactor(info.Location)

	currency := strings.ToLower(info.Currency)
	if currency == "" {
		currency = strings.ToLower(loc.Currency)
	}
	if currency == "" {
		currency = "usd"
	}

	zap.L().Info("pricing: resolved location",
		zap.String("location", info.Location),
		zap.String("currency", currency),
		zap.Float64("factor", loc.Factor),
	)

	linesByTrade := make(map[string][]model.LineItem)
	for _, item := range boq.AllItems() {
		rule := matchRule(item)

		subtypes := rule.subtypes
		if subtypes == nil {
			subtypes = []string{steelWeightClass(item.Description)}
		}

		rate, source := resolveRate(currency, loc.Factor, item.Unit, rule.category, subtypes, rule.estRateUSD)
		line := model.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitRate:    model.RoundCents(rate),
			RateSource:  source,
		}
		line.LineTotal = model.RoundCents(line.Quantity * line.UnitRate)
		linesByTrade[rule.trade] = append(linesByTrade[rule.trade], line)
	}

	var trades []model.Trade
	for _, name := range tradeOrder {
		lines := linesByTrade[name]
		if len(lines) == 0 {
			continue
		}
		var subtotal float64
		for _, l := range lines {
			subtotal += l.LineTotal
		}
		trades = append(trades, model.Trade{
			TradeName: name,
			Subtotal:  model.RoundCents(subtotal),
			LineItems: lines,
		})
	}

	breakdown := buildBreakdown(trades)
	return trades, breakdown, currency
}

func matchRule(item model.BOQItem) rateRule {
	for _, r := range rateRules {
		if r.match(item) {
			return r
		}
	}
	return rateRules[len(rateRules)-1]
}

// resolveRate walks the candidate subtypes through the rate database,
// converting the record's unit to the item's unit and applying the location
// factor. Falls back to the USD heuristic rate when every candidate misses.
func resolveRate(currency string, factor float64, itemUnit, category string, subtypes []string, estRateUSD float64) (float64, model.RateSource) {
	for _, sub := range subtypes {
		rec, ok := rates.LookupRate(currency, category, sub)
		if !ok {
			continue
		}
		converted, ok := rates.ConvertRate(rec.Rate, rec.Unit, itemUnit)
		if !ok {
			zap.L().Warn("pricing: no unit conversion for rate record",
				zap.String("category", category),
				zap.String("subtype", sub),
				zap.String("rate_unit", rec.Unit),
				zap.String("item_unit", itemUnit),
			)
			continue
		}
		return converted * factor, model.RateSourceDB
	}

	fx, ok := fxPerUSD[currency]
	if !ok {
		fx = 1.0
	}
	return estRateUSD * fx * factor, model.RateSourceEST
}

// buildBreakdown applies the default markup chain to the trade subtotals.
func buildBreakdown(trades []model.Trade) model.CostBreakdown {
	var direct float64
	for _, t := range trades {
		direct += t.Subtotal
	}
	direct = model.RoundCents(direct)

	cb := model.CostBreakdown{
		DirectCosts:       direct,
		GeneralConditions: model.Markup{Percent: defaultGCPct},
		Overhead:          model.Markup{Percent: defaultOverheadPct},
		Profit:            model.Markup{Percent: defaultProfitPct},
		Contingency:       model.Markup{Percent: defaultContingencyPct},
		Escalation:        model.Markup{Percent: defaultEscalationPct},
	}
	for _, m := range cb.Markups() {
		m.Amount = model.RoundCents(direct * m.Percent / 100)
	}
	cb.TotalWithMarkups = model.RoundCents(direct + cb.MarkupTotal())
	return cb
}
