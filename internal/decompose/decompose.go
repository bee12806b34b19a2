// Package decompose breaks a priced estimate down into material, labor and
// equipment components, and derives the manpower and machinery schedules
// from them. Everything here is deterministic arithmetic over the trades;
// running it twice produces identical output.
package decompose

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// split is the material/labor/equipment share of an installed cost.
type split struct {
	material  float64
	labor     float64
	equipment float64
}

// tradeSplits holds typical installed-cost decompositions per trade.
var tradeSplits = map[string]split{
	"Foundation":       {0.35, 0.45, 0.20},
	"Structural Steel": {0.60, 0.30, 0.10},
	"Concrete":         {0.45, 0.40, 0.15},
	"Reinforcement":    {0.55, 0.40, 0.05},
	"Roofing":          {0.55, 0.40, 0.05},
	"MEP":              {0.50, 0.45, 0.05},
	"Finishes":         {0.45, 0.50, 0.05},
	"Sitework":         {0.40, 0.35, 0.25},
}

var defaultSplit = split{0.50, 0.40, 0.10}

// laborRatePerHour is the all-in crew cost per labor hour by currency.
var laborRatePerHour = map[string]float64{
	"usd": 55,
	"inr": 450,
}

// crewTemplates sizes the typical crew per trade.
var crewTemplates = map[string]struct {
	description string
	headcount   int
}{
	"Foundation":       {"excavation and concrete crew", 6},
	"Structural Steel": {"steel erection crew with operator", 5},
	"Concrete":         {"concrete placement and finishing crew", 8},
	"Reinforcement":    {"rebar cutting and tying crew", 6},
	"Roofing":          {"roofing crew", 5},
	"MEP":              {"combined mechanical, electrical and plumbing crews", 10},
	"Finishes":         {"interior finishing crews", 8},
	"Sitework":         {"sitework crew with operators", 5},
}

// machineryRules assigns equipment to the trades that need it. Daily rates
// are in USD and scaled by currency below.
var machineryRules = []struct {
	trade     string
	equipment string
	dailyUSD  float64
}{
	{"Foundation", "Excavator (20t class)", 1200},
	{"Structural Steel", "Mobile crane (50t)", 2500},
	{"Concrete", "Concrete pump truck", 800},
	{"Sitework", "Grader and compactor", 900},
}

var machineryFxPerUSD = map[string]float64{
	"usd": 1.0,
	"inr": 83.0,
}

const hoursPerWeek = 40.0

// Decompose fills the estimate's material schedule, manpower summary and
// machinery schedule from its priced trades.
func Decompose(est *model.Estimate) {
	currency := est.Summary.Currency
	laborRate, ok := laborRatePerHour[currency]
	if !ok {
		laborRate = laborRatePerHour["usd"]
	}

	est.MaterialSchedule = est.MaterialSchedule[:0]
	manpower := &model.ManpowerSummary{}

	for ti := range est.Trades {
		trade := &est.Trades[ti]
		sp, ok := tradeSplits[trade.TradeName]
		if !ok {
			sp = defaultSplit
		}

		var tradeLaborCost, tradeHours float64
		for li := range trade.LineItems {
			line := &trade.LineItems[li]
			line.MaterialCost = model.RoundCents(line.LineTotal * sp.material)
			line.LaborCost = model.RoundCents(line.LineTotal * sp.labor)
			line.EquipmentCost = model.RoundCents(line.LineTotal * sp.equipment)
			line.LaborHours = roundHours(line.LaborCost / laborRate)
			tradeLaborCost += line.LaborCost
			tradeHours += line.LaborHours

			est.MaterialSchedule = append(est.MaterialSchedule, model.MaterialScheduleRow{
				Trade:         trade.TradeName,
				Description:   line.Description,
				Quantity:      line.Quantity,
				Unit:          line.Unit,
				MaterialCost:  line.MaterialCost,
				LaborCost:     line.LaborCost,
				EquipmentCost: line.EquipmentCost,
				LaborHours:    line.LaborHours,
			})
		}

		if tradeHours <= 0 {
			continue
		}
		tmpl, ok := crewTemplates[trade.TradeName]
		if !ok {
			tmpl.description = "general trades crew"
			tmpl.headcount = 6
		}
		weeks := roundHours(tradeHours / (float64(tmpl.headcount) * hoursPerWeek))
		manpower.Crews = append(manpower.Crews, model.CrewAssignment{
			Trade:         trade.TradeName,
			Description:   tmpl.description,
			Headcount:     tmpl.headcount,
			DurationWeeks: weeks,
			LaborCost:     model.RoundCents(tradeLaborCost),
		})
		manpower.TotalHours += tradeHours
		if tmpl.headcount > manpower.PeakHeadcount {
			manpower.PeakHeadcount = tmpl.headcount
		}
	}
	est.Manpower = manpower

	est.Machinery = buildMachinery(est, currency, manpower)

	zap.L().Debug("decompose: schedules built",
		zap.Int("material_rows", len(est.MaterialSchedule)),
		zap.Int("crews", len(manpower.Crews)),
		zap.Int("machinery_items", len(est.Machinery)),
	)
}

// buildMachinery derives an equipment schedule: each rule's duration tracks
// its trade's crew duration.
func buildMachinery(est *model.Estimate, currency string, manpower *model.ManpowerSummary) []model.MachineryItem {
	fx, ok := machineryFxPerUSD[currency]
	if !ok {
		fx = 1.0
	}

	weeksByTrade := make(map[string]float64)
	for _, c := range manpower.Crews {
		weeksByTrade[c.Trade] = c.DurationWeeks
	}

	var items []model.MachineryItem
	for _, rule := range machineryRules {
		weeks, ok := weeksByTrade[rule.trade]
		if !ok || weeks <= 0 {
			continue
		}
		days := int(math.Ceil(weeks * 5))
		if days < 1 {
			days = 1
		}
		daily := model.RoundCents(rule.dailyUSD * fx)
		items = append(items, model.MachineryItem{
			Equipment:    rule.equipment,
			DailyRate:    daily,
			DurationDays: days,
			TotalCost:    model.RoundCents(daily * float64(days)),
		})
	}
	return items
}

func roundHours(h float64) float64 {
	return math.Round(h*10) / 10
}
