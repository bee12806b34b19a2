package pipeline

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// Waste allowances applied to net quantities, and the connection allowance
// added on top of main steel tonnage. Industry-standard takeoff margins.
const (
	steelWastePct      = 0.03
	concreteWastePct   = 0.05
	rebarWastePct      = 0.07
	connectionSteelPct = 0.10

	// assumedWeightLbFt stands in for unrecognized section sizes so the
	// estimate stays complete; the calculation trace flags the assumption.
	assumedWeightLbFt = 30.0

	// rebarLbsPerCY estimates reinforcement when the drawings give specs
	// without tabulated weights.
	rebarLbsPerCY = 100.0

	// excavationOverDig scales foundation concrete volume up to an
	// excavation volume (working room plus over-dig).
	excavationOverDig = 1.5
)

var numPrinter = message.NewPrinter(language.English)

// BuildBOQ implements pass 3: a deterministic quantity takeoff from the
// merged structural data. No oracle calls; every quantity carries a
// calculation trace.
func BuildBOQ(data model.StructuralData, info model.ProjectInfo) model.BillOfQuantities {
	var boq model.BillOfQuantities

	takeoffSteel(&boq, data.SteelMembers)
	takeoffConcrete(&boq, data.ConcreteElements)
	takeoffRebar(&boq, data.RebarSpecs, boq.ConcreteCY())
	takeoffAllowances(&boq, data, info)

	zap.L().Info("takeoff: bill of quantities assembled",
		zap.Int("steel_items", len(boq.SteelItems)),
		zap.Int("concrete_items", len(boq.ConcreteItems)),
		zap.Int("rebar_items", len(boq.RebarItems)),
		zap.Int("other_items", len(boq.OtherItems)),
		zap.Int("discrepancies", len(boq.Discrepancies)),
	)
	return boq
}

// memberGroup accumulates plan and schedule counts for one section size and
// usage so the two sources can be cross-referenced.
type memberGroup struct {
	size          string
	usage         string
	planCount     int
	scheduleCount int
	planLengthFt  float64
	schedLengthFt float64
	grade         string
}

func takeoffSteel(boq *model.BillOfQuantities, members []model.SteelMember) {
	groups := make(map[string]*memberGroup)
	var order []string

	for _, m := range members {
		if m.Size == "" || m.Count <= 0 {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(m.Size)) + "|" + strings.ToLower(m.Usage)
		g, ok := groups[key]
		if !ok {
			g = &memberGroup{size: m.Size, usage: m.Usage}
			groups[key] = g
			order = append(order, key)
		}
		if m.Grade != "" {
			g.grade = m.Grade
		}
		if m.Source == model.MemberSourceSchedule {
			g.scheduleCount += m.Count
			if m.LengthFt > 0 {
				g.schedLengthFt = m.LengthFt
			}
		} else {
			g.planCount += m.Count
			if m.LengthFt > 0 {
				g.planLengthFt = m.LengthFt
			}
		}
	}

	sizes := make([]string, 0, len(order))
	for _, key := range order {
		sizes = append(sizes, groups[key].size)
	}
	weights, unknownSizes := buildWeightTable(sizes)
	if len(unknownSizes) > 0 {
		zap.L().Warn("takeoff: unrecognized section sizes, assuming 30 lb/ft",
			zap.Strings("sizes", unknownSizes))
	}

	var mainTons float64
	for _, key := range order {
		g := groups[key]

		count := g.planCount
		if g.scheduleCount > count {
			count = g.scheduleCount
		}
		if g.planCount > 0 && g.scheduleCount > 0 && g.planCount != g.scheduleCount {
			boq.Discrepancies = append(boq.Discrepancies, model.Discrepancy{
				Item:          g.size,
				PlanCount:     g.planCount,
				ScheduleCount: g.scheduleCount,
				UsedCount:     count,
				Detail:        "plan and schedule counts disagree; higher count used",
			})
		}

		length := g.schedLengthFt
		if length == 0 {
			length = g.planLengthFt
		}
		if length == 0 {
			length = 20 // nothing dimensioned; typical bay
		}

		weight, known := weights[g.size]
		if !known {
			weight = assumedWeightLbFt
		}

		lbs := float64(count) * weight * length
		tons := lbs / 2000 * (1 + steelWastePct)
		mainTons += tons

		calc := numPrinter.Sprintf("%d × %.2f lb/ft × %.0f ft = %.0f lbs, +3%% waste = %.2f tons", count, weight, length, lbs, tons)
		if !known {
			calc += " (unrecognized section, assumed 30 lb/ft)"
		}

		desc := g.size
		if g.usage != "" {
			desc += " " + g.usage + "s"
		}
		if g.grade != "" {
			desc += ", " + g.grade
		}
		boq.SteelItems = append(boq.SteelItems, model.BOQItem{
			Description: "Structural steel: " + desc,
			Quantity:    tons,
			Unit:        "ton",
			Category:    model.BOQCategorySteel,
			Calculation: calc,
		})
	}

	if mainTons > 0 {
		conn := mainTons * connectionSteelPct
		boq.SteelItems = append(boq.SteelItems, model.BOQItem{
			Description: "Connection and miscellaneous steel allowance",
			Quantity:    conn,
			Unit:        "ton",
			Category:    model.BOQCategorySteel,
			Calculation: numPrinter.Sprintf("10%% of %.2f tons main steel = %.2f tons", mainTons, conn),
		})
	}
}

func takeoffConcrete(boq *model.BillOfQuantities, elements []model.ConcreteElement) {
	for _, e := range elements {
		count := e.Count
		if count <= 0 {
			count = 1
		}

		var netCY float64
		var calc string
		switch {
		case e.VolumeCY > 0:
			netCY = e.VolumeCY * float64(count)
			calc = numPrinter.Sprintf("%d × %.2f CY = %.2f CY", count, e.VolumeCY, netCY)
		case e.LengthFt > 0 && e.WidthFt > 0 && e.ThicknessIn > 0:
			each := e.LengthFt * e.WidthFt * (e.ThicknessIn / 12) / 27
			netCY = each * float64(count)
			calc = numPrinter.Sprintf("%d × (%.1f ft × %.1f ft × %.1f in) = %.2f CY", count, e.LengthFt, e.WidthFt, e.ThicknessIn, netCY)
		default:
			continue // no usable dimensions
		}

		qty := netCY * (1 + concreteWastePct)
		desc := e.Description
		if desc == "" {
			desc = e.Kind
		}
		if e.Grade != "" {
			desc += ", " + e.Grade
		}
		boq.ConcreteItems = append(boq.ConcreteItems, model.BOQItem{
			Description: "Concrete: " + desc,
			Quantity:    qty,
			Unit:        "CY",
			Category:    model.BOQCategoryConcrete,
			Calculation: calc + numPrinter.Sprintf(", +5%% waste = %.2f CY", qty),
		})
	}
}

func takeoffRebar(boq *model.BillOfQuantities, specs []model.RebarSpec, concreteCY float64) {
	var specLbs float64
	for _, s := range specs {
		specLbs += s.WeightLbs
	}

	if specLbs > 0 {
		tons := specLbs / 2000 * (1 + rebarWastePct)
		sizes := make([]string, 0, len(specs))
		for _, s := range specs {
			if s.BarSize != "" {
				sizes = append(sizes, s.BarSize)
			}
		}
		desc := "Reinforcing steel"
		if len(sizes) > 0 {
			desc += " (" + strings.Join(sizes, ", ") + ")"
		}
		boq.RebarItems = append(boq.RebarItems, model.BOQItem{
			Description: desc,
			Quantity:    tons,
			Unit:        "ton",
			Category:    model.BOQCategoryRebar,
			Calculation: numPrinter.Sprintf("%.0f lbs tabulated, +7%% waste = %.2f tons", specLbs, tons),
		})
		return
	}

	if concreteCY > 0 {
		tons := concreteCY * rebarLbsPerCY / 2000 * (1 + rebarWastePct)
		boq.RebarItems = append(boq.RebarItems, model.BOQItem{
			Description: "Reinforcing steel (estimated from concrete volume)",
			Quantity:    tons,
			Unit:        "ton",
			Category:    model.BOQCategoryRebar,
			Calculation: numPrinter.Sprintf("%.1f CY × 100 lbs/CY, +7%% waste = %.2f tons", concreteCY, tons),
		})
	}
}

// takeoffAllowances adds the area-based scope the drawings never itemize:
// roofing, MEP trades, finishes, sitework and foundation excavation.
func takeoffAllowances(boq *model.BillOfQuantities, data model.StructuralData, info model.ProjectInfo) {
	floorArea := data.FloorAreaSqft
	if floorArea <= 0 {
		floorArea = info.AreaSqft
	}
	floors := data.Floors
	if floors <= 0 {
		floors = info.Floors
	}
	if floors <= 0 {
		floors = 1
	}

	if foundationCY := boq.ConcreteCY(); foundationCY > 0 {
		exc := foundationCY * excavationOverDig
		boq.OtherItems = append(boq.OtherItems, model.BOQItem{
			Description: "Excavation and backfill",
			Quantity:    exc,
			Unit:        "CY",
			Category:    model.BOQCategoryOther,
			Calculation: numPrinter.Sprintf("%.1f CY concrete × 1.5 over-dig = %.1f CY", foundationCY, exc),
		})
	}

	if floorArea <= 0 {
		zap.L().Warn("takeoff: no floor area available, skipping area-based allowances")
		return
	}
	footprint := floorArea / float64(floors)

	roofDesc := "Roofing: membrane system"
	if strings.Contains(strings.ToLower(data.RoofType), "metal") {
		roofDesc = "Roofing: metal roof system"
	}
	addAreaItem(boq, roofDesc, footprint, "roof area")

	addAreaItem(boq, "HVAC systems", floorArea, "floor area")
	addAreaItem(boq, "Electrical systems", floorArea, "floor area")
	addAreaItem(boq, "Plumbing systems", floorArea, "floor area")
	addAreaItem(boq, "Fire protection", floorArea, "floor area")
	addAreaItem(boq, "Interior finishes", floorArea, "floor area")
	addAreaItem(boq, "Sitework allowance", footprint, "building footprint")
}

func addAreaItem(boq *model.BillOfQuantities, desc string, areaSqft float64, basis string) {
	boq.OtherItems = append(boq.OtherItems, model.BOQItem{
		Description: desc,
		Quantity:    areaSqft,
		Unit:        "sqft",
		Category:    model.BOQCategoryOther,
		Calculation: numPrinter.Sprintf("%.0f sqft %s", areaSqft, basis),
	})
}
