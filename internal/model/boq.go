package model

// BOQCategory buckets bill-of-quantities items for rate lookup.
type BOQCategory string

const (
	BOQCategorySteel    BOQCategory = "steel"
	BOQCategoryConcrete BOQCategory = "concrete"
	BOQCategoryRebar    BOQCategory = "rebar"
	BOQCategoryOther    BOQCategory = "other"
)

// BOQItem is one quantified line of the bill of quantities, before pricing.
// Calculation holds a human-readable trace of how the quantity was derived,
// e.g. "12 × 68 lb/ft × 30 ft = 24,480 lbs = 12.24 tons".
type BOQItem struct {
	Description string      `json:"description"`
	Quantity    float64     `json:"quantity"`
	Unit        string      `json:"unit"`
	Category    BOQCategory `json:"category"`
	Calculation string      `json:"calculation,omitempty"`
}

// Discrepancy records a plan-vs-schedule count mismatch discovered during
// takeoff. The higher count is always used; the mismatch is never silent.
type Discrepancy struct {
	Item          string `json:"item"`
	PlanCount     int    `json:"plan_count"`
	ScheduleCount int    `json:"schedule_count"`
	UsedCount     int    `json:"used_count"`
	Detail        string `json:"detail,omitempty"`
}

// BillOfQuantities is the pass-3 output: quantities with calculation traces,
// plus any count discrepancies found while assembling them.
type BillOfQuantities struct {
	SteelItems    []BOQItem     `json:"steel_items,omitempty"`
	ConcreteItems []BOQItem     `json:"concrete_items,omitempty"`
	RebarItems    []BOQItem     `json:"rebar_items,omitempty"`
	OtherItems    []BOQItem     `json:"other_items,omitempty"`
	Discrepancies []Discrepancy `json:"discrepancies,omitempty"`
}

// AllItems returns every BOQ item across the four groups, steel first.
func (b *BillOfQuantities) AllItems() []BOQItem {
	out := make([]BOQItem, 0, len(b.SteelItems)+len(b.ConcreteItems)+len(b.RebarItems)+len(b.OtherItems))
	out = append(out, b.SteelItems...)
	out = append(out, b.ConcreteItems...)
	out = append(out, b.RebarItems...)
	out = append(out, b.OtherItems...)
	return out
}

// SteelTons sums tonnage across steel items measured in tons.
func (b *BillOfQuantities) SteelTons() float64 {
	var tons float64
	for _, it := range b.SteelItems {
		if it.Unit == "ton" || it.Unit == "tons" {
			tons += it.Quantity
		}
	}
	return tons
}

// ConcreteCY sums concrete volume across items measured in cubic yards.
func (b *BillOfQuantities) ConcreteCY() float64 {
	var cy float64
	for _, it := range b.ConcreteItems {
		if it.Unit == "CY" {
			cy += it.Quantity
		}
	}
	return cy
}
