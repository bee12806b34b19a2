package model

// MemberSource records whether a structural member count came from a plan
// view or from a member schedule table. The takeoff engine cross-references
// the two and always keeps the higher count.
type MemberSource string

const (
	MemberSourcePlan     MemberSource = "plan"
	MemberSourceSchedule MemberSource = "schedule"
)

// SteelMember is one steel section line extracted from the drawings.
type SteelMember struct {
	Size     string       `json:"size"` // e.g. "W12x26", "UB305x165x40", "ISMB300", "IPE240"
	Count    int          `json:"count"`
	LengthFt float64      `json:"length_ft"`
	Grade    string       `json:"grade,omitempty"`
	Usage    string       `json:"usage,omitempty"` // "beam", "column", "brace"
	Source   MemberSource `json:"source,omitempty"`
}

// ConcreteElement is one concrete pour extracted from the drawings. Either
// explicit volume or plan dimensions may be populated.
type ConcreteElement struct {
	Description string  `json:"description"`
	Kind        string  `json:"kind"` // "slab", "footing", "column", "wall", "grade_beam"
	LengthFt    float64 `json:"length_ft,omitempty"`
	WidthFt     float64 `json:"width_ft,omitempty"`
	ThicknessIn float64 `json:"thickness_in,omitempty"`
	VolumeCY    float64 `json:"volume_cy,omitempty"`
	Grade       string  `json:"grade,omitempty"` // e.g. "3000 psi", "M25"
	Count       int     `json:"count,omitempty"`
}

// RebarSpec is a reinforcement callout.
type RebarSpec struct {
	BarSize   string  `json:"bar_size"` // "#4", "#5", "T12"
	SpacingIn float64 `json:"spacing_in,omitempty"`
	Location  string  `json:"location,omitempty"`
	WeightLbs float64 `json:"weight_lbs,omitempty"`
}

// StructuralData is the canonical merged extraction record produced by the
// extraction coordinator. Array fields are unions across sheet groups;
// scalars are last-non-empty-wins.
type StructuralData struct {
	SteelMembers     []SteelMember     `json:"steel_members,omitempty"`
	ConcreteElements []ConcreteElement `json:"concrete_elements,omitempty"`
	RebarSpecs       []RebarSpec       `json:"rebar_specs,omitempty"`
	FoundationType   string            `json:"foundation_type,omitempty"`
	FloorAreaSqft    float64           `json:"floor_area_sqft,omitempty"`
	Floors           int               `json:"floors,omitempty"`
	RoofType         string            `json:"roof_type,omitempty"`
	Notes            []string          `json:"notes,omitempty"`
}

// ExtractionMeta records what happened during the pass-2 fan-out.
type ExtractionMeta struct {
	GroupsRequested []SheetType `json:"groups_requested,omitempty"`
	GroupsFailed    []SheetType `json:"groups_failed,omitempty"`
	SheetsExtracted int         `json:"sheets_extracted"`
}
