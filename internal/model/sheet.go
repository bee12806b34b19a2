package model

import "strings"

// SheetType is the normalized classification of a drawing sheet.
type SheetType string

const (
	SheetTypeStructural SheetType = "structural"
	SheetTypeFoundation SheetType = "foundation"
	SheetTypeSchedule   SheetType = "schedule"
	SheetTypeElevation  SheetType = "elevation"
	SheetTypeMEP        SheetType = "mep"
	SheetTypeSite       SheetType = "site"
	SheetTypeGeneral    SheetType = "general"
)

// AllSheetTypes returns every valid sheet type.
func AllSheetTypes() []SheetType {
	return []SheetType{
		SheetTypeStructural, SheetTypeFoundation, SheetTypeSchedule,
		SheetTypeElevation, SheetTypeMEP, SheetTypeSite, SheetTypeGeneral,
	}
}

// SheetEntry describes one classified page of the input set.
type SheetEntry struct {
	PageNumber int       `json:"page_number"`
	SheetType  SheetType `json:"sheet_type"`
	SheetName  string    `json:"sheet_name,omitempty"`
	Scale      string    `json:"scale,omitempty"`
}

// sheetKeywords maps classification keywords (matched against the oracle's
// free-text label) to sheet types. Evaluated in declaration order; more
// specific keywords come before generic ones so "foundation plan" does not
// land in structural.
var sheetKeywords = []struct {
	keyword string
	t       SheetType
}{
	{"foundation", SheetTypeFoundation},
	{"footing", SheetTypeFoundation},
	{"schedule", SheetTypeSchedule},
	{"elevation", SheetTypeElevation},
	{"section", SheetTypeElevation},
	{"mechanical", SheetTypeMEP},
	{"electrical", SheetTypeMEP},
	{"plumbing", SheetTypeMEP},
	{"hvac", SheetTypeMEP},
	{"mep", SheetTypeMEP},
	{"site", SheetTypeSite},
	{"civil", SheetTypeSite},
	{"grading", SheetTypeSite},
	{"framing", SheetTypeStructural},
	{"structural", SheetTypeStructural},
	{"steel", SheetTypeStructural},
	{"roof plan", SheetTypeStructural},
	{"floor plan", SheetTypeStructural},
	{"column", SheetTypeStructural},
	{"beam", SheetTypeStructural},
}

// NormalizeSheetType maps a free-text classification label onto the fixed
// SheetType enum. Unrecognized labels become general.
func NormalizeSheetType(label string) SheetType {
	lower := strings.ToLower(label)
	for _, kw := range sheetKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.t
		}
	}
	return SheetTypeGeneral
}
