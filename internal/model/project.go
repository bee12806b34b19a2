package model

import "strings"

// ProjectType classifies the building being estimated. It selects the
// benchmark range and the expected trade set during validation.
type ProjectType string

const (
	ProjectTypeResidential ProjectType = "residential"
	ProjectTypeCommercial  ProjectType = "commercial"
	ProjectTypeIndustrial  ProjectType = "industrial"
	ProjectTypeWarehouse   ProjectType = "warehouse"
	ProjectTypeMixedUse    ProjectType = "mixed_use"
)

// NormalizeProjectType maps free-text building descriptions onto the fixed
// ProjectType enum. Unrecognized input defaults to commercial.
func NormalizeProjectType(label string) ProjectType {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "warehouse"), strings.Contains(lower, "storage"), strings.Contains(lower, "distribution"):
		return ProjectTypeWarehouse
	case strings.Contains(lower, "industrial"), strings.Contains(lower, "factory"), strings.Contains(lower, "plant"), strings.Contains(lower, "manufactur"):
		return ProjectTypeIndustrial
	case strings.Contains(lower, "residen"), strings.Contains(lower, "apartment"), strings.Contains(lower, "housing"), strings.Contains(lower, "villa"):
		return ProjectTypeResidential
	case strings.Contains(lower, "mixed"):
		return ProjectTypeMixedUse
	default:
		return ProjectTypeCommercial
	}
}

// ProjectInfo carries the caller-supplied metadata for an estimation run.
type ProjectInfo struct {
	Name     string      `json:"name"`
	Type     ProjectType `json:"type"`
	Location string      `json:"location"`
	Currency string      `json:"currency"`
	AreaSqft float64     `json:"area_sqft"`
	Floors   int         `json:"floors,omitempty"`
	Notes    string      `json:"notes,omitempty"`
}

// SourceFile is one input drawing or document handed to the oracle.
type SourceFile struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"` // "application/pdf", "image/png", "image/jpeg"
	Data      []byte `json:"-"`
}
