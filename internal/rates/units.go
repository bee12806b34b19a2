// Package rates provides read-only reference-data lookups: construction unit
// rates keyed by (currency, category, subtype), regional location factors,
// cost-per-area benchmarks, and the unit conversions needed to compare them.
package rates

import "strings"

// Conversion constants.
const (
	SqftPerSqm = 10.7639 // square feet per square meter
	M3PerCY    = 0.7646  // cubic meters per cubic yard
	LbsPerTon  = 2000.0  // US short ton
	LbsPerKg   = 2.20462
)

// SqftToSqm converts square feet to square meters.
func SqftToSqm(sqft float64) float64 { return sqft / SqftPerSqm }

// SqmToSqft converts square meters to square feet.
func SqmToSqft(sqm float64) float64 { return sqm * SqftPerSqm }

// CYToM3 converts cubic yards to cubic meters.
func CYToM3(cy float64) float64 { return cy * M3PerCY }

// M3ToCY converts cubic meters to cubic yards.
func M3ToCY(m3 float64) float64 { return m3 / M3PerCY }

// NormalizeUnit canonicalizes the unit spellings seen in oracle output and
// rate tables. Unknown units pass through lowercased.
func NormalizeUnit(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "sf", "sqft", "sq ft", "ft2", "ft²":
		return "sqft"
	case "sm", "sqm", "sq m", "m2", "m²":
		return "sqm"
	case "cy", "yd3", "cu yd", "cuyd":
		return "CY"
	case "m3", "m³", "cum", "cu m":
		return "m3"
	case "ton", "tons", "t", "mt", "tonne":
		return "ton"
	case "lb", "lbs", "pound", "pounds":
		return "lbs"
	case "kg", "kgs":
		return "kg"
	case "ea", "each", "no", "nos", "pc", "pcs":
		return "ea"
	case "lf", "ft", "feet", "lin ft":
		return "lf"
	case "rm", "m", "meter", "metre":
		return "m"
	case "hr", "hrs", "hour", "hours":
		return "hr"
	case "ls", "lump sum", "lumpsum", "job":
		return "ls"
	default:
		return strings.ToLower(strings.TrimSpace(unit))
	}
}

// ConvertRate converts a unit rate expressed per fromUnit into a rate per
// toUnit. Supported pairs: area (sqft↔sqm), volume (CY↔m3) and weight
// (ton↔kg, ton↔lbs). Returns (rate, false) when no conversion is defined,
// including mixed dimensions.
func ConvertRate(rate float64, fromUnit, toUnit string) (float64, bool) {
	from := NormalizeUnit(fromUnit)
	to := NormalizeUnit(toUnit)
	if from == to {
		return rate, true
	}

	switch {
	// $/sqm → $/sqft: one sqm covers 10.7639 sqft, so divide.
	case from == "sqm" && to == "sqft":
		return rate / SqftPerSqm, true
	case from == "sqft" && to == "sqm":
		return rate * SqftPerSqm, true
	// $/m3 → $/CY: one CY is 0.7646 m3.
	case from == "m3" && to == "CY":
		return rate * M3PerCY, true
	case from == "CY" && to == "m3":
		return rate / M3PerCY, true
	case from == "ton" && to == "lbs":
		return rate / LbsPerTon, true
	case from == "lbs" && to == "ton":
		return rate * LbsPerTon, true
	case from == "ton" && to == "kg":
		return rate / (LbsPerTon / LbsPerKg), true
	case from == "kg" && to == "ton":
		return rate * (LbsPerTon / LbsPerKg), true
	}
	return rate, false
}
