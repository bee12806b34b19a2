package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// kgPerMToLbFt converts a linear weight in kg/m to lb/ft.
const kgPerMToLbFt = 2.20462 / 3.28084

// Parsers for the four supported section naming conventions:
// US W-shapes (W12x26, weight in lb/ft), UK universal beams/columns
// (UB305x165x40 or 305x165x40UB, last figure in kg/m), Indian standard
// sections (ISMB300, kg/m table lookup) and European IPE/HEA/HEB
// profiles (IPE240, kg/m table lookup).
var (
	wShapeRe   = regexp.MustCompile(`(?i)^W\s*(\d+)\s*[xX]\s*(\d+(?:\.\d+)?)$`)
	ukBeamRe   = regexp.MustCompile(`(?i)^(?:UB|UC)\s*(\d+)\s*[xX]\s*(\d+)\s*[xX]\s*(\d+(?:\.\d+)?)$`)
	ukSuffixRe = regexp.MustCompile(`(?i)^(\d+)\s*[xX]\s*(\d+)\s*[xX]\s*(\d+(?:\.\d+)?)\s*(?:UB|UC)$`)
	indianRe   = regexp.MustCompile(`(?i)^(ISMB|ISMC|ISLB)\s*(\d+)$`)
	europeanRe = regexp.MustCompile(`(?i)^(IPE|HEA|HEB)\s*(\d+)$`)
)

// indianSectionKgM is the IS 808 linear weight table, kg/m.
var indianSectionKgM = map[string]float64{
	"ISMB100": 11.5, "ISMB125": 13.3, "ISMB150": 14.9, "ISMB175": 19.3,
	"ISMB200": 25.4, "ISMB250": 37.3, "ISMB300": 44.2, "ISMB350": 52.4,
	"ISMB400": 61.6, "ISMB450": 72.4, "ISMB500": 86.9, "ISMB600": 122.6,
	"ISMC100": 9.56, "ISMC150": 16.8, "ISMC200": 22.3, "ISMC250": 30.6,
	"ISMC300": 36.3, "ISMC400": 50.1,
	"ISLB200": 19.8, "ISLB300": 37.7, "ISLB400": 56.9,
}

// europeanSectionKgM is the EN 10365 linear weight table, kg/m.
var europeanSectionKgM = map[string]float64{
	"IPE100": 8.1, "IPE120": 10.4, "IPE140": 12.9, "IPE160": 15.8,
	"IPE180": 18.8, "IPE200": 22.4, "IPE240": 30.7, "IPE270": 36.1,
	"IPE300": 42.2, "IPE330": 49.1, "IPE360": 57.1, "IPE400": 66.3,
	"IPE450": 77.6, "IPE500": 90.7,
	"HEA100": 16.7, "HEA120": 19.9, "HEA140": 24.7, "HEA160": 30.4,
	"HEA180": 35.5, "HEA200": 42.3, "HEA240": 60.3, "HEA300": 88.3,
	"HEB200": 61.3, "HEB300": 117.0,
}

// sectionWeightLbFt resolves a structural member size designation to its
// linear weight in lb/ft. Returns (0, false) for unrecognized sizes.
func sectionWeightLbFt(size string) (float64, bool) {
	s := strings.TrimSpace(size)

	if m := wShapeRe.FindStringSubmatch(s); m != nil {
		w, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
		return w, true
	}

	if m := ukBeamRe.FindStringSubmatch(s); m != nil {
		kgm, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, false
		}
		return kgm * kgPerMToLbFt, true
	}
	if m := ukSuffixRe.FindStringSubmatch(s); m != nil {
		kgm, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, false
		}
		return kgm * kgPerMToLbFt, true
	}

	if m := indianRe.FindStringSubmatch(s); m != nil {
		key := strings.ToUpper(m[1]) + m[2]
		if kgm, ok := indianSectionKgM[key]; ok {
			return kgm * kgPerMToLbFt, true
		}
		return 0, false
	}

	if m := europeanRe.FindStringSubmatch(s); m != nil {
		key := strings.ToUpper(m[1]) + m[2]
		if kgm, ok := europeanSectionKgM[key]; ok {
			return kgm * kgPerMToLbFt, true
		}
		return 0, false
	}

	return 0, false
}

// buildWeightTable resolves every distinct member size to lb/ft. Sizes that
// cannot be resolved are returned separately so the takeoff can flag them.
func buildWeightTable(sizes []string) (map[string]float64, []string) {
	table := make(map[string]float64)
	var unknown []string
	seen := make(map[string]bool)

	for _, size := range sizes {
		if size == "" || seen[size] {
			continue
		}
		seen[size] = true
		if w, ok := sectionWeightLbFt(size); ok {
			table[size] = w
		} else {
			unknown = append(unknown, size)
		}
	}
	return table, unknown
}
