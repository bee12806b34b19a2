package rates

import (
	_ "embed"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/rates.yaml
var ratesYAML []byte

// RateRecord is one unit-rate entry of the rate database. Immutable
// reference data; Range is the plausible [low, high] band used by the
// unit-rate validation check.
type RateRecord struct {
	Rate        float64    `yaml:"rate" json:"rate"`
	Unit        string     `yaml:"unit" json:"unit"`
	Range       [2]float64 `yaml:"range" json:"range"`
	Description string     `yaml:"description" json:"description"`
}

// rateTable is currency → category → subtype → record.
type rateTable map[string]map[string]map[string]RateRecord

var (
	loadRatesOnce sync.Once
	rateDB        rateTable
)

func loadRates() {
	loadRatesOnce.Do(func() {
		if err := yaml.Unmarshal(ratesYAML, &rateDB); err != nil {
			panic("rates: embedded rate table is malformed: " + err.Error())
		}
	})
}

// LookupRate returns the rate record for (currency, category, subtype).
// Currency and keys are case-insensitive. Returns (nil, false) on a miss.
func LookupRate(currency, category, subtype string) (*RateRecord, bool) {
	loadRates()

	byCategory, ok := rateDB[strings.ToLower(currency)]
	if !ok {
		return nil, false
	}
	bySubtype, ok := byCategory[strings.ToLower(category)]
	if !ok {
		return nil, false
	}
	rec, ok := bySubtype[strings.ToLower(subtype)]
	if !ok {
		return nil, false
	}
	return &rec, true
}

// Categories returns the category names available for a currency, used to
// compute rate-database coverage during confidence scoring.
func Categories(currency string) []string {
	loadRates()

	byCategory, ok := rateDB[strings.ToLower(currency)]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(byCategory))
	for name := range byCategory {
		out = append(out, name)
	}
	return out
}
