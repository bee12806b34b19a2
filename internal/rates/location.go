package rates

import (
	_ "embed"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/locations.yaml
var locationsYAML []byte

// LocationFactor is the regional cost multiplier resolved from a free-text
// location. Factor scales rate-database rates; Currency is the local pricing
// currency.
type LocationFactor struct {
	Factor   float64 `yaml:"factor" json:"factor"`
	Currency string  `yaml:"currency" json:"currency"`
	Country  string  `yaml:"country" json:"country"`
}

type gazetteerEntry struct {
	Match    string  `yaml:"match"`
	Factor   float64 `yaml:"factor"`
	Currency string  `yaml:"currency"`
	Country  string  `yaml:"country"`
}

type countryRule struct {
	Pattern  string  `yaml:"pattern"`
	Factor   float64 `yaml:"factor"`
	Currency string  `yaml:"currency"`
	Country  string  `yaml:"country"`

	re *regexp.Regexp
}

type locationData struct {
	Gazetteer []gazetteerEntry `yaml:"gazetteer"`
	Countries []countryRule    `yaml:"countries"`
}

var (
	loadLocationsOnce sync.Once
	locations         locationData
)

func loadLocations() {
	loadLocationsOnce.Do(func() {
		if err := yaml.Unmarshal(locationsYAML, &locations); err != nil {
			panic("rates: embedded location table is malformed: " + err.Error())
		}
		for i := range locations.Countries {
			locations.Countries[i].re = regexp.MustCompile("(?i)" + locations.Countries[i].Pattern)
		}
	})
}

// neutralFactor is returned when the location cannot be resolved.
var neutralFactor = LocationFactor{Factor: 1.0, Currency: "USD", Country: ""}

// LookupLocationFactor resolves a free-text location to a regional cost
// multiplier. Resolution order: curated gazetteer substring match, then
// country-level regex, else a neutral default.
func LookupLocationFactor(location string) LocationFactor {
	loadLocations()

	lower := strings.ToLower(strings.TrimSpace(location))
	if lower == "" {
		return neutralFactor
	}

	for _, entry := range locations.Gazetteer {
		if strings.Contains(lower, entry.Match) {
			return LocationFactor{Factor: entry.Factor, Currency: entry.Currency, Country: entry.Country}
		}
	}

	for _, rule := range locations.Countries {
		if rule.re.MatchString(lower) {
			return LocationFactor{Factor: rule.Factor, Currency: rule.Currency, Country: rule.Country}
		}
	}

	return neutralFactor
}
