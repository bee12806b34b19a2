package rates

import (
	_ "embed"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/benchmarks.yaml
var benchmarksYAML []byte

// Benchmark is the expected cost-per-area range for a project type and
// currency. The validation engine rescales estimates that land above High.
type Benchmark struct {
	Low   float64 `yaml:"low" json:"low"`
	Mid   float64 `yaml:"mid" json:"mid"`
	High  float64 `yaml:"high" json:"high"`
	Unit  string  `yaml:"unit" json:"unit"`
	Label string  `yaml:"label" json:"label"`
}

var (
	loadBenchmarksOnce sync.Once
	benchmarkDB        map[string]map[string]Benchmark
)

func loadBenchmarks() {
	loadBenchmarksOnce.Do(func() {
		if err := yaml.Unmarshal(benchmarksYAML, &benchmarkDB); err != nil {
			panic("rates: embedded benchmark table is malformed: " + err.Error())
		}
	})
}

// LookupBenchmark returns the benchmark range for (currency, projectType).
// Returns (nil, false) when either key is unknown.
func LookupBenchmark(currency, projectType string) (*Benchmark, bool) {
	loadBenchmarks()

	byType, ok := benchmarkDB[strings.ToLower(currency)]
	if !ok {
		return nil, false
	}
	b, ok := byType[strings.ToLower(projectType)]
	if !ok {
		return nil, false
	}
	return &b, true
}
