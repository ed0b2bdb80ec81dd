package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ndolage/macroquery/internal/query"
)

// Scenario defines an end-to-end pipeline test: a synthetic warehouse
// seed, one request, and expectations over the resulting table. The
// rendered table is also compared against a golden file named after
// the scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed describes the warehouse contents to load before the request.
	Seed Seed `yaml:"seed"`

	// Request is the descriptor handed to the pipeline.
	Request query.Request `yaml:"request"`

	// Expect validates the resulting table. If nil, only the golden
	// comparison applies.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// Seed describes the synthetic warehouse contents for one scenario.
// Time dimension rows are derived from the facts; everything else is
// listed explicitly.
type Seed struct {
	Locations  []string        `yaml:"locations"`
	Units      []string        `yaml:"units,omitempty"`
	Indicators []IndicatorSeed `yaml:"indicators"`
	Facts      []FactSeed      `yaml:"facts"`
}

// IndicatorSeed is one DIM_INDICATOR row. Empty optional fields load
// as NULL.
type IndicatorSeed struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
	Section     string `yaml:"section,omitempty"`
	Source      string `yaml:"source,omitempty"`
}

// FactSeed is one observation in a fact table, keyed by names rather
// than surrogate ids.
type FactSeed struct {
	Group     string  `yaml:"group"`
	Year      int     `yaml:"year"`
	Month     int     `yaml:"month"`
	Location  string  `yaml:"location"`
	Indicator string  `yaml:"indicator"`
	Unit      string  `yaml:"unit,omitempty"`
	Value     float64 `yaml:"value"`
}

// ExpectClause validates the shape and selected cells of the result.
type ExpectClause struct {
	// Rows is the expected row count. Nil means unchecked, so a
	// clause that only pins cells does not also assert zero rows.
	Rows *int `yaml:"rows,omitempty"`

	// Columns is the expected column list, in order. If empty, the
	// columns are unchecked.
	Columns []string `yaml:"columns,omitempty"`

	// Cells pins individual values by row index and column name.
	Cells []CellExpect `yaml:"cells,omitempty"`
}

// CellExpect pins one cell to its formatted value. Value is compared
// after formatting, so a missing cell is the empty string.
type CellExpect struct {
	Row    int    `yaml:"row"`
	Column string `yaml:"column"`
	Value  string `yaml:"value"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos in scenario files fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", filepath.Base(path), err)
	}
	return &scenario, nil
}

// ScenarioFiles lists scenario files under dir in name order.
func ScenarioFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Seed.Locations) == 0 {
		return fmt.Errorf("seed.locations is required and must be non-empty")
	}
	if len(s.Seed.Indicators) == 0 {
		return fmt.Errorf("seed.indicators is required and must be non-empty")
	}

	locations := stringSet(s.Seed.Locations)
	units := stringSet(s.Seed.Units)
	indicators := map[string]bool{}
	for i, ind := range s.Seed.Indicators {
		if ind.Name == "" {
			return fmt.Errorf("seed.indicators[%d]: name is required", i)
		}
		if ind.Type == "" {
			return fmt.Errorf("seed.indicators[%d]: type is required", i)
		}
		indicators[ind.Name] = true
	}

	for i, f := range s.Seed.Facts {
		if f.Group != "CPI" && f.Group != "BOP" {
			return fmt.Errorf("seed.facts[%d]: group must be CPI or BOP, got %q", i, f.Group)
		}
		if f.Month < 1 || f.Month > 12 {
			return fmt.Errorf("seed.facts[%d]: month %d out of range", i, f.Month)
		}
		if !locations[f.Location] {
			return fmt.Errorf("seed.facts[%d]: location %q not in seed.locations", i, f.Location)
		}
		if !indicators[f.Indicator] {
			return fmt.Errorf("seed.facts[%d]: indicator %q not in seed.indicators", i, f.Indicator)
		}
		if f.Unit != "" && !units[f.Unit] {
			return fmt.Errorf("seed.facts[%d]: unit %q not in seed.units", i, f.Unit)
		}
	}

	if s.Expect != nil {
		for i, c := range s.Expect.Cells {
			if c.Row < 0 {
				return fmt.Errorf("expect.cells[%d]: row must be non-negative", i)
			}
			if c.Column == "" {
				return fmt.Errorf("expect.cells[%d]: column is required", i)
			}
		}
	}
	return nil
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
