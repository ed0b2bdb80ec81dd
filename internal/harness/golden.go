package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/ndolage/macroquery/internal/table"
)

// RunWithGolden executes a scenario and compares the rendered result
// table against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) {
	t.Helper()

	result := Run(t, s)
	AssertGolden(t, s.Name, result)
}

// AssertGolden compares an already-computed table against the named
// golden file.
func AssertGolden(t *testing.T, name string, result table.Table) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(table.RenderString(result)))
}
