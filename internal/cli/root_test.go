package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndolage/macroquery/internal/testutil"
)

// seedFileWarehouse creates a file-backed SQLite warehouse the command
// under test can open through a connection profile, and returns the
// profile path.
func seedFileWarehouse(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "warehouse.db")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(testutil.Schema)
	require.NoError(t, err)

	loc := testutil.AddLocation(t, db, "Tanzania")
	unit := testutil.AddUnit(t, db, "Index")
	energy := testutil.AddIndicator(t, db, "Energy Index", "FLOW", "Energy prices", "CPI", "NBS")
	food := testutil.AddIndicator(t, db, "Food Index", "FLOW", "Food prices", "CPI", "NBS")
	for m, v := range map[int]float64{1: 10, 2: 20, 3: 30} {
		tm := testutil.AddMonth(t, db, 2021, m)
		testutil.AddFact(t, db, "FACT_CPI", tm, loc, energy, unit, v)
		testutil.AddFact(t, db, "FACT_CPI", tm, loc, food, unit, v/10)
	}
	require.NoError(t, db.Close())

	profile := filepath.Join(dir, "warehouse.yaml")
	content := fmt.Sprintf("driver: sqlite\npath: %s\n", dbPath)
	require.NoError(t, os.WriteFile(profile, []byte(content), 0o600))
	return profile
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut strings.Builder

	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestPingCommand(t *testing.T) {
	profile := seedFileWarehouse(t)

	out, _, err := runCommand(t, "--profile", profile, "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "connection active")
	assert.Contains(t, out, "6 CPI facts")
	assert.Contains(t, out, "0 BOP facts")
}

func TestLocationsCommand(t *testing.T) {
	profile := seedFileWarehouse(t)

	out, _, err := runCommand(t, "--profile", profile, "locations")
	require.NoError(t, err)
	assert.Equal(t, "Tanzania\n", out)
}

func TestLocationsCommandJSON(t *testing.T) {
	profile := seedFileWarehouse(t)

	out, _, err := runCommand(t, "--profile", profile, "--format", "json", "locations")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestIndicatorsCommand(t *testing.T) {
	profile := seedFileWarehouse(t)

	out, _, err := runCommand(t, "--profile", profile, "indicators", "--section", "CPI")
	require.NoError(t, err)
	assert.Contains(t, out, "Energy Index [CPI]: Energy prices")
	assert.Contains(t, out, "Food Index [CPI]: Food prices")
}

func TestIndicatorsCommandGroupNames(t *testing.T) {
	profile := seedFileWarehouse(t)

	out, _, err := runCommand(t, "--profile", profile, "indicators", "--group", "CPI")
	require.NoError(t, err)
	assert.Equal(t, "Energy Index\nFood Index\n", out)
}

func TestUnitsForCommand(t *testing.T) {
	profile := seedFileWarehouse(t)

	out, _, err := runCommand(t, "--profile", profile, "units-for", "--group", "CPI", "Energy Index")
	require.NoError(t, err)
	assert.Equal(t, "Index\n", out)
}

func TestDataCommand(t *testing.T) {
	profile := seedFileWarehouse(t)

	out, _, err := runCommand(t, "--profile", profile, "data",
		"--group", "CPI", "--start-year", "2021", "--end-year", "2021",
		"--aggregation", "quarterly")
	require.NoError(t, err)
	assert.Contains(t, out, "2021Q1")
	assert.Contains(t, out, "Energy Index")
}

func TestDataCommandWide(t *testing.T) {
	profile := seedFileWarehouse(t)

	out, _, err := runCommand(t, "--profile", profile, "data",
		"--group", "CPI", "--start-year", "2021", "--end-year", "2021", "--wide")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4) // header + three months
	assert.Contains(t, lines[0], "Energy Index")
	assert.Contains(t, lines[0], "Food Index")
}

func TestDataCommandInvalidRequest(t *testing.T) {
	profile := seedFileWarehouse(t)

	out, _, err := runCommand(t, "--profile", profile, "data",
		"--group", "CPI", "--start-year", "2030", "--end-year", "2020")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "error:")
}

func TestDataCommandFromDescriptor(t *testing.T) {
	profile := seedFileWarehouse(t)
	reqPath := filepath.Join(t.TempDir(), "request.yaml")
	require.NoError(t, os.WriteFile(reqPath, []byte(`
dataGroup: CPI
startYear: 2021
endYear: 2021
location: Tanzania
indicatorNames: [Food Index]
aggregation: annual
`), 0o644))

	out, _, err := runCommand(t, "--profile", profile, "data", "--request", reqPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Food Index")
	assert.NotContains(t, out, "Energy Index")
}

func TestExportCommandCSV(t *testing.T) {
	profile := seedFileWarehouse(t)
	outPath := filepath.Join(t.TempDir(), "data.csv")

	_, _, err := runCommand(t, "--profile", profile, "export",
		"--group", "CPI", "--start-year", "2021", "--end-year", "2021",
		"--wide", "--out", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TIME_PERIOD,LOCATION_NAME,Energy Index,Food Index")
}

func TestExportCommandRejectsBadExtension(t *testing.T) {
	profile := seedFileWarehouse(t)

	_, _, err := runCommand(t, "--profile", profile, "export",
		"--out", filepath.Join(t.TempDir(), "data.parquet"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootRejectsBadFormat(t *testing.T) {
	_, _, err := runCommand(t, "--format", "xml", "locations")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}
