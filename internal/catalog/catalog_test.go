package catalog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndolage/macroquery/internal/query"
	"github.com/ndolage/macroquery/internal/querysql"
	"github.com/ndolage/macroquery/internal/testutil"
)

func newService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	db := testutil.OpenWarehouse(t)
	return New(db, querysql.SQLite), db
}

func TestLocations(t *testing.T) {
	s, db := newService(t)
	testutil.AddLocation(t, db, "Zanzibar")
	testutil.AddLocation(t, db, "Tanzania")

	got := s.Locations(context.Background())
	assert.False(t, got.Degraded)
	assert.Equal(t, []string{"Tanzania", "Zanzibar"}, got.Data)
}

func TestUnits(t *testing.T) {
	s, db := newService(t)
	testutil.AddUnit(t, db, "Percent")
	testutil.AddUnit(t, db, "Index")

	got := s.Units(context.Background())
	assert.False(t, got.Degraded)
	assert.Equal(t, []string{"Index", "Percent"}, got.Data)
}

func TestLocationsDegradesOnFailure(t *testing.T) {
	s, db := newService(t)
	_, err := db.Exec("DROP TABLE DIM_LOCATION")
	require.NoError(t, err)

	got := s.Locations(context.Background())
	assert.True(t, got.Degraded)
	assert.Empty(t, got.Data)
	assert.NotEmpty(t, got.Reason)
}

// A cached snapshot keeps serving after the warehouse goes away.
func TestLocationsServedFromCache(t *testing.T) {
	s, db := newService(t)
	testutil.AddLocation(t, db, "Tanzania")

	first := s.Locations(context.Background())
	require.False(t, first.Degraded)

	_, err := db.Exec("DROP TABLE DIM_LOCATION")
	require.NoError(t, err)

	second := s.Locations(context.Background())
	assert.False(t, second.Degraded)
	assert.Equal(t, first.Data, second.Data)
}

// Expired entries refresh from the warehouse, not the cache.
func TestLocationsRefreshAfterTTL(t *testing.T) {
	s, db := newService(t)
	testutil.AddLocation(t, db, "Tanzania")

	now := time.Now()
	s.names.now = func() time.Time { return now }

	require.False(t, s.Locations(context.Background()).Degraded)
	testutil.AddLocation(t, db, "Zanzibar")

	// Still inside the interval: the new row is not visible yet.
	assert.Equal(t, []string{"Tanzania"}, s.Locations(context.Background()).Data)

	now = now.Add(refTTL + time.Second)
	assert.Equal(t, []string{"Tanzania", "Zanzibar"}, s.Locations(context.Background()).Data)
}

func TestIndicatorsBySection(t *testing.T) {
	s, db := newService(t)
	testutil.AddIndicator(t, db, "Energy Index", "FLOW", "Energy prices", "CPI", "NBS")
	testutil.AddIndicator(t, db, "Exports", "FLOW", "Goods exports", "BOP", "BOT")
	testutil.AddIndicator(t, db, "Food Index", "FLOW", "", "cpi", "NBS")

	got := s.Indicators(context.Background(), "CPI")
	require.False(t, got.Degraded)
	require.Len(t, got.Data, 2)
	assert.Equal(t, Indicator{Name: "Energy Index", Description: "Energy prices", Section: "CPI"}, got.Data[0])
	assert.Equal(t, Indicator{Name: "Food Index", Section: "cpi"}, got.Data[1])
}

// Rows without an explicit SECTION match on INDICATOR_TYPE instead.
func TestIndicatorsSectionFallsBackToType(t *testing.T) {
	s, db := newService(t)
	testutil.AddIndicator(t, db, "Legacy Index", "CPI", "Pre-migration row", "", "")
	testutil.AddIndicator(t, db, "Exports", "BOP", "", "", "")

	got := s.Indicators(context.Background(), "cpi")
	require.False(t, got.Degraded)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "Legacy Index", got.Data[0].Name)
	assert.Equal(t, "CPI", got.Data[0].Section)
}

// Warehouses predating the SECTION column still list indicators, just
// without sections and without the section filter.
func TestIndicatorsBareFallback(t *testing.T) {
	s, db := newService(t)
	testutil.AddIndicator(t, db, "Energy Index", "FLOW", "Energy prices", "CPI", "")
	_, err := db.Exec("ALTER TABLE DIM_INDICATOR DROP COLUMN SECTION")
	require.NoError(t, err)

	got := s.Indicators(context.Background(), "CPI")
	require.False(t, got.Degraded)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "Energy Index", got.Data[0].Name)
	assert.Equal(t, "Energy prices", got.Data[0].Description)
	assert.Empty(t, got.Data[0].Section)
}

func TestIndicatorsDegradesWhenTableMissing(t *testing.T) {
	s, db := newService(t)
	_, err := db.Exec("DROP TABLE DIM_INDICATOR")
	require.NoError(t, err)

	got := s.Indicators(context.Background(), "")
	assert.True(t, got.Degraded)
	assert.Empty(t, got.Data)
	assert.NotEmpty(t, got.Reason)
}

func TestIndicatorOptionsFromSections(t *testing.T) {
	s, db := newService(t)
	testutil.AddIndicator(t, db, "Food Index", "FLOW", "", "CPI", "")
	testutil.AddIndicator(t, db, "Energy Index", "FLOW", "", "CPI", "")
	testutil.AddIndicator(t, db, "Exports", "FLOW", "", "BOP", "")

	got := s.IndicatorOptions(context.Background(), query.GroupCPI)
	assert.False(t, got.Degraded)
	assert.Equal(t, []string{"Energy Index", "Food Index"}, got.Data)
}

// With no section metadata at all, options come from the names present
// in the group's fact table.
func TestIndicatorOptionsFromFacts(t *testing.T) {
	s, db := newService(t)
	loc := testutil.AddLocation(t, db, "Tanzania")
	used := testutil.AddIndicator(t, db, "Energy Index", "FLOW", "", "", "")
	testutil.AddIndicator(t, db, "Unused Index", "FLOW", "", "", "")
	tm := testutil.AddMonth(t, db, 2021, 1)
	testutil.AddFact(t, db, "FACT_CPI", tm, loc, used, 0, 10)

	got := s.IndicatorOptions(context.Background(), query.GroupCPI)
	assert.False(t, got.Degraded)
	assert.Equal(t, []string{"Energy Index"}, got.Data)
}

// With no sections and no facts, every indicator is offered.
func TestIndicatorOptionsFallsBackToAll(t *testing.T) {
	s, db := newService(t)
	testutil.AddIndicator(t, db, "Food Index", "FLOW", "", "", "")
	testutil.AddIndicator(t, db, "Energy Index", "FLOW", "", "", "")

	got := s.IndicatorOptions(context.Background(), query.GroupCPI)
	assert.False(t, got.Degraded)
	assert.Equal(t, []string{"Energy Index", "Food Index"}, got.Data)
}

func TestIndicatorDescription(t *testing.T) {
	s, db := newService(t)
	testutil.AddIndicator(t, db, "Energy Index", "FLOW", "Energy prices", "", "")
	testutil.AddIndicator(t, db, "Bare Index", "FLOW", "", "", "")

	desc, ok := s.IndicatorDescription(context.Background(), "Energy Index")
	assert.True(t, ok)
	assert.Equal(t, "Energy prices", desc)

	_, ok = s.IndicatorDescription(context.Background(), "Bare Index")
	assert.False(t, ok)

	_, ok = s.IndicatorDescription(context.Background(), "No Such Index")
	assert.False(t, ok)
}

func TestCounts(t *testing.T) {
	s, db := newService(t)
	loc := testutil.AddLocation(t, db, "Tanzania")
	ind := testutil.AddIndicator(t, db, "Energy Index", "FLOW", "", "", "")
	tm := testutil.AddMonth(t, db, 2021, 1)
	testutil.AddFact(t, db, "FACT_CPI", tm, loc, ind, 0, 1)
	testutil.AddFact(t, db, "FACT_CPI", tm, loc, ind, 0, 2)
	testutil.AddFact(t, db, "FACT_BOP", tm, loc, ind, 0, 3)

	counts := s.Counts(context.Background())
	assert.Equal(t, FactCounts{CPI: 2, BOP: 1}, counts)
}

func TestCountsZeroOnFailure(t *testing.T) {
	s, db := newService(t)
	_, err := db.Exec("DROP TABLE FACT_CPI")
	require.NoError(t, err)

	counts := s.Counts(context.Background())
	assert.Zero(t, counts.CPI)
	assert.Zero(t, counts.BOP)
}
