package warehouse

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndolage/macroquery/internal/query"
	"github.com/ndolage/macroquery/internal/querysql"
	"github.com/ndolage/macroquery/internal/testutil"
)

func TestOpenSQLite(t *testing.T) {
	sess, err := Open(Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	defer sess.Close()

	assert.Equal(t, querysql.SQLite, sess.Dialect())
	assert.NotNil(t, sess.DB())
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
	assert.True(t, IsConnectionError(err))
}

func TestOpenUnreachableSQLitePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "warehouse.db")
	_, err := Open(Config{Driver: "sqlite", Path: path})
	require.Error(t, err)
	assert.True(t, IsConnectionError(err))
}

func TestSessionPing(t *testing.T) {
	db := testutil.OpenWarehouse(t)
	sess := NewSession(db, querysql.SQLite)

	res := sess.Ping(context.Background())
	assert.True(t, res.OK)
	assert.Equal(t, "connection active", res.Message)
	assert.NotEmpty(t, res.ServerTime)
}

func TestSessionPingClosedHandle(t *testing.T) {
	sess, err := Open(Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, sess.Close())

	res := sess.Ping(context.Background())
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "connection failed")
}

func TestSessionRun(t *testing.T) {
	db := testutil.OpenWarehouse(t)
	loc := testutil.AddLocation(t, db, "Tanzania")
	ind := testutil.AddIndicator(t, db, "Energy Index", "FLOW", "", "", "")
	for m, v := range map[int]float64{1: 10, 2: 20} {
		tm := testutil.AddMonth(t, db, 2021, m)
		testutil.AddFact(t, db, "FACT_CPI", tm, loc, ind, 0, v)
	}

	sess := NewSession(db, querysql.SQLite)
	r := query.Request{
		DataGroup:   query.GroupCPI,
		StartYear:   2021,
		EndYear:     2021,
		Location:    "Tanzania",
		Aggregation: query.Monthly,
	}

	result, err := sess.Run(context.Background(), r)
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.Contains(t, result.Columns, "TIME_PERIOD")

	// Same request, wide: the slim projection makes the pivot apply.
	r.WideFormat = true
	wide, err := sess.Run(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, []string{"TIME_PERIOD", "LOCATION_NAME", "Energy Index"}, wide.Columns)
	assert.Len(t, wide.Rows, 2)
}

func TestSessionRunInvalidRequest(t *testing.T) {
	sess := NewSession(testutil.OpenWarehouse(t), querysql.SQLite)

	_, err := sess.Run(context.Background(), query.Request{DataGroup: "XYZ"})
	require.Error(t, err)
	assert.True(t, query.IsInvalidArgument(err))
}
