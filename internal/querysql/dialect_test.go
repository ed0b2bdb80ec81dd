package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	for _, s := range []string{"sqlite", "sqlite3"} {
		d, err := ParseDialect(s)
		require.NoError(t, err)
		assert.Equal(t, SQLite, d)
	}

	_, err = ParseDialect("oracle")
	assert.ErrorContains(t, err, `unknown dialect "oracle"`)
}

func TestDialectSyntax(t *testing.T) {
	assert.Equal(t, "$3", Postgres.Placeholder(3))
	assert.Equal(t, "?", SQLite.Placeholder(3))

	assert.Equal(t, "(t.YEAR)::text", Postgres.CastText("t.YEAR"))
	assert.Equal(t, "CAST(t.YEAR AS TEXT)", SQLite.CastText("t.YEAR"))

	assert.Equal(t, "postgres", Postgres.DriverName())
	assert.Equal(t, "sqlite3", SQLite.DriverName())

	assert.Equal(t, "SELECT NOW()", Postgres.NowQuery())
	assert.Equal(t, "SELECT datetime('now')", SQLite.NowQuery())
}
