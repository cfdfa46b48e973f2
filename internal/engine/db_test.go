package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rowbase/rowbase/internal/table"
	"github.com/rowbase/rowbase/internal/value"
	"github.com/rowbase/rowbase/pkg/clockx"
)

func newTestDatabase(t *testing.T) (*Database, *clockx.Fake) {
	t.Helper()
	clock := &clockx.Fake{T: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)}
	db := NewDatabase(t.TempDir())
	db.Clock = clock
	return db, clock
}

func usersSchema() table.Schema {
	return table.Schema{Cols: []table.Column{
		{Name: "id", Kind: value.KindInt},
		{Name: "name", Kind: value.KindString},
		{Name: "active", Kind: value.KindBool},
	}}
}

func TestDatabase_CreateSaveOpen(t *testing.T) {
	db, _ := newTestDatabase(t)

	tbl, err := db.CreateTable("users", usersSchema())
	require.NoError(t, err)

	_, err = tbl.Append([]any{int64(1), "alice", true})
	require.NoError(t, err)
	_, err = tbl.Append([]any{int64(2), "bob", false})
	require.NoError(t, err)
	require.NoError(t, db.SaveTable("users", tbl))

	got, err := db.OpenTable("users")
	require.NoError(t, err)
	require.Equal(t, 2, got.RowCount())
	name, err := got.GetString(1, 1)
	require.NoError(t, err)
	require.Equal(t, "bob", name)
}

func TestDatabase_CreateTwiceFails(t *testing.T) {
	db, _ := newTestDatabase(t)

	_, err := db.CreateTable("users", usersSchema())
	require.NoError(t, err)
	_, err = db.CreateTable("users", usersSchema())
	require.ErrorIs(t, err, ErrTableExists)
}

func TestDatabase_OpenUnsavedIsEmpty(t *testing.T) {
	db, _ := newTestDatabase(t)

	_, err := db.CreateTable("users", usersSchema())
	require.NoError(t, err)

	got, err := db.OpenTable("users")
	require.NoError(t, err)
	require.Equal(t, 0, got.RowCount())
	require.True(t, got.Schema().Equal(usersSchema()))
}

func TestDatabase_OpenMissing(t *testing.T) {
	db, _ := newTestDatabase(t)

	_, err := db.OpenTable("nope")
	require.ErrorIs(t, err, ErrTableNotFound)
	require.ErrorIs(t, db.SaveTable("nope", table.MustNew(usersSchema())), ErrTableNotFound)
	require.ErrorIs(t, db.DropTable("nope"), ErrTableNotFound)
}

func TestDatabase_MetaTimestamps(t *testing.T) {
	db, clock := newTestDatabase(t)
	created := clock.T

	tbl, err := db.CreateTable("users", usersSchema())
	require.NoError(t, err)

	clock.Advance(time.Hour)
	_, err = tbl.Append([]any{int64(1), "alice", true})
	require.NoError(t, err)
	require.NoError(t, db.SaveTable("users", tbl))

	meta, err := db.Meta("users")
	require.NoError(t, err)
	require.Equal(t, "users", meta.Name)
	require.Equal(t, 1, meta.RowCount)
	require.True(t, meta.CreatedAt.Equal(created))
	require.True(t, meta.UpdatedAt.Equal(created.Add(time.Hour)))
}

func TestDatabase_DropTable(t *testing.T) {
	db, _ := newTestDatabase(t)

	tbl, err := db.CreateTable("users", usersSchema())
	require.NoError(t, err)
	require.NoError(t, db.SaveTable("users", tbl))

	require.NoError(t, db.DropTable("users"))
	_, err = db.OpenTable("users")
	require.ErrorIs(t, err, ErrTableNotFound)

	names, err := db.ListTables()
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestDatabase_ListTables(t *testing.T) {
	db, _ := newTestDatabase(t)

	names, err := db.ListTables()
	require.NoError(t, err)
	require.Empty(t, names)

	for _, n := range []string{"users", "orders"} {
		tbl, err := db.CreateTable(n, usersSchema())
		require.NoError(t, err)
		require.NoError(t, db.SaveTable(n, tbl))
	}

	names, err = db.ListTables()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"users", "orders"}, names)
}

func TestDatabase_SaveRefreshesSchema(t *testing.T) {
	db, _ := newTestDatabase(t)

	_, err := db.CreateTable("users", usersSchema())
	require.NoError(t, err)

	// Saving a differently-shaped table under the same name rewrites the
	// sidecar to match what is actually stored.
	other := table.MustNew(table.Schema{Cols: []table.Column{{Name: "n", Kind: value.KindInt}}})
	require.NoError(t, db.SaveTable("users", other))

	meta, err := db.Meta("users")
	require.NoError(t, err)
	require.True(t, meta.Schema.Equal(other.Schema()))
}
