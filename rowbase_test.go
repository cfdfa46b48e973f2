package rowbase_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rowbase/rowbase"
)

func TestEndToEnd(t *testing.T) {
	tbl, err := rowbase.NewTable(rowbase.Schema{Cols: []rowbase.Column{
		{Name: "id", Kind: rowbase.KindInt},
		{Name: "name", Kind: rowbase.KindString},
	}})
	require.NoError(t, err)

	for i, name := range []string{"alice", "bob", "carol"} {
		row := tbl.AddEmptyRow()
		require.NoError(t, tbl.SetInt(row, 0, int64(i)))
		require.NoError(t, tbl.SetString(row, 1, name))
	}

	cur := rowbase.NewCursor(tbl, 0)
	names := rowbase.NewAccessor(cur, 1)

	var got []string
	for i := 0; i < tbl.RowCount(); i++ {
		cur.SetIndex(i)
		s, err := names.GetString()
		require.NoError(t, err)
		got = append(got, s)
	}
	require.Equal(t, []string{"alice", "bob", "carol"}, got)

	cur.SetIndex(10)
	_, err = names.GetString()
	require.ErrorIs(t, err, rowbase.ErrOutOfRange)
	require.ErrorIs(t, names.SetInt(1), rowbase.ErrTypeMismatch)
}

func TestEndToEnd_Persistence(t *testing.T) {
	db := rowbase.NewDatabase(t.TempDir())

	tbl, err := db.CreateTable("events", rowbase.Schema{Cols: []rowbase.Column{
		{Name: "payload", Kind: rowbase.KindBinary},
		{Name: "note", Kind: rowbase.KindMixed},
	}})
	require.NoError(t, err)

	row := tbl.AddEmptyRow()
	require.NoError(t, tbl.SetBinary(row, 0, rowbase.NewBinary([]byte{1, 2})))
	require.NoError(t, db.SaveTable("events", tbl))

	got, err := db.OpenTable("events")
	require.NoError(t, err)
	require.Equal(t, 1, got.RowCount())
	b, err := got.GetBinary(0, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, b.Bytes())
}
