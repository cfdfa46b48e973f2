package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rowbase/rowbase/internal/value"
)

// newIntTable builds a 3-row table with a single int column holding
// 10, 20, 30.
func newIntTable(t *testing.T) *Table {
	t.Helper()
	tbl := MustNew(Schema{Cols: []Column{{Name: "n", Kind: value.KindInt}}})
	for _, v := range []int64{10, 20, 30} {
		row := tbl.AddEmptyRow()
		require.NoError(t, tbl.SetInt(row, 0, v))
	}
	return tbl
}

func TestAccessor_GetSetThroughCursor(t *testing.T) {
	tbl := newIntTable(t)
	cur := NewCursor(tbl, 1)
	acc := NewAccessor(cur, 0)

	require.NoError(t, acc.SetInt(42))
	n, err := acc.GetInt()
	require.NoError(t, err)
	require.Equal(t, int64(42), n)

	// The write went to row 1 only.
	n, err = tbl.GetInt(0, 0)
	require.NoError(t, err)
	require.Equal(t, int64(10), n)
	n, err = tbl.GetInt(2, 0)
	require.NoError(t, err)
	require.Equal(t, int64(30), n)
}

func TestAccessor_ObservesRebind(t *testing.T) {
	tbl := newIntTable(t)
	cur := NewCursor(tbl, 1)
	acc := NewAccessor(cur, 0)

	require.NoError(t, acc.SetInt(42))

	// Rebinding the cursor redirects the same accessor, no reconstruction.
	cur.SetIndex(2)
	n, err := acc.GetInt()
	require.NoError(t, err)
	require.Equal(t, int64(30), n)

	cur.SetIndex(1)
	n, err = acc.GetInt()
	require.NoError(t, err)
	require.Equal(t, int64(42), n)
}

func TestAccessor_OutOfRangeAfterRebind(t *testing.T) {
	tbl := newIntTable(t)
	cur := NewCursor(tbl, 1)
	acc := NewAccessor(cur, 0)

	cur.SetIndex(5)
	_, err := acc.GetInt()
	require.ErrorIs(t, err, ErrOutOfRange)
	require.ErrorIs(t, acc.SetInt(1), ErrOutOfRange)

	// The failed write touched nothing.
	for i, want := range []int64{10, 20, 30} {
		n, err := tbl.GetInt(i, 0)
		require.NoError(t, err)
		require.Equal(t, want, n)
	}
}

func TestAccessor_StaleAfterRowRemoval(t *testing.T) {
	tbl := newIntTable(t)
	cur := NewCursor(tbl, 2)
	acc := NewAccessor(cur, 0)

	n, err := acc.GetInt()
	require.NoError(t, err)
	require.Equal(t, int64(30), n)

	// Validity is re-checked on every access: once the table shrinks under
	// the cursor, the same index fails.
	require.NoError(t, tbl.RemoveRow(0))
	_, err = acc.GetInt()
	require.ErrorIs(t, err, ErrOutOfRange)

	cur.SetIndex(1)
	n, err = acc.GetInt()
	require.NoError(t, err)
	require.Equal(t, int64(30), n)
}

func TestAccessor_IterationWithOneCursor(t *testing.T) {
	tbl := newIntTable(t)
	cur := NewCursor(tbl, 0)
	acc := NewAccessor(cur, 0)

	var got []int64
	for i := 0; i < tbl.RowCount(); i++ {
		cur.SetIndex(i)
		n, err := acc.GetInt()
		require.NoError(t, err)
		got = append(got, n)
	}
	require.Equal(t, []int64{10, 20, 30}, got)
}

func TestAccessor_KindChecked(t *testing.T) {
	tbl := newIntTable(t)
	cur := NewCursor(tbl, 0)
	acc := NewAccessor(cur, 0)

	_, err := acc.GetString()
	require.ErrorIs(t, err, ErrTypeMismatch)
	require.ErrorIs(t, acc.SetBool(true), ErrTypeMismatch)

	n, err := acc.GetInt()
	require.NoError(t, err)
	require.Equal(t, int64(10), n)
}

func TestAccessor_AllKinds(t *testing.T) {
	tbl := newKitchenSink(t)
	tbl.AddEmptyRow()
	cur := NewCursor(tbl, 0)

	boolAcc := NewAccessor(cur, colBool)
	require.NoError(t, boolAcc.SetBool(true))
	b, err := boolAcc.GetBool()
	require.NoError(t, err)
	require.True(t, b)

	floatAcc := NewAccessor(cur, colFloat)
	require.NoError(t, floatAcc.SetFloat(0.5))
	f, err := floatAcc.GetFloat()
	require.NoError(t, err)
	require.Equal(t, float32(0.5), f)

	doubleAcc := NewAccessor(cur, colDouble)
	require.NoError(t, doubleAcc.SetDouble(2.5))
	g, err := doubleAcc.GetDouble()
	require.NoError(t, err)
	require.Equal(t, 2.5, g)

	strAcc := NewAccessor(cur, colString)
	require.NoError(t, strAcc.SetString("abc"))
	s, err := strAcc.GetString()
	require.NoError(t, err)
	require.Equal(t, "abc", s)

	dateAcc := NewAccessor(cur, colDate)
	require.NoError(t, dateAcc.SetDate(value.Date(-7)))
	d, err := dateAcc.GetDate()
	require.NoError(t, err)
	require.Equal(t, value.Date(-7), d)

	mixAcc := NewAccessor(cur, colMixed)
	require.NoError(t, mixAcc.SetMixed(value.MixedDouble(3.5)))
	m, err := mixAcc.GetMixed()
	require.NoError(t, err)
	require.Equal(t, value.KindDouble, m.Kind())
}

func TestAccessor_BinaryFormsMatch(t *testing.T) {
	tbl := newKitchenSink(t)
	tbl.AddEmptyRow()
	tbl.AddEmptyRow()
	cur := NewCursor(tbl, 0)
	acc := NewAccessor(cur, colBinary)

	payload := []byte("blob")
	require.NoError(t, acc.SetBinary(value.NewBinary(payload)))
	cur.SetIndex(1)
	require.NoError(t, acc.SetBinaryBytes(payload))

	cur.SetIndex(0)
	b1, err := acc.GetBinary()
	require.NoError(t, err)
	cur.SetIndex(1)
	b2, err := acc.GetBinary()
	require.NoError(t, err)
	require.True(t, b1.Equal(b2))
}

// tagList is a caller-side typed view over a {tag string} subtable, the
// kind of wrapper SubtableAs exists for.
type tagList struct {
	t *Table
}

func (l tagList) Add(tag string) error {
	row := l.t.AddEmptyRow()
	return l.t.SetString(row, 0, tag)
}

func (l tagList) All() ([]string, error) {
	out := make([]string, 0, l.t.RowCount())
	for i := 0; i < l.t.RowCount(); i++ {
		s, err := l.t.GetString(i, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func TestSubtableAs(t *testing.T) {
	tbl := newKitchenSink(t)
	tbl.AddEmptyRow()
	cur := NewCursor(tbl, 0)
	acc := NewAccessor(cur, colTable)

	tags, err := SubtableAs(acc, func(t *Table) tagList { return tagList{t: t} })
	require.NoError(t, err)
	require.NoError(t, tags.Add("red"))
	require.NoError(t, tags.Add("green"))

	// The typed view wrote through to the stored subtable.
	sub, err := acc.GetSubtable()
	require.NoError(t, err)
	require.Equal(t, 2, sub.RowCount())

	all, err := tags.All()
	require.NoError(t, err)
	require.Equal(t, []string{"red", "green"}, all)
}

func TestSubtableAs_PropagatesErrors(t *testing.T) {
	tbl := newKitchenSink(t)
	cur := NewCursor(tbl, 0) // no rows
	acc := NewAccessor(cur, colTable)

	_, err := SubtableAs(acc, func(t *Table) tagList { return tagList{t: t} })
	require.ErrorIs(t, err, ErrOutOfRange)
}

// Write through an accessor, rebind, observe another row's value, then
// run off the end.
func TestAccessor_WriteRebindOverrun(t *testing.T) {
	tbl := MustNew(Schema{Cols: []Column{{Name: "v", Kind: value.KindInt}}})
	for i := 0; i < 3; i++ {
		tbl.AddEmptyRow()
	}
	require.NoError(t, tbl.SetInt(2, 0, 7))

	cur := NewCursor(tbl, 1)
	acc := NewAccessor(cur, 0)

	require.NoError(t, acc.SetInt(42))
	n, err := acc.GetInt()
	require.NoError(t, err)
	require.Equal(t, int64(42), n)

	cur.SetIndex(2)
	n, err = acc.GetInt()
	require.NoError(t, err)
	require.Equal(t, int64(7), n)

	cur.SetIndex(5)
	_, err = acc.GetInt()
	require.ErrorIs(t, err, ErrOutOfRange)
}
