package table

import "github.com/rowbase/rowbase/internal/value"

// Accessor is a typed view over one column of the row its cursor currently
// points at. It is a stateless proxy: every get and set re-resolves the
// cursor's (table, index), bounds-checks the index against the live row
// count, checks the requested kind against the column's declared kind, and
// then delegates to the table engine. Failed sets leave stored data
// unchanged.
//
// An accessor deliberately observes the current state of its cursor, not a
// snapshot: after Cursor.SetIndex the same accessor reads the new row.
type Accessor struct {
	cursor *Cursor
	col    int
}

// NewAccessor binds an accessor to one cursor and one column position.
// The column identity is fixed for the accessor's lifetime.
func NewAccessor(c *Cursor, col int) *Accessor {
	return &Accessor{cursor: c, col: col}
}

func (a *Accessor) Column() int { return a.col }

func (a *Accessor) GetBool() (bool, error) {
	return a.cursor.table.GetBool(a.cursor.index, a.col)
}

func (a *Accessor) SetBool(v bool) error {
	return a.cursor.table.SetBool(a.cursor.index, a.col, v)
}

func (a *Accessor) GetInt() (int64, error) {
	return a.cursor.table.GetInt(a.cursor.index, a.col)
}

func (a *Accessor) SetInt(v int64) error {
	return a.cursor.table.SetInt(a.cursor.index, a.col, v)
}

func (a *Accessor) GetFloat() (float32, error) {
	return a.cursor.table.GetFloat(a.cursor.index, a.col)
}

func (a *Accessor) SetFloat(v float32) error {
	return a.cursor.table.SetFloat(a.cursor.index, a.col, v)
}

func (a *Accessor) GetDouble() (float64, error) {
	return a.cursor.table.GetDouble(a.cursor.index, a.col)
}

func (a *Accessor) SetDouble(v float64) error {
	return a.cursor.table.SetDouble(a.cursor.index, a.col, v)
}

func (a *Accessor) GetString() (string, error) {
	return a.cursor.table.GetString(a.cursor.index, a.col)
}

func (a *Accessor) SetString(v string) error {
	return a.cursor.table.SetString(a.cursor.index, a.col, v)
}

func (a *Accessor) GetBinary() (value.Binary, error) {
	return a.cursor.table.GetBinary(a.cursor.index, a.col)
}

func (a *Accessor) SetBinary(v value.Binary) error {
	return a.cursor.table.SetBinary(a.cursor.index, a.col, v)
}

// SetBinaryBytes writes from a raw byte slice; the stored result is
// identical to SetBinary(value.NewBinary(b)).
func (a *Accessor) SetBinaryBytes(b []byte) error {
	return a.cursor.table.SetBinaryBytes(a.cursor.index, a.col, b)
}

func (a *Accessor) GetDate() (value.Date, error) {
	return a.cursor.table.GetDate(a.cursor.index, a.col)
}

func (a *Accessor) SetDate(v value.Date) error {
	return a.cursor.table.SetDate(a.cursor.index, a.col, v)
}

// GetSubtable returns the live nested table under this field.
func (a *Accessor) GetSubtable() (*Table, error) {
	return a.cursor.table.GetSubtable(a.cursor.index, a.col)
}

func (a *Accessor) SetSubtable(sub *Table) error {
	return a.cursor.table.SetSubtable(a.cursor.index, a.col, sub)
}

func (a *Accessor) GetMixed() (value.Mixed, error) {
	return a.cursor.table.GetMixed(a.cursor.index, a.col)
}

func (a *Accessor) SetMixed(m value.Mixed) error {
	return a.cursor.table.SetMixed(a.cursor.index, a.col, m)
}

// SubtableAs reads the nested table under a and hands it to a
// caller-supplied wrap function producing a typed handle. The mapping from
// stored subtable to concrete row type is entirely caller-driven; this
// layer knows nothing of the nested schema's meaning.
func SubtableAs[T any](a *Accessor, wrap func(*Table) T) (T, error) {
	sub, err := a.GetSubtable()
	if err != nil {
		var zero T
		return zero, err
	}
	return wrap(sub), nil
}
