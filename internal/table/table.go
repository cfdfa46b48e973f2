// Package table implements the rowbase table engine and the two access
// objects layered on top of it: the rebindable row Cursor and the
// per-column Accessor.
package table

import (
	"errors"
	"fmt"

	"github.com/rowbase/rowbase/internal/value"
)

var (
	// ErrOutOfRange reports a row or column index that is not valid for
	// the table at the time of access.
	ErrOutOfRange = errors.New("table: index out of range")
	// ErrTypeMismatch reports a requested value kind that does not match
	// the column's declared kind.
	ErrTypeMismatch = errors.New("table: value kind does not match column kind")
)

// Table is an in-memory columnar table: a fixed schema and one typed
// column per declared column, all mutated in lockstep row-wise.
type Table struct {
	schema Schema
	cols   []column
	rows   int
}

// New builds an empty table for the given schema.
func New(schema Schema) (*Table, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	cols := make([]column, schema.NumCols())
	for i, col := range schema.Cols {
		cols[i] = newColumn(col)
	}
	return &Table{schema: schema, cols: cols}, nil
}

// MustNew is New for schemas known valid at compile time (tests, fixtures).
func MustNew(schema Schema) *Table {
	t, err := New(schema)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) RowCount() int    { return t.rows }
func (t *Table) ColumnCount() int { return len(t.cols) }

// Schema returns a shallow copy of the table's schema.
func (t *Table) Schema() Schema {
	cols := make([]Column, len(t.schema.Cols))
	copy(cols, t.schema.Cols)
	return Schema{Cols: cols}
}

// ColumnKind returns the declared kind of a column, KindNone if col is not
// a valid column index.
func (t *Table) ColumnKind(col int) value.Kind {
	if col < 0 || col >= len(t.cols) {
		return value.KindNone
	}
	return t.cols[col].kind()
}

// ColumnName returns the declared name of a column, "" if col is not a
// valid column index.
func (t *Table) ColumnName(col int) string {
	if col < 0 || col >= len(t.schema.Cols) {
		return ""
	}
	return t.schema.Cols[col].Name
}

// ColumnIndex returns the position of the named column, -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.schema.Cols {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// AddEmptyRow appends one row of zero values (false, 0, "", empty binary,
// unmaterialized subtable, no-value mixed) and returns its index.
func (t *Table) AddEmptyRow() int {
	for _, c := range t.cols {
		c.appendZero()
	}
	t.rows++
	return t.rows - 1
}

// Append adds a row from one Go value per column and returns its index.
// Accepted cell types per kind: bool; int64/int/int32; float32; float64;
// string; value.Binary/[]byte; value.Date; *Table (or nil); value.Mixed.
// The row is only appended once every value has been checked, so a
// mismatch leaves the table unchanged.
func (t *Table) Append(values []any) (int, error) {
	if len(values) != len(t.cols) {
		return -1, fmt.Errorf("%w: %d values for %d columns", ErrTypeMismatch, len(values), len(t.cols))
	}
	coerced := make([]any, len(values))
	for i, v := range values {
		cv, err := t.coerce(i, v)
		if err != nil {
			return -1, err
		}
		coerced[i] = cv
	}
	row := t.AddEmptyRow()
	for i, cv := range coerced {
		t.storeCell(row, i, cv)
	}
	return row, nil
}

func (t *Table) coerce(col int, v any) (any, error) {
	want := t.cols[col].kind()
	mismatch := func() error {
		return fmt.Errorf("%w: column %q (%s) cannot hold %T", ErrTypeMismatch, t.schema.Cols[col].Name, want, v)
	}
	switch want {
	case value.KindBool:
		if x, ok := v.(bool); ok {
			return x, nil
		}
	case value.KindInt:
		switch x := v.(type) {
		case int64:
			return x, nil
		case int:
			return int64(x), nil
		case int32:
			return int64(x), nil
		}
	case value.KindFloat:
		if x, ok := v.(float32); ok {
			return x, nil
		}
	case value.KindDouble:
		if x, ok := v.(float64); ok {
			return x, nil
		}
	case value.KindString:
		if x, ok := v.(string); ok {
			return x, nil
		}
	case value.KindBinary:
		switch x := v.(type) {
		case value.Binary:
			return x, nil
		case []byte:
			return value.NewBinary(x), nil
		}
	case value.KindDate:
		if x, ok := v.(value.Date); ok {
			return x, nil
		}
	case value.KindTable:
		if v == nil {
			return (*Table)(nil), nil
		}
		if x, ok := v.(*Table); ok {
			if x != nil && !x.schema.Equal(*t.schema.Cols[col].Sub) {
				return nil, fmt.Errorf("%w: subtable schema differs for column %q", ErrTypeMismatch, t.schema.Cols[col].Name)
			}
			return x, nil
		}
	case value.KindMixed:
		if x, ok := v.(value.Mixed); ok {
			return x, nil
		}
	}
	return nil, mismatch()
}

// storeCell writes an already-coerced value; callers guarantee bounds and
// kind, so this never fails.
func (t *Table) storeCell(row, col int, v any) {
	switch c := t.cols[col].(type) {
	case *boolColumn:
		c.data[row] = v.(bool)
	case *intColumn:
		c.data[row] = v.(int64)
	case *floatColumn:
		c.data[row] = v.(float32)
	case *doubleColumn:
		c.data[row] = v.(float64)
	case *stringColumn:
		c.data[row] = v.(string)
	case *binaryColumn:
		c.data[row] = v.(value.Binary)
	case *dateColumn:
		c.data[row] = v.(value.Date)
	case *tableColumn:
		c.data[row] = v.(*Table)
	case *mixedColumn:
		c.data[row] = v.(value.Mixed)
	}
}

// RemoveRow deletes row i, shifting later rows down by one.
func (t *Table) RemoveRow(i int) error {
	if i < 0 || i >= t.rows {
		return fmt.Errorf("%w: row %d of %d", ErrOutOfRange, i, t.rows)
	}
	for _, c := range t.cols {
		c.erase(i)
	}
	t.rows--
	return nil
}

// Clear removes every row. The schema is unchanged.
func (t *Table) Clear() {
	for _, c := range t.cols {
		c.clear()
	}
	t.rows = 0
}

// cellFor is the single validation path for every cell read and write:
// column existence, live row bounds, then declared-kind compatibility.
func (t *Table) cellFor(row, col int, want value.Kind) (column, error) {
	if col < 0 || col >= len(t.cols) {
		return nil, fmt.Errorf("%w: column %d of %d", ErrOutOfRange, col, len(t.cols))
	}
	if row < 0 || row >= t.rows {
		return nil, fmt.Errorf("%w: row %d of %d", ErrOutOfRange, row, t.rows)
	}
	c := t.cols[col]
	if c.kind() != want {
		return nil, fmt.Errorf("%w: column %q is %s, want %s", ErrTypeMismatch, t.schema.Cols[col].Name, c.kind(), want)
	}
	return c, nil
}

func (t *Table) GetBool(row, col int) (bool, error) {
	c, err := t.cellFor(row, col, value.KindBool)
	if err != nil {
		return false, err
	}
	return c.(*boolColumn).data[row], nil
}

func (t *Table) SetBool(row, col int, v bool) error {
	c, err := t.cellFor(row, col, value.KindBool)
	if err != nil {
		return err
	}
	c.(*boolColumn).data[row] = v
	return nil
}

func (t *Table) GetInt(row, col int) (int64, error) {
	c, err := t.cellFor(row, col, value.KindInt)
	if err != nil {
		return 0, err
	}
	return c.(*intColumn).data[row], nil
}

func (t *Table) SetInt(row, col int, v int64) error {
	c, err := t.cellFor(row, col, value.KindInt)
	if err != nil {
		return err
	}
	c.(*intColumn).data[row] = v
	return nil
}

func (t *Table) GetFloat(row, col int) (float32, error) {
	c, err := t.cellFor(row, col, value.KindFloat)
	if err != nil {
		return 0, err
	}
	return c.(*floatColumn).data[row], nil
}

func (t *Table) SetFloat(row, col int, v float32) error {
	c, err := t.cellFor(row, col, value.KindFloat)
	if err != nil {
		return err
	}
	c.(*floatColumn).data[row] = v
	return nil
}

func (t *Table) GetDouble(row, col int) (float64, error) {
	c, err := t.cellFor(row, col, value.KindDouble)
	if err != nil {
		return 0, err
	}
	return c.(*doubleColumn).data[row], nil
}

func (t *Table) SetDouble(row, col int, v float64) error {
	c, err := t.cellFor(row, col, value.KindDouble)
	if err != nil {
		return err
	}
	c.(*doubleColumn).data[row] = v
	return nil
}

func (t *Table) GetString(row, col int) (string, error) {
	c, err := t.cellFor(row, col, value.KindString)
	if err != nil {
		return "", err
	}
	return c.(*stringColumn).data[row], nil
}

// SetString replaces the stored text entirely.
func (t *Table) SetString(row, col int, v string) error {
	c, err := t.cellFor(row, col, value.KindString)
	if err != nil {
		return err
	}
	c.(*stringColumn).data[row] = v
	return nil
}

func (t *Table) GetBinary(row, col int) (value.Binary, error) {
	c, err := t.cellFor(row, col, value.KindBinary)
	if err != nil {
		return value.Binary{}, err
	}
	return c.(*binaryColumn).data[row], nil
}

func (t *Table) SetBinary(row, col int, v value.Binary) error {
	c, err := t.cellFor(row, col, value.KindBinary)
	if err != nil {
		return err
	}
	c.(*binaryColumn).data[row] = v
	return nil
}

// SetBinaryBytes is the raw-slice write form; it stores exactly what
// SetBinary(NewBinary(b)) would.
func (t *Table) SetBinaryBytes(row, col int, b []byte) error {
	return t.SetBinary(row, col, value.NewBinary(b))
}

func (t *Table) GetDate(row, col int) (value.Date, error) {
	c, err := t.cellFor(row, col, value.KindDate)
	if err != nil {
		return 0, err
	}
	return c.(*dateColumn).data[row], nil
}

func (t *Table) SetDate(row, col int, v value.Date) error {
	c, err := t.cellFor(row, col, value.KindDate)
	if err != nil {
		return err
	}
	c.(*dateColumn).data[row] = v
	return nil
}

// GetSubtable returns the live nested table stored in the cell,
// materializing an empty one on first access. Mutations through the
// returned handle are visible to later reads.
func (t *Table) GetSubtable(row, col int) (*Table, error) {
	c, err := t.cellFor(row, col, value.KindTable)
	if err != nil {
		return nil, err
	}
	tc := c.(*tableColumn)
	if tc.data[row] == nil {
		sub, err := New(*tc.sub)
		if err != nil {
			return nil, err
		}
		tc.data[row] = sub
	}
	return tc.data[row], nil
}

// SetSubtable stores a nested table reference. The schema must match the
// column's declared subtable schema. A nil sub resets the cell to an
// unmaterialized empty subtable.
func (t *Table) SetSubtable(row, col int, sub *Table) error {
	c, err := t.cellFor(row, col, value.KindTable)
	if err != nil {
		return err
	}
	tc := c.(*tableColumn)
	if sub != nil && !sub.schema.Equal(*tc.sub) {
		return fmt.Errorf("%w: subtable schema differs for column %q", ErrTypeMismatch, t.schema.Cols[col].Name)
	}
	tc.data[row] = sub
	return nil
}

func (t *Table) GetMixed(row, col int) (value.Mixed, error) {
	c, err := t.cellFor(row, col, value.KindMixed)
	if err != nil {
		return value.Mixed{}, err
	}
	return c.(*mixedColumn).data[row], nil
}

// SetMixed stores the value together with its runtime kind tag, so a later
// read recovers the original kind. A mixed subtable reference must be a
// *Table.
func (t *Table) SetMixed(row, col int, m value.Mixed) error {
	c, err := t.cellFor(row, col, value.KindMixed)
	if err != nil {
		return err
	}
	if m.Kind() == value.KindTable {
		ref, _ := m.AsTable()
		if _, ok := ref.(*Table); !ok {
			return fmt.Errorf("%w: mixed subtable reference is %T, want *Table", ErrTypeMismatch, ref)
		}
	}
	c.(*mixedColumn).data[row] = m
	return nil
}
