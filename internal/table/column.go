package table

import "github.com/rowbase/rowbase/internal/value"

// column is the storage behind one declared column: a slice of cells, one
// per row, mutated in lockstep with every other column of the table.
type column interface {
	kind() value.Kind
	appendZero()
	erase(i int)
	clear()
}

// cells is the shared slice plumbing for every concrete column type.
type cells[T any] struct {
	data []T
}

func (c *cells[T]) appendZero() {
	var zero T
	c.data = append(c.data, zero)
}

func (c *cells[T]) erase(i int) {
	c.data = append(c.data[:i], c.data[i+1:]...)
}

func (c *cells[T]) clear() { c.data = c.data[:0] }

type (
	boolColumn   struct{ cells[bool] }
	intColumn    struct{ cells[int64] }
	floatColumn  struct{ cells[float32] }
	doubleColumn struct{ cells[float64] }
	stringColumn struct{ cells[string] }
	binaryColumn struct{ cells[value.Binary] }
	dateColumn   struct{ cells[value.Date] }
	mixedColumn  struct{ cells[value.Mixed] }
)

func (*boolColumn) kind() value.Kind   { return value.KindBool }
func (*intColumn) kind() value.Kind    { return value.KindInt }
func (*floatColumn) kind() value.Kind  { return value.KindFloat }
func (*doubleColumn) kind() value.Kind { return value.KindDouble }
func (*stringColumn) kind() value.Kind { return value.KindString }
func (*binaryColumn) kind() value.Kind { return value.KindBinary }
func (*dateColumn) kind() value.Kind   { return value.KindDate }
func (*mixedColumn) kind() value.Kind  { return value.KindMixed }

// tableColumn cells hold nested tables. A nil cell is an empty subtable
// that has not been materialized yet; GetSubtable creates it on demand.
type tableColumn struct {
	cells[*Table]
	sub *Schema
}

func (*tableColumn) kind() value.Kind { return value.KindTable }

func newColumn(col Column) column {
	switch col.Kind {
	case value.KindBool:
		return &boolColumn{}
	case value.KindInt:
		return &intColumn{}
	case value.KindFloat:
		return &floatColumn{}
	case value.KindDouble:
		return &doubleColumn{}
	case value.KindString:
		return &stringColumn{}
	case value.KindBinary:
		return &binaryColumn{}
	case value.KindDate:
		return &dateColumn{}
	case value.KindTable:
		return &tableColumn{sub: col.Sub}
	case value.KindMixed:
		return &mixedColumn{}
	default:
		panic("table: unreachable column kind " + col.Kind.String())
	}
}
