package table

// Cursor is a reusable handle to "row i of table t". It owns no data: just
// a back-reference into the table and a row index that can be rebound any
// number of times, so iterating N rows needs one cursor (plus one Accessor
// per column) instead of 2×N allocations.
//
// The index is not validated eagerly; every access through an Accessor
// re-checks it against the table's live row count, since rows may be added
// or removed between accesses. A Cursor must not outlive its table and is
// not synchronised: use one cursor per goroutine.
type Cursor struct {
	table *Table
	index int
}

// NewCursor binds a cursor to row index of t.
func NewCursor(t *Table, index int) *Cursor {
	return &Cursor{table: t, index: index}
}

// SetIndex rebinds the cursor to another row of the same table, in place.
// Accessors bound to this cursor observe the new row on their next access.
func (c *Cursor) SetIndex(index int) { c.index = index }

func (c *Cursor) Index() int { return c.index }

func (c *Cursor) Table() *Table { return c.table }
