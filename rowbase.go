// Package rowbase is the public facade of the rowbase embedded table
// store: typed in-memory tables, a rebindable row cursor with per-column
// field accessors, and snapshot persistence under a data directory.
package rowbase

import (
	"github.com/rowbase/rowbase/internal/engine"
	"github.com/rowbase/rowbase/internal/table"
	"github.com/rowbase/rowbase/internal/value"
)

type (
	Table    = table.Table
	Schema   = table.Schema
	Column   = table.Column
	Cursor   = table.Cursor
	Accessor = table.Accessor

	Kind   = value.Kind
	Mixed  = value.Mixed
	Binary = value.Binary
	Date   = value.Date

	Database  = engine.Database
	TableMeta = engine.TableMeta
)

const (
	KindBool   = value.KindBool
	KindInt    = value.KindInt
	KindFloat  = value.KindFloat
	KindDouble = value.KindDouble
	KindString = value.KindString
	KindBinary = value.KindBinary
	KindDate   = value.KindDate
	KindTable  = value.KindTable
	KindMixed  = value.KindMixed
)

var (
	ErrOutOfRange   = table.ErrOutOfRange
	ErrTypeMismatch = table.ErrTypeMismatch
)

// NewTable builds an empty in-memory table for schema.
func NewTable(schema Schema) (*Table, error) { return table.New(schema) }

// NewCursor binds a reusable cursor to row index of t.
func NewCursor(t *Table, index int) *Cursor { return table.NewCursor(t, index) }

// NewAccessor binds a field accessor to one cursor and one column.
func NewAccessor(c *Cursor, col int) *Accessor { return table.NewAccessor(c, col) }

// SubtableAs reads the nested table under a through a caller-supplied
// typed wrapper.
func SubtableAs[T any](a *Accessor, wrap func(*Table) T) (T, error) {
	return table.SubtableAs(a, wrap)
}

// NewBinary copies b into an immutable Binary value.
func NewBinary(b []byte) Binary { return value.NewBinary(b) }

// NewDatabase opens a database handle rooted at dataDir.
func NewDatabase(dataDir string) *Database { return engine.NewDatabase(dataDir) }
