package table

import (
	"errors"
	"fmt"

	"github.com/rowbase/rowbase/internal/value"
)

var ErrBadSchema = errors.New("table: invalid schema")

// Column declares one column: a name, a storage kind, and for KindTable
// columns the schema of the nested tables stored in its cells.
type Column struct {
	Name string     `json:"name"`
	Kind value.Kind `json:"kind"`
	Sub  *Schema    `json:"sub,omitempty"`
}

type Schema struct {
	Cols []Column `json:"cols"`
}

func (s Schema) NumCols() int { return len(s.Cols) }

// Validate checks that every column declares a storable kind and that
// KindTable columns carry a nested schema (recursively valid).
func (s Schema) Validate() error {
	for i, col := range s.Cols {
		if !col.Kind.ColumnKind() {
			return fmt.Errorf("%w: column %d (%q) kind %s", ErrBadSchema, i, col.Name, col.Kind)
		}
		if col.Kind == value.KindTable {
			if col.Sub == nil {
				return fmt.Errorf("%w: column %d (%q) has no subtable schema", ErrBadSchema, i, col.Name)
			}
			if err := col.Sub.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Equal reports structural equality: same column names, kinds, and nested
// schemas in the same order.
func (s Schema) Equal(o Schema) bool {
	if len(s.Cols) != len(o.Cols) {
		return false
	}
	for i, col := range s.Cols {
		oc := o.Cols[i]
		if col.Name != oc.Name || col.Kind != oc.Kind {
			return false
		}
		if col.Kind == value.KindTable {
			if (col.Sub == nil) != (oc.Sub == nil) {
				return false
			}
			if col.Sub != nil && !col.Sub.Equal(*oc.Sub) {
				return false
			}
		}
	}
	return true
}
