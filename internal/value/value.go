// Package value defines the kind universe of a rowbase table: the Kind tag,
// the Date and Binary value types, and the Mixed tagged union.
package value

import "time"

// Kind identifies which of the supported data types a column or a Mixed
// cell currently holds.
type Kind uint8

const (
	// KindNone is only valid inside a Mixed cell ("no value"); no column
	// may declare it.
	KindNone Kind = iota
	KindBool
	KindInt    // 64-bit signed
	KindFloat  // 32-bit
	KindDouble // 64-bit
	KindString // UTF-8 text
	KindBinary // opaque bytes
	KindDate   // seconds since epoch
	KindTable  // nested table
	KindMixed  // dynamically typed cell
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindDate:
		return "date"
	case KindTable:
		return "table"
	case KindMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// ColumnKind reports whether k may be declared as a column's storage kind.
func (k Kind) ColumnKind() bool {
	return k >= KindBool && k <= KindMixed
}

// Date is a timestamp stored as a signed count of seconds since the Unix
// epoch. No timezone, no sub-second precision.
type Date int64

// DateOf truncates t to whole seconds.
func DateOf(t time.Time) Date { return Date(t.Unix()) }

func (d Date) Time() time.Time { return time.Unix(int64(d), 0).UTC() }

// Binary is an immutable byte-sequence value. The payload is held as a
// string so no caller can mutate stored data through a retained slice.
type Binary struct {
	data string
}

// NewBinary copies b into a new Binary value.
func NewBinary(b []byte) Binary { return Binary{data: string(b)} }

// Bytes returns a copy of the payload.
func (b Binary) Bytes() []byte { return []byte(b.data) }

func (b Binary) Len() int { return len(b.data) }

func (b Binary) Equal(o Binary) bool { return b.data == o.data }
