package value

import (
	"errors"
	"fmt"
)

// ErrMixedKind is returned by Mixed extractors when the cell holds a
// different kind than the one requested.
var ErrMixedKind = errors.New("value: mixed holds a different kind")

// Mixed is a tagged union over every supported value kind, plus the
// "no value" case. The zero Mixed holds no value.
//
// A Mixed may carry a subtable reference; the reference is opaque at this
// layer (the table engine stores a *table.Table and checks it on write).
type Mixed struct {
	kind Kind
	b    bool
	i    int64 // int and date payloads
	f    float32
	d    float64
	s    string // string and binary payloads
	t    any    // subtable reference
}

func MixedNone() Mixed { return Mixed{} }

func MixedBool(v bool) Mixed { return Mixed{kind: KindBool, b: v} }

func MixedInt(v int64) Mixed { return Mixed{kind: KindInt, i: v} }

func MixedFloat(v float32) Mixed { return Mixed{kind: KindFloat, f: v} }

func MixedDouble(v float64) Mixed { return Mixed{kind: KindDouble, d: v} }

func MixedString(v string) Mixed { return Mixed{kind: KindString, s: v} }

func MixedBinary(v Binary) Mixed { return Mixed{kind: KindBinary, s: v.data} }

func MixedDate(v Date) Mixed { return Mixed{kind: KindDate, i: int64(v)} }

// MixedTable wraps a subtable reference. The table engine validates the
// concrete type on write.
func MixedTable(ref any) Mixed { return Mixed{kind: KindTable, t: ref} }

// Kind returns the runtime tag of the cell, KindNone if it holds no value.
func (m Mixed) Kind() Kind { return m.kind }

func (m Mixed) IsNone() bool { return m.kind == KindNone }

func (m Mixed) check(want Kind) error {
	if m.kind != want {
		return fmt.Errorf("%w: have %s, want %s", ErrMixedKind, m.kind, want)
	}
	return nil
}

func (m Mixed) AsBool() (bool, error) {
	if err := m.check(KindBool); err != nil {
		return false, err
	}
	return m.b, nil
}

func (m Mixed) AsInt() (int64, error) {
	if err := m.check(KindInt); err != nil {
		return 0, err
	}
	return m.i, nil
}

func (m Mixed) AsFloat() (float32, error) {
	if err := m.check(KindFloat); err != nil {
		return 0, err
	}
	return m.f, nil
}

func (m Mixed) AsDouble() (float64, error) {
	if err := m.check(KindDouble); err != nil {
		return 0, err
	}
	return m.d, nil
}

func (m Mixed) AsString() (string, error) {
	if err := m.check(KindString); err != nil {
		return "", err
	}
	return m.s, nil
}

func (m Mixed) AsBinary() (Binary, error) {
	if err := m.check(KindBinary); err != nil {
		return Binary{}, err
	}
	return Binary{data: m.s}, nil
}

func (m Mixed) AsDate() (Date, error) {
	if err := m.check(KindDate); err != nil {
		return 0, err
	}
	return Date(m.i), nil
}

func (m Mixed) AsTable() (any, error) {
	if err := m.check(KindTable); err != nil {
		return nil, err
	}
	return m.t, nil
}
