// Package record implements the table snapshot codec: a whole table
// (schema plus column data) serialized to a flat byte buffer, which the
// storage layer then chunks into pages.
package record

import (
	"errors"
	"math"

	"github.com/rowbase/rowbase/internal/bx"
	"github.com/rowbase/rowbase/internal/table"
	"github.com/rowbase/rowbase/internal/value"
)

// Snapshot layout:
//
//	u32 magic | u8 version | schema | u32 rowCount | column blocks...
//
// schema: u16 colCount, then per column u8 kind + u16 nameLen + name,
// recursing for KindTable columns. Fixed-width kinds store rowCount cells
// back to back; varlen kinds store u32 length + payload per cell; subtable
// cells store u32 length + a full nested snapshot (length 0 = empty);
// mixed cells store u8 tag + the tagged payload.
const (
	snapshotMagic   = uint32(0x31534252) // "RBS1" little-endian
	snapshotVersion = uint8(1)
)

var (
	ErrBadMagic   = errors.New("record: not a rowbase snapshot")
	ErrBadVersion = errors.New("record: unsupported snapshot version")
	ErrBadBuffer  = errors.New("record: buffer underflow")
	ErrBadKind    = errors.New("record: unknown value kind in snapshot")
)

// EncodeTable serializes t, nested subtables included.
func EncodeTable(t *table.Table) ([]byte, error) {
	out := bx.AppendU32(nil, snapshotMagic)
	out = append(out, snapshotVersion)
	out = appendSchema(out, t.Schema())
	return appendData(out, t)
}

func appendSchema(out []byte, s table.Schema) []byte {
	out = bx.AppendU16(out, uint16(s.NumCols()))
	for _, col := range s.Cols {
		out = append(out, byte(col.Kind))
		out = bx.AppendU16(out, uint16(len(col.Name)))
		out = append(out, col.Name...)
		if col.Kind == value.KindTable {
			out = appendSchema(out, *col.Sub)
		}
	}
	return out
}

func appendData(out []byte, t *table.Table) ([]byte, error) {
	rows := t.RowCount()
	out = bx.AppendU32(out, uint32(rows))
	var err error
	for col := 0; col < t.ColumnCount(); col++ {
		for row := 0; row < rows; row++ {
			out, err = appendCell(out, t, row, col)
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func appendCell(out []byte, t *table.Table, row, col int) ([]byte, error) {
	switch t.ColumnKind(col) {
	case value.KindBool:
		v, err := t.GetBool(row, col)
		if err != nil {
			return nil, err
		}
		if v {
			return append(out, 1), nil
		}
		return append(out, 0), nil

	case value.KindInt:
		v, err := t.GetInt(row, col)
		if err != nil {
			return nil, err
		}
		return bx.AppendU64(out, uint64(v)), nil

	case value.KindFloat:
		v, err := t.GetFloat(row, col)
		if err != nil {
			return nil, err
		}
		return bx.AppendU32(out, math.Float32bits(v)), nil

	case value.KindDouble:
		v, err := t.GetDouble(row, col)
		if err != nil {
			return nil, err
		}
		return bx.AppendU64(out, math.Float64bits(v)), nil

	case value.KindString:
		v, err := t.GetString(row, col)
		if err != nil {
			return nil, err
		}
		out = bx.AppendU32(out, uint32(len(v)))
		return append(out, v...), nil

	case value.KindBinary:
		v, err := t.GetBinary(row, col)
		if err != nil {
			return nil, err
		}
		b := v.Bytes()
		out = bx.AppendU32(out, uint32(len(b)))
		return append(out, b...), nil

	case value.KindDate:
		v, err := t.GetDate(row, col)
		if err != nil {
			return nil, err
		}
		return bx.AppendU64(out, uint64(v)), nil

	case value.KindTable:
		sub, err := t.GetSubtable(row, col)
		if err != nil {
			return nil, err
		}
		if sub.RowCount() == 0 {
			// Unmaterialized and materialized-but-empty collapse to the
			// same stored form.
			return bx.AppendU32(out, 0), nil
		}
		enc, err := EncodeTable(sub)
		if err != nil {
			return nil, err
		}
		out = bx.AppendU32(out, uint32(len(enc)))
		return append(out, enc...), nil

	case value.KindMixed:
		m, err := t.GetMixed(row, col)
		if err != nil {
			return nil, err
		}
		return appendMixed(out, m)

	default:
		return nil, ErrBadKind
	}
}

func appendMixed(out []byte, m value.Mixed) ([]byte, error) {
	out = append(out, byte(m.Kind()))
	switch m.Kind() {
	case value.KindNone:
		return out, nil
	case value.KindBool:
		v, _ := m.AsBool()
		if v {
			return append(out, 1), nil
		}
		return append(out, 0), nil
	case value.KindInt:
		v, _ := m.AsInt()
		return bx.AppendU64(out, uint64(v)), nil
	case value.KindFloat:
		v, _ := m.AsFloat()
		return bx.AppendU32(out, math.Float32bits(v)), nil
	case value.KindDouble:
		v, _ := m.AsDouble()
		return bx.AppendU64(out, math.Float64bits(v)), nil
	case value.KindString:
		v, _ := m.AsString()
		out = bx.AppendU32(out, uint32(len(v)))
		return append(out, v...), nil
	case value.KindBinary:
		v, _ := m.AsBinary()
		b := v.Bytes()
		out = bx.AppendU32(out, uint32(len(b)))
		return append(out, b...), nil
	case value.KindDate:
		v, _ := m.AsDate()
		return bx.AppendU64(out, uint64(v)), nil
	case value.KindTable:
		ref, _ := m.AsTable()
		sub, ok := ref.(*table.Table)
		if !ok {
			return nil, ErrBadKind
		}
		enc, err := EncodeTable(sub)
		if err != nil {
			return nil, err
		}
		out = bx.AppendU32(out, uint32(len(enc)))
		return append(out, enc...), nil
	default:
		return nil, ErrBadKind
	}
}

// DecodeTable rebuilds a table from a snapshot produced by EncodeTable.
func DecodeTable(buf []byte) (*table.Table, error) {
	r := &reader{buf: buf}
	magic, err := r.u32()
	if err != nil {
		return nil, err
	}
	if magic != snapshotMagic {
		return nil, ErrBadMagic
	}
	ver, err := r.u8()
	if err != nil {
		return nil, err
	}
	if ver != snapshotVersion {
		return nil, ErrBadVersion
	}
	schema, err := r.schema()
	if err != nil {
		return nil, err
	}
	t, err := table.New(schema)
	if err != nil {
		return nil, err
	}
	if err := r.data(t); err != nil {
		return nil, err
	}
	return t, nil
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.buf) {
		return nil, ErrBadBuffer
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return bx.U16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return bx.U32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return bx.U64(b), nil
}

func (r *reader) schema() (table.Schema, error) {
	nc, err := r.u16()
	if err != nil {
		return table.Schema{}, err
	}
	cols := make([]table.Column, nc)
	for i := range cols {
		k, err := r.u8()
		if err != nil {
			return table.Schema{}, err
		}
		kind := value.Kind(k)
		if !kind.ColumnKind() {
			return table.Schema{}, ErrBadKind
		}
		nameLen, err := r.u16()
		if err != nil {
			return table.Schema{}, err
		}
		name, err := r.take(int(nameLen))
		if err != nil {
			return table.Schema{}, err
		}
		cols[i] = table.Column{Name: string(name), Kind: kind}
		if kind == value.KindTable {
			sub, err := r.schema()
			if err != nil {
				return table.Schema{}, err
			}
			cols[i].Sub = &sub
		}
	}
	return table.Schema{Cols: cols}, nil
}

func (r *reader) data(t *table.Table) error {
	rows, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < rows; i++ {
		t.AddEmptyRow()
	}
	for col := 0; col < t.ColumnCount(); col++ {
		for row := 0; row < int(rows); row++ {
			if err := r.cell(t, row, col); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *reader) cell(t *table.Table, row, col int) error {
	switch t.ColumnKind(col) {
	case value.KindBool:
		b, err := r.u8()
		if err != nil {
			return err
		}
		return t.SetBool(row, col, b != 0)

	case value.KindInt:
		v, err := r.u64()
		if err != nil {
			return err
		}
		return t.SetInt(row, col, int64(v))

	case value.KindFloat:
		v, err := r.u32()
		if err != nil {
			return err
		}
		return t.SetFloat(row, col, math.Float32frombits(v))

	case value.KindDouble:
		v, err := r.u64()
		if err != nil {
			return err
		}
		return t.SetDouble(row, col, math.Float64frombits(v))

	case value.KindString:
		n, err := r.u32()
		if err != nil {
			return err
		}
		b, err := r.take(int(n))
		if err != nil {
			return err
		}
		return t.SetString(row, col, string(b))

	case value.KindBinary:
		n, err := r.u32()
		if err != nil {
			return err
		}
		b, err := r.take(int(n))
		if err != nil {
			return err
		}
		return t.SetBinaryBytes(row, col, b)

	case value.KindDate:
		v, err := r.u64()
		if err != nil {
			return err
		}
		return t.SetDate(row, col, value.Date(v))

	case value.KindTable:
		n, err := r.u32()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		enc, err := r.take(int(n))
		if err != nil {
			return err
		}
		sub, err := DecodeTable(enc)
		if err != nil {
			return err
		}
		return t.SetSubtable(row, col, sub)

	case value.KindMixed:
		m, err := r.mixed()
		if err != nil {
			return err
		}
		return t.SetMixed(row, col, m)

	default:
		return ErrBadKind
	}
}

func (r *reader) mixed() (value.Mixed, error) {
	tag, err := r.u8()
	if err != nil {
		return value.Mixed{}, err
	}
	switch value.Kind(tag) {
	case value.KindNone:
		return value.MixedNone(), nil
	case value.KindBool:
		b, err := r.u8()
		if err != nil {
			return value.Mixed{}, err
		}
		return value.MixedBool(b != 0), nil
	case value.KindInt:
		v, err := r.u64()
		if err != nil {
			return value.Mixed{}, err
		}
		return value.MixedInt(int64(v)), nil
	case value.KindFloat:
		v, err := r.u32()
		if err != nil {
			return value.Mixed{}, err
		}
		return value.MixedFloat(math.Float32frombits(v)), nil
	case value.KindDouble:
		v, err := r.u64()
		if err != nil {
			return value.Mixed{}, err
		}
		return value.MixedDouble(math.Float64frombits(v)), nil
	case value.KindString:
		n, err := r.u32()
		if err != nil {
			return value.Mixed{}, err
		}
		b, err := r.take(int(n))
		if err != nil {
			return value.Mixed{}, err
		}
		return value.MixedString(string(b)), nil
	case value.KindBinary:
		n, err := r.u32()
		if err != nil {
			return value.Mixed{}, err
		}
		b, err := r.take(int(n))
		if err != nil {
			return value.Mixed{}, err
		}
		return value.MixedBinary(value.NewBinary(b)), nil
	case value.KindDate:
		v, err := r.u64()
		if err != nil {
			return value.Mixed{}, err
		}
		return value.MixedDate(value.Date(v)), nil
	case value.KindTable:
		n, err := r.u32()
		if err != nil {
			return value.Mixed{}, err
		}
		enc, err := r.take(int(n))
		if err != nil {
			return value.Mixed{}, err
		}
		sub, err := DecodeTable(enc)
		if err != nil {
			return value.Mixed{}, err
		}
		return value.MixedTable(sub), nil
	default:
		return value.Mixed{}, ErrBadKind
	}
}
