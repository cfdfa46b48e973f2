// Package bx wraps encoding/binary with short little-endian helpers for
// the snapshot codec and page framing.
package bx

import "encoding/binary"

var LE = binary.LittleEndian

func U16(b []byte) uint16 { return LE.Uint16(b) }
func U32(b []byte) uint32 { return LE.Uint32(b) }
func U64(b []byte) uint64 { return LE.Uint64(b) }

func PutU16(b []byte, v uint16) { LE.PutUint16(b, v) }
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }
func PutU64(b []byte, v uint64) { LE.PutUint64(b, v) }

// Append* grow dst by the encoded width.

func AppendU16(dst []byte, v uint16) []byte { return LE.AppendUint16(dst, v) }
func AppendU32(dst []byte, v uint32) []byte { return LE.AppendUint32(dst, v) }
func AppendU64(dst []byte, v uint64) []byte { return LE.AppendUint64(dst, v) }
