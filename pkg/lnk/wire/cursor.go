// Package wire implements the low-level readers shared by the shortcut
// decoders: a bounds-checked forward cursor, little-endian primitives,
// GUIDs, FILETIMEs and ANSI/UTF-16 string fields.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrTruncatedInput is returned when a read needs more bytes than remain.
var ErrTruncatedInput = errors.New("truncated input")

// Cursor reads sequentially from an immutable byte buffer.
// The position only moves forward; every read is bounds-checked.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// At creates a cursor over data starting at off. It is used for the
// offset-addressed substructures of LinkInfo, whose offsets are relative
// to the start of the enclosing structure.
func At(data []byte, off uint32) (*Cursor, error) {
	if uint64(off) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: offset 0x%x beyond structure of %d bytes", ErrTruncatedInput, off, len(data))
	}
	return &Cursor{data: data[off:]}, nil
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	return len(c.data) - c.pos
}

// Remaining returns the unread bytes without consuming them.
func (c *Cursor) Remaining() []byte {
	return c.data[c.pos:]
}

func (c *Cursor) need(n int) error {
	if n < 0 || n > c.Len() {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedInput, n, c.pos, c.Len())
	}
	return nil
}

// ReadBytes consumes n bytes. The returned slice aliases the input buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip consumes n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	_, err := c.ReadBytes(n)
	return err
}

// Sub consumes n bytes and returns a cursor restricted to them.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return NewCursor(b), nil
}

// PeekU32 decodes the next little-endian uint32 without consuming it.
func (c *Cursor) PeekU32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(c.data[c.pos:]), nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads a little-endian uint64.
func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadI8 reads a signed byte.
func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

// ReadI16 reads a little-endian int16.
func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

// ReadI32 reads a little-endian int32.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadI64 reads a little-endian int64.
func (c *Cursor) ReadI64() (int64, error) {
	v, err := c.ReadU64()
	return int64(v), err
}

// ReadF32 reads an IEEE-754 single precision float.
func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	return math.Float32frombits(v), err
}

// ReadF64 reads an IEEE-754 double precision float.
func (c *Cursor) ReadF64() (float64, error) {
	v, err := c.ReadU64()
	return math.Float64frombits(v), err
}
