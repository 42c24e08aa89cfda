package wire

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fields reads a run of fixed-layout fields from a cursor. The first
// failed read is kept and every later read returns a zero value, so a
// structure is decoded field by field and checked once with Err.
type Fields struct {
	c    *Cursor
	name string
	err  error
}

// NewFields reads the fields of the structure called name from c.
func NewFields(c *Cursor, name string) *Fields {
	return &Fields{c: c, name: name}
}

// Err returns the first read failure, naming the structure and field.
func (f *Fields) Err() error {
	return f.err
}

func (f *Fields) fail(field string, err error) {
	if f.err == nil && err != nil {
		f.err = fmt.Errorf("failed to read %s.%s: %w", f.name, field, err)
	}
}

// U8 reads a uint8 field.
func (f *Fields) U8(field string) uint8 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadU8()
	f.fail(field, err)
	return v
}

// U16 reads a little-endian uint16 field.
func (f *Fields) U16(field string) uint16 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadU16()
	f.fail(field, err)
	return v
}

// I16 reads a little-endian int16 field.
func (f *Fields) I16(field string) int16 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadI16()
	f.fail(field, err)
	return v
}

// U32 reads a little-endian uint32 field.
func (f *Fields) U32(field string) uint32 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadU32()
	f.fail(field, err)
	return v
}

// I32 reads a little-endian int32 field.
func (f *Fields) I32(field string) int32 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadI32()
	f.fail(field, err)
	return v
}

// Bool32 reads a uint32 field holding a boolean.
func (f *Fields) Bool32(field string) bool {
	return f.U32(field) != 0
}

// GUID reads a mixed-endian GUID field.
func (f *Fields) GUID(field string) uuid.UUID {
	if f.err != nil {
		return uuid.Nil
	}
	v, err := f.c.ReadGUID()
	f.fail(field, err)
	return v
}

// Filetime reads a FILETIME field.
func (f *Fields) Filetime(field string) time.Time {
	if f.err != nil {
		return time.Time{}
	}
	v, err := f.c.ReadFiletime()
	f.fail(field, err)
	return v
}

// Bytes reads an n-byte field. The slice aliases the input buffer.
func (f *Fields) Bytes(field string, n int) []byte {
	if f.err != nil {
		return nil
	}
	v, err := f.c.ReadBytes(n)
	f.fail(field, err)
	return v
}

// Skip consumes n reserved bytes.
func (f *Fields) Skip(field string, n int) {
	if f.err != nil {
		return
	}
	f.fail(field, f.c.Skip(n))
}
