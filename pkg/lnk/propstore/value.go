package propstore

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// UnsupportedTypeError reports a VarType whose payload is kept as raw bytes.
type UnsupportedTypeError struct {
	Type VarType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported property type %s", e.Type)
}

// Value is a decoded TypedPropertyValue. Data holds a Go value matching
// Type: nil for VT_EMPTY and VT_NULL, int16/int32/int64 and their
// unsigned forms for integers, float32/float64 for reals and VT_CY,
// time.Time for VT_DATE and VT_FILETIME, string, bool, []byte for
// VT_BLOB and uuid.UUID for VT_CLSID. A VT_DATE outside the range of
// OLE Automation dates keeps its float64 day count.
type Value struct {
	Type        VarType `json:"type"`
	Data        any     `json:"data"`
	Unsupported bool    `json:"unsupported,omitempty"`
	Raw         []byte  `json:"raw,omitempty"`
}

// Err returns an *UnsupportedTypeError for values that were not decoded.
func (v Value) Err() error {
	if v.Unsupported {
		return &UnsupportedTypeError{Type: v.Type}
	}
	return nil
}

// MarshalJSON encodes NaN and infinite reals as the strings "NaN",
// "+Inf" and "-Inf", which JSON numbers cannot hold.
func (v Value) MarshalJSON() ([]byte, error) {
	type value Value
	out := value(v)
	switch d := v.Data.(type) {
	case float32:
		if f := float64(d); math.IsNaN(f) || math.IsInf(f, 0) {
			out.Data = strconv.FormatFloat(f, 'g', -1, 32)
		}
	case float64:
		if math.IsNaN(d) || math.IsInf(d, 0) {
			out.Data = strconv.FormatFloat(d, 'g', -1, 64)
		}
	}
	return json.Marshal(out)
}

func (v Value) String() string {
	if v.Unsupported {
		return fmt.Sprintf("<%s: %d bytes>", v.Type, len(v.Raw))
	}
	if v.Data == nil {
		return ""
	}
	return fmt.Sprint(v.Data)
}

// ReadTypedValue decodes a TypedPropertyValue: a u16 VarType, two bytes
// of padding and the type-specific payload. Types without a decoder are
// returned as unsupported values holding the remaining bytes.
func ReadTypedValue(c *wire.Cursor, cs *wire.Charset) (Value, error) {
	t, err := c.ReadU16()
	if err != nil {
		return Value{}, fmt.Errorf("failed to read property type: %w", err)
	}
	if err := c.Skip(2); err != nil {
		return Value{}, fmt.Errorf("failed to read property padding: %w", err)
	}

	v := Value{Type: VarType(t)}
	switch v.Type {
	case VTEmpty, VTNull:
	case VTI2:
		v.Data, err = c.ReadI16()
	case VTI4, VTInt:
		v.Data, err = c.ReadI32()
	case VTR4:
		v.Data, err = c.ReadF32()
	case VTR8:
		v.Data, err = c.ReadF64()
	case VTCY:
		var cy int64
		if cy, err = c.ReadI64(); err == nil {
			v.Data = float64(cy) / 10000
		}
	case VTDate:
		var days float64
		if days, err = c.ReadF64(); err == nil {
			if t, ok := wire.OLEDateToTime(days); ok {
				v.Data = t
			} else {
				v.Data = days
			}
		}
	case VTBSTR, VTLPSTR:
		var b []byte
		if b, err = readSized(c, 1); err == nil {
			v.Data = cs.FixedString(b, false)
		}
	case VTLPWSTR:
		var b []byte
		if b, err = readSized(c, 2); err == nil {
			v.Data = cs.FixedString(b, true)
		}
	case VTError, VTUI4, VTUInt:
		v.Data, err = c.ReadU32()
	case VTBool:
		var b uint16
		if b, err = c.ReadU16(); err == nil {
			v.Data = b != 0
		}
	case VTI1:
		v.Data, err = c.ReadI8()
	case VTUI1:
		v.Data, err = c.ReadU8()
	case VTUI2:
		v.Data, err = c.ReadU16()
	case VTI8:
		v.Data, err = c.ReadI64()
	case VTUI8:
		v.Data, err = c.ReadU64()
	case VTFiletime:
		v.Data, err = c.ReadFiletime()
	case VTBlob:
		var b []byte
		if b, err = readSized(c, 1); err == nil {
			v.Data = append([]byte(nil), b...)
		}
	case VTCLSID:
		v.Data, err = c.ReadGUID()
	default:
		// VT_DECIMAL, vectors, arrays and anything newer.
		v.Unsupported = true
		v.Raw = append([]byte(nil), c.Remaining()...)
		err = c.Skip(c.Len())
	}
	if err != nil {
		return Value{Type: v.Type}, fmt.Errorf("failed to read %s value: %w", v.Type, err)
	}
	return v, nil
}

// readSized reads a u32 element count followed by count*unit bytes.
func readSized(c *wire.Cursor, unit int) ([]byte, error) {
	n, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if uint64(n)*uint64(unit) > uint64(c.Len()) {
		return nil, fmt.Errorf("%w: %d elements of %d bytes, %d remain", wire.ErrTruncatedInput, n, unit, c.Len())
	}
	return c.ReadBytes(int(n) * unit)
}
