// Package propstore decodes serialized property stores (MS-PROPSTORE),
// as embedded in the PropertyStoreDataBlock of a shell link.
package propstore

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// StorageVersion is the "1SPS" marker of a SerializedPropertyStorage.
const StorageVersion = 0x53505331

// StringNameFormat is the format ID of storages whose properties are
// named by strings rather than integer IDs.
var StringNameFormat = uuid.MustParse("D5CDD505-2E9C-101B-9397-08002B2CF9AE")

var (
	// ErrBadVersion is returned when a storage lacks the "1SPS" marker.
	ErrBadVersion = errors.New("invalid property storage version")
	// ErrBadSize is returned when a size field is smaller than its own header.
	ErrBadSize = errors.New("invalid property storage size")
)

// Property is one serialized property value, keyed by Name in
// string-named storages and by ID otherwise.
type Property struct {
	ValueSize uint32 `json:"value_size"`
	Name      string `json:"name,omitempty"`
	ID        uint32 `json:"id,omitempty"`
	Value     Value  `json:"value"`
}

// Storage is a SerializedPropertyStorage.
type Storage struct {
	Size       uint32      `json:"size"`
	Version    uint32      `json:"version"`
	FormatID   uuid.UUID   `json:"format_id"`
	Properties []*Property `json:"properties"`
}

// IsStringNamed reports whether properties are keyed by name.
func (s *Storage) IsStringNamed() bool {
	return s.FormatID == StringNameFormat
}

// Lookup returns the property with the given name.
func (s *Storage) Lookup(name string) (*Property, bool) {
	for _, p := range s.Properties {
		if s.IsStringNamed() && p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// LookupID returns the property with the given integer ID.
func (s *Storage) LookupID(id uint32) (*Property, bool) {
	for _, p := range s.Properties {
		if !s.IsStringNamed() && p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// ReadStore reads consecutive storages until a zero StorageSize or the
// end of input. Storages decoded before a failure are returned with it.
func ReadStore(c *wire.Cursor, cs *wire.Charset) ([]*Storage, error) {
	var stores []*Storage
	for c.Len() >= 4 {
		size, err := c.PeekU32()
		if err != nil {
			return stores, fmt.Errorf("failed to read StorageSize: %w", err)
		}
		if size == 0 {
			if err := c.Skip(4); err != nil {
				return stores, err
			}
			break
		}
		s, err := ReadStorage(c, cs)
		if s != nil {
			stores = append(stores, s)
		}
		if err != nil {
			return stores, err
		}
	}
	return stores, nil
}

// ReadStorage reads one SerializedPropertyStorage. The cursor always
// advances past StorageSize bytes once the size has been read, and a
// storage holding the properties read before a failure is returned with
// the error.
func ReadStorage(c *wire.Cursor, cs *wire.Charset) (*Storage, error) {
	size, err := c.PeekU32()
	if err != nil {
		return nil, fmt.Errorf("failed to read StorageSize: %w", err)
	}
	if size < 24 {
		return nil, fmt.Errorf("%w: StorageSize %d", ErrBadSize, size)
	}
	body, err := c.Sub(int(size))
	if err != nil {
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	f := wire.NewFields(body, "SerializedPropertyStorage")
	s := &Storage{Size: f.U32("StorageSize"), Version: f.U32("Version"), FormatID: f.GUID("FormatID")}
	if err := f.Err(); err != nil {
		return nil, err
	}
	if s.Version != StorageVersion {
		return nil, fmt.Errorf("%w: 0x%08x", ErrBadVersion, s.Version)
	}

	for body.Len() >= 4 {
		valueSize, err := body.PeekU32()
		if err != nil {
			return s, fmt.Errorf("failed to read ValueSize: %w", err)
		}
		if valueSize == 0 {
			break
		}
		p, err := readProperty(body, s.IsStringNamed(), cs)
		if err != nil {
			return s, fmt.Errorf("property %d of storage %s: %w", len(s.Properties), s.FormatID, err)
		}
		s.Properties = append(s.Properties, p)
	}
	return s, nil
}

func readProperty(c *wire.Cursor, stringNamed bool, cs *wire.Charset) (*Property, error) {
	p := &Property{}
	var err error
	if p.ValueSize, err = c.PeekU32(); err != nil {
		return nil, fmt.Errorf("failed to read ValueSize: %w", err)
	}
	if p.ValueSize < 9 {
		return nil, fmt.Errorf("%w: ValueSize %d", ErrBadSize, p.ValueSize)
	}
	body, err := c.Sub(int(p.ValueSize))
	if err != nil {
		return nil, err
	}
	if err := body.Skip(4); err != nil {
		return nil, err
	}

	if stringNamed {
		nameSize, err := body.ReadU32()
		if err != nil {
			return nil, err
		}
		if err := body.Skip(1); err != nil {
			return nil, err
		}
		name, err := body.ReadBytes(int(nameSize))
		if err != nil {
			return nil, fmt.Errorf("failed to read property name: %w", err)
		}
		p.Name = cs.FixedString(name, true)
	} else {
		if p.ID, err = body.ReadU32(); err != nil {
			return nil, err
		}
		if err := body.Skip(1); err != nil {
			return nil, err
		}
	}

	if p.Value, err = ReadTypedValue(body, cs); err != nil {
		return nil, err
	}
	return p, nil
}
