// Package shllink decodes the core structures of a Shell Link (.lnk)
// file: the ShellLinkHeader, LinkTargetIDList, LinkInfo and StringData.
package shllink

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// HeaderSize is the fixed size of the ShellLinkHeader.
const HeaderSize = 0x0000004C

// LinkCLSID is the class identifier every shell link must carry.
var LinkCLSID = uuid.MustParse("00021401-0000-0000-C000-000000000046")

var (
	// ErrBadMagicSize is returned when the HeaderSize field is not 0x4C.
	ErrBadMagicSize = errors.New("invalid shell link header size")
	// ErrBadClassID is returned when the LinkCLSID is not the shell link class.
	ErrBadClassID = errors.New("invalid shell link class identifier")
)

// ShowCommand is the window state requested for the launched target.
type ShowCommand uint32

// ShowCommand values.
const (
	SWShowNormal      ShowCommand = 0x00000001
	SWShowMaximized   ShowCommand = 0x00000003
	SWShowMinNoActive ShowCommand = 0x00000007
)

// Normalized maps every undefined value to SWShowNormal.
func (s ShowCommand) Normalized() ShowCommand {
	switch s {
	case SWShowMaximized, SWShowMinNoActive:
		return s
	}
	return SWShowNormal
}

func (s ShowCommand) String() string {
	switch s.Normalized() {
	case SWShowMaximized:
		return "SW_SHOWMAXIMIZED"
	case SWShowMinNoActive:
		return "SW_SHOWMINNOACTIVE"
	}
	return "SW_SHOWNORMAL"
}

// MarshalText encodes the command by name.
func (s ShowCommand) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// HotKey modifier bits (high byte of HotKeyFlags).
const (
	HotKeyShift   = 0x01
	HotKeyControl = 0x02
	HotKeyAlt     = 0x04
)

// HotKey is the keyboard shortcut used to activate the link.
type HotKey struct {
	Key       uint8 `json:"key"`
	Modifiers uint8 `json:"modifiers"`
}

// IsZero reports whether no hot key is assigned.
func (h HotKey) IsZero() bool {
	return h.Key == 0
}

// String renders the hot key as e.g. "Ctrl+Alt+F5".
func (h HotKey) String() string {
	if h.IsZero() {
		return ""
	}
	var parts []string
	if h.Modifiers&HotKeyControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if h.Modifiers&HotKeyShift != 0 {
		parts = append(parts, "Shift")
	}
	if h.Modifiers&HotKeyAlt != 0 {
		parts = append(parts, "Alt")
	}
	return strings.Join(append(parts, keyName(h.Key)), "+")
}

func keyName(k uint8) string {
	switch {
	case k >= 0x30 && k <= 0x39, k >= 0x41 && k <= 0x5A:
		return string(rune(k))
	case k >= 0x70 && k <= 0x87:
		return fmt.Sprintf("F%d", k-0x6F)
	case k == 0x90:
		return "NumLock"
	case k == 0x91:
		return "ScrollLock"
	}
	return fmt.Sprintf("0x%02X", k)
}

// Header is the ShellLinkHeader.
type Header struct {
	HeaderSize     uint32         `json:"header_size"`
	LinkCLSID      uuid.UUID      `json:"link_clsid"`
	LinkFlags      LinkFlags      `json:"link_flags"`
	FileAttributes FileAttributes `json:"file_attributes"`
	CreationTime   time.Time      `json:"creation_time"`
	AccessTime     time.Time      `json:"access_time"`
	WriteTime      time.Time      `json:"write_time"`
	FileSize       uint32         `json:"file_size"` // Low 32 bits of the target size, informational
	IconIndex      int32          `json:"icon_index"`
	ShowCommand    ShowCommand    `json:"show_command"`
	HotKey         HotKey         `json:"hot_key"`
}

// IsUnicode reports whether string fields are stored as UTF-16LE.
func (h *Header) IsUnicode() bool {
	return h.LinkFlags.Has(IsUnicode)
}

// ReadHeader reads and validates the 76-byte ShellLinkHeader.
func ReadHeader(c *wire.Cursor) (*Header, error) {
	var h Header
	var err error

	if h.HeaderSize, err = c.ReadU32(); err != nil {
		return nil, fmt.Errorf("failed to read HeaderSize: %w", err)
	}
	if h.HeaderSize != HeaderSize {
		return nil, fmt.Errorf("%w: 0x%x", ErrBadMagicSize, h.HeaderSize)
	}

	// The size is valid, so the remaining 72 bytes must all be there.
	body, err := c.Sub(HeaderSize - 4)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	f := wire.NewFields(body, "ShellLinkHeader")
	h.LinkCLSID = f.GUID("LinkCLSID")
	if err := f.Err(); err != nil {
		return nil, err
	}
	if h.LinkCLSID != LinkCLSID {
		return nil, fmt.Errorf("%w: %s", ErrBadClassID, h.LinkCLSID)
	}

	h.LinkFlags = LinkFlags(f.U32("LinkFlags"))
	h.FileAttributes = FileAttributes(f.U32("FileAttributes"))
	h.CreationTime = f.Filetime("CreationTime")
	h.AccessTime = f.Filetime("AccessTime")
	h.WriteTime = f.Filetime("WriteTime")
	h.FileSize = f.U32("FileSize")
	h.IconIndex = f.I32("IconIndex")
	h.ShowCommand = ShowCommand(f.U32("ShowCommand"))
	h.HotKey.Key = f.U8("HotKey")
	h.HotKey.Modifiers = f.U8("HotKey")
	f.Skip("Reserved", 10)
	if err := f.Err(); err != nil {
		return nil, err
	}

	return &h, nil
}
