// Package lnktest builds shell link fixtures byte by byte for tests.
package lnktest

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"

	"github.com/google/uuid"
)

// LinkCLSID in its binary wire layout.
var LinkCLSID = GUID(uuid.MustParse("00021401-0000-0000-C000-000000000046"))

// Writer is a little-endian byte builder.
type Writer struct {
	bytes.Buffer
}

func (w *Writer) U8(v uint8) *Writer   { w.WriteByte(v); return w }
func (w *Writer) U16(v uint16) *Writer { _ = binary.Write(&w.Buffer, binary.LittleEndian, v); return w }
func (w *Writer) U32(v uint32) *Writer { _ = binary.Write(&w.Buffer, binary.LittleEndian, v); return w }
func (w *Writer) U64(v uint64) *Writer { _ = binary.Write(&w.Buffer, binary.LittleEndian, v); return w }
func (w *Writer) Raw(b []byte) *Writer { w.Write(b); return w }

// Zeros appends n zero bytes.
func (w *Writer) Zeros(n int) *Writer {
	w.Write(make([]byte, n))
	return w
}

// UTF16 encodes s as UTF-16LE without a terminator.
func UTF16(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 2*len(units))
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[2*i:], u)
	}
	return out
}

// UTF16Z encodes s as NUL-terminated UTF-16LE.
func UTF16Z(s string) []byte {
	return append(UTF16(s), 0, 0)
}

// ANSIZ returns s followed by a NUL byte.
func ANSIZ(s string) []byte {
	return append([]byte(s), 0)
}

// Fixed pads or cuts b to exactly n bytes.
func Fixed(b []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, b)
	return out
}

// GUID returns u in the mixed-endian binary GUID layout.
func GUID(u uuid.UUID) []byte {
	b := make([]byte, 16)
	b[0], b[1], b[2], b[3] = u[3], u[2], u[1], u[0]
	b[4], b[5] = u[5], u[4]
	b[6], b[7] = u[7], u[6]
	copy(b[8:], u[8:])
	return b
}

// Counted encodes a StringData string: a u16 character count and the
// characters, UTF-16LE when unicode is set.
func Counted(s string, unicode bool) []byte {
	var w Writer
	if unicode {
		b := UTF16(s)
		w.U16(uint16(len(b) / 2)).Raw(b)
	} else {
		w.U16(uint16(len(s))).Raw([]byte(s))
	}
	return w.Bytes()
}

// Header describes a ShellLinkHeader fixture.
type Header struct {
	Size           uint32
	CLSID          []byte
	LinkFlags      uint32
	FileAttributes uint32
	CreationTime   uint64
	AccessTime     uint64
	WriteTime      uint64
	FileSize       uint32
	IconIndex      int32
	ShowCommand    uint32
	HotKey         uint16
}

// Bytes encodes the header. Zero Size and nil CLSID take valid values.
func (h Header) Bytes() []byte {
	if h.Size == 0 {
		h.Size = 0x4C
	}
	if h.CLSID == nil {
		h.CLSID = LinkCLSID
	}
	var w Writer
	w.U32(h.Size).Raw(h.CLSID).U32(h.LinkFlags).U32(h.FileAttributes)
	w.U64(h.CreationTime).U64(h.AccessTime).U64(h.WriteTime)
	w.U32(h.FileSize).U32(uint32(h.IconIndex)).U32(h.ShowCommand).U16(h.HotKey)
	w.Zeros(10)
	return w.Bytes()
}

// IDList encodes a LinkTargetIDList holding items.
func IDList(items ...[]byte) []byte {
	var body Writer
	for _, it := range items {
		body.U16(uint16(len(it) + 2)).Raw(it)
	}
	body.U16(0)
	var w Writer
	w.U16(uint16(body.Len())).Raw(body.Bytes())
	return w.Bytes()
}

// VolumeID encodes a VolumeID with an ANSI label.
func VolumeID(driveType, serial uint32, label string) []byte {
	l := ANSIZ(label)
	var w Writer
	w.U32(uint32(0x10 + len(l))).U32(driveType).U32(serial).U32(0x10).Raw(l)
	return w.Bytes()
}

// NetworkLink encodes a CommonNetworkRelativeLink. Unicode names are
// emitted when unicode is set.
func NetworkLink(netName, device string, provider uint32, unicode bool) []byte {
	headerSize := uint32(0x14)
	if unicode {
		headerSize = 0x1C
	}
	var body Writer
	off := func() uint32 { return headerSize + uint32(body.Len()) }
	netOff := off()
	body.Raw(ANSIZ(netName))
	var devOff uint32
	flags := uint32(0x2)
	if device != "" {
		flags |= 0x1
		devOff = off()
		body.Raw(ANSIZ(device))
	}
	var netUniOff, devUniOff uint32
	if unicode {
		netUniOff = off()
		body.Raw(UTF16Z(netName))
		if device != "" {
			devUniOff = off()
			body.Raw(UTF16Z(device))
		}
	}
	var w Writer
	w.U32(headerSize + uint32(body.Len())).U32(flags).U32(netOff).U32(devOff).U32(provider)
	if unicode {
		w.U32(netUniOff).U32(devUniOff)
	}
	w.Raw(body.Bytes())
	return w.Bytes()
}

// LinkInfo describes a LinkInfo fixture. Offsets are computed; the
// Unicode fields need UnicodeHeader.
type LinkInfo struct {
	UnicodeHeader bool
	Volume        []byte
	LocalANSI     string
	LocalUnicode  string
	Network       []byte
	SuffixANSI    string
	SuffixUnicode string
}

// Bytes encodes the LinkInfo.
func (li LinkInfo) Bytes() []byte {
	headerSize := uint32(0x1C)
	if li.UnicodeHeader {
		headerSize = 0x24
	}
	var body Writer
	off := func() uint32 { return headerSize + uint32(body.Len()) }

	var flags, volOff, localOff, netOff, suffixOff, localUniOff, suffixUniOff uint32
	if li.Volume != nil {
		flags |= 0x1
		volOff = off()
		body.Raw(li.Volume)
		localOff = off()
		body.Raw(ANSIZ(li.LocalANSI))
	}
	if li.Network != nil {
		flags |= 0x2
		netOff = off()
		body.Raw(li.Network)
	}
	suffixOff = off()
	body.Raw(ANSIZ(li.SuffixANSI))
	if li.UnicodeHeader && li.LocalUnicode != "" {
		localUniOff = off()
		body.Raw(UTF16Z(li.LocalUnicode))
	}
	if li.UnicodeHeader && li.SuffixUnicode != "" {
		suffixUniOff = off()
		body.Raw(UTF16Z(li.SuffixUnicode))
	}

	var w Writer
	w.U32(headerSize + uint32(body.Len())).U32(headerSize).U32(flags)
	w.U32(volOff).U32(localOff).U32(netOff).U32(suffixOff)
	if li.UnicodeHeader {
		w.U32(localUniOff).U32(suffixUniOff)
	}
	w.Raw(body.Bytes())
	return w.Bytes()
}

// Block encodes an extra data block with the given signature and body.
func Block(signature uint32, body []byte) []byte {
	var w Writer
	w.U32(uint32(8 + len(body))).U32(signature).Raw(body)
	return w.Bytes()
}

// Terminal is the extra data terminal block.
func Terminal() []byte {
	return []byte{0, 0, 0, 0}
}

// Concat joins byte slices.
func Concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// TypedValue encodes a TypedPropertyValue.
func TypedValue(vt uint16, payload []byte) []byte {
	var w Writer
	w.U16(vt).U16(0).Raw(payload)
	return w.Bytes()
}

// LPWSTR encodes a VT_LPWSTR value.
func LPWSTR(s string) []byte {
	b := UTF16Z(s)
	var w Writer
	w.U32(uint32(len(b) / 2)).Raw(b)
	for w.Len()%4 != 0 {
		w.U8(0)
	}
	return TypedValue(0x001F, w.Bytes())
}

// StringProperty encodes a string-named serialized property value.
func StringProperty(name string, value []byte) []byte {
	n := UTF16Z(name)
	var w Writer
	w.U32(uint32(9 + len(n) + len(value))).U32(uint32(len(n))).U8(0).Raw(n).Raw(value)
	return w.Bytes()
}

// IntProperty encodes an integer-named serialized property value.
func IntProperty(id uint32, value []byte) []byte {
	var w Writer
	w.U32(uint32(9 + len(value))).U32(id).U8(0).Raw(value)
	return w.Bytes()
}

// Storage encodes a SerializedPropertyStorage with its terminating
// zero-size value.
func Storage(format uuid.UUID, props ...[]byte) []byte {
	body := Concat(props...)
	var w Writer
	w.U32(uint32(24 + len(body) + 4)).U32(0x53505331).Raw(GUID(format)).Raw(body).U32(0)
	return w.Bytes()
}
