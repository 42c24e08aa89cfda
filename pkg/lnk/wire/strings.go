package wire

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultCodepage is the ANSI code page used when none is configured.
const DefaultCodepage = "windows-1252"

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Charset decodes the single-byte ("ANSI") strings of a shortcut, which
// are stored in the code page of the machine that wrote the file.
type Charset struct {
	name string
	ansi encoding.Encoding
}

// NewCharset looks up an ANSI code page by its WHATWG/IANA name
// (for example "windows-1252", "windows-1251" or "shift_jis").
func NewCharset(name string) (*Charset, error) {
	if name == "" || name == DefaultCodepage {
		return &Charset{name: DefaultCodepage, ansi: charmap.Windows1252}, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown code page %q: %w", name, err)
	}
	return &Charset{name: name, ansi: enc}, nil
}

// DefaultCharset returns the windows-1252 charset.
func DefaultCharset() *Charset {
	return &Charset{name: DefaultCodepage, ansi: charmap.Windows1252}
}

// Name returns the code page name.
func (cs *Charset) Name() string {
	return cs.name
}

// DecodeANSI decodes b with the configured code page. Undecodable input
// is returned as-is.
func (cs *Charset) DecodeANSI(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out, err := cs.ansi.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// DecodeText decodes text that may be UTF-8 or ANSI: valid UTF-8 is kept,
// anything else goes through the code page.
func (cs *Charset) DecodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return cs.DecodeANSI(b)
}

// DecodeUTF16 decodes UTF-16LE bytes. Unpaired surrogates become U+FFFD.
func DecodeUTF16(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

// Decode decodes b as UTF-16LE or ANSI.
func (cs *Charset) Decode(b []byte, isUnicode bool) string {
	if isUnicode {
		return DecodeUTF16(b)
	}
	return cs.DecodeANSI(b)
}

// ReadCountedString reads a u16 character count followed by that many
// characters (two bytes each when isUnicode).
func (c *Cursor) ReadCountedString(cs *Charset, isUnicode bool) (string, error) {
	count, err := c.ReadU16()
	if err != nil {
		return "", err
	}
	n := int(count)
	if isUnicode {
		n *= 2
	}
	b, err := c.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return cs.Decode(b, isUnicode), nil
}

// ReadNullTerminatedString reads up to and including a zero code unit
// (one byte for ANSI, two bytes for UTF-16LE).
func (c *Cursor) ReadNullTerminatedString(cs *Charset, isUnicode bool) (string, error) {
	rest := c.Remaining()
	end := terminator(rest, isUnicode)
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated string at offset %d", ErrTruncatedInput, c.pos)
	}
	unit := 1
	if isUnicode {
		unit = 2
	}
	b, err := c.ReadBytes(end + unit)
	if err != nil {
		return "", err
	}
	return cs.Decode(b[:end], isUnicode), nil
}

// FixedString decodes a fixed-width character buffer, stopping at the
// first zero code unit or at the end of the buffer.
func (cs *Charset) FixedString(b []byte, isUnicode bool) string {
	if end := terminator(b, isUnicode); end >= 0 {
		b = b[:end]
	} else if isUnicode && len(b)%2 == 1 {
		b = b[:len(b)-1]
	}
	return cs.Decode(b, isUnicode)
}

// terminator returns the byte index of the first zero code unit, or -1.
func terminator(b []byte, isUnicode bool) int {
	if !isUnicode {
		return bytes.IndexByte(b, 0)
	}
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i
		}
	}
	return -1
}
