// Package urlfile parses Internet Shortcut (.url) files.
package urlfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// Section is the header line that starts the shortcut entries.
const Section = "[internetshortcut]"

// ErrInvalidURLFile is returned when the input is not a usable Internet
// Shortcut.
var ErrInvalidURLFile = errors.New("invalid url file")

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
)

// Entry is one key=value line.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// File is a parsed Internet Shortcut. Keys are lower-cased and a later
// line overrides an earlier one with the same key.
type File struct {
	Entries []Entry `json:"entries"`
	values  map[string]string
}

// Get returns the value of key, matched case-insensitively.
func (f *File) Get(key string) (string, bool) {
	v, ok := f.values[strings.ToLower(key)]
	return v, ok
}

// URL returns the target URL.
func (f *File) URL() string {
	v, _ := f.Get("url")
	return v
}

// WorkingDirectory returns the working directory, or "".
func (f *File) WorkingDirectory() string {
	v, _ := f.Get("workingdirectory")
	return v
}

// IconFile returns the icon path, or "".
func (f *File) IconFile() string {
	v, _ := f.Get("iconfile")
	return v
}

// IconIndex returns the icon index when it is present and numeric.
func (f *File) IconIndex() (int, bool) {
	v, ok := f.Get("iconindex")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Map returns a copy of the key/value mapping.
func (f *File) Map() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Parse reads an Internet Shortcut from r.
func Parse(r io.Reader, cs *wire.Charset) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read url file: %w", err)
	}
	return ParseBytes(data, cs)
}

// ParseBytes parses an Internet Shortcut. Text after a UTF-8 or UTF-16LE
// byte order mark is decoded accordingly; otherwise valid UTF-8 is kept
// and anything else is decoded with the ANSI code page of cs.
//
// Every key=value line after the [InternetShortcut] header is collected,
// up to the end of input.
func ParseBytes(data []byte, cs *wire.Charset) (*File, error) {
	if cs == nil {
		cs = wire.DefaultCharset()
	}
	var text string
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		text = string(data[len(utf8BOM):])
	case bytes.HasPrefix(data, utf16LEBOM):
		text = wire.DecodeUTF16(data[len(utf16LEBOM):])
	default:
		text = cs.DecodeText(data)
	}

	f := &File{values: make(map[string]string)}
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	inSection := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !inSection {
			inSection = strings.EqualFold(line, Section)
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		f.Entries = append(f.Entries, Entry{Key: key, Value: value})
		f.values[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURLFile, err)
	}

	switch {
	case !inSection:
		return nil, fmt.Errorf("%w: no %s section", ErrInvalidURLFile, Section)
	case len(f.Entries) == 0:
		return nil, fmt.Errorf("%w: no entries", ErrInvalidURLFile)
	case strings.TrimSpace(f.URL()) == "":
		return nil, fmt.Errorf("%w: missing url", ErrInvalidURLFile)
	}
	return f, nil
}
