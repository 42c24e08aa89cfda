package extradata

import (
	"encoding/json"
	"strings"

	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// ConsoleColor is a console fill attribute bit set.
type ConsoleColor uint16

// ConsoleColor bits.
const (
	ForegroundBlue ConsoleColor = 1 << iota
	ForegroundGreen
	ForegroundRed
	ForegroundIntensity
	BackgroundBlue
	BackgroundGreen
	BackgroundRed
	BackgroundIntensity
)

var consoleColorNames = []string{
	"FOREGROUND_BLUE",
	"FOREGROUND_GREEN",
	"FOREGROUND_RED",
	"FOREGROUND_INTENSITY",
	"BACKGROUND_BLUE",
	"BACKGROUND_GREEN",
	"BACKGROUND_RED",
	"BACKGROUND_INTENSITY",
}

// Names returns the names of the set bits.
func (c ConsoleColor) Names() []string {
	var out []string
	for i, name := range consoleColorNames {
		if c&(1<<uint(i)) != 0 {
			out = append(out, name)
		}
	}
	return out
}

func (c ConsoleColor) String() string {
	return strings.Join(c.Names(), "|")
}

// MarshalJSON encodes the set bits as a list of names.
func (c ConsoleColor) MarshalJSON() ([]byte, error) {
	names := c.Names()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

// FontFamily packs a font family (high nibble of the low byte) and pitch
// bits (low nibble).
type FontFamily uint32

var fontFamilyNames = map[uint32]string{
	0x00: "FF_DONTCARE",
	0x10: "FF_ROMAN",
	0x20: "FF_SWISS",
	0x30: "FF_MODERN",
	0x40: "FF_SCRIPT",
	0x50: "FF_DECORATIVE",
}

var fontPitchNames = []string{
	"TMPF_FIXED_PITCH",
	"TMPF_VECTOR",
	"TMPF_TRUETYPE",
	"TMPF_DEVICE",
}

// Family returns the FF_* family name.
func (f FontFamily) Family() string {
	if name, ok := fontFamilyNames[uint32(f)&0xF0]; ok {
		return name
	}
	return "FF_DONTCARE"
}

// Pitch returns the TMPF_* pitch names, or TMPF_NONE.
func (f FontFamily) Pitch() []string {
	var out []string
	for i, name := range fontPitchNames {
		if uint32(f)&(1<<uint(i)) != 0 {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return []string{"TMPF_NONE"}
	}
	return out
}

func (f FontFamily) String() string {
	return strings.Join(append([]string{f.Family()}, f.Pitch()...), "|")
}

// MarshalText encodes the family and pitch names.
func (f FontFamily) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// FontSize is the console font cell size.
type FontSize struct {
	Width  uint16 `json:"width"`
	Height uint16 `json:"height"`
}

// ConsoleDataBlock holds the display settings of a console application.
type ConsoleDataBlock struct {
	BlockHeader
	FillAttributes         ConsoleColor `json:"fill_attributes"`
	PopupFillAttributes    ConsoleColor `json:"popup_fill_attributes"`
	ScreenBufferSizeX      int16        `json:"screen_buffer_size_x"`
	ScreenBufferSizeY      int16        `json:"screen_buffer_size_y"`
	WindowSizeX            int16        `json:"window_size_x"`
	WindowSizeY            int16        `json:"window_size_y"`
	WindowOriginX          int16        `json:"window_origin_x"`
	WindowOriginY          int16        `json:"window_origin_y"`
	FontSize               FontSize     `json:"font_size"`
	FontFamily             FontFamily   `json:"font_family"`
	FontWeight             uint32       `json:"font_weight"`
	FaceName               string       `json:"face_name"`
	CursorSize             uint32       `json:"cursor_size"`
	FullScreen             bool         `json:"full_screen"`
	QuickEdit              bool         `json:"quick_edit"`
	InsertMode             bool         `json:"insert_mode"`
	AutoPosition           bool         `json:"auto_position"`
	HistoryBufferSize      uint32       `json:"history_buffer_size"`
	NumberOfHistoryBuffers uint32       `json:"number_of_history_buffers"`
	HistoryNoDup           bool         `json:"history_no_dup"`
	ColorTable             [16]uint32   `json:"color_table"`
}

// IsBold reports whether the face weight is 700 or more.
func (b *ConsoleDataBlock) IsBold() bool {
	return b.FontWeight >= 700
}

func decodeConsole(h BlockHeader, c *wire.Cursor, cs *wire.Charset) (Block, error) {
	b := &ConsoleDataBlock{BlockHeader: h}

	f := wire.NewFields(c, "ConsoleDataBlock")
	b.FillAttributes = ConsoleColor(f.U16("FillAttributes"))
	b.PopupFillAttributes = ConsoleColor(f.U16("PopupFillAttributes"))
	b.ScreenBufferSizeX = f.I16("ScreenBufferSizeX")
	b.ScreenBufferSizeY = f.I16("ScreenBufferSizeY")
	b.WindowSizeX = f.I16("WindowSizeX")
	b.WindowSizeY = f.I16("WindowSizeY")
	b.WindowOriginX = f.I16("WindowOriginX")
	b.WindowOriginY = f.I16("WindowOriginY")
	f.Skip("Unused", 8)

	b.FontSize.Width = f.U16("FontSize")
	b.FontSize.Height = f.U16("FontSize")
	b.FontFamily = FontFamily(f.U32("FontFamily"))
	b.FontWeight = f.U32("FontWeight")
	b.FaceName = cs.FixedString(f.Bytes("FaceName", 64), true)
	b.CursorSize = f.U32("CursorSize")
	b.FullScreen = f.Bool32("FullScreen")
	b.QuickEdit = f.Bool32("QuickEdit")
	b.InsertMode = f.Bool32("InsertMode")
	b.AutoPosition = f.Bool32("AutoPosition")
	b.HistoryBufferSize = f.U32("HistoryBufferSize")
	b.NumberOfHistoryBuffers = f.U32("NumberOfHistoryBuffers")
	b.HistoryNoDup = f.Bool32("HistoryNoDup")
	for i := range b.ColorTable {
		b.ColorTable[i] = f.U32("ColorTable")
	}
	if err := f.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// ConsoleFEDataBlock holds the code page of a console application.
type ConsoleFEDataBlock struct {
	BlockHeader
	CodePage uint32 `json:"code_page"`
}

func decodeConsoleFE(h BlockHeader, c *wire.Cursor, _ *wire.Charset) (Block, error) {
	f := wire.NewFields(c, "ConsoleFEDataBlock")
	b := &ConsoleFEDataBlock{BlockHeader: h, CodePage: f.U32("CodePage")}
	if err := f.Err(); err != nil {
		return nil, err
	}
	return b, nil
}
