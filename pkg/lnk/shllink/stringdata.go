package shllink

import (
	"fmt"

	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// StringData holds the optional counted strings that follow LinkInfo.
// A field is meaningful only when its LinkFlags bit is set.
type StringData struct {
	NameString           string `json:"name_string,omitempty"`
	RelativePath         string `json:"relative_path,omitempty"`
	WorkingDir           string `json:"working_dir,omitempty"`
	CommandLineArguments string `json:"command_line_arguments,omitempty"`
	IconLocation         string `json:"icon_location,omitempty"`

	// Decoded holds the flag of every field that was read successfully.
	Decoded LinkFlags `json:"-"`
}

// Has reports whether the field selected by flag was decoded.
func (sd *StringData) Has(flag LinkFlags) bool {
	return sd != nil && sd.Decoded.Has(flag)
}

// ReadStringData reads the StringData fields selected by flags, strictly
// in wire order. On failure the fields read so far are returned together
// with the error.
func ReadStringData(c *wire.Cursor, flags LinkFlags, cs *wire.Charset) (*StringData, error) {
	sd := &StringData{}
	unicode := flags.Has(IsUnicode)

	fields := []struct {
		flag LinkFlags
		name string
		dst  *string
	}{
		{HasName, "NameString", &sd.NameString},
		{HasRelativePath, "RelativePath", &sd.RelativePath},
		{HasWorkingDir, "WorkingDir", &sd.WorkingDir},
		{HasArguments, "CommandLineArguments", &sd.CommandLineArguments},
		{HasIconLocation, "IconLocation", &sd.IconLocation},
	}
	for _, f := range fields {
		if !flags.Has(f.flag) {
			continue
		}
		s, err := c.ReadCountedString(cs, unicode)
		if err != nil {
			return sd, fmt.Errorf("failed to read %s: %w", f.name, err)
		}
		*f.dst = s
		sd.Decoded |= f.flag
	}
	return sd, nil
}
