package lnk

import (
	"strings"

	"github.com/jtang613/golnk/pkg/lnk/shllink"
	"github.com/jtang613/golnk/pkg/lnk/urlfile"
)

// Descriptor is what a caller needs to launch a shortcut.
type Descriptor struct {
	Target           string  `json:"target" yaml:"target"`
	Arguments        string  `json:"arguments" yaml:"arguments"`
	WorkingDirectory string  `json:"working_directory" yaml:"working_directory"`
	DisplayName      *string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
}

// Descriptor builds the launch descriptor of the link. The target is the
// first non-empty of: the LinkInfo local path, the LinkInfo network
// share (both joined with the common path suffix), the
// EnvironmentVariableDataBlock target and the StringData name.
// DisplayName is set only when the name string was decoded.
func (l *ShellLink) Descriptor() Descriptor {
	var d Descriptor
	flags := l.Header.LinkFlags

	if li := l.LinkInfo; li != nil && !flags.Has(shllink.ForceNoLinkInfo) {
		if base := li.LocalBasePath(); base != "" {
			d.Target = joinWindowsPath(base, li.CommonPathSuffix())
		} else if nl := li.CommonNetworkRelativeLink; nl != nil && nl.NetName() != "" {
			d.Target = joinWindowsPath(nl.NetName(), li.CommonPathSuffix())
		}
	}
	if d.Target == "" && l.ExtraData != nil {
		if env := l.ExtraData.EnvironmentVariable(); env != nil {
			d.Target = env.Target()
		}
	}

	if sd := l.StringData; sd != nil {
		if d.Target == "" && sd.Has(shllink.HasName) {
			d.Target = sd.NameString
		}
		d.Arguments = sd.CommandLineArguments
		d.WorkingDirectory = sd.WorkingDir
		if sd.Has(shllink.HasName) {
			name := sd.NameString
			d.DisplayName = &name
		}
	}
	return d
}

// URLDescriptor builds the launch descriptor of an Internet Shortcut.
func URLDescriptor(f *urlfile.File) Descriptor {
	return Descriptor{
		Target:           f.URL(),
		WorkingDirectory: f.WorkingDirectory(),
	}
}

func joinWindowsPath(base, suffix string) string {
	switch {
	case suffix == "":
		return base
	case strings.HasSuffix(base, `\`):
		return base + suffix
	}
	return base + `\` + suffix
}
