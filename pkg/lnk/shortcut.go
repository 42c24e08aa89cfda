package lnk

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/jtang613/golnk/pkg/lnk/urlfile"
)

// Kind is the shortcut file format.
type Kind string

// Shortcut kinds.
const (
	KindLink Kind = "lnk"
	KindURL  Kind = "url"
)

// KindOf returns the kind matching the extension of name, compared
// case-insensitively.
func KindOf(name string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".lnk":
		return KindLink, true
	case ".url":
		return KindURL, true
	}
	return "", false
}

// Shortcut is a resolved shortcut file.
type Shortcut struct {
	Path       string        `json:"path" yaml:"path"`
	Name       string        `json:"name" yaml:"name"`
	Title      string        `json:"title" yaml:"title"`
	Kind       Kind          `json:"kind" yaml:"kind"`
	Size       int64         `json:"size" yaml:"size"`
	Descriptor Descriptor    `json:"descriptor" yaml:"descriptor"`
	Warnings   []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Link       *ShellLink    `json:"link,omitempty" yaml:"-"`
	URL        *urlfile.File `json:"url,omitempty" yaml:"-"`
}

// Resolve reads and decodes the shortcut at path, choosing the decoder
// from the file extension.
func Resolve(path string, opts *Options) (*Shortcut, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return cfg.resolve(path)
}

// ResolveBytes decodes a shortcut held in memory; name selects the
// decoder and provides the title.
func ResolveBytes(name string, data []byte, opts *Options) (*Shortcut, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return cfg.resolveBytes(name, data)
}

func (cfg *config) resolve(path string) (*Shortcut, error) {
	if _, ok := KindOf(path); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, path)
	}
	data, err := afero.ReadFile(cfg.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cfg.resolveBytes(path, data)
}

func (cfg *config) resolveBytes(path string, data []byte) (*Shortcut, error) {
	kind, ok := KindOf(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, path)
	}
	name := filepath.Base(path)
	sc := &Shortcut{
		Path:  path,
		Name:  name,
		Title: strings.TrimSuffix(name, filepath.Ext(name)),
		Kind:  kind,
		Size:  int64(len(data)),
	}

	switch kind {
	case KindLink:
		l, err := cfg.decodeLink(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		sc.Link = l
		sc.Descriptor = l.Descriptor()
		for _, w := range l.Warnings {
			sc.Warnings = append(sc.Warnings, w.Error())
		}
	case KindURL:
		f, err := urlfile.ParseBytes(data, cfg.charset)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		sc.URL = f
		sc.Descriptor = URLDescriptor(f)
	}
	return sc, nil
}
