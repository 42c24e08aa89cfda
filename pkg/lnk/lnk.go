// Package lnk decodes Windows shortcut files, both Shell Links (.lnk)
// and Internet Shortcuts (.url), into a common Descriptor.
package lnk

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/jtang613/golnk/pkg/lnk/extradata"
	"github.com/jtang613/golnk/pkg/lnk/shllink"
	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// ShellLink is a decoded .lnk file. Optional sections are nil when the
// header does not announce them or when they failed to decode.
type ShellLink struct {
	Header     *shllink.Header      `json:"header"`
	IDList     *shllink.IDList      `json:"link_target_id_list,omitempty"`
	LinkInfo   *shllink.LinkInfo    `json:"link_info,omitempty"`
	StringData *shllink.StringData  `json:"string_data,omitempty"`
	ExtraData  *extradata.ExtraData `json:"extra_data,omitempty"`

	// Warnings holds the recoverable failures met while decoding.
	Warnings []error `json:"-"`
}

// Warning combines all warnings into one error, or returns nil.
func (l *ShellLink) Warning() error {
	var merr *multierror.Error
	for _, w := range l.Warnings {
		merr = multierror.Append(merr, w)
	}
	return merr.ErrorOrNil()
}

// DecodeLink decodes a .lnk file held in memory.
//
// Header identity failures and unreadable section sizes are returned as
// errors. A malformed LinkInfo or IDList, truncated StringData and extra
// data failures are recorded as warnings and decoding continues; with
// Options.Strict the first of them, except per-block failures, is
// returned instead.
func DecodeLink(data []byte, opts *Options) (*ShellLink, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return cfg.decodeLink(data)
}

func (cfg *config) decodeLink(data []byte) (*ShellLink, error) {
	c := wire.NewCursor(data)

	hdr, err := shllink.ReadHeader(c)
	if err != nil {
		return nil, err
	}
	l := &ShellLink{Header: hdr}
	flags := hdr.LinkFlags

	if flags.Has(shllink.HasLinkTargetIDList) {
		list, err := shllink.ReadIDList(c)
		if err != nil {
			if !shllink.IsRecoverable(err) {
				return nil, err
			}
			if err := cfg.warn(l, err); err != nil {
				return nil, err
			}
		}
		l.IDList = list
	}

	if flags.Has(shllink.HasLinkInfo) {
		li, err := shllink.ReadLinkInfo(c, cfg.charset)
		if err != nil {
			if !shllink.IsRecoverable(err) {
				return nil, err
			}
			if err := cfg.warn(l, err); err != nil {
				return nil, err
			}
		}
		l.LinkInfo = li
	}

	sd, err := shllink.ReadStringData(c, flags, cfg.charset)
	l.StringData = sd
	if err != nil {
		// The extra data chain cannot be located past a broken string.
		if err := cfg.warn(l, fmt.Errorf("string data: %w", err)); err != nil {
			return nil, err
		}
		return l, nil
	}

	ed, err := extradata.Read(c, cfg.charset)
	l.ExtraData = ed
	for _, f := range ed.Failures {
		cfg.Logger.Debug("skipped extra data block",
			zap.Stringer(fieldSignature, f.Signature),
			zap.Int(fieldOffset, f.Offset),
			zap.Error(f.Err))
		l.Warnings = append(l.Warnings, f)
	}
	for _, b := range ed.Blocks {
		if raw, ok := b.(*extradata.RawBlock); ok {
			cfg.Logger.Debug("unknown extra data block",
				zap.Stringer(fieldSignature, raw.Signature()),
				zap.Uint32("size", raw.Size()))
		}
	}
	if err != nil {
		if err := cfg.warn(l, fmt.Errorf("extra data: %w", err)); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// warn records err on l, or returns it in strict mode.
func (cfg *config) warn(l *ShellLink, err error) error {
	if cfg.Strict {
		return err
	}
	cfg.Logger.Debug("recovered from section failure", zap.Error(err))
	l.Warnings = append(l.Warnings, err)
	return nil
}
