package lnk

import (
	"errors"

	"github.com/jtang613/golnk/pkg/lnk/extradata"
	"github.com/jtang613/golnk/pkg/lnk/propstore"
	"github.com/jtang613/golnk/pkg/lnk/shllink"
	"github.com/jtang613/golnk/pkg/lnk/urlfile"
	"github.com/jtang613/golnk/pkg/lnk/wire"
)

var (
	ErrTruncatedInput       = wire.ErrTruncatedInput
	ErrBadMagicSize         = shllink.ErrBadMagicSize
	ErrBadClassID           = shllink.ErrBadClassID
	ErrBadSectionSize       = shllink.ErrBadSectionSize
	ErrInvalidURLFile       = urlfile.ErrInvalidURLFile
	ErrUnsupportedExtension = errors.New("unsupported shortcut extension")
)

type (
	LinkInfoDecodeError          = shllink.LinkInfoDecodeError
	IDListDecodeError            = shllink.IDListDecodeError
	BlockError                   = extradata.BlockError
	UnsupportedPropertyTypeError = propstore.UnsupportedTypeError
)

// IsRecoverable reports whether err only affected one optional section.
func IsRecoverable(err error) bool {
	return shllink.IsRecoverable(err)
}
