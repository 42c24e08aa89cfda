package shllink

import (
	"errors"
	"fmt"
)

// ErrBadSectionSize is returned when a section declares a size smaller
// than its own size field; the following sections cannot be located.
var ErrBadSectionSize = errors.New("section size smaller than its size field")

// LinkInfoDecodeError reports a malformed LinkInfo whose declared size
// was still intact, so decoding of the following sections can continue.
type LinkInfoDecodeError struct {
	Field string
	Err   error
}

func (e *LinkInfoDecodeError) Error() string {
	return fmt.Sprintf("link info: %s: %v", e.Field, e.Err)
}

func (e *LinkInfoDecodeError) Unwrap() error {
	return e.Err
}

// Recoverable marks the error as local to its section.
func (e *LinkInfoDecodeError) Recoverable() bool { return true }

// IDListDecodeError reports malformed ItemIDs inside an intact IDList.
type IDListDecodeError struct {
	Err error
}

func (e *IDListDecodeError) Error() string {
	return fmt.Sprintf("link target id list: %v", e.Err)
}

func (e *IDListDecodeError) Unwrap() error {
	return e.Err
}

// Recoverable marks the error as local to its section.
func (e *IDListDecodeError) Recoverable() bool { return true }

// IsRecoverable reports whether err only affects the section it came from.
func IsRecoverable(err error) bool {
	var r interface{ Recoverable() bool }
	return errors.As(err, &r) && r.Recoverable()
}
