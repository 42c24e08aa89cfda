// Package extradata decodes the ExtraData chain that ends a shell link:
// signature-tagged, size-prefixed blocks terminated by a block whose size
// is smaller than four bytes.
package extradata

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// ErrInvalidBlock is wrapped by every per-block validation failure.
var ErrInvalidBlock = errors.New("invalid extra data block")

// Signature identifies the kind of an extra data block.
type Signature uint32

// Known block signatures.
const (
	SigEnvironmentVariable Signature = 0xA0000001
	SigConsole             Signature = 0xA0000002
	SigTracker             Signature = 0xA0000003
	SigConsoleFE           Signature = 0xA0000004
	SigSpecialFolder       Signature = 0xA0000005
	SigDarwin              Signature = 0xA0000006
	SigIconEnvironment     Signature = 0xA0000007
	SigShim                Signature = 0xA0000008
	SigPropertyStore       Signature = 0xA0000009
	SigKnownFolder         Signature = 0xA000000B
	SigVistaAndAboveIDList Signature = 0xA000000C
)

func (s Signature) String() string {
	if d, ok := decoders[s]; ok {
		return d.name
	}
	return fmt.Sprintf("0x%08X", uint32(s))
}

// MarshalText encodes the signature by block name.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Block is a decoded extra data block.
type Block interface {
	Signature() Signature
	Size() uint32
}

// BlockHeader is the size and signature shared by every block.
type BlockHeader struct {
	BlockSize      uint32    `json:"block_size"`
	BlockSignature Signature `json:"block_signature"`
}

// Signature returns the block signature.
func (h BlockHeader) Signature() Signature { return h.BlockSignature }

// Size returns the declared block size, header included.
func (h BlockHeader) Size() uint32 { return h.BlockSize }

// RawBlock keeps the body of a block with an unknown signature.
type RawBlock struct {
	BlockHeader
	Data []byte `json:"data"`
}

// BlockError records a block that could not be decoded. The chain
// continues after it.
type BlockError struct {
	Signature Signature
	Offset    int
	Size      uint32
	Err       error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("extra data block %s at offset %d (size %d): %v", e.Signature, e.Offset, e.Size, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// Recoverable marks the error as local to its block.
func (e *BlockError) Recoverable() bool { return true }

// ExtraData is the decoded chain.
type ExtraData struct {
	Blocks   []Block       `json:"blocks"`
	Failures []*BlockError `json:"-"`
}

// Get returns the first block of type T.
func Get[T Block](ed *ExtraData) (T, bool) {
	var zero T
	if ed == nil {
		return zero, false
	}
	for _, b := range ed.Blocks {
		if t, ok := b.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// EnvironmentVariable returns the EnvironmentVariableDataBlock, if any.
func (ed *ExtraData) EnvironmentVariable() *EnvironmentVariableDataBlock {
	b, _ := Get[*EnvironmentVariableDataBlock](ed)
	return b
}

// PropertyStore returns the PropertyStoreDataBlock, if any.
func (ed *ExtraData) PropertyStore() *PropertyStoreDataBlock {
	b, _ := Get[*PropertyStoreDataBlock](ed)
	return b
}

// KnownFolder returns the KnownFolderDataBlock, if any.
func (ed *ExtraData) KnownFolder() *KnownFolderDataBlock {
	b, _ := Get[*KnownFolderDataBlock](ed)
	return b
}

// Read decodes blocks until the terminal block or the end of input.
// Unknown signatures become RawBlocks and per-block failures are recorded
// in Failures. A block whose declared size runs past the end of input
// ends the chain with an error; the blocks decoded before it are kept.
func Read(c *wire.Cursor, cs *wire.Charset) (*ExtraData, error) {
	ed := &ExtraData{}
	for c.Len() >= 4 {
		start := c.Pos()
		size, err := c.ReadU32()
		if err != nil {
			return ed, fmt.Errorf("failed to read extra data block size at offset %d: %w", start, err)
		}
		if size < 4 {
			break
		}
		body, err := c.ReadBytes(int(size) - 4)
		if err != nil {
			return ed, fmt.Errorf("failed to read extra data block at offset %d: %w", start, err)
		}
		if size < 8 {
			ed.Failures = append(ed.Failures, &BlockError{
				Offset: start,
				Size:   size,
				Err:    fmt.Errorf("%w: size %d leaves no room for a signature", ErrInvalidBlock, size),
			})
			continue
		}

		h := BlockHeader{BlockSize: size, BlockSignature: Signature(binary.LittleEndian.Uint32(body))}
		block, err := decodeBlock(h, body[4:], cs)
		if block != nil {
			ed.Blocks = append(ed.Blocks, block)
		}
		if err != nil {
			ed.Failures = append(ed.Failures, &BlockError{
				Signature: h.BlockSignature,
				Offset:    start,
				Size:      size,
				Err:       err,
			})
		}
	}
	return ed, nil
}
