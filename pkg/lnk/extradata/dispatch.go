package extradata

import (
	"fmt"

	"github.com/jtang613/golnk/pkg/lnk/wire"
)

type decodeFunc func(h BlockHeader, c *wire.Cursor, cs *wire.Charset) (Block, error)

// decoder describes one known block kind. A block must be exactly
// exactSize bytes when exactSize is set, and at least minSize bytes.
type decoder struct {
	name      string
	exactSize uint32
	minSize   uint32
	decode    decodeFunc
}

var decoders map[Signature]decoder

func init() {
	decoders = map[Signature]decoder{
		SigEnvironmentVariable: {name: "EnvironmentVariableDataBlock", exactSize: 0x314, decode: decodeEnvironmentVariable},
		SigConsole:             {name: "ConsoleDataBlock", exactSize: 0xCC, decode: decodeConsole},
		SigTracker:             {name: "TrackerDataBlock", exactSize: 0x60, decode: decodeTracker},
		SigConsoleFE:           {name: "ConsoleFEDataBlock", exactSize: 0x0C, decode: decodeConsoleFE},
		SigSpecialFolder:       {name: "SpecialFolderDataBlock", exactSize: 0x10, decode: decodeSpecialFolder},
		SigDarwin:              {name: "DarwinDataBlock", exactSize: 0x314, decode: decodeDarwin},
		SigIconEnvironment:     {name: "IconEnvironmentDataBlock", exactSize: 0x314, decode: decodeIconEnvironment},
		SigShim:                {name: "ShimDataBlock", minSize: 0x88, decode: decodeShim},
		SigPropertyStore:       {name: "PropertyStoreDataBlock", minSize: 0x0C, decode: decodePropertyStore},
		SigKnownFolder:         {name: "KnownFolderDataBlock", exactSize: 0x1C, decode: decodeKnownFolder},
		SigVistaAndAboveIDList: {name: "VistaAndAboveIDListDataBlock", minSize: 0x0A, decode: decodeVistaAndAboveIDList},
	}
}

// decodeBlock dispatches body (the bytes after the signature) to the
// decoder registered for h.BlockSignature.
func decodeBlock(h BlockHeader, body []byte, cs *wire.Charset) (Block, error) {
	d, ok := decoders[h.BlockSignature]
	if !ok {
		return &RawBlock{BlockHeader: h, Data: body}, nil
	}
	if d.exactSize != 0 && h.BlockSize != d.exactSize {
		return nil, fmt.Errorf("%w: %s size 0x%x, want 0x%x", ErrInvalidBlock, d.name, h.BlockSize, d.exactSize)
	}
	if h.BlockSize < d.minSize {
		return nil, fmt.Errorf("%w: %s size 0x%x, want at least 0x%x", ErrInvalidBlock, d.name, h.BlockSize, d.minSize)
	}
	return d.decode(h, wire.NewCursor(body), cs)
}
