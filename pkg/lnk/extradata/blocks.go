package extradata

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jtang613/golnk/pkg/lnk/propstore"
	"github.com/jtang613/golnk/pkg/lnk/shllink"
	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// Widths of the dual-encoded path fields of the 0x314-byte blocks.
const (
	ansiPathSize    = 260
	unicodePathSize = 520
)

// dualPath is the ANSI + Unicode pair shared by the Darwin,
// EnvironmentVariable and IconEnvironment blocks.
type dualPath struct {
	ANSI    string `json:"ansi"`
	Unicode string `json:"unicode"`
}

// Value prefers the Unicode form when it is set.
func (p dualPath) Value() string {
	if p.Unicode != "" {
		return p.Unicode
	}
	return p.ANSI
}

func readDualPath(c *wire.Cursor, cs *wire.Charset, name string) (dualPath, error) {
	f := wire.NewFields(c, name)
	ansi := f.Bytes("ANSI", ansiPathSize)
	unicode := f.Bytes("Unicode", unicodePathSize)
	if err := f.Err(); err != nil {
		return dualPath{}, err
	}
	return dualPath{ANSI: cs.FixedString(ansi, false), Unicode: cs.FixedString(unicode, true)}, nil
}

// EnvironmentVariableDataBlock holds a target path containing
// environment variables, e.g. %ProgramFiles%\Game\game.exe.
type EnvironmentVariableDataBlock struct {
	BlockHeader
	TargetANSI    string `json:"target_ansi"`
	TargetUnicode string `json:"target_unicode"`
}

// Target returns the target, preferring the Unicode form.
func (b *EnvironmentVariableDataBlock) Target() string {
	return dualPath{ANSI: b.TargetANSI, Unicode: b.TargetUnicode}.Value()
}

func decodeEnvironmentVariable(h BlockHeader, c *wire.Cursor, cs *wire.Charset) (Block, error) {
	p, err := readDualPath(c, cs, "EnvironmentVariableDataBlock")
	if err != nil {
		return nil, err
	}
	return &EnvironmentVariableDataBlock{BlockHeader: h, TargetANSI: p.ANSI, TargetUnicode: p.Unicode}, nil
}

// IconEnvironmentDataBlock holds an icon path containing environment
// variables.
type IconEnvironmentDataBlock struct {
	BlockHeader
	TargetANSI    string `json:"target_ansi"`
	TargetUnicode string `json:"target_unicode"`
}

// Target returns the icon path, preferring the Unicode form.
func (b *IconEnvironmentDataBlock) Target() string {
	return dualPath{ANSI: b.TargetANSI, Unicode: b.TargetUnicode}.Value()
}

func decodeIconEnvironment(h BlockHeader, c *wire.Cursor, cs *wire.Charset) (Block, error) {
	p, err := readDualPath(c, cs, "IconEnvironmentDataBlock")
	if err != nil {
		return nil, err
	}
	return &IconEnvironmentDataBlock{BlockHeader: h, TargetANSI: p.ANSI, TargetUnicode: p.Unicode}, nil
}

// DarwinDataBlock holds a Windows Installer application identifier.
type DarwinDataBlock struct {
	BlockHeader
	DarwinDataANSI    string `json:"darwin_data_ansi"`
	DarwinDataUnicode string `json:"darwin_data_unicode"`
}

// ApplicationID returns the descriptor, preferring the Unicode form.
func (b *DarwinDataBlock) ApplicationID() string {
	return dualPath{ANSI: b.DarwinDataANSI, Unicode: b.DarwinDataUnicode}.Value()
}

func decodeDarwin(h BlockHeader, c *wire.Cursor, cs *wire.Charset) (Block, error) {
	p, err := readDualPath(c, cs, "DarwinDataBlock")
	if err != nil {
		return nil, err
	}
	return &DarwinDataBlock{BlockHeader: h, DarwinDataANSI: p.ANSI, DarwinDataUnicode: p.Unicode}, nil
}

// ShimDataBlock names the compatibility shim layer applied at launch.
type ShimDataBlock struct {
	BlockHeader
	LayerName string `json:"layer_name"`
}

func decodeShim(h BlockHeader, c *wire.Cursor, cs *wire.Charset) (Block, error) {
	return &ShimDataBlock{BlockHeader: h, LayerName: cs.FixedString(c.Remaining(), true)}, nil
}

// TrackerDataBlock holds the distributed link tracking identifiers.
type TrackerDataBlock struct {
	BlockHeader
	Length     uint32       `json:"length"`
	Version    uint32       `json:"version"`
	MachineID  string       `json:"machine_id"`
	Droid      [2]uuid.UUID `json:"droid"`
	DroidBirth [2]uuid.UUID `json:"droid_birth"`
}

func decodeTracker(h BlockHeader, c *wire.Cursor, cs *wire.Charset) (Block, error) {
	b := &TrackerDataBlock{BlockHeader: h}
	f := wire.NewFields(c, "TrackerDataBlock")
	b.Length = f.U32("Length")
	b.Version = f.U32("Version")
	machine := f.Bytes("MachineID", 16)
	b.Droid[0] = f.GUID("Droid")
	b.Droid[1] = f.GUID("Droid")
	b.DroidBirth[0] = f.GUID("DroidBirth")
	b.DroidBirth[1] = f.GUID("DroidBirth")
	if err := f.Err(); err != nil {
		return nil, err
	}
	if b.Length != 0x58 {
		return nil, fmt.Errorf("%w: TrackerDataBlock length 0x%x, want 0x58", ErrInvalidBlock, b.Length)
	}
	if b.Version != 0 {
		return nil, fmt.Errorf("%w: TrackerDataBlock version %d, want 0", ErrInvalidBlock, b.Version)
	}
	b.MachineID = cs.FixedString(machine, false)
	return b, nil
}

// KnownFolderDataBlock locates the target relative to a known folder.
type KnownFolderDataBlock struct {
	BlockHeader
	KnownFolderID uuid.UUID `json:"known_folder_id"`
	Offset        uint32    `json:"offset"`
}

// FolderName returns the FOLDERID_* name of the folder, if known.
func (b *KnownFolderDataBlock) FolderName() string {
	return KnownFolderName(b.KnownFolderID)
}

func decodeKnownFolder(h BlockHeader, c *wire.Cursor, _ *wire.Charset) (Block, error) {
	f := wire.NewFields(c, "KnownFolderDataBlock")
	b := &KnownFolderDataBlock{BlockHeader: h, KnownFolderID: f.GUID("KnownFolderID"), Offset: f.U32("Offset")}
	if err := f.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// SpecialFolderDataBlock locates the target relative to a CSIDL folder.
type SpecialFolderDataBlock struct {
	BlockHeader
	SpecialFolderID uint32 `json:"special_folder_id"`
	Offset          uint32 `json:"offset"`
}

// FolderName returns the CSIDL_* name of the folder, if known.
func (b *SpecialFolderDataBlock) FolderName() string {
	return SpecialFolderName(b.SpecialFolderID)
}

func decodeSpecialFolder(h BlockHeader, c *wire.Cursor, _ *wire.Charset) (Block, error) {
	f := wire.NewFields(c, "SpecialFolderDataBlock")
	b := &SpecialFolderDataBlock{BlockHeader: h, SpecialFolderID: f.U32("SpecialFolderID"), Offset: f.U32("Offset")}
	if err := f.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// PropertyStoreDataBlock holds serialized property storages.
type PropertyStoreDataBlock struct {
	BlockHeader
	Stores []*propstore.Storage `json:"stores"`
}

// Lookup finds a string-named property across all storages.
func (b *PropertyStoreDataBlock) Lookup(name string) (*propstore.Property, bool) {
	for _, s := range b.Stores {
		if p, ok := s.Lookup(name); ok {
			return p, true
		}
	}
	return nil, false
}

// LookupID finds an integer-named property in the storage with the
// given format ID.
func (b *PropertyStoreDataBlock) LookupID(format uuid.UUID, id uint32) (*propstore.Property, bool) {
	for _, s := range b.Stores {
		if s.FormatID != format {
			continue
		}
		if p, ok := s.LookupID(id); ok {
			return p, true
		}
	}
	return nil, false
}

// decodePropertyStore keeps the storages read before a failure, so a
// partially decoded block is returned together with its error.
func decodePropertyStore(h BlockHeader, c *wire.Cursor, cs *wire.Charset) (Block, error) {
	stores, err := propstore.ReadStore(c, cs)
	return &PropertyStoreDataBlock{BlockHeader: h, Stores: stores}, err
}

// VistaAndAboveIDListDataBlock holds an alternate IDList.
type VistaAndAboveIDListDataBlock struct {
	BlockHeader
	Items []shllink.ItemID `json:"items"`
}

func decodeVistaAndAboveIDList(h BlockHeader, c *wire.Cursor, _ *wire.Charset) (Block, error) {
	items, err := shllink.ReadItemIDs(c)
	if err != nil {
		return nil, err
	}
	return &VistaAndAboveIDListDataBlock{BlockHeader: h, Items: items}, nil
}
