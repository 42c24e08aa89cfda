package shllink

import (
	"encoding/json"
	"strings"
)

// LinkFlags is the LinkFlags bit set of the ShellLinkHeader.
type LinkFlags uint32

// LinkFlags bits, in wire order.
const (
	HasLinkTargetIDList LinkFlags = 1 << iota
	HasLinkInfo
	HasName
	HasRelativePath
	HasWorkingDir
	HasArguments
	HasIconLocation
	IsUnicode
	ForceNoLinkInfo
	HasExpString
	RunInSeparateProcess
	Unused1
	HasDarwinID
	RunAsUser
	HasExpIcon
	NoPidlAlias
	Unused2
	RunWithShimLayer
	ForceNoLinkTrack
	EnableTargetMetadata
	DisableLinkPathTracking
	DisableKnownFolderTracking
	DisableKnownFolderAlias
	AllowLinkToLink
	UnaliasOnSave
	PreferEnvironmentPath
	KeepLocalIDListForUNCTarget
)

var linkFlagNames = []string{
	"HasLinkTargetIDList",
	"HasLinkInfo",
	"HasName",
	"HasRelativePath",
	"HasWorkingDir",
	"HasArguments",
	"HasIconLocation",
	"IsUnicode",
	"ForceNoLinkInfo",
	"HasExpString",
	"RunInSeparateProcess",
	"Unused1",
	"HasDarwinID",
	"RunAsUser",
	"HasExpIcon",
	"NoPidlAlias",
	"Unused2",
	"RunWithShimLayer",
	"ForceNoLinkTrack",
	"EnableTargetMetadata",
	"DisableLinkPathTracking",
	"DisableKnownFolderTracking",
	"DisableKnownFolderAlias",
	"AllowLinkToLink",
	"UnaliasOnSave",
	"PreferEnvironmentPath",
	"KeepLocalIDListForUNCTarget",
}

// Has reports whether every bit of flag is set.
func (f LinkFlags) Has(flag LinkFlags) bool {
	return f&flag == flag
}

// Names returns the names of the set bits in wire order.
func (f LinkFlags) Names() []string {
	return bitNames(uint32(f), linkFlagNames)
}

func (f LinkFlags) String() string {
	return strings.Join(f.Names(), "|")
}

// MarshalJSON encodes the set bits as a list of names.
func (f LinkFlags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

// MarshalYAML encodes the set bits as a list of names.
func (f LinkFlags) MarshalYAML() (interface{}, error) {
	return f.Names(), nil
}

// FileAttributes is the FileAttributesFlags bit set of the link target.
type FileAttributes uint32

// FileAttributes bits, in wire order.
const (
	FileAttributeReadOnly FileAttributes = 1 << iota
	FileAttributeHidden
	FileAttributeSystem
	FileAttributeReserved1
	FileAttributeDirectory
	FileAttributeArchive
	FileAttributeReserved2
	FileAttributeNormal
	FileAttributeTemporary
	FileAttributeSparseFile
	FileAttributeReparsePoint
	FileAttributeCompressed
	FileAttributeOffline
	FileAttributeNotContentIndexed
	FileAttributeEncrypted
)

var fileAttributeNames = []string{
	"READONLY",
	"HIDDEN",
	"SYSTEM",
	"RESERVED1",
	"DIRECTORY",
	"ARCHIVE",
	"RESERVED2",
	"NORMAL",
	"TEMPORARY",
	"SPARSE_FILE",
	"REPARSE_POINT",
	"COMPRESSED",
	"OFFLINE",
	"NOT_CONTENT_INDEXED",
	"ENCRYPTED",
}

// Has reports whether every bit of attr is set.
func (a FileAttributes) Has(attr FileAttributes) bool {
	return a&attr == attr
}

// Names returns the names of the set bits in wire order.
func (a FileAttributes) Names() []string {
	return bitNames(uint32(a), fileAttributeNames)
}

func (a FileAttributes) String() string {
	return strings.Join(a.Names(), "|")
}

// MarshalJSON encodes the set bits as a list of names.
func (a FileAttributes) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Names())
}

// MarshalYAML encodes the set bits as a list of names.
func (a FileAttributes) MarshalYAML() (interface{}, error) {
	return a.Names(), nil
}

func bitNames(v uint32, names []string) []string {
	out := make([]string, 0, len(names))
	for i, name := range names {
		if v&(1<<uint(i)) != 0 {
			out = append(out, name)
		}
	}
	return out
}
