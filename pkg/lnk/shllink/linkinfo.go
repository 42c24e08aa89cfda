package shllink

import (
	"fmt"

	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// LinkInfo header sizes.
const (
	LinkInfoHeaderSizeMin     = 0x0000001C
	LinkInfoHeaderSizeUnicode = 0x00000024
)

// LinkInfoFlags selects which optional LinkInfo parts are present.
type LinkInfoFlags uint32

// LinkInfoFlags bits.
const (
	VolumeIDAndLocalBasePath               LinkInfoFlags = 0x00000001
	CommonNetworkRelativeLinkAndPathSuffix LinkInfoFlags = 0x00000002
)

// Has reports whether flag is set.
func (f LinkInfoFlags) Has(flag LinkInfoFlags) bool {
	return f&flag == flag
}

// DriveType is the type of drive a link target is stored on.
type DriveType uint32

// DriveType values.
const (
	DriveUnknown DriveType = iota
	DriveNoRootDir
	DriveRemovable
	DriveFixed
	DriveRemote
	DriveCDROM
	DriveRAMDisk
)

var driveTypeNames = []string{
	"DRIVE_UNKNOWN",
	"DRIVE_NO_ROOT_DIR",
	"DRIVE_REMOVABLE",
	"DRIVE_FIXED",
	"DRIVE_REMOTE",
	"DRIVE_CDROM",
	"DRIVE_RAMDISK",
}

func (d DriveType) String() string {
	if int(d) < len(driveTypeNames) {
		return driveTypeNames[d]
	}
	return fmt.Sprintf("DRIVE_0x%x", uint32(d))
}

// MarshalText encodes the drive type by name.
func (d DriveType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// VolumeID describes the volume a local target was on when the link was created.
type VolumeID struct {
	Size                     uint32    `json:"size"`
	DriveType                DriveType `json:"drive_type"`
	DriveSerialNumber        uint32    `json:"drive_serial_number"`
	VolumeLabelOffset        uint32    `json:"volume_label_offset"`
	VolumeLabelOffsetUnicode uint32    `json:"volume_label_offset_unicode,omitempty"`
	VolumeLabel              string    `json:"volume_label"`
}

// LinkInfo is the LinkInfo structure.
type LinkInfo struct {
	Size                            uint32        `json:"size"`
	HeaderSize                      uint32        `json:"header_size"`
	Flags                           LinkInfoFlags `json:"flags"`
	VolumeIDOffset                  uint32        `json:"volume_id_offset"`
	LocalBasePathOffset             uint32        `json:"local_base_path_offset"`
	CommonNetworkRelativeLinkOffset uint32        `json:"common_network_relative_link_offset"`
	CommonPathSuffixOffset          uint32        `json:"common_path_suffix_offset"`
	LocalBasePathOffsetUnicode      uint32        `json:"local_base_path_offset_unicode,omitempty"`
	CommonPathSuffixOffsetUnicode   uint32        `json:"common_path_suffix_offset_unicode,omitempty"`

	VolumeID                  *VolumeID                  `json:"volume_id,omitempty"`
	LocalBasePathANSI         string                     `json:"local_base_path_ansi,omitempty"`
	LocalBasePathUnicode      string                     `json:"local_base_path_unicode,omitempty"`
	CommonNetworkRelativeLink *CommonNetworkRelativeLink `json:"common_network_relative_link,omitempty"`
	CommonPathSuffixANSI      string                     `json:"common_path_suffix_ansi,omitempty"`
	CommonPathSuffixUnicode   string                     `json:"common_path_suffix_unicode,omitempty"`
}

// LocalBasePath returns the local base path, preferring the Unicode form.
func (li *LinkInfo) LocalBasePath() string {
	if li.LocalBasePathOffsetUnicode != 0 {
		return li.LocalBasePathUnicode
	}
	return li.LocalBasePathANSI
}

// CommonPathSuffix returns the common path suffix, preferring the Unicode form.
func (li *LinkInfo) CommonPathSuffix() string {
	if li.CommonPathSuffixOffsetUnicode != 0 {
		return li.CommonPathSuffixUnicode
	}
	return li.CommonPathSuffixANSI
}

// ReadLinkInfo consumes LinkInfoSize bytes and decodes them.
// Framing failures (the size field itself) are returned as plain errors;
// a malformed body yields a *LinkInfoDecodeError after the whole section
// has been consumed, so the cursor stays in sync.
func ReadLinkInfo(c *wire.Cursor, cs *wire.Charset) (*LinkInfo, error) {
	size, err := c.PeekU32()
	if err != nil {
		return nil, fmt.Errorf("failed to read LinkInfoSize: %w", err)
	}
	if size < 4 {
		return nil, fmt.Errorf("%w: LinkInfoSize %d", ErrBadSectionSize, size)
	}
	block, err := c.ReadBytes(int(size))
	if err != nil {
		return nil, fmt.Errorf("failed to read LinkInfo: %w", err)
	}
	return parseLinkInfo(block, cs)
}

func parseLinkInfo(block []byte, cs *wire.Charset) (*LinkInfo, error) {
	c := wire.NewCursor(block)
	li := &LinkInfo{}

	fields := []*uint32{
		&li.Size,
		&li.HeaderSize,
		(*uint32)(&li.Flags),
		&li.VolumeIDOffset,
		&li.LocalBasePathOffset,
		&li.CommonNetworkRelativeLinkOffset,
		&li.CommonPathSuffixOffset,
	}
	for _, f := range fields {
		v, err := c.ReadU32()
		if err != nil {
			return nil, &LinkInfoDecodeError{Field: "header", Err: err}
		}
		*f = v
	}
	if li.HeaderSize < LinkInfoHeaderSizeMin {
		return nil, &LinkInfoDecodeError{Field: "header", Err: fmt.Errorf("LinkInfoHeaderSize 0x%x too small", li.HeaderSize)}
	}
	if li.HeaderSize >= LinkInfoHeaderSizeUnicode {
		var err error
		if li.LocalBasePathOffsetUnicode, err = c.ReadU32(); err != nil {
			return nil, &LinkInfoDecodeError{Field: "header", Err: err}
		}
		if li.CommonPathSuffixOffsetUnicode, err = c.ReadU32(); err != nil {
			return nil, &LinkInfoDecodeError{Field: "header", Err: err}
		}
	}

	if li.Flags.Has(VolumeIDAndLocalBasePath) {
		if li.VolumeIDOffset != 0 {
			vol, err := parseVolumeID(block, li.VolumeIDOffset, cs)
			if err != nil {
				return nil, &LinkInfoDecodeError{Field: "VolumeID", Err: err}
			}
			li.VolumeID = vol
		}
		if li.LocalBasePathOffset != 0 {
			s, err := stringAt(block, li.LocalBasePathOffset, cs, false)
			if err != nil {
				return nil, &LinkInfoDecodeError{Field: "LocalBasePath", Err: err}
			}
			li.LocalBasePathANSI = s
		}
		if li.LocalBasePathOffsetUnicode != 0 {
			s, err := stringAt(block, li.LocalBasePathOffsetUnicode, cs, true)
			if err != nil {
				return nil, &LinkInfoDecodeError{Field: "LocalBasePathUnicode", Err: err}
			}
			li.LocalBasePathUnicode = s
		}
	}

	if li.Flags.Has(CommonNetworkRelativeLinkAndPathSuffix) && li.CommonNetworkRelativeLinkOffset != 0 {
		link, err := parseCommonNetworkRelativeLink(block, li.CommonNetworkRelativeLinkOffset, cs)
		if err != nil {
			return nil, &LinkInfoDecodeError{Field: "CommonNetworkRelativeLink", Err: err}
		}
		li.CommonNetworkRelativeLink = link
	}

	if li.CommonPathSuffixOffset != 0 {
		s, err := stringAt(block, li.CommonPathSuffixOffset, cs, false)
		if err != nil {
			return nil, &LinkInfoDecodeError{Field: "CommonPathSuffix", Err: err}
		}
		li.CommonPathSuffixANSI = s
	}
	if li.CommonPathSuffixOffsetUnicode != 0 {
		s, err := stringAt(block, li.CommonPathSuffixOffsetUnicode, cs, true)
		if err != nil {
			return nil, &LinkInfoDecodeError{Field: "CommonPathSuffixUnicode", Err: err}
		}
		li.CommonPathSuffixUnicode = s
	}

	return li, nil
}

// stringAt reads a null-terminated string at off within data.
func stringAt(data []byte, off uint32, cs *wire.Charset, isUnicode bool) (string, error) {
	c, err := wire.At(data, off)
	if err != nil {
		return "", err
	}
	return c.ReadNullTerminatedString(cs, isUnicode)
}

func parseVolumeID(block []byte, off uint32, cs *wire.Charset) (*VolumeID, error) {
	c, err := wire.At(block, off)
	if err != nil {
		return nil, err
	}
	data := c.Remaining()

	vol := &VolumeID{}
	if vol.Size, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if vol.Size <= 0x10 {
		return nil, fmt.Errorf("VolumeIDSize 0x%x too small", vol.Size)
	}
	if uint64(vol.Size) <= uint64(len(data)) {
		data = data[:vol.Size]
	}
	driveType, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	vol.DriveType = DriveType(driveType)
	if vol.DriveSerialNumber, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if vol.VolumeLabelOffset, err = c.ReadU32(); err != nil {
		return nil, err
	}

	// An offset of 0x14 means the ANSI label is absent and a Unicode
	// offset follows.
	if vol.VolumeLabelOffset == 0x14 {
		if vol.VolumeLabelOffsetUnicode, err = c.ReadU32(); err != nil {
			return nil, err
		}
		vol.VolumeLabel, err = stringAt(data, vol.VolumeLabelOffsetUnicode, cs, true)
	} else {
		vol.VolumeLabel, err = stringAt(data, vol.VolumeLabelOffset, cs, false)
	}
	if err != nil {
		return nil, fmt.Errorf("volume label: %w", err)
	}
	return vol, nil
}
