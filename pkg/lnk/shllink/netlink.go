package shllink

import (
	"fmt"

	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// CommonNetworkRelativeLinkFlags bits.
const (
	ValidDevice  = 0x00000001
	ValidNetType = 0x00000002
)

// NetworkProviderType identifies the network provider of a share.
type NetworkProviderType uint32

var networkProviderNames = map[NetworkProviderType]string{
	0x00020000: "WNNC_NET_LANMAN",
	0x001A0000: "WNNC_NET_AVID",
	0x001B0000: "WNNC_NET_DOCUSPACE",
	0x001C0000: "WNNC_NET_MANGOSOFT",
	0x001D0000: "WNNC_NET_SERNET",
	0x001E0000: "WNNC_NET_RIVERFRONT1",
	0x001F0000: "WNNC_NET_RIVERFRONT2",
	0x00200000: "WNNC_NET_DECORB",
	0x00210000: "WNNC_NET_PROTSTOR",
	0x00220000: "WNNC_NET_FJ_REDIR",
	0x00230000: "WNNC_NET_DISTINCT",
	0x00240000: "WNNC_NET_TWINS",
	0x00250000: "WNNC_NET_RDR2SAMPLE",
	0x00260000: "WNNC_NET_CSC",
	0x00270000: "WNNC_NET_3IN1",
	0x00290000: "WNNC_NET_EXTENDNET",
	0x002A0000: "WNNC_NET_STAC",
	0x002B0000: "WNNC_NET_FOXBAT",
	0x002C0000: "WNNC_NET_YAHOO",
	0x002D0000: "WNNC_NET_EXIFS",
	0x002E0000: "WNNC_NET_DAV",
	0x002F0000: "WNNC_NET_KNOWARE",
	0x00300000: "WNNC_NET_OBJECT_DIRE",
	0x00310000: "WNNC_NET_MASFAX",
	0x00320000: "WNNC_NET_HOB_NFS",
	0x00330000: "WNNC_NET_SHIVA",
	0x00340000: "WNNC_NET_IBMAL",
	0x00350000: "WNNC_NET_LOCK",
	0x00360000: "WNNC_NET_TERMSRV",
	0x00370000: "WNNC_NET_SRT",
	0x00380000: "WNNC_NET_QUINCY",
	0x00390000: "WNNC_NET_OPENAFS",
	0x003A0000: "WNNC_NET_AVID1",
	0x003B0000: "WNNC_NET_DFS",
	0x003C0000: "WNNC_NET_KWNP",
	0x003D0000: "WNNC_NET_ZENWORKS",
	0x003E0000: "WNNC_NET_DRIVEONWEB",
	0x003F0000: "WNNC_NET_VMWARE",
	0x00400000: "WNNC_NET_RSFX",
	0x00410000: "WNNC_NET_MFILES",
	0x00420000: "WNNC_NET_MS_NFS",
	0x00430000: "WNNC_NET_GOOGLE",
}

func (n NetworkProviderType) String() string {
	if name, ok := networkProviderNames[n]; ok {
		return name
	}
	return fmt.Sprintf("WNNC_NET_0x%08X", uint32(n))
}

// MarshalText encodes the provider by name.
func (n NetworkProviderType) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// CommonNetworkRelativeLink describes the network share of a remote target.
type CommonNetworkRelativeLink struct {
	Size                    uint32              `json:"size"`
	Flags                   uint32              `json:"flags"`
	NetNameOffset           uint32              `json:"net_name_offset"`
	DeviceNameOffset        uint32              `json:"device_name_offset"`
	NetworkProviderType     NetworkProviderType `json:"network_provider_type,omitempty"`
	NetNameOffsetUnicode    uint32              `json:"net_name_offset_unicode,omitempty"`
	DeviceNameOffsetUnicode uint32              `json:"device_name_offset_unicode,omitempty"`
	NetNameANSI             string              `json:"net_name_ansi,omitempty"`
	DeviceNameANSI          string              `json:"device_name_ansi,omitempty"`
	NetNameUnicode          string              `json:"net_name_unicode,omitempty"`
	DeviceNameUnicode       string              `json:"device_name_unicode,omitempty"`
}

// NetName returns the share name, preferring the Unicode form.
func (n *CommonNetworkRelativeLink) NetName() string {
	if n.NetNameOffsetUnicode != 0 {
		return n.NetNameUnicode
	}
	return n.NetNameANSI
}

// DeviceName returns the device name, preferring the Unicode form.
func (n *CommonNetworkRelativeLink) DeviceName() string {
	if n.DeviceNameOffsetUnicode != 0 {
		return n.DeviceNameUnicode
	}
	return n.DeviceNameANSI
}

func parseCommonNetworkRelativeLink(block []byte, off uint32, cs *wire.Charset) (*CommonNetworkRelativeLink, error) {
	c, err := wire.At(block, off)
	if err != nil {
		return nil, err
	}
	data := c.Remaining()

	n := &CommonNetworkRelativeLink{}
	if n.Size, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if n.Size < 0x14 {
		return nil, fmt.Errorf("CommonNetworkRelativeLinkSize 0x%x too small", n.Size)
	}
	if uint64(n.Size) <= uint64(len(data)) {
		data = data[:n.Size]
	}
	if n.Flags, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if n.NetNameOffset, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if n.DeviceNameOffset, err = c.ReadU32(); err != nil {
		return nil, err
	}
	provider, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if n.Flags&ValidNetType != 0 {
		n.NetworkProviderType = NetworkProviderType(provider)
	}

	// The Unicode offsets exist only when NetNameOffset points past them.
	if n.NetNameOffset > 0x14 {
		if n.NetNameOffsetUnicode, err = c.ReadU32(); err != nil {
			return nil, err
		}
		if n.DeviceNameOffsetUnicode, err = c.ReadU32(); err != nil {
			return nil, err
		}
	}

	if n.NetNameOffset != 0 {
		if n.NetNameANSI, err = stringAt(data, n.NetNameOffset, cs, false); err != nil {
			return nil, fmt.Errorf("net name: %w", err)
		}
	}
	if n.Flags&ValidDevice != 0 && n.DeviceNameOffset != 0 {
		if n.DeviceNameANSI, err = stringAt(data, n.DeviceNameOffset, cs, false); err != nil {
			return nil, fmt.Errorf("device name: %w", err)
		}
	}
	if n.NetNameOffsetUnicode != 0 {
		if n.NetNameUnicode, err = stringAt(data, n.NetNameOffsetUnicode, cs, true); err != nil {
			return nil, fmt.Errorf("net name unicode: %w", err)
		}
	}
	if n.Flags&ValidDevice != 0 && n.DeviceNameOffsetUnicode != 0 {
		if n.DeviceNameUnicode, err = stringAt(data, n.DeviceNameOffsetUnicode, cs, true); err != nil {
			return nil, fmt.Errorf("device name unicode: %w", err)
		}
	}
	return n, nil
}
