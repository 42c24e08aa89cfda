package extradata

import (
	"fmt"

	"github.com/google/uuid"
)

var knownFolderNames = map[uuid.UUID]string{
	uuid.MustParse("B4BFCC3A-DB2C-424C-B029-7FE99A87C641"): "FOLDERID_Desktop",
	uuid.MustParse("FDD39AD0-238F-46AF-ADB4-6C85480369C7"): "FOLDERID_Documents",
	uuid.MustParse("374DE290-123F-4565-9164-39C4925E467B"): "FOLDERID_Downloads",
	uuid.MustParse("905E63B6-C1BF-494E-B29C-65B732D3D21A"): "FOLDERID_ProgramFiles",
	uuid.MustParse("7C5A40EF-A0FB-4BFC-874A-C0F2E0B9FA8E"): "FOLDERID_ProgramFilesX86",
	uuid.MustParse("F38BF404-1D43-42F2-9305-67DE0B28FC23"): "FOLDERID_Windows",
	uuid.MustParse("1AC14E77-02E7-4E5D-B744-2EB1AE5198B7"): "FOLDERID_System",
	uuid.MustParse("F1B32785-6FBA-4FCF-9D55-7B8E7F157091"): "FOLDERID_LocalAppData",
	uuid.MustParse("3EB685DB-65F9-4CF6-A03A-E3EF65729F3D"): "FOLDERID_RoamingAppData",
	uuid.MustParse("625B53C3-AB48-4EC1-BA1F-A1EF4146FC19"): "FOLDERID_StartMenu",
	uuid.MustParse("A77F5D77-2E2B-44C3-A6A2-ABA601054A51"): "FOLDERID_Programs",
	uuid.MustParse("B97D20BB-F46A-4C97-BA10-5E3608430854"): "FOLDERID_Startup",
	uuid.MustParse("0139D44E-6AFE-49F2-8690-3DAFCAE6FFB8"): "FOLDERID_CommonPrograms",
	uuid.MustParse("C4AA340D-F20F-4863-AFEF-F87EF2E6BA25"): "FOLDERID_PublicDesktop",
}

// KnownFolderName returns the FOLDERID_* name of id, or its string form.
func KnownFolderName(id uuid.UUID) string {
	if name, ok := knownFolderNames[id]; ok {
		return name
	}
	return id.String()
}

var specialFolderNames = map[uint32]string{
	0x00: "CSIDL_DESKTOP",
	0x02: "CSIDL_PROGRAMS",
	0x05: "CSIDL_PERSONAL",
	0x07: "CSIDL_STARTUP",
	0x0B: "CSIDL_STARTMENU",
	0x10: "CSIDL_DESKTOPDIRECTORY",
	0x17: "CSIDL_COMMON_PROGRAMS",
	0x19: "CSIDL_COMMON_DESKTOPDIRECTORY",
	0x1A: "CSIDL_APPDATA",
	0x1C: "CSIDL_LOCAL_APPDATA",
	0x24: "CSIDL_WINDOWS",
	0x25: "CSIDL_SYSTEM",
	0x26: "CSIDL_PROGRAM_FILES",
	0x2A: "CSIDL_PROGRAM_FILESX86",
}

// SpecialFolderName returns the CSIDL_* name of id.
func SpecialFolderName(id uint32) string {
	if name, ok := specialFolderNames[id]; ok {
		return name
	}
	return fmt.Sprintf("CSIDL_0x%02X", id)
}
