package propstore

import "fmt"

// VarType is the type tag of a TypedPropertyValue.
type VarType uint16

// VarType values.
const (
	VTEmpty    VarType = 0x0000
	VTNull     VarType = 0x0001
	VTI2       VarType = 0x0002
	VTI4       VarType = 0x0003
	VTR4       VarType = 0x0004
	VTR8       VarType = 0x0005
	VTCY       VarType = 0x0006
	VTDate     VarType = 0x0007
	VTBSTR     VarType = 0x0008
	VTError    VarType = 0x000A
	VTBool     VarType = 0x000B
	VTDecimal  VarType = 0x000E
	VTI1       VarType = 0x0010
	VTUI1      VarType = 0x0011
	VTUI2      VarType = 0x0012
	VTUI4      VarType = 0x0013
	VTI8       VarType = 0x0014
	VTUI8      VarType = 0x0015
	VTInt      VarType = 0x0016
	VTUInt     VarType = 0x0017
	VTLPSTR    VarType = 0x001E
	VTLPWSTR   VarType = 0x001F
	VTFiletime VarType = 0x0040
	VTBlob     VarType = 0x0041
	VTCLSID    VarType = 0x0048

	VTVector VarType = 0x1000
	VTArray  VarType = 0x2000
)

var varTypeNames = map[VarType]string{
	VTEmpty:    "VT_EMPTY",
	VTNull:     "VT_NULL",
	VTI2:       "VT_I2",
	VTI4:       "VT_I4",
	VTR4:       "VT_R4",
	VTR8:       "VT_R8",
	VTCY:       "VT_CY",
	VTDate:     "VT_DATE",
	VTBSTR:     "VT_BSTR",
	VTError:    "VT_ERROR",
	VTBool:     "VT_BOOL",
	VTDecimal:  "VT_DECIMAL",
	VTI1:       "VT_I1",
	VTUI1:      "VT_UI1",
	VTUI2:      "VT_UI2",
	VTUI4:      "VT_UI4",
	VTI8:       "VT_I8",
	VTUI8:      "VT_UI8",
	VTInt:      "VT_INT",
	VTUInt:     "VT_UINT",
	VTLPSTR:    "VT_LPSTR",
	VTLPWSTR:   "VT_LPWSTR",
	VTFiletime: "VT_FILETIME",
	VTBlob:     "VT_BLOB",
	VTCLSID:    "VT_CLSID",
}

func (t VarType) String() string {
	base := t &^ (VTVector | VTArray)
	name, ok := varTypeNames[base]
	if !ok {
		name = fmt.Sprintf("VT_0x%04X", uint16(base))
	}
	switch {
	case t&VTVector != 0:
		return name + "|VT_VECTOR"
	case t&VTArray != 0:
		return name + "|VT_ARRAY"
	}
	return name
}

// MarshalText encodes the type by name.
func (t VarType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
