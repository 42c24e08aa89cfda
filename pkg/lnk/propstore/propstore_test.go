package propstore

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtang613/golnk/pkg/lnk/internal/lnktest"
	"github.com/jtang613/golnk/pkg/lnk/wire"
)

var appUserModelFormat = uuid.MustParse("9F4C2855-9F79-4B39-A8D0-E1D42DE1D5F3")

func decode(t *testing.T, raw []byte) Value {
	t.Helper()
	c := wire.NewCursor(raw)
	v, err := ReadTypedValue(c, wire.DefaultCharset())
	require.NoError(t, err)
	return v
}

func TestReadTypedValueScalars(t *testing.T) {
	var w lnktest.Writer

	assert.Equal(t, int16(-2), decode(t, lnktest.TypedValue(0x0002, w.U16(0xFFFE).U16(0).Bytes())).Data)
	w.Reset()
	assert.Equal(t, int32(-100), decode(t, lnktest.TypedValue(0x0003, w.U32(uint32(0xFFFFFF9C)).Bytes())).Data)
	w.Reset()
	assert.Equal(t, uint32(7), decode(t, lnktest.TypedValue(0x0013, w.U32(7).Bytes())).Data)
	w.Reset()
	assert.Equal(t, uint64(1<<40), decode(t, lnktest.TypedValue(0x0015, w.U64(1<<40).Bytes())).Data)
	w.Reset()
	assert.Equal(t, int8(-1), decode(t, lnktest.TypedValue(0x0010, []byte{0xFF, 0, 0, 0})).Data)
	assert.Equal(t, uint8(200), decode(t, lnktest.TypedValue(0x0011, []byte{200, 0, 0, 0})).Data)
	assert.Equal(t, true, decode(t, lnktest.TypedValue(0x000B, []byte{0xFF, 0xFF, 0, 0})).Data)
	assert.Equal(t, false, decode(t, lnktest.TypedValue(0x000B, []byte{0, 0, 0, 0})).Data)
	assert.Nil(t, decode(t, lnktest.TypedValue(0x0000, nil)).Data)
	assert.Nil(t, decode(t, lnktest.TypedValue(0x0001, nil)).Data)
}

func TestReadTypedValueReals(t *testing.T) {
	var w lnktest.Writer
	w.U64(math.Float64bits(3.25))
	assert.Equal(t, 3.25, decode(t, lnktest.TypedValue(0x0005, w.Bytes())).Data)

	w.Reset()
	w.U32(math.Float32bits(1.5))
	assert.Equal(t, float32(1.5), decode(t, lnktest.TypedValue(0x0004, w.Bytes())).Data)

	w.Reset()
	w.U64(uint64(123456))
	assert.Equal(t, 12.3456, decode(t, lnktest.TypedValue(0x0006, w.Bytes())).Data)

	w.Reset()
	w.U64(math.Float64bits(2.5))
	assert.Equal(t, time.Date(1900, 1, 1, 12, 0, 0, 0, time.UTC), decode(t, lnktest.TypedValue(0x0007, w.Bytes())).Data)
}

func TestReadTypedValueOutOfRangeDate(t *testing.T) {
	var w lnktest.Writer
	w.U64(math.Float64bits(2958465))
	assert.Equal(t, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), decode(t, lnktest.TypedValue(0x0007, w.Bytes())).Data)

	w.Reset()
	w.U64(math.Float64bits(1e12))
	assert.Equal(t, 1e12, decode(t, lnktest.TypedValue(0x0007, w.Bytes())).Data)
}

func TestValueMarshalJSONNonFinite(t *testing.T) {
	var w lnktest.Writer
	w.U64(math.Float64bits(math.NaN()))
	nan := decode(t, lnktest.TypedValue(0x0005, w.Bytes()))

	w.Reset()
	w.U32(math.Float32bits(float32(math.Inf(-1))))
	negInf := decode(t, lnktest.TypedValue(0x0004, w.Bytes()))

	w.Reset()
	w.U64(math.Float64bits(math.Inf(1)))
	date := decode(t, lnktest.TypedValue(0x0007, w.Bytes()))

	out, err := json.Marshal([]Value{nan, negInf, date})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type":"VT_R8","data":"NaN"},
		{"type":"VT_R4","data":"-Inf"},
		{"type":"VT_DATE","data":"+Inf"}
	]`, string(out))

	w.Reset()
	w.U64(math.Float64bits(3.25))
	out, err = json.Marshal(decode(t, lnktest.TypedValue(0x0005, w.Bytes())))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"VT_R8","data":3.25}`, string(out))
}

func TestReadTypedValueStrings(t *testing.T) {
	v := decode(t, lnktest.LPWSTR("Microsoft.Games"))
	assert.Equal(t, VTLPWSTR, v.Type)
	assert.Equal(t, "Microsoft.Games", v.Data)
	assert.Equal(t, "Microsoft.Games", v.String())

	var w lnktest.Writer
	w.U32(6).Raw([]byte("caf\xe9!\x00"))
	assert.Equal(t, "café!", decode(t, lnktest.TypedValue(0x001E, w.Bytes())).Data)

	w.Reset()
	w.U32(3).Raw([]byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3}, decode(t, lnktest.TypedValue(0x0041, w.Bytes())).Data)
}

func TestReadTypedValueIdentifiers(t *testing.T) {
	id := uuid.MustParse("F38BF404-1D43-42F2-9305-67DE0B28FC23")
	assert.Equal(t, id, decode(t, lnktest.TypedValue(0x0048, lnktest.GUID(id))).Data)

	var w lnktest.Writer
	w.U64(133485408000000000)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), decode(t, lnktest.TypedValue(0x0040, w.Bytes())).Data)
}

func TestReadTypedValueUnsupported(t *testing.T) {
	raw := lnktest.TypedValue(0x000E, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	c := wire.NewCursor(raw)
	v, err := ReadTypedValue(c, wire.DefaultCharset())
	require.NoError(t, err)
	assert.True(t, v.Unsupported)
	assert.Len(t, v.Raw, 12)
	assert.Zero(t, c.Len())

	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, v.Err(), &unsupported)
	assert.Equal(t, VTDecimal, unsupported.Type)

	vec := decode(t, lnktest.TypedValue(0x101F, []byte{0, 0, 0, 0}))
	assert.True(t, vec.Unsupported)
	assert.Equal(t, "VT_LPWSTR|VT_VECTOR", vec.Type.String())
}

func TestReadTypedValueTruncated(t *testing.T) {
	var w lnktest.Writer
	w.U32(100).U16('a')
	_, err := ReadTypedValue(wire.NewCursor(lnktest.TypedValue(0x001F, w.Bytes())), wire.DefaultCharset())
	require.ErrorIs(t, err, wire.ErrTruncatedInput)
	assert.Contains(t, err.Error(), "VT_LPWSTR")
}

func TestReadStorageStringNamed(t *testing.T) {
	raw := lnktest.Storage(StringNameFormat,
		lnktest.StringProperty("System.Title", lnktest.LPWSTR("Half-Life")),
		lnktest.StringProperty("Rating", lnktest.TypedValue(0x0013, []byte{99, 0, 0, 0})),
	)
	c := wire.NewCursor(raw)
	s, err := ReadStorage(c, wire.DefaultCharset())
	require.NoError(t, err)
	assert.Equal(t, len(raw), c.Pos())
	assert.True(t, s.IsStringNamed())
	require.Len(t, s.Properties, 2)

	p, ok := s.Lookup("System.Title")
	require.True(t, ok)
	assert.Equal(t, "Half-Life", p.Value.Data)

	p, ok = s.Lookup("Rating")
	require.True(t, ok)
	assert.Equal(t, uint32(99), p.Value.Data)

	_, ok = s.LookupID(5)
	assert.False(t, ok)
}

func TestReadStoreIntegerNamed(t *testing.T) {
	raw := lnktest.Concat(
		lnktest.Storage(appUserModelFormat,
			lnktest.IntProperty(5, lnktest.LPWSTR("Valve.Steam.Client")),
			lnktest.IntProperty(11, lnktest.TypedValue(0x000B, []byte{0xFF, 0xFF, 0, 0})),
		),
		lnktest.Storage(StringNameFormat),
		[]byte{0, 0, 0, 0},
	)
	c := wire.NewCursor(raw)
	stores, err := ReadStore(c, wire.DefaultCharset())
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Zero(t, c.Len())

	assert.False(t, stores[0].IsStringNamed())
	p, ok := stores[0].LookupID(5)
	require.True(t, ok)
	assert.Equal(t, "Valve.Steam.Client", p.Value.Data)
	p, ok = stores[0].LookupID(11)
	require.True(t, ok)
	assert.Equal(t, true, p.Value.Data)

	assert.Empty(t, stores[1].Properties)
}

func TestReadStorageBadVersion(t *testing.T) {
	raw := lnktest.Storage(StringNameFormat)
	raw[4] = 'X'
	c := wire.NewCursor(raw)
	_, err := ReadStorage(c, wire.DefaultCharset())
	require.ErrorIs(t, err, ErrBadVersion)
	assert.Equal(t, len(raw), c.Pos())
}

func TestReadStorageBadProperty(t *testing.T) {
	var bad lnktest.Writer
	bad.U32(4).U32(0)
	raw := lnktest.Storage(appUserModelFormat,
		lnktest.IntProperty(2, lnktest.TypedValue(0x0003, []byte{1, 0, 0, 0})),
		bad.Bytes(),
	)
	s, err := ReadStorage(wire.NewCursor(raw), wire.DefaultCharset())
	require.ErrorIs(t, err, ErrBadSize)
	require.NotNil(t, s)
	assert.Len(t, s.Properties, 1)

	stores, err := ReadStore(wire.NewCursor(raw), wire.DefaultCharset())
	require.Error(t, err)
	assert.Len(t, stores, 1)
}
