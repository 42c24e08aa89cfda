package extradata

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtang613/golnk/pkg/lnk/internal/lnktest"
	"github.com/jtang613/golnk/pkg/lnk/propstore"
	"github.com/jtang613/golnk/pkg/lnk/wire"
)

func dualPathBody(ansi, unicode string) []byte {
	return lnktest.Concat(
		lnktest.Fixed([]byte(ansi), ansiPathSize),
		lnktest.Fixed(lnktest.UTF16(unicode), unicodePathSize),
	)
}

func read(t *testing.T, raw []byte) *ExtraData {
	t.Helper()
	ed, err := Read(wire.NewCursor(raw), wire.DefaultCharset())
	require.NoError(t, err)
	return ed
}

func TestReadTerminal(t *testing.T) {
	raw := lnktest.Concat(
		lnktest.Block(uint32(SigConsoleFE), []byte{0xE9, 0xFD, 0, 0}),
		lnktest.Terminal(),
		lnktest.Block(uint32(SigConsoleFE), []byte{1, 0, 0, 0}),
	)
	c := wire.NewCursor(raw)
	ed, err := Read(c, wire.DefaultCharset())
	require.NoError(t, err)
	require.Len(t, ed.Blocks, 1)
	assert.Equal(t, uint32(65001), ed.Blocks[0].(*ConsoleFEDataBlock).CodePage)
	assert.Equal(t, 12+4, c.Pos(), "nothing after the terminal block is consumed")
}

func TestReadEmpty(t *testing.T) {
	assert.Empty(t, read(t, nil).Blocks)
	assert.Empty(t, read(t, lnktest.Terminal()).Blocks)
	assert.Empty(t, read(t, []byte{0x01, 0x00}).Blocks)
}

func TestReadUnknownThenKnown(t *testing.T) {
	raw := lnktest.Concat(
		lnktest.Block(0xA00000FF, []byte{1, 2, 3, 4, 5}),
		lnktest.Block(uint32(SigEnvironmentVariable), dualPathBody(`%ProgramFiles%\a.exe`, `%ProgramFiles%\ä.exe`)),
		lnktest.Terminal(),
	)
	ed := read(t, raw)
	require.Len(t, ed.Blocks, 2)
	assert.Empty(t, ed.Failures)

	rawBlock, ok := ed.Blocks[0].(*RawBlock)
	require.True(t, ok)
	assert.Equal(t, Signature(0xA00000FF), rawBlock.Signature())
	assert.Equal(t, uint32(13), rawBlock.Size())
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, rawBlock.Data)
	assert.Equal(t, "0xA00000FF", rawBlock.Signature().String())

	env := ed.EnvironmentVariable()
	require.NotNil(t, env)
	assert.Equal(t, `%ProgramFiles%\a.exe`, env.TargetANSI)
	assert.Equal(t, `%ProgramFiles%\ä.exe`, env.Target())
	assert.Equal(t, "EnvironmentVariableDataBlock", env.Signature().String())
}

func TestReadBadBlockIsSkipped(t *testing.T) {
	raw := lnktest.Concat(
		lnktest.Block(uint32(SigKnownFolder), make([]byte, 4)),
		lnktest.Block(uint32(SigSpecialFolder), []byte{0x26, 0, 0, 0, 0x14, 0, 0, 0}),
		lnktest.Terminal(),
	)
	ed := read(t, raw)
	require.Len(t, ed.Failures, 1)
	assert.ErrorIs(t, ed.Failures[0], ErrInvalidBlock)
	assert.Equal(t, SigKnownFolder, ed.Failures[0].Signature)
	assert.Zero(t, ed.Failures[0].Offset)
	assert.True(t, ed.Failures[0].Recoverable())

	require.Len(t, ed.Blocks, 1)
	sf := ed.Blocks[0].(*SpecialFolderDataBlock)
	assert.Equal(t, "CSIDL_PROGRAM_FILES", sf.FolderName())
	assert.Equal(t, uint32(0x14), sf.Offset)
}

func TestReadTinyBlock(t *testing.T) {
	var w lnktest.Writer
	w.U32(6).U16(0)
	raw := lnktest.Concat(w.Bytes(), lnktest.Block(uint32(SigConsoleFE), []byte{0xB5, 0x01, 0, 0}), lnktest.Terminal())
	ed := read(t, raw)
	require.Len(t, ed.Failures, 1)
	assert.ErrorIs(t, ed.Failures[0], ErrInvalidBlock)
	require.Len(t, ed.Blocks, 1)
	assert.Equal(t, uint32(437), ed.Blocks[0].(*ConsoleFEDataBlock).CodePage)
}

func TestReadTruncatedChain(t *testing.T) {
	raw := lnktest.Concat(
		lnktest.Block(uint32(SigConsoleFE), []byte{1, 0, 0, 0}),
		[]byte{0x00, 0x01, 0x00, 0x00, 0x05, 0x00, 0x00, 0xA0},
	)
	ed, err := Read(wire.NewCursor(raw), wire.DefaultCharset())
	require.ErrorIs(t, err, wire.ErrTruncatedInput)
	assert.Len(t, ed.Blocks, 1)
}

func TestConsoleDataBlock(t *testing.T) {
	var w lnktest.Writer
	w.U16(uint16(ForegroundBlue | ForegroundGreen | ForegroundRed)).U16(uint16(BackgroundBlue | ForegroundIntensity))
	w.U16(120).U16(9001).U16(120).U16(30).U16(0).U16(0)
	w.Zeros(8)
	w.U16(8).U16(16).U32(0x36).U32(700)
	w.Raw(lnktest.Fixed(lnktest.UTF16("Consolas"), 64))
	w.U32(25).U32(0).U32(1).U32(1).U32(0)
	w.U32(50).U32(4).U32(1)
	for i := 0; i < 16; i++ {
		w.U32(uint32(i * 0x111111))
	}
	require.Equal(t, 0xCC-8, w.Len())

	ed := read(t, lnktest.Concat(lnktest.Block(uint32(SigConsole), w.Bytes()), lnktest.Terminal()))
	require.Len(t, ed.Blocks, 1)
	b, ok := Get[*ConsoleDataBlock](ed)
	require.True(t, ok)

	assert.Equal(t, []string{"FOREGROUND_BLUE", "FOREGROUND_GREEN", "FOREGROUND_RED"}, b.FillAttributes.Names())
	assert.Equal(t, "FOREGROUND_INTENSITY|BACKGROUND_BLUE", b.PopupFillAttributes.String())
	assert.Equal(t, int16(9001), b.ScreenBufferSizeY)
	assert.Equal(t, int16(30), b.WindowSizeY)
	assert.Equal(t, FontSize{Width: 8, Height: 16}, b.FontSize)
	assert.Equal(t, "FF_MODERN", b.FontFamily.Family())
	assert.Equal(t, []string{"TMPF_VECTOR", "TMPF_TRUETYPE"}, b.FontFamily.Pitch())
	assert.True(t, b.IsBold())
	assert.Equal(t, "Consolas", b.FaceName)
	assert.Equal(t, uint32(25), b.CursorSize)
	assert.False(t, b.FullScreen)
	assert.True(t, b.QuickEdit)
	assert.True(t, b.InsertMode)
	assert.False(t, b.AutoPosition)
	assert.Equal(t, uint32(50), b.HistoryBufferSize)
	assert.Equal(t, uint32(4), b.NumberOfHistoryBuffers)
	assert.True(t, b.HistoryNoDup)
	assert.Equal(t, uint32(15*0x111111), b.ColorTable[15])
}

func TestTrackerDataBlock(t *testing.T) {
	volume := uuid.MustParse("8A7F0D3A-3B4C-4D5E-8F60-718293A4B5C6")
	object := uuid.MustParse("1C2D3E4F-5A6B-11EE-9C7D-001122334455")

	body := func(length, version uint32) []byte {
		var w lnktest.Writer
		w.U32(length).U32(version).Raw(lnktest.Fixed([]byte("gamebox"), 16))
		w.Raw(lnktest.GUID(volume)).Raw(lnktest.GUID(object))
		w.Raw(lnktest.GUID(volume)).Raw(lnktest.GUID(object))
		return w.Bytes()
	}

	ed := read(t, lnktest.Concat(lnktest.Block(uint32(SigTracker), body(0x58, 0)), lnktest.Terminal()))
	b, ok := Get[*TrackerDataBlock](ed)
	require.True(t, ok)
	assert.Equal(t, "gamebox", b.MachineID)
	assert.Equal(t, [2]uuid.UUID{volume, object}, b.Droid)
	assert.Equal(t, [2]uuid.UUID{volume, object}, b.DroidBirth)

	ed = read(t, lnktest.Concat(lnktest.Block(uint32(SigTracker), body(0x58, 1)), lnktest.Terminal()))
	assert.Empty(t, ed.Blocks)
	require.Len(t, ed.Failures, 1)
	assert.ErrorIs(t, ed.Failures[0], ErrInvalidBlock)
	assert.Contains(t, ed.Failures[0].Error(), "version")
}

func TestStringBlocks(t *testing.T) {
	var shim lnktest.Writer
	shim.Raw(lnktest.Fixed(lnktest.UTF16("WINXPSP3"), 0x80))

	raw := lnktest.Concat(
		lnktest.Block(uint32(SigDarwin), dualPathBody("w>9-ansi", "")),
		lnktest.Block(uint32(SigIconEnvironment), dualPathBody("", `%SystemRoot%\icon.ico`)),
		lnktest.Block(uint32(SigShim), shim.Bytes()),
		lnktest.Terminal(),
	)
	ed := read(t, raw)
	require.Len(t, ed.Blocks, 3)
	assert.Empty(t, ed.Failures)

	darwin, _ := Get[*DarwinDataBlock](ed)
	assert.Equal(t, "w>9-ansi", darwin.ApplicationID())
	icon, _ := Get[*IconEnvironmentDataBlock](ed)
	assert.Equal(t, `%SystemRoot%\icon.ico`, icon.Target())
	s, _ := Get[*ShimDataBlock](ed)
	assert.Equal(t, "WINXPSP3", s.LayerName)
}

func TestKnownFolderDataBlock(t *testing.T) {
	var w lnktest.Writer
	w.Raw(lnktest.GUID(uuid.MustParse("905E63B6-C1BF-494E-B29C-65B732D3D21A"))).U32(0x3E)
	ed := read(t, lnktest.Concat(lnktest.Block(uint32(SigKnownFolder), w.Bytes()), lnktest.Terminal()))

	kf := ed.KnownFolder()
	require.NotNil(t, kf)
	assert.Equal(t, "FOLDERID_ProgramFiles", kf.FolderName())
	assert.Equal(t, uint32(0x3E), kf.Offset)
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", KnownFolderName(uuid.Nil))
}

func TestPropertyStoreDataBlock(t *testing.T) {
	appModel := uuid.MustParse("9F4C2855-9F79-4B39-A8D0-E1D42DE1D5F3")
	raw := lnktest.Concat(
		lnktest.Block(uint32(SigPropertyStore), lnktest.Concat(
			lnktest.Storage(appModel, lnktest.IntProperty(5, lnktest.LPWSTR("Contoso.Game"))),
			lnktest.Storage(propstore.StringNameFormat, lnktest.StringProperty("Genre", lnktest.LPWSTR("Puzzle"))),
			lnktest.Terminal(),
		)),
		lnktest.Terminal(),
	)
	ed := read(t, raw)
	ps := ed.PropertyStore()
	require.NotNil(t, ps)
	require.Len(t, ps.Stores, 2)

	p, ok := ps.LookupID(appModel, 5)
	require.True(t, ok)
	assert.Equal(t, "Contoso.Game", p.Value.Data)

	p, ok = ps.Lookup("Genre")
	require.True(t, ok)
	assert.Equal(t, "Puzzle", p.Value.Data)
}

func TestPropertyStorePartial(t *testing.T) {
	appModel := uuid.MustParse("9F4C2855-9F79-4B39-A8D0-E1D42DE1D5F3")
	bad := lnktest.Storage(appModel)
	bad[4] = 0
	raw := lnktest.Concat(
		lnktest.Block(uint32(SigPropertyStore), lnktest.Concat(
			lnktest.Storage(appModel, lnktest.IntProperty(5, lnktest.LPWSTR("Contoso.Game"))),
			bad,
		)),
		lnktest.Terminal(),
	)
	ed := read(t, raw)
	require.Len(t, ed.Failures, 1)
	assert.ErrorIs(t, ed.Failures[0], propstore.ErrBadVersion)
	ps := ed.PropertyStore()
	require.NotNil(t, ps)
	assert.Len(t, ps.Stores, 1)
}

func TestVistaAndAboveIDListDataBlock(t *testing.T) {
	list := lnktest.IDList([]byte{0x1F, 0x50, 0xE0, 0x4F})
	ed := read(t, lnktest.Concat(lnktest.Block(uint32(SigVistaAndAboveIDList), list[2:]), lnktest.Terminal()))
	b, ok := Get[*VistaAndAboveIDListDataBlock](ed)
	require.True(t, ok)
	require.Len(t, b.Items, 1)
	assert.Equal(t, []byte{0x1F, 0x50, 0xE0, 0x4F}, b.Items[0].Data)
}

func TestFixedSizeDecodersRejectShortBodies(t *testing.T) {
	for sig, d := range decoders {
		if d.exactSize == 0 {
			continue
		}
		body := make([]byte, d.exactSize-9)
		_, err := d.decode(BlockHeader{BlockSize: d.exactSize, BlockSignature: sig}, wire.NewCursor(body), wire.DefaultCharset())
		require.ErrorIs(t, err, wire.ErrTruncatedInput, d.name)
		assert.Contains(t, err.Error(), d.name)
	}
}
