package lnk

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jtang613/golnk/pkg/lnk/extradata"
	"github.com/jtang613/golnk/pkg/lnk/internal/lnktest"
	"github.com/jtang613/golnk/pkg/lnk/propstore"
	"github.com/jtang613/golnk/pkg/lnk/shllink"
)

func buildLink(flags shllink.LinkFlags, sections ...[]byte) []byte {
	parts := append([][]byte{lnktest.Header{LinkFlags: uint32(flags), ShowCommand: 1}.Bytes()}, sections...)
	return lnktest.Concat(parts...)
}

func envBlock(target string) []byte {
	return lnktest.Block(uint32(extradata.SigEnvironmentVariable), lnktest.Concat(
		lnktest.Fixed([]byte(target), 260),
		lnktest.Fixed(lnktest.UTF16(target), 520),
	))
}

func malformedLinkInfo() []byte {
	var w lnktest.Writer
	w.U32(0x1C).U32(0x1C).U32(uint32(shllink.VolumeIDAndLocalBasePath)).U32(0x400).U32(0).U32(0).U32(0)
	return w.Bytes()
}

func doomLink() []byte {
	return buildLink(
		shllink.HasLinkTargetIDList|shllink.HasLinkInfo|shllink.HasName|shllink.HasWorkingDir|shllink.HasArguments|shllink.IsUnicode,
		lnktest.IDList([]byte{0x1F, 0x50}),
		lnktest.LinkInfo{
			UnicodeHeader: true,
			Volume:        lnktest.VolumeID(uint32(shllink.DriveFixed), 42, "GAMES"),
			LocalANSI:     `C:\Games\Doom\doom.exe`,
			LocalUnicode:  `C:\Games\Doom\doom.exe`,
		}.Bytes(),
		lnktest.Counted("Doom", true),
		lnktest.Counted(`C:\Games\Doom`, true),
		lnktest.Counted("-skill 4", true),
		lnktest.Block(0xA0000077, []byte{9, 9, 9, 9}),
		envBlock(`%ProgramFiles%\Doom\doom.exe`),
		lnktest.Terminal(),
	)
}

func TestDecodeLink(t *testing.T) {
	l, err := DecodeLink(doomLink(), nil)
	require.NoError(t, err)
	assert.Empty(t, l.Warnings)
	assert.NoError(t, l.Warning())

	require.NotNil(t, l.IDList)
	assert.Len(t, l.IDList.Items, 1)
	require.NotNil(t, l.LinkInfo)
	assert.Equal(t, "GAMES", l.LinkInfo.VolumeID.VolumeLabel)
	require.NotNil(t, l.ExtraData)
	assert.Len(t, l.ExtraData.Blocks, 2)

	d := l.Descriptor()
	assert.Equal(t, `C:\Games\Doom\doom.exe`, d.Target)
	assert.Equal(t, "-skill 4", d.Arguments)
	assert.Equal(t, `C:\Games\Doom`, d.WorkingDirectory)
	require.NotNil(t, d.DisplayName)
	assert.Equal(t, "Doom", *d.DisplayName)
}

func TestDecodeLinkMinimal(t *testing.T) {
	l, err := DecodeLink(buildLink(0), nil)
	require.NoError(t, err)
	assert.Nil(t, l.IDList)
	assert.Nil(t, l.LinkInfo)
	assert.Empty(t, l.ExtraData.Blocks)

	d := l.Descriptor()
	assert.Empty(t, d.Target)
	assert.Nil(t, d.DisplayName)
}

func TestDecodeLinkHeaderErrors(t *testing.T) {
	_, err := DecodeLink(lnktest.Header{Size: 75}.Bytes(), nil)
	require.ErrorIs(t, err, ErrBadMagicSize)

	clsid := append([]byte(nil), lnktest.LinkCLSID...)
	clsid[0] ^= 0x01
	_, err = DecodeLink(lnktest.Header{CLSID: clsid}.Bytes(), nil)
	require.ErrorIs(t, err, ErrBadClassID)

	_, err = DecodeLink([]byte{0x4C, 0, 0, 0, 1, 2}, nil)
	require.ErrorIs(t, err, ErrTruncatedInput)
}

func TestDecodeLinkFramingIsFatal(t *testing.T) {
	var idlist lnktest.Writer
	idlist.U16(0x200).U16(0)
	_, err := DecodeLink(buildLink(shllink.HasLinkTargetIDList, idlist.Bytes()), nil)
	require.ErrorIs(t, err, ErrTruncatedInput)
	assert.False(t, IsRecoverable(err))

	var li lnktest.Writer
	li.U32(1)
	_, err = DecodeLink(buildLink(shllink.HasLinkInfo, li.Bytes()), nil)
	require.ErrorIs(t, err, ErrBadSectionSize)
}

func TestDecodeLinkMalformedLinkInfo(t *testing.T) {
	raw := buildLink(shllink.HasLinkInfo|shllink.HasName,
		malformedLinkInfo(),
		lnktest.Counted(`C:\Fallback\game.exe`, false),
		lnktest.Terminal(),
	)

	l, err := DecodeLink(raw, nil)
	require.NoError(t, err)
	assert.Nil(t, l.LinkInfo)
	require.Len(t, l.Warnings, 1)
	var liErr *LinkInfoDecodeError
	require.ErrorAs(t, l.Warning(), &liErr)
	assert.Equal(t, `C:\Fallback\game.exe`, l.Descriptor().Target)

	_, err = DecodeLink(raw, &Options{Strict: true})
	require.ErrorAs(t, err, &liErr)
}

func TestDecodeLinkTruncatedStringData(t *testing.T) {
	raw := buildLink(shllink.HasName|shllink.HasArguments,
		lnktest.Counted("Quake", false),
		[]byte{0x40, 0x00, '-', 'x'},
	)

	l, err := DecodeLink(raw, nil)
	require.NoError(t, err)
	require.Len(t, l.Warnings, 1)
	assert.ErrorIs(t, l.Warnings[0], ErrTruncatedInput)
	assert.Nil(t, l.ExtraData)
	assert.Equal(t, "Quake", l.Descriptor().Target)

	_, err = DecodeLink(raw, &Options{Strict: true})
	require.ErrorIs(t, err, ErrTruncatedInput)
}

func TestDescriptorTruncatedName(t *testing.T) {
	raw := buildLink(shllink.HasName|shllink.HasArguments, []byte{0x20, 0x00, 'Q', 'u'})

	l, err := DecodeLink(raw, nil)
	require.NoError(t, err)
	require.Len(t, l.Warnings, 1)
	require.NotNil(t, l.StringData)

	d := l.Descriptor()
	assert.Nil(t, d.DisplayName)
	assert.Empty(t, d.Target)
}

func TestDecodeLinkNonFinitePropertyEncodes(t *testing.T) {
	var nan lnktest.Writer
	nan.U64(math.Float64bits(math.NaN()))
	raw := buildLink(0,
		lnktest.Block(uint32(extradata.SigPropertyStore), lnktest.Concat(
			lnktest.Storage(propstore.StringNameFormat, lnktest.StringProperty("Score", lnktest.TypedValue(0x0005, nan.Bytes()))),
			lnktest.Terminal(),
		)),
		lnktest.Terminal(),
	)

	l, err := DecodeLink(raw, nil)
	require.NoError(t, err)
	assert.Empty(t, l.Warnings)

	out, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"data":"NaN"`)
}

func TestDecodeLinkBlockFailuresStayLocal(t *testing.T) {
	raw := buildLink(0,
		lnktest.Block(uint32(extradata.SigKnownFolder), []byte{1, 2, 3}),
		envBlock(`%SystemRoot%\notepad.exe`),
		lnktest.Terminal(),
	)

	core, logs := observer.New(zapcore.DebugLevel)
	l, err := DecodeLink(raw, &Options{Strict: true, Logger: zap.New(core)})
	require.NoError(t, err)
	require.Len(t, l.Warnings, 1)
	var blockErr *BlockError
	require.ErrorAs(t, l.Warnings[0], &blockErr)
	assert.Equal(t, extradata.SigKnownFolder, blockErr.Signature)
	assert.Equal(t, `%SystemRoot%\notepad.exe`, l.Descriptor().Target)

	entries := logs.FilterMessage("skipped extra data block").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "KnownFolderDataBlock", entries[0].ContextMap()[fieldSignature])
}

func TestDecodeLinkTruncatedChain(t *testing.T) {
	raw := buildLink(0, lnktest.Block(uint32(extradata.SigConsoleFE), []byte{1, 0, 0, 0}), []byte{0xFF, 0, 0, 0, 1})

	l, err := DecodeLink(raw, nil)
	require.NoError(t, err)
	require.Len(t, l.Warnings, 1)
	assert.Len(t, l.ExtraData.Blocks, 1)

	_, err = DecodeLink(raw, &Options{Strict: true})
	require.ErrorIs(t, err, ErrTruncatedInput)
}

func TestDescriptorNetworkTarget(t *testing.T) {
	raw := buildLink(shllink.HasLinkInfo,
		lnktest.LinkInfo{
			Network:    lnktest.NetworkLink(`\\nas\games`, "G:", 0x00020000, false),
			SuffixANSI: `Quake\quake.exe`,
		}.Bytes(),
		lnktest.Terminal(),
	)
	l, err := DecodeLink(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, `\\nas\games\Quake\quake.exe`, l.Descriptor().Target)
}

func TestDescriptorForceNoLinkInfo(t *testing.T) {
	raw := buildLink(shllink.HasLinkInfo|shllink.ForceNoLinkInfo,
		lnktest.LinkInfo{
			Volume:    lnktest.VolumeID(uint32(shllink.DriveFixed), 1, ""),
			LocalANSI: `C:\ignored.exe`,
		}.Bytes(),
		envBlock(`%USERPROFILE%\game.exe`),
		lnktest.Terminal(),
	)
	l, err := DecodeLink(raw, nil)
	require.NoError(t, err)
	require.NotNil(t, l.LinkInfo)
	assert.Equal(t, `%USERPROFILE%\game.exe`, l.Descriptor().Target)
}

func TestJoinWindowsPath(t *testing.T) {
	assert.Equal(t, `C:\a.exe`, joinWindowsPath(`C:\a.exe`, ""))
	assert.Equal(t, `C:\dir\a.exe`, joinWindowsPath(`C:\dir\`, "a.exe"))
	assert.Equal(t, `\\srv\share\a.exe`, joinWindowsPath(`\\srv\share`, "a.exe"))
}

func TestOptions(t *testing.T) {
	cfg, err := newConfig(nil)
	require.NoError(t, err)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "windows-1252", cfg.Codepage)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.NotNil(t, cfg.Logger)
	assert.NotNil(t, cfg.Fs)

	cfg, err = newConfig(&Options{Codepage: "windows-1251", Concurrency: 9})
	require.NoError(t, err)
	assert.Equal(t, "windows-1251", cfg.charset.Name())
	assert.Equal(t, 9, cfg.Concurrency)

	_, err = newConfig(&Options{Codepage: "klingon"})
	require.Error(t, err)
}
