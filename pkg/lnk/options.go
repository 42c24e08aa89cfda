package lnk

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/jtang613/golnk/pkg/lnk/wire"
)

// Log field names.
const (
	fieldPath      = "path"
	fieldSignature = "signature"
	fieldOffset    = "offset"
)

// Options configures decoding. The zero value, or nil, is valid.
type Options struct {
	// Strict turns the first recoverable section failure into the
	// returned error instead of a warning.
	Strict bool `default:"false" json:"strict" yaml:"strict"`
	// Codepage names the ANSI code page of single-byte strings.
	Codepage string `default:"windows-1252" json:"codepage" yaml:"codepage"`
	// Concurrency bounds the number of files ScanDir decodes at once.
	Concurrency int `default:"4" json:"concurrency" yaml:"concurrency"`

	Logger *zap.Logger `json:"-" yaml:"-"`
	Fs     afero.Fs    `json:"-" yaml:"-"`
}

// config is a resolved Options.
type config struct {
	Options
	charset *wire.Charset
}

func newConfig(opts *Options) (*config, error) {
	cfg := &config{}
	if opts != nil {
		cfg.Options = *opts
	}
	if err := defaults.Set(&cfg.Options); err != nil {
		return nil, fmt.Errorf("failed to apply option defaults: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	cs, err := wire.NewCharset(cfg.Codepage)
	if err != nil {
		return nil, err
	}
	cfg.charset = cs
	return cfg, nil
}
