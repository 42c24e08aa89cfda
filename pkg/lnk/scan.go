package lnk

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SkippedFile is a shortcut file that could not be resolved.
type SkippedFile struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// ScanResult lists the shortcuts of a directory.
type ScanResult struct {
	Shortcuts []*Shortcut   `json:"shortcuts" yaml:"shortcuts"`
	Skipped   []SkippedFile `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// ScanDir resolves every .lnk and .url file directly inside dir.
// Files are decoded concurrently, up to Options.Concurrency at a time.
// Invalid shortcuts are reported in Skipped; shortcuts are sorted by
// title. Cancellation is checked between files.
func ScanDir(ctx context.Context, dir string, opts *Options) (*ScanResult, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(cfg.Fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if _, ok := KindOf(p); !ok {
			cfg.Logger.Debug("not a shortcut file, skipping", zap.String(fieldPath, p))
			continue
		}
		paths = append(paths, p)
	}

	shortcuts := make([]*Shortcut, len(paths))
	failures := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, p := range paths {
		if gctx.Err() != nil {
			break
		}
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sc, err := cfg.resolve(p)
			if err != nil {
				failures[i] = err
				return nil
			}
			shortcuts[i] = sc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &ScanResult{Shortcuts: make([]*Shortcut, 0, len(paths))}
	for i, p := range paths {
		if failures[i] != nil {
			cfg.Logger.Debug("invalid shortcut file, skipping", zap.String(fieldPath, p), zap.Error(failures[i]))
			res.Skipped = append(res.Skipped, SkippedFile{Path: p, Reason: failures[i].Error()})
			continue
		}
		res.Shortcuts = append(res.Shortcuts, shortcuts[i])
	}
	sort.SliceStable(res.Shortcuts, func(a, b int) bool {
		ta, tb := strings.ToLower(res.Shortcuts[a].Title), strings.ToLower(res.Shortcuts[b].Title)
		if ta != tb {
			return ta < tb
		}
		return res.Shortcuts[a].Path < res.Shortcuts[b].Path
	})
	return res, nil
}
