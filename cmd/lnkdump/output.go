package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jtang613/golnk/pkg/lnk"
	"github.com/jtang613/golnk/pkg/lnk/extradata"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

type report struct {
	Shortcuts []*lnk.Shortcut   `json:"shortcuts" yaml:"shortcuts"`
	Skipped   []lnk.SkippedFile `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

func render(w io.Writer, shortcuts []*lnk.Shortcut, skipped []lnk.SkippedFile) error {
	if !viper.GetBool("all") {
		for _, sc := range shortcuts {
			sc.Link = nil
			sc.URL = nil
		}
	}
	r := report{Shortcuts: shortcuts, Skipped: skipped}

	switch viper.GetString("format") {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case formatText:
		return renderText(w, r)
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if viper.GetBool("pretty") {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func renderText(w io.Writer, r report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, sc := range r.Shortcuts {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\t(%s, %s)\n", sc.Title, sc.Kind, humanize.IBytes(uint64(sc.Size)))
		d := sc.Descriptor
		fmt.Fprintf(tw, "  Target:\t%s\n", d.Target)
		if d.Arguments != "" {
			fmt.Fprintf(tw, "  Arguments:\t%s\n", d.Arguments)
		}
		if d.WorkingDirectory != "" {
			fmt.Fprintf(tw, "  Working directory:\t%s\n", d.WorkingDirectory)
		}
		if d.DisplayName != nil {
			fmt.Fprintf(tw, "  Display name:\t%s\n", *d.DisplayName)
		}
		if l := sc.Link; l != nil {
			renderLinkText(tw, l)
		}
		for _, warn := range sc.Warnings {
			fmt.Fprintf(tw, "  Warning:\t%s\n", warn)
		}
	}
	if len(r.Skipped) > 0 {
		fmt.Fprintf(tw, "\nSkipped %s:\n", humanize.Comma(int64(len(r.Skipped))))
		for _, s := range r.Skipped {
			fmt.Fprintf(tw, "  %s\t%s\n", s.Path, s.Reason)
		}
	}
	return tw.Flush()
}

func renderLinkText(w io.Writer, l *lnk.ShellLink) {
	h := l.Header
	fmt.Fprintf(w, "  Flags:\t%s\n", h.LinkFlags)
	if h.FileAttributes != 0 {
		fmt.Fprintf(w, "  Attributes:\t%s\n", h.FileAttributes)
	}
	if !h.WriteTime.IsZero() {
		fmt.Fprintf(w, "  Target written:\t%s (%s)\n", h.WriteTime.UTC().Format("2006-01-02 15:04:05"), humanize.Time(h.WriteTime))
	}
	if h.FileSize != 0 {
		fmt.Fprintf(w, "  Target size:\t%s\n", humanize.IBytes(uint64(h.FileSize)))
	}
	fmt.Fprintf(w, "  Show command:\t%s\n", h.ShowCommand)
	if !h.HotKey.IsZero() {
		fmt.Fprintf(w, "  Hot key:\t%s\n", h.HotKey)
	}
	if li := l.LinkInfo; li != nil && li.VolumeID != nil {
		fmt.Fprintf(w, "  Volume:\t%s %q serial %08X\n", li.VolumeID.DriveType, li.VolumeID.VolumeLabel, li.VolumeID.DriveSerialNumber)
	}
	if l.ExtraData != nil && len(l.ExtraData.Blocks) > 0 {
		names := make([]string, 0, len(l.ExtraData.Blocks))
		for _, b := range l.ExtraData.Blocks {
			names = append(names, b.Signature().String())
		}
		fmt.Fprintf(w, "  Extra data:\t%s\n", strings.Join(names, ", "))
		if kf := l.ExtraData.KnownFolder(); kf != nil {
			fmt.Fprintf(w, "  Known folder:\t%s\n", kf.FolderName())
		}
		if ps := l.ExtraData.PropertyStore(); ps != nil {
			fmt.Fprintf(w, "  Properties:\t%s\n", humanize.Comma(int64(countProperties(ps))))
		}
	}
}

func countProperties(ps *extradata.PropertyStoreDataBlock) int {
	n := 0
	for _, s := range ps.Stores {
		n += len(s.Properties)
	}
	return n
}
