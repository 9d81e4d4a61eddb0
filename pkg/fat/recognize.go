// pkg/fat/recognize.go
//
// Package fat ties the building blocks together for callers: it recognizes
// what a file really is, collects general file facts and hosts the helpers
// shared by the command line tool.
package fat

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/creativeyann17/fat/internal/container"
	"github.com/creativeyann17/fat/internal/format"
	"github.com/creativeyann17/fat/pkg/registry"
	"github.com/creativeyann17/fat/pkg/sniff"
)

// Recognition is the outcome of recognizing one file
type Recognition struct {
	Path      string                 `json:"path"`
	Nominal   string                 `json:"nominal_extension"` // extension from the file name, lower case, no dot
	Extension string                 `json:"extension"`         // recognized extension
	Container format.ContainerFormat `json:"-"`
	FormatID  sniff.FormatID         `json:"format_id,omitempty"` // set when the ZIP content was sniffed
	Info      registry.Extension     `json:"info"`
}

// Sniffed reports whether the ZIP content decided the extension
func (r *Recognition) Sniffed() bool {
	return r.FormatID != ""
}

// NominalExtension returns the lower-case extension of path without the dot
func NominalExtension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Recognize determines the real extension of the file at path. Files named
// .zip or without an extension are sniffed for ZIP-based formats; files
// without an extension are otherwise classified by their magic bytes, or
// sniffed when a ZIP directory sits behind a stub.
// A ZIP that cannot be read keeps the zip extension.
func Recognize(path string, reg *registry.Registry) (*Recognition, error) {
	if reg == nil {
		reg = registry.Default()
	}
	fi, err := CheckFile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	nominal := NominalExtension(path)
	rec := &Recognition{Path: path, Nominal: nominal, Extension: nominal}

	rec.Container, err = format.DetectReader(f)
	if err != nil {
		slog.Debug("magic detection failed", "path", path, "error", err)
	}

	if nominal == "zip" || nominal == "" {
		switch {
		case nominal == "zip" || rec.Container == format.FormatZIP:
			rec.Extension = sniffZip(rec, f, fi.Size(), reg)
		case rec.Container != format.FormatUnknown:
			rec.Extension = rec.Container.Extension()
		default:
			// self-extracting archives carry an executable stub before the ZIP
			if src, _ := container.OpenZip(f, fi.Size()); src != nil {
				rec.Extension = sniffSource(rec, src, reg)
			}
		}
	}

	rec.Info = reg.Lookup(rec.Extension)
	return rec, nil
}

func sniffZip(rec *Recognition, f *os.File, size int64, reg *registry.Registry) string {
	src, err := container.OpenZip(f, size)
	if src == nil {
		slog.Warn("could not recognize file as zip", "path", rec.Path, "error", err)
		return "zip"
	}
	if err != nil {
		slog.Debug("zip reader reported a problem", "path", rec.Path, "error", err)
	}
	return sniffSource(rec, src, reg)
}

func sniffSource(rec *Recognition, src container.Source, reg *registry.Registry) string {
	rec.FormatID = sniff.Sniff(src)
	ext, err := sniff.Resolve(reg, rec.FormatID)
	if err != nil {
		slog.Warn("could not recognize file as zip", "path", rec.Path, "error", err)
		return "zip"
	}
	return ext
}
