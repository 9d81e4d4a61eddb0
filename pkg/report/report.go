// pkg/report/report.go
//
// Package report lists the contents of ZIP and RAR archives: entries,
// sizes, compression ratios, methods, comments and anything suspicious
// found along the way.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/creativeyann17/fat/internal/container"
	"github.com/creativeyann17/fat/internal/format"
)

// Inspect builds the report for opts.InputPath. The container type is taken
// from the file extension when it names one, and from the magic bytes otherwise.
func Inspect(opts *Options, progressCb ProgressCallback) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	kind, err := containerOf(opts.InputPath)
	if err != nil {
		return nil, err
	}

	switch {
	case kind == format.FormatZIP:
		return inspectZip(opts, progressCb)
	case kind.IsRAR():
		return buildRarFile(opts.InputPath, opts, progressCb)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind)
	}
}

func containerOf(filePath string) (format.ContainerFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), ".")) {
	case "zip":
		return format.FormatZIP, nil
	case "rar":
		return format.FormatRAR5, nil
	}

	f, err := os.Open(filePath)
	if err != nil {
		return format.FormatUnknown, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	defer f.Close()

	kind, err := format.DetectReader(f)
	if err != nil {
		return format.FormatUnknown, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return kind, nil
}

func inspectZip(opts *Options, progressCb ProgressCallback) (*Report, error) {
	f, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	src, err := container.OpenZip(f, stat.Size())
	if src == nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	if err != nil && !opts.Quiet {
		slog.Warn("zip reader reported a problem", "path", opts.InputPath, "error", err)
	}

	r := buildZip(src.Comment(), uint64(stat.Size()), src, opts, progressCb)
	if err != nil {
		r.Warnings = append([]string{err.Error()}, r.Warnings...)
	}
	return r, nil
}
