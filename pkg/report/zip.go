// pkg/report/zip.go
package report

import (
	"fmt"
	"log/slog"
	"path"

	"github.com/creativeyann17/fat/internal/container"
)

// BuildZip reports on a ZIP archive. comment is the raw archive comment and
// sizeOnDisk the archive file size. Entries that cannot be read or whose
// path escapes the archive root are skipped with a warning; their sizes
// still count toward the totals.
func BuildZip(comment string, sizeOnDisk uint64, src container.Source, opts *Options) *Report {
	return buildZip(comment, sizeOnDisk, src, opts, nil)
}

func buildZip(comment string, sizeOnDisk uint64, src container.Source, opts *Options, progressCb ProgressCallback) *Report {
	if opts == nil {
		opts = &Options{}
	}
	opts.defaults()
	progressCb = opts.progress(progressCb)

	r := &Report{
		Format:     FormatZIP,
		Path:       opts.InputPath,
		SizeOnDisk: sizeOnDisk,
	}
	r.setComment(progressCb, comment)

	total := src.Len()
	r.emit(progressCb, ProgressEvent{Type: EventStart, Total: int64(total)})

	for i := 0; i < total; i++ {
		e, err := src.Entry(i)
		if err != nil {
			// unreadable entries still count toward the totals
			if e != nil {
				r.TotalCompressedSize += e.CompressedSize
				r.TotalUncompressedSize += e.UncompressedSize
			}
			r.warn(progressCb, fmt.Sprintf("entry %d skipped: %v", i, err))
			r.emit(progressCb, ProgressEvent{Type: EventEntry, Current: int64(i + 1), Total: int64(total)})
			continue
		}
		r.addEntry(progressCb, e, opts)
		r.emit(progressCb, ProgressEvent{Type: EventEntry, EntryName: e.Name, Current: int64(i + 1), Total: int64(total)})
	}

	r.emit(progressCb, ProgressEvent{Type: EventComplete, Current: int64(total), Total: int64(total)})
	return r
}

func (r *Report) setComment(progressCb ProgressCallback, raw string) {
	if raw == "" {
		return
	}
	text, ok := container.DecodeComment(raw)
	if !ok {
		r.warn(progressCb, "archive comment is not valid UTF-8, decoded as code page 437")
	}
	r.Comment = text
	r.CommentPresent = true
}

// addEntry folds one readable entry into the report. Sizes always count
// toward the totals; unsafe and excluded entries are not listed.
func (r *Report) addEntry(progressCb ProgressCallback, e *container.Entry, opts *Options) {
	r.TotalCompressedSize += e.CompressedSize
	r.TotalUncompressedSize += e.UncompressedSize

	if !e.Safe() {
		r.warn(progressCb, fmt.Sprintf("entry %q has a suspicious path, skipped", e.Name))
		return
	}
	r.addMethod(e.Method)

	if opts.excluded(e.EnclosedPath, e.IsDir) {
		r.Excluded++
		return
	}

	rec := EntryRecord{
		Path:             e.EnclosedPath,
		IsDir:            e.IsDir,
		CompressedSize:   e.CompressedSize,
		UncompressedSize: e.UncompressedSize,
		RatioPercent:     RatioPercent(e.CompressedSize, e.UncompressedSize),
		Modified:         e.Modified,
		CRC32:            e.CRC32,
		Encrypted:        e.Encrypted,
		Method:           e.Method,
	}
	if !e.IsDir {
		rec.TypeName = opts.Registry.NameFor(path.Ext(e.EnclosedPath))
	}
	if e.Comment != "" {
		text, ok := container.DecodeComment(e.Comment)
		if !ok {
			r.warn(progressCb, fmt.Sprintf("comment of %q is not valid UTF-8, decoded as code page 437", e.Name))
		}
		rec.Comment = text
	}
	if opts.Verbose {
		slog.Debug("entry", "path", rec.Path, "method", string(rec.Method), "size", rec.UncompressedSize)
	}
	r.Entries = append(r.Entries, rec)
}
