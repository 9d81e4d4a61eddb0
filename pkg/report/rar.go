// pkg/report/rar.go
package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/creativeyann17/fat/internal/container"
	"github.com/creativeyann17/fat/internal/rarheader"
)

// rarEntries is the sequential listing BuildRar consumes
type rarEntries interface {
	Next() (*container.Entry, error)
	Warning() string
}

// BuildRar reports on the RAR archive at path. Fatal conditions (unreadable
// or non-RAR file, multi-volume set, encrypted headers) return an error,
// together with a report carrying the explanatory warning when one exists.
func BuildRar(path string, opts *Options) (*Report, error) {
	return buildRarFile(path, opts, nil)
}

func buildRarFile(filePath string, opts *Options, progressCb ProgressCallback) (*Report, error) {
	if opts == nil {
		opts = &Options{}
	}
	opts.defaults()
	progressCb = opts.progress(progressCb)

	r := &Report{Format: FormatRAR, Path: filePath}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	r.SizeOnDisk = uint64(stat.Size())

	info, err := rarheader.Probe(f, stat.Size())
	if err != nil {
		r.warn(progressCb, err.Error())
		return r, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	if fatal := r.applyProbe(progressCb, info); fatal != nil {
		return r, fatal
	}

	arc, err := container.OpenRar(filePath, info)
	if err != nil {
		r.warn(progressCb, err.Error())
		return r, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	defer arc.Close()

	slog.Debug("rar archive opened", "path", filePath, "outcome", arc.Outcome().String())
	r.listRar(progressCb, arc, opts)
	return r, nil
}

// applyProbe copies the main header facts onto the report and returns the
// error for conditions that prevent listing
func (r *Report) applyProbe(progressCb ProgressCallback, info *rarheader.Info) error {
	r.Version = info.Version
	r.Solid = info.Solid
	r.Locked = info.Locked
	r.Recovery = info.Recovery
	r.CommentPresent = info.Comment

	if info.Volume {
		r.warn(progressCb, "this is a multi-part archive, which is not supported")
		return ErrMultiVolume
	}
	if info.HeadersEncrypted {
		r.warn(progressCb, "archive headers are encrypted, a password is required to list entries")
		return ErrEncryptedHeaders
	}
	return nil
}

// listRar walks a RAR listing. Per-entry failures become warnings and the
// walk continues until the lister reports io.EOF.
func (r *Report) listRar(progressCb ProgressCallback, arc rarEntries, opts *Options) {
	if w := arc.Warning(); w != "" {
		r.warn(progressCb, fmt.Sprintf("archive is partly damaged, continuing: %s", w))
	}

	r.emit(progressCb, ProgressEvent{Type: EventStart})
	var n int64
	for {
		e, err := arc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		n++
		if err != nil {
			r.warn(progressCb, fmt.Sprintf("entry %d skipped: %v", n, err))
			continue
		}
		r.addRarEntry(progressCb, e, opts)
		r.emit(progressCb, ProgressEvent{Type: EventEntry, EntryName: e.Name, Current: n})
	}
	r.emit(progressCb, ProgressEvent{Type: EventComplete, Current: n, Total: n})
}

func (r *Report) addRarEntry(progressCb ProgressCallback, e *container.Entry, opts *Options) {
	r.TotalCompressedSize += e.CompressedSize
	r.TotalUncompressedSize += e.UncompressedSize

	if !e.Safe() {
		r.warn(progressCb, fmt.Sprintf("entry %q has a suspicious path, skipped", e.Name))
		return
	}
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
		Encrypted:        e.Encrypted,
	}
	if !e.IsDir {
		rec.TypeName = opts.Registry.NameFor(path.Ext(e.EnclosedPath))
	}
	r.Entries = append(r.Entries, rec)
}
