// pkg/fat/helpers.go
package fat

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/creativeyann17/fat/pkg/report"
)

// ProgressBarCallback creates a report progress callback that displays an entry bar.
// RAR listings do not know their entry count up front; the bar total grows as
// entries arrive and is settled on completion.
// Returns the callback function and the progress container (call Wait() after operation)
func ProgressBarCallback() (report.ProgressCallback, *mpb.Progress) {
	progress := mpb.New(
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100),
	)

	var bar *mpb.Bar
	var dynamic bool
	var current atomic.Value // name of the last listed entry
	current.Store("")

	callback := func(event report.ProgressEvent) {
		switch event.Type {
		case report.EventStart:
			dynamic = event.Total == 0
			bar = progress.AddBar(event.Total,
				mpb.PrependDecorators(
					decor.Name("Entries", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Percentage(decor.WC{W: 5}),
					decor.Any(func(decor.Statistics) string {
						return TruncateLeft(current.Load().(string), 30)
					}, decor.WC{W: 32, C: decor.DindentRight | decor.DextraSpace}),
				),
			)

		case report.EventEntry:
			if bar == nil {
				return
			}
			current.Store(event.EntryName)
			if dynamic {
				bar.SetTotal(event.Current+1, false)
			}
			bar.SetCurrent(event.Current)

		case report.EventComplete:
			if bar == nil {
				return
			}
			// a negative total takes the current count and completes the bar
			bar.SetTotal(-1, true)
		}
	}

	return callback, progress
}

// DigestProgress creates a byte bar for hashing the file at path.
// Pass onRead to General or Digest, then call wait once hashing is over,
// whether it succeeded or not.
func DigestProgress(path string, size int64) (onRead func(n int), wait func()) {
	progress := mpb.New(
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100),
	)

	bar := progress.AddBar(size,
		mpb.PrependDecorators(
			decor.Name(TruncateLeft(path, 30), decor.WC{C: decor.DindentRight | decor.DextraSpace, W: 32}),
		),
		mpb.AppendDecorators(
			decor.CountersKibiByte("% .1f / % .1f", decor.WC{W: 18}),
			decor.Percentage(decor.WC{W: 5}),
		),
		mpb.BarRemoveOnComplete(),
	)

	wait = func() {
		// no-op for a bar that completed on its own
		bar.Abort(true)
		progress.Wait()
	}
	return bar.IncrBy, wait
}

// FormatSize formats bytes as IEC units, or as a raw count when human is false
func FormatSize(bytes uint64, human bool) string {
	if !human {
		return fmt.Sprintf("%d", bytes)
	}
	return humanize.IBytes(bytes)
}

// TruncateLeft truncates a path from the left to fit maxLen, preserving the filename
func TruncateLeft(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}

	// Try to preserve at least the filename
	filename := filepath.Base(path)
	if len(filename) >= maxLen-3 {
		return "..." + filename[len(filename)-(maxLen-3):]
	}

	// Truncate from left with ellipsis
	return "..." + path[len(path)-(maxLen-3):]
}
