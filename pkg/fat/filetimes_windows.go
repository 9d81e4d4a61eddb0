//go:build windows

package fat

import (
	"os"
	"syscall"
	"time"
)

// fileTimes returns creation and access times (Windows)
func fileTimes(fi os.FileInfo) (created, accessed time.Time) {
	d, ok := fi.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, time.Time{}
	}
	return time.Unix(0, d.CreationTime.Nanoseconds()), time.Unix(0, d.LastAccessTime.Nanoseconds())
}
