//go:build darwin

package fat

import (
	"os"
	"syscall"
	"time"
)

// fileTimes returns creation and access times (macOS)
func fileTimes(fi os.FileInfo) (created, accessed time.Time) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, time.Time{}
	}
	return time.Unix(st.Birthtimespec.Unix()), time.Unix(st.Atimespec.Unix())
}
