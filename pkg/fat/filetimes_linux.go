//go:build linux

package fat

import (
	"os"
	"syscall"
	"time"
)

// fileTimes returns creation and access times (Linux stat has no birth time)
func fileTimes(fi os.FileInfo) (created, accessed time.Time) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, time.Time{}
	}
	return time.Time{}, time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))
}
