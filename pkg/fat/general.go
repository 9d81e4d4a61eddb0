// pkg/fat/general.go
package fat

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrIsDirectory is returned when a file operation is given a directory
var ErrIsDirectory = errors.New("file is a directory")

// GeneralInfo holds file system facts about one file
type GeneralInfo struct {
	Name     string    `json:"name"`
	Size     uint64    `json:"size"`
	Created  time.Time `json:"created,omitzero"` // zero when the platform does not record it
	Modified time.Time `json:"modified"`
	Accessed time.Time `json:"accessed,omitzero"`
	ReadOnly bool      `json:"read_only"`
	BLAKE3   string    `json:"blake3,omitempty"`
}

// CheckFile returns the file info of path, failing for directories
func CheckFile(path string) (os.FileInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}
	return fi, nil
}

// General collects the file system facts of path. The BLAKE3 digest is
// computed only when digest is true; onRead, when set, is fed the size of
// every chunk hashed.
func General(path string, digest bool, onRead func(n int)) (*GeneralInfo, error) {
	fi, err := CheckFile(path)
	if err != nil {
		return nil, err
	}

	created, accessed := fileTimes(fi)
	info := &GeneralInfo{
		Name:     filepath.Base(path),
		Size:     uint64(fi.Size()),
		Created:  created,
		Modified: fi.ModTime(),
		Accessed: accessed,
		ReadOnly: fi.Mode().Perm()&0222 == 0,
	}

	if digest {
		sum, err := Digest(path, onRead)
		if err != nil {
			return info, err
		}
		info.BLAKE3 = sum
	}
	return info, nil
}

// Summary returns a human-readable rendering of the facts
func (g *GeneralInfo) Summary(human bool) string {
	var b strings.Builder
	b.WriteString("## General information:\n")
	fmt.Fprintf(&b, "# Name: %s\n", g.Name)
	fmt.Fprintf(&b, "# Size: %s\n", FormatSize(g.Size, human))
	writeTime(&b, "Created", g.Created)
	writeTime(&b, "Last modified", g.Modified)
	writeTime(&b, "Last accessed", g.Accessed)
	if g.ReadOnly {
		b.WriteString("# Readonly\n")
	} else {
		b.WriteString("# Readable and writable\n")
	}
	if g.BLAKE3 != "" {
		fmt.Fprintf(&b, "# BLAKE3: %s\n", g.BLAKE3)
	}
	return b.String()
}

func writeTime(b *strings.Builder, label string, t time.Time) {
	if t.IsZero() {
		fmt.Fprintf(b, "# %s: unavailable\n", label)
		return
	}
	fmt.Fprintf(b, "# %s: %s\n", label, t.Local().Format(time.DateTime))
}
