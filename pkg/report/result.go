// pkg/report/result.go
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/creativeyann17/fat/internal/container"
)

// Format represents the archive container type
type Format string

const (
	FormatZIP Format = "ZIP"
	FormatRAR Format = "RAR"
)

// Report describes the contents of one archive
type Report struct {
	// Archive metadata
	Format         Format `json:"format"`
	Path           string `json:"path"`
	Comment        string `json:"comment,omitempty"`
	CommentPresent bool   `json:"comment_present"`
	SizeOnDisk     uint64 `json:"size_on_disk"`

	// Totals over every entry whose metadata was readable
	TotalCompressedSize   uint64             `json:"total_compressed_size"`
	TotalUncompressedSize uint64             `json:"total_uncompressed_size"`
	Methods               []container.Method `json:"methods"`

	Entries  []EntryRecord `json:"entries"`
	Warnings []string      `json:"warnings"`
	Excluded int           `json:"excluded,omitempty"`

	// RAR main header facts
	Version  string `json:"version,omitempty"`
	Solid    bool   `json:"solid,omitempty"`
	Locked   bool   `json:"locked,omitempty"`
	Recovery bool   `json:"recovery,omitempty"`
}

// EntryRecord is one listed entry
type EntryRecord struct {
	Path             string           `json:"path"`
	IsDir            bool             `json:"is_dir"`
	CompressedSize   uint64           `json:"compressed_size"`
	UncompressedSize uint64           `json:"uncompressed_size"`
	RatioPercent     float64          `json:"ratio_percent"`
	TypeName         string           `json:"type_name,omitempty"`
	Modified         time.Time        `json:"modified,omitzero"`
	CRC32            uint32           `json:"crc32"`
	Encrypted        bool             `json:"encrypted"`
	Comment          string           `json:"comment,omitempty"`
	Method           container.Method `json:"method,omitempty"`
}

// RatioPercent returns compressed/uncompressed as a percentage in [0, 100].
// An empty original gives 0 when nothing was stored and 100 otherwise.
func RatioPercent(compressed, uncompressed uint64) float64 {
	if uncompressed == 0 {
		if compressed == 0 {
			return 0
		}
		return 100
	}
	p := float64(compressed) / float64(uncompressed) * 100
	if p > 100 {
		return 100
	}
	return p
}

// Ratio returns the size on disk relative to the total uncompressed size
func (r *Report) Ratio() float64 {
	return RatioPercent(r.SizeOnDisk, r.TotalUncompressedSize)
}

// Success returns true if the report has no warnings
func (r *Report) Success() bool {
	return len(r.Warnings) == 0
}

// addMethod appends m unless it was already seen
func (r *Report) addMethod(m container.Method) {
	if m == "" {
		return
	}
	for _, seen := range r.Methods {
		if seen == m {
			return
		}
	}
	r.Methods = append(r.Methods, m)
}

// Summary returns a human-readable rendering of the report.
// When human is false sizes are printed as raw byte counts.
func (r *Report) Summary(human bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s information\n", r.Format)
	if r.Comment != "" {
		fmt.Fprintf(&b, "# Comment: %q\n", r.Comment)
	} else if r.CommentPresent {
		b.WriteString("# Comment: present (not shown)\n")
	}
	if r.Version != "" {
		fmt.Fprintf(&b, "# Version: %s", r.Version)
		for _, f := range []struct {
			set  bool
			name string
		}{{r.Solid, "solid"}, {r.Locked, "locked"}, {r.Recovery, "recovery record"}} {
			if f.set {
				fmt.Fprintf(&b, ", %s", f.name)
			}
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "# Compressed size: %s/%s (%.2f%%)\n",
		formatSize(r.SizeOnDisk, human), formatSize(r.TotalUncompressedSize, human), r.Ratio())

	fmt.Fprintf(&b, "# Contains %d entries", len(r.Entries))
	if r.Excluded > 0 {
		fmt.Fprintf(&b, " (%d excluded)", r.Excluded)
	}
	b.WriteString(":\n")
	for _, e := range r.Entries {
		if e.IsDir {
			fmt.Fprintf(&b, "%q\n", e.Path)
			continue
		}
		fmt.Fprintf(&b, "%q (%s/%s) (%.2f%%) (%s)",
			e.Path, formatSize(e.CompressedSize, human), formatSize(e.UncompressedSize, human),
			e.RatioPercent, e.TypeName)
		if !e.Modified.IsZero() {
			fmt.Fprintf(&b, " (last modified: %s)", e.Modified.Format(time.DateTime))
		}
		if r.Format == FormatZIP {
			fmt.Fprintf(&b, " (%d)", e.CRC32)
		}
		if e.Encrypted {
			b.WriteString(" (encrypted)")
		}
		b.WriteString("\n")
		if e.Comment != "" {
			fmt.Fprintf(&b, "  comment: %s\n", e.Comment)
		}
	}

	if len(r.Methods) > 0 {
		methods := make([]string, len(r.Methods))
		for i, m := range r.Methods {
			methods[i] = string(m)
		}
		fmt.Fprintf(&b, "# Compression methods used: %s\n", strings.Join(methods, " "))
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	return b.String()
}

func formatSize(n uint64, human bool) string {
	if !human {
		return fmt.Sprintf("%d", n)
	}
	return humanize.IBytes(n)
}
