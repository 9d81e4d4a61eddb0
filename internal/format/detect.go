// internal/format/detect.go
package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// ContainerFormat represents the detected outer container format
type ContainerFormat int

const (
	FormatUnknown ContainerFormat = iota
	FormatZIP
	FormatRAR3
	FormatRAR5
	FormatXZ
	FormatZstd
	FormatGzip
	Format7z
)

var (
	zipLocalMagic = []byte("PK\x03\x04")
	zipEmptyMagic = []byte("PK\x05\x06") // empty archive, end of central directory only
	zipSpanMagic  = []byte("PK\x07\x08") // spanned archive marker
	rar3Magic     = []byte("Rar!\x1A\x07\x00")
	rar5Magic     = []byte("Rar!\x1A\x07\x01\x00")
	zstdMagic     = []byte{0x28, 0xB5, 0x2F, 0xFD}
	gzipMagic     = []byte{0x1F, 0x8B}
	sevenZipMagic = []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}
)

// String returns the string representation of the format
func (f ContainerFormat) String() string {
	switch f {
	case FormatZIP:
		return "ZIP"
	case FormatRAR3:
		return "RAR3"
	case FormatRAR5:
		return "RAR5"
	case FormatXZ:
		return "XZ"
	case FormatZstd:
		return "ZSTD"
	case FormatGzip:
		return "GZIP"
	case Format7z:
		return "7Z"
	default:
		return "UNKNOWN"
	}
}

// Extension returns the conventional file extension for the format, or ""
func (f ContainerFormat) Extension() string {
	switch f {
	case FormatZIP:
		return "zip"
	case FormatRAR3, FormatRAR5:
		return "rar"
	case FormatXZ:
		return "xz"
	case FormatZstd:
		return "zst"
	case FormatGzip:
		return "gz"
	case Format7z:
		return "7z"
	default:
		return ""
	}
}

// IsRAR reports whether the format is any RAR generation
func (f ContainerFormat) IsRAR() bool {
	return f == FormatRAR3 || f == FormatRAR5
}

// Detect detects the container format from magic bytes.
// Short inputs only match the formats whose magic fits.
func Detect(magic []byte) ContainerFormat {
	switch {
	case bytes.HasPrefix(magic, zipLocalMagic),
		bytes.HasPrefix(magic, zipEmptyMagic),
		bytes.HasPrefix(magic, zipSpanMagic):
		return FormatZIP
	case bytes.HasPrefix(magic, rar5Magic):
		return FormatRAR5
	case bytes.HasPrefix(magic, rar3Magic):
		return FormatRAR3
	case len(magic) >= xz.HeaderLen && xz.ValidHeader(magic[:xz.HeaderLen]):
		return FormatXZ
	case bytes.HasPrefix(magic, zstdMagic):
		return FormatZstd
	case bytes.HasPrefix(magic, sevenZipMagic):
		return Format7z
	case bytes.HasPrefix(magic, gzipMagic):
		return FormatGzip
	}
	return FormatUnknown
}

// DetectReader reads the leading bytes at offset 0 and detects the format.
// Files shorter than the longest magic are still classified.
func DetectReader(r io.ReaderAt) (ContainerFormat, error) {
	buf := make([]byte, xz.HeaderLen)
	n, err := r.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return FormatUnknown, fmt.Errorf("read magic: %w", err)
	}
	return Detect(buf[:n]), nil
}

// IsZIP returns true if the magic bytes indicate a ZIP file
func IsZIP(magic []byte) bool {
	return Detect(magic) == FormatZIP
}

// IsRAR returns true if the magic bytes indicate a RAR file of any version
func IsRAR(magic []byte) bool {
	return Detect(magic).IsRAR()
}
