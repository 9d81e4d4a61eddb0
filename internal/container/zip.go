// internal/container/zip.go
package container

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// ZIP general purpose flag bits and method ids not exported by the zip package
const (
	zipFlagEncrypted       = 0x0001
	zipFlagStrongEncrypted = 0x0040

	zipMethodDeflate64 = 9
	zipMethodBzip2     = 12
	zipMethodLZMA      = 14
	zipMethodXZ        = 95
	zipMethodPPMd      = 98
	zipMethodAES       = 99
)

type zipMethod struct {
	tag       Method
	supported bool // a decoder for it exists in the stack
}

var zipMethods = map[uint16]zipMethod{
	zip.Store:            {"store", true},
	zip.Deflate:          {"deflate", true},
	zipMethodDeflate64:   {"deflate64", false},
	zipMethodBzip2:       {"bzip2", true},
	zipMethodLZMA:        {"lzma", false},
	zstd.ZipMethodPKWare: {"zstd", true},
	zstd.ZipMethodWinZip: {"zstd", true},
	zipMethodXZ:          {"xz", true},
	zipMethodPPMd:        {"ppmd", false},
	zipMethodAES:         {"aes", false},
}

// ZipMethod returns the tag for a ZIP method id
func ZipMethod(id uint16) Method {
	if m, ok := zipMethods[id]; ok {
		return m.tag
	}
	return Method(fmt.Sprintf("method-%d", id))
}

// ZipSource exposes the central directory of a ZIP archive as a Source
type ZipSource struct {
	reader *zip.Reader
}

// OpenZip reads the central directory of a ZIP archive of the given size.
// When the reader flags a problem but still returns a usable directory
// (insecure names, for instance), the source is returned with the error.
func OpenZip(r io.ReaderAt, size int64) (*ZipSource, error) {
	zr, err := zip.NewReader(r, size)
	if zr == nil {
		if err == nil {
			err = fmt.Errorf("zip reader unavailable")
		}
		return nil, fmt.Errorf("open zip: %w", err)
	}
	return &ZipSource{reader: zr}, err
}

// Comment returns the raw archive comment
func (z *ZipSource) Comment() string {
	return z.reader.Comment
}

// Len returns the number of central directory records
func (z *ZipSource) Len() int {
	return len(z.reader.File)
}

// Names returns every raw entry name in physical order
func (z *ZipSource) Names() []string {
	names := make([]string, len(z.reader.File))
	for i, f := range z.reader.File {
		names[i] = f.Name
	}
	return names
}

// Entry returns the metadata of the i-th entry. It fails when the local
// header cannot be read or when the entry needs a decoder or decryption
// scheme the stack does not provide. A failed entry is still returned with
// its name and central directory sizes.
func (z *ZipSource) Entry(i int) (*Entry, error) {
	if i < 0 || i >= len(z.reader.File) {
		return nil, fmt.Errorf("%w: %d", ErrEntryIndex, i)
	}
	f := z.reader.File[i]
	e := &Entry{
		Name:             f.Name,
		CompressedSize:   f.CompressedSize64,
		UncompressedSize: f.UncompressedSize64,
	}

	if f.Flags&zipFlagStrongEncrypted != 0 || f.Method == zipMethodAES {
		return e, fmt.Errorf("%s: %w", f.Name, ErrUnsupportedEncryption)
	}
	if m, ok := zipMethods[f.Method]; !ok || !m.supported {
		return e, fmt.Errorf("%s: %w (%s)", f.Name, ErrUnsupportedMethod, ZipMethod(f.Method))
	}
	if _, err := f.DataOffset(); err != nil {
		return e, fmt.Errorf("%s: read local header: %w", f.Name, err)
	}

	e.EnclosedPath = EnclosedPath(f.Name)
	e.IsDir = f.FileInfo().IsDir()
	e.Method = ZipMethod(f.Method)
	e.Comment = f.Comment
	e.Encrypted = f.Flags&zipFlagEncrypted != 0
	e.Modified = f.Modified
	e.CRC32 = f.CRC32
	return e, nil
}
