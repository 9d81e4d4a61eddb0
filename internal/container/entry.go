// internal/container/entry.go
//
// Package container adapts third-party ZIP and RAR readers to one entry model.
// Only entry metadata is exposed; entry contents are never decoded here.
package container

import (
	"errors"
	"time"
)

// Method is a compression method tag such as "deflate" or "store"
type Method string

// Entry describes one member of a container. Entries are read-only views
// valid for the lifetime of the archive they came from.
type Entry struct {
	Name             string    // raw name as stored in the archive
	EnclosedPath     string    // sanitized path, "" when the raw name is unsafe
	IsDir            bool      // directory entry
	CompressedSize   uint64    // bytes stored in the archive
	UncompressedSize uint64    // bytes after extraction
	Method           Method    // compression method tag, "" when unknown
	Comment          string    // per-entry comment, raw bytes
	Encrypted        bool      // entry data is encrypted
	Modified         time.Time // zero when the archive does not record it
	CRC32            uint32    // checksum of the uncompressed data, 0 when unavailable
}

// Safe reports whether the entry name could be sanitized
func (e *Entry) Safe() bool {
	return e.EnclosedPath != ""
}

// Source is a random-access view over the entries of a container.
// A failing Entry call affects only that entry; the source stays usable.
// It may return a partial entry along with the error, carrying only the
// name and sizes.
type Source interface {
	Len() int
	Entry(i int) (*Entry, error)
}

var (
	// ErrUnsupportedMethod is returned for entries compressed with a method no decoder exists for
	ErrUnsupportedMethod = errors.New("unsupported compression method")

	// ErrUnsupportedEncryption is returned for entries using AES or strong encryption
	ErrUnsupportedEncryption = errors.New("unsupported encryption")

	// ErrEntryIndex is returned for an index outside the entry list
	ErrEntryIndex = errors.New("entry index out of range")
)
