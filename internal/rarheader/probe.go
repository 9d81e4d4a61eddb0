// internal/rarheader/probe.go
//
// Package rarheader reads the signature and main archive header of RAR3 and
// RAR5 files. It only looks at headers: archive-wide flags (volume, comment,
// encrypted headers) and header checksums. Entry listing is left to the
// container library.
package rarheader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// Version enumerations
const (
	VersionRAR3 = "RAR3"
	VersionRAR5 = "RAR5"
)

// sfxWindow is how far into the file a signature is searched for, so that
// self-extracting archives with an executable stub are still recognized.
const sfxWindow = 1 << 20

var (
	sigPrefix = []byte("Rar!\x1A\x07")
	sigRAR3   = []byte("Rar!\x1A\x07\x00")
	sigRAR5   = []byte("Rar!\x1A\x07\x01\x00")
)

var (
	// ErrNotRAR is returned when no RAR signature is found
	ErrNotRAR = errors.New("RAR signature not found")

	// ErrNoMainHeader is returned when the block after the signature is not a main archive header
	ErrNoMainHeader = errors.New("main archive header not found")

	// ErrTruncated is returned when the file ends inside a header
	ErrTruncated = errors.New("archive header truncated")
)

// RAR3 block types and main header flags
const (
	rar3HeadMain = 0x73

	rar3FlagVolume   = 0x0001
	rar3FlagComment  = 0x0002
	rar3FlagLocked   = 0x0004
	rar3FlagSolid    = 0x0008
	rar3FlagRecovery = 0x0040
	rar3FlagPassword = 0x0080
)

// RAR5 header types and flags
const (
	rar5HeadMain    = 1
	rar5HeadService = 3
	rar5HeadCrypt   = 4

	rar5HFlagExtra = 0x0001
	rar5HFlagData  = 0x0002

	rar5ArcVolume    = 0x0001
	rar5ArcVolNumber = 0x0002
	rar5ArcSolid     = 0x0004
	rar5ArcRecovery  = 0x0008
	rar5ArcLocked    = 0x0010

	rar5FileMtime = 0x0002
	rar5FileCRC   = 0x0004

	// headers larger than this are treated as corrupt
	rar5MaxHeadSize = 2 * 1024 * 1024
	// service headers scanned after the main header before giving up on a comment
	rar5MaxServiceScan = 16
)

// Info holds what the main archive header says about the archive
type Info struct {
	Version          string
	SignatureOffset  int64 // non-zero for SFX archives
	Volume           bool  // part of a multi-volume set
	Comment          bool  // archive carries a comment
	HeadersEncrypted bool  // headers after the main header need a password
	Solid            bool
	Locked           bool
	Recovery         bool

	// Warnings lists header damage that did not prevent reading (checksum mismatches).
	Warnings []string
}

// Damaged reports whether the probe noticed recoverable header damage
func (i *Info) Damaged() bool {
	return len(i.Warnings) > 0
}

// Probe locates the RAR signature and decodes the main archive header
func Probe(r io.ReaderAt, size int64) (*Info, error) {
	offset, version, err := findSignature(r, size)
	if err != nil {
		return nil, err
	}

	info := &Info{Version: version, SignatureOffset: offset}
	switch version {
	case VersionRAR3:
		err = probeRAR3(r, offset+int64(len(sigRAR3)), size, info)
	case VersionRAR5:
		err = probeRAR5(r, offset+int64(len(sigRAR5)), size, info)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", version, err)
	}
	return info, nil
}

func findSignature(r io.ReaderAt, size int64) (int64, string, error) {
	window := int64(sfxWindow + len(sigRAR5))
	if size < window {
		window = size
	}
	buf := make([]byte, window)
	n, err := r.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, "", fmt.Errorf("read signature window: %w", err)
	}
	buf = buf[:n]

	base := 0
	for {
		i := bytes.Index(buf[base:], sigPrefix)
		if i < 0 {
			return 0, "", ErrNotRAR
		}
		at := base + i
		switch {
		case bytes.HasPrefix(buf[at:], sigRAR5):
			return int64(at), VersionRAR5, nil
		case bytes.HasPrefix(buf[at:], sigRAR3):
			return int64(at), VersionRAR3, nil
		}
		base = at + 1
	}
}

func readAt(r io.ReaderAt, pos int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := r.ReadAt(buf, pos)
	if got == n {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil, ErrTruncated
	}
	return nil, err
}

// probeRAR3 decodes the RAR 1.5-4.x main archive header:
// HEAD_CRC(2) HEAD_TYPE(1) HEAD_FLAGS(2) HEAD_SIZE(2) RESERVED(6) [ENCRYPT_VER(1)]
func probeRAR3(r io.ReaderAt, pos, size int64, info *Info) error {
	fixed, err := readAt(r, pos, 7)
	if err != nil {
		return err
	}
	crc := binary.LittleEndian.Uint16(fixed[0:2])
	headType := fixed[2]
	flags := binary.LittleEndian.Uint16(fixed[3:5])
	headSize := binary.LittleEndian.Uint16(fixed[5:7])

	if headType != rar3HeadMain {
		return fmt.Errorf("%w: block type %#x", ErrNoMainHeader, headType)
	}
	if headSize < 7 || pos+int64(headSize) > size {
		return ErrTruncated
	}

	head, err := readAt(r, pos, int(headSize))
	if err != nil {
		return err
	}
	if computed := uint16(crc32.ChecksumIEEE(head[2:]) & 0xFFFF); computed != crc {
		info.Warnings = append(info.Warnings,
			fmt.Sprintf("main archive header checksum mismatch (stored %04x, computed %04x)", crc, computed))
	}

	info.Volume = flags&rar3FlagVolume != 0
	info.Comment = flags&rar3FlagComment != 0
	info.Locked = flags&rar3FlagLocked != 0
	info.Solid = flags&rar3FlagSolid != 0
	info.Recovery = flags&rar3FlagRecovery != 0
	info.HeadersEncrypted = flags&rar3FlagPassword != 0
	return nil
}

// rar5Header is one decoded RAR5 block header
type rar5Header struct {
	start    int64
	headType uint64
	flags    uint64
	dataSize uint64
	body     cursor // positioned after the common fields
	extra    []byte // extra area, nil when absent
	next     int64  // offset of the following header
}

// readRAR5Header reads CRC32(4) HeadSize(vint) then HeadSize bytes of header.
// A checksum mismatch is recorded in info but does not stop decoding.
func readRAR5Header(r io.ReaderAt, pos, size int64, info *Info) (*rar5Header, error) {
	prefix, err := readAt(r, pos, 4)
	if err != nil {
		return nil, err
	}
	crc := binary.LittleEndian.Uint32(prefix)

	sizeBuf := make([]byte, maxVarintLen)
	n, rerr := r.ReadAt(sizeBuf, pos+4)
	if n == 0 && rerr != nil {
		return nil, ErrTruncated
	}
	headSize, sizeLen, err := readVarint(sizeBuf[:n])
	if err != nil {
		return nil, fmt.Errorf("header size at %d: %w", pos, err)
	}
	if headSize == 0 || headSize > rar5MaxHeadSize {
		return nil, fmt.Errorf("suspicious header size %d at %d", headSize, pos)
	}
	if pos+4+int64(sizeLen)+int64(headSize) > size {
		return nil, ErrTruncated
	}

	checked, err := readAt(r, pos+4, sizeLen+int(headSize))
	if err != nil {
		return nil, err
	}
	if computed := crc32.ChecksumIEEE(checked); computed != crc {
		info.Warnings = append(info.Warnings,
			fmt.Sprintf("header at offset %d checksum mismatch (stored %08x, computed %08x)", pos, crc, computed))
	}

	h := &rar5Header{start: pos, body: cursor{buf: checked[sizeLen:]}}
	if h.headType, err = h.body.varint(); err != nil {
		return nil, fmt.Errorf("header type: %w", err)
	}
	if h.flags, err = h.body.varint(); err != nil {
		return nil, fmt.Errorf("header flags: %w", err)
	}
	var extraSize uint64
	if h.flags&rar5HFlagExtra != 0 {
		if extraSize, err = h.body.varint(); err != nil {
			return nil, fmt.Errorf("extra area size: %w", err)
		}
	}
	if h.flags&rar5HFlagData != 0 {
		if h.dataSize, err = h.body.varint(); err != nil {
			return nil, fmt.Errorf("data size: %w", err)
		}
	}
	// the extra area sits at the end of the header
	if extraSize > 0 {
		remaining := uint64(len(h.body.buf) - h.body.pos)
		if extraSize > remaining {
			return nil, fmt.Errorf("extra area size %d exceeds header", extraSize)
		}
		end := uint64(len(h.body.buf)) - extraSize
		h.extra = h.body.buf[end:]
		h.body.buf = h.body.buf[:end]
	}

	h.next = pos + 4 + int64(sizeLen) + int64(headSize) + int64(h.dataSize)
	return h, nil
}

func probeRAR5(r io.ReaderAt, pos, size int64, info *Info) error {
	h, err := readRAR5Header(r, pos, size, info)
	if err != nil {
		return err
	}
	if h.headType == rar5HeadCrypt {
		// everything after the encryption header is ciphertext
		info.HeadersEncrypted = true
		return nil
	}
	if h.headType != rar5HeadMain {
		return fmt.Errorf("%w: header type %d", ErrNoMainHeader, h.headType)
	}

	arcFlags, err := h.body.varint()
	if err != nil {
		return fmt.Errorf("archive flags: %w", err)
	}
	info.Volume = arcFlags&rar5ArcVolume != 0
	info.Solid = arcFlags&rar5ArcSolid != 0
	info.Recovery = arcFlags&rar5ArcRecovery != 0
	info.Locked = arcFlags&rar5ArcLocked != 0
	if arcFlags&rar5ArcVolNumber != 0 {
		if _, err := h.body.varint(); err != nil {
			return fmt.Errorf("volume number: %w", err)
		}
	}

	// The comment is stored as a "CMT" service header right after the main header.
	next := h.next
	for i := 0; i < rar5MaxServiceScan && next < size; i++ {
		sh, err := readRAR5Header(r, next, size, info)
		if err != nil {
			// damage past the main header is the entry library's business
			return nil
		}
		if sh.headType != rar5HeadService {
			return nil
		}
		if name, err := serviceName(sh); err == nil && name == "CMT" {
			info.Comment = true
			return nil
		}
		next = sh.next
	}
	return nil
}

// serviceName decodes the name field of a service header, which shares the
// file header layout: FileFlags UnpSize Attributes [MTime] [DataCRC] CompInfo HostOS NameLen Name
func serviceName(h *rar5Header) (string, error) {
	c := h.body
	fileFlags, err := c.varint()
	if err != nil {
		return "", err
	}
	if _, err := c.varint(); err != nil { // unpacked size
		return "", err
	}
	if _, err := c.varint(); err != nil { // attributes
		return "", err
	}
	if fileFlags&rar5FileMtime != 0 {
		if err := c.skip(4); err != nil {
			return "", err
		}
	}
	if fileFlags&rar5FileCRC != 0 {
		if err := c.skip(4); err != nil {
			return "", err
		}
	}
	if _, err := c.varint(); err != nil { // compression info
		return "", err
	}
	if _, err := c.varint(); err != nil { // host OS
		return "", err
	}
	nameLen, err := c.varint()
	if err != nil {
		return "", err
	}
	name, err := c.bytes(nameLen)
	if err != nil {
		return "", err
	}
	return string(name), nil
}
