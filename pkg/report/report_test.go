package report

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creativeyann17/fat/internal/container"
	"github.com/creativeyann17/fat/internal/rarheader"
)

func TestRatioPercent(t *testing.T) {
	tests := []struct {
		name         string
		compressed   uint64
		uncompressed uint64
		want         float64
	}{
		{"both zero", 0, 0, 0},
		{"empty original", 5, 0, 100},
		{"half", 50, 100, 50},
		{"stored", 100, 100, 100},
		{"expanded", 150, 100, 100},
		{"nothing stored", 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RatioPercent(tt.compressed, tt.uncompressed)
			assert.InDelta(t, tt.want, got, 0.0001)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

// fakeSource is an indexable source. Nil entries fail with no metadata;
// indexes in fail return their entry along with an error.
type fakeSource struct {
	entries []*container.Entry
	fail    map[int]bool
}

func (f *fakeSource) Len() int { return len(f.entries) }

func (f *fakeSource) Entry(i int) (*container.Entry, error) {
	if f.entries[i] == nil || f.fail[i] {
		return f.entries[i], container.ErrUnsupportedEncryption
	}
	return f.entries[i], nil
}

func entry(name string, method container.Method, compressed, uncompressed uint64) *container.Entry {
	return &container.Entry{
		Name:             name,
		EnclosedPath:     container.EnclosedPath(name),
		IsDir:            strings.HasSuffix(name, "/"),
		CompressedSize:   compressed,
		UncompressedSize: uncompressed,
		Method:           method,
	}
}

func TestBuildZipUnsafePath(t *testing.T) {
	src := &fakeSource{entries: []*container.Entry{
		entry("ok.txt", "deflate", 10, 20),
		entry("../evil.sh", "store", 5, 5),
	}}

	r := BuildZip("", 100, src, nil)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "../evil.sh")
	require.Len(t, r.Entries, 1)
	assert.Equal(t, "ok.txt", r.Entries[0].Path)
	assert.Equal(t, uint64(25), r.TotalUncompressedSize)
}

func TestBuildZipMethodsOrdered(t *testing.T) {
	src := &fakeSource{entries: []*container.Entry{
		entry("a", "deflate", 1, 2),
		entry("b", "store", 2, 2),
		entry("c", "deflate", 1, 2),
		entry("d", "bzip2", 1, 2),
	}}

	r := BuildZip("", 10, src, nil)
	assert.Equal(t, []container.Method{"deflate", "store", "bzip2"}, r.Methods)
	assert.Len(t, r.Entries, 4)
	assert.Empty(t, r.Warnings)
}

func TestBuildZipUnreadableEntry(t *testing.T) {
	src := &fakeSource{
		entries: []*container.Entry{
			nil,
			{Name: "secret.bin", CompressedSize: 100, UncompressedSize: 100000},
			entry("fine.txt", "store", 3, 3),
		},
		fail: map[int]bool{1: true},
	}

	r := BuildZip("", 103, src, nil)
	require.Len(t, r.Warnings, 2)
	assert.Contains(t, r.Warnings[0], "unsupported encryption")
	assert.Contains(t, r.Warnings[1], "unsupported encryption")
	require.Len(t, r.Entries, 1)
	assert.Equal(t, "fine.txt", r.Entries[0].Path)
	assert.Equal(t, []container.Method{"store"}, r.Methods)

	// sizes of the failed entry still count
	assert.Equal(t, uint64(103), r.TotalCompressedSize)
	assert.Equal(t, uint64(100003), r.TotalUncompressedSize)
	assert.InDelta(t, 0.103, r.Ratio(), 0.0001)
}

func TestBuildZipQuiet(t *testing.T) {
	src := &fakeSource{entries: []*container.Entry{
		entry("a", "store", 1, 1),
		entry("../b", "store", 1, 1),
	}}

	var events int
	opts := &Options{Quiet: true, Verbose: true}
	r := buildZip("", 2, src, opts, func(ProgressEvent) { events++ })
	assert.Zero(t, events)
	assert.False(t, opts.Verbose)
	// warnings are still recorded
	assert.Len(t, r.Warnings, 1)
}

func TestBuildZipRatioAndTypes(t *testing.T) {
	src := &fakeSource{entries: []*container.Entry{
		entry("docs/", "store", 0, 0),
		entry("docs/report.pdf", "deflate", 40, 100),
		entry("empty.txt", "store", 0, 0),
	}}

	r := BuildZip("", 80, src, nil)
	assert.InDelta(t, 80.0, r.Ratio(), 0.0001)

	require.Len(t, r.Entries, 3)
	assert.True(t, r.Entries[0].IsDir)
	assert.Empty(t, r.Entries[0].TypeName)
	assert.Equal(t, "Portable Document Format", r.Entries[1].TypeName)
	assert.InDelta(t, 40.0, r.Entries[1].RatioPercent, 0.0001)
	assert.Equal(t, 0.0, r.Entries[2].RatioPercent)

	// size on disk larger than the content is clamped
	assert.Equal(t, 100.0, BuildZip("", 1000, src, nil).Ratio())
	// empty archive
	assert.Equal(t, 0.0, BuildZip("", 0, &fakeSource{}, nil).Ratio())
}

func TestBuildZipComments(t *testing.T) {
	e := entry("notes.txt", "store", 1, 1)
	e.Comment = "caf\x82"
	src := &fakeSource{entries: []*container.Entry{e}}

	r := BuildZip("archive comment", 10, src, nil)
	assert.True(t, r.CommentPresent)
	assert.Equal(t, "archive comment", r.Comment)
	require.Len(t, r.Entries, 1)
	assert.Equal(t, "café", r.Entries[0].Comment)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "notes.txt")

	r = BuildZip("\x82t\x82", 10, &fakeSource{}, nil)
	assert.Equal(t, "été", r.Comment)
	assert.Len(t, r.Warnings, 1)
}

func TestBuildZipExclude(t *testing.T) {
	src := &fakeSource{entries: []*container.Entry{
		entry("src/main.go", "deflate", 10, 30),
		entry("build/", "store", 0, 0),
		entry("build/out.bin", "store", 50, 50),
		entry("debug.log", "bzip2", 5, 10),
	}}

	r := BuildZip("", 100, src, &Options{Exclude: []string{"build/", "*.log"}})
	assert.Equal(t, 3, r.Excluded)
	require.Len(t, r.Entries, 1)
	assert.Equal(t, "src/main.go", r.Entries[0].Path)
	// excluded entries still count toward totals and methods
	assert.Equal(t, uint64(90), r.TotalUncompressedSize)
	assert.Equal(t, []container.Method{"deflate", "store", "bzip2"}, r.Methods)
}

func TestBuildZipProgress(t *testing.T) {
	src := &fakeSource{entries: []*container.Entry{
		entry("a", "store", 1, 1),
		entry("../b", "store", 1, 1),
	}}

	var events []ProgressEvent
	buildZip("", 2, src, &Options{}, func(ev ProgressEvent) { events = append(events, ev) })

	require.NotEmpty(t, events)
	assert.Equal(t, EventStart, events[0].Type)
	assert.Equal(t, int64(2), events[0].Total)
	assert.Equal(t, EventComplete, events[len(events)-1].Type)

	var warnings int
	for _, ev := range events {
		if ev.Type == EventWarning {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
}

type fakeRar struct {
	results []fakeRarResult
	warning string
	i       int
}

type fakeRarResult struct {
	entry *container.Entry
	err   error
}

func (f *fakeRar) Next() (*container.Entry, error) {
	if f.i >= len(f.results) {
		return nil, io.EOF
	}
	r := f.results[f.i]
	f.i++
	return r.entry, r.err
}

func (f *fakeRar) Warning() string { return f.warning }

func TestListRar(t *testing.T) {
	arc := &fakeRar{
		warning: "main archive header checksum mismatch",
		results: []fakeRarResult{
			{entry: entry("docs/", "", 0, 0)},
			{entry: entry("docs/a.txt", "", 10, 40)},
			{err: errors.New("bad file header crc")},
			{entry: entry("../../escape", "", 1, 1)},
			{entry: entry("b.txt", "", 5, 0)},
		},
	}

	r := &Report{Format: FormatRAR}
	opts := &Options{}
	opts.defaults()
	r.listRar(nil, arc, opts)

	require.Len(t, r.Warnings, 3)
	assert.Contains(t, r.Warnings[0], "partly damaged")
	assert.Contains(t, r.Warnings[1], "bad file header crc")
	assert.Contains(t, r.Warnings[2], "../../escape")

	require.Len(t, r.Entries, 3)
	assert.Equal(t, "docs/a.txt", r.Entries[1].Path)
	assert.Equal(t, "Plain Text", r.Entries[1].TypeName)
	assert.Equal(t, 100.0, r.Entries[2].RatioPercent)
	assert.Empty(t, r.Methods)
	assert.Equal(t, uint64(41), r.TotalUncompressedSize)
}

type rarFixture struct {
	name     string
	dir      bool
	body     string
	unpacked uint32 // defaults to len(body)
}

// rar3Block encodes a RAR 1.5-4.x block: CRC(2) TYPE(1) FLAGS(2) SIZE(2) data
func rar3Block(htype byte, flags uint16, data []byte) []byte {
	block := make([]byte, 7, 7+len(data))
	block[2] = htype
	binary.LittleEndian.PutUint16(block[3:5], flags)
	binary.LittleEndian.PutUint16(block[5:7], uint16(7+len(data)))
	block = append(block, data...)
	binary.LittleEndian.PutUint16(block[0:2], uint16(crc32.ChecksumIEEE(block[2:])&0xFFFF))
	return block
}

// rar3File writes a RAR 1.5-4.x archive with the given main header flags.
// Files are stored uncompressed and followed by an end of archive block.
func rar3File(t *testing.T, flags uint16, files ...rarFixture) string {
	t.Helper()
	data := []byte("Rar!\x1A\x07\x00")
	data = append(data, rar3Block(0x73, flags, make([]byte, 6))...)

	// 2024-05-01 12:00:00 in DOS format
	const dosTime = (2024-1980)<<25 | 5<<21 | 1<<16 | 12<<11

	for _, f := range files {
		unpacked := f.unpacked
		if unpacked == 0 {
			unpacked = uint32(len(f.body))
		}
		fileFlags := uint16(0x8000) // data follows the header
		if f.dir {
			fileFlags |= 0x00e0
		}

		head := binary.LittleEndian.AppendUint32(nil, uint32(len(f.body)))
		head = binary.LittleEndian.AppendUint32(head, unpacked)
		head = append(head, 3) // unix host
		head = binary.LittleEndian.AppendUint32(head, crc32.ChecksumIEEE([]byte(f.body)))
		head = binary.LittleEndian.AppendUint32(head, dosTime)
		head = append(head, 29, 0x30) // unpack version, stored
		head = binary.LittleEndian.AppendUint16(head, uint16(len(f.name)))
		head = binary.LittleEndian.AppendUint32(head, 0)
		head = append(head, f.name...)

		data = append(data, rar3Block(0x74, fileFlags, head)...)
		data = append(data, f.body...)
	}
	data = append(data, rar3Block(0x7b, 0, nil)...)

	path := filepath.Join(t.TempDir(), "archive.rar")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestBuildRarListsEntries(t *testing.T) {
	path := rar3File(t, 0,
		rarFixture{name: "docs", dir: true},
		rarFixture{name: `docs\readme.txt`, body: "hello", unpacked: 20},
		rarFixture{name: "notes.md", body: "# fat"},
	)

	var events []ProgressEvent
	r, err := buildRarFile(path, &Options{}, func(ev ProgressEvent) { events = append(events, ev) })
	require.NoError(t, err)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, "RAR3", r.Version)
	assert.False(t, r.Solid)

	require.Len(t, r.Entries, 3)
	assert.True(t, r.Entries[0].IsDir)
	assert.Equal(t, "docs", r.Entries[0].Path)

	readme := r.Entries[1]
	assert.Equal(t, "docs/readme.txt", readme.Path)
	assert.Equal(t, uint64(5), readme.CompressedSize)
	assert.Equal(t, uint64(20), readme.UncompressedSize)
	assert.InDelta(t, 25.0, readme.RatioPercent, 0.0001)
	assert.Equal(t, "Plain Text", readme.TypeName)
	assert.Equal(t, 2024, readme.Modified.Year())

	assert.Equal(t, "Markdown Document", r.Entries[2].TypeName)
	assert.Equal(t, uint64(25), r.TotalUncompressedSize)
	assert.Empty(t, r.Methods)

	require.NotEmpty(t, events)
	assert.Equal(t, EventComplete, events[len(events)-1].Type)
	assert.Equal(t, int64(3), events[len(events)-1].Total)
}

func TestBuildRarDamagedMainHeader(t *testing.T) {
	path := rar3File(t, 0, rarFixture{name: "a.txt", body: "abc"})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// flip the stored main header checksum, right after the signature
	data[7] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	info, err := rarheader.Probe(f, int64(len(data)))
	require.NoError(t, err)
	arc, err := container.OpenRar(path, info)
	require.NoError(t, err)
	assert.Equal(t, container.OpenOKWithWarning, arc.Outcome())
	require.NoError(t, arc.Close())

	r, err := BuildRar(path, nil)
	require.NoError(t, err)
	require.NotEmpty(t, r.Warnings)
	assert.Contains(t, r.Warnings[0], "partly damaged")
	assert.Contains(t, r.Warnings[0], "checksum mismatch")
	require.Len(t, r.Entries, 1)
	assert.Equal(t, "a.txt", r.Entries[0].Path)
}

func TestBuildRarMultiVolume(t *testing.T) {
	r, err := BuildRar(rar3File(t, 0x0001|0x0008), nil)
	require.ErrorIs(t, err, ErrMultiVolume)
	require.NotNil(t, r)
	assert.Len(t, r.Warnings, 1)
	assert.Empty(t, r.Entries)
	assert.Equal(t, "RAR3", r.Version)
	assert.True(t, r.Solid)
}

func TestBuildRarEncryptedHeaders(t *testing.T) {
	r, err := BuildRar(rar3File(t, 0x0080), nil)
	require.ErrorIs(t, err, ErrEncryptedHeaders)
	assert.Len(t, r.Warnings, 1)
	assert.Empty(t, r.Entries)
}

func TestBuildRarNotRar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.rar")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an archive"), 0644))

	r, err := BuildRar(path, nil)
	require.ErrorIs(t, err, ErrOpenFailed)
	require.NotNil(t, r)
	assert.Len(t, r.Warnings, 1)

	_, err = BuildRar(filepath.Join(t.TempDir(), "missing.rar"), nil)
	assert.ErrorIs(t, err, ErrOpenFailed)
}

func writeZip(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for n, body := range files {
		fw, err := w.Create(n)
		require.NoError(t, err)
		_, err = fw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.SetComment("built by tests"))
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestInspectZip(t *testing.T) {
	path := writeZip(t, "bundle.zip", map[string]string{
		"readme.md": strings.Repeat("fat ", 100),
	})

	r, err := Inspect(&Options{InputPath: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, FormatZIP, r.Format)
	assert.Equal(t, path, r.Path)
	assert.Equal(t, "built by tests", r.Comment)
	require.Len(t, r.Entries, 1)
	assert.Equal(t, "Markdown Document", r.Entries[0].TypeName)
	assert.Equal(t, []container.Method{"deflate"}, r.Methods)

	summary := r.Summary(false)
	assert.Contains(t, summary, "## ZIP information")
	assert.Contains(t, summary, "readme.md")
	assert.Contains(t, summary, "# Compression methods used: deflate")
}

func TestInspectZipEncryptedEntry(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create("plain.txt")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("a"), 1000))
	require.NoError(t, err)

	// AES entry, only its central directory record matters
	fw, err = w.CreateRaw(&zip.FileHeader{
		Name:               "secret.bin",
		Method:             99,
		CompressedSize64:   100,
		UncompressedSize64: 100000,
	})
	require.NoError(t, err)
	_, err = fw.Write(make([]byte, 100))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "mixed.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	r, err := Inspect(&Options{InputPath: path}, nil)
	require.NoError(t, err)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "secret.bin")
	require.Len(t, r.Entries, 1)
	assert.Equal(t, uint64(101000), r.TotalUncompressedSize)
	assert.Less(t, r.Ratio(), 1.0)
}

func TestInspectByMagic(t *testing.T) {
	// no zip extension, detected from the magic bytes
	path := writeZip(t, "document.docx", map[string]string{"word/document.xml": "<w/>"})
	r, err := Inspect(&Options{InputPath: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, FormatZIP, r.Format)

	rar := rar3File(t, 0x0001)
	renamed := rar + ".bin"
	require.NoError(t, os.Rename(rar, renamed))
	_, err = Inspect(&Options{InputPath: renamed}, nil)
	assert.ErrorIs(t, err, ErrMultiVolume)
}

func TestInspectErrors(t *testing.T) {
	_, err := Inspect(&Options{}, nil)
	assert.ErrorIs(t, err, ErrInputRequired)

	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))
	_, err = Inspect(&Options{InputPath: path}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	broken := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(broken, []byte("PK\x03\x04 truncated"), 0644))
	_, err = Inspect(&Options{InputPath: broken}, nil)
	assert.ErrorIs(t, err, ErrOpenFailed)
}

func TestSummaryHumanSizes(t *testing.T) {
	r := &Report{
		Format:                FormatRAR,
		Version:               "RAR5",
		Solid:                 true,
		CommentPresent:        true,
		SizeOnDisk:            2048,
		TotalUncompressedSize: 4096,
		Entries: []EntryRecord{
			{Path: "a.bin", CompressedSize: 2048, UncompressedSize: 4096, RatioPercent: 50, TypeName: "unknown type"},
		},
		Warnings: []string{"something odd"},
	}

	s := r.Summary(true)
	assert.Contains(t, s, "# Version: RAR5, solid")
	assert.Contains(t, s, "# Comment: present (not shown)")
	assert.Contains(t, s, "2.0 KiB/4.0 KiB (50.00%)")
	assert.Contains(t, s, "Warnings (1)")
	assert.NotContains(t, s, "Compression methods used")
}
