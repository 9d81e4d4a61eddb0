// internal/container/rar.go
package container

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nwaples/rardecode"

	"github.com/creativeyann17/fat/internal/rarheader"
)

// maxRarFailures bounds consecutive listing failures before iteration stops
const maxRarFailures = 64

// OpenOutcome is the result class of opening a RAR archive
type OpenOutcome int

const (
	// OpenOK means the archive opened cleanly
	OpenOK OpenOutcome = iota
	// OpenOKWithWarning means the header is partly damaged but entries are readable
	OpenOKWithWarning
	// OpenFailed means nothing can be listed
	OpenFailed
)

// String returns the string representation of the outcome
func (o OpenOutcome) String() string {
	switch o {
	case OpenOK:
		return "ok"
	case OpenOKWithWarning:
		return "ok-with-warning"
	default:
		return "failed"
	}
}

// ErrRarOpen is returned when the RAR library cannot open the archive
var ErrRarOpen = errors.New("cannot open RAR archive")

// RarLister is the sequential header iterator rardecode provides
type RarLister interface {
	Next() (*rardecode.FileHeader, error)
}

// RarArchive iterates the entries of an opened RAR archive
type RarArchive struct {
	lister   RarLister
	closer   io.Closer
	warning  string
	lastErr  string
	failures int
	done     bool
}

// OpenRar opens the archive at path for listing. info comes from the header
// probe; any damage it recorded becomes the archive's open warning.
func OpenRar(path string, info *rarheader.Info) (*RarArchive, error) {
	rc, err := rardecode.OpenReader(path, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRarOpen, err)
	}

	var warning string
	if info != nil && info.Damaged() {
		warning = strings.Join(info.Warnings, "; ")
	}
	return NewRarArchive(rc, rc, warning), nil
}

// NewRarArchive wraps an existing lister. closer may be nil.
func NewRarArchive(lister RarLister, closer io.Closer, warning string) *RarArchive {
	return &RarArchive{lister: lister, closer: closer, warning: warning}
}

// Outcome classifies how the archive was opened
func (a *RarArchive) Outcome() OpenOutcome {
	if a.warning != "" {
		return OpenOKWithWarning
	}
	return OpenOK
}

// Warning returns the recoverable open problem, or ""
func (a *RarArchive) Warning() string {
	return a.warning
}

// Next returns the next entry, or io.EOF when the listing is over.
// A listing failure is returned once; if the library keeps reporting the
// same failure the listing ends instead of repeating it.
func (a *RarArchive) Next() (*Entry, error) {
	if a.done {
		return nil, io.EOF
	}

	h, err := a.lister.Next()
	if errors.Is(err, io.EOF) {
		a.done = true
		return nil, io.EOF
	}
	if err != nil {
		msg := err.Error()
		a.failures++
		if msg == a.lastErr || a.failures >= maxRarFailures {
			a.done = true
			return nil, io.EOF
		}
		a.lastErr = msg
		return nil, err
	}

	a.lastErr = ""
	a.failures = 0
	return rarEntry(h), nil
}

// Close releases the underlying file
func (a *RarArchive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// rarEntry converts a listed header. The v1 header does not expose the
// per-file encryption flag, so Encrypted stays false.
func rarEntry(h *rardecode.FileHeader) *Entry {
	e := &Entry{
		Name:         h.Name,
		EnclosedPath: EnclosedPath(h.Name),
		IsDir:        h.IsDir,
		Modified:     h.ModificationTime,
	}
	if h.PackedSize > 0 {
		e.CompressedSize = uint64(h.PackedSize)
	}
	if h.UnPackedSize > 0 && !h.UnKnownSize {
		e.UncompressedSize = uint64(h.UnPackedSize)
	}
	return e
}
