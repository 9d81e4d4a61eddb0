// pkg/sniff/sniff.go
package sniff

import (
	"fmt"
	"log/slog"

	"github.com/creativeyann17/fat/internal/container"
	"github.com/creativeyann17/fat/pkg/registry"
)

// state carries what a pass has seen so far
type state struct {
	manifestSeen bool
}

// step feeds one entry name to the pass. It returns the format and true
// when the name decides it.
func (s *state) step(name string) (FormatID, bool) {
	if id, ok := firstMatch(exactRules, name); ok {
		return id, true
	}
	if name == manifestName {
		s.manifestSeen = true
		return "", false
	}
	return firstMatch(patternRules, name)
}

func (s *state) result() FormatID {
	if s.manifestSeen {
		return JAR
	}
	return Generic
}

// Sniff guesses the concrete format of a ZIP archive from its entry names.
// Entries are visited in physical order and the first landmark wins.
// Unreadable entries are logged and skipped; Sniff never fails.
func Sniff(src container.Source) FormatID {
	var s state
	for i := 0; i < src.Len(); i++ {
		e, err := src.Entry(i)
		if err != nil {
			slog.Warn("skipping unreadable entry while sniffing", "index", i, "error", err)
			continue
		}
		if id, ok := s.step(e.Name); ok {
			slog.Debug("landmark entry found", "entry", e.Name, "format", string(id))
			return id
		}
	}
	return s.result()
}

// SniffNames runs the same pass over plain entry names
func SniffNames(names []string) FormatID {
	var s state
	for _, name := range names {
		if id, ok := s.step(name); ok {
			return id
		}
	}
	return s.result()
}

// Resolve maps a format id to its extension through the registry
func Resolve(reg *registry.Registry, id FormatID) (string, error) {
	ext, err := reg.ExtensionFor(string(id))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", id, err)
	}
	return ext, nil
}
