// pkg/report/options.go
package report

import (
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/creativeyann17/fat/pkg/registry"
)

// Options configures report generation
type Options struct {
	// InputPath is the archive to inspect (required by Inspect and BuildRar)
	InputPath string

	// Registry resolves entry type names
	// Default: the embedded registry
	Registry *registry.Registry

	// Exclude holds gitignore-style patterns; matching entries are counted
	// but not listed
	Exclude []string

	// Verbose enables debug logging of every entry
	Verbose bool

	// Quiet drops progress events and warning logs. Warnings are still
	// recorded on the report.
	Quiet bool

	exclude *ignore.GitIgnore
}

// Validate checks if options are valid and fills in defaults
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return ErrInputRequired
	}
	o.defaults()
	return nil
}

func (o *Options) defaults() {
	if o.Quiet {
		o.Verbose = false
	}
	if o.Registry == nil {
		o.Registry = registry.Default()
	}
	if o.exclude == nil && len(o.Exclude) > 0 {
		var lines []string
		for _, p := range o.Exclude {
			if p = strings.TrimSpace(p); p != "" {
				lines = append(lines, p)
			}
		}
		if len(lines) > 0 {
			o.exclude = ignore.CompileIgnoreLines(lines...)
		}
	}
}

// progress returns cb, or nil when Quiet is set
func (o *Options) progress(cb ProgressCallback) ProgressCallback {
	if o.Quiet {
		return nil
	}
	return cb
}

// excluded reports whether an enclosed path matches an exclude pattern
func (o *Options) excluded(enclosedPath string, isDir bool) bool {
	if o.exclude == nil {
		return false
	}
	if isDir && o.exclude.MatchesPath(enclosedPath+"/") {
		return true
	}
	return o.exclude.MatchesPath(enclosedPath)
}
