// internal/container/path.go
package container

import (
	"path"
	"strings"
)

// EnclosedPath sanitizes a raw archive entry name into a relative,
// slash-separated path. It returns "" when the name is unsafe to use as a
// path: absolute, drive-qualified, containing a NUL byte, or containing any
// ".." segment. Backslashes are treated as separators.
func EnclosedPath(name string) string {
	if name == "" || strings.ContainsRune(name, 0) {
		return ""
	}

	name = strings.ReplaceAll(name, `\`, "/")
	if strings.HasPrefix(name, "/") || hasDriveLetter(name) {
		return ""
	}

	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return ""
		}
	}

	cleaned := path.Clean(name)
	if cleaned == "." {
		return ""
	}
	return cleaned
}

func hasDriveLetter(name string) bool {
	if len(name) < 2 || name[1] != ':' {
		return false
	}
	c := name[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
