// pkg/fat/digest.go
package fat

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest returns the hex BLAKE3 digest of the file at path.
// onRead, when set, receives the size of every chunk read.
func Digest(path string, onRead func(n int)) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for digest: %w", err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, &ProgressReader{Reader: f, OnRead: onRead}); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
