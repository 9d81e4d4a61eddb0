// pkg/fat/io.go
package fat

import "io"

// ProgressReader wraps an io.Reader with progress tracking
type ProgressReader struct {
	Reader io.Reader
	OnRead func(n int)
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	if n > 0 && pr.OnRead != nil {
		pr.OnRead(n)
	}
	return n, err
}
