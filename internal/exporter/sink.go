package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink hands a finished archive to the host environment. Failure here
// is environment-fatal for the batch; it is never retried.
type Sink interface {
	Deliver(filename string, data []byte) error
}

// WriterSink delivers the archive to an io.Writer, typically an HTTP
// response streaming the download to a browser.
type WriterSink struct {
	W io.Writer
}

// Deliver writes the archive bytes to the underlying writer. The
// filename is the caller's concern (e.g. a Content-Disposition header
// set before delivery).
func (s WriterSink) Deliver(_ string, data []byte) error {
	if _, err := s.W.Write(data); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return nil
}

// FileSink delivers the archive as a file in a directory.
type FileSink struct {
	Dir string
}

// Deliver writes the archive to Dir/filename.
func (s FileSink) Deliver(filename string, data []byte) error {
	path := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write archive to %s: %w", path, err)
	}
	return nil
}
