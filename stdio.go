package lsp

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// Stream joins a reader and a writer into the io.ReadWriteCloser a Conn
// runs over. Closing it closes both halves.
type Stream struct {
	r io.ReadCloser
	w io.WriteCloser
}

// NewStream joins r and w.
func NewStream(r io.ReadCloser, w io.WriteCloser) *Stream {
	return &Stream{r: r, w: w}
}

// Stdio returns the process's standard input and output as a stream, the
// usual transport of a language server launched by an editor.
func Stdio() *Stream {
	return NewStream(os.Stdin, os.Stdout)
}

func (s *Stream) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

func (s *Stream) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Close closes the writer, then the reader. It returns the first error.
func (s *Stream) Close() error {
	werr := s.w.Close()
	rerr := s.r.Close()
	if werr != nil {
		return errors.Wrap(werr, "close writer")
	}
	if rerr != nil {
		return errors.Wrap(rerr, "close reader")
	}
	return nil
}
