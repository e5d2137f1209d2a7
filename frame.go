package lsp

import "io"

// Frame is one complete message as delimited on the wire: a header block and
// a body whose length equals the header's Content-Length.
type Frame struct {
	Header Header
	Body   []byte
}

// NewFrame wraps body in a frame whose header announces its exact byte
// length. An empty contentType selects DefaultContentType.
func NewFrame(body []byte, contentType string) Frame {
	return Frame{
		Header: NewHeader(len(body), contentType),
		Body:   body,
	}
}

// Bytes returns the wire form of the frame.
func (f Frame) Bytes() []byte {
	buf := make([]byte, 0, 64+len(f.Body))
	buf = f.Header.AppendTo(buf)
	return append(buf, f.Body...)
}

// WriteTo writes the wire form of the frame to w in a single call.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}
