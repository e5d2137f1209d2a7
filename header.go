package lsp

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
)

// Header field names and defaults.
const (
	ContentLengthKey   = "Content-Length"
	ContentTypeKey     = "Content-Type"
	DefaultContentType = "application/vscode-jsonrpc; charset=utf-8"
)

// maxHeaderLength bounds how many bytes may be buffered while waiting for the
// blank line that ends a header block.
const maxHeaderLength = 8 * 1024

// HeaderField is a single "Name: Value" line.
type HeaderField struct {
	Name  string
	Value string
}

// Header is the header block preceding a message body. Field names are case
// sensitive. Fields keep the order in which they were first set.
type Header struct {
	fields []HeaderField
}

// NewHeader returns a header announcing a body of contentLength bytes.
// An empty contentType selects DefaultContentType.
func NewHeader(contentLength int, contentType string) Header {
	if contentType == "" {
		contentType = DefaultContentType
	}
	return Header{fields: []HeaderField{
		{Name: ContentLengthKey, Value: strconv.Itoa(contentLength)},
		{Name: ContentTypeKey, Value: contentType},
	}}
}

// Get returns the value of the named field.
func (h Header) Get(name string) (string, bool) {
	for _, f := range h.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the named field or appends it. The receiver's field slice is
// copied first so headers shared between frames are never modified.
func (h *Header) Set(name, value string) {
	fields := make([]HeaderField, len(h.fields), len(h.fields)+1)
	copy(fields, h.fields)
	for i := range fields {
		if fields[i].Name == name {
			fields[i].Value = value
			h.fields = fields
			return
		}
	}
	h.fields = append(fields, HeaderField{Name: name, Value: value})
}

// Fields returns a copy of the fields in stored order.
func (h Header) Fields() []HeaderField {
	return append([]HeaderField(nil), h.fields...)
}

// Len returns the number of fields.
func (h Header) Len() int {
	return len(h.fields)
}

// ContentLength parses Content-Length as a positive base-10 integer.
// A missing field yields ErrMissingContentLength; anything other than
// ASCII digits, zero, or a value overflowing int yields ErrInvalidContentLength.
func (h Header) ContentLength() (int, error) {
	v, ok := h.Get(ContentLengthKey)
	if !ok {
		return 0, ErrMissingContentLength
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return 0, errors.Wrapf(ErrInvalidContentLength, "%q", v)
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, errors.Wrapf(ErrInvalidContentLength, "%q", v)
	}
	return n, nil
}

// ContentType returns Content-Type or DefaultContentType when absent.
func (h Header) ContentType() string {
	if v, ok := h.Get(ContentTypeKey); ok {
		return v
	}
	return DefaultContentType
}

// AppendTo renders every field as "Name: Value\r\n" followed by the
// terminating "\r\n", whatever terminators the header was parsed with.
func (h Header) AppendTo(dst []byte) []byte {
	for _, f := range h.fields {
		dst = append(dst, f.Name...)
		dst = append(dst, ':', ' ')
		dst = append(dst, f.Value...)
		dst = append(dst, '\r', '\n')
	}
	return append(dst, '\r', '\n')
}

func (h Header) String() string {
	return string(h.AppendTo(nil))
}

// ParseHeader parses a header block at the start of data and returns it
// together with the number of bytes it occupies, terminator included.
//
// Lines may end in "\r\n", "\n" or a bare "\r", mixed freely; the block ends
// at the first empty line. ErrIncompleteHeader means data ends before that
// line and the caller should retry with more bytes. A "\r" that is the last
// available byte is also incomplete, since it may be half of "\r\n".
func ParseHeader(data []byte) (Header, int, error) {
	var h Header
	pos := 0
	for {
		if pos > maxHeaderLength {
			return Header{}, 0, ErrHeaderTooLarge
		}

		i := bytes.IndexAny(data[pos:], "\r\n")
		if i < 0 {
			return Header{}, 0, incomplete(len(data))
		}
		end := pos + i
		next := end + 1
		if data[end] == '\r' {
			if next == len(data) {
				return Header{}, 0, incomplete(len(data))
			}
			if data[next] == '\n' {
				next++
			}
		}

		line := data[pos:end]
		if len(line) == 0 {
			return h, next, nil
		}

		name, value, err := parseHeaderLine(line)
		if err != nil {
			return Header{}, 0, err
		}
		h.Set(name, value)
		pos = next
	}
}

func incomplete(buffered int) error {
	if buffered > maxHeaderLength {
		return ErrHeaderTooLarge
	}
	return ErrIncompleteHeader
}

func parseHeaderLine(line []byte) (string, string, error) {
	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return "", "", errors.Wrapf(ErrInvalidHeaderField, "%q", line)
	}
	name := line[:colon]
	for _, c := range name {
		if c < 0x21 || c > 0x7e {
			return "", "", errors.Wrapf(ErrInvalidHeaderField, "%q", line)
		}
	}

	value := bytes.Trim(line[colon+1:], " \t")
	if len(value) == 0 {
		return "", "", errors.Wrapf(ErrEmptyHeaderValue, "field %q", name)
	}
	for _, c := range value {
		if (c < 0x20 && c != '\t') || c > 0x7e {
			return "", "", errors.Wrapf(ErrInvalidHeaderValue, "field %q", name)
		}
	}
	return string(name), string(value), nil
}
