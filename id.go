package lsp

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// RequestID identifies a request so that its response can be matched to it.
// It is either an integer or a string; the zero value is the integer 0.
// RequestID is comparable and may be used as a map key.
type RequestID struct {
	num   int64
	str   string
	isStr bool
}

// NumberID returns an integer request id.
func NumberID(n int64) RequestID {
	return RequestID{num: n}
}

// StringID returns a string request id.
func StringID(s string) RequestID {
	return RequestID{str: s, isStr: true}
}

// IsString reports whether the id is the string variant.
func (id RequestID) IsString() bool {
	return id.isStr
}

// Number returns the integer value and true for the integer variant.
func (id RequestID) Number() (int64, bool) {
	return id.num, !id.isStr
}

// Text returns the string value and true for the string variant.
func (id RequestID) Text() (string, bool) {
	return id.str, id.isStr
}

// String renders the id the way it appears on the wire.
func (id RequestID) String() string {
	if id.isStr {
		return strconv.Quote(id.str)
	}
	return strconv.FormatInt(id.num, 10)
}

// MarshalJSON encodes the id as a JSON number or a JSON string.
func (id RequestID) MarshalJSON() ([]byte, error) {
	if id.isStr {
		return appendQuoted(nil, id.str), nil
	}
	return strconv.AppendInt(nil, id.num, 10), nil
}

// UnmarshalJSON accepts a JSON integer or a JSON string.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	parsed, err := parseRequestID(data)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func parseRequestID(data []byte) (RequestID, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return RequestID{}, errors.Wrap(err, "request id")
		}
		return StringID(s), nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return RequestID{}, errors.Errorf("request id must be an integer or a string, got %q", data)
	}
	return NumberID(n), nil
}
