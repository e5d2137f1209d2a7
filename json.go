package lsp

import (
	"bytes"
	"encoding/json"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// objectBuilder renders a JSON object field by field in call order.
type objectBuilder struct {
	buf []byte
	n   int
}

func (b *objectBuilder) key(name string) {
	if b.n == 0 {
		b.buf = append(b.buf, '{')
	} else {
		b.buf = append(b.buf, ',')
	}
	b.n++
	b.buf = appendQuoted(b.buf, name)
	b.buf = append(b.buf, ':')
}

func (b *objectBuilder) raw(name string, value []byte) {
	b.key(name)
	b.buf = append(b.buf, value...)
}

func (b *objectBuilder) string(name, value string) {
	b.key(name)
	b.buf = appendQuoted(b.buf, value)
}

func (b *objectBuilder) int(name string, value int) {
	b.key(name)
	b.buf = strconv.AppendInt(b.buf, int64(value), 10)
}

func (b *objectBuilder) bool(name string, value bool) {
	b.key(name)
	b.buf = strconv.AppendBool(b.buf, value)
}

func (b *objectBuilder) value(name string, value json.Marshaler) error {
	data, err := value.MarshalJSON()
	if err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}
	b.raw(name, data)
	return nil
}

func (b *objectBuilder) bytes() []byte {
	if b.n == 0 {
		return []byte("{}")
	}
	return append(b.buf, '}')
}

const hexDigits = "0123456789abcdef"

// appendQuoted appends s as a JSON string. Invalid UTF-8 is replaced with
// U+FFFD so the output is always valid JSON.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				dst = append(dst, '\\', c)
			case c == '\n':
				dst = append(dst, '\\', 'n')
			case c == '\r':
				dst = append(dst, '\\', 'r')
			case c == '\t':
				dst = append(dst, '\\', 't')
			case c < 0x20:
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			default:
				dst = append(dst, c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, "\uFFFD"...)
		} else {
			dst = append(dst, s[i:i+size]...)
		}
		i += size
	}
	return append(dst, '"')
}

// marshalList renders a JSON array. A nil slice renders as null so that
// "no result" and "empty result" stay distinguishable.
func marshalList[T json.Marshaler](items []T) ([]byte, error) {
	if items == nil {
		return []byte("null"), nil
	}
	buf := []byte{'['}
	for i, item := range items {
		if i > 0 {
			buf = append(buf, ',')
		}
		data, err := item.MarshalJSON()
		if err != nil {
			return nil, errors.Wrapf(err, "encode item %d", i)
		}
		buf = append(buf, data...)
	}
	return append(buf, ']'), nil
}

// decodeList is the inverse of marshalList.
func decodeList[T any](raw json.RawMessage, path string, decode func(object) (T, error)) ([]T, error) {
	if isNull(raw) {
		return nil, nil
	}
	var elems []json.RawMessage
	if firstByte(raw) != '[' || json.Unmarshal(raw, &elems) != nil {
		return nil, wrongFieldType(path, "array")
	}
	out := make([]T, 0, len(elems))
	for i, elem := range elems {
		o, err := asObject(elem, path+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		item, err := decode(o)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func firstByte(raw []byte) byte {
	raw = bytes.TrimLeft(raw, " \t\r\n")
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func isNull(raw []byte) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// object is a decoded JSON object whose members are still raw. Accessors
// report failures as *FieldError using the dotted path of the member.
type object struct {
	path   string
	fields map[string]json.RawMessage
}

func asObject(raw json.RawMessage, path string) (object, error) {
	var fields map[string]json.RawMessage
	if firstByte(raw) != '{' || json.Unmarshal(raw, &fields) != nil {
		return object{}, wrongFieldType(path, "object")
	}
	return object{path: path, fields: fields}, nil
}

func (o object) name(field string) string {
	if o.path == "" {
		return field
	}
	return o.path + "." + field
}

// lookup returns the member value; explicit null counts as absent.
func (o object) lookup(field string) (json.RawMessage, bool) {
	raw, ok := o.fields[field]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

func (o object) has(field string) bool {
	_, ok := o.fields[field]
	return ok
}

func (o object) requireString(field string) (string, error) {
	s, ok, err := o.optionalString(field)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", missingField(o.name(field))
	}
	return s, nil
}

func (o object) optionalString(field string) (string, bool, error) {
	raw, ok := o.lookup(field)
	if !ok {
		return "", false, nil
	}
	var s string
	if firstByte(raw) != '"' || json.Unmarshal(raw, &s) != nil {
		return "", false, wrongFieldType(o.name(field), "string")
	}
	return s, true, nil
}

func (o object) requireInt(field string) (int, error) {
	n, ok, err := o.optionalInt(field)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, missingField(o.name(field))
	}
	return n, nil
}

func (o object) optionalInt(field string) (int, bool, error) {
	raw, ok := o.lookup(field)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(string(bytes.TrimSpace(raw)))
	if err != nil {
		return 0, false, wrongFieldType(o.name(field), "integer")
	}
	return n, true, nil
}

func (o object) optionalBool(field string) (bool, bool, error) {
	raw, ok := o.lookup(field)
	if !ok {
		return false, false, nil
	}
	switch string(bytes.TrimSpace(raw)) {
	case "true":
		return true, true, nil
	case "false":
		return false, true, nil
	}
	return false, false, wrongFieldType(o.name(field), "boolean")
}

func (o object) requireObject(field string) (object, error) {
	raw, ok := o.lookup(field)
	if !ok {
		return object{}, missingField(o.name(field))
	}
	return asObject(raw, o.name(field))
}

func (o object) optionalObject(field string) (object, bool, error) {
	raw, ok := o.lookup(field)
	if !ok {
		return object{}, false, nil
	}
	child, err := asObject(raw, o.name(field))
	return child, err == nil, err
}

// payload returns the member verbatim, including an explicit null, or nil
// when the member is absent.
func (o object) payload(field string) Payload {
	raw, ok := o.fields[field]
	if !ok {
		return nil
	}
	return Payload(raw)
}

func (o object) requireID(field string) (RequestID, error) {
	raw, ok := o.lookup(field)
	if !ok {
		return RequestID{}, missingField(o.name(field))
	}
	id, err := parseRequestID(raw)
	if err != nil {
		return RequestID{}, wrongFieldType(o.name(field), "integer or string")
	}
	return id, nil
}
