package lsp

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// jsonrpcVersion is the only protocol version accepted and produced.
const jsonrpcVersion = "2.0"

// Payload is an opaque JSON value carried through decode and encode
// unchanged, byte for byte. A nil Payload encodes as null.
type Payload []byte

// NullPayload is the JSON null value.
var NullPayload = Payload("null")

// IsNull reports whether p is absent or the JSON null value.
func (p Payload) IsNull() bool {
	return isNull(p)
}

// MarshalJSON returns p verbatim, or null when p is empty.
func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

// UnmarshalJSON stores a copy of data.
func (p *Payload) UnmarshalJSON(data []byte) error {
	*p = append((*p)[0:0], data...)
	return nil
}

func (p Payload) String() string {
	if len(p) == 0 {
		return "null"
	}
	return string(p)
}

// MarshalPayload encodes v into a Payload. A nil v yields null.
func MarshalPayload(v json.Marshaler) (Payload, error) {
	if v == nil {
		return NullPayload, nil
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return Payload(data), nil
}

// ResponseMessage is an inbound response in its untyped form: the id, and
// either the raw result or the error object. A result of JSON null is kept
// as the four bytes "null", distinct from an error response whose Result is nil.
type ResponseMessage struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// IsError reports whether the response carries an error object.
func (m ResponseMessage) IsError() bool {
	return m.Error != nil
}

// DecodeResponse parses a response frame sent by the peer.
func DecodeResponse(f Frame) (ResponseMessage, error) {
	env, err := decodeEnvelope(f.Body)
	if err != nil {
		return ResponseMessage{}, err
	}
	id, err := env.requireID("id")
	if err != nil {
		return ResponseMessage{}, err
	}

	msg := ResponseMessage{ID: id}
	hasResult, hasError := env.has("result"), env.has("error")
	switch {
	case hasResult && hasError:
		return ResponseMessage{}, errors.Wrap(ErrMalformedPayload, "response carries both result and error")
	case hasResult:
		msg.Result = env.payload("result")
	case hasError:
		errObj, err := env.requireObject("error")
		if err != nil {
			return ResponseMessage{}, err
		}
		msg.Error, err = decodeError(errObj)
		if err != nil {
			return ResponseMessage{}, err
		}
	default:
		return ResponseMessage{}, errors.Wrap(ErrMalformedPayload, "response carries neither result nor error")
	}
	return msg, nil
}

// decodeEnvelope parses a message body and checks the jsonrpc version. A
// version error still returns the parsed envelope so the id can be read.
func decodeEnvelope(body []byte) (object, error) {
	var fields map[string]json.RawMessage
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &fields) != nil || fields == nil {
		return object{}, ErrMalformedPayload
	}
	env := object{fields: fields}

	version, ok, err := env.optionalString("jsonrpc")
	if err != nil || !ok {
		return env, ErrUnsupportedVersion
	}
	if version != jsonrpcVersion {
		return env, errors.Wrapf(ErrUnsupportedVersion, "%q", version)
	}
	return env, nil
}
