package lsp

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// JSON-RPC and protocol error codes.
const (
	CodeParseError           = -32700
	CodeInvalidRequest       = -32600
	CodeMethodNotFound       = -32601
	CodeInvalidParams        = -32602
	CodeInternalError        = -32603
	CodeServerErrorStart     = -32099
	CodeServerErrorEnd       = -32000
	CodeServerNotInitialized = -32002
	CodeUnknownErrorCode     = -32001
	CodeRequestCancelled     = -32800
	CodeRequestFailed        = -32803
)

// Framing errors. Any of these is fatal to the stream that produced it:
// the buffer cannot find the next message boundary once one is reported.
var (
	// ErrIncompleteHeader is returned by ParseHeader when the data ends before
	// the blank line that terminates the header block. It is not a failure;
	// the caller should wait for more bytes.
	ErrIncompleteHeader = errors.New("incomplete header")

	ErrInvalidHeaderField   = errors.New("invalid header field")
	ErrInvalidHeaderValue   = errors.New("invalid header value")
	ErrEmptyHeaderValue     = errors.New("empty header value")
	ErrHeaderTooLarge       = errors.New("header too large")
	ErrMissingContentLength = errors.New("missing Content-Length")
	ErrInvalidContentLength = errors.New("invalid Content-Length")
	ErrContentTooLarge      = errors.New("content too large")
)

// Payload errors. These reject a single frame; the stream stays usable.
var (
	ErrMalformedPayload   = errors.New("malformed payload")
	ErrUnsupportedVersion = errors.New("unsupported jsonrpc version")
	ErrMissingMethod      = errors.New("missing method")
	ErrUnknownMethod      = errors.New("unknown method")
)

// FramingError reports a stream that violated the header/body framing.
type FramingError struct {
	err error
}

func newFramingError(err error) *FramingError {
	return &FramingError{err: err}
}

func (e *FramingError) Error() string {
	return "framing: " + e.err.Error()
}

func (e *FramingError) Unwrap() error {
	return e.err
}

// FieldError reports a required field that is missing or a field whose JSON
// type does not match what the method expects. Field is a dotted path
// relative to the message root, e.g. "params.textDocument.uri".
type FieldError struct {
	Field    string
	Expected string
	Missing  bool
}

func missingField(field string) *FieldError {
	return &FieldError{Field: field, Missing: true}
}

func wrongFieldType(field, expected string) *FieldError {
	return &FieldError{Field: field, Expected: expected}
}

func (e *FieldError) Error() string {
	if e.Missing {
		return fmt.Sprintf("missing required field %q", e.Field)
	}
	return fmt.Sprintf("field %q: expected %s", e.Field, e.Expected)
}

// DispatchError is returned by Dispatcher.Dispatch for every frame that could
// not be turned into a Command. ID is set when the message carried a usable
// request id, which is the signal that the peer expects an error response.
// BadID is set instead when the id member was present but unusable; such a
// request is answered with a null id.
type DispatchError struct {
	ID     *RequestID
	BadID  bool
	Method string
	Err    error
}

func (e *DispatchError) Error() string {
	msg := e.Err.Error()
	if e.Method != "" {
		msg = e.Method + ": " + msg
	}
	if e.ID != nil {
		msg = "request " + e.ID.String() + ": " + msg
	}
	return "dispatch: " + msg
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// IsRequest reports whether the rejected message was a request.
func (e *DispatchError) IsRequest() bool {
	return e.ID != nil || e.BadID
}

// Code maps the failure to a JSON-RPC error code.
func (e *DispatchError) Code() int {
	var fieldErr *FieldError
	switch {
	case e.BadID:
		return CodeInvalidRequest
	case errors.As(e.Err, &fieldErr):
		return CodeInvalidParams
	case errors.Is(e.Err, ErrUnknownMethod):
		return CodeMethodNotFound
	case errors.Is(e.Err, ErrMalformedPayload):
		return CodeParseError
	default:
		return CodeInvalidRequest
	}
}

// RPCError converts the failure into the error object sent back to the peer.
func (e *DispatchError) RPCError() *Error {
	return NewError(e.Code(), e.Err.Error())
}

// Error is the JSON-RPC error object carried by a failed response.
type Error struct {
	Code    int
	Message string
	Data    Payload
}

// NewError creates an error object without data.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates an error object with a formatted message.
func Errorf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithData returns a copy of e carrying data.
func (e *Error) WithData(data Payload) *Error {
	out := *e
	out.Data = data
	return &out
}

func (e *Error) Error() string {
	return "jsonrpc error " + strconv.Itoa(e.Code) + ": " + e.Message
}

// MarshalJSON renders {"code":..,"message":..,"data":..}; data is omitted when empty.
func (e *Error) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	b.int("code", e.Code)
	b.string("message", e.Message)
	if len(e.Data) > 0 {
		b.raw("data", e.Data)
	}
	return b.bytes(), nil
}

func decodeError(o object) (*Error, error) {
	code, err := o.requireInt("code")
	if err != nil {
		return nil, err
	}
	message, err := o.requireString("message")
	if err != nil {
		return nil, err
	}
	return &Error{Code: code, Message: message, Data: o.payload("data")}, nil
}

// AsError converts any error into a JSON-RPC error object. *Error values keep
// their code; everything else becomes an internal error.
func AsError(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return NewError(CodeInternalError, err.Error())
}
