package lsp

import (
	"github.com/pkg/errors"
)

// Encoder renders outbound messages as frames.
type Encoder struct {
	// ContentType is written to every frame header. Empty selects
	// DefaultContentType.
	ContentType string
}

// Encode renders resp inside a response envelope. A set Error is written as
// the error member; otherwise the result is always present, possibly null.
func (e Encoder) Encode(resp Response) (Frame, error) {
	if resp == nil {
		return Frame{}, errors.New("encode: nil response")
	}
	result, rpcErr, err := resp.outcome()
	if err != nil {
		return Frame{}, errors.Wrapf(err, "encode %s response", resp.Method())
	}
	if rpcErr != nil {
		return e.EncodeError(resp.RequestID(), rpcErr)
	}

	var b objectBuilder
	b.string("jsonrpc", jsonrpcVersion)
	if err := b.value("id", resp.RequestID()); err != nil {
		return Frame{}, err
	}
	b.raw("result", result)
	return NewFrame(b.bytes(), e.ContentType), nil
}

// EncodeError renders an error response for id.
func (e Encoder) EncodeError(id RequestID, rpcErr *Error) (Frame, error) {
	if rpcErr == nil {
		return Frame{}, errors.New("encode: nil error object")
	}
	var b objectBuilder
	b.string("jsonrpc", jsonrpcVersion)
	if err := b.value("id", id); err != nil {
		return Frame{}, err
	}
	if err := b.value("error", rpcErr); err != nil {
		return Frame{}, err
	}
	return NewFrame(b.bytes(), e.ContentType), nil
}

// EncodeNullIDError renders an error response with a null id, the reply to
// a request whose id could not be read.
func (e Encoder) EncodeNullIDError(rpcErr *Error) (Frame, error) {
	if rpcErr == nil {
		return Frame{}, errors.New("encode: nil error object")
	}
	var b objectBuilder
	b.string("jsonrpc", jsonrpcVersion)
	b.raw("id", []byte("null"))
	if err := b.value("error", rpcErr); err != nil {
		return Frame{}, err
	}
	return NewFrame(b.bytes(), e.ContentType), nil
}

// EncodeRequest renders an outbound request. A nil params omits the member.
func (e Encoder) EncodeRequest(id RequestID, method string, params Payload) (Frame, error) {
	var b objectBuilder
	b.string("jsonrpc", jsonrpcVersion)
	if err := b.value("id", id); err != nil {
		return Frame{}, err
	}
	b.string("method", method)
	if params != nil {
		b.raw("params", params)
	}
	return NewFrame(b.bytes(), e.ContentType), nil
}

// EncodeNotification renders an outbound notification. A nil params omits
// the member.
func (e Encoder) EncodeNotification(method string, params Payload) (Frame, error) {
	var b objectBuilder
	b.string("jsonrpc", jsonrpcVersion)
	b.string("method", method)
	if params != nil {
		b.raw("params", params)
	}
	return NewFrame(b.bytes(), e.ContentType), nil
}
