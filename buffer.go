package lsp

import "github.com/pkg/errors"

// MessageBuffer reassembles frames from a byte stream that may arrive in
// arbitrary fragments. It performs no I/O: callers feed it whatever they
// read and receive every frame completed so far.
//
// A MessageBuffer belongs to a single stream and is not safe for concurrent use.
type MessageBuffer struct {
	buf              []byte
	maxContentLength int
	err              error
}

// NewMessageBuffer returns a buffer that accepts any declared content length.
func NewMessageBuffer() *MessageBuffer {
	return &MessageBuffer{}
}

// NewLimitedMessageBuffer returns a buffer that rejects frames declaring more
// than maxContentLength body bytes. The check runs as soon as the header is
// parsed, so an oversized body is never buffered.
func NewLimitedMessageBuffer(maxContentLength int) *MessageBuffer {
	return &MessageBuffer{maxContentLength: maxContentLength}
}

// Write appends data and extracts every complete frame, in arrival order.
//
// An incomplete header or body is kept for the next call. A malformed header
// or content length returns a *FramingError together with the frames that
// preceded it; the error is sticky and every later call returns it again.
func (b *MessageBuffer) Write(data []byte) ([]Frame, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.buf = append(b.buf, data...)

	var frames []Frame
	consumed := 0
	for {
		frame, n, err := b.next(b.buf[consumed:])
		if err != nil {
			b.err = newFramingError(err)
			b.compact(consumed)
			return frames, b.err
		}
		if n == 0 {
			break
		}
		frames = append(frames, frame)
		consumed += n
	}
	b.compact(consumed)
	return frames, nil
}

// next extracts one frame from the front of data. It returns n == 0 when
// data does not yet hold a complete frame.
func (b *MessageBuffer) next(data []byte) (Frame, int, error) {
	header, headerLen, err := ParseHeader(data)
	if errors.Is(err, ErrIncompleteHeader) {
		return Frame{}, 0, nil
	}
	if err != nil {
		return Frame{}, 0, err
	}

	length, err := header.ContentLength()
	if err != nil {
		return Frame{}, 0, err
	}
	if b.maxContentLength > 0 && length > b.maxContentLength {
		return Frame{}, 0, errors.Wrapf(ErrContentTooLarge, "%d bytes exceeds limit of %d", length, b.maxContentLength)
	}

	total := headerLen + length
	if len(data) < total {
		return Frame{}, 0, nil
	}

	body := make([]byte, length)
	copy(body, data[headerLen:total])
	return Frame{Header: header, Body: body}, total, nil
}

// compact drops the first n bytes, reusing the backing array.
func (b *MessageBuffer) compact(n int) {
	if n == 0 {
		return
	}
	rest := copy(b.buf, b.buf[n:])
	b.buf = b.buf[:rest]
}

// Buffered returns the number of bytes waiting for a frame to complete.
func (b *MessageBuffer) Buffered() int {
	return len(b.buf)
}

// Err returns the framing error that stopped the buffer, if any.
func (b *MessageBuffer) Err() error {
	return b.err
}
