// Package lsp implements the transport and dispatch core of the Language
// Server Protocol: Content-Length framing over an arbitrary byte stream,
// JSON-RPC 2.0 envelopes, and a closed set of typed commands and responses.
//
// A Conn reads frames from a stream, decodes each into a Command through a
// Dispatcher, hands it to the application's Handler and writes the Response
// back. The framing and dispatch layers perform no I/O and can be used on
// their own.
package lsp

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Errors returned by connection operations.
var (
	// ErrInvalidHandler is returned when no handler is provided.
	ErrInvalidHandler = errors.New("invalid handler")
	// ErrConnectionClosed is returned when operating on a closed connection.
	ErrConnectionClosed = errors.New("connection closed")
)

// ErrBufferFull is returned when the send buffer is full and cannot accept more frames.
// This error indicates backpressure: the peer is not consuming frames fast enough.
// Callers can drop the frame, or use WriteBlocking or WriteTimeout to wait for space.
var ErrBufferFull = errors.New("send buffer full")

// Default configuration values.
const (
	// defaultBufferSize is the default capacity of the send and inbound command queues.
	defaultBufferSize = 16
	// defaultMaxContentLength is the default largest body a peer may announce (8MB).
	defaultMaxContentLength = 8 * 1024 * 1024
	// readChunkSize is how many bytes a single read asks the stream for.
	readChunkSize = 4096
)

// deadliner is implemented by streams that support I/O deadlines, such as net.Conn.
type deadliner interface {
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// Conn serves the protocol over one byte stream. It owns the stream's
// MessageBuffer, runs the application Handler for every inbound command in
// arrival order and correlates the responses to its own outbound requests.
type Conn struct {
	rwc     io.ReadWriteCloser
	buffer  *MessageBuffer
	encoder Encoder
	pending *Pending
	logger  Logger
	peer    string

	opts options

	inbox   chan Command
	sendMsg chan []byte
	handled chan struct{} // closed once the handler loop has finished
	written chan struct{} // closed once the write loop has finished
	closing chan struct{} // closed by Close
	closed  atomic.Bool
	readErr error
}

// NewConn creates a connection over rwc. It applies the provided options and
// validates them before returning. A handler is required.
func NewConn(rwc io.ReadWriteCloser, opt ...Option) (*Conn, error) {
	var opts options
	for _, o := range opt {
		o(&opts)
	}

	if err := checkOptions(&opts); err != nil {
		return nil, err
	}

	return newConnWithOptions(rwc, opts), nil
}

// checkOptions validates and sets default values for connection options.
func checkOptions(opts *options) error {
	if opts.handler == nil {
		return ErrInvalidHandler
	}

	if len(opts.middlewares) > 0 {
		opts.handler = Wrap(opts.handler, opts.middlewares...)
	}

	if opts.dispatcher == nil {
		opts.dispatcher = NewDefaultDispatcher()
	}

	if opts.bufferSize <= 0 {
		opts.bufferSize = defaultBufferSize
	}

	if opts.maxContentLength <= 0 {
		opts.maxContentLength = defaultMaxContentLength
	}

	if opts.idleTimeout < 0 {
		opts.idleTimeout = 0
	}

	if opts.onError == nil {
		opts.onError = defaultOnError
	}

	if opts.logger == nil {
		opts.logger = defaultLogger()
	}

	return nil
}

// defaultOnError keeps the connection after a rejected message and drops it
// after anything else.
func defaultOnError(err error) ErrorAction {
	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		return Continue
	}
	return Disconnect
}

func newConnWithOptions(rwc io.ReadWriteCloser, opts options) *Conn {
	return &Conn{
		rwc:     rwc,
		buffer:  NewLimitedMessageBuffer(opts.maxContentLength),
		encoder: Encoder{ContentType: opts.contentType},
		pending: NewPending(),
		logger:  opts.logger,
		peer:    peerName(rwc),
		opts:    opts,
		inbox:   make(chan Command, opts.bufferSize),
		sendMsg: make(chan []byte, opts.bufferSize),
		handled: make(chan struct{}),
		written: make(chan struct{}),
		closing: make(chan struct{}),
	}
}

func peerName(rwc io.ReadWriteCloser) string {
	if nc, ok := rwc.(net.Conn); ok && nc.RemoteAddr() != nil {
		return nc.RemoteAddr().String()
	}
	return "stream"
}

// Run serves the connection until the peer closes the stream, a framing
// error occurs, the context is canceled or Close is called. It returns nil
// when the peer ends the stream cleanly. The stream is closed when Run returns.
//
// When reading stops because of end of stream or a framing error, commands
// already received are still handled and their replies written before Run
// returns. Canceling ctx or calling Close stops without draining.
func (c *Conn) Run(ctx context.Context) error {
	c.logger.Info("connection established", "peer", c.peer)
	c.logger.Debug("connection options", "peer", c.peer,
		"buffer_size", c.opts.bufferSize,
		"max_content_length", c.opts.maxContentLength,
		"idle_timeout", c.opts.idleTimeout)

	group, child := errgroup.WithContext(withConn(ctx, c))

	group.Go(func() error {
		return c.readLoop(child)
	})

	group.Go(func() error {
		return c.handleLoop(child)
	})

	group.Go(func() error {
		return c.writeLoop(child)
	})

	// A blocked Read only returns once the stream is closed.
	group.Go(func() error {
		select {
		case <-child.Done():
		case <-c.written:
		case <-c.closing:
			c.closeConn()
			return context.Canceled
		}
		c.closeConn()
		return nil
	})

	err := group.Wait()
	c.closeConn()
	c.pending.CloseAll()

	switch {
	case c.closedByUser():
		err = context.Canceled
	case err == nil:
		err = c.readErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Info("connection closed with error", "peer", c.peer, "error", err)
	} else {
		c.logger.Info("connection closed", "peer", c.peer)
	}

	return err
}

// Close stops the connection and closes the stream.
// Safe to call multiple times.
func (c *Conn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	close(c.closing)
	return c.rwc.Close()
}

func (c *Conn) closedByUser() bool {
	select {
	case <-c.closing:
		return true
	default:
		return false
	}
}

// IsClosed returns true if the connection has been closed.
func (c *Conn) IsClosed() bool {
	return c.closed.Load()
}

// Addr returns the remote address for network streams and nil otherwise.
func (c *Conn) Addr() net.Addr {
	if nc, ok := c.rwc.(net.Conn); ok {
		return nc.RemoteAddr()
	}
	return nil
}

// Dispatcher returns the method table the connection decodes with.
func (c *Conn) Dispatcher() *Dispatcher {
	return c.opts.dispatcher
}

// Write queues a frame without blocking.
//
// Returns:
//   - nil: frame was queued (not yet sent)
//   - ErrBufferFull: send buffer is full, frame was NOT queued
//   - ErrConnectionClosed: connection is closed
func (c *Conn) Write(f Frame) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	select {
	case c.sendMsg <- f.Bytes():
		return nil
	default:
		return ErrBufferFull
	}
}

// WriteBlocking queues a frame, blocking until there is room or ctx is done.
func (c *Conn) WriteBlocking(ctx context.Context, f Frame) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	select {
	case c.sendMsg <- f.Bytes():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WriteTimeout queues a frame, waiting at most timeout for room.
// It returns ErrBufferFull when the timeout expires.
func (c *Conn) WriteTimeout(f Frame, timeout time.Duration) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case c.sendMsg <- f.Bytes():
		return nil
	case <-timer.C:
		return ErrBufferFull
	}
}

// Notify sends a notification to the peer. A nil params omits the member.
func (c *Conn) Notify(ctx context.Context, method string, params json.Marshaler) error {
	payload, err := marshalParams(params)
	if err != nil {
		return err
	}
	frame, err := c.encoder.EncodeNotification(method, payload)
	if err != nil {
		return err
	}
	return c.WriteBlocking(ctx, frame)
}

// Call sends a request to the peer and waits for its response. If ctx ends
// first the call is abandoned and $/cancelRequest is sent to the peer.
//
// Handlers may use Call: responses are read while the command that issued
// the call is still being handled, as long as fewer than the buffer size of
// further commands arrive in the meantime.
func (c *Conn) Call(ctx context.Context, method string, params json.Marshaler) (ResponseMessage, error) {
	if c.closed.Load() {
		return ResponseMessage{}, ErrConnectionClosed
	}
	payload, err := marshalParams(params)
	if err != nil {
		return ResponseMessage{}, err
	}

	id, done := c.pending.Add(method)
	frame, err := c.encoder.EncodeRequest(id, method, payload)
	if err != nil {
		c.pending.Cancel(id)
		return ResponseMessage{}, err
	}
	if err := c.WriteBlocking(ctx, frame); err != nil {
		c.pending.Cancel(id)
		return ResponseMessage{}, err
	}

	select {
	case msg, ok := <-done:
		if !ok {
			return ResponseMessage{}, ErrConnectionClosed
		}
		return msg, nil
	case <-ctx.Done():
		if c.pending.Cancel(id) {
			c.sendCancel(id)
		}
		return ResponseMessage{}, ctx.Err()
	}
}

func (c *Conn) sendCancel(id RequestID) {
	frame, err := c.encoder.EncodeNotification(MethodCancelRequest, mustPayload(CancelParams{ID: id}))
	if err == nil {
		err = c.Write(frame)
	}
	if err != nil {
		c.logger.Debug("cancel not sent", "peer", c.peer, "id", id.String(), "error", err)
	}
}

func marshalParams(params json.Marshaler) (Payload, error) {
	if params == nil {
		return nil, nil
	}
	payload, err := MarshalPayload(params)
	if err != nil {
		return nil, errors.Wrap(err, "encode params")
	}
	return payload, nil
}

func mustPayload(v json.Marshaler) Payload {
	p, _ := MarshalPayload(v)
	return p
}

// readLoop reads the stream until it ends or fails, then closes the command
// queue. End of stream and read or framing errors are kept for Run and let
// the remaining commands drain.
func (c *Conn) readLoop(ctx context.Context) error {
	defer close(c.inbox)

	err := c.read(ctx)
	// No response can arrive any more.
	c.pending.CloseAll()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !errors.Is(err, io.EOF) {
		c.readErr = err
	}
	return nil
}

// read reassembles frames from the stream and routes each one.
// A framing error ends the loop.
func (c *Conn) read(ctx context.Context) error {
	buf := make([]byte, readChunkSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d, ok := c.rwc.(deadliner); ok && c.opts.idleTimeout > 0 {
			_ = d.SetReadDeadline(time.Now().Add(c.opts.idleTimeout * 2))
		}

		n, err := c.rwc.Read(buf)
		if n > 0 {
			if ferr := c.feed(ctx, buf[:n]); ferr != nil {
				return ferr
			}
		}
		if err != nil {
			if ctx.Err() != nil || c.closedByUser() {
				return err
			}
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			c.logger.Debug("read error", "peer", c.peer, "error", err)
			if c.opts.onError(err) == Disconnect {
				return err
			}
		}
	}
}

// feed passes data to the buffer and routes every completed frame. Frames
// completed before a framing error are still routed.
func (c *Conn) feed(ctx context.Context, data []byte) error {
	frames, err := c.buffer.Write(data)
	for _, f := range frames {
		if rerr := c.route(ctx, f); rerr != nil {
			return rerr
		}
	}
	if err != nil {
		c.logger.Warn("framing error", "peer", c.peer, "error", err)
		return err
	}
	return nil
}

// route sends commands to the handler queue, responses to the pending table
// and answers requests that could not be decoded.
func (c *Conn) route(ctx context.Context, f Frame) error {
	c.logger.Debug("frame received", "peer", c.peer, "header", f.Header.String(), "body", string(f.Body))

	cmd, err := c.opts.dispatcher.Dispatch(f)
	if err == nil {
		select {
		case c.inbox <- cmd:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if errors.Is(err, ErrMissingMethod) {
		if msg, rerr := DecodeResponse(f); rerr == nil {
			c.resolve(msg)
			return nil
		}
	}

	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		c.logger.Warn("message rejected", "peer", c.peer, "method", dispatchErr.Method, "error", err)
		switch {
		case dispatchErr.ID != nil:
			if serr := c.sendError(ctx, *dispatchErr.ID, dispatchErr.RPCError()); serr != nil {
				return serr
			}
		case dispatchErr.BadID:
			frame, ferr := c.encoder.EncodeNullIDError(dispatchErr.RPCError())
			if ferr != nil {
				return ferr
			}
			if serr := c.send(ctx, frame); serr != nil {
				return serr
			}
		}
	}

	if c.opts.onError(err) == Disconnect {
		return err
	}
	return nil
}

func (c *Conn) resolve(msg ResponseMessage) {
	method, ok := c.pending.Resolve(msg)
	if !ok {
		c.logger.Warn("response to unknown request", "peer", c.peer, "id", msg.ID.String())
		return
	}
	c.logger.Debug("response received", "peer", c.peer, "id", msg.ID.String(), "method", method)
}

// handleLoop runs the handler for each command in arrival order until the
// command queue is closed.
func (c *Conn) handleLoop(ctx context.Context) error {
	defer close(c.handled)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-c.inbox:
			if !ok {
				return nil
			}
			if err := c.handle(ctx, cmd); err != nil {
				return err
			}
		}
	}
}

func (c *Conn) handle(ctx context.Context, cmd Command) error {
	resp := c.opts.handler.Handle(ctx, cmd)
	if resp == nil {
		if id, ok := IDOf(cmd); ok {
			c.logger.Warn("request left unanswered", "peer", c.peer, "method", cmd.Method(), "id", id.String())
		}
		return nil
	}

	frame, err := c.encoder.Encode(resp)
	if err != nil {
		c.logger.Error("encode response", "peer", c.peer, "method", resp.Method(), "error", err)
		return c.sendError(ctx, resp.RequestID(), NewError(CodeInternalError, err.Error()))
	}
	return c.send(ctx, frame)
}

func (c *Conn) sendError(ctx context.Context, id RequestID, rpcErr *Error) error {
	frame, err := c.encoder.EncodeError(id, rpcErr)
	if err != nil {
		return err
	}
	return c.send(ctx, frame)
}

// send queues a frame produced by the connection itself. Replies wait for
// room instead of failing with ErrBufferFull.
func (c *Conn) send(ctx context.Context, f Frame) error {
	select {
	case c.sendMsg <- f.Bytes():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// writeLoop continuously sends queued frames to the stream. Once the
// handler loop has finished it flushes what is left and returns.
func (c *Conn) writeLoop(ctx context.Context) error {
	defer close(c.written)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data := <-c.sendMsg:
			if err := c.write(data); err != nil {
				return err
			}
		case <-c.handled:
			return c.flush()
		}
	}
}

func (c *Conn) flush() error {
	for {
		select {
		case data := <-c.sendMsg:
			if err := c.write(data); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// write sends data to the stream with a deadline when one is configured.
// If an error occurs and onError returns Disconnect, the error is propagated.
func (c *Conn) write(data []byte) error {
	if d, ok := c.rwc.(deadliner); ok && c.opts.idleTimeout > 0 {
		_ = d.SetWriteDeadline(time.Now().Add(c.opts.idleTimeout * 2))
	}

	c.logger.Debug("frame sent", "peer", c.peer, "bytes", len(data))
	_, err := c.rwc.Write(data)

	if err != nil {
		c.logger.Debug("write error", "peer", c.peer, "error", err)
		if c.opts.onError(err) == Disconnect {
			return err
		}
	}

	return nil
}

// closeConn marks the connection as closed and closes the stream.
func (c *Conn) closeConn() {
	if c.closed.Swap(true) {
		return
	}
	c.rwc.Close()
}
