package lsp

import (
	"time"
)

// ErrorAction defines the action to take when an error occurs.
type ErrorAction int

const (
	// Disconnect closes the connection when an error occurs.
	Disconnect ErrorAction = iota
	// Continue suppresses the error and continues processing.
	Continue
)

// options holds the configuration for a connection.
type options struct {
	handler     Handler
	middlewares []Middleware
	dispatcher  *Dispatcher
	logger      Logger

	// onError is called for read, write and dispatch errors.
	// Returns Disconnect to close the connection, Continue to suppress the error.
	// Framing errors always close the connection.
	onError func(error) ErrorAction

	bufferSize       int           // capacity of the send and command queues
	maxContentLength int           // largest body a peer may announce
	idleTimeout      time.Duration // read/write deadline is idleTimeout * 2; zero disables
	contentType      string        // Content-Type written on outbound frames
}

// Option is a function that configures connection options.
type Option func(*options)

// HandlerOption returns an Option that sets the application handler.
// The handler is required and must be provided before creating a connection.
func HandlerOption(h Handler) Option {
	return func(o *options) {
		o.handler = h
	}
}

// MiddlewareOption returns an Option that wraps the handler with middlewares,
// the first one outermost.
func MiddlewareOption(middlewares ...Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// DispatcherOption returns an Option that sets the method table. A single
// dispatcher is meant to be shared by every connection of a server.
// If not set, a dispatcher for every base protocol method is built.
func DispatcherOption(d *Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// BufferSizeOption returns an Option that sets the capacity of the send
// queue and of the queue of commands waiting for the handler.
func BufferSizeOption(size int) Option {
	return func(o *options) {
		o.bufferSize = size
	}
}

// IdleTimeoutOption returns an Option that sets the idle timeout.
// On streams that support deadlines, reads and writes fail after
// idleTimeout * 2 without progress. Zero disables deadlines.
func IdleTimeoutOption(timeout time.Duration) Option {
	return func(o *options) {
		o.idleTimeout = timeout
	}
}

// MessageMaxSize returns an Option that sets the largest Content-Length a
// peer may announce. A larger announcement is a framing error.
func MessageMaxSize(size int) Option {
	return func(o *options) {
		o.maxContentLength = size
	}
}

// ContentTypeOption returns an Option that sets the Content-Type header of
// outbound frames.
func ContentTypeOption(contentType string) Option {
	return func(o *options) {
		o.contentType = contentType
	}
}

// OnErrorOption returns an Option that sets the error callback.
// The callback is invoked when a read, write or dispatch error occurs.
// Return Disconnect to close the connection, or Continue to suppress the error.
func OnErrorOption(cb func(error) ErrorAction) Option {
	return func(o *options) {
		o.onError = cb
	}
}

// LoggerOption returns an Option that sets the logger.
// If not set, the default slog logger will be used.
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
