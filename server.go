package lsp

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// StreamHandler serves one accepted connection. ServeStream should return
// once ctx is canceled; the server waits for every handler before Serve returns.
type StreamHandler interface {
	ServeStream(ctx context.Context, conn net.Conn)
}

// StreamHandlerFunc adapts a function to StreamHandler.
type StreamHandlerFunc func(ctx context.Context, conn net.Conn)

func (f StreamHandlerFunc) ServeStream(ctx context.Context, conn net.Conn) {
	f(ctx, conn)
}

// ConnHandler returns a StreamHandler that runs a Conn configured with opt
// on every accepted connection. Every connection shares the handler given
// in opt; use a StreamHandlerFunc when each connection needs its own state.
func ConnHandler(opt ...Option) StreamHandler {
	return StreamHandlerFunc(func(ctx context.Context, nc net.Conn) {
		c, err := NewConn(nc, opt...)
		if err != nil {
			_ = nc.Close()
			return
		}
		_ = c.Run(ctx)
	})
}

// Server represents a TCP server that listens for incoming connections.
type Server struct {
	listener        *net.TCPListener
	logger          Logger
	shutdownTimeout time.Duration

	mu        sync.Mutex
	shutdown  bool
	closing   chan struct{} // closed by Close, bypassing the timeout
	closeOnce sync.Once
	conns     sync.WaitGroup
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// ServerLoggerOption sets the logger for the server.
func ServerLoggerOption(logger Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// ServerShutdownTimeoutOption sets the graceful shutdown timeout.
// When the context is canceled, the server keeps serving existing
// connections for up to this duration before canceling them.
// Default is 0 (immediate shutdown).
func ServerShutdownTimeoutOption(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.shutdownTimeout = timeout
	}
}

// New creates a new TCP server bound to the specified address.
// Returns an error if the address cannot be bound.
func New(addr *net.TCPAddr, opts ...ServerOption) (*Server, error) {
	listener, err := net.ListenTCP(addr.Network(), addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %s", addr)
	}

	s := &Server{
		listener: listener,
		logger:   slog.Default(),
		closing:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Serve accepts connections and passes each one to handler on its own
// goroutine. It blocks until the context is canceled, Close is called or an
// unrecoverable error occurs, and returns only after every handler has returned.
//
// When the context is canceled the server stops accepting. If
// ServerShutdownTimeoutOption is set, running connections get up to that
// long before their context is canceled. Call Close() to bypass the timeout.
func (s *Server) Serve(ctx context.Context, handler StreamHandler) error {
	s.logger.Info("server started", "addr", s.listener.Addr())

	connCtx, cancelConns := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelConns()

	stopped := make(chan struct{})
	defer close(stopped)

	go func() {
		select {
		case <-ctx.Done():
		case <-s.closing:
			cancelConns()
			return
		case <-stopped:
			return
		}

		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		// Unblock Accept
		_ = s.listener.SetDeadline(time.Now())

		if s.shutdownTimeout > 0 {
			s.logger.Info("graceful shutdown initiated", "timeout", s.shutdownTimeout)
			timer := time.NewTimer(s.shutdownTimeout)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-s.closing:
				s.logger.Debug("shutdown timeout bypassed via Close()")
			}
		}
		cancelConns()
	}()

	for {
		conn, err := s.listener.AcceptTCP()
		if err != nil {
			s.mu.Lock()
			isShutdown := s.shutdown
			s.mu.Unlock()

			if isShutdown {
				s.conns.Wait()
				s.logger.Info("server stopped", "addr", s.listener.Addr())
				return ctx.Err()
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			s.logger.Error("accept error", "error", err)
			cancelConns()
			s.conns.Wait()
			return err
		}

		s.logger.Debug("accepted connection", "remote_addr", conn.RemoteAddr())
		_ = conn.SetNoDelay(true)

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			handler.ServeStream(connCtx, conn)
		}()
	}
}

// Close stops the server by closing the underlying listener and cancels
// running connections without waiting for the shutdown timeout.
// Any blocked Accept calls will return with an error.
func (s *Server) Close() error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()

	s.closeOnce.Do(func() { close(s.closing) })

	return s.listener.Close()
}

// Addr returns the listener's network address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
