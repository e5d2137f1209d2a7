package lsp

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/time/rate"
)

// Middleware wraps a handler function with additional behaviour.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares so that the first one is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Wrap applies middlewares to h.
func Wrap(h Handler, middlewares ...Middleware) Handler {
	return Chain(middlewares...)(h.Handle)
}

// LoggingMiddleware logs every command with its duration and, for requests,
// the error code of a failed response.
func LoggingMiddleware(logger Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd Command) Response {
			start := time.Now()
			resp := next(ctx, cmd)

			args := []any{"method", cmd.Method(), "duration", time.Since(start)}
			if id, ok := IDOf(cmd); ok {
				args = append(args, "id", id.String())
			}
			if rpcErr := ErrorOf(resp); rpcErr != nil {
				logger.Warn("command failed", append(args, "code", rpcErr.Code, "error", rpcErr.Message)...)
				return resp
			}
			logger.Debug("command handled", args...)
			return resp
		}
	}
}

// RecoverMiddleware turns a panic in the handler into an internal error
// response, so one faulty command does not take the connection down.
func RecoverMiddleware(logger Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd Command) (resp Response) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("handler panic", "method", cmd.Method(), "panic", r, "stack", string(debug.Stack()))
					resp = NewErrorResponse(cmd, Errorf(CodeInternalError, "internal error: %v", r))
				}
			}()
			return next(ctx, cmd)
		}
	}
}

// TimeoutMiddleware bounds handling time. A request that exceeds timeout is
// answered with CodeRequestCancelled; the handler sees its context expire
// and should return promptly. The middleware waits up to timeout again for
// the handler to return, so commands stay serialized. A handler that ignores
// its context past that grace keeps running alongside the next command.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd Command) Response {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan Response, 1)
			go func() {
				done <- next(ctx, cmd)
			}()

			select {
			case resp := <-done:
				return resp
			case <-ctx.Done():
			}

			grace := time.NewTimer(timeout)
			defer grace.Stop()
			select {
			case <-done:
			case <-grace.C:
			}
			return NewErrorResponse(cmd, Errorf(CodeRequestCancelled, "%s timed out after %s", cmd.Method(), timeout))
		}
	}
}

// RateLimitMiddleware admits commands through a token bucket refilled at r
// per second with the given burst. Rejected requests are answered with
// CodeRequestFailed; rejected notifications are dropped.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd Command) Response {
			if !limiter.Allow() {
				return NewErrorResponse(cmd, NewError(CodeRequestFailed, fmt.Sprintf("rate limit exceeded for %s", cmd.Method())))
			}
			return next(ctx, cmd)
		}
	}
}
