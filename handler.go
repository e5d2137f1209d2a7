package lsp

import "context"

// Handler is implemented by the application. Handle is called once per
// inbound Command, in arrival order. It returns the Response for a Request
// and nil for a notification; a nil return for a Request leaves the peer
// without an answer.
type Handler interface {
	Handle(ctx context.Context, cmd Command) Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, cmd Command) Response

func (f HandlerFunc) Handle(ctx context.Context, cmd Command) Response {
	return f(ctx, cmd)
}

// ErrorResponse answers any request with an error object. It is what
// NewErrorResponse returns and what a connection sends for requests that
// fail to decode.
type ErrorResponse struct {
	ID    RequestID
	Name  string
	Error *Error
}

func (r ErrorResponse) RequestID() RequestID { return r.ID }
func (r ErrorResponse) Method() string       { return r.Name }

func (r ErrorResponse) outcome() ([]byte, *Error, error) {
	if r.Error == nil {
		return nil, NewError(CodeInternalError, "missing error object"), nil
	}
	return nil, r.Error, nil
}

// NewErrorResponse answers cmd with rpcErr. It returns nil when cmd is a
// notification, since notifications are never answered.
func NewErrorResponse(cmd Command, rpcErr *Error) Response {
	id, ok := IDOf(cmd)
	if !ok {
		return nil
	}
	return ErrorResponse{ID: id, Name: cmd.Method(), Error: rpcErr}
}

type connKey struct{}

// ConnFromContext returns the connection serving the current command, if any.
func ConnFromContext(ctx context.Context) (*Conn, bool) {
	c, ok := ctx.Value(connKey{}).(*Conn)
	return c, ok
}

func withConn(ctx context.Context, c *Conn) context.Context {
	return context.WithValue(ctx, connKey{}, c)
}
