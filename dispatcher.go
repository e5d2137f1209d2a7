package lsp

import (
	"github.com/pkg/errors"
)

// Dispatcher decodes frames into Commands through a method table fixed at
// construction. It holds no mutable state, so a single Dispatcher can be
// built at startup and shared by every connection.
type Dispatcher struct {
	methods map[string]MethodEntry
}

// NewDispatcher builds a dispatcher over entries. It panics if two entries
// share a method name.
func NewDispatcher(entries ...MethodEntry) *Dispatcher {
	d := &Dispatcher{methods: make(map[string]MethodEntry, len(entries))}
	for _, e := range entries {
		if e.name == "" || e.decode == nil {
			panic("lsp: method entry without name or decoder")
		}
		if _, dup := d.methods[e.name]; dup {
			panic("lsp: duplicate method " + e.name)
		}
		d.methods[e.name] = e
	}
	return d
}

// NewDefaultDispatcher builds a dispatcher for every method returned by Methods.
func NewDefaultDispatcher() *Dispatcher {
	return NewDispatcher(Methods()...)
}

// Lookup returns the entry registered for method.
func (d *Dispatcher) Lookup(method string) (MethodEntry, bool) {
	e, ok := d.methods[method]
	return e, ok
}

// Len returns the number of registered methods.
func (d *Dispatcher) Len() int {
	return len(d.methods)
}

// Dispatch decodes the body of f into the Command registered for its method.
// Every failure is a *DispatchError; its ID is set when the message carried
// a readable request id, and BadID when a message with a method carried an
// id member that is not one.
func (d *Dispatcher) Dispatch(f Frame) (Command, error) {
	env, err := decodeEnvelope(f.Body)

	var id *RequestID
	var idErr error
	if env.has("id") {
		parsed, perr := env.requireID("id")
		if perr == nil {
			id = &parsed
		}
		idErr = perr
	}
	badID := idErr != nil && env.has("method")
	if err != nil {
		return nil, &DispatchError{ID: id, BadID: badID, Err: err}
	}

	method, ok, err := env.optionalString("method")
	if err != nil {
		return nil, &DispatchError{ID: id, Err: errors.Wrap(ErrMissingMethod, err.Error())}
	}
	if !ok {
		return nil, &DispatchError{ID: id, Err: ErrMissingMethod}
	}
	if idErr != nil {
		return nil, &DispatchError{Method: method, BadID: true, Err: idErr}
	}

	entry, ok := d.methods[method]
	if !ok {
		return nil, &DispatchError{ID: id, Method: method, Err: errors.Wrapf(ErrUnknownMethod, "%q", method)}
	}

	cmd, err := entry.decode(env)
	if err != nil {
		return nil, &DispatchError{ID: id, Method: method, Err: err}
	}
	return cmd, nil
}

// Response converts an untyped inbound response into the typed Response of
// the request method it answers. The caller supplies the method, usually
// remembered in a Pending table when the request was sent.
func (d *Dispatcher) Response(method string, msg ResponseMessage) (Response, error) {
	entry, ok := d.methods[method]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMethod, "%q", method)
	}
	if entry.response == nil {
		return nil, errors.Errorf("%s is a notification and has no response", method)
	}
	return entry.response(msg)
}
