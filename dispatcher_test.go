package lsp

import (
	"errors"
	"strings"
	"testing"
)

func dispatch(t *testing.T, body string) (Command, error) {
	t.Helper()
	return NewDefaultDispatcher().Dispatch(NewFrame([]byte(body), ""))
}

func dispatchError(t *testing.T, body string) *DispatchError {
	t.Helper()
	cmd, err := dispatch(t, body)
	if err == nil {
		t.Fatalf("Dispatch(%s) = %T, want an error", body, cmd)
	}
	var de *DispatchError
	if !errors.As(err, &de) {
		t.Fatalf("error = %T %v, want *DispatchError", err, err)
	}
	return de
}

func TestDispatch_UnknownMethod(t *testing.T) {
	de := dispatchError(t, `{"jsonrpc":"2.0","id":7,"method":"x/y","params":{}}`)

	if !errors.Is(de, ErrUnknownMethod) {
		t.Errorf("error = %v, want ErrUnknownMethod", de)
	}
	if de.ID == nil || *de.ID != NumberID(7) {
		t.Errorf("ID = %v, want 7", de.ID)
	}
	if de.Method != "x/y" {
		t.Errorf("Method = %q, want x/y", de.Method)
	}
	if de.Code() != CodeMethodNotFound {
		t.Errorf("Code = %d, want %d", de.Code(), CodeMethodNotFound)
	}
	if !de.IsRequest() {
		t.Error("IsRequest = false for a message with an id")
	}
}

func TestDispatch_UnknownNotification(t *testing.T) {
	de := dispatchError(t, `{"jsonrpc":"2.0","method":"x/y"}`)

	if de.ID != nil || de.IsRequest() {
		t.Errorf("ID = %v, want none for a notification", de.ID)
	}
	if !errors.Is(de, ErrUnknownMethod) {
		t.Errorf("error = %v, want ErrUnknownMethod", de)
	}
}

func TestDispatch_InvalidID(t *testing.T) {
	for _, body := range []string{
		`{"jsonrpc":"2.0","id":1.5,"method":"shutdown"}`,
		`{"jsonrpc":"2.0","id":{},"method":"shutdown"}`,
		`{"jsonrpc":"2.0","id":true,"method":"initialized"}`,
		`{"jsonrpc":"2.0","id":null,"method":"x/y"}`,
	} {
		de := dispatchError(t, body)
		if de.ID != nil || !de.BadID {
			t.Errorf("%s: ID = %v, BadID = %v; want no id and BadID", body, de.ID, de.BadID)
		}
		if !de.IsRequest() {
			t.Errorf("%s: IsRequest = false", body)
		}
		if de.Code() != CodeInvalidRequest {
			t.Errorf("%s: Code = %d, want %d", body, de.Code(), CodeInvalidRequest)
		}
		var fe *FieldError
		if !errors.As(de, &fe) || fe.Field != "id" {
			t.Errorf("%s: error = %v, want a field error on id", body, de)
		}
	}

	// A response-shaped message with a bad id is not answered.
	de := dispatchError(t, `{"jsonrpc":"2.0","id":1.5,"result":null}`)
	if de.BadID || de.IsRequest() {
		t.Errorf("response with bad id: BadID = %v, IsRequest = %v", de.BadID, de.IsRequest())
	}
}

func TestDispatch_Version(t *testing.T) {
	for _, body := range []string{
		`{"jsonrpc":"1.0","id":1,"method":"shutdown"}`,
		`{"id":1,"method":"shutdown"}`,
		`{"jsonrpc":2,"id":1,"method":"shutdown"}`,
	} {
		de := dispatchError(t, body)
		if !errors.Is(de, ErrUnsupportedVersion) {
			t.Errorf("%s: error = %v, want ErrUnsupportedVersion", body, de)
		}
		if de.ID == nil || *de.ID != NumberID(1) {
			t.Errorf("%s: ID = %v, want 1", body, de.ID)
		}
		if de.Code() != CodeInvalidRequest {
			t.Errorf("%s: Code = %d, want %d", body, de.Code(), CodeInvalidRequest)
		}
	}
}

func TestDispatch_Malformed(t *testing.T) {
	for _, body := range []string{``, `   `, `{`, `[1,2]`, `"text"`, `null`} {
		de := dispatchError(t, body)
		if !errors.Is(de, ErrMalformedPayload) {
			t.Errorf("%q: error = %v, want ErrMalformedPayload", body, de)
		}
		if de.Code() != CodeParseError {
			t.Errorf("%q: Code = %d, want %d", body, de.Code(), CodeParseError)
		}
	}
}

func TestDispatch_MissingMethod(t *testing.T) {
	de := dispatchError(t, `{"jsonrpc":"2.0","id":"a","result":null}`)
	if !errors.Is(de, ErrMissingMethod) {
		t.Errorf("error = %v, want ErrMissingMethod", de)
	}
	if de.ID == nil || *de.ID != StringID("a") {
		t.Errorf("ID = %v, want \"a\"", de.ID)
	}

	de = dispatchError(t, `{"jsonrpc":"2.0","id":1,"method":42}`)
	if !errors.Is(de, ErrMissingMethod) {
		t.Errorf("non-string method: error = %v, want ErrMissingMethod", de)
	}
}

func TestDispatch_FieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "missing nested uri",
			body:  `{"jsonrpc":"2.0","id":1,"method":"textDocument/hover","params":{"textDocument":{},"position":{"line":0,"character":0}}}`,
			field: "params.textDocument.uri",
		},
		{
			name:  "wrong position type",
			body:  `{"jsonrpc":"2.0","id":1,"method":"textDocument/definition","params":{"textDocument":{"uri":"u"},"position":{"line":"0","character":0}}}`,
			field: "params.position.line",
		},
		{
			name:  "params not an object",
			body:  `{"jsonrpc":"2.0","id":1,"method":"textDocument/hover","params":[]}`,
			field: "params",
		},
		{
			name:  "missing params",
			body:  `{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
			field: "params",
		},
		{
			name:  "missing capabilities",
			body:  `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"processId":1}}`,
			field: "params.capabilities",
		},
		{
			name:  "invalid trace",
			body:  `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"capabilities":{},"trace":"loud"}}`,
			field: "params.trace",
		},
		{
			name:  "request without id",
			body:  `{"jsonrpc":"2.0","method":"shutdown"}`,
			field: "id",
		},
		{
			name:  "document item version",
			body:  `{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"u","languageId":"go","version":1.5,"text":""}}}`,
			field: "params.textDocument.version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := dispatchError(t, tt.body)
			var fe *FieldError
			if !errors.As(de, &fe) {
				t.Fatalf("error = %v, want *FieldError", de)
			}
			if fe.Field != tt.field {
				t.Errorf("Field = %q, want %q", fe.Field, tt.field)
			}
			if de.Code() != CodeInvalidParams {
				t.Errorf("Code = %d, want %d", de.Code(), CodeInvalidParams)
			}
			if rpcErr := de.RPCError(); !strings.Contains(rpcErr.Message, tt.field) {
				t.Errorf("RPCError message %q does not name %q", rpcErr.Message, tt.field)
			}
		})
	}
}

func TestDispatch_Initialize(t *testing.T) {
	cmd, err := dispatch(t, `{"jsonrpc":"2.0","id":"init","method":"initialize","params":{"processId":4321,"rootUri":"file:///w","rootPath":null,"capabilities":{"workspace":{}},"trace":"verbose"}}`)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	req, ok := cmd.(InitializeRequest)
	if !ok {
		t.Fatalf("command = %T, want InitializeRequest", cmd)
	}
	if req.ID != StringID("init") {
		t.Errorf("ID = %s, want \"init\"", req.ID)
	}
	p := req.Params
	if p.ProcessID == nil || *p.ProcessID != 4321 {
		t.Errorf("ProcessID = %v, want 4321", p.ProcessID)
	}
	if p.RootURI == nil || *p.RootURI != "file:///w" {
		t.Errorf("RootURI = %v", p.RootURI)
	}
	if p.RootPath != nil {
		t.Errorf("RootPath = %q, want nil for null", *p.RootPath)
	}
	if string(p.Capabilities) != `{"workspace":{}}` {
		t.Errorf("Capabilities = %s", p.Capabilities)
	}
	if p.Trace != TraceVerbose {
		t.Errorf("Trace = %q, want verbose", p.Trace)
	}
}

func TestDispatch_InitializeDefaults(t *testing.T) {
	cmd, err := dispatch(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"processId":null,"capabilities":{}}}`)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	p := cmd.(InitializeRequest).Params
	if p.ProcessID != nil || p.RootURI != nil {
		t.Errorf("ProcessID = %v, RootURI = %v; want nil", p.ProcessID, p.RootURI)
	}
	if p.Trace != TraceOff {
		t.Errorf("Trace = %q, want off", p.Trace)
	}
}

func TestDispatch_OpaqueParams(t *testing.T) {
	cmd, err := dispatch(t, `{"jsonrpc":"2.0","id":3,"method":"textDocument/completion","params":{"x":[1, 2]}}`)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	req := cmd.(CompletionRequest)
	if string(req.Params) != `{"x":[1, 2]}` {
		t.Errorf("Params = %s, want verbatim", req.Params)
	}

	cmd, err = dispatch(t, `{"jsonrpc":"2.0","method":"initialized"}`)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if n := cmd.(InitializedNotification); n.Params != nil {
		t.Errorf("Params = %s, want nil when absent", n.Params)
	}
}

func TestDispatch_Cancel(t *testing.T) {
	cmd, err := dispatch(t, `{"jsonrpc":"2.0","method":"$/cancelRequest","params":{"id":"r-9"}}`)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if got := cmd.(CancelNotification).Params.ID; got != StringID("r-9") {
		t.Errorf("ID = %s, want \"r-9\"", got)
	}
	if _, ok := IDOf(cmd); ok {
		t.Error("IDOf reported an id for a notification")
	}
}

// validParams returns params that satisfy the decoder of method.
func validParams(method string) string {
	switch method {
	case MethodInitialize:
		return `{"processId":1,"capabilities":{}}`
	case MethodCancelRequest:
		return `{"id":1}`
	case MethodShowMessage, MethodLogMessage:
		return `{"type":3,"message":"m"}`
	case MethodShowMessageRequest:
		return `{"type":1,"message":"m","actions":[{"title":"ok"}]}`
	case MethodDidOpen:
		return `{"textDocument":{"uri":"u","languageId":"go","version":1,"text":""}}`
	case MethodDidClose:
		return `{"textDocument":{"uri":"u"}}`
	case MethodHover, MethodSignatureHelp, MethodDocumentHighlight, MethodDefinition:
		return `{"textDocument":{"uri":"u"},"position":{"line":1,"character":2}}`
	default:
		return `{}`
	}
}

func TestDispatch_EveryMethod(t *testing.T) {
	entries := Methods()
	if len(entries) != 40 {
		t.Errorf("Methods() has %d entries, want 40", len(entries))
	}

	d := NewDefaultDispatcher()
	if d.Len() != len(entries) {
		t.Errorf("Len = %d, want %d", d.Len(), len(entries))
	}

	for _, e := range entries {
		body := `{"jsonrpc":"2.0","method":"` + e.Name() + `","params":` + validParams(e.Name())
		if e.IsRequest() {
			body += `,"id":11`
		}
		body += `}`

		cmd, err := d.Dispatch(NewFrame([]byte(body), ""))
		if err != nil {
			t.Errorf("%s: Dispatch failed: %v", e.Name(), err)
			continue
		}
		if cmd.Method() != e.Name() {
			t.Errorf("%s: Method() = %q", e.Name(), cmd.Method())
		}
		id, ok := IDOf(cmd)
		if ok != e.IsRequest() {
			t.Errorf("%s: IDOf ok = %v, want %v", e.Name(), ok, e.IsRequest())
		}
		if ok && id != NumberID(11) {
			t.Errorf("%s: id = %s, want 11", e.Name(), id)
		}
	}
}

func TestNewDispatcher_Panics(t *testing.T) {
	entries := Methods()

	assertPanics := func(name string, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		f()
	}

	assertPanics("duplicate", func() { NewDispatcher(entries[0], entries[1], entries[0]) })
	assertPanics("empty entry", func() { NewDispatcher(MethodEntry{}) })
}

func TestDispatcher_Lookup(t *testing.T) {
	d := NewDispatcher(Methods()[:3]...)

	if e, ok := d.Lookup(MethodInitialize); !ok || !e.IsRequest() {
		t.Errorf("Lookup(initialize) = %v, %v", e.Name(), ok)
	}
	if e, ok := d.Lookup(MethodInitialized); !ok || e.IsRequest() {
		t.Errorf("Lookup(initialized) = %v, %v", e.Name(), ok)
	}
	if _, ok := d.Lookup(MethodHover); ok {
		t.Error("Lookup found a method outside the table")
	}

	_, err := d.Dispatch(NewFrame([]byte(hoverRequest), ""))
	if !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("error = %v, want ErrUnknownMethod for a method outside the table", err)
	}
}

func TestDispatcher_Response(t *testing.T) {
	d := NewDefaultDispatcher()

	resp, err := d.Response(MethodHover, ResponseMessage{ID: NumberID(1), Result: NullPayload})
	if err != nil {
		t.Fatalf("Response(hover, null) failed: %v", err)
	}
	if h := resp.(HoverResponse); h.Result != nil || h.Error != nil {
		t.Errorf("hover = %+v, want empty result", h)
	}

	resp, err = d.Response(MethodDefinition, ResponseMessage{
		ID:     NumberID(2),
		Result: Payload(`[{"uri":"file:///a","range":{"start":{"line":1,"character":0},"end":{"line":1,"character":4}}}]`),
	})
	if err != nil {
		t.Fatalf("Response(definition) failed: %v", err)
	}
	def := resp.(DefinitionResponse)
	if len(def.Result) != 1 || def.Result[0].URI != "file:///a" || def.Result[0].Range.End.Character != 4 {
		t.Errorf("definition = %+v", def.Result)
	}

	resp, err = d.Response(MethodShutdown, ResponseMessage{ID: NumberID(3), Error: NewError(CodeInternalError, "x")})
	if err != nil {
		t.Fatalf("Response(shutdown) failed: %v", err)
	}
	if ErrorOf(resp) == nil || ErrorOf(resp).Code != CodeInternalError {
		t.Errorf("ErrorOf = %v, want internal error", ErrorOf(resp))
	}

	if _, err := d.Response(MethodInitialize, ResponseMessage{ID: NumberID(4), Result: Payload(`{}`)}); err == nil {
		t.Error("expected an error for an initialize result without capabilities")
	}
	if _, err := d.Response(MethodExit, ResponseMessage{}); err == nil {
		t.Error("expected an error for a notification method")
	}
	if _, err := d.Response("x/y", ResponseMessage{}); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("error = %v, want ErrUnknownMethod", err)
	}
}
