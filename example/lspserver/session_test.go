package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Zereker/lsp"
)

const testURI = "file:///main.go"

func newTestSession() *session {
	return newSession(lsp.NopLogger())
}

func initialize(t *testing.T, s *session) {
	t.Helper()
	resp := s.Handle(context.Background(), lsp.InitializeRequest{
		ID:     lsp.NumberID(1),
		Params: lsp.InitializeParams{Capabilities: lsp.Payload(`{}`)},
	})
	initResp, ok := resp.(lsp.InitializeResponse)
	if !ok || initResp.Error != nil {
		t.Fatalf("initialize = %+v", resp)
	}
	if string(initResp.Result.Capabilities) != string(serverCapabilities) {
		t.Errorf("capabilities = %s", initResp.Result.Capabilities)
	}
}

func hoverAt(s *session, line, character int) lsp.Response {
	return s.Handle(context.Background(), lsp.HoverRequest{
		ID: lsp.NumberID(5),
		Params: lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: testURI},
			Position:     lsp.Position{Line: line, Character: character},
		},
	})
}

func TestSession_RequiresInitialize(t *testing.T) {
	s := newTestSession()

	rpcErr := lsp.ErrorOf(hoverAt(s, 0, 0))
	if rpcErr == nil || rpcErr.Code != lsp.CodeServerNotInitialized {
		t.Errorf("error = %v, want server not initialized", rpcErr)
	}
	if resp := s.Handle(context.Background(), lsp.InitializedNotification{}); resp != nil {
		t.Errorf("notification answered with %+v", resp)
	}

	initialize(t, s)

	again := s.Handle(context.Background(), lsp.InitializeRequest{ID: lsp.NumberID(2)})
	if rpcErr := lsp.ErrorOf(again); rpcErr == nil || rpcErr.Code != lsp.CodeInvalidRequest {
		t.Errorf("second initialize error = %v, want invalid request", rpcErr)
	}
}

func TestSession_Hover(t *testing.T) {
	s := newTestSession()
	initialize(t, s)

	s.Handle(context.Background(), lsp.DidOpenNotification{Params: lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: testURI, LanguageID: "go", Version: 1, Text: "package main\n\nfunc run() {}\n"},
	}})

	hover := hoverAt(s, 2, 6).(lsp.HoverResponse)
	if hover.Result == nil {
		t.Fatal("no hover for a word")
	}
	var contents struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(hover.Result.Contents, &contents); err != nil {
		t.Fatalf("contents: %v", err)
	}
	if contents.Kind != "markdown" || contents.Value != "`run`" {
		t.Errorf("contents = %+v", contents)
	}
	want := lsp.Range{Start: lsp.Position{Line: 2, Character: 5}, End: lsp.Position{Line: 2, Character: 8}}
	if hover.Result.Range == nil || *hover.Result.Range != want {
		t.Errorf("range = %v, want %v", hover.Result.Range, want)
	}

	if blank := hoverAt(s, 1, 0).(lsp.HoverResponse); blank.Result != nil {
		t.Errorf("hover on an empty line = %+v", blank.Result)
	}

	s.Handle(context.Background(), lsp.DidChangeNotification{Params: lsp.Payload(
		`{"textDocument":{"uri":"` + testURI + `","version":2},"contentChanges":[{"text":"var total int\n"}]}`,
	)})
	if doc, _ := s.docs.Get(testURI); doc.Version != 2 || doc.Text != "var total int\n" {
		t.Errorf("document after change = %+v", doc)
	}
	changed := hoverAt(s, 0, 4).(lsp.HoverResponse)
	if changed.Result == nil {
		t.Fatal("no hover after change")
	}

	s.Handle(context.Background(), lsp.DidCloseNotification{Params: lsp.DidCloseTextDocumentParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: testURI},
	}})
	if closed := hoverAt(s, 0, 4).(lsp.HoverResponse); closed.Result != nil || s.docs.Len() != 0 {
		t.Errorf("hover after close = %+v", closed.Result)
	}
}

func TestSession_Shutdown(t *testing.T) {
	s := newTestSession()
	if s.ExitCode() != 1 {
		t.Errorf("ExitCode before shutdown = %d, want 1", s.ExitCode())
	}
	initialize(t, s)

	resp := s.Handle(context.Background(), lsp.ShutdownRequest{ID: lsp.NumberID(9)})
	if _, ok := resp.(lsp.ShutdownResponse); !ok || lsp.ErrorOf(resp) != nil {
		t.Fatalf("shutdown = %+v", resp)
	}
	if s.ExitCode() != 0 {
		t.Errorf("ExitCode after shutdown = %d, want 0", s.ExitCode())
	}

	if rpcErr := lsp.ErrorOf(hoverAt(s, 0, 0)); rpcErr == nil || rpcErr.Code != lsp.CodeInvalidRequest {
		t.Errorf("request after shutdown error = %v, want invalid request", rpcErr)
	}
}

func TestSession_Unsupported(t *testing.T) {
	s := newTestSession()
	initialize(t, s)

	resp := s.Handle(context.Background(), lsp.RenameRequest{ID: lsp.NumberID(3), Params: lsp.Payload(`{}`)})
	if rpcErr := lsp.ErrorOf(resp); rpcErr == nil || rpcErr.Code != lsp.CodeMethodNotFound {
		t.Errorf("error = %v, want method not found", rpcErr)
	}

	def := s.Handle(context.Background(), lsp.DefinitionRequest{ID: lsp.NumberID(4)}).(lsp.DefinitionResponse)
	if def.Result == nil || len(def.Result) != 0 {
		t.Errorf("definition = %#v, want an empty list", def.Result)
	}
}

func TestWordAt(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		pos       lsp.Position
		word      string
		start     int
		end       int
		wantFound bool
	}{
		{"middle of word", "hello world", lsp.Position{Line: 0, Character: 8}, "world", 6, 11, true},
		{"end of word", "hello world", lsp.Position{Line: 0, Character: 5}, "hello", 0, 5, true},
		{"between separators", "a + b", lsp.Position{Line: 0, Character: 2}, "", 0, 0, false},
		{"second line crlf", "x\r\nfoo_bar\r\n", lsp.Position{Line: 1, Character: 3}, "foo_bar", 0, 7, true},
		{"surrogate pair before word", "😀 name", lsp.Position{Line: 0, Character: 4}, "name", 3, 7, true},
		{"inside surrogate pair", "😀name", lsp.Position{Line: 0, Character: 1}, "", 0, 0, false},
		{"line out of range", "one", lsp.Position{Line: 3, Character: 0}, "", 0, 0, false},
		{"character past end", "one", lsp.Position{Line: 0, Character: 9}, "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, rng, ok := wordAt(tt.text, tt.pos)
			if ok != tt.wantFound {
				t.Fatalf("found = %v, want %v", ok, tt.wantFound)
			}
			if !ok {
				return
			}
			if word != tt.word || rng.Start.Character != tt.start || rng.End.Character != tt.end {
				t.Errorf("wordAt = %q [%d,%d), want %q [%d,%d)", word, rng.Start.Character, rng.End.Character, tt.word, tt.start, tt.end)
			}
			if rng.Start.Line != tt.pos.Line || rng.End.Line != tt.pos.Line {
				t.Errorf("range lines = %d..%d, want %d", rng.Start.Line, rng.End.Line, tt.pos.Line)
			}
		})
	}
}
