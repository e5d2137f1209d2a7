package main

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Zereker/lsp"
)

// serverCapabilities advertises full document sync, hover and definition.
var serverCapabilities = lsp.Payload(`{"textDocumentSync":1,"hoverProvider":true,"definitionProvider":true}`)

type sessionState int

const (
	stateNew sessionState = iota
	stateInitialized
	stateShutdown
)

// session is the application state of one client connection.
type session struct {
	logger lsp.Logger
	docs   *documentStore

	mu    sync.Mutex
	state sessionState
}

// newSession expects a logger already scoped to the session.
func newSession(logger lsp.Logger) *session {
	return &session{logger: logger, docs: newDocumentStore()}
}

func (s *session) currentState() sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) setState(state sessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// ExitCode is 0 when the client asked for shutdown before exit, 1 otherwise.
func (s *session) ExitCode() int {
	if s.currentState() == stateShutdown {
		return 0
	}
	return 1
}

func (s *session) Handle(ctx context.Context, cmd lsp.Command) lsp.Response {
	switch c := cmd.(type) {
	case lsp.InitializeRequest:
		if s.currentState() != stateNew {
			return lsp.NewErrorResponse(cmd, lsp.NewError(lsp.CodeInvalidRequest, "initialize sent twice"))
		}
		s.setState(stateInitialized)
		s.logger.Info("session initialized", "trace", string(c.Params.Trace))
		return lsp.InitializeResponse{ID: c.ID, Result: lsp.InitializeResult{Capabilities: serverCapabilities}}

	case lsp.ExitNotification:
		if conn, ok := lsp.ConnFromContext(ctx); ok {
			_ = conn.Close()
		}
		return nil
	}

	switch s.currentState() {
	case stateNew:
		// Notifications other than exit are dropped before initialize.
		return lsp.NewErrorResponse(cmd, lsp.NewError(lsp.CodeServerNotInitialized, "server not initialized"))
	case stateShutdown:
		return lsp.NewErrorResponse(cmd, lsp.NewError(lsp.CodeInvalidRequest, "server is shutting down"))
	}

	switch c := cmd.(type) {
	case lsp.InitializedNotification:
		return nil

	case lsp.ShutdownRequest:
		s.setState(stateShutdown)
		return lsp.ShutdownResponse{ID: c.ID}

	case lsp.CancelNotification:
		s.logger.Debug("cancel requested", "id", c.Params.ID.String())
		return nil

	case lsp.DidOpenNotification:
		s.docs.Open(c.Params.TextDocument)
		return nil

	case lsp.DidChangeNotification:
		s.didChange(c.Params)
		return nil

	case lsp.DidCloseNotification:
		s.docs.Close(c.Params.TextDocument.URI)
		return nil

	case lsp.DidSaveNotification, lsp.WillSaveNotification, lsp.DidChangeConfigurationNotification:
		return nil

	case lsp.HoverRequest:
		return lsp.HoverResponse{ID: c.ID, Result: s.hover(c.Params)}

	case lsp.DefinitionRequest:
		return lsp.DefinitionResponse{ID: c.ID, Result: []lsp.Location{}}
	}

	return lsp.NewErrorResponse(cmd, lsp.Errorf(lsp.CodeMethodNotFound, "%s is not supported", cmd.Method()))
}

// didChangeParams is the subset of textDocument/didChange used with full sync.
type didChangeParams struct {
	TextDocument struct {
		URI     string `json:"uri"`
		Version int    `json:"version"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Range *json.RawMessage `json:"range"`
		Text  string           `json:"text"`
	} `json:"contentChanges"`
}

func (s *session) didChange(params lsp.Payload) {
	var p didChangeParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("malformed didChange", "error", err)
		return
	}
	for i := len(p.ContentChanges) - 1; i >= 0; i-- {
		change := p.ContentChanges[i]
		if change.Range != nil {
			continue
		}
		if !s.docs.Replace(p.TextDocument.URI, p.TextDocument.Version, change.Text) {
			s.logger.Warn("change for unopened document", "uri", p.TextDocument.URI)
		}
		return
	}
}

func (s *session) hover(params lsp.TextDocumentPositionParams) *lsp.Hover {
	doc, ok := s.docs.Get(params.TextDocument.URI)
	if !ok {
		return nil
	}
	word, rng, ok := wordAt(doc.Text, params.Position)
	if !ok {
		return nil
	}
	contents, err := json.Marshal(struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
	}{Kind: "markdown", Value: "`" + word + "`"})
	if err != nil {
		return nil
	}
	return &lsp.Hover{Contents: lsp.Payload(contents), Range: &rng}
}
