package lsp

// Command is a decoded inbound message. The set of implementations is closed:
// one type per method in the method table. Handlers switch on the concrete type.
type Command interface {
	Method() string
	command()
}

// Request is a Command that carries an id and expects exactly one Response.
type Request interface {
	Command
	RequestID() RequestID
}

// IDOf returns the request id of cmd, or false for notifications.
func IDOf(cmd Command) (RequestID, bool) {
	if req, ok := cmd.(Request); ok {
		return req.RequestID(), true
	}
	return RequestID{}, false
}

type isRequest struct{}

func (isRequest) command() {}

type isNotification struct{}

func (isNotification) command() {}

// Requests.

// InitializeRequest is initialize.
type InitializeRequest struct {
	isRequest
	ID     RequestID
	Params InitializeParams
}

// ShutdownRequest is shutdown.
type ShutdownRequest struct {
	isRequest
	ID RequestID
}

// ShowMessageRequest is window/showMessageRequest.
type ShowMessageRequest struct {
	isRequest
	ID     RequestID
	Params ShowMessageRequestParams
}

// RegisterCapabilityRequest is client/registerCapability.
type RegisterCapabilityRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// UnregisterCapabilityRequest is client/unregisterCapability.
type UnregisterCapabilityRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// WorkspaceSymbolRequest is workspace/symbol.
type WorkspaceSymbolRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// ExecuteCommandRequest is workspace/executeCommand.
type ExecuteCommandRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// ApplyEditRequest is workspace/applyEdit.
type ApplyEditRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// WillSaveWaitUntilRequest is textDocument/willSaveWaitUntil.
type WillSaveWaitUntilRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// CompletionRequest is textDocument/completion.
type CompletionRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// CompletionItemResolveRequest is completionItem/resolve.
type CompletionItemResolveRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// HoverRequest is textDocument/hover.
type HoverRequest struct {
	isRequest
	ID     RequestID
	Params TextDocumentPositionParams
}

// SignatureHelpRequest is textDocument/signatureHelp.
type SignatureHelpRequest struct {
	isRequest
	ID     RequestID
	Params TextDocumentPositionParams
}

// ReferencesRequest is textDocument/references.
type ReferencesRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// DocumentHighlightRequest is textDocument/documentHighlight.
type DocumentHighlightRequest struct {
	isRequest
	ID     RequestID
	Params TextDocumentPositionParams
}

// DocumentSymbolRequest is textDocument/documentSymbol.
type DocumentSymbolRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// FormattingRequest is textDocument/formatting.
type FormattingRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// RangeFormattingRequest is textDocument/rangeFormatting.
type RangeFormattingRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// OnTypeFormattingRequest is textDocument/onTypeFormatting.
type OnTypeFormattingRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// DefinitionRequest is textDocument/definition.
type DefinitionRequest struct {
	isRequest
	ID     RequestID
	Params TextDocumentPositionParams
}

// CodeActionRequest is textDocument/codeAction.
type CodeActionRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// CodeLensRequest is textDocument/codeLens.
type CodeLensRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// CodeLensResolveRequest is codeLens/resolve.
type CodeLensResolveRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// DocumentLinkRequest is textDocument/documentLink.
type DocumentLinkRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// DocumentLinkResolveRequest is documentLink/resolve.
type DocumentLinkResolveRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

// RenameRequest is textDocument/rename.
type RenameRequest struct {
	isRequest
	ID     RequestID
	Params Payload
}

func (InitializeRequest) Method() string            { return MethodInitialize }
func (ShutdownRequest) Method() string              { return MethodShutdown }
func (ShowMessageRequest) Method() string           { return MethodShowMessageRequest }
func (RegisterCapabilityRequest) Method() string    { return MethodRegisterCapability }
func (UnregisterCapabilityRequest) Method() string  { return MethodUnregisterCapability }
func (WorkspaceSymbolRequest) Method() string       { return MethodWorkspaceSymbol }
func (ExecuteCommandRequest) Method() string        { return MethodExecuteCommand }
func (ApplyEditRequest) Method() string             { return MethodApplyEdit }
func (WillSaveWaitUntilRequest) Method() string     { return MethodWillSaveWaitUntil }
func (CompletionRequest) Method() string            { return MethodCompletion }
func (CompletionItemResolveRequest) Method() string { return MethodCompletionItemResolve }
func (HoverRequest) Method() string                 { return MethodHover }
func (SignatureHelpRequest) Method() string         { return MethodSignatureHelp }
func (ReferencesRequest) Method() string            { return MethodReferences }
func (DocumentHighlightRequest) Method() string     { return MethodDocumentHighlight }
func (DocumentSymbolRequest) Method() string        { return MethodDocumentSymbol }
func (FormattingRequest) Method() string            { return MethodFormatting }
func (RangeFormattingRequest) Method() string       { return MethodRangeFormatting }
func (OnTypeFormattingRequest) Method() string      { return MethodOnTypeFormatting }
func (DefinitionRequest) Method() string            { return MethodDefinition }
func (CodeActionRequest) Method() string            { return MethodCodeAction }
func (CodeLensRequest) Method() string              { return MethodCodeLens }
func (CodeLensResolveRequest) Method() string       { return MethodCodeLensResolve }
func (DocumentLinkRequest) Method() string          { return MethodDocumentLink }
func (DocumentLinkResolveRequest) Method() string   { return MethodDocumentLinkResolve }
func (RenameRequest) Method() string                { return MethodRename }

func (r InitializeRequest) RequestID() RequestID            { return r.ID }
func (r ShutdownRequest) RequestID() RequestID              { return r.ID }
func (r ShowMessageRequest) RequestID() RequestID           { return r.ID }
func (r RegisterCapabilityRequest) RequestID() RequestID    { return r.ID }
func (r UnregisterCapabilityRequest) RequestID() RequestID  { return r.ID }
func (r WorkspaceSymbolRequest) RequestID() RequestID       { return r.ID }
func (r ExecuteCommandRequest) RequestID() RequestID        { return r.ID }
func (r ApplyEditRequest) RequestID() RequestID             { return r.ID }
func (r WillSaveWaitUntilRequest) RequestID() RequestID     { return r.ID }
func (r CompletionRequest) RequestID() RequestID            { return r.ID }
func (r CompletionItemResolveRequest) RequestID() RequestID { return r.ID }
func (r HoverRequest) RequestID() RequestID                 { return r.ID }
func (r SignatureHelpRequest) RequestID() RequestID         { return r.ID }
func (r ReferencesRequest) RequestID() RequestID            { return r.ID }
func (r DocumentHighlightRequest) RequestID() RequestID     { return r.ID }
func (r DocumentSymbolRequest) RequestID() RequestID        { return r.ID }
func (r FormattingRequest) RequestID() RequestID            { return r.ID }
func (r RangeFormattingRequest) RequestID() RequestID       { return r.ID }
func (r OnTypeFormattingRequest) RequestID() RequestID      { return r.ID }
func (r DefinitionRequest) RequestID() RequestID            { return r.ID }
func (r CodeActionRequest) RequestID() RequestID            { return r.ID }
func (r CodeLensRequest) RequestID() RequestID              { return r.ID }
func (r CodeLensResolveRequest) RequestID() RequestID       { return r.ID }
func (r DocumentLinkRequest) RequestID() RequestID          { return r.ID }
func (r DocumentLinkResolveRequest) RequestID() RequestID   { return r.ID }
func (r RenameRequest) RequestID() RequestID                { return r.ID }

// Notifications.

// InitializedNotification is initialized.
type InitializedNotification struct {
	isNotification
	Params Payload
}

// ExitNotification is exit.
type ExitNotification struct {
	isNotification
}

// CancelNotification is $/cancelRequest.
type CancelNotification struct {
	isNotification
	Params CancelParams
}

// ShowMessageNotification is window/showMessage.
type ShowMessageNotification struct {
	isNotification
	Params ShowMessageParams
}

// LogMessageNotification is window/logMessage.
type LogMessageNotification struct {
	isNotification
	Params LogMessageParams
}

// TelemetryEventNotification is telemetry/event.
type TelemetryEventNotification struct {
	isNotification
	Params Payload
}

// DidChangeConfigurationNotification is workspace/didChangeConfiguration.
type DidChangeConfigurationNotification struct {
	isNotification
	Params Payload
}

// DidChangeWatchedFilesNotification is workspace/didChangeWatchedFiles.
type DidChangeWatchedFilesNotification struct {
	isNotification
	Params Payload
}

// PublishDiagnosticsNotification is textDocument/publishDiagnostics.
type PublishDiagnosticsNotification struct {
	isNotification
	Params Payload
}

// DidOpenNotification is textDocument/didOpen.
type DidOpenNotification struct {
	isNotification
	Params DidOpenTextDocumentParams
}

// DidChangeNotification is textDocument/didChange.
type DidChangeNotification struct {
	isNotification
	Params Payload
}

// WillSaveNotification is textDocument/willSave.
type WillSaveNotification struct {
	isNotification
	Params Payload
}

// DidSaveNotification is textDocument/didSave.
type DidSaveNotification struct {
	isNotification
	Params Payload
}

// DidCloseNotification is textDocument/didClose.
type DidCloseNotification struct {
	isNotification
	Params DidCloseTextDocumentParams
}

func (InitializedNotification) Method() string            { return MethodInitialized }
func (ExitNotification) Method() string                   { return MethodExit }
func (CancelNotification) Method() string                 { return MethodCancelRequest }
func (ShowMessageNotification) Method() string            { return MethodShowMessage }
func (LogMessageNotification) Method() string             { return MethodLogMessage }
func (TelemetryEventNotification) Method() string         { return MethodTelemetryEvent }
func (DidChangeConfigurationNotification) Method() string { return MethodDidChangeConfiguration }
func (DidChangeWatchedFilesNotification) Method() string  { return MethodDidChangeWatchedFiles }
func (PublishDiagnosticsNotification) Method() string     { return MethodPublishDiagnostics }
func (DidOpenNotification) Method() string                { return MethodDidOpen }
func (DidChangeNotification) Method() string              { return MethodDidChange }
func (WillSaveNotification) Method() string               { return MethodWillSave }
func (DidSaveNotification) Method() string                { return MethodDidSave }
func (DidCloseNotification) Method() string               { return MethodDidClose }
