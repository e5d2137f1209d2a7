package lsp

// Method names.
const (
	MethodInitialize             = "initialize"
	MethodInitialized            = "initialized"
	MethodShutdown               = "shutdown"
	MethodExit                   = "exit"
	MethodCancelRequest          = "$/cancelRequest"
	MethodShowMessage            = "window/showMessage"
	MethodShowMessageRequest     = "window/showMessageRequest"
	MethodLogMessage             = "window/logMessage"
	MethodTelemetryEvent         = "telemetry/event"
	MethodRegisterCapability     = "client/registerCapability"
	MethodUnregisterCapability   = "client/unregisterCapability"
	MethodDidChangeConfiguration = "workspace/didChangeConfiguration"
	MethodDidChangeWatchedFiles  = "workspace/didChangeWatchedFiles"
	MethodWorkspaceSymbol        = "workspace/symbol"
	MethodExecuteCommand         = "workspace/executeCommand"
	MethodApplyEdit              = "workspace/applyEdit"
	MethodPublishDiagnostics     = "textDocument/publishDiagnostics"
	MethodDidOpen                = "textDocument/didOpen"
	MethodDidChange              = "textDocument/didChange"
	MethodWillSave               = "textDocument/willSave"
	MethodWillSaveWaitUntil      = "textDocument/willSaveWaitUntil"
	MethodDidSave                = "textDocument/didSave"
	MethodDidClose               = "textDocument/didClose"
	MethodCompletion             = "textDocument/completion"
	MethodCompletionItemResolve  = "completionItem/resolve"
	MethodHover                  = "textDocument/hover"
	MethodSignatureHelp          = "textDocument/signatureHelp"
	MethodReferences             = "textDocument/references"
	MethodDocumentHighlight      = "textDocument/documentHighlight"
	MethodDocumentSymbol         = "textDocument/documentSymbol"
	MethodFormatting             = "textDocument/formatting"
	MethodRangeFormatting        = "textDocument/rangeFormatting"
	MethodOnTypeFormatting       = "textDocument/onTypeFormatting"
	MethodDefinition             = "textDocument/definition"
	MethodCodeAction             = "textDocument/codeAction"
	MethodCodeLens               = "textDocument/codeLens"
	MethodCodeLensResolve        = "codeLens/resolve"
	MethodDocumentLink           = "textDocument/documentLink"
	MethodDocumentLinkResolve    = "documentLink/resolve"
	MethodRename                 = "textDocument/rename"
)

// decodeFunc turns a validated envelope into a Command.
type decodeFunc func(env object) (Command, error)

// MethodEntry binds a method name to its Command decoder and, for requests,
// to the constructor of its typed Response.
type MethodEntry struct {
	name     string
	decode   decodeFunc
	response responseFunc
}

// Name returns the method name.
func (e MethodEntry) Name() string {
	return e.name
}

// IsRequest reports whether the method expects a response.
func (e MethodEntry) IsRequest() bool {
	return e.response != nil
}

// Methods returns the entries of every method in the base protocol.
// The returned slice is freshly allocated.
func Methods() []MethodEntry {
	return []MethodEntry{
		{MethodInitialize,
			request(typedParams(decodeInitializeParams), func(id RequestID, p InitializeParams) Command {
				return InitializeRequest{ID: id, Params: p}
			}),
			valueResult(decodeInitializeResult, func(id RequestID, r InitializeResult, e *Error) Response {
				return InitializeResponse{ID: id, Result: r, Error: e}
			})},
		{MethodInitialized,
			notification(opaqueParams, func(p Payload) Command { return InitializedNotification{Params: p} }),
			nil},
		{MethodShutdown,
			request(noParams, func(id RequestID, _ struct{}) Command { return ShutdownRequest{ID: id} }),
			emptyResult(func(id RequestID, e *Error) Response { return ShutdownResponse{ID: id, Error: e} })},
		{MethodExit,
			notification(noParams, func(struct{}) Command { return ExitNotification{} }),
			nil},
		{MethodCancelRequest,
			notification(typedParams(decodeCancelParams), func(p CancelParams) Command { return CancelNotification{Params: p} }),
			nil},
		{MethodShowMessage,
			notification(typedParams(decodeShowMessageParams), func(p ShowMessageParams) Command {
				return ShowMessageNotification{Params: p}
			}),
			nil},
		{MethodShowMessageRequest,
			request(typedParams(decodeShowMessageRequestParams), func(id RequestID, p ShowMessageRequestParams) Command {
				return ShowMessageRequest{ID: id, Params: p}
			}),
			pointerResult(decodeMessageActionItem, func(id RequestID, r *MessageActionItem, e *Error) Response {
				return ShowMessageRequestResponse{ID: id, Result: r, Error: e}
			})},
		{MethodLogMessage,
			notification(typedParams(decodeLogMessageParams), func(p LogMessageParams) Command {
				return LogMessageNotification{Params: p}
			}),
			nil},
		{MethodTelemetryEvent,
			notification(opaqueParams, func(p Payload) Command { return TelemetryEventNotification{Params: p} }),
			nil},
		{MethodRegisterCapability,
			request(opaqueParams, func(id RequestID, p Payload) Command { return RegisterCapabilityRequest{ID: id, Params: p} }),
			emptyResult(func(id RequestID, e *Error) Response { return RegisterCapabilityResponse{ID: id, Error: e} })},
		{MethodUnregisterCapability,
			request(opaqueParams, func(id RequestID, p Payload) Command { return UnregisterCapabilityRequest{ID: id, Params: p} }),
			emptyResult(func(id RequestID, e *Error) Response { return UnregisterCapabilityResponse{ID: id, Error: e} })},
		{MethodDidChangeConfiguration,
			notification(opaqueParams, func(p Payload) Command { return DidChangeConfigurationNotification{Params: p} }),
			nil},
		{MethodDidChangeWatchedFiles,
			notification(opaqueParams, func(p Payload) Command { return DidChangeWatchedFilesNotification{Params: p} }),
			nil},
		{MethodWorkspaceSymbol,
			request(opaqueParams, func(id RequestID, p Payload) Command { return WorkspaceSymbolRequest{ID: id, Params: p} }),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return WorkspaceSymbolResponse{ID: id, Result: r, Error: e}
			})},
		{MethodExecuteCommand,
			request(opaqueParams, func(id RequestID, p Payload) Command { return ExecuteCommandRequest{ID: id, Params: p} }),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return ExecuteCommandResponse{ID: id, Result: r, Error: e}
			})},
		{MethodApplyEdit,
			request(opaqueParams, func(id RequestID, p Payload) Command { return ApplyEditRequest{ID: id, Params: p} }),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return ApplyEditResponse{ID: id, Result: r, Error: e}
			})},
		{MethodPublishDiagnostics,
			notification(opaqueParams, func(p Payload) Command { return PublishDiagnosticsNotification{Params: p} }),
			nil},
		{MethodDidOpen,
			notification(typedParams(decodeDidOpenTextDocumentParams), func(p DidOpenTextDocumentParams) Command {
				return DidOpenNotification{Params: p}
			}),
			nil},
		{MethodDidChange,
			notification(opaqueParams, func(p Payload) Command { return DidChangeNotification{Params: p} }),
			nil},
		{MethodWillSave,
			notification(opaqueParams, func(p Payload) Command { return WillSaveNotification{Params: p} }),
			nil},
		{MethodWillSaveWaitUntil,
			request(opaqueParams, func(id RequestID, p Payload) Command { return WillSaveWaitUntilRequest{ID: id, Params: p} }),
			listResult(decodeTextEdit, func(id RequestID, r []TextEdit, e *Error) Response {
				return WillSaveWaitUntilResponse{ID: id, Result: r, Error: e}
			})},
		{MethodDidSave,
			notification(opaqueParams, func(p Payload) Command { return DidSaveNotification{Params: p} }),
			nil},
		{MethodDidClose,
			notification(typedParams(decodeDidCloseTextDocumentParams), func(p DidCloseTextDocumentParams) Command {
				return DidCloseNotification{Params: p}
			}),
			nil},
		{MethodCompletion,
			request(opaqueParams, func(id RequestID, p Payload) Command { return CompletionRequest{ID: id, Params: p} }),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return CompletionResponse{ID: id, Result: r, Error: e}
			})},
		{MethodCompletionItemResolve,
			request(opaqueParams, func(id RequestID, p Payload) Command { return CompletionItemResolveRequest{ID: id, Params: p} }),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return CompletionItemResolveResponse{ID: id, Result: r, Error: e}
			})},
		{MethodHover,
			request(typedParams(decodeTextDocumentPositionParams), func(id RequestID, p TextDocumentPositionParams) Command {
				return HoverRequest{ID: id, Params: p}
			}),
			pointerResult(decodeHover, func(id RequestID, r *Hover, e *Error) Response {
				return HoverResponse{ID: id, Result: r, Error: e}
			})},
		{MethodSignatureHelp,
			request(typedParams(decodeTextDocumentPositionParams), func(id RequestID, p TextDocumentPositionParams) Command {
				return SignatureHelpRequest{ID: id, Params: p}
			}),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return SignatureHelpResponse{ID: id, Result: r, Error: e}
			})},
		{MethodReferences,
			request(opaqueParams, func(id RequestID, p Payload) Command { return ReferencesRequest{ID: id, Params: p} }),
			listResult(decodeLocation, func(id RequestID, r []Location, e *Error) Response {
				return ReferencesResponse{ID: id, Result: r, Error: e}
			})},
		{MethodDocumentHighlight,
			request(typedParams(decodeTextDocumentPositionParams), func(id RequestID, p TextDocumentPositionParams) Command {
				return DocumentHighlightRequest{ID: id, Params: p}
			}),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return DocumentHighlightResponse{ID: id, Result: r, Error: e}
			})},
		{MethodDocumentSymbol,
			request(opaqueParams, func(id RequestID, p Payload) Command { return DocumentSymbolRequest{ID: id, Params: p} }),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return DocumentSymbolResponse{ID: id, Result: r, Error: e}
			})},
		{MethodFormatting,
			request(opaqueParams, func(id RequestID, p Payload) Command { return FormattingRequest{ID: id, Params: p} }),
			listResult(decodeTextEdit, func(id RequestID, r []TextEdit, e *Error) Response {
				return FormattingResponse{ID: id, Result: r, Error: e}
			})},
		{MethodRangeFormatting,
			request(opaqueParams, func(id RequestID, p Payload) Command { return RangeFormattingRequest{ID: id, Params: p} }),
			listResult(decodeTextEdit, func(id RequestID, r []TextEdit, e *Error) Response {
				return RangeFormattingResponse{ID: id, Result: r, Error: e}
			})},
		{MethodOnTypeFormatting,
			request(opaqueParams, func(id RequestID, p Payload) Command { return OnTypeFormattingRequest{ID: id, Params: p} }),
			listResult(decodeTextEdit, func(id RequestID, r []TextEdit, e *Error) Response {
				return OnTypeFormattingResponse{ID: id, Result: r, Error: e}
			})},
		{MethodDefinition,
			request(typedParams(decodeTextDocumentPositionParams), func(id RequestID, p TextDocumentPositionParams) Command {
				return DefinitionRequest{ID: id, Params: p}
			}),
			listResult(decodeLocation, func(id RequestID, r []Location, e *Error) Response {
				return DefinitionResponse{ID: id, Result: r, Error: e}
			})},
		{MethodCodeAction,
			request(opaqueParams, func(id RequestID, p Payload) Command { return CodeActionRequest{ID: id, Params: p} }),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return CodeActionResponse{ID: id, Result: r, Error: e}
			})},
		{MethodCodeLens,
			request(opaqueParams, func(id RequestID, p Payload) Command { return CodeLensRequest{ID: id, Params: p} }),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return CodeLensResponse{ID: id, Result: r, Error: e}
			})},
		{MethodCodeLensResolve,
			request(opaqueParams, func(id RequestID, p Payload) Command { return CodeLensResolveRequest{ID: id, Params: p} }),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return CodeLensResolveResponse{ID: id, Result: r, Error: e}
			})},
		{MethodDocumentLink,
			request(opaqueParams, func(id RequestID, p Payload) Command { return DocumentLinkRequest{ID: id, Params: p} }),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return DocumentLinkResponse{ID: id, Result: r, Error: e}
			})},
		{MethodDocumentLinkResolve,
			request(opaqueParams, func(id RequestID, p Payload) Command { return DocumentLinkResolveRequest{ID: id, Params: p} }),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return DocumentLinkResolveResponse{ID: id, Result: r, Error: e}
			})},
		{MethodRename,
			request(opaqueParams, func(id RequestID, p Payload) Command { return RenameRequest{ID: id, Params: p} }),
			opaqueResult(func(id RequestID, r Payload, e *Error) Response {
				return RenameResponse{ID: id, Result: r, Error: e}
			})},
	}
}

func request[P any](params func(object) (P, error), build func(RequestID, P) Command) decodeFunc {
	return func(env object) (Command, error) {
		id, err := env.requireID("id")
		if err != nil {
			return nil, err
		}
		p, err := params(env)
		if err != nil {
			return nil, err
		}
		return build(id, p), nil
	}
}

func notification[P any](params func(object) (P, error), build func(P) Command) decodeFunc {
	return func(env object) (Command, error) {
		p, err := params(env)
		if err != nil {
			return nil, err
		}
		return build(p), nil
	}
}

func noParams(object) (struct{}, error) {
	return struct{}{}, nil
}

// opaqueParams keeps params verbatim. An absent member yields a nil Payload.
func opaqueParams(env object) (Payload, error) {
	return env.payload("params"), nil
}

func typedParams[P any](decode func(object) (P, error)) func(object) (P, error) {
	return func(env object) (P, error) {
		params, err := env.requireObject("params")
		if err != nil {
			var zero P
			return zero, err
		}
		return decode(params)
	}
}
