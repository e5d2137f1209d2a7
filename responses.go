package lsp

import "encoding/json"

// Response is the reply to a Request. There is one implementation per
// request method. When Error is set it is sent instead of the result.
//
// Result fields of pointer, slice and Payload type encode nil as JSON null.
// An empty non-nil slice encodes as [].
type Response interface {
	RequestID() RequestID
	Method() string
	outcome() (result []byte, rpcErr *Error, err error)
}

// ErrorOf returns the error object resp carries, or nil for a success.
func ErrorOf(resp Response) *Error {
	if resp == nil {
		return nil
	}
	_, rpcErr, _ := resp.outcome()
	return rpcErr
}

// InitializeResponse answers initialize.
type InitializeResponse struct {
	ID     RequestID
	Result InitializeResult
	Error  *Error
}

// ShutdownResponse answers shutdown.
type ShutdownResponse struct {
	ID    RequestID
	Error *Error
}

// ShowMessageRequestResponse answers window/showMessageRequest.
type ShowMessageRequestResponse struct {
	ID     RequestID
	Result *MessageActionItem
	Error  *Error
}

// RegisterCapabilityResponse answers client/registerCapability.
type RegisterCapabilityResponse struct {
	ID    RequestID
	Error *Error
}

// UnregisterCapabilityResponse answers client/unregisterCapability.
type UnregisterCapabilityResponse struct {
	ID    RequestID
	Error *Error
}

// WorkspaceSymbolResponse answers workspace/symbol.
type WorkspaceSymbolResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// ExecuteCommandResponse answers workspace/executeCommand.
type ExecuteCommandResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// ApplyEditResponse answers workspace/applyEdit.
type ApplyEditResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// WillSaveWaitUntilResponse answers textDocument/willSaveWaitUntil.
type WillSaveWaitUntilResponse struct {
	ID     RequestID
	Result []TextEdit
	Error  *Error
}

// CompletionResponse answers textDocument/completion.
type CompletionResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// CompletionItemResolveResponse answers completionItem/resolve.
type CompletionItemResolveResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// HoverResponse answers textDocument/hover.
type HoverResponse struct {
	ID     RequestID
	Result *Hover
	Error  *Error
}

// SignatureHelpResponse answers textDocument/signatureHelp.
type SignatureHelpResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// ReferencesResponse answers textDocument/references.
type ReferencesResponse struct {
	ID     RequestID
	Result []Location
	Error  *Error
}

// DocumentHighlightResponse answers textDocument/documentHighlight.
type DocumentHighlightResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// DocumentSymbolResponse answers textDocument/documentSymbol.
type DocumentSymbolResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// FormattingResponse answers textDocument/formatting.
type FormattingResponse struct {
	ID     RequestID
	Result []TextEdit
	Error  *Error
}

// RangeFormattingResponse answers textDocument/rangeFormatting.
type RangeFormattingResponse struct {
	ID     RequestID
	Result []TextEdit
	Error  *Error
}

// OnTypeFormattingResponse answers textDocument/onTypeFormatting.
type OnTypeFormattingResponse struct {
	ID     RequestID
	Result []TextEdit
	Error  *Error
}

// DefinitionResponse answers textDocument/definition.
type DefinitionResponse struct {
	ID     RequestID
	Result []Location
	Error  *Error
}

// CodeActionResponse answers textDocument/codeAction.
type CodeActionResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// CodeLensResponse answers textDocument/codeLens.
type CodeLensResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// CodeLensResolveResponse answers codeLens/resolve.
type CodeLensResolveResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// DocumentLinkResponse answers textDocument/documentLink.
type DocumentLinkResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// DocumentLinkResolveResponse answers documentLink/resolve.
type DocumentLinkResolveResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

// RenameResponse answers textDocument/rename.
type RenameResponse struct {
	ID     RequestID
	Result Payload
	Error  *Error
}

func (r InitializeResponse) RequestID() RequestID            { return r.ID }
func (r ShutdownResponse) RequestID() RequestID              { return r.ID }
func (r ShowMessageRequestResponse) RequestID() RequestID    { return r.ID }
func (r RegisterCapabilityResponse) RequestID() RequestID    { return r.ID }
func (r UnregisterCapabilityResponse) RequestID() RequestID  { return r.ID }
func (r WorkspaceSymbolResponse) RequestID() RequestID       { return r.ID }
func (r ExecuteCommandResponse) RequestID() RequestID        { return r.ID }
func (r ApplyEditResponse) RequestID() RequestID             { return r.ID }
func (r WillSaveWaitUntilResponse) RequestID() RequestID     { return r.ID }
func (r CompletionResponse) RequestID() RequestID            { return r.ID }
func (r CompletionItemResolveResponse) RequestID() RequestID { return r.ID }
func (r HoverResponse) RequestID() RequestID                 { return r.ID }
func (r SignatureHelpResponse) RequestID() RequestID         { return r.ID }
func (r ReferencesResponse) RequestID() RequestID            { return r.ID }
func (r DocumentHighlightResponse) RequestID() RequestID     { return r.ID }
func (r DocumentSymbolResponse) RequestID() RequestID        { return r.ID }
func (r FormattingResponse) RequestID() RequestID            { return r.ID }
func (r RangeFormattingResponse) RequestID() RequestID       { return r.ID }
func (r OnTypeFormattingResponse) RequestID() RequestID      { return r.ID }
func (r DefinitionResponse) RequestID() RequestID            { return r.ID }
func (r CodeActionResponse) RequestID() RequestID            { return r.ID }
func (r CodeLensResponse) RequestID() RequestID              { return r.ID }
func (r CodeLensResolveResponse) RequestID() RequestID       { return r.ID }
func (r DocumentLinkResponse) RequestID() RequestID          { return r.ID }
func (r DocumentLinkResolveResponse) RequestID() RequestID   { return r.ID }
func (r RenameResponse) RequestID() RequestID                { return r.ID }

func (InitializeResponse) Method() string            { return MethodInitialize }
func (ShutdownResponse) Method() string              { return MethodShutdown }
func (ShowMessageRequestResponse) Method() string    { return MethodShowMessageRequest }
func (RegisterCapabilityResponse) Method() string    { return MethodRegisterCapability }
func (UnregisterCapabilityResponse) Method() string  { return MethodUnregisterCapability }
func (WorkspaceSymbolResponse) Method() string       { return MethodWorkspaceSymbol }
func (ExecuteCommandResponse) Method() string        { return MethodExecuteCommand }
func (ApplyEditResponse) Method() string             { return MethodApplyEdit }
func (WillSaveWaitUntilResponse) Method() string     { return MethodWillSaveWaitUntil }
func (CompletionResponse) Method() string            { return MethodCompletion }
func (CompletionItemResolveResponse) Method() string { return MethodCompletionItemResolve }
func (HoverResponse) Method() string                 { return MethodHover }
func (SignatureHelpResponse) Method() string         { return MethodSignatureHelp }
func (ReferencesResponse) Method() string            { return MethodReferences }
func (DocumentHighlightResponse) Method() string     { return MethodDocumentHighlight }
func (DocumentSymbolResponse) Method() string        { return MethodDocumentSymbol }
func (FormattingResponse) Method() string            { return MethodFormatting }
func (RangeFormattingResponse) Method() string       { return MethodRangeFormatting }
func (OnTypeFormattingResponse) Method() string      { return MethodOnTypeFormatting }
func (DefinitionResponse) Method() string            { return MethodDefinition }
func (CodeActionResponse) Method() string            { return MethodCodeAction }
func (CodeLensResponse) Method() string              { return MethodCodeLens }
func (CodeLensResolveResponse) Method() string       { return MethodCodeLensResolve }
func (DocumentLinkResponse) Method() string          { return MethodDocumentLink }
func (DocumentLinkResolveResponse) Method() string   { return MethodDocumentLinkResolve }
func (RenameResponse) Method() string                { return MethodRename }

func (r InitializeResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r ShutdownResponse) outcome() ([]byte, *Error, error) { return nullOutcome(r.Error) }

func (r ShowMessageRequestResponse) outcome() ([]byte, *Error, error) {
	return pointerOutcome(r.Result, r.Error)
}

func (r RegisterCapabilityResponse) outcome() ([]byte, *Error, error) {
	return nullOutcome(r.Error)
}

func (r UnregisterCapabilityResponse) outcome() ([]byte, *Error, error) {
	return nullOutcome(r.Error)
}

func (r WorkspaceSymbolResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r ExecuteCommandResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r ApplyEditResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r WillSaveWaitUntilResponse) outcome() ([]byte, *Error, error) {
	return listOutcome(r.Result, r.Error)
}

func (r CompletionResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r CompletionItemResolveResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r HoverResponse) outcome() ([]byte, *Error, error) {
	return pointerOutcome(r.Result, r.Error)
}

func (r SignatureHelpResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r ReferencesResponse) outcome() ([]byte, *Error, error) {
	return listOutcome(r.Result, r.Error)
}

func (r DocumentHighlightResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r DocumentSymbolResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r FormattingResponse) outcome() ([]byte, *Error, error) {
	return listOutcome(r.Result, r.Error)
}

func (r RangeFormattingResponse) outcome() ([]byte, *Error, error) {
	return listOutcome(r.Result, r.Error)
}

func (r OnTypeFormattingResponse) outcome() ([]byte, *Error, error) {
	return listOutcome(r.Result, r.Error)
}

func (r DefinitionResponse) outcome() ([]byte, *Error, error) {
	return listOutcome(r.Result, r.Error)
}

func (r CodeActionResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r CodeLensResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r CodeLensResolveResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r DocumentLinkResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r DocumentLinkResolveResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func (r RenameResponse) outcome() ([]byte, *Error, error) {
	return valueOutcome(r.Result, r.Error)
}

func nullOutcome(rpcErr *Error) ([]byte, *Error, error) {
	if rpcErr != nil {
		return nil, rpcErr, nil
	}
	return []byte("null"), nil, nil
}

func valueOutcome(v json.Marshaler, rpcErr *Error) ([]byte, *Error, error) {
	if rpcErr != nil {
		return nil, rpcErr, nil
	}
	data, err := v.MarshalJSON()
	return data, nil, err
}

func pointerOutcome[T json.Marshaler](v *T, rpcErr *Error) ([]byte, *Error, error) {
	if rpcErr != nil || v == nil {
		return nullOutcome(rpcErr)
	}
	return valueOutcome(*v, nil)
}

func listOutcome[T json.Marshaler](v []T, rpcErr *Error) ([]byte, *Error, error) {
	if rpcErr != nil {
		return nil, rpcErr, nil
	}
	data, err := marshalList(v)
	return data, nil, err
}

// responseFunc builds the typed Response for one request method from an
// untyped inbound response.
type responseFunc func(ResponseMessage) (Response, error)

func emptyResult(build func(RequestID, *Error) Response) responseFunc {
	return func(m ResponseMessage) (Response, error) {
		return build(m.ID, m.Error), nil
	}
}

func opaqueResult(build func(RequestID, Payload, *Error) Response) responseFunc {
	return func(m ResponseMessage) (Response, error) {
		return build(m.ID, m.Result, m.Error), nil
	}
}

func valueResult[R any](decode func(object) (R, error), build func(RequestID, R, *Error) Response) responseFunc {
	return func(m ResponseMessage) (Response, error) {
		var result R
		if m.Error == nil {
			o, err := asObject(json.RawMessage(m.Result), "result")
			if err != nil {
				return nil, err
			}
			if result, err = decode(o); err != nil {
				return nil, err
			}
		}
		return build(m.ID, result, m.Error), nil
	}
}

func pointerResult[R any](decode func(object) (R, error), build func(RequestID, *R, *Error) Response) responseFunc {
	return func(m ResponseMessage) (Response, error) {
		if m.Error != nil || m.Result.IsNull() {
			return build(m.ID, nil, m.Error), nil
		}
		o, err := asObject(json.RawMessage(m.Result), "result")
		if err != nil {
			return nil, err
		}
		result, err := decode(o)
		if err != nil {
			return nil, err
		}
		return build(m.ID, &result, nil), nil
	}
}

func listResult[R any](decode func(object) (R, error), build func(RequestID, []R, *Error) Response) responseFunc {
	return func(m ResponseMessage) (Response, error) {
		var result []R
		if m.Error == nil {
			var err error
			if result, err = decodeList(json.RawMessage(m.Result), "result", decode); err != nil {
				return nil, err
			}
		}
		return build(m.ID, result, m.Error), nil
	}
}
