package lsp

// Protocol structures the core decodes into typed values. Everything else a
// method carries travels as an opaque Payload.

// Position is a zero-based line and character offset in a document.
type Position struct {
	Line      int
	Character int
}

func (p Position) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	b.int("line", p.Line)
	b.int("character", p.Character)
	return b.bytes(), nil
}

func decodePosition(o object) (Position, error) {
	line, err := o.requireInt("line")
	if err != nil {
		return Position{}, err
	}
	character, err := o.requireInt("character")
	if err != nil {
		return Position{}, err
	}
	return Position{Line: line, Character: character}, nil
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position
	End   Position
}

func (r Range) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	if err := b.value("start", r.Start); err != nil {
		return nil, err
	}
	if err := b.value("end", r.End); err != nil {
		return nil, err
	}
	return b.bytes(), nil
}

func decodeRange(o object) (Range, error) {
	start, err := o.requireObject("start")
	if err != nil {
		return Range{}, err
	}
	end, err := o.requireObject("end")
	if err != nil {
		return Range{}, err
	}
	var r Range
	if r.Start, err = decodePosition(start); err != nil {
		return Range{}, err
	}
	if r.End, err = decodePosition(end); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Location is a range inside a document.
type Location struct {
	URI   string
	Range Range
}

func (l Location) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	b.string("uri", l.URI)
	if err := b.value("range", l.Range); err != nil {
		return nil, err
	}
	return b.bytes(), nil
}

func decodeLocation(o object) (Location, error) {
	uri, err := o.requireString("uri")
	if err != nil {
		return Location{}, err
	}
	ro, err := o.requireObject("range")
	if err != nil {
		return Location{}, err
	}
	r, err := decodeRange(ro)
	if err != nil {
		return Location{}, err
	}
	return Location{URI: uri, Range: r}, nil
}

// TextEdit replaces the text in Range with NewText.
type TextEdit struct {
	Range   Range
	NewText string
}

func (e TextEdit) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	if err := b.value("range", e.Range); err != nil {
		return nil, err
	}
	b.string("newText", e.NewText)
	return b.bytes(), nil
}

func decodeTextEdit(o object) (TextEdit, error) {
	ro, err := o.requireObject("range")
	if err != nil {
		return TextEdit{}, err
	}
	r, err := decodeRange(ro)
	if err != nil {
		return TextEdit{}, err
	}
	text, err := o.requireString("newText")
	if err != nil {
		return TextEdit{}, err
	}
	return TextEdit{Range: r, NewText: text}, nil
}

// TextDocumentIdentifier names a document by URI.
type TextDocumentIdentifier struct {
	URI string
}

func (d TextDocumentIdentifier) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	b.string("uri", d.URI)
	return b.bytes(), nil
}

func decodeTextDocumentIdentifier(o object) (TextDocumentIdentifier, error) {
	uri, err := o.requireString("uri")
	return TextDocumentIdentifier{URI: uri}, err
}

// TextDocumentItem is a document transferred from client to server on open.
type TextDocumentItem struct {
	URI        string
	LanguageID string
	Version    int
	Text       string
}

func (d TextDocumentItem) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	b.string("uri", d.URI)
	b.string("languageId", d.LanguageID)
	b.int("version", d.Version)
	b.string("text", d.Text)
	return b.bytes(), nil
}

func decodeTextDocumentItem(o object) (TextDocumentItem, error) {
	var (
		d   TextDocumentItem
		err error
	)
	if d.URI, err = o.requireString("uri"); err != nil {
		return TextDocumentItem{}, err
	}
	if d.LanguageID, err = o.requireString("languageId"); err != nil {
		return TextDocumentItem{}, err
	}
	if d.Version, err = o.requireInt("version"); err != nil {
		return TextDocumentItem{}, err
	}
	if d.Text, err = o.requireString("text"); err != nil {
		return TextDocumentItem{}, err
	}
	return d, nil
}

// TextDocumentPositionParams addresses a position inside a document.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier
	Position     Position
}

func (p TextDocumentPositionParams) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	if err := b.value("textDocument", p.TextDocument); err != nil {
		return nil, err
	}
	if err := b.value("position", p.Position); err != nil {
		return nil, err
	}
	return b.bytes(), nil
}

func decodeTextDocumentPositionParams(o object) (TextDocumentPositionParams, error) {
	doc, err := o.requireObject("textDocument")
	if err != nil {
		return TextDocumentPositionParams{}, err
	}
	pos, err := o.requireObject("position")
	if err != nil {
		return TextDocumentPositionParams{}, err
	}
	var p TextDocumentPositionParams
	if p.TextDocument, err = decodeTextDocumentIdentifier(doc); err != nil {
		return TextDocumentPositionParams{}, err
	}
	if p.Position, err = decodePosition(pos); err != nil {
		return TextDocumentPositionParams{}, err
	}
	return p, nil
}

// DidOpenTextDocumentParams is the payload of textDocument/didOpen.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem
}

func (p DidOpenTextDocumentParams) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	if err := b.value("textDocument", p.TextDocument); err != nil {
		return nil, err
	}
	return b.bytes(), nil
}

func decodeDidOpenTextDocumentParams(o object) (DidOpenTextDocumentParams, error) {
	doc, err := o.requireObject("textDocument")
	if err != nil {
		return DidOpenTextDocumentParams{}, err
	}
	item, err := decodeTextDocumentItem(doc)
	return DidOpenTextDocumentParams{TextDocument: item}, err
}

// DidCloseTextDocumentParams is the payload of textDocument/didClose.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier
}

func (p DidCloseTextDocumentParams) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	if err := b.value("textDocument", p.TextDocument); err != nil {
		return nil, err
	}
	return b.bytes(), nil
}

func decodeDidCloseTextDocumentParams(o object) (DidCloseTextDocumentParams, error) {
	doc, err := o.requireObject("textDocument")
	if err != nil {
		return DidCloseTextDocumentParams{}, err
	}
	id, err := decodeTextDocumentIdentifier(doc)
	return DidCloseTextDocumentParams{TextDocument: id}, err
}

// Hover is the result of textDocument/hover. Contents is kept opaque since
// the protocol allows several shapes there.
type Hover struct {
	Contents Payload
	Range    *Range
}

func (h Hover) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	if err := b.value("contents", h.Contents); err != nil {
		return nil, err
	}
	if h.Range != nil {
		if err := b.value("range", *h.Range); err != nil {
			return nil, err
		}
	}
	return b.bytes(), nil
}

func decodeHover(o object) (Hover, error) {
	contents, ok := o.lookup("contents")
	if !ok {
		return Hover{}, missingField(o.name("contents"))
	}
	h := Hover{Contents: Payload(contents)}
	ro, ok, err := o.optionalObject("range")
	if err != nil {
		return Hover{}, err
	}
	if ok {
		r, err := decodeRange(ro)
		if err != nil {
			return Hover{}, err
		}
		h.Range = &r
	}
	return h, nil
}

// TraceSetting controls the server's trace output.
type TraceSetting string

const (
	TraceOff      TraceSetting = "off"
	TraceMessages TraceSetting = "messages"
	TraceVerbose  TraceSetting = "verbose"
)

// InitializeParams is the payload of the initialize request. Capabilities
// and InitializationOptions are kept opaque.
type InitializeParams struct {
	ProcessID             *int
	RootPath              *string
	RootURI               *string
	InitializationOptions Payload
	Capabilities          Payload
	Trace                 TraceSetting
}

func (p InitializeParams) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	if p.ProcessID != nil {
		b.int("processId", *p.ProcessID)
	} else {
		b.raw("processId", NullPayload)
	}
	if p.RootPath != nil {
		b.string("rootPath", *p.RootPath)
	}
	if p.RootURI != nil {
		b.string("rootUri", *p.RootURI)
	} else {
		b.raw("rootUri", NullPayload)
	}
	if len(p.InitializationOptions) > 0 {
		b.raw("initializationOptions", p.InitializationOptions)
	}
	if err := b.value("capabilities", p.Capabilities); err != nil {
		return nil, err
	}
	if p.Trace != "" {
		b.string("trace", string(p.Trace))
	}
	return b.bytes(), nil
}

func decodeInitializeParams(o object) (InitializeParams, error) {
	var p InitializeParams
	if pid, ok, err := o.optionalInt("processId"); err != nil {
		return InitializeParams{}, err
	} else if ok {
		p.ProcessID = &pid
	}
	if root, ok, err := o.optionalString("rootPath"); err != nil {
		return InitializeParams{}, err
	} else if ok {
		p.RootPath = &root
	}
	if uri, ok, err := o.optionalString("rootUri"); err != nil {
		return InitializeParams{}, err
	} else if ok {
		p.RootURI = &uri
	}
	p.InitializationOptions = o.payload("initializationOptions")

	if _, err := o.requireObject("capabilities"); err != nil {
		return InitializeParams{}, err
	}
	p.Capabilities = o.payload("capabilities")

	trace, ok, err := o.optionalString("trace")
	if err != nil {
		return InitializeParams{}, err
	}
	switch TraceSetting(trace) {
	case TraceOff, TraceMessages, TraceVerbose:
		p.Trace = TraceSetting(trace)
	default:
		if ok {
			return InitializeParams{}, wrongFieldType(o.name("trace"), `one of "off", "messages", "verbose"`)
		}
		p.Trace = TraceOff
	}
	return p, nil
}

// InitializeResult is the result of the initialize request.
type InitializeResult struct {
	Capabilities Payload
}

func (r InitializeResult) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	if err := b.value("capabilities", r.Capabilities); err != nil {
		return nil, err
	}
	return b.bytes(), nil
}

func decodeInitializeResult(o object) (InitializeResult, error) {
	if _, err := o.requireObject("capabilities"); err != nil {
		return InitializeResult{}, err
	}
	return InitializeResult{Capabilities: o.payload("capabilities")}, nil
}

// CancelParams is the payload of $/cancelRequest.
type CancelParams struct {
	ID RequestID
}

func (p CancelParams) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	if err := b.value("id", p.ID); err != nil {
		return nil, err
	}
	return b.bytes(), nil
}

func decodeCancelParams(o object) (CancelParams, error) {
	id, err := o.requireID("id")
	return CancelParams{ID: id}, err
}

// MessageType classifies messages shown or logged on the client.
type MessageType int

const (
	MessageTypeError   MessageType = 1
	MessageTypeWarning MessageType = 2
	MessageTypeInfo    MessageType = 3
	MessageTypeLog     MessageType = 4
)

// ShowMessageParams is the payload of window/showMessage.
type ShowMessageParams struct {
	Type    MessageType
	Message string
}

func (p ShowMessageParams) MarshalJSON() ([]byte, error) {
	return marshalMessage(p.Type, p.Message, nil)
}

// LogMessageParams is the payload of window/logMessage.
type LogMessageParams struct {
	Type    MessageType
	Message string
}

func (p LogMessageParams) MarshalJSON() ([]byte, error) {
	return marshalMessage(p.Type, p.Message, nil)
}

// MessageActionItem is one button offered by window/showMessageRequest.
type MessageActionItem struct {
	Title string
}

func (a MessageActionItem) MarshalJSON() ([]byte, error) {
	var b objectBuilder
	b.string("title", a.Title)
	return b.bytes(), nil
}

func decodeMessageActionItem(o object) (MessageActionItem, error) {
	title, err := o.requireString("title")
	return MessageActionItem{Title: title}, err
}

// ShowMessageRequestParams is the payload of window/showMessageRequest.
type ShowMessageRequestParams struct {
	Type    MessageType
	Message string
	Actions []MessageActionItem
}

func (p ShowMessageRequestParams) MarshalJSON() ([]byte, error) {
	return marshalMessage(p.Type, p.Message, p.Actions)
}

func marshalMessage(typ MessageType, message string, actions []MessageActionItem) ([]byte, error) {
	var b objectBuilder
	b.int("type", int(typ))
	b.string("message", message)
	if actions != nil {
		data, err := marshalList(actions)
		if err != nil {
			return nil, err
		}
		b.raw("actions", data)
	}
	return b.bytes(), nil
}

func decodeMessage(o object) (MessageType, string, error) {
	typ, err := o.requireInt("type")
	if err != nil {
		return 0, "", err
	}
	message, err := o.requireString("message")
	if err != nil {
		return 0, "", err
	}
	return MessageType(typ), message, nil
}

func decodeShowMessageParams(o object) (ShowMessageParams, error) {
	typ, message, err := decodeMessage(o)
	return ShowMessageParams{Type: typ, Message: message}, err
}

func decodeLogMessageParams(o object) (LogMessageParams, error) {
	typ, message, err := decodeMessage(o)
	return LogMessageParams{Type: typ, Message: message}, err
}

func decodeShowMessageRequestParams(o object) (ShowMessageRequestParams, error) {
	typ, message, err := decodeMessage(o)
	if err != nil {
		return ShowMessageRequestParams{}, err
	}
	p := ShowMessageRequestParams{Type: typ, Message: message}
	if raw, ok := o.lookup("actions"); ok {
		p.Actions, err = decodeList(raw, o.name("actions"), decodeMessageActionItem)
		if err != nil {
			return ShowMessageRequestParams{}, err
		}
	}
	return p, nil
}
