package lsp

import "testing"

func TestTypes_MarshalJSON(t *testing.T) {
	one := 1
	uri := "file:///w"
	r := Range{Start: Position{Line: 0, Character: 1}, End: Position{Line: 2, Character: 3}}

	tests := []struct {
		name string
		v    interface{ MarshalJSON() ([]byte, error) }
		want string
	}{
		{
			name: "location",
			v:    Location{URI: "file:///a", Range: r},
			want: `{"uri":"file:///a","range":{"start":{"line":0,"character":1},"end":{"line":2,"character":3}}}`,
		},
		{
			name: "hover without range",
			v:    Hover{Contents: Payload(`"x"`)},
			want: `{"contents":"x"}`,
		},
		{
			name: "initialize params with nulls",
			v:    InitializeParams{Capabilities: Payload(`{}`)},
			want: `{"processId":null,"rootUri":null,"capabilities":{}}`,
		},
		{
			name: "initialize params",
			v:    InitializeParams{ProcessID: &one, RootURI: &uri, Capabilities: Payload(`{}`), Trace: TraceMessages},
			want: `{"processId":1,"rootUri":"file:///w","capabilities":{},"trace":"messages"}`,
		},
		{
			name: "cancel with string id",
			v:    CancelParams{ID: StringID("7")},
			want: `{"id":"7"}`,
		},
		{
			name: "message request with actions",
			v:    ShowMessageRequestParams{Type: MessageTypeWarning, Message: "save?", Actions: []MessageActionItem{{Title: "Yes"}, {Title: "No"}}},
			want: `{"type":2,"message":"save?","actions":[{"title":"Yes"},{"title":"No"}]}`,
		},
		{
			name: "document item escapes text",
			v:    TextDocumentItem{URI: "u", LanguageID: "go", Version: 3, Text: "a\tb\n\"c\""},
			want: `{"uri":"u","languageId":"go","version":3,"text":"a\tb\n\"c\""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
