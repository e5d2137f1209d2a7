package main

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf16"

	"github.com/Zereker/lsp"
)

type document struct {
	URI        string
	LanguageID string
	Version    int
	Text       string
}

// documentStore holds the text of every open document of a session.
type documentStore struct {
	mu   sync.RWMutex
	docs map[string]document
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[string]document)}
}

func (s *documentStore) Open(item lsp.TextDocumentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[item.URI] = document{
		URI:        item.URI,
		LanguageID: item.LanguageID,
		Version:    item.Version,
		Text:       item.Text,
	}
}

// Replace sets the full text of an open document. It reports false when the
// document is not open.
func (s *documentStore) Replace(uri string, version int, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return false
	}
	doc.Version = version
	doc.Text = text
	s.docs[uri] = doc
	return true
}

func (s *documentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *documentStore) Get(uri string) (document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

func (s *documentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordAt returns the word touching pos and its range. Character offsets are
// counted in UTF-16 code units.
func wordAt(text string, pos lsp.Position) (string, lsp.Range, bool) {
	lines := strings.Split(text, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return "", lsp.Range{}, false
	}
	line := []rune(strings.TrimSuffix(lines[pos.Line], "\r"))

	// Rune index of the cursor.
	idx, units := 0, 0
	for idx < len(line) && units < pos.Character {
		units += utf16.RuneLen(line[idx])
		idx++
	}
	if units != pos.Character {
		return "", lsp.Range{}, false
	}

	start, end := idx, idx
	for start > 0 && isWordRune(line[start-1]) {
		start--
	}
	for end < len(line) && isWordRune(line[end]) {
		end++
	}
	if start == end {
		return "", lsp.Range{}, false
	}

	rng := lsp.Range{
		Start: lsp.Position{Line: pos.Line, Character: utf16Len(line[:start])},
		End:   lsp.Position{Line: pos.Line, Character: utf16Len(line[:end])},
	}
	return string(line[start:end]), rng, true
}

func utf16Len(runes []rune) int {
	n := 0
	for _, r := range runes {
		n += utf16.RuneLen(r)
	}
	return n
}
