package lsp

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/rlch/arturo"
)

// Formatting handles textDocument/formatting requests. The result is a single
// edit replacing the whole document, or no edits when it is already formatted.
//
// A project config file decides indentation; without one the editor's
// tab/space preference is used.
func (s *Server) Formatting(_ context.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	defer s.traceHandler("Formatting")()

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil
	}

	s.mu.RLock()
	cfg := s.config.Format
	fromFile := s.configPath != ""
	s.mu.RUnlock()

	if !fromFile && params.Options.TabSize > 0 {
		cfg.UseTabs = !params.Options.InsertSpaces
		cfg.IndentSize = int(params.Options.TabSize)
	}

	formatted := arturo.FormatDocument(doc.Analysis.Doc, cfg)
	if formatted == doc.Content {
		return []protocol.TextEdit{}, nil
	}

	return []protocol.TextEdit{{
		Range:   documentRange(doc),
		NewText: formatted,
	}}, nil
}

// documentRange covers the whole document.
func documentRange(doc *Document) protocol.Range {
	f := doc.Analysis
	last := max(f.Doc.Len()-1, 0)

	return protocol.Range{
		End: protocol.Position{
			Line:      uint32(last), //nolint:gosec
			Character: utf16Column(f.Line(last), len(f.Line(last))),
		},
	}
}
