package lsp

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/rlch/arturo/analysis"
)

// DocumentSymbol handles textDocument/documentSymbol requests with a flat
// list sorted by line.
func (s *Server) DocumentSymbol(_ context.Context, params *protocol.DocumentSymbolParams) ([]protocol.DocumentSymbol, error) {
	defer s.traceHandler("DocumentSymbol")()

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil
	}

	symbols := doc.Analysis.DocumentSymbols()

	out := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		out = append(out, protocol.DocumentSymbol{
			Name:           sym.Name,
			Detail:         sym.Detail,
			Kind:           symbolKind(sym.Kind),
			Range:          spanToRange(doc.Analysis, sym.Range),
			SelectionRange: spanToRange(doc.Analysis, sym.Selection),
		})
	}

	return out, nil
}

func symbolKind(k analysis.SymbolKind) protocol.SymbolKind {
	if k == analysis.SymbolFunction {
		return protocol.SymbolKindFunction
	}

	return protocol.SymbolKindVariable
}
