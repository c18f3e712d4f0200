package lsp

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/rlch/arturo/analysis"
)

// SemanticTokensFull handles textDocument/semanticTokens/full requests.
func (s *Server) SemanticTokensFull(_ context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	defer s.traceHandler("SemanticTokensFull")()

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil //nolint:nilnil
	}

	tokens := doc.Analysis.SemanticTokens()

	// Re-express byte columns as UTF-16 offsets before delta encoding.
	for i, t := range tokens {
		line := doc.Analysis.Line(t.Line)
		start := utf16Column(line, t.Column)
		end := utf16Column(line, t.Column+t.Length)

		tokens[i].Column = int(start)
		tokens[i].Length = int(end - start)
	}

	return &protocol.SemanticTokens{
		Data: analysis.EncodeSemanticTokens(tokens),
	}, nil
}
