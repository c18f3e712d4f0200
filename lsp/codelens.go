package lsp

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/arturo/analysis"
)

// CommandShowReferences is the client command a reference lens invokes. Its
// arguments are the document URI, the definition position and the locations.
const CommandShowReferences = "arturo.showReferences"

// CodeLens handles textDocument/codeLens requests.
// Returns a reference count lens above every function definition.
func (s *Server) CodeLens(_ context.Context, params *protocol.CodeLensParams) ([]protocol.CodeLens, error) {
	defer s.traceHandler("CodeLens")()
	s.logger.Debug("CodeLens",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil
	}

	var lenses []protocol.CodeLens

	for _, sym := range doc.Analysis.DocumentSymbols() {
		if sym.Kind != analysis.SymbolFunction {
			continue
		}

		lenses = append(lenses, s.referenceLens(doc, sym))
	}

	return lenses, nil
}

func (s *Server) referenceLens(doc *Document, sym analysis.DocumentSymbol) protocol.CodeLens {
	f := doc.Analysis
	rng := spanToRange(f, sym.Selection)

	refs := f.References(sym.Selection.Start, false)

	locations := make([]protocol.Location, 0, len(refs))
	for _, r := range refs {
		locations = append(locations, protocol.Location{
			URI:   doc.URI,
			Range: spanToRange(f, r.Span),
		})
	}

	return protocol.CodeLens{
		Range: rng,
		Command: &protocol.Command{
			Title:     referencesTitle(len(refs)),
			Command:   CommandShowReferences,
			Arguments: []any{string(doc.URI), rng.Start, locations},
		},
	}
}

func referencesTitle(n int) string {
	if n == 1 {
		return "1 reference"
	}

	return fmt.Sprintf("%d references", n)
}
