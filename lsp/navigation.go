package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/arturo/analysis"
)

// Definition handles textDocument/definition requests. The result holds at
// most one location.
func (s *Server) Definition(_ context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	defer s.traceHandler("Definition")()

	if !s.currentConfig().Features.Definition {
		return nil, nil
	}

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil
	}

	span := doc.Analysis.Definition(toPosition(doc.Analysis, params.Position))
	if span == nil {
		return nil, nil
	}

	return []protocol.Location{{
		URI:   params.TextDocument.URI,
		Range: spanToRange(doc.Analysis, *span),
	}}, nil
}

// References handles textDocument/references requests.
func (s *Server) References(_ context.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	defer s.traceHandler("References")()

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil
	}

	refs := doc.Analysis.References(toPosition(doc.Analysis, params.Position), params.Context.IncludeDeclaration)

	s.logger.Debug("References",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int("count", len(refs)))

	locations := make([]protocol.Location, 0, len(refs))
	for _, r := range refs {
		locations = append(locations, protocol.Location{
			URI:   params.TextDocument.URI,
			Range: spanToRange(doc.Analysis, r.Span),
		})
	}

	return locations, nil
}

// DocumentHighlight handles textDocument/documentHighlight requests.
func (s *Server) DocumentHighlight(_ context.Context, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	defer s.traceHandler("DocumentHighlight")()

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil
	}

	occurrences := doc.Analysis.Highlights(toPosition(doc.Analysis, params.Position))

	highlights := make([]protocol.DocumentHighlight, 0, len(occurrences))
	for _, o := range occurrences {
		highlights = append(highlights, protocol.DocumentHighlight{
			Range: spanToRange(doc.Analysis, o.Span),
			Kind:  highlightKind(o),
		})
	}

	return highlights, nil
}

func highlightKind(o analysis.Occurrence) protocol.DocumentHighlightKind {
	if o.Write {
		return protocol.DocumentHighlightKindWrite
	}

	return protocol.DocumentHighlightKindRead
}
