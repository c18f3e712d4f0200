package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Hover handles textDocument/hover requests.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	defer s.traceHandler("Hover")()
	s.logger.Debug("Hover",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	if !s.currentConfig().Features.Hover {
		return nil, nil //nolint:nilnil
	}

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil //nolint:nilnil
	}

	pos := toPosition(doc.Analysis, params.Position)

	content := doc.Analysis.Hover(pos)
	if content == "" {
		return nil, nil //nolint:nilnil
	}

	hover := &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: content,
		},
	}

	if _, span, ok := doc.Analysis.WordAt(pos); ok {
		rng := spanToRange(doc.Analysis, span)
		hover.Range = &rng
	}

	return hover, nil
}
