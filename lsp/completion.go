package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/arturo/analysis"
)

// Completion handles textDocument/completion requests.
func (s *Server) Completion(_ context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	defer s.traceHandler("Completion")()
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil //nolint:nilnil
	}

	candidates := doc.Analysis.Complete(toPosition(doc.Analysis, params.Position))

	items := make([]protocol.CompletionItem, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, convertCompletion(c))
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

func convertCompletion(c analysis.CompletionItem) protocol.CompletionItem {
	item := protocol.CompletionItem{
		Label:  c.Label,
		Kind:   convertCompletionKind(c.Kind),
		Detail: c.Detail,
	}

	if c.Documentation != "" {
		item.Documentation = protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: c.Documentation,
		}
	}

	return item
}

func convertCompletionKind(k analysis.CompletionKind) protocol.CompletionItemKind {
	switch k {
	case analysis.CompletionFunction:
		return protocol.CompletionItemKindFunction
	case analysis.CompletionVariable:
		return protocol.CompletionItemKindVariable
	case analysis.CompletionParameter:
		return protocol.CompletionItemKindVariable
	case analysis.CompletionType:
		return protocol.CompletionItemKindTypeParameter
	case analysis.CompletionColor:
		return protocol.CompletionItemKindColor
	case analysis.CompletionKeyword:
		return protocol.CompletionItemKindKeyword
	default:
		return protocol.CompletionItemKindText
	}
}
