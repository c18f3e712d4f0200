package lsp

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/rlch/arturo/analysis"
)

// InlayHint types for LSP 3.17+ support.
// These are defined locally since go.lsp.dev/protocol v0.12.0 doesn't include them.

// InlayHintParams represents the params for textDocument/inlayHint request.
type InlayHintParams struct {
	// TextDocument is the document to request inlay hints for.
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`

	// Range is the visible document range for which inlay hints should be computed.
	Range protocol.Range `json:"range"`
}

// InlayHint represents an inlay hint shown inline in the editor.
type InlayHint struct {
	Position     protocol.Position `json:"position"`
	Label        string            `json:"label"`
	Kind         InlayHintKind     `json:"kind,omitempty"`
	PaddingLeft  bool              `json:"paddingLeft,omitempty"`
	PaddingRight bool              `json:"paddingRight,omitempty"`
}

// InlayHintKind defines the type of inlay hint.
type InlayHintKind int

const (
	// InlayHintKindType is a hint that shows an inferred type.
	InlayHintKindType InlayHintKind = 1

	// InlayHintKindParameter is a hint that shows parameter names.
	InlayHintKindParameter InlayHintKind = 2
)

// InlayHint handles textDocument/inlayHint requests: parameter names before
// call arguments and inferred types after un-annotated assignments.
func (s *Server) InlayHint(_ context.Context, params *InlayHintParams) ([]InlayHint, error) {
	defer s.traceHandler("InlayHint")()

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil
	}

	hints := doc.Analysis.InlayHints(int(params.Range.Start.Line), int(params.Range.End.Line))

	out := make([]InlayHint, 0, len(hints))
	for _, h := range hints {
		out = append(out, InlayHint{
			Position:     fromPosition(doc.Analysis, h.Position),
			Label:        h.Label,
			Kind:         inlayHintKind(h.Kind),
			PaddingLeft:  h.PaddingLeft,
			PaddingRight: h.PaddingRight,
		})
	}

	return out, nil
}

func inlayHintKind(k analysis.InlayKind) InlayHintKind {
	if k == analysis.InlayParameter {
		return InlayHintKindParameter
	}

	return InlayHintKindType
}
