package lsp

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/arturo/analysis"
)

// PrepareRename handles textDocument/prepareRename requests.
func (s *Server) PrepareRename(ctx context.Context, params *protocol.PrepareRenameParams) (*protocol.Range, error) {
	defer s.traceHandler("PrepareRename")()

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil
	}

	pos := toPosition(doc.Analysis, params.Position)

	span, _, err := doc.Analysis.PrepareRename(pos)
	if err != nil {
		name, _, _ := doc.Analysis.WordAt(pos)
		s.rejectRename(ctx, err, name, "")

		return nil, nil
	}

	rng := spanToRange(doc.Analysis, span)

	return &rng, nil
}

// Rename handles textDocument/rename requests. Rejected renames answer null
// and explain why through window/showMessage.
func (s *Server) Rename(ctx context.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	defer s.traceHandler("Rename")()

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil
	}

	pos := toPosition(doc.Analysis, params.Position)

	res, err := doc.Analysis.Rename(pos, params.NewName)
	if err != nil {
		name, _, _ := doc.Analysis.WordAt(pos)
		s.rejectRename(ctx, err, name, params.NewName)

		return nil, nil
	}

	if res.BuiltinCollision {
		s.showMessage(ctx, protocol.MessageTypeWarning,
			fmt.Sprintf("%q is a builtin function; renaming %q will shadow it", res.NewName, res.Name))
	}

	s.logger.Debug("Rename",
		zap.String("from", res.Name),
		zap.String("to", res.NewName),
		zap.Int("edits", len(res.Edits)))

	edits := make([]protocol.TextEdit, 0, len(res.Edits))
	for _, e := range res.Edits {
		edits = append(edits, protocol.TextEdit{
			Range:   spanToRange(doc.Analysis, e.Span),
			NewText: e.NewText,
		})
	}

	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentURI][]protocol.TextEdit{
			params.TextDocument.URI: edits,
		},
	}, nil
}

// rejectRename tells the user why a rename cannot happen. A position with no
// symbol is not worth a message.
func (s *Server) rejectRename(ctx context.Context, err error, name, newName string) {
	var msg string

	switch {
	case errors.Is(err, analysis.ErrInvalidIdentifier):
		msg = fmt.Sprintf("Cannot rename: %q is not a valid Arturo identifier", newName)
	case errors.Is(err, analysis.ErrBuiltinTarget):
		msg = fmt.Sprintf("Cannot rename builtin function %q", name)
	case errors.Is(err, analysis.ErrTypeTarget):
		msg = fmt.Sprintf("Cannot rename type %q", name)
	default:
		s.logger.Debug("Rename rejected", zap.Error(err))

		return
	}

	s.showMessage(ctx, protocol.MessageTypeError, msg)
}

func (s *Server) showMessage(ctx context.Context, typ protocol.MessageType, msg string) {
	err := s.client.ShowMessage(ctx, &protocol.ShowMessageParams{
		Type:    typ,
		Message: msg,
	})
	if err != nil {
		s.logger.Error("Failed to show message", zap.Error(err))
	}
}
