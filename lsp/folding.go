package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/arturo/analysis"
)

// FoldingRanges handles textDocument/foldingRange requests.
// Returns folding ranges for multi-line blocks, strings and comment runs.
func (s *Server) FoldingRanges(_ context.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	defer s.traceHandler("FoldingRanges")()

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil
	}

	lineCount := doc.Analysis.Doc.Len()

	var ranges []protocol.FoldingRange

	for _, r := range doc.Analysis.FoldingRanges() {
		if fr, ok := validFoldingRange(r.StartLine, r.EndLine, lineCount, foldingKind(r.Kind)); ok {
			ranges = append(ranges, fr)
		}
	}

	s.logger.Debug("FoldingRanges result",
		zap.Int("count", len(ranges)),
		zap.Int("lineCount", lineCount))

	return ranges, nil
}

// validFoldingRange creates a folding range only if the line numbers are valid.
func validFoldingRange(startLine, endLine, lineCount int, kind protocol.FoldingRangeKind) (protocol.FoldingRange, bool) {
	if startLine < 0 || endLine >= lineCount || endLine <= startLine {
		return protocol.FoldingRange{}, false
	}

	return protocol.FoldingRange{
		StartLine: uint32(startLine), //nolint:gosec
		EndLine:   uint32(endLine),   //nolint:gosec
		Kind:      kind,
	}, true
}

func foldingKind(k analysis.FoldingKind) protocol.FoldingRangeKind {
	if k == analysis.FoldingComment {
		return protocol.CommentFoldingRange
	}

	return protocol.RegionFoldingRange
}
