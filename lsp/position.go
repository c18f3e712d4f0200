package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/analysis"
)

// The protocol counts columns in UTF-16 code units; the analysis layer counts bytes.

// utf16Column converts a byte column on line to a UTF-16 offset.
func utf16Column(line string, byteCol int) uint32 {
	byteCol = min(max(byteCol, 0), len(line))

	var n uint32

	for _, r := range line[:byteCol] {
		n += uint32(utf16.RuneLen(r)) //nolint:gosec
	}

	return n
}

// byteColumn converts a UTF-16 offset on line to a byte column, clamped to the
// line length.
func byteColumn(line string, col uint32) int {
	var units uint32

	for i := 0; i < len(line); {
		if units >= col {
			return i
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		units += uint32(utf16.RuneLen(r)) //nolint:gosec
		i += size
	}

	return len(line)
}

// toPosition converts a protocol position into the analysis coordinate space.
func toPosition(f *analysis.AnalyzedFile, p protocol.Position) lexer.Position {
	line := int(p.Line)

	return arturo.Pos(line, byteColumn(f.Line(line), p.Character))
}

// fromPosition converts an analysis position into a protocol position.
func fromPosition(f *analysis.AnalyzedFile, pos lexer.Position) protocol.Position {
	line := max(pos.Line-1, 0)

	return protocol.Position{
		Line:      uint32(line),                                   //nolint:gosec
		Character: utf16Column(f.Line(line), max(pos.Column-1, 0)), //nolint:gosec
	}
}

// spanToRange converts an arturo.Span into a protocol range.
func spanToRange(f *analysis.AnalyzedFile, span arturo.Span) protocol.Range {
	return protocol.Range{
		Start: fromPosition(f, span.Start),
		End:   fromPosition(f, span.End),
	}
}

// URIToPath converts a file:// URI to a filesystem path. Other schemes are
// returned unchanged.
func URIToPath(u protocol.DocumentURI) string {
	if !strings.HasPrefix(string(u), uri.FileScheme+"://") {
		return string(u)
	}

	return u.Filename()
}
