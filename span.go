// Package arturo holds the shared vocabulary of the Arturo language server:
// source spans, configuration, naming rules and the source formatter.
package arturo

import "github.com/alecthomas/participle/v2/lexer"

// Span is a half-open source range. Positions are 1-based; Column counts bytes.
type Span struct {
	Start lexer.Position
	End   lexer.Position
}

// Pos converts a 0-based line and byte column to a lexer.Position.
func Pos(line, col int) lexer.Position {
	return lexer.Position{Line: line + 1, Column: col + 1}
}

// LineSpan returns the span of bytes [startCol, endCol) on a 0-based line.
func LineSpan(line, startCol, endCol int) Span {
	return Span{Start: Pos(line, startCol), End: Pos(line, endCol)}
}

// Contains reports whether pos lies within the span. The end position is
// included so a cursor placed right after a word still hits it.
func (s Span) Contains(pos lexer.Position) bool {
	if pos.Line < s.Start.Line || pos.Line > s.End.Line {
		return false
	}

	if pos.Line == s.Start.Line && pos.Column < s.Start.Column {
		return false
	}

	if pos.Line == s.End.Line && pos.Column > s.End.Column {
		return false
	}

	return true
}

// IsZero reports whether the span was never set.
func (s Span) IsZero() bool {
	return s.Start.Line == 0 && s.End.Line == 0
}
