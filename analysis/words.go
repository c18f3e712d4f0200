package analysis

import (
	"regexp"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/rlch/arturo"
)

// identPattern is the identifier shape the language scans for.
var identPattern = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*\??`)

// word is an identifier occurrence on a line.
type word struct {
	Name  string
	Line  int
	Start int
	End   int
}

func (w word) span() arturo.Span {
	return arturo.LineSpan(w.Line, w.Start, w.End)
}

// prev returns the byte before the word, or 0.
func (w word) prev(line string) byte {
	if w.Start == 0 {
		return 0
	}

	return line[w.Start-1]
}

// next returns the byte after the word, or 0.
func (w word) next(line string) byte {
	if w.End >= len(line) {
		return 0
	}

	return line[w.End]
}

// words returns every identifier occurrence on a line.
func words(line string, lineIndex int) []word {
	locs := identPattern.FindAllStringIndex(line, -1)
	out := make([]word, 0, len(locs))

	for _, loc := range locs {
		out = append(out, word{Name: line[loc[0]:loc[1]], Line: lineIndex, Start: loc[0], End: loc[1]})
	}

	return out
}

// isWordByte reports whether b can continue a literal token.
func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// enclosingToken widens [start, end) over the characters a numeric, version
// or unit literal may contain.
func enclosingToken(line string, start, end int) string {
	isTokenByte := func(b byte) bool {
		return isWordByte(b) || b == '.' || b == '-'
	}

	for start > 0 && isTokenByte(line[start-1]) {
		start--
	}

	for end < len(line) && isTokenByte(line[end]) {
		end++
	}

	return line[start:end]
}

// toLineCol converts a 1-based lexer position to a 0-based line and column.
func toLineCol(pos lexer.Position) (int, int) {
	return pos.Line - 1, pos.Column - 1
}

// wordAt returns the identifier touching col on a line, preferring the word
// that starts at col when two words touch it.
func (f *AnalyzedFile) wordAt(line, col int) (word, bool) {
	text := f.Doc.Text(line)

	var found word
	ok := false

	for _, w := range words(text, line) {
		if col >= w.Start && col <= w.End {
			found, ok = w, true
			if col < w.End {
				break
			}
		}
	}

	return found, ok
}

// WordAt returns the identifier at pos and its span.
func (f *AnalyzedFile) WordAt(pos lexer.Position) (string, arturo.Span, bool) {
	line, col := toLineCol(pos)

	w, ok := f.wordAt(line, col)
	if !ok {
		return "", arturo.Span{}, false
	}

	return w.Name, w.span(), true
}
