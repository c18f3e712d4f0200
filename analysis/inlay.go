package analysis

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/rlch/arturo"
)

// InlayKind classifies an inlay hint.
type InlayKind int

// Inlay hint kinds, numbered as the protocol numbers them.
const (
	InlayType InlayKind = iota + 1
	InlayParameter
)

// InlayHint is an annotation rendered inline at Position.
type InlayHint struct {
	Position     lexer.Position
	Label        string
	Kind         InlayKind
	PaddingLeft  bool
	PaddingRight bool
}

// operatorChars make up infix operators that extend an argument.
const operatorChars = "+-*/%^<>=!|&."

// InlayHints returns the hints for the 0-based lines [startLine, endLine].
func (f *AnalyzedFile) InlayHints(startLine, endLine int) []InlayHint {
	startLine = max(startLine, 0)
	endLine = min(endLine, f.Doc.Len()-1)

	var out []InlayHint

	for i := startLine; i <= endLine; i++ {
		if f.Doc.Lines[i].Start.Open() {
			continue
		}

		if f.opts.InlayTypes {
			if h, ok := f.typeHint(i); ok {
				out = append(out, h)
			}
		}

		if f.opts.InlayParameters {
			out = append(out, f.parameterHints(i)...)
		}
	}

	return out
}

// typeHint annotates a one-line assignment with its inferred type.
func (f *AnalyzedFile) typeHint(line int) (InlayHint, bool) {
	text := f.Doc.Stripped(line)

	m := assignmentPattern.FindStringSubmatch(text)
	if m == nil {
		return InlayHint{}, false
	}

	sym, ok := f.Symbols.Variables[m[2]]
	if !ok || sym.Line() != line || sym.Extent.End.Line != sym.Span.Start.Line {
		return InlayHint{}, false
	}

	if sym.Type == TypeAny || sym.Type == TypeFunction || strings.HasPrefix(sym.Value, "to :") {
		return InlayHint{}, false
	}

	end := len(strings.TrimRight(text, " \t"))

	return InlayHint{
		Position:    arturo.Pos(line, end),
		Label:       ": " + sym.Type,
		Kind:        InlayType,
		PaddingLeft: true,
	}, true
}

// parameterHints names the arguments of calls to functions with two or more parameters.
func (f *AnalyzedFile) parameterHints(line int) []InlayHint {
	text := f.Doc.Stripped(line)
	s := &argScanner{f: f, line: line, text: text}

	for _, w := range words(text, line) {
		if w.Start < s.consumed {
			continue
		}

		s.call(w)
	}

	return s.hints
}

// argScanner walks the arguments of calls on one line, emitting a hint at
// the start of each.
type argScanner struct {
	f        *AnalyzedFile
	line     int
	text     string
	hints    []InlayHint
	consumed int
}

// params returns the parameter names w takes when used as a call.
func (s *argScanner) params(w word) []string {
	if !s.f.Doc.TagAt(s.line, w.Start).IsCode() {
		return nil
	}

	if prev := w.prev(s.text); prev != 0 && strings.IndexByte(skipMarkers, prev) >= 0 {
		return nil
	}

	if w.next(s.text) == ':' {
		return nil
	}

	if sym, ok := s.f.Symbols.Functions[w.Name]; ok {
		return sym.Params
	}

	if _, ok := s.f.Symbols.Variables[w.Name]; ok {
		return nil
	}

	if s.f.catalog == nil {
		return nil
	}

	b, ok := s.f.catalog.Builtin(w.Name)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(b.Params()))
	for _, p := range b.Params() {
		names = append(names, p.Name)
	}

	return names
}

// call consumes the arguments of w if it is a call and returns the offset
// after the call. Only calls taking two or more arguments are annotated.
func (s *argScanner) call(w word) int {
	params := s.params(w)
	pos := w.End

	if len(params) == 0 {
		return pos
	}

	for _, p := range params {
		start := skipSpaces(s.text, pos)
		if start >= len(s.text) || strings.IndexByte("])}", s.text[start]) >= 0 {
			break
		}

		end := s.argument(start)
		if end <= start {
			break
		}

		if arg := s.text[start:end]; len(params) >= 2 && arg != p {
			s.hints = append(s.hints, InlayHint{
				Position:     arturo.Pos(s.line, start),
				Label:        p + ":",
				Kind:         InlayParameter,
				PaddingRight: true,
			})
		}

		pos = end
	}

	s.consumed = max(s.consumed, pos)

	return pos
}

// argument consumes one argument starting at start, including any infix
// operator chains, and returns its end.
func (s *argScanner) argument(start int) int {
	end := s.atom(start)

	for end > start {
		op := skipSpaces(s.text, end)
		if op >= len(s.text) || strings.IndexByte(operatorChars, s.text[op]) < 0 {
			return end
		}

		opEnd := op
		for opEnd < len(s.text) && strings.IndexByte(operatorChars, s.text[opEnd]) >= 0 {
			opEnd++
		}

		// A lone "-" glued to a digit is a negative number, not an operator.
		if opEnd == op+1 && s.text[op] == '-' && opEnd < len(s.text) && isDigit(s.text[opEnd]) {
			return end
		}

		next := skipSpaces(s.text, opEnd)
		if next >= len(s.text) {
			return end
		}

		after := s.atom(next)
		if after <= next {
			return end
		}

		end = after
	}

	return end
}

// atom consumes a single value and returns its end.
func (s *argScanner) atom(start int) int {
	text := s.text

	switch c := text[start]; {
	case c == '"':
		return skipQuoted(text, start)
	case c == '{':
		if i := strings.IndexByte(text[start+1:], '}'); i >= 0 {
			return start + i + 2
		}

		return len(text)
	case c == '[' || c == '(':
		return skipGroup(text, start)
	case c == '#' && start+1 < len(text) && text[start+1] == '[':
		return skipGroup(text, start+1)
	case isWordByte(c) && !isDigit(c):
		loc := identPattern.FindStringIndex(text[start:])
		w := word{Name: text[start : start+loc[1]], Line: s.line, Start: start, End: start + loc[1]}

		if len(s.params(w)) > 0 {
			return s.call(w)
		}

		return w.End
	}

	end := start
	for end < len(text) && !isSpace(text[end]) && strings.IndexByte("[](){}\"", text[end]) < 0 {
		end++
	}

	return end
}

func skipSpaces(text string, i int) int {
	for i < len(text) && isSpace(text[i]) {
		i++
	}

	return i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// skipQuoted returns the offset after the double-quoted string at start.
func skipQuoted(text string, start int) int {
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}

	return len(text)
}

// skipGroup returns the offset after the bracket group opening at start, or
// the end of the line when the group does not close on it.
func skipGroup(text string, start int) int {
	depth := 0

	for i := start; i < len(text); i++ {
		switch text[i] {
		case '"':
			i = skipQuoted(text, i) - 1
		case '[', '(':
			depth++
		case ']', ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}

	return len(text)
}
