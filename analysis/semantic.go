package analysis

import "strings"

// Semantic token types, indexing SemanticTokenTypes.
const (
	TokenFunction = iota
	TokenVariable
	TokenParameter
	TokenType
	TokenProperty
)

// Semantic token modifier bits, indexing SemanticTokenModifiers.
const (
	ModDeclaration uint32 = 1 << iota
	ModDefaultLibrary
	ModReadonly
)

// SemanticTokenTypes is the token type legend.
var SemanticTokenTypes = []string{"function", "variable", "parameter", "type", "property"}

// SemanticTokenModifiers is the token modifier legend.
var SemanticTokenModifiers = []string{"declaration", "defaultLibrary", "readonly"}

// SemanticToken is a classified identifier. Line and Column are 0-based;
// Column and Length count bytes.
type SemanticToken struct {
	Line      int
	Column    int
	Length    int
	Type      int
	Modifiers uint32
}

// SemanticTokens classifies every identifier in code, in document order.
func (f *AnalyzedFile) SemanticTokens() []SemanticToken {
	var out []SemanticToken

	for i := range f.Doc.Lines {
		text := f.Doc.Text(i)

		for _, w := range words(f.Doc.Stripped(i), i) {
			if !f.Doc.TagAt(i, w.Start).IsCode() {
				continue
			}

			typ, mods, ok := f.classifyWord(w, text)
			if !ok {
				continue
			}

			out = append(out, SemanticToken{
				Line:      i,
				Column:    w.Start,
				Length:    w.End - w.Start,
				Type:      typ,
				Modifiers: mods,
			})
		}
	}

	return out
}

func (f *AnalyzedFile) classifyWord(w word, text string) (int, uint32, bool) {
	prev := w.prev(text)

	switch {
	case prev == ':':
		if f.catalog != nil && f.catalog.IsType(w.Name) {
			return TokenType, ModDefaultLibrary, true
		}

		if f.Symbols.IsCustomType(w.Name) {
			return TokenType, 0, true
		}

		return 0, 0, false
	case prev == '.':
		return TokenProperty, 0, true
	case prev != 0 && (strings.IndexByte("'`#\\", prev) >= 0 || isDigit(prev)):
		return 0, 0, false
	}

	if w.next(text) == ':' {
		switch {
		case hasSymbol(f.Symbols.Functions, w.Name):
			return TokenFunction, ModDeclaration, true
		case hasSymbol(f.Symbols.Variables, w.Name):
			return TokenVariable, ModDeclaration, true
		case hasName(f.Symbols.DictKeys, w.Name):
			return TokenProperty, ModDeclaration, true
		default:
			return 0, 0, false
		}
	}

	if _, ok := literalKeywords[w.Name]; ok {
		return 0, 0, false
	}

	switch {
	case hasSymbol(f.Symbols.Functions, w.Name):
		return TokenFunction, 0, true
	case hasSymbol(f.Symbols.Variables, w.Name):
		return TokenVariable, 0, true
	case hasName(f.Symbols.Params, w.Name):
		return TokenParameter, 0, true
	case hasName(f.Symbols.LoopVars, w.Name):
		return TokenVariable, ModReadonly, true
	case f.catalog != nil && f.catalog.IsBuiltin(w.Name):
		return TokenFunction, ModDefaultLibrary, true
	}

	return 0, 0, false
}

func hasSymbol(m map[string]*Symbol, name string) bool {
	_, ok := m[name]

	return ok
}

// EncodeSemanticTokens delta-encodes tokens into the protocol's flat
// (line, startChar, length, type, modifiers) form. Tokens must be sorted.
func EncodeSemanticTokens(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)

	prevLine, prevCol := 0, 0

	for _, t := range tokens {
		deltaLine := t.Line - prevLine

		deltaCol := t.Column
		if deltaLine == 0 {
			deltaCol = t.Column - prevCol
		}

		data = append(data,
			uint32(deltaLine), //nolint:gosec
			uint32(deltaCol),  //nolint:gosec
			uint32(t.Length),  //nolint:gosec
			uint32(t.Type),    //nolint:gosec
			t.Modifiers,
		)

		prevLine, prevCol = t.Line, t.Column
	}

	return data
}
