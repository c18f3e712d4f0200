package analysis

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/rlch/arturo/catalog"
)

// Hover returns markdown describing the word at pos, or "" when there is
// nothing to say about it.
func (f *AnalyzedFile) Hover(pos lexer.Position) string {
	line, col := toLineCol(pos)
	text := f.Doc.Text(line)

	if !f.Doc.TagAt(line, col).IsCode() && !f.Doc.TagAt(line, col-1).IsCode() {
		return ""
	}

	w, ok := f.wordAt(line, col)
	if !ok {
		return f.hoverVersion(text, col)
	}

	if w.prev(text) == ':' {
		return f.hoverType(w.Name)
	}

	if tok := enclosingToken(text, w.Start, w.End); tok != w.Name && IsVersion(tok) {
		return hoverVersionToken(tok)
	}

	if sym, ok := f.Symbols.Lookup(w.Name); ok {
		return hoverSymbol(sym)
	}

	if f.catalog != nil {
		if b, ok := f.catalog.Builtin(w.Name); ok {
			return hoverBuiltin(b)
		}
	}

	if h := f.hoverType(w.Name); h != "" {
		return h
	}

	switch {
	case hasName(f.Symbols.Params, w.Name):
		return fmt.Sprintf("**%s** *(parameter)*", w.Name)
	case hasName(f.Symbols.LoopVars, w.Name):
		return fmt.Sprintf("**%s** *(loop variable)*", w.Name)
	case hasName(f.Symbols.DictKeys, w.Name):
		return fmt.Sprintf("**%s** *(dictionary key)*", w.Name)
	}

	return ""
}

func hasName(set map[string]struct{}, name string) bool {
	_, ok := set[name]

	return ok
}

func hoverSymbol(sym *Symbol) string {
	var b strings.Builder

	b.WriteString("```arturo\n")

	if sym.Kind == SymbolFunction {
		fmt.Fprintf(&b, "%s: function [%s]\n", sym.Name, strings.Join(sym.Params, " "))
	} else {
		fmt.Fprintf(&b, "%s: %s\n", sym.Name, sym.Value)
	}

	b.WriteString("```\n\n")

	fmt.Fprintf(&b, "*%s*", sym.Kind)
	if sym.Kind == SymbolVariable && sym.Type != TypeAny {
		fmt.Fprintf(&b, " of type `:%s`", sym.Type)
	}

	fmt.Fprintf(&b, ", defined on line %d", sym.Line()+1)

	return b.String()
}

func hoverBuiltin(bi *catalog.Builtin) string {
	var b strings.Builder

	fmt.Fprintf(&b, "```arturo\n%s\n```", bi.Signature)

	if bi.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", bi.Description)
	}

	if bi.Module != "" {
		fmt.Fprintf(&b, "\n\n*Module:* %s", bi.Module)
	}

	if bi.Example != "" {
		fmt.Fprintf(&b, "\n\n**Example**\n```arturo\n%s\n```", bi.Example)
	}

	return b.String()
}

func (f *AnalyzedFile) hoverType(name string) string {
	switch {
	case f.catalog != nil && f.catalog.IsType(name):
		return fmt.Sprintf("**:%s** *(type)*", name)
	case f.Symbols.IsCustomType(name):
		return fmt.Sprintf("**:%s** *(custom type)*", name)
	default:
		return ""
	}
}

// hoverVersion describes a version literal under the cursor.
func (f *AnalyzedFile) hoverVersion(text string, col int) string {
	if col >= len(text) || !isDigit(text[col]) && text[col] != '.' {
		return ""
	}

	return hoverVersionToken(enclosingToken(text, col, col))
}

func hoverVersionToken(tok string) string {
	v, ok := ParseVersion(tok)
	if !ok {
		return ""
	}

	s := fmt.Sprintf("**%s** *(version)*\n\nmajor %d, minor %d, patch %d",
		v.Original(), v.Major(), v.Minor(), v.Patch())
	if pre := v.Prerelease(); pre != "" {
		s += ", pre-release " + pre
	}

	return s
}
