package analysis

import (
	"regexp"
	"strings"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/catalog"
	"github.com/rlch/arturo/lexical"
)

var (
	// assignmentPattern matches "name: value" at the start of a line. The same
	// shape is used for labels, dictionary keys and annotations, so this
	// deliberately over-approximates bindings.
	assignmentPattern = regexp.MustCompile(`^(\s*)([a-zA-Z_][a-zA-Z0-9_]*\??):(.*)$`)

	definePattern    = regexp.MustCompile(`\bdefine\s+:([a-zA-Z_][a-zA-Z0-9_]*\??)`)
	paramListPattern = regexp.MustCompile(`(?:\b(?:function|method)|\$)\s*\[([^\]]*)\]`)
	literalParam     = regexp.MustCompile(`^(?:function|method)\s+'([a-zA-Z_][a-zA-Z0-9_]*\??)`)
	literalParamHead = regexp.MustCompile(`\b(?:function|method)\s+'`)
	convertPattern   = regexp.MustCompile(`^to\s+:([a-zA-Z]+)`)
	dictKeyPattern   = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*\??):`)

	// iteratorPattern matches an iterator call, its collection argument and
	// the names it binds, either 'x or [a b].
	iteratorPattern = regexp.MustCompile(
		`(?:^|[^\w.?'])(?:loop|map|select|filter|fold|every\?|some\?|enumerate|chunk|gather|cluster|collect)` +
			`\s+(.+?)\s+(?:'([a-zA-Z_][a-zA-Z0-9_]*\??)|\[([a-zA-Z_][a-zA-Z0-9_?\s]*)\])`)
)

// BuildSymbols extracts bindings, custom types and quasi-bindings from a
// classified document. The result depends only on the document text.
func BuildSymbols(doc *lexical.Document, cat *catalog.Catalog) *SymbolTable {
	table := NewSymbolTable()
	dicts := &dictTracker{}

	for i := range doc.Lines {
		line := doc.Lines[i]
		stripped := doc.Stripped(i)

		collectCustomTypes(table, doc, i, stripped)
		collectParams(table, doc, i, stripped)
		collectLoopVars(table, doc, i, stripped)

		inDict := dicts.inDict()
		dicts.scanLine(table, doc, i, stripped)

		if line.Start.Open() {
			continue
		}

		m := assignmentPattern.FindStringSubmatchIndex(stripped)
		if m == nil {
			continue
		}

		name := stripped[m[4]:m[5]]
		col := m[4]

		if !doc.TagAt(i, col).IsCode() {
			continue
		}

		if inDict {
			table.DictKeys[name] = struct{}{}

			continue
		}

		value := strings.TrimSpace(stripped[m[6]:m[7]])
		sym := &Symbol{
			Name:  name,
			Value: value,
			Span:  arturo.LineSpan(i, col, col+len(name)),
		}

		endLine, endCol := valueEnd(doc, i)
		sym.Extent = arturo.Span{Start: sym.Span.Start, End: arturo.Pos(endLine, endCol)}

		// Last write wins, and a rebinding may move the name between kinds.
		delete(table.Functions, name)
		delete(table.Variables, name)

		if IsFunctionValue(value) {
			sym.Kind = SymbolFunction
			sym.Type = TypeFunction
			sym.Params = functionParams(value)
			table.Functions[name] = sym

			continue
		}

		sym.Kind = SymbolVariable
		sym.Type = inferValueType(value, cat)
		table.Variables[name] = sym
	}

	return table
}

// inferValueType refines InferType with conversions and builtin return types.
func inferValueType(value string, cat *catalog.Catalog) string {
	if t := InferType(value); t != TypeAny {
		return t
	}

	if m := convertPattern.FindStringSubmatch(value); m != nil {
		return m[1]
	}

	if cat == nil {
		return TypeAny
	}

	head, _, _ := strings.Cut(value, " ")
	if b, ok := cat.Builtin(head); ok {
		if ret := b.Returns(); len(ret) == 1 && ret[0] != "nothing" {
			return ret[0]
		}
	}

	return TypeAny
}

func collectCustomTypes(table *SymbolTable, doc *lexical.Document, line int, text string) {
	for _, m := range definePattern.FindAllStringSubmatchIndex(text, -1) {
		if doc.TagAt(line, m[0]).IsCode() {
			table.CustomTypes[text[m[2]:m[3]]] = struct{}{}
		}
	}
}

func collectParams(table *SymbolTable, doc *lexical.Document, line int, text string) {
	for _, m := range paramListPattern.FindAllStringSubmatchIndex(text, -1) {
		if !doc.TagAt(line, m[0]).IsCode() {
			continue
		}

		for _, p := range paramNames(text[m[2]:m[3]]) {
			table.Params[p] = struct{}{}
		}
	}

	for _, m := range literalParamHead.FindAllStringIndex(text, -1) {
		if sub := literalParam.FindStringSubmatch(text[m[0]:]); sub != nil && doc.TagAt(line, m[0]).IsCode() {
			table.Params[sub[1]] = struct{}{}
		}
	}
}

func collectLoopVars(table *SymbolTable, doc *lexical.Document, line int, text string) {
	for _, m := range iteratorPattern.FindAllStringSubmatchIndex(text, -1) {
		// The callee starts after the optional leading separator.
		callee := m[0]
		if callee < len(text) && !isWordByte(text[callee]) {
			callee++
		}

		if !doc.TagAt(line, callee).IsCode() {
			continue
		}

		if m[4] >= 0 {
			table.LoopVars[text[m[4]:m[5]]] = struct{}{}
		}

		if m[6] >= 0 {
			for _, name := range strings.Fields(text[m[6]:m[7]]) {
				table.LoopVars[name] = struct{}{}
			}
		}
	}
}

// functionParams returns the parameter names of a function value.
func functionParams(value string) []string {
	if m := literalParam.FindStringSubmatch(value); m != nil {
		return []string{m[1]}
	}

	m := paramListPattern.FindStringSubmatch(value)
	if m == nil {
		return nil
	}

	return paramNames(m[1])
}

// paramNames splits a parameter list, dropping type annotations and attributes.
func paramNames(list string) []string {
	var out []string

	for _, tok := range strings.Fields(list) {
		if strings.HasPrefix(tok, ":") || strings.HasPrefix(tok, ".") {
			continue
		}

		tok, _, _ = strings.Cut(tok, ":")
		tok = strings.TrimPrefix(tok, "'")

		if arturo.IsIdentifier(tok) {
			out = append(out, tok)
		}
	}

	return out
}

// valueEnd returns the line and column where the value bound on line ends:
// the first line at which the brackets opened since line are balanced again.
func valueEnd(doc *lexical.Document, line int) (int, int) {
	depth := 0

	for l := line; l < doc.Len(); l++ {
		for _, b := range doc.Brackets(l) {
			if b.Opens() {
				depth++
			} else {
				depth--
			}
		}

		if depth <= 0 {
			return l, len(strings.TrimRight(doc.Stripped(l), " \t"))
		}
	}

	last := doc.Len() - 1

	return last, len(doc.Text(last))
}

// dictTracker follows #[ ... ] dictionary literals across lines.
type dictTracker struct {
	stack []bool
}

func (d *dictTracker) inDict() bool {
	return len(d.stack) > 0 && d.stack[len(d.stack)-1]
}

// scanLine updates the bracket stack with line and records every "key:"
// that sits directly inside a dictionary.
func (d *dictTracker) scanLine(table *SymbolTable, doc *lexical.Document, line int, text string) {
	brackets := doc.Brackets(line)
	keys := dictKeyPattern.FindAllStringSubmatchIndex(text, -1)

	bi, ki := 0, 0
	for bi < len(brackets) || ki < len(keys) {
		if ki >= len(keys) || bi < len(brackets) && brackets[bi].Col < keys[ki][0] {
			b := brackets[bi]
			bi++

			if b.Char != '[' && b.Char != ']' {
				continue
			}

			if b.Opens() {
				d.stack = append(d.stack, b.Col > 0 && text[b.Col-1] == '#')
			} else if len(d.stack) > 0 {
				d.stack = d.stack[:len(d.stack)-1]
			}

			continue
		}

		k := keys[ki]
		ki++

		if !d.inDict() || !doc.TagAt(line, k[2]).IsCode() {
			continue
		}

		if k[2] > 0 && strings.ContainsRune(".'`:#", rune(text[k[2]-1])) {
			continue
		}

		table.DictKeys[text[k[2]:k[3]]] = struct{}{}
	}
}
