package analysis

import (
	"cmp"
	"slices"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// CompletionKind classifies a completion candidate.
type CompletionKind int

// Completion kinds.
const (
	CompletionFunction CompletionKind = iota + 1
	CompletionVariable
	CompletionParameter
	CompletionType
	CompletionColor
	CompletionKeyword
)

// CompletionItem is a completion candidate.
type CompletionItem struct {
	Label         string
	Kind          CompletionKind
	Detail        string
	Documentation string
}

// Complete returns the candidates for the word being typed at pos. Prefix
// matches come first, followed by fuzzy matches of the typed characters.
func (f *AnalyzedFile) Complete(pos lexer.Position) []CompletionItem {
	line, col := toLineCol(pos)
	text := f.Doc.Text(line)
	col = min(col, len(text))

	if !f.Doc.TagAt(line, col).IsCode() {
		return nil
	}

	start := col
	for start > 0 && (isWordByte(text[start-1]) || text[start-1] == '?') {
		start--
	}

	prefix := text[start:col]

	var candidates []CompletionItem

	switch {
	case start > 0 && text[start-1] == ':' && (start < 2 || !isWordByte(text[start-2])):
		candidates = f.typeCandidates()
	case start > 0 && text[start-1] == '#':
		candidates = f.colorCandidates()
	case start > 0 && strings.ContainsRune("'`.\\", rune(text[start-1])):
		return nil
	default:
		candidates = f.wordCandidates()
	}

	return rankCompletions(candidates, prefix)
}

func rankCompletions(candidates []CompletionItem, prefix string) []CompletionItem {
	if prefix == "" {
		return candidates
	}

	var prefixed, fuzzed []CompletionItem

	for _, c := range candidates {
		switch {
		case strings.HasPrefix(c.Label, prefix):
			prefixed = append(prefixed, c)
		case fuzzy.MatchFold(prefix, c.Label):
			fuzzed = append(fuzzed, c)
		}
	}

	return append(prefixed, fuzzed...)
}

func (f *AnalyzedFile) typeCandidates() []CompletionItem {
	var out []CompletionItem

	if f.catalog != nil {
		for _, t := range f.catalog.Types() {
			out = append(out, CompletionItem{Label: t, Kind: CompletionType, Detail: "type"})
		}
	}

	for _, t := range sortedSet(f.Symbols.CustomTypes) {
		out = append(out, CompletionItem{Label: t, Kind: CompletionType, Detail: "custom type"})
	}

	return out
}

func (f *AnalyzedFile) colorCandidates() []CompletionItem {
	if f.catalog == nil {
		return nil
	}

	out := make([]CompletionItem, 0, len(f.catalog.Colors()))
	for _, c := range f.catalog.Colors() {
		out = append(out, CompletionItem{Label: c, Kind: CompletionColor, Detail: "color"})
	}

	return out
}

// wordCandidates lists document symbols first, then builtins they do not
// shadow, then keywords.
func (f *AnalyzedFile) wordCandidates() []CompletionItem {
	seen := make(map[string]struct{})

	var out []CompletionItem

	add := func(item CompletionItem) {
		if _, dup := seen[item.Label]; dup {
			return
		}

		seen[item.Label] = struct{}{}
		out = append(out, item)
	}

	syms := make([]*Symbol, 0, len(f.Symbols.Functions)+len(f.Symbols.Variables))
	for _, s := range f.Symbols.Functions {
		syms = append(syms, s)
	}

	for _, s := range f.Symbols.Variables {
		syms = append(syms, s)
	}

	slices.SortFunc(syms, func(a, b *Symbol) int { return cmp.Compare(a.Name, b.Name) })

	for _, s := range syms {
		item := CompletionItem{Label: s.Name, Kind: CompletionVariable, Detail: ":" + s.Type}
		if s.Kind == SymbolFunction {
			item.Kind = CompletionFunction
			item.Detail = "function [" + strings.Join(s.Params, " ") + "]"
		}

		add(item)
	}

	for _, p := range sortedSet(f.Symbols.Params) {
		add(CompletionItem{Label: p, Kind: CompletionParameter, Detail: "parameter"})
	}

	for _, v := range sortedSet(f.Symbols.LoopVars) {
		add(CompletionItem{Label: v, Kind: CompletionVariable, Detail: "loop variable"})
	}

	if f.catalog != nil {
		for _, b := range f.catalog.Builtins() {
			add(CompletionItem{
				Label:         b.Name,
				Kind:          CompletionFunction,
				Detail:        b.Signature,
				Documentation: b.Description,
			})
		}
	}

	for _, k := range []string{"true", "false", "maybe", "null"} {
		add(CompletionItem{Label: k, Kind: CompletionKeyword, Detail: "constant"})
	}

	return out
}

func sortedSet(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	slices.Sort(out)

	return out
}
