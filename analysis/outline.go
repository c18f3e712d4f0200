package analysis

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rlch/arturo"
)

// DocumentSymbol is an outline entry.
type DocumentSymbol struct {
	Name   string
	Kind   SymbolKind
	Detail string

	// Range covers the whole definition, Selection only the name.
	Range     arturo.Span
	Selection arturo.Span
}

// DocumentSymbols returns the document's bindings as a flat list sorted by line.
func (f *AnalyzedFile) DocumentSymbols() []DocumentSymbol {
	out := make([]DocumentSymbol, 0, len(f.Symbols.Functions)+len(f.Symbols.Variables))

	add := func(s *Symbol) {
		detail := ":" + s.Type
		if s.Kind == SymbolFunction {
			detail = "[" + strings.Join(s.Params, " ") + "]"
		}

		out = append(out, DocumentSymbol{
			Name:      s.Name,
			Kind:      s.Kind,
			Detail:    detail,
			Range:     s.Extent,
			Selection: s.Span,
		})
	}

	for _, s := range f.Symbols.Functions {
		add(s)
	}

	for _, s := range f.Symbols.Variables {
		add(s)
	}

	slices.SortFunc(out, func(a, b DocumentSymbol) int {
		return cmp.Or(
			cmp.Compare(a.Selection.Start.Line, b.Selection.Start.Line),
			cmp.Compare(a.Selection.Start.Column, b.Selection.Start.Column),
			cmp.Compare(a.Name, b.Name),
		)
	})

	return out
}

// FoldingKind classifies a folding range.
type FoldingKind string

// Folding kinds, as the protocol names them.
const (
	FoldingRegion  FoldingKind = "region"
	FoldingComment FoldingKind = "comment"
)

// FoldingRange is a foldable run of 0-based lines.
type FoldingRange struct {
	StartLine int
	EndLine   int
	Kind      FoldingKind
}

// FoldingRanges returns bracket pairs spanning at least two lines, strings
// crossing lines, and runs of two or more comment lines.
func (f *AnalyzedFile) FoldingRanges() []FoldingRange {
	var out []FoldingRange

	var stack []int

	for i := range f.Doc.Lines {
		for _, b := range f.Doc.Brackets(i) {
			if b.Opens() {
				stack = append(stack, i)

				continue
			}

			if len(stack) == 0 {
				continue
			}

			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if i > top {
				out = append(out, FoldingRange{StartLine: top, EndLine: i, Kind: FoldingRegion})
			}
		}
	}

	for _, r := range f.Doc.MultilineStrings() {
		if r.EndLine > r.StartLine {
			out = append(out, FoldingRange{StartLine: r.StartLine, EndLine: r.EndLine, Kind: FoldingRegion})
		}
	}

	runStart := -1
	flush := func(end int) {
		if runStart >= 0 && end > runStart {
			out = append(out, FoldingRange{StartLine: runStart, EndLine: end, Kind: FoldingComment})
		}

		runStart = -1
	}

	for i := range f.Doc.Lines {
		if f.Doc.IsCommentOnly(i) {
			if runStart < 0 {
				runStart = i
			}

			continue
		}

		flush(i - 1)
	}

	flush(f.Doc.Len() - 1)

	slices.SortFunc(out, func(a, b FoldingRange) int {
		return cmp.Or(cmp.Compare(a.StartLine, b.StartLine), cmp.Compare(a.EndLine, b.EndLine))
	})

	return slices.CompactFunc(out, func(a, b FoldingRange) bool {
		return a.StartLine == b.StartLine && a.EndLine == b.EndLine
	})
}
