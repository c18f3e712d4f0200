package analysis

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/lexical"
)

// Rule represents a diagnostic check.
// Inspired by go/analysis.Analyzer pattern.
type Rule struct {
	// Name is a short identifier for the rule (used in diagnostic codes).
	Name string

	// Doc is a brief description of what the rule checks.
	Doc string

	// Severity is the default severity for diagnostics from this rule.
	Severity DiagnosticSeverity

	// Run executes the rule and appends any diagnostics to the file. It is
	// handed its own rule so diagnostics carry the rule's name and severity.
	Run func(rule *Rule, f *AnalyzedFile)
}

// Rule names, also used as diagnostic codes.
const (
	RuleUnmatchedBrackets   = "unmatched-brackets"
	RuleUndefinedIdentifier = "undefined-identifier"
	RuleTypeMismatch        = "type-mismatch"
)

// DefaultRules returns all built-in rules.
func DefaultRules() []*Rule {
	return []*Rule{
		unmatchedBracketsRule,
		typeMismatchRule,
		undefinedIdentifierRule,
	}
}

func (f *AnalyzedFile) report(rule *Rule, span arturo.Span, subject, msg string) {
	f.Diagnostics = append(f.Diagnostics, Diagnostic{
		Span:     span,
		Severity: rule.Severity,
		Message:  msg,
		Code:     rule.Name,
		Source:   arturo.SourceName,
		Subject:  subject,
	})
}

// ----------------------------------------------------------------------------
// Rule: unmatched-brackets
// ----------------------------------------------------------------------------

var unmatchedBracketsRule = &Rule{
	Name:     RuleUnmatchedBrackets,
	Doc:      "Reports a document whose [ ] or ( ) brackets do not balance.",
	Severity: SeverityError,
	Run:      checkUnmatchedBrackets,
}

// checkUnmatchedBrackets accumulates the balance over the whole document and
// reports once, on the final code line, and only when that line holds a bracket.
func checkUnmatchedBrackets(rule *Rule, f *AnalyzedFile) {
	square, round := 0, 0
	final := -1

	for i := range f.Doc.Lines {
		for _, b := range f.Doc.Brackets(i) {
			switch b.Char {
			case '[':
				square++
			case ']':
				square--
			case '(':
				round++
			case ')':
				round--
			}
		}

		if !f.Doc.IsBlank(i) && !f.Doc.IsCommentOnly(i) {
			final = i
		}
	}

	if final < 0 || square == 0 && round == 0 || len(f.Doc.Brackets(final)) == 0 {
		return
	}

	text := f.Doc.Stripped(final)
	start := len(text) - len(strings.TrimLeft(text, " \t"))
	end := len(strings.TrimRight(text, " \t"))

	var parts []string
	if square != 0 {
		parts = append(parts, describeImbalance(square, '[', ']'))
	}

	if round != 0 {
		parts = append(parts, describeImbalance(round, '(', ')'))
	}

	f.report(rule, arturo.LineSpan(final, start, end), "",
		"unmatched brackets: "+strings.Join(parts, ", "))
}

func describeImbalance(balance int, open, closing byte) string {
	if balance > 0 {
		return fmt.Sprintf("%d unclosed '%c'", balance, open)
	}

	return fmt.Sprintf("%d unexpected '%c'", -balance, closing)
}

// ----------------------------------------------------------------------------
// Rule: undefined-identifier
// ----------------------------------------------------------------------------

var undefinedIdentifierRule = &Rule{
	Name:     RuleUndefinedIdentifier,
	Doc:      "Reports identifiers that resolve to no builtin, binding or literal.",
	Severity: SeverityWarning,
	Run:      checkUndefinedIdentifiers,
}

// skipMarkers precede words that are not references: 'literal, `unit`,
// #color, :type, .attribute and \path.
const skipMarkers = "'`#:.\\"

func checkUndefinedIdentifiers(rule *Rule, f *AnalyzedFile) {
	for i := range f.Doc.Lines {
		if f.Doc.IsCommentOnly(i) {
			continue
		}

		text := f.Doc.Text(i)
		for _, w := range words(f.Doc.Stripped(i), i) {
			if f.resolves(w, text) {
				continue
			}

			msg := "possibly undefined: " + w.Name
			if f.opts.Suggestions {
				if s := f.suggest(w.Name); s != "" {
					msg += fmt.Sprintf(" (did you mean %s?)", s)
				}
			}

			f.report(rule, w.span(), w.Name, msg)
		}
	}
}

// resolves reports whether w needs no definition.
func (f *AnalyzedFile) resolves(w word, text string) bool {
	tag := f.Doc.TagAt(w.Line, w.Start)
	switch {
	case tag == lexical.BlockLiteral && !f.opts.CheckInsideBlocks:
		return true
	case !tag.IsCode():
		return true
	}

	prev := w.prev(text)
	if prev != 0 && (strings.IndexByte(skipMarkers, prev) >= 0 || isDigit(prev)) {
		return true
	}

	if w.next(text) == ':' {
		return true
	}

	if IsLiteral(f.catalog, w.Name) || IsLiteral(f.catalog, enclosingToken(text, w.Start, w.End)) {
		return true
	}

	if f.catalog != nil && (f.catalog.IsBuiltin(w.Name) || f.catalog.IsType(w.Name)) {
		return true
	}

	return f.Symbols.Known(w.Name)
}

// suggestionThreshold is the minimum Jaro-Winkler similarity for a suggestion.
const suggestionThreshold = 0.8

// suggest returns the known name closest to name, or "".
func (f *AnalyzedFile) suggest(name string) string {
	if len(name) < 3 {
		return ""
	}

	best := ""
	bestScore := float32(0)

	consider := func(candidate string) {
		score, err := edlib.StringsSimilarity(name, candidate, edlib.JaroWinkler)
		if err != nil || score < suggestionThreshold {
			return
		}

		if score > bestScore || score == bestScore && candidate < best {
			best, bestScore = candidate, score
		}
	}

	for _, n := range sortedNames(f.Symbols.Functions) {
		consider(n)
	}

	for _, n := range sortedNames(f.Symbols.Variables) {
		consider(n)
	}

	if f.catalog != nil {
		for _, b := range f.catalog.Builtins() {
			consider(b.Name)
		}
	}

	return best
}

func sortedNames(m map[string]*Symbol) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	slices.Sort(out)

	return out
}

// ----------------------------------------------------------------------------
// Rule: type-mismatch
// ----------------------------------------------------------------------------

var typeMismatchRule = &Rule{
	Name:     RuleTypeMismatch,
	Doc:      "Reports binary arithmetic between a number and a string.",
	Severity: SeverityError,
	Run:      checkTypeMismatches,
}

var operatorVerbs = map[byte]string{
	'+': "add",
	'-': "subtract",
	'*': "multiply",
	'/': "divide",
}

func checkTypeMismatches(rule *Rule, f *AnalyzedFile) {
	for i, line := range f.Doc.Lines {
		if line.Start.Open() {
			continue
		}

		text := f.Doc.Stripped(i)

		m := assignmentPattern.FindStringSubmatchIndex(text)
		if m == nil || !f.Doc.TagAt(i, m[4]).IsCode() {
			continue
		}

		opCol := f.findOperator(i, text, m[6])
		if opCol < 0 {
			continue
		}

		lhs := strings.TrimSpace(text[m[6]:opCol])
		rhs := strings.TrimSpace(text[opCol+1:])

		lt, rt := f.operandType(lhs), f.operandType(rhs)

		kinds, ok := mismatch(lt, rt)
		if !ok {
			continue
		}

		op := text[opCol]
		f.report(rule, arturo.LineSpan(i, opCol, opCol+1), "",
			fmt.Sprintf("cannot %s %s (%s %c %s)", operatorVerbs[op], kinds, lt, op, rt))
	}
}

// findOperator returns the column of the first space-delimited arithmetic
// operator in code at or after from, or -1.
func (f *AnalyzedFile) findOperator(line int, text string, from int) int {
	for c := from + 1; c+1 < len(text); c++ {
		if _, ok := operatorVerbs[text[c]]; !ok {
			continue
		}

		if text[c-1] != ' ' || text[c+1] != ' ' || !f.Doc.TagAt(line, c).IsCode() {
			continue
		}

		return c
	}

	return -1
}

// operandType infers an operand's type, consulting the symbol table for bare identifiers.
func (f *AnalyzedFile) operandType(operand string) string {
	if arturo.IsIdentifier(operand) {
		if sym, ok := f.Symbols.Variables[operand]; ok {
			return sym.Type
		}

		if _, ok := f.Symbols.Functions[operand]; ok {
			return TypeFunction
		}
	}

	return InferType(operand)
}

// mismatch describes a number/string pairing in operand order.
func mismatch(lt, rt string) (string, bool) {
	switch {
	case IsNumericType(lt) && rt == TypeString:
		return "number and string", true
	case lt == TypeString && IsNumericType(rt):
		return "string and number", true
	default:
		return "", false
	}
}
