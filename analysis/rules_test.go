package analysis_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/analysis"
	"github.com/rlch/arturo/catalog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRule_TypeMismatch_NumberAndString(t *testing.T) {
	t.Parallel()

	result := analyze(t, "x: 5\ny: \"hi\"\nz: x + y")

	require.Len(t, result.Diagnostics, 1)

	d := result.Diagnostics[0]
	assert.Equal(t, analysis.RuleTypeMismatch, d.Code)
	assert.Equal(t, analysis.SeverityError, d.Severity)
	assert.Contains(t, d.Message, "add number and string")
	assert.Equal(t, arturo.LineSpan(2, 5, 6), d.Span)
}

func TestRule_TypeMismatch_StringAndNumber(t *testing.T) {
	t.Parallel()

	result := analyze(t, "a: \"x\"\nb: a * 2")

	assertHasDiagnostic(t, result, analysis.RuleTypeMismatch)
	assert.Contains(t, result.Diagnostics[0].Message, "multiply string and number")
}

func TestRule_TypeMismatch_LiteralOperands(t *testing.T) {
	t.Parallel()

	result := analyze(t, "z: 3 - \"s\"")

	assertHasDiagnostic(t, result, analysis.RuleTypeMismatch)
	assert.Contains(t, result.Diagnostics[0].Message, "subtract number and string")
}

func TestRule_TypeMismatch_NoFalsePositives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"numbers", "x: 1\ny: 2.5\nz: x + y"},
		{"strings", "x: \"a\"\nz: x + \"b\""},
		{"operator in string", "z: \"1 + a\""},
		{"unknown operand", "x: 1\nz: x + q"},
		{"not an assignment", "print 1 + \"a\""},
		{"commented", "; z: 1 + \"a\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assertNoDiagnostic(t, analyze(t, tt.input), analysis.RuleTypeMismatch)
		})
	}
}

func TestRule_UnmatchedBrackets(t *testing.T) {
	t.Parallel()

	result := analyze(t, "x: [1 2\nprint x\ny: [3]")

	assertHasDiagnostic(t, result, analysis.RuleUnmatchedBrackets)

	d := result.Diagnostics[0]
	assert.Equal(t, analysis.SeverityError, d.Severity)
	assert.Equal(t, 3, d.Span.Start.Line)
	assert.Equal(t, "unmatched brackets: 1 unclosed '['", d.Message)
}

func TestRule_UnmatchedBrackets_UnexpectedClose(t *testing.T) {
	t.Parallel()

	result := analyze(t, "x: [1\ny: 2]]\n; done")

	assertHasDiagnostic(t, result, analysis.RuleUnmatchedBrackets)
	assert.Equal(t, 2, result.Diagnostics[0].Span.Start.Line)
	assert.Contains(t, result.Diagnostics[0].Message, "1 unexpected ']'")
}

func TestRule_UnmatchedBrackets_OnlyFinalLineReports(t *testing.T) {
	t.Parallel()

	// The imbalance sits on line 1, but the final line has no bracket.
	result := analyze(t, "x: [1 2\nprint x")

	assertNoDiagnostic(t, result, analysis.RuleUnmatchedBrackets)
}

func TestRule_UnmatchedBrackets_IgnoresStrings(t *testing.T) {
	t.Parallel()

	result := analyze(t, "x: \"[\"\ny: [1 {]} 2]")

	assertNoDiagnostic(t, result, analysis.RuleUnmatchedBrackets)
}

func TestRule_UndefinedIdentifier(t *testing.T) {
	t.Parallel()

	result := analyze(t, "print qzx")

	require.Len(t, result.Diagnostics, 1)

	d := result.Diagnostics[0]
	assert.Equal(t, analysis.RuleUndefinedIdentifier, d.Code)
	assert.Equal(t, analysis.SeverityWarning, d.Severity)
	assert.Equal(t, "qzx", d.Subject)
	assert.Equal(t, "possibly undefined: qzx", d.Message)
	assert.Equal(t, arturo.LineSpan(0, 6, 9), d.Span)
}

func TestRule_UndefinedIdentifier_Suggestion(t *testing.T) {
	t.Parallel()

	result := analyze(t, "velocity: 3\nprint velocty")

	assertHasDiagnostic(t, result, analysis.RuleUndefinedIdentifier)
	assert.Contains(t, result.Diagnostics[0].Message, "(did you mean velocity?)")
}

func TestRule_UndefinedIdentifier_SuggestionsDisabled(t *testing.T) {
	t.Parallel()

	opts := analysis.DefaultOptions()
	opts.Suggestions = false

	result := analyzeWith(t, opts, "velocity: 3\nprint velocty")

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "possibly undefined: velocty", result.Diagnostics[0].Message)
}

func TestRule_UndefinedIdentifier_Skips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"binding site", "foo: 1"},
		{"bound variable", "foo: 1\nprint foo"},
		{"literal", "x: 'foo"},
		{"type", "x: to :integer \"5\""},
		{"color", "print #fuchsia"},
		{"unit", "print 3`m`"},
		{"version", "print 1.2.3-rc"},
		{"hex number", "print 0xff"},
		{"keywords", "print true\nprint null\nprint maybe"},
		{"named color", "print red"},
		{"char shorthand", "print x"},
		{"attribute", "x: 1\nprint x.field"},
		{"string", "print \"undefinedword\""},
		{"curly string", "print {curly foo}"},
		{"verbatim string", "print {:\nfoo bar\n:}"},
		{"comment", "; foo bar"},
		{"trailing comment", "print 1 ; foo"},
		{"block literal", "print [foo bar]"},
		{"dictionary key", "d: #[name: 1]"},
		{"custom type", "define :person [name]\nprint person"},
		{"parameter", "greet: function [person][\n    print person\n]"},
		{"literal parameter", "double: function 'num [\n    num * 2\n]"},
		{"loop variable", "loop [1 2 3] 'item [\n    print item\n]"},
		{"loop variables", "loop #[a: 1] [key value] [\n    print key\n]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assertNoDiagnostic(t, analyze(t, tt.input), analysis.RuleUndefinedIdentifier)
		})
	}
}

func TestRule_UndefinedIdentifier_NeverFlagsBuiltins(t *testing.T) {
	t.Parallel()

	for _, b := range catalog.Default().Builtins() {
		if !arturo.IsIdentifier(b.Name) {
			continue
		}

		result := analyze(t, "x: "+b.Name)
		for _, d := range result.Diagnostics {
			if d.Code == analysis.RuleUndefinedIdentifier {
				t.Errorf("builtin %q reported: %s", b.Name, d.Message)
			}
		}
	}
}

func TestRule_UndefinedIdentifier_CheckInsideBlocks(t *testing.T) {
	t.Parallel()

	opts := analysis.DefaultOptions()
	opts.CheckInsideBlocks = true

	result := analyzeWith(t, opts, "print [foo]")

	assertHasDiagnostic(t, result, analysis.RuleUndefinedIdentifier)
	assert.Equal(t, "foo", result.Diagnostics[0].Subject)
}

func TestRule_UndefinedIdentifier_StringDelimitersExcluded(t *testing.T) {
	t.Parallel()

	result := analyze(t, `print "a \"quoted\" word"`)

	assert.Empty(t, result.Diagnostics)
}

func TestDefaultRules(t *testing.T) {
	t.Parallel()

	rules := analysis.DefaultRules()
	require.Len(t, rules, 3)

	severities := make(map[string]analysis.DiagnosticSeverity, len(rules))
	for _, rule := range rules {
		require.NotNil(t, rule.Run, rule.Name)
		assert.NotEmpty(t, rule.Doc, rule.Name)
		severities[rule.Name] = rule.Severity
	}

	assert.Equal(t, map[string]analysis.DiagnosticSeverity{
		analysis.RuleUnmatchedBrackets:   analysis.SeverityError,
		analysis.RuleTypeMismatch:        analysis.SeverityError,
		analysis.RuleUndefinedIdentifier: analysis.SeverityWarning,
	}, severities)

	result := analyze(t, "print foo\nz: 1 + \"a\"\nx: [")
	require.Len(t, result.Diagnostics, 3)

	for _, d := range result.Diagnostics {
		assert.Equal(t, severities[d.Code], d.Severity, d.Code)
	}

	assert.Equal(t, analysis.RuleUndefinedIdentifier, result.Diagnostics[0].Code)
	assert.Equal(t, analysis.RuleTypeMismatch, result.Diagnostics[1].Code)
	assert.Equal(t, "cannot add number and string (integer + string)", result.Diagnostics[1].Message)
	assert.Equal(t, analysis.RuleUnmatchedBrackets, result.Diagnostics[2].Code)
}

func TestAnalyzer_DisabledRules(t *testing.T) {
	t.Parallel()

	opts := analysis.DefaultOptions()
	opts.Undefined = false
	opts.TypeMismatch = false
	opts.Brackets = false

	result := analyzeWith(t, opts, "print foo\nz: 1 + \"a\"\nx: [")

	assert.Empty(t, result.Diagnostics)
}

func TestAnalyzer_Suppress(t *testing.T) {
	t.Parallel()

	opts := analysis.DefaultOptions()
	opts.Suppress = []string{`code == "undefined-identifier" && name startsWith "ext_"`}

	result := analyzeWith(t, opts, "print ext_thing\nprint other")

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "other", result.Diagnostics[0].Subject)
}

func TestAnalyzer_SuppressByLineAndSeverity(t *testing.T) {
	t.Parallel()

	opts := analysis.DefaultOptions()
	opts.Suppress = []string{`line == 0 && severity == "warning"`}

	result := analyzeWith(t, opts, "print a1\nprint b1")

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "b1", result.Diagnostics[0].Subject)
}

func TestAnalyzer_InvalidSuppression(t *testing.T) {
	t.Parallel()

	for _, src := range []string{`code ==`, `code`} {
		opts := analysis.DefaultOptions()
		opts.Suppress = []string{src}

		_, err := analysis.NewAnalyzer(nil, opts)
		require.Error(t, err, src)
		assert.True(t, errors.Is(err, analysis.ErrInvalidSuppression), src)
	}
}

func TestAnalyzer_DiagnosticsSorted(t *testing.T) {
	t.Parallel()

	result := analyze(t, "print zzz\nz: 1 + \"a\"\nprint qqq")

	require.Len(t, result.Diagnostics, 3)
	assert.Equal(t, "zzz", result.Diagnostics[0].Subject)
	assert.Equal(t, analysis.RuleTypeMismatch, result.Diagnostics[1].Code)
	assert.Equal(t, "qqq", result.Diagnostics[2].Subject)

	for i := 1; i < len(result.Diagnostics); i++ {
		prev, cur := result.Diagnostics[i-1].Span.Start, result.Diagnostics[i].Span.Start
		assert.LessOrEqual(t, prev.Line, cur.Line)
	}
}

func TestAnalyzer_OptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := arturo.DefaultConfig()
	cfg.Diagnostics.Undefined = false
	cfg.Lexical.SingleGuillemetStrings = true
	cfg.InlayHints.Types = false

	opts := analysis.OptionsFromConfig(cfg)

	assert.False(t, opts.Undefined)
	assert.True(t, opts.TypeMismatch)
	assert.True(t, opts.Lexical.SingleGuillemetStrings)
	assert.False(t, opts.InlayTypes)
	assert.True(t, opts.InlayParameters)
}

func TestAnalyzer_SingleGuillemetOption(t *testing.T) {
	t.Parallel()

	opts := analysis.DefaultOptions()
	opts.Lexical.SingleGuillemetStrings = true

	result := analyzeWith(t, opts, "print « foo bar")

	assert.Empty(t, result.Diagnostics)
}

// ============================================================================
// Helpers
// ============================================================================

func analyze(t *testing.T, input string) *analysis.AnalyzedFile {
	t.Helper()

	return analyzeWith(t, analysis.DefaultOptions(), input)
}

func analyzeWith(t *testing.T, opts analysis.Options, input string) *analysis.AnalyzedFile {
	t.Helper()

	analyzer, err := analysis.NewAnalyzer(nil, opts)
	require.NoError(t, err)

	return analyzer.Analyze("test.art", []byte(input))
}

func assertHasDiagnostic(t *testing.T, result *analysis.AnalyzedFile, code string) {
	t.Helper()

	for _, d := range result.Diagnostics {
		if d.Code == code {
			return
		}
	}

	t.Errorf("expected diagnostic %q, got:", code)

	for _, d := range result.Diagnostics {
		t.Logf("  %s: %s", d.Code, d.Message)
	}
}

func assertNoDiagnostic(t *testing.T, result *analysis.AnalyzedFile, code string) {
	t.Helper()

	for _, d := range result.Diagnostics {
		if d.Code == code {
			t.Errorf("unexpected diagnostic %q: %s", code, d.Message)
		}
	}
}
