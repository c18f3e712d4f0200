package analysis

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/catalog"
	"github.com/rlch/arturo/lexical"
)

// Options configures an Analyzer.
type Options struct {
	Undefined    bool
	TypeMismatch bool
	Brackets     bool

	// CheckInsideBlocks resolves identifiers inside [...] blocks as well.
	CheckInsideBlocks bool

	// Suggestions appends "did you mean" hints to undefined-identifier warnings.
	Suggestions bool

	// Suppress holds expr predicates over suppressEnv.
	Suppress []string

	Lexical lexical.Options

	InlayParameters bool
	InlayTypes      bool
}

// DefaultOptions enables every rule and hint.
func DefaultOptions() Options {
	return OptionsFromConfig(arturo.DefaultConfig())
}

// OptionsFromConfig maps a configuration onto analyzer options.
func OptionsFromConfig(cfg *arturo.Config) Options {
	if cfg == nil {
		cfg = arturo.DefaultConfig()
	}

	return Options{
		Undefined:         cfg.Diagnostics.Undefined,
		TypeMismatch:      cfg.Diagnostics.TypeMismatch,
		Brackets:          cfg.Diagnostics.Brackets,
		CheckInsideBlocks: cfg.Diagnostics.CheckInsideBlocks,
		Suggestions:       cfg.Diagnostics.Suggestions,
		Suppress:          cfg.Diagnostics.Suppress,
		Lexical:           lexical.Options{SingleGuillemetStrings: cfg.Lexical.SingleGuillemetStrings},
		InlayParameters:   cfg.InlayHints.Parameters,
		InlayTypes:        cfg.InlayHints.Types,
	}
}

// Analyzer performs semantic analysis on Arturo sources.
// It is safe for concurrent use.
type Analyzer struct {
	catalog    *catalog.Catalog
	classifier *lexical.Classifier
	opts       Options

	// rules is the set of checks to run.
	rules []*Rule

	suppress []*vm.Program
}

// suppressEnv is the environment suppression predicates are evaluated in.
type suppressEnv struct {
	Code     string `expr:"code"`
	Message  string `expr:"message"`
	Name     string `expr:"name"`
	Line     int    `expr:"line"`
	Severity string `expr:"severity"`
}

// NewAnalyzer creates an analyzer with the default rules. A nil catalog
// selects the embedded builtin catalog.
func NewAnalyzer(cat *catalog.Catalog, opts Options) (*Analyzer, error) {
	if cat == nil {
		cat = catalog.Default()
	}

	a := &Analyzer{
		catalog:    cat,
		classifier: lexical.New(opts.Lexical),
		opts:       opts,
		rules:      DefaultRules(),
	}

	for _, src := range opts.Suppress {
		prog, err := expr.Compile(src, expr.Env(suppressEnv{}), expr.AsBool())
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSuppression, "%q: %v", src, err)
		}

		a.suppress = append(a.suppress, prog)
	}

	return a, nil
}

// MustNewAnalyzer is like NewAnalyzer but panics on error.
func MustNewAnalyzer(cat *catalog.Catalog, opts Options) *Analyzer {
	a, err := NewAnalyzer(cat, opts)
	if err != nil {
		panic(err)
	}

	return a
}

// Catalog returns the builtin catalog in use.
func (a *Analyzer) Catalog() *catalog.Catalog {
	return a.catalog
}

// Options returns the options the analyzer was built with.
func (a *Analyzer) Options() Options {
	return a.opts
}

// Analyze classifies, indexes and checks a document. It never fails: a rule
// that panics contributes no diagnostics.
func (a *Analyzer) Analyze(path string, content []byte) *AnalyzedFile {
	doc := a.classifier.Scan(string(content))

	f := &AnalyzedFile{
		Path:        path,
		Doc:         doc,
		Symbols:     BuildSymbols(doc, a.catalog),
		Diagnostics: []Diagnostic{},
		catalog:     a.catalog,
		opts:        a.opts,
	}

	for _, rule := range a.rules {
		if !a.enabled(rule) {
			continue
		}

		runRule(rule, f)
	}

	f.Diagnostics = a.filterSuppressed(f.Diagnostics)

	slices.SortStableFunc(f.Diagnostics, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Span.Start.Line, y.Span.Start.Line),
			cmp.Compare(x.Span.Start.Column, y.Span.Start.Column),
		)
	})

	return f
}

func (a *Analyzer) enabled(rule *Rule) bool {
	switch rule.Name {
	case RuleUndefinedIdentifier:
		return a.opts.Undefined
	case RuleTypeMismatch:
		return a.opts.TypeMismatch
	case RuleUnmatchedBrackets:
		return a.opts.Brackets
	default:
		return true
	}
}

func runRule(rule *Rule, f *AnalyzedFile) {
	n := len(f.Diagnostics)

	defer func() {
		if r := recover(); r != nil {
			f.Diagnostics = f.Diagnostics[:n]
		}
	}()

	rule.Run(rule, f)
}

func (a *Analyzer) filterSuppressed(diags []Diagnostic) []Diagnostic {
	if len(a.suppress) == 0 {
		return diags
	}

	return slices.DeleteFunc(diags, func(d Diagnostic) bool {
		env := suppressEnv{
			Code:     d.Code,
			Message:  d.Message,
			Name:     d.Subject,
			Line:     d.Span.Start.Line - 1,
			Severity: d.Severity.String(),
		}

		for _, prog := range a.suppress {
			out, err := expr.Run(prog, env)
			if err != nil {
				continue
			}

			if hit, ok := out.(bool); ok && hit {
				return true
			}
		}

		return false
	})
}

// String implements fmt.Stringer for debugging.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d %s: %s [%s]",
		d.Span.Start.Line, d.Span.Start.Column, d.Severity, d.Message, d.Code)
}
