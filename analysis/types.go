// Package analysis derives an approximate semantic model of Arturo source
// from its lexical classification: a symbol table, diagnostics, and the
// answers to editor queries.
package analysis

import (
	"github.com/rlch/arturo"
	"github.com/rlch/arturo/catalog"
	"github.com/rlch/arturo/lexical"
)

// DiagnosticSeverity mirrors the LSP severity levels.
type DiagnosticSeverity int

// Severity levels.
const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic is a problem found in a document.
type Diagnostic struct {
	Span     arturo.Span
	Severity DiagnosticSeverity
	Message  string
	Code     string
	Source   string

	// Subject is the identifier the diagnostic is about, if any.
	Subject string
}

// SymbolKind distinguishes the two kinds of bindings.
type SymbolKind int

// Symbol kinds.
const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
)

func (k SymbolKind) String() string {
	if k == SymbolFunction {
		return "function"
	}

	return "variable"
}

// Symbol is a top-of-line name binding.
type Symbol struct {
	Name string
	Kind SymbolKind

	// Type is the inferred type tag of the bound value.
	Type string

	// Value is the bound value text, comment stripped.
	Value string

	// Params are the parameter names of a function symbol.
	Params []string

	// Span covers the name at its definition site.
	Span arturo.Span

	// Extent covers the definition through the end of its value, which may
	// run over several lines when the value opens a block.
	Extent arturo.Span
}

// Line returns the 0-based definition line.
func (s *Symbol) Line() int {
	return s.Span.Start.Line - 1
}

// Column returns the 0-based definition column.
func (s *Symbol) Column() int {
	return s.Span.Start.Column - 1
}

// SymbolTable is the per-document model rebuilt on every change.
type SymbolTable struct {
	Variables   map[string]*Symbol
	Functions   map[string]*Symbol
	CustomTypes map[string]struct{}

	// Quasi-bindings: valid only heuristically, without locations.
	Params   map[string]struct{}
	LoopVars map[string]struct{}
	DictKeys map[string]struct{}
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Variables:   make(map[string]*Symbol),
		Functions:   make(map[string]*Symbol),
		CustomTypes: make(map[string]struct{}),
		Params:      make(map[string]struct{}),
		LoopVars:    make(map[string]struct{}),
		DictKeys:    make(map[string]struct{}),
	}
}

// Lookup returns the variable or function bound to name.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	if s, ok := t.Functions[name]; ok {
		return s, true
	}

	s, ok := t.Variables[name]

	return s, ok
}

// IsQuasiBound reports whether name is a parameter, loop variable or dictionary key.
func (t *SymbolTable) IsQuasiBound(name string) bool {
	if _, ok := t.Params[name]; ok {
		return true
	}

	if _, ok := t.LoopVars[name]; ok {
		return true
	}

	_, ok := t.DictKeys[name]

	return ok
}

// IsCustomType reports whether name was registered with define.
func (t *SymbolTable) IsCustomType(name string) bool {
	_, ok := t.CustomTypes[name]

	return ok
}

// Known reports whether name resolves to anything the document defines.
func (t *SymbolTable) Known(name string) bool {
	if _, ok := t.Lookup(name); ok {
		return true
	}

	return t.IsCustomType(name) || t.IsQuasiBound(name)
}

// AnalyzedFile is the result of analyzing one document. It is immutable once
// returned by Analyze and may be shared between readers.
type AnalyzedFile struct {
	Path        string
	Doc         *lexical.Document
	Symbols     *SymbolTable
	Diagnostics []Diagnostic

	catalog *catalog.Catalog
	opts    Options
}

// Catalog returns the builtin catalog the file was analyzed against.
func (f *AnalyzedFile) Catalog() *catalog.Catalog {
	return f.catalog
}

// Line returns the raw text of a 0-based line.
func (f *AnalyzedFile) Line(i int) string {
	return f.Doc.Text(i)
}
