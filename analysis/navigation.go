package analysis

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/cockroachdb/errors"

	"github.com/rlch/arturo"
)

// Occurrence is one appearance of a name in code.
type Occurrence struct {
	Span arturo.Span

	// Write is set at binding sites ("name:").
	Write bool
}

// TextEdit replaces the text of Span with NewText.
type TextEdit struct {
	Span    arturo.Span
	NewText string
}

// RenameResult holds the edits of a rename.
type RenameResult struct {
	Name    string
	NewName string
	Edits   []TextEdit

	// BuiltinCollision is set when NewName is a builtin the renamed symbol
	// will now shadow.
	BuiltinCollision bool
}

// referenceMarkers precede words that name something other than a binding.
const referenceMarkers = ".:#`\\"

// Definition returns the span of the binding for the word at pos, or nil.
func (f *AnalyzedFile) Definition(pos lexer.Position) *arturo.Span {
	line, col := toLineCol(pos)

	w, ok := f.wordAt(line, col)
	if !ok || !f.Doc.TagAt(line, w.Start).IsCode() {
		return nil
	}

	if prev := w.prev(f.Doc.Text(line)); prev != 0 && strings.IndexByte(referenceMarkers, prev) >= 0 {
		return nil
	}

	sym, ok := f.Symbols.Lookup(w.Name)
	if !ok {
		return nil
	}

	span := sym.Span

	return &span
}

// References returns every code occurrence of the name at pos. When
// includeDecl is false the defining occurrence is left out.
func (f *AnalyzedFile) References(pos lexer.Position, includeDecl bool) []Occurrence {
	line, col := toLineCol(pos)

	w, ok := f.wordAt(line, col)
	if !ok || !f.Doc.TagAt(line, w.Start).IsCode() {
		return nil
	}

	occs := f.occurrences(w.Name)
	if includeDecl {
		return occs
	}

	sym, ok := f.Symbols.Lookup(w.Name)
	if !ok {
		return occs
	}

	out := occs[:0]
	for _, o := range occs {
		if o.Span != sym.Span {
			out = append(out, o)
		}
	}

	return out
}

// Highlights returns the occurrences of the name at pos, marking binding sites as writes.
func (f *AnalyzedFile) Highlights(pos lexer.Position) []Occurrence {
	return f.References(pos, true)
}

// occurrences scans the document for name in code positions.
func (f *AnalyzedFile) occurrences(name string) []Occurrence {
	var out []Occurrence

	for i := range f.Doc.Lines {
		text := f.Doc.Text(i)
		stripped := f.Doc.Stripped(i)

		for _, w := range words(stripped, i) {
			if w.Name != name || !f.Doc.TagAt(i, w.Start).IsCode() {
				continue
			}

			if prev := w.prev(text); prev != 0 && (strings.IndexByte(referenceMarkers, prev) >= 0 || isDigit(prev)) {
				continue
			}

			out = append(out, Occurrence{
				Span:  w.span(),
				Write: w.next(text) == ':' && (w.End+1 >= len(text) || text[w.End+1] != ':'),
			})
		}
	}

	return out
}

// renameTarget resolves the word at pos to something that may be renamed.
func (f *AnalyzedFile) renameTarget(pos lexer.Position) (word, error) {
	line, col := toLineCol(pos)

	w, ok := f.wordAt(line, col)
	if !ok || !f.Doc.TagAt(line, w.Start).IsCode() {
		return word{}, ErrNoSymbol
	}

	text := f.Doc.Text(line)

	switch {
	case w.prev(text) == ':',
		f.catalog != nil && f.catalog.IsType(w.Name),
		f.Symbols.IsCustomType(w.Name):
		return word{}, errors.Wrapf(ErrTypeTarget, "%q", w.Name)
	case f.catalog != nil && f.catalog.IsBuiltin(w.Name):
		return word{}, errors.Wrapf(ErrBuiltinTarget, "%q", w.Name)
	}

	if _, ok := f.Symbols.Lookup(w.Name); !ok && !f.Symbols.IsQuasiBound(w.Name) {
		return word{}, errors.Wrapf(ErrNoSymbol, "%q", w.Name)
	}

	return w, nil
}

// PrepareRename returns the span and name of the symbol at pos if it can be renamed.
func (f *AnalyzedFile) PrepareRename(pos lexer.Position) (arturo.Span, string, error) {
	w, err := f.renameTarget(pos)
	if err != nil {
		return arturo.Span{}, "", err
	}

	return w.span(), w.Name, nil
}

// Rename renames the symbol at pos to newName throughout the document.
func (f *AnalyzedFile) Rename(pos lexer.Position, newName string) (*RenameResult, error) {
	if !arturo.IsValidNewName(newName) {
		return nil, errors.Wrapf(ErrInvalidIdentifier, "%q", newName)
	}

	w, err := f.renameTarget(pos)
	if err != nil {
		return nil, err
	}

	res := &RenameResult{
		Name:             w.Name,
		NewName:          newName,
		BuiltinCollision: f.catalog != nil && f.catalog.IsBuiltin(newName),
	}

	for _, o := range f.occurrences(w.Name) {
		res.Edits = append(res.Edits, TextEdit{Span: o.Span, NewText: newName})
	}

	return res, nil
}
