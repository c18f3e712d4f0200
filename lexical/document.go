package lexical

import "strings"

// Line is the classification of one source line.
type Line struct {
	Text  string
	Start State
	End   State
	Spans []Span
}

// Document is a fully classified source text.
type Document struct {
	Lines []Line
}

// SplitLines splits text on newlines, dropping a trailing carriage return
// from each line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}

// LineStates returns the state each line starts in.
func (c *Classifier) LineStates(lines []string) []State {
	states := make([]State, len(lines))

	var state State
	for i, l := range lines {
		states[i] = state
		_, state = c.scanLine(l, state, i)
	}

	return states
}

// Scan classifies every line of text.
func (c *Classifier) Scan(text string) *Document {
	lines := SplitLines(text)
	doc := &Document{Lines: make([]Line, len(lines))}

	var state State
	for i, l := range lines {
		spans, end := c.scanLine(l, state, i)
		doc.Lines[i] = Line{Text: l, Start: state, End: end, Spans: spans}
		state = end
	}

	return doc
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.Lines)
}

// Text returns the raw text of line i, or "" when out of range.
func (d *Document) Text(i int) string {
	if i < 0 || i >= len(d.Lines) {
		return ""
	}

	return d.Lines[i].Text
}

// Texts returns the raw lines.
func (d *Document) Texts() []string {
	out := make([]string, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = l.Text
	}

	return out
}

// TagAt returns the tag of the byte at col on line.
func (d *Document) TagAt(line, col int) Tag {
	if line < 0 || line >= len(d.Lines) {
		return Code
	}

	l := d.Lines[line]

	return tagAt(l.Spans, l.End, col)
}

// Stripped returns line i truncated at its comment.
func (d *Document) Stripped(i int) string {
	if i < 0 || i >= len(d.Lines) {
		return ""
	}

	l := d.Lines[i]
	for _, sp := range l.Spans {
		if sp.Tag == LineComment {
			return l.Text[:sp.Start]
		}
	}

	return l.Text
}

// IsCommentOnly reports whether line i holds nothing but a comment and
// whitespace.
func (d *Document) IsCommentOnly(i int) bool {
	if i < 0 || i >= len(d.Lines) {
		return false
	}

	l := d.Lines[i]
	if l.Start.Open() {
		return false
	}

	return strings.TrimSpace(d.Stripped(i)) == "" && strings.TrimSpace(l.Text) != ""
}

// IsBlank reports whether line i is empty or whitespace outside any string.
func (d *Document) IsBlank(i int) bool {
	if i < 0 || i >= len(d.Lines) {
		return true
	}

	return !d.Lines[i].Start.Open() && strings.TrimSpace(d.Lines[i].Text) == ""
}

// Brackets returns the [ ] ( ) characters of line i that sit in code.
func (d *Document) Brackets(i int) []Bracket {
	if i < 0 || i >= len(d.Lines) {
		return nil
	}

	l := d.Lines[i]

	var out []Bracket
	for _, sp := range l.Spans {
		if !sp.Tag.IsCode() {
			continue
		}

		for j := sp.Start; j < sp.End; j++ {
			switch l.Text[j] {
			case blockOpen, blockClose, parenOpen, parenClose:
				out = append(out, Bracket{Col: j, Char: l.Text[j]})
			}
		}
	}

	return out
}

// StringRegion is a string that spans more than one line.
type StringRegion struct {
	Tag       Tag
	StartLine int
	EndLine   int
}

// MultilineStrings returns every string that crosses a line boundary. A
// string still open at the end of the document ends on the last line.
func (d *Document) MultilineStrings() []StringRegion {
	var out []StringRegion

	for i, l := range d.Lines {
		if !l.Start.Open() {
			continue
		}

		closed := !l.End.Open() || l.End.Since != l.Start.Since
		if closed || i == len(d.Lines)-1 {
			out = append(out, StringRegion{Tag: l.Start.Tag, StartLine: l.Start.Since, EndLine: i})
		}
	}

	return out
}
