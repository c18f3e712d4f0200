package arturo

import (
	"strings"

	"github.com/rlch/arturo/lexical"
)

// DefaultIndentSize is the indent width used when FormatConfig leaves it unset.
const DefaultIndentSize = 4

// Format re-indents Arturo source by bracket depth. Lines inside multi-line
// strings are left untouched, trailing whitespace is trimmed, runs of blank
// lines are capped at cfg.MaxBlankLines and the result ends in exactly one
// newline. Format is idempotent.
func Format(src string, cfg FormatConfig) string {
	return FormatDocument(lexical.Default.Scan(src), cfg)
}

// FormatDocument formats an already classified document.
func FormatDocument(doc *lexical.Document, cfg FormatConfig) string {
	f := &formatter{cfg: cfg, unit: indentUnit(cfg)}

	for i := range doc.Lines {
		f.line(doc, i)
	}

	out := strings.TrimRight(f.b.String(), "\n")
	if out == "" {
		return ""
	}

	return out + "\n"
}

func indentUnit(cfg FormatConfig) string {
	if cfg.UseTabs {
		return "\t"
	}

	size := cfg.IndentSize
	if size <= 0 {
		size = DefaultIndentSize
	}

	return strings.Repeat(" ", size)
}

type formatter struct {
	b       strings.Builder
	cfg     FormatConfig
	unit    string
	depth   int
	blanks  int
	started bool
}

func (f *formatter) writeLine(s string) {
	for range min(f.blanks, max(f.cfg.MaxBlankLines, 0)) {
		f.b.WriteString("\n")
	}

	f.blanks = 0
	f.started = true

	f.b.WriteString(s)
	f.b.WriteString("\n")
}

func (f *formatter) line(doc *lexical.Document, i int) {
	l := doc.Lines[i]

	switch {
	case l.Start.Open():
		// Inside a multi-line string the text is content.
		f.writeLine(l.Text)
	case doc.IsBlank(i):
		if f.started {
			f.blanks++
		}

		return
	default:
		content := strings.TrimLeft(l.Text, " \t")
		if !l.End.Open() {
			content = strings.TrimRight(content, " \t")
		}

		level := max(f.depth-leadingClosers(content), 0)
		f.writeLine(strings.Repeat(f.unit, level) + content)
	}

	for _, b := range doc.Brackets(i) {
		if b.Opens() {
			f.depth++
		} else if f.depth > 0 {
			f.depth--
		}
	}
}

// leadingClosers counts the closing brackets that start a line.
func leadingClosers(content string) int {
	n := 0

	for _, c := range []byte(content) {
		switch c {
		case ']', ')':
			n++
		case ' ', '\t':
		default:
			return n
		}
	}

	return n
}
