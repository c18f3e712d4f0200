// Package lexical classifies Arturo source text into code, comments, the
// string forms of the language, and block literals.
//
// The classifier is a line-oriented state machine. Every line is scanned left
// to right starting from the state carried out of the previous line; only the
// verbatim, code-block and double-guillemet strings may carry over.
package lexical

// Tag identifies the lexical context of a byte.
type Tag int

// Lexical contexts.
const (
	Code Tag = iota
	LineComment
	StringDouble
	StringCurly
	StringVerbatim
	StringCodeBlock
	StringGuillemetSingle
	StringGuillemetDouble
	BlockLiteral
)

var tagNames = [...]string{
	Code:                  "code",
	LineComment:           "comment",
	StringDouble:          "string",
	StringCurly:           "curly-string",
	StringVerbatim:        "verbatim-string",
	StringCodeBlock:       "code-block-string",
	StringGuillemetSingle: "guillemet-string",
	StringGuillemetDouble: "double-guillemet-string",
	BlockLiteral:          "block",
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "unknown"
	}

	return tagNames[t]
}

// IsString reports whether t is one of the string forms.
func (t Tag) IsString() bool {
	switch t {
	case StringDouble, StringCurly, StringVerbatim, StringCodeBlock,
		StringGuillemetSingle, StringGuillemetDouble:
		return true
	default:
		return false
	}
}

// IsCode reports whether t is executable text, at the top level or inside a block.
func (t Tag) IsCode() bool {
	return t == Code || t == BlockLiteral
}

// Multiline reports whether a string of this form may span lines.
func (t Tag) Multiline() bool {
	return t == StringVerbatim || t == StringCodeBlock || t == StringGuillemetDouble
}

// State is the classifier state carried across a line boundary.
type State struct {
	// Tag is the open multi-line string form, or Code.
	Tag Tag

	// Since is the 0-based line where the open string started.
	Since int
}

// Open reports whether a multi-line string is open.
func (s State) Open() bool {
	return s.Tag != Code
}

// Span is a maximal run of bytes [Start, End) on one line sharing a tag.
type Span struct {
	Start int
	End   int
	Tag   Tag
}

// Bracket is a bracket character found in code.
type Bracket struct {
	Col  int
	Char byte
}

// Opens reports whether the bracket opens a group.
func (b Bracket) Opens() bool {
	return b.Char == '[' || b.Char == '('
}

// Context is the answer of a document-wide classification query.
type Context struct {
	InString bool
	Tag      Tag
}
