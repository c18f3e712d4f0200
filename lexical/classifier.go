package lexical

import "strings"

const (
	guillemetOpen      = "«"
	guillemetOpenPair  = "««"
	guillemetClosePair = "»»"
	verbatimTerminator = ":}"
	commentMarker      = ';'
	escapeMarker       = '\\'
	doubleQuote        = '"'
	curlyOpen          = '{'
	curlyClose         = '}'
	codeBlockMarker    = '!'
	verbatimMarker     = ':'
	blockOpen          = '['
	blockClose         = ']'
	parenOpen          = '('
	parenClose         = ')'
)

// Options tune string recognition.
type Options struct {
	// SingleGuillemetStrings makes a lone « open a string to end of line.
	SingleGuillemetStrings bool
}

// Classifier scans Arturo source. It holds no state between calls.
type Classifier struct {
	opts Options
}

// New returns a classifier with the given options.
func New(opts Options) *Classifier {
	return &Classifier{opts: opts}
}

// Default is the classifier with default options.
var Default = New(Options{})

// Classify returns the tag of the byte at offset on a line that starts in code.
func Classify(line string, offset int) Tag {
	return Default.Classify(line, offset)
}

// ClassifyMultiline classifies offset on lines[lineIndex], carrying string
// state from the start of the document.
func ClassifyMultiline(lines []string, lineIndex, offset int) Context {
	return Default.ClassifyMultiline(lines, lineIndex, offset)
}

// Classify returns the tag of the byte at offset on a line that starts in code.
func (c *Classifier) Classify(line string, offset int) Tag {
	spans, end := c.ScanLine(line, State{})

	return tagAt(spans, end, offset)
}

// ClassifyMultiline classifies offset on lines[lineIndex]. State is
// recomputed from the first line on every call.
func (c *Classifier) ClassifyMultiline(lines []string, lineIndex, offset int) Context {
	if lineIndex < 0 || lineIndex >= len(lines) {
		return Context{Tag: Code}
	}

	var state State
	for i := 0; i < lineIndex; i++ {
		_, state = c.scanLine(lines[i], state, i)
	}

	spans, end := c.scanLine(lines[lineIndex], state, lineIndex)
	tag := tagAt(spans, end, offset)

	return Context{InString: tag.IsString(), Tag: tag}
}

// ScanLine splits line into tagged spans starting from state start and
// returns the state carried into the next line.
func (c *Classifier) ScanLine(line string, start State) ([]Span, State) {
	return c.scanLine(line, start, start.Since)
}

// StripComment returns line truncated at its comment marker, if any.
func (c *Classifier) StripComment(line string, start State) string {
	if i := c.CommentStart(line, start); i >= 0 {
		return line[:i]
	}

	return line
}

// CommentStart returns the offset of the ; that starts a comment, or -1.
func (c *Classifier) CommentStart(line string, start State) int {
	spans, _ := c.ScanLine(line, start)
	for _, sp := range spans {
		if sp.Tag == LineComment {
			return sp.Start
		}
	}

	return -1
}

// scanLine is the state machine. lineIndex stamps the Since field of a
// string opened on this line.
func (c *Classifier) scanLine(line string, start State, lineIndex int) ([]Span, State) {
	tags := make([]Tag, len(line))
	tag := start.Tag
	since := start.Since
	depth := 0

	mark := func(from, to int, t Tag) {
		for j := from; j < to && j < len(tags); j++ {
			tags[j] = t
		}
	}

	for i := 0; i < len(line); {
		ch := line[i]

		switch tag {
		case Code:
			switch {
			case ch == commentMarker:
				mark(i, len(line), LineComment)
				i = len(line)
			case ch == curlyOpen && i+1 < len(line) && line[i+1] == codeBlockMarker:
				tag, since = StringCodeBlock, lineIndex
				mark(i, i+2, tag)
				i += 2
			case ch == curlyOpen && i+1 < len(line) && line[i+1] == verbatimMarker:
				tag, since = StringVerbatim, lineIndex
				mark(i, i+2, tag)
				i += 2
			case ch == curlyOpen:
				tag = StringCurly
				mark(i, i+1, tag)
				i++
			case ch == doubleQuote:
				tag = StringDouble
				mark(i, i+1, tag)
				i++
			case strings.HasPrefix(line[i:], guillemetOpenPair):
				tag, since = StringGuillemetDouble, lineIndex
				mark(i, i+len(guillemetOpenPair), tag)
				i += len(guillemetOpenPair)
			case c.opts.SingleGuillemetStrings && strings.HasPrefix(line[i:], guillemetOpen):
				tag = StringGuillemetSingle
				mark(i, len(line), tag)
				i = len(line)
			case ch == blockOpen:
				mark(i, i+1, blockTag(depth))
				depth++
				i++
			case ch == blockClose:
				if depth > 0 {
					depth--
				}
				mark(i, i+1, blockTag(depth))
				i++
			default:
				mark(i, i+1, blockTag(depth))
				i++
			}

		case StringDouble, StringCurly:
			closer := byte(doubleQuote)
			if tag == StringCurly {
				closer = curlyClose
			}
			mark(i, i+1, tag)
			switch ch {
			case escapeMarker:
				mark(i+1, i+2, tag)
				i += 2
			case closer:
				tag = Code
				i++
			default:
				i++
			}

		case StringVerbatim:
			if strings.HasPrefix(line[i:], verbatimTerminator) {
				mark(i, i+2, tag)
				tag = Code
				i += 2
				continue
			}
			mark(i, i+1, tag)
			i++

		case StringCodeBlock:
			switch {
			case strings.HasPrefix(line[i:], verbatimTerminator):
				mark(i, i+2, tag)
				tag = Code
				i += 2
			case ch == curlyClose:
				mark(i, i+1, tag)
				tag = Code
				i++
			default:
				mark(i, i+1, tag)
				i++
			}

		case StringGuillemetDouble:
			if strings.HasPrefix(line[i:], guillemetClosePair) {
				mark(i, i+len(guillemetClosePair), tag)
				tag = Code
				i += len(guillemetClosePair)
				continue
			}
			mark(i, i+1, tag)
			i++

		default:
			// StringGuillemetSingle, and any stale tag carried in by a caller.
			mark(i, len(line), tag)
			i = len(line)
		}
	}

	end := State{Tag: Code}
	if tag.Multiline() {
		end = State{Tag: tag, Since: since}
	}

	return compress(tags), end
}

func blockTag(depth int) Tag {
	if depth > 0 {
		return BlockLiteral
	}

	return Code
}

// compress merges runs of equal tags into spans.
func compress(tags []Tag) []Span {
	var spans []Span

	for i := 0; i < len(tags); {
		j := i + 1
		for j < len(tags) && tags[j] == tags[i] {
			j++
		}

		spans = append(spans, Span{Start: i, End: j, Tag: tags[i]})
		i = j
	}

	return spans
}

// tagAt finds the tag of offset. Offsets past the end of the line report the
// context a character typed there would land in.
func tagAt(spans []Span, end State, offset int) Tag {
	for _, sp := range spans {
		if offset >= sp.Start && offset < sp.End {
			return sp.Tag
		}
	}

	if offset < 0 || len(spans) == 0 {
		if end.Open() {
			return end.Tag
		}

		return Code
	}

	last := spans[len(spans)-1]
	if offset >= last.End {
		switch {
		case end.Open():
			return end.Tag
		case last.Tag == LineComment, last.Tag == StringGuillemetSingle:
			return last.Tag
		}
	}

	return Code
}
