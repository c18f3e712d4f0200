// Package report renders the diagnostics of a batch check.
package report

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/rlch/arturo/analysis"
)

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path        string
	Diagnostics []analysis.Diagnostic

	// Err is set when the file could not be read.
	Err error
}

// Summary accumulates counts over a check run.
type Summary struct {
	Files    int
	Errors   int
	Warnings int
	Infos    int
	Failed   int // files that could not be read
}

// Add counts one file result.
func (s *Summary) Add(r FileResult) {
	s.Files++

	if r.Err != nil {
		s.Failed++

		return
	}

	for _, d := range r.Diagnostics {
		switch d.Severity {
		case analysis.SeverityError:
			s.Errors++
		case analysis.SeverityWarning:
			s.Warnings++
		case analysis.SeverityInformation, analysis.SeverityHint:
			s.Infos++
		}
	}
}

// Ok reports whether the run found no errors and read every file.
func (s Summary) Ok() bool {
	return s.Errors == 0 && s.Failed == 0
}

// Summarize counts a whole result set.
func Summarize(results []FileResult) Summary {
	var s Summary
	for _, r := range results {
		s.Add(r)
	}

	return s
}

// Formatter renders check results.
type Formatter interface {
	File(r FileResult) error
	Summary(s Summary) error
}

// NewFormatter creates a formatter by name. Unknown names select text output.
func NewFormatter(name string, w io.Writer, color bool) Formatter {
	switch name {
	case "json":
		return NewJSONFormatter(w)
	default:
		return NewTextFormatter(w, color)
	}
}

// ColorEnabled reports whether w is a terminal that should get styled output.
// NO_COLOR disables color regardless.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
