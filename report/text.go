package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/rlch/arturo/analysis"
)

type styles struct {
	path    lipgloss.Style
	error   lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
	code    lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, color bool) styles {
	if !color {
		plain := r.NewStyle()

		return styles{plain, plain, plain, plain, plain, plain, plain}
	}

	return styles{
		path:    r.NewStyle().Bold(true),
		error:   r.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("#FFB000")),
		info:    r.NewStyle().Foreground(lipgloss.Color("#7D56F4")),
		code:    r.NewStyle().Foreground(lipgloss.Color("#626262")),
		pass:    r.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		fail:    r.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
	}
}

// TextFormatter prints one compiler-style line per diagnostic.
type TextFormatter struct {
	w      io.Writer
	styles styles
}

// NewTextFormatter creates a text formatter. With color set, output is
// styled for the terminal behind w.
func NewTextFormatter(w io.Writer, color bool) *TextFormatter {
	return &TextFormatter{
		w:      w,
		styles: newStyles(lipgloss.NewRenderer(w), color),
	}
}

// File prints the diagnostics of one file as path:line:col: severity: message [code].
func (t *TextFormatter) File(r FileResult) error {
	path := t.styles.path.Render(r.Path)

	if r.Err != nil {
		_, err := fmt.Fprintf(t.w, "%s: %s %v\n", path, t.styles.error.Render("error:"), r.Err)

		return err
	}

	for _, d := range r.Diagnostics {
		_, err := fmt.Fprintf(t.w, "%s:%d:%d: %s %s %s\n",
			path,
			d.Span.Start.Line,
			d.Span.Start.Column,
			t.severity(d.Severity),
			d.Message,
			t.styles.code.Render("["+d.Code+"]"),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (t *TextFormatter) severity(s analysis.DiagnosticSeverity) string {
	label := s.String() + ":"

	switch s {
	case analysis.SeverityError:
		return t.styles.error.Render(label)
	case analysis.SeverityWarning:
		return t.styles.warning.Render(label)
	default:
		return t.styles.info.Render(label)
	}
}

// Summary prints the final counts.
func (t *TextFormatter) Summary(s Summary) error {
	status := t.styles.pass.Render("PASS")
	if !s.Ok() {
		status = t.styles.fail.Render("FAIL")
	}

	_, err := fmt.Fprintf(t.w, "%s %s, %s, %s\n",
		status,
		plural(s.Files, "file"),
		plural(s.Errors, "error"),
		plural(s.Warnings, "warning"),
	)

	return err
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}

	return fmt.Sprintf("%d %ss", n, noun)
}
