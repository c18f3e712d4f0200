package report

import (
	"encoding/json"
	"io"
)

// JSONFormatter outputs newline-delimited JSON: one object per file, then a
// summary object.
type JSONFormatter struct {
	enc *json.Encoder
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{enc: json.NewEncoder(w)}
}

type jsonDiagnostic struct {
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"endLine"`
	EndColumn int    `json:"endColumn"`
	Severity  string `json:"severity"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

type jsonFile struct {
	Action      string           `json:"action"`
	File        string           `json:"file"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	Error       string           `json:"error,omitempty"`
}

// File outputs the diagnostics of one file.
func (j *JSONFormatter) File(r FileResult) error {
	jf := jsonFile{
		Action:      "file",
		File:        r.Path,
		Diagnostics: make([]jsonDiagnostic, 0, len(r.Diagnostics)),
	}

	if r.Err != nil {
		jf.Error = r.Err.Error()
	}

	for _, d := range r.Diagnostics {
		jf.Diagnostics = append(jf.Diagnostics, jsonDiagnostic{
			Line:      d.Span.Start.Line,
			Column:    d.Span.Start.Column,
			EndLine:   d.Span.End.Line,
			EndColumn: d.Span.End.Column,
			Severity:  d.Severity.String(),
			Code:      d.Code,
			Message:   d.Message,
		})
	}

	return j.enc.Encode(jf)
}

type jsonSummary struct {
	Action   string `json:"action"`
	Files    int    `json:"files"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Infos    int    `json:"infos"`
	Failed   int    `json:"failed"`
	Ok       bool   `json:"ok"`
}

// Summary outputs the final JSON summary.
func (j *JSONFormatter) Summary(s Summary) error {
	return j.enc.Encode(jsonSummary{
		Action:   "summary",
		Files:    s.Files,
		Errors:   s.Errors,
		Warnings: s.Warnings,
		Infos:    s.Infos,
		Failed:   s.Failed,
		Ok:       s.Ok(),
	})
}
