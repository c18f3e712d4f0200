package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/analysis"
	"github.com/rlch/arturo/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sampleResults() []report.FileResult {
	return []report.FileResult{
		{
			Path: "main.art",
			Diagnostics: []analysis.Diagnostic{
				{
					Span:     arturo.LineSpan(2, 5, 6),
					Severity: analysis.SeverityError,
					Message:  "cannot add number and string (integer + string)",
					Code:     analysis.RuleTypeMismatch,
				},
				{
					Span:     arturo.LineSpan(3, 6, 9),
					Severity: analysis.SeverityWarning,
					Message:  "possibly undefined: qzx",
					Code:     analysis.RuleUndefinedIdentifier,
				},
			},
		},
		{Path: "clean.art"},
		{Path: "gone.art", Err: errors.New("no such file")},
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := report.Summarize(sampleResults())

	assert.Equal(t, report.Summary{Files: 3, Errors: 1, Warnings: 1, Failed: 1}, s)
	assert.False(t, s.Ok())
	assert.True(t, report.Summarize([]report.FileResult{{Path: "a.art"}}).Ok())
}

func TestTextFormatter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	f := report.NewTextFormatter(&buf, false)

	results := sampleResults()
	for _, r := range results {
		require.NoError(t, f.File(r))
	}

	require.NoError(t, f.Summary(report.Summarize(results)))

	want := strings.Join([]string{
		"main.art:3:6: error: cannot add number and string (integer + string) [type-mismatch]",
		"main.art:4:7: warning: possibly undefined: qzx [undefined-identifier]",
		"gone.art: error: no such file",
		"FAIL 3 files, 1 error, 1 warning",
		"",
	}, "\n")

	assert.Equal(t, want, buf.String())
}

func TestTextFormatter_Pass(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	f := report.NewFormatter("text", &buf, false)
	require.NoError(t, f.Summary(report.Summary{Files: 1}))

	assert.Equal(t, "PASS 1 file, 0 errors, 0 warnings\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	f := report.NewFormatter("json", &buf, false)

	results := sampleResults()
	for _, r := range results {
		require.NoError(t, f.File(r))
	}

	require.NoError(t, f.Summary(report.Summarize(results)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var file struct {
		Action      string `json:"action"`
		File        string `json:"file"`
		Diagnostics []struct {
			Line     int    `json:"line"`
			Column   int    `json:"column"`
			Severity string `json:"severity"`
			Code     string `json:"code"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &file))

	assert.Equal(t, "file", file.Action)
	assert.Equal(t, "main.art", file.File)
	require.Len(t, file.Diagnostics, 2)
	assert.Equal(t, 3, file.Diagnostics[0].Line)
	assert.Equal(t, 6, file.Diagnostics[0].Column)
	assert.Equal(t, "error", file.Diagnostics[0].Severity)
	assert.Equal(t, "type-mismatch", file.Diagnostics[0].Code)

	assert.JSONEq(t, `{"action":"file","file":"clean.art","diagnostics":[]}`, lines[1])
	assert.Contains(t, lines[2], `"error":"no such file"`)
	assert.JSONEq(t,
		`{"action":"summary","files":3,"errors":1,"warnings":1,"infos":0,"failed":1,"ok":false}`,
		lines[3])
}

func TestColorEnabled(t *testing.T) {
	t.Parallel()

	assert.False(t, report.ColorEnabled(&bytes.Buffer{}))
}
